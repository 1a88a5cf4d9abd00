package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/layoutcheck/internal/check"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Verdict is the one-line conformance sentence.
func Verdict(o *check.Outcome) string {
	if o.Conforms() {
		return fmt.Sprintf("File %s conforms to the reference file", o.DisplayName())
	}
	return fmt.Sprintf("File %s does not conform to the reference file", o.DisplayName())
}

// Text renders the outcome for a terminal: the parameter dictionary, the
// verdict, then one line per mismatch.
func Text(o *check.Outcome) string {
	var sb strings.Builder
	params := o.Candidate.Params()

	sb.WriteString("Document parameters:\n")
	for _, k := range params.Keys() {
		fmt.Fprintf(&sb, "  %s: %s\n", k, params[k].Value)
	}
	sb.WriteString("\n")
	sb.WriteString(Verdict(o))
	sb.WriteString("\n")
	for _, d := range o.Result.Diagnostics {
		fmt.Fprintf(&sb, "  - %s\n", d.String())
	}
	return sb.String()
}

// Markdown renders the outcome as a Markdown document with a parameters
// table and a list of mismatches.
func Markdown(o *check.Outcome) string {
	var sb strings.Builder
	params := o.Candidate.Params()

	fmt.Fprintf(&sb, "# Layout check: %s\n\n", escape(filepath.Base(o.DisplayName())))
	fmt.Fprintf(&sb, "**%s**\n\n", escape(Verdict(o)))

	sb.WriteString("## Parameters\n\n")
	sb.WriteString("| Key | Value | Block | Line | x0 | y0 | x1 | y1 |\n")
	sb.WriteString("| --- | --- | ---: | ---: | ---: | ---: | ---: | ---: |\n")
	for _, k := range params.Keys() {
		p := params[k]
		fmt.Fprintf(&sb, "| %s | %s | %d | %d | %.2f | %.2f | %.2f | %.2f |\n",
			escape(k), escape(p.Value), p.Position.Block, p.Position.Line,
			p.Coord.X0, p.Coord.Y0, p.Coord.X1, p.Coord.Y1)
	}

	if len(o.Result.Diagnostics) > 0 {
		sb.WriteString("\n## Mismatches\n\n")
		for _, d := range o.Result.Diagnostics {
			fmt.Fprintf(&sb, "- `%s` %s\n", d.Reason, escape(d.String()))
		}
	}
	return sb.String()
}

// HTML converts the Markdown report with goldmark.
func HTML(o *check.Outcome) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(o)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	"\n", " ",
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
