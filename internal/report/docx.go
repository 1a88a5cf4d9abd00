package report

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/dgallion1/layoutcheck/internal/check"
	"github.com/fumiama/go-docx"
)

// DOCXContentType is the media type of DOCX output.
const DOCXContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DOCX renders the outcome as a Word document: title, verdict, one paragraph
// per parameter, then the mismatches.
func DOCX(o *check.Outcome) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	w.AddParagraph().AddText("Layout check: " + filepath.Base(o.DisplayName())).Size("32").Bold()
	w.AddParagraph().AddText(Verdict(o)).Bold()

	params := o.Candidate.Params()
	w.AddParagraph().AddText("Parameters").Size("26").Bold()
	for _, k := range params.Keys() {
		p := params[k]
		para := w.AddParagraph()
		para.AddText(k + ": ").Bold()
		para.AddText(fmt.Sprintf("%s (block %d, line %d, box %.2f %.2f %.2f %.2f)",
			p.Value, p.Position.Block, p.Position.Line,
			p.Coord.X0, p.Coord.Y0, p.Coord.X1, p.Coord.Y1))
	}

	if len(o.Result.Diagnostics) > 0 {
		w.AddParagraph().AddText("Mismatches").Size("26").Bold()
		for _, d := range o.Result.Diagnostics {
			w.AddParagraph().AddText(fmt.Sprintf("[%s] %s", d.Reason, d.String()))
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render docx report: %w", err)
	}
	return buf.Bytes(), nil
}
