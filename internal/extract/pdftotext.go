package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/layoutcheck/internal/layout"
	"golang.org/x/net/html"
)

// parseBBoxLayout reads the XHTML written by `pdftotext -bbox-layout` and
// returns the <block> elements of the first <page>. Coordinates are already
// top-left based.
func parseBBoxLayout(src []byte) ([]layout.TextBlock, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse bbox layout: %w", err)
	}
	page := findElement(doc, "page")
	if page == nil {
		return nil, fmt.Errorf("parse bbox layout: no page element")
	}

	var blocks []layout.TextBlock
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "block" {
			box, err := attrBBox(n)
			if err != nil {
				return
			}
			var lines []string
			for _, ln := range findAll(n, "line") {
				var words []string
				for _, w := range findAll(ln, "word") {
					if t := textContent(w); t != "" {
						words = append(words, t)
					}
				}
				if len(words) > 0 {
					lines = append(lines, strings.Join(words, " "))
				}
			}
			if len(lines) == 0 {
				return
			}
			blocks = append(blocks, layout.TextBlock{
				BBox:  box,
				Text:  blockText(lines),
				Index: len(blocks),
			})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(page)
	return blocks, nil
}

func attrBBox(n *html.Node) (layout.BBox, error) {
	var vals [4]float64
	for i, name := range []string{"xmin", "ymin", "xmax", "ymax"} {
		raw := attr(n, name)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return layout.BBox{}, fmt.Errorf("attribute %s=%q: %w", name, raw, err)
		}
		vals[i] = v
	}
	return layout.BBox{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findElement(c, tag); f != nil {
			return f
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
			continue
		}
		out = append(out, findAll(c, tag)...)
	}
	return out
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
