package layout

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSeparator splits a line into key and value.
const DefaultSeparator = ":"

// ErrMissingNotesContext is returned when the last block holds an unkeyed
// line but no NOTES parameter was seen before it.
var ErrMissingNotesContext = errors.New("unkeyed trailing line without a preceding NOTES parameter")

// Parser converts first-page text blocks into a ParameterMap.
type Parser struct {
	Separator string // Defaults to DefaultSeparator when empty.
}

// Parse builds the parameter map for blocks given in document order.
//
// Lines without a separator are classified by the block they sit in: the
// first block yields the header, the last block overwrites the value of
// NOTES, and any other block overwrites not_key.
func (p Parser) Parse(blocks []TextBlock) (ParameterMap, error) {
	sep := p.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	data := make(ParameterMap)
	last := len(blocks) - 1

	for _, block := range blocks {
		for lineIdx, line := range blockLines(block.Text) {
			pos := Position{Block: block.Index, Line: lineIdx}

			key, value, keyed := splitLine(line, sep)
			if keyed {
				data[key] = Parameter{Key: key, Value: value, Coord: block.BBox, Position: pos}
				continue
			}

			switch block.Index {
			case 0:
				data[HeaderKey] = Parameter{Key: HeaderKey, Value: value, Coord: block.BBox, Position: pos}
			case last:
				notes, ok := data[NotesKey]
				if !ok {
					return nil, fmt.Errorf("block %d line %d %q: %w", block.Index, lineIdx, value, ErrMissingNotesContext)
				}
				notes.Value = value
				data[NotesKey] = notes
			default:
				data[NotKeyKey] = Parameter{Key: NotKeyKey, Value: value, Coord: block.BBox, Position: pos}
			}
		}
	}
	return data, nil
}

// Parse runs a Parser with the default separator.
func Parse(blocks []TextBlock) (ParameterMap, error) {
	return Parser{}.Parse(blocks)
}

// blockLines splits a payload into lines, dropping blank ones.
func blockLines(text string) []string {
	raw := strings.Split(strings.Trim(text, "\n"), "\n")
	lines := raw[:0]
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// splitLine splits on the first separator only, so values may contain it.
func splitLine(line, sep string) (key, value string, keyed bool) {
	parts := strings.SplitN(line, sep, 2)
	if len(parts) == 1 {
		return "", strings.TrimSpace(parts[0]), false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
