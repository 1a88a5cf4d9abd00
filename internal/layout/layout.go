package layout

import (
	"sort"
)

// Reserved keys produced for lines that carry no separator.
const (
	HeaderKey = "header"
	NotesKey  = "NOTES"
	NotKeyKey = "not_key"
)

// BBox is a bounding box in page points, origin top-left.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Components returns the box as (x0, y0, x1, y1).
func (b BBox) Components() [4]float64 {
	return [4]float64{b.X0, b.Y0, b.X1, b.Y1}
}

// TextBlock is one region of text on the first page.
type TextBlock struct {
	BBox  BBox
	Text  string // Raw payload, lines separated by '\n'
	Index int    // Document order, 0-based
}

// Position locates a parameter: block index, then line index within the block.
type Position struct {
	Block int `json:"block"`
	Line  int `json:"line"`
}

// Less orders positions in document order.
func (p Position) Less(o Position) bool {
	if p.Block != o.Block {
		return p.Block < o.Block
	}
	return p.Line < o.Line
}

// Parameter is one key/value pair extracted from a block.
type Parameter struct {
	Key      string   `json:"key"`
	Value    string   `json:"value"`
	Coord    BBox     `json:"coord"`
	Position Position `json:"position"`
}

// ParameterMap maps a key to its parameter. A later duplicate key overwrites
// an earlier one; comparison relies on that last-write-wins behaviour.
type ParameterMap map[string]Parameter

// Keys returns the keys in document order.
func (m ParameterMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := m[keys[i]].Position, m[keys[j]].Position
		if pi == pj {
			return keys[i] < keys[j]
		}
		return pi.Less(pj)
	})
	return keys
}

// Values projects the map to key -> value, dropping coordinates and positions.
func (m ParameterMap) Values() map[string]string {
	out := make(map[string]string, len(m))
	for k, p := range m {
		out[k] = p.Value
	}
	return out
}

// Clone returns a shallow copy; Parameter holds no references.
func (m ParameterMap) Clone() ParameterMap {
	out := make(ParameterMap, len(m))
	for k, p := range m {
		out[k] = p
	}
	return out
}
