package layout

import (
	"fmt"
	"math"
)

// DefaultAllowDiff is the per-axis coordinate tolerance. Re-saving an
// unchanged file shifts block coordinates slightly.
const DefaultAllowDiff = 0.5

// Reason says which check a reference parameter failed.
type Reason string

const (
	ReasonMissing     Reason = "missing"
	ReasonPosition    Reason = "position"
	ReasonCoordinates Reason = "coordinates"
)

// Diagnostic describes the first mismatch found for one reference key.
type Diagnostic struct {
	Key       string     `json:"key"`
	Reason    Reason     `json:"reason"`
	Reference Parameter  `json:"reference"`
	Candidate *Parameter `json:"candidate,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Reason {
	case ReasonMissing:
		return fmt.Sprintf("parameter %q is present in the reference but missing from the candidate", d.Key)
	case ReasonPosition:
		return fmt.Sprintf("parameter %q is at position (%d, %d), reference has (%d, %d)",
			d.Key, d.Candidate.Position.Block, d.Candidate.Position.Line,
			d.Reference.Position.Block, d.Reference.Position.Line)
	case ReasonCoordinates:
		c, r := d.Candidate.Coord, d.Reference.Coord
		return fmt.Sprintf("block coordinates of parameter %q differ from the reference: (%.2f, %.2f, %.2f, %.2f) vs (%.2f, %.2f, %.2f, %.2f)",
			d.Key, c.X0, c.Y0, c.X1, c.Y1, r.X0, r.Y0, r.X1, r.Y1)
	}
	return fmt.Sprintf("parameter %q: %s", d.Key, d.Reason)
}

// CompareOptions configures Compare.
type CompareOptions struct {
	AllowDiff   float64 // Coordinate tolerance; <= 0 means DefaultAllowDiff.
	StopAtFirst bool    // Stop after the first failing reference key.
}

// DefaultCompareOptions returns the default tolerance, reporting every key.
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{AllowDiff: DefaultAllowDiff}
}

// Result is the outcome of a comparison.
type Result struct {
	Equivalent  bool         `json:"equivalent"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Compare reports whether candidate conforms to reference. Only keys of the
// reference are checked, in document order: presence, then exact position,
// then coordinates within tolerance. Keys found only in candidate are ignored.
func Compare(candidate, reference ParameterMap, opts CompareOptions) Result {
	tol := opts.AllowDiff
	if tol <= 0 {
		tol = DefaultAllowDiff
	}

	res := Result{Diagnostics: []Diagnostic{}}
	for _, key := range reference.Keys() {
		ref := reference[key]
		d, ok := checkParameter(key, candidate, ref, tol)
		if ok {
			continue
		}
		res.Diagnostics = append(res.Diagnostics, d)
		if opts.StopAtFirst {
			break
		}
	}
	res.Equivalent = len(res.Diagnostics) == 0
	return res
}

func checkParameter(key string, candidate ParameterMap, ref Parameter, tol float64) (Diagnostic, bool) {
	cand, ok := candidate[key]
	if !ok {
		return Diagnostic{Key: key, Reason: ReasonMissing, Reference: ref}, false
	}
	if cand.Position != ref.Position {
		return Diagnostic{Key: key, Reason: ReasonPosition, Reference: ref, Candidate: &cand}, false
	}
	if !WithinTolerance(cand.Coord, ref.Coord, tol) {
		return Diagnostic{Key: key, Reason: ReasonCoordinates, Reference: ref, Candidate: &cand}, false
	}
	return Diagnostic{}, true
}

// WithinTolerance reports whether every component differs by strictly less
// than tol.
func WithinTolerance(a, b BBox, tol float64) bool {
	ac, bc := a.Components(), b.Components()
	for i := range ac {
		if !(math.Abs(ac[i]-bc[i]) < tol) {
			return false
		}
	}
	return true
}
