package layout

import (
	"strings"
	"testing"
)

func nameRef() ParameterMap {
	return ParameterMap{
		"Name": {Key: "Name", Value: "X", Coord: box(0, 0, 10, 10), Position: Position{Block: 1, Line: 0}},
	}
}

func withName(coord BBox, pos Position) ParameterMap {
	return ParameterMap{
		"Name": {Key: "Name", Value: "X", Coord: coord, Position: pos},
	}
}

func TestCompare_Mismatches(t *testing.T) {
	tests := []struct {
		name       string
		candidate  ParameterMap
		equivalent bool
		reason     Reason
		mentions   string
	}{
		{
			name:       "coordinates within tolerance",
			candidate:  withName(box(0, 0, 10.4, 10), Position{Block: 1}),
			equivalent: true,
		},
		{
			name:       "coordinates beyond tolerance",
			candidate:  withName(box(0, 0, 10.6, 10), Position{Block: 1}),
			equivalent: false,
			reason:     ReasonCoordinates,
			mentions:   "coordinates",
		},
		{
			name:       "missing parameter",
			candidate:  ParameterMap{},
			equivalent: false,
			reason:     ReasonMissing,
			mentions:   "missing",
		},
		{
			name:       "ordering mismatch",
			candidate:  withName(box(0, 0, 10, 10), Position{Block: 2}),
			equivalent: false,
			reason:     ReasonPosition,
			mentions:   "position",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Compare(tc.candidate, nameRef(), DefaultCompareOptions())
			if res.Equivalent != tc.equivalent {
				t.Fatalf("expected equivalent=%v, got %v (%v)", tc.equivalent, res.Equivalent, res.Diagnostics)
			}
			if tc.equivalent {
				if len(res.Diagnostics) != 0 {
					t.Errorf("expected no diagnostics, got %v", res.Diagnostics)
				}
				return
			}
			if len(res.Diagnostics) != 1 {
				t.Fatalf("expected 1 diagnostic, got %d", len(res.Diagnostics))
			}
			d := res.Diagnostics[0]
			if d.Key != "Name" || d.Reason != tc.reason {
				t.Errorf("expected Name/%s, got %s/%s", tc.reason, d.Key, d.Reason)
			}
			msg := d.String()
			if !strings.Contains(msg, `"Name"`) || !strings.Contains(msg, tc.mentions) {
				t.Errorf("diagnostic %q should cite key and %q", msg, tc.mentions)
			}
		})
	}
}

func TestCompare_ToleranceBoundary(t *testing.T) {
	ref := withName(box(0, 0, 10, 10), Position{Block: 1})

	exact := withName(box(0.5, 0, 10, 10), Position{Block: 1})
	if Compare(exact, ref, DefaultCompareOptions()).Equivalent {
		t.Error("expected a difference of exactly 0.5 to fail")
	}

	inside := withName(box(0.499, 0, 10, 10), Position{Block: 1})
	if !Compare(inside, ref, DefaultCompareOptions()).Equivalent {
		t.Error("expected a difference of 0.499 to pass")
	}

	negative := withName(box(0, -0.5, 10, 10), Position{Block: 1})
	if Compare(negative, ref, DefaultCompareOptions()).Equivalent {
		t.Error("expected a difference of -0.5 to fail")
	}
}

func TestCompare_Asymmetric(t *testing.T) {
	ref := nameRef()
	cand := nameRef()
	cand["Extra"] = Parameter{Key: "Extra", Value: "y", Position: Position{Block: 5}}

	if !Compare(cand, ref, DefaultCompareOptions()).Equivalent {
		t.Error("expected extra candidate keys to be ignored")
	}
	res := Compare(ref, cand, DefaultCompareOptions())
	if res.Equivalent {
		t.Error("expected reversed comparison to fail on the extra key")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Key != "Extra" {
		t.Errorf("expected diagnostic for Extra, got %v", res.Diagnostics)
	}
}

func TestCompare_CheckOrderPresenceThenPosition(t *testing.T) {
	// Position mismatch is reported even when coordinates are also off.
	cand := withName(box(100, 100, 200, 200), Position{Block: 3})
	res := Compare(cand, nameRef(), DefaultCompareOptions())
	if res.Diagnostics[0].Reason != ReasonPosition {
		t.Errorf("expected position reason first, got %s", res.Diagnostics[0].Reason)
	}
}

func TestCompare_DiagnosticsInDocumentOrder(t *testing.T) {
	ref := ParameterMap{
		"C": {Key: "C", Position: Position{Block: 3}},
		"A": {Key: "A", Position: Position{Block: 1}},
		"B": {Key: "B", Position: Position{Block: 2}},
	}
	res := Compare(ParameterMap{}, ref, DefaultCompareOptions())
	if len(res.Diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(res.Diagnostics))
	}
	for i, want := range []string{"A", "B", "C"} {
		if res.Diagnostics[i].Key != want {
			t.Errorf("diagnostic[%d]: expected %q, got %q", i, want, res.Diagnostics[i].Key)
		}
	}

	first := Compare(ParameterMap{}, ref, CompareOptions{StopAtFirst: true})
	if len(first.Diagnostics) != 1 || first.Diagnostics[0].Key != "A" {
		t.Errorf("expected only A with StopAtFirst, got %v", first.Diagnostics)
	}
}

func TestCompare_CustomTolerance(t *testing.T) {
	cand := withName(box(0, 0, 11, 10), Position{Block: 1})
	if !Compare(cand, nameRef(), CompareOptions{AllowDiff: 2}).Equivalent {
		t.Error("expected 1.0 difference to pass with tolerance 2")
	}
}

func TestCompare_EmptyReference(t *testing.T) {
	res := Compare(nameRef(), ParameterMap{}, DefaultCompareOptions())
	if !res.Equivalent {
		t.Error("expected empty reference to accept any candidate")
	}
	if res.Diagnostics == nil {
		t.Error("expected non-nil diagnostics slice")
	}
}

func TestWithinTolerance(t *testing.T) {
	a := box(1, 2, 3, 4)
	if !WithinTolerance(a, a, 0.5) {
		t.Error("expected identical boxes to match")
	}
	if WithinTolerance(a, box(1, 2, 3, 5), 0.5) {
		t.Error("expected y1 difference to fail")
	}
}
