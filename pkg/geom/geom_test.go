package geom

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestAxisAngle(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec
		want     float64
	}{
		{"already aligned", Vec{X: 1}, Vec{X: 1}, 0},
		{"opposite direction is aligned", Vec{X: 1}, Vec{X: -1}, 0},
		{"small ccw", Vec{X: 1}, Vec{X: math.Cos(0.1), Y: math.Sin(0.1)}, 0.1},
		{"small cw", Vec{X: 1}, Vec{X: math.Cos(-0.1), Y: math.Sin(-0.1)}, -0.1},
		{"obtuse folds to acute", Vec{X: 1}, Vec{X: math.Cos(2.0), Y: math.Sin(2.0)}, 2.0 - math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AxisAngle(tt.from, tt.to)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("AxisAngle() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLineProjection(t *testing.T) {
	l := NewLine(Vec{X: 0, Y: 0}, Vec{X: 10, Y: 0})

	if got := l.Project(Vec{X: -5, Y: 3}); cmp.Diff(Vec{X: -5, Y: 0}, got, approx) != "" {
		t.Errorf("Project() = %v, want unclamped (-5,0)", got)
	}
	if got := l.Closest(Vec{X: -5, Y: 3}); cmp.Diff(Vec{X: 0, Y: 0}, got, approx) != "" {
		t.Errorf("Closest() = %v, want clamped (0,0)", got)
	}
	if got := l.Distance(Vec{X: 5, Y: 3}); math.Abs(got-3) > 1e-12 {
		t.Errorf("Distance() = %f, want 3", got)
	}
	if !l.Contains(Vec{X: 4, Y: 0}) {
		t.Error("Contains() = false for a point on the segment")
	}
	if l.Contains(Vec{X: 11, Y: 0}) {
		t.Error("Contains() = true for a point past the end")
	}
}

func TestLineParallelPerpendicular(t *testing.T) {
	a := NewLine(Vec{}, Vec{X: 1})
	b := NewLine(Vec{Y: 1}, Vec{X: -3, Y: 1})
	c := NewLine(Vec{}, Vec{Y: 2})

	if !a.IsParallel(b, ParallelEpsilon) {
		t.Error("anti-parallel lines should be parallel")
	}
	if a.IsParallel(c, ParallelEpsilon) {
		t.Error("perpendicular lines reported parallel")
	}
	if !a.IsPerpendicular(c, ParallelEpsilon) {
		t.Error("IsPerpendicular() = false, want true")
	}
	if a.IsParallel(NewLine(Vec{}, Vec{}), ParallelEpsilon) {
		t.Error("degenerate line reported parallel")
	}
}

func TestLineIntersect(t *testing.T) {
	a := NewLine(Vec{X: 0, Y: 0}, Vec{X: 4, Y: 0}).Extend(100)
	b := NewLine(Vec{X: 2, Y: 5}, Vec{X: 2, Y: 9}).Extend(100)

	p, ok := a.IntersectSegment(b)
	if !ok {
		t.Fatal("extended segments should intersect")
	}
	if diff := cmp.Diff(Vec{X: 2, Y: 0}, p, approx); diff != "" {
		t.Errorf("IntersectSegment() mismatch (-want +got):\n%s", diff)
	}

	short := NewLine(Vec{X: 2, Y: 5}, Vec{X: 2, Y: 9})
	if _, ok := NewLine(Vec{}, Vec{X: 4}).IntersectSegment(short); ok {
		t.Error("unextended segments should not intersect")
	}
	if _, ok := a.Intersect(TransformLine(a, sdf.Translate2d(Vec{Y: 1}))); ok {
		t.Error("parallel lines should not intersect")
	}
}

func TestArcContains(t *testing.T) {
	// Quarter arc from 0 to 90 degrees.
	arc := Arc{Center: Vec{}, Radius: 2, StartAngle: 0, Sweep: math.Pi / 2}

	tests := []struct {
		name string
		p    Vec
		want bool
	}{
		{"start", Vec{X: 2}, true},
		{"end", Vec{Y: 2}, true},
		{"inside span", Vec{X: math.Sqrt2, Y: math.Sqrt2}, true},
		{"outside span", Vec{X: -2}, false},
		{"off circle", Vec{X: 1, Y: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := arc.ContainsPoint(tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	cw := arc.Reverse()
	if !cw.ContainsPoint(Vec{X: math.Sqrt2, Y: math.Sqrt2}) {
		t.Error("reversed arc lost an interior point")
	}
	if diff := cmp.Diff(arc.End(), cw.Start(), approx); diff != "" {
		t.Errorf("reversed start mismatch (-want +got):\n%s", diff)
	}
}

func TestArcIntersectSegment(t *testing.T) {
	arc := Arc{Center: Vec{}, Radius: 1, StartAngle: 0, Sweep: math.Pi}

	hits := arc.IntersectSegment(NewLine(Vec{X: 0, Y: 5}, Vec{}))
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit on upper half arc, got %d", len(hits))
	}
	if diff := cmp.Diff(Vec{Y: 1}, hits[0], approx); diff != "" {
		t.Errorf("hit mismatch (-want +got):\n%s", diff)
	}

	if hits := arc.IntersectSegment(NewLine(Vec{Y: -5}, Vec{})); len(hits) != 0 {
		t.Errorf("expected no hit on the lower half, got %v", hits)
	}
}

func TestLoopOrientation(t *testing.T) {
	square := Loop{Points: []Vec{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}}
	if square.IsCCW() {
		t.Fatal("clockwise square reported CCW")
	}
	ccw := square.CCW()
	if !ccw.IsCCW() {
		t.Error("CCW() did not flip winding")
	}
	if got := ccw.SignedArea(); math.Abs(got-1) > 1e-12 {
		t.Errorf("SignedArea() = %f, want 1", got)
	}
	if !ccw.Contains(Vec{X: 0.5, Y: 0.5}) {
		t.Error("Contains() = false for center")
	}
	if ccw.Contains(Vec{X: 2, Y: 0.5}) {
		t.Error("Contains() = true for outside point")
	}

	bb := ccw.Bounds()
	if diff := cmp.Diff(Vec{X: 1, Y: 1}, bb.Max, approx); diff != "" {
		t.Errorf("Bounds().Max mismatch (-want +got):\n%s", diff)
	}
}

func TestNewLoopChainsCurves(t *testing.T) {
	// Edges given out of order and one reversed.
	curves := []Curve{
		NewLine(Vec{X: 0, Y: 0}, Vec{X: 1, Y: 0}),
		NewLine(Vec{X: 1, Y: 1}, Vec{X: 0, Y: 1}),
		NewLine(Vec{X: 1, Y: 1}, Vec{X: 1, Y: 0}),
		NewLine(Vec{X: 0, Y: 1}, Vec{X: 0, Y: 0}),
	}
	loop := NewLoop(curves, 0)

	want := []Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	if diff := cmp.Diff(want, loop.Points, approx); diff != "" {
		t.Errorf("NewLoop() mismatch (-want +got):\n%s", diff)
	}
	if len(loop.Edges()) != 4 {
		t.Errorf("Edges() = %d, want 4", len(loop.Edges()))
	}
}

func TestNewLoopFlattensArcs(t *testing.T) {
	curves := []Curve{
		Arc{Center: Vec{}, Radius: 1, StartAngle: 0, Sweep: math.Pi},
		NewLine(Vec{X: -1}, Vec{X: 1}),
	}
	loop := NewLoop(curves, 8)
	// Eight arc vertices plus the far end of the arc, where the closing line starts.
	if loop.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", loop.Len())
	}
	if !loop.IsCCW() {
		t.Error("upper half disc should wind CCW")
	}
}

func TestRotatePoint(t *testing.T) {
	got := RotatePoint(Vec{X: 2, Y: 1}, Vec{X: 1, Y: 1}, math.Pi/2)
	if diff := cmp.Diff(Vec{X: 1, Y: 2}, got, approx); diff != "" {
		t.Errorf("RotatePoint() mismatch (-want +got):\n%s", diff)
	}
	if got := Degrees(Radians(30)); math.Abs(got-30) > 1e-12 {
		t.Errorf("Degrees(Radians(30)) = %f", got)
	}
}
