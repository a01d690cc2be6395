package geom

import "math"

// Line is a bounded segment from A to B.
type Line struct {
	A, B Vec
}

// NewLine returns the segment a->b.
func NewLine(a, b Vec) Line {
	return Line{A: a, B: b}
}

func (Line) curve() {}

// Start returns A.
func (l Line) Start() Vec { return l.A }

// End returns B.
func (l Line) End() Vec { return l.B }

// Mid returns the midpoint of the segment.
func (l Line) Mid() Vec {
	return l.A.Add(l.B).MulScalar(0.5)
}

// Vector returns B - A.
func (l Line) Vector() Vec {
	return l.B.Sub(l.A)
}

// Direction returns the unit direction A->B, or the zero vector for a
// degenerate segment.
func (l Line) Direction() Vec {
	return Unit(l.Vector())
}

// Length returns the segment length.
func (l Line) Length() float64 {
	return l.Vector().Length()
}

// Degenerate reports whether the segment has (near) zero length.
func (l Line) Degenerate() bool {
	return l.Length() < PointEpsilon
}

// Param returns the parameter t of the projection of p onto the
// supporting line, with A at t=0 and B at t=1.
func (l Line) Param(p Vec) float64 {
	d := l.Vector()
	l2 := d.Dot(d)
	if l2 < PointEpsilon*PointEpsilon {
		return 0
	}
	return p.Sub(l.A).Dot(d) / l2
}

// At returns the point at parameter t.
func (l Line) At(t float64) Vec {
	return l.A.Add(l.Vector().MulScalar(t))
}

// Project returns the orthogonal projection of p onto the infinite
// supporting line. The result is not clamped to the segment.
func (l Line) Project(p Vec) Vec {
	return l.At(l.Param(p))
}

// Closest returns the point of the segment nearest to p.
func (l Line) Closest(p Vec) Vec {
	t := math.Max(0, math.Min(1, l.Param(p)))
	return l.At(t)
}

// Contains reports whether p lies on the segment within PointEpsilon.
func (l Line) Contains(p Vec) bool {
	return Near(l.Closest(p), p)
}

// Distance returns the distance from p to the segment.
func (l Line) Distance(p Vec) float64 {
	return l.Closest(p).Sub(p).Length()
}

// LineDistance returns the distance from p to the infinite supporting line.
func (l Line) LineDistance(p Vec) float64 {
	return l.Project(p).Sub(p).Length()
}

// Extend returns the segment lengthened by d at both ends.
func (l Line) Extend(d float64) Line {
	u := l.Direction()
	return Line{A: l.A.Sub(u.MulScalar(d)), B: l.B.Add(u.MulScalar(d))}
}

// Reverse returns the segment B->A.
func (l Line) Reverse() Line {
	return Line{A: l.B, B: l.A}
}

// IsParallel reports whether l and o have parallel directions within eps.
// Degenerate segments are never parallel.
func (l Line) IsParallel(o Line, eps float64) bool {
	if l.Degenerate() || o.Degenerate() {
		return false
	}
	return Zero(Cross(l.Direction(), o.Direction()), eps)
}

// IsPerpendicular reports whether l and o are perpendicular within eps.
func (l Line) IsPerpendicular(o Line, eps float64) bool {
	if l.Degenerate() || o.Degenerate() {
		return false
	}
	return Zero(l.Direction().Dot(o.Direction()), eps)
}

// Intersect returns the intersection of the infinite supporting lines of
// l and o. ok is false when they are parallel.
func (l Line) Intersect(o Line) (p Vec, ok bool) {
	d1, d2 := l.Vector(), o.Vector()
	den := Cross(d1, d2)
	if Zero(den, PointEpsilon*PointEpsilon) {
		return Vec{}, false
	}
	t := Cross(o.A.Sub(l.A), d2) / den
	return l.At(t), true
}

// IntersectSegment returns the intersection point of the two bounded
// segments, if any.
func (l Line) IntersectSegment(o Line) (Vec, bool) {
	p, ok := l.Intersect(o)
	if !ok {
		return Vec{}, false
	}
	if !l.Contains(p) || !o.Contains(p) {
		return Vec{}, false
	}
	return p, true
}
