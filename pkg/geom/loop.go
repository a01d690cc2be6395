package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// Loop is a closed polyline. The last point connects back to the first.
type Loop struct {
	Points []Vec
}

// DefaultArcSamples is the number of segments used when an arc is
// flattened into a loop.
const DefaultArcSamples = 16

// NewLoop chains curves end to start into a closed polyline. Curves are
// reversed where that makes them connect; curves that never connect are
// appended in input order. Arcs are flattened into arcSamples segments.
func NewLoop(curves []Curve, arcSamples int) Loop {
	if len(curves) == 0 {
		return Loop{}
	}
	if arcSamples < 1 {
		arcSamples = DefaultArcSamples
	}

	remaining := append([]Curve(nil), curves...)
	chain := []Curve{remaining[0]}
	remaining = remaining[1:]
	for len(remaining) > 0 {
		tail := chain[len(chain)-1].End()
		found := -1
		for i, c := range remaining {
			if Near(c.Start(), tail) {
				found = i
				break
			}
			if Near(c.End(), tail) {
				remaining[i] = reverseCurve(c)
				found = i
				break
			}
		}
		if found < 0 {
			found = 0
		}
		chain = append(chain, remaining[found])
		remaining = append(remaining[:found], remaining[found+1:]...)
	}

	var pts []Vec
	for _, c := range chain {
		switch c := c.(type) {
		case Line:
			pts = appendPoint(pts, c.A)
		case Arc:
			samples := c.Sample(arcSamples)
			for _, p := range samples[:len(samples)-1] {
				pts = appendPoint(pts, p)
			}
		}
	}
	if len(pts) > 1 && Near(pts[0], pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	return Loop{Points: pts}
}

func appendPoint(pts []Vec, p Vec) []Vec {
	if len(pts) > 0 && Near(pts[len(pts)-1], p) {
		return pts
	}
	return append(pts, p)
}

func reverseCurve(c Curve) Curve {
	switch c := c.(type) {
	case Line:
		return c.Reverse()
	case Arc:
		return c.Reverse()
	}
	return c
}

// Len returns the number of vertices.
func (l Loop) Len() int {
	return len(l.Points)
}

// SignedArea returns the shoelace area; positive for counter-clockwise.
func (l Loop) SignedArea() float64 {
	var sum float64
	n := len(l.Points)
	for i := 0; i < n; i++ {
		sum += Cross(l.Points[i], l.Points[(i+1)%n])
	}
	return sum / 2
}

// IsCCW reports whether the loop winds counter-clockwise.
func (l Loop) IsCCW() bool {
	return l.SignedArea() > 0
}

// Reversed returns the loop with its winding flipped.
func (l Loop) Reversed() Loop {
	pts := make([]Vec, len(l.Points))
	for i, p := range l.Points {
		pts[len(pts)-1-i] = p
	}
	return Loop{Points: pts}
}

// CCW returns the loop wound counter-clockwise.
func (l Loop) CCW() Loop {
	if l.IsCCW() {
		return l
	}
	return l.Reversed()
}

// Edges returns the closing sequence of segments.
func (l Loop) Edges() []Line {
	n := len(l.Points)
	if n < 2 {
		return nil
	}
	edges := make([]Line, n)
	for i := range l.Points {
		edges[i] = Line{A: l.Points[i], B: l.Points[(i+1)%n]}
	}
	return edges
}

// Bounds returns the axis-aligned bounding box of the loop.
func (l Loop) Bounds() sdf.Box2 {
	if len(l.Points) == 0 {
		return sdf.Box2{}
	}
	lo := Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range l.Points {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return sdf.Box2{Min: lo, Max: hi}
}

// Contains reports whether p is strictly inside the loop. The test
// evaluates the signed distance field of the polygon.
func (l Loop) Contains(p Vec) bool {
	if len(l.Points) < 3 {
		return false
	}
	s, err := sdf.Polygon2D(l.Points)
	if err != nil {
		return false
	}
	return s.Evaluate(p) < 0
}
