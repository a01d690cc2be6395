package geom

import "math"

// Circle is a full circle.
type Circle struct {
	Center Vec
	Radius float64
}

// Project returns the point of the circle nearest to p. ok is false when
// p is the center.
func (c Circle) Project(p Vec) (Vec, bool) {
	d := p.Sub(c.Center)
	if d.Length() < PointEpsilon {
		return Vec{}, false
	}
	return c.Center.Add(Unit(d).MulScalar(c.Radius)), true
}

// PointAt returns the circle point at angle a.
func (c Circle) PointAt(a float64) Vec {
	return Vec{X: c.Center.X + c.Radius*math.Cos(a), Y: c.Center.Y + c.Radius*math.Sin(a)}
}

// Sample returns n points evenly spaced counter-clockwise from angle 0.
func (c Circle) Sample(n int) []Vec {
	if n < 3 {
		n = 3
	}
	pts := make([]Vec, n)
	for i := range pts {
		pts[i] = c.PointAt(2 * math.Pi * float64(i) / float64(n))
	}
	return pts
}

// Arc is a bounded circular arc. It starts at angle StartAngle and sweeps
// Sweep radians; a positive sweep runs counter-clockwise.
type Arc struct {
	Center     Vec
	Radius     float64
	StartAngle float64
	Sweep      float64
}

func (Arc) curve() {}

// Circle returns the supporting circle.
func (a Arc) Circle() Circle {
	return Circle{Center: a.Center, Radius: a.Radius}
}

// Start returns the arc start point.
func (a Arc) Start() Vec {
	return a.Circle().PointAt(a.StartAngle)
}

// End returns the arc end point.
func (a Arc) End() Vec {
	return a.Circle().PointAt(a.StartAngle + a.Sweep)
}

// Mid returns the point halfway along the arc.
func (a Arc) Mid() Vec {
	return a.Circle().PointAt(a.StartAngle + a.Sweep/2)
}

// ContainsAngle reports whether angle t falls inside the swept span.
func (a Arc) ContainsAngle(t float64) bool {
	if math.Abs(a.Sweep) >= 2*math.Pi {
		return true
	}
	rel := NormalizeAngle(t - a.StartAngle)
	if a.Sweep >= 0 {
		if rel < 0 {
			rel += 2 * math.Pi
		}
		return rel <= a.Sweep+AngleEpsilon || rel >= 2*math.Pi-AngleEpsilon
	}
	if rel > 0 {
		rel -= 2 * math.Pi
	}
	return rel >= a.Sweep-AngleEpsilon || rel <= -2*math.Pi+AngleEpsilon
}

// ContainsPoint reports whether p lies on the arc: on the supporting
// circle and within the angular span.
func (a Arc) ContainsPoint(p Vec) bool {
	d := p.Sub(a.Center)
	if math.Abs(d.Length()-a.Radius) > PointEpsilon*math.Max(1, a.Radius) {
		return false
	}
	return a.ContainsAngle(Heading(d))
}

// IntersectSegment returns the points where segment l crosses the arc.
func (a Arc) IntersectSegment(l Line) []Vec {
	d := l.Vector()
	f := l.A.Sub(a.Center)
	qa := d.Dot(d)
	if qa < PointEpsilon*PointEpsilon {
		return nil
	}
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - a.Radius*a.Radius
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	var pts []Vec
	for _, t := range []float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		if t < -PointEpsilon || t > 1+PointEpsilon {
			continue
		}
		p := l.At(t)
		if !a.ContainsAngle(Heading(p.Sub(a.Center))) {
			continue
		}
		if len(pts) == 1 && Near(pts[0], p) {
			continue
		}
		pts = append(pts, p)
	}
	return pts
}

// Sample returns n+1 points along the arc from start to end.
func (a Arc) Sample(n int) []Vec {
	if n < 1 {
		n = 1
	}
	c := a.Circle()
	pts := make([]Vec, n+1)
	for i := range pts {
		pts[i] = c.PointAt(a.StartAngle + a.Sweep*float64(i)/float64(n))
	}
	return pts
}

// Reverse returns the same arc traversed end to start.
func (a Arc) Reverse() Arc {
	return Arc{Center: a.Center, Radius: a.Radius, StartAngle: a.StartAngle + a.Sweep, Sweep: -a.Sweep}
}
