package snap

import (
	"math"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/floorsnap/pkg/geom"
)

// Default matcher settings.
const (
	DefaultExtendDistance = 1e4
	DefaultLoopHalfWidth  = 0.1
)

// Matcher compares master geometry against client geometry. A zero field
// falls back to its default.
type Matcher struct {
	AngleEpsilon    float64 // rotations smaller than this are no-ops (radians)
	ParallelEpsilon float64 // |sin| bound for parallel lines
	ExtendDistance  float64 // distance a line is extended to approximate its supporting line
	LoopHalfWidth   float64 // half width of the synthetic highlight rectangle
	ArcSamples      int     // segments per arc in highlight loops
}

// NewMatcher returns a matcher with default settings.
func NewMatcher() *Matcher {
	return &Matcher{
		AngleEpsilon:    geom.AngleEpsilon,
		ParallelEpsilon: geom.ParallelEpsilon,
		ExtendDistance:  DefaultExtendDistance,
		LoopHalfWidth:   DefaultLoopHalfWidth,
		ArcSamples:      geom.DefaultArcSamples,
	}
}

func (m *Matcher) angleEps() float64 {
	if m == nil || m.AngleEpsilon <= 0 {
		return geom.AngleEpsilon
	}
	return m.AngleEpsilon
}

func (m *Matcher) parallelEps() float64 {
	if m == nil || m.ParallelEpsilon <= 0 {
		return geom.ParallelEpsilon
	}
	return m.ParallelEpsilon
}

func (m *Matcher) extend() float64 {
	if m == nil || m.ExtendDistance <= 0 {
		return DefaultExtendDistance
	}
	return m.ExtendDistance
}

func (m *Matcher) halfWidth() float64 {
	if m == nil || m.LoopHalfWidth <= 0 {
		return DefaultLoopHalfWidth
	}
	return m.LoopHalfWidth
}

func (m *Matcher) arcSamples() int {
	if m == nil || m.ArcSamples <= 0 {
		return geom.DefaultArcSamples
	}
	return m.ArcSamples
}

// Match evaluates every (master, client) pair at the given intensity
// (world units) and returns the pairs that align. A geometry is never
// matched against itself.
func (m *Matcher) Match(masters, clients []*Geometry, intensity float64) []*Result {
	if len(masters) == 0 || len(clients) == 0 {
		return nil
	}
	var results []*Result
	for _, master := range masters {
		for _, client := range clients {
			if master == nil || client == nil || master == client {
				continue
			}
			if r := m.evaluate(master, client, intensity); r != nil {
				results = append(results, r)
			}
		}
	}
	return results
}

// Break re-evaluates one pair at the break tolerance of the given tier.
func (m *Matcher) Break(master, client *Geometry, tol Tolerance, mode BreakMode) *Result {
	if master == nil || client == nil || master == client {
		return nil
	}
	return m.evaluate(master, client, tol.Break(mode))
}

// Match runs a default Matcher.
func Match(masters, clients []*Geometry, intensity float64) []*Result {
	return NewMatcher().Match(masters, clients, intensity)
}

// Pair names a (master, client) combination of shape kinds.
type Pair struct {
	Master, Client ShapeKind
}

// UnsupportedPairs lists the shape combinations the matcher never
// evaluates.
var UnsupportedPairs = []Pair{
	{ArcShape, ArcShape},
	{ArcShape, PointShape},
	{PointShape, ArcShape},
	{PointShape, CircleShape},
	{CircleShape, PointShape},
	{ArcShape, LineShape},
	{ArcShape, CircleShape},
	{LineShape, PointShape},
}

// Supported reports whether the matcher has a rule for the pair.
func Supported(master, client Shape) bool {
	if master == nil || client == nil {
		return false
	}
	switch master.(type) {
	case Circle:
		switch client.(type) {
		case Circle, Arc, Line:
			return true
		}
	case Line:
		switch client.(type) {
		case Circle, Arc, Line:
			return true
		}
	case Point:
		switch client.(type) {
		case Line, Point:
			return true
		}
	}
	return false
}

func (m *Matcher) evaluate(master, client *Geometry, tol float64) *Result {
	switch ms := master.Shape.(type) {
	case Circle:
		switch cs := client.Shape.(type) {
		case Circle:
			return m.circleToCircle(master, client, ms, cs, tol)
		case Arc:
			return m.circleToArc(master, client, ms, cs, tol)
		case Line:
			return m.circleToLine(master, client, ms, cs, tol)
		}
	case Line:
		switch cs := client.Shape.(type) {
		case Circle:
			return m.lineToCircle(master, client, ms, cs, tol)
		case Arc:
			return m.lineToArc(master, client, ms, cs, tol)
		case Line:
			return m.lineToLine(master, client, ms, cs, tol)
		}
	case Point:
		switch cs := client.Shape.(type) {
		case Line:
			return m.pointToLine(master, client, ms, cs, tol)
		case Point:
			return m.pointToPoint(master, client, ms, cs, tol)
		}
	}
	// Listed in UnsupportedPairs.
	return nil
}

func (m *Matcher) circleToCircle(master, client *Geometry, a, b Circle, tol float64) *Result {
	d := b.Center.Sub(a.Center)
	if d.Length() < geom.PointEpsilon {
		return nil
	}
	gap := d.Length() - a.Radius - b.Radius
	if math.Abs(gap) >= tol {
		return nil
	}
	return newResult(master, client, geom.Unit(d).MulScalar(gap), Tangent)
}

func (m *Matcher) circleToArc(master, client *Geometry, a Circle, b Arc, tol float64) *Result {
	d := b.Center.Sub(a.Center)
	if d.Length() < geom.PointEpsilon {
		return nil
	}
	dir := geom.Unit(d)

	// Outer contact lies on the segment between the centers. When it falls
	// outside the arc's span the inner tangency may still hold.
	outer := d.Length() - a.Radius - b.Radius
	if math.Abs(outer) < tol && len(b.IntersectSegment(geom.NewLine(a.Center, b.Center))) > 0 {
		return newResult(master, client, dir.MulScalar(outer), Tangent)
	}

	inner := d.Length() + a.Radius - b.Radius
	if math.Abs(inner) < tol {
		contact, ok := b.Circle().Project(a.Center)
		if !ok || !b.ContainsPoint(contact) {
			return nil
		}
		return newResult(master, client, dir.MulScalar(inner), Tangent)
	}
	return nil
}

func (m *Matcher) circleToLine(master, client *Geometry, a Circle, b Line, tol float64) *Result {
	support := b.Extend(m.extend())
	gap := support.Distance(a.Center) - a.Radius
	if math.Abs(gap) >= tol {
		return nil
	}
	dir := geom.Unit(b.Project(a.Center).Sub(a.Center))
	if dir == (geom.Vec{}) {
		return nil
	}
	return newResult(master, client, dir.MulScalar(gap), Tangent)
}

// lineTangent computes the tangency offset moving line l onto circle c. It
// returns the projection of the center onto l for span checks.
func (m *Matcher) lineTangent(l geom.Line, c geom.Circle, tol float64) (offset, foot geom.Vec, ok bool) {
	support := l.Extend(m.extend())
	gap := support.Distance(c.Center) - c.Radius
	if math.Abs(gap) >= tol {
		return geom.Vec{}, geom.Vec{}, false
	}
	foot = l.Project(c.Center)
	if !l.Contains(foot) {
		return geom.Vec{}, geom.Vec{}, false
	}
	dir := geom.Unit(c.Center.Sub(foot))
	if dir == (geom.Vec{}) {
		return geom.Vec{}, geom.Vec{}, false
	}
	return dir.MulScalar(gap), foot, true
}

func (m *Matcher) lineToCircle(master, client *Geometry, a Line, b Circle, tol float64) *Result {
	offset, _, ok := m.lineTangent(a.Line, b.Circle, tol)
	if !ok {
		return nil
	}
	return newResult(master, client, offset, Tangent)
}

func (m *Matcher) lineToArc(master, client *Geometry, a Line, b Arc, tol float64) *Result {
	offset, foot, ok := m.lineTangent(a.Line, b.Circle(), tol)
	if !ok {
		return nil
	}
	contact, ok := b.Circle().Project(foot)
	if !ok || !b.ContainsPoint(contact) {
		return nil
	}
	return newResult(master, client, offset, Tangent)
}

func (m *Matcher) lineToLine(master, client *Geometry, a, b Line, tol float64) *Result {
	if !a.IsParallel(b.Line, m.parallelEps()) {
		return nil
	}
	gap := b.Extend(m.extend()).LineDistance(a.Extend(m.extend()).A)
	if math.Abs(gap) >= tol {
		return nil
	}
	offset := b.Project(a.A).Sub(a.A)
	if offset.Length() > tol {
		return nil
	}
	return newResult(master, client, offset, Collinear)
}

func (m *Matcher) pointToPoint(master, client *Geometry, a, b Point, tol float64) *Result {
	offset := b.At.Sub(a.At)
	if offset.Length() >= tol {
		return nil
	}
	return newResult(master, client, offset, Overlap)
}

func (m *Matcher) pointToLine(master, client *Geometry, a Point, b Line, tol float64) *Result {
	if master.Role == CenterPoint || client.Role == CenterLine {
		return nil
	}
	if b.Distance(a.At) >= tol {
		return nil
	}
	related := master.RelatedLines()
	if len(related) == 0 {
		return nil
	}

	offset := b.Project(a.At).Sub(a.At)
	pivot := a.At.Add(offset)
	target := b.Direction()

	shift := sdf.Translate2d(offset)
	best := math.Inf(1)
	for _, g := range related {
		moved := geom.TransformLine(g.Shape.(Line).Line, shift)
		end := moved.B
		if geom.Near(moved.B, pivot) {
			end = moved.A
		}
		arm := end.Sub(pivot)
		if arm.Length() < geom.PointEpsilon {
			continue
		}
		angle := geom.AxisAngle(arm, target)
		// The rotated arm must lie on the client's supporting line.
		turned := geom.Unit(geom.RotatePoint(end, pivot, angle).Sub(pivot))
		if math.Abs(geom.Cross(turned, target)) >= m.parallelEps() {
			continue
		}
		if math.Abs(angle) < math.Abs(best) {
			best = angle
		}
	}
	if math.IsInf(best, 0) || math.Abs(best) < m.angleEps() {
		return nil
	}

	r := newResult(master, client, offset, CollinearWithRotation)
	r.rotation = geom.Degrees(best)
	r.pivot = pivot
	r.hasRotation = true
	r.loop = m.highlight(client, b)
	r.hasLoop = r.loop.Len() > 0
	return r
}

// highlight builds the loop drawn for a rotation snap: the client's own
// outline when it has one, else a thin rectangle around the client line.
func (m *Matcher) highlight(client *Geometry, l Line) geom.Loop {
	if client.HasSiblings() {
		if curves := outline(client); len(curves) > 0 {
			return geom.NewLoop(curves, m.arcSamples()).CCW()
		}
	}
	n := geom.Perp(l.Direction()).MulScalar(m.halfWidth())
	loop := geom.Loop{Points: []geom.Vec{
		l.A.Add(n),
		l.B.Add(n),
		l.B.Sub(n),
		l.A.Sub(n),
	}}
	return loop.CCW()
}
