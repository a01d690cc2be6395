package extract

import (
	"fmt"
	"log"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/floorsnap/pkg/geom"
	"github.com/chazu/floorsnap/pkg/snap"
)

// HoleExtendDistance is how far each opening edge is extended before the
// corners are intersected.
const HoleExtendDistance = 100

// Extract returns the geometry of every element in the order walls,
// structures, beams, holes, room. Elements that fail extraction are
// logged and skipped.
func Extract(in Elements, opts Options) []*snap.Geometry {
	var out []*snap.Geometry
	collect := func(gs []*snap.Geometry, err error) {
		if err != nil {
			log.Printf("extract: skipping element: %v", err)
			return
		}
		out = append(out, gs...)
	}

	for _, w := range in.Walls {
		collect(ExtractWall(w))
	}
	for _, s := range in.Structures {
		collect(ExtractStructure(s))
	}
	for _, b := range in.Beams {
		collect(ExtractBeam(b))
	}
	for _, h := range in.Holes {
		collect(ExtractHole(h))
	}
	if in.Room != nil {
		collect(ExtractRoom(in.Room, opts))
	}
	return out
}

// builder accumulates one element's batch and keeps the first error.
type builder struct {
	origin snap.Origin
	batch  *snap.Batch
	err    error
}

func newBuilder(origin snap.Origin) *builder {
	return &builder{origin: origin, batch: snap.NewBatch()}
}

func (b *builder) add(role snap.Role, s snap.Shape, id string) {
	if b.err != nil {
		return
	}
	if _, err := b.batch.Add(b.origin, role, s, id); err != nil {
		b.err = &ExtractionError{Tag: b.origin.Tag(), Reason: "duplicate feature", Err: err}
	}
}

func (b *builder) point(role snap.Role, p geom.Vec, id string) {
	b.add(role, snap.Point{At: p}, id)
}

func (b *builder) line(role snap.Role, l geom.Line, id string) {
	b.add(role, snap.Line{Line: l}, id)
}

func (b *builder) curve(c geom.Curve, id string) {
	switch c := c.(type) {
	case geom.Line:
		b.add(snap.LineEdge, snap.Line{Line: c}, id)
	case geom.Arc:
		b.add(snap.ArcEdge, snap.Arc{Arc: c}, id)
	}
}

func (b *builder) finish() ([]*snap.Geometry, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.batch.Wire()
	return b.batch.Geometries(), nil
}

// crossLine returns the segment through mid perpendicular to dir, reaching
// half on either side.
func crossLine(mid, dir geom.Vec, half float64) geom.Line {
	n := geom.Perp(geom.Unit(dir)).MulScalar(half)
	return geom.NewLine(mid.Sub(n), mid.Add(n))
}

// flat reports whether a face outline lies in one horizontal plane.
func flat(outline []v3.Vec) bool {
	for _, p := range outline[1:] {
		if !geom.Zero(p.Z-outline[0].Z, geom.PointEpsilon) {
			return false
		}
	}
	return true
}

// ExtractWall returns the corners, path midpoint, vertical faces, path and
// centerline of a wall.
func ExtractWall(w Wall) ([]*snap.Geometry, error) {
	path := w.Path()
	if path == nil {
		return nil, nil
	}
	b := newBuilder(w)

	for i, c := range w.Corners() {
		b.point(snap.CornerPoint, c, fmt.Sprintf("corner_%d", i))
	}
	mid := path.Mid()
	b.point(snap.CenterPoint, mid, "midPt")

	for i, f := range w.Faces() {
		outline := f.Outline()
		if len(outline) == 0 || flat(outline) {
			continue
		}
		if c := f.Curve(); c != nil {
			b.curve(c, fmt.Sprintf("face_%d", i))
		}
	}

	switch p := path.(type) {
	case geom.Arc:
		// The centerline crosses the wall radially at the path midpoint.
		radial := geom.Unit(mid.Sub(p.Center)).MulScalar(w.Width() / 2)
		b.add(snap.ArcEdge, snap.Arc{Arc: p}, "path")
		b.line(snap.CenterLine, geom.NewLine(mid.Sub(radial), mid.Add(radial)), "midL")
	case geom.Line:
		b.add(snap.LineEdge, snap.Line{Line: p}, "path")
		b.line(snap.CenterLine, crossLine(mid, p.Vector(), w.Width()/2), "midL")
	default:
		return nil, &ExtractionError{Tag: w.Tag(), Reason: fmt.Sprintf("unsupported path %T", path)}
	}
	return b.finish()
}

// ExtractBeam returns the corners, middle, profile edges and the two
// centerlines of a beam.
func ExtractBeam(beam Beam) ([]*snap.Geometry, error) {
	return extractProfiled(beam)
}

// ExtractSquareStructure returns the geometry of a column, flue or riser.
func ExtractSquareStructure(s SquareStructure) ([]*snap.Geometry, error) {
	return extractProfiled(s)
}

func extractProfiled(e Profiled) ([]*snap.Geometry, error) {
	corners := e.Corners()
	pos := e.Position()
	if len(corners) == 0 || pos == nil {
		return nil, nil
	}
	b := newBuilder(e)

	for i, c := range corners {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("corner_%d", i)
		}
		b.point(snap.CornerPoint, c.At, id)
	}
	mid := e.Middle()
	b.point(snap.CenterPoint, mid, "midPt")

	for i, edge := range e.Profile() {
		id := edge.ID
		if id == "" {
			id = fmt.Sprintf("edge_%d", i)
		}
		b.line(snap.LineEdge, edge.Line, id)
	}

	b.line(snap.CenterLine, *pos, "midL1")
	b.line(snap.CenterLine, crossLine(mid, pos.Vector(), e.YSize()/2), "midL2")
	return b.finish()
}

// ExtractCircleStructure returns the center, circular profile and the two
// centerlines of a round column or outlet.
func ExtractCircleStructure(s CircleStructure) ([]*snap.Geometry, error) {
	profile := s.ProfileCircle()
	pos := s.Position()
	if profile == nil || pos == nil {
		return nil, nil
	}
	b := newBuilder(s)
	mid := s.Middle()
	b.point(snap.CenterPoint, mid, "midPt")
	b.add(snap.CircleEdge, snap.Circle{Circle: *profile}, "profile")
	b.line(snap.CenterLine, *pos, "midL1")
	b.line(snap.CenterLine, crossLine(mid, pos.Vector(), s.YSize()/2), "midL2")
	return b.finish()
}

// ExtractStructure dispatches on the structure kind.
func ExtractStructure(s Structure) ([]*snap.Geometry, error) {
	kind := s.StructureKind()
	switch {
	case kind.Square():
		sq, ok := s.(SquareStructure)
		if !ok {
			return nil, &ExtractionError{Tag: s.Tag(), Reason: fmt.Sprintf("%s without a rectangular profile", kind)}
		}
		return ExtractSquareStructure(sq)
	case kind.Round():
		c, ok := s.(CircleStructure)
		if !ok {
			return nil, &ExtractionError{Tag: s.Tag(), Reason: fmt.Sprintf("%s without a circular profile", kind)}
		}
		return ExtractCircleStructure(c)
	}
	return nil, nil
}

// ExtractHole recovers the rectangle of an opening from its front profile
// and returns its corners, center and edges.
func ExtractHole(h Hole) ([]*snap.Geometry, error) {
	var lines []geom.Line
	for _, c := range h.FrontProfile() {
		if l, ok := c.(geom.Line); ok {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	corners, err := rectangleCorners(lines)
	if err != nil {
		return nil, &ExtractionError{Tag: h.Tag(), Reason: "front profile", Err: err}
	}

	b := newBuilder(h)
	var sum geom.Vec
	for i, c := range corners {
		sum = sum.Add(c)
		b.point(snap.CornerPoint, c, fmt.Sprintf("hole_%d", i))
	}
	b.point(snap.CenterPoint, sum.MulScalar(1/float64(len(corners))), "midPt")
	for i, c := range corners {
		next := corners[(i+1)%len(corners)]
		b.line(snap.LineEdge, geom.NewLine(c, next), fmt.Sprintf("%s_%d", h.Tag(), i))
	}
	return b.finish()
}

// rectangleCorners keeps the lines that turn perpendicular to the last
// kept line, starting from the first, and intersects consecutive kept
// lines.
func rectangleCorners(lines []geom.Line) ([]geom.Vec, error) {
	kept := []geom.Line{lines[0]}
	for _, l := range lines[1:] {
		if kept[len(kept)-1].IsPerpendicular(l, geom.ParallelEpsilon) {
			kept = append(kept, l)
		}
	}
	if len(kept) != 4 {
		return nil, fmt.Errorf("%w: %d perpendicular edges", ErrMalformedOpening, len(kept))
	}

	corners := make([]geom.Vec, 0, 4)
	for i, l := range kept {
		a := l.Extend(HoleExtendDistance)
		b := kept[(i+1)%len(kept)].Extend(HoleExtendDistance)
		if a.IsParallel(b, geom.ParallelEpsilon) {
			continue
		}
		p, ok := a.IntersectSegment(b)
		if !ok {
			return nil, fmt.Errorf("%w: edges %d and %d do not meet", ErrMalformedOpening, i, (i+1)%len(kept))
		}
		corners = append(corners, p)
	}
	if len(corners) != 4 {
		return nil, fmt.Errorf("%w: %d corners", ErrMalformedOpening, len(corners))
	}
	return corners, nil
}

// ExtractRoom returns the room's split curves and, when requested, the
// lines of its wire boundary.
func ExtractRoom(r Room, opts Options) ([]*snap.Geometry, error) {
	b := newBuilder(r)
	for i, c := range r.SplitCurves() {
		b.curve(c, fmt.Sprintf("%d", i))
	}
	if opts.IncludeRoomCurves {
		for i, c := range r.WirePath() {
			if l, ok := c.(geom.Line); ok {
				b.line(snap.LineEdge, l, fmt.Sprintf("%s_%d", r.Tag(), i))
			}
		}
	}
	if b.batch.Len() == 0 && b.err == nil {
		return nil, nil
	}
	return b.finish()
}
