package scene

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/floorsnap/pkg/extract"
	"github.com/chazu/floorsnap/pkg/geom"
)

// ElementKind enumerates the element types of a scene.
type ElementKind int

const (
	KindWall ElementKind = iota
	KindBeam
	KindColumn
	KindRoundColumn
	KindHole
	KindRoom
)

func (k ElementKind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindBeam:
		return "beam"
	case KindColumn:
		return "column"
	case KindRoundColumn:
		return "round-column"
	case KindHole:
		return "hole"
	case KindRoom:
		return "room"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Element is one scene element.
type Element interface {
	Tag() string
	Kind() ElementKind
	// Anchor is the element's reference point in plan.
	Anchor() geom.Vec
}

// ---------------------------------------------------------------------------
// Walls
// ---------------------------------------------------------------------------

// Face is a bounding face of a wall.
type Face struct {
	curve   geom.Curve
	outline []v3.Vec
}

// Curve returns the face footprint in plan.
func (f Face) Curve() geom.Curve { return f.curve }

// Outline returns the 3D outer loop of the face.
func (f Face) Outline() []v3.Vec { return f.outline }

// standingFace raises a plan curve from z=0 to z=h.
func standingFace(c geom.Curve, h float64) Face {
	var base []geom.Vec
	switch c := c.(type) {
	case geom.Arc:
		base = c.Sample(geom.DefaultArcSamples)
	default:
		base = []geom.Vec{c.Start(), c.End()}
	}
	outline := make([]v3.Vec, 0, 2*len(base))
	for _, p := range base {
		outline = append(outline, v3.Vec{X: p.X, Y: p.Y, Z: 0})
	}
	for i := len(base) - 1; i >= 0; i-- {
		outline = append(outline, v3.Vec{X: base[i].X, Y: base[i].Y, Z: h})
	}
	return Face{curve: c, outline: outline}
}

// flatFace lays a plan polygon at height z.
func flatFace(c geom.Curve, pts []geom.Vec, z float64) Face {
	outline := make([]v3.Vec, len(pts))
	for i, p := range pts {
		outline[i] = v3.Vec{X: p.X, Y: p.Y, Z: z}
	}
	return Face{curve: c, outline: outline}
}

// Wall is a straight or arc wall.
type Wall struct {
	Name    string
	path    geom.Curve
	width   float64
	height  float64
	corners []geom.Vec
	faces   []Face
}

// NewStraightWall builds a wall along from->to.
func NewStraightWall(tag string, from, to geom.Vec, width, height float64) *Wall {
	path := geom.NewLine(from, to)
	n := geom.Perp(path.Direction()).MulScalar(width / 2)
	corners := []geom.Vec{from.Sub(n), to.Sub(n), to.Add(n), from.Add(n)}

	w := &Wall{Name: tag, path: path, width: width, height: height, corners: corners}
	for i := range corners {
		w.faces = append(w.faces, standingFace(geom.NewLine(corners[i], corners[(i+1)%4]), height))
	}
	w.faces = append(w.faces, flatFace(path, corners, 0), flatFace(path, corners, height))
	return w
}

// NewArcWall builds a wall whose centerline is the arc about center.
func NewArcWall(tag string, center geom.Vec, radius, startAngle, sweep, width, height float64) *Wall {
	path := geom.Arc{Center: center, Radius: radius, StartAngle: startAngle, Sweep: sweep}
	inner := geom.Arc{Center: center, Radius: radius - width/2, StartAngle: startAngle, Sweep: sweep}
	outer := geom.Arc{Center: center, Radius: radius + width/2, StartAngle: startAngle, Sweep: sweep}
	corners := []geom.Vec{inner.Start(), outer.Start(), outer.End(), inner.End()}

	w := &Wall{Name: tag, path: path, width: width, height: height, corners: corners}
	w.faces = []Face{
		standingFace(outer, height),
		standingFace(inner.Reverse(), height),
		standingFace(geom.NewLine(corners[0], corners[1]), height),
		standingFace(geom.NewLine(corners[2], corners[3]), height),
	}
	footprint := append(inner.Sample(geom.DefaultArcSamples), outer.Reverse().Sample(geom.DefaultArcSamples)...)
	w.faces = append(w.faces, flatFace(path, footprint, 0), flatFace(path, footprint, height))
	return w
}

func (w *Wall) Tag() string         { return w.Name }
func (w *Wall) Kind() ElementKind   { return KindWall }
func (w *Wall) Anchor() geom.Vec    { return w.path.Mid() }
func (w *Wall) Corners() []geom.Vec { return w.corners }
func (w *Wall) Path() geom.Curve    { return w.path }
func (w *Wall) Width() float64      { return w.width }
func (w *Wall) Height() float64     { return w.height }

func (w *Wall) Faces() []extract.Face {
	faces := make([]extract.Face, len(w.faces))
	for i, f := range w.faces {
		faces[i] = f
	}
	return faces
}

// IsArc reports whether the wall follows an arc.
func (w *Wall) IsArc() bool {
	_, ok := w.path.(geom.Arc)
	return ok
}

// ---------------------------------------------------------------------------
// Rectangular blocks: beams and square structures
// ---------------------------------------------------------------------------

// block is a rectangle of xsize by ysize centred on middle and turned by
// angle radians. Its position curve runs along the x extent.
type block struct {
	Name     string
	corners  []extract.Vertex
	middle   geom.Vec
	profile  []extract.Edge
	position geom.Line
	xsize    float64
	ysize    float64
}

func newBlock(tag string, middle geom.Vec, xsize, ysize, angle float64) block {
	u := geom.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
	w := geom.Perp(u)
	hx, hy := u.MulScalar(xsize/2), w.MulScalar(ysize/2)

	pts := []geom.Vec{
		middle.Sub(hx).Sub(hy),
		middle.Add(hx).Sub(hy),
		middle.Add(hx).Add(hy),
		middle.Sub(hx).Add(hy),
	}
	b := block{
		Name:     tag,
		middle:   middle,
		position: geom.NewLine(middle.Sub(hx), middle.Add(hx)),
		xsize:    xsize,
		ysize:    ysize,
	}
	for i, p := range pts {
		b.corners = append(b.corners, extract.Vertex{At: p, ID: fmt.Sprintf("p%d", i)})
		b.profile = append(b.profile, extract.Edge{Line: geom.NewLine(p, pts[(i+1)%4]), ID: fmt.Sprintf("c%d", i)})
	}
	return b
}

func (b *block) Tag() string               { return b.Name }
func (b *block) Anchor() geom.Vec          { return b.middle }
func (b *block) Corners() []extract.Vertex { return b.corners }
func (b *block) Middle() geom.Vec          { return b.middle }
func (b *block) Profile() []extract.Edge   { return b.profile }
func (b *block) XSize() float64            { return b.xsize }
func (b *block) YSize() float64            { return b.ysize }

// Position returns the centerline along the x extent.
func (b *block) Position() *geom.Line {
	p := b.position
	return &p
}

// Beam is a rectangular ceiling beam.
type Beam struct {
	block
}

// NewRectBeam builds a beam of the given length along angle and depth
// across it.
func NewRectBeam(tag string, middle geom.Vec, length, depth, angle float64) *Beam {
	return &Beam{block: newBlock(tag, middle, length, depth, angle)}
}

func (*Beam) Kind() ElementKind { return KindBeam }

// Column is a square column, flue or riser.
type Column struct {
	block
	kind extract.StructureKind
}

// NewRectColumn builds a rectangular structure. kind must be a square
// structure kind.
func NewRectColumn(tag string, kind extract.StructureKind, middle geom.Vec, xsize, ysize, angle float64) *Column {
	return &Column{block: newBlock(tag, middle, xsize, ysize, angle), kind: kind}
}

func (*Column) Kind() ElementKind                      { return KindColumn }
func (c *Column) StructureKind() extract.StructureKind { return c.kind }

// RoundColumn is a circle column or outlet.
type RoundColumn struct {
	Name   string
	kind   extract.StructureKind
	circle geom.Circle
}

// NewRoundColumn builds a circular structure.
func NewRoundColumn(tag string, kind extract.StructureKind, center geom.Vec, radius float64) *RoundColumn {
	return &RoundColumn{Name: tag, kind: kind, circle: geom.Circle{Center: center, Radius: radius}}
}

func (r *RoundColumn) Tag() string                          { return r.Name }
func (*RoundColumn) Kind() ElementKind                      { return KindRoundColumn }
func (r *RoundColumn) StructureKind() extract.StructureKind { return r.kind }
func (r *RoundColumn) Anchor() geom.Vec                     { return r.circle.Center }
func (r *RoundColumn) Middle() geom.Vec                     { return r.circle.Center }
func (r *RoundColumn) YSize() float64                       { return 2 * r.circle.Radius }

// ProfileCircle returns the footprint circle.
func (r *RoundColumn) ProfileCircle() *geom.Circle {
	c := r.circle
	return &c
}

// Position returns the horizontal diameter.
func (r *RoundColumn) Position() *geom.Line {
	d := geom.Vec{X: r.circle.Radius}
	l := geom.NewLine(r.circle.Center.Sub(d), r.circle.Center.Add(d))
	return &l
}

// ---------------------------------------------------------------------------
// Openings
// ---------------------------------------------------------------------------

// Hole is a wall opening described by its front profile.
type Hole struct {
	Name    string
	profile []geom.Curve
}

// NewHole builds an opening from an explicit profile.
func NewHole(tag string, profile []geom.Curve) *Hole {
	return &Hole{Name: tag, profile: profile}
}

// NewRectHole builds a rectangular opening of width by depth.
func NewRectHole(tag string, middle geom.Vec, width, depth, angle float64) *Hole {
	b := newBlock(tag, middle, width, depth, angle)
	profile := make([]geom.Curve, len(b.profile))
	for i, e := range b.profile {
		profile[i] = e.Line
	}
	return NewHole(tag, profile)
}

func (h *Hole) Tag() string                { return h.Name }
func (*Hole) Kind() ElementKind            { return KindHole }
func (h *Hole) FrontProfile() []geom.Curve { return h.profile }

// Anchor returns the average of the profile start points.
func (h *Hole) Anchor() geom.Vec {
	var sum geom.Vec
	if len(h.profile) == 0 {
		return sum
	}
	for _, c := range h.profile {
		sum = sum.Add(c.Start())
	}
	return sum.MulScalar(1 / float64(len(h.profile)))
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

// Room is a floor region bounded by its wire path.
type Room struct {
	Name  string
	split []geom.Curve
	wire  []geom.Curve
}

// NewRoom builds a room from a polygon outline. The split curves are the
// outline edges.
func NewRoom(tag string, outline []geom.Vec) *Room {
	var curves []geom.Curve
	if len(outline) >= 2 {
		for i, p := range outline {
			curves = append(curves, geom.NewLine(p, outline[(i+1)%len(outline)]))
		}
	}
	return NewRoomCurves(tag, curves, curves)
}

// NewRoomCurves builds a room from explicit split and wire curves.
func NewRoomCurves(tag string, split, wire []geom.Curve) *Room {
	return &Room{Name: tag, split: split, wire: wire}
}

func (r *Room) Tag() string               { return r.Name }
func (*Room) Kind() ElementKind           { return KindRoom }
func (r *Room) SplitCurves() []geom.Curve { return r.split }
func (r *Room) WirePath() []geom.Curve    { return r.wire }

// Loop returns the wire path as a counter-clockwise polyline.
func (r *Room) Loop() geom.Loop {
	return geom.NewLoop(r.wire, geom.DefaultArcSamples).CCW()
}

// Contains reports whether p is inside the room.
func (r *Room) Contains(p geom.Vec) bool {
	return r.Loop().Contains(p)
}

// Anchor returns the vertex average of the room loop.
func (r *Room) Anchor() geom.Vec {
	loop := r.Loop()
	var sum geom.Vec
	if loop.Len() == 0 {
		return sum
	}
	for _, p := range loop.Points {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1 / float64(loop.Len()))
}
