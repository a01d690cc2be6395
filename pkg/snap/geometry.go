// Package snap detects near-alignments between dragged ("master") and
// static ("client") geometry and computes the correction that brings them
// into exact alignment.
//
// Geometry entities are produced per interaction frame by package extract,
// consumed synchronously by Match, and discarded. Nothing in this package
// keeps state between calls.
package snap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/floorsnap/pkg/geom"
)

// Role classifies why a geometry entity exists.
type Role int

const (
	CenterPoint Role = iota + 1
	CornerPoint
	CenterLine
	LineEdge
	CircleEdge
	ArcEdge
)

func (r Role) String() string {
	switch r {
	case CenterPoint:
		return "center-point"
	case CornerPoint:
		return "corner-point"
	case CenterLine:
		return "center-line"
	case LineEdge:
		return "line-edge"
	case CircleEdge:
		return "circle-edge"
	case ArcEdge:
		return "arc-edge"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// isEdge reports whether the role describes an element outline.
func (r Role) isEdge() bool {
	return r == LineEdge || r == ArcEdge || r == CircleEdge
}

// Origin is the scene element a geometry was extracted from. The engine
// only reads its tag.
type Origin interface {
	Tag() string
}

// ShapeKind names the variant held by a Shape.
type ShapeKind int

const (
	PointShape ShapeKind = iota
	LineShape
	CircleShape
	ArcShape
)

func (k ShapeKind) String() string {
	switch k {
	case PointShape:
		return "point"
	case LineShape:
		return "line"
	case CircleShape:
		return "circle"
	case ArcShape:
		return "arc"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape is the concrete geometric payload. The variants are Point, Line,
// Circle and Arc; the unexported marker keeps the set closed.
type Shape interface {
	Kind() ShapeKind
	shape()
}

// Point is a single 2D location.
type Point struct {
	At geom.Vec
}

// Line is a bounded segment.
type Line struct {
	geom.Line
}

// Circle is a full circle.
type Circle struct {
	geom.Circle
}

// Arc is a bounded arc.
type Arc struct {
	geom.Arc
}

func (Point) Kind() ShapeKind  { return PointShape }
func (Line) Kind() ShapeKind   { return LineShape }
func (Circle) Kind() ShapeKind { return CircleShape }
func (Arc) Kind() ShapeKind    { return ArcShape }

func (Point) shape()  {}
func (Line) shape()   {}
func (Circle) shape() {}
func (Arc) shape()    {}

// ShapeOf wraps a boundary curve in the matching Shape variant.
func ShapeOf(c geom.Curve) Shape {
	switch c := c.(type) {
	case geom.Line:
		return Line{c}
	case geom.Arc:
		return Arc{c}
	}
	return nil
}

// Geometry is one snap-relevant feature of a scene element.
type Geometry struct {
	Origin   Origin
	Role     Role
	Shape    Shape
	StableID string

	batch    *Batch
	index    int
	siblings []int
}

// ID returns the identity "<origin tag>:<role>:<stable id>".
func (g *Geometry) ID() string {
	tag := ""
	if g.Origin != nil {
		tag = g.Origin.Tag()
	}
	return fmt.Sprintf("%s:%d:%s", tag, int(g.Role), g.StableID)
}

func (g *Geometry) String() string {
	return fmt.Sprintf("%s %s %s", g.ID(), g.Role, g.Shape.Kind())
}

// Siblings returns the other entities extracted in the same batch.
func (g *Geometry) Siblings() []*Geometry {
	if g.batch == nil || len(g.siblings) == 0 {
		return nil
	}
	out := make([]*Geometry, len(g.siblings))
	for i, idx := range g.siblings {
		out[i] = g.batch.items[idx]
	}
	return out
}

// HasSiblings reports whether the entity was wired into a batch.
func (g *Geometry) HasSiblings() bool {
	return len(g.siblings) > 0
}

// RelatedLines returns the sibling edge lines that touch a point entity at
// one of their endpoints. Center lines never qualify. Non-point entities
// have no related lines.
func (g *Geometry) RelatedLines() []*Geometry {
	pt, ok := g.Shape.(Point)
	if !ok {
		return nil
	}
	var out []*Geometry
	for _, s := range g.Siblings() {
		ln, ok := s.Shape.(Line)
		if !ok || s.Role == CenterLine {
			continue
		}
		if geom.Near(ln.A, pt.At) || geom.Near(ln.B, pt.At) {
			out = append(out, s)
		}
	}
	return out
}

// ErrDuplicateIdentity is returned when two entities of one batch share an
// identity.
var ErrDuplicateIdentity = errors.New("duplicate geometry identity in batch")

// ErrBatchWired is returned when adding to a batch after Wire.
var ErrBatchWired = errors.New("snap: add to wired batch")

// Batch is the arena of one extraction call. Sibling links are indices
// into it, so a batch and everything it produced can be dropped together.
type Batch struct {
	items []*Geometry
	ids   map[string]int
	wired bool
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{ids: make(map[string]int)}
}

// Add appends a new entity. It fails when the identity is already taken or
// the batch has been wired.
func (b *Batch) Add(origin Origin, role Role, shape Shape, stableID string) (*Geometry, error) {
	if b.wired {
		return nil, ErrBatchWired
	}
	if shape == nil {
		return nil, fmt.Errorf("snap: nil shape for role %s", role)
	}
	g := &Geometry{Origin: origin, Role: role, Shape: shape, StableID: stableID, batch: b, index: len(b.items)}
	id := g.ID()
	if _, taken := b.ids[id]; taken {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, id)
	}
	b.ids[id] = g.index
	b.items = append(b.items, g)
	return g, nil
}

// Wire links every entity to all other entities of the batch. It runs
// once; later calls are no-ops.
func (b *Batch) Wire() {
	if b.wired {
		return
	}
	b.wired = true
	for _, g := range b.items {
		g.siblings = make([]int, 0, len(b.items)-1)
		for j := range b.items {
			if j != g.index {
				g.siblings = append(g.siblings, j)
			}
		}
	}
}

// Geometries returns the batch entities in insertion order.
func (b *Batch) Geometries() []*Geometry {
	return append([]*Geometry(nil), b.items...)
}

// Len returns the number of entities.
func (b *Batch) Len() int {
	return len(b.items)
}

// outline returns the edge curves g belongs to: g itself and its sibling
// edges, in batch order. Circles are left out since they do not chain.
func outline(g *Geometry) []geom.Curve {
	members := append([]*Geometry{g}, g.Siblings()...)
	sort.Slice(members, func(i, j int) bool { return members[i].index < members[j].index })

	var curves []geom.Curve
	for _, m := range members {
		if !m.Role.isEdge() {
			continue
		}
		switch s := m.Shape.(type) {
		case Line:
			curves = append(curves, s.Line)
		case Arc:
			curves = append(curves, s.Arc)
		}
	}
	return curves
}
