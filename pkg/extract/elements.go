// Package extract turns scene elements into batches of snap geometry.
//
// The host scene implements the accessor interfaces below; extraction
// only reads them. Every extractor builds one snap.Batch, wires the
// siblings and returns the batch contents.
package extract

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/floorsnap/pkg/geom"
)

// Wall is a straight or curved wall.
type Wall interface {
	Tag() string
	Corners() []geom.Vec
	Path() geom.Curve // geom.Line or geom.Arc, nil when unknown
	Width() float64
	Faces() []Face
}

// Face is one bounding face of a wall.
type Face interface {
	// Curve is the face's footprint in plan, nil for faces without one.
	Curve() geom.Curve
	// Outline is the 3D outer loop of the face.
	Outline() []v3.Vec
}

// Vertex is an outline point with an optional caller id.
type Vertex struct {
	At geom.Vec
	ID string
}

// Edge is a profile line with an optional caller id.
type Edge struct {
	Line geom.Line
	ID   string
}

// Profiled is an element with a rectangular footprint: beams and square
// structures.
type Profiled interface {
	Tag() string
	Corners() []Vertex
	Middle() geom.Vec
	Profile() []Edge
	Position() *geom.Line
	YSize() float64
}

// Beam is a ceiling beam.
type Beam interface {
	Profiled
}

// StructureKind identifies a structural element.
type StructureKind int

const (
	SquareColumn StructureKind = iota + 1
	Flue
	Riser
	CircleColumn
	Outlet
)

func (k StructureKind) String() string {
	switch k {
	case SquareColumn:
		return "square-column"
	case Flue:
		return "flue"
	case Riser:
		return "riser"
	case CircleColumn:
		return "circle-column"
	case Outlet:
		return "outlet"
	default:
		return fmt.Sprintf("StructureKind(%d)", int(k))
	}
}

// Square reports whether the kind has a rectangular profile.
func (k StructureKind) Square() bool {
	return k == SquareColumn || k == Flue || k == Riser
}

// Round reports whether the kind has a circular profile.
func (k StructureKind) Round() bool {
	return k == CircleColumn || k == Outlet
}

// Structure is any structural element. Concrete values also implement
// SquareStructure or CircleStructure according to their kind.
type Structure interface {
	Tag() string
	StructureKind() StructureKind
}

// SquareStructure is a column, flue or riser.
type SquareStructure interface {
	Profiled
	StructureKind() StructureKind
}

// CircleStructure is a round column or outlet.
type CircleStructure interface {
	Tag() string
	StructureKind() StructureKind
	Middle() geom.Vec
	ProfileCircle() *geom.Circle
	Position() *geom.Line
	YSize() float64
}

// Hole is a wall opening.
type Hole interface {
	Tag() string
	FrontProfile() []geom.Curve
}

// Room is a floor region.
type Room interface {
	Tag() string
	SplitCurves() []geom.Curve
	WirePath() []geom.Curve
}

// Elements is the flat list of scene elements of one frame.
type Elements struct {
	Walls      []Wall
	Structures []Structure
	Beams      []Beam
	Holes      []Hole
	Room       Room
}

// Len returns the number of elements.
func (e Elements) Len() int {
	n := len(e.Walls) + len(e.Structures) + len(e.Beams) + len(e.Holes)
	if e.Room != nil {
		n++
	}
	return n
}

// Options controls extraction.
type Options struct {
	// IncludeRoomCurves adds the room's wire boundary lines to its split
	// curves.
	IncludeRoomCurves bool
}
