package snap

import (
	"fmt"

	"github.com/chazu/floorsnap/pkg/geom"
)

// Kind classifies a detected alignment. Lower kinds rank first.
type Kind int

const (
	Collinear Kind = iota + 1
	Overlap
	CollinearWithRotation
	Tangent
)

func (k Kind) String() string {
	switch k {
	case Collinear:
		return "collinear"
	case Overlap:
		return "overlap"
	case CollinearWithRotation:
		return "collinear-with-rotation"
	case Tangent:
		return "tangent"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result is one detected alignment. Only the matcher builds results and
// they are never modified afterwards.
type Result struct {
	master, client *Geometry
	dx, dy         float64
	rotation       float64
	pivot          geom.Vec
	hasRotation    bool
	loop           geom.Loop
	hasLoop        bool
	kind           Kind
}

func newResult(master, client *Geometry, offset geom.Vec, kind Kind) *Result {
	return &Result{master: master, client: client, dx: offset.X, dy: offset.Y, kind: kind}
}

// Master returns the dragged geometry.
func (r *Result) Master() *Geometry { return r.master }

// Client returns the static geometry the master aligns to.
func (r *Result) Client() *Geometry { return r.client }

// DX returns the x translation to apply to the master.
func (r *Result) DX() float64 { return r.dx }

// DY returns the y translation to apply to the master.
func (r *Result) DY() float64 { return r.dy }

// Offset returns the translation as a vector.
func (r *Result) Offset() geom.Vec { return geom.Vec{X: r.dx, Y: r.dy} }

// Kind returns the alignment classification.
func (r *Result) Kind() Kind { return r.kind }

// Rotation returns the counter-clockwise correction in degrees, applied
// about Pivot after the translation.
func (r *Result) Rotation() (float64, bool) { return r.rotation, r.hasRotation }

// Pivot returns the world point to rotate about.
func (r *Result) Pivot() (geom.Vec, bool) { return r.pivot, r.hasRotation }

// Shape returns the highlight loop of a rotation snap.
func (r *Result) Shape() (geom.Loop, bool) { return r.loop, r.hasLoop }

// ID identifies the pair for deduplication.
func (r *Result) ID() string {
	return r.master.ID() + "/" + r.client.ID()
}

func (r *Result) String() string {
	s := fmt.Sprintf("%s %s offset=(%.6g, %.6g)", r.ID(), r.kind, r.dx, r.dy)
	if r.hasRotation {
		s += fmt.Sprintf(" rotation=%.6g pivot=(%.6g, %.6g)", r.rotation, r.pivot.X, r.pivot.Y)
	}
	return s
}

// ResultJSON is the serialised form of a Result.
type ResultJSON struct {
	ID       string       `json:"id"`
	Kind     string       `json:"kind"`
	Master   string       `json:"master"`
	Client   string       `json:"client"`
	DX       float64      `json:"dx"`
	DY       float64      `json:"dy"`
	Rotation *float64     `json:"rotation,omitempty"`
	Pivot    *[2]float64  `json:"pivot,omitempty"`
	Shape    [][2]float64 `json:"shape,omitempty"`
}

// JSON returns the serialisable record of r.
func (r *Result) JSON() ResultJSON {
	out := ResultJSON{
		ID:     r.ID(),
		Kind:   r.kind.String(),
		Master: r.master.ID(),
		Client: r.client.ID(),
		DX:     r.dx,
		DY:     r.dy,
	}
	if r.hasRotation {
		rot := r.rotation
		out.Rotation = &rot
		out.Pivot = &[2]float64{r.pivot.X, r.pivot.Y}
	}
	if r.hasLoop {
		for _, p := range r.loop.Points {
			out.Shape = append(out.Shape, [2]float64{p.X, p.Y})
		}
	}
	return out
}
