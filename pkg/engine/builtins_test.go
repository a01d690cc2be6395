package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/chazu/floorsnap/pkg/extract"
	"github.com/chazu/floorsnap/pkg/geom"
	"github.com/chazu/floorsnap/pkg/scene"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(beam :at p)`,
			expect: `(beam "__kw_at" p)`,
		},
		{
			name:   "multiple keywords",
			input:  `(beam :length 4 :depth 0.3)`,
			expect: `(beam "__kw_length" 4 "__kw_depth" 0.3)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(arc-wall :start 0)`,
			expect: `(arc_wall "__kw_start" 0)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec2 -1 2)`,
			expect: `(vec2 -1 2)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:square-column`,
			expect: `"__kw_square-column"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// mustEvaluate evaluates source and fails the test on any error.
func mustEvaluate(t *testing.T, source string) *scene.Scene {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	return s
}

// evalErrors evaluates source that is expected to fail in user code.
func evalErrors(t *testing.T, source string) []EvalError {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Error("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	return evalErrs
}

// ---------------------------------------------------------------------------
// Walls
// ---------------------------------------------------------------------------

func TestStraightWall(t *testing.T) {
	s := mustEvaluate(t, `(wall "w1" :from (vec2 0 0) :to (vec2 10 0) :width 0.2 :height 2.5)`)
	if s.Len() != 1 {
		t.Fatalf("expected 1 element, got %d", s.Len())
	}
	w, ok := s.Lookup("w1").(*scene.Wall)
	if !ok {
		t.Fatalf("expected *scene.Wall, got %T", s.Lookup("w1"))
	}
	if w.Width() != 0.2 {
		t.Errorf("expected width=0.2, got %f", w.Width())
	}
	if w.Height() != 2.5 {
		t.Errorf("expected height=2.5, got %f", w.Height())
	}
	l, ok := w.Path().(geom.Line)
	if !ok {
		t.Fatalf("expected line path, got %T", w.Path())
	}
	if l.B.X != 10 || l.B.Y != 0 {
		t.Errorf("expected path end (10,0), got %v", l.B)
	}
}

func TestWallDefaultHeight(t *testing.T) {
	s := mustEvaluate(t, `(wall "w" :from (vec2 0 0) :to (vec2 1 0) :width 0.1)`)
	if h := s.MustLookup("w").(*scene.Wall).Height(); h != DefaultWallHeight {
		t.Errorf("expected default height %f, got %f", DefaultWallHeight, h)
	}
}

func TestArcWallAnglesInDegrees(t *testing.T) {
	s := mustEvaluate(t, `(arc-wall "aw" :center (vec2 1 1) :radius 5 :start 90 :sweep -45 :width 0.3)`)
	w := s.MustLookup("aw").(*scene.Wall)
	if !w.IsArc() {
		t.Fatal("expected arc wall")
	}
	a := w.Path().(geom.Arc)
	if math.Abs(a.StartAngle-math.Pi/2) > 1e-12 {
		t.Errorf("expected start pi/2, got %f", a.StartAngle)
	}
	if math.Abs(a.Sweep+math.Pi/4) > 1e-12 {
		t.Errorf("expected sweep -pi/4, got %f", a.Sweep)
	}
	if a.Radius != 5 {
		t.Errorf("expected radius=5, got %f", a.Radius)
	}
}

func TestVariableReference(t *testing.T) {
	s := mustEvaluate(t, `
(def thick 0.3)
(def origin (vec2 2 3))
(wall "side" :from origin :to (vec2 2 8) :width thick)
`)
	w := s.MustLookup("side").(*scene.Wall)
	if w.Width() != 0.3 {
		t.Errorf("expected width=0.3 (from variable), got %f", w.Width())
	}
	if got := w.Path().Start(); got.X != 2 || got.Y != 3 {
		t.Errorf("expected start (2,3), got %v", got)
	}
}

func TestWallMissingWidth(t *testing.T) {
	errs := evalErrors(t, `(wall "w" :from (vec2 0 0) :to (vec2 1 0))`)
	if !strings.Contains(errs[0].Message, "requires :width") {
		t.Errorf("expected missing width message, got %q", errs[0].Message)
	}
}

// ---------------------------------------------------------------------------
// Beams and columns
// ---------------------------------------------------------------------------

func TestBeamAndDrag(t *testing.T) {
	s := mustEvaluate(t, `(drag (beam "b1" :at (vec2 5 5) :length 4 :depth 0.3 :angle 90))`)
	if s.Dragged != "b1" {
		t.Errorf("expected dragged=b1, got %q", s.Dragged)
	}
	b := s.MustLookup("b1").(*scene.Beam)
	if b.XSize() != 4 || b.YSize() != 0.3 {
		t.Errorf("expected 4x0.3, got %fx%f", b.XSize(), b.YSize())
	}
	pos := b.Position()
	if math.Abs(pos.A.X-5) > 1e-9 || math.Abs(pos.A.Y-3) > 1e-9 {
		t.Errorf("expected position start (5,3), got %v", pos.A)
	}
}

func TestDragByTag(t *testing.T) {
	s := mustEvaluate(t, `
(round-column "c" :at (vec2 0 0) :radius 0.2)
(drag "c")
`)
	if s.Dragged != "c" {
		t.Errorf("expected dragged=c, got %q", s.Dragged)
	}
}

func TestColumnKinds(t *testing.T) {
	s := mustEvaluate(t, `
(column "c1" :at (vec2 0 0) :xsize 0.4)
(column "c2" :kind :flue :at (vec2 3 0) :xsize 0.4 :ysize 0.6 :angle 30)
(round-column "c3" :kind :outlet :at (vec2 6 0) :radius 0.1)
(round-column "c4" :at (vec2 9 0) :radius 0.25)
`)
	c1 := s.MustLookup("c1").(*scene.Column)
	if c1.StructureKind() != extract.SquareColumn {
		t.Errorf("c1 kind = %s, want square-column", c1.StructureKind())
	}
	if c1.YSize() != 0.4 {
		t.Errorf("c1 ysize should default to xsize, got %f", c1.YSize())
	}
	if k := s.MustLookup("c2").(*scene.Column).StructureKind(); k != extract.Flue {
		t.Errorf("c2 kind = %s, want flue", k)
	}
	if k := s.MustLookup("c3").(*scene.RoundColumn).StructureKind(); k != extract.Outlet {
		t.Errorf("c3 kind = %s, want outlet", k)
	}
	c4 := s.MustLookup("c4").(*scene.RoundColumn)
	if c4.StructureKind() != extract.CircleColumn {
		t.Errorf("c4 kind = %s, want circle-column", c4.StructureKind())
	}
	if c4.ProfileCircle().Radius != 0.25 {
		t.Errorf("c4 radius = %f, want 0.25", c4.ProfileCircle().Radius)
	}
}

func TestInvalidStructureKind(t *testing.T) {
	errs := evalErrors(t, `(column "c" :kind :chimney :at (vec2 0 0) :xsize 1)`)
	if !strings.Contains(errs[0].Message, "chimney") {
		t.Errorf("expected message naming the kind, got %q", errs[0].Message)
	}
}

// ---------------------------------------------------------------------------
// Openings and rooms
// ---------------------------------------------------------------------------

func TestRectHole(t *testing.T) {
	s := mustEvaluate(t, `(hole "h1" :at (vec2 3 0) :width 0.9 :depth 0.2)`)
	h := s.MustLookup("h1").(*scene.Hole)
	if len(h.FrontProfile()) != 4 {
		t.Errorf("expected 4 profile curves, got %d", len(h.FrontProfile()))
	}
}

func TestHoleProfile(t *testing.T) {
	s := mustEvaluate(t, `
(hole "h2" :profile (list
  (line (vec2 0 0) (vec2 1 0))
  (line (vec2 1 0) (vec2 1 2))
  (line (vec2 1 2) (vec2 0 2))
  (line (vec2 0 2) (vec2 0 0))))
`)
	h := s.MustLookup("h2").(*scene.Hole)
	if len(h.FrontProfile()) != 4 {
		t.Fatalf("expected 4 profile curves, got %d", len(h.FrontProfile()))
	}
	if a := h.Anchor(); a.X != 0.5 || a.Y != 1 {
		t.Errorf("expected anchor (0.5,1), got %v", a)
	}
}

func TestHoleProfileRejectsPoints(t *testing.T) {
	evalErrors(t, `(hole "h" :profile (list (vec2 0 0)))`)
}

func TestRoomOutline(t *testing.T) {
	s := mustEvaluate(t, `(room "r1" (vec2 0 0) (vec2 10 0) (vec2 10 10) (vec2 0 10))`)
	r := s.MustLookup("r1").(*scene.Room)
	if len(r.WirePath()) != 4 || len(r.SplitCurves()) != 4 {
		t.Errorf("expected 4 wire and split curves, got %d and %d", len(r.WirePath()), len(r.SplitCurves()))
	}
	if !r.Contains(geom.Vec{X: 5, Y: 5}) {
		t.Error("room should contain its center")
	}
}

func TestRoomCurves(t *testing.T) {
	s := mustEvaluate(t, `
(room "r2"
  :curves (list
    (line (vec2 0 0) (vec2 4 0))
    (arc :center (vec2 4 2) :radius 2 :start -90 :sweep 180)
    (line (vec2 4 4) (vec2 0 4))
    (line (vec2 0 4) (vec2 0 0)))
  :split (list (line (vec2 0 0) (vec2 4 0))))
`)
	r := s.MustLookup("r2").(*scene.Room)
	if len(r.WirePath()) != 4 {
		t.Errorf("expected 4 wire curves, got %d", len(r.WirePath()))
	}
	if len(r.SplitCurves()) != 1 {
		t.Errorf("expected 1 split curve, got %d", len(r.SplitCurves()))
	}
	if _, ok := r.WirePath()[1].(geom.Arc); !ok {
		t.Errorf("expected arc as second wire curve, got %T", r.WirePath()[1])
	}
}

// ---------------------------------------------------------------------------
// Anonymous elements
// ---------------------------------------------------------------------------

func TestAnonymousTagsAreDeterministic(t *testing.T) {
	source := `
(beam :at (vec2 0 0) :length 1 :depth 1)
(beam :at (vec2 3 0) :length 1 :depth 1)
(wall "named" :from (vec2 0 0) :to (vec2 1 0) :width 0.1)
`
	first := mustEvaluate(t, source)
	second := mustEvaluate(t, source)

	a, b := first.Get(0).Tag(), first.Get(1).Tag()
	if a == b {
		t.Fatalf("anonymous elements share tag %q", a)
	}
	for _, tag := range []string{a, b} {
		if _, err := uuid.Parse(tag); err != nil {
			t.Errorf("tag %q is not a uuid: %v", tag, err)
		}
	}
	if second.Get(0).Tag() != a || second.Get(1).Tag() != b {
		t.Error("anonymous tags differ between evaluations of the same source")
	}
	if first.Get(2).Tag() != "named" {
		t.Errorf("expected explicit tag to be kept, got %q", first.Get(2).Tag())
	}
}

// ---------------------------------------------------------------------------
// Argument errors
// ---------------------------------------------------------------------------

func TestVec2Errors(t *testing.T) {
	for _, src := range []string{`(vec2 1)`, `(vec2 "a" 1)`, `(line (vec2 0 0) 5)`} {
		t.Run(src, func(t *testing.T) {
			evalErrors(t, src)
		})
	}
}

// ---------------------------------------------------------------------------
// Regressions
// ---------------------------------------------------------------------------

func TestEmptySourceStillWorks(t *testing.T) {
	if s := mustEvaluate(t, ""); s.Len() != 0 {
		t.Errorf("expected empty scene, got %d elements", s.Len())
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	mustEvaluate(t, "(+ 1 2)")
}
