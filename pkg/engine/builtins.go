package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/google/uuid"

	"github.com/chazu/floorsnap/pkg/extract"
	"github.com/chazu/floorsnap/pkg/geom"
	"github.com/chazu/floorsnap/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: arc-wall -> arc_wall
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a plan point.
type sexpVec2 struct {
	vec geom.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpCurve wraps a line or arc so it can be used in profiles and room
// boundaries.
type sexpCurve struct {
	curve geom.Curve
}

func (c *sexpCurve) SexpString(ps *zygo.PrintState) string {
	switch cv := c.curve.(type) {
	case geom.Line:
		return fmt.Sprintf("(line (vec2 %g %g) (vec2 %g %g))", cv.A.X, cv.A.Y, cv.B.X, cv.B.Y)
	case geom.Arc:
		return fmt.Sprintf("(arc :radius %g)", cv.Radius)
	}
	return "(curve)"
}
func (c *sexpCurve) Type() *zygo.RegisteredType { return nil }

// sexpElementRef refers to an element already added to the scene.
type sexpElementRef struct {
	tag  string
	kind scene.ElementKind
}

func (r *sexpElementRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", r.kind, r.tag)
}
func (r *sexpElementRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	fn         string
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(fn string, args []zygo.Sexp) kwArgs {
	result := kwArgs{fn: fn, kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// name pops a leading positional string, the element's tag.
func (a *kwArgs) name() (string, bool) {
	if len(a.positional) == 0 {
		return "", false
	}
	s, ok := a.positional[0].(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	a.positional = a.positional[1:]
	return s.S, true
}

// number returns keyword key as a float, or def when absent.
func (a kwArgs) number(key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
	return f, nil
}

// requireNumber returns keyword key as a float and fails when absent.
func (a kwArgs) requireNumber(key string) (float64, error) {
	if _, ok := a.kw[key]; !ok {
		return 0, fmt.Errorf("%s requires :%s", a.fn, key)
	}
	return a.number(key, 0)
}

// angle returns keyword key, given in degrees, as radians.
func (a kwArgs) angle(key string, def float64) (float64, error) {
	deg, err := a.number(key, def)
	if err != nil {
		return 0, err
	}
	return geom.Radians(deg), nil
}

// point returns keyword key as a plan point and fails when absent.
func (a kwArgs) point(key string) (geom.Vec, error) {
	v, ok := a.kw[key]
	if !ok {
		return geom.Vec{}, fmt.Errorf("%s requires :%s", a.fn, key)
	}
	p, err := toVec2(v)
	if err != nil {
		return geom.Vec{}, fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
	return p, nil
}

// curves returns keyword key as a list of curves. ok is false when absent.
func (a kwArgs) curves(key string) (curves []geom.Curve, ok bool, err error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, false, nil
	}
	items, err := sexpListToSlice(v)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
	for i, item := range items {
		c, ok := item.(*sexpCurve)
		if !ok {
			return nil, true, fmt.Errorf("%s: %s: entry %d: expected line or arc, got %T", a.fn, key, i, item)
		}
		curves = append(curves, c.curve)
	}
	return curves, true, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_flue) and plain strings ("flue").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec2 extracts a point from a sexpVec2.
func toVec2(s zygo.Sexp) (geom.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return geom.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toStructureKind converts a keyword such as :flue to a structure kind.
func toStructureKind(s zygo.Sexp) (extract.StructureKind, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected structure kind keyword: %w", err)
	}
	for k := extract.SquareColumn; k <= extract.Outlet; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid structure kind %q", name)
}

// toTag extracts an element tag from a reference or a string.
func toTag(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpElementRef:
		return v.tag, nil
	case *zygo.SexpStr:
		return v.S, nil
	}
	return "", fmt.Errorf("expected element or tag, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Element tags
// ---------------------------------------------------------------------------

// DefaultWallHeight is used when a wall omits :height.
const DefaultWallHeight = 3.0

// builder adds evaluated elements to the scene and names anonymous ones.
type builder struct {
	scene *scene.Scene
	anon  int
}

func newBuilder(s *scene.Scene) *builder {
	return &builder{scene: s}
}

// tag returns the element's explicit name, or a uuid derived from the
// element kind and its position among anonymous elements, so repeated
// evaluations of one source name elements the same way.
func (b *builder) tag(kind scene.ElementKind, a *kwArgs) string {
	if name, ok := a.name(); ok {
		return name
	}
	b.anon++
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d", kind, b.anon))).String()
}

func (b *builder) add(e scene.Element) zygo.Sexp {
	b.scene.Add(e)
	return &sexpElementRef{tag: e.Tag(), kind: e.Kind()}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins add elements to the builder's scene during
// evaluation. Angles are given in degrees.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (vec2 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: geom.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (line (vec2 0 0) (vec2 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("line requires exactly 2 points, got %d", len(args))
		}
		a, err := toVec2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: start: %w", err)
		}
		z, err := toVec2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: end: %w", err)
		}
		return &sexpCurve{curve: geom.NewLine(a, z)}, nil
	})

	// -----------------------------------------------------------------------
	// (arc :center (vec2 0 0) :radius 5 :start 0 :sweep 90)
	// -----------------------------------------------------------------------
	env.AddFunction("arc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("arc", args)
		center, err := pa.point("center")
		if err != nil {
			return zygo.SexpNull, err
		}
		radius, err := pa.requireNumber("radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		start, err := pa.angle("start", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		sweep, err := pa.angle("sweep", 360)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpCurve{curve: geom.Arc{Center: center, Radius: radius, StartAngle: start, Sweep: sweep}}, nil
	})

	// -----------------------------------------------------------------------
	// (wall "w1" :from (vec2 0 0) :to (vec2 10 0) :width 0.2 :height 2.5)
	// -----------------------------------------------------------------------
	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("wall", args)
		tag := b.tag(scene.KindWall, &pa)
		from, err := pa.point("from")
		if err != nil {
			return zygo.SexpNull, err
		}
		to, err := pa.point("to")
		if err != nil {
			return zygo.SexpNull, err
		}
		width, err := pa.requireNumber("width")
		if err != nil {
			return zygo.SexpNull, err
		}
		height, err := pa.number("height", DefaultWallHeight)
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(scene.NewStraightWall(tag, from, to, width, height)), nil
	})

	// -----------------------------------------------------------------------
	// (arc-wall "w2" :center (vec2 0 0) :radius 5 :start 0 :sweep 90
	//           :width 0.2 :height 2.5)
	// -----------------------------------------------------------------------
	env.AddFunction("arc_wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("arc-wall", args)
		tag := b.tag(scene.KindWall, &pa)
		center, err := pa.point("center")
		if err != nil {
			return zygo.SexpNull, err
		}
		radius, err := pa.requireNumber("radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		start, err := pa.angle("start", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		sweep, err := pa.angle("sweep", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		width, err := pa.requireNumber("width")
		if err != nil {
			return zygo.SexpNull, err
		}
		height, err := pa.number("height", DefaultWallHeight)
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(scene.NewArcWall(tag, center, radius, start, sweep, width, height)), nil
	})

	// -----------------------------------------------------------------------
	// (beam "b1" :at (vec2 5 5) :length 4 :depth 0.3 :angle 0)
	// -----------------------------------------------------------------------
	env.AddFunction("beam", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("beam", args)
		tag := b.tag(scene.KindBeam, &pa)
		at, err := pa.point("at")
		if err != nil {
			return zygo.SexpNull, err
		}
		length, err := pa.requireNumber("length")
		if err != nil {
			return zygo.SexpNull, err
		}
		depth, err := pa.requireNumber("depth")
		if err != nil {
			return zygo.SexpNull, err
		}
		angle, err := pa.angle("angle", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(scene.NewRectBeam(tag, at, length, depth, angle)), nil
	})

	// -----------------------------------------------------------------------
	// (column "c1" :kind :flue :at (vec2 2 2) :xsize 0.4 :ysize 0.4 :angle 0)
	// -----------------------------------------------------------------------
	env.AddFunction("column", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("column", args)
		tag := b.tag(scene.KindColumn, &pa)
		kind := extract.SquareColumn
		if v, ok := pa.kw["kind"]; ok {
			k, err := toStructureKind(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("column: kind: %w", err)
			}
			kind = k
		}
		at, err := pa.point("at")
		if err != nil {
			return zygo.SexpNull, err
		}
		xsize, err := pa.requireNumber("xsize")
		if err != nil {
			return zygo.SexpNull, err
		}
		ysize, err := pa.number("ysize", xsize)
		if err != nil {
			return zygo.SexpNull, err
		}
		angle, err := pa.angle("angle", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(scene.NewRectColumn(tag, kind, at, xsize, ysize, angle)), nil
	})

	// -----------------------------------------------------------------------
	// (round-column "c2" :kind :outlet :at (vec2 8 8) :radius 0.25)
	// -----------------------------------------------------------------------
	env.AddFunction("round_column", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("round-column", args)
		tag := b.tag(scene.KindRoundColumn, &pa)
		kind := extract.CircleColumn
		if v, ok := pa.kw["kind"]; ok {
			k, err := toStructureKind(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("round-column: kind: %w", err)
			}
			kind = k
		}
		at, err := pa.point("at")
		if err != nil {
			return zygo.SexpNull, err
		}
		radius, err := pa.requireNumber("radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(scene.NewRoundColumn(tag, kind, at, radius)), nil
	})

	// -----------------------------------------------------------------------
	// (hole "h1" :at (vec2 3 0) :width 0.9 :depth 0.2 :angle 0)
	// (hole "h2" :profile (list (line ...) (line ...) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("hole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("hole", args)
		tag := b.tag(scene.KindHole, &pa)
		profile, ok, err := pa.curves("profile")
		if err != nil {
			return zygo.SexpNull, err
		}
		if ok {
			return b.add(scene.NewHole(tag, profile)), nil
		}
		at, err := pa.point("at")
		if err != nil {
			return zygo.SexpNull, err
		}
		width, err := pa.requireNumber("width")
		if err != nil {
			return zygo.SexpNull, err
		}
		depth, err := pa.requireNumber("depth")
		if err != nil {
			return zygo.SexpNull, err
		}
		angle, err := pa.angle("angle", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(scene.NewRectHole(tag, at, width, depth, angle)), nil
	})

	// -----------------------------------------------------------------------
	// (room "r1" (vec2 0 0) (vec2 10 0) (vec2 10 10) (vec2 0 10))
	// (room "r2" :curves (list (line ...) (arc ...)) :split (list ...))
	// -----------------------------------------------------------------------
	env.AddFunction("room", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("room", args)
		tag := b.tag(scene.KindRoom, &pa)
		wire, ok, err := pa.curves("curves")
		if err != nil {
			return zygo.SexpNull, err
		}
		if ok {
			split, ok, err := pa.curves("split")
			if err != nil {
				return zygo.SexpNull, err
			}
			if !ok {
				split = wire
			}
			return b.add(scene.NewRoomCurves(tag, split, wire)), nil
		}

		outline := make([]geom.Vec, 0, len(pa.positional))
		for i, v := range pa.positional {
			p, err := toVec2(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: point %d: %w", i, err)
			}
			outline = append(outline, p)
		}
		return b.add(scene.NewRoom(tag, outline)), nil
	})

	// -----------------------------------------------------------------------
	// (drag (beam ...)) or (drag "b1")
	// -----------------------------------------------------------------------
	env.AddFunction("drag", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("drag requires exactly 1 argument, got %d", len(args))
		}
		tag, err := toTag(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("drag: %w", err)
		}
		b.scene.Dragged = tag
		return args[0], nil
	})
}
