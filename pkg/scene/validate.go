package scene

import (
	"fmt"

	"github.com/chazu/floorsnap/pkg/geom"
)

// ValidationSeverity indicates whether a finding makes the scene unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks snapping
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Tag      string // element with the problem (empty if scene-level)
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] element %s: %s", e.Severity, e.Tag, e.Message)
}

// ValidationWarning describes a non-blocking finding.
type ValidationWarning struct {
	Tag     string
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the scene has no blocking findings.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks: tags and the dragged reference.
// It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateTags(s)...)
	errs = append(errs, validateDragged(s)...)
	return errs
}

// ValidateAll runs the structural and geometric checks and separates
// errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{Tag: e.Tag, Message: e.Message})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}

	geomErrs, geomWarnings := validateGeometry(s)
	result.Errors = append(result.Errors, geomErrs...)
	result.Warnings = append(result.Warnings, geomWarnings...)
	return result
}

// validateTags flags untagged elements and tags shared by several
// elements.
func validateTags(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for i, e := range s.elements {
		if e.Tag() == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("%s at index %d has no tag", e.Kind(), i),
				Severity: SeverityError,
			})
			continue
		}
		seen[e.Tag()]++
	}
	for tag, n := range seen {
		if n > 1 {
			errs = append(errs, ValidationError{
				Tag:      tag,
				Message:  fmt.Sprintf("tag shared by %d elements, only the last is addressable", n),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func validateDragged(s *Scene) []ValidationError {
	if s.Dragged == "" || s.Lookup(s.Dragged) != nil {
		return nil
	}
	return []ValidationError{{
		Tag:      s.Dragged,
		Message:  "dragged element does not exist",
		Severity: SeverityError,
	}}
}

// validateGeometry checks sizes and shapes of every element.
func validateGeometry(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	positive := func(tag, what string, v float64) {
		if v <= 0 {
			errs = append(errs, ValidationError{
				Tag:      tag,
				Message:  fmt.Sprintf("%s is %.4f, must be positive", what, v),
				Severity: SeverityError,
			})
		}
	}

	for _, e := range s.elements {
		switch e := e.(type) {
		case *Wall:
			positive(e.Name, "wall width", e.width)
			switch p := e.path.(type) {
			case geom.Line:
				if p.Degenerate() {
					errs = append(errs, ValidationError{Tag: e.Name, Message: "wall path has zero length", Severity: SeverityError})
				}
			case geom.Arc:
				positive(e.Name, "arc wall inner radius", p.Radius-e.width/2)
				if geom.Zero(p.Sweep, geom.AngleEpsilon) {
					errs = append(errs, ValidationError{Tag: e.Name, Message: "arc wall has zero sweep", Severity: SeverityError})
				}
			}
			if e.height <= 0 {
				warnings = append(warnings, ValidationWarning{Tag: e.Name, Message: "wall has no height, faces are flat and ignored"})
			}
		case *Beam:
			positive(e.Name, "beam length", e.xsize)
			positive(e.Name, "beam depth", e.ysize)
		case *Column:
			positive(e.Name, "column x size", e.xsize)
			positive(e.Name, "column y size", e.ysize)
			if !e.kind.Square() {
				errs = append(errs, ValidationError{
					Tag:      e.Name,
					Message:  fmt.Sprintf("%s is not a rectangular structure", e.kind),
					Severity: SeverityError,
				})
			}
		case *RoundColumn:
			positive(e.Name, "column radius", e.circle.Radius)
			if !e.kind.Round() {
				errs = append(errs, ValidationError{
					Tag:      e.Name,
					Message:  fmt.Sprintf("%s is not a round structure", e.kind),
					Severity: SeverityError,
				})
			}
		case *Hole:
			lines := 0
			for _, c := range e.profile {
				if _, ok := c.(geom.Line); ok {
					lines++
				}
			}
			if lines < 4 {
				errs = append(errs, ValidationError{
					Tag:      e.Name,
					Message:  fmt.Sprintf("opening profile has %d lines, need at least 4", lines),
					Severity: SeverityError,
				})
			}
		case *Room:
			switch {
			case len(e.split) == 0 && len(e.wire) == 0:
				warnings = append(warnings, ValidationWarning{Tag: e.Name, Message: "room has no curves"})
			case geom.Zero(e.Loop().SignedArea(), geom.PointEpsilon):
				warnings = append(warnings, ValidationWarning{Tag: e.Name, Message: "room encloses no area"})
			}
		}
	}
	return errs, warnings
}
