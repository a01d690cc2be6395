// Package geom provides the 2D primitives used by the snapping engine:
// points, bounded lines, circles, bounded arcs and closed loops.
//
// Points are sdfx v2 vectors so values flow unchanged between this package
// and the sdfx transform and SDF helpers. The world frame is y-up; positive
// angles are counter-clockwise.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"gonum.org/v1/gonum/floats/scalar"
)

// Vec is a 2D point or direction.
type Vec = v2.Vec

const (
	// PointEpsilon is the distance under which two points are the same point.
	PointEpsilon = 1e-6

	// AngleEpsilon is the angle in radians under which a rotation is a no-op.
	AngleEpsilon = 1e-6

	// ParallelEpsilon bounds |sin| between two unit directions for them to
	// count as parallel (or |cos| for perpendicular).
	ParallelEpsilon = 1e-6
)

// Curve is a bounded 1D primitive that can appear on an element boundary.
// The set of implementations is closed: Line and Arc.
type Curve interface {
	Start() Vec
	End() Vec
	Mid() Vec
	curve()
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Perp returns v rotated by +90 degrees.
func Perp(v Vec) Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func Unit(v Vec) Vec {
	l := v.Length()
	if l < PointEpsilon {
		return Vec{}
	}
	return v.MulScalar(1 / l)
}

// Near reports whether a and b are within PointEpsilon of each other.
func Near(a, b Vec) bool {
	return a.Sub(b).Length() < PointEpsilon
}

// Zero reports whether x is within eps of zero.
func Zero(x, eps float64) bool {
	return scalar.EqualWithinAbs(x, 0, eps)
}

// Heading returns the angle of v measured from the +x axis, in (-Pi, Pi].
func Heading(v Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// NormalizeAngle maps a to (-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// SignedAngle returns the counter-clockwise angle that rotates from to
// onto to, in (-Pi, Pi].
func SignedAngle(from, to Vec) float64 {
	return math.Atan2(Cross(from, to), from.Dot(to))
}

// AxisAngle returns the smallest signed rotation that makes direction
// from parallel to the undirected axis to. The result lies in
// (-Pi/2, Pi/2].
func AxisAngle(from, to Vec) float64 {
	a := SignedAngle(from, to)
	if a > math.Pi/2 {
		a -= math.Pi
	} else if a <= -math.Pi/2 {
		a += math.Pi
	}
	return a
}
