package geom

import "github.com/deadsy/sdfx/sdf"

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return sdf.DtoR(deg)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return sdf.RtoD(rad)
}

// RotationAbout returns the transform rotating by angle radians
// (counter-clockwise) about pivot.
func RotationAbout(pivot Vec, angle float64) sdf.M33 {
	return sdf.Translate2d(pivot).Mul(sdf.Rotate2d(angle)).Mul(sdf.Translate2d(pivot.Neg()))
}

// RotatePoint rotates p by angle radians about pivot.
func RotatePoint(p, pivot Vec, angle float64) Vec {
	return RotationAbout(pivot, angle).MulPosition(p)
}

// TransformLine applies m to both endpoints of l.
func TransformLine(l Line, m sdf.M33) Line {
	return Line{A: m.MulPosition(l.A), B: m.MulPosition(l.B)}
}
