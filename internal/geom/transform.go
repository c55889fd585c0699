package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// RotateAbout returns a rotation by angle radians around center.
func RotateAbout(angle float64, center gg.Point) gg.Matrix {
	return gg.Translate(center.X, center.Y).
		Multiply(gg.Rotate(angle)).
		Multiply(gg.Translate(-center.X, -center.Y))
}

// ScaleAbout returns a scale that keeps pivot fixed.
func ScaleAbout(scale, pivot gg.Point) gg.Matrix {
	return gg.Translate(pivot.X, pivot.Y).
		Multiply(gg.Scale(scale.X, scale.Y)).
		Multiply(gg.Translate(-pivot.X, -pivot.Y))
}

// Angle returns the signed angle of v against the positive x axis.
func Angle(v gg.Point) float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleBetween returns the signed angle rotating a onto b.
func AngleBetween(a, b gg.Point) float64 {
	return math.Atan2(a.Cross(b), a.Dot(b))
}

// ScaleLockedAspect grows orig uniformly so it covers desired on its
// dominant axis. Zero extents in orig are left untouched.
func ScaleLockedAspect(orig, desired gg.Point) gg.Point {
	rx, ry := ratio(desired.X, orig.X), ratio(desired.Y, orig.Y)
	f := math.Max(rx, ry)
	return orig.Mul(f)
}

func ratio(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

// Max returns the componentwise maximum.
func Max(a, b gg.Point) gg.Point {
	return gg.Pt(math.Max(a.X, b.X), math.Max(a.Y, b.Y))
}

// Min returns the componentwise minimum.
func Min(a, b gg.Point) gg.Point {
	return gg.Pt(math.Min(a.X, b.X), math.Min(a.Y, b.Y))
}

// DivSafe divides componentwise, treating a zero divisor as a ratio of 1.
func DivSafe(a, b gg.Point) gg.Point {
	out := gg.Pt(1, 1)
	if b.X != 0 {
		out.X = a.X / b.X
	}
	if b.Y != 0 {
		out.Y = a.Y / b.Y
	}
	return out
}

// ScaleFactors returns the x and y scale encoded in m.
func ScaleFactors(m gg.Matrix) gg.Point {
	return gg.Pt(math.Hypot(m.A, m.D), math.Hypot(m.B, m.E))
}
