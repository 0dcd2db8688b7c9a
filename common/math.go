package common

import (
	"math"

	"github.com/chewxy/math32"
)

const (
	// Pi is float32 π.
	Pi float32 = math32.Pi
	// Pi2 is a full turn in radians.
	Pi2 float32 = math32.Pi * 2
	// RadDeg converts radians to degrees.
	RadDeg float32 = 180 / math32.Pi
	// DegRad converts degrees to radians.
	DegRad float32 = math32.Pi / 180
	// MaxFloat32 seeds min/max accumulators.
	MaxFloat32 float32 = math.MaxFloat32
)

// CosDeg returns the cosine of an angle given in degrees.
//
// Parameters:
//   - degrees: the angle in degrees
//
// Returns:
//   - float32: the cosine of the angle
func CosDeg(degrees float32) float32 {
	return math32.Cos(degrees * DegRad)
}

// SinDeg returns the sine of an angle given in degrees.
//
// Parameters:
//   - degrees: the angle in degrees
//
// Returns:
//   - float32: the sine of the angle
func SinDeg(degrees float32) float32 {
	return math32.Sin(degrees * DegRad)
}

// Atan2Deg returns atan2(y, x) in degrees.
func Atan2Deg(y, x float32) float32 {
	return math32.Atan2(y, x) * RadDeg
}

// Clamp restricts v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: v limited to [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Signum returns -1, 0 or 1 matching the sign of v.
func Signum(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// WrapDegrees folds an angle delta in degrees into the range (-180, 180].
// Constraint solvers use this to blend toward a target along the shortest arc.
//
// Parameters:
//   - degrees: the angle to wrap
//
// Returns:
//   - float32: the equivalent angle in (-180, 180]
func WrapDegrees(degrees float32) float32 {
	if degrees > 180 {
		degrees -= 360
	} else if degrees < -180 {
		degrees += 360
	}
	return degrees
}

// WrapRadians folds an angle in radians into the range [-π, π].
func WrapRadians(r float32) float32 {
	if r > Pi {
		r -= Pi2
	} else if r < -Pi {
		r += Pi2
	}
	return r
}
