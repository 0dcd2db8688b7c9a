package vertex_effect

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
	"github.com/chewxy/math32"
)

// Swirl twists the vertices inside a circle around its center. The twist is Angle at the center and eases
// out to nothing at the rim. The center is relative to the skeleton's position, resolved at Begin.
type Swirl interface {
	skeleton.VertexEffect

	// Center returns the circle's center relative to the skeleton position.
	Center() (float32, float32)

	// SetCenter sets the circle's center relative to the skeleton position.
	//
	// Parameters:
	//   - x: the horizontal offset from the skeleton position
	//   - y: the vertical offset from the skeleton position
	SetCenter(x, y float32)

	// Radius returns the circle's radius.
	Radius() float32

	// SetRadius sets the circle's radius. Vertices on or outside it are left alone.
	SetRadius(radius float32)

	// Angle returns the twist at the center, in degrees.
	Angle() float32

	// SetAngle sets the twist at the center, in degrees.
	SetAngle(degrees float32)
}

type swirl struct {
	centerX, centerY float32
	radius           float32
	angle            float32

	worldX, worldY float32
}

var _ Swirl = &swirl{}

// NewSwirl creates a Swirl effect of the given radius centered on the skeleton position.
//
// Parameters:
//   - radius: the radius of the affected circle
//   - options: functional options to configure the effect
//
// Returns:
//   - Swirl: the new effect
func NewSwirl(radius float32, options ...SwirlBuilderOption) Swirl {
	s := &swirl{radius: radius}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *swirl) Center() (float32, float32) {
	return s.centerX, s.centerY
}

func (s *swirl) SetCenter(x, y float32) {
	s.centerX, s.centerY = x, y
}

func (s *swirl) Radius() float32 {
	return s.radius
}

func (s *swirl) SetRadius(radius float32) {
	s.radius = radius
}

func (s *swirl) Angle() float32 {
	return s.angle
}

func (s *swirl) SetAngle(degrees float32) {
	s.angle = degrees
}

func (s *swirl) Begin(sk skeleton.Skeleton) {
	s.worldX, s.worldY = s.centerX, s.centerY
	if sk != nil {
		s.worldX += sk.X()
		s.worldY += sk.Y()
	}
}

func (s *swirl) Transform(position, _ *common.Vector2, _, _ *common.Color) {
	if s.radius <= 0 {
		return
	}
	x, y := position.X-s.worldX, position.Y-s.worldY
	dist := math32.Sqrt(x*x + y*y)
	if dist >= s.radius {
		return
	}
	theta := s.angle * common.DegRad * pow2Out((s.radius-dist)/s.radius)
	cos, sin := math32.Cos(theta), math32.Sin(theta)
	position.X = cos*x - sin*y + s.worldX
	position.Y = sin*x + cos*y + s.worldY
}

func (s *swirl) End() {}

// pow2Out eases a in [0, 1] with a quadratic that decelerates toward 1.
func pow2Out(a float32) float32 {
	a--
	return 1 - a*a
}
