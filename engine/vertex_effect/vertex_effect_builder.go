package vertex_effect

// JitterBuilderOption is a functional option for configuring a Jitter.
type JitterBuilderOption func(j *jitter)

// WithJitterSeed seeds the random generator so that a sequence of passes can be replayed.
//
// Parameters:
//   - seed: the generator seed
//
// Returns:
//   - JitterBuilderOption: option function to apply
func WithJitterSeed(seed uint64) JitterBuilderOption {
	return func(j *jitter) {
		j.seed = seed
	}
}

// SwirlBuilderOption is a functional option for configuring a Swirl.
type SwirlBuilderOption func(s *swirl)

// WithSwirlCenter offsets the circle's center from the skeleton position.
//
// Parameters:
//   - x: the horizontal offset
//   - y: the vertical offset
//
// Returns:
//   - SwirlBuilderOption: option function to apply
func WithSwirlCenter(x, y float32) SwirlBuilderOption {
	return func(s *swirl) {
		s.centerX, s.centerY = x, y
	}
}

// WithSwirlAngle sets the twist at the center, in degrees.
//
// Parameters:
//   - degrees: the twist angle
//
// Returns:
//   - SwirlBuilderOption: option function to apply
func WithSwirlAngle(degrees float32) SwirlBuilderOption {
	return func(s *swirl) {
		s.angle = degrees
	}
}
