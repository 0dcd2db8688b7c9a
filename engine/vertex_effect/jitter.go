package vertex_effect

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
	"github.com/chewxy/math32"
)

// Jitter displaces every vertex by a random offset drawn from a triangular distribution centered on zero.
// A Jitter is not safe for concurrent use.
type Jitter interface {
	skeleton.VertexEffect

	// Amount returns the maximum offset on each axis.
	//
	// Returns:
	//   - float32: the maximum horizontal offset
	//   - float32: the maximum vertical offset
	Amount() (float32, float32)

	// SetAmount sets the maximum offset on each axis. Negative values are treated as their magnitude.
	//
	// Parameters:
	//   - x: the maximum horizontal offset
	//   - y: the maximum vertical offset
	SetAmount(x, y float32)
}

type jitter struct {
	x, y float32
	seed uint64
	rng  *rand.Rand
}

var _ Jitter = &jitter{}

// NewJitter creates a Jitter effect with offsets in [-x, x] and [-y, y].
// The generator is seeded with 0 unless WithJitterSeed is given, so passes are reproducible.
//
// Parameters:
//   - x: the maximum horizontal offset
//   - y: the maximum vertical offset
//   - options: functional options to configure the effect
//
// Returns:
//   - Jitter: the new effect
func NewJitter(x, y float32, options ...JitterBuilderOption) Jitter {
	j := &jitter{}
	j.SetAmount(x, y)
	for _, opt := range options {
		opt(j)
	}
	j.rng = rand.New(rand.NewPCG(j.seed, j.seed^0x9e3779b97f4a7c15))
	return j
}

func (j *jitter) Amount() (float32, float32) {
	return j.x, j.y
}

func (j *jitter) SetAmount(x, y float32) {
	j.x, j.y = math32.Abs(x), math32.Abs(y)
}

func (j *jitter) Begin(_ skeleton.Skeleton) {}

func (j *jitter) Transform(position, _ *common.Vector2, _, _ *common.Color) {
	position.X += j.triangular(j.x)
	position.Y += j.triangular(j.y)
}

func (j *jitter) End() {}

// triangular returns a sample in [-limit, limit] with its mode at zero.
func (j *jitter) triangular(limit float32) float32 {
	if limit == 0 {
		return 0
	}
	u := j.rng.Float32()
	span := 2 * limit
	if u <= 0.5 {
		return -limit + math32.Sqrt(u*span*limit)
	}
	return limit - math32.Sqrt((1-u)*span*limit)
}
