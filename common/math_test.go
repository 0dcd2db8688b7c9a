package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigDegrees(t *testing.T) {
	assert.InDelta(t, 0, CosDeg(90), 1e-6)
	assert.InDelta(t, 1, SinDeg(90), 1e-6)
	assert.InDelta(t, -1, CosDeg(180), 1e-6)
	assert.InDelta(t, 45, Atan2Deg(1, 1), 1e-4)
	assert.InDelta(t, -90, Atan2Deg(-1, 0), 1e-4)
}

func TestClampAndSignum(t *testing.T) {
	assert.Equal(t, float32(0), Clamp(-1, 0, 1))
	assert.Equal(t, float32(1), Clamp(2, 0, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, 0, 1))

	assert.Equal(t, float32(1), Signum(3))
	assert.Equal(t, float32(-1), Signum(-0.1))
	assert.Equal(t, float32(0), Signum(0))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{in: 190, want: -170},
		{in: -190, want: 170},
		{in: 180, want: 180},
		{in: 45, want: 45},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapDegrees(tt.in), 1e-4, "%v", tt.in)
	}

	assert.InDelta(t, -Pi/2, WrapRadians(3*Pi/2), 1e-5)
	assert.InDelta(t, Pi/2, WrapRadians(-3*Pi/2), 1e-5)
}

func TestColor(t *testing.T) {
	c := NewColor(0.5, 1, 2, 1).Mul(NewColor(0.5, 0.5, 0.5, 0.5))
	assert.Equal(t, NewColor(0.25, 0.5, 1, 0.5), c)
	assert.Equal(t, NewColor(1, 0, 1, 1), NewColor(1.5, -1, 1, 1).Clamp())
	assert.Equal(t, [4]float32{0.25, 0.5, 1, 0.5}, c.Array())

	c.Set(0, 0, 0, 0)
	assert.Equal(t, Color{}, c)
}

func TestVector2Set(t *testing.T) {
	var v Vector2
	assert.Same(t, &v, v.Set(1, 2))
	assert.Equal(t, Vector2{X: 1, Y: 2}, v)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, 2.5, Coalesce(0, 2.5))
}
