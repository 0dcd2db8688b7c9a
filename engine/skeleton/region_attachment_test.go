package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionOffsetsAndWorldVertices(t *testing.T) {
	r := newRig("root")
	r.data.Bones[0].X = 100
	sk := r.build(t)
	sk.UpdateWorldTransform()

	region := NewRegionAttachment("quad")
	region.Width, region.Height = 10, 20
	region.UpdateOffset()
	assert.InDeltaSlice(t, []float32{5, -10, -5, -10, -5, 10, 5, 10}, region.Offsets(), tolerance)

	out := make([]float32, 8)
	region.ComputeWorldVertices(sk.RootBone(), out, 0, 2)
	assert.InDeltaSlice(t, []float32{105, -10, 95, -10, 95, 10, 105, 10}, out, tolerance)
}

func TestRegionRotationAndScale(t *testing.T) {
	region := NewRegionAttachment("quad")
	region.Width, region.Height = 2, 2
	region.Rotation = 90
	region.ScaleX = 2
	region.X = 1
	region.UpdateOffset()

	// Local corners (±2, ±1) rotated by 90 and moved by X.
	assert.InDeltaSlice(t, []float32{2, 2, 2, -2, 0, -2, 0, 2}, region.Offsets(), tolerance)
}

func TestRegionUVs(t *testing.T) {
	region := NewRegionAttachment("quad")
	region.SetRegion(&TextureRegion{U: 0.1, V: 0.2, U2: 0.3, V2: 0.4})
	assert.Equal(t, []float32{0.3, 0.4, 0.1, 0.4, 0.1, 0.2, 0.3, 0.2}, region.UVs())

	region.SetRegion(&TextureRegion{U: 0.1, V: 0.2, U2: 0.3, V2: 0.4, Packed: true, Degrees: 90})
	assert.Equal(t, []float32{0.3, 0.2, 0.3, 0.4, 0.1, 0.4, 0.1, 0.2}, region.UVs())
}

func TestRegionPackedWhitespace(t *testing.T) {
	region := NewRegionAttachment("quad")
	region.Width, region.Height = 20, 10
	region.SetRegion(&TextureRegion{
		Packed: true, OffsetX: 2, OffsetY: 4, Width: 16, Height: 6,
		OriginalWidth: 20, OriginalHeight: 10,
	})
	region.UpdateOffset()
	// Trimmed image spans x [-8, 8] and y [-1, 5] of the original [-10, 10] x [-5, 5].
	assert.InDeltaSlice(t, []float32{8, -1, -8, -1, -8, 5, 8, 5}, region.Offsets(), tolerance)
}

func TestRegionCopy(t *testing.T) {
	region := NewRegionAttachment("quad")
	region.Width, region.Height = 4, 4
	tex := &TextureRegion{U2: 1, V2: 1}
	region.SetRegion(tex)
	region.UpdateOffset()

	c, ok := region.Copy().(*RegionAttachment)
	require.True(t, ok)
	assert.Equal(t, "quad", c.Name())
	assert.Same(t, tex, c.Region())
	assert.Equal(t, region.UVs(), c.UVs())
	assert.Equal(t, region.Offsets(), c.Offsets())
	assert.Equal(t, region.Color, c.Color)

	c.Width = 99
	c.Offsets()[0] = 99
	assert.Equal(t, float32(4), region.Width)
	assert.NotEqual(t, float32(99), region.Offsets()[0])
}

func TestPointAttachment(t *testing.T) {
	r := newRig("root")
	r.data.Bones[0].Rotation = 90
	sk := r.build(t)
	sk.UpdateWorldTransform()

	p := NewPointAttachment("muzzle")
	p.X = 10
	p.Rotation = 45
	x, y := p.ComputeWorldPosition(sk.RootBone())
	assert.InDelta(t, 0, x, tolerance)
	assert.InDelta(t, 10, y, tolerance)
	assert.InDelta(t, 135, p.ComputeWorldRotation(sk.RootBone()), tolerance)

	c := p.Copy().(*PointAttachment)
	assert.Equal(t, "muzzle", c.Name())
	assert.Equal(t, p.X, c.X)
	assert.NotSame(t, p, c)
}

func TestAttachmentTypes(t *testing.T) {
	ids := NewIDAllocator()
	tests := []struct {
		a    Attachment
		want string
	}{
		{NewRegionAttachment("r"), "region"},
		{NewMeshAttachment("m", ids), "mesh"},
		{NewBoundingBoxAttachment("b", ids), "boundingbox"},
		{NewClippingAttachment("c", ids), "clipping"},
		{NewPathAttachment("p", ids), "path"},
		{NewPointAttachment("pt"), "point"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.a.Type().String())
		c := tt.a.Copy()
		assert.Equal(t, tt.a.Type(), c.Type())
		assert.Equal(t, tt.a.Name(), c.Name())
	}
}
