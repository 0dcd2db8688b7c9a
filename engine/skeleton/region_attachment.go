package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Corner order of RegionAttachment vertices, offsets and UVs.
const (
	regionBR = iota * 2
	regionBL
	regionUL
	regionUR
)

// RegionQuadTriangles indexes the four region vertices as two triangles.
var RegionQuadTriangles = []uint16{0, 1, 2, 2, 3, 0}

// RegionAttachment is a textured quad positioned relative to its slot's bone.
// Its four vertices are emitted in the order bottom-right, bottom-left, upper-left, upper-right.
type RegionAttachment struct {
	name string

	// Placement of the quad's center in bone space.
	X, Y, Rotation, ScaleX, ScaleY float32
	// Width, Height are the quad size before scale.
	Width, Height float32
	// Path names the texture region for atlas lookups.
	Path string
	// Color tints the quad.
	Color common.Color

	region  *TextureRegion
	offsets [8]float32
	uvs     [8]float32
}

var _ Attachment = &RegionAttachment{}

// NewRegionAttachment creates a region with unit scale and a white tint.
func NewRegionAttachment(name string) *RegionAttachment {
	return &RegionAttachment{
		name:   name,
		ScaleX: 1,
		ScaleY: 1,
		Color:  common.White,
	}
}

func (r *RegionAttachment) sealed() {}

func (r *RegionAttachment) Name() string {
	return r.name
}

func (r *RegionAttachment) Type() AttachmentType {
	return AttachmentRegion
}

// Region returns the texture region, nil until SetRegion is called.
func (r *RegionAttachment) Region() *TextureRegion {
	return r.region
}

// SetRegion assigns the texture region and derives the four vertex UVs from it.
//
// Parameters:
//   - region: the texture region to sample, shared by reference
func (r *RegionAttachment) SetRegion(region *TextureRegion) {
	r.region = region
	u, v, u2, v2 := region.U, region.V, region.U2, region.V2
	uvs := &r.uvs
	if region.Rotated() {
		uvs[regionBR], uvs[regionBR+1] = u2, v
		uvs[regionBL], uvs[regionBL+1] = u2, v2
		uvs[regionUL], uvs[regionUL+1] = u, v2
		uvs[regionUR], uvs[regionUR+1] = u, v
		return
	}
	uvs[regionBR], uvs[regionBR+1] = u2, v2
	uvs[regionBL], uvs[regionBL+1] = u, v2
	uvs[regionUL], uvs[regionUL+1] = u, v
	uvs[regionUR], uvs[regionUR+1] = u2, v
}

// UVs returns the per-vertex texture coordinates in vertex order.
func (r *RegionAttachment) UVs() []float32 {
	return r.uvs[:]
}

// Offsets returns the bone-space vertex positions computed by UpdateOffset, in vertex order.
func (r *RegionAttachment) Offsets() []float32 {
	return r.offsets[:]
}

// UpdateOffset recomputes the bone-space vertex positions from the placement fields and the region's
// packing whitespace. Call it after changing X, Y, Rotation, ScaleX, ScaleY, Width, Height or the region.
func (r *RegionAttachment) UpdateOffset() {
	offX, offY := float32(0), float32(0)
	regionW, regionH := float32(1), float32(1)
	origW, origH := float32(1), float32(1)
	if reg := r.region; reg != nil && reg.Packed && reg.OriginalWidth > 0 && reg.OriginalHeight > 0 {
		offX, offY = reg.OffsetX, reg.OffsetY
		regionW, regionH = reg.Width, reg.Height
		origW, origH = reg.OriginalWidth, reg.OriginalHeight
	}

	regionScaleX := r.Width / origW * r.ScaleX
	regionScaleY := r.Height / origH * r.ScaleY
	localX := -r.Width/2*r.ScaleX + offX*regionScaleX
	localY := -r.Height/2*r.ScaleY + offY*regionScaleY
	localX2 := localX + regionW*regionScaleX
	localY2 := localY + regionH*regionScaleY

	cos, sin := common.CosDeg(r.Rotation), common.SinDeg(r.Rotation)
	localXCos, localXSin := localX*cos+r.X, localX*sin
	localYCos, localYSin := localY*cos+r.Y, localY*sin
	localX2Cos, localX2Sin := localX2*cos+r.X, localX2*sin
	localY2Cos, localY2Sin := localY2*cos+r.Y, localY2*sin

	o := &r.offsets
	o[regionBL], o[regionBL+1] = localXCos-localYSin, localYCos+localXSin
	o[regionUL], o[regionUL+1] = localXCos-localY2Sin, localY2Cos+localXSin
	o[regionUR], o[regionUR+1] = localX2Cos-localY2Sin, localY2Cos+localX2Sin
	o[regionBR], o[regionBR+1] = localX2Cos-localYSin, localYCos+localX2Sin
}

// ComputeWorldVertices transforms the four corners by the bone's world transform.
//
// Parameters:
//   - bone: the bone the region is attached to
//   - worldVertices: the output buffer, at least offset+3*stride+2 long
//   - offset: the index of the first output float
//   - stride: the distance between output vertices, at least 2
func (r *RegionAttachment) ComputeWorldVertices(bone *Bone, worldVertices []float32, offset, stride int) {
	x, y := bone.WorldX, bone.WorldY
	a, b, c, d := bone.A, bone.B, bone.C, bone.D
	for i := 0; i < 8; i += 2 {
		ox, oy := r.offsets[i], r.offsets[i+1]
		worldVertices[offset] = ox*a + oy*b + x
		worldVertices[offset+1] = ox*c + oy*d + y
		offset += stride
	}
}

func (r *RegionAttachment) Copy() Attachment {
	c := deepCopy(r)
	c.name = r.name
	c.region = r.region
	c.offsets = r.offsets
	c.uvs = r.uvs
	return c
}
