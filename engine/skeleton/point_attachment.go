package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// PointAttachment is a position and rotation in bone space, used to spawn effects or attach items.
type PointAttachment struct {
	name string

	X, Y, Rotation float32
	// Color is an editor display tint.
	Color common.Color
}

var _ Attachment = &PointAttachment{}

// NewPointAttachment creates a point at the bone origin.
func NewPointAttachment(name string) *PointAttachment {
	return &PointAttachment{name: name, Color: common.NewColor(0.38, 0.94, 0, 1)}
}

func (p *PointAttachment) sealed() {}

func (p *PointAttachment) Name() string {
	return p.name
}

func (p *PointAttachment) Type() AttachmentType {
	return AttachmentPoint
}

// ComputeWorldPosition returns the point in world space.
func (p *PointAttachment) ComputeWorldPosition(bone *Bone) (float32, float32) {
	return bone.LocalToWorld(p.X, p.Y)
}

// ComputeWorldRotation returns the point's rotation in world space, in degrees.
func (p *PointAttachment) ComputeWorldRotation(bone *Bone) float32 {
	cos, sin := common.CosDeg(p.Rotation), common.SinDeg(p.Rotation)
	x := cos*bone.A + sin*bone.B
	y := cos*bone.C + sin*bone.D
	return common.Atan2Deg(y, x)
}

func (p *PointAttachment) Copy() Attachment {
	c := deepCopy(p)
	c.name = p.name
	return c
}
