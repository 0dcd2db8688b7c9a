package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// BoundingBoxAttachment is a polygon used for hit detection and physics queries, see SkeletonBounds.
type BoundingBoxAttachment struct {
	vertexAttachment

	// Color is an editor display tint.
	Color common.Color
}

var _ VertexAttachment = &BoundingBoxAttachment{}

// NewBoundingBoxAttachment creates an empty bounding box. Panics if ids is nil.
func NewBoundingBoxAttachment(name string, ids *IDAllocator) *BoundingBoxAttachment {
	return &BoundingBoxAttachment{
		vertexAttachment: newVertexAttachment(name, ids),
		Color:            common.NewColor(0.38, 0.94, 0, 1),
	}
}

func (b *BoundingBoxAttachment) sealed() {}

func (b *BoundingBoxAttachment) Type() AttachmentType {
	return AttachmentBoundingBox
}

func (b *BoundingBoxAttachment) DeformAttachment() VertexAttachment {
	return b.deformOr(b)
}

func (b *BoundingBoxAttachment) Copy() Attachment {
	c := &BoundingBoxAttachment{Color: b.Color}
	b.cloneInto(&c.vertexAttachment)
	return c
}
