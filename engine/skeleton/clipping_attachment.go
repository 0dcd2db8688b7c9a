package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// ClippingAttachment is a polygon that clips the slots drawn after it, up to and including EndSlot.
// The clipping itself is done by the renderer.
type ClippingAttachment struct {
	vertexAttachment

	// EndSlot is the last slot clipped, nil to clip until the end of the draw order.
	EndSlot *SlotData
	// Color is an editor display tint.
	Color common.Color
}

var _ VertexAttachment = &ClippingAttachment{}

// NewClippingAttachment creates an empty clipping polygon. Panics if ids is nil.
func NewClippingAttachment(name string, ids *IDAllocator) *ClippingAttachment {
	return &ClippingAttachment{
		vertexAttachment: newVertexAttachment(name, ids),
		Color:            common.NewColor(0.2275, 0.2275, 0.8078, 1),
	}
}

func (c *ClippingAttachment) sealed() {}

func (c *ClippingAttachment) Type() AttachmentType {
	return AttachmentClipping
}

func (c *ClippingAttachment) DeformAttachment() VertexAttachment {
	return c.deformOr(c)
}

func (c *ClippingAttachment) Copy() Attachment {
	cp := &ClippingAttachment{EndSlot: c.EndSlot, Color: c.Color}
	c.cloneInto(&cp.vertexAttachment)
	return cp
}
