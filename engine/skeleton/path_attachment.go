package skeleton

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// PathAttachment is a cubic Bézier spline that path constraints lay bones along. Its vertices are
// control points in groups of three (in-handle, point, out-handle); the first in-handle and, for open
// paths, the last out-handle are unused.
type PathAttachment struct {
	vertexAttachment

	// Closed joins the last point back to the first.
	Closed bool
	// ConstantSpeed samples positions by arc length instead of by curve parameter.
	ConstantSpeed bool
	// Lengths holds the cumulative setup length at the end of each curve.
	Lengths []float32
	// Color is an editor display tint.
	Color common.Color
}

var _ VertexAttachment = &PathAttachment{}

// NewPathAttachment creates an empty path. Panics if ids is nil.
func NewPathAttachment(name string, ids *IDAllocator) *PathAttachment {
	return &PathAttachment{
		vertexAttachment: newVertexAttachment(name, ids),
		Color:            common.NewColor(1, 0.5, 0, 1),
	}
}

func (p *PathAttachment) sealed() {}

func (p *PathAttachment) Type() AttachmentType {
	return AttachmentPath
}

func (p *PathAttachment) DeformAttachment() VertexAttachment {
	return p.deformOr(p)
}

func (p *PathAttachment) Copy() Attachment {
	c := &PathAttachment{
		Closed:        p.Closed,
		ConstantSpeed: p.ConstantSpeed,
		Lengths:       slices.Clone(p.Lengths),
		Color:         p.Color,
	}
	p.cloneInto(&c.vertexAttachment)
	return c
}
