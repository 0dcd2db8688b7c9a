package skeleton

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// AttachmentType tags the concrete variant behind an Attachment.
type AttachmentType int

const (
	AttachmentRegion AttachmentType = iota
	AttachmentBoundingBox
	AttachmentMesh
	AttachmentPath
	AttachmentPoint
	AttachmentClipping
)

var attachmentTypeNames = [...]string{"region", "boundingbox", "mesh", "path", "point", "clipping"}

func (t AttachmentType) String() string {
	if t < 0 || int(t) >= len(attachmentTypeNames) {
		return "unknown"
	}
	return attachmentTypeNames[t]
}

// Attachment is something a slot can show: a textured region or mesh, a bounding polygon, a clipping
// polygon, a path, or a point. The variant set is closed; switch on the concrete type or on Type().
type Attachment interface {
	// Name returns the attachment's name within its skin.
	Name() string

	// Type returns the attachment's variant tag.
	Type() AttachmentType

	// Copy returns an independent copy. Owned buffers are cloned; texture regions and slot
	// references are shared. Copying a linked mesh yields a new linked mesh of the same parent.
	Copy() Attachment

	// sealed restricts implementations to this package.
	sealed()
}

// deepCopy clones the exported fields of src. Unexported state is left to the caller.
func deepCopy[T any](src *T) *T {
	dst := new(T)
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("skeleton: copy %T: %v", src, err))
	}
	return dst
}

// requireIDs panics on a nil allocator, which every vertex attachment needs.
func requireIDs(ids *IDAllocator) {
	if ids == nil {
		panic("skeleton: vertex attachment requires an IDAllocator")
	}
}
