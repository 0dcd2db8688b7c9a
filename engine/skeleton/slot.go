package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Slot is the runtime state of a slot: the attachment it currently shows, its tint, and the deform
// buffer laid over that attachment's vertices.
type Slot struct {
	data *SlotData
	bone *Bone

	// Color tints the attachment.
	Color common.Color
	// DarkColor is the dark tint for two-color tinting, nil when two-color tinting is off.
	DarkColor *common.Color

	attachment     Attachment
	attachmentTime float32
	deform         []float32
	scratch        []float32
}

// NewSlot creates a slot in its setup colors with no attachment. Panics if data or bone is nil.
// Slots are normally created by NewSkeleton, which also applies the setup attachment.
//
// Parameters:
//   - data: the slot blueprint
//   - bone: the bone the slot follows
//
// Returns:
//   - *Slot: the new slot
func NewSlot(data *SlotData, bone *Bone) *Slot {
	if data == nil {
		panic("skeleton: slot data cannot be nil")
	}
	if bone == nil {
		panic("skeleton: slot bone cannot be nil")
	}
	s := &Slot{data: data, bone: bone}
	if data.DarkColor != nil {
		s.DarkColor = &common.Color{}
	}
	s.setToSetupColors()
	return s
}

// Data returns the slot's setup-pose blueprint.
func (s *Slot) Data() *SlotData {
	return s.data
}

// Bone returns the bone the slot follows.
func (s *Slot) Bone() *Bone {
	return s.bone
}

// Skeleton returns the skeleton owning the slot's bone.
func (s *Slot) Skeleton() Skeleton {
	return s.bone.Skeleton()
}

// Attachment returns the current attachment, or nil.
func (s *Slot) Attachment() Attachment {
	return s.attachment
}

// SetAttachment shows a, or nothing when a is nil. Setting the current attachment again is a no-op.
// Otherwise the attachment time restarts and the deform buffer is emptied.
func (s *Slot) SetAttachment(a Attachment) {
	if s.attachment == a {
		return
	}
	s.assign(a)
}

func (s *Slot) assign(a Attachment) {
	s.attachment = a
	s.attachmentTime = s.skeletonTime()
	s.deform = s.deform[:0]
}

// AttachmentTime returns the skeleton time elapsed since the attachment was last changed.
func (s *Slot) AttachmentTime() float32 {
	return s.skeletonTime() - s.attachmentTime
}

// SetAttachmentTime back-dates the last attachment change so that AttachmentTime returns t.
func (s *Slot) SetAttachmentTime(t float32) {
	s.attachmentTime = s.skeletonTime() - t
}

func (s *Slot) skeletonTime() float32 {
	if sk := s.bone.skeleton; sk != nil {
		return sk.time
	}
	return 0
}

// Deform returns the per-vertex deform buffer. For unweighted vertex attachments it replaces the
// vertex positions; for weighted ones it holds an x,y offset per bone influence. Empty means no deform.
func (s *Slot) Deform() []float32 {
	return s.deform
}

// SetDeform copies values into the deform buffer, reusing its capacity.
func (s *Slot) SetDeform(values []float32) {
	s.deform = append(s.deform[:0], values...)
}

// SetToSetupPose restores the setup colors and setup attachment. The attachment is always reassigned,
// so the attachment time restarts and the deform buffer empties even when the setup attachment is
// already showing.
func (s *Slot) SetToSetupPose() {
	s.setToSetupColors()
	var a Attachment
	if name := s.data.AttachmentName; name != "" {
		if sk := s.bone.skeleton; sk != nil {
			a = sk.Attachment(s.data.Index, name)
		}
	}
	s.assign(a)
}

func (s *Slot) setToSetupColors() {
	s.Color = s.data.Color
	if s.DarkColor != nil && s.data.DarkColor != nil {
		*s.DarkColor = *s.data.DarkColor
	}
}

// worldScratch returns a reusable buffer of at least n floats.
func (s *Slot) worldScratch(n int) []float32 {
	if cap(s.scratch) < n {
		s.scratch = make([]float32, n)
	}
	return s.scratch[:n]
}

func (s *Slot) String() string {
	return s.data.Name
}
