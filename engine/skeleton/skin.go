package skeleton

import (
	"slices"
)

// SkinEntry is one attachment of a skin, keyed by slot index and name.
type SkinEntry struct {
	SlotIndex  int
	Name       string
	Attachment Attachment
}

type skinKey struct {
	slotIndex int
	name      string
}

// Skin maps (slot index, name) pairs to attachments, and lists the skin-required bones and
// constraints it activates. Entries keep their insertion order.
type Skin struct {
	name    string
	entries []SkinEntry
	index   map[skinKey]int

	// Bones are the skin-required bones this skin activates.
	Bones []*BoneData
	// Constraints are the skin-required constraints this skin activates.
	Constraints []ConstraintDefinition
}

// NewSkin creates an empty skin.
func NewSkin(name string) *Skin {
	return &Skin{name: name, index: make(map[skinKey]int)}
}

// Name returns the skin's name.
func (s *Skin) Name() string {
	return s.name
}

// SetAttachment adds or replaces the attachment for a slot and name. Panics if a is nil.
//
// Parameters:
//   - slotIndex: the slot's index in the skeleton data
//   - name: the attachment's name within the skin, which may differ from the attachment's own name
//   - a: the attachment
func (s *Skin) SetAttachment(slotIndex int, name string, a Attachment) {
	if a == nil {
		panic("skeleton: skin attachment cannot be nil")
	}
	if s.index == nil {
		s.index = make(map[skinKey]int)
	}
	key := skinKey{slotIndex, name}
	if i, ok := s.index[key]; ok {
		s.entries[i].Attachment = a
		return
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, SkinEntry{SlotIndex: slotIndex, Name: name, Attachment: a})
}

// Attachment returns the attachment for a slot and name, or nil.
func (s *Skin) Attachment(slotIndex int, name string) Attachment {
	if i, ok := s.index[skinKey{slotIndex, name}]; ok {
		return s.entries[i].Attachment
	}
	return nil
}

// RemoveAttachment removes the attachment for a slot and name, if present.
func (s *Skin) RemoveAttachment(slotIndex int, name string) {
	key := skinKey{slotIndex, name}
	i, ok := s.index[key]
	if !ok {
		return
	}
	delete(s.index, key)
	s.entries = slices.Delete(s.entries, i, i+1)
	for j := i; j < len(s.entries); j++ {
		e := s.entries[j]
		s.index[skinKey{e.SlotIndex, e.Name}] = j
	}
}

// Attachments returns every entry in insertion order. The slice must not be modified.
func (s *Skin) Attachments() []SkinEntry {
	return s.entries
}

// AttachmentsForSlot returns the entries for one slot in insertion order.
func (s *Skin) AttachmentsForSlot(slotIndex int) []SkinEntry {
	var out []SkinEntry
	for _, e := range s.entries {
		if e.SlotIndex == slotIndex {
			out = append(out, e)
		}
	}
	return out
}

// AddSkin adds every attachment, bone and constraint of other to this skin. Attachments are shared.
func (s *Skin) AddSkin(other *Skin) {
	s.mergeRequired(other)
	for _, e := range other.entries {
		s.SetAttachment(e.SlotIndex, e.Name, e.Attachment)
	}
}

// CopySkin adds copies of every attachment of other to this skin, along with its bones and constraints.
// Meshes are added as linked meshes so that they keep sharing topology with the originals.
func (s *Skin) CopySkin(other *Skin) {
	s.mergeRequired(other)
	for _, e := range other.entries {
		if mesh, ok := e.Attachment.(*MeshAttachment); ok {
			s.SetAttachment(e.SlotIndex, e.Name, mesh.NewLinkedMesh())
			continue
		}
		s.SetAttachment(e.SlotIndex, e.Name, e.Attachment.Copy())
	}
}

func (s *Skin) mergeRequired(other *Skin) {
	for _, b := range other.Bones {
		if !slices.Contains(s.Bones, b) {
			s.Bones = append(s.Bones, b)
		}
	}
	for _, c := range other.Constraints {
		if !slices.Contains(s.Constraints, c) {
			s.Constraints = append(s.Constraints, c)
		}
	}
}

// Clear removes every attachment. Bones and constraints are kept.
func (s *Skin) Clear() {
	s.entries = s.entries[:0]
	clear(s.index)
}

// attachAll swaps in this skin's attachments for every slot currently showing an attachment of oldSkin
// under the same name.
func (s *Skin) attachAll(sk *skeleton, oldSkin *Skin) {
	for _, e := range oldSkin.entries {
		slot := sk.slots[e.SlotIndex]
		if slot.attachment != e.Attachment {
			continue
		}
		if a := s.Attachment(e.SlotIndex, e.Name); a != nil {
			slot.SetAttachment(a)
		}
	}
}

func (s *Skin) hasConstraint(c *ConstraintData) bool {
	return slices.ContainsFunc(s.Constraints, func(d ConstraintDefinition) bool { return d.Base() == c })
}

func (s *Skin) String() string {
	return s.name
}
