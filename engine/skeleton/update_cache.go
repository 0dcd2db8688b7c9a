package skeleton

import (
	"cmp"
	"slices"
)

// UpdateCache rebuilds the update order so that every bone and constraint is updated only after the
// bones it reads from. Bones and constraints that are skin required and not listed by the current skin
// are left out. Constraints are placed by ascending Order, ties broken by kind (IK, transform, path)
// and then by data index.
func (s *skeleton) UpdateCache() {
	s.cache = s.cache[:0]

	for _, b := range s.bones {
		b.sorted = b.data.SkinRequired
		b.active = !b.sorted
	}
	if s.skin != nil {
		for _, bd := range s.skin.Bones {
			for b := s.bones[bd.Index]; b != nil && !b.active; b = b.parent {
				b.sorted = false
				b.active = true
			}
		}
	}

	ordered := make([]orderedConstraint, 0, len(s.ikConstraints)+len(s.transformConstraints)+len(s.pathConstraints))
	for i, c := range s.ikConstraints {
		ordered = append(ordered, orderedConstraint{order: c.data.Order, kind: kindIk, index: i, sort: c.sortInto})
	}
	for i, c := range s.transformConstraints {
		ordered = append(ordered, orderedConstraint{order: c.data.Order, kind: kindTransform, index: i, sort: c.sortInto})
	}
	for i, c := range s.pathConstraints {
		ordered = append(ordered, orderedConstraint{order: c.data.Order, kind: kindPath, index: i, sort: c.sortInto})
	}
	slices.SortStableFunc(ordered, func(a, b orderedConstraint) int {
		return cmp.Or(cmp.Compare(a.order, b.order), cmp.Compare(a.kind, b.kind), cmp.Compare(a.index, b.index))
	})
	for _, oc := range ordered {
		oc.sort(s)
	}

	for _, b := range s.bones {
		s.sortBone(b)
	}
}

// skinActivates reports whether a skin-required constraint is enabled by the current skin.
func (s *skeleton) skinActivates(data *ConstraintData) bool {
	if !data.SkinRequired {
		return true
	}
	return s.skin != nil && s.skin.hasConstraint(data)
}

// sortBone appends b to the update order after its ancestors, unless it is already placed.
func (s *skeleton) sortBone(b *Bone) {
	if b.sorted {
		return
	}
	if b.parent != nil {
		s.sortBone(b.parent)
	}
	b.sorted = true
	s.cache = append(s.cache, b)
}

// sortReset clears the placed flag of the active descendants of bones so they are appended again
// after a constraint that moved their ancestor.
func (s *skeleton) sortReset(bones []*Bone) {
	for _, b := range bones {
		if !b.active {
			continue
		}
		if b.sorted {
			s.sortReset(b.children)
		}
		b.sorted = false
	}
}

func (c *IkConstraint) sortInto(s *skeleton) {
	c.active = c.Target.active && s.skinActivates(&c.data.ConstraintData)
	if !c.active {
		return
	}

	s.sortBone(c.Target)
	parent := c.Bones[0]
	s.sortBone(parent)
	if len(c.Bones) > 1 {
		s.sortBone(c.Bones[len(c.Bones)-1])
	}

	s.cache = append(s.cache, c)

	s.sortReset(parent.children)
	for _, b := range c.Bones[1:] {
		b.sorted = true
	}
}

func (c *TransformConstraint) sortInto(s *skeleton) {
	c.active = c.Target.active && s.skinActivates(&c.data.ConstraintData)
	if !c.active {
		return
	}

	s.sortBone(c.Target)
	if c.data.Local {
		for _, b := range c.Bones {
			if b.parent != nil {
				s.sortBone(b.parent)
			}
			s.sortBone(b)
		}
	} else {
		for _, b := range c.Bones {
			s.sortBone(b)
		}
	}

	s.cache = append(s.cache, c)

	for _, b := range c.Bones {
		s.sortReset(b.children)
	}
	for _, b := range c.Bones {
		b.sorted = true
	}
}

func (c *PathConstraint) sortInto(s *skeleton) {
	slot := c.Target
	c.active = slot.bone.active && s.skinActivates(&c.data.ConstraintData)
	if !c.active {
		return
	}

	slotIndex := slot.data.Index
	slotBone := slot.bone
	if s.skin != nil {
		s.sortPathSkin(s.skin, slotIndex, slotBone)
	}
	if def := s.data.DefaultSkin; def != nil && def != s.skin {
		s.sortPathSkin(def, slotIndex, slotBone)
	}
	s.sortPathAttachment(slot.attachment, slotBone)

	for _, b := range c.Bones {
		s.sortBone(b)
	}

	s.cache = append(s.cache, c)

	for _, b := range c.Bones {
		s.sortReset(b.children)
	}
	for _, b := range c.Bones {
		b.sorted = true
	}
}

// sortPathSkin places the bones read by every path attachment the skin holds for the slot.
func (s *skeleton) sortPathSkin(skin *Skin, slotIndex int, slotBone *Bone) {
	for _, e := range skin.AttachmentsForSlot(slotIndex) {
		s.sortPathAttachment(e.Attachment, slotBone)
	}
}

// sortPathAttachment places the bones a path attachment's vertices depend on: the slot bone when
// unweighted, otherwise every bone in its weight table.
func (s *skeleton) sortPathAttachment(a Attachment, slotBone *Bone) {
	path, ok := a.(*PathAttachment)
	if !ok {
		return
	}
	bones := path.Bones()
	if len(bones) == 0 {
		s.sortBone(slotBone)
		return
	}
	for i := 0; i < len(bones); {
		n := bones[i]
		i++
		for end := i + n; i < end; i++ {
			s.sortBone(s.bones[bones[i]])
		}
	}
}
