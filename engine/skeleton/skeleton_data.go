package skeleton

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBones is returned for skeleton data without any bones.
	ErrNoBones = errors.New("skeleton: data has no bones")
	// ErrRootNotFirst is returned when bone 0 has a parent or a later bone has none.
	ErrRootNotFirst = errors.New("skeleton: root bone must be the only bone without a parent and sit at index 0")
	// ErrInvalidParent is returned when a bone's parent is not an earlier bone of the same data.
	ErrInvalidParent = errors.New("skeleton: bone parent must precede the bone in the same data")
	// ErrIndexMismatch is returned when a blueprint's Index does not match its position.
	ErrIndexMismatch = errors.New("skeleton: blueprint index does not match its position")
	// ErrUnknownBone is returned when a slot or constraint names a bone that is not part of the data.
	ErrUnknownBone = errors.New("skeleton: bone is not part of the skeleton data")
	// ErrUnknownSlot is returned when a constraint targets a slot that is not part of the data.
	ErrUnknownSlot = errors.New("skeleton: slot is not part of the skeleton data")
	// ErrBrokenChain is returned when IK bones do not form a contiguous parent-to-child chain.
	ErrBrokenChain = errors.New("skeleton: ik bones must form a contiguous parent-to-child chain")
	// ErrNoConstrainedBones is returned for constraints without bones.
	ErrNoConstrainedBones = errors.New("skeleton: constraint has no bones")
	// ErrSlotNotFound is returned when a named slot does not exist.
	ErrSlotNotFound = errors.New("skeleton: slot not found")
	// ErrAttachmentNotFound is returned when a named attachment does not exist for a slot.
	ErrAttachmentNotFound = errors.New("skeleton: attachment not found")
	// ErrSkinNotFound is returned when a named skin does not exist.
	ErrSkinNotFound = errors.New("skeleton: skin not found")
)

// SkeletonData is the immutable setup pose shared by every Skeleton instantiated from it.
// It is built once by a loader and must not be modified while skeletons reference it.
type SkeletonData struct {
	Name string

	// Bones is ordered parents first. The root is always Bones[0].
	Bones []*BoneData
	// Slots is in setup draw order.
	Slots []*SlotData

	Skins []*Skin
	// DefaultSkin holds attachments that are not part of a named skin, nil if there are none.
	DefaultSkin *Skin

	Events     []*EventData
	Animations []*Animation

	IkConstraints        []*IkConstraintData
	TransformConstraints []*TransformConstraintData
	PathConstraints      []*PathConstraintData

	// Setup-pose axis-aligned bounds, as authored.
	X, Y, Width, Height float32

	Version    string
	Hash       string
	FPS        float32
	ImagesPath string
	AudioPath  string
}

// FindBone returns the bone blueprint with the given name, or nil.
func (d *SkeletonData) FindBone(name string) *BoneData {
	return findByName(d.Bones, name, func(b *BoneData) string { return b.Name })
}

// FindSlot returns the slot blueprint with the given name, or nil.
func (d *SkeletonData) FindSlot(name string) *SlotData {
	return findByName(d.Slots, name, func(s *SlotData) string { return s.Name })
}

// FindSkin returns the skin with the given name, or nil.
func (d *SkeletonData) FindSkin(name string) *Skin {
	return findByName(d.Skins, name, func(s *Skin) string { return s.Name() })
}

// FindEvent returns the event with the given name, or nil.
func (d *SkeletonData) FindEvent(name string) *EventData {
	return findByName(d.Events, name, func(e *EventData) string { return e.Name })
}

// FindAnimation returns the animation with the given name, or nil.
func (d *SkeletonData) FindAnimation(name string) *Animation {
	return findByName(d.Animations, name, func(a *Animation) string { return a.Name })
}

// FindIkConstraint returns the IK constraint blueprint with the given name, or nil.
func (d *SkeletonData) FindIkConstraint(name string) *IkConstraintData {
	return findByName(d.IkConstraints, name, func(c *IkConstraintData) string { return c.Name })
}

// FindTransformConstraint returns the transform constraint blueprint with the given name, or nil.
func (d *SkeletonData) FindTransformConstraint(name string) *TransformConstraintData {
	return findByName(d.TransformConstraints, name, func(c *TransformConstraintData) string { return c.Name })
}

// FindPathConstraint returns the path constraint blueprint with the given name, or nil.
func (d *SkeletonData) FindPathConstraint(name string) *PathConstraintData {
	return findByName(d.PathConstraints, name, func(c *PathConstraintData) string { return c.Name })
}

// findByName is a linear scan; rigs are small and lookups happen at setup time.
// The empty name never matches.
func findByName[T any](items []*T, name string, nameOf func(*T) string) *T {
	if name == "" {
		return nil
	}
	for _, item := range items {
		if item != nil && nameOf(item) == name {
			return item
		}
	}
	return nil
}

// Validate checks the structural invariants a Skeleton relies on: the root is the only parentless bone
// and sits at index 0, parents precede children, indices match positions, and every slot and constraint
// references blueprints that belong to this data.
//
// Returns:
//   - error: a wrapped sentinel describing the first violation, or nil
func (d *SkeletonData) Validate() error {
	if len(d.Bones) == 0 {
		return ErrNoBones
	}
	for i, b := range d.Bones {
		if b == nil {
			return fmt.Errorf("bone %d is nil: %w", i, ErrUnknownBone)
		}
		if b.Index != i {
			return fmt.Errorf("bone %q has index %d at position %d: %w", b.Name, b.Index, i, ErrIndexMismatch)
		}
		if (i == 0) != (b.Parent == nil) {
			return fmt.Errorf("bone %q: %w", b.Name, ErrRootNotFirst)
		}
		if b.Parent != nil {
			p := b.Parent.Index
			if p < 0 || p >= i || d.Bones[p] != b.Parent {
				return fmt.Errorf("bone %q parent index %d: %w", b.Name, p, ErrInvalidParent)
			}
		}
	}
	for i, s := range d.Slots {
		if s == nil {
			return fmt.Errorf("slot %d is nil: %w", i, ErrUnknownSlot)
		}
		if s.Index != i {
			return fmt.Errorf("slot %q has index %d at position %d: %w", s.Name, s.Index, i, ErrIndexMismatch)
		}
		if !d.ownsBone(s.BoneData) {
			return fmt.Errorf("slot %q: %w", s.Name, ErrUnknownBone)
		}
	}
	for _, c := range d.IkConstraints {
		if err := d.checkBones(c.Name, c.Bones, c.Target, true); err != nil {
			return err
		}
		for i := 1; i < len(c.Bones); i++ {
			if c.Bones[i].Parent != c.Bones[i-1] {
				return fmt.Errorf("ik constraint %q: %w", c.Name, ErrBrokenChain)
			}
		}
	}
	for _, c := range d.TransformConstraints {
		if err := d.checkBones(c.Name, c.Bones, c.Target, true); err != nil {
			return err
		}
	}
	for _, c := range d.PathConstraints {
		if err := d.checkBones(c.Name, c.Bones, nil, false); err != nil {
			return err
		}
		if c.Target == nil || c.Target.Index < 0 || c.Target.Index >= len(d.Slots) || d.Slots[c.Target.Index] != c.Target {
			return fmt.Errorf("path constraint %q target: %w", c.Name, ErrUnknownSlot)
		}
	}
	return nil
}

func (d *SkeletonData) ownsBone(b *BoneData) bool {
	return b != nil && b.Index >= 0 && b.Index < len(d.Bones) && d.Bones[b.Index] == b
}

// checkBones validates a constraint's bone list and, when hasTarget is set, its bone target.
func (d *SkeletonData) checkBones(name string, bones []*BoneData, target *BoneData, hasTarget bool) error {
	if len(bones) == 0 {
		return fmt.Errorf("constraint %q: %w", name, ErrNoConstrainedBones)
	}
	for _, b := range bones {
		if !d.ownsBone(b) {
			return fmt.Errorf("constraint %q bone: %w", name, ErrUnknownBone)
		}
	}
	if hasTarget && !d.ownsBone(target) {
		return fmt.Errorf("constraint %q target: %w", name, ErrUnknownBone)
	}
	return nil
}
