package skeleton

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
)

// Skeleton is a posable instance of a SkeletonData. It owns the runtime bones, slots and constraints,
// the current skin and draw order, and the cached update order that UpdateWorldTransform walks.
// A Skeleton is not safe for concurrent use; many skeletons may share one SkeletonData.
type Skeleton interface {
	// Data returns the shared setup-pose data.
	Data() *SkeletonData

	// Bones returns the bones in data order, root first.
	Bones() []*Bone

	// Slots returns the slots in data order.
	Slots() []*Slot

	// DrawOrder returns the slots in the order they should be drawn.
	DrawOrder() []*Slot

	// SetDrawOrder replaces the draw order. The slice must be a permutation of Slots.
	SetDrawOrder(order []*Slot)

	// IkConstraints returns the IK constraints in data order.
	IkConstraints() []*IkConstraint

	// TransformConstraints returns the transform constraints in data order.
	TransformConstraints() []*TransformConstraint

	// PathConstraints returns the path constraints in data order.
	PathConstraints() []*PathConstraint

	// UpdateCache rebuilds the update order. It runs on construction and skin changes; call it after
	// changing constraint targets or slot attachments that path constraints depend on.
	UpdateCache()

	// UpdateCacheEntries returns the current update order.
	UpdateCacheEntries() []Updatable

	// UpdateWorldTransform resets every bone's applied pose to its local pose and walks the update order,
	// computing world transforms and applying constraints.
	UpdateWorldTransform()

	// UpdateWorldTransformFrom walks the update order with parent standing in for the skeleton transform
	// above the root, for skeletons nested inside another skeleton's bone.
	//
	// Parameters:
	//   - parent: the external bone whose world transform hosts this skeleton
	UpdateWorldTransformFrom(parent *Bone)

	// SetToSetupPose resets bones, constraints and slots to the setup pose.
	SetToSetupPose()

	// SetBonesToSetupPose resets bones and constraint parameters to the setup pose.
	SetBonesToSetupPose()

	// SetSlotsToSetupPose resets the draw order and every slot to the setup pose.
	SetSlotsToSetupPose()

	// RootBone returns the root bone.
	RootBone() *Bone

	// FindBone returns the bone with the given name, or nil.
	FindBone(name string) *Bone

	// FindSlot returns the slot with the given name, or nil.
	FindSlot(name string) *Slot

	// FindIkConstraint returns the IK constraint with the given name, or nil.
	FindIkConstraint(name string) *IkConstraint

	// FindTransformConstraint returns the transform constraint with the given name, or nil.
	FindTransformConstraint(name string) *TransformConstraint

	// FindPathConstraint returns the path constraint with the given name, or nil.
	FindPathConstraint(name string) *PathConstraint

	// Skin returns the current skin, or nil.
	Skin() *Skin

	// SetSkin changes the current skin. Slots showing an attachment of the old skin switch to the new
	// skin's attachment of the same name; with no old skin, the setup attachments of the new skin are shown.
	// The update order is rebuilt.
	SetSkin(skin *Skin)

	// SetSkinByName changes the current skin to the named skin of the data.
	//
	// Returns:
	//   - error: wraps ErrSkinNotFound if the data has no such skin
	SetSkinByName(name string) error

	// Attachment looks an attachment up in the current skin, then in the default skin. Returns nil if neither has it.
	Attachment(slotIndex int, name string) Attachment

	// AttachmentByName is Attachment keyed by slot name. Returns nil for an unknown slot.
	AttachmentByName(slotName, name string) Attachment

	// SetAttachment shows the named attachment in the named slot. An empty attachment name clears the slot.
	//
	// Returns:
	//   - error: wraps ErrSlotNotFound or ErrAttachmentNotFound
	SetAttachment(slotName, attachmentName string) error

	// Bounds returns the axis-aligned bounds of every region and mesh attachment shown by an active bone,
	// in world space. An empty skeleton has zero bounds.
	Bounds() (x, y, width, height float32)

	// Color returns the skeleton-wide tint.
	Color() common.Color

	// SetColor sets the skeleton-wide tint.
	SetColor(c common.Color)

	// Time returns the skeleton clock, in seconds.
	Time() float32

	// SetTime sets the skeleton clock.
	SetTime(t float32)

	// Update advances the skeleton clock.
	Update(delta float32)

	// X returns the skeleton's world X offset.
	X() float32

	// Y returns the skeleton's world Y offset.
	Y() float32

	// SetPosition sets the skeleton's world offset.
	SetPosition(x, y float32)

	// ScaleX returns the skeleton's X scale; negative flips horizontally.
	ScaleX() float32

	// ScaleY returns the skeleton's Y scale; negative flips vertically.
	ScaleY() float32

	// SetScale sets the skeleton's scale.
	SetScale(scaleX, scaleY float32)
}

type skeleton struct {
	data *SkeletonData

	bones     []*Bone
	slots     []*Slot
	drawOrder []*Slot

	ikConstraints        []*IkConstraint
	transformConstraints []*TransformConstraint
	pathConstraints      []*PathConstraint

	cache []Updatable

	skin     *Skin
	skinName string

	color          common.Color
	time           float32
	x, y           float32
	scaleX, scaleY float32
}

// Ensure skeleton implements Skeleton interface.
var _ Skeleton = &skeleton{}

// NewSkeleton instantiates the setup pose of data. Panics if data is nil.
//
// Parameters:
//   - data: the shared setup-pose data
//   - options: functional options to further configure the skeleton
//
// Returns:
//   - Skeleton: the new skeleton, posed at setup with world transforms not yet computed
//   - error: a wrapped validation error from SkeletonData.Validate, or ErrSkinNotFound from WithSkin
func NewSkeleton(data *SkeletonData, options ...SkeletonBuilderOption) (Skeleton, error) {
	if data == nil {
		panic("skeleton: NewSkeleton requires non-nil data")
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("skeleton %q: %w", data.Name, err)
	}

	s := &skeleton{
		data:   data,
		color:  common.White,
		scaleX: 1,
		scaleY: 1,
	}

	s.bones = make([]*Bone, len(data.Bones))
	for i, bd := range data.Bones {
		var parent *Bone
		if bd.Parent != nil {
			parent = s.bones[bd.Parent.Index]
		}
		b := NewBone(bd, parent)
		b.skeleton = s
		if parent != nil {
			parent.children = append(parent.children, b)
		}
		s.bones[i] = b
	}

	s.slots = make([]*Slot, len(data.Slots))
	s.drawOrder = make([]*Slot, len(data.Slots))
	for i, sd := range data.Slots {
		slot := NewSlot(sd, s.bones[sd.BoneData.Index])
		s.slots[i] = slot
		s.drawOrder[i] = slot
	}

	s.ikConstraints = make([]*IkConstraint, len(data.IkConstraints))
	for i, d := range data.IkConstraints {
		s.ikConstraints[i] = newIkConstraint(d, s)
	}
	s.transformConstraints = make([]*TransformConstraint, len(data.TransformConstraints))
	for i, d := range data.TransformConstraints {
		s.transformConstraints[i] = newTransformConstraint(d, s)
	}
	s.pathConstraints = make([]*PathConstraint, len(data.PathConstraints))
	for i, d := range data.PathConstraints {
		s.pathConstraints[i] = newPathConstraint(d, s)
	}

	for _, option := range options {
		option(s)
	}

	for _, slot := range s.slots {
		slot.SetToSetupPose()
	}

	if s.skinName != "" {
		if err := s.SetSkinByName(s.skinName); err != nil {
			return nil, err
		}
	} else {
		s.UpdateCache()
	}
	return s, nil
}

func (s *skeleton) Data() *SkeletonData {
	return s.data
}

func (s *skeleton) Bones() []*Bone {
	return s.bones
}

func (s *skeleton) Slots() []*Slot {
	return s.slots
}

func (s *skeleton) DrawOrder() []*Slot {
	return s.drawOrder
}

func (s *skeleton) SetDrawOrder(order []*Slot) {
	s.drawOrder = order
}

func (s *skeleton) IkConstraints() []*IkConstraint {
	return s.ikConstraints
}

func (s *skeleton) TransformConstraints() []*TransformConstraint {
	return s.transformConstraints
}

func (s *skeleton) PathConstraints() []*PathConstraint {
	return s.pathConstraints
}

func (s *skeleton) UpdateCacheEntries() []Updatable {
	return s.cache
}

func (s *skeleton) UpdateWorldTransform() {
	for _, b := range s.bones {
		b.resetApplied()
	}
	for _, u := range s.cache {
		u.Update()
	}
}

func (s *skeleton) UpdateWorldTransformFrom(parent *Bone) {
	for _, b := range s.bones {
		b.resetApplied()
	}

	// The root always inherits rotation, scale and reflection from the hosting bone.
	root := s.bones[0]
	pa, pb, pc, pd := parent.A, parent.B, parent.C, parent.D
	root.WorldX = pa*s.x + pb*s.y + parent.WorldX
	root.WorldY = pc*s.x + pd*s.y + parent.WorldY
	rotationY := root.Rotation + 90 + root.ShearY
	la := common.CosDeg(root.Rotation+root.ShearX) * root.ScaleX
	lb := common.CosDeg(rotationY) * root.ScaleY
	lc := common.SinDeg(root.Rotation+root.ShearX) * root.ScaleX
	ld := common.SinDeg(rotationY) * root.ScaleY
	root.A = (pa*la + pb*lc) * s.scaleX
	root.B = (pa*lb + pb*ld) * s.scaleX
	root.C = (pc*la + pd*lc) * s.scaleY
	root.D = (pc*lb + pd*ld) * s.scaleY

	for _, u := range s.cache {
		if u != Updatable(root) {
			u.Update()
		}
	}
}

func (s *skeleton) SetToSetupPose() {
	s.SetBonesToSetupPose()
	s.SetSlotsToSetupPose()
}

func (s *skeleton) SetBonesToSetupPose() {
	for _, b := range s.bones {
		b.SetToSetupPose()
	}
	for _, c := range s.ikConstraints {
		c.SetToSetupPose()
	}
	for _, c := range s.transformConstraints {
		c.SetToSetupPose()
	}
	for _, c := range s.pathConstraints {
		c.SetToSetupPose()
	}
}

func (s *skeleton) SetSlotsToSetupPose() {
	s.drawOrder = append(s.drawOrder[:0], s.slots...)
	for _, slot := range s.slots {
		slot.SetToSetupPose()
	}
}

func (s *skeleton) RootBone() *Bone {
	if len(s.bones) == 0 {
		return nil
	}
	return s.bones[0]
}

func (s *skeleton) FindBone(name string) *Bone {
	return findByName(s.bones, name, func(b *Bone) string { return b.data.Name })
}

func (s *skeleton) FindSlot(name string) *Slot {
	return findByName(s.slots, name, func(sl *Slot) string { return sl.data.Name })
}

func (s *skeleton) FindIkConstraint(name string) *IkConstraint {
	return findByName(s.ikConstraints, name, func(c *IkConstraint) string { return c.data.Name })
}

func (s *skeleton) FindTransformConstraint(name string) *TransformConstraint {
	return findByName(s.transformConstraints, name, func(c *TransformConstraint) string { return c.data.Name })
}

func (s *skeleton) FindPathConstraint(name string) *PathConstraint {
	return findByName(s.pathConstraints, name, func(c *PathConstraint) string { return c.data.Name })
}

func (s *skeleton) Skin() *Skin {
	return s.skin
}

func (s *skeleton) SetSkin(skin *Skin) {
	if skin == s.skin {
		return
	}
	if skin != nil {
		if s.skin != nil {
			skin.attachAll(s, s.skin)
		} else {
			for i, slot := range s.slots {
				name := slot.data.AttachmentName
				if name == "" {
					continue
				}
				if a := skin.Attachment(i, name); a != nil {
					slot.SetAttachment(a)
				}
			}
		}
	}
	s.skin = skin
	s.UpdateCache()
}

func (s *skeleton) SetSkinByName(name string) error {
	skin := s.data.FindSkin(name)
	if skin == nil {
		return fmt.Errorf("skeleton: set skin %q: %w", name, ErrSkinNotFound)
	}
	s.SetSkin(skin)
	return nil
}

func (s *skeleton) Attachment(slotIndex int, name string) Attachment {
	if name == "" {
		return nil
	}
	if s.skin != nil {
		if a := s.skin.Attachment(slotIndex, name); a != nil {
			return a
		}
	}
	if s.data.DefaultSkin != nil {
		return s.data.DefaultSkin.Attachment(slotIndex, name)
	}
	return nil
}

func (s *skeleton) AttachmentByName(slotName, name string) Attachment {
	slot := s.data.FindSlot(slotName)
	if slot == nil {
		return nil
	}
	return s.Attachment(slot.Index, name)
}

func (s *skeleton) SetAttachment(slotName, attachmentName string) error {
	slot := s.FindSlot(slotName)
	if slot == nil {
		return fmt.Errorf("skeleton: set attachment on %q: %w", slotName, ErrSlotNotFound)
	}
	var a Attachment
	if attachmentName != "" {
		a = s.Attachment(slot.data.Index, attachmentName)
		if a == nil {
			return fmt.Errorf("skeleton: set attachment %q on %q: %w", attachmentName, slotName, ErrAttachmentNotFound)
		}
	}
	slot.SetAttachment(a)
	return nil
}

func (s *skeleton) Bounds() (x, y, width, height float32) {
	minX, minY := common.MaxFloat32, common.MaxFloat32
	maxX, maxY := -common.MaxFloat32, -common.MaxFloat32
	var quad [8]float32
	for _, slot := range s.drawOrder {
		if !slot.bone.active {
			continue
		}
		var vertices []float32
		switch a := slot.attachment.(type) {
		case *RegionAttachment:
			a.ComputeWorldVertices(slot.bone, quad[:], 0, 2)
			vertices = quad[:]
		case *MeshAttachment:
			n := a.WorldVerticesLength()
			vertices = slot.worldScratch(n)
			a.ComputeWorldVertices(slot, 0, n, vertices, 0, 2)
		default:
			continue
		}
		for i := 0; i+1 < len(vertices); i += 2 {
			vx, vy := vertices[i], vertices[i+1]
			minX, minY = math32.Min(minX, vx), math32.Min(minY, vy)
			maxX, maxY = math32.Max(maxX, vx), math32.Max(maxY, vy)
		}
	}
	if minX > maxX {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX - minX, maxY - minY
}

func (s *skeleton) Color() common.Color {
	return s.color
}

func (s *skeleton) SetColor(c common.Color) {
	s.color = c
}

func (s *skeleton) Time() float32 {
	return s.time
}

func (s *skeleton) SetTime(t float32) {
	s.time = t
}

func (s *skeleton) Update(delta float32) {
	s.time += delta
}

func (s *skeleton) X() float32 {
	return s.x
}

func (s *skeleton) Y() float32 {
	return s.y
}

func (s *skeleton) SetPosition(x, y float32) {
	s.x, s.y = x, y
}

func (s *skeleton) ScaleX() float32 {
	return s.scaleX
}

func (s *skeleton) ScaleY() float32 {
	return s.scaleY
}

func (s *skeleton) SetScale(scaleX, scaleY float32) {
	s.scaleX, s.scaleY = scaleX, scaleY
}

func (s *skeleton) String() string {
	if s.data.Name != "" {
		return s.data.Name
	}
	return "skeleton"
}
