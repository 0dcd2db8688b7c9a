// Package skeleton implements the runtime side of a 2D skeletal rig: stateless setup-pose blueprints,
// the per-instance bone, slot and constraint state derived from them, the cached update order that
// interleaves bone propagation with constraint solving, and the vertex attachments skinned against the
// resulting world transforms.
package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Inherit selects which parts of the parent's world transform a bone inherits.
type Inherit int

const (
	// InheritNormal inherits rotation, scale, shear and reflection from the parent.
	InheritNormal Inherit = iota
	// InheritOnlyTranslation inherits only the parent's translation.
	InheritOnlyTranslation
	// InheritNoRotationOrReflection inherits scale and shear but not rotation or reflection.
	InheritNoRotationOrReflection
	// InheritNoScale inherits rotation and reflection but not scale.
	InheritNoScale
	// InheritNoScaleOrReflection inherits rotation but not scale or reflection.
	InheritNoScaleOrReflection
)

var inheritNames = [...]string{"normal", "onlyTranslation", "noRotationOrReflection", "noScale", "noScaleOrReflection"}

func (i Inherit) String() string {
	if i < 0 || int(i) >= len(inheritNames) {
		return "unknown"
	}
	return inheritNames[i]
}

// ParseInherit resolves an inherit mode from its String form. Unknown names return false.
func ParseInherit(name string) (Inherit, bool) {
	for i, n := range inheritNames {
		if n == name {
			return Inherit(i), true
		}
	}
	return InheritNormal, false
}

// BlendMode is the compositing mode a renderer should use for a slot.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

// PositionMode controls how a path constraint interprets its position value.
type PositionMode int

const (
	// PositionFixed treats the position as a distance along the path in world units.
	PositionFixed PositionMode = iota
	// PositionPercent treats the position as a fraction of the path length.
	PositionPercent
)

// SpacingMode controls how a path constraint spaces its bones along the path.
type SpacingMode int

const (
	// SpacingLength spaces bones by their setup length plus the spacing value.
	SpacingLength SpacingMode = iota
	// SpacingFixed spaces bones by the spacing value in world units.
	SpacingFixed
	// SpacingPercent spaces bones by a fraction of the path length.
	SpacingPercent
)

// RotateMode controls how a path constraint rotates its bones.
type RotateMode int

const (
	// RotateTangent rotates each bone to the path tangent at its position.
	RotateTangent RotateMode = iota
	// RotateChain rotates each bone toward the next bone's position.
	RotateChain
	// RotateChainScale rotates like RotateChain and scales each bone to reach the next position.
	RotateChainScale
)

// BoneData is the setup-pose blueprint of a bone. Indices are parents-first, with the root at index 0.
type BoneData struct {
	// Index is the bone's position within SkeletonData.Bones.
	Index int
	// Name is the bone's unique identifier.
	Name string
	// Parent is the parent bone blueprint, nil for the root.
	Parent *BoneData
	// Length is the bone's setup length, used by IK stretch and path spacing.
	Length float32

	// Local setup transform.
	X, Y, Rotation, ScaleX, ScaleY, ShearX, ShearY float32

	// Inherit selects how the parent's world transform is inherited.
	Inherit Inherit
	// SkinRequired restricts the bone to skeletons whose active skin lists it.
	SkinRequired bool
	// Color is an authoring tint, unused by the runtime.
	Color common.Color
}

// NewBoneData creates a bone blueprint with unit scale.
//
// Parameters:
//   - index: the bone's index in the skeleton data
//   - name: the bone's name
//   - parent: the parent blueprint, or nil for the root
//
// Returns:
//   - *BoneData: the new bone blueprint
func NewBoneData(index int, name string, parent *BoneData) *BoneData {
	return &BoneData{
		Index:  index,
		Name:   name,
		Parent: parent,
		ScaleX: 1,
		ScaleY: 1,
		Color:  common.NewColor(0.61, 0.61, 0.61, 1),
	}
}

// SlotData is the setup-pose blueprint of a slot.
type SlotData struct {
	// Index is the slot's position within SkeletonData.Slots and the setup draw order.
	Index int
	// Name is the slot's unique identifier.
	Name string
	// BoneData is the bone the slot is attached to.
	BoneData *BoneData
	// Color is the setup tint.
	Color common.Color
	// DarkColor is the setup dark tint for two-color tinting, nil when two-color tinting is off.
	DarkColor *common.Color
	// AttachmentName is the setup attachment, empty for none.
	AttachmentName string
	// BlendMode is the slot's compositing mode.
	BlendMode BlendMode
}

// NewSlotData creates a slot blueprint with a white tint. Panics if boneData is nil.
//
// Parameters:
//   - index: the slot's index in the skeleton data
//   - name: the slot's name
//   - boneData: the bone the slot is attached to
//
// Returns:
//   - *SlotData: the new slot blueprint
func NewSlotData(index int, name string, boneData *BoneData) *SlotData {
	if boneData == nil {
		panic("skeleton: slot data requires a bone")
	}
	return &SlotData{
		Index:    index,
		Name:     name,
		BoneData: boneData,
		Color:    common.White,
	}
}

// ConstraintData holds the fields shared by every constraint blueprint.
type ConstraintData struct {
	// Name is the constraint's unique identifier within its kind.
	Name string
	// Order positions the constraint in the update order. Lower orders are applied first.
	Order int
	// SkinRequired restricts the constraint to skeletons whose active skin lists it.
	SkinRequired bool
}

// Base returns the shared constraint fields.
func (d *ConstraintData) Base() *ConstraintData {
	return d
}

// ConstraintDefinition is implemented by every constraint blueprint through its embedded ConstraintData.
// Skins list the skin-required constraints they activate as ConstraintDefinitions.
type ConstraintDefinition interface {
	Base() *ConstraintData
}

// IkConstraintData is the setup-pose blueprint of an inverse kinematics constraint.
// Bones must form a contiguous parent-to-child chain.
type IkConstraintData struct {
	ConstraintData

	// Bones is the constrained chain, parent first.
	Bones []*BoneData
	// Target is the bone the chain reaches for.
	Target *BoneData
	// Mix blends between the unconstrained (0) and fully constrained (1) rotation.
	Mix float32
	// Softness, for two-bone chains, is the target distance from the maximum reach at which the bones start to bend.
	Softness float32
	// BendDirection is 1 or -1 and picks which way the chain bends.
	BendDirection int
	// Compress, for one-bone chains, scales the bone down when the target is closer than the bone length.
	Compress bool
	// Stretch scales the bones up when the target is out of reach.
	Stretch bool
	// Uniform, for one-bone chains, applies compress and stretch to both scale axes.
	Uniform bool
}

// NewIkConstraintData creates an IK blueprint with a full mix and a positive bend direction.
func NewIkConstraintData(name string) *IkConstraintData {
	return &IkConstraintData{
		ConstraintData: ConstraintData{Name: name},
		Mix:            1,
		BendDirection:  1,
	}
}

// TransformConstraintData is the setup-pose blueprint of a transform constraint.
type TransformConstraintData struct {
	ConstraintData

	// Bones are constrained to Target.
	Bones []*BoneData
	// Target is the bone whose transform is copied.
	Target *BoneData

	// Per-channel blends between the bone's own transform (0) and the target's (1).
	RotateMix, TranslateMix, ScaleMix, ShearMix float32

	// Offsets added to the target's transform before blending.
	OffsetRotation, OffsetX, OffsetY, OffsetScaleX, OffsetScaleY, OffsetShearY float32

	// Relative adds the target's transform to the bone's instead of replacing it.
	Relative bool
	// Local operates on the applied local transforms instead of the world transforms.
	Local bool
}

// NewTransformConstraintData creates a transform blueprint with every mix at 1.
func NewTransformConstraintData(name string) *TransformConstraintData {
	return &TransformConstraintData{
		ConstraintData: ConstraintData{Name: name},
		RotateMix:      1,
		TranslateMix:   1,
		ScaleMix:       1,
		ShearMix:       1,
	}
}

// PathConstraintData is the setup-pose blueprint of a path constraint.
type PathConstraintData struct {
	ConstraintData

	// Bones are laid out along the path, in order.
	Bones []*BoneData
	// Target is the slot whose current attachment supplies the path.
	Target *SlotData

	PositionMode PositionMode
	SpacingMode  SpacingMode
	RotateMode   RotateMode

	// OffsetRotation is added to each bone's rotation, in degrees.
	OffsetRotation float32
	// Position is where the first bone sits along the path.
	Position float32
	// Spacing separates consecutive bones.
	Spacing float32
	// Blends between the bones' own transforms (0) and the path-derived transforms (1).
	RotateMix, TranslateMix float32
}

// NewPathConstraintData creates a path blueprint with full rotate and translate mixes.
func NewPathConstraintData(name string) *PathConstraintData {
	return &PathConstraintData{
		ConstraintData: ConstraintData{Name: name},
		RotateMix:      1,
		TranslateMix:   1,
	}
}

// EventData is the setup value of a named event. Dispatch is handled outside this package.
type EventData struct {
	Name      string
	Int       int
	Float     float32
	String    string
	AudioPath string
	Volume    float32
	Balance   float32
}

// Animation names a timeline owned by the external animation subsystem.
// Only the name and duration are known to the skeleton.
type Animation struct {
	Name     string
	Duration float32
}
