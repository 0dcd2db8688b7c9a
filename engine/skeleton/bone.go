package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
)

// Bone is the runtime state of a bone: a local pose written by the animation driver, an applied pose
// that constraints may adjust during a pass, and the derived world transform.
//
// The world transform is the 2x3 matrix [A B WorldX; C D WorldY] mapping bone space to skeleton world space.
type Bone struct {
	data     *BoneData
	skeleton *skeleton
	parent   *Bone
	children []*Bone

	// Local pose.
	X, Y, Rotation, ScaleX, ScaleY, ShearX, ShearY float32

	// Applied pose, reset from the local pose at the start of every pass.
	AX, AY, ARotation, AScaleX, AScaleY, AShearX, AShearY float32

	// World transform.
	A, B, C, D, WorldX, WorldY float32

	sorted bool
	active bool
}

// Ensure Bone is a cache entry.
var _ Updatable = &Bone{}

// NewBone creates a bone in its setup pose. Panics if data is nil.
// Bones are normally created by NewSkeleton, which wires parents and children.
//
// Parameters:
//   - data: the bone blueprint
//   - parent: the parent bone, or nil for the root
//
// Returns:
//   - *Bone: the new bone
func NewBone(data *BoneData, parent *Bone) *Bone {
	if data == nil {
		panic("skeleton: bone data cannot be nil")
	}
	b := &Bone{data: data, parent: parent, active: true}
	b.SetToSetupPose()
	return b
}

// Data returns the bone's setup-pose blueprint.
func (b *Bone) Data() *BoneData {
	return b.data
}

// Skeleton returns the skeleton owning the bone, or nil for a free-standing bone.
func (b *Bone) Skeleton() Skeleton {
	if b.skeleton == nil {
		return nil
	}
	return b.skeleton
}

// Parent returns the parent bone, nil for the root.
func (b *Bone) Parent() *Bone {
	return b.parent
}

// Children returns the bone's direct children.
func (b *Bone) Children() []*Bone {
	return b.children
}

// IsActive reports whether the bone takes part in the current skin's update order.
func (b *Bone) IsActive() bool {
	return b.active
}

// Update computes the world transform from the applied pose.
func (b *Bone) Update() {
	b.UpdateWorldTransformWith(b.AX, b.AY, b.ARotation, b.AScaleX, b.AScaleY, b.AShearX, b.AShearY)
}

// UpdateWorldTransform computes the world transform from the local pose, ignoring constraints.
func (b *Bone) UpdateWorldTransform() {
	b.UpdateWorldTransformWith(b.X, b.Y, b.Rotation, b.ScaleX, b.ScaleY, b.ShearX, b.ShearY)
}

// skeletonTransform returns the skeleton-level offset and scale applied under the root.
// A free-standing bone uses the identity.
func (b *Bone) skeletonTransform() (x, y, scaleX, scaleY float32) {
	if b.skeleton == nil {
		return 0, 0, 1, 1
	}
	return b.skeleton.x, b.skeleton.y, b.skeleton.scaleX, b.skeleton.scaleY
}

// parentTransform returns the world transform the bone's local pose is expressed in.
// For the root this is the skeleton transform.
func (b *Bone) parentTransform() (pa, pb, pc, pd, px, py float32) {
	if p := b.parent; p != nil {
		return p.A, p.B, p.C, p.D, p.WorldX, p.WorldY
	}
	x, y, sx, sy := b.skeletonTransform()
	return sx, 0, 0, sy, x, y
}

// UpdateWorldTransformWith stores the given values as the applied pose and computes the world transform
// from them and the parent's world transform, honoring the bone's inherit mode.
//
// Parameters:
//   - x, y: local translation
//   - rotation: local rotation in degrees
//   - scaleX, scaleY: local scale
//   - shearX, shearY: local shear in degrees
func (b *Bone) UpdateWorldTransformWith(x, y, rotation, scaleX, scaleY, shearX, shearY float32) {
	b.AX, b.AY, b.ARotation = x, y, rotation
	b.AScaleX, b.AScaleY = scaleX, scaleY
	b.AShearX, b.AShearY = shearX, shearY

	skX, skY, skScaleX, skScaleY := b.skeletonTransform()
	parent := b.parent
	if parent == nil {
		rotationY := rotation + 90 + shearY
		b.A = common.CosDeg(rotation+shearX) * scaleX * skScaleX
		b.B = common.CosDeg(rotationY) * scaleY * skScaleX
		b.C = common.SinDeg(rotation+shearX) * scaleX * skScaleY
		b.D = common.SinDeg(rotationY) * scaleY * skScaleY
		b.WorldX = x*skScaleX + skX
		b.WorldY = y*skScaleY + skY
		return
	}

	pa, pb, pc, pd := parent.A, parent.B, parent.C, parent.D
	b.WorldX = pa*x + pb*y + parent.WorldX
	b.WorldY = pc*x + pd*y + parent.WorldY

	switch b.data.Inherit {
	case InheritNormal:
		rotationY := rotation + 90 + shearY
		la := common.CosDeg(rotation+shearX) * scaleX
		lb := common.CosDeg(rotationY) * scaleY
		lc := common.SinDeg(rotation+shearX) * scaleX
		ld := common.SinDeg(rotationY) * scaleY
		b.A = pa*la + pb*lc
		b.B = pa*lb + pb*ld
		b.C = pc*la + pd*lc
		b.D = pc*lb + pd*ld
		return
	case InheritOnlyTranslation:
		rotationY := rotation + 90 + shearY
		b.A = common.CosDeg(rotation+shearX) * scaleX
		b.B = common.CosDeg(rotationY) * scaleY
		b.C = common.SinDeg(rotation+shearX) * scaleX
		b.D = common.SinDeg(rotationY) * scaleY
	case InheritNoRotationOrReflection:
		s := pa*pa + pc*pc
		var prx float32
		if s > 0.0001 {
			s = math32.Abs(pa*pd-pb*pc) / s
			pa /= skScaleX
			pc /= skScaleY
			pb = pc * s
			pd = pa * s
			prx = common.Atan2Deg(pc, pa)
		} else {
			pa, pc = 0, 0
			prx = 90 - common.Atan2Deg(pd, pb)
		}
		rx := rotation + shearX - prx
		ry := rotation + shearY - prx + 90
		la := common.CosDeg(rx) * scaleX
		lb := common.CosDeg(ry) * scaleY
		lc := common.SinDeg(rx) * scaleX
		ld := common.SinDeg(ry) * scaleY
		b.A = pa*la - pb*lc
		b.B = pa*lb - pb*ld
		b.C = pc*la + pd*lc
		b.D = pc*lb + pd*ld
	case InheritNoScale, InheritNoScaleOrReflection:
		cos, sin := common.CosDeg(rotation), common.SinDeg(rotation)
		za := (pa*cos + pb*sin) / skScaleX
		zc := (pc*cos + pd*sin) / skScaleY
		s := math32.Sqrt(za*za + zc*zc)
		if s > 0.00001 {
			s = 1 / s
		}
		za *= s
		zc *= s
		s = math32.Sqrt(za*za + zc*zc)
		// Keep the parent's reflection for NoScale, relative to the skeleton's own flip.
		if b.data.Inherit == InheritNoScale && (pa*pd-pb*pc < 0) != ((skScaleX < 0) != (skScaleY < 0)) {
			s = -s
		}
		r := common.Pi/2 + math32.Atan2(zc, za)
		zb := math32.Cos(r) * s
		zd := math32.Sin(r) * s
		la := common.CosDeg(shearX) * scaleX
		lb := common.CosDeg(90+shearY) * scaleY
		lc := common.SinDeg(shearX) * scaleX
		ld := common.SinDeg(90+shearY) * scaleY
		b.A = za*la + zb*lc
		b.B = za*lb + zb*ld
		b.C = zc*la + zd*lc
		b.D = zc*lb + zd*ld
	}
	b.A *= skScaleX
	b.B *= skScaleX
	b.C *= skScaleY
	b.D *= skScaleY
}

// SetToSetupPose resets the local pose to the blueprint's setup values.
func (b *Bone) SetToSetupPose() {
	d := b.data
	b.X, b.Y = d.X, d.Y
	b.Rotation = d.Rotation
	b.ScaleX, b.ScaleY = d.ScaleX, d.ScaleY
	b.ShearX, b.ShearY = d.ShearX, d.ShearY
}

// resetApplied copies the local pose into the applied pose.
func (b *Bone) resetApplied() {
	b.AX, b.AY, b.ARotation = b.X, b.Y, b.Rotation
	b.AScaleX, b.AScaleY = b.ScaleX, b.ScaleY
	b.AShearX, b.AShearY = b.ShearX, b.ShearY
}

// UpdateAppliedTransform derives the applied pose from the current world transform, relative to the
// parent's world transform. Constraints that write world transforms directly call this so that later
// local-space readers see consistent values. The result may differ from the local pose it was built
// from, since a world transform does not determine rotation, scale and shear uniquely.
func (b *Bone) UpdateAppliedTransform() {
	pa, pb, pc, pd, px, py := b.parentTransform()
	pid := 1 / (pa*pd - pb*pc)
	dx, dy := b.WorldX-px, b.WorldY-py
	b.AX = dx*pd*pid - dy*pb*pid
	b.AY = dy*pa*pid - dx*pc*pid

	ia, id := pid*pd, pid*pa
	ib, ic := pid*pb, pid*pc
	ra := ia*b.A - ib*b.C
	rb := ia*b.B - ib*b.D
	rc := id*b.C - ic*b.A
	rd := id*b.D - ic*b.B
	b.AShearX = 0
	b.AScaleX = math32.Sqrt(ra*ra + rc*rc)
	if b.AScaleX > 0.0001 {
		det := ra*rd - rb*rc
		b.AScaleY = det / b.AScaleX
		b.AShearY = common.Atan2Deg(ra*rb+rc*rd, det)
		b.ARotation = common.Atan2Deg(rc, ra)
	} else {
		b.AScaleX = 0
		b.AScaleY = math32.Sqrt(rb*rb + rd*rd)
		b.AShearY = 0
		b.ARotation = 90 - common.Atan2Deg(rd, rb)
	}
}

// WorldRotationX returns the world rotation of the bone's X axis in degrees.
func (b *Bone) WorldRotationX() float32 {
	return common.Atan2Deg(b.C, b.A)
}

// WorldRotationY returns the world rotation of the bone's Y axis in degrees.
func (b *Bone) WorldRotationY() float32 {
	return common.Atan2Deg(b.D, b.B)
}

// WorldScaleX returns the length of the bone's world X axis.
func (b *Bone) WorldScaleX() float32 {
	return math32.Sqrt(b.A*b.A + b.C*b.C)
}

// WorldScaleY returns the length of the bone's world Y axis.
func (b *Bone) WorldScaleY() float32 {
	return math32.Sqrt(b.B*b.B + b.D*b.D)
}

// WorldToLocal transforms a point from world space into the bone's space.
//
// Parameters:
//   - worldX, worldY: the world-space point
//
// Returns:
//   - float32, float32: the point in bone space
func (b *Bone) WorldToLocal(worldX, worldY float32) (float32, float32) {
	invDet := 1 / (b.A*b.D - b.B*b.C)
	x, y := worldX-b.WorldX, worldY-b.WorldY
	return x*b.D*invDet - y*b.B*invDet, y*b.A*invDet - x*b.C*invDet
}

// LocalToWorld transforms a point from the bone's space into world space.
//
// Parameters:
//   - localX, localY: the bone-space point
//
// Returns:
//   - float32, float32: the point in world space
func (b *Bone) LocalToWorld(localX, localY float32) (float32, float32) {
	return localX*b.A + localY*b.B + b.WorldX, localX*b.C + localY*b.D + b.WorldY
}

// WorldToLocalRotation converts a world rotation in degrees to a local rotation for this bone.
func (b *Bone) WorldToLocalRotation(worldRotation float32) float32 {
	sin, cos := common.SinDeg(worldRotation), common.CosDeg(worldRotation)
	return common.Atan2Deg(b.A*sin-b.C*cos, b.D*cos-b.B*sin) + b.Rotation - b.ShearX
}

// LocalToWorldRotation converts a local rotation in degrees to a world rotation for this bone.
func (b *Bone) LocalToWorldRotation(localRotation float32) float32 {
	localRotation -= b.Rotation - b.ShearX
	sin, cos := common.SinDeg(localRotation), common.CosDeg(localRotation)
	return common.Atan2Deg(cos*b.C+sin*b.D, cos*b.A+sin*b.B)
}

// RotateWorld rotates the world transform by the given degrees. The applied pose is left untouched;
// call UpdateAppliedTransform afterwards if local readers need to see the change.
func (b *Bone) RotateWorld(degrees float32) {
	a, bb, c, d := b.A, b.B, b.C, b.D
	cos, sin := common.CosDeg(degrees), common.SinDeg(degrees)
	b.A = cos*a - sin*c
	b.B = cos*bb - sin*d
	b.C = sin*a + cos*c
	b.D = sin*bb + cos*d
}

func (b *Bone) String() string {
	return b.data.Name
}
