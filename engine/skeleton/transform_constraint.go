package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
)

// TransformConstraint copies the target bone's rotation, translation, scale and shear to the
// constrained bones, each blended by its own mix. It works in world or local space, and either
// replaces the bones' transforms or adds to them.
type TransformConstraint struct {
	data *TransformConstraintData

	Bones  []*Bone
	Target *Bone

	RotateMix, TranslateMix, ScaleMix, ShearMix float32

	active bool
}

var _ Updatable = &TransformConstraint{}

func newTransformConstraint(data *TransformConstraintData, sk *skeleton) *TransformConstraint {
	c := &TransformConstraint{
		data:   data,
		Bones:  make([]*Bone, len(data.Bones)),
		Target: sk.bones[data.Target.Index],
	}
	for i, b := range data.Bones {
		c.Bones[i] = sk.bones[b.Index]
	}
	c.SetToSetupPose()
	return c
}

// Data returns the constraint's setup-pose blueprint.
func (c *TransformConstraint) Data() *TransformConstraintData {
	return c.data
}

func (c *TransformConstraint) IsActive() bool {
	return c.active
}

// SetToSetupPose restores the mixes from the blueprint.
func (c *TransformConstraint) SetToSetupPose() {
	d := c.data
	c.RotateMix = d.RotateMix
	c.TranslateMix = d.TranslateMix
	c.ScaleMix = d.ScaleMix
	c.ShearMix = d.ShearMix
}

// Update applies the constraint in the mode selected by the blueprint's Local and Relative flags.
func (c *TransformConstraint) Update() {
	if c.RotateMix == 0 && c.TranslateMix == 0 && c.ScaleMix == 0 && c.ShearMix == 0 {
		return
	}
	switch {
	case c.data.Local && c.data.Relative:
		c.applyRelativeLocal()
	case c.data.Local:
		c.applyAbsoluteLocal()
	case c.data.Relative:
		c.applyRelativeWorld()
	default:
		c.applyAbsoluteWorld()
	}
}

// reflectedDegRad converts offset angles to radians, mirrored when the target's world transform is reflected.
func (c *TransformConstraint) reflectedDegRad() float32 {
	t := c.Target
	if t.A*t.D-t.B*t.C > 0 {
		return common.DegRad
	}
	return -common.DegRad
}

func (c *TransformConstraint) applyAbsoluteWorld() {
	rotateMix, translateMix, scaleMix, shearMix := c.RotateMix, c.TranslateMix, c.ScaleMix, c.ShearMix
	target, data := c.Target, c.data
	ta, tb, tc, td := target.A, target.B, target.C, target.D
	degRad := c.reflectedDegRad()
	offsetRotation := data.OffsetRotation * degRad
	offsetShearY := data.OffsetShearY * degRad

	for _, bone := range c.Bones {
		modified := false
		if rotateMix != 0 {
			r := math32.Atan2(tc, ta) - math32.Atan2(bone.C, bone.A) + offsetRotation
			rotateMatrix(bone, common.WrapRadians(r)*rotateMix)
			modified = true
		}
		if translateMix != 0 {
			x, y := target.LocalToWorld(data.OffsetX, data.OffsetY)
			bone.WorldX += (x - bone.WorldX) * translateMix
			bone.WorldY += (y - bone.WorldY) * translateMix
			modified = true
		}
		if scaleMix > 0 {
			s := math32.Sqrt(bone.A*bone.A + bone.C*bone.C)
			if s > 0.00001 {
				s = (s + (math32.Sqrt(ta*ta+tc*tc)-s+data.OffsetScaleX)*scaleMix) / s
			}
			bone.A *= s
			bone.C *= s
			s = math32.Sqrt(bone.B*bone.B + bone.D*bone.D)
			if s > 0.00001 {
				s = (s + (math32.Sqrt(tb*tb+td*td)-s+data.OffsetScaleY)*scaleMix) / s
			}
			bone.B *= s
			bone.D *= s
			modified = true
		}
		if shearMix > 0 {
			b, d := bone.B, bone.D
			by := math32.Atan2(d, b)
			r := math32.Atan2(td, tb) - math32.Atan2(tc, ta) - (by - math32.Atan2(bone.C, bone.A))
			r = by + (common.WrapRadians(r)+offsetShearY)*shearMix
			s := math32.Sqrt(b*b + d*d)
			bone.B = math32.Cos(r) * s
			bone.D = math32.Sin(r) * s
			modified = true
		}
		if modified {
			bone.UpdateAppliedTransform()
		}
	}
}

func (c *TransformConstraint) applyRelativeWorld() {
	rotateMix, translateMix, scaleMix, shearMix := c.RotateMix, c.TranslateMix, c.ScaleMix, c.ShearMix
	target, data := c.Target, c.data
	ta, tb, tc, td := target.A, target.B, target.C, target.D
	degRad := c.reflectedDegRad()
	offsetRotation := data.OffsetRotation * degRad
	offsetShearY := data.OffsetShearY * degRad

	for _, bone := range c.Bones {
		modified := false
		if rotateMix != 0 {
			r := math32.Atan2(tc, ta) + offsetRotation
			rotateMatrix(bone, common.WrapRadians(r)*rotateMix)
			modified = true
		}
		if translateMix != 0 {
			x, y := target.LocalToWorld(data.OffsetX, data.OffsetY)
			bone.WorldX += x * translateMix
			bone.WorldY += y * translateMix
			modified = true
		}
		if scaleMix > 0 {
			s := (math32.Sqrt(ta*ta+tc*tc)-1+data.OffsetScaleX)*scaleMix + 1
			bone.A *= s
			bone.C *= s
			s = (math32.Sqrt(tb*tb+td*td)-1+data.OffsetScaleY)*scaleMix + 1
			bone.B *= s
			bone.D *= s
			modified = true
		}
		if shearMix > 0 {
			r := common.WrapRadians(math32.Atan2(td, tb) - math32.Atan2(tc, ta))
			b, d := bone.B, bone.D
			r = math32.Atan2(d, b) + (r-common.Pi/2+offsetShearY)*shearMix
			s := math32.Sqrt(b*b + d*d)
			bone.B = math32.Cos(r) * s
			bone.D = math32.Sin(r) * s
			modified = true
		}
		if modified {
			bone.UpdateAppliedTransform()
		}
	}
}

func (c *TransformConstraint) applyAbsoluteLocal() {
	rotateMix, translateMix, scaleMix, shearMix := c.RotateMix, c.TranslateMix, c.ScaleMix, c.ShearMix
	target, data := c.Target, c.data

	for _, bone := range c.Bones {
		rotation := bone.ARotation
		if rotateMix != 0 {
			r := wrapTurns(target.ARotation - rotation + data.OffsetRotation)
			rotation += r * rotateMix
		}
		x, y := bone.AX, bone.AY
		if translateMix != 0 {
			x += (target.AX - x + data.OffsetX) * translateMix
			y += (target.AY - y + data.OffsetY) * translateMix
		}
		scaleX, scaleY := bone.AScaleX, bone.AScaleY
		if scaleMix != 0 {
			scaleX += (target.AScaleX - scaleX + data.OffsetScaleX) * scaleMix
			scaleY += (target.AScaleY - scaleY + data.OffsetScaleY) * scaleMix
		}
		shearY := bone.AShearY
		if shearMix != 0 {
			r := wrapTurns(target.AShearY - shearY + data.OffsetShearY)
			shearY += r * shearMix
		}
		bone.UpdateWorldTransformWith(x, y, rotation, scaleX, scaleY, bone.AShearX, shearY)
	}
}

func (c *TransformConstraint) applyRelativeLocal() {
	rotateMix, translateMix, scaleMix, shearMix := c.RotateMix, c.TranslateMix, c.ScaleMix, c.ShearMix
	target, data := c.Target, c.data

	for _, bone := range c.Bones {
		rotation := bone.ARotation + (target.ARotation+data.OffsetRotation)*rotateMix
		x := bone.AX + (target.AX+data.OffsetX)*translateMix
		y := bone.AY + (target.AY+data.OffsetY)*translateMix
		scaleX := bone.AScaleX * ((target.AScaleX-1+data.OffsetScaleX)*scaleMix + 1)
		scaleY := bone.AScaleY * ((target.AScaleY-1+data.OffsetScaleY)*scaleMix + 1)
		shearY := bone.AShearY + (target.AShearY+data.OffsetShearY)*shearMix
		bone.UpdateWorldTransformWith(x, y, rotation, scaleX, scaleY, bone.AShearX, shearY)
	}
}

// rotateMatrix rotates the bone's world linear part by r radians.
func rotateMatrix(bone *Bone, r float32) {
	cos, sin := math32.Cos(r), math32.Sin(r)
	a, b, c, d := bone.A, bone.B, bone.C, bone.D
	bone.A = cos*a - sin*c
	bone.B = cos*b - sin*d
	bone.C = sin*a + cos*c
	bone.D = sin*b + cos*d
}

// wrapTurns folds an angle in degrees onto the nearest equivalent in [-180, 180].
func wrapTurns(degrees float32) float32 {
	return degrees - math32.Ceil(degrees/360-0.5)*360
}
