package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
)

const (
	// fabrikIterations bounds the relaxation passes for chains longer than two bones.
	fabrikIterations = 16
	// fabrikTolerance is the end-effector distance, in world units, at which relaxation stops.
	fabrikTolerance = 0.001
)

// IkConstraint rotates a chain of bones so the tip of the last bone reaches for the target bone.
// One- and two-bone chains are solved in closed form; longer chains are relaxed iteratively.
type IkConstraint struct {
	data *IkConstraintData

	Bones  []*Bone
	Target *Bone

	Mix           float32
	Softness      float32
	BendDirection int
	Compress      bool
	Stretch       bool

	active bool

	joints  []float32
	lengths []float32
}

var _ Updatable = &IkConstraint{}

func newIkConstraint(data *IkConstraintData, sk *skeleton) *IkConstraint {
	c := &IkConstraint{
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
func (c *IkConstraint) Data() *IkConstraintData {
	return c.data
}

func (c *IkConstraint) IsActive() bool {
	return c.active
}

// SetToSetupPose restores the runtime parameters from the blueprint.
func (c *IkConstraint) SetToSetupPose() {
	d := c.data
	c.Mix = d.Mix
	c.Softness = d.Softness
	c.BendDirection = d.BendDirection
	c.Compress = d.Compress
	c.Stretch = d.Stretch
}

// Update solves the chain for the target's current world position. A zero mix leaves the pose untouched.
func (c *IkConstraint) Update() {
	if c.Mix == 0 {
		return
	}
	target := c.Target
	switch len(c.Bones) {
	case 1:
		ApplyIk1(c.Bones[0], target.WorldX, target.WorldY, c.Compress, c.Stretch, c.data.Uniform, c.Mix)
	case 2:
		ApplyIk2(c.Bones[0], c.Bones[1], target.WorldX, target.WorldY, c.BendDirection, c.Stretch, c.Softness, c.Mix)
	default:
		c.applyChain(target.WorldX, target.WorldY)
	}
}

// ApplyIk1 rotates a single bone so its X axis points at the target, blending by alpha.
//
// Parameters:
//   - bone: the bone to rotate
//   - targetX, targetY: the world-space target
//   - compress: scale the bone down when the target is closer than its length
//   - stretch: scale the bone up when the target is farther than its length
//   - uniform: apply compress and stretch to both axes
//   - alpha: the blend between the current (0) and solved (1) rotation
func ApplyIk1(bone *Bone, targetX, targetY float32, compress, stretch, uniform bool, alpha float32) {
	pa, pb, pc, pd, px, py := bone.parentTransform()
	rotationIK := -bone.AShearX - bone.ARotation
	var tx, ty float32
	switch bone.data.Inherit {
	case InheritOnlyTranslation:
		tx, ty = targetX-bone.WorldX, targetY-bone.WorldY
	case InheritNoRotationOrReflection:
		_, _, skScaleX, skScaleY := bone.skeletonTransform()
		s := math32.Abs(pa*pd-pb*pc) / math32.Max(0.0001, pa*pa+pc*pc)
		sa, sc := pa/skScaleX, pc/skScaleY
		pb = -sc * s * skScaleX
		pd = sa * s * skScaleY
		rotationIK += common.Atan2Deg(sc, sa)
		fallthrough
	default:
		x, y := targetX-px, targetY-py
		d := pa*pd - pb*pc
		if math32.Abs(d) <= 0.0001 {
			tx, ty = 0, 0
		} else {
			tx = (x*pd-y*pb)/d - bone.AX
			ty = (y*pa-x*pc)/d - bone.AY
		}
	}
	rotationIK += common.Atan2Deg(ty, tx)
	if bone.AScaleX < 0 {
		rotationIK += 180
	}
	rotationIK = common.WrapDegrees(rotationIK)

	sx, sy := bone.AScaleX, bone.AScaleY
	if compress || stretch {
		switch bone.data.Inherit {
		case InheritNoScale, InheritNoScaleOrReflection:
			tx, ty = targetX-bone.WorldX, targetY-bone.WorldY
		}
		b := bone.data.Length * sx
		dd := math32.Sqrt(tx*tx + ty*ty)
		if ((compress && dd < b) || (stretch && dd > b)) && b > 0.0001 {
			s := (dd/b-1)*alpha + 1
			sx *= s
			if uniform {
				sy *= s
			}
		}
	}
	bone.UpdateWorldTransformWith(bone.AX, bone.AY, bone.ARotation+rotationIK*alpha, sx, sy, bone.AShearX, bone.AShearY)
}

// ApplyIk2 rotates a parent and its child so the tip of the child reaches the target, blending by alpha.
// Non-uniformly scaled parents are solved against the ellipse the child's tip traces.
//
// Parameters:
//   - parent: the first bone of the chain
//   - child: the second bone of the chain, a direct child of parent
//   - targetX, targetY: the world-space target
//   - bendDir: 1 or -1, picking which way the chain bends
//   - stretch: scale the parent up when the target is out of reach
//   - softness: distance from full reach at which the bones start to straighten gradually
//   - alpha: the blend between the current (0) and solved (1) rotations
func ApplyIk2(parent, child *Bone, targetX, targetY float32, bendDir int, stretch bool, softness, alpha float32) {
	px, py := parent.AX, parent.AY
	psx, psy := parent.AScaleX, parent.AScaleY
	sx := psx
	csx := child.AScaleX
	var os1, os2, s2 float32
	if psx < 0 {
		psx = -psx
		os1 = 180
		s2 = -1
	} else {
		os1 = 0
		s2 = 1
	}
	if psy < 0 {
		psy = -psy
		s2 = -s2
	}
	if csx < 0 {
		csx = -csx
		os2 = 180
	}

	cx := child.AX
	var cy, cwx, cwy float32
	a, b, c, d := parent.A, parent.B, parent.C, parent.D
	u := math32.Abs(psx-psy) <= 0.0001
	if !u || stretch {
		cy = 0
		cwx = a*cx + parent.WorldX
		cwy = c*cx + parent.WorldY
	} else {
		cy = child.AY
		cwx = a*cx + b*cy + parent.WorldX
		cwy = c*cx + d*cy + parent.WorldY
	}

	var ppx, ppy float32
	a, b, c, d, ppx, ppy = parent.parentTransform()
	id := a*d - b*c
	if math32.Abs(id) <= 0.0001 {
		id = 0
	} else {
		id = 1 / id
	}
	x, y := cwx-ppx, cwy-ppy
	dx := (x*d-y*b)*id - px
	dy := (y*a-x*c)*id - py
	l1 := math32.Sqrt(dx*dx + dy*dy)
	l2 := child.data.Length * csx
	if l1 < 0.0001 {
		ApplyIk1(parent, targetX, targetY, false, stretch, false, alpha)
		child.UpdateWorldTransformWith(cx, cy, 0, child.AScaleX, child.AScaleY, child.AShearX, child.AShearY)
		return
	}

	x, y = targetX-ppx, targetY-ppy
	tx := (x*d-y*b)*id - px
	ty := (y*a-x*c)*id - py
	dd := tx*tx + ty*ty
	if softness != 0 {
		softness *= psx * (csx + 1) * 0.5
		td := math32.Sqrt(dd)
		sd := td - l1 - l2*psx + softness
		if sd > 0 {
			p := math32.Min(1, sd/(softness*2)) - 1
			p = (sd - softness*(1-p*p)) / td
			tx -= p * tx
			ty -= p * ty
			dd = tx*tx + ty*ty
		}
	}

	bend := float32(bendDir)
	var a1, a2 float32
	if u {
		l2 *= psx
		cos := (dd - l1*l1 - l2*l2) / (2 * l1 * l2)
		if cos < -1 {
			cos = -1
			a2 = common.Pi * bend
		} else if cos > 1 {
			cos = 1
			a2 = 0
			if stretch {
				sx *= (math32.Sqrt(dd)/(l1+l2)-1)*alpha + 1
			}
		} else {
			a2 = math32.Acos(cos) * bend
		}
		a = l1 + l2*cos
		b = l2 * math32.Sin(a2)
		a1 = math32.Atan2(ty*a-tx*b, tx*a+ty*b)
	} else {
		a1, a2 = solveEllipse(l1, psx*l2, psy*l2, psx, psy, tx, ty, dd, bend)
	}

	os := math32.Atan2(cy, cx) * s2
	rotation := parent.ARotation
	a1 = common.WrapDegrees((a1-os)*common.RadDeg + os1 - rotation)
	parent.UpdateWorldTransformWith(px, py, rotation+a1*alpha, sx, parent.AScaleY, 0, 0)

	rotation = child.ARotation
	a2 = common.WrapDegrees(((a2+os)*common.RadDeg-child.AShearX)*s2 + os2 - rotation)
	child.UpdateWorldTransformWith(cx, cy, rotation+a2*alpha, child.AScaleX, child.AScaleY, child.AShearX, child.AShearY)
}

// solveEllipse finds the parent and child angles, in radians, for a two-bone chain whose parent is
// scaled non-uniformly, so the child's tip moves along an ellipse with semi-axes ea and eb.
func solveEllipse(l1, ea, eb, psx, psy, tx, ty, dd, bend float32) (a1, a2 float32) {
	aa, bb := ea*ea, eb*eb
	ta := math32.Atan2(ty, tx)
	c := bb*l1*l1 + aa*dd - aa*bb
	c1 := -2 * bb * l1
	c2 := bb - aa
	d := c1*c1 - 4*c2*c
	if d >= 0 {
		q := math32.Sqrt(d)
		if c1 < 0 {
			q = -q
		}
		q = -(c1 + q) * 0.5
		r0, r1 := q/c2, c/q
		r := r1
		if math32.Abs(r0) < math32.Abs(r1) {
			r = r0
		}
		if r*r <= dd {
			y := math32.Sqrt(dd-r*r) * bend
			return ta - math32.Atan2(y, r), math32.Atan2(y/psy, (r-l1)/psx)
		}
	}

	// No exact solution: bend toward the closest or farthest reachable point.
	minAngle, minX, minY := common.Pi, l1-ea, float32(0)
	minDist := minX * minX
	maxAngle, maxX, maxY := float32(0), l1+ea, float32(0)
	maxDist := maxX * maxX
	c = -ea * l1 / (aa - bb)
	if c >= -1 && c <= 1 {
		c = math32.Acos(c)
		x := ea*math32.Cos(c) + l1
		y := eb * math32.Sin(c)
		d = x*x + y*y
		if d < minDist {
			minAngle, minDist, minX, minY = c, d, x, y
		}
		if d > maxDist {
			maxAngle, maxDist, maxX, maxY = c, d, x, y
		}
	}
	if dd <= (minDist+maxDist)*0.5 {
		return ta - math32.Atan2(minY*bend, minX), minAngle * bend
	}
	return ta - math32.Atan2(maxY*bend, maxX), maxAngle * bend
}

// applyChain solves chains of three or more bones with FABRIK: joint positions are relaxed in world
// space, then each bone in turn is aimed at the next joint.
func (c *IkConstraint) applyChain(targetX, targetY float32) {
	bones := c.Bones
	n := len(bones)
	if cap(c.joints) < (n+1)*2 {
		c.joints = make([]float32, (n+1)*2)
		c.lengths = make([]float32, n)
	}
	joints := c.joints[:(n+1)*2]
	lengths := c.lengths[:n]

	for i, b := range bones {
		joints[i*2], joints[i*2+1] = b.WorldX, b.WorldY
	}
	last := bones[n-1]
	joints[n*2], joints[n*2+1] = last.LocalToWorld(last.data.Length, 0)

	var total float32
	for i := 0; i < n; i++ {
		dx := joints[i*2+2] - joints[i*2]
		dy := joints[i*2+3] - joints[i*2+1]
		lengths[i] = math32.Sqrt(dx*dx + dy*dy)
		total += lengths[i]
	}

	rootX, rootY := joints[0], joints[1]
	if dx, dy := targetX-rootX, targetY-rootY; dx*dx+dy*dy >= total*total {
		// Out of reach: lay the chain straight toward the target.
		dist := math32.Sqrt(dx*dx + dy*dy)
		if dist > 0 {
			dx, dy = dx/dist, dy/dist
		}
		for i := 0; i < n; i++ {
			joints[i*2+2] = joints[i*2] + dx*lengths[i]
			joints[i*2+3] = joints[i*2+1] + dy*lengths[i]
		}
	} else {
		c.bendCollinear(joints, lengths)
		for iter := 0; iter < fabrikIterations; iter++ {
			ex, ey := joints[n*2]-targetX, joints[n*2+1]-targetY
			if ex*ex+ey*ey <= fabrikTolerance*fabrikTolerance {
				break
			}
			joints[n*2], joints[n*2+1] = targetX, targetY
			for i := n - 1; i >= 0; i-- {
				placeJoint(joints, i, i+1, lengths[i])
			}
			joints[0], joints[1] = rootX, rootY
			for i := 0; i < n; i++ {
				placeJoint(joints, i+1, i, lengths[i])
			}
		}
	}

	for i, b := range bones {
		var offset float32
		if i < n-1 {
			next := bones[i+1]
			offset = common.Atan2Deg(next.AY, next.AX)
		}
		if i > 0 {
			b.Update()
		}
		aimBone(b, joints[i*2+2], joints[i*2+3], offset, c.Mix)
	}
}

// bendCollinear nudges the interior joints of a straight chain sideways, toward the bend direction,
// so the relaxation has a side to fold to.
func (c *IkConstraint) bendCollinear(joints, lengths []float32) {
	n := len(lengths)
	ax, ay := joints[0], joints[1]
	bx, by := joints[n*2]-ax, joints[n*2+1]-ay
	span := math32.Sqrt(bx*bx + by*by)
	if span < 0.0001 {
		return
	}
	for i := 1; i < n; i++ {
		px, py := joints[i*2]-ax, joints[i*2+1]-ay
		if math32.Abs(bx*py-by*px)/span > 0.0001 {
			return
		}
	}
	nx, ny := -by/span, bx/span
	bend := float32(c.BendDirection)
	for i := 1; i < n; i++ {
		shift := lengths[i-1] * 0.01 * bend
		joints[i*2] += nx * shift
		joints[i*2+1] += ny * shift
	}
}

// placeJoint moves joint i along the line toward joint from so that they are length apart.
func placeJoint(joints []float32, i, from int, length float32) {
	fx, fy := joints[from*2], joints[from*2+1]
	dx, dy := joints[i*2]-fx, joints[i*2+1]-fy
	dist := math32.Sqrt(dx*dx + dy*dy)
	if dist < 0.00001 {
		return
	}
	s := length / dist
	joints[i*2] = fx + dx*s
	joints[i*2+1] = fy + dy*s
}

// aimBone rotates bone so that the direction offset degrees from its X axis points at the target.
func aimBone(bone *Bone, targetX, targetY, offset, alpha float32) {
	pa, pb, pc, pd, px, py := bone.parentTransform()
	x, y := targetX-px, targetY-py
	var tx, ty float32
	if d := pa*pd - pb*pc; math32.Abs(d) > 0.0001 {
		tx = (x*pd-y*pb)/d - bone.AX
		ty = (y*pa-x*pc)/d - bone.AY
	}
	rotationIK := common.Atan2Deg(ty, tx) - offset - bone.AShearX - bone.ARotation
	if bone.AScaleX < 0 {
		rotationIK += 180
	}
	rotationIK = common.WrapDegrees(rotationIK)
	bone.UpdateWorldTransformWith(bone.AX, bone.AY, bone.ARotation+rotationIK*alpha, bone.AScaleX, bone.AScaleY, bone.AShearX, bone.AShearY)
}
