package skeleton

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ikRig(t *testing.T, chain int, targetX, targetY float32, configure func(d *IkConstraintData)) *skeleton {
	t.Helper()
	r := newRig("root")
	bones := make([]*BoneData, chain)
	parent := "root"
	for i := range bones {
		name := string(rune('a' + i))
		b := r.bone(name, parent)
		b.Length = 10
		if i > 0 {
			b.X = 10
		}
		bones[i] = b
		parent = name
	}
	target := r.bone("target", "root")
	target.X, target.Y = targetX, targetY
	ik := NewIkConstraintData("ik")
	ik.Bones, ik.Target = bones, target
	if configure != nil {
		configure(ik)
	}
	r.data.IkConstraints = []*IkConstraintData{ik}
	sk := r.build(t)
	sk.UpdateWorldTransform()
	return sk
}

func tipOf(b *Bone) (float32, float32) {
	return b.LocalToWorld(b.Data().Length, 0)
}

func TestIkOneBone(t *testing.T) {
	sk := ikRig(t, 1, 0, 10, nil)
	a := sk.FindBone("a")
	assert.InDelta(t, 90, a.WorldRotationX(), tolerance)
	x, y := tipOf(a)
	assert.InDelta(t, 0, x, tolerance)
	assert.InDelta(t, 10, y, tolerance)
}

func TestIkOneBoneMix(t *testing.T) {
	sk := ikRig(t, 1, 0, 10, func(d *IkConstraintData) { d.Mix = 0.5 })
	assert.InDelta(t, 45, sk.FindBone("a").WorldRotationX(), tolerance)

	sk.IkConstraints()[0].Mix = 0
	sk.UpdateWorldTransform()
	assert.InDelta(t, 0, sk.FindBone("a").WorldRotationX(), tolerance)
}

func TestIkOneBoneStretchAndCompress(t *testing.T) {
	sk := ikRig(t, 1, 0, 20, func(d *IkConstraintData) { d.Stretch = true })
	assert.InDelta(t, 2, sk.FindBone("a").WorldScaleX(), tolerance)
	assert.InDelta(t, 1, sk.FindBone("a").WorldScaleY(), tolerance)

	sk = ikRig(t, 1, 5, 0, func(d *IkConstraintData) { d.Compress = true; d.Uniform = true })
	assert.InDelta(t, 0.5, sk.FindBone("a").WorldScaleX(), tolerance)
	assert.InDelta(t, 0.5, sk.FindBone("a").WorldScaleY(), tolerance)

	sk = ikRig(t, 1, 5, 0, nil)
	assert.InDelta(t, 1, sk.FindBone("a").WorldScaleX(), tolerance)
}

func TestIkTwoBoneBendDirection(t *testing.T) {
	tests := []struct {
		name           string
		bend           int
		elbowX, elbowY float32
	}{
		{name: "positive", bend: 1, elbowX: 10, elbowY: 0},
		{name: "negative", bend: -1, elbowX: 0, elbowY: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sk := ikRig(t, 2, 10, 10, func(d *IkConstraintData) { d.BendDirection = tt.bend })
			b := sk.FindBone("b")
			assert.InDelta(t, tt.elbowX, b.WorldX, tolerance)
			assert.InDelta(t, tt.elbowY, b.WorldY, tolerance)
			x, y := tipOf(b)
			assert.InDelta(t, 10, x, tolerance)
			assert.InDelta(t, 10, y, tolerance)
		})
	}
}

func TestIkTwoBoneOutOfReach(t *testing.T) {
	sk := ikRig(t, 2, 0, 50, nil)
	x, y := tipOf(sk.FindBone("b"))
	assert.InDelta(t, 0, x, tolerance)
	assert.InDelta(t, 20, y, tolerance)

	sk = ikRig(t, 2, 0, 40, func(d *IkConstraintData) { d.Stretch = true })
	x, y = tipOf(sk.FindBone("b"))
	assert.InDelta(t, 0, x, 1e-3)
	assert.InDelta(t, 40, y, 1e-3)
}

func TestIkChainReachesTarget(t *testing.T) {
	sk := ikRig(t, 3, 15, 15, nil)
	x, y := tipOf(sk.FindBone("c"))
	assert.InDelta(t, 15, x, 0.05)
	assert.InDelta(t, 15, y, 0.05)

	// Bone lengths are preserved.
	a, b, c := sk.FindBone("a"), sk.FindBone("b"), sk.FindBone("c")
	assert.InDelta(t, 10, dist(a.WorldX, a.WorldY, b.WorldX, b.WorldY), 1e-3)
	assert.InDelta(t, 10, dist(b.WorldX, b.WorldY, c.WorldX, c.WorldY), 1e-3)
}

func TestIkChainOutOfReachStraightens(t *testing.T) {
	sk := ikRig(t, 3, 0, 100, nil)
	for _, name := range []string{"a", "b", "c"} {
		assert.InDelta(t, 90, sk.FindBone(name).WorldRotationX(), 1e-3, name)
	}
	x, y := tipOf(sk.FindBone("c"))
	assert.InDelta(t, 0, x, 1e-3)
	assert.InDelta(t, 30, y, 1e-3)
}

func dist(x1, y1, x2, y2 float32) float32 {
	dx, dy := x2-x1, y2-y1
	return math32.Sqrt(dx*dx + dy*dy)
}

func TestIkCollapsedParentStaysFinite(t *testing.T) {
	tests := []struct {
		name      string
		chain     int
		configure func(d *IkConstraintData)
	}{
		{name: "one bone", chain: 1},
		{name: "one bone without inherited rotation", chain: 1, configure: func(d *IkConstraintData) {
			d.Bones[0].Inherit = InheritNoRotationOrReflection
		}},
		{name: "two bones", chain: 2},
		{name: "chain", chain: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sk := ikRig(t, tt.chain, 10, 10, tt.configure)
			root := sk.FindBone("root")
			root.ScaleX, root.ScaleY = 0, 0
			sk.UpdateWorldTransform()
			for i := 0; i < tt.chain; i++ {
				b := sk.FindBone(string(rune('a' + i)))
				for _, v := range []float32{b.ARotation, b.AScaleX, b.A, b.B, b.C, b.D, b.WorldX, b.WorldY} {
					assert.False(t, math32.IsNaN(v) || math32.IsInf(v, 0), "%s: %v", b.Data().Name, v)
				}
			}
		})
	}
}

func transformRig(t *testing.T, configure func(d *TransformConstraintData, bone, target *BoneData)) *skeleton {
	t.Helper()
	r := newRig("root")
	bone := r.bone("bone", "root")
	target := r.bone("target", "root")
	r.bone("child", "bone").X = 5
	tc := NewTransformConstraintData("tc")
	tc.Bones, tc.Target = []*BoneData{bone}, target
	tc.RotateMix, tc.TranslateMix, tc.ScaleMix, tc.ShearMix = 0, 0, 0, 0
	configure(tc, bone, target)
	r.data.TransformConstraints = []*TransformConstraintData{tc}
	sk := r.build(t)
	sk.UpdateWorldTransform()
	return sk
}

func TestTransformAbsoluteWorld(t *testing.T) {
	sk := transformRig(t, func(d *TransformConstraintData, _, target *BoneData) {
		target.X, target.Y = 10, 5
		target.Rotation = 90
		d.TranslateMix = 1
		d.RotateMix = 0.5
	})
	b := sk.FindBone("bone")
	assert.InDelta(t, 10, b.WorldX, tolerance)
	assert.InDelta(t, 5, b.WorldY, tolerance)
	assert.InDelta(t, 45, b.WorldRotationX(), tolerance)
	assert.InDelta(t, 10, b.AX, tolerance, "applied pose follows the world change")
	assert.InDelta(t, 45, b.ARotation, tolerance)

	// Children are updated after the constraint.
	child := sk.FindBone("child")
	wx, wy := b.LocalToWorld(5, 0)
	assert.InDelta(t, wx, child.WorldX, tolerance)
	assert.InDelta(t, wy, child.WorldY, tolerance)
}

func TestTransformAbsoluteWorldScale(t *testing.T) {
	sk := transformRig(t, func(d *TransformConstraintData, _, target *BoneData) {
		target.ScaleX, target.ScaleY = 3, 2
		d.ScaleMix = 0.5
	})
	b := sk.FindBone("bone")
	assert.InDelta(t, 2, b.WorldScaleX(), tolerance)
	assert.InDelta(t, 1.5, b.WorldScaleY(), tolerance)
}

func TestTransformRelativeWorld(t *testing.T) {
	sk := transformRig(t, func(d *TransformConstraintData, bone, target *BoneData) {
		bone.X = 1
		target.X = 4
		target.Rotation = 30
		d.Relative = true
		d.TranslateMix = 1
		d.RotateMix = 1
	})
	b := sk.FindBone("bone")
	assert.InDelta(t, 5, b.WorldX, tolerance)
	assert.InDelta(t, 30, b.WorldRotationX(), tolerance)
}

func TestTransformAbsoluteLocal(t *testing.T) {
	sk := transformRig(t, func(d *TransformConstraintData, bone, target *BoneData) {
		bone.X = 2
		target.X = 8
		target.ScaleX = 3
		target.Rotation = 170
		bone.Rotation = -170
		d.Local = true
		d.TranslateMix = 0.5
		d.ScaleMix = 0.5
		d.RotateMix = 0.5
	})
	b := sk.FindBone("bone")
	assert.InDelta(t, 5, b.AX, tolerance)
	assert.InDelta(t, 2, b.AScaleX, tolerance)
	// The shortest arc from -170 to 170 crosses 180.
	assert.InDelta(t, -180, b.ARotation, tolerance)
	assert.InDelta(t, 5, b.WorldX, tolerance)
}

func TestTransformRelativeLocal(t *testing.T) {
	sk := transformRig(t, func(d *TransformConstraintData, bone, target *BoneData) {
		bone.Rotation = 10
		bone.ScaleX = 2
		target.Rotation = 20
		target.ScaleX = 1.5
		target.Y = 3
		d.Local = true
		d.Relative = true
		d.RotateMix = 1
		d.ScaleMix = 1
		d.TranslateMix = 1
	})
	b := sk.FindBone("bone")
	assert.InDelta(t, 30, b.ARotation, tolerance)
	assert.InDelta(t, 3, b.AScaleX, tolerance)
	assert.InDelta(t, 3, b.AY, tolerance)
}

func TestTransformZeroMixIsNoop(t *testing.T) {
	sk := transformRig(t, func(_ *TransformConstraintData, bone, target *BoneData) {
		bone.X = 1
		target.X = 9
	})
	assert.InDelta(t, 1, sk.FindBone("bone").WorldX, tolerance)
}

func pathRig(t *testing.T, configure func(d *PathConstraintData, path *PathAttachment), options ...SkeletonBuilderOption) *skeleton {
	t.Helper()
	r := newRig("root")
	var bones []*BoneData
	for _, name := range []string{"b0", "b1", "b2"} {
		b := r.bone(name, "root")
		b.Length = 10
		bones = append(bones, b)
	}
	r.slot("path", "root").AttachmentName = "path"

	// A straight vertical line from (0, 0) to (0, 30) with evenly spaced handles.
	path := NewPathAttachment("path", r.ids)
	path.SetVertices([]float32{0, -10, 0, 0, 0, 10, 0, 20, 0, 30, 0, 40})
	path.SetWorldVerticesLength(12)
	path.Lengths = []float32{30}
	r.defaultSkin().SetAttachment(0, "path", path)

	pc := NewPathConstraintData("follow")
	pc.Bones = bones
	pc.Target = r.data.Slots[0]
	pc.SpacingMode = SpacingLength
	pc.RotateMode = RotateTangent
	if configure != nil {
		configure(pc, path)
	}
	r.data.PathConstraints = []*PathConstraintData{pc}
	sk := r.build(t, options...)
	sk.UpdateWorldTransform()
	return sk
}

func TestPathConstraintLaysBonesAlongPath(t *testing.T) {
	sk := pathRig(t, nil)
	for i, name := range []string{"b0", "b1", "b2"} {
		b := sk.FindBone(name)
		assert.InDelta(t, 0, b.WorldX, tolerance, name)
		assert.InDelta(t, float32(i*10), b.WorldY, tolerance, name)
		assert.InDelta(t, 90, b.WorldRotationX(), tolerance, name)
	}
}

func TestPathConstraintPositionModes(t *testing.T) {
	sk := pathRig(t, func(d *PathConstraintData, _ *PathAttachment) { d.Position = 5 })
	assert.InDelta(t, 5, sk.FindBone("b0").WorldY, tolerance)
	assert.InDelta(t, 25, sk.FindBone("b2").WorldY, tolerance)

	sk = pathRig(t, func(d *PathConstraintData, _ *PathAttachment) {
		d.PositionMode = PositionPercent
		d.Position = 0.5
		d.SpacingMode = SpacingFixed
		d.Spacing = 2
	})
	assert.InDelta(t, 15, sk.FindBone("b0").WorldY, tolerance)
	assert.InDelta(t, 17, sk.FindBone("b1").WorldY, tolerance)
	assert.InDelta(t, 19, sk.FindBone("b2").WorldY, tolerance)
}

func TestPathConstraintExtendsPastEnd(t *testing.T) {
	sk := pathRig(t, func(d *PathConstraintData, _ *PathAttachment) { d.Position = 25 })
	assert.InDelta(t, 35, sk.FindBone("b1").WorldY, tolerance)
	assert.InDelta(t, 45, sk.FindBone("b2").WorldY, tolerance)
	assert.InDelta(t, 0, sk.FindBone("b2").WorldX, tolerance)
}

func TestPathConstraintWithoutPathIsNoop(t *testing.T) {
	sk := pathRig(t, nil)
	require.NoError(t, sk.SetAttachment("path", ""))
	sk.UpdateWorldTransform()
	b := sk.FindBone("b1")
	assert.InDelta(t, 0, b.WorldY, tolerance)
	assert.InDelta(t, 0, b.WorldRotationX(), tolerance)
}

func TestPathConstraintPanicsWithoutTarget(t *testing.T) {
	sk := pathRig(t, nil)
	sk.PathConstraints()[0].Target = nil
	assert.Panics(t, sk.UpdateWorldTransform)
}

func TestPathConstraintSpacingFollowsWorldLength(t *testing.T) {
	tests := []struct {
		name      string
		configure func(d *PathConstraintData, path *PathAttachment)
		options   []SkeletonBuilderOption
		want      [3]float32
	}{
		{
			name: "fixed with scaled bones",
			configure: func(d *PathConstraintData, _ *PathAttachment) {
				d.SpacingMode = SpacingFixed
				d.Spacing = 2
				for _, b := range d.Bones {
					b.ScaleX = 2
				}
			},
			want: [3]float32{0, 4, 8},
		},
		{
			name: "fixed with scaled skeleton at constant speed",
			configure: func(d *PathConstraintData, path *PathAttachment) {
				d.SpacingMode = SpacingFixed
				d.Spacing = 3
				path.ConstantSpeed = true
			},
			options: []SkeletonBuilderOption{WithScale(2, 2)},
			want:    [3]float32{0, 6, 12},
		},
		{
			name: "length with scaled skeleton at constant speed",
			configure: func(_ *PathConstraintData, path *PathAttachment) {
				path.ConstantSpeed = true
			},
			options: []SkeletonBuilderOption{WithScale(2, 2)},
			want:    [3]float32{0, 20, 40},
		},
		{
			name: "percent with scaled skeleton at constant speed",
			configure: func(d *PathConstraintData, path *PathAttachment) {
				d.SpacingMode = SpacingPercent
				d.Spacing = 0.25
				path.ConstantSpeed = true
			},
			options: []SkeletonBuilderOption{WithScale(2, 2)},
			want:    [3]float32{0, 15, 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sk := pathRig(t, tt.configure, tt.options...)
			for i, name := range []string{"b0", "b1", "b2"} {
				b := sk.FindBone(name)
				assert.InDelta(t, 0, b.WorldX, tolerance, name)
				assert.InDelta(t, tt.want[i], b.WorldY, tolerance, name)
			}
		})
	}
}

func TestPathConstraintChainModes(t *testing.T) {
	sk := pathRig(t, func(d *PathConstraintData, _ *PathAttachment) { d.RotateMode = RotateChain })
	for i, name := range []string{"b0", "b1", "b2"} {
		b := sk.FindBone(name)
		assert.InDelta(t, float32(i*10), b.WorldY, tolerance, name)
		assert.InDelta(t, 90, b.WorldRotationX(), tolerance, name)
		assert.InDelta(t, 1, b.WorldScaleX(), tolerance, name)
	}

	// Spacing stretches each bone to reach the next one.
	sk = pathRig(t, func(d *PathConstraintData, _ *PathAttachment) {
		d.RotateMode = RotateChainScale
		d.Spacing = 5
	})
	for i, name := range []string{"b0", "b1", "b2"} {
		b := sk.FindBone(name)
		assert.InDelta(t, 0, b.WorldX, tolerance, name)
		assert.InDelta(t, float32(i*15), b.WorldY, tolerance, name)
		assert.InDelta(t, 90, b.WorldRotationX(), tolerance, name)
		assert.InDelta(t, 1.5, b.WorldScaleX(), tolerance, name)
	}
}

func TestPathConstraintConstantSpeedOnUnevenCurve(t *testing.T) {
	// A straight curve whose parameter bunches up near the start: y = 30t³.
	uneven := func(constant bool) func(d *PathConstraintData, path *PathAttachment) {
		return func(_ *PathConstraintData, path *PathAttachment) {
			path.SetVertices([]float32{0, 0, 0, 0, 0, 0, 0, 0, 0, 30, 0, 40})
			path.ConstantSpeed = constant
		}
	}

	sk := pathRig(t, uneven(false))
	assert.InDelta(t, 30.0/27, sk.FindBone("b1").WorldY, tolerance)
	assert.InDelta(t, 240.0/27, sk.FindBone("b2").WorldY, tolerance)

	sk = pathRig(t, uneven(true))
	assert.InDelta(t, 0, sk.FindBone("b0").WorldY, tolerance)
	assert.InDelta(t, 10, sk.FindBone("b1").WorldY, 0.1)
	assert.InDelta(t, 20, sk.FindBone("b2").WorldY, 0.25)
	for _, name := range []string{"b1", "b2"} {
		assert.InDelta(t, 90, sk.FindBone(name).WorldRotationX(), tolerance, name)
	}
}

func TestPathConstraintConstantSpeedOnArc(t *testing.T) {
	// A quarter circle of radius 20 around the origin, from (20, 0) to (0, 20).
	const k = 11.046
	sk := pathRig(t, func(_ *PathConstraintData, path *PathAttachment) {
		path.SetVertices([]float32{20, -k, 20, 0, 20, k, k, 20, 0, 20, -k, 20})
		path.Lengths = []float32{31.416}
		path.ConstantSpeed = true
	})
	for i, name := range []string{"b0", "b1", "b2"} {
		b := sk.FindBone(name)
		angle := float32(i) * 0.5
		assert.InDelta(t, 20, math32.Hypot(b.WorldX, b.WorldY), 0.05, name)
		assert.InDelta(t, angle, math32.Atan2(b.WorldY, b.WorldX), 0.02, name)
		assert.InDelta(t, angle*180/math32.Pi+90, b.WorldRotationX(), 1.5, name)
	}
}
