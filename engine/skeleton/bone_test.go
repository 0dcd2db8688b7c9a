package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertMatrix(t *testing.T, b *Bone, a, bb, c, d, x, y float32) {
	t.Helper()
	assert.InDelta(t, a, b.A, tolerance, "A")
	assert.InDelta(t, bb, b.B, tolerance, "B")
	assert.InDelta(t, c, b.C, tolerance, "C")
	assert.InDelta(t, d, b.D, tolerance, "D")
	assert.InDelta(t, x, b.WorldX, tolerance, "WorldX")
	assert.InDelta(t, y, b.WorldY, tolerance, "WorldY")
}

func TestTwoBoneChain(t *testing.T) {
	r := newRig("root")
	r.bone("child", "root").X = 10
	sk := r.build(t)

	sk.UpdateWorldTransform()
	child := sk.FindBone("child")
	assert.InDelta(t, 10, child.WorldX, tolerance)
	assert.InDelta(t, 0, child.WorldY, tolerance)

	sk.RootBone().Rotation = 90
	sk.UpdateWorldTransform()
	assert.InDelta(t, 0, child.WorldX, tolerance)
	assert.InDelta(t, 10, child.WorldY, tolerance)
}

func TestInheritModes(t *testing.T) {
	tests := []struct {
		name    string
		inherit Inherit
		root    func(b *BoneData)
		child   func(b *BoneData)
		// expected child world matrix
		a, b, c, d, x, y float32
	}{
		{
			name:    "normal composes rotation and scale",
			inherit: InheritNormal,
			root:    func(b *BoneData) { b.Rotation = 90; b.ScaleX = 2; b.ScaleY = 2 },
			child:   func(b *BoneData) { b.X = 10 },
			a:       0, b: -2, c: 2, d: 0, x: 0, y: 20,
		},
		{
			name:    "only translation keeps own orientation",
			inherit: InheritOnlyTranslation,
			root:    func(b *BoneData) { b.Rotation = 90; b.ScaleX = 2; b.ScaleY = 2 },
			child:   func(b *BoneData) { b.X = 10 },
			a:       1, b: 0, c: 0, d: 1, x: 0, y: 20,
		},
		{
			name:    "no scale keeps parent rotation only",
			inherit: InheritNoScale,
			root:    func(b *BoneData) { b.ScaleX = 2; b.ScaleY = 2 },
			child:   func(b *BoneData) { b.X = 5; b.Rotation = 30 },
			a:       0.866025, b: -0.5, c: 0.5, d: 0.866025, x: 10, y: 0,
		},
		{
			name:    "no scale keeps parent reflection",
			inherit: InheritNoScale,
			root:    func(b *BoneData) { b.ScaleX = -2; b.ScaleY = 2 },
			child:   func(b *BoneData) { b.X = 5; b.Rotation = 30 },
			a:       -0.866025, b: 0.5, c: 0.5, d: 0.866025, x: -10, y: 0,
		},
		{
			name:    "no scale or reflection drops parent reflection",
			inherit: InheritNoScaleOrReflection,
			root:    func(b *BoneData) { b.ScaleX = -2; b.ScaleY = 2 },
			child:   func(b *BoneData) { b.X = 5; b.Rotation = 30 },
			a:       -0.866025, b: -0.5, c: 0.5, d: -0.866025, x: -10, y: 0,
		},
		{
			name:    "no rotation or reflection drops parent rotation",
			inherit: InheritNoRotationOrReflection,
			root:    func(b *BoneData) { b.Rotation = 90 },
			child:   func(b *BoneData) { b.X = 10 },
			a:       1, b: 0, c: 0, d: 1, x: 0, y: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig("root")
			tt.root(r.data.Bones[0])
			child := r.bone("child", "root")
			child.Inherit = tt.inherit
			tt.child(child)
			sk := r.build(t)

			sk.UpdateWorldTransform()
			assertMatrix(t, sk.FindBone("child"), tt.a, tt.b, tt.c, tt.d, tt.x, tt.y)
		})
	}
}

func TestSkeletonTransformAppliesToRoot(t *testing.T) {
	r := newRig("root")
	r.data.Bones[0].X = 5
	r.bone("child", "root").X = 10
	sk := r.build(t, WithPosition(100, 50), WithScale(-1, 2))

	sk.UpdateWorldTransform()
	assertMatrix(t, sk.RootBone(), -1, 0, 0, 2, 95, 50)
	child := sk.FindBone("child")
	assert.InDelta(t, 85, child.WorldX, tolerance)
	assert.InDelta(t, 50, child.WorldY, tolerance)
}

func TestOnlyTranslationHonorsSkeletonFlip(t *testing.T) {
	r := newRig("root")
	r.data.Bones[0].Rotation = 45
	r.bone("child", "root").Inherit = InheritOnlyTranslation
	sk := r.build(t, WithScale(-1, 1))

	sk.UpdateWorldTransform()
	assertMatrix(t, sk.FindBone("child"), -1, 0, 0, 1, 0, 0)
}

func TestUpdateAppliedTransformRecoversLocalPose(t *testing.T) {
	r := newRig("root")
	r.data.Bones[0].Rotation = 20
	child := r.bone("child", "root")
	child.X, child.Y = 4, -3
	child.Rotation = 30
	child.ScaleX, child.ScaleY = 2, 0.5
	sk := r.build(t)
	sk.UpdateWorldTransform()

	b := sk.FindBone("child")
	b.UpdateAppliedTransform()
	assert.InDelta(t, 4, b.AX, tolerance)
	assert.InDelta(t, -3, b.AY, tolerance)
	assert.InDelta(t, 30, b.ARotation, tolerance)
	assert.InDelta(t, 2, b.AScaleX, tolerance)
	assert.InDelta(t, 0.5, b.AScaleY, tolerance)
	assert.InDelta(t, 0, b.AShearY, tolerance)
}

func TestWorldLocalRoundTrip(t *testing.T) {
	r := newRig("root")
	root := r.data.Bones[0]
	root.X, root.Y = 3, 7
	root.Rotation = 33
	root.ScaleX = 1.5
	sk := r.build(t)
	sk.UpdateWorldTransform()

	b := sk.RootBone()
	wx, wy := b.LocalToWorld(2, -5)
	lx, ly := b.WorldToLocal(wx, wy)
	assert.InDelta(t, 2, lx, tolerance)
	assert.InDelta(t, -5, ly, tolerance)

	assert.InDelta(t, 33, b.WorldRotationX(), tolerance)
	assert.InDelta(t, 1.5, b.WorldScaleX(), tolerance)
	assert.InDelta(t, 50, b.LocalToWorldRotation(b.WorldToLocalRotation(50)), tolerance)
}

func TestRotateWorld(t *testing.T) {
	r := newRig("root")
	sk := r.build(t)
	sk.UpdateWorldTransform()

	root := sk.RootBone()
	root.RotateWorld(90)
	assertMatrix(t, root, 0, -1, 1, 0, 0, 0)
}

func TestNewBonePanicsOnNilData(t *testing.T) {
	assert.Panics(t, func() { NewBone(nil, nil) })
}

func TestParseInherit(t *testing.T) {
	for i := InheritNormal; i <= InheritNoScaleOrReflection; i++ {
		got, ok := ParseInherit(i.String())
		assert.True(t, ok)
		assert.Equal(t, i, got)
	}
	_, ok := ParseInherit("sideways")
	assert.False(t, ok)
}
