package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkinSetAndRemove(t *testing.T) {
	skin := NewSkin("s")
	a, b, c := NewPointAttachment("a"), NewPointAttachment("b"), NewPointAttachment("c")
	skin.SetAttachment(0, "a", a)
	skin.SetAttachment(1, "b", b)
	skin.SetAttachment(0, "c", c)

	assert.Same(t, a, skin.Attachment(0, "a"))
	assert.Nil(t, skin.Attachment(1, "a"), "names are scoped by slot")

	replacement := NewPointAttachment("a2")
	skin.SetAttachment(0, "a", replacement)
	require.Len(t, skin.Attachments(), 3)
	assert.Same(t, replacement, skin.Attachments()[0].Attachment, "replacing keeps the entry's position")

	skin.RemoveAttachment(0, "a")
	skin.RemoveAttachment(5, "missing")
	require.Len(t, skin.Attachments(), 2)
	assert.Nil(t, skin.Attachment(0, "a"))
	assert.Same(t, b, skin.Attachment(1, "b"))
	assert.Same(t, c, skin.Attachment(0, "c"))

	slot0 := skin.AttachmentsForSlot(0)
	require.Len(t, slot0, 1)
	assert.Equal(t, "c", slot0[0].Name)
	assert.Empty(t, skin.AttachmentsForSlot(3))

	assert.Panics(t, func() { skin.SetAttachment(0, "nil", nil) })

	skin.Clear()
	assert.Empty(t, skin.Attachments())
	assert.Nil(t, skin.Attachment(1, "b"))
}

func TestSkinLookupUsesKeyName(t *testing.T) {
	skin := NewSkin("s")
	a := NewPointAttachment("actual-name")
	skin.SetAttachment(2, "key", a)
	assert.Same(t, a, skin.Attachment(2, "key"))
	assert.Nil(t, skin.Attachment(2, "actual-name"))
}

func TestSkinAddSkinShares(t *testing.T) {
	bone := NewBoneData(1, "extra", nil)
	ik := NewIkConstraintData("ik")

	other := NewSkin("other")
	shared := NewPointAttachment("p")
	other.SetAttachment(0, "p", shared)
	other.Bones = []*BoneData{bone}
	other.Constraints = []ConstraintDefinition{ik}

	skin := NewSkin("s")
	skin.Bones = []*BoneData{bone}
	skin.AddSkin(other)

	assert.Same(t, shared, skin.Attachment(0, "p"))
	assert.Equal(t, []*BoneData{bone}, skin.Bones, "bones are not duplicated")
	require.Len(t, skin.Constraints, 1)
	assert.True(t, skin.hasConstraint(ik.Base()))
	assert.False(t, skin.hasConstraint(NewIkConstraintData("other").Base()))
}

func TestSkinCopySkin(t *testing.T) {
	ids := NewIDAllocator()
	mesh := NewMeshAttachment("mesh", ids)
	mesh.SetVertices([]float32{0, 0, 1, 1})
	point := NewPointAttachment("p")
	point.X = 3

	other := NewSkin("other")
	other.SetAttachment(0, "mesh", mesh)
	other.SetAttachment(1, "p", point)

	skin := NewSkin("copy")
	skin.CopySkin(other)

	copiedMesh, ok := skin.Attachment(0, "mesh").(*MeshAttachment)
	require.True(t, ok)
	assert.NotSame(t, mesh, copiedMesh)
	assert.Same(t, mesh, copiedMesh.ParentMesh(), "meshes are copied as linked meshes")
	mesh.Vertices()[0] = 5
	assert.Equal(t, float32(5), copiedMesh.Vertices()[0])

	copiedPoint, ok := skin.Attachment(1, "p").(*PointAttachment)
	require.True(t, ok)
	assert.NotSame(t, point, copiedPoint)
	assert.Equal(t, float32(3), copiedPoint.X)
}
