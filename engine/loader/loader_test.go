package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-4

const heroRig = `
skeleton:
  name: hero
  hash: abc123
  version: "4.2"
  width: 100
  height: 200
  images: ./images/
bones:
  - name: root
  - name: hip
    parent: root
    y: 50
  - name: arm
    parent: hip
    length: 20
    rotation: 90
    inherit: noScale
  - name: hand
    parent: arm
    x: 20
    scaleX: 2
  - name: aim
    parent: root
    x: 30
  - name: hat
    parent: hip
    skin: true
slots:
  - name: body
    bone: hip
    attachment: body
  - name: cape
    bone: hip
    color: ff000080
    dark: 00ff00
    blend: additive
    attachment: cape
  - name: rail
    bone: root
  - name: hitbox
    bone: root
    attachment: hitbox
ik:
  - name: reach
    bones: [arm]
    target: aim
    mix: 0.5
    bendPositive: false
transform:
  - name: follow
    order: 2
    bones: [hand]
    target: aim
    rotation: 10
    translateMix: 0
path:
  - name: along
    order: 3
    bones: [hand]
    target: rail
    positionMode: fixed
    spacingMode: percent
    rotateMode: chainScale
skins:
  - name: default
    attachments:
      body:
        body:
          width: 10
          height: 20
      cape:
        cape:
          type: mesh
          uvs: [0, 0, 1, 0, 1, 1]
          vertices: [1, 1, 0, 0, 1, 2, 1, 2, 3, 0.5, 2, 4, 5, 0.5, 1, 3, 6, 7, 1]
          triangles: [0, 1, 2]
          hull: 3
      rail:
        rail:
          type: path
          vertexCount: 6
          vertices: [0, 0, 10, 0, 20, 0, 30, 0, 40, 0, 50, 0]
          lengths: [25, 50]
      hitbox:
        hitbox:
          type: boundingbox
          vertexCount: 3
          vertices: [0, 0, 10, 0, 0, 10]
  - name: fancy
    bones: [hat]
    ik: [reach]
    attachments:
      cape:
        cape:
          name: fancy-cape
          type: linkedmesh
          parent: cape
          deform: false
        plain:
          type: linkedmesh
          parent: cape
events:
  - name: step
    int: 3
    audio: step.ogg
animations:
  - name: walk
    duration: 1.5
`

func loadHero(t *testing.T) *skeleton.SkeletonData {
	t.Helper()
	data, err := Load(strings.NewReader(heroRig))
	require.NoError(t, err)
	return data
}

func TestLoadHeader(t *testing.T) {
	data := loadHero(t)
	assert.Equal(t, "hero", data.Name)
	assert.Equal(t, "abc123", data.Hash)
	assert.Equal(t, "4.2", data.Version)
	assert.Equal(t, float32(100), data.Width)
	assert.Equal(t, float32(200), data.Height)
	assert.Equal(t, "./images/", data.ImagesPath)
}

func TestLoadBonesAndSlots(t *testing.T) {
	data := loadHero(t)
	require.Len(t, data.Bones, 6)
	for i, b := range data.Bones {
		assert.Equal(t, i, b.Index)
	}

	arm := data.FindBone("arm")
	require.NotNil(t, arm)
	assert.Same(t, data.FindBone("hip"), arm.Parent)
	assert.Equal(t, float32(20), arm.Length)
	assert.Equal(t, float32(90), arm.Rotation)
	assert.Equal(t, skeleton.InheritNoScale, arm.Inherit)
	assert.Equal(t, float32(1), arm.ScaleX)

	hand := data.FindBone("hand")
	assert.Equal(t, float32(2), hand.ScaleX)
	assert.Equal(t, float32(1), hand.ScaleY)
	assert.True(t, data.FindBone("hat").SkinRequired)

	cape := data.FindSlot("cape")
	require.NotNil(t, cape)
	assert.Equal(t, 1, cape.Index)
	assert.Same(t, data.FindBone("hip"), cape.BoneData)
	assert.InDelta(t, 1, cape.Color.R, tolerance)
	assert.InDelta(t, 0, cape.Color.G, tolerance)
	assert.InDelta(t, 128.0/255, cape.Color.A, tolerance)
	require.NotNil(t, cape.DarkColor)
	assert.InDelta(t, 1, cape.DarkColor.G, tolerance)
	assert.Equal(t, skeleton.BlendAdditive, cape.BlendMode)
	assert.Equal(t, "cape", cape.AttachmentName)

	assert.Nil(t, data.FindSlot("body").DarkColor)
	assert.Equal(t, skeleton.BlendNormal, data.FindSlot("body").BlendMode)
}

func TestLoadConstraints(t *testing.T) {
	data := loadHero(t)

	ik := data.FindIkConstraint("reach")
	require.NotNil(t, ik)
	assert.Equal(t, []*skeleton.BoneData{data.FindBone("arm")}, ik.Bones)
	assert.Same(t, data.FindBone("aim"), ik.Target)
	assert.Equal(t, float32(0.5), ik.Mix)
	assert.Equal(t, -1, ik.BendDirection)

	tc := data.FindTransformConstraint("follow")
	require.NotNil(t, tc)
	assert.Equal(t, 2, tc.Order)
	assert.Equal(t, float32(10), tc.OffsetRotation)
	assert.Equal(t, float32(0), tc.TranslateMix)
	assert.Equal(t, float32(1), tc.RotateMix, "unset mixes default to 1")

	pc := data.FindPathConstraint("along")
	require.NotNil(t, pc)
	assert.Same(t, data.FindSlot("rail"), pc.Target)
	assert.Equal(t, skeleton.PositionFixed, pc.PositionMode)
	assert.Equal(t, skeleton.SpacingPercent, pc.SpacingMode)
	assert.Equal(t, skeleton.RotateChainScale, pc.RotateMode)
	assert.Equal(t, float32(1), pc.TranslateMix)
}

func TestLoadAttachments(t *testing.T) {
	data := loadHero(t)
	require.NotNil(t, data.DefaultSkin)
	assert.Equal(t, "default", data.DefaultSkin.Name())

	body, ok := data.DefaultSkin.Attachment(0, "body").(*skeleton.RegionAttachment)
	require.True(t, ok)
	assert.Equal(t, "body", body.Path)
	assert.InDeltaSlice(t, []float32{5, -10, -5, -10, -5, 10, 5, 10}, body.Offsets(), tolerance)
	assert.Equal(t, []float32{1, 1, 0, 1, 0, 0, 1, 0}, body.UVs())

	mesh, ok := data.DefaultSkin.Attachment(1, "cape").(*skeleton.MeshAttachment)
	require.True(t, ok)
	assert.Equal(t, []int{1, 1, 2, 1, 2, 1, 3}, mesh.Bones())
	assert.Equal(t, []float32{0, 0, 1, 2, 3, 0.5, 4, 5, 0.5, 6, 7, 1}, mesh.Vertices())
	assert.Equal(t, 6, mesh.WorldVerticesLength())
	assert.Equal(t, 6, mesh.HullLength())
	assert.Equal(t, []uint16{0, 1, 2}, mesh.Triangles())
	assert.InDeltaSlice(t, []float32{0, 0, 1, 0, 1, 1}, mesh.UVs(), tolerance)

	rail, ok := data.DefaultSkin.Attachment(2, "rail").(*skeleton.PathAttachment)
	require.True(t, ok)
	assert.True(t, rail.ConstantSpeed)
	assert.False(t, rail.Closed)
	assert.Nil(t, rail.Bones())
	assert.Equal(t, 12, rail.WorldVerticesLength())
	assert.Equal(t, []float32{25, 50}, rail.Lengths)

	box, ok := data.DefaultSkin.Attachment(3, "hitbox").(*skeleton.BoundingBoxAttachment)
	require.True(t, ok)
	assert.Equal(t, []float32{0, 0, 10, 0, 0, 10}, box.Vertices())

	ids := map[int]bool{}
	for _, va := range []skeleton.VertexAttachment{mesh, rail, box} {
		ids[va.ID()] = true
	}
	assert.Len(t, ids, 3, "vertex attachments of one document get distinct IDs")
}

func TestLoadLinkedMeshes(t *testing.T) {
	data := loadHero(t)
	fancy := data.FindSkin("fancy")
	require.NotNil(t, fancy)
	assert.Equal(t, []*skeleton.BoneData{data.FindBone("hat")}, fancy.Bones)
	require.Len(t, fancy.Constraints, 1)
	assert.Same(t, data.FindIkConstraint("reach"), fancy.Constraints[0])

	parent := data.DefaultSkin.Attachment(1, "cape").(*skeleton.MeshAttachment)

	linked, ok := fancy.Attachment(1, "cape").(*skeleton.MeshAttachment)
	require.True(t, ok)
	assert.Equal(t, "fancy-cape", linked.Name())
	assert.Same(t, parent, linked.ParentMesh())
	assert.Equal(t, parent.Vertices(), linked.Vertices())
	assert.Same(t, linked, linked.DeformAttachment(), "deform: false keeps its own deform source")
	assert.InDeltaSlice(t, parent.UVs(), linked.UVs(), tolerance)

	plain, ok := fancy.Attachment(1, "plain").(*skeleton.MeshAttachment)
	require.True(t, ok)
	assert.Equal(t, "plain", plain.Name())
	assert.Same(t, parent, plain.DeformAttachment())
}

func TestLoadEventsAndAnimations(t *testing.T) {
	data := loadHero(t)
	step := data.FindEvent("step")
	require.NotNil(t, step)
	assert.Equal(t, 3, step.Int)
	assert.Equal(t, "step.ogg", step.AudioPath)
	assert.Equal(t, float32(1), step.Volume)
	walk := data.FindAnimation("walk")
	require.NotNil(t, walk)
	assert.Equal(t, float32(1.5), walk.Duration)
}

func TestLoadedDataPoses(t *testing.T) {
	data := loadHero(t)
	sk, err := skeleton.NewSkeleton(data, skeleton.WithSkin("fancy"))
	require.NoError(t, err)
	sk.UpdateWorldTransform()

	assert.InDelta(t, 50, sk.FindBone("hip").WorldY, tolerance)
	assert.True(t, sk.FindBone("hat").IsActive())
	assert.Same(t, data.FindSkin("fancy").Attachment(1, "cape"), sk.FindSlot("cape").Attachment())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		msg     string
	}{
		{
			name:    "empty",
			doc:     "",
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "no bones",
			doc:     "skeleton:\n  name: x\n",
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "bad inherit",
			doc:     "bones:\n  - name: root\n    inherit: sideways\n",
			wantErr: ErrInvalidDocument,
			msg:     "Inherit",
		},
		{
			name: "unknown field",
			doc:  "bones:\n  - name: root\n    lenght: 3\n",
			msg:  "lenght",
		},
		{
			name:    "parent listed after child",
			doc:     "bones:\n  - name: root\n  - name: a\n    parent: b\n  - name: b\n    parent: root\n",
			wantErr: ErrUnknownReference,
		},
		{
			name:    "second root",
			doc:     "bones:\n  - name: root\n  - name: other\n",
			wantErr: skeleton.ErrRootNotFirst,
		},
		{
			name:    "slot on unknown bone",
			doc:     "bones:\n  - name: root\nslots:\n  - name: s\n    bone: nope\n",
			wantErr: ErrUnknownReference,
		},
		{
			name: "weighted bone out of range",
			doc: `bones:
  - name: root
slots:
  - name: s
    bone: root
skins:
  - name: default
    attachments:
      s:
        m:
          type: mesh
          uvs: [0, 0]
          vertices: [1, 9, 0, 0, 1]
`,
			wantErr: ErrInvalidVertices,
		},
		{
			name: "truncated weights",
			doc: `bones:
  - name: root
slots:
  - name: s
    bone: root
skins:
  - name: default
    attachments:
      s:
        m:
          type: mesh
          uvs: [0, 0, 1, 1]
          vertices: [1, 0, 0, 0, 1, 2, 0, 1]
`,
			wantErr: ErrInvalidVertices,
		},
		{
			name: "linked mesh without parent mesh",
			doc: `bones:
  - name: root
slots:
  - name: s
    bone: root
skins:
  - name: default
    attachments:
      s:
        m:
          type: linkedmesh
          parent: ghost
`,
			wantErr: ErrUnknownReference,
		},
		{
			name: "attachment for unknown slot",
			doc: `bones:
  - name: root
skins:
  - name: default
    attachments:
      ghost:
        m:
          width: 1
`,
			wantErr: ErrUnknownReference,
		},
		{
			name: "path lengths mismatch",
			doc: `bones:
  - name: root
slots:
  - name: s
    bone: root
skins:
  - name: default
    attachments:
      s:
        p:
          type: path
          vertexCount: 3
          vertices: [0, 0, 1, 0, 2, 0]
`,
			wantErr: ErrInvalidVertices,
		},
		{
			name:    "bad color",
			doc:     "bones:\n  - name: root\nslots:\n  - name: s\n    bone: root\n    color: zz0000ff\n",
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("ff800000")
	require.NoError(t, err)
	assert.InDelta(t, 1, c.R, tolerance)
	assert.InDelta(t, 128.0/255, c.G, tolerance)
	assert.InDelta(t, 0, c.A, tolerance)

	c, err = parseColor("0000ff")
	require.NoError(t, err)
	assert.InDelta(t, 1, c.B, tolerance)
	assert.InDelta(t, 1, c.A, tolerance)

	_, err = parseColor("fff")
	assert.ErrorIs(t, err, ErrInvalidColor)
	_, err = parseColor("gg0000")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestLoaderSizeLimit(t *testing.T) {
	l := NewLoader(BackendTypeYAML, WithMaxDocumentSize(16))
	_, err := l.LoadReader("hero", strings.NewReader(heroRig))
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
	assert.Nil(t, l.Get("hero"))
}

func TestLoaderCache(t *testing.T) {
	l := NewLoader(BackendTypeYAML)
	first, err := l.LoadReader("hero", strings.NewReader(heroRig))
	require.NoError(t, err)

	again, err := l.LoadReader("hero", strings.NewReader("not: [valid"))
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Same(t, first, l.Get("hero"))
	assert.Nil(t, l.Get("villain"))
	assert.Len(t, l.Rigs(), 1)

	rigs := l.Rigs()
	delete(rigs, "hero")
	assert.NotNil(t, l.Get("hero"), "Rigs returns a copy")
}

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.yaml")
	require.NoError(t, os.WriteFile(path, []byte(heroRig), 0o644))

	l := NewLoader(BackendTypeYAML)
	data, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hero", data.Name)

	cached, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Same(t, data, cached)

	_, err = l.LoadFile(filepath.Join(dir, "hero.json"))
	assert.ErrorContains(t, err, "unsupported rig file extension")

	_, err = l.LoadFile(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	direct, err := LoadFile(path)
	require.NoError(t, err)
	assert.NotSame(t, data, direct)
}

func TestLoaderWithRig(t *testing.T) {
	data := loadHero(t)
	l := NewLoader(BackendTypeYAML, WithRig("preset", data))
	assert.Same(t, data, l.Get("preset"))
}

func TestNewLoaderPanicsOnUnknownBackend(t *testing.T) {
	assert.Panics(t, func() { NewLoader(LoaderBackendType(99)) })
}
