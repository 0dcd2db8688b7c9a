package loader

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
)

var (
	// ErrUnknownReference is returned when a document names a bone, slot, skin, constraint or parent mesh it
	// does not define.
	ErrUnknownReference = errors.New("loader: unknown reference")
	// ErrInvalidVertices is returned for vertex data that does not match its vertex count or bone table.
	ErrInvalidVertices = errors.New("loader: invalid vertex data")
	// ErrInvalidColor is returned for colors that are not hex RRGGBB or RRGGBBAA.
	ErrInvalidColor = errors.New("loader: invalid color")
)

// pendingLinkedMesh is a linked mesh whose parent is resolved once every skin is read.
type pendingLinkedMesh struct {
	mesh      *skeleton.MeshAttachment
	doc       attachmentDoc
	slotIndex int
	skinName  string
}

// yamlImporter converts one decoded document into skeleton data. Every vertex attachment of the
// document draws its ID from the same allocator.
type yamlImporter struct {
	doc    *rigDocument
	data   *skeleton.SkeletonData
	ids    *skeleton.IDAllocator
	linked []pendingLinkedMesh
}

func newYAMLImporter(doc *rigDocument) *yamlImporter {
	return &yamlImporter{
		doc:  doc,
		data: &skeleton.SkeletonData{},
		ids:  skeleton.NewIDAllocator(),
	}
}

// Import builds and validates the skeleton data.
//
// Returns:
//   - *skeleton.SkeletonData: the rig
//   - error: error if a reference cannot be resolved or the result fails validation
func (im *yamlImporter) Import() (*skeleton.SkeletonData, error) {
	im.importHeader()
	steps := []func() error{
		im.importBones,
		im.importSlots,
		im.importIk,
		im.importTransform,
		im.importPath,
		im.importSkins,
		im.resolveLinkedMeshes,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	im.importEvents()

	if err := im.data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rig %q: %w", im.data.Name, err)
	}
	return im.data, nil
}

func (im *yamlImporter) importHeader() {
	h := im.doc.Skeleton
	d := im.data
	d.Name = h.Name
	d.Hash = h.Hash
	d.Version = h.Version
	d.X, d.Y, d.Width, d.Height = h.X, h.Y, h.Width, h.Height
	d.FPS = h.FPS
	d.ImagesPath = h.Images
	d.AudioPath = h.Audio
}

func (im *yamlImporter) importBones() error {
	for i, b := range im.doc.Bones {
		var parent *skeleton.BoneData
		if b.Parent != "" {
			if parent = im.data.FindBone(b.Parent); parent == nil {
				return fmt.Errorf("bone %q: parent %q: %w", b.Name, b.Parent, ErrUnknownReference)
			}
		}
		bone := skeleton.NewBoneData(i, b.Name, parent)
		bone.Length = b.Length
		bone.X, bone.Y, bone.Rotation = b.X, b.Y, b.Rotation
		bone.ScaleX = floatOr(b.ScaleX, 1)
		bone.ScaleY = floatOr(b.ScaleY, 1)
		bone.ShearX, bone.ShearY = b.ShearX, b.ShearY
		if b.Inherit != "" {
			bone.Inherit, _ = skeleton.ParseInherit(b.Inherit)
		}
		bone.SkinRequired = b.SkinRequired
		if b.Color != "" {
			c, err := parseColor(b.Color)
			if err != nil {
				return fmt.Errorf("bone %q: %w", b.Name, err)
			}
			bone.Color = c
		}
		im.data.Bones = append(im.data.Bones, bone)
	}
	return nil
}

func (im *yamlImporter) importSlots() error {
	for i, s := range im.doc.Slots {
		bone := im.data.FindBone(s.Bone)
		if bone == nil {
			return fmt.Errorf("slot %q: bone %q: %w", s.Name, s.Bone, ErrUnknownReference)
		}
		slot := skeleton.NewSlotData(i, s.Name, bone)
		if s.Color != "" {
			c, err := parseColor(s.Color)
			if err != nil {
				return fmt.Errorf("slot %q: %w", s.Name, err)
			}
			slot.Color = c
		}
		if s.Dark != "" {
			c, err := parseColor(s.Dark)
			if err != nil {
				return fmt.Errorf("slot %q: dark: %w", s.Name, err)
			}
			c.A = 1
			slot.DarkColor = &c
		}
		slot.AttachmentName = s.Attachment
		slot.BlendMode = parseBlendMode(s.Blend)
		im.data.Slots = append(im.data.Slots, slot)
	}
	return nil
}

func (im *yamlImporter) importIk() error {
	for _, c := range im.doc.IK {
		ik := skeleton.NewIkConstraintData(c.Name)
		im.applyConstraintDoc(&ik.ConstraintData, c.constraintDoc)
		bones, err := im.findBones("ik "+c.Name, c.Bones)
		if err != nil {
			return err
		}
		ik.Bones = bones
		if ik.Target = im.data.FindBone(c.Target); ik.Target == nil {
			return fmt.Errorf("ik %q: target %q: %w", c.Name, c.Target, ErrUnknownReference)
		}
		ik.Mix = floatOr(c.Mix, 1)
		ik.Softness = c.Softness
		if c.BendPositive != nil && !*c.BendPositive {
			ik.BendDirection = -1
		}
		ik.Compress, ik.Stretch, ik.Uniform = c.Compress, c.Stretch, c.Uniform
		im.data.IkConstraints = append(im.data.IkConstraints, ik)
	}
	return nil
}

func (im *yamlImporter) importTransform() error {
	for _, c := range im.doc.Transform {
		tc := skeleton.NewTransformConstraintData(c.Name)
		im.applyConstraintDoc(&tc.ConstraintData, c.constraintDoc)
		bones, err := im.findBones("transform "+c.Name, c.Bones)
		if err != nil {
			return err
		}
		tc.Bones = bones
		if tc.Target = im.data.FindBone(c.Target); tc.Target == nil {
			return fmt.Errorf("transform %q: target %q: %w", c.Name, c.Target, ErrUnknownReference)
		}
		tc.RotateMix = floatOr(c.RotateMix, 1)
		tc.TranslateMix = floatOr(c.TranslateMix, 1)
		tc.ScaleMix = floatOr(c.ScaleMix, 1)
		tc.ShearMix = floatOr(c.ShearMix, 1)
		tc.OffsetRotation, tc.OffsetX, tc.OffsetY = c.OffsetRotation, c.OffsetX, c.OffsetY
		tc.OffsetScaleX, tc.OffsetScaleY, tc.OffsetShearY = c.OffsetScaleX, c.OffsetScaleY, c.OffsetShearY
		tc.Relative, tc.Local = c.Relative, c.Local
		im.data.TransformConstraints = append(im.data.TransformConstraints, tc)
	}
	return nil
}

func (im *yamlImporter) importPath() error {
	for _, c := range im.doc.Path {
		pc := skeleton.NewPathConstraintData(c.Name)
		im.applyConstraintDoc(&pc.ConstraintData, c.constraintDoc)
		bones, err := im.findBones("path "+c.Name, c.Bones)
		if err != nil {
			return err
		}
		pc.Bones = bones
		if pc.Target = im.data.FindSlot(c.Target); pc.Target == nil {
			return fmt.Errorf("path %q: target %q: %w", c.Name, c.Target, ErrUnknownReference)
		}
		pc.PositionMode = parsePositionMode(c.PositionMode)
		pc.SpacingMode = parseSpacingMode(c.SpacingMode)
		pc.RotateMode = parseRotateMode(c.RotateMode)
		pc.OffsetRotation, pc.Position, pc.Spacing = c.OffsetRotation, c.Position, c.Spacing
		pc.RotateMix = floatOr(c.RotateMix, 1)
		pc.TranslateMix = floatOr(c.TranslateMix, 1)
		im.data.PathConstraints = append(im.data.PathConstraints, pc)
	}
	return nil
}

func (im *yamlImporter) applyConstraintDoc(dst *skeleton.ConstraintData, c constraintDoc) {
	dst.Order = c.Order
	dst.SkinRequired = c.SkinRequired
}

func (im *yamlImporter) findBones(owner string, names []string) ([]*skeleton.BoneData, error) {
	bones := make([]*skeleton.BoneData, 0, len(names))
	for _, name := range names {
		b := im.data.FindBone(name)
		if b == nil {
			return nil, fmt.Errorf("%s: bone %q: %w", owner, name, ErrUnknownReference)
		}
		bones = append(bones, b)
	}
	return bones, nil
}

func (im *yamlImporter) importSkins() error {
	for _, sd := range im.doc.Skins {
		skin := skeleton.NewSkin(sd.Name)
		if err := im.importSkinRequired(skin, sd); err != nil {
			return err
		}
		// Slot order then key order, so attachment IDs never depend on map iteration.
		for _, slot := range im.data.Slots {
			entries, ok := sd.Attachments[slot.Name]
			if !ok {
				continue
			}
			for _, key := range slices.Sorted(maps.Keys(entries)) {
				a, err := im.importAttachment(skin.Name(), slot.Index, key, entries[key])
				if err != nil {
					return fmt.Errorf("skin %q: slot %q: attachment %q: %w", sd.Name, slot.Name, key, err)
				}
				skin.SetAttachment(slot.Index, key, a)
			}
		}
		for slotName := range sd.Attachments {
			if im.data.FindSlot(slotName) == nil {
				return fmt.Errorf("skin %q: slot %q: %w", sd.Name, slotName, ErrUnknownReference)
			}
		}
		im.data.Skins = append(im.data.Skins, skin)
		if skin.Name() == "default" {
			im.data.DefaultSkin = skin
		}
	}
	return nil
}

func (im *yamlImporter) importSkinRequired(skin *skeleton.Skin, sd skinDoc) error {
	bones, err := im.findBones("skin "+sd.Name, sd.Bones)
	if err != nil {
		return err
	}
	skin.Bones = bones
	for _, name := range sd.IK {
		c := im.data.FindIkConstraint(name)
		if c == nil {
			return fmt.Errorf("skin %q: ik %q: %w", sd.Name, name, ErrUnknownReference)
		}
		skin.Constraints = append(skin.Constraints, c)
	}
	for _, name := range sd.Transform {
		c := im.data.FindTransformConstraint(name)
		if c == nil {
			return fmt.Errorf("skin %q: transform %q: %w", sd.Name, name, ErrUnknownReference)
		}
		skin.Constraints = append(skin.Constraints, c)
	}
	for _, name := range sd.Path {
		c := im.data.FindPathConstraint(name)
		if c == nil {
			return fmt.Errorf("skin %q: path %q: %w", sd.Name, name, ErrUnknownReference)
		}
		skin.Constraints = append(skin.Constraints, c)
	}
	return nil
}

func (im *yamlImporter) importAttachment(skinName string, slotIndex int, key string, a attachmentDoc) (skeleton.Attachment, error) {
	name := common.Coalesce(a.Name, key)
	color := common.White
	if a.Color != "" {
		c, err := parseColor(a.Color)
		if err != nil {
			return nil, err
		}
		color = c
	}

	switch a.Type {
	case "", "region":
		r := skeleton.NewRegionAttachment(name)
		r.Path = common.Coalesce(a.Path, name)
		r.X, r.Y, r.Rotation = a.X, a.Y, a.Rotation
		r.ScaleX, r.ScaleY = floatOr(a.ScaleX, 1), floatOr(a.ScaleY, 1)
		r.Width, r.Height = a.Width, a.Height
		r.Color = color
		r.SetRegion(textureRegion(a.Region))
		r.UpdateOffset()
		return r, nil

	case "mesh":
		m := skeleton.NewMeshAttachment(name, im.ids)
		m.Path = common.Coalesce(a.Path, name)
		m.Color = color
		if len(a.UVs)%2 != 0 {
			return nil, fmt.Errorf("odd uv count %d: %w", len(a.UVs), ErrInvalidVertices)
		}
		if err := im.readVertices(m, a.Vertices, len(a.UVs)/2); err != nil {
			return nil, err
		}
		if len(a.Triangles)%3 != 0 {
			return nil, fmt.Errorf("triangle index count %d: %w", len(a.Triangles), ErrInvalidVertices)
		}
		for _, i := range a.Triangles {
			if int(i) >= len(a.UVs)/2 {
				return nil, fmt.Errorf("triangle index %d out of range: %w", i, ErrInvalidVertices)
			}
		}
		m.SetRegionUVs(a.UVs)
		m.SetTriangles(a.Triangles)
		m.SetHullLength(a.Hull * 2)
		m.SetEdges(a.Edges)
		m.SetSize(a.Width, a.Height)
		m.SetRegion(textureRegion(a.Region))
		m.UpdateUVs()
		return m, nil

	case "linkedmesh":
		m := skeleton.NewMeshAttachment(name, im.ids)
		m.Path = common.Coalesce(a.Path, name)
		m.Color = color
		m.SetRegion(textureRegion(a.Region))
		im.linked = append(im.linked, pendingLinkedMesh{mesh: m, doc: a, slotIndex: slotIndex, skinName: skinName})
		return m, nil

	case "boundingbox":
		b := skeleton.NewBoundingBoxAttachment(name, im.ids)
		if a.Color != "" {
			b.Color = color
		}
		if err := im.readVertices(b, a.Vertices, a.VertexCount); err != nil {
			return nil, err
		}
		return b, nil

	case "path":
		p := skeleton.NewPathAttachment(name, im.ids)
		if a.Color != "" {
			p.Color = color
		}
		p.Closed = a.Closed
		p.ConstantSpeed = a.ConstantSpeed == nil || *a.ConstantSpeed
		if err := im.readVertices(p, a.Vertices, a.VertexCount); err != nil {
			return nil, err
		}
		if want := a.VertexCount / 3; len(a.Lengths) != want {
			return nil, fmt.Errorf("path has %d lengths, want %d: %w", len(a.Lengths), want, ErrInvalidVertices)
		}
		p.Lengths = a.Lengths
		return p, nil

	case "point":
		pt := skeleton.NewPointAttachment(name)
		pt.X, pt.Y, pt.Rotation = a.X, a.Y, a.Rotation
		if a.Color != "" {
			pt.Color = color
		}
		return pt, nil

	case "clipping":
		c := skeleton.NewClippingAttachment(name, im.ids)
		if a.Color != "" {
			c.Color = color
		}
		if a.End != "" {
			if c.EndSlot = im.data.FindSlot(a.End); c.EndSlot == nil {
				return nil, fmt.Errorf("end slot %q: %w", a.End, ErrUnknownReference)
			}
		}
		if err := im.readVertices(c, a.Vertices, a.VertexCount); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown attachment type %q", a.Type)
}

// vertexSetter is the geometry surface shared by the vertex attachment types.
type vertexSetter interface {
	SetBones(bones []int)
	SetVertices(vertices []float32)
	SetWorldVerticesLength(n int)
}

// readVertices decodes either x,y pairs or weighted groups into dst. The data is weighted when it is not
// exactly two floats per vertex.
func (im *yamlImporter) readVertices(dst vertexSetter, vertices []float32, vertexCount int) error {
	dst.SetWorldVerticesLength(vertexCount * 2)
	if len(vertices) == vertexCount*2 {
		dst.SetVertices(vertices)
		return nil
	}

	boneCount := len(im.data.Bones)
	bones := make([]int, 0, len(vertices)/4+vertexCount)
	weights := make([]float32, 0, len(vertices)/4*3)
	i := 0
	for v := range vertexCount {
		if i >= len(vertices) {
			return fmt.Errorf("weighted data ends before vertex %d of %d: %w", v, vertexCount, ErrInvalidVertices)
		}
		n := int(vertices[i])
		i++
		if n <= 0 || i+n*4 > len(vertices) {
			return fmt.Errorf("weighted vertex with %d bones: %w", n, ErrInvalidVertices)
		}
		bones = append(bones, n)
		for end := i + n*4; i < end; i += 4 {
			bone := int(vertices[i])
			if bone < 0 || bone >= boneCount {
				return fmt.Errorf("bone index %d out of range: %w", bone, ErrInvalidVertices)
			}
			bones = append(bones, bone)
			weights = append(weights, vertices[i+1], vertices[i+2], vertices[i+3])
		}
	}
	if i != len(vertices) {
		return fmt.Errorf("%d trailing floats after %d vertices: %w", len(vertices)-i, vertexCount, ErrInvalidVertices)
	}
	dst.SetBones(bones)
	dst.SetVertices(weights)
	return nil
}

func (im *yamlImporter) resolveLinkedMeshes() error {
	for _, p := range im.linked {
		skinName := common.Coalesce(p.doc.Skin, "default")
		skin := im.data.FindSkin(skinName)
		if skin == nil {
			return fmt.Errorf("linked mesh %q: skin %q: %w", p.mesh.Name(), skinName, ErrUnknownReference)
		}
		parent, ok := skin.Attachment(p.slotIndex, p.doc.Parent).(*skeleton.MeshAttachment)
		if !ok {
			return fmt.Errorf("linked mesh %q: parent mesh %q: %w", p.mesh.Name(), p.doc.Parent, ErrUnknownReference)
		}
		p.mesh.SetParentMesh(parent)
		if p.doc.Deform == nil || *p.doc.Deform {
			p.mesh.SetDeformAttachment(parent)
		}
		p.mesh.UpdateUVs()
	}
	return nil
}

func (im *yamlImporter) importEvents() {
	for _, e := range im.doc.Events {
		im.data.Events = append(im.data.Events, &skeleton.EventData{
			Name:      e.Name,
			Int:       e.Int,
			Float:     e.Float,
			String:    e.String,
			AudioPath: e.Audio,
			Volume:    floatOr(e.Volume, 1),
			Balance:   e.Balance,
		})
	}
	for _, a := range im.doc.Animations {
		im.data.Animations = append(im.data.Animations, &skeleton.Animation{Name: a.Name, Duration: a.Duration})
	}
}

// textureRegion converts a region document, defaulting to the whole texture.
func textureRegion(r *regionDoc) *skeleton.TextureRegion {
	if r == nil {
		return &skeleton.TextureRegion{U2: 1, V2: 1}
	}
	return &skeleton.TextureRegion{
		U: r.U, V: r.V, U2: r.U2, V2: r.V2,
		Packed:  r.Packed,
		Degrees: r.Degrees,
		OffsetX: r.OffsetX, OffsetY: r.OffsetY,
		Width: r.Width, Height: r.Height,
		PackedWidth: r.PackedWidth, PackedHeight: r.PackedHeight,
		OriginalWidth: r.OriginalWidth, OriginalHeight: r.OriginalHeight,
		TextureWidth: r.TextureWidth, TextureHeight: r.TextureHeight,
	}
}

// parseColor reads RRGGBB or RRGGBBAA hex. Six digits yield an opaque color.
func parseColor(hex string) (common.Color, error) {
	if len(hex) != 6 && len(hex) != 8 {
		return common.Color{}, fmt.Errorf("%q: %w", hex, ErrInvalidColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return common.Color{}, fmt.Errorf("%q: %w", hex, ErrInvalidColor)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	channel := func(shift uint) float32 { return float32(v>>shift&0xff) / 255 }
	return common.NewColor(channel(24), channel(16), channel(8), channel(0)), nil
}

func floatOr(v *float32, def float32) float32 {
	if v == nil {
		return def
	}
	return *v
}

func parseBlendMode(name string) skeleton.BlendMode {
	switch name {
	case "additive":
		return skeleton.BlendAdditive
	case "multiply":
		return skeleton.BlendMultiply
	case "screen":
		return skeleton.BlendScreen
	}
	return skeleton.BlendNormal
}

func parsePositionMode(name string) skeleton.PositionMode {
	if name == "fixed" {
		return skeleton.PositionFixed
	}
	return skeleton.PositionPercent
}

func parseSpacingMode(name string) skeleton.SpacingMode {
	switch name {
	case "fixed":
		return skeleton.SpacingFixed
	case "percent":
		return skeleton.SpacingPercent
	}
	return skeleton.SpacingLength
}

func parseRotateMode(name string) skeleton.RotateMode {
	switch name {
	case "chain":
		return skeleton.RotateChain
	case "chainScale":
		return skeleton.RotateChainScale
	}
	return skeleton.RotateTangent
}
