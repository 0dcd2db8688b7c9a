package skeleton

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// MeshTopology is the triangulation of a mesh and its texture mapping in region space.
// A linked mesh points at its parent's topology, so both always see the same values.
type MeshTopology struct {
	// RegionUVs are per-vertex texture coordinates in [0, 1] relative to the region.
	RegionUVs []float32
	// Triangles indexes vertices, three per triangle.
	Triangles []uint16
	// HullLength is the number of floats in Vertices that form the hull, for editor display.
	HullLength int
	// Edges are vertex index pairs for editor display.
	Edges []int
	// Width, Height are the mesh size in the editor.
	Width, Height float32
}

// MeshAttachment is a textured triangle mesh whose vertices may be weighted to several bones.
type MeshAttachment struct {
	vertexAttachment

	// Path names the texture region for atlas lookups.
	Path string
	// Color tints the mesh.
	Color common.Color

	region     *TextureRegion
	topo       *MeshTopology
	uvs        []float32
	parentMesh *MeshAttachment
}

var _ VertexAttachment = &MeshAttachment{}

// NewMeshAttachment creates an empty mesh with a white tint. Panics if ids is nil.
//
// Parameters:
//   - name: the attachment name
//   - ids: the allocator issuing vertex attachment IDs
//
// Returns:
//   - *MeshAttachment: the new mesh
func NewMeshAttachment(name string, ids *IDAllocator) *MeshAttachment {
	return &MeshAttachment{
		vertexAttachment: newVertexAttachment(name, ids),
		Color:            common.White,
		topo:             &MeshTopology{},
	}
}

func (m *MeshAttachment) sealed() {}

func (m *MeshAttachment) Type() AttachmentType {
	return AttachmentMesh
}

func (m *MeshAttachment) DeformAttachment() VertexAttachment {
	return m.deformOr(m)
}

// Region returns the texture region, nil until SetRegion is called.
func (m *MeshAttachment) Region() *TextureRegion {
	return m.region
}

// SetRegion assigns the texture region. Call UpdateUVs afterwards.
func (m *MeshAttachment) SetRegion(region *TextureRegion) {
	m.region = region
}

// Topology returns the mesh's topology record, shared with any linked meshes.
func (m *MeshAttachment) Topology() *MeshTopology {
	return m.topo
}

func (m *MeshAttachment) RegionUVs() []float32 { return m.topo.RegionUVs }

func (m *MeshAttachment) SetRegionUVs(uvs []float32) { m.topo.RegionUVs = uvs }

func (m *MeshAttachment) Triangles() []uint16 { return m.topo.Triangles }

func (m *MeshAttachment) SetTriangles(triangles []uint16) { m.topo.Triangles = triangles }

func (m *MeshAttachment) HullLength() int { return m.topo.HullLength }

func (m *MeshAttachment) SetHullLength(n int) { m.topo.HullLength = n }

func (m *MeshAttachment) Edges() []int { return m.topo.Edges }

func (m *MeshAttachment) SetEdges(edges []int) { m.topo.Edges = edges }

func (m *MeshAttachment) Width() float32 { return m.topo.Width }

func (m *MeshAttachment) Height() float32 { return m.topo.Height }

// SetSize sets the editor width and height.
func (m *MeshAttachment) SetSize(width, height float32) {
	m.topo.Width, m.topo.Height = width, height
}

// UVs returns the texture coordinates computed by UpdateUVs, two per vertex.
func (m *MeshAttachment) UVs() []float32 {
	return m.uvs
}

// UpdateUVs maps RegionUVs into texture space using the region, undoing the packer's rotation and
// whitespace stripping for packed regions. Panics if no region is set.
func (m *MeshAttachment) UpdateUVs() {
	region := m.region
	if region == nil {
		panic("skeleton: mesh attachment region is not set")
	}
	regionUVs := m.topo.RegionUVs
	n := len(regionUVs)
	if cap(m.uvs) < n {
		m.uvs = make([]float32, n)
	}
	uvs := m.uvs[:n]
	m.uvs = uvs

	u, v := region.U, region.V
	var width, height float32
	if region.Packed {
		tw, th := region.TextureWidth, region.TextureHeight
		switch region.Degrees {
		case 90:
			u -= (region.OriginalHeight - region.OffsetY - region.PackedWidth) / tw
			v -= (region.OriginalWidth - region.OffsetX - region.PackedHeight) / th
			width = region.OriginalHeight / tw
			height = region.OriginalWidth / th
			for i := 0; i < n; i += 2 {
				uvs[i] = u + regionUVs[i+1]*width
				uvs[i+1] = v + (1-regionUVs[i])*height
			}
			return
		case 180:
			u -= (region.OriginalWidth - region.OffsetX - region.PackedWidth) / tw
			v -= region.OffsetY / th
			width = region.OriginalWidth / tw
			height = region.OriginalHeight / th
			for i := 0; i < n; i += 2 {
				uvs[i] = u + (1-regionUVs[i])*width
				uvs[i+1] = v + (1-regionUVs[i+1])*height
			}
			return
		case 270:
			u -= region.OffsetY / tw
			v -= region.OffsetX / th
			width = region.OriginalHeight / tw
			height = region.OriginalWidth / th
			for i := 0; i < n; i += 2 {
				uvs[i] = u + (1-regionUVs[i+1])*width
				uvs[i+1] = v + regionUVs[i]*height
			}
			return
		}
		u -= region.OffsetX / tw
		v -= (region.OriginalHeight - region.OffsetY - region.PackedHeight) / th
		width = region.OriginalWidth / tw
		height = region.OriginalHeight / th
	} else {
		width = region.U2 - u
		height = region.V2 - v
	}
	for i := 0; i < n; i += 2 {
		uvs[i] = u + regionUVs[i]*width
		uvs[i+1] = v + regionUVs[i+1]*height
	}
}

// ParentMesh returns the mesh this one is linked to, or nil.
func (m *MeshAttachment) ParentMesh() *MeshAttachment {
	return m.parentMesh
}

// SetParentMesh links the mesh to parent. The mesh then shares the parent's geometry and topology;
// a later write through either mesh is seen by both. Passing nil unlinks without restoring geometry.
func (m *MeshAttachment) SetParentMesh(parent *MeshAttachment) {
	m.parentMesh = parent
	if parent != nil {
		m.geom = parent.geom
		m.topo = parent.topo
	}
}

// NewLinkedMesh creates a mesh linked to this mesh's root parent. It shares the texture region,
// path, tint and deform source, and gets a fresh ID.
//
// Returns:
//   - *MeshAttachment: the linked mesh
func (m *MeshAttachment) NewLinkedMesh() *MeshAttachment {
	c := NewMeshAttachment(m.name, m.ids)
	c.region = m.region
	c.Path = m.Path
	c.Color = m.Color
	c.deform = m.DeformAttachment()
	parent := m.parentMesh
	if parent == nil {
		parent = m
	}
	c.SetParentMesh(parent)
	if c.region != nil {
		c.UpdateUVs()
	}
	return c
}

func (m *MeshAttachment) Copy() Attachment {
	if m.parentMesh != nil {
		return m.NewLinkedMesh()
	}
	c := &MeshAttachment{
		Path:   m.Path,
		Color:  m.Color,
		region: m.region,
		topo:   deepCopy(m.topo),
		uvs:    slices.Clone(m.uvs),
	}
	m.cloneInto(&c.vertexAttachment)
	return c
}
