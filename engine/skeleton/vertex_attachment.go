package skeleton

// VertexAttachment is an attachment whose vertices are transformed by one or more bones.
//
// Vertices come in one of two layouts. Unweighted: Bones is empty and Vertices holds x,y pairs in the
// slot bone's space. Weighted: for each vertex, Bones holds an influence count n followed by n bone
// indices, and Vertices holds one (x, y, weight) triple per influence, the position in that bone's space.
type VertexAttachment interface {
	Attachment

	// ID returns the attachment's identifier, unique within the allocator that issued it.
	ID() int

	// Bones returns the weighted bone table, or nil for unweighted vertices.
	Bones() []int

	// Vertices returns the vertex data in the layout selected by Bones.
	Vertices() []float32

	// WorldVerticesLength returns the number of floats ComputeWorldVertices writes for all vertices, 2 per vertex.
	WorldVerticesLength() int

	// ComputeWorldVertices transforms vertices into world space using the slot's bone (unweighted) or the
	// skeleton's bones (weighted), applying the slot's deform buffer when it is not empty.
	//
	// Parameters:
	//   - slot: the slot showing the attachment
	//   - start: the first float of WorldVerticesLength to compute, a multiple of 2
	//   - count: the number of floats to compute, a multiple of 2
	//   - worldVertices: the output buffer
	//   - offset: the index of the first output float
	//   - stride: the distance between output vertices, at least 2
	ComputeWorldVertices(slot *Slot, start, count int, worldVertices []float32, offset, stride int)

	// DeformAttachment returns the attachment whose deform keys apply to this one; the attachment itself by default.
	DeformAttachment() VertexAttachment

	// SetDeformAttachment sets the attachment whose deform keys apply to this one. Nil resets to the attachment itself.
	SetDeformAttachment(a VertexAttachment)
}

// VertexGeometry is the bone table and vertex data of a vertex attachment.
// Linked meshes share their parent's geometry by pointer.
type VertexGeometry struct {
	Bones               []int
	Vertices            []float32
	WorldVerticesLength int
}

// vertexAttachment carries the state shared by the vertex attachment variants.
type vertexAttachment struct {
	name   string
	id     int
	ids    *IDAllocator
	geom   *VertexGeometry
	deform VertexAttachment // nil resolves to the owning attachment
}

func newVertexAttachment(name string, ids *IDAllocator) vertexAttachment {
	requireIDs(ids)
	return vertexAttachment{
		name: name,
		id:   ids.Next(),
		ids:  ids,
		geom: &VertexGeometry{},
	}
}

func (v *vertexAttachment) Name() string {
	return v.name
}

func (v *vertexAttachment) ID() int {
	return v.id
}

func (v *vertexAttachment) Bones() []int {
	return v.geom.Bones
}

// SetBones replaces the weighted bone table. Nil selects the unweighted layout.
func (v *vertexAttachment) SetBones(bones []int) {
	v.geom.Bones = bones
}

func (v *vertexAttachment) Vertices() []float32 {
	return v.geom.Vertices
}

// SetVertices replaces the vertex data.
func (v *vertexAttachment) SetVertices(vertices []float32) {
	v.geom.Vertices = vertices
}

func (v *vertexAttachment) WorldVerticesLength() int {
	return v.geom.WorldVerticesLength
}

// SetWorldVerticesLength sets the number of world floats, 2 per vertex.
func (v *vertexAttachment) SetWorldVerticesLength(n int) {
	v.geom.WorldVerticesLength = n
}

func (v *vertexAttachment) SetDeformAttachment(a VertexAttachment) {
	v.deform = a
}

// deformOr resolves the deform source, with self standing in for the unset handle.
func (v *vertexAttachment) deformOr(self VertexAttachment) VertexAttachment {
	if v.deform == nil {
		return self
	}
	return v.deform
}

// cloneInto gives dst an independent copy of v's geometry and a fresh ID from the same allocator.
func (v *vertexAttachment) cloneInto(dst *vertexAttachment) {
	dst.name = v.name
	dst.ids = v.ids
	dst.id = v.ids.Next()
	dst.geom = deepCopy(v.geom)
	dst.deform = v.deform
}

func (v *vertexAttachment) ComputeWorldVertices(slot *Slot, start, count int, worldVertices []float32, offset, stride int) {
	count = offset + (count>>1)*stride
	deform := slot.deform
	vertices := v.geom.Vertices
	bones := v.geom.Bones

	if len(bones) == 0 {
		if len(deform) > 0 {
			vertices = deform
		}
		bone := slot.bone
		x, y := bone.WorldX, bone.WorldY
		a, b, c, d := bone.A, bone.B, bone.C, bone.D
		for vv, w := start, offset; w < count; vv, w = vv+2, w+stride {
			vx, vy := vertices[vv], vertices[vv+1]
			worldVertices[w] = vx*a + vy*b + x
			worldVertices[w+1] = vx*c + vy*d + y
		}
		return
	}

	// Skip the bone groups of vertices before start.
	vi, skip := 0, 0
	for i := 0; i < start; i += 2 {
		n := bones[vi]
		vi += n + 1
		skip += n
	}

	skeletonBones := slot.bone.skeleton.bones
	if len(deform) == 0 {
		for w, b := offset, skip*3; w < count; w += stride {
			var wx, wy float32
			n := bones[vi] + vi + 1
			for vi++; vi < n; vi, b = vi+1, b+3 {
				bone := skeletonBones[bones[vi]]
				vx, vy, weight := vertices[b], vertices[b+1], vertices[b+2]
				wx += (vx*bone.A + vy*bone.B + bone.WorldX) * weight
				wy += (vx*bone.C + vy*bone.D + bone.WorldY) * weight
			}
			worldVertices[w] = wx
			worldVertices[w+1] = wy
		}
		return
	}

	for w, b, f := offset, skip*3, skip<<1; w < count; w += stride {
		var wx, wy float32
		n := bones[vi] + vi + 1
		for vi++; vi < n; vi, b, f = vi+1, b+3, f+2 {
			bone := skeletonBones[bones[vi]]
			vx, vy, weight := vertices[b]+deform[f], vertices[b+1]+deform[f+1], vertices[b+2]
			wx += (vx*bone.A + vy*bone.B + bone.WorldX) * weight
			wy += (vx*bone.C + vy*bone.D + bone.WorldY) * weight
		}
		worldVertices[w] = wx
		worldVertices[w+1] = wy
	}
}
