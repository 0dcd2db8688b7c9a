package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// VertexEffect post-processes the world vertices emitted for a skeleton's attachments, for effects such
// as jitter or swirl. Implementations may keep per-pass state between Begin and End.
type VertexEffect interface {
	// Begin is called once before the vertices of a slot are transformed.
	Begin(skeleton Skeleton)

	// Transform adjusts a single vertex in place.
	//
	// Parameters:
	//   - position: the world position
	//   - uv: the texture coordinates
	//   - light: the tint color
	//   - dark: the dark tint color for two-color tinting
	Transform(position, uv *common.Vector2, light, dark *common.Color)

	// End is called once after the vertices of a slot are transformed.
	End()
}

// WorldVertex is a fully resolved vertex ready for a renderer.
type WorldVertex struct {
	Position common.Vector2
	UV       common.Vector2
	Light    common.Color
	Dark     common.Color
}

// EmitSlotVertices appends the world vertices of the slot's region or mesh attachment to out. Other
// attachment kinds, an empty slot, or a slot on an inactive bone append nothing.
//
// Each vertex is tinted by the skeleton color, the slot color and the attachment color, and then passed
// through effect when it is not nil.
//
// Parameters:
//   - slot: the slot to emit
//   - effect: an optional vertex effect
//   - out: the buffer to append to
//
// Returns:
//   - []WorldVertex: out with the slot's vertices appended
func EmitSlotVertices(slot *Slot, effect VertexEffect, out []WorldVertex) []WorldVertex {
	if !slot.bone.active {
		return out
	}

	var positions, uvs []float32
	var tint common.Color
	switch a := slot.attachment.(type) {
	case *RegionAttachment:
		positions = slot.worldScratch(8)
		a.ComputeWorldVertices(slot.bone, positions, 0, 2)
		uvs = a.UVs()
		tint = a.Color
	case *MeshAttachment:
		n := a.WorldVerticesLength()
		positions = slot.worldScratch(n)
		a.ComputeWorldVertices(slot, 0, n, positions, 0, 2)
		uvs = a.UVs()
		tint = a.Color
	default:
		return out
	}

	light := slot.Color.Mul(tint)
	if sk := slot.bone.skeleton; sk != nil {
		light = sk.color.Mul(light)
	}
	var dark common.Color
	if slot.DarkColor != nil {
		dark = *slot.DarkColor
	}

	start := len(out)
	for i := 0; i+1 < len(positions); i += 2 {
		v := WorldVertex{Light: light, Dark: dark}
		v.Position.Set(positions[i], positions[i+1])
		if i+1 < len(uvs) {
			v.UV.Set(uvs[i], uvs[i+1])
		}
		out = append(out, v)
	}

	if effect != nil {
		effect.Begin(slot.Skeleton())
		for i := start; i < len(out); i++ {
			v := &out[i]
			effect.Transform(&v.Position, &v.UV, &v.Light, &v.Dark)
		}
		effect.End()
	}
	return out
}

// SlotTriangles returns the triangle indices for the slot's attachment: two triangles for a region,
// the mesh triangles for a mesh, and nil otherwise. The result must not be modified.
func SlotTriangles(slot *Slot) []uint16 {
	switch a := slot.attachment.(type) {
	case *RegionAttachment:
		return RegionQuadTriangles
	case *MeshAttachment:
		return a.Triangles()
	}
	return nil
}
