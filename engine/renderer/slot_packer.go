package renderer

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
)

// PackSlot emits the slot's world vertices through effect and serializes them for upload, together with
// the slot's triangle indices as little-endian uint16 values. Slots that emit no geometry return nil
// buffers.
//
// Parameters:
//   - slot: the slot to pack
//   - effect: an optional vertex effect, may be nil
//
// Returns:
//   - []byte: the vertex buffer, GPUSlotVertex layout
//   - []byte: the index buffer
func PackSlot(slot *skeleton.Slot, effect skeleton.VertexEffect) ([]byte, []byte) {
	vertices := skeleton.EmitSlotVertices(slot, effect, nil)
	if len(vertices) == 0 {
		return nil, nil
	}

	var g GPUSlotVertex
	vb := make([]byte, 0, len(vertices)*g.Size())
	for _, v := range vertices {
		g = NewGPUSlotVertex(v)
		vb = g.appendTo(vb)
	}

	triangles := skeleton.SlotTriangles(slot)
	ib := make([]byte, 0, len(triangles)*2)
	for _, i := range triangles {
		ib = binary.LittleEndian.AppendUint16(ib, i)
	}
	return vb, ib
}
