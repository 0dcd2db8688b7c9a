package skeleton

// TextureRegion is the rectangle of a texture an attachment samples from. Atlas management is external;
// the loader or atlas reader fills the region in and shares the pointer between attachments.
type TextureRegion struct {
	// Normalized texture coordinates of the region's corners as stored in the texture.
	U, V, U2, V2 float32

	// Packed reports whether the atlas packing fields below are populated. Unpacked regions map
	// attachment UVs directly onto [U, U2] x [V, V2].
	Packed bool
	// Degrees is the rotation the packer applied: 0, 90, 180 or 270.
	Degrees int
	// OffsetX, OffsetY locate the trimmed image within the original image, in pixels.
	OffsetX, OffsetY float32
	// Width, Height are the trimmed image size in pixels, before packing rotation.
	Width, Height float32
	// PackedWidth, PackedHeight are the trimmed image size as stored in the texture, after rotation.
	PackedWidth, PackedHeight float32
	// OriginalWidth, OriginalHeight are the image size in pixels before whitespace was stripped.
	OriginalWidth, OriginalHeight float32
	// TextureWidth, TextureHeight are the size of the whole texture page in pixels.
	TextureWidth, TextureHeight float32
}

// Rotated reports whether the region was stored rotated by 90 degrees.
func (r *TextureRegion) Rotated() bool {
	return r != nil && r.Packed && r.Degrees == 90
}
