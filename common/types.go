// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Vector2 is a plain 2D vector used for vertex positions and texture coordinates.
type Vector2 struct {
	X, Y float32
}

// Set assigns both components and returns the vector for chaining.
func (v *Vector2) Set(x, y float32) *Vector2 {
	v.X, v.Y = x, y
	return v
}

// Color is an RGBA color with float components, nominally in [0, 1].
type Color struct {
	R, G, B, A float32
}

// White is the neutral tint.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// NewColor builds a Color from its four channels.
//
// Parameters:
//   - r, g, b, a: the color channels
//
// Returns:
//   - Color: the color value
func NewColor(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Set assigns all four channels.
func (c *Color) Set(r, g, b, a float32) {
	c.R, c.G, c.B, c.A = r, g, b, a
}

// Mul returns the component-wise product of two colors.
//
// Parameters:
//   - o: the color to multiply with
//
// Returns:
//   - Color: the tinted color
func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

// Clamp limits every channel to [0, 1].
func (c Color) Clamp() Color {
	return Color{
		R: Clamp(c.R, 0, 1),
		G: Clamp(c.G, 0, 1),
		B: Clamp(c.B, 0, 1),
		A: Clamp(c.A, 0, 1),
	}
}

// Array returns the color as a [4]float32 in RGBA order, the layout used by GPU vertex data.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
