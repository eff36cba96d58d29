package math

// Color4 is a 4-component RGBA color, the wire representation used for
// every material color property (diffuse, specular, emissive, base
// color...). Components are nominally in [0,1] but are not clamped here —
// emissive/HDR values may legitimately exceed 1.
type Color4 struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color4{1, 1, 1, 1}
	ColorBlack = Color4{0, 0, 0, 1}
)

// ToArray returns the color as [r,g,b,a], the layout glTF factor arrays use.
func (c Color4) ToArray() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func Color4FromArray(a [4]float32) Color4 {
	return Color4{R: a[0], G: a[1], B: a[2], A: a[3]}
}

// Texel is a single decoded RGBA8 pixel, used by EmbeddedTexture's
// uncompressed pixel array.
type Texel struct {
	R, G, B, A uint8
}
