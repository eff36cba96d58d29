package scene

import "github.com/asset-importer/scenekit/math"

// ImageFormat hints at an EmbeddedTexture's compressed encoding, when it
// still carries compressed bytes rather than decoded pixels.
type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatPNG
	ImageFormatJPEG
	ImageFormatBMP
	ImageFormatGIF
	ImageFormatWebP
)

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatPNG:
		return "png"
	case ImageFormatJPEG:
		return "jpg"
	case ImageFormatBMP:
		return "bmp"
	case ImageFormatGIF:
		return "gif"
	case ImageFormatWebP:
		return "webp"
	default:
		return ""
	}
}

// EmbeddedTexture is a texture stored inside the scene itself rather than
// referenced by filename: either still-compressed bytes with a format
// hint (CompressedData non-nil), or a fully decoded RGBA8 pixel grid.
type EmbeddedTexture struct {
	Filename string // original filename, hint only; may be empty

	Width, Height int // 0 when CompressedData holds compressed bytes of unknown dimensions

	FormatHint     ImageFormat
	CompressedData []byte // raw file bytes, when not decoded

	Pixels []math.Texel // len == Width*Height, row-major, when decoded
}

// IsCompressed reports whether this texture still holds encoded bytes
// rather than a decoded pixel grid.
func (t *EmbeddedTexture) IsCompressed() bool {
	return len(t.CompressedData) > 0 && len(t.Pixels) == 0
}
