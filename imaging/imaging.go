// Package imaging is the module's sole image codec surface: it decodes
// the five embedded-texture formats (PNG, JPEG, BMP, GIF, WebP) into
// RGBA8 pixel grids and re-encodes pixel grids on export. The formats
// the standard library does not cover come from golang.org/x/image.
package imaging

import (
	"bytes"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/asset-importer/scenekit/errs"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// Sniff inspects the leading bytes of data and reports which of the
// supported formats it is, or ImageFormatUnknown.
func Sniff(data []byte) scene.ImageFormat {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}):
		return scene.ImageFormatPNG
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return scene.ImageFormatJPEG
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return scene.ImageFormatBMP
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return scene.ImageFormatGIF
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return scene.ImageFormatWebP
	default:
		return scene.ImageFormatUnknown
	}
}

// FormatFromMime maps an image mime type to the format enum; unknown
// mime types map to ImageFormatUnknown.
func FormatFromMime(mime string) scene.ImageFormat {
	switch mime {
	case "image/png":
		return scene.ImageFormatPNG
	case "image/jpeg":
		return scene.ImageFormatJPEG
	case "image/bmp":
		return scene.ImageFormatBMP
	case "image/gif":
		return scene.ImageFormatGIF
	case "image/webp":
		return scene.ImageFormatWebP
	default:
		return scene.ImageFormatUnknown
	}
}

// MimeOf is the inverse of FormatFromMime.
func MimeOf(f scene.ImageFormat) string {
	switch f {
	case scene.ImageFormatPNG:
		return "image/png"
	case scene.ImageFormatJPEG:
		return "image/jpeg"
	case scene.ImageFormatBMP:
		return "image/bmp"
	case scene.ImageFormatGIF:
		return "image/gif"
	case scene.ImageFormatWebP:
		return "image/webp"
	default:
		return ""
	}
}

// FormatFromExtension maps a lowercase file extension (without dot) to
// the format enum. "jpeg" and "jpg" both map to JPEG.
func FormatFromExtension(ext string) scene.ImageFormat {
	switch ext {
	case "png":
		return scene.ImageFormatPNG
	case "jpg", "jpeg":
		return scene.ImageFormatJPEG
	case "bmp":
		return scene.ImageFormatBMP
	case "gif":
		return scene.ImageFormatGIF
	case "webp":
		return scene.ImageFormatWebP
	default:
		return scene.ImageFormatUnknown
	}
}

// Decode decodes data into a row-major RGBA8 texel grid. The format is
// sniffed from the bytes themselves; a mime hint from the container is
// deliberately not trusted over the magic number.
func Decode(data []byte) (scene.ImageFormat, int, int, []aimath.Texel, error) {
	format := Sniff(data)
	var img image.Image
	var err error
	switch format {
	case scene.ImageFormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case scene.ImageFormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case scene.ImageFormatBMP:
		img, err = bmp.Decode(bytes.NewReader(data))
	case scene.ImageFormatGIF:
		img, err = gif.Decode(bytes.NewReader(data))
	case scene.ImageFormatWebP:
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return scene.ImageFormatUnknown, 0, 0, nil, &errs.FormatError{Msg: "image: unrecognized format"}
	}
	if err != nil {
		return format, 0, 0, nil, &errs.FormatError{Msg: "image: decode " + format.String(), Err: err}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	texels := make([]aimath.Texel, w*h)
	for i := range texels {
		texels[i] = aimath.Texel{
			R: nrgba.Pix[i*4+0],
			G: nrgba.Pix[i*4+1],
			B: nrgba.Pix[i*4+2],
			A: nrgba.Pix[i*4+3],
		}
	}
	return format, w, h, texels, nil
}

// Encode serializes a texel grid into format. Only PNG, JPEG, BMP and
// GIF encoding are supported; WebP (encode is absent from x/image) and
// unknown formats fall back to PNG, which every glTF viewer accepts.
func Encode(format scene.ImageFormat, width, height int, texels []aimath.Texel) (scene.ImageFormat, []byte, error) {
	if len(texels) != width*height {
		return format, nil, &errs.ExportError{Msg: "image: texel count does not match dimensions"}
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, t := range texels {
		nrgba.Pix[i*4+0] = t.R
		nrgba.Pix[i*4+1] = t.G
		nrgba.Pix[i*4+2] = t.B
		nrgba.Pix[i*4+3] = t.A
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case scene.ImageFormatJPEG:
		err = jpeg.Encode(&buf, nrgba, nil)
	case scene.ImageFormatBMP:
		err = bmp.Encode(&buf, nrgba)
	case scene.ImageFormatGIF:
		err = gif.Encode(&buf, nrgba, nil)
	default:
		format = scene.ImageFormatPNG
		err = png.Encode(&buf, nrgba)
	}
	if err != nil {
		return format, nil, &errs.ExportError{Msg: "image: encode " + format.String(), Err: err}
	}
	return format, buf.Bytes(), nil
}

// ExportBytes returns the (format, bytes) pair for an embedded texture:
// compressed blobs pass through untouched, decoded grids are encoded
// per their format hint.
func ExportBytes(t *scene.EmbeddedTexture) (scene.ImageFormat, []byte, error) {
	if t.IsCompressed() {
		format := t.FormatHint
		if format == scene.ImageFormatUnknown {
			format = Sniff(t.CompressedData)
		}
		return format, t.CompressedData, nil
	}
	return Encode(t.FormatHint, t.Width, t.Height, t.Pixels)
}
