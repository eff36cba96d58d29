package gltf2

import (
	"github.com/asset-importer/scenekit/gltfbuf"
	"github.com/asset-importer/scenekit/namegen"
	"github.com/asset-importer/scenekit/scene"
)

// Options carries the exporter knobs callers set through the
// documented option keys (see OptionsFromMap).
type Options struct {
	// UnlimitedSkinningBonesPerVertex: when false (default), cap at four
	// joints per vertex (one JOINTS/WEIGHTS group); when true, emit
	// ceil(maxJointsPerVertex/4) groups.
	UnlimitedSkinningBonesPerVertex bool
	// UsePBRSpecularGlossiness emits the legacy KHR_materials_pbrSpecularGlossiness
	// block alongside the metallic-roughness model.
	UsePBRSpecularGlossiness bool
	// NodeInTRS decomposes node matrices into translation/rotation/scale
	// triples instead of emitting a raw 4x4 matrix.
	NodeInTRS bool
	// TargetNormalExp includes per-morph-target normal offsets.
	TargetNormalExp bool
	// IdentityEpsilon is the tolerance for treating a node matrix as
	// identity (skips emitting Matrix/TRS entirely).
	IdentityEpsilon float32
	// Binary requests GLB output instead of text .gltf + .bin.
	Binary bool
}

func DefaultOptions() Options {
	return Options{IdentityEpsilon: 1e-6}
}

// exportCtx threads the shared, growing state of one export operation:
// the body buffer writer, the document under construction, and the
// name/texture/image dedup maps. There is no package-level state; one
// export owns all of this exclusively.
type exportCtx struct {
	scene *scene.Scene
	opts  Options
	doc   *Document
	w     *gltfbuf.Writer
	names *namegen.Generator

	imageCache   map[string]int // neutral texture reference -> Images index
	samplerCache map[samplerKey]int
	textureCache map[textureKey]int

	// resolveImage loads and decodes an external/embedded texture
	// reference into (mimeType, bytes); set for binary output, where
	// image bytes land in the BIN buffer behind a buffer view.
	resolveImage func(ref string) (mimeType string, data []byte, ok bool)
	// resolveURI maps a texture reference to the URI the text document
	// should carry (writing a sibling image file as a side effect for
	// embedded "*<index>" references); set for text output.
	resolveURI func(ref string) (uri string, ok bool)
}

type samplerKey struct {
	wrapU, wrapV, magFilter, minFilter int
}

type textureKey struct {
	imageIndex, samplerIndex int
}

func newExportCtx(s *scene.Scene, opts Options) *exportCtx {
	return &exportCtx{
		scene:        s,
		opts:         opts,
		doc:          &Document{Asset: Asset{Version: "2.0", Generator: "scenekit-gltf2"}},
		w:            gltfbuf.NewWriter(0),
		names:        namegen.New(),
		imageCache:   map[string]int{},
		samplerCache: map[samplerKey]int{},
		textureCache: map[textureKey]int{},
	}
}

// internTexture resolves a neutral texture property into a glTF
// TextureInfo, writing a new Image/Sampler/Texture the first time a
// given (file-reference, wrap-modes, filters) combination is seen and
// reusing it afterward.
func (c *exportCtx) internTexture(fileRef string, uvChannel int, wrapU, wrapV, magFilter, minFilter int) TextureInfo {
	imgIdx, ok := c.imageCache[fileRef]
	if !ok {
		imgIdx = len(c.doc.Images)
		img := Image{}
		if len(fileRef) > 0 && fileRef[0] != '*' {
			img.Name = fileRef
		}
		switch {
		case c.resolveImage != nil:
			if mime, data, found := c.resolveImage(fileRef); found {
				view := c.w.WriteElements(bytesToElements(data), gltfbuf.ComponentUnsignedByte, gltfbuf.TypeScalar, 0)
				viewIdx := *view.BufferView
				img.BufferView = &viewIdx
				img.MimeType = mime
			} else {
				img.URI = fileRef
			}
		case c.resolveURI != nil:
			if uri, found := c.resolveURI(fileRef); found {
				img.URI = uri
			} else {
				img.URI = fileRef
			}
		default:
			img.URI = fileRef
		}
		c.doc.Images = append(c.doc.Images, img)
		c.imageCache[fileRef] = imgIdx
	}

	sk := samplerKey{wrapU, wrapV, magFilter, minFilter}
	sampIdx, ok := c.samplerCache[sk]
	if !ok {
		sampIdx = len(c.doc.Samplers)
		c.doc.Samplers = append(c.doc.Samplers, Sampler{
			WrapS: wrapModeToWire(wrapU), WrapT: wrapModeToWire(wrapV),
			MagFilter: magFilter, MinFilter: minFilter,
		})
		c.samplerCache[sk] = sampIdx
	}

	tk := textureKey{imgIdx, sampIdx}
	texIdx, ok := c.textureCache[tk]
	if !ok {
		texIdx = len(c.doc.Textures)
		s := sampIdx
		c.doc.Textures = append(c.doc.Textures, Texture{Sampler: &s, Source: &imgIdx})
		c.textureCache[tk] = texIdx
	}

	return TextureInfo{Index: texIdx, TexCoord: uvChannel}
}

// bytesToElements packs a raw byte slice into the [][]float64 element
// shape WriteElements expects for a scalar-u8 accessor (one component
// per byte). Accessors backing opaque image blobs are never read back
// through the typed engine, so the component framing here only needs to
// reproduce bytes faithfully.
func bytesToElements(data []byte) [][]float64 {
	out := make([][]float64, len(data))
	for i, b := range data {
		out[i] = []float64{float64(b)}
	}
	return out
}
