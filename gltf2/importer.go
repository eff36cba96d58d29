package gltf2

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"github.com/asset-importer/scenekit/assetio"
	"github.com/asset-importer/scenekit/errs"
	"github.com/asset-importer/scenekit/gltfbuf"
	"github.com/asset-importer/scenekit/imaging"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// glbMagic is the leading four bytes of a binary container; anything
// else is treated as a JSON text document.
var glbMagic = []byte("glTF")

// ReadFile imports a glTF 2.0 asset (text .gltf or binary .glb) into a
// neutral Scene. loader is the sole filesystem gateway, used for the
// document itself and for every external buffer and image it
// references; pass assetio.DefaultLoader to read off the local
// filesystem.
func ReadFile(filePath string, loader assetio.Loader) (*scene.Scene, []errs.Warning, error) {
	data, err := assetio.ReadAll(loader, filePath)
	if err != nil {
		return nil, nil, err
	}
	return ReadMemory(data, path.Dir(filePath), loader, sceneNameFromPath(filePath))
}

// ReadMemory imports a glTF 2.0 asset already held in memory. baseDir
// is prepended to relative buffer/image URIs before they are handed to
// loader.
func ReadMemory(data []byte, baseDir string, loader assetio.Loader, name string) (*scene.Scene, []errs.Warning, error) {
	var jsonBytes, bin []byte
	if bytes.HasPrefix(data, glbMagic) {
		chunks, err := gltfbuf.DecodeGLB(data)
		if err != nil {
			return nil, nil, err
		}
		jsonBytes, bin = chunks.JSON, chunks.BIN
	} else {
		jsonBytes = data
	}

	doc := &Document{}
	if err := json.Unmarshal(jsonBytes, doc); err != nil {
		return nil, nil, &errs.ReadError{Err: err}
	}
	if doc.Asset.Version != "" && !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, nil, &errs.FormatError{Msg: "gltf2: unsupported asset version " + doc.Asset.Version}
	}

	return importDocument(doc, bin, baseDir, loader, name)
}

func importDocument(doc *Document, bin []byte, baseDir string, loader assetio.Loader, name string) (*scene.Scene, []errs.Warning, error) {
	resolved, err := resolveBuffers(doc, bin, baseDir, loader)
	if err != nil {
		return nil, nil, err
	}
	ic := &importCtx{
		doc:     doc,
		buffers: toEngineBuffers(doc.Buffers, resolved),
		views:   toEngineViews(doc.BufferViews),
	}

	s := scene.NewScene(name)
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			si = *doc.Scene
		}
		if doc.Scenes[si].Name != "" {
			s.Name = doc.Scenes[si].Name
		}
	}
	importMetadata(doc, s)

	mctx := materialContext{doc: doc}
	for i := range doc.Materials {
		s.Materials = append(s.Materials, importMaterial(mctx, doc.Materials[i], i))
	}

	meshes, prims, ranges, warnings, err := importMeshes(ic)
	if err != nil {
		return nil, nil, err
	}
	s.Meshes = meshes
	fixupMaterialIndices(s, warnings)

	tree, err := importNodes(ic, ranges, meshes, prims)
	if err != nil {
		return nil, nil, err
	}
	tree.Nodes[tree.Root].Name = s.Name
	s.Nodes = tree

	anims, err := importAnimations(ic, tree)
	if err != nil {
		return nil, nil, err
	}
	s.Animations = anims
	s.Cameras = importCameras(doc, tree)

	textures, texWarnings := importTextures(doc, resolved, baseDir, loader)
	s.Textures = textures
	warnings.Warnings = append(warnings.Warnings, texWarnings...)

	return s, warnings.Warnings, nil
}

// resolveBuffers materializes every buffer's bytes: the GLB BIN chunk
// for the first URI-less buffer, decoded data URIs, and external files
// read through the loader.
func resolveBuffers(doc *Document, bin []byte, baseDir string, loader assetio.Loader) ([][]byte, error) {
	out := make([][]byte, len(doc.Buffers))
	for i, b := range doc.Buffers {
		switch {
		case b.URI == "":
			if i != 0 || bin == nil {
				return nil, &errs.FormatError{Msg: "gltf2: buffer without uri outside a binary container"}
			}
			if len(bin) < b.ByteLength {
				return nil, &errs.FormatError{Msg: "gltf2: BIN chunk shorter than declared buffer length"}
			}
			out[i] = bin[:b.ByteLength]
		case assetio.IsDataURI(b.URI):
			_, data, err := assetio.DecodeDataURI(b.URI)
			if err != nil {
				return nil, err
			}
			out[i] = data
		default:
			data, err := assetio.ReadAll(loader, joinURI(baseDir, b.URI))
			if err != nil {
				return nil, err
			}
			out[i] = data
		}
	}
	return out, nil
}

// importTextures loads every image in the document into an
// EmbeddedTexture: buffer-view slices and data URIs directly, external
// URIs through the loader. Decodable images become pixel grids; bytes
// that fail to decode are kept as a compressed blob with a sniffed
// format hint. A missing external file is a warning, not an error —
// the geometry is still importable without its textures.
func importTextures(doc *Document, resolved [][]byte, baseDir string, loader assetio.Loader) ([]*scene.EmbeddedTexture, []errs.Warning) {
	var warnings []errs.Warning
	out := make([]*scene.EmbeddedTexture, 0, len(doc.Images))
	for i, img := range doc.Images {
		var data []byte
		filename := img.Name
		switch {
		case img.BufferView != nil:
			if *img.BufferView < 0 || *img.BufferView >= len(doc.BufferViews) {
				warnings = append(warnings, errs.Warningf("image %d references missing buffer view %d", i, *img.BufferView))
				out = append(out, &scene.EmbeddedTexture{Filename: filename})
				continue
			}
			v := doc.BufferViews[*img.BufferView]
			if v.Buffer >= 0 && v.Buffer < len(resolved) && v.ByteOffset+v.ByteLength <= len(resolved[v.Buffer]) {
				data = resolved[v.Buffer][v.ByteOffset : v.ByteOffset+v.ByteLength]
			}
		case assetio.IsDataURI(img.URI):
			_, d, err := assetio.DecodeDataURI(img.URI)
			if err != nil {
				warnings = append(warnings, errs.Warningf("image %d: %v", i, err))
			}
			data = d
		case img.URI != "":
			d, err := assetio.ReadAll(loader, joinURI(baseDir, img.URI))
			if err != nil {
				warnings = append(warnings, errs.Warningf("image %d (%s): %v", i, img.URI, err))
			}
			data = d
			if filename == "" {
				filename = stripExtension(path.Base(img.URI))
			}
		}

		tex := &scene.EmbeddedTexture{Filename: filename}
		if len(data) > 0 {
			format, w, h, texels, err := imaging.Decode(data)
			if err != nil {
				tex.FormatHint = imaging.Sniff(data)
				if tex.FormatHint == scene.ImageFormatUnknown {
					tex.FormatHint = imaging.FormatFromMime(img.MimeType)
				}
				tex.CompressedData = data
			} else {
				tex.FormatHint = format
				tex.Width, tex.Height = w, h
				tex.Pixels = texels
			}
		}
		out = append(out, tex)
	}
	return out, warnings
}

// fixupMaterialIndices clamps dangling material references so
// Scene.Validate holds even on documents whose primitives point past
// the material array (dropped, not errored, like out-of-range face
// indices).
func fixupMaterialIndices(s *scene.Scene, warnings *warnCollector) {
	for _, m := range s.Meshes {
		if m.MaterialIndex < 0 || m.MaterialIndex >= len(s.Materials) {
			if m.MaterialIndex >= 0 {
				warnings.add("mesh %q references out-of-range material %d, cleared", m.Name, m.MaterialIndex)
			}
			m.MaterialIndex = 0
			if len(s.Materials) == 0 {
				s.Materials = append(s.Materials, defaultMaterial())
			}
		}
	}
}

func defaultMaterial() *scene.Material {
	m := scene.NewMaterial()
	m.AddString(scene.KeyName, scene.TextureNone, 0, "DefaultMaterial")
	m.AddColor(scene.KeyColorDiffuse, scene.TextureNone, 0, aimath.ColorWhite)
	return m
}

func importMetadata(doc *Document, s *scene.Scene) {
	s.Metadata["SourceAsset_Format"] = scene.VariantFromString("glTF2")
	if doc.Asset.Version != "" {
		s.Metadata["SourceAsset_FormatVersion"] = scene.VariantFromString(doc.Asset.Version)
	}
	if doc.Asset.Generator != "" {
		s.Metadata["SourceAsset_Generator"] = scene.VariantFromString(doc.Asset.Generator)
	}
	if doc.Asset.Copyright != "" {
		s.Metadata["SourceAsset_Copyright"] = scene.VariantFromString(doc.Asset.Copyright)
	}
}

func sceneNameFromPath(p string) string {
	return stripExtension(path.Base(p))
}

func stripExtension(base string) string {
	if dot := strings.LastIndexByte(base, '.'); dot > 0 {
		return base[:dot]
	}
	return base
}

func joinURI(baseDir, uri string) string {
	if baseDir == "" || baseDir == "." {
		return uri
	}
	return path.Join(baseDir, uri)
}
