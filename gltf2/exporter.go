package gltf2

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/asset-importer/scenekit/errs"
	"github.com/asset-importer/scenekit/gltfbuf"
	"github.com/asset-importer/scenekit/imaging"
	"github.com/asset-importer/scenekit/scene"
)

// Exporter option keys. Values are read as scene.Variant through the
// same typed getters the material bag uses; every key is optional.
const (
	OptIdentityEpsilon        = "AI_CONFIG_CHECK_IDENTITY_MATRIX_EPSILON"
	OptUnlimitedBonesPerVertex = "AI_CONFIG_EXPORT_GLTF_UNLIMITED_SKINNING_BONES_PER_VERTEX"
	OptPBRSpecularGlossiness  = "AI_CONFIG_USE_GLTF_PBR_SPECULAR_GLOSSINESS"
	OptNodeInTRS              = "GLTF2_NODE_IN_TRS"
	OptTargetNormalExp        = "GLTF2_TARGET_NORMAL_EXP"
)

// OptionsFromMap resolves the string-keyed option map of the export_file
// contract into an Options struct; unrecognized keys are ignored.
func OptionsFromMap(m map[string]scene.Variant) Options {
	opts := DefaultOptions()
	if m == nil {
		return opts
	}
	if f, ok := optFloat(m, OptIdentityEpsilon); ok {
		opts.IdentityEpsilon = f
	}
	if b, ok := optBool(m, OptUnlimitedBonesPerVertex); ok {
		opts.UnlimitedSkinningBonesPerVertex = b
	}
	if b, ok := optBool(m, OptPBRSpecularGlossiness); ok {
		opts.UsePBRSpecularGlossiness = b
	}
	if b, ok := optBool(m, OptNodeInTRS); ok {
		opts.NodeInTRS = b
	}
	if b, ok := optBool(m, OptTargetNormalExp); ok {
		opts.TargetNormalExp = b
	}
	return opts
}

func optFloat(m map[string]scene.Variant, key string) (float32, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	p := scene.Property{Value: v}
	return p.AsFloat()
}

func optBool(m map[string]scene.Variant, key string) (bool, bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	p := scene.Property{Value: v}
	return p.AsBool()
}

// ExportFile serializes s to path. A ".glb" extension (or opts.Binary)
// selects the binary container; otherwise one <name>.gltf document plus
// one <name>.bin buffer plus one image file per embedded texture are
// written next to each other.
func ExportFile(s *scene.Scene, path string, opts Options) error {
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		opts.Binary = true
	}
	if opts.Binary {
		data, err := ExportBinary(s, opts)
		if err != nil {
			return err
		}
		return writeFile(path, data)
	}

	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	binName := base + ".bin"

	var sideFiles []sideFile
	doc, body, err := exportDocument(s, opts, &sideFiles)
	if err != nil {
		return err
	}
	doc.Buffers = []Buffer{{URI: binName, ByteLength: len(body)}}
	if len(body) == 0 {
		doc.Buffers = nil
		doc.BufferViews = nil
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &errs.ExportError{Msg: "gltf2: marshal document", Err: err}
	}
	if err := writeFile(path, jsonBytes); err != nil {
		return err
	}
	if len(body) > 0 {
		if err := writeFile(filepath.Join(dir, binName), body); err != nil {
			return err
		}
	}
	for _, f := range sideFiles {
		if err := writeFile(filepath.Join(dir, f.name), f.data); err != nil {
			return err
		}
	}
	return nil
}

// ExportBinary serializes s into a single GLB byte slice.
func ExportBinary(s *scene.Scene, opts Options) ([]byte, error) {
	opts.Binary = true
	doc, body, err := exportDocument(s, opts, nil)
	if err != nil {
		return nil, err
	}
	doc.Buffers = []Buffer{{ByteLength: len(body)}}
	if len(body) == 0 {
		doc.Buffers = nil
		doc.BufferViews = nil
		body = nil
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, &errs.ExportError{Msg: "gltf2: marshal document", Err: err}
	}
	return gltfbuf.EncodeGLB(jsonBytes, body), nil
}

type sideFile struct {
	name string
	data []byte
}

// exportDocument runs the full neutral-scene-to-document transform and
// returns the document (without its Buffers entry, which the caller
// fills per output mode) plus the accumulated body buffer.
func exportDocument(s *scene.Scene, opts Options, sideFiles *[]sideFile) (*Document, []byte, error) {
	if s == nil || s.Nodes == nil {
		return nil, nil, &errs.ExportError{Msg: "gltf2: nil scene"}
	}
	c := newExportCtx(s, opts)

	if opts.Binary {
		c.resolveImage = func(ref string) (string, []byte, bool) {
			tex := embeddedTextureFor(s, ref)
			if tex == nil {
				return "", nil, false
			}
			format, data, err := imaging.ExportBytes(tex)
			if err != nil {
				return "", nil, false
			}
			return imaging.MimeOf(format), data, true
		}
	} else {
		c.resolveURI = func(ref string) (string, bool) {
			tex := embeddedTextureFor(s, ref)
			if tex == nil {
				return "", false
			}
			format, data, err := imaging.ExportBytes(tex)
			if err != nil {
				return "", false
			}
			name := tex.Filename
			if name == "" {
				name = "texture_" + strconv.Itoa(len(*sideFiles))
			}
			name = c.names.Unique(name) + "." + format.String()
			if sideFiles != nil {
				*sideFiles = append(*sideFiles, sideFile{name: name, data: data})
			}
			return name, true
		}
	}

	matIndexOf := map[int]int{}
	for i, m := range s.Materials {
		matIndexOf[i] = len(c.doc.Materials)
		c.doc.Materials = append(c.doc.Materials, c.exportMaterial(m))
	}

	c.exportCameras()
	roots, nodeIdxByName := c.exportNodesAndMeshes(matIndexOf)
	c.exportAnimations(nodeIdxByName)

	gs := Scene{Name: s.Name, Nodes: roots}
	c.doc.Scenes = []Scene{gs}
	zero := 0
	c.doc.Scene = &zero

	c.collectExtensionsUsed()
	c.doc.BufferViews = make([]BufferView, len(c.w.Views))
	for i, v := range c.w.Views {
		c.doc.BufferViews[i] = bufferViewFromEngine(v)
	}

	return c.doc, c.w.Body, nil
}

func (c *exportCtx) exportCameras() {
	for _, cam := range c.scene.Cameras {
		gc := Camera{Name: cam.Name}
		if cam.OrthographicWidth > 0 {
			gc.Type = ValidValue("orthographic")
			gc.Orthographic = &CameraOrthographic{
				XMag:  float64(cam.OrthographicWidth / 2),
				YMag:  float64(cam.OrthographicWidth / 2),
				ZNear: float64(cam.ClipPlaneNear),
				ZFar:  float64(cam.ClipPlaneFar),
			}
		} else {
			gc.Type = ValidValue("perspective")
			p := &CameraPerspective{
				YFov:  float64(cam.HorizontalFOV),
				ZNear: float64(cam.ClipPlaneNear),
			}
			if p.YFov == 0 {
				p.YFov = 0.7854
			}
			if p.ZNear == 0 {
				p.ZNear = 0.1
			}
			if cam.ClipPlaneFar > 0 {
				zf := float64(cam.ClipPlaneFar)
				p.ZFar = &zf
			}
			if cam.AspectRatio > 0 {
				ar := float64(cam.AspectRatio)
				p.AspectRatio = &ar
			}
			gc.Perspective = p
		}
		c.doc.Cameras = append(c.doc.Cameras, gc)
	}
}

// collectExtensionsUsed scans the emitted materials and declares every
// KHR extension block that actually appears.
func (c *exportCtx) collectExtensionsUsed() {
	seen := map[string]bool{}
	for _, m := range c.doc.Materials {
		ext := m.Extensions
		if ext == nil {
			continue
		}
		if ext.Unlit != nil {
			seen["KHR_materials_unlit"] = true
		}
		if ext.PBRSpecularGlossiness != nil {
			seen["KHR_materials_pbrSpecularGlossiness"] = true
		}
		if ext.Specular != nil {
			seen["KHR_materials_specular"] = true
		}
		if ext.Transmission != nil {
			seen["KHR_materials_transmission"] = true
		}
		if ext.Volume != nil {
			seen["KHR_materials_volume"] = true
		}
		if ext.IOR != nil {
			seen["KHR_materials_ior"] = true
		}
		if ext.EmissiveStrength != nil {
			seen["KHR_materials_emissive_strength"] = true
		}
	}
	for _, name := range []string{
		"KHR_materials_unlit",
		"KHR_materials_pbrSpecularGlossiness",
		"KHR_materials_specular",
		"KHR_materials_transmission",
		"KHR_materials_volume",
		"KHR_materials_ior",
		"KHR_materials_emissive_strength",
	} {
		if seen[name] {
			c.doc.ExtensionsUsed = append(c.doc.ExtensionsUsed, name)
		}
	}
}

// embeddedTextureFor resolves a "*<index>" internal reference into the
// scene's texture list; a plain filename matches by Filename.
func embeddedTextureFor(s *scene.Scene, ref string) *scene.EmbeddedTexture {
	if strings.HasPrefix(ref, "*") {
		idx, err := strconv.Atoi(ref[1:])
		if err != nil || idx < 0 || idx >= len(s.Textures) {
			return nil
		}
		return s.Textures[idx]
	}
	base := stripExtension(ref)
	for _, t := range s.Textures {
		if t.Filename == ref || t.Filename == base {
			return t
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &errs.ExportError{Msg: "write " + path, Err: err}
	}
	return nil
}
