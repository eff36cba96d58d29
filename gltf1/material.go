package gltf1

import (
	"github.com/asset-importer/scenekit/assetio"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// The four conventional material value slots of the 1.0 common profile,
// plus the scalar fields riding alongside them.
const (
	valueAmbient      = "ambient"
	valueDiffuse      = "diffuse"
	valueSpecular     = "specular"
	valueEmission     = "emission"
	valueShininess    = "shininess"
	valueTransparency = "transparency"
	valueDoubleSided  = "doubleSided"
)

// importMaterial maps one 1.0 material into the neutral bag: each slot
// value is either a 4-float color or a string reference to a named
// texture, which becomes a $tex.file entry carrying the sampler's wrap
// modes.
func importMaterial(ic *importCtx, id string, gm Material) *scene.Material {
	m := scene.NewMaterial()
	name := gm.Name
	if name == "" {
		name = id
	}
	m.AddString(scene.KeyName, scene.TextureNone, 0, name)

	slots := []struct {
		value    string
		colorKey string
		semantic scene.TextureType
	}{
		{valueAmbient, scene.KeyColorAmbient, scene.TextureAmbient},
		{valueDiffuse, scene.KeyColorDiffuse, scene.TextureDiffuse},
		{valueSpecular, scene.KeyColorSpecular, scene.TextureSpecular},
		{valueEmission, scene.KeyColorEmissive, scene.TextureEmissive},
	}
	for _, slot := range slots {
		v, ok := gm.Values[slot.value]
		if !ok {
			continue
		}
		if v.Texture != "" {
			importTextureSlot(ic, m, v.Texture, slot.semantic)
			continue
		}
		c := aimath.Color4{A: 1}
		n := v.Numbers
		if len(n) > 0 {
			c.R = float32(n[0])
		}
		if len(n) > 1 {
			c.G = float32(n[1])
		}
		if len(n) > 2 {
			c.B = float32(n[2])
		}
		if len(n) > 3 {
			c.A = float32(n[3])
		}
		m.AddColor(slot.colorKey, scene.TextureNone, 0, c)
	}

	if v, ok := gm.Values[valueShininess]; ok && len(v.Numbers) > 0 {
		m.AddFloat(scene.KeyShininess, scene.TextureNone, 0, float32(v.Numbers[0]))
	}
	if v, ok := gm.Values[valueTransparency]; ok && len(v.Numbers) > 0 {
		m.AddFloat(scene.KeyOpacity, scene.TextureNone, 0, float32(v.Numbers[0]))
	}
	if v, ok := gm.Values[valueDoubleSided]; ok && len(v.Numbers) > 0 {
		m.AddBool(scene.KeyTwoSided, scene.TextureNone, 0, v.Numbers[0] != 0)
	}
	return m
}

// importTextureSlot resolves a texture ID into a $tex.file reference:
// embedded images use the "*<index>" convention over the sorted image
// order, external ones keep their URI. Wrap modes come from the
// sampler, defaulting to repeat.
func importTextureSlot(ic *importCtx, m *scene.Material, textureID string, semantic scene.TextureType) {
	tex, ok := ic.doc.Textures[textureID]
	if !ok {
		ic.warnf("material references missing texture %s", textureID)
		return
	}
	imgIDs := tableOf(ic.doc.Images)
	ref := ""
	if img, ok := ic.doc.Images[tex.Source]; ok {
		if assetio.IsDataURI(img.URI) {
			ref = "*" + itoa(imgIDs.index[tex.Source])
		} else {
			ref = img.URI
		}
	}
	if ref == "" {
		ic.warnf("texture %s has no usable image source", textureID)
		return
	}
	m.AddString(scene.KeyTexFile, semantic, 0, ref)

	wrapU, wrapV := MapModeWrap, MapModeWrap
	if s, ok := ic.doc.Samplers[tex.Sampler]; ok {
		wrapU, wrapV = wrapModeToNeutral(s.WrapS), wrapModeToNeutral(s.WrapT)
		if s.MagFilter != 0 {
			m.AddFloat(scene.KeyTexMagFilter, semantic, 0, float32(s.MagFilter))
		}
		if s.MinFilter != 0 {
			m.AddFloat(scene.KeyTexMinFilter, semantic, 0, float32(s.MinFilter))
		}
	}
	m.AddFloat(scene.KeyTexMapModeU, semantic, 0, float32(wrapU))
	m.AddFloat(scene.KeyTexMapModeV, semantic, 0, float32(wrapV))
	m.AddFloat(scene.KeyTexUVWSrc, semantic, 0, 0)
}

// Neutral wrap-mode vocabulary, shared with the 2.0 codec and the OBJ
// adapter.
const (
	MapModeWrap   = 0
	MapModeClamp  = 1
	MapModeMirror = 2
)

func wrapModeToNeutral(w int) int {
	switch w {
	case WrapClampToEdge:
		return MapModeClamp
	case WrapMirroredRepeat:
		return MapModeMirror
	default:
		return MapModeWrap
	}
}

func wrapModeToWire(m int) int {
	switch m {
	case MapModeClamp:
		return WrapClampToEdge
	case MapModeMirror:
		return WrapMirroredRepeat
	default:
		return WrapRepeat
	}
}
