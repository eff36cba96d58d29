package gltf2

import (
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// materialContext carries the pieces of the document a material needs
// to resolve texture references (sampler wrap modes, UV channel) while
// staying independent of the mesh/node import passes.
type materialContext struct {
	doc *Document
}

// importMaterial converts one glTF 2.0 Material into a neutral
// scene.Material.
func importMaterial(ctx materialContext, gm Material, index int) *scene.Material {
	m := scene.NewMaterial()
	m.AddString(scene.KeyName, scene.TextureNone, 0, nameOrDefault(gm.Name, index))
	m.AddBool(scene.KeyTwoSided, scene.TextureNone, 0, gm.DoubleSided)

	if gm.Extensions != nil && gm.Extensions.Unlit != nil {
		m.AddBool(scene.KeyGltfUnlit, scene.TextureNone, 0, true)
		m.AddFloat(scene.KeyShadingModel, scene.TextureNone, 0, float32(scene.ShadingUnlit))
	} else {
		m.AddFloat(scene.KeyShadingModel, scene.TextureNone, 0, float32(scene.ShadingPBR))
	}

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		base := [4]float64{1, 1, 1, 1}
		if pbr.BaseColorFactor != nil {
			base = *pbr.BaseColorFactor
		}
		c := aimath.Color4{R: float32(base[0]), G: float32(base[1]), B: float32(base[2]), A: float32(base[3])}
		m.AddColor(scene.KeyColorDiffuse, scene.TextureNone, 0, c)
		m.AddColor(scene.KeyColorBase, scene.TextureNone, 0, c)
		m.AddFloat(scene.KeyOpacity, scene.TextureNone, 0, c.A)

		if pbr.BaseColorTexture != nil {
			importTexture(ctx, m, *pbr.BaseColorTexture, scene.TextureDiffuse, 0)
			importTexture(ctx, m, *pbr.BaseColorTexture, scene.TextureBaseColor, 0)
		}

		metallic := float32(1)
		if pbr.MetallicFactor != nil {
			metallic = float32(*pbr.MetallicFactor)
		}
		roughness := float32(1)
		if pbr.RoughnessFactor != nil {
			roughness = float32(*pbr.RoughnessFactor)
		}
		m.AddFloat(scene.KeyMetallicFactor, scene.TextureNone, 0, metallic)
		m.AddFloat(scene.KeyRoughnessFactor, scene.TextureNone, 0, roughness)
		m.AddFloat(scene.KeyShininess, scene.TextureNone, 0, (1-roughness)*1000)

		if pbr.MetallicRoughnessTexture != nil {
			importTexture(ctx, m, *pbr.MetallicRoughnessTexture, scene.TextureMetalness, 0)
			importTexture(ctx, m, *pbr.MetallicRoughnessTexture, scene.TextureDiffuseRoughness, 0)
			importTexture(ctx, m, *pbr.MetallicRoughnessTexture, scene.TextureUnknown, 0)
		}
	}

	if gm.NormalTexture != nil {
		importTexture(ctx, m, *gm.NormalTexture, scene.TextureNormals, 0)
		if gm.NormalTexture.Scale != nil {
			m.AddFloat(scene.KeyTexScale, scene.TextureNormals, 0, float32(*gm.NormalTexture.Scale))
		}
	}
	if gm.OcclusionTexture != nil {
		importTexture(ctx, m, *gm.OcclusionTexture, scene.TextureLightmap, 0)
		if gm.OcclusionTexture.Strength != nil {
			m.AddFloat(scene.KeyTexStrength, scene.TextureLightmap, 0, float32(*gm.OcclusionTexture.Strength))
		}
	}
	if gm.EmissiveTexture != nil {
		importTexture(ctx, m, *gm.EmissiveTexture, scene.TextureEmissive, 0)
	}
	{
		ef := [3]float64{0, 0, 0}
		if gm.EmissiveFactor != nil {
			ef = *gm.EmissiveFactor
		}
		m.AddColor(scene.KeyColorEmissive, scene.TextureNone, 0, aimath.Color4{R: float32(ef[0]), G: float32(ef[1]), B: float32(ef[2]), A: 1})
	}

	m.AddString(scene.KeyGltfAlphaMode, scene.TextureNone, 0, CheckedOr(gm.AlphaMode, string(AlphaOpaque)))
	if gm.AlphaCutoff != nil {
		m.AddFloat(scene.KeyGltfAlphaCutoff, scene.TextureNone, 0, float32(*gm.AlphaCutoff))
	}

	if ext := gm.Extensions; ext != nil {
		if sg := ext.PBRSpecularGlossiness; sg != nil {
			importSpecularGlossiness(ctx, m, sg)
		}
		if sp := ext.Specular; sp != nil {
			if sp.SpecularColorFactor != nil {
				cf := *sp.SpecularColorFactor
				m.AddColor(scene.KeyColorSpecular, scene.TextureNone, 0, aimath.Color4{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: 1})
			}
			if sp.SpecularFactor != nil {
				m.AddFloat(scene.KeySpecularFactor, scene.TextureNone, 0, float32(*sp.SpecularFactor))
			}
			if sp.SpecularTexture != nil {
				importTexture(ctx, m, *sp.SpecularTexture, scene.TextureSpecular, 0)
			}
			if sp.SpecularColorTexture != nil {
				importTexture(ctx, m, *sp.SpecularColorTexture, scene.TextureSpecular, 1)
			}
		}
		if tr := ext.Transmission; tr != nil {
			if tr.TransmissionFactor != nil {
				m.AddFloat(scene.KeyTransmissionFac, scene.TextureNone, 0, float32(*tr.TransmissionFactor))
			}
			if tr.TransmissionTexture != nil {
				importTexture(ctx, m, *tr.TransmissionTexture, scene.TextureTransmission, 0)
			}
		}
		if vol := ext.Volume; vol != nil {
			if vol.ThicknessFactor != nil {
				m.AddFloat(scene.KeyThicknessFactor, scene.TextureNone, 0, float32(*vol.ThicknessFactor))
			}
			if vol.ThicknessTexture != nil {
				importTexture(ctx, m, *vol.ThicknessTexture, scene.TextureThickness, 0)
			}
			if vol.AttenuationDistance != nil {
				m.AddFloat(scene.KeyAttenuationDist, scene.TextureNone, 0, float32(*vol.AttenuationDistance))
			}
			if vol.AttenuationColor != nil {
				cf := *vol.AttenuationColor
				m.AddColor(scene.KeyAttenuationColor, scene.TextureNone, 0, aimath.Color4{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: 1})
			}
		}
		if ior := ext.IOR; ior != nil && ior.IOR != nil {
			m.AddFloat(scene.KeyRefractI, scene.TextureNone, 0, float32(*ior.IOR))
		}
		if es := ext.EmissiveStrength; es != nil && es.EmissiveStrength != nil {
			m.AddFloat(scene.KeyEmissiveIntensity, scene.TextureNone, 0, float32(*es.EmissiveStrength))
		}
	}

	return m
}

func importSpecularGlossiness(ctx materialContext, m *scene.Material, sg *KHRPBRSpecularGlossiness) {
	if sg.DiffuseFactor != nil {
		df := *sg.DiffuseFactor
		m.AddColor(scene.KeyColorDiffuse, scene.TextureNone, 0, aimath.Color4{R: float32(df[0]), G: float32(df[1]), B: float32(df[2]), A: float32(df[3])})
	}
	if sg.SpecularFactor != nil {
		sf := *sg.SpecularFactor
		m.AddColor(scene.KeyColorSpecular, scene.TextureNone, 0, aimath.Color4{R: float32(sf[0]), G: float32(sf[1]), B: float32(sf[2]), A: 1})
	}
	if sg.GlossinessFactor != nil {
		g := float32(*sg.GlossinessFactor)
		m.AddFloat(scene.KeyGlossinessFactor, scene.TextureNone, 0, g)
		m.AddFloat(scene.KeyShininess, scene.TextureNone, 0, g*1000)
	}
	if sg.DiffuseTexture != nil {
		importTexture(ctx, m, *sg.DiffuseTexture, scene.TextureDiffuse, 0)
	}
	if sg.SpecularGlossinessTexture != nil {
		importTexture(ctx, m, *sg.SpecularGlossinessTexture, scene.TextureSpecular, 0)
	}
}

// importTexture records the file reference plus the documented sampler
// side-channel properties (uvwsrc, mapmode, sampler name/filters) for
// one texture slot.
func importTexture(ctx materialContext, m *scene.Material, ti TextureInfo, semantic scene.TextureType, index uint32) {
	if ti.Index < 0 || ti.Index >= len(ctx.doc.Textures) {
		return
	}
	tex := ctx.doc.Textures[ti.Index]
	uri := "<embedded>"
	if tex.Source != nil && *tex.Source < len(ctx.doc.Images) {
		img := ctx.doc.Images[*tex.Source]
		if img.BufferView != nil {
			uri = indexRef(*tex.Source)
		} else if img.URI != "" {
			uri = img.URI
		}
	}
	m.AddString(scene.KeyTexFile, semantic, index, uri)
	m.AddFloat(scene.KeyTexUVWSrc, semantic, index, float32(ti.TexCoord))

	if tex.Sampler != nil && *tex.Sampler < len(ctx.doc.Samplers) {
		s := ctx.doc.Samplers[*tex.Sampler]
		m.AddFloat(scene.KeyTexMapModeU, semantic, index, float32(wrapModeToNeutral(s.WrapS)))
		m.AddFloat(scene.KeyTexMapModeV, semantic, index, float32(wrapModeToNeutral(s.WrapT)))
		if s.Name != "" {
			m.AddString(scene.KeyTexSamplerName, semantic, index, s.Name)
		}
		m.AddFloat(scene.KeyTexMagFilter, semantic, index, float32(s.MagFilter))
		m.AddFloat(scene.KeyTexMinFilter, semantic, index, float32(s.MinFilter))
	}

	if tt := textureTransformOf(ti); tt != nil {
		m.AddProperty(scene.KeyTexUVTransform, semantic, index, scene.VariantFromFloats(
			float32(tt.Offset[0]), float32(tt.Offset[1]),
			float32(tt.Scale[0]), float32(tt.Scale[1]),
			float32(tt.Rotation),
		))
	}
}

func textureTransformOf(ti TextureInfo) *KHRTextureTransform {
	if ti.Extensions == nil {
		return nil
	}
	return ti.Extensions.TextureTransform
}

// MapMode mirrors the neutral-side wrap-mode vocabulary (Wrap, Clamp,
// Mirror) that obj's material adapter also writes into $tex.mapmodeu/v.
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

func indexRef(i int) string { return "*" + itoa(i) }

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b [20]byte
	pos := len(b)
	for i > 0 {
		pos--
		b[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		b[pos] = '-'
	}
	return string(b[pos:])
}

func nameOrDefault(name string, index int) string {
	if name != "" {
		return name
	}
	return "material_" + itoa(index)
}
