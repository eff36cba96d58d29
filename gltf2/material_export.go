package gltf2

import "github.com/asset-importer/scenekit/scene"

// exportMaterial inverts importMaterial. Where a neutral property has
// more than one possible source, $clr.base wins over $clr.diffuse,
// else the metallic-roughness default white.
func (c *exportCtx) exportMaterial(m *scene.Material) Material {
	gm := Material{}
	if p, ok := m.GetAny(scene.KeyName); ok {
		gm.Name, _ = p.AsString()
	}
	if p, ok := m.Get(scene.KeyTwoSided, scene.TextureNone, 0); ok {
		gm.DoubleSided, _ = p.AsBool()
	}

	pbr := &PBRMetallicRoughness{}
	base := [4]float64{1, 1, 1, 1}
	if p, ok := m.Get(scene.KeyColorBase, scene.TextureNone, 0); ok {
		if col, ok := p.AsColorRGBA(); ok {
			base = [4]float64{float64(col.R), float64(col.G), float64(col.B), float64(col.A)}
		}
	} else if p, ok := m.Get(scene.KeyColorDiffuse, scene.TextureNone, 0); ok {
		if col, ok := p.AsColorRGBA(); ok {
			base = [4]float64{float64(col.R), float64(col.G), float64(col.B), float64(col.A)}
		}
	}
	if p, ok := m.Get(scene.KeyOpacity, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			base[3] = float64(f)
		}
	}
	pbr.BaseColorFactor = &base

	if ti := c.exportTextureRef(m, scene.TextureBaseColor, 0); ti == nil {
		if ti2 := c.exportTextureRef(m, scene.TextureDiffuse, 0); ti2 != nil {
			pbr.BaseColorTexture = ti2
		}
	} else {
		pbr.BaseColorTexture = ti
	}

	metallic := 1.0
	if p, ok := m.Get(scene.KeyMetallicFactor, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			metallic = float64(f)
		}
	}
	roughness := 1.0
	if p, ok := m.Get(scene.KeyRoughnessFactor, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			roughness = float64(f)
		}
	}
	pbr.MetallicFactor = &metallic
	pbr.RoughnessFactor = &roughness
	if ti := c.exportTextureRef(m, scene.TextureMetalness, 0); ti != nil {
		pbr.MetallicRoughnessTexture = ti
	}
	gm.PBRMetallicRoughness = pbr

	if ti := c.exportTextureRef(m, scene.TextureNormals, 0); ti != nil {
		if p, ok := m.Get(scene.KeyTexScale, scene.TextureNormals, 0); ok {
			if f, ok := p.AsFloat(); ok {
				v := float64(f)
				ti.Scale = &v
			}
		}
		gm.NormalTexture = ti
	}
	if ti := c.exportTextureRef(m, scene.TextureLightmap, 0); ti != nil {
		if p, ok := m.Get(scene.KeyTexStrength, scene.TextureLightmap, 0); ok {
			if f, ok := p.AsFloat(); ok {
				v := float64(f)
				ti.Strength = &v
			}
		}
		gm.OcclusionTexture = ti
	}
	if ti := c.exportTextureRef(m, scene.TextureEmissive, 0); ti != nil {
		gm.EmissiveTexture = ti
	}
	if p, ok := m.Get(scene.KeyColorEmissive, scene.TextureNone, 0); ok {
		if col, ok := p.AsColorRGBA(); ok {
			ef := [3]float64{float64(col.R), float64(col.G), float64(col.B)}
			gm.EmissiveFactor = &ef
		}
	}

	alphaMode := string(AlphaOpaque)
	if p, ok := m.Get(scene.KeyGltfAlphaMode, scene.TextureNone, 0); ok {
		if s, ok := p.AsString(); ok {
			alphaMode = s
		}
	}
	gm.AlphaMode = ValidValue(alphaMode)
	if p, ok := m.Get(scene.KeyGltfAlphaCutoff, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			v := float64(f)
			gm.AlphaCutoff = &v
		}
	}

	ext := &MaterialExtensions{}
	hasExt := false
	if p, ok := m.Get(scene.KeyGltfUnlit, scene.TextureNone, 0); ok {
		if b, ok := p.AsBool(); ok && b {
			ext.Unlit = &struct{}{}
			hasExt = true
		}
	}
	if c.opts.UsePBRSpecularGlossiness {
		if sg := c.exportSpecularGlossiness(m); sg != nil {
			ext.PBRSpecularGlossiness = sg
			hasExt = true
		}
	}
	if sp := c.exportSpecular(m); sp != nil {
		ext.Specular = sp
		hasExt = true
	}
	if p, ok := m.Get(scene.KeyTransmissionFac, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			v := float64(f)
			tr := &KHRMaterialsTransmission{TransmissionFactor: &v}
			if ti := c.exportTextureRef(m, scene.TextureTransmission, 0); ti != nil {
				tr.TransmissionTexture = ti
			}
			ext.Transmission = tr
			hasExt = true
		}
	}
	if vol := c.exportVolume(m); vol != nil {
		ext.Volume = vol
		hasExt = true
	}
	if p, ok := m.Get(scene.KeyRefractI, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			v := float64(f)
			ext.IOR = &KHRMaterialsIOR{IOR: &v}
			hasExt = true
		}
	}
	if p, ok := m.Get(scene.KeyEmissiveIntensity, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			v := float64(f)
			ext.EmissiveStrength = &KHRMaterialsEmissiveStrength{EmissiveStrength: &v}
			hasExt = true
		}
	}
	if hasExt {
		gm.Extensions = ext
	}

	return gm
}

func (c *exportCtx) exportSpecularGlossiness(m *scene.Material) *KHRPBRSpecularGlossiness {
	p, ok := m.Get(scene.KeyGlossinessFactor, scene.TextureNone, 0)
	if !ok {
		return nil
	}
	g, _ := p.AsFloat()
	sg := &KHRPBRSpecularGlossiness{}
	gf := float64(g)
	sg.GlossinessFactor = &gf
	if cp, ok := m.Get(scene.KeyColorDiffuse, scene.TextureNone, 0); ok {
		if col, ok := cp.AsColorRGBA(); ok {
			df := [4]float64{float64(col.R), float64(col.G), float64(col.B), float64(col.A)}
			sg.DiffuseFactor = &df
		}
	}
	if cp, ok := m.Get(scene.KeyColorSpecular, scene.TextureNone, 0); ok {
		if col, ok := cp.AsColorRGBA(); ok {
			sf := [3]float64{float64(col.R), float64(col.G), float64(col.B)}
			sg.SpecularFactor = &sf
		}
	}
	if ti := c.exportTextureRef(m, scene.TextureDiffuse, 0); ti != nil {
		sg.DiffuseTexture = ti
	}
	if ti := c.exportTextureRef(m, scene.TextureSpecular, 0); ti != nil {
		sg.SpecularGlossinessTexture = ti
	}
	return sg
}

func (c *exportCtx) exportSpecular(m *scene.Material) *KHRMaterialsSpecular {
	fp, okF := m.Get(scene.KeySpecularFactor, scene.TextureNone, 0)
	cp, okC := m.Get(scene.KeyColorSpecular, scene.TextureNone, 0)
	if !okF && !okC {
		return nil
	}
	sp := &KHRMaterialsSpecular{}
	if okF {
		f, _ := fp.AsFloat()
		v := float64(f)
		sp.SpecularFactor = &v
	}
	if okC {
		if col, ok := cp.AsColorRGBA(); ok {
			v := [3]float64{float64(col.R), float64(col.G), float64(col.B)}
			sp.SpecularColorFactor = &v
		}
	}
	if ti := c.exportTextureRef(m, scene.TextureSpecular, 0); ti != nil {
		sp.SpecularTexture = ti
	}
	if ti := c.exportTextureRef(m, scene.TextureSpecular, 1); ti != nil {
		sp.SpecularColorTexture = ti
	}
	return sp
}

func (c *exportCtx) exportVolume(m *scene.Material) *KHRMaterialsVolume {
	tp, okT := m.Get(scene.KeyThicknessFactor, scene.TextureNone, 0)
	dp, okD := m.Get(scene.KeyAttenuationDist, scene.TextureNone, 0)
	cp, okC := m.Get(scene.KeyAttenuationColor, scene.TextureNone, 0)
	if !okT && !okD && !okC {
		return nil
	}
	vol := &KHRMaterialsVolume{}
	if okT {
		f, _ := tp.AsFloat()
		v := float64(f)
		vol.ThicknessFactor = &v
	}
	if okD {
		f, _ := dp.AsFloat()
		v := float64(f)
		vol.AttenuationDistance = &v
	}
	if okC {
		if col, ok := cp.AsColorRGBA(); ok {
			v := [3]float64{float64(col.R), float64(col.G), float64(col.B)}
			vol.AttenuationColor = &v
		}
	}
	if ti := c.exportTextureRef(m, scene.TextureThickness, 0); ti != nil {
		vol.ThicknessTexture = ti
	}
	return vol
}

// exportTextureRef looks up the documented $tex.file side-channel for
// (semantic, index) and, if present, interns it into a TextureInfo.
func (c *exportCtx) exportTextureRef(m *scene.Material, semantic scene.TextureType, index uint32) *TextureInfo {
	p, ok := m.Get(scene.KeyTexFile, semantic, index)
	if !ok {
		return nil
	}
	ref, ok := p.AsString()
	if !ok || ref == "" {
		return nil
	}
	uv := 0
	if up, ok := m.Get(scene.KeyTexUVWSrc, semantic, index); ok {
		if f, ok := up.AsFloat(); ok {
			uv = int(f)
		}
	}
	wrapU, wrapV := MapModeWrap, MapModeWrap
	if up, ok := m.Get(scene.KeyTexMapModeU, semantic, index); ok {
		if f, ok := up.AsFloat(); ok {
			wrapU = int(f)
		}
	}
	if vp, ok := m.Get(scene.KeyTexMapModeV, semantic, index); ok {
		if f, ok := vp.AsFloat(); ok {
			wrapV = int(f)
		}
	}
	magFilter, minFilter := FilterLinear, FilterLinear
	if fp, ok := m.Get(scene.KeyTexMagFilter, semantic, index); ok {
		if f, ok := fp.AsFloat(); ok {
			magFilter = int(f)
		}
	}
	if fp, ok := m.Get(scene.KeyTexMinFilter, semantic, index); ok {
		if f, ok := fp.AsFloat(); ok {
			minFilter = int(f)
		}
	}
	ti := c.internTexture(ref, uv, wrapU, wrapV, magFilter, minFilter)
	return &ti
}
