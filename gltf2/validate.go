package gltf2

import "fmt"

// Finding is one problem surfaced by Validate: an index that resolves to
// nothing, or an enum value outside the schema's known domain. Findings
// never abort a parse; the document stays usable for whatever the caller
// wants to salvage.
type Finding struct {
	Path string // JSON-pointer-ish location, e.g. "meshes[2].primitives[0].indices"
	Msg  string
}

func (f Finding) String() string { return f.Path + ": " + f.Msg }

type validator struct {
	doc      *Document
	findings []Finding
}

func (v *validator) addf(path, format string, args ...any) {
	v.findings = append(v.findings, Finding{Path: path, Msg: fmt.Sprintf(format, args...)})
}

func (v *validator) checkIndex(path string, idx, limit int, what string) {
	if idx < 0 || idx >= limit {
		v.addf(path, "%s index %d not found (have %d)", what, idx, limit)
	}
}

// Validate walks the whole document and reports every dangling index
// reference and out-of-domain enum value.
func Validate(doc *Document) []Finding {
	v := &validator{doc: doc}

	for i, bv := range doc.BufferViews {
		v.checkIndex(fmt.Sprintf("bufferViews[%d].buffer", i), bv.Buffer, len(doc.Buffers), "buffer")
	}
	for i, a := range doc.Accessors {
		p := fmt.Sprintf("accessors[%d]", i)
		if a.BufferView != nil {
			v.checkIndex(p+".bufferView", *a.BufferView, len(doc.BufferViews), "buffer view")
		}
		if !a.Type.Valid {
			v.addf(p+".type", "element type out of domain")
		}
		switch a.ComponentType {
		case ComponentByte, ComponentUnsignedByte, ComponentShort, ComponentUnsignedShort, ComponentUnsignedInt, ComponentFloat:
		default:
			v.addf(p+".componentType", "component type %d out of domain", a.ComponentType)
		}
		if sp := a.Sparse; sp != nil {
			v.checkIndex(p+".sparse.indices.bufferView", sp.Indices.BufferView, len(doc.BufferViews), "buffer view")
			v.checkIndex(p+".sparse.values.bufferView", sp.Values.BufferView, len(doc.BufferViews), "buffer view")
		}
	}

	for i, m := range doc.Meshes {
		for j, prim := range m.Primitives {
			p := fmt.Sprintf("meshes[%d].primitives[%d]", i, j)
			for sem, acc := range prim.Attributes {
				v.checkIndex(p+".attributes."+sem, acc, len(doc.Accessors), "accessor")
			}
			if prim.Indices != nil {
				v.checkIndex(p+".indices", *prim.Indices, len(doc.Accessors), "accessor")
			}
			if prim.Material != nil {
				v.checkIndex(p+".material", *prim.Material, len(doc.Materials), "material")
			}
			if prim.Mode.Valid && (prim.Mode.Value < int(ModePoints) || prim.Mode.Value > int(ModeTriangleFan)) {
				v.addf(p+".mode", "primitive mode %d out of domain", prim.Mode.Value)
			}
			for ti, target := range prim.Targets {
				for sem, acc := range target {
					v.checkIndex(fmt.Sprintf("%s.targets[%d].%s", p, ti, sem), acc, len(doc.Accessors), "accessor")
				}
			}
		}
	}

	for i, m := range doc.Materials {
		p := fmt.Sprintf("materials[%d]", i)
		if m.AlphaMode.Valid {
			switch AlphaMode(m.AlphaMode.Value) {
			case AlphaOpaque, AlphaMask, AlphaBlend:
			default:
				v.addf(p+".alphaMode", "alpha mode %q out of domain", m.AlphaMode.Value)
			}
		}
		v.checkTextureInfo(p+".normalTexture", m.NormalTexture)
		v.checkTextureInfo(p+".occlusionTexture", m.OcclusionTexture)
		v.checkTextureInfo(p+".emissiveTexture", m.EmissiveTexture)
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			v.checkTextureInfo(p+".pbrMetallicRoughness.baseColorTexture", pbr.BaseColorTexture)
			v.checkTextureInfo(p+".pbrMetallicRoughness.metallicRoughnessTexture", pbr.MetallicRoughnessTexture)
		}
	}

	for i, n := range doc.Nodes {
		p := fmt.Sprintf("nodes[%d]", i)
		for ci, c := range n.Children {
			v.checkIndex(fmt.Sprintf("%s.children[%d]", p, ci), c, len(doc.Nodes), "node")
		}
		if n.Mesh != nil {
			v.checkIndex(p+".mesh", *n.Mesh, len(doc.Meshes), "mesh")
		}
		if n.Skin != nil {
			v.checkIndex(p+".skin", *n.Skin, len(doc.Skins), "skin")
		}
		if n.Camera != nil {
			v.checkIndex(p+".camera", *n.Camera, len(doc.Cameras), "camera")
		}
	}

	for i, sk := range doc.Skins {
		p := fmt.Sprintf("skins[%d]", i)
		for ji, j := range sk.Joints {
			v.checkIndex(fmt.Sprintf("%s.joints[%d]", p, ji), j, len(doc.Nodes), "node")
		}
		if sk.InverseBindMatrices != nil {
			ibm := *sk.InverseBindMatrices
			v.checkIndex(p+".inverseBindMatrices", ibm, len(doc.Accessors), "accessor")
			if ibm >= 0 && ibm < len(doc.Accessors) && doc.Accessors[ibm].Count != len(sk.Joints) {
				v.addf(p, "joint count %d != inverse-bind-matrix count %d", len(sk.Joints), doc.Accessors[ibm].Count)
			}
		}
		if sk.Skeleton != nil {
			v.checkIndex(p+".skeleton", *sk.Skeleton, len(doc.Nodes), "node")
		}
	}

	for i, a := range doc.Animations {
		p := fmt.Sprintf("animations[%d]", i)
		for si, smp := range a.Samplers {
			sp := fmt.Sprintf("%s.samplers[%d]", p, si)
			v.checkIndex(sp+".input", smp.Input, len(doc.Accessors), "accessor")
			v.checkIndex(sp+".output", smp.Output, len(doc.Accessors), "accessor")
			if smp.Interpolation.Valid {
				switch InterpolationMode(smp.Interpolation.Value) {
				case InterpolationLinear, InterpolationStep, InterpolationCubicSpline:
				default:
					v.addf(sp+".interpolation", "interpolation %q out of domain", smp.Interpolation.Value)
				}
			}
		}
		for ci, ch := range a.Channels {
			cp := fmt.Sprintf("%s.channels[%d]", p, ci)
			v.checkIndex(cp+".sampler", ch.Sampler, len(a.Samplers), "sampler")
			if ch.Target.Node != nil {
				v.checkIndex(cp+".target.node", *ch.Target.Node, len(doc.Nodes), "node")
			}
			if ch.Target.Path.Valid {
				switch ch.Target.Path.Value {
				case "translation", "rotation", "scale", "weights":
				default:
					v.addf(cp+".target.path", "path %q out of domain", ch.Target.Path.Value)
				}
			}
		}
	}

	for i, c := range doc.Cameras {
		p := fmt.Sprintf("cameras[%d]", i)
		if c.Type.Valid {
			switch c.Type.Value {
			case "perspective", "orthographic":
			default:
				v.addf(p+".type", "camera type %q out of domain", c.Type.Value)
			}
		}
	}

	for i, img := range doc.Images {
		if img.BufferView != nil {
			v.checkIndex(fmt.Sprintf("images[%d].bufferView", i), *img.BufferView, len(doc.BufferViews), "buffer view")
		}
	}
	for i, t := range doc.Textures {
		p := fmt.Sprintf("textures[%d]", i)
		if t.Source != nil {
			v.checkIndex(p+".source", *t.Source, len(doc.Images), "image")
		}
		if t.Sampler != nil {
			v.checkIndex(p+".sampler", *t.Sampler, len(doc.Samplers), "sampler")
		}
	}

	for i, sc := range doc.Scenes {
		for ni, n := range sc.Nodes {
			v.checkIndex(fmt.Sprintf("scenes[%d].nodes[%d]", i, ni), n, len(doc.Nodes), "node")
		}
	}
	if doc.Scene != nil {
		v.checkIndex("scene", *doc.Scene, len(doc.Scenes), "scene")
	}

	return v.findings
}

func (v *validator) checkTextureInfo(path string, ti *TextureInfo) {
	if ti == nil {
		return
	}
	v.checkIndex(path+".index", ti.Index, len(v.doc.Textures), "texture")
}
