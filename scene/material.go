package scene

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	aimath "github.com/asset-importer/scenekit/math"
)

// TextureType is a material property's semantic: what the texture (or
// color) is used for. None means the property carries no texture-slot
// meaning at all (e.g. ?mat.name).
type TextureType int

const (
	TextureNone TextureType = iota
	TextureDiffuse
	TextureSpecular
	TextureAmbient
	TextureEmissive
	TextureHeight
	TextureNormals
	TextureShininess
	TextureOpacity
	TextureDisplacement
	TextureLightmap
	TextureReflection
	TextureBaseColor
	TextureMetalness
	TextureDiffuseRoughness
	TextureAmbientOcclusion
	TextureSheen
	TextureClearcoat
	TextureTransmission
	TextureThickness
	TextureSheenColor
	TextureSheenRoughness
	TextureUnknown
)

// Common property keys, the short-string vocabulary shared by every
// importer and exporter.
const (
	KeyName             = "?mat.name"
	KeyTwoSided         = "$mat.twosided"
	KeyShadingModel     = "$mat.shadingm"
	KeyOpacity          = "$mat.opacity"
	KeyShininess        = "$mat.shininess"
	KeyMetallicFactor   = "$mat.metallicFactor"
	KeyRoughnessFactor  = "$mat.roughnessFactor"
	KeyGlossinessFactor = "$mat.glossinessFactor"
	KeySpecularFactor   = "$mat.specularFactor"
	KeyRefractI         = "$mat.refracti"
	KeyTransmissionFac  = "$mat.transmission.factor"
	KeyEmissiveIntensity = "$mat.emissiveIntensity"
	KeyThicknessFactor  = "$mat.volume.thicknessFactor"
	KeyAttenuationDist  = "$mat.volume.attenuationDistance"
	KeyAttenuationColor = "$mat.volume.attenuationColor"
	KeyGltfUnlit        = "$mat.gltf.unlit"
	KeyGltfAlphaMode    = "$mat.gltf.alphaMode"
	KeyGltfAlphaCutoff  = "$mat.gltf.alphaCutoff"

	KeyColorDiffuse  = "$clr.diffuse"
	KeyColorBase     = "$clr.base"
	KeyColorSpecular = "$clr.specular"
	KeyColorAmbient  = "$clr.ambient"
	KeyColorEmissive = "$clr.emissive"

	KeyTexFile          = "$tex.file"
	KeyTexUVWSrc        = "$tex.uvwsrc"
	KeyTexMapModeU      = "$tex.mapmodeu"
	KeyTexMapModeV      = "$tex.mapmodev"
	KeyTexScale         = "$tex.scale"
	KeyTexStrength      = "$tex.file.strength"
	KeyTexUVTransform   = "$tex.uvtrafo"
	KeyTexSamplerName   = "$tex.samplername"
	KeyTexMagFilter     = "$tex.magfilter"
	KeyTexMinFilter     = "$tex.minfilter"
)

// ShadingModel is the value stored at KeyShadingModel.
type ShadingModel int

const (
	ShadingPBR ShadingModel = iota
	ShadingUnlit
)

// VariantKind discriminates the tagged union stored in Variant.Value.
type VariantKind int

const (
	VariantBinary VariantKind = iota
	VariantFloatArray
	VariantDoubleArray
	VariantStringArray
	VariantIntegerArray
	VariantBuffer
)

// Variant is the property bag's value type: a byte-backed binary blob for
// wire-fidelity round-tripping, or one of several typed arrays for
// structured access without a reinterpret step.
type Variant struct {
	Kind     VariantKind
	Bytes    []byte // VariantBinary / VariantBuffer
	Floats   []float32
	Doubles  []float64
	Strings  []string
	Integers []int32
}

func VariantFromBinary(b []byte) Variant  { return Variant{Kind: VariantBinary, Bytes: b} }
func VariantFromBuffer(b []byte) Variant  { return Variant{Kind: VariantBuffer, Bytes: b} }
func VariantFromFloats(f ...float32) Variant {
	return Variant{Kind: VariantFloatArray, Floats: f}
}
func VariantFromString(s string) Variant {
	return Variant{Kind: VariantStringArray, Strings: []string{s}}
}
func VariantFromBool(b bool) Variant {
	v := byte(0)
	if b {
		v = 1
	}
	return Variant{Kind: VariantBinary, Bytes: []byte{v}}
}
func VariantFromInt(i int32) Variant {
	return Variant{Kind: VariantIntegerArray, Integers: []int32{i}}
}

// Property is one entry of a Material's property bag.
type Property struct {
	Key      string
	Index    uint32
	Semantic TextureType
	Value    Variant
}

// Material is the typed, semantic-tagged, variant-valued property bag
// every importer/exporter reads and writes materials through.
type Material struct {
	Properties []Property
}

func NewMaterial() *Material { return &Material{} }

func matches(p *Property, key string, semantic TextureType, index uint32) bool {
	return p.Key == key && p.Semantic == semantic && p.Index == index
}

// AddProperty inserts or overwrites the value for (key, semantic, index).
// semantic = TextureNone is a perfectly ordinary insert, not a no-op:
// non-texture properties all live under the TextureNone sentinel.
func (m *Material) AddProperty(key string, semantic TextureType, index uint32, v Variant) {
	for i := range m.Properties {
		if matches(&m.Properties[i], key, semantic, index) {
			m.Properties[i].Value = v
			return
		}
	}
	m.Properties = append(m.Properties, Property{Key: key, Index: index, Semantic: semantic, Value: v})
}

// Get returns the property for (key, semantic, index), if any.
func (m *Material) Get(key string, semantic TextureType, index uint32) (*Property, bool) {
	for i := range m.Properties {
		if matches(&m.Properties[i], key, semantic, index) {
			return &m.Properties[i], true
		}
	}
	return nil, false
}

// GetAny returns the first property matching key regardless of semantic or
// index, useful for scalar keys like ?mat.name that never carry either.
func (m *Material) GetAny(key string) (*Property, bool) {
	for i := range m.Properties {
		if m.Properties[i].Key == key {
			return &m.Properties[i], true
		}
	}
	return nil, false
}

func (m *Material) AddString(key string, semantic TextureType, index uint32, s string) {
	m.AddProperty(key, semantic, index, VariantFromString(s))
}

func (m *Material) AddFloat(key string, semantic TextureType, index uint32, f float32) {
	m.AddProperty(key, semantic, index, VariantFromFloats(f))
}

func (m *Material) AddBool(key string, semantic TextureType, index uint32, b bool) {
	m.AddProperty(key, semantic, index, VariantFromBool(b))
}

func (m *Material) AddColor(key string, semantic TextureType, index uint32, c aimath.Color4) {
	a := c.ToArray()
	m.AddProperty(key, semantic, index, VariantFromFloats(a[0], a[1], a[2], a[3]))
}

// AsString reinterprets a property's value as a string.
func (p *Property) AsString() (string, bool) {
	switch p.Value.Kind {
	case VariantStringArray:
		if len(p.Value.Strings) > 0 {
			return p.Value.Strings[0], true
		}
	case VariantBinary, VariantBuffer:
		return string(p.Value.Bytes), true
	}
	return "", false
}

// AsFloat reinterprets a property's value as a single float32. Binary and
// Buffer payloads are read as a little-endian IEEE-754 float32.
func (p *Property) AsFloat() (float32, bool) {
	switch p.Value.Kind {
	case VariantFloatArray:
		if len(p.Value.Floats) > 0 {
			return p.Value.Floats[0], true
		}
	case VariantDoubleArray:
		if len(p.Value.Doubles) > 0 {
			return float32(p.Value.Doubles[0]), true
		}
	case VariantIntegerArray:
		if len(p.Value.Integers) > 0 {
			return float32(p.Value.Integers[0]), true
		}
	case VariantBinary, VariantBuffer:
		if len(p.Value.Bytes) >= 4 {
			bits := binary.LittleEndian.Uint32(p.Value.Bytes)
			return math.Float32frombits(bits), true
		}
	}
	return 0, false
}

// AsBool reinterprets a property's value as a boolean: a non-zero leading
// byte for Binary/Buffer payloads, a non-zero float/int otherwise.
func (p *Property) AsBool() (bool, bool) {
	if f, ok := p.AsFloat(); ok {
		return f != 0, true
	}
	if p.Value.Kind == VariantBinary || p.Value.Kind == VariantBuffer {
		if len(p.Value.Bytes) > 0 {
			return p.Value.Bytes[0] != 0, true
		}
	}
	return false, false
}

// AsColorRGBA reinterprets a property's value as an RGBA color, reading up
// to four little-endian float32 components from a Binary/Buffer payload
// and defaulting missing trailing components to 0 (alpha defaults to 1 if
// entirely absent).
func (p *Property) AsColorRGBA() (aimath.Color4, bool) {
	switch p.Value.Kind {
	case VariantFloatArray:
		c := aimath.Color4{A: 1}
		n := len(p.Value.Floats)
		if n > 0 {
			c.R = p.Value.Floats[0]
		}
		if n > 1 {
			c.G = p.Value.Floats[1]
		}
		if n > 2 {
			c.B = p.Value.Floats[2]
		}
		if n > 3 {
			c.A = p.Value.Floats[3]
		}
		return c, n > 0
	case VariantBinary, VariantBuffer:
		b := p.Value.Bytes
		c := aimath.Color4{A: 1}
		readAt := func(off int) (float32, bool) {
			if off+4 > len(b) {
				return 0, false
			}
			return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])), true
		}
		ok := false
		if v, o := readAt(0); o {
			c.R, ok = v, true
		}
		if v, o := readAt(4); o {
			c.G = v
		}
		if v, o := readAt(8); o {
			c.B = v
		}
		if v, o := readAt(12); o {
			c.A = v
		}
		return c, ok
	}
	return aimath.Color4{}, false
}

// AsRealVec parses the property's value as a vector of reals. Binary and
// Buffer payloads are additionally tried as ASCII whitespace-separated
// numbers (for OBJ-origin data) when they don't evenly divide into
// float32 words.
func (p *Property) AsRealVec() ([]float32, bool) {
	switch p.Value.Kind {
	case VariantFloatArray:
		return p.Value.Floats, true
	case VariantDoubleArray:
		out := make([]float32, len(p.Value.Doubles))
		for i, d := range p.Value.Doubles {
			out[i] = float32(d)
		}
		return out, true
	case VariantBinary, VariantBuffer:
		b := p.Value.Bytes
		if len(b) > 0 && len(b)%4 == 0 && looksBinary(b) {
			out := make([]float32, len(b)/4)
			for i := range out {
				out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
			}
			return out, true
		}
		fields := strings.Fields(string(b))
		out := make([]float32, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, false
			}
			out = append(out, float32(v))
		}
		return out, len(out) > 0
	}
	return nil, false
}

// looksBinary is a cheap heuristic: ASCII text from OBJ sources contains
// only printable bytes and whitespace, so any byte outside that range
// means the blob is genuine binary float data, not text.
func looksBinary(b []byte) bool {
	for _, c := range b {
		if c < 0x09 || (c > 0x0d && c < 0x20) || c > 0x7e {
			return true
		}
	}
	return false
}
