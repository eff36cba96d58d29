package gltf2

// Document is the root JSON object of a glTF 2.0 asset: integer-indexed
// arrays throughout, unlike 1.0's string-keyed objects.
type Document struct {
	Asset       Asset        `json:"asset"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Skins       []Skin       `json:"skins,omitempty"`
	Animations  []Animation  `json:"animations,omitempty"`
	Cameras     []Camera     `json:"cameras,omitempty"`
	Images      []Image      `json:"images,omitempty"`
	Textures    []Texture    `json:"textures,omitempty"`
	Samplers    []Sampler    `json:"samplers,omitempty"`
	Scenes      []Scene      `json:"scenes,omitempty"`
	Scene       *int         `json:"scene,omitempty"`

	ExtensionsUsed     []string `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

// Asset carries document metadata: version is mandatory, the rest
// optional per the schema.
type Asset struct {
	Version    string `json:"version"`
	Generator  string `json:"generator,omitempty"`
	Copyright  string `json:"copyright,omitempty"`
	MinVersion string `json:"minVersion,omitempty"`
}

// Scene is one entry of the document's top-level scene list.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// Buffer is a raw byte blob, referenced by URI (external/data-URI) or,
// for the first buffer of a GLB, implicitly the binary chunk.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
	Name       string `json:"name,omitempty"`
}

// BufferView is a contiguous, optionally strided slice of a Buffer.
type BufferView struct {
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset,omitempty"`
	ByteLength int    `json:"byteLength"`
	ByteStride int    `json:"byteStride,omitempty"`
	Target     int    `json:"target,omitempty"`
	Name       string `json:"name,omitempty"`
}

// AccessorSparse overlays Count replacement elements onto a base
// accessor at read time.
type AccessorSparse struct {
	Count   int                  `json:"count"`
	Indices AccessorSparseIdx    `json:"indices"`
	Values  AccessorSparseValues `json:"values"`
}

type AccessorSparseIdx struct {
	BufferView    int `json:"bufferView"`
	ByteOffset    int `json:"byteOffset,omitempty"`
	ComponentType int `json:"componentType"`
}

type AccessorSparseValues struct {
	BufferView int `json:"bufferView"`
	ByteOffset int `json:"byteOffset,omitempty"`
}

// Accessor is a strongly-typed view over a BufferView.
type Accessor struct {
	BufferView    *int                     `json:"bufferView,omitempty"`
	ByteOffset    int                      `json:"byteOffset,omitempty"`
	ComponentType int                      `json:"componentType"`
	Normalized    bool                     `json:"normalized,omitempty"`
	Count         int                      `json:"count"`
	Type          Checked[string]          `json:"type"`
	Min           []float64                `json:"min,omitempty"`
	Max           []float64                `json:"max,omitempty"`
	Sparse        *AccessorSparse          `json:"sparse,omitempty"`
	Name          string                   `json:"name,omitempty"`
}

// Mesh is a set of primitives, each an independently indexed draw call.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
	Weights    []float64   `json:"weights,omitempty"`
}

// Primitive is one GPU draw call's worth of attributes + topology.
type Primitive struct {
	Attributes map[string]int   `json:"attributes"`
	Indices    *int             `json:"indices,omitempty"`
	Material   *int             `json:"material,omitempty"`
	Mode       Checked[int]     `json:"mode"`
	Targets    []map[string]int `json:"targets,omitempty"`
}

// TextureInfo references a Texture plus the UV channel and (when
// KHR_texture_transform is present) a decomposed UV transform.
type TextureInfo struct {
	Index    int  `json:"index"`
	TexCoord int  `json:"texCoord,omitempty"`
	Scale    *float64 `json:"scale,omitempty"`    // normal textures only
	Strength *float64 `json:"strength,omitempty"` // occlusion textures only

	Extensions *TextureInfoExtensions `json:"extensions,omitempty"`
}

type TextureInfoExtensions struct {
	TextureTransform *KHRTextureTransform `json:"KHR_texture_transform,omitempty"`
}

type KHRTextureTransform struct {
	Offset   [2]float64 `json:"offset,omitempty"`
	Rotation float64    `json:"rotation,omitempty"`
	Scale    [2]float64 `json:"scale,omitempty"`
	TexCoord *int       `json:"texCoord,omitempty"`
}

// PBRMetallicRoughness is the core glTF 2.0 material model.
type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float64  `json:"baseColorFactor,omitempty"`
	BaseColorTexture         *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float64     `json:"metallicFactor,omitempty"`
	RoughnessFactor          *float64     `json:"roughnessFactor,omitempty"`
	MetallicRoughnessTexture *TextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// MaterialExtensions wires in the KHR material extensions this module
// round-trips.
type MaterialExtensions struct {
	Unlit               *struct{}                    `json:"KHR_materials_unlit,omitempty"`
	PBRSpecularGlossiness *KHRPBRSpecularGlossiness  `json:"KHR_materials_pbrSpecularGlossiness,omitempty"`
	Specular            *KHRMaterialsSpecular        `json:"KHR_materials_specular,omitempty"`
	Transmission        *KHRMaterialsTransmission    `json:"KHR_materials_transmission,omitempty"`
	Volume              *KHRMaterialsVolume          `json:"KHR_materials_volume,omitempty"`
	IOR                 *KHRMaterialsIOR             `json:"KHR_materials_ior,omitempty"`
	EmissiveStrength    *KHRMaterialsEmissiveStrength `json:"KHR_materials_emissive_strength,omitempty"`
}

type KHRPBRSpecularGlossiness struct {
	DiffuseFactor             *[4]float64  `json:"diffuseFactor,omitempty"`
	DiffuseTexture            *TextureInfo `json:"diffuseTexture,omitempty"`
	SpecularFactor            *[3]float64  `json:"specularFactor,omitempty"`
	GlossinessFactor          *float64     `json:"glossinessFactor,omitempty"`
	SpecularGlossinessTexture *TextureInfo `json:"specularGlossinessTexture,omitempty"`
}

type KHRMaterialsSpecular struct {
	SpecularFactor        *float64     `json:"specularFactor,omitempty"`
	SpecularTexture       *TextureInfo `json:"specularTexture,omitempty"`
	SpecularColorFactor   *[3]float64  `json:"specularColorFactor,omitempty"`
	SpecularColorTexture  *TextureInfo `json:"specularColorTexture,omitempty"`
}

type KHRMaterialsTransmission struct {
	TransmissionFactor  *float64     `json:"transmissionFactor,omitempty"`
	TransmissionTexture *TextureInfo `json:"transmissionTexture,omitempty"`
}

type KHRMaterialsVolume struct {
	ThicknessFactor     *float64     `json:"thicknessFactor,omitempty"`
	ThicknessTexture    *TextureInfo `json:"thicknessTexture,omitempty"`
	AttenuationDistance *float64     `json:"attenuationDistance,omitempty"`
	AttenuationColor    *[3]float64  `json:"attenuationColor,omitempty"`
}

type KHRMaterialsIOR struct {
	IOR *float64 `json:"ior,omitempty"`
}

type KHRMaterialsEmissiveStrength struct {
	EmissiveStrength *float64 `json:"emissiveStrength,omitempty"`
}

// Material is a glTF 2.0 material: the PBR metallic-roughness model plus
// the normal/occlusion/emissive texture slots and KHR extensions.
type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture        *TextureInfo          `json:"normalTexture,omitempty"`
	OcclusionTexture     *TextureInfo          `json:"occlusionTexture,omitempty"`
	EmissiveTexture      *TextureInfo          `json:"emissiveTexture,omitempty"`
	EmissiveFactor       *[3]float64           `json:"emissiveFactor,omitempty"`
	AlphaMode            Checked[string]       `json:"alphaMode,omitempty"`
	AlphaCutoff          *float64              `json:"alphaCutoff,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Extensions           *MaterialExtensions   `json:"extensions,omitempty"`
}

// Node is one entry of the document's flat node array; TRS and Matrix
// are mutually exclusive per the schema (Matrix wins if both present).
type Node struct {
	Name        string      `json:"name,omitempty"`
	Children    []int       `json:"children,omitempty"`
	Matrix      *[16]float64 `json:"matrix,omitempty"`
	Translation *[3]float64 `json:"translation,omitempty"`
	Rotation    *[4]float64 `json:"rotation,omitempty"` // (x,y,z,w) wire order
	Scale       *[3]float64 `json:"scale,omitempty"`
	Mesh        *int        `json:"mesh,omitempty"`
	Skin        *int        `json:"skin,omitempty"`
	Camera      *int        `json:"camera,omitempty"`
	Weights     []float64   `json:"weights,omitempty"`
}

// Skin binds a set of joint nodes to a mesh via inverse-bind matrices.
type Skin struct {
	Name                string `json:"name,omitempty"`
	InverseBindMatrices *int   `json:"inverseBindMatrices,omitempty"`
	Skeleton            *int   `json:"skeleton,omitempty"`
	Joints              []int  `json:"joints"`
}

// AnimationChannel targets one node property with one sampler's output.
type AnimationChannel struct {
	Sampler int                    `json:"sampler"`
	Target  AnimationChannelTarget `json:"target"`
}

type AnimationChannelTarget struct {
	Node *int            `json:"node,omitempty"`
	Path Checked[string] `json:"path"`
}

// AnimationSampler pairs an input (time) accessor with an output
// (value) accessor under an interpolation mode.
type AnimationSampler struct {
	Input         int                     `json:"input"`
	Output        int                     `json:"output"`
	Interpolation Checked[string]         `json:"interpolation,omitempty"`
}

type Animation struct {
	Name     string             `json:"name,omitempty"`
	Channels []AnimationChannel `json:"channels"`
	Samplers []AnimationSampler `json:"samplers"`
}

// Camera is a perspective or orthographic projection; exactly one of
// Perspective/Orthographic is populated per Type.
type Camera struct {
	Name         string              `json:"name,omitempty"`
	Type         Checked[string]     `json:"type"`
	Perspective  *CameraPerspective  `json:"perspective,omitempty"`
	Orthographic *CameraOrthographic `json:"orthographic,omitempty"`
}

type CameraPerspective struct {
	AspectRatio *float64 `json:"aspectRatio,omitempty"`
	YFov        float64  `json:"yfov"`
	ZFar        *float64 `json:"zfar,omitempty"`
	ZNear       float64  `json:"znear"`
}

type CameraOrthographic struct {
	XMag  float64 `json:"xmag"`
	YMag  float64 `json:"ymag"`
	ZFar  float64 `json:"zfar"`
	ZNear float64 `json:"znear"`
}

// Image is referenced by external/data URI, or (typically in a GLB) by
// a buffer view plus an explicit mime type.
type Image struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`
}

type Texture struct {
	Name    string `json:"name,omitempty"`
	Sampler *int   `json:"sampler,omitempty"`
	Source  *int   `json:"source,omitempty"`
}

type Sampler struct {
	Name      string `json:"name,omitempty"`
	MagFilter int    `json:"magFilter,omitempty"`
	MinFilter int    `json:"minFilter,omitempty"`
	WrapS     int    `json:"wrapS,omitempty"`
	WrapT     int    `json:"wrapT,omitempty"`
}

// Wrap modes (glTF 2.0 sampler.wrapS/wrapT domain).
const (
	WrapClampToEdge   = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat        = 10497
)

// Filters (sampler.magFilter/minFilter domain, magFilter subset).
const (
	FilterNearest = 9728
	FilterLinear  = 9729
)

// Accessor component types (accessor.componentType domain), mirrored
// from gltfbuf for schema-level (de)serialization.
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// Accessor element-type strings (accessor.type domain).
const (
	TypeScalar = "SCALAR"
	TypeVec2   = "VEC2"
	TypeVec3   = "VEC3"
	TypeVec4   = "VEC4"
	TypeMat2   = "MAT2"
	TypeMat3   = "MAT3"
	TypeMat4   = "MAT4"
)
