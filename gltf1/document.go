// Package gltf1 implements the glTF 1.0 codec (C10): the string-indexed
// JSON schema, an importer and an exporter against the same neutral
// scene model the 2.0 codec targets. The 1.0 material model is the
// four-slot color/texture scheme (ambient, diffuse, specular, emission)
// plus scalar two-sided/opacity/shininess values; techniques and shaders
// are carried structurally but not interpreted.
package gltf1

import "encoding/json"

// Document is the root JSON object of a glTF 1.0 asset. Unlike 2.0,
// every collection is an object keyed by user-visible string IDs.
type Document struct {
	Asset       Asset                 `json:"asset"`
	Buffers     map[string]Buffer     `json:"buffers,omitempty"`
	BufferViews map[string]BufferView `json:"bufferViews,omitempty"`
	Accessors   map[string]Accessor   `json:"accessors,omitempty"`
	Meshes      map[string]Mesh       `json:"meshes,omitempty"`
	Materials   map[string]Material   `json:"materials,omitempty"`
	Techniques  map[string]Technique  `json:"techniques,omitempty"`
	Nodes       map[string]Node       `json:"nodes,omitempty"`
	Images      map[string]Image      `json:"images,omitempty"`
	Textures    map[string]Texture    `json:"textures,omitempty"`
	Samplers    map[string]Sampler    `json:"samplers,omitempty"`
	Scenes      map[string]Scene      `json:"scenes,omitempty"`
	Scene       string                `json:"scene,omitempty"`

	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`
}

type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
	Copyright string `json:"copyright,omitempty"`
	// PremultipliedAlpha and profile are 1.0-only asset fields; kept so
	// a parse-serialize cycle does not drop them.
	PremultipliedAlpha bool            `json:"premultipliedAlpha,omitempty"`
	Profile            json.RawMessage `json:"profile,omitempty"`
}

type Scene struct {
	Name  string   `json:"name,omitempty"`
	Nodes []string `json:"nodes,omitempty"`
}

type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength,omitempty"`
	// Type is "arraybuffer" in every 1.0 asset in the wild; "text" is
	// legal per the schema but unseen.
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
}

type BufferView struct {
	Buffer     string `json:"buffer"`
	ByteOffset int    `json:"byteOffset"`
	ByteLength int    `json:"byteLength,omitempty"`
	Target     int    `json:"target,omitempty"`
	Name       string `json:"name,omitempty"`
}

type Accessor struct {
	BufferView    string    `json:"bufferView"`
	ByteOffset    int       `json:"byteOffset"`
	ByteStride    int       `json:"byteStride,omitempty"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float64 `json:"min,omitempty"`
	Max           []float64 `json:"max,omitempty"`
	Name          string    `json:"name,omitempty"`
}

type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

type Primitive struct {
	// Attributes maps a semantic (POSITION, NORMAL, TEXCOORD_0, ...) to
	// an accessor ID.
	Attributes map[string]string `json:"attributes"`
	Indices    string            `json:"indices,omitempty"`
	Material   string            `json:"material,omitempty"`
	Mode       *int              `json:"mode,omitempty"`
}

// MaterialValue is one entry of a material's values object: either a
// numeric array (colors, scalars) or a string texture ID. The 1.0
// schema leaves the shape to the technique; this sum type covers both
// observed forms.
type MaterialValue struct {
	Numbers []float64
	Texture string
}

func (v MaterialValue) MarshalJSON() ([]byte, error) {
	if v.Texture != "" {
		return json.Marshal(v.Texture)
	}
	return json.Marshal(v.Numbers)
}

func (v *MaterialValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v.Texture = s
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		v.Numbers = []float64{n}
		return nil
	}
	return json.Unmarshal(b, &v.Numbers)
}

type Material struct {
	Name      string                   `json:"name,omitempty"`
	Technique string                   `json:"technique,omitempty"`
	Values    map[string]MaterialValue `json:"values,omitempty"`
}

// Technique is carried opaquely: parsing the parameter/shader graph is
// out of this codec's scope, but a parse-serialize cycle keeps it.
type Technique struct {
	Name       string          `json:"name,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	States     json.RawMessage `json:"states,omitempty"`
}

type Node struct {
	Name        string       `json:"name,omitempty"`
	Children    []string     `json:"children,omitempty"`
	Matrix      *[16]float64 `json:"matrix,omitempty"`
	Translation *[3]float64  `json:"translation,omitempty"`
	Rotation    *[4]float64  `json:"rotation,omitempty"` // (x,y,z,w) wire order
	Scale       *[3]float64  `json:"scale,omitempty"`
	Meshes      []string     `json:"meshes,omitempty"`
	Camera      string       `json:"camera,omitempty"`
}

type Image struct {
	Name string `json:"name,omitempty"`
	URI  string `json:"uri,omitempty"`
}

type Texture struct {
	Name    string `json:"name,omitempty"`
	Sampler string `json:"sampler,omitempty"`
	Source  string `json:"source,omitempty"`
	Format  int    `json:"format,omitempty"`
	Target  int    `json:"target,omitempty"`
}

type Sampler struct {
	Name      string `json:"name,omitempty"`
	MagFilter int    `json:"magFilter,omitempty"`
	MinFilter int    `json:"minFilter,omitempty"`
	WrapS     int    `json:"wrapS,omitempty"`
	WrapT     int    `json:"wrapT,omitempty"`
}

// Wrap modes and filters share 2.0's GL numeric domain.
const (
	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497

	FilterLinear = 9729
)

// Primitive modes (same GL domain as 2.0).
const (
	ModePoints        = 0
	ModeLines         = 1
	ModeLineLoop      = 2
	ModeLineStrip     = 3
	ModeTriangles     = 4
	ModeTriangleStrip = 5
	ModeTriangleFan   = 6
)

// binaryBufferID is the reserved buffer ID whose bytes come from the
// BGLTF container's binary body rather than a URI.
const binaryBufferID = "binary_glTF"
