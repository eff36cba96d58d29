package scene

import (
	"fmt"

	"github.com/asset-importer/scenekit/math"
)

// PrimitiveType is a bitset: a single Mesh may mix primitive kinds across
// its Faces (a soup of points, lines and triangles is legal).
type PrimitiveType uint32

const (
	PrimitivePoint PrimitiveType = 1 << iota
	PrimitiveLine
	PrimitiveTriangle
	PrimitivePolygon
)

// AIMaxTextureCoords and AIMaxColorSets bound the per-vertex channel
// arrays, matching the fixed-size channel model every importer/exporter
// in the pack assumes.
const (
	AIMaxTextureCoords = 8
	AIMaxColorSets     = 8
)

// Face is a single polygon's vertex-index list: length 1 is a point,
// length 2 a line, length 3 a triangle, length >=4 an arbitrary polygon.
type Face []uint32

func (f Face) primitiveType() PrimitiveType {
	switch len(f) {
	case 1:
		return PrimitivePoint
	case 2:
		return PrimitiveLine
	case 3:
		return PrimitiveTriangle
	default:
		return PrimitivePolygon
	}
}

// VertexWeight binds one vertex of the mesh a Bone belongs to, with the
// blend weight that vertex contributes to the bone.
type VertexWeight struct {
	VertexID uint32
	Weight   float32
}

// Bone is a named influence over a subset of a Mesh's vertices, with the
// matrix that maps mesh-space (bind pose) vertices into bone space.
type Bone struct {
	Name          string
	OffsetMatrix  math.Mat4
	NodeIndex     NodeIndex
	Weights       []VertexWeight
}

// AnimMesh is a named set of per-vertex overrides (a morph target):
// fields left nil/empty leave the base Mesh's data unchanged when the
// target's Weight is blended in.
type AnimMesh struct {
	Name     string
	Weight   float32
	Positions []math.Vec3
	Normals   []math.Vec3
	Tangents  []math.Vec3
	Colors    [AIMaxColorSets][]math.Color4
}

// Mesh is a single-material vertex buffer plus its face topology. Arrays
// other than Positions and Faces are optional (nil when absent) but, when
// present, are exactly len(Positions) long.
type Mesh struct {
	Name           string
	PrimitiveTypes PrimitiveType

	Positions []math.Vec3
	Normals   []math.Vec3
	Tangents  []math.Vec3
	Bitangents []math.Vec3

	TextureCoords      [AIMaxTextureCoords][]math.Vec3
	TextureCoordChannels int // number of channels actually populated, <= AIMaxTextureCoords
	Colors             [AIMaxColorSets][]math.Color4
	ColorChannels      int

	Faces []Face

	MaterialIndex int

	Bones         []Bone
	AnimMeshes    []AnimMesh

	// AttachmentMeshes indexes into Scene.Meshes: meshes logically attached
	// to this one (e.g. a separate-material sub-mesh of the same object)
	// that exporters may choose to merge back together.
	AttachmentMeshes []int
}

// Validate checks the structural invariants every Mesh must hold before
// it can be handed to a post-process pass or exporter: every face index
// in range, and every populated per-vertex array exactly len(Positions).
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	checkLen := func(name string, got int) error {
		if got != 0 && got != n {
			return fmt.Errorf("mesh %q: %s has %d entries, want %d (len(Positions))", m.Name, name, got, n)
		}
		return nil
	}
	if err := checkLen("Normals", len(m.Normals)); err != nil {
		return err
	}
	if err := checkLen("Tangents", len(m.Tangents)); err != nil {
		return err
	}
	if err := checkLen("Bitangents", len(m.Bitangents)); err != nil {
		return err
	}
	for i := 0; i < m.TextureCoordChannels; i++ {
		if err := checkLen(fmt.Sprintf("TextureCoords[%d]", i), len(m.TextureCoords[i])); err != nil {
			return err
		}
	}
	for i := 0; i < m.ColorChannels; i++ {
		if err := checkLen(fmt.Sprintf("Colors[%d]", i), len(m.Colors[i])); err != nil {
			return err
		}
	}
	for fi, f := range m.Faces {
		for _, idx := range f {
			if int(idx) >= n {
				return fmt.Errorf("mesh %q: face %d references vertex %d, have %d vertices", m.Name, fi, idx, n)
			}
		}
	}
	return nil
}

// ComputePrimitiveTypes recomputes PrimitiveTypes from Faces, the way an
// importer does once it has finished appending every face.
func (m *Mesh) ComputePrimitiveTypes() {
	var pt PrimitiveType
	for _, f := range m.Faces {
		pt |= f.primitiveType()
	}
	m.PrimitiveTypes = pt
}

// HasNormals, HasTangentsAndBitangents and HasBones mirror the common
// query helpers every caller reaches for instead of nil-checking fields
// directly.
func (m *Mesh) HasNormals() bool { return len(m.Normals) > 0 }
func (m *Mesh) HasTangentsAndBitangents() bool {
	return len(m.Tangents) > 0 && len(m.Bitangents) > 0
}
func (m *Mesh) HasBones() bool { return len(m.Bones) > 0 }
func (m *Mesh) HasTextureCoords(channel int) bool {
	return channel < m.TextureCoordChannels && len(m.TextureCoords[channel]) > 0
}
func (m *Mesh) HasVertexColors(channel int) bool {
	return channel < m.ColorChannels && len(m.Colors[channel]) > 0
}
