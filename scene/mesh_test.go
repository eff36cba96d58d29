package scene

import (
	"testing"

	"github.com/asset-importer/scenekit/math"
)

func unitTriangle() *Mesh {
	return &Mesh{
		Name: "tri",
		Positions: []math.Vec3{
			math.NewVec3(0, 0, 0),
			math.NewVec3(1, 0, 0),
			math.NewVec3(0, 1, 0),
		},
		Faces: []Face{{0, 1, 2}},
	}
}

func TestMeshValidateOK(t *testing.T) {
	m := unitTriangle()
	m.ComputePrimitiveTypes()
	if err := m.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if m.PrimitiveTypes != PrimitiveTriangle {
		t.Errorf("expected PrimitiveTriangle, got %v", m.PrimitiveTypes)
	}
}

func TestMeshValidateRejectsOutOfRangeFace(t *testing.T) {
	m := unitTriangle()
	m.Faces = append(m.Faces, Face{0, 1, 5})
	if err := m.Validate(); err == nil {
		t.Error("expected an error for out-of-range face index")
	}
}

func TestMeshValidateRejectsMismatchedNormals(t *testing.T) {
	m := unitTriangle()
	m.Normals = []math.Vec3{math.Vec3Up, math.Vec3Up} // wrong length
	if err := m.Validate(); err == nil {
		t.Error("expected an error for mismatched Normals length")
	}
}

func TestMeshPrimitiveTypesMixed(t *testing.T) {
	m := &Mesh{
		Positions: make([]math.Vec3, 4),
		Faces: []Face{
			{0},       // point
			{0, 1},    // line
			{0, 1, 2}, // triangle
			{0, 1, 2, 3}, // polygon
		},
	}
	m.ComputePrimitiveTypes()
	want := PrimitivePoint | PrimitiveLine | PrimitiveTriangle | PrimitivePolygon
	if m.PrimitiveTypes != want {
		t.Errorf("expected %v, got %v", want, m.PrimitiveTypes)
	}
}

func TestMeshHasHelpers(t *testing.T) {
	m := unitTriangle()
	if m.HasNormals() {
		t.Error("expected HasNormals false")
	}
	m.Normals = []math.Vec3{math.Vec3Up, math.Vec3Up, math.Vec3Up}
	if !m.HasNormals() {
		t.Error("expected HasNormals true")
	}
	if m.HasBones() {
		t.Error("expected HasBones false")
	}
}
