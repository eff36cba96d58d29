package postprocess

import (
	"testing"

	"github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// unitCube returns the 8 corners of a unit cube and its 12 triangular
// faces (two per side), the standard fixture for normal-generation
// tests: every corner is shared by several triangles on 3 sides, and
// face-normal generation gives each triangle its own copy of a corner
// an earlier triangle claimed, so 12 x 3 = 36 vertices result.
func unitCube() *scene.Mesh {
	p := []math.Vec3{
		math.NewVec3(0, 0, 0), math.NewVec3(1, 0, 0),
		math.NewVec3(1, 1, 0), math.NewVec3(0, 1, 0),
		math.NewVec3(0, 0, 1), math.NewVec3(1, 0, 1),
		math.NewVec3(1, 1, 1), math.NewVec3(0, 1, 1),
	}
	faces := []scene.Face{
		{0, 1, 2}, {0, 2, 3}, // -Z
		{5, 4, 7}, {5, 7, 6}, // +Z
		{4, 0, 3}, {4, 3, 7}, // -X
		{1, 5, 6}, {1, 6, 2}, // +X
		{3, 2, 6}, {3, 6, 7}, // +Y
		{4, 5, 1}, {4, 1, 0}, // -Y
	}
	m := &scene.Mesh{Name: "cube", Positions: p, Faces: faces}
	m.ComputePrimitiveTypes()
	return m
}

func TestFaceNormalsOnUnitCube(t *testing.T) {
	m := unitCube()
	generateFaceNormals(m, Options{Steps: StepGenNormals})

	if len(m.Positions) != 36 {
		t.Errorf("expected 36 positions after duplication, got %d", len(m.Positions))
	}
	if len(m.Normals) != 36 {
		t.Errorf("expected 36 normals, got %d", len(m.Normals))
	}
	for i, n := range m.Normals {
		if n.Length() < 0.99 || n.Length() > 1.01 {
			t.Errorf("normal %d not unit length: %v", i, n)
		}
	}
	if err := m.Validate(); err != nil {
		t.Errorf("mesh invalid after face-normal generation: %v", err)
	}
}

func TestFaceNormalsSkipIfPresentUnlessForced(t *testing.T) {
	m := unitCube()
	m.Normals = make([]math.Vec3, len(m.Positions))
	for i := range m.Normals {
		m.Normals[i] = math.NewVec3(0, 1, 0)
	}
	generateFaceNormals(m, Options{Steps: StepGenNormals})
	if len(m.Positions) != 8 {
		t.Errorf("expected no duplication when valid normals already present, got %d positions", len(m.Positions))
	}

	generateFaceNormals(m, Options{Steps: StepGenNormals | StepForceGenNormals})
	if len(m.Positions) != 36 {
		t.Errorf("expected ForceGenNormals to regenerate and duplicate, got %d positions", len(m.Positions))
	}
}

func TestFaceNormalsShortFaceGetsDefault(t *testing.T) {
	m := &scene.Mesh{
		Positions: []math.Vec3{math.Vec3Zero, math.NewVec3(1, 0, 0)},
		Faces:     []scene.Face{{0, 1}},
	}
	m.ComputePrimitiveTypes()
	generateFaceNormals(m, Options{Steps: StepGenNormals})
	if len(m.Positions) != 2 {
		t.Errorf("expected no duplication for a 2-vertex face, got %d", len(m.Positions))
	}
	for _, n := range m.Normals {
		if n != defaultNormal {
			t.Errorf("expected default normal, got %v", n)
		}
	}
}

func TestRunSkipsNonVerboseFormat(t *testing.T) {
	s := scene.NewScene("s")
	s.Flags |= scene.NonVerboseFormat
	m := unitCube()
	s.Meshes = append(s.Meshes, m)

	err := Run(s, Options{Steps: StepGenNormals}, FaceNormalPass{})
	if err == nil {
		t.Error("expected an error when NonVerboseFormat is set")
	}
}
