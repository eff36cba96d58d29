package postprocess

import (
	"math"
	"testing"

	aimath "github.com/asset-importer/scenekit/math"
)

func TestSmoothNormalsOnUnitCubeAt175Degrees(t *testing.T) {
	m := unitCube()
	opts := Options{
		Steps:       StepGenSmoothNormals,
		SmoothAngle: float32(175.0 * math.Pi / 180.0),
		Epsilon:     1e-4,
	}
	generateSmoothNormals(m, opts)

	if len(m.Positions) != 8 {
		t.Fatalf("smooth-normal pass must not modify the vertex array, got %d positions", len(m.Positions))
	}
	if len(m.Normals) != 8 {
		t.Fatalf("expected 8 normals, got %d", len(m.Normals))
	}
	for i, n := range m.Normals {
		l := n.Length()
		if l < 0.99 || l > 1.01 {
			t.Errorf("normal %d not unit length: %v (len %v)", i, n, l)
		}
		want := float32(1.0 / math.Sqrt(3))
		for _, c := range []float32{n.X, n.Y, n.Z} {
			if abs32(c) < want-0.05 || abs32(c) > want+0.05 {
				t.Errorf("normal %d component %v not close to ±%v", i, c, want)
			}
		}
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func TestSmoothNormalsAngleLimited(t *testing.T) {
	m := unitCube()
	opts := Options{
		Steps:       StepGenSmoothNormals,
		SmoothAngle: float32(10.0 * math.Pi / 180.0), // tight: cube faces won't merge
		Epsilon:     1e-4,
	}
	generateSmoothNormals(m, opts)

	for _, n := range m.Normals {
		// With a tight angle limit, each corner's output should be one
		// of its own incident face normals (axis-aligned), not the
		// diagonal average.
		axisAligned := 0
		for _, c := range []float32{n.X, n.Y, n.Z} {
			if abs32(c) > 0.99 {
				axisAligned++
			}
		}
		if axisAligned != 1 {
			t.Errorf("expected an axis-aligned normal under a tight smooth angle, got %v", n)
		}
	}
	_ = aimath.Vec3{}
}
