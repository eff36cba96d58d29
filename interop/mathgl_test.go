package interop

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	aimath "github.com/asset-importer/scenekit/math"
)

func TestVec3RoundTrip(t *testing.T) {
	v := aimath.Vec3{X: 1, Y: -2, Z: 3.5}
	if got := FromMGLVec3(ToMGLVec3(v)); got != v {
		t.Fatalf("round trip = %v, want %v", got, v)
	}
}

func TestQuatRoundTrip(t *testing.T) {
	q := aimath.NewQuaternion(0.5, 0.5, -0.5, 0.5)
	back := FromMGLQuat(ToMGLQuat(q))
	if back != q {
		t.Fatalf("round trip = %v, want %v", back, q)
	}
}

func TestMat4TranslationAgrees(t *testing.T) {
	m := aimath.Mat4Translation(aimath.Vec3{X: 3, Y: 4, Z: 5})
	gl := ToMGLMat4(m)
	want := mgl32.Translate3D(3, 4, 5)
	if gl != want {
		t.Fatalf("mgl matrix = %v, want %v", gl, want)
	}
	if back := FromMGLMat4(gl); back != m {
		t.Fatalf("round trip = %v, want %v", back, m)
	}
}

func TestMat4TransformAgrees(t *testing.T) {
	q := aimath.NewQuaternion(0.7071068, 0, 0.7071068, 0).Normalize()
	m := aimath.Mat4TRS(aimath.Vec3{X: 1}, q, aimath.Vec3{X: 2, Y: 2, Z: 2})
	p := aimath.Vec3{X: 1, Y: 0, Z: 0}

	ours := m.MulVec3(p)
	theirs := ToMGLMat4(m).Mul4x1(ToMGLVec3(p).Vec4(1))

	const tol = 1e-5
	if d := ours.X - theirs.X(); d > tol || d < -tol {
		t.Errorf("x: %v vs %v", ours.X, theirs.X())
	}
	if d := ours.Y - theirs.Y(); d > tol || d < -tol {
		t.Errorf("y: %v vs %v", ours.Y, theirs.Y())
	}
	if d := ours.Z - theirs.Z(); d > tol || d < -tol {
		t.Errorf("z: %v vs %v", ours.Z, theirs.Z())
	}
}
