// Package interop converts this module's numeric primitives to and
// from go-gl/mathgl's mgl32 types, for callers (renderers, engines)
// that already speak mathgl and want to consume imported scenes
// without a hand-written shim.
package interop

import (
	"github.com/go-gl/mathgl/mgl32"

	aimath "github.com/asset-importer/scenekit/math"
)

// ToMGLVec3 converts a Vec3.
func ToMGLVec3(v aimath.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// FromMGLVec3 converts back.
func FromMGLVec3(v mgl32.Vec3) aimath.Vec3 {
	return aimath.Vec3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// ToMGLQuat converts a quaternion. Both sides store scalar-first
// in memory (mgl32.Quat is {W, V}), so no component permutation is
// needed here, unlike the glTF wire boundary.
func ToMGLQuat(q aimath.Quaternion) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

// FromMGLQuat converts back.
func FromMGLQuat(q mgl32.Quat) aimath.Quaternion {
	return aimath.NewQuaternion(q.W, q.V.X(), q.V.Y(), q.V.Z())
}

// ToMGLMat4 converts a row-major Mat4 into mgl32's column-major
// layout.
func ToMGLMat4(m aimath.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = m[row][col]
		}
	}
	return out
}

// FromMGLMat4 converts back.
func FromMGLMat4(m mgl32.Mat4) aimath.Mat4 {
	var out aimath.Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[row][col] = m[col*4+row]
		}
	}
	return out
}
