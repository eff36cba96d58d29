package math

import "math"

// Mat4 is a row-major 4x4 transform matrix. Vectors are treated as column
// vectors: a transform is applied as M*v, and a composed transform
// A.Mul(B) applies B first, then A. Translation lives in the last column
// (m[row][3]) to match the wire layout documented for the neutral scene's
// node transforms.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Zero() Mat4 {
	return Mat4{}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	result := Mat4Zero()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

// MulVec applies m to v as a column vector: m*v.
func (m Mat4) MulVec(v Vec4) Vec4 {
	return Vec4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec(v.ToVec4(1.0)).ToVec3DivW()
}

func (m Mat4) Transpose() Mat4 {
	return Mat4{
		{m[0][0], m[1][0], m[2][0], m[3][0]},
		{m[0][1], m[1][1], m[2][1], m[3][1]},
		{m[0][2], m[1][2], m[2][2], m[3][2]},
		{m[0][3], m[1][3], m[2][3], m[3][3]},
	}
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[0][3] = translation.X
	m[1][3] = translation.Y
	m[2][3] = translation.Z
	return m
}

func Mat4Scale(scale Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = scale.X
	m[1][1] = scale.Y
	m[2][2] = scale.Z
	return m
}

func Mat4RotationX(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	return Mat4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationY(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationZ(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	return Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationAxis(axis Vec3, angle float32) Mat4 {
	axis = axis.Normalize()
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	t := 1 - c

	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Perspective(fovY, aspect, near, far float32) Mat4 {
	tanHalfFovy := float32(math.Tan(float64(fovY) / 2))

	m := Mat4Zero()
	m[0][0] = 1 / (aspect * tanHalfFovy)
	m[1][1] = 1 / tanHalfFovy
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -(2 * far * near) / (far - near)
	m[3][2] = -1
	return m
}

func Mat4Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	m := Mat4Identity()
	m[0][0] = 2 / (right - left)
	m[1][1] = 2 / (top - bottom)
	m[2][2] = -2 / (far - near)
	m[0][3] = -(right + left) / (right - left)
	m[1][3] = -(top + bottom) / (top - bottom)
	m[2][3] = -(far + near) / (far - near)
	return m
}

func Mat4LookAt(eye, target, up Vec3) Mat4 {
	zAxis := eye.Sub(target).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)

	return Mat4{
		{xAxis.X, xAxis.Y, xAxis.Z, -xAxis.Dot(eye)},
		{yAxis.X, yAxis.Y, yAxis.Z, -yAxis.Dot(eye)},
		{zAxis.X, zAxis.Y, zAxis.Z, -zAxis.Dot(eye)},
		{0, 0, 0, 1},
	}
}

// Mat4TRS composes translation * rotation * scale, the order every importer
// uses to build a node's local transform from decomposed TRS components.
func Mat4TRS(translation Vec3, rotation Quaternion, scale Vec3) Mat4 {
	return Mat4Translation(translation).Mul(rotation.ToMat4()).Mul(Mat4Scale(scale))
}

// Decomposition is the result of Mat4.Decompose: the translation, per-axis
// scale, and rotation implied by a (possibly non-uniformly scaled) 4x4
// transform.
type Decomposition struct {
	Translation Vec3
	Scale       Vec3
	Rotation    Quaternion
}

// Decompose extracts translation, scale and rotation from a row-major 4x4
// transform matrix built by Mat4TRS/Mat4Translation/Mat4Scale. Translation
// is read from the last column (m[row][3]); scale is the length of each of
// the first three columns; rotation is derived from the resulting 3x3
// rotation matrix once each column has been divided by its own scale.
//
// A zero-length column (degenerate scale on that axis) yields a zero
// column in the rotation matrix instead of dividing by zero; the
// quaternion extracted from such a matrix is not meaningful for that axis
// but the call never panics or produces NaN.
func (m Mat4) Decompose() Decomposition {
	translation := Vec3{X: m[0][3], Y: m[1][3], Z: m[2][3]}

	col0 := Vec3{X: m[0][0], Y: m[1][0], Z: m[2][0]}
	col1 := Vec3{X: m[0][1], Y: m[1][1], Z: m[2][1]}
	col2 := Vec3{X: m[0][2], Y: m[1][2], Z: m[2][2]}

	scale := Vec3{X: col0.Length(), Y: col1.Length(), Z: col2.Length()}

	var c0, c1, c2 Vec3
	if scale.X != 0 {
		c0 = col0.Mul(1 / scale.X)
	}
	if scale.Y != 0 {
		c1 = col1.Mul(1 / scale.Y)
	}
	if scale.Z != 0 {
		c2 = col2.Mul(1 / scale.Z)
	}

	rot := Mat4{
		{c0.X, c1.X, c2.X, 0},
		{c0.Y, c1.Y, c2.Y, 0},
		{c0.Z, c1.Z, c2.Z, 0},
		{0, 0, 0, 1},
	}

	return Decomposition{
		Translation: translation,
		Scale:       scale,
		Rotation:    quaternionFromRotationMatrix(rot),
	}
}

// IsIdentity reports whether m equals the identity matrix within epsilon,
// compared component-wise.
func (m Mat4) IsIdentity(epsilon float32) bool {
	id := Mat4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d := m[i][j] - id[i][j]
			if d < 0 {
				d = -d
			}
			if d > epsilon {
				return false
			}
		}
	}
	return true
}

func (m Mat4) Inverse() Mat4 {
	inv := Mat4Zero()

	inv[0][0] = m[1][1]*m[2][2]*m[3][3] - m[1][1]*m[2][3]*m[3][2] - m[2][1]*m[1][2]*m[3][3] + m[2][1]*m[1][3]*m[3][2] + m[3][1]*m[1][2]*m[2][3] - m[3][1]*m[1][3]*m[2][2]
	inv[1][0] = -m[1][0]*m[2][2]*m[3][3] + m[1][0]*m[2][3]*m[3][2] + m[2][0]*m[1][2]*m[3][3] - m[2][0]*m[1][3]*m[3][2] - m[3][0]*m[1][2]*m[2][3] + m[3][0]*m[1][3]*m[2][2]
	inv[2][0] = m[1][0]*m[2][1]*m[3][3] - m[1][0]*m[2][3]*m[3][1] - m[2][0]*m[1][1]*m[3][3] + m[2][0]*m[1][3]*m[3][1] + m[3][0]*m[1][1]*m[2][3] - m[3][0]*m[1][3]*m[2][1]
	inv[3][0] = -m[1][0]*m[2][1]*m[3][2] + m[1][0]*m[2][2]*m[3][1] + m[2][0]*m[1][1]*m[3][2] - m[2][0]*m[1][2]*m[3][1] - m[3][0]*m[1][1]*m[2][2] + m[3][0]*m[1][2]*m[2][1]

	det := m[0][0]*inv[0][0] + m[0][1]*inv[1][0] + m[0][2]*inv[2][0] + m[0][3]*inv[3][0]

	if det == 0 {
		return Mat4Identity()
	}

	det = 1 / det

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			inv[i][j] *= det
		}
	}

	return inv
}
