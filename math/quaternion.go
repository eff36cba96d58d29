package math

import "math"

// Quaternion stores components in (w, x, y, z) order — the in-memory
// layout used throughout this module. glTF (and most wire formats) store
// quaternions as (x, y, z, w); use FromWireXYZW/ToWireXYZW to convert at
// that boundary rather than reordering the struct itself. The source
// material this module is built from is internally inconsistent about
// constructor argument order between (w,x,y,z) and (x,y,z,w) call sites
// against the same type — this package picks (w,x,y,z) as the one
// unambiguous in-memory order and converts explicitly at every wire
// boundary instead.
type Quaternion struct {
	W, X, Y, Z float32
}

func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

// NewQuaternion constructs a quaternion from components in (w, x, y, z)
// order, matching the struct's in-memory layout.
func NewQuaternion(w, x, y, z float32) Quaternion {
	return Quaternion{W: w, X: x, Y: y, Z: z}
}

// FromWireXYZW builds a Quaternion from the (x, y, z, w) order glTF and
// similar wire formats use.
func FromWireXYZW(x, y, z, w float32) Quaternion {
	return Quaternion{W: w, X: x, Y: y, Z: z}
}

// ToWireXYZW returns the quaternion's components permuted into the
// (x, y, z, w) order glTF expects on the wire.
func (q Quaternion) ToWireXYZW() [4]float32 {
	return [4]float32{q.X, q.Y, q.Z, q.W}
}

func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	c := float32(math.Cos(float64(halfAngle)))

	axis = axis.Normalize()
	return Quaternion{
		W: c,
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

func QuaternionFromEuler(euler Vec3) Quaternion {
	cx := float32(math.Cos(float64(euler.X) / 2))
	sx := float32(math.Sin(float64(euler.X) / 2))
	cy := float32(math.Cos(float64(euler.Y) / 2))
	sy := float32(math.Sin(float64(euler.Y) / 2))
	cz := float32(math.Cos(float64(euler.Z) / 2))
	sz := float32(math.Sin(float64(euler.Z) / 2))

	return Quaternion{
		X: sx*cy*cz - cx*sy*sz,
		Y: cx*sy*cz + sx*cy*sz,
		Z: cx*cy*sz - sx*sy*cz,
		W: cx*cy*cz + sx*sy*sz,
	}
}

// quaternionFromRotationMatrix extracts a unit quaternion from a pure
// rotation matrix (column-vector convention, translation already removed)
// via the standard largest-diagonal-term branch, chosen for numerical
// stability over always pivoting on w.
func quaternionFromRotationMatrix(m Mat4) Quaternion {
	trace := m[0][0] + m[1][1] + m[2][2]

	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		return Quaternion{
			W: s / 4,
			X: (m[2][1] - m[1][2]) / s,
			Y: (m[0][2] - m[2][0]) / s,
			Z: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := float32(math.Sqrt(float64(1+m[0][0]-m[1][1]-m[2][2]))) * 2
		return Quaternion{
			W: (m[2][1] - m[1][2]) / s,
			X: s / 4,
			Y: (m[0][1] + m[1][0]) / s,
			Z: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := float32(math.Sqrt(float64(1+m[1][1]-m[0][0]-m[2][2]))) * 2
		return Quaternion{
			W: (m[0][2] - m[2][0]) / s,
			X: (m[0][1] + m[1][0]) / s,
			Y: s / 4,
			Z: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := float32(math.Sqrt(float64(1+m[2][2]-m[0][0]-m[1][1]))) * 2
		return Quaternion{
			W: (m[1][0] - m[0][1]) / s,
			X: (m[0][2] + m[2][0]) / s,
			Y: (m[1][2] + m[2][1]) / s,
			Z: s / 4,
		}
	}
}

func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
	}
}

func (q Quaternion) Normalize() Quaternion {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length > 0 {
		invLength := 1 / length
		return Quaternion{
			W: q.W * invLength,
			X: q.X * invLength,
			Y: q.Y * invLength,
			Z: q.Z * invLength,
		}
	}
	return q
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

func (q Quaternion) Inverse() Quaternion {
	conjugate := q.Conjugate()
	lengthSqr := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	if lengthSqr > 0 {
		invLengthSqr := 1 / lengthSqr
		return Quaternion{
			W: conjugate.W * invLengthSqr,
			X: conjugate.X * invLengthSqr,
			Y: conjugate.Y * invLengthSqr,
			Z: conjugate.Z * invLengthSqr,
		}
	}
	return q
}

func (q Quaternion) RotateVector(v Vec3) Vec3 {
	qVec := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qVec.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(qVec.Cross(t))
}

// ToMat4 returns the column-vector rotation matrix (M*v) equivalent to q.
func (q Quaternion) ToMat4() Mat4 {
	xx := q.X * q.X
	yy := q.Y * q.Y
	zz := q.Z * q.Z
	xy := q.X * q.Y
	xz := q.X * q.Z
	yz := q.Y * q.Z
	wx := q.W * q.X
	wy := q.W * q.Y
	wz := q.W * q.Z

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy), 0},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx), 0},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

func (q Quaternion) ToEuler() Vec3 {
	sinRCosP := 2 * (q.W*q.X + q.Y*q.Z)
	cosRCosP := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll := float32(math.Atan2(float64(sinRCosP), float64(cosRCosP)))

	sinP := 2 * (q.W*q.Y - q.Z*q.X)
	var pitch float32
	if math.Abs(float64(sinP)) >= 1 {
		pitch = float32(math.Copysign(math.Pi/2, float64(sinP)))
	} else {
		pitch = float32(math.Asin(float64(sinP)))
	}

	sinYCosR := 2 * (q.W*q.Z + q.X*q.Y)
	cosYCosR := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw := float32(math.Atan2(float64(sinYCosR), float64(cosYCosR)))

	return Vec3{X: pitch, Y: yaw, Z: roll}
}

func (q Quaternion) Lerp(other Quaternion, t float32) Quaternion {
	return Quaternion{
		W: q.W + (other.W-q.W)*t,
		X: q.X + (other.X-q.X)*t,
		Y: q.Y + (other.Y-q.Y)*t,
		Z: q.Z + (other.Z-q.Z)*t,
	}.Normalize()
}

func (q Quaternion) Slerp(other Quaternion, t float32) Quaternion {
	dot := q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W

	if dot < 0 {
		dot = -dot
		other = Quaternion{W: -other.W, X: -other.X, Y: -other.Y, Z: -other.Z}
	}

	if dot > 0.9995 {
		return q.Lerp(other, t)
	}

	theta0 := math.Acos(float64(dot))
	theta := theta0 * float64(t)
	sinTheta := math.Sin(theta)
	sinTheta0 := math.Sin(theta0)

	s0 := float32(math.Cos(theta) - float64(dot)*sinTheta/sinTheta0)
	s1 := float32(sinTheta / sinTheta0)

	return Quaternion{
		W: q.W*s0 + other.W*s1,
		X: q.X*s0 + other.X*s1,
		Y: q.Y*s0 + other.Y*s1,
		Z: q.Z*s0 + other.Z*s1,
	}
}
