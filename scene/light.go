package scene

import "github.com/asset-importer/scenekit/math"

type LightType int

const (
	LightUndefined LightType = iota
	LightDirectional
	LightPoint
	LightSpot
	LightAmbient
	LightArea
)

// Light describes a light source anchored to a node (by matching Name to
// a Node.Name), following the same node-lookup convention as Camera.
type Light struct {
	Name string
	Type LightType

	Position  math.Vec3
	Direction math.Vec3
	Up        math.Vec3

	// Attenuation* are the standard constant/linear/quadratic falloff
	// terms; irrelevant for LightDirectional.
	AttenuationConstant  float32
	AttenuationLinear    float32
	AttenuationQuadratic float32

	ColorDiffuse  math.Color4
	ColorSpecular math.Color4
	ColorAmbient  math.Color4

	// Spot-only. Angles in radians, measured from Direction.
	AngleInnerCone float32
	AngleOuterCone float32

	// Area-only.
	Size math.Vec2
}
