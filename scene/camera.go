package scene

import "github.com/asset-importer/scenekit/math"

// Camera describes a view frustum anchored to a node (by matching Name to
// a Node.Name); the node's world transform supplies position/orientation.
type Camera struct {
	Name string

	Position math.Vec3
	Up       math.Vec3
	LookAt   math.Vec3

	HorizontalFOV float32 // radians
	ClipPlaneNear float32
	ClipPlaneFar  float32
	AspectRatio   float32 // 0 means "derive from viewport"

	// Orthographic width in scene units; zero means this camera is
	// perspective rather than orthographic.
	OrthographicWidth float32
}
