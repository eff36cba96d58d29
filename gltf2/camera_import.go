package gltf2

import (
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// importCameras converts the document's camera definitions into neutral
// Cameras, baking each one's position/orientation from the world
// transform of whichever node references it.
func importCameras(doc *Document, tree *scene.NodeTree) []scene.Camera {
	cams := make([]scene.Camera, len(doc.Cameras))
	for i, gc := range doc.Cameras {
		c := scene.Camera{Name: cameraNameFor(gc.Name, i), Up: aimath.Vec3{Y: 1}, LookAt: aimath.Vec3{Z: -1}}
		if gc.Perspective != nil {
			c.HorizontalFOV = float32(gc.Perspective.YFov)
			c.ClipPlaneNear = float32(gc.Perspective.ZNear)
			if gc.Perspective.ZFar != nil {
				c.ClipPlaneFar = float32(*gc.Perspective.ZFar)
			}
			if gc.Perspective.AspectRatio != nil {
				c.AspectRatio = float32(*gc.Perspective.AspectRatio)
			}
		} else if gc.Orthographic != nil {
			c.OrthographicWidth = float32(gc.Orthographic.XMag * 2)
			c.ClipPlaneNear = float32(gc.Orthographic.ZNear)
			c.ClipPlaneFar = float32(gc.Orthographic.ZFar)
		}
		cams[i] = c
	}

	for ni := range tree.Nodes {
		n := &tree.Nodes[ni]
		if n.Camera == nil || *n.Camera < 0 || *n.Camera >= len(cams) {
			continue
		}
		w := tree.WorldTransform(scene.NodeIndex(ni))
		ci := *n.Camera
		cams[ci].Name = n.Name
		cams[ci].Position = w.MulVec3(aimath.Vec3{})
		cams[ci].LookAt = w.MulVec3(aimath.Vec3{Z: -1})
		up := w.MulVec3(aimath.Vec3{Y: 1}).Sub(cams[ci].Position)
		cams[ci].Up = up.Normalize()
	}
	return cams
}

func cameraNameFor(name string, i int) string {
	if name != "" {
		return name
	}
	return "camera_" + itoa(i)
}
