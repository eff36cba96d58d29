package gltf2

import (
	"github.com/asset-importer/scenekit/gltfbuf"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// exportMesh inverts the import side: it writes
// one Primitive per neutral Mesh, with positions required (a mesh
// lacking them is skipped) and every optional attribute channel emitted
// only if present.
func (c *exportCtx) exportMesh(m *scene.Mesh, materialIndex *int) *Primitive {
	if len(m.Positions) == 0 {
		return nil
	}
	prim := &Primitive{Attributes: map[string]int{}, Material: materialIndex}

	posAcc := c.w.WriteElements(vec3ToElements(m.Positions), gltfbuf.ComponentFloat, gltfbuf.TypeVec3, bufferTargetArray)
	prim.Attributes["POSITION"] = c.addAccessor(posAcc)

	if m.HasNormals() {
		acc := c.w.WriteElements(vec3ToElements(m.Normals), gltfbuf.ComponentFloat, gltfbuf.TypeVec3, bufferTargetArray)
		prim.Attributes["NORMAL"] = c.addAccessor(acc)
	}
	if m.HasNormals() && m.HasTangentsAndBitangents() {
		data := make([][]float64, len(m.Tangents))
		for i := range m.Tangents {
			sign := tangentHandedness(m.Normals[i], m.Tangents[i], m.Bitangents[i])
			data[i] = []float64{float64(m.Tangents[i].X), float64(m.Tangents[i].Y), float64(m.Tangents[i].Z), sign}
		}
		acc := c.w.WriteElements(data, gltfbuf.ComponentFloat, gltfbuf.TypeVec4, bufferTargetArray)
		prim.Attributes["TANGENT"] = c.addAccessor(acc)
	}

	for set := 0; set < m.ColorChannels; set++ {
		if !m.HasVertexColors(set) {
			continue
		}
		data := make([][]float64, len(m.Colors[set]))
		for i, col := range m.Colors[set] {
			data[i] = []float64{float64(col.R), float64(col.G), float64(col.B), float64(col.A)}
		}
		acc := c.w.WriteElements(data, gltfbuf.ComponentFloat, gltfbuf.TypeVec4, bufferTargetArray)
		prim.Attributes[colorSemanticKey(set)] = c.addAccessor(acc)
	}

	for set := 0; set < m.TextureCoordChannels; set++ {
		if !m.HasTextureCoords(set) {
			continue
		}
		data := make([][]float64, len(m.TextureCoords[set]))
		for i, uv := range m.TextureCoords[set] {
			data[i] = []float64{float64(uv.X), float64(1 - uv.Y)}
		}
		acc := c.w.WriteElements(data, gltfbuf.ComponentFloat, gltfbuf.TypeVec2, bufferTargetArray)
		prim.Attributes[uvSemanticKey(set)] = c.addAccessor(acc)
	}

	if len(m.Faces) > 0 {
		indices := flattenIndices(m.Faces)
		eng, _ := c.w.WriteIndices(indices, bufferTargetElementArray)
		prim.Indices = intp(c.addAccessor(eng))
	}
	prim.Mode = ValidValue(int(primitiveModeFor(m.PrimitiveTypes)))

	return prim
}

const (
	bufferTargetArray        = 34962
	bufferTargetElementArray = 34963
)

func primitiveModeFor(pt scene.PrimitiveType) PrimitiveMode {
	switch {
	case pt&scene.PrimitiveTriangle != 0 || pt&scene.PrimitivePolygon != 0:
		return ModeTriangles
	case pt&scene.PrimitiveLine != 0:
		return ModeLines
	case pt&scene.PrimitivePoint != 0:
		return ModePoints
	default:
		return ModeTriangles
	}
}

// tangentHandedness recomputes the glTF tangent.w sign from the stored
// normal/tangent/bitangent triple:
// sign = (normal x tangent) . bitangent >= 0 ? 1 : -1.
func tangentHandedness(n, t, b aimath.Vec3) float64 {
	if n.Cross(t).Dot(b) >= 0 {
		return 1
	}
	return -1
}

func (c *exportCtx) addAccessor(acc gltfbuf.Accessor) int {
	idx := len(c.doc.Accessors)
	c.doc.Accessors = append(c.doc.Accessors, accessorFromEngine(acc))
	return idx
}

func vec3ToElements(vs []aimath.Vec3) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = []float64{float64(v.X), float64(v.Y), float64(v.Z)}
	}
	return out
}

func flattenIndices(faces []scene.Face) []uint32 {
	var out []uint32
	for _, f := range faces {
		out = append(out, f...)
	}
	return out
}

func intp(i int) *int { return &i }
