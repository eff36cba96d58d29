package gltf2

import (
	"sort"

	"github.com/asset-importer/scenekit/gltfbuf"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// matToColumnMajorSlice is matToColumnMajor16 flattened to a plain
// slice, the shape gltfbuf.Writer.WriteElements expects for a MAT4
// accessor (inverseBindMatrices).
func matToColumnMajorSlice(m aimath.Mat4) []float64 {
	a := matToColumnMajor16(m)
	return a[:]
}

type jointWeight struct {
	joint  int
	weight float32
}

// addSkinningAttributes rebuilds per-vertex joint/weight lists from a
// mesh's Bone list (each bone carries the vertices it influences) and
// emits them as JOINTS_n/WEIGHTS_n accessor pairs on prim, honoring
// Options.UnlimitedSkinningBonesPerVertex. localJoint[i] is the
// skin-local joint index for m.Bones[i].
func (c *exportCtx) addSkinningAttributes(prim *Primitive, m *scene.Mesh, localJoint []int) {
	n := len(m.Positions)
	perVertex := make([][]jointWeight, n)
	for bi, b := range m.Bones {
		for _, vw := range b.Weights {
			if vw.Weight == 0 || int(vw.VertexID) >= n {
				continue
			}
			perVertex[vw.VertexID] = append(perVertex[vw.VertexID], jointWeight{localJoint[bi], vw.Weight})
		}
	}

	maxInfluences := 1
	for _, jw := range perVertex {
		sort.Slice(jw, func(i, j int) bool { return jw[i].weight > jw[j].weight })
		if len(jw) > maxInfluences {
			maxInfluences = len(jw)
		}
	}

	groups := 1
	if c.opts.UnlimitedSkinningBonesPerVertex {
		groups = (maxInfluences + 3) / 4
		if groups < 1 {
			groups = 1
		}
	}

	for g := 0; g < groups; g++ {
		jointsData := make([][]float64, n)
		weightsData := make([][]float64, n)
		for v := 0; v < n; v++ {
			var j [4]float64
			var w [4]float64
			for slot := 0; slot < 4; slot++ {
				idx := g*4 + slot
				if idx < len(perVertex[v]) {
					j[slot] = float64(perVertex[v][idx].joint)
					w[slot] = float64(perVertex[v][idx].weight)
				}
			}
			jointsData[v] = j[:]
			weightsData[v] = w[:]
		}
		jAcc := c.w.WriteElements(jointsData, gltfbuf.ComponentUnsignedShort, gltfbuf.TypeVec4, bufferTargetArray)
		wAcc := c.w.WriteElements(weightsData, gltfbuf.ComponentFloat, gltfbuf.TypeVec4, bufferTargetArray)
		prim.Attributes[jointsSemanticKey(g)] = c.addAccessor(jAcc)
		prim.Attributes[weightsSemanticKey(g)] = c.addAccessor(wAcc)
	}
}
