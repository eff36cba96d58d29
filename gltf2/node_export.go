package gltf2

import (
	"github.com/asset-importer/scenekit/gltfbuf"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// exportNodesAndMeshes walks the neutral NodeTree and emits one glTF
// Node per neutral node (skipping the synthetic scene root), merging
// every mesh attached to one node into a single glTF Mesh with multiple
// primitives (glTF groups all of one node's primitives under one mesh),
// and building a skin when any of those meshes carry bones.
func (c *exportCtx) exportNodesAndMeshes(matIndexOf map[int]int) (roots []int, nodeIdxByName map[string]int) {
	tree := c.scene.Nodes
	nodeIdxOf := make(map[scene.NodeIndex]int, len(tree.Nodes))
	nodeIdxByName = map[string]int{}

	// First pass: allocate a glTF node slot for every neutral node except
	// the root (glTF's scene.Nodes list names top-level roots directly).
	for i := range tree.Nodes {
		if scene.NodeIndex(i) == tree.Root {
			continue
		}
		nodeIdxOf[scene.NodeIndex(i)] = len(c.doc.Nodes)
		c.doc.Nodes = append(c.doc.Nodes, Node{})
	}

	for i := range tree.Nodes {
		if scene.NodeIndex(i) == tree.Root {
			continue
		}
		n := &tree.Nodes[i]
		gi := nodeIdxOf[scene.NodeIndex(i)]
		gn := Node{Name: c.names.Unique(nonEmpty(n.Name, "node"))}

		if !n.Transform.IsIdentity(c.opts.IdentityEpsilon) {
			if c.opts.NodeInTRS {
				d := n.Transform.Decompose()
				tr := [3]float64{float64(d.Translation.X), float64(d.Translation.Y), float64(d.Translation.Z)}
				wireQ := d.Rotation.ToWireXYZW()
				rot := [4]float64{float64(wireQ[0]), float64(wireQ[1]), float64(wireQ[2]), float64(wireQ[3])}
				sc := [3]float64{float64(d.Scale.X), float64(d.Scale.Y), float64(d.Scale.Z)}
				gn.Translation, gn.Rotation, gn.Scale = &tr, &rot, &sc
			} else {
				mat := matToColumnMajor16(n.Transform)
				gn.Matrix = &mat
			}
		}

		for _, c2 := range n.Children {
			gn.Children = append(gn.Children, nodeIdxOf[c2])
		}

		if len(n.Meshes) > 0 {
			meshIdx, skinIdx, hasSkin := c.exportMergedMesh(n, matIndexOf)
			gn.Mesh = &meshIdx
			if hasSkin {
				gn.Skin = &skinIdx
			}
		}
		if n.Camera != nil {
			gn.Camera = n.Camera
		}

		c.doc.Nodes[gi] = gn
		if n.Name != "" {
			nodeIdxByName[n.Name] = gi
		}
	}

	for _, c2 := range tree.Nodes[tree.Root].Children {
		roots = append(roots, nodeIdxOf[c2])
	}
	return roots, nodeIdxByName
}

// exportMergedMesh merges every scene.Mesh attached to node n into one
// glTF Mesh (one Primitive per neutral mesh) and builds a single skin
// from the union of bones referenced by any of those meshes.
func (c *exportCtx) exportMergedMesh(n *scene.Node, matIndexOf map[int]int) (meshIdx int, skinIdx int, hasSkin bool) {
	gm := Mesh{Name: c.names.Unique("mesh")}
	jointOf := map[scene.NodeIndex]int{}
	var joints []scene.NodeIndex
	var ibms [][]float64

	for _, mi := range n.Meshes {
		m := c.scene.Meshes[mi]
		var matIdx *int
		if gi, ok := matIndexOf[m.MaterialIndex]; ok {
			matIdx = intp(gi)
		}
		prim := c.exportMesh(m, matIdx)
		if prim == nil {
			continue
		}
		if len(m.AnimMeshes) > 0 {
			prim.Targets = c.exportMorphTargets(m)
		}
		if len(m.Bones) > 0 {
			localJoint := make([]int, len(m.Bones))
			for bi, b := range m.Bones {
				ji, ok := jointOf[b.NodeIndex]
				if !ok {
					ji = len(joints)
					jointOf[b.NodeIndex] = ji
					joints = append(joints, b.NodeIndex)
					ibms = append(ibms, matToColumnMajorSlice(b.OffsetMatrix))
				}
				localJoint[bi] = ji
			}
			c.addSkinningAttributes(prim, m, localJoint)
		}
		gm.Primitives = append(gm.Primitives, *prim)
	}

	meshIdx = len(c.doc.Meshes)
	c.doc.Meshes = append(c.doc.Meshes, gm)

	if len(joints) == 0 {
		return meshIdx, 0, false
	}

	ibmAcc := c.w.WriteElements(ibms, gltfbuf.ComponentFloat, gltfbuf.TypeMat4, 0)
	ibmIdx := c.addAccessor(ibmAcc)
	gJoints := make([]int, len(joints))
	for i, j := range joints {
		gJoints[i] = int(j)
	}
	skinIdx = len(c.doc.Skins)
	c.doc.Skins = append(c.doc.Skins, Skin{
		Name:                c.names.Unique("skin"),
		InverseBindMatrices: intp(ibmIdx),
		Joints:              gJoints,
	})
	return meshIdx, skinIdx, true
}

func (c *exportCtx) exportMorphTargets(m *scene.Mesh) []map[string]int {
	targets := make([]map[string]int, 0, len(m.AnimMeshes))
	for _, am := range m.AnimMeshes {
		t := map[string]int{}
		if len(am.Positions) == len(m.Positions) {
			offsets := make([]aimath.Vec3, len(am.Positions))
			for i := range offsets {
				offsets[i] = am.Positions[i].Sub(m.Positions[i])
			}
			acc := c.w.WriteElements(vec3ToElements(offsets), gltfbuf.ComponentFloat, gltfbuf.TypeVec3, 0)
			t["POSITION"] = c.addAccessor(acc)
		}
		if c.opts.TargetNormalExp && len(am.Normals) == len(m.Normals) {
			offsets := make([]aimath.Vec3, len(am.Normals))
			for i := range offsets {
				offsets[i] = am.Normals[i].Sub(m.Normals[i])
			}
			acc := c.w.WriteElements(vec3ToElements(offsets), gltfbuf.ComponentFloat, gltfbuf.TypeVec3, 0)
			t["NORMAL"] = c.addAccessor(acc)
		}
		targets = append(targets, t)
	}
	return targets
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
