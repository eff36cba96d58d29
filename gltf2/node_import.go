package gltf2

import (
	"github.com/asset-importer/scenekit/gltfbuf"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// importNodes builds the neutral NodeTree from the document's flat node
// array, attaching mesh/camera indices and (via importSkins) bones.
// meshRanges maps a glTF mesh index to the contiguous neutral mesh
// range its primitives flattened into.
func importNodes(ic *importCtx, meshRanges []meshRange, meshes []*scene.Mesh, meshPrims []Primitive) (*scene.NodeTree, error) {
	tree := &scene.NodeTree{Root: scene.NodeIndex(len(ic.doc.Nodes))}
	tree.Nodes = make([]scene.Node, len(ic.doc.Nodes)+1)
	tree.Nodes[tree.Root] = scene.Node{Name: "ROOT", Transform: aimath.Mat4Identity(), Parent: nil}

	for i, gn := range ic.doc.Nodes {
		n := scene.Node{
			Name:      nodeNameOrDefault(gn.Name, i),
			Transform: nodeTransform(gn),
		}
		if gn.Mesh != nil && *gn.Mesh < len(meshRanges) {
			r := meshRanges[*gn.Mesh]
			for mi := r.Start; mi < r.End; mi++ {
				n.Meshes = append(n.Meshes, mi)
			}
		}
		if gn.Camera != nil {
			ci := *gn.Camera
			n.Camera = &ci
		}
		tree.Nodes[i] = n
	}

	rootChildren := map[int]bool{}
	for i, gn := range ic.doc.Nodes {
		for _, c := range gn.Children {
			if c < 0 || c >= len(ic.doc.Nodes) {
				continue
			}
			p := scene.NodeIndex(i)
			tree.Nodes[c].Parent = &p
			tree.Nodes[i].Children = append(tree.Nodes[i].Children, scene.NodeIndex(c))
			rootChildren[c] = true
		}
	}
	for i := range ic.doc.Nodes {
		if !rootChildren[i] {
			p := tree.Root
			tree.Nodes[i].Parent = &p
			tree.Nodes[tree.Root].Children = append(tree.Nodes[tree.Root].Children, scene.NodeIndex(i))
		}
	}

	if err := importSkins(ic, tree, meshes, meshPrims); err != nil {
		return nil, err
	}

	return tree, nil
}

func nodeNameOrDefault(name string, i int) string {
	if name != "" {
		return name
	}
	return "node_" + itoa(i)
}

func nodeTransform(gn Node) aimath.Mat4 {
	if gn.Matrix != nil {
		return matFromColumnMajor16(*gn.Matrix)
	}
	t := aimath.Vec3Zero
	if gn.Translation != nil {
		tr := *gn.Translation
		t = aimath.Vec3{X: float32(tr[0]), Y: float32(tr[1]), Z: float32(tr[2])}
	}
	s := aimath.Vec3One
	if gn.Scale != nil {
		sc := *gn.Scale
		s = aimath.Vec3{X: float32(sc[0]), Y: float32(sc[1]), Z: float32(sc[2])}
	}
	q := aimath.QuaternionIdentity()
	if gn.Rotation != nil {
		rq := *gn.Rotation
		q = aimath.FromWireXYZW(float32(rq[0]), float32(rq[1]), float32(rq[2]), float32(rq[3]))
	}
	return aimath.Mat4TRS(t, q, s)
}

// matFromColumnMajor16 converts glTF's column-major 16-float matrix
// array into this module's row-major Mat4.
func matFromColumnMajor16(a [16]float64) aimath.Mat4 {
	var m aimath.Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			m[row][col] = float32(a[col*4+row])
		}
	}
	return m
}

// matToColumnMajor16 is the export-side inverse of matFromColumnMajor16.
func matToColumnMajor16(m aimath.Mat4) [16]float64 {
	var a [16]float64
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			a[col*4+row] = float64(m[row][col])
		}
	}
	return a
}

// importSkins reconstructs bones for every skinned node. A skin is a
// property of a node, not a mesh, so this runs here: it walks each mesh
// primitive's JOINTS_n/WEIGHTS_n attribute pairs, accumulating
// per-joint vertex weights, and attaches the resulting Bone list to
// every Mesh referenced by the skinned node.
func importSkins(ic *importCtx, tree *scene.NodeTree, meshes []*scene.Mesh, meshPrims []Primitive) error {
	for i, gn := range ic.doc.Nodes {
		if gn.Skin == nil || gn.Mesh == nil {
			continue
		}
		skin := ic.doc.Skins[*gn.Skin]
		skinIdx := *gn.Skin
		tree.Nodes[i].Skin = &skinIdx

		var ibms [][]float64
		if skin.InverseBindMatrices != nil {
			vals, err := ic.readAccessor(*skin.InverseBindMatrices)
			if err != nil {
				return err
			}
			ibms = vals
		}

		for _, meshIdx := range tree.Nodes[i].Meshes {
			m := meshes[meshIdx]
			prim := meshPrims[meshIdx]
			if err := reconstructBonesForMesh(ic, m, prim, skin, ibms, tree); err != nil {
				return err
			}
		}
	}
	return nil
}

func reconstructBonesForMesh(ic *importCtx, m *scene.Mesh, prim Primitive, skin Skin, ibms [][]float64, tree *scene.NodeTree) error {
	weightsByJoint := make(map[int][]scene.VertexWeight)
	for set := 0; ; set++ {
		jKey, vKey := jointsSemanticKey(set), weightsSemanticKey(set)
		ji, jok := prim.Attributes[jKey]
		wi, wok := prim.Attributes[vKey]
		if !jok || !wok {
			break
		}
		joints, err := gltfbuf.ReadUints(toEngineAccessor(ic.doc.Accessors[ji]), ic.views, ic.buffers)
		if err != nil {
			return err
		}
		weights, err := gltfbuf.ReadNormalizedFloats(toEngineAccessor(ic.doc.Accessors[wi]), ic.views, ic.buffers)
		if err != nil {
			return err
		}
		n := len(joints)
		if len(weights) < n {
			n = len(weights)
		}
		for vtx := 0; vtx < n; vtx++ {
			for c := 0; c < len(joints[vtx]) && c < len(weights[vtx]); c++ {
				w := float32(weights[vtx][c])
				if w == 0 {
					continue
				}
				j := int(joints[vtx][c])
				weightsByJoint[j] = append(weightsByJoint[j], scene.VertexWeight{VertexID: uint32(vtx), Weight: w})
			}
		}
	}

	for ji, jointNode := range skin.Joints {
		var offset aimath.Mat4
		if ji < len(ibms) {
			offset = matFromRowMajorFloats(ibms[ji])
		} else {
			offset = tree.Nodes[jointNode].Transform
		}
		bone := scene.Bone{
			Name:         tree.Nodes[jointNode].Name,
			OffsetMatrix: offset,
			NodeIndex:    scene.NodeIndex(jointNode),
			Weights:      weightsByJoint[ji],
		}
		if len(bone.Weights) == 0 {
			bone.Weights = []scene.VertexWeight{{VertexID: 0, Weight: 0}}
		}
		m.Bones = append(m.Bones, bone)
	}
	return nil
}

func matFromRowMajorFloats(vals []float64) aimath.Mat4 {
	var a [16]float64
	copy(a[:], vals)
	// glTF inverseBindMatrices are column-major like node.matrix.
	return matFromColumnMajor16(a)
}

func jointsSemanticKey(set int) string {
	if set == 0 {
		return "JOINTS_0"
	}
	return "JOINTS_" + itoa(set)
}

func weightsSemanticKey(set int) string {
	if set == 0 {
		return "WEIGHTS_0"
	}
	return "WEIGHTS_" + itoa(set)
}
