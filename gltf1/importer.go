package gltf1

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"path"
	"sort"
	"strings"

	"github.com/asset-importer/scenekit/assetio"
	"github.com/asset-importer/scenekit/errs"
	"github.com/asset-importer/scenekit/gltfbuf"
	"github.com/asset-importer/scenekit/imaging"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

var containerMagic = []byte("glTF")

// ReadFile imports a glTF 1.0 asset (text .gltf or binary BGLTF) into a
// neutral Scene.
func ReadFile(filePath string, loader assetio.Loader) (*scene.Scene, []errs.Warning, error) {
	data, err := assetio.ReadAll(loader, filePath)
	if err != nil {
		return nil, nil, err
	}
	base := path.Base(filePath)
	if dot := strings.LastIndexByte(base, '.'); dot > 0 {
		base = base[:dot]
	}
	return ReadMemory(data, path.Dir(filePath), loader, base)
}

// ReadMemory imports a glTF 1.0 asset held in memory.
func ReadMemory(data []byte, baseDir string, loader assetio.Loader, name string) (*scene.Scene, []errs.Warning, error) {
	var jsonBytes, bin []byte
	if bytes.HasPrefix(data, containerMagic) {
		if len(data) >= 8 && binary.LittleEndian.Uint32(data[4:8]) != 1 {
			return nil, nil, &errs.FormatError{Msg: "gltf1: container version is not 1; use the glTF 2.0 importer"}
		}
		chunks, err := gltfbuf.DecodeBGLTF(data)
		if err != nil {
			return nil, nil, err
		}
		jsonBytes, bin = chunks.JSON, chunks.BIN
	} else {
		jsonBytes = data
	}

	doc := &Document{}
	if err := json.Unmarshal(jsonBytes, doc); err != nil {
		return nil, nil, &errs.ReadError{Err: err}
	}
	if doc.Asset.Version != "" && !strings.HasPrefix(doc.Asset.Version, "1.") {
		return nil, nil, &errs.FormatError{Msg: "gltf1: unsupported asset version " + doc.Asset.Version}
	}
	return importDocument(doc, bin, baseDir, loader, name)
}

// idTable resolves the 1.0 schema's string IDs into the dense integer
// indexing the accessor engine and the neutral model use. Orders are
// sorted for determinism; JSON object iteration order is not stable.
type idTable struct {
	order []string
	index map[string]int
}

func tableOf[T any](m map[string]T) idTable {
	t := idTable{index: make(map[string]int, len(m))}
	for id := range m {
		t.order = append(t.order, id)
	}
	sort.Strings(t.order)
	for i, id := range t.order {
		t.index[id] = i
	}
	return t
}

type importCtx struct {
	doc     *Document
	buffers []gltfbuf.Buffer
	views   []gltfbuf.BufferView

	bufferIDs idTable
	viewIDs   idTable

	warnings []errs.Warning
}

func (ic *importCtx) warnf(format string, args ...any) {
	ic.warnings = append(ic.warnings, errs.Warningf(format, args...))
}

func importDocument(doc *Document, bin []byte, baseDir string, loader assetio.Loader, name string) (*scene.Scene, []errs.Warning, error) {
	ic := &importCtx{doc: doc, bufferIDs: tableOf(doc.Buffers), viewIDs: tableOf(doc.BufferViews)}

	ic.buffers = make([]gltfbuf.Buffer, len(ic.bufferIDs.order))
	for i, id := range ic.bufferIDs.order {
		b := doc.Buffers[id]
		var data []byte
		switch {
		case id == binaryBufferID:
			data = bin
		case assetio.IsDataURI(b.URI):
			_, d, err := assetio.DecodeDataURI(b.URI)
			if err != nil {
				return nil, nil, err
			}
			data = d
		case b.URI != "":
			d, err := assetio.ReadAll(loader, joinURI(baseDir, b.URI))
			if err != nil {
				return nil, nil, err
			}
			data = d
		}
		ic.buffers[i] = gltfbuf.Buffer{Data: data}
	}

	ic.views = make([]gltfbuf.BufferView, len(ic.viewIDs.order))
	for i, id := range ic.viewIDs.order {
		v := doc.BufferViews[id]
		bufIdx, ok := ic.bufferIDs.index[v.Buffer]
		if !ok {
			return nil, nil, &errs.FormatError{Msg: "gltf1: buffer view " + id + " references missing buffer " + v.Buffer}
		}
		ic.views[i] = gltfbuf.BufferView{
			Buffer:     bufIdx,
			ByteOffset: uint32(v.ByteOffset),
			ByteLength: uint32(v.ByteLength),
		}
	}

	s := scene.NewScene(name)
	s.Metadata["SourceAsset_Format"] = scene.VariantFromString("glTF")
	if doc.Asset.Version != "" {
		s.Metadata["SourceAsset_FormatVersion"] = scene.VariantFromString(doc.Asset.Version)
	}
	if doc.Asset.Generator != "" {
		s.Metadata["SourceAsset_Generator"] = scene.VariantFromString(doc.Asset.Generator)
	}

	matIDs := tableOf(doc.Materials)
	for _, id := range matIDs.order {
		s.Materials = append(s.Materials, importMaterial(ic, id, doc.Materials[id]))
	}
	if len(s.Materials) == 0 {
		m := scene.NewMaterial()
		m.AddString(scene.KeyName, scene.TextureNone, 0, "DefaultMaterial")
		s.Materials = append(s.Materials, m)
	}

	meshIDs := tableOf(doc.Meshes)
	meshRangeOf := map[string][2]int{}
	for _, id := range meshIDs.order {
		start := len(s.Meshes)
		gm := doc.Meshes[id]
		for pi, prim := range gm.Primitives {
			m, err := ic.importPrimitive(id, gm, pi, prim, matIDs)
			if err != nil {
				return nil, nil, err
			}
			if m != nil {
				s.Meshes = append(s.Meshes, m)
			}
		}
		meshRangeOf[id] = [2]int{start, len(s.Meshes)}
	}

	importNodes(ic, s, meshRangeOf)
	importTextures(ic, s, baseDir, loader)

	return s, ic.warnings, nil
}

func (ic *importCtx) readAccessor(id string) ([][]float64, error) {
	ga, ok := ic.doc.Accessors[id]
	if !ok {
		return nil, &errs.FormatError{Msg: "gltf1: missing accessor " + id}
	}
	viewIdx, ok := ic.viewIDs.index[ga.BufferView]
	if !ok {
		return nil, &errs.FormatError{Msg: "gltf1: accessor " + id + " references missing buffer view " + ga.BufferView}
	}
	acc := gltfbuf.Accessor{
		BufferView:    &viewIdx,
		ByteOffset:    uint32(ga.ByteOffset),
		ComponentType: gltfbuf.ComponentType(ga.ComponentType),
		Count:         ga.Count,
		Type:          elementTypeFromString(ga.Type),
	}
	// 1.0 keeps the stride on the accessor rather than the view.
	views := ic.views
	if ga.ByteStride != 0 {
		views = make([]gltfbuf.BufferView, len(ic.views))
		copy(views, ic.views)
		views[viewIdx].ByteStride = uint32(ga.ByteStride)
	}
	return gltfbuf.ReadFloats(acc, views, ic.buffers)
}

func elementTypeFromString(s string) gltfbuf.ElementType {
	switch s {
	case "VEC2":
		return gltfbuf.TypeVec2
	case "VEC3":
		return gltfbuf.TypeVec3
	case "VEC4":
		return gltfbuf.TypeVec4
	case "MAT2":
		return gltfbuf.TypeMat2
	case "MAT3":
		return gltfbuf.TypeMat3
	case "MAT4":
		return gltfbuf.TypeMat4
	default:
		return gltfbuf.TypeScalar
	}
}

func (ic *importCtx) importPrimitive(meshID string, gm Mesh, primIndex int, prim Primitive, matIDs idTable) (*scene.Mesh, error) {
	posID, ok := prim.Attributes["POSITION"]
	if !ok {
		ic.warnf("mesh %s primitive %d: no POSITION attribute, skipped", meshID, primIndex)
		return nil, nil
	}
	pos, err := ic.readAccessor(posID)
	if err != nil {
		return nil, &errs.FormatError{Msg: "gltf1: reading POSITION", Err: err}
	}

	name := gm.Name
	if name == "" {
		name = meshID
	}
	if primIndex > 0 {
		name = name + "_" + itoa(primIndex)
	}
	m := &scene.Mesh{Name: name, MaterialIndex: 0}
	m.Positions = make([]aimath.Vec3, len(pos))
	for i, e := range pos {
		m.Positions[i] = vec3Of(e)
	}

	if nID, ok := prim.Attributes["NORMAL"]; ok {
		raw, err := ic.readAccessor(nID)
		if err != nil {
			return nil, &errs.FormatError{Msg: "gltf1: reading NORMAL", Err: err}
		}
		m.Normals = make([]aimath.Vec3, len(raw))
		for i, e := range raw {
			m.Normals[i] = vec3Of(e)
		}
	}
	if uvID, ok := prim.Attributes["TEXCOORD_0"]; ok {
		raw, err := ic.readAccessor(uvID)
		if err != nil {
			return nil, &errs.FormatError{Msg: "gltf1: reading TEXCOORD_0", Err: err}
		}
		m.TextureCoords[0] = make([]aimath.Vec3, len(raw))
		for i, e := range raw {
			u, v := float64(0), float64(0)
			if len(e) > 0 {
				u = e[0]
			}
			if len(e) > 1 {
				v = e[1]
			}
			m.TextureCoords[0][i] = aimath.Vec3{X: float32(u), Y: 1 - float32(v)}
		}
		m.TextureCoordChannels = 1
	}

	if mi, ok := matIDs.index[prim.Material]; ok {
		m.MaterialIndex = mi
	}

	var indices []uint32
	if prim.Indices != "" {
		raw, err := ic.readAccessor(prim.Indices)
		if err != nil {
			return nil, &errs.FormatError{Msg: "gltf1: reading indices", Err: err}
		}
		indices = make([]uint32, len(raw))
		for i, e := range raw {
			indices[i] = uint32(e[0])
		}
	} else {
		indices = make([]uint32, len(m.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	mode := ModeTriangles
	if prim.Mode != nil {
		mode = *prim.Mode
	}
	m.Faces = buildFaces(mode, indices, len(m.Positions), ic)
	m.ComputePrimitiveTypes()
	return m, nil
}

// buildFaces applies the per-mode face formulas over indices, dropping
// any face that references an out-of-range index.
func buildFaces(mode int, indices []uint32, vertexCount int, ic *importCtx) []scene.Face {
	n := len(indices)
	var faces []scene.Face
	add := func(idxs ...uint32) {
		for _, i := range idxs {
			if int(i) >= vertexCount {
				return
			}
		}
		f := make(scene.Face, len(idxs))
		copy(f, idxs)
		faces = append(faces, f)
	}

	switch mode {
	case ModePoints:
		for i := 0; i < n; i++ {
			add(indices[i])
		}
	case ModeLines:
		for i := 0; i+1 < n; i += 2 {
			add(indices[i], indices[i+1])
		}
	case ModeLineStrip:
		for i := 0; i+1 < n; i++ {
			add(indices[i], indices[i+1])
		}
	case ModeLineLoop:
		for i := 0; i+1 < n; i++ {
			add(indices[i], indices[i+1])
		}
		if n > 1 {
			add(indices[n-1], indices[0])
		}
	case ModeTriangleStrip:
		for i := 0; i+2 < n; i++ {
			if (i+1)%2 == 0 {
				add(indices[i+1], indices[i], indices[i+2])
			} else {
				add(indices[i], indices[i+1], indices[i+2])
			}
		}
	case ModeTriangleFan:
		if n >= 3 {
			add(indices[0], indices[1], indices[2])
			for i := 1; i+2 < n; i++ {
				add(indices[0], indices[i+1], indices[i+2])
			}
		}
	default:
		if mode != ModeTriangles {
			ic.warnf("unsupported primitive mode %d, treated as triangles", mode)
		}
		for i := 0; i+2 < n; i += 3 {
			add(indices[i], indices[i+1], indices[i+2])
		}
	}
	return faces
}

func importNodes(ic *importCtx, s *scene.Scene, meshRangeOf map[string][2]int) {
	doc := ic.doc
	nodeIDs := tableOf(doc.Nodes)
	tree := s.Nodes
	idxOf := map[string]scene.NodeIndex{}

	for _, id := range nodeIDs.order {
		gn := doc.Nodes[id]
		name := gn.Name
		if name == "" {
			name = id
		}
		n := scene.Node{Name: name, Transform: nodeTransform(gn)}
		for _, meshID := range gn.Meshes {
			r, ok := meshRangeOf[meshID]
			if !ok {
				ic.warnf("node %s references missing mesh %s", id, meshID)
				continue
			}
			for mi := r[0]; mi < r[1]; mi++ {
				n.Meshes = append(n.Meshes, mi)
			}
		}
		tree.Nodes = append(tree.Nodes, n)
		idxOf[id] = scene.NodeIndex(len(tree.Nodes) - 1)
	}

	hasParent := map[string]bool{}
	for _, id := range nodeIDs.order {
		pi := idxOf[id]
		for _, childID := range doc.Nodes[id].Children {
			ci, ok := idxOf[childID]
			if !ok {
				ic.warnf("node %s references missing child %s", id, childID)
				continue
			}
			p := pi
			tree.Nodes[ci].Parent = &p
			tree.Nodes[pi].Children = append(tree.Nodes[pi].Children, ci)
			hasParent[childID] = true
		}
	}

	// Scene-listed roots first, then any orphan, all under the synthetic
	// root node.
	attach := func(id string) {
		if hasParent[id] {
			return
		}
		ci := idxOf[id]
		p := tree.Root
		tree.Nodes[ci].Parent = &p
		tree.Nodes[tree.Root].Children = append(tree.Nodes[tree.Root].Children, ci)
		hasParent[id] = true
	}
	if sc, ok := doc.Scenes[doc.Scene]; ok {
		for _, id := range sc.Nodes {
			if _, ok := idxOf[id]; ok {
				attach(id)
			}
		}
	}
	for _, id := range nodeIDs.order {
		attach(id)
	}
}

func nodeTransform(gn Node) aimath.Mat4 {
	if gn.Matrix != nil {
		var m aimath.Mat4
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				m[row][col] = float32((*gn.Matrix)[col*4+row])
			}
		}
		return m
	}
	t := aimath.Vec3{}
	if gn.Translation != nil {
		t = aimath.Vec3{X: float32(gn.Translation[0]), Y: float32(gn.Translation[1]), Z: float32(gn.Translation[2])}
	}
	sc := aimath.Vec3{X: 1, Y: 1, Z: 1}
	if gn.Scale != nil {
		sc = aimath.Vec3{X: float32(gn.Scale[0]), Y: float32(gn.Scale[1]), Z: float32(gn.Scale[2])}
	}
	q := aimath.QuaternionIdentity()
	if gn.Rotation != nil {
		q = aimath.FromWireXYZW(float32(gn.Rotation[0]), float32(gn.Rotation[1]), float32(gn.Rotation[2]), float32(gn.Rotation[3]))
	}
	return aimath.Mat4TRS(t, q, sc)
}

// importTextures loads every image into an EmbeddedTexture, keyed in
// sorted-ID order so the "*<index>" references written by
// importMaterial stay aligned.
func importTextures(ic *importCtx, s *scene.Scene, baseDir string, loader assetio.Loader) {
	imgIDs := tableOf(ic.doc.Images)
	for _, id := range imgIDs.order {
		img := ic.doc.Images[id]
		tex := &scene.EmbeddedTexture{Filename: img.Name}
		var data []byte
		switch {
		case assetio.IsDataURI(img.URI):
			_, d, err := assetio.DecodeDataURI(img.URI)
			if err != nil {
				ic.warnf("image %s: %v", id, err)
			}
			data = d
		case img.URI != "":
			d, err := assetio.ReadAll(loader, joinURI(baseDir, img.URI))
			if err != nil {
				ic.warnf("image %s (%s): %v", id, img.URI, err)
			}
			data = d
			if tex.Filename == "" {
				base := path.Base(img.URI)
				if dot := strings.LastIndexByte(base, '.'); dot > 0 {
					base = base[:dot]
				}
				tex.Filename = base
			}
		}
		if len(data) > 0 {
			format, w, h, texels, err := imaging.Decode(data)
			if err != nil {
				tex.FormatHint = imaging.Sniff(data)
				tex.CompressedData = data
			} else {
				tex.FormatHint = format
				tex.Width, tex.Height = w, h
				tex.Pixels = texels
			}
		}
		s.Textures = append(s.Textures, tex)
	}
}

func vec3Of(e []float64) aimath.Vec3 {
	v := aimath.Vec3{}
	if len(e) > 0 {
		v.X = float32(e[0])
	}
	if len(e) > 1 {
		v.Y = float32(e[1])
	}
	if len(e) > 2 {
		v.Z = float32(e[2])
	}
	return v
}

func joinURI(baseDir, uri string) string {
	if baseDir == "" || baseDir == "." {
		return uri
	}
	return path.Join(baseDir, uri)
}

func itoa(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "0"
	}
	var out []byte
	for i > 0 {
		out = append([]byte{digits[i%10]}, out...)
		i /= 10
	}
	return string(out)
}
