package gltf2

import (
	"github.com/asset-importer/scenekit/errs"
	"github.com/asset-importer/scenekit/gltfbuf"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// meshRange records which neutral mesh indices one glTF mesh's
// primitives flattened into, so the node pass can build skins over the
// right range.
type meshRange struct {
	Start, End int
}

// remap is the vertex-remap table built while scanning an index buffer:
// DenseOfOriginal widens an incoming vertex index to densely-packed
// first-seen order; OriginalOfDense is its inverse, used to reorder
// every attribute accessor.
type remap struct {
	DenseOfOriginal map[uint32]uint32
	OriginalOfDense []uint32
	Indices         []uint32 // the original index buffer, rewritten to dense ids
}

func buildRemap(rawIndices []uint32) *remap {
	r := &remap{DenseOfOriginal: map[uint32]uint32{}}
	r.Indices = make([]uint32, len(rawIndices))
	for i, oi := range rawIndices {
		di, ok := r.DenseOfOriginal[oi]
		if !ok {
			di = uint32(len(r.OriginalOfDense))
			r.DenseOfOriginal[oi] = di
			r.OriginalOfDense = append(r.OriginalOfDense, oi)
		}
		r.Indices[i] = di
	}
	return r
}

func identityRemap(n int) *remap {
	r := &remap{DenseOfOriginal: map[uint32]uint32{}, OriginalOfDense: make([]uint32, n), Indices: make([]uint32, n)}
	for i := 0; i < n; i++ {
		r.OriginalOfDense[i] = uint32(i)
		r.DenseOfOriginal[uint32(i)] = uint32(i)
		r.Indices[i] = uint32(i)
	}
	return r
}

func reorderVec3(attr [][]float64, r *remap) []aimath.Vec3 {
	out := make([]aimath.Vec3, len(r.OriginalOfDense))
	for j, oi := range r.OriginalOfDense {
		if int(oi) < len(attr) {
			e := attr[oi]
			out[j] = aimath.Vec3{X: float32(e[0]), Y: float32(e[1]), Z: float32(e[2])}
		}
	}
	return out
}

// importCtx carries the resolved byte buffers and per-document caches
// an import pass needs.
type importCtx struct {
	doc     *Document
	buffers []gltfbuf.Buffer
	views   []gltfbuf.BufferView
}

func (ic *importCtx) readAccessor(idx int) ([][]float64, error) {
	return gltfbuf.ReadFloats(toEngineAccessor(ic.doc.Accessors[idx]), ic.views, ic.buffers)
}

func (ic *importCtx) readAccessorNormalized(idx int) ([][]float64, error) {
	return gltfbuf.ReadNormalizedFloats(toEngineAccessor(ic.doc.Accessors[idx]), ic.views, ic.buffers)
}

// importMeshes flattens every glTF mesh's primitives into one neutral
// Mesh per primitive and returns the per-document meshRange list.
// importMeshes returns, in parallel with the neutral mesh slice, the
// originating glTF Primitive for each (so the node pass can read its
// JOINTS_n/WEIGHTS_n attributes without re-deriving mesh identity from
// names).
func importMeshes(ic *importCtx) ([]*scene.Mesh, []Primitive, []meshRange, *warnCollector, error) {
	var out []*scene.Mesh
	var prims []Primitive
	ranges := make([]meshRange, len(ic.doc.Meshes))
	warnings := &warnCollector{}

	for gmi, gm := range ic.doc.Meshes {
		start := len(out)
		for pi, prim := range gm.Primitives {
			m, err := importPrimitive(ic, gm.Name, pi, prim, warnings)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			if m == nil {
				continue
			}
			out = append(out, m)
			prims = append(prims, prim)
		}
		ranges[gmi] = meshRange{Start: start, End: len(out)}
	}
	return out, prims, ranges, warnings, nil
}

type warnCollector struct {
	Warnings []errs.Warning
}

func (w *warnCollector) add(format string, args ...any) {
	w.Warnings = append(w.Warnings, errs.Warningf(format, args...))
}

func importPrimitive(ic *importCtx, meshName string, primIndex int, prim Primitive, warn *warnCollector) (*scene.Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		warn.add("mesh %q primitive %d: no POSITION attribute, skipped", meshName, primIndex)
		return nil, nil
	}
	posRaw, err := ic.readAccessor(posIdx)
	if err != nil {
		return nil, &errs.FormatError{Msg: "reading POSITION accessor", Err: err}
	}
	numRaw := len(posRaw)

	var r *remap
	var rawIndices []uint32
	if prim.Indices != nil {
		idxVals, err := gltfbuf.ReadUints(toEngineAccessor(ic.doc.Accessors[*prim.Indices]), ic.views, ic.buffers)
		if err != nil {
			return nil, &errs.FormatError{Msg: "reading index accessor", Err: err}
		}
		rawIndices = make([]uint32, len(idxVals))
		for i, e := range idxVals {
			rawIndices[i] = e[0]
		}
		r = buildRemap(rawIndices)
	} else {
		r = identityRemap(numRaw)
		rawIndices = r.Indices
	}

	m := &scene.Mesh{Name: meshNameFor(meshName, primIndex), MaterialIndex: -1}
	m.Positions = reorderVec3(posRaw, r)

	if ni, ok := prim.Attributes["NORMAL"]; ok {
		raw, err := ic.readAccessor(ni)
		if err != nil {
			return nil, &errs.FormatError{Msg: "reading NORMAL accessor", Err: err}
		}
		m.Normals = reorderVec3(raw, r)
	}

	var tangentSign []float32
	if ti, ok := prim.Attributes["TANGENT"]; ok {
		raw, err := ic.readAccessorNormalized(ti)
		if err != nil {
			return nil, &errs.FormatError{Msg: "reading TANGENT accessor", Err: err}
		}
		m.Tangents = make([]aimath.Vec3, len(r.OriginalOfDense))
		tangentSign = make([]float32, len(r.OriginalOfDense))
		for j, oi := range r.OriginalOfDense {
			if int(oi) < len(raw) {
				e := raw[oi]
				m.Tangents[j] = aimath.Vec3{X: float32(e[0]), Y: float32(e[1]), Z: float32(e[2])}
				w := float32(1)
				if len(e) > 3 {
					w = float32(e[3])
				}
				tangentSign[j] = w
			}
		}
		if m.HasNormals() {
			m.Bitangents = make([]aimath.Vec3, len(m.Positions))
			for j := range m.Bitangents {
				m.Bitangents[j] = m.Normals[j].Cross(m.Tangents[j]).Mul(tangentSign[j])
			}
		}
	}

	for set := 0; set < scene.AIMaxColorSets; set++ {
		key := colorSemanticKey(set)
		ci, ok := prim.Attributes[key]
		if !ok {
			break
		}
		raw, err := ic.readAccessorNormalized(ci)
		if err != nil {
			return nil, &errs.FormatError{Msg: "reading " + key + " accessor", Err: err}
		}
		m.Colors[set] = reorderColor4(raw, r)
		m.ColorChannels = set + 1
	}

	for set := 0; set < scene.AIMaxTextureCoords; set++ {
		key := uvSemanticKey(set)
		ui, ok := prim.Attributes[key]
		if !ok {
			break
		}
		raw, err := ic.readAccessorNormalized(ui)
		if err != nil {
			return nil, &errs.FormatError{Msg: "reading " + key + " accessor", Err: err}
		}
		m.TextureCoords[set] = reorderUV(raw, r)
		m.TextureCoordChannels = set + 1
	}

	for ti, target := range prim.Targets {
		am := importMorphTarget(ic, target, r, m, tangentSign)
		am.Name = meshName + "_morph" + itoa(ti)
		m.AnimMeshes = append(m.AnimMeshes, am)
	}

	faces, err := buildFaces(CheckedOr(prim.Mode, int(ModeTriangles)), rawIndices, r, numRaw, warn)
	if err != nil {
		return nil, err
	}
	m.Faces = faces
	m.ComputePrimitiveTypes()

	if prim.Material != nil {
		m.MaterialIndex = *prim.Material
	}

	return m, nil
}

func importMorphTarget(ic *importCtx, target map[string]int, r *remap, base *scene.Mesh, _ []float32) scene.AnimMesh {
	am := scene.AnimMesh{Weight: 0}
	if pi, ok := target["POSITION"]; ok {
		raw, err := ic.readAccessor(pi)
		if err == nil {
			offsets := reorderVec3(raw, r)
			am.Positions = make([]aimath.Vec3, len(offsets))
			for i := range offsets {
				am.Positions[i] = base.Positions[i].Add(offsets[i])
			}
		}
	}
	if ni, ok := target["NORMAL"]; ok {
		raw, err := ic.readAccessor(ni)
		if err == nil {
			offsets := reorderVec3(raw, r)
			am.Normals = make([]aimath.Vec3, len(offsets))
			for i := range offsets {
				am.Normals[i] = base.Normals[i].Add(offsets[i])
			}
		}
	}
	// TANGENT morph offsets become absolute tangents (base + offset). The
	// base primitive's tangent signs (the unnamed last parameter) are not
	// used: AnimMesh has no bitangent array, so no morph-target bitangents
	// are computed.
	if ti, ok := target["TANGENT"]; ok {
		raw, err := ic.readAccessor(ti)
		if err == nil {
			offsets := reorderVec3(raw, r)
			am.Tangents = make([]aimath.Vec3, len(offsets))
			for i := range offsets {
				am.Tangents[i] = base.Tangents[i].Add(offsets[i])
			}
		}
	}
	return am
}

func reorderColor4(attr [][]float64, r *remap) []aimath.Color4 {
	out := make([]aimath.Color4, len(r.OriginalOfDense))
	for j, oi := range r.OriginalOfDense {
		if int(oi) < len(attr) {
			e := attr[oi]
			c := aimath.Color4{A: 1}
			if len(e) > 0 {
				c.R = float32(e[0])
			}
			if len(e) > 1 {
				c.G = float32(e[1])
			}
			if len(e) > 2 {
				c.B = float32(e[2])
			}
			if len(e) > 3 {
				c.A = float32(e[3])
			}
			out[j] = c
		}
	}
	return out
}

// reorderUV reorders a UV accessor into dense order and flips V
// (v' = 1 - v), the documented glTF <-> neutral convention.
func reorderUV(attr [][]float64, r *remap) []aimath.Vec3 {
	out := make([]aimath.Vec3, len(r.OriginalOfDense))
	for j, oi := range r.OriginalOfDense {
		if int(oi) < len(attr) {
			e := attr[oi]
			u, v := float32(0), float32(0)
			if len(e) > 0 {
				u = float32(e[0])
			}
			if len(e) > 1 {
				v = 1 - float32(e[1])
			}
			out[j] = aimath.Vec3{X: u, Y: v, Z: 0}
		}
	}
	return out
}

func colorSemanticKey(set int) string {
	if set == 0 {
		return "COLOR_0"
	}
	return "COLOR_" + itoa(set)
}

func uvSemanticKey(set int) string {
	if set == 0 {
		return "TEXCOORD_0"
	}
	return "TEXCOORD_" + itoa(set)
}

func meshNameFor(base string, primIndex int) string {
	if primIndex == 0 {
		return base
	}
	return base + "_" + itoa(primIndex)
}

// buildFaces applies the per-mode face construction formulas, either
// over the (dense-remapped) index buffer
// or synthesized sequentially when there is none. Out-of-range indices
// are dropped, not errored.
func buildFaces(mode int, rawIndices []uint32, r *remap, vertexCount int, warn *warnCollector) ([]scene.Face, error) {
	// Translate to dense ids (identity remap if there was no index buffer).
	dense := r.Indices
	n := len(dense)
	valid := func(i uint32) bool {
		return int(i) < len(r.OriginalOfDense) && int(r.OriginalOfDense[i]) < vertexCount
	}

	addFace := func(out *[]scene.Face, idxs ...uint32) {
		for _, i := range idxs {
			if !valid(i) {
				return
			}
		}
		f := make(scene.Face, len(idxs))
		copy(f, idxs)
		*out = append(*out, f)
	}

	var faces []scene.Face
	switch PrimitiveMode(mode) {
	case ModePoints:
		for i := 0; i < n; i++ {
			addFace(&faces, dense[i])
		}
	case ModeLines:
		for i := 0; i+1 < n; i += 2 {
			addFace(&faces, dense[i], dense[i+1])
		}
	case ModeLineStrip:
		for i := 0; i+1 < n; i++ {
			addFace(&faces, dense[i], dense[i+1])
		}
	case ModeLineLoop:
		for i := 0; i+1 < n; i++ {
			addFace(&faces, dense[i], dense[i+1])
		}
		if n > 1 {
			addFace(&faces, dense[n-1], dense[0])
		}
	case ModeTriangles:
		for i := 0; i+2 < n; i += 3 {
			addFace(&faces, dense[i], dense[i+1], dense[i+2])
		}
	case ModeTriangleStrip:
		for i := 0; i+2 < n; i++ {
			if (i+1)%2 == 0 {
				addFace(&faces, dense[i+1], dense[i], dense[i+2])
			} else {
				addFace(&faces, dense[i], dense[i+1], dense[i+2])
			}
		}
	case ModeTriangleFan:
		if n >= 3 {
			addFace(&faces, dense[0], dense[1], dense[2])
			for i := 1; i+2 < n; i++ {
				addFace(&faces, dense[0], dense[i+1], dense[i+2])
			}
		}
	default:
		warn.add("unsupported primitive mode %d, treated as triangles", mode)
		for i := 0; i+2 < n; i += 3 {
			addFace(&faces, dense[i], dense[i+1], dense[i+2])
		}
	}
	return faces, nil
}
