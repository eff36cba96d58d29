package gltf1

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/asset-importer/scenekit/assetio"
	"github.com/asset-importer/scenekit/errs"
	"github.com/asset-importer/scenekit/gltfbuf"
	"github.com/asset-importer/scenekit/imaging"
	"github.com/asset-importer/scenekit/namegen"
	"github.com/asset-importer/scenekit/scene"
)

// Options carries the export knobs the 1.0 back-end honors. The 1.0
// schema has no TRS-vs-matrix choice to make (both are legal); only the
// identity tolerance and binary switch apply.
type Options struct {
	IdentityEpsilon float32
	Binary          bool
}

func DefaultOptions() Options {
	return Options{IdentityEpsilon: 1e-6}
}

// ExportFile serializes s to path as a glTF 1.0 asset: a BGLTF
// container for opts.Binary, otherwise a .gltf document plus a .bin
// buffer next to it. Embedded textures are base64-encoded into data
// URIs in both modes, the usual 1.0 convention.
func ExportFile(s *scene.Scene, path string, opts Options) error {
	if opts.Binary {
		data, err := ExportBinary(s, opts)
		if err != nil {
			return err
		}
		return writeFile(path, data)
	}
	binName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".bin"
	doc, body, err := exportDocument(s, opts)
	if err != nil {
		return err
	}
	doc.Buffers = map[string]Buffer{
		"buffer_0": {URI: binName, ByteLength: len(body), Type: "arraybuffer"},
	}
	retargetBuffer(doc, "buffer_0")
	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &errs.ExportError{Msg: "gltf1: marshal document", Err: err}
	}
	if err := writeFile(path, jsonBytes); err != nil {
		return err
	}
	return writeFile(filepath.Join(filepath.Dir(path), binName), body)
}

// ExportBinary serializes s into a single BGLTF byte slice.
func ExportBinary(s *scene.Scene, opts Options) ([]byte, error) {
	doc, body, err := exportDocument(s, opts)
	if err != nil {
		return nil, err
	}
	doc.Buffers = map[string]Buffer{
		binaryBufferID: {ByteLength: len(body), Type: "arraybuffer"},
	}
	retargetBuffer(doc, binaryBufferID)
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, &errs.ExportError{Msg: "gltf1: marshal document", Err: err}
	}
	return gltfbuf.EncodeBGLTF(jsonBytes, body), nil
}

func retargetBuffer(doc *Document, bufferID string) {
	for id, v := range doc.BufferViews {
		v.Buffer = bufferID
		doc.BufferViews[id] = v
	}
}

type exportCtx struct {
	scene *scene.Scene
	opts  Options
	doc   *Document
	w     *gltfbuf.Writer
	names *namegen.Generator

	matIDOf map[int]string
	texIDOf map[string]string
}

func exportDocument(s *scene.Scene, opts Options) (*Document, []byte, error) {
	if s == nil || s.Nodes == nil {
		return nil, nil, &errs.ExportError{Msg: "gltf1: nil scene"}
	}
	c := &exportCtx{
		scene: s,
		opts:  opts,
		doc: &Document{
			Asset:       Asset{Version: "1.0", Generator: "scenekit-gltf1"},
			Buffers:     map[string]Buffer{},
			BufferViews: map[string]BufferView{},
			Accessors:   map[string]Accessor{},
			Meshes:      map[string]Mesh{},
			Materials:   map[string]Material{},
			Nodes:       map[string]Node{},
			Images:      map[string]Image{},
			Textures:    map[string]Texture{},
			Samplers:    map[string]Sampler{},
			Scenes:      map[string]Scene{},
		},
		w:       gltfbuf.NewWriter(0),
		names:   namegen.New(),
		matIDOf: map[int]string{},
		texIDOf: map[string]string{},
	}

	for i, m := range s.Materials {
		id := "material_" + strconv.Itoa(i)
		c.doc.Materials[id] = c.exportMaterial(m)
		c.matIDOf[i] = id
	}

	meshIDOf := map[int]string{}
	for i, m := range s.Meshes {
		if len(m.Positions) == 0 {
			continue
		}
		id := "mesh_" + strconv.Itoa(i)
		c.doc.Meshes[id] = c.exportMesh(m)
		meshIDOf[i] = id
	}

	roots := c.exportNodes(meshIDOf)
	c.doc.Scenes["defaultScene"] = Scene{Name: s.Name, Nodes: roots}
	c.doc.Scene = "defaultScene"

	// Views carved by the writer get their IDs here; the buffer ID is
	// patched in by the caller once it knows text/binary mode.
	for i, v := range c.w.Views {
		c.doc.BufferViews["bufferView_"+strconv.Itoa(i)] = BufferView{
			Buffer:     "buffer_0",
			ByteOffset: int(v.ByteOffset),
			ByteLength: int(v.ByteLength),
			Target:     int(v.Target),
		}
	}

	return c.doc, c.w.Body, nil
}

func (c *exportCtx) addAccessor(acc gltfbuf.Accessor) string {
	id := "accessor_" + strconv.Itoa(len(c.doc.Accessors))
	c.doc.Accessors[id] = Accessor{
		BufferView:    "bufferView_" + strconv.Itoa(*acc.BufferView),
		ByteOffset:    int(acc.ByteOffset),
		ComponentType: int(acc.ComponentType),
		Count:         acc.Count,
		Type:          elementTypeToString(acc.Type),
		Min:           acc.Min,
		Max:           acc.Max,
	}
	return id
}

func elementTypeToString(t gltfbuf.ElementType) string {
	switch t {
	case gltfbuf.TypeVec2:
		return "VEC2"
	case gltfbuf.TypeVec3:
		return "VEC3"
	case gltfbuf.TypeVec4:
		return "VEC4"
	case gltfbuf.TypeMat2:
		return "MAT2"
	case gltfbuf.TypeMat3:
		return "MAT3"
	case gltfbuf.TypeMat4:
		return "MAT4"
	default:
		return "SCALAR"
	}
}

func (c *exportCtx) exportMesh(m *scene.Mesh) Mesh {
	prim := Primitive{Attributes: map[string]string{}}

	posData := make([][]float64, len(m.Positions))
	for i, v := range m.Positions {
		posData[i] = []float64{float64(v.X), float64(v.Y), float64(v.Z)}
	}
	prim.Attributes["POSITION"] = c.addAccessor(c.w.WriteElements(posData, gltfbuf.ComponentFloat, gltfbuf.TypeVec3, 34962))

	if m.HasNormals() {
		data := make([][]float64, len(m.Normals))
		for i, v := range m.Normals {
			data[i] = []float64{float64(v.X), float64(v.Y), float64(v.Z)}
		}
		prim.Attributes["NORMAL"] = c.addAccessor(c.w.WriteElements(data, gltfbuf.ComponentFloat, gltfbuf.TypeVec3, 34962))
	}
	if m.HasTextureCoords(0) {
		data := make([][]float64, len(m.TextureCoords[0]))
		for i, uv := range m.TextureCoords[0] {
			data[i] = []float64{float64(uv.X), float64(1 - uv.Y)}
		}
		prim.Attributes["TEXCOORD_0"] = c.addAccessor(c.w.WriteElements(data, gltfbuf.ComponentFloat, gltfbuf.TypeVec2, 34962))
	}

	if len(m.Faces) > 0 {
		var indices []uint32
		for _, f := range m.Faces {
			indices = append(indices, f...)
		}
		acc, _ := c.w.WriteIndices(indices, 34963)
		prim.Indices = c.addAccessor(acc)
	}
	mode := ModeTriangles
	switch {
	case m.PrimitiveTypes&(scene.PrimitiveTriangle|scene.PrimitivePolygon) != 0:
		mode = ModeTriangles
	case m.PrimitiveTypes&scene.PrimitiveLine != 0:
		mode = ModeLines
	case m.PrimitiveTypes&scene.PrimitivePoint != 0:
		mode = ModePoints
	}
	prim.Mode = &mode

	if id, ok := c.matIDOf[m.MaterialIndex]; ok {
		prim.Material = id
	}
	return Mesh{Name: m.Name, Primitives: []Primitive{prim}}
}

func (c *exportCtx) exportNodes(meshIDOf map[int]string) []string {
	tree := c.scene.Nodes
	idOf := map[scene.NodeIndex]string{}
	for i := range tree.Nodes {
		if scene.NodeIndex(i) == tree.Root {
			continue
		}
		base := tree.Nodes[i].Name
		if base == "" {
			base = "node"
		}
		idOf[scene.NodeIndex(i)] = c.names.Unique(base)
	}

	for i := range tree.Nodes {
		if scene.NodeIndex(i) == tree.Root {
			continue
		}
		n := &tree.Nodes[i]
		gn := Node{Name: n.Name}
		if !n.Transform.IsIdentity(c.opts.IdentityEpsilon) {
			var a [16]float64
			for col := 0; col < 4; col++ {
				for row := 0; row < 4; row++ {
					a[col*4+row] = float64(n.Transform[row][col])
				}
			}
			gn.Matrix = &a
		}
		for _, child := range n.Children {
			gn.Children = append(gn.Children, idOf[child])
		}
		for _, mi := range n.Meshes {
			if id, ok := meshIDOf[mi]; ok {
				gn.Meshes = append(gn.Meshes, id)
			}
		}
		c.doc.Nodes[idOf[scene.NodeIndex(i)]] = gn
	}

	var roots []string
	for _, child := range tree.Nodes[tree.Root].Children {
		roots = append(roots, idOf[child])
	}
	return roots
}

func (c *exportCtx) exportMaterial(m *scene.Material) Material {
	gm := Material{Values: map[string]MaterialValue{}}
	if p, ok := m.GetAny(scene.KeyName); ok {
		gm.Name, _ = p.AsString()
	}

	slots := []struct {
		value    string
		colorKey string
		semantic scene.TextureType
	}{
		{valueAmbient, scene.KeyColorAmbient, scene.TextureAmbient},
		{valueDiffuse, scene.KeyColorDiffuse, scene.TextureDiffuse},
		{valueSpecular, scene.KeyColorSpecular, scene.TextureSpecular},
		{valueEmission, scene.KeyColorEmissive, scene.TextureEmissive},
	}
	for _, slot := range slots {
		if p, ok := m.Get(scene.KeyTexFile, slot.semantic, 0); ok {
			if ref, ok := p.AsString(); ok && ref != "" {
				gm.Values[slot.value] = MaterialValue{Texture: c.internTexture(m, ref, slot.semantic)}
				continue
			}
		}
		if p, ok := m.Get(slot.colorKey, scene.TextureNone, 0); ok {
			if col, ok := p.AsColorRGBA(); ok {
				gm.Values[slot.value] = MaterialValue{Numbers: []float64{
					float64(col.R), float64(col.G), float64(col.B), float64(col.A),
				}}
			}
		}
	}

	if p, ok := m.Get(scene.KeyShininess, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			gm.Values[valueShininess] = MaterialValue{Numbers: []float64{float64(f)}}
		}
	}
	if p, ok := m.Get(scene.KeyOpacity, scene.TextureNone, 0); ok {
		if f, ok := p.AsFloat(); ok {
			gm.Values[valueTransparency] = MaterialValue{Numbers: []float64{float64(f)}}
		}
	}
	if p, ok := m.Get(scene.KeyTwoSided, scene.TextureNone, 0); ok {
		if b, ok := p.AsBool(); ok && b {
			gm.Values[valueDoubleSided] = MaterialValue{Numbers: []float64{1}}
		}
	}
	return gm
}

// internTexture emits image/sampler/texture entries for a neutral
// texture reference. Embedded "*<index>" references are base64-encoded
// into a data URI; external references keep their URI.
func (c *exportCtx) internTexture(m *scene.Material, ref string, semantic scene.TextureType) string {
	if id, ok := c.texIDOf[ref]; ok {
		return id
	}
	n := strconv.Itoa(len(c.doc.Textures))
	imgID, samplerID, texID := "image_"+n, "sampler_"+n, "texture_"+n

	img := Image{}
	if strings.HasPrefix(ref, "*") {
		if idx, err := strconv.Atoi(ref[1:]); err == nil && idx >= 0 && idx < len(c.scene.Textures) {
			if format, data, err := imaging.ExportBytes(c.scene.Textures[idx]); err == nil {
				img.URI = assetio.EncodeDataURI(imaging.MimeOf(format), data)
				img.Name = c.scene.Textures[idx].Filename
			}
		}
	} else {
		img.URI = ref
	}
	c.doc.Images[imgID] = img

	wrapU, wrapV := MapModeWrap, MapModeWrap
	if p, ok := m.Get(scene.KeyTexMapModeU, semantic, 0); ok {
		if f, ok := p.AsFloat(); ok {
			wrapU = int(f)
		}
	}
	if p, ok := m.Get(scene.KeyTexMapModeV, semantic, 0); ok {
		if f, ok := p.AsFloat(); ok {
			wrapV = int(f)
		}
	}
	c.doc.Samplers[samplerID] = Sampler{
		WrapS:     wrapModeToWire(wrapU),
		WrapT:     wrapModeToWire(wrapV),
		MagFilter: FilterLinear,
		MinFilter: FilterLinear,
	}
	c.doc.Textures[texID] = Texture{Sampler: samplerID, Source: imgID}
	c.texIDOf[ref] = texID
	return texID
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &errs.ExportError{Msg: "write " + path, Err: err}
	}
	return nil
}
