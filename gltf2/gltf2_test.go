package gltf2

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/asset-importer/scenekit/gltfbuf"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// docBuilder assembles an in-memory Document plus its backing buffer
// the way a file on disk would carry them, for importer tests.
type docBuilder struct {
	doc *Document
	w   *gltfbuf.Writer
}

func newDocBuilder() *docBuilder {
	return &docBuilder{
		doc: &Document{Asset: Asset{Version: "2.0"}},
		w:   gltfbuf.NewWriter(0),
	}
}

func (b *docBuilder) addAccessor(data [][]float64, ct gltfbuf.ComponentType, et gltfbuf.ElementType) int {
	acc := b.w.WriteElements(data, ct, et, 0)
	idx := len(b.doc.Accessors)
	b.doc.Accessors = append(b.doc.Accessors, accessorFromEngine(acc))
	return idx
}

func (b *docBuilder) finish() ([]byte, error) {
	b.doc.Buffers = []Buffer{{ByteLength: len(b.w.Body)}}
	b.doc.BufferViews = make([]BufferView, len(b.w.Views))
	for i, v := range b.w.Views {
		b.doc.BufferViews[i] = bufferViewFromEngine(v)
	}
	jsonBytes, err := json.Marshal(b.doc)
	if err != nil {
		return nil, err
	}
	return gltfbuf.EncodeGLB(jsonBytes, b.w.Body), nil
}

func scalarElems(vals ...float64) [][]float64 {
	out := make([][]float64, len(vals))
	for i, v := range vals {
		out[i] = []float64{v}
	}
	return out
}

func TestImportTriangleStrip(t *testing.T) {
	b := newDocBuilder()
	positions := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {2, 0, 0}}
	posIdx := b.addAccessor(positions, gltfbuf.ComponentFloat, gltfbuf.TypeVec3)
	idxIdx := b.addAccessor(scalarElems(0, 1, 2, 3, 4), gltfbuf.ComponentUnsignedShort, gltfbuf.TypeScalar)

	b.doc.Meshes = []Mesh{{Primitives: []Primitive{{
		Attributes: map[string]int{"POSITION": posIdx},
		Indices:    intp(idxIdx),
		Mode:       ValidValue(int(ModeTriangleStrip)),
	}}}}
	data, err := b.finish()
	if err != nil {
		t.Fatal(err)
	}

	s, _, err := ReadMemory(data, "", nil, "strip")
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if len(s.Meshes) != 1 {
		t.Fatalf("mesh count = %d", len(s.Meshes))
	}
	m := s.Meshes[0]
	want := []scene.Face{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}}
	if len(m.Faces) != len(want) {
		t.Fatalf("face count = %d, want %d", len(m.Faces), len(want))
	}
	for i, f := range m.Faces {
		for j := range f {
			if f[j] != want[i][j] {
				t.Errorf("face %d = %v, want %v", i, f, want[i])
				break
			}
		}
	}
	if m.PrimitiveTypes&scene.PrimitiveTriangle == 0 {
		t.Error("primitive types must include Triangle")
	}
}

func TestImportLineLoopCloses(t *testing.T) {
	b := newDocBuilder()
	posIdx := b.addAccessor([][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, gltfbuf.ComponentFloat, gltfbuf.TypeVec3)
	idxIdx := b.addAccessor(scalarElems(0, 1, 2), gltfbuf.ComponentUnsignedShort, gltfbuf.TypeScalar)
	b.doc.Meshes = []Mesh{{Primitives: []Primitive{{
		Attributes: map[string]int{"POSITION": posIdx},
		Indices:    intp(idxIdx),
		Mode:       ValidValue(int(ModeLineLoop)),
	}}}}
	data, err := b.finish()
	if err != nil {
		t.Fatal(err)
	}
	s, _, err := ReadMemory(data, "", nil, "loop")
	if err != nil {
		t.Fatal(err)
	}
	m := s.Meshes[0]
	if len(m.Faces) != 3 {
		t.Fatalf("face count = %d, want 3 (loop closes)", len(m.Faces))
	}
	last := m.Faces[2]
	if last[0] != 2 || last[1] != 0 {
		t.Errorf("closing face = %v, want [2 0]", last)
	}
}

func TestVertexRemapDensifies(t *testing.T) {
	// Indices hit vertices 2 and 0 of a 4-vertex pool; the importer must
	// keep only the referenced two, in first-seen order.
	b := newDocBuilder()
	posIdx := b.addAccessor([][]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3}}, gltfbuf.ComponentFloat, gltfbuf.TypeVec3)
	idxIdx := b.addAccessor(scalarElems(2, 0, 2), gltfbuf.ComponentUnsignedShort, gltfbuf.TypeScalar)
	b.doc.Meshes = []Mesh{{Primitives: []Primitive{{
		Attributes: map[string]int{"POSITION": posIdx},
		Indices:    intp(idxIdx),
		Mode:       ValidValue(int(ModeTriangles)),
	}}}}
	data, err := b.finish()
	if err != nil {
		t.Fatal(err)
	}
	s, _, err := ReadMemory(data, "", nil, "remap")
	if err != nil {
		t.Fatal(err)
	}
	m := s.Meshes[0]
	if len(m.Positions) != 2 {
		t.Fatalf("vertex count = %d, want 2", len(m.Positions))
	}
	if m.Positions[0].X != 2 || m.Positions[1].X != 0 {
		t.Errorf("positions = %v, want [2..],[0..] in first-seen order", m.Positions)
	}
	if f := m.Faces[0]; f[0] != 0 || f[1] != 1 || f[2] != 0 {
		t.Errorf("face = %v, want dense [0 1 0]", f)
	}
}

func TestImportEmbeddedPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	loader := func(path string) (io.ReadCloser, error) {
		if path != "foo.png" {
			t.Fatalf("unexpected load of %q", path)
		}
		return io.NopCloser(bytes.NewReader(pngBuf.Bytes())), nil
	}

	b := newDocBuilder()
	posIdx := b.addAccessor([][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, gltfbuf.ComponentFloat, gltfbuf.TypeVec3)
	b.doc.Meshes = []Mesh{{Primitives: []Primitive{{
		Attributes: map[string]int{"POSITION": posIdx},
		Mode:       ValidValue(int(ModeTriangles)),
		Material:   intp(0),
	}}}}
	b.doc.Images = []Image{{URI: "foo.png"}}
	b.doc.Textures = []Texture{{Source: intp(0)}}
	b.doc.Materials = []Material{{
		Name: "mat",
		PBRMetallicRoughness: &PBRMetallicRoughness{
			BaseColorTexture: &TextureInfo{Index: 0},
		},
	}}
	data, err := b.finish()
	if err != nil {
		t.Fatal(err)
	}

	s, _, err := ReadMemory(data, "", loader, "textured")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Textures) != 1 {
		t.Fatalf("texture count = %d", len(s.Textures))
	}
	tex := s.Textures[0]
	if tex.Filename != "foo" {
		t.Errorf("filename = %q, want foo", tex.Filename)
	}
	if tex.Width != 2 || tex.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", tex.Width, tex.Height)
	}
	if tex.FormatHint != scene.ImageFormatPNG {
		t.Errorf("format = %v, want PNG", tex.FormatHint)
	}
	if len(tex.Pixels) != tex.Width*tex.Height {
		t.Errorf("pixel count = %d, want %d", len(tex.Pixels), tex.Width*tex.Height)
	}

	p, ok := s.Materials[0].Get(scene.KeyTexFile, scene.TextureDiffuse, 0)
	if !ok {
		t.Fatal("no $tex.file on Diffuse slot")
	}
	if ref, _ := p.AsString(); ref != "foo.png" {
		t.Errorf("$tex.file = %q", ref)
	}
}

func TestMaterialExtensionsRoundTrip(t *testing.T) {
	ior := 1.45
	strength := 3.0
	factor := 0.5
	gm := Material{
		Name:        "fancy",
		DoubleSided: true,
		Extensions: &MaterialExtensions{
			IOR:              &KHRMaterialsIOR{IOR: &ior},
			EmissiveStrength: &KHRMaterialsEmissiveStrength{EmissiveStrength: &strength},
			Transmission:     &KHRMaterialsTransmission{TransmissionFactor: &factor},
		},
	}
	m := importMaterial(materialContext{doc: &Document{}}, gm, 0)

	s := scene.NewScene("t")
	s.Materials = []*scene.Material{m}
	c := newExportCtx(s, DefaultOptions())
	back := c.exportMaterial(m)

	if back.Name != "fancy" || !back.DoubleSided {
		t.Errorf("name/doubleSided lost: %+v", back)
	}
	if back.Extensions == nil {
		t.Fatal("extensions lost")
	}
	// The property bag stores float32, so ior comes back float32-rounded.
	if back.Extensions.IOR == nil || *back.Extensions.IOR.IOR != float64(float32(ior)) {
		t.Error("ior lost")
	}
	if back.Extensions.EmissiveStrength == nil || *back.Extensions.EmissiveStrength.EmissiveStrength != strength {
		t.Error("emissive strength lost")
	}
	if back.Extensions.Transmission == nil || *back.Extensions.Transmission.TransmissionFactor != factor {
		t.Error("transmission lost")
	}
}

func buildTestScene() *scene.Scene {
	s := scene.NewScene("roundtrip")
	mat := scene.NewMaterial()
	mat.AddString(scene.KeyName, scene.TextureNone, 0, "mat0")
	mat.AddColor(scene.KeyColorBase, scene.TextureNone, 0, aimath.Color4{R: 0.25, G: 0.5, B: 0.75, A: 1})
	s.Materials = []*scene.Material{mat}

	m := &scene.Mesh{
		Name: "tri",
		Positions: []aimath.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		},
		Normals: []aimath.Vec3{
			{Z: 1}, {Z: 1}, {Z: 1},
		},
		Faces:         []scene.Face{{0, 1, 2}},
		MaterialIndex: 0,
	}
	m.ComputePrimitiveTypes()
	s.Meshes = []*scene.Mesh{m}
	s.Nodes.AddChild(s.Nodes.Root, scene.Node{
		Name: "tri_node", Transform: aimath.Mat4Identity(), Meshes: []int{0},
	})
	return s
}

func TestBinaryRoundTrip(t *testing.T) {
	s := buildTestScene()
	data, err := ExportBinary(s, DefaultOptions())
	if err != nil {
		t.Fatalf("ExportBinary: %v", err)
	}

	back, _, err := ReadMemory(data, "", nil, "roundtrip")
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if len(back.Meshes) != len(s.Meshes) {
		t.Fatalf("mesh count = %d, want %d", len(back.Meshes), len(s.Meshes))
	}
	if len(back.Materials) != len(s.Materials) {
		t.Fatalf("material count = %d, want %d", len(back.Materials), len(s.Materials))
	}
	bm, om := back.Meshes[0], s.Meshes[0]
	if len(bm.Positions) != len(om.Positions) || len(bm.Faces) != len(om.Faces) {
		t.Fatalf("topology changed: %d verts %d faces", len(bm.Positions), len(bm.Faces))
	}
	const tol = 1e-5
	for i := range bm.Positions {
		d := bm.Positions[i].Sub(om.Positions[i])
		if d.Length() > tol {
			t.Errorf("position %d drifted by %v", i, d.Length())
		}
	}
	for i, f := range bm.Faces {
		if len(f) != len(om.Faces[i]) {
			t.Errorf("face %d topology changed", i)
		}
	}

	// Second round trip must be structurally stable.
	data2, err := ExportBinary(back, DefaultOptions())
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	again, _, err := ReadMemory(data2, "", nil, "roundtrip")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(again.Meshes) != len(back.Meshes) || len(again.Materials) != len(back.Materials) {
		t.Error("second round trip not structurally stable")
	}
}

func TestExportEmptyMeshSkipped(t *testing.T) {
	s := scene.NewScene("empty")
	s.Meshes = []*scene.Mesh{{Name: "hollow", MaterialIndex: 0}}
	s.Materials = []*scene.Material{scene.NewMaterial()}
	s.Nodes.AddChild(s.Nodes.Root, scene.Node{Name: "n", Transform: aimath.Mat4Identity(), Meshes: []int{0}})

	data, err := ExportBinary(s, DefaultOptions())
	if err != nil {
		t.Fatalf("ExportBinary: %v", err)
	}
	back, _, err := ReadMemory(data, "", nil, "empty")
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if len(back.Meshes) != 0 {
		t.Errorf("mesh with no positions must be skipped on export, got %d meshes", len(back.Meshes))
	}
}

func TestValidateFindsDanglingIndices(t *testing.T) {
	doc := &Document{
		Asset:     Asset{Version: "2.0"},
		Accessors: []Accessor{{BufferView: intp(3), ComponentType: ComponentFloat, Count: 1, Type: ValidValue(TypeVec3)}},
		Meshes: []Mesh{{Primitives: []Primitive{{
			Attributes: map[string]int{"POSITION": 7},
			Mode:       ValidValue(99),
		}}}},
		Nodes: []Node{{Children: []int{5}}},
	}
	findings := Validate(doc)
	if len(findings) < 4 {
		t.Fatalf("findings = %d, want >= 4: %v", len(findings), findings)
	}
}

func TestCheckedInvalidEnumStillParses(t *testing.T) {
	raw := []byte(`{"asset":{"version":"2.0"},"materials":[{"alphaMode":"SHINY"}]}`)
	doc := &Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		t.Fatalf("unknown enum member must not fail parse: %v", err)
	}
	if !doc.Materials[0].AlphaMode.Valid {
		t.Fatal("string-shaped value should unmarshal as Valid; the domain check is the validator's job")
	}
	findings := Validate(doc)
	found := false
	for _, f := range findings {
		if f.Path == "materials[0].alphaMode" {
			found = true
		}
	}
	if !found {
		t.Errorf("validator must flag out-of-domain alphaMode, findings: %v", findings)
	}
}

func TestOptionsFromMap(t *testing.T) {
	opts := OptionsFromMap(map[string]scene.Variant{
		OptUnlimitedBonesPerVertex: scene.VariantFromInt(1),
		OptNodeInTRS:               scene.VariantFromInt(1),
		OptIdentityEpsilon:         scene.VariantFromFloats(0.01),
	})
	if !opts.UnlimitedSkinningBonesPerVertex || !opts.NodeInTRS {
		t.Error("bool options not decoded")
	}
	if opts.IdentityEpsilon != 0.01 {
		t.Errorf("epsilon = %v", opts.IdentityEpsilon)
	}
	if opts.UsePBRSpecularGlossiness {
		t.Error("absent option must stay default")
	}
}

func TestSparseAccessorZeroCountEqualsBase(t *testing.T) {
	b := newDocBuilder()
	posIdx := b.addAccessor([][]float64{{1, 2, 3}, {4, 5, 6}}, gltfbuf.ComponentFloat, gltfbuf.TypeVec3)
	b.doc.Accessors[posIdx].Sparse = &AccessorSparse{
		Count:   0,
		Indices: AccessorSparseIdx{BufferView: 0, ComponentType: ComponentUnsignedShort},
		Values:  AccessorSparseValues{BufferView: 0},
	}
	b.doc.Meshes = []Mesh{{Primitives: []Primitive{{
		Attributes: map[string]int{"POSITION": posIdx},
		Mode:       ValidValue(int(ModePoints)),
	}}}}
	data, err := b.finish()
	if err != nil {
		t.Fatal(err)
	}
	s, _, err := ReadMemory(data, "", nil, "sparse")
	if err != nil {
		t.Fatal(err)
	}
	m := s.Meshes[0]
	if len(m.Positions) != 2 || m.Positions[1].Z != 6 {
		t.Errorf("sparse count 0 must equal base accessor, got %v", m.Positions)
	}
}
