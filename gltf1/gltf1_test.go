package gltf1

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/asset-importer/scenekit/gltfbuf"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// triangleDocJSON builds a minimal text 1.0 document: one triangle, one
// diffuse-colored material, the buffer embedded as a data URI.
func triangleDocJSON(t *testing.T) []byte {
	t.Helper()
	var body []byte
	le := binary.LittleEndian
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	for _, f := range positions {
		var b [4]byte
		le.PutUint32(b[:], math.Float32bits(f))
		body = append(body, b[:]...)
	}
	for _, idx := range []uint16{0, 1, 2} {
		var b [2]byte
		le.PutUint16(b[:], idx)
		body = append(body, b[:]...)
	}

	doc := map[string]any{
		"asset": map[string]any{"version": "1.0"},
		"buffers": map[string]any{
			"buffer_0": map[string]any{
				"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(body),
				"byteLength": len(body),
				"type":       "arraybuffer",
			},
		},
		"bufferViews": map[string]any{
			"bv_pos": map[string]any{"buffer": "buffer_0", "byteOffset": 0, "byteLength": 36},
			"bv_idx": map[string]any{"buffer": "buffer_0", "byteOffset": 36, "byteLength": 6},
		},
		"accessors": map[string]any{
			"acc_pos": map[string]any{
				"bufferView": "bv_pos", "byteOffset": 0,
				"componentType": 5126, "count": 3, "type": "VEC3",
			},
			"acc_idx": map[string]any{
				"bufferView": "bv_idx", "byteOffset": 0,
				"componentType": 5123, "count": 3, "type": "SCALAR",
			},
		},
		"meshes": map[string]any{
			"mesh_tri": map[string]any{
				"name": "tri",
				"primitives": []any{map[string]any{
					"attributes": map[string]any{"POSITION": "acc_pos"},
					"indices":    "acc_idx",
					"material":   "mat_red",
					"mode":       4,
				}},
			},
		},
		"materials": map[string]any{
			"mat_red": map[string]any{
				"name": "red",
				"values": map[string]any{
					"diffuse":     []any{1.0, 0.0, 0.0, 1.0},
					"shininess":   []any{32.0},
					"doubleSided": []any{1.0},
				},
			},
		},
		"nodes": map[string]any{
			"node_tri": map[string]any{"name": "tri_node", "meshes": []any{"mesh_tri"}},
		},
		"scenes": map[string]any{
			"scene_0": map[string]any{"nodes": []any{"node_tri"}},
		},
		"scene": "scene_0",
	}
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestImportTextDocument(t *testing.T) {
	s, _, err := ReadMemory(triangleDocJSON(t), "", nil, "tri")
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if len(s.Meshes) != 1 {
		t.Fatalf("mesh count = %d", len(s.Meshes))
	}
	m := s.Meshes[0]
	if len(m.Positions) != 3 || len(m.Faces) != 1 {
		t.Fatalf("topology: %d verts %d faces", len(m.Positions), len(m.Faces))
	}
	if m.Positions[1].X != 1 {
		t.Errorf("position 1 = %v", m.Positions[1])
	}

	if len(s.Materials) != 1 {
		t.Fatalf("material count = %d", len(s.Materials))
	}
	mat := s.Materials[0]
	p, ok := mat.Get(scene.KeyColorDiffuse, scene.TextureNone, 0)
	if !ok {
		t.Fatal("diffuse color missing")
	}
	col, _ := p.AsColorRGBA()
	if col.R != 1 || col.G != 0 {
		t.Errorf("diffuse = %v", col)
	}
	if p, ok := mat.Get(scene.KeyShininess, scene.TextureNone, 0); !ok {
		t.Error("shininess missing")
	} else if f, _ := p.AsFloat(); f != 32 {
		t.Errorf("shininess = %v", f)
	}
	if p, ok := mat.Get(scene.KeyTwoSided, scene.TextureNone, 0); !ok {
		t.Error("twosided missing")
	} else if b, _ := p.AsBool(); !b {
		t.Error("twosided must be true")
	}

	// Node attached under the synthetic root.
	root := s.Nodes.Nodes[s.Nodes.Root]
	if len(root.Children) != 1 {
		t.Fatalf("root children = %d", len(root.Children))
	}
	child := s.Nodes.Nodes[root.Children[0]]
	if child.Name != "tri_node" || len(child.Meshes) != 1 {
		t.Errorf("child node = %+v", child)
	}
}

func buildNeutralScene() *scene.Scene {
	s := scene.NewScene("out")
	mat := scene.NewMaterial()
	mat.AddString(scene.KeyName, scene.TextureNone, 0, "green")
	mat.AddColor(scene.KeyColorDiffuse, scene.TextureNone, 0, aimath.Color4{G: 1, A: 1})
	mat.AddFloat(scene.KeyOpacity, scene.TextureNone, 0, 0.5)
	s.Materials = []*scene.Material{mat}

	m := &scene.Mesh{
		Name:          "quadless",
		Positions:     []aimath.Vec3{{}, {X: 1}, {Y: 1}},
		Faces:         []scene.Face{{0, 1, 2}},
		MaterialIndex: 0,
	}
	m.ComputePrimitiveTypes()
	s.Meshes = []*scene.Mesh{m}
	s.Nodes.AddChild(s.Nodes.Root, scene.Node{Name: "n0", Transform: aimath.Mat4Identity(), Meshes: []int{0}})
	return s
}

func TestBinaryRoundTrip(t *testing.T) {
	s := buildNeutralScene()
	data, err := ExportBinary(s, DefaultOptions())
	if err != nil {
		t.Fatalf("ExportBinary: %v", err)
	}

	chunks, err := gltfbuf.DecodeBGLTF(data)
	if err != nil {
		t.Fatalf("DecodeBGLTF: %v", err)
	}
	if chunks.Version != 1 {
		t.Errorf("container version = %d", chunks.Version)
	}

	back, _, err := ReadMemory(data, "", nil, "out")
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if len(back.Meshes) != 1 || len(back.Materials) != 1 {
		t.Fatalf("counts: %d meshes %d materials", len(back.Meshes), len(back.Materials))
	}
	bm := back.Meshes[0]
	if len(bm.Positions) != 3 || len(bm.Faces) != 1 {
		t.Fatalf("topology: %d verts %d faces", len(bm.Positions), len(bm.Faces))
	}
	const tol = 1e-5
	for i, p := range bm.Positions {
		if p.Sub(s.Meshes[0].Positions[i]).Length() > tol {
			t.Errorf("position %d drifted", i)
		}
	}
	p, ok := back.Materials[0].Get(scene.KeyOpacity, scene.TextureNone, 0)
	if !ok {
		t.Fatal("opacity lost")
	}
	if f, _ := p.AsFloat(); f != 0.5 {
		t.Errorf("opacity = %v", f)
	}
}

func TestContainerVersionRejected(t *testing.T) {
	// A version-2 container must be refused by the 1.0 importer.
	glb := gltfbuf.EncodeGLB([]byte(`{"asset":{"version":"2.0"}}`), nil)
	if _, _, err := ReadMemory(glb, "", nil, "wrong"); err == nil {
		t.Fatal("version-2 container must be rejected")
	}
}

func TestEmbeddedTextureDataURI(t *testing.T) {
	s := buildNeutralScene()
	s.Textures = []*scene.EmbeddedTexture{{
		Filename: "spot",
		Width:    1, Height: 1,
		FormatHint: scene.ImageFormatPNG,
		Pixels:     []aimath.Texel{{R: 1, G: 2, B: 3, A: 255}},
	}}
	s.Materials[0].AddString(scene.KeyTexFile, scene.TextureDiffuse, 0, "*0")

	doc, _, err := exportDocument(s, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Images) != 1 || len(doc.Textures) != 1 || len(doc.Samplers) != 1 {
		t.Fatalf("image/texture/sampler counts: %d/%d/%d", len(doc.Images), len(doc.Textures), len(doc.Samplers))
	}
	for _, img := range doc.Images {
		if len(img.URI) < 22 || img.URI[:22] != "data:image/png;base64," {
			t.Errorf("image uri = %.40q, want base64 png data URI", img.URI)
		}
	}
	mat := doc.Materials["material_0"]
	v, ok := mat.Values[valueDiffuse]
	if !ok || v.Texture == "" {
		t.Errorf("diffuse slot = %+v, want texture reference", v)
	}
}
