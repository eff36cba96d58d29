package scene

import (
	"testing"

	"github.com/asset-importer/scenekit/math"
)

func TestNewSceneHasRootNode(t *testing.T) {
	s := NewScene("root")
	if s.Nodes == nil {
		t.Fatal("expected a node tree")
	}
	if s.Nodes.Node(s.Nodes.Root).Name != "root" {
		t.Errorf("expected root node named %q", "root")
	}
}

func TestSceneValidateCatchesBadMeshMaterialIndex(t *testing.T) {
	s := NewScene("s")
	m := unitTriangle()
	m.MaterialIndex = 3
	s.Meshes = append(s.Meshes, m)
	s.Materials = append(s.Materials, NewMaterial())

	if err := s.Validate(); err == nil {
		t.Error("expected an error for out-of-range MaterialIndex")
	}
}

func TestSceneValidateCatchesBadNodeMeshIndex(t *testing.T) {
	s := NewScene("s")
	s.Nodes.Node(s.Nodes.Root).Meshes = []int{0}

	if err := s.Validate(); err == nil {
		t.Error("expected an error for out-of-range node mesh index")
	}
}

func TestSceneValidatePasses(t *testing.T) {
	s := NewScene("s")
	m := unitTriangle()
	m.ComputePrimitiveTypes()
	s.Meshes = append(s.Meshes, m)
	s.Materials = append(s.Materials, NewMaterial())
	s.Nodes.Node(s.Nodes.Root).Meshes = []int{0}

	if err := s.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSceneHasHelpers(t *testing.T) {
	s := NewScene("s")
	if s.HasMeshes() || s.HasMaterials() || s.HasCameras() {
		t.Error("expected a fresh scene to report no content")
	}
	s.Lights = append(s.Lights, Light{Name: "sun", Type: LightDirectional})
	if !s.HasLights() {
		t.Error("expected HasLights true")
	}
}

func TestNodeTreeWorldTransform(t *testing.T) {
	tree := NewNodeTree("root")
	child := tree.AddChild(tree.Root, Node{
		Name:      "child",
		Transform: math.Mat4Translation(math.NewVec3(1, 0, 0)),
	})
	grandchild := tree.AddChild(child, Node{
		Name:      "grandchild",
		Transform: math.Mat4Translation(math.NewVec3(0, 1, 0)),
	})

	world := tree.WorldTransform(grandchild)
	pos := world.MulVec3(math.Vec3Zero)
	want := math.NewVec3(1, 1, 0)
	if pos.Distance(want) > 1e-6 {
		t.Errorf("expected world position %v, got %v", want, pos)
	}
}

func TestNodeTreeMergeRewritesIndices(t *testing.T) {
	host := NewNodeTree("host")
	imported := NewNodeTree("imported-root")
	child := imported.AddChild(imported.Root, Node{Name: "imported-child"})

	newRoot := host.Merge(host.Root, imported)

	if host.Nodes[newRoot].Name != "imported-root" {
		t.Errorf("expected merged root name %q, got %q", "imported-root", host.Nodes[newRoot].Name)
	}
	if *host.Nodes[newRoot].Parent != host.Root {
		t.Error("expected merged root's parent to be the host's chosen attachment point")
	}
	if len(host.Nodes[newRoot].Children) != 1 {
		t.Fatalf("expected merged root to keep its one child, got %d", len(host.Nodes[newRoot].Children))
	}
	mergedChild := host.Nodes[newRoot].Children[0]
	if host.Nodes[mergedChild].Name != "imported-child" {
		t.Errorf("expected rewritten child name %q, got %q", "imported-child", host.Nodes[mergedChild].Name)
	}
	if *host.Nodes[mergedChild].Parent != newRoot {
		t.Error("expected rewritten child's parent index to point at the new root")
	}
	_ = child
}
