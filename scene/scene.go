package scene

import "github.com/asset-importer/scenekit/errs"

// SceneFlags records coarse, format-independent facts about how a Scene
// was produced, so post-process passes and exporters can adjust behavior
// without re-deriving them.
type SceneFlags uint32

const (
	// NonVerboseFormat marks a scene whose meshes still use the compact,
	// shared-vertex indexing their source format stores on disk (OBJ,
	// FBX) rather than the fully unrolled one-vertex-per-corner form most
	// post-process passes require. Passes that need per-corner data must
	// refuse to run, or implicitly duplicate vertices first, when this
	// flag is set.
	NonVerboseFormat SceneFlags = 1 << iota
	// Incomplete marks a scene assembled only partially (e.g. material
	// preview) and not meant for full validation.
	Incomplete
	// Validated marks a scene that has already passed structural
	// validation, letting repeated passes skip re-checking it.
	Validated
)

// Scene is the root of the in-memory interchange model: every importer
// produces one, every exporter consumes one, and every post-process pass
// mutates one in place.
type Scene struct {
	Name  string
	Flags SceneFlags

	Nodes *NodeTree

	Meshes     []*Mesh
	Materials  []*Material
	Textures   []*EmbeddedTexture
	Cameras    []Camera
	Lights     []Light
	Animations []Animation

	Metadata map[string]Variant
}

// NewScene creates an empty scene with a single root node.
func NewScene(name string) *Scene {
	return &Scene{
		Name:     name,
		Nodes:    NewNodeTree(name),
		Metadata: map[string]Variant{},
	}
}

func (s *Scene) HasMeshes() bool     { return len(s.Meshes) > 0 }
func (s *Scene) HasMaterials() bool  { return len(s.Materials) > 0 }
func (s *Scene) HasTextures() bool   { return len(s.Textures) > 0 }
func (s *Scene) HasCameras() bool    { return len(s.Cameras) > 0 }
func (s *Scene) HasLights() bool     { return len(s.Lights) > 0 }
func (s *Scene) HasAnimations() bool { return len(s.Animations) > 0 }

// Validate runs Mesh.Validate over every mesh and checks every
// Node.Meshes/MaterialIndex reference is in range.
func (s *Scene) Validate() error {
	for _, m := range s.Meshes {
		if err := m.Validate(); err != nil {
			return err
		}
		if m.MaterialIndex < 0 || (len(s.Materials) > 0 && m.MaterialIndex >= len(s.Materials)) {
			return &errs.FormatError{Msg: "mesh " + m.Name + " references out-of-range material index"}
		}
	}
	for i := range s.Nodes.Nodes {
		for _, mi := range s.Nodes.Nodes[i].Meshes {
			if mi < 0 || mi >= len(s.Meshes) {
				return &errs.FormatError{Msg: "node " + s.Nodes.Nodes[i].Name + " references out-of-range mesh index"}
			}
		}
	}
	return nil
}
