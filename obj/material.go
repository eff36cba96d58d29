// Package obj adapts the Wavefront MTL material/texture grammar onto the
// neutral material property bag. Building meshes from the .obj face list
// itself is out of scope; only the material side-channel is implemented
// here.
package obj

import (
	"bufio"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/asset-importer/scenekit/errs"
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// LoadMTL parses a Wavefront .mtl stream into named materials keyed on
// their newmtl name, in the order they were declared.
func LoadMTL(r io.Reader) ([]string, map[string]*scene.Material, error) {
	names := []string{}
	result := map[string]*scene.Material{}
	var current *scene.Material

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "newmtl":
			if len(parts) > 1 {
				current = scene.NewMaterial()
				current.AddString(scene.KeyName, scene.TextureNone, 0, parts[1])
				result[parts[1]] = current
				names = append(names, parts[1])
			}
		case "Kd":
			setColor(current, scene.KeyColorDiffuse, parts)
		case "Ks":
			setColor(current, scene.KeyColorSpecular, parts)
		case "Ka":
			setColor(current, scene.KeyColorAmbient, parts)
		case "Ke":
			setColor(current, scene.KeyColorEmissive, parts)
		case "Ns":
			if current != nil && len(parts) >= 2 {
				ns, _ := strconv.ParseFloat(parts[1], 32)
				current.AddFloat(scene.KeyShininess, scene.TextureNone, 0, float32(ns))
				roughness := 1.0 - float32(ns)/1000.0
				if roughness < 0 {
					roughness = 0
				}
				current.AddFloat(scene.KeyRoughnessFactor, scene.TextureNone, 0, roughness)
			}
		case "d", "Tr":
			if current != nil && len(parts) >= 2 {
				d, _ := strconv.ParseFloat(parts[1], 32)
				if parts[0] == "Tr" {
					d = 1.0 - d
				}
				current.AddFloat(scene.KeyOpacity, scene.TextureNone, 0, float32(d))
			}
		case "map_Kd":
			setTexture(current, scene.TextureDiffuse, parts)
		case "map_Ks":
			setTexture(current, scene.TextureSpecular, parts)
		case "map_Ka":
			setTexture(current, scene.TextureAmbient, parts)
		case "map_Bump", "bump":
			setTexture(current, scene.TextureHeight, parts)
		case "map_d":
			setTexture(current, scene.TextureOpacity, parts)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, &errs.FormatError{Msg: "reading MTL", Err: err}
	}
	return names, result, nil
}

func setColor(m *scene.Material, key string, parts []string) {
	if m == nil || len(parts) < 4 {
		return
	}
	r, _ := strconv.ParseFloat(parts[1], 32)
	g, _ := strconv.ParseFloat(parts[2], 32)
	b, _ := strconv.ParseFloat(parts[3], 32)
	m.AddColor(key, scene.TextureNone, 0, aimath.Color4{R: float32(r), G: float32(g), B: float32(b), A: 1})
}

// setTexture records a texture reference. The MTL grammar allows option
// flags (e.g. "-clamp on") before the trailing filename; only the final
// field is treated as the path, matching every real-world exporter's
// output even though the full option grammar isn't interpreted.
func setTexture(m *scene.Material, semantic scene.TextureType, parts []string) {
	if m == nil || len(parts) < 2 {
		return
	}
	file := parts[len(parts)-1]
	m.AddString(scene.KeyTexFile, semantic, 0, filepath.ToSlash(file))
}
