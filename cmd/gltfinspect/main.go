// gltfinspect prints a quick structural summary of a glTF 2.0 asset.
// It deliberately uses the third-party qmuntal/gltf reader rather than
// this module's own codec, so its output is an independent cross-check
// when debugging an import or export.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/qmuntal/gltf"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: gltfinspect <file.gltf|file.glb>\n")
		flag.PrintDefaults()
	}
	verbose := flag.Bool("v", false, "also list every mesh, material and animation by name")
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	doc, err := gltf.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "gltfinspect: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("asset version: %s", doc.Asset.Version)
	if doc.Asset.Generator != "" {
		fmt.Printf(" (generator: %s)", doc.Asset.Generator)
	}
	fmt.Println()
	fmt.Printf("meshes: %d  materials: %d  nodes: %d  skins: %d  animations: %d  textures: %d\n",
		len(doc.Meshes), len(doc.Materials), len(doc.Nodes), len(doc.Skins), len(doc.Animations), len(doc.Textures))

	var prims, indexed int
	for _, m := range doc.Meshes {
		prims += len(m.Primitives)
		for _, p := range m.Primitives {
			if p.Indices != nil {
				indexed++
			}
		}
	}
	fmt.Printf("primitives: %d (%d indexed)\n", prims, indexed)

	if !*verbose {
		return
	}
	for i, m := range doc.Meshes {
		fmt.Printf("  mesh %d: %q, %d primitives\n", i, m.Name, len(m.Primitives))
	}
	for i, m := range doc.Materials {
		fmt.Printf("  material %d: %q\n", i, m.Name)
	}
	for i, a := range doc.Animations {
		fmt.Printf("  animation %d: %q, %d channels\n", i, a.Name, len(a.Channels))
	}
}
