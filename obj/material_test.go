package obj

import (
	"strings"
	"testing"
)

const sampleMTL = `
# comment
newmtl Red
Kd 1.0 0.0 0.0
Ns 200
d 0.5
map_Kd -clamp on textures/red.png

newmtl Green
Kd 0.0 1.0 0.0
`

func TestLoadMTLParsesMaterials(t *testing.T) {
	names, mats, err := LoadMTL(strings.NewReader(sampleMTL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "Red" || names[1] != "Green" {
		t.Fatalf("expected [Red Green] in declaration order, got %v", names)
	}

	red := mats["Red"]
	if red == nil {
		t.Fatal("expected a Red material")
	}
	p, ok := red.GetAny("$clr.diffuse")
	if !ok {
		t.Fatal("expected a diffuse color")
	}
	c, _ := p.AsColorRGBA()
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("unexpected diffuse color: %+v", c)
	}

	tex, ok := red.Get("$tex.file", 1 /* TextureDiffuse */, 0)
	if !ok {
		t.Fatal("expected a diffuse texture reference")
	}
	file, _ := tex.AsString()
	if file != "textures/red.png" {
		t.Errorf("expected trailing filename after option flags, got %q", file)
	}

	op, ok := red.GetAny("$mat.opacity")
	if !ok {
		t.Fatal("expected an opacity value")
	}
	o, _ := op.AsFloat()
	if o != 0.5 {
		t.Errorf("expected opacity 0.5, got %v", o)
	}
}

func TestLoadMTLTrInvertsOpacity(t *testing.T) {
	_, mats, err := LoadMTL(strings.NewReader("newmtl M\nTr 0.25\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := mats["M"].GetAny("$mat.opacity")
	v, _ := p.AsFloat()
	if v != 0.75 {
		t.Errorf("expected Tr 0.25 to invert to opacity 0.75, got %v", v)
	}
}
