package scene

import (
	"testing"

	"github.com/asset-importer/scenekit/math"
)

func TestAddPropertyInsertsWithNoneSemantic(t *testing.T) {
	m := NewMaterial()
	m.AddString(KeyName, TextureNone, 0, "Default")

	p, ok := m.GetAny(KeyName)
	if !ok {
		t.Fatal("expected ?mat.name to be present")
	}
	got, ok := p.AsString()
	if !ok || got != "Default" {
		t.Errorf("expected \"Default\", got %q (ok=%v)", got, ok)
	}
}

func TestAddPropertyOverwrites(t *testing.T) {
	m := NewMaterial()
	m.AddFloat(KeyOpacity, TextureNone, 0, 0.5)
	m.AddFloat(KeyOpacity, TextureNone, 0, 1.0)

	if len(m.Properties) != 1 {
		t.Fatalf("expected a single property after overwrite, got %d", len(m.Properties))
	}
	p, _ := m.Get(KeyOpacity, TextureNone, 0)
	v, _ := p.AsFloat()
	if v != 1.0 {
		t.Errorf("expected 1.0, got %v", v)
	}
}

func TestAddPropertyDistinguishesIndexAndSemantic(t *testing.T) {
	m := NewMaterial()
	m.AddString(KeyTexFile, TextureDiffuse, 0, "diffuse0.png")
	m.AddString(KeyTexFile, TextureDiffuse, 1, "diffuse1.png")
	m.AddString(KeyTexFile, TextureNormals, 0, "normal.png")

	if len(m.Properties) != 3 {
		t.Fatalf("expected 3 distinct properties, got %d", len(m.Properties))
	}
}

func TestAsColorRGBAFromFloats(t *testing.T) {
	m := NewMaterial()
	m.AddColor(KeyColorDiffuse, TextureNone, 0, math.Color4{R: 0.1, G: 0.2, B: 0.3, A: 0.4})

	p, _ := m.Get(KeyColorDiffuse, TextureNone, 0)
	c, ok := p.AsColorRGBA()
	if !ok {
		t.Fatal("expected a color")
	}
	if c.R != 0.1 || c.G != 0.2 || c.B != 0.3 || c.A != 0.4 {
		t.Errorf("unexpected color: %+v", c)
	}
}

func TestAsRealVecParsesASCIIFallback(t *testing.T) {
	p := Property{Value: VariantFromBuffer([]byte("1.0 2.5 -3.25"))}
	got, ok := p.AsRealVec()
	if !ok {
		t.Fatal("expected a parsed vector")
	}
	want := []float32{1.0, 2.5, -3.25}
	if len(got) != len(want) {
		t.Fatalf("expected %d components, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestAsBoolFromBinary(t *testing.T) {
	p := Property{Value: VariantFromBool(true)}
	got, ok := p.AsBool()
	if !ok || !got {
		t.Errorf("expected true, got %v (ok=%v)", got, ok)
	}
}
