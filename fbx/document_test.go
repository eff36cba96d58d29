package fbx

import (
	"strings"
	"testing"
)

const headerFixture = `
FBXHeaderExtension:  {
	FBXHeaderVersion: 1003
	FBXVersion: 7300
	CreationTimeStamp:  {
		Version: 1000
		Year: 2012
		Month: 6
		Day: 28
		Hour: 16
		Minute: 32
		Second: 53
		Millisecond: 433
	}
	Creator: "FBX SDK/FBX Plugins version 2013.1"
}`

func TestReadDocumentHeader(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(headerFixture), ImportSettings{})
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if doc.FBXVersion != 7300 {
		t.Errorf("version = %d, want 7300", doc.FBXVersion)
	}
	if doc.Creator != "FBX SDK/FBX Plugins version 2013.1" {
		t.Errorf("creator = %q", doc.Creator)
	}
	want := [7]int32{2012, 6, 28, 16, 32, 53, 433}
	if doc.CreationDate != want {
		t.Errorf("creation date = %v, want %v", doc.CreationDate, want)
	}
	if doc.HeaderVersion != 1003 {
		t.Errorf("header version = %d", doc.HeaderVersion)
	}
}

func TestVersionWindow(t *testing.T) {
	fixture := func(version string) string {
		return strings.Replace(headerFixture, "7300", version, 1)
	}

	if _, err := ReadDocument(strings.NewReader(fixture("7000")), ImportSettings{}); err == nil {
		t.Error("version below 7100 must be rejected")
	}
	if _, err := ReadDocument(strings.NewReader(fixture("7700")), ImportSettings{Strict: true}); err == nil {
		t.Error("version above 7400 must be rejected in strict mode")
	}
	doc, err := ReadDocument(strings.NewReader(fixture("7700")), ImportSettings{Strict: false})
	if err != nil {
		t.Fatalf("version above 7400 must load without strict: %v", err)
	}
	if doc.FBXVersion != 7700 {
		t.Errorf("version = %d", doc.FBXVersion)
	}
}

func TestMissingHeaderFails(t *testing.T) {
	if _, err := ReadDocument(strings.NewReader("Objects: { }\n"), ImportSettings{}); err == nil {
		t.Fatal("document without FBXHeaderExtension must fail")
	}
}

const definitionsFixture = headerFixture + `
Definitions:  {
	Version: 100
	Count: 2
	ObjectType: "Material" {
		Count: 1
		PropertyTemplate: "FbxSurfacePhong" {
			Properties70:  {
				P: "ShadingModel", "KString", "", "", "Phong"
				P: "MultiLayer", "bool", "", "",0
				P: "EmissiveFactor", "Number", "", "A",1
				P: "Diffuse", "Vector3D", "Vector", "",0.2,0.2,0.2
				P: "AmbientColor", "ColorAndAlpha", "", "A",0,0,0,1
				P: "UniqueId", "ULongLong", "", "",123456789
				P: "LocalStart", "KTime", "Time", "",-500
				P: "Shininess", "double", "Number", "A",20
				P: "CullingMode", "enum", "", "",0
			}
		}
	}
	ObjectType: "Model" {
		Count: 1
	}
}`

func TestPropertyTemplates(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(definitionsFixture), ImportSettings{})
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	tpl, ok := doc.Templates["Material.FbxSurfacePhong"]
	if !ok {
		t.Fatalf("templates = %v", doc.Templates)
	}

	cases := []struct {
		name string
		kind PropertyKind
	}{
		{"ShadingModel", PropString},
		{"MultiLayer", PropBool},
		{"EmissiveFactor", PropFloat},
		{"Diffuse", PropVec3},
		{"AmbientColor", PropVec4},
		{"UniqueId", PropULongLong},
		{"LocalStart", PropILongLong},
		{"Shininess", PropFloat},
		{"CullingMode", PropInt},
	}
	for _, c := range cases {
		p, ok := tpl[c.name]
		if !ok {
			t.Errorf("property %s missing", c.name)
			continue
		}
		if p.Kind != c.kind {
			t.Errorf("property %s kind = %v, want %v", c.name, p.Kind, c.kind)
		}
	}

	if p := tpl["ShadingModel"]; p.Str != "Phong" {
		t.Errorf("ShadingModel = %q", p.Str)
	}
	if p := tpl["Diffuse"]; p.Vec3 != [3]float32{0.2, 0.2, 0.2} {
		t.Errorf("Diffuse = %v", p.Vec3)
	}
	if p := tpl["AmbientColor"]; p.Vec4 != [4]float32{0, 0, 0, 1} {
		t.Errorf("AmbientColor = %v", p.Vec4)
	}
	if p := tpl["UniqueId"]; p.U64 != 123456789 {
		t.Errorf("UniqueId = %d", p.U64)
	}
	if p := tpl["LocalStart"]; p.I64 != -500 {
		t.Errorf("LocalStart = %d", p.I64)
	}
	if p := tpl["MultiLayer"]; p.Bool {
		t.Error("MultiLayer must be false")
	}

	// The Model ObjectType has no PropertyTemplate, so no entry.
	if _, ok := doc.Templates["Model."]; ok {
		t.Error("template without a PropertyTemplate block must not appear")
	}
}
