package fbx

import (
	"io"
	"strconv"

	"github.com/asset-importer/scenekit/errs"
)

// Supported ASCII FBX version window. Versions above the upper bound
// still load when ImportSettings.Strict is off; versions below the
// lower bound never do.
const (
	LowestSupportedVersion = 7100
	UpperSupportedVersion  = 7400
)

// ImportSettings controls document extraction. Strict rejects versions
// newer than UpperSupportedVersion instead of attempting a best-effort
// read.
type ImportSettings struct {
	Strict bool
}

// PropertyKind discriminates the typed value decoded from one
// Properties70 row.
type PropertyKind int

const (
	PropString PropertyKind = iota
	PropBool
	PropInt
	PropULongLong
	PropILongLong
	PropFloat
	PropVec3
	PropVec4
)

// Property is the tagged value of one template property row.
type Property struct {
	Kind PropertyKind

	Str   string
	Bool  bool
	Int   int32
	U64   uint64
	I64   int64
	Float float32
	Vec3  [3]float32
	Vec4  [4]float32
}

// Template maps a property name to its default value, as declared by
// one ObjectType's PropertyTemplate block.
type Template map[string]Property

// Document is the extracted header plus the property-template map,
// keyed "<ObjectType>.<PropertyTemplateName>".
type Document struct {
	HeaderVersion uint32
	FBXVersion    uint32
	Creator       string
	// CreationDate is [year, month, day, hour, minute, second,
	// millisecond] from the header's CreationTimeStamp block.
	CreationDate [7]int32

	Templates map[string]Template
}

// ReadDocument parses the ASCII stream and extracts the document
// header and templates in one call.
func ReadDocument(r io.Reader, settings ImportSettings) (*Document, error) {
	arena, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return ExtractDocument(arena, settings)
}

// ExtractDocument walks an already-parsed element tree, validating the
// FBXHeaderExtension block and decoding every property template.
func ExtractDocument(arena *ElementArena, settings ImportSettings) (*Document, error) {
	doc := &Document{Templates: map[string]Template{}}
	if err := readHeader(arena, doc, settings); err != nil {
		return nil, err
	}
	if err := readDefinitions(arena, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func readHeader(arena *ElementArena, doc *Document, settings ImportSettings) error {
	header := arena.ByKey("FBXHeaderExtension")
	if header < 0 {
		return &errs.FormatError{Msg: "fbx: FBXHeaderExtension not found"}
	}

	if hv := arena.ChildByKey(header, "FBXHeaderVersion"); hv >= 0 {
		v, _ := strconv.ParseUint(arena.FirstToken(hv), 10, 32)
		doc.HeaderVersion = uint32(v)
	}

	ver := arena.ChildByKey(header, "FBXVersion")
	if ver < 0 {
		return &errs.FormatError{Msg: "fbx: FBXVersion not found"}
	}
	v, err := strconv.ParseUint(arena.FirstToken(ver), 10, 32)
	if err != nil {
		return &errs.FormatError{Msg: "fbx: FBXVersion is not a number", Err: err}
	}
	doc.FBXVersion = uint32(v)
	if doc.FBXVersion < LowestSupportedVersion {
		return &errs.FormatError{Msg: "fbx: unsupported version " + arena.FirstToken(ver)}
	}
	if doc.FBXVersion > UpperSupportedVersion && settings.Strict {
		return &errs.FormatError{Msg: "fbx: version " + arena.FirstToken(ver) + " is newer than supported; disable strict mode to attempt the import"}
	}

	creator := arena.ChildByKey(header, "Creator")
	if creator < 0 {
		return &errs.FormatError{Msg: "fbx: Creator not found"}
	}
	doc.Creator = arena.FirstToken(creator)

	stamp := arena.ChildByKey(header, "CreationTimeStamp")
	if stamp < 0 {
		return &errs.FormatError{Msg: "fbx: CreationTimeStamp not found"}
	}
	fields := [7]string{"Year", "Month", "Day", "Hour", "Minute", "Second", "Millisecond"}
	for i, field := range fields {
		fi := arena.ChildByKey(stamp, field)
		if fi < 0 {
			return &errs.FormatError{Msg: "fbx: CreationTimeStamp." + field + " not found"}
		}
		n, err := strconv.ParseInt(arena.FirstToken(fi), 10, 32)
		if err != nil {
			return &errs.FormatError{Msg: "fbx: CreationTimeStamp." + field + " is not a number", Err: err}
		}
		doc.CreationDate[i] = int32(n)
	}
	return nil
}

// readDefinitions populates the template map from the Definitions
// block: ObjectType -> PropertyTemplate -> Properties70, each "P" row
// decoded into a typed Property.
func readDefinitions(arena *ElementArena, doc *Document) error {
	defs := arena.ByKey("Definitions")
	if defs < 0 {
		return nil
	}
	for _, ot := range arena.ChildrenByKey(defs, "ObjectType") {
		objectName := arena.FirstToken(ot)
		if objectName == "" || len(arena.Elements[ot].Children) == 0 {
			continue
		}
		for _, pt := range arena.ChildrenByKey(ot, "PropertyTemplate") {
			templateName := arena.FirstToken(pt)
			if templateName == "" || len(arena.Elements[pt].Children) == 0 {
				continue
			}
			props := arena.ChildByKey(pt, "Properties70")
			if props < 0 {
				continue
			}
			key := objectName + "." + templateName
			template, ok := doc.Templates[key]
			if !ok {
				template = Template{}
				doc.Templates[key] = template
			}
			for _, row := range arena.Elements[props].Children {
				name, prop, err := decodePropertyRow(arena.Elements[row].Tokens)
				if err != nil {
					return err
				}
				if name != "" {
					template[name] = prop
				}
			}
		}
	}
	return nil
}

// decodePropertyRow decodes one Properties70 row of the shape
// [name, type, label, flags, value...] into a typed Property. Rows
// with an unknown type token fail; rows with too few tokens for their
// declared type fail; malformed numeric values decode to zero, the
// permissive behavior of the ASCII readers in the wild.
func decodePropertyRow(tokens []string) (string, Property, error) {
	if len(tokens) < 2 {
		return "", Property{}, &errs.FormatError{Msg: "fbx: property row with fewer than 2 tokens"}
	}
	name, typeToken := tokens[0], tokens[1]

	need := func(n int) error {
		if len(tokens) != n {
			return &errs.FormatError{Msg: "fbx: property " + name + " (" + typeToken + ") has " + strconv.Itoa(len(tokens)) + " tokens, want " + strconv.Itoa(n)}
		}
		return nil
	}
	f := func(i int) float32 {
		v, _ := strconv.ParseFloat(tokens[i], 32)
		return float32(v)
	}

	switch typeToken {
	case "KString":
		if err := need(5); err != nil {
			return "", Property{}, err
		}
		return name, Property{Kind: PropString, Str: tokens[4]}, nil
	case "bool", "Bool":
		if err := need(5); err != nil {
			return "", Property{}, err
		}
		v, _ := strconv.ParseInt(tokens[4], 10, 32)
		return name, Property{Kind: PropBool, Bool: v != 0}, nil
	case "int", "Int", "enum", "Enum", "Integer":
		if err := need(5); err != nil {
			return "", Property{}, err
		}
		v, _ := strconv.ParseInt(tokens[4], 10, 32)
		return name, Property{Kind: PropInt, Int: int32(v)}, nil
	case "ULongLong":
		if err := need(5); err != nil {
			return "", Property{}, err
		}
		v, _ := strconv.ParseUint(tokens[4], 10, 64)
		return name, Property{Kind: PropULongLong, U64: v}, nil
	case "KTime":
		if err := need(5); err != nil {
			return "", Property{}, err
		}
		v, _ := strconv.ParseInt(tokens[4], 10, 64)
		return name, Property{Kind: PropILongLong, I64: v}, nil
	case "double", "Number", "float", "Float", "FieldOfView", "UnitScaleFactor":
		if err := need(5); err != nil {
			return "", Property{}, err
		}
		return name, Property{Kind: PropFloat, Float: f(4)}, nil
	case "Vector3D":
		if err := need(7); err != nil {
			return "", Property{}, err
		}
		return name, Property{Kind: PropVec3, Vec3: [3]float32{f(4), f(5), f(6)}}, nil
	case "ColorAndAlpha":
		if err := need(8); err != nil {
			return "", Property{}, err
		}
		return name, Property{Kind: PropVec4, Vec4: [4]float32{f(4), f(5), f(6), f(7)}}, nil
	default:
		return "", Property{}, &errs.FormatError{Msg: "fbx: unknown property type " + typeToken}
	}
}
