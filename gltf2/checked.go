// Package gltf2 implements the glTF 2.0 JSON schema (C6), the importer
// and exporter (C8/C9), and the bidirectional material mapping between
// glTF's PBR metallic-roughness model (plus its KHR extensions) and the
// neutral scene.Material property bag.
package gltf2

import "encoding/json"

// Checked is the "valid-or-invalid" sum type wrapping every
// restricted-domain enum field. Any JSON value of T's kind unmarshals as
// Valid, including one outside T's known domain (the validator reports
// those), so a document using a glTF extension newer than this library
// still parses. Only a value of the wrong JSON kind produces Invalid, and
// that does not fail the parse either.
type Checked[T comparable] struct {
	Value T
	Valid bool
}

// ValidValue wraps a known-good value.
func ValidValue[T comparable](v T) Checked[T] { return Checked[T]{Value: v, Valid: true} }

// CheckedOr returns c.Value if c.Valid, else fallback.
func CheckedOr[T comparable](c Checked[T], fallback T) T {
	if c.Valid {
		return c.Value
	}
	return fallback
}

func (c Checked[T]) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return json.Marshal(nil)
	}
	return json.Marshal(c.Value)
}

func (c *Checked[T]) UnmarshalJSON(b []byte) error {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		// The JSON shape itself didn't even match T's underlying type
		// (e.g. a string where an enum expects a number: this can only
		// happen for genuinely malformed documents, not merely unknown
		// enum members, since T's Go type still accepts any value of
		// its kind). Surface Invalid rather than failing the parse.
		c.Valid = false
		return nil
	}
	c.Value = v
	c.Valid = true
	return nil
}

// PrimitiveMode is the wire enum for Mesh.Primitive.Mode.
type PrimitiveMode int

const (
	ModePoints        PrimitiveMode = 0
	ModeLines         PrimitiveMode = 1
	ModeLineLoop      PrimitiveMode = 2
	ModeLineStrip     PrimitiveMode = 3
	ModeTriangles     PrimitiveMode = 4
	ModeTriangleStrip PrimitiveMode = 5
	ModeTriangleFan   PrimitiveMode = 6
)

// AlphaMode is the wire enum for Material.AlphaMode.
type AlphaMode string

const (
	AlphaOpaque AlphaMode = "OPAQUE"
	AlphaMask   AlphaMode = "MASK"
	AlphaBlend  AlphaMode = "BLEND"
)

// InterpolationMode is the wire enum for an animation sampler.
type InterpolationMode string

const (
	InterpolationLinear      InterpolationMode = "LINEAR"
	InterpolationStep        InterpolationMode = "STEP"
	InterpolationCubicSpline InterpolationMode = "CUBICSPLINE"
)
