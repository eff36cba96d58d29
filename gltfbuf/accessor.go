// Package gltfbuf implements the numeric plumbing shared by the glTF 1.0
// and 2.0 codecs: the accessor engine that reads and writes a typed
// element sequence through a buffer-view/buffer layer (including sparse
// overlays), and the GLB/BGLTF binary container framing. Neither glTF
// codec talks to a raw byte buffer directly; both go through here.
package gltfbuf

import (
	"encoding/binary"
	"math"

	"github.com/asset-importer/scenekit/errs"
)

// ComponentType is the wire scalar type of one accessor element component.
type ComponentType int

const (
	ComponentByte          ComponentType = 5120
	ComponentUnsignedByte  ComponentType = 5121
	ComponentShort         ComponentType = 5122
	ComponentUnsignedShort ComponentType = 5123
	ComponentUnsignedInt   ComponentType = 5125
	ComponentFloat         ComponentType = 5126
)

// Size returns the component's byte width on the wire.
func (c ComponentType) Size() int {
	switch c {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// ElementType names the accessor's vector/matrix shape.
type ElementType int

const (
	TypeScalar ElementType = iota
	TypeVec2
	TypeVec3
	TypeVec4
	TypeMat2
	TypeMat3
	TypeMat4
)

// NumComponents returns how many scalar components one element holds.
func (t ElementType) NumComponents() int {
	switch t {
	case TypeScalar:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	case TypeMat2:
		return 4
	case TypeMat3:
		return 9
	case TypeMat4:
		return 16
	default:
		return 0
	}
}

// Buffer is one raw byte blob, glTF's lowest storage layer.
type Buffer struct {
	Data []byte
}

// BufferView is a contiguous, optionally strided slice of a Buffer.
type BufferView struct {
	Buffer     int
	ByteOffset uint32
	ByteLength uint32
	ByteStride uint32 // 0 means tightly packed (element size)
	Target     uint32 // 0 if unset
}

// SparseIndices names the component type and buffer-view backing the
// index stream of a sparse accessor overlay.
type SparseIndices struct {
	BufferView    int
	ByteOffset    uint32
	ComponentType ComponentType // one of UnsignedByte/UnsignedShort/UnsignedInt
}

// SparseValues names the buffer-view backing the replacement-element
// stream of a sparse accessor overlay.
type SparseValues struct {
	BufferView int
	ByteOffset uint32
}

// Sparse overlays Count replacement elements onto an otherwise
// base/zero-filled accessor at read time.
type Sparse struct {
	Count   int
	Indices SparseIndices
	Values  SparseValues
}

// Accessor is a strongly-typed view over a BufferView.
// BufferView is nil when the accessor has no backing view at all (a
// zero-filled base for a sparse overlay).
type Accessor struct {
	BufferView    *int
	ByteOffset    uint32
	ComponentType ComponentType
	Normalized    bool
	Count         int
	Type          ElementType
	Min, Max      []float64
	Sparse        *Sparse
}

// ElementSize is NumComponents * ComponentType.Size(), the wire byte
// width of one element.
func (a Accessor) ElementSize() int {
	return a.Type.NumComponents() * a.ComponentType.Size()
}

// ReadFloats decodes every element of acc as a []float64 of
// Type.NumComponents() values, applying any sparse overlay. Integer
// component types are NOT normalized here (see ReadNormalizedFloats for
// the glTF 2.0 vertex-attribute unsigned/signed-to-unit-float rules);
// this function returns raw component values widened to float64.
func ReadFloats(acc Accessor, views []BufferView, buffers []Buffer) ([][]float64, error) {
	raw, err := readBase(acc, views, buffers)
	if err != nil {
		return nil, err
	}
	n := acc.Type.NumComponents()
	size := acc.ComponentType.Size()
	out := make([][]float64, acc.Count)
	for i := 0; i < acc.Count; i++ {
		elem := make([]float64, n)
		for c := 0; c < n; c++ {
			off := (i*n + c) * size
			elem[c] = decodeComponent(acc.ComponentType, raw[off:off+size])
		}
		out[i] = elem
	}
	if acc.Sparse != nil {
		if err := applySparse(out, *acc.Sparse, acc, views, buffers); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadUints decodes every element as a []uint32, for index buffers and
// JOINTS_n attributes where the component type varies (u8/u16/u32) but
// callers want a single integer type.
func ReadUints(acc Accessor, views []BufferView, buffers []Buffer) ([][]uint32, error) {
	floats, err := ReadFloats(acc, views, buffers)
	if err != nil {
		return nil, err
	}
	out := make([][]uint32, len(floats))
	for i, e := range floats {
		row := make([]uint32, len(e))
		for c, v := range e {
			row[c] = uint32(v)
		}
		out[i] = row
	}
	return out, nil
}

// ReadNormalizedFloats applies the glTF 2.0 normalized-integer-to-float
// rules: U8 -> /255, U16 -> /65535, signed types
// clamped at max(-1, value/componentMax). Float components pass through.
func ReadNormalizedFloats(acc Accessor, views []BufferView, buffers []Buffer) ([][]float64, error) {
	raw, err := ReadFloats(acc, views, buffers)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType == ComponentFloat {
		return raw, nil
	}
	out := make([][]float64, len(raw))
	for i, e := range raw {
		row := make([]float64, len(e))
		for c, v := range e {
			row[c] = normalizeComponent(acc.ComponentType, v)
		}
		out[i] = row
	}
	return out, nil
}

func normalizeComponent(ct ComponentType, v float64) float64 {
	switch ct {
	case ComponentUnsignedByte:
		return v / 255.0
	case ComponentUnsignedShort:
		return v / 65535.0
	case ComponentByte:
		return math.Max(-1, v/127.0)
	case ComponentShort:
		return math.Max(-1, v/32767.0)
	default:
		return v
	}
}

func readBase(acc Accessor, views []BufferView, buffers []Buffer) ([]byte, error) {
	elemSize := acc.ElementSize()
	total := elemSize * acc.Count
	if acc.BufferView == nil {
		return make([]byte, total), nil
	}
	view := views[*acc.BufferView]
	buf := buffers[view.Buffer]
	stride := int(view.ByteStride)
	if stride == 0 {
		stride = elemSize
	}
	start := int(acc.ByteOffset) + int(view.ByteOffset)

	if stride == elemSize {
		end := start + total
		if end > len(buf.Data) {
			return nil, &errs.FormatError{Msg: "accessor exceeds buffer bounds"}
		}
		out := make([]byte, total)
		copy(out, buf.Data[start:end])
		return out, nil
	}

	out := make([]byte, total)
	for i := 0; i < acc.Count; i++ {
		off := start + i*stride
		if off+elemSize > len(buf.Data) {
			return nil, &errs.FormatError{Msg: "accessor exceeds buffer bounds"}
		}
		copy(out[i*elemSize:(i+1)*elemSize], buf.Data[off:off+elemSize])
	}
	return out, nil
}

func applySparse(dst [][]float64, sp Sparse, acc Accessor, views []BufferView, buffers []Buffer) error {
	if sp.Count == 0 {
		return nil
	}
	idxAcc := Accessor{
		BufferView:    &sp.Indices.BufferView,
		ByteOffset:    sp.Indices.ByteOffset,
		ComponentType: sp.Indices.ComponentType,
		Count:         sp.Count,
		Type:          TypeScalar,
	}
	idxRaw, err := readBase(idxAcc, views, buffers)
	if err != nil {
		return &errs.FormatError{Msg: "sparse indices view out of range", Err: err}
	}
	idxSize := sp.Indices.ComponentType.Size()
	indices := make([]int, sp.Count)
	for i := 0; i < sp.Count; i++ {
		off := i * idxSize
		indices[i] = int(decodeComponent(sp.Indices.ComponentType, idxRaw[off:off+idxSize]))
	}

	n := acc.Type.NumComponents()
	size := acc.ComponentType.Size()
	valAcc := Accessor{
		BufferView:    &sp.Values.BufferView,
		ByteOffset:    sp.Values.ByteOffset,
		ComponentType: acc.ComponentType,
		Count:         sp.Count,
		Type:          acc.Type,
	}
	valRaw, err := readBase(valAcc, views, buffers)
	if err != nil {
		return &errs.FormatError{Msg: "sparse values view out of range", Err: err}
	}

	for i, vi := range indices {
		if vi < 0 || vi >= len(dst) {
			return &errs.FormatError{Msg: "sparse index out of range"}
		}
		elem := make([]float64, n)
		for c := 0; c < n; c++ {
			off := (i*n + c) * size
			elem[c] = decodeComponent(acc.ComponentType, valRaw[off:off+size])
		}
		dst[vi] = elem
	}
	return nil
}

func decodeComponent(ct ComponentType, b []byte) float64 {
	switch ct {
	case ComponentByte:
		return float64(int8(b[0]))
	case ComponentUnsignedByte:
		return float64(b[0])
	case ComponentShort:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case ComponentUnsignedShort:
		return float64(binary.LittleEndian.Uint16(b))
	case ComponentUnsignedInt:
		return float64(binary.LittleEndian.Uint32(b))
	case ComponentFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		return 0
	}
}

func encodeComponent(ct ComponentType, v float64, out []byte) {
	switch ct {
	case ComponentByte:
		out[0] = byte(int8(v))
	case ComponentUnsignedByte:
		out[0] = byte(uint8(v))
	case ComponentShort:
		binary.LittleEndian.PutUint16(out, uint16(int16(v)))
	case ComponentUnsignedShort:
		binary.LittleEndian.PutUint16(out, uint16(v))
	case ComponentUnsignedInt:
		binary.LittleEndian.PutUint32(out, uint32(v))
	case ComponentFloat:
		binary.LittleEndian.PutUint32(out, math.Float32bits(float32(v)))
	}
}
