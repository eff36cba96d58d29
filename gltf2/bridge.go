package gltf2

import "github.com/asset-importer/scenekit/gltfbuf"

// elementTypeFromString/elementTypeToString bridge the schema's string
// enum to gltfbuf's numeric ElementType.
func elementTypeFromString(s string) gltfbuf.ElementType {
	switch s {
	case TypeScalar:
		return gltfbuf.TypeScalar
	case TypeVec2:
		return gltfbuf.TypeVec2
	case TypeVec3:
		return gltfbuf.TypeVec3
	case TypeVec4:
		return gltfbuf.TypeVec4
	case TypeMat2:
		return gltfbuf.TypeMat2
	case TypeMat3:
		return gltfbuf.TypeMat3
	case TypeMat4:
		return gltfbuf.TypeMat4
	default:
		return gltfbuf.TypeScalar
	}
}

func elementTypeToString(t gltfbuf.ElementType) string {
	switch t {
	case gltfbuf.TypeScalar:
		return TypeScalar
	case gltfbuf.TypeVec2:
		return TypeVec2
	case gltfbuf.TypeVec3:
		return TypeVec3
	case gltfbuf.TypeVec4:
		return TypeVec4
	case gltfbuf.TypeMat2:
		return TypeMat2
	case gltfbuf.TypeMat3:
		return TypeMat3
	case gltfbuf.TypeMat4:
		return TypeMat4
	default:
		return TypeScalar
	}
}

// toEngineBuffers/toEngineViews/toEngineAccessor convert the document's
// JSON schema types into gltfbuf's engine types for reading.
func toEngineBuffers(buffers []Buffer, resolved [][]byte) []gltfbuf.Buffer {
	out := make([]gltfbuf.Buffer, len(buffers))
	for i := range buffers {
		out[i] = gltfbuf.Buffer{Data: resolved[i]}
	}
	return out
}

func toEngineViews(views []BufferView) []gltfbuf.BufferView {
	out := make([]gltfbuf.BufferView, len(views))
	for i, v := range views {
		out[i] = gltfbuf.BufferView{
			Buffer:     v.Buffer,
			ByteOffset: uint32(v.ByteOffset),
			ByteLength: uint32(v.ByteLength),
			ByteStride: uint32(v.ByteStride),
			Target:     uint32(v.Target),
		}
	}
	return out
}

func toEngineAccessor(a Accessor) gltfbuf.Accessor {
	out := gltfbuf.Accessor{
		BufferView:    a.BufferView,
		ByteOffset:    uint32(a.ByteOffset),
		ComponentType: gltfbuf.ComponentType(a.ComponentType),
		Normalized:    a.Normalized,
		Count:         a.Count,
		Type:          elementTypeFromString(CheckedOr(a.Type, TypeScalar)),
		Min:           a.Min,
		Max:           a.Max,
	}
	if a.Sparse != nil {
		out.Sparse = &gltfbuf.Sparse{
			Count: a.Sparse.Count,
			Indices: gltfbuf.SparseIndices{
				BufferView:    a.Sparse.Indices.BufferView,
				ByteOffset:    uint32(a.Sparse.Indices.ByteOffset),
				ComponentType: gltfbuf.ComponentType(a.Sparse.Indices.ComponentType),
			},
			Values: gltfbuf.SparseValues{
				BufferView: a.Sparse.Values.BufferView,
				ByteOffset: uint32(a.Sparse.Values.ByteOffset),
			},
		}
	}
	return out
}

// accessorFromEngine converts a gltfbuf.Accessor produced by a Writer
// back into the document schema shape, for the export side.
func accessorFromEngine(a gltfbuf.Accessor) Accessor {
	return Accessor{
		BufferView:    a.BufferView,
		ByteOffset:    int(a.ByteOffset),
		ComponentType: int(a.ComponentType),
		Normalized:    a.Normalized,
		Count:         a.Count,
		Type:          ValidValue(elementTypeToString(a.Type)),
		Min:           a.Min,
		Max:           a.Max,
	}
}

func bufferViewFromEngine(v gltfbuf.BufferView) BufferView {
	return BufferView{
		Buffer:     v.Buffer,
		ByteOffset: int(v.ByteOffset),
		ByteLength: int(v.ByteLength),
		ByteStride: int(v.ByteStride),
		Target:     int(v.Target),
	}
}
