package gltfbuf

import (
	"encoding/binary"

	"github.com/asset-importer/scenekit/errs"
)

// Container framing for the glTF 2.0 (GLB) and glTF 1.0 (BGLTF) binary
// formats.

const (
	glbMagic         uint32 = 0x46546C67 // "glTF"
	glbChunkJSON     uint32 = 0x4E4F534A
	glbChunkBIN      uint32 = 0x004E4942
	bgltfMagic       uint32 = 0x46546C67 // shares the textual magic; version field distinguishes
	headerSize       int    = 12
	chunkHeaderSize  int    = 8
)

// GLBChunks is the decoded payload of a GLB container: the JSON chunk
// (always present) and an optional BIN chunk.
type GLBChunks struct {
	Version uint32
	JSON    []byte
	BIN     []byte // nil if the container had no second chunk
}

// padLen returns how many padding bytes are needed to round n up to a
// multiple of 4.
func padLen(n int) int {
	if rem := n % 4; rem != 0 {
		return 4 - rem
	}
	return 0
}

// DecodeGLB parses a glTF 2.0 binary container: 12-byte header (magic,
// version, total length) followed by a JSON chunk and an optional BIN
// chunk, each individually length/type prefixed.
func DecodeGLB(data []byte) (*GLBChunks, error) {
	if len(data) < headerSize {
		return nil, &errs.FormatError{Msg: "glb: file shorter than header"}
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != glbMagic {
		return nil, &errs.FormatError{Msg: "glb: bad magic"}
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != 2 {
		return nil, &errs.FormatError{Msg: "glb: unsupported version (want 2)"}
	}
	total := binary.LittleEndian.Uint32(data[8:12])
	if int(total) > len(data) {
		return nil, &errs.FormatError{Msg: "glb: declared length exceeds file size"}
	}

	out := &GLBChunks{Version: version}
	pos := headerSize
	first := true
	for pos+chunkHeaderSize <= int(total) {
		length := binary.LittleEndian.Uint32(data[pos : pos+4])
		ctype := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		pos += chunkHeaderSize
		if pos+int(length) > len(data) {
			return nil, &errs.FormatError{Msg: "glb: chunk exceeds file size"}
		}
		payload := data[pos : pos+int(length)]
		pos += int(length)

		switch ctype {
		case glbChunkJSON:
			out.JSON = payload
		case glbChunkBIN:
			out.BIN = payload
		default:
			// Unknown chunk types are skipped per glTF's forward-
			// compatibility rule; only the first two chunks are
			// conventionally JSON/BIN.
		}
		if first && ctype != glbChunkJSON {
			return nil, &errs.FormatError{Msg: "glb: first chunk must be JSON"}
		}
		first = false
	}
	if out.JSON == nil {
		return nil, &errs.FormatError{Msg: "glb: missing JSON chunk"}
	}
	return out, nil
}

// EncodeGLB serializes jsonBytes and bin (which may be nil) into a GLB
// container. The JSON chunk is padded with ASCII spaces, the BIN chunk
// with zero bytes, both to a multiple of 4.
func EncodeGLB(jsonBytes []byte, bin []byte) []byte {
	jsonPad := padLen(len(jsonBytes))
	var binPad int
	hasBin := bin != nil
	if hasBin {
		binPad = padLen(len(bin))
	}

	total := headerSize + chunkHeaderSize + len(jsonBytes) + jsonPad
	if hasBin {
		total += chunkHeaderSize + len(bin) + binPad
	}

	out := make([]byte, 0, total)
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:4], glbMagic)
	binary.LittleEndian.PutUint32(hdr[4:8], 2)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(total))
	out = append(out, hdr...)

	jsonHdr := make([]byte, chunkHeaderSize)
	binary.LittleEndian.PutUint32(jsonHdr[0:4], uint32(len(jsonBytes)+jsonPad))
	binary.LittleEndian.PutUint32(jsonHdr[4:8], glbChunkJSON)
	out = append(out, jsonHdr...)
	out = append(out, jsonBytes...)
	for i := 0; i < jsonPad; i++ {
		out = append(out, ' ')
	}

	if hasBin {
		binHdr := make([]byte, chunkHeaderSize)
		binary.LittleEndian.PutUint32(binHdr[0:4], uint32(len(bin)+binPad))
		binary.LittleEndian.PutUint32(binHdr[4:8], glbChunkBIN)
		out = append(out, binHdr...)
		out = append(out, bin...)
		for i := 0; i < binPad; i++ {
			out = append(out, 0)
		}
	}

	return out
}

// BGLTFChunks is the decoded payload of a glTF 1.0 binary container.
type BGLTFChunks struct {
	Version    uint32
	SceneFmt   uint32
	JSON       []byte
	BIN        []byte
}

// DecodeBGLTF parses a glTF 1.0 binary container. The layout mirrors
// GLB's but carries an extra scene-format field; versions outside
// [1,1] are rejected.
func DecodeBGLTF(data []byte) (*BGLTFChunks, error) {
	const bgltfHeaderSize = 20
	if len(data) < bgltfHeaderSize {
		return nil, &errs.FormatError{Msg: "bgltf: file shorter than header"}
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != bgltfMagic {
		return nil, &errs.FormatError{Msg: "bgltf: bad magic"}
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version < 1 || version > 1 {
		return nil, &errs.FormatError{Msg: "bgltf: unsupported version (want 1)"}
	}
	total := binary.LittleEndian.Uint32(data[8:12])
	jsonLength := binary.LittleEndian.Uint32(data[12:16])
	sceneFormat := binary.LittleEndian.Uint32(data[16:20])
	if int(total) > len(data) {
		return nil, &errs.FormatError{Msg: "bgltf: declared length exceeds file size"}
	}
	if bgltfHeaderSize+int(jsonLength) > len(data) {
		return nil, &errs.FormatError{Msg: "bgltf: json length exceeds file size"}
	}

	jsonBytes := data[bgltfHeaderSize : bgltfHeaderSize+int(jsonLength)]
	bin := data[bgltfHeaderSize+int(jsonLength) : total]
	return &BGLTFChunks{Version: version, SceneFmt: sceneFormat, JSON: jsonBytes, BIN: bin}, nil
}

// EncodeBGLTF serializes a glTF 1.0 binary container.
func EncodeBGLTF(jsonBytes []byte, bin []byte) []byte {
	const bgltfHeaderSize = 20
	const jsonSceneFormat = 0

	jsonPad := padLen(len(jsonBytes))
	total := bgltfHeaderSize + len(jsonBytes) + jsonPad + len(bin)

	out := make([]byte, bgltfHeaderSize, total)
	binary.LittleEndian.PutUint32(out[0:4], bgltfMagic)
	binary.LittleEndian.PutUint32(out[4:8], 1)
	binary.LittleEndian.PutUint32(out[8:12], uint32(total))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(jsonBytes)+jsonPad))
	binary.LittleEndian.PutUint32(out[16:20], jsonSceneFormat)

	out = append(out, jsonBytes...)
	for i := 0; i < jsonPad; i++ {
		out = append(out, ' ')
	}
	out = append(out, bin...)
	return out
}
