package gltfbuf

import "testing"

func TestGLBRoundTrip(t *testing.T) {
	jsonBytes := []byte(`{"asset":{"version":"2.0"}}`)
	bin := []byte{1, 2, 3, 4, 5}

	encoded := EncodeGLB(jsonBytes, bin)
	decoded, err := DecodeGLB(encoded)
	if err != nil {
		t.Fatalf("DecodeGLB: %v", err)
	}
	// Chunk lengths include the 4-byte padding, so the decoded payloads
	// carry it: one trailing space on the 27-byte JSON, three zero bytes
	// on the 5-byte BIN.
	wantJSON := string(jsonBytes) + " "
	wantBIN := []byte{1, 2, 3, 4, 5, 0, 0, 0}
	if string(decoded.JSON) != wantJSON {
		t.Errorf("json: got %q want %q", decoded.JSON, wantJSON)
	}
	if string(decoded.BIN) != string(wantBIN) {
		t.Errorf("bin: got %v want %v", decoded.BIN, wantBIN)
	}
}

func TestGLBNoBinChunk(t *testing.T) {
	jsonBytes := []byte(`{"asset":{"version":"2.0"}}`)
	encoded := EncodeGLB(jsonBytes, nil)
	decoded, err := DecodeGLB(encoded)
	if err != nil {
		t.Fatalf("DecodeGLB: %v", err)
	}
	if decoded.BIN != nil {
		t.Errorf("expected nil BIN chunk, got %v", decoded.BIN)
	}
}

func TestGLBPadding(t *testing.T) {
	// 1-byte JSON body forces 3 bytes of space padding; 1-byte BIN forces
	// 3 bytes of zero padding. Total length must reflect the padded sizes.
	encoded := EncodeGLB([]byte("{"), []byte{0xAB})
	decoded, err := DecodeGLB(encoded)
	if err != nil {
		t.Fatalf("DecodeGLB: %v", err)
	}
	if string(decoded.JSON) != "{   " || string(decoded.BIN) != string([]byte{0xAB, 0, 0, 0}) {
		t.Errorf("chunk payloads should carry their padding: json=%q bin=%v", decoded.JSON, decoded.BIN)
	}
	if len(encoded)%4 != 0 {
		t.Errorf("encoded GLB length %d not 4-aligned", len(encoded))
	}
}

func TestDecodeGLBBadMagic(t *testing.T) {
	bad := make([]byte, 12)
	if _, err := DecodeGLB(bad); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestBGLTFRoundTrip(t *testing.T) {
	jsonBytes := []byte(`{"asset":{"version":"1.0"}}`)
	bin := []byte{9, 8, 7}

	encoded := EncodeBGLTF(jsonBytes, bin)
	decoded, err := DecodeBGLTF(encoded)
	if err != nil {
		t.Fatalf("DecodeBGLTF: %v", err)
	}
	// The JSON length field includes its space padding; BIN is not padded.
	wantJSON := string(jsonBytes) + " "
	if string(decoded.JSON) != wantJSON {
		t.Errorf("json: got %q want %q", decoded.JSON, wantJSON)
	}
	if string(decoded.BIN) != string(bin) {
		t.Errorf("bin: got %v want %v", decoded.BIN, bin)
	}
}

func TestDecodeBGLTFRejectsBadVersion(t *testing.T) {
	encoded := EncodeBGLTF([]byte("{}"), nil)
	// Corrupt the version field (bytes 4:8) to 2.
	encoded[4] = 2
	if _, err := DecodeBGLTF(encoded); err == nil {
		t.Fatal("expected version rejection")
	}
}
