package fbx

import (
	"io"
	"strings"
	"testing"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	lex := NewLexer(strings.NewReader(input))
	var out []Token
	for {
		tok, err := lex.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("lex: %v", err)
		}
		out = append(out, tok)
	}
}

func TestLexEmpty(t *testing.T) {
	if toks := lexAll(t, ""); len(toks) != 0 {
		t.Fatalf("tokens = %v", toks)
	}
}

func TestLexKeyAndData(t *testing.T) {
	toks := lexAll(t, "FBXVersion: 7300\n")
	if len(toks) != 2 {
		t.Fatalf("token count = %d: %v", len(toks), toks)
	}
	if toks[0].Kind != TokenKey || toks[0].Text != "FBXVersion" {
		t.Errorf("token 0 = %+v", toks[0])
	}
	if toks[1].Kind != TokenData || toks[1].Text != "7300" {
		t.Errorf("token 1 = %+v", toks[1])
	}
}

func TestLexKeyAcrossNewline(t *testing.T) {
	// A bare token whose colon arrives on the next line is still a key.
	toks := lexAll(t, "Creator\n: x\n")
	if toks[0].Kind != TokenKey || toks[0].Text != "Creator" {
		t.Errorf("token 0 = %+v", toks[0])
	}
}

func TestLexCommentDiscardsRestOfLine(t *testing.T) {
	toks := lexAll(t, "; FBX 7.3.0 project file\nKey: 1\n")
	if len(toks) != 2 || toks[0].Kind != TokenKey {
		t.Fatalf("tokens = %v", toks)
	}
}

func TestLexQuotedSpansNewlines(t *testing.T) {
	toks := lexAll(t, "\"line one\nline two\"")
	if len(toks) != 1 {
		t.Fatalf("token count = %d", len(toks))
	}
	if toks[0].Kind != TokenData {
		t.Errorf("kind = %v", toks[0].Kind)
	}
	if toks[0].Text != "line one\nline two" {
		t.Errorf("text = %q, inner newline must be preserved", toks[0].Text)
	}
}

func TestLexEOFFlushesBareAsData(t *testing.T) {
	toks := lexAll(t, "trailing")
	if len(toks) != 1 || toks[0].Kind != TokenData || toks[0].Text != "trailing" {
		t.Fatalf("tokens = %v", toks)
	}
}

func TestLexBracesAndCommas(t *testing.T) {
	toks := lexAll(t, "P: \"a\",\"b\" { }")
	kinds := []TokenKind{TokenKey, TokenData, TokenComma, TokenData, TokenOpenBrace, TokenCloseBrace}
	if len(toks) != len(kinds) {
		t.Fatalf("token count = %d: %v", len(toks), toks)
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexPositions(t *testing.T) {
	toks := lexAll(t, "A: 1\nB: 2\n")
	if toks[0].Line != 0 || toks[0].Column != 0 {
		t.Errorf("token 0 at %d:%d", toks[0].Line, toks[0].Column)
	}
	if toks[2].Line != 1 || toks[2].Column != 0 {
		t.Errorf("token B at %d:%d, want 1:0", toks[2].Line, toks[2].Column)
	}
}
