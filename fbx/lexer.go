// Package fbx implements the ASCII FBX front-end (C12): a streaming
// lexer over the text form, an arena-backed element-tree parser, and a
// document extractor that validates the header and decodes property
// templates into typed values.
package fbx

import (
	"bufio"
	"io"

	"github.com/asset-importer/scenekit/errs"
)

// TokenKind discriminates the five token shapes the ASCII grammar
// produces.
type TokenKind int

const (
	TokenOpenBrace TokenKind = iota
	TokenCloseBrace
	TokenComma
	TokenKey
	TokenData
)

// Token is one lexed token tagged with the line/column (both 0-based)
// where it started.
type Token struct {
	Kind   TokenKind
	Text   string // Key and Data tokens only
	Line   int
	Column int
}

// Lexer streams tokens off a reader. Rules: whitespace separates
// tokens; ';' starts a comment running to end of line; a '"' data
// literal may span newlines, preserving the inner newline characters;
// a bare token followed by ':' (possibly across whitespace and
// newlines) is a Key, otherwise a Data; EOF flushes a pending bare
// token as Data.
type Lexer struct {
	r         *bufio.Reader
	line, col int

	// pending holds runes read ahead of the cursor during the
	// key-or-data colon scan, with the positions they were read at.
	pending []pendingRune
}

type pendingRune struct {
	r         rune
	line, col int
}

func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r)}
}

// readRune returns the next rune plus the position it started at.
func (l *Lexer) readRune() (rune, int, int, error) {
	if len(l.pending) > 0 {
		p := l.pending[0]
		l.pending = l.pending[1:]
		return p.r, p.line, p.col, nil
	}
	r, _, err := l.r.ReadRune()
	if err != nil {
		return 0, l.line, l.col, err
	}
	line, col := l.line, l.col
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r, line, col, nil
}

func (l *Lexer) pushBack(r rune, line, col int) {
	l.pending = append(l.pending, pendingRune{r, line, col})
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\x00', '\f':
		return true
	}
	return false
}

func isDelimiter(r rune) bool {
	switch r {
	case '"', '{', '}', ',', ';', ':':
		return true
	}
	return false
}

// Next returns the next token, or io.EOF when the stream is exhausted.
func (l *Lexer) Next() (Token, error) {
	for {
		r, line, col, err := l.readRune()
		if err == io.EOF {
			return Token{}, io.EOF
		}
		if err != nil {
			return Token{}, &errs.ReadError{Err: err}
		}

		switch {
		case r == '{':
			return Token{Kind: TokenOpenBrace, Line: line, Column: col}, nil
		case r == '}':
			return Token{Kind: TokenCloseBrace, Line: line, Column: col}, nil
		case r == ',':
			return Token{Kind: TokenComma, Line: line, Column: col}, nil
		case r == ';':
			if err := l.skipToLineEnd(); err != nil && err != io.EOF {
				return Token{}, err
			}
		case r == '"':
			return l.lexQuoted(line, col)
		case isSpace(r):
		default:
			return l.lexBare(r, line, col)
		}
	}
}

func (l *Lexer) skipToLineEnd() error {
	for {
		r, _, _, err := l.readRune()
		if err != nil {
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// lexQuoted captures a double-quoted literal, which may span lines;
// inner newlines are preserved verbatim. An unterminated literal at
// EOF yields whatever was captured. Quoted literals are always Data,
// never Keys.
func (l *Lexer) lexQuoted(line, col int) (Token, error) {
	var buf []rune
	for {
		r, _, _, err := l.readRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, err
		}
		if r == '"' {
			break
		}
		buf = append(buf, r)
	}
	return Token{Kind: TokenData, Text: string(buf), Line: line, Column: col}, nil
}

// lexBare reads a bare token starting at first, then scans ahead over
// whitespace for a ':' to decide Key vs Data. Runes consumed during the
// scan that belong to the next token are pushed back.
func (l *Lexer) lexBare(first rune, line, col int) (Token, error) {
	buf := []rune{first}
	for {
		r, rl, rc, err := l.readRune()
		if err == io.EOF {
			return Token{Kind: TokenData, Text: string(buf), Line: line, Column: col}, nil
		}
		if err != nil {
			return Token{}, err
		}
		if r == ':' {
			return Token{Kind: TokenKey, Text: string(buf), Line: line, Column: col}, nil
		}
		if isSpace(r) {
			break
		}
		if isDelimiter(r) {
			l.pushBack(r, rl, rc)
			return Token{Kind: TokenData, Text: string(buf), Line: line, Column: col}, nil
		}
		buf = append(buf, r)
	}

	// The token text ended on whitespace; look ahead for a colon.
	for {
		r, rl, rc, err := l.readRune()
		if err == io.EOF {
			return Token{Kind: TokenData, Text: string(buf), Line: line, Column: col}, nil
		}
		if err != nil {
			return Token{}, err
		}
		if isSpace(r) {
			continue
		}
		if r == ':' {
			return Token{Kind: TokenKey, Text: string(buf), Line: line, Column: col}, nil
		}
		l.pushBack(r, rl, rc)
		return Token{Kind: TokenData, Text: string(buf), Line: line, Column: col}, nil
	}
}
