package fbx

import (
	"io"

	"github.com/asset-importer/scenekit/errs"
)

// ElementIndex indexes into an ElementArena. Indices, not references,
// are the only way elements point at each other, so the tree cannot
// hold ownership cycles.
type ElementIndex = int

// Element is one node of the parsed tree: its key, the data tokens
// that followed the key, and its tree links as arena indices.
type Element struct {
	Key      string
	Tokens   []string
	Children []ElementIndex
	Parent   *ElementIndex
}

// ElementArena owns every element of one parsed document in a flat
// slice; all tree navigation goes through indices into it.
type ElementArena struct {
	Elements []Element
}

func (a *ElementArena) insert(e Element) ElementIndex {
	idx := len(a.Elements)
	a.Elements = append(a.Elements, e)
	if e.Parent != nil {
		p := *e.Parent
		a.Elements[p].Children = append(a.Elements[p].Children, idx)
	}
	return idx
}

// Get returns the element at idx, or nil if out of range.
func (a *ElementArena) Get(idx ElementIndex) *Element {
	if idx < 0 || idx >= len(a.Elements) {
		return nil
	}
	return &a.Elements[idx]
}

// ByKey returns the index of the first top-level-or-nested element
// with the given key, in storage order, or -1.
func (a *ElementArena) ByKey(key string) ElementIndex {
	for i := range a.Elements {
		if a.Elements[i].Key == key {
			return i
		}
	}
	return -1
}

// ChildByKey returns the index of parent's first child with the given
// key, or -1.
func (a *ElementArena) ChildByKey(parent ElementIndex, key string) ElementIndex {
	p := a.Get(parent)
	if p == nil {
		return -1
	}
	for _, c := range p.Children {
		if a.Elements[c].Key == key {
			return c
		}
	}
	return -1
}

// ChildrenByKey returns the indices of every child of parent with the
// given key, in child order.
func (a *ElementArena) ChildrenByKey(parent ElementIndex, key string) []ElementIndex {
	p := a.Get(parent)
	if p == nil {
		return nil
	}
	var out []ElementIndex
	for _, c := range p.Children {
		if a.Elements[c].Key == key {
			out = append(out, c)
		}
	}
	return out
}

// FirstToken returns the element's first data token, or "".
func (a *ElementArena) FirstToken(idx ElementIndex) string {
	e := a.Get(idx)
	if e == nil || len(e.Tokens) == 0 {
		return ""
	}
	return e.Tokens[0]
}

// Parse consumes the whole token stream into an arena. A Key begins a
// new element whose tokens accumulate from following Data tokens; an
// OpenBrace makes that element the current scope until the matching
// CloseBrace. Commas between data tokens are separators and carry no
// content of their own.
func Parse(r io.Reader) (*ElementArena, error) {
	lex := NewLexer(r)
	arena := &ElementArena{}

	var scope *ElementIndex
	var current *Element

	flush := func() {
		if current != nil {
			arena.insert(*current)
			current = nil
		}
	}

	for {
		tok, err := lex.Next()
		if err == io.EOF {
			flush()
			return arena, nil
		}
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenKey:
			flush()
			e := Element{Key: tok.Text}
			if scope != nil {
				p := *scope
				e.Parent = &p
			}
			current = &e
		case TokenData:
			if current != nil {
				current.Tokens = append(current.Tokens, tok.Text)
			}
		case TokenOpenBrace:
			if current == nil {
				return nil, &errs.FormatError{Msg: "fbx: open brace without a preceding key"}
			}
			idx := arena.insert(*current)
			current = nil
			scope = &idx
		case TokenCloseBrace:
			if scope == nil {
				return nil, &errs.FormatError{Msg: "fbx: unbalanced close brace"}
			}
			flush()
			scope = arena.Elements[*scope].Parent
		case TokenComma:
		}
	}
}
