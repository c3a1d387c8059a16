// Package xmltree loads an XML document into an ordered, traversable
// element tree. The extractor only needs tags, string attributes, and
// document-ordered children, so the tree keeps exactly that.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotFound indicates the input file is missing or zero-length.
var ErrNotFound = errors.New("xmltree: input file not found or empty")

// ParseError wraps a malformed-document failure from the decoder.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("xmltree: parse: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Attr is one attribute as it appears on an element, in document order.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the parsed tree.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	for _, a := range e.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// ChildrenByTag returns the direct children with the given tag, in
// document order.
func (e *Element) ChildrenByTag(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every descendant (the element itself included) with
// the given tag, in depth-first document order.
func (e *Element) Descendants(tag string) []*Element {
	var out []*Element
	e.walk(func(el *Element) {
		if el.Tag == tag {
			out = append(out, el)
		}
	})
	return out
}

// FirstDescendant returns the first descendant with the given tag in
// depth-first document order, or nil.
func (e *Element) FirstDescendant(tag string) *Element {
	var found *Element
	e.walk(func(el *Element) {
		if found == nil && el.Tag == tag {
			found = el
		}
	})
	return found
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.walk(fn)
	}
}

// Parse decodes an XML document into an element tree and returns its root.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Err: errors.New("multiple document roots")}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ParseError{Err: errors.New("unbalanced end element")}
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				if s := strings.TrimSpace(string(t)); s != "" {
					stack[len(stack)-1].Text += s
				}
			}
		}
	}

	if root == nil {
		return nil, &ParseError{Err: errors.New("no root element")}
	}
	if len(stack) != 0 {
		return nil, &ParseError{Err: errors.New("unexpected EOF inside element")}
	}
	return root, nil
}

// ParseFile loads and parses the document at path. Missing and zero-length
// files yield ErrNotFound; malformed documents yield *ParseError.
func ParseFile(path string) (*Element, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("xmltree: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, ErrNotFound
	}

	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("xmltree: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	return Parse(f)
}
