// Package xmltree holds the read-only element tree produced by the XML parser.
package xmltree

import (
	"encoding/xml"
	"iter"
	"strings"
)

// Document is the root of a parsed XML document.
type Document struct {
	Source string // File path or caller supplied name
	Root   *Node
}

// Node is one element of the tree. Nodes are immutable once the Builder
// that produced them has finished.
type Node struct {
	name     xml.Name
	attrs    []xml.Attr
	text     string // character data before the first child element
	tail     string // character data after the end tag, before the next sibling
	children []*Node
}

// Tag returns the local element name.
func (n *Node) Tag() string {
	return n.name.Local
}

// Is reports whether n matches tag. A bare tag matches only elements in no
// namespace; "{uri}local" matches local in namespace uri.
func (n *Node) Is(tag string) bool {
	if rest, ok := strings.CutPrefix(tag, "{"); ok {
		space, local, found := strings.Cut(rest, "}")
		return found && n.name.Space == space && n.name.Local == local
	}
	return n.name.Space == "" && n.name.Local == tag
}

// Name returns the fully resolved element name.
func (n *Node) Name() xml.Name {
	return n.name
}

// Attr returns the value of the attribute with the given local name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the element attributes in document order.
func (n *Node) Attrs() []xml.Attr {
	out := make([]xml.Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Children returns the direct child elements in document order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// OwnText returns only the text that directly precedes the first child
// element. Text of descendants and text between children is excluded.
func (n *Node) OwnText() string {
	if n == nil {
		return ""
	}
	return n.text
}

// InnerText returns all character data of the subtree concatenated in
// document order.
func (n *Node) InnerText() string {
	if n == nil {
		return ""
	}
	var buf strings.Builder
	n.writeInnerText(&buf)
	return buf.String()
}

// InnerTextJoined returns the non-empty character data pieces of the
// subtree joined with sep. Pieces are kept untrimmed, so whitespace-only text
// between elements still counts as a piece.
func (n *Node) InnerTextJoined(sep string) string {
	if n == nil {
		return ""
	}
	var pieces []string
	n.collectText(&pieces)
	return strings.Join(pieces, sep)
}

func (n *Node) collectText(pieces *[]string) {
	if n.text != "" {
		*pieces = append(*pieces, n.text)
	}
	for _, c := range n.children {
		c.collectText(pieces)
		if c.tail != "" {
			*pieces = append(*pieces, c.tail)
		}
	}
}

func (n *Node) writeInnerText(buf *strings.Builder) {
	buf.WriteString(n.text)
	for _, c := range n.children {
		c.writeInnerText(buf)
		buf.WriteString(c.tail)
	}
}

// Child returns the first direct child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.children {
		if c.Is(tag) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the direct children with the given tag.
func (n *Node) ChildrenNamed(tag string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Is(tag) {
			out = append(out, c)
		}
	}
	return out
}

// Descendants yields every element below n (n itself excluded) whose tag
// matches, depth-first in document order.
func (n *Node) Descendants(tag string) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(tag, yield)
	}
}

func (n *Node) walk(tag string, yield func(*Node) bool) bool {
	for _, c := range n.children {
		if c.Is(tag) && !yield(c) {
			return false
		}
		if !c.walk(tag, yield) {
			return false
		}
	}
	return true
}

// Count returns the number of elements in the subtree, n included.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.children {
		total += c.Count()
	}
	return total
}
