package xmltree

import (
	"encoding/xml"
	"errors"
)

var (
	ErrNoRoot        = errors.New("no root element")
	ErrMultipleRoots = errors.New("content after root element")
	ErrUnclosed      = errors.New("unclosed element")
	ErrUnbalanced    = errors.New("end element without start")
)

// Builder assembles a tree from a stream of element events.
// It is not safe for concurrent use.
type Builder struct {
	root  *Node
	stack []*Node
	done  bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Start opens a new element under the current one.
func (b *Builder) Start(name xml.Name, attrs []xml.Attr) error {
	if b.done {
		return ErrMultipleRoots
	}
	n := &Node{name: name}
	if len(attrs) > 0 {
		n.attrs = append([]xml.Attr(nil), attrs...)
	}
	if len(b.stack) == 0 {
		b.root = n
	} else {
		parent := b.stack[len(b.stack)-1]
		parent.children = append(parent.children, n)
	}
	b.stack = append(b.stack, n)
	return nil
}

// End closes the current element.
func (b *Builder) End() error {
	if len(b.stack) == 0 {
		return ErrUnbalanced
	}
	b.stack = b.stack[:len(b.stack)-1]
	if len(b.stack) == 0 {
		b.done = true
	}
	return nil
}

// Text attaches character data to the open element. Whitespace outside the
// root element is dropped; anything else there is an error.
func (b *Builder) Text(s string) error {
	if len(b.stack) == 0 {
		if isSpace(s) {
			return nil
		}
		if b.done {
			return ErrMultipleRoots
		}
		return ErrNoRoot
	}
	cur := b.stack[len(b.stack)-1]
	if len(cur.children) == 0 {
		cur.text += s
	} else {
		last := cur.children[len(cur.children)-1]
		last.tail += s
	}
	return nil
}

// Document returns the finished tree.
func (b *Builder) Document(source string) (*Document, error) {
	if b.root == nil {
		return nil, ErrNoRoot
	}
	if len(b.stack) > 0 {
		return nil, ErrUnclosed
	}
	return &Document{Source: source, Root: b.root}, nil
}

func isSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
