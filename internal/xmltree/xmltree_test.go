package xmltree

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(local string) xml.Name { return xml.Name{Local: local} }

// buildSample builds <doc>lead<a id="1">x<b>y</b>z</a>mid<b>w</b></doc>.
func buildSample(t *testing.T) *Document {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.Start(name("doc"), nil))
	require.NoError(t, b.Text("lead"))
	require.NoError(t, b.Start(name("a"), []xml.Attr{{Name: name("id"), Value: "1"}}))
	require.NoError(t, b.Text("x"))
	require.NoError(t, b.Start(name("b"), nil))
	require.NoError(t, b.Text("y"))
	require.NoError(t, b.End())
	require.NoError(t, b.Text("z"))
	require.NoError(t, b.End())
	require.NoError(t, b.Text("mid"))
	require.NoError(t, b.Start(name("b"), nil))
	require.NoError(t, b.Text("w"))
	require.NoError(t, b.End())
	require.NoError(t, b.End())

	doc, err := b.Document("sample")
	require.NoError(t, err)
	return doc
}

func TestNode_OwnTextVersusInnerText(t *testing.T) {
	doc := buildSample(t)
	root := doc.Root

	assert.Equal(t, "lead", root.OwnText())
	assert.Equal(t, "leadxyzmidw", root.InnerText())

	a := root.Child("a")
	require.NotNil(t, a)
	assert.Equal(t, "x", a.OwnText())
	assert.Equal(t, "xyz", a.InnerText())
}

func TestNode_NilSafeText(t *testing.T) {
	var n *Node
	assert.Equal(t, "", n.OwnText())
	assert.Equal(t, "", n.InnerText())
}

func TestNode_Attr(t *testing.T) {
	a := buildSample(t).Root.Child("a")

	v, ok := a.Attr("id")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = a.Attr("missing")
	assert.False(t, ok)
	assert.Len(t, a.Attrs(), 1)
}

func TestNode_ChildrenNamedOnlyDirect(t *testing.T) {
	root := buildSample(t).Root

	direct := root.ChildrenNamed("b")
	require.Len(t, direct, 1)
	assert.Equal(t, "w", direct[0].OwnText())
	assert.Nil(t, root.Child("missing"))
}

func TestNode_DescendantsDocumentOrder(t *testing.T) {
	root := buildSample(t).Root

	var texts []string
	for n := range root.Descendants("b") {
		texts = append(texts, n.OwnText())
	}
	assert.Equal(t, []string{"y", "w"}, texts)

	// The node itself is never yielded.
	for n := range root.Descendants("doc") {
		t.Fatalf("unexpected self match: %v", n.Tag())
	}
}

func TestNode_DescendantsStopsEarly(t *testing.T) {
	root := buildSample(t).Root
	seen := 0
	for range root.Descendants("b") {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestNode_Count(t *testing.T) {
	assert.Equal(t, 4, buildSample(t).Root.Count())
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := NewBuilder().Document("x")
		assert.ErrorIs(t, err, ErrNoRoot)
	})

	t.Run("unclosed", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.Start(name("a"), nil))
		_, err := b.Document("x")
		assert.ErrorIs(t, err, ErrUnclosed)
	})

	t.Run("second root", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.Start(name("a"), nil))
		require.NoError(t, b.End())
		assert.ErrorIs(t, b.Start(name("b"), nil), ErrMultipleRoots)
	})

	t.Run("text outside root", func(t *testing.T) {
		b := NewBuilder()
		assert.NoError(t, b.Text(" \n\t"))
		assert.ErrorIs(t, b.Text("junk"), ErrNoRoot)
	})

	t.Run("stray end", func(t *testing.T) {
		assert.ErrorIs(t, NewBuilder().End(), ErrUnbalanced)
	})
}

func TestNode_InnerTextJoined(t *testing.T) {
	root := buildSample(t).Root

	assert.Equal(t, "lead x y z mid w", root.InnerTextJoined(" "))
	assert.Equal(t, "x|y|z", root.Child("a").InnerTextJoined("|"))

	b := NewBuilder()
	require.NoError(t, b.Start(name("head"), nil))
	require.NoError(t, b.Start(name("emph"), nil))
	require.NoError(t, b.End())
	require.NoError(t, b.Text(" "))
	require.NoError(t, b.Start(name("emph"), nil))
	require.NoError(t, b.Text("A"))
	require.NoError(t, b.End())
	require.NoError(t, b.End())
	doc, err := b.Document("head")
	require.NoError(t, err)
	assert.Equal(t, " +A", doc.Root.InnerTextJoined("+"), "empty pieces skipped, whitespace pieces kept")

	var n *Node
	assert.Equal(t, "", n.InnerTextJoined(" "))
}

func TestNode_IsNamespace(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Start(xml.Name{Space: "urn:om", Local: "omsection"}, nil))
	require.NoError(t, b.Start(name("omsection"), nil))
	require.NoError(t, b.End())
	require.NoError(t, b.End())
	doc, err := b.Document("ns")
	require.NoError(t, err)

	root := doc.Root
	assert.False(t, root.Is("omsection"), "bare tag matches no-namespace elements only")
	assert.True(t, root.Is("{urn:om}omsection"))
	assert.False(t, root.Is("{urn:other}omsection"))
	assert.False(t, root.Is("{urn:om"))

	child := root.Children()[0]
	assert.True(t, child.Is("omsection"))
	assert.False(t, child.Is("{urn:om}omsection"))
	assert.Equal(t, "omsection", root.Tag())
}
