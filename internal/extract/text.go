package extract

import (
	"strings"

	"github.com/dgallion1/omextract/internal/xmltree"
)

// titleOf returns the text pieces of n's first direct head child joined by
// single spaces and trimmed, or placeholder when there is none. An empty head
// yields "".
func titleOf(n *xmltree.Node, head, placeholder string) string {
	h := n.Child(head)
	if h == nil {
		return placeholder
	}
	return strings.TrimSpace(h.InnerTextJoined(" "))
}

func ownTextTrimmed(n *xmltree.Node) string {
	return strings.TrimSpace(n.OwnText())
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
