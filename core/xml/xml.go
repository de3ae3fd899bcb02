// Package xml wraps xmlquery trees for the conversion passes.
//
// Documents are parsed once, mutated in place by each pass and written out
// once with Serialize. The helpers here work on *xmlquery.Node directly so
// passes can splice, unwrap and rename nodes without an extra layer.
//
// Security Notes:
//   - External entities are never fetched: parsing goes through xmlquery,
//     which uses encoding/xml and inherits its behaviour.
package xml

import (
	"bytes"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Parse parses XML data and returns a Document. CDATA sections become
// plain text and adjacent text runs are merged.
func Parse(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses XML from r.
func ParseReader(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	normalizeText(root)
	return &Document{root: root}, nil
}

// NewDocument wraps an existing document node.
func NewDocument(root *xmlquery.Node) *Document {
	return &Document{root: root}
}

func normalizeText(n *xmlquery.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.CharDataNode {
			child.Type = xmlquery.TextNode
		}
		normalizeText(child)
	}
	MergeText(n)
}

// Node returns the document node.
func (d *Document) Node() *xmlquery.Node {
	return d.root
}

// Root returns the root element of the document.
func (d *Document) Root() *xmlquery.Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// Elements returns, in document order, the elements whose qualified name
// is one of names. With no names every element is returned. The result is
// a snapshot: passes may detach nodes while ranging over it.
func (d *Document) Elements(names ...string) []*xmlquery.Node {
	return Descendants(d.root, names...)
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*xmlquery.Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	return xmlquery.QuerySelectorAll(d.root, compiled), nil
}

// Select runs a precompiled expression against the document.
func (d *Document) Select(expr *xpath.Expr) []*xmlquery.Node {
	return xmlquery.QuerySelectorAll(d.root, expr)
}

// Copy returns a deep copy of the document.
func (d *Document) Copy() *Document {
	return &Document{root: Copy(d.root)}
}
