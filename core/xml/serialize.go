package xml

import (
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/encoding"
	"github.com/antchfx/xmlquery"
)

// Header is written at the top of every serialized document.
const Header = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// Serialize writes the document as XML. Attribute order is kept as
// parsed, elements without children are self-closed, and whitespace is
// written back untouched. The source XML declaration is replaced by Header.
func (d *Document) Serialize() string {
	var b strings.Builder
	b.WriteString(Header)
	if d.root == nil {
		return b.String()
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.DeclarationNode, xmlquery.TextNode, xmlquery.CharDataNode:
			continue
		}
		writeNode(&b, child)
	}
	return b.String()
}

// Serialize writes a single node and its subtree.
func Serialize(n *xmlquery.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeNode(b, child)
		}

	case xmlquery.ElementNode:
		name := QName(n)
		b.WriteString("<")
		b.WriteString(name)
		for _, attr := range n.Attr {
			b.WriteString(" ")
			b.WriteString(AttrName(attr))
			b.WriteString("=")
			b.WriteString(encoding.QuoteXMLAttr(attr.Value))
		}
		if !hasContent(n) {
			b.WriteString("/>")
			return
		}
		b.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeNode(b, child)
		}
		b.WriteString("</")
		b.WriteString(name)
		b.WriteString(">")

	case xmlquery.TextNode, xmlquery.CharDataNode:
		b.WriteString(encoding.EscapeXMLText(n.Data))

	case xmlquery.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")

	case xmlquery.ProcessingInstruction:
		b.WriteString("<?")
		if n.ProcInst != nil {
			b.WriteString(n.ProcInst.Target)
			if n.ProcInst.Inst != "" {
				b.WriteString(" ")
				b.WriteString(n.ProcInst.Inst)
			}
		} else {
			b.WriteString(n.Data)
		}
		b.WriteString("?>")
	}
}

func hasContent(n *xmlquery.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if IsText(child) && child.Data == "" {
			continue
		}
		return true
	}
	return false
}
