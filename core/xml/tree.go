package xml

import (
	"github.com/FocuswithJustin/idml2docbook/core/text"
	"github.com/antchfx/xmlquery"
)

// QName returns the qualified element name, prefix included.
func QName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

// AttrName returns the qualified attribute name, prefix included.
func AttrName(a xmlquery.Attr) string {
	if a.Name.Space != "" {
		return a.Name.Space + ":" + a.Name.Local
	}
	return a.Name.Local
}

// IsElement reports whether n is an element named one of names.
// With no names any element matches.
func IsElement(n *xmlquery.Node, names ...string) bool {
	if n == nil || n.Type != xmlquery.ElementNode {
		return false
	}
	if len(names) == 0 {
		return true
	}
	q := QName(n)
	for _, name := range names {
		if q == name {
			return true
		}
	}
	return false
}

// IsText reports whether n is a text node.
func IsText(n *xmlquery.Node) bool {
	return n != nil && (n.Type == xmlquery.TextNode || n.Type == xmlquery.CharDataNode)
}

// Attr returns an attribute value and whether it is present.
func Attr(n *xmlquery.Node, key string) (string, bool) {
	if !n.HasAttr(key) {
		return "", false
	}
	return n.SelectAttr(key), true
}

// Text returns the text carried by n and its descendants.
func Text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	if IsText(n) {
		return n.Data
	}
	return n.InnerText()
}

// NewElement creates a detached element.
func NewElement(name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
}

// NewText creates a detached text node.
func NewText(s string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.TextNode, Data: s}
}

// Rename gives an element a new unprefixed name.
func Rename(n *xmlquery.Node, name string) {
	n.Data = name
	n.Prefix = ""
}

// AppendChild attaches n as the last child of parent.
func AppendChild(parent, n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
	xmlquery.AddChild(parent, n)
}

// InsertBefore attaches n right before ref.
func InsertBefore(ref, n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
	parent := ref.Parent
	n.Parent = parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if parent != nil {
		parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// InsertAfter attaches n right after ref.
func InsertAfter(ref, n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
	xmlquery.AddImmediateSibling(ref, n)
}

// Replace puts n where old was and detaches old.
func Replace(old, n *xmlquery.Node) {
	InsertBefore(old, n)
	xmlquery.RemoveFromTree(old)
}

// Remove detaches n and its subtree.
func Remove(n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
}

// Unwrap replaces n by its children.
func Unwrap(n *xmlquery.Node) {
	if n.Parent == nil {
		return
	}
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		InsertBefore(n, child)
		child = next
	}
	xmlquery.RemoveFromTree(n)
}

// Children returns a snapshot of the child nodes of n.
func Children(n *xmlquery.Node) []*xmlquery.Node {
	var list []*xmlquery.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		list = append(list, child)
	}
	return list
}

// Descendants returns the elements below n in document order, filtered
// by qualified name when names are given.
func Descendants(n *xmlquery.Node, names ...string) []*xmlquery.Node {
	var list []*xmlquery.Node
	var walk func(*xmlquery.Node)
	walk = func(p *xmlquery.Node) {
		for child := p.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode {
				continue
			}
			if IsElement(child, names...) {
				list = append(list, child)
			}
			walk(child)
		}
	}
	if n != nil {
		walk(n)
	}
	return list
}

// TextNodes returns the text nodes below n in document order.
func TextNodes(n *xmlquery.Node) []*xmlquery.Node {
	var list []*xmlquery.Node
	var walk func(*xmlquery.Node)
	walk = func(p *xmlquery.Node) {
		for child := p.FirstChild; child != nil; child = child.NextSibling {
			if IsText(child) {
				list = append(list, child)
				continue
			}
			walk(child)
		}
	}
	if n != nil {
		walk(n)
	}
	return list
}

// NextElement returns the first element named one of names that follows
// the start tag of n in document order. Descendants of n come first.
func NextElement(n *xmlquery.Node, names ...string) *xmlquery.Node {
	if found := Descendants(n, names...); len(found) > 0 {
		return found[0]
	}
	for cur := n; cur != nil; cur = cur.Parent {
		for sib := cur.NextSibling; sib != nil; sib = sib.NextSibling {
			if IsElement(sib, names...) {
				return sib
			}
			if found := Descendants(sib, names...); len(found) > 0 {
				return found[0]
			}
		}
	}
	return nil
}

// Ancestor returns the nearest ancestor of n named one of names.
func Ancestor(n *xmlquery.Node, names ...string) *xmlquery.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if IsElement(p, names...) {
			return p
		}
	}
	return nil
}

// Copy returns a deep, detached copy of n.
func Copy(n *xmlquery.Node) *xmlquery.Node {
	c := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if len(n.Attr) > 0 {
		c.Attr = append([]xmlquery.Attr(nil), n.Attr...)
	}
	if n.ProcInst != nil {
		pi := *n.ProcInst
		c.ProcInst = &pi
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		xmlquery.AddChild(c, Copy(child))
	}
	return c
}

// MergeText joins adjacent text nodes and drops empty ones below n.
func MergeText(n *xmlquery.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		if IsText(child) {
			for next != nil && IsText(next) {
				child.Data += next.Data
				after := next.NextSibling
				xmlquery.RemoveFromTree(next)
				next = after
			}
			if child.Data == "" {
				xmlquery.RemoveFromTree(child)
			}
		} else {
			MergeText(child)
		}
		child = next
	}
}

// IsBlankText reports whether n is a text node made only of whitespace.
func IsBlankText(n *xmlquery.Node) bool {
	return IsText(n) && text.IsBlank(n.Data)
}
