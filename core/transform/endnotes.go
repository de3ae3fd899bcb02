package transform

import (
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
	"github.com/antchfx/xmlquery"
)

const (
	endnoteRole   = "hub:endnote"
	endnoteRange  = "EndnoteRange"
	endnoteMarker = "EndnoteMarker"
)

// processEndnotes moves endnote bodies to their call sites as footnotes
// marked endnote="1", then deletes the bodies.
func processEndnotes(c *Context) {
	bodies := make(map[string]*xmlquery.Node)
	var order []*xmlquery.Node
	seen := make(map[*xmlquery.Node]bool)
	for _, anchor := range c.Doc.Elements("anchor") {
		if !hasAttrValue(anchor, "role", endnoteRole) {
			continue
		}
		id, _ := xml.Attr(anchor, "xml:id")
		if id == "" {
			continue
		}
		para := xml.Ancestor(anchor, "para")
		if para == nil {
			continue
		}
		bodies[id] = para
		if !seen[para] {
			seen[para] = true
			order = append(order, para)
		}
	}

	for _, link := range c.Doc.Elements("link") {
		if !hasAttrValue(link, "remap", endnoteRange) {
			continue
		}
		linkend, _ := xml.Attr(link, "linkend")
		body, ok := bodies[linkend]
		if linkend == "" || !ok {
			logging.Warn("endnote target not found", "linkend", linkend)
			continue
		}
		xml.Replace(link, endnoteFootnote(body))
	}

	for _, para := range order {
		xml.Remove(para)
	}
}

// endnoteFootnote builds <footnote endnote="1"><para>...</para></footnote>
// from a copy of the endnote body.
func endnoteFootnote(body *xmlquery.Node) *xmlquery.Node {
	cp := xml.Copy(body)
	for _, a := range xml.Descendants(cp, "anchor") {
		if hasAttrValue(a, "role", endnoteRole) {
			xml.Remove(a)
		}
	}
	for _, l := range xml.Descendants(cp, "link") {
		if hasAttrValue(l, "remap", endnoteMarker) {
			xml.Remove(l)
		}
	}

	note := xml.NewElement("footnote")
	note.SetAttr("endnote", "1")
	para := xml.NewElement("para")
	for _, child := range xml.Children(cp) {
		if xml.IsBlankText(child) {
			continue
		}
		xml.AppendChild(para, child)
	}
	xml.AppendChild(note, para)
	return note
}

func hasAttrValue(n *xmlquery.Node, key, value string) bool {
	v, ok := xml.Attr(n, key)
	return ok && v == value
}
