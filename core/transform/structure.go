package transform

import (
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/typography"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/antchfx/xmlquery"
)

// DocBookVersion is set on the article root.
const DocBookVersion = "5.0"

// schemaPI is the target of the schema association idml2xml emits.
const schemaPI = "xml-model"

// stripPrefixes lists attribute prefixes that never reach DocBook.
var stripPrefixes = []string{"css:", "xmlns:", "idml2xml:"}

func renameRoot(c *Context) {
	for _, hub := range c.Doc.Elements("hub") {
		xml.Rename(hub, "article")
		hub.SetAttr("version", DocBookVersion)
	}
	for _, pi := range processingInstructions(c.Doc.Node()) {
		if pi.Data == schemaPI || pi.ProcInst != nil && pi.ProcInst.Target == schemaPI {
			xml.Remove(pi)
		}
	}
}

func processingInstructions(n *xmlquery.Node) []*xmlquery.Node {
	var list []*xmlquery.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ProcessingInstruction {
			list = append(list, child)
			continue
		}
		list = append(list, processingInstructions(child)...)
	}
	return list
}

func prune(c *Context) {
	opts := c.Options
	if len(opts.NodesToRemove) > 0 {
		for _, n := range c.Doc.Elements(opts.NodesToRemove...) {
			xml.Remove(n)
		}
	}
	for _, n := range c.Doc.Elements() {
		if v, _ := xml.Attr(n, "remap"); v == "idml2xml:control" {
			xml.Remove(n)
		}
	}
	if len(opts.LayersToRemove) == 0 {
		return
	}
	layers := make(map[string]bool, len(opts.LayersToRemove))
	for _, l := range opts.LayersToRemove {
		layers[l] = true
	}
	for _, n := range c.Doc.Elements() {
		if v, ok := xml.Attr(n, "idml2xml:layer"); ok && layers[v] {
			xml.Remove(n)
		}
	}
}

func removeAttributes(c *Context) {
	if len(c.Options.AttributesToRemove) == 0 {
		return
	}
	for _, n := range c.Doc.Elements() {
		for _, name := range c.Options.AttributesToRemove {
			n.RemoveAttr(name)
		}
	}
}

func removeNamespaces(c *Context) {
	for _, n := range c.Doc.Elements() {
		if n.Prefix == "css" {
			xml.Remove(n)
		}
	}
	for _, n := range c.Doc.Elements() {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if !hasStripPrefix(xml.AttrName(a)) {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	}
}

func hasStripPrefix(name string) bool {
	for _, p := range stripPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func convertTabs(c *Context) {
	for _, tab := range c.Doc.Elements("tab") {
		xml.Rename(tab, "phrase")
		if role, ok := xml.Attr(tab, "role"); ok {
			tab.SetAttr("role", role+" "+typography.TabRole)
		} else {
			tab.SetAttr("role", typography.TabRole)
		}
	}
}

func fillEmpty(c *Context) {
	for _, para := range c.Doc.Elements("para") {
		if para.FirstChild == nil {
			xml.AppendChild(para, xml.NewElement("br"))
		}
	}
}

func unwrapBarePhrases(c *Context) {
	for _, phrase := range c.Doc.Elements("phrase") {
		if role, _ := xml.Attr(phrase, "role"); role == typography.TabRole {
			continue
		}
		if len(phrase.Attr) == 0 {
			xml.Unwrap(phrase)
		}
	}
}

func applyTypography(c *Context) {
	if !c.Options.Typography {
		return
	}
	typography.RemoveDocument(c.Doc)
	// Spaces left by earlier passes can sit in their own text node.
	xml.MergeText(c.Doc.Node())
	typography.AddFrenchDocument(c.Doc, c.Options.ThinSpaces)
	xml.MergeText(c.Doc.Node())
}

func relocateSpanSpace(c *Context) {
	if !c.Options.Typography || !c.Options.RelocateSpanSpace {
		return
	}
	typography.RelocateSpanSpace(c.Doc)
}
