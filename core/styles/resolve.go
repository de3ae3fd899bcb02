package styles

import (
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/antchfx/xmlquery"
)

// presentationTags may carry css:* attributes worth resolving.
var presentationTags = []string{
	"article",
	"para",
	"phrase",
	"sidebar",
	"tab",
	"mediaobject",
	"inlinemediaobject",
	"informaltable",
	"imagedata",
	"superscript",
	"entry",
	"link",
}

// RoleTags are the elements whose roles matter downstream: they receive
// override tokens and appear in the style reports.
var RoleTags = []string{
	"para",
	"phrase",
	"mediaobject",
	"inlinemediaobject",
	"superscript",
}

// CategoryOf returns the override category of an element name.
func CategoryOf(name string) (Category, bool) {
	switch name {
	case "para":
		return Paragraph, true
	case "phrase", "superscript":
		return Character, true
	case "mediaobject", "inlinemediaobject":
		return Object, true
	}
	return "", false
}

// Resolve replaces direct formatting by override role tokens. Elements are
// visited in document order, which keeps indices reproducible. Elements
// without presentational attributes are left alone, and elements whose
// key ends up empty keep their remaining css:* attributes for the
// namespace cleanup to drop.
func Resolve(doc *xml.Document, reg *Registry) {
	for _, n := range doc.Elements(presentationTags...) {
		resolveElement(n, reg)
	}
}

func resolveElement(n *xmlquery.Node, reg *Registry) {
	if !HasCSSAttrs(n) {
		return
	}
	key := BuildKey(n, false)
	if len(key) == 0 {
		return
	}

	if cat, ok := CategoryOf(xml.QName(n)); ok {
		base := n.SelectAttr("role")
		idx := reg.Register(cat, key, base)
		label := cat.Label(idx)
		if base != "" {
			label = base + " " + label
		}
		n.SetAttr("role", label)
	}

	StripCSSAttrs(n)
}
