// Package styles turns HubXML style information into DocBook roles.
//
// Named paragraph and character styles are renamed to slugs, and direct
// formatting (the css:* attributes idml2xml leaves on elements) is grouped
// into override classes: every distinct property set gets a stable
// per-category index and the element's role gains a token such as
// "paragraph-override-3".
package styles

import (
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"
)

// CSSPrefix is the namespace prefix of presentational attributes.
const CSSPrefix = "css"

// ignoredProperties carry layout adjustments (rags, drop caps, spacing
// tweaks) rather than style, so they never distinguish two overrides.
var ignoredProperties = map[string]bool{
	"hyphens":                true,
	"initial-letter":         true,
	"letter-spacing":         true,
	"line-height":            true,
	"text-decoration-offset": true,
	"text-decoration-width":  true,
	"break-after":            true,
	"page-break-after":       true,
	"border-width":           true,
	"margin-top":             true,
	"margin-bottom":          true,
	"direction":              true,
	"text-align-last":        true,
}

// neutralValues are the default text colours; they never make an override.
var neutralValues = map[string]bool{
	"device-cmyk(0,0,0,1)": true,
	"device-cmyk(0,0,0,0)": true,
}

// keyAttributes are unprefixed attributes that take part in a key.
var keyAttributes = []string{"remap", "native-name", "name"}

// Property is one canonical (name, value) pair.
type Property struct {
	Name  string
	Value string
}

// Key is the canonical property set of an element, sorted by name then
// value. Two elements with equal keys are stylistically identical.
type Key []Property

// String returns a representation usable as a map key.
func (k Key) String() string {
	var b strings.Builder
	for i, p := range k {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(p.Name)
		b.WriteByte('\x1e')
		b.WriteString(p.Value)
	}
	return b.String()
}

// Map flattens the key; later pairs win on duplicate names.
func (k Key) Map() map[string]string {
	m := make(map[string]string, len(k))
	for _, p := range k {
		m[p.Name] = p.Value
	}
	return m
}

// IsCSSAttr reports whether a is a presentational attribute.
func IsCSSAttr(a xmlquery.Attr) bool {
	return a.Name.Space == CSSPrefix
}

// HasCSSAttrs reports whether n carries any presentational attribute.
func HasCSSAttrs(n *xmlquery.Node) bool {
	for _, a := range n.Attr {
		if IsCSSAttr(a) {
			return true
		}
	}
	return false
}

// BuildKey computes the canonical key of n. Ignored properties are removed
// from n as a side effect so they do not survive into the output.
func BuildKey(n *xmlquery.Node, includeRole bool) Key {
	relevant := keyAttributes
	if includeRole {
		relevant = append(append([]string(nil), keyAttributes...), "role")
	}

	var key Key
	kept := n.Attr[:0:0]
	for _, a := range n.Attr {
		if !IsCSSAttr(a) && !(a.Name.Space == "" && contains(relevant, a.Name.Local)) {
			kept = append(kept, a)
			continue
		}
		if ignoredProperties[a.Name.Local] {
			continue
		}
		kept = append(kept, a)
		if neutralValues[a.Value] {
			continue
		}
		key = append(key, Property{Name: a.Name.Local, Value: a.Value})
	}
	n.Attr = kept

	sort.Slice(key, func(i, j int) bool {
		if key[i].Name != key[j].Name {
			return key[i].Name < key[j].Name
		}
		return key[i].Value < key[j].Value
	})
	return key
}

// StripCSSAttrs deletes every presentational attribute of n.
func StripCSSAttrs(n *xmlquery.Node) {
	kept := n.Attr[:0:0]
	for _, a := range n.Attr {
		if !IsCSSAttr(a) {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
