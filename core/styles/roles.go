package styles

import (
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/text"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
	"github.com/antchfx/xpath"
)

// builtinPrefix marks InDesign's built-in styles in native names.
const builtinPrefix = "$ID/"

var ruleExpr = xpath.MustCompile("//css:rule")

// NamedStyle links a HubXML style name to the slug it is renamed to.
type NamedStyle struct {
	Slug    string
	Hub     string // name used by idml2xml in role attributes
	Native  string // name as written in InDesign
	Builtin bool
}

// BuildRoleMap collects the named styles declared in css:rule elements,
// in declaration order. A later rule producing the same slug replaces
// the earlier one in place.
func BuildRoleMap(doc *xml.Document) []NamedStyle {
	var roles []NamedStyle
	index := make(map[string]int)
	for _, rule := range doc.Select(ruleExpr) {
		native, ok := xml.Attr(rule, "native-name")
		if !ok {
			continue
		}
		s := NamedStyle{Hub: rule.SelectAttr("name"), Native: native}
		name := native
		if strings.HasPrefix(native, builtinPrefix) {
			s.Builtin = true
			name = native[len(builtinPrefix):]
		}
		s.Slug = text.Slugify(name, text.RoleSlugParts)

		if i, seen := index[s.Slug]; seen {
			roles[i] = s
			continue
		}
		index[s.Slug] = len(roles)
		roles = append(roles, s)
	}
	return roles
}

// ApplyRoleSlugs renames every role or name attribute equal to a style's
// hub name to that style's slug.
func ApplyRoleSlugs(doc *xml.Document, roles []NamedStyle) {
	elements := doc.Elements()
	for _, style := range roles {
		logged := false
		for _, attr := range []string{"role", "name"} {
			for _, n := range elements {
				v, ok := xml.Attr(n, attr)
				if !ok || v != style.Hub || v == style.Slug {
					continue
				}
				n.SetAttr(attr, style.Slug)
				if !logged {
					logging.Debug("style renamed", "native", style.Native, "from", style.Hub, "to", style.Slug)
					logged = true
				}
			}
		}
	}
}

// FixRoleNames renames the named styles of doc to their slugs.
func FixRoleNames(doc *xml.Document) []NamedStyle {
	roles := BuildRoleMap(doc)
	ApplyRoleSlugs(doc, roles)
	return roles
}
