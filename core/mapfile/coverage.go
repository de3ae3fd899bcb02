package mapfile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/styles"
	"github.com/FocuswithJustin/idml2docbook/core/text"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/antchfx/xmlquery"
)

// RoleTag is a role attribute value and the element carrying it.
type RoleTag struct {
	Role string
	Tag  string
}

// Relevant reports whether the tag is one whose roles are mapped.
func (rt RoleTag) Relevant() bool {
	for _, t := range styles.RoleTags {
		if rt.Tag == t {
			return true
		}
	}
	return false
}

// CollectRoles returns the distinct role/tag pairs of the elements that
// follow the document's info block, skipping roles generated by idml2xml
// (prefix "hub"). Pairs are in natural, case-insensitive order.
func CollectRoles(doc *xml.Document) ([]RoleTag, error) {
	info := firstElement(doc.Node(), "info")
	if info == nil {
		return nil, errors.NewParse("HubXML", "", "no info element, input does not come from idml2xml")
	}

	seen := make(map[RoleTag]bool)
	var out []RoleTag
	for n := following(info); n != nil; n = next(n) {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		role, ok := xml.Attr(n, "role")
		if !ok || strings.HasPrefix(role, "hub") {
			continue
		}
		rt := RoleTag{Role: role, Tag: n.Data}
		if !seen[rt] {
			seen[rt] = true
			out = append(out, rt)
		}
	}
	sortRoleTags(out)
	return out, nil
}

func sortRoleTags(list []RoleTag) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Role != list[j].Role {
			return text.NaturalLess(list[i].Role, list[j].Role)
		}
		return text.NaturalLess(list[i].Tag, list[j].Tag)
	})
}

func firstElement(n *xmlquery.Node, name string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if xml.IsElement(c, name) {
			return c
		}
		if found := firstElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

// following returns the first node after n's subtree in document order.
func following(n *xmlquery.Node) *xmlquery.Node {
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// next steps through the tree in document order.
func next(n *xmlquery.Node) *xmlquery.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return following(n)
}

// Covered is a role matched by a map entry.
type Covered struct {
	RoleTag
	Operation Operation
}

// Report is the coverage of a document by a map.
type Report struct {
	Input     string
	MapPath   string
	Roles     []RoleTag // relevant pairs only
	Covered   []Covered
	Uncovered []RoleTag
	MapLoaded bool
}

// NewReport matches roles against m. A nil m yields a report with no
// coverage section.
func NewReport(input, mapPath string, roles []RoleTag, m *Map) *Report {
	r := &Report{Input: input, MapPath: mapPath, MapLoaded: m.Len() > 0}
	for _, rt := range roles {
		if !rt.Relevant() {
			continue
		}
		r.Roles = append(r.Roles, rt)
		if !r.MapLoaded {
			continue
		}
		if op, ok := m.Lookup(rt.Role); ok {
			r.Covered = append(r.Covered, Covered{RoleTag: rt, Operation: op})
		} else {
			r.Uncovered = append(r.Uncovered, rt)
		}
	}
	sort.SliceStable(r.Covered, func(i, j int) bool {
		return phraseLast(r.Covered[i].Tag) < phraseLast(r.Covered[j].Tag)
	})
	sort.SliceStable(r.Uncovered, func(i, j int) bool {
		return phraseLast(r.Uncovered[i].Tag) < phraseLast(r.Uncovered[j].Tag)
	})
	return r
}

func phraseLast(tag string) int {
	if tag == "phrase" {
		return 1
	}
	return 0
}

// Complete reports whether every relevant role is mapped.
func (r *Report) Complete() bool {
	return r.MapLoaded && len(r.Uncovered) == 0
}

// WriteTo prints the report.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Role/tag couples present in %s:\n", r.Input)
	for _, rt := range r.Roles {
		fmt.Fprintf(&b, "- %s (%s)\n", rt.Role, rt.Tag)
	}
	b.WriteString("\n")

	switch {
	case !r.MapLoaded:
		b.WriteString("No data was read from the map file!\n")
	default:
		if len(r.Covered) > 0 {
			b.WriteString("Applied mapping:\n")
			for _, c := range r.Covered {
				fmt.Fprintf(&b, "- %s => %s\n", c.Role, c.Operation.Describe())
			}
		} else {
			fmt.Fprintf(&b, "%s does not apply to %s\n", r.MapPath, r.Input)
		}
		b.WriteString("\n")
		if len(r.Uncovered) > 0 {
			b.WriteString("Unhandled elements:\n")
			for _, rt := range r.Uncovered {
				fmt.Fprintf(&b, "- %s (%s)\n", rt.Role, rt.Tag)
			}
		} else {
			b.WriteString("All elements are covered!\n")
		}
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
