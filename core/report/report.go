// Package report exports the styles and overrides of a document as an
// OpenDocument spreadsheet or a CSS stylesheet.
package report

import (
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/styles"
	"github.com/FocuswithJustin/idml2docbook/core/text"
)

// leadingColumns come first in every sheet, in this order.
var leadingColumns = []string{"name", "role", "applied_to", "native-name", "remap"}

// Section is one group of style rules: named styles of a kind, or the
// overrides of a category.
type Section struct {
	Kind     styles.Category
	Override bool
	Rules    []Rule
}

// Rule is one exported style: a named style or an override.
type Rule struct {
	Name       string // style name, empty for overrides
	Index      int    // override index, 0 for named styles
	AppliedTo  []string
	Properties []styles.Property // deduplicated, key order
}

// Sections builds the exported sections. Empty sections are kept; writers
// skip them.
func Sections(paragraph, character []styles.Style, reg *styles.Registry) []Section {
	out := []Section{
		namedSection(styles.Paragraph, paragraph),
		namedSection(styles.Character, character),
	}
	for _, c := range styles.Categories {
		s := Section{Kind: c, Override: true}
		if reg != nil {
			for _, o := range reg.Overrides(c) {
				s.Rules = append(s.Rules, Rule{
					Index:      o.Index,
					AppliedTo:  o.AppliedTo,
					Properties: dedupe(o.Key),
				})
			}
		}
		out = append(out, s)
	}
	return out
}

func namedSection(kind styles.Category, list []styles.Style) Section {
	s := Section{Kind: kind}
	for _, st := range list {
		s.Rules = append(s.Rules, Rule{Name: st.Name, Properties: dedupe(st.Key)})
	}
	return s
}

// dedupe keeps the first position and the last value of each name.
func dedupe(k styles.Key) []styles.Property {
	index := make(map[string]int, len(k))
	var out []styles.Property
	for _, p := range k {
		if i, ok := index[p.Name]; ok {
			out[i].Value = p.Value
			continue
		}
		index[p.Name] = len(out)
		out = append(out, p)
	}
	return out
}

// SheetName is the spreadsheet tab of the section.
func (s Section) SheetName() string {
	if s.Override {
		return string(s.Kind) + "_overrides"
	}
	return string(s.Kind)
}

// Label is the comment heading of the section in CSS.
func (s Section) Label() string {
	label := strings.ToUpper(string(s.Kind[:1])) + string(s.Kind[1:]) + " styles"
	if s.Override {
		label += " overrides"
	}
	return label
}

// Row flattens a rule for the spreadsheet.
func (s Section) Row(r Rule) map[string]string {
	row := make(map[string]string, len(r.Properties)+2)
	for _, p := range r.Properties {
		row[p.Name] = p.Value
	}
	if s.Override {
		row["role"] = s.Kind.Label(r.Index)
		row["applied_to"] = strings.Join(r.AppliedTo, ", ")
	} else {
		row["name"] = r.Name
	}
	return row
}

// Columns returns the leading columns present in rows, then the other
// columns in natural, case-insensitive order.
func Columns(rows []map[string]string) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			present[k] = true
		}
	}
	var cols []string
	for _, c := range leadingColumns {
		if present[c] {
			cols = append(cols, c)
			delete(present, c)
		}
	}
	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	text.SortNatural(rest)
	return append(cols, rest...)
}
