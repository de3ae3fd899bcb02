package styles

import "github.com/FocuswithJustin/idml2docbook/core/xml"

// Style is a named style rule and its canonical properties.
type Style struct {
	Name string
	Key  Key
}

// ExtractStyles returns the paragraph and character style rules declared
// in the document, in declaration order. Rules sharing a name keep the
// position of the first one and the properties of the last.
func ExtractStyles(doc *xml.Document) (paragraph, character []Style) {
	pIndex := make(map[string]int)
	cIndex := make(map[string]int)
	add := func(list []Style, index map[string]int, s Style) []Style {
		if i, ok := index[s.Name]; ok {
			list[i] = s
			return list
		}
		index[s.Name] = len(list)
		return append(list, s)
	}

	for _, rule := range doc.Select(ruleExpr) {
		s := Style{Name: rule.SelectAttr("name")}
		switch rule.SelectAttr("layout-type") {
		case "para":
			s.Key = BuildKey(rule, true)
			paragraph = add(paragraph, pIndex, s)
		case "inline":
			s.Key = BuildKey(rule, true)
			character = add(character, cIndex, s)
		}
	}
	return paragraph, character
}
