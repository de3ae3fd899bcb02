package report

import (
	"os"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/text"
)

const cssHeader = "/* Auto-generated CSS from IDML converter */\n\n"

// CSSPath returns the stylesheet written for input.
func CSSPath(input string) string {
	root, _ := text.SplitExt(input)
	return root + ".css"
}

// Selector is the CSS class selector of a rule in section s. Overrides use
// the section label, e.g. ".paragraph-styles-overrides-3".
func (s Section) Selector(r Rule) string {
	if s.Override {
		return "." + strings.ReplaceAll(strings.ToLower(s.Label()), " ", "-") + "-" + strconv.Itoa(r.Index)
	}
	return "." + r.Name
}

// CSS renders sections as a stylesheet. Each block carries an --element
// custom property holding its own selector.
func CSS(sections []Section) string {
	var b strings.Builder
	b.WriteString(cssHeader)
	for _, s := range sections {
		if len(s.Rules) == 0 {
			continue
		}
		b.WriteString("/* " + s.Label() + " */\n")
		for _, r := range s.Rules {
			b.WriteString(cssBlock(s.Selector(r), r))
		}
	}
	return b.String()
}

func cssBlock(selector string, r Rule) string {
	lines := []string{selector + " {"}
	element := `"` + selector + `"`
	hasElement := false
	for _, p := range r.Properties {
		v := p.Value
		switch p.Name {
		case "name", "native-name":
			continue
		case "font-family":
			v = `"` + v + `"`
		case "--element":
			hasElement = true
			v = element
		}
		lines = append(lines, "  "+p.Name+": "+v+";")
	}
	if !hasElement {
		lines = append(lines, "  --element: "+element+";")
	}
	lines = append(lines, "}\n")
	return strings.Join(lines, "\n")
}

// SaveCSS writes the stylesheet to path.
func SaveCSS(path string, sections []Section) error {
	if err := os.WriteFile(path, []byte(CSS(sections)), 0o644); err != nil {
		return errors.NewIO("write css", path, err)
	}
	return nil
}
