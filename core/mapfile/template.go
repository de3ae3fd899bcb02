package mapfile

import (
	"io"
	"os"
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/text"
)

// TemplatePath returns the template file written next to input.
func TemplatePath(input string) string {
	root, _ := text.SplitExt(input)
	return root + "_template.json"
}

// Template renders an empty map with one entry per relevant role, in
// natural, case-insensitive selector order.
func Template(roles []RoleTag) string {
	seen := make(map[string]bool)
	var selectors []string
	for _, rt := range roles {
		if !rt.Relevant() {
			continue
		}
		sel := SelectorFor(rt.Role).String()
		if sel == "" || seen[sel] {
			continue
		}
		seen[sel] = true
		selectors = append(selectors, sel)
	}
	text.SortNatural(selectors)

	var b strings.Builder
	b.WriteString("[\n")
	for i, sel := range selectors {
		b.WriteString(`    { "selector": "` + sel + `", "operation": {} }`)
		if i < len(selectors)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]\n")
	return b.String()
}

// WriteTemplate writes Template(roles) to w.
func WriteTemplate(w io.Writer, roles []RoleTag) error {
	_, err := io.WriteString(w, Template(roles))
	return err
}

// SaveTemplate writes the template for input next to it and returns the
// path written.
func SaveTemplate(input string, roles []RoleTag) (string, error) {
	path := TemplatePath(input)
	if err := os.WriteFile(path, []byte(Template(roles)), 0o644); err != nil {
		return "", errors.NewIO("write template", path, err)
	}
	return path, nil
}
