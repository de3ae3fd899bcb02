package mapfile

import (
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// selectorGrammar matches a compound class selector such as ".a.b".
//
//nolint:govet // participle grammar tags are not standard struct tags
type selectorGrammar struct {
	Classes []string `( "." @Class )+`
}

var selectorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Dot", Pattern: `\.`},
	{Name: "Class", Pattern: `[^.\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var selectorParser = participle.MustBuild[selectorGrammar](
	participle.Lexer(selectorLexer),
	participle.Elide("Whitespace"),
)

// Selector is the list of classes a role must carry, in written order.
type Selector struct {
	Classes []string
}

// ParseSelector parses ".a.b" into its classes.
func ParseSelector(s string) (Selector, error) {
	g, err := selectorParser.ParseString("", s)
	if err != nil {
		return Selector{}, errors.NewParse("selector", "", err.Error())
	}
	return Selector{Classes: g.Classes}, nil
}

// SelectorFor returns the selector matching a role attribute value.
func SelectorFor(role string) Selector {
	return Selector{Classes: strings.Fields(role)}
}

// Key is the role attribute value the selector stands for.
func (s Selector) Key() string {
	return strings.Join(s.Classes, " ")
}

func (s Selector) String() string {
	if len(s.Classes) == 0 {
		return ""
	}
	return "." + strings.Join(s.Classes, ".")
}
