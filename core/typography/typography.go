// Package typography rewrites the spacing of a document's text to follow
// French orthotypography: the input's special spaces are normalized away
// first, then narrow no-break spaces are inserted where French rules
// require them.
package typography

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/idml2docbook/core/xml"
)

const (
	// NNBSP is the narrow no-break (thin) space.
	NNBSP = "\u202f"
	// NBSP is the no-break space.
	NBSP = "\u00a0"
)

// removal drops soft hyphens and flattens special spaces.
var removal = strings.NewReplacer(
	"\u00ad", "",
	"\u00a0", " ",
	"\u1680", " ",
	"\u180e", " ",
	"\u2000", " ",
	"\u2001", " ",
	"\u2002", " ",
	"\u2003", " ",
	"\u2004", " ",
	"\u2005", " ",
	"\u2006", " ",
	"\u2007", " ",
	"\u2008", " ",
	"\u2009", " ",
	"\u200a", " ",
	"\u200b", " ",
	"\u202f", " ",
	"\u205f", " ",
	"\u3000", " ",
)

// ws matches one whitespace rune, Unicode separators included.
const ws = `[\t\n\v\f\r \x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	beforeHighPunct = regexp.MustCompile(ws + `+([!?;€$%])`)
	beforeColon     = regexp.MustCompile(ws + `+:`)
	spacedThousands = regexp.MustCompile(`(\p{Nd})` + ws + `+(\p{Nd}{3})`)
	digitRun        = regexp.MustCompile(`\p{Nd}{4,}`)
	unitAfter       = regexp.MustCompile(`^` + ws + `*(?:km|cm|mm|m|kg|mg|g|t|l|ml|cl|ha|h|min|s|°|€|\$|£|%|euros?|dollars?|francs?)(?:[^\p{L}'’]|$)`)
	openGuillemet   = regexp.MustCompile(`«` + ws + `*`)
	closeGuillemet  = regexp.MustCompile(ws + `*»`)
	degree          = regexp.MustCompile(`([^0-9])°` + ws + `*`)
)

// Remove strips soft hyphens and turns every special space into a plain
// space, so the insertion rules start from a clean slate.
func Remove(s string) string {
	return removal.Replace(s)
}

// AddFrench applies the French spacing rules to s. With thin set, colons
// get a narrow no-break space like the other signs, otherwise a regular
// no-break space.
func AddFrench(s string, thin bool) string {
	s = beforeHighPunct.ReplaceAllString(s, NNBSP+"$1")

	colonSpace := NBSP
	if thin {
		colonSpace = NNBSP
	}
	s = replaceColons(s, colonSpace)

	s = spacedThousands.ReplaceAllString(s, "${1}"+NNBSP+"${2}")
	s = groupThousands(s)
	s = openGuillemet.ReplaceAllString(s, "«"+NNBSP)
	s = closeGuillemet.ReplaceAllString(s, NNBSP+"»")
	s = degree.ReplaceAllString(s, "${1}°"+NNBSP)
	return strings.ReplaceAll(s, "...", "…")
}

// replaceColons spaces colons, leaving URL schemes alone.
func replaceColons(s, space string) string {
	matches := beforeColon.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		before := strings.ToLower(s[:m[0]])
		if strings.HasSuffix(before, "http") || strings.HasSuffix(before, "https") {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(space)
		b.WriteString(":")
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// groupThousands separates groups of three digits in numbers of five
// digits or more, and in four-digit numbers followed by a unit. Years,
// decimals and numbers glued to words, paths or identifiers are left
// alone.
func groupThousands(s string) string {
	matches := digitRun.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		prev, _ := utf8.DecodeLastRuneInString(s[:m[0]])
		next, _ := utf8.DecodeRuneInString(s[m[1]:])
		if m[0] > 0 && gluedBefore(prev) || m[1] < len(s) && gluedAfter(next) {
			continue
		}
		digits := s[m[0]:m[1]]
		n := utf8.RuneCountInString(digits)
		if n == 4 && !unitAfter.MatchString(s[m[1]:]) {
			continue
		}
		b.WriteString(s[last:m[0]])
		i := 0
		for _, r := range digits {
			if i > 0 && (n-i)%3 == 0 {
				b.WriteString(NNBSP)
			}
			b.WriteRune(r)
			i++
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func gluedBefore(r rune) bool {
	return unicode.IsLetter(r) || strings.ContainsRune(".,/-_#", r)
}

func gluedAfter(r rune) bool {
	return unicode.IsLetter(r) || strings.ContainsRune("/-_", r)
}

// RemoveDocument applies Remove to every text node and attribute value.
func RemoveDocument(doc *xml.Document) {
	for _, n := range xml.TextNodes(doc.Node()) {
		n.Data = Remove(n.Data)
	}
	for _, n := range doc.Elements() {
		for i := range n.Attr {
			n.Attr[i].Value = Remove(n.Attr[i].Value)
		}
	}
}

// AddFrenchDocument applies AddFrench to every text node.
func AddFrenchDocument(doc *xml.Document, thin bool) {
	for _, n := range xml.TextNodes(doc.Node()) {
		n.Data = AddFrench(n.Data, thin)
	}
}
