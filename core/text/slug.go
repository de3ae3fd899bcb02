// Package text holds the string helpers shared by the conversion passes:
// slugs, path decoding, whitespace classes and punctuation adjacency.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RoleSlugParts is the number of slug parts kept for style names.
const RoleSlugParts = 5

// MediaSlugParts is the number of slug parts kept for media file names.
const MediaSlugParts = 100

// slugPunct is turned into spaces before anything else is stripped.
const slugPunct = "’°:;,()*"

var slugChain = transform.Chain(
	norm.NFD,
	runes.Map(func(r rune) rune {
		if strings.ContainsRune(slugPunct, r) {
			return ' '
		}
		return r
	}),
	runes.Remove(runes.Predicate(func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || IsSpace(r))
	})),
)

// Slugify turns a style or file name into an identifier made of at most
// parts underscore-separated words. Accents are dropped through NFD
// decomposition, case is preserved.
//
//	Slugify("Titre 1 (chapitre)", 5) == "Titre_1_chapitre"
func Slugify(s string, parts int) string {
	out, _, err := transform.String(slugChain, s)
	if err != nil {
		out = s
	}
	out = strings.TrimFunc(out, IsSpace)

	var b strings.Builder
	sep := false
	for _, r := range out {
		if r == '-' || r == '_' || IsSpace(r) {
			sep = true
			continue
		}
		if sep {
			b.WriteByte('_')
			sep = false
		}
		b.WriteRune(r)
	}
	if sep {
		b.WriteByte('_')
	}

	slug := b.String()
	if parts <= 0 {
		return slug
	}
	fields := strings.Split(slug, "_")
	if len(fields) > parts {
		fields = fields[:parts]
	}
	return strings.Join(fields, "_")
}
