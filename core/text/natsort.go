package text

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NaturalLess orders strings case-insensitively with digit runs compared
// by value, so "note2" sorts before "note10".
func NaturalLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for la != "" && lb != "" {
		ca, ra := chunk(la)
		cb, rb := chunk(lb)
		if ca != cb {
			da, db := isDigits(ca), isDigits(cb)
			switch {
			case da && db:
				na, nb := strings.TrimLeft(ca, "0"), strings.TrimLeft(cb, "0")
				if len(na) != len(nb) {
					return len(na) < len(nb)
				}
				if na != nb {
					return na < nb
				}
			case da != db:
				return da
			default:
				return ca < cb
			}
		}
		la, lb = ra, rb
	}
	if la != lb {
		return la == ""
	}
	return a < b
}

// SortNatural sorts s in place using NaturalLess.
func SortNatural(s []string) {
	sort.SliceStable(s, func(i, j int) bool { return NaturalLess(s[i], s[j]) })
}

func chunk(s string) (string, string) {
	r, _ := utf8.DecodeRuneInString(s)
	digit := unicode.IsDigit(r)
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsDigit(r) != digit {
			break
		}
		i += size
	}
	return s[:i], s[i:]
}

func isDigits(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}
