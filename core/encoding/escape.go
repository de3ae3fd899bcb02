// Package encoding provides the escaping rules used when writing DocBook.
package encoding

import "strings"

var textReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeXMLText escapes only the basic XML entities for text content.
func EscapeXMLText(s string) string {
	return textReplacer.Replace(s)
}

// EscapeXMLAttr escapes text for use in a double-quoted XML attribute.
func EscapeXMLAttr(s string) string {
	return strings.ReplaceAll(EscapeXMLText(s), "\"", "&quot;")
}

// QuoteXMLAttr returns an attribute value including its delimiters.
// Values holding a double quote but no apostrophe are wrapped in single
// quotes so the quote survives unescaped.
func QuoteXMLAttr(s string) string {
	if strings.Contains(s, "\"") {
		if !strings.Contains(s, "'") {
			return "'" + EscapeXMLText(s) + "'"
		}
		return "\"" + EscapeXMLAttr(s) + "\""
	}
	return "\"" + EscapeXMLText(s) + "\""
}
