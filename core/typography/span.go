package typography

import (
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/idml2docbook/core/text"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/antchfx/xmlquery"
)

// TabRole marks phrases converted from tab elements; their content is
// whitespace on purpose and is never relocated.
const TabRole = "converted-tab"

// RelocateSpanSpace moves leading and trailing whitespace out of phrase
// elements into the surrounding text. Phrases left holding nothing but
// whitespace text are unwrapped.
func RelocateSpanSpace(doc *xml.Document) {
	for _, phrase := range doc.Elements("phrase") {
		if isTab(phrase) || phrase.Parent == nil {
			continue
		}
		if first := phrase.FirstChild; xml.IsText(first) {
			trimmed := strings.TrimLeftFunc(first.Data, text.IsSpace)
			if lead := first.Data[:len(first.Data)-len(trimmed)]; lead != "" && trimmed != "" {
				first.Data = trimmed
				prependOutside(phrase, lead)
			}
		}
		if last := phrase.LastChild; xml.IsText(last) {
			trimmed := strings.TrimRightFunc(last.Data, text.IsSpace)
			if trail := last.Data[len(trimmed):]; trail != "" && trimmed != "" {
				last.Data = trimmed
				appendOutside(phrase, trail)
			}
		}
		if onlyBlankText(phrase) {
			xml.Unwrap(phrase)
		}
	}
}

func isTab(n *xmlquery.Node) bool {
	role, _ := xml.Attr(n, "role")
	for _, token := range strings.Fields(role) {
		if token == TabRole {
			return true
		}
	}
	return false
}

// prependOutside puts s right before n, joining a preceding text node.
func prependOutside(n *xmlquery.Node, s string) {
	if prev := n.PrevSibling; xml.IsText(prev) {
		if r, _ := utf8.DecodeLastRuneInString(prev.Data); !text.IsSpace(r) {
			prev.Data += s
		}
		return
	}
	xml.InsertBefore(n, xml.NewText(s))
}

// appendOutside puts s right after n, joining a following text node.
func appendOutside(n *xmlquery.Node, s string) {
	if next := n.NextSibling; xml.IsText(next) {
		if r, _ := utf8.DecodeRuneInString(next.Data); !text.IsSpace(r) {
			next.Data = s + next.Data
		}
		return
	}
	xml.InsertAfter(n, xml.NewText(s))
}

func onlyBlankText(n *xmlquery.Node) bool {
	if n.FirstChild == nil {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if !xml.IsBlankText(child) {
			return false
		}
	}
	return true
}
