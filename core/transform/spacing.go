package transform

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/idml2docbook/core/encoding"
	"github.com/FocuswithJustin/idml2docbook/core/text"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/antchfx/xmlquery"
)

// spacingAttrs mark phrases after which idml2xml emits layout whitespace.
var spacingAttrs = map[string]bool{
	"direction":      true,
	"transform":      true,
	"letter-spacing": true,
}

// breakMarkup is how a bare line break reads inside a text run.
const breakMarkup = "<br/>"

// urlWithBreaks matches URLs that may have been broken across lines.
var urlWithBreaks = regexp.MustCompile(
	`https?://([-A-zÀ-ÿ0-9]+\.)?([-A-zÀ-ÿ0-9@:%._+~#=]+(<br/>)?)+\.[A-zÀ-ÿ0-9()]{1,6}(\b[-A-zÀ-ÿ0-9()@:%;_+.~#?&/=]*(<br/>)?)*`)

func spacePhrases(c *Context) {
	for _, phrase := range c.Doc.Elements("phrase") {
		if !hasSpacingAttr(phrase) {
			continue
		}
		next := phrase.NextSibling
		if !xml.IsBlankText(next) {
			continue
		}
		last := text.LastRune(xml.Text(phrase))
		first := text.FirstRune(xml.Text(next.NextSibling))
		if text.ShouldInsertSpace(last, first) {
			next.Data = " "
		} else {
			xml.Remove(next)
		}
	}
}

func hasSpacingAttr(n *xmlquery.Node) bool {
	for _, a := range n.Attr {
		if spacingAttrs[a.Name.Local] {
			return true
		}
	}
	return false
}

// trimBlankSiblings drops the whitespace-only text nodes around n.
func trimBlankSiblings(n *xmlquery.Node) {
	for prev := n.PrevSibling; xml.IsBlankText(prev); prev = n.PrevSibling {
		xml.Remove(prev)
	}
	for next := n.NextSibling; xml.IsBlankText(next); next = n.NextSibling {
		xml.Remove(next)
	}
}

func processNotes(c *Context) {
	for _, note := range c.Doc.Elements("footnote") {
		trimBlankSiblings(note)
		for _, t := range xml.TextNodes(note) {
			if xml.IsBlankText(t) {
				xml.Remove(t)
				continue
			}
			t.Data = strings.NewReplacer("\n", "", "\r", "").Replace(t.Data)
		}
	}
}

func trimPhrases(c *Context) {
	for _, phrase := range c.Doc.Elements("phrase") {
		trimBlankSiblings(phrase)
	}
}

func cleanURLBreaks(c *Context) {
	for _, parent := range c.Doc.Elements() {
		var run []*xmlquery.Node
		for child := parent.FirstChild; child != nil; child = child.NextSibling {
			if xml.IsText(child) || isBareBreak(child) {
				run = append(run, child)
				continue
			}
			joinURLRun(run)
			run = run[:0]
		}
		joinURLRun(run)
	}
	xml.MergeText(c.Doc.Node())
}

func isBareBreak(n *xmlquery.Node) bool {
	return xml.IsElement(n, "br") && len(n.Attr) == 0 && n.FirstChild == nil
}

// joinURLRun removes the breaks that fall inside a URL spread over run,
// a sequence of sibling text nodes and bare breaks.
func joinURLRun(run []*xmlquery.Node) {
	hasBreak := false
	for _, n := range run {
		if !xml.IsText(n) {
			hasBreak = true
			break
		}
	}
	if !hasBreak {
		return
	}

	var b strings.Builder
	offsets := make([]int, len(run))
	for i, n := range run {
		offsets[i] = b.Len()
		if xml.IsText(n) {
			b.WriteString(encoding.EscapeXMLText(n.Data))
		} else {
			b.WriteString(breakMarkup)
		}
	}
	for _, m := range urlWithBreaks.FindAllStringIndex(b.String(), -1) {
		for i, n := range run {
			if !xml.IsText(n) && offsets[i] >= m[0] && offsets[i]+len(breakMarkup) <= m[1] {
				xml.Remove(n)
			}
		}
	}
}

func removeLinebreaks(c *Context) {
	if c.Options.Linebreaks {
		return
	}
	for _, br := range c.Doc.Elements("br") {
		r, _ := utf8.DecodeLastRuneInString(xml.Text(br.PrevSibling))
		if br.PrevSibling != nil && text.IsSpace(r) {
			xml.Remove(br)
			continue
		}
		xml.Replace(br, xml.NewText(" "))
	}
}

func mergePhrases(c *Context) {
	for _, parent := range c.Doc.Elements() {
		cur := parent.FirstChild
		for cur != nil && cur.NextSibling != nil {
			next := cur.NextSibling
			if !sameRolePhrases(cur, next) {
				cur = next
				continue
			}
			for _, child := range xml.Children(next) {
				xml.AppendChild(cur, child)
			}
			xml.Remove(next)
		}
	}
}

func sameRolePhrases(a, b *xmlquery.Node) bool {
	if !xml.IsElement(a, "phrase") || !xml.IsElement(b, "phrase") {
		return false
	}
	if !onlyRole(a) || !onlyRole(b) {
		return false
	}
	return a.Attr[0].Value == b.Attr[0].Value
}

func onlyRole(n *xmlquery.Node) bool {
	return len(n.Attr) == 1 && xml.AttrName(n.Attr[0]) == "role"
}
