package xml

import (
	"regexp"
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/text"
)

// Indent is the unit used by Reindent.
const Indent = "    "

var (
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	closeRe = regexp.MustCompile(`^</[^>]+>`)
)

// Reindent re-indents serialized XML line by line. The depth is tracked by
// counting the tags opened and closed on each line; closing tags at the
// start of a line dedent that line itself. Self-closing tags, processing
// instructions and declarations do not change the depth, and the depth
// never goes below zero. Blank lines are kept empty.
func Reindent(s string) string {
	level := 0
	lines := SplitLines(s)
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		stripped := strings.TrimLeftFunc(line, text.IsSpace)
		if stripped == "" {
			out = append(out, "")
			continue
		}

		closers, rest := splitLeadingClosers(stripped)
		level = max(level-closers, 0)
		out = append(out, strings.Repeat(Indent, level)+stripped)

		opens, closes := 0, 0
		for _, tag := range tagRe.FindAllString(rest, -1) {
			switch {
			case strings.HasPrefix(tag, "</"):
				closes++
			case strings.HasSuffix(tag, "/>"), strings.HasPrefix(tag, "<?"), strings.HasPrefix(tag, "<!"):
			default:
				opens++
			}
		}
		level = max(level+opens-closes, 0)
	}

	return strings.Join(out, "\n")
}

func splitLeadingClosers(s string) (int, string) {
	count := 0
	for strings.HasPrefix(s, "</") {
		loc := closeRe.FindStringIndex(s)
		if loc == nil {
			break
		}
		count++
		s = strings.TrimLeftFunc(s[loc[1]:], text.IsSpace)
	}
	return count, s
}

// SplitLines splits s on every line boundary a text editor would honour:
// \n, \r\n, \r, \v, \f, U+001C..U+001E, U+0085, U+2028 and U+2029.
// A trailing boundary does not produce an empty final line.
func SplitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if i < start {
			continue
		}
		switch r {
		case '\n', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
			lines = append(lines, s[start:i])
			start = i + len(string(r))
		case '\r':
			lines = append(lines, s[start:i])
			start = i + 1
			if start < len(s) && s[start] == '\n' {
				start++
			}
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
