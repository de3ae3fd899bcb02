package text

import (
	"strings"
	"unicode/utf8"
)

// DecodePath percent-decodes a file reference. IDML stores links as URLs;
// malformed escapes are kept as written instead of failing the whole path.
func DecodePath(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	buf := make([]byte, 0, len(p))
	for i := 0; i < len(p); i++ {
		if p[i] == '%' && i+2 < len(p) && isHex(p[i+1]) && isHex(p[i+2]) {
			buf = append(buf, unhex(p[i+1])<<4|unhex(p[i+2]))
			i += 2
			continue
		}
		buf = append(buf, p[i])
	}
	if !utf8.Valid(buf) {
		return strings.ToValidUTF8(string(buf), "�")
	}
	return string(buf)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// SplitExt splits p into root and extension, the extension keeping its dot.
// Leading dots of the final path segment never start an extension, so
// ".hidden" has no extension.
func SplitExt(p string) (root, ext string) {
	slash := strings.LastIndex(p, "/")
	dot := strings.LastIndex(p, ".")
	if dot <= slash {
		return p, ""
	}
	base := p[slash+1 : dot]
	if strings.Trim(base, ".") == "" {
		return p, ""
	}
	return p[:dot], p[dot:]
}
