package typography

import (
	"testing"

	"github.com/FocuswithJustin/idml2docbook/core/xml"
)

// TestRemove verifies soft hyphens vanish and special spaces flatten.
func TestRemove(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"soft hyphen", "typo\u00adgraphie", "typographie"},
		{"no-break space", "a\u00a0b", "a b"},
		{"thin spaces", "a\u202fb\u2009c", "a b c"},
		{"ideographic", "a\u3000b", "a b"},
		{"zero width", "a\u200bb", "a b"},
		{"plain", "rien à faire", "rien à faire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Remove(tt.in); got != tt.want {
				t.Errorf("Remove(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestAddFrench verifies the French spacing rules.
func TestAddFrench(t *testing.T) {
	tests := []struct {
		name string
		in   string
		thin bool
		want string
	}{
		{"exclamation", "Bonjour !", true, "Bonjour\u202f!"},
		{"question", "Vraiment  ?", false, "Vraiment\u202f?"},
		{"percent", "50 %", true, "50\u202f%"},
		{"colon wide", "Note : voir", false, "Note\u00a0: voir"},
		{"colon thin", "Note : voir", true, "Note\u202f: voir"},
		{"url scheme", "http ://example.org", true, "http ://example.org"},
		{"spaced thousands", "12 345", true, "12\u202f345"},
		{"grouped thousands", "1000 km", true, "1\u202f000 km"},
		{"millions", "1234567", true, "1\u202f234\u202f567"},
		{"five digits", "12345 habitants", true, "12\u202f345 habitants"},
		{"unit tight", "1500€", true, "1\u202f500€"},
		{"year", "en 2024, puis", true, "en 2024, puis"},
		{"year before word", "en 2024 il", true, "en 2024 il"},
		{"year at end", "Paris, 1998", true, "Paris, 1998"},
		{"year before elision", "en 2024 l'équipe", true, "en 2024 l'équipe"},
		{"decimals", "3.14159", true, "3.14159"},
		{"identifier", "ISBN978", true, "ISBN978"},
		{"short number", "page 123", true, "page 123"},
		{"guillemets", "« Salut »", true, "«\u202fSalut\u202f»"},
		{"guillemets tight", "«Salut»", true, "«\u202fSalut\u202f»"},
		{"degree", "N° 5", true, "N°\u202f5"},
		{"ellipsis", "Et...", true, "Et…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddFrench(tt.in, tt.thin); got != tt.want {
				t.Errorf("AddFrench(%q, %v) = %q, want %q", tt.in, tt.thin, got, tt.want)
			}
		})
	}
}

// TestRemoveDocument verifies removal reaches text and attribute values.
func TestRemoveDocument(t *testing.T) {
	doc, err := xml.Parse([]byte(`<para role="a&#xa0;b">x&#xad;y</para>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	RemoveDocument(doc)
	want := `<para role="a b">xy</para>`
	if got := xml.Serialize(doc.Root()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestAddFrenchDocument verifies insertion runs on every text node.
func TestAddFrenchDocument(t *testing.T) {
	doc, err := xml.Parse([]byte(`<para>Oui !<phrase role="x">1000 km</phrase></para>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	AddFrenchDocument(doc, true)
	want := "<para>Oui\u202f!<phrase role=\"x\">1\u202f000 km</phrase></para>"
	if got := xml.Serialize(doc.Root()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestRelocateSpanSpace verifies whitespace moves out of phrases.
func TestRelocateSpanSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "both sides",
			in:   `<para>a<phrase role="b"> bold </phrase>c</para>`,
			want: `<para>a <phrase role="b">bold</phrase> c</para>`,
		},
		{
			name: "neighbour already spaced",
			in:   `<para>a <phrase role="b"> bold</phrase></para>`,
			want: `<para>a <phrase role="b">bold</phrase></para>`,
		},
		{
			name: "between elements",
			in:   `<para><phrase role="a">x</phrase><phrase role="b"> y</phrase></para>`,
			want: `<para><phrase role="a">x</phrase> <phrase role="b">y</phrase></para>`,
		},
		{
			name: "blank phrase unwrapped",
			in:   `<para><phrase role="x"> </phrase>x</para>`,
			want: `<para> x</para>`,
		},
		{
			name: "tab kept",
			in:   "<para>a<phrase role=\"converted-tab\">\t</phrase>b</para>",
			want: "<para>a<phrase role=\"converted-tab\">\t</phrase>b</para>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := xml.Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			RelocateSpanSpace(doc)
			if got := xml.Serialize(doc.Root()); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
