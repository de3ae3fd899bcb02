package text

import (
	"reflect"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		parts int
		want  string
	}{
		{"plain", "Body", 5, "Body"},
		{"spaces", "Titre de chapitre", 5, "Titre_de_chapitre"},
		{"accents dropped", "Légende église", 5, "Legende_eglise"},
		{"punctuation to space", "Note:appel;(bas)", 5, "Note_appel_bas"},
		{"apostrophe", "l’été", 5, "l_ete"},
		{"symbols removed", "Prix €/kg!", 5, "Prix_kg"},
		{"dashes collapse", "a - b__c", 5, "a_b_c"},
		{"truncated", "one two three four five six seven", 5, "one_two_three_four_five"},
		{"trailing dash kept as separator", "abc-", 5, "abc_"},
		{"surrounding space trimmed", "  Intertitre  ", 5, "Intertitre"},
		{"file name", "Photo%20finale copie", 100, "Photo20finale_copie"},
		{"digits kept", "Titre 1", 5, "Titre_1"},
		{"zero parts keeps all", "a b c", 0, "a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input, tt.parts); got != tt.want {
				t.Errorf("Slugify(%q, %d) = %q, want %q", tt.input, tt.parts, got, tt.want)
			}
		})
	}
}

func TestDecodePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"file:Links/photo.jpg", "file:Links/photo.jpg"},
		{"Links/ma%20photo.jpg", "Links/ma photo.jpg"},
		{"Links/%C3%A9t%C3%A9.png", "Links/été.png"},
		{"100%", "100%"},
		{"50%zz", "50%zz"},
		{"a%2", "a%2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DecodePath(tt.input); got != tt.want {
				t.Errorf("DecodePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		input    string
		wantRoot string
		wantExt  string
	}{
		{"Links/photo.JPG", "Links/photo", ".JPG"},
		{"photo.tar.gz", "photo.tar", ".gz"},
		{"noext", "noext", ""},
		{".hidden", ".hidden", ""},
		{"dir.d/file", "dir.d/file", ""},
		{"dir/..hidden.png", "dir/..hidden", ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, ext := SplitExt(tt.input)
			if root != tt.wantRoot || ext != tt.wantExt {
				t.Errorf("SplitExt(%q) = (%q, %q), want (%q, %q)", tt.input, root, ext, tt.wantRoot, tt.wantExt)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"  \n\t", true},
		{"\u00a0", true},
		{"\u202f", true},
		{"\x1c", true},
		{" a ", false},
		{"\u200b", false},
	}

	for _, tt := range tests {
		if got := IsBlank(tt.input); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestShouldInsertSpace(t *testing.T) {
	tests := []struct {
		name  string
		last  string
		first string
		want  bool
	}{
		{"words", "a", "b", true},
		{"comma follows", "a", ",", false},
		{"closing paren follows", "a", ")", false},
		{"ellipsis follows", "a", "…", false},
		{"opening paren before", "(", "a", false},
		{"apostrophe before", "'", "a", false},
		{"typographic apostrophe before", "’", "a", false},
		{"typographic apostrophe after", "a", "’", false},
		{"nothing follows", "a", "", true},
		{"empty phrase", "", "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldInsertSpace(tt.last, tt.first); got != tt.want {
				t.Errorf("ShouldInsertSpace(%q, %q) = %v, want %v", tt.last, tt.first, got, tt.want)
			}
		})
	}
}

func TestFirstLastRune(t *testing.T) {
	if got := LastRune("été"); got != "é" {
		t.Errorf("LastRune() = %q", got)
	}
	if got := FirstRune("«x"); got != "«" {
		t.Errorf("FirstRune() = %q", got)
	}
	if LastRune("") != "" || FirstRune("") != "" {
		t.Error("empty string should yield empty rune")
	}
}

func TestSortNatural(t *testing.T) {
	got := []string{".note10", ".Note2", ".chapitre", ".note1", ".Alpha"}
	SortNatural(got)
	want := []string{".Alpha", ".chapitre", ".note1", ".Note2", ".note10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortNatural() = %v, want %v", got, want)
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"a2", "a10", true},
		{"a10", "a2", false},
		{"B", "a", false},
		{"a", "B", true},
		{"a", "a1", true},
		{"a01", "a1", true},
		{"x", "x", false},
	}

	for _, tt := range tests {
		if got := NaturalLess(tt.a, tt.b); got != tt.want {
			t.Errorf("NaturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
