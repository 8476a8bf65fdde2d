package search

import (
	"reflect"
	"testing"
)

func TestStem(t *testing.T) {
	stemmer := NewEnglishStemmer()

	tests := []struct {
		input    string
		expected string
	}{
		{"running", "run"},
		{"imports", "import"},
		{"bottles", "bottl"},
		{"VODKA", "vodka"},
		{" Whisky ", "whiski"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := stemmer.Stem(tt.input)
			if result != tt.expected {
				t.Errorf("Stem(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStemEquatesWordForms(t *testing.T) {
	stemmer := NewEnglishStemmer()

	pairs := [][2]string{
		{"cherries", "cherry"},
		{"distilled", "distill"},
		{"barrels", "barrel"},
		{"reserves", "reserve"},
	}

	for _, pair := range pairs {
		if a, b := stemmer.Stem(pair[0]), stemmer.Stem(pair[1]); a != b {
			t.Errorf("Stem(%q) = %q and Stem(%q) = %q, want equal stems",
				pair[0], a, pair[1], b)
		}
	}
}

func TestStemTokens(t *testing.T) {
	stemmer := NewEnglishStemmer()

	result := stemmer.StemTokens([]string{"bottles", "running"})
	expected := []string{"bottl", "run"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("StemTokens() = %v, want %v", result, expected)
	}

	if got := stemmer.StemTokens(nil); len(got) != 0 {
		t.Errorf("StemTokens(nil) = %v, want empty", got)
	}
}

func TestStemCaching(t *testing.T) {
	stemmer := NewEnglishStemmer()

	first := stemmer.Stem("bottles")
	second := stemmer.Stem("bottles")
	if first != second {
		t.Errorf("Cached Stem() = %q, first = %q", second, first)
	}

	if size := stemmer.GetCacheSize(); size != 1 {
		t.Errorf("GetCacheSize() = %d, want 1", size)
	}

	stemmer.ClearCache()
	if size := stemmer.GetCacheSize(); size != 0 {
		t.Errorf("GetCacheSize() = %d after ClearCache(), want 0", size)
	}
}

func TestStemWithoutCache(t *testing.T) {
	stemmer := NewEnglishStemmerWithoutCache()

	if got := stemmer.Stem("bottles"); got != "bottl" {
		t.Errorf("Stem(%q) = %q, want %q", "bottles", got, "bottl")
	}
	if size := stemmer.GetCacheSize(); size != 0 {
		t.Errorf("GetCacheSize() = %d, want 0 without cache", size)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"MONARCH RUM (1.75L)", []string{"monarch", "rum", "1", "75l"}},
		{"Hood River's Finest", []string{"hood", "river", "s", "finest"}},
		{"", nil},
		{"---", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Tokenize(tt.input)
			if len(result) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
