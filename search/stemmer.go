package search

import (
	"strings"
	"sync"
	"unicode"

	"github.com/kljensen/snowball"
)

// Stemmer reduces words to their stems so that queries like "cherries"
// match titles containing "cherry"
type Stemmer interface {
	// Stem returns the stemmed version of a word
	Stem(word string) string

	// StemTokens returns stemmed versions of multiple words
	StemTokens(tokens []string) []string
}

// EnglishStemmer implements stemming for English product titles using the
// Snowball algorithm
type EnglishStemmer struct {
	language string
	cache    map[string]string
	mu       sync.RWMutex
	useCache bool
}

// NewEnglishStemmer creates a new English language stemmer
func NewEnglishStemmer() *EnglishStemmer {
	return &EnglishStemmer{
		language: "english",
		cache:    make(map[string]string),
		useCache: true,
	}
}

// NewEnglishStemmerWithoutCache creates a stemmer without caching
func NewEnglishStemmerWithoutCache() *EnglishStemmer {
	return &EnglishStemmer{
		language: "english",
		useCache: false,
	}
}

// Stem returns the stemmed version of a word
// Example: "cherries" -> "cherri", "whiskeys" -> "whiskey"
func (s *EnglishStemmer) Stem(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return ""
	}

	if s.useCache {
		s.mu.RLock()
		if cached, found := s.cache[normalized]; found {
			s.mu.RUnlock()
			return cached
		}
		s.mu.RUnlock()
	}

	stemmed, err := snowball.Stem(normalized, s.language, true)
	if err != nil {
		// If stemming fails, fall back to the normalized word
		stemmed = normalized
	}

	if s.useCache {
		s.mu.Lock()
		s.cache[normalized] = stemmed
		s.mu.Unlock()
	}

	return stemmed
}

// StemTokens returns stemmed versions of multiple words
func (s *EnglishStemmer) StemTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{}
	}

	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		stemmed[i] = s.Stem(token)
	}

	return stemmed
}

// ClearCache clears the internal cache
func (s *EnglishStemmer) ClearCache() {
	if !s.useCache {
		return
	}

	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// GetCacheSize returns the number of cached items
func (s *EnglishStemmer) GetCacheSize() int {
	if !s.useCache {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Tokenize splits text into lowercase word tokens, dropping punctuation
// Example: "MONARCH RUM (1.75L)" -> ["monarch", "rum", "1", "75l"]
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
