// Package textnorm normalizes free-text attraction descriptions into a clean
// token stream for indexing.
//
// The pipeline lowercases, strips punctuation and digit runs, tokenizes,
// removes stopwords, and stems each surviving token. The dataset is
// Indonesian, so the primary configuration uses the Sastrawi stemmer and its
// stopword dictionary; a Porter-family English stemmer is available as a
// fallback configuration so output stays comparable across environments where
// the two are not interchangeable. Normalize never fails: any internal error
// degrades gracefully to the raw tokens.
package textnorm

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/RadhiFadlillah/go-sastrawi"
	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball"
)

// StemmerKind selects the stemming algorithm. The two stemmers produce
// different token forms, so the choice is a configuration point rather than
// a hardcoded default.
type StemmerKind string

const (
	// StemmerSastrawi is the Indonesian Sastrawi stemmer (default).
	StemmerSastrawi StemmerKind = "sastrawi"
	// StemmerSnowball is the English snowball stemmer, the generic fallback.
	StemmerSnowball StemmerKind = "snowball"
)

// customStopwords are high-frequency Indonesian connective words appended to
// whichever base stopword set is active.
var customStopwords = []string{
	"yang", "ini", "dan", "di", "dengan", "untuk", "dari", "pada", "ke", "adalah",
}

// englishStopwords is the secondary-language stopword set, used when the
// Indonesian dictionary is not the active configuration.
var englishStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "for",
	"from", "had", "has", "have", "he", "her", "his", "i", "in", "is", "it",
	"its", "not", "of", "on", "or", "she", "that", "the", "their", "them",
	"then", "there", "these", "they", "this", "to", "was", "we", "were",
	"what", "when", "where", "which", "who", "will", "with", "you",
}

var (
	nonWordRegex = regexp.MustCompile(`[^\w\s]+`)
	digitRegex   = regexp.MustCompile(`\d+`)
)

// Config holds normalizer options.
type Config struct {
	// Stemmer selects the stemming algorithm; empty means StemmerSastrawi.
	Stemmer StemmerKind
}

// Normalizer cleans free text into a normalized, space-joined token stream.
type Normalizer struct {
	kind     StemmerKind
	sastrawi sastrawi.Stemmer
	stopDict sastrawi.Dictionary
	useDict  bool
	extra    map[string]struct{}
}

// New creates a Normalizer for the given configuration.
func New(cfg Config) *Normalizer {
	kind := cfg.Stemmer
	if kind == "" {
		kind = StemmerSastrawi
	}

	n := &Normalizer{
		kind:  kind,
		extra: make(map[string]struct{}),
	}

	switch kind {
	case StemmerSnowball:
		for _, w := range englishStopwords {
			n.extra[w] = struct{}{}
		}
	default:
		n.kind = StemmerSastrawi
		n.sastrawi = sastrawi.NewStemmer(sastrawi.DefaultDictionary())
		n.stopDict = sastrawi.DefaultStopword()
		n.useDict = true
	}

	// the custom connective-word list applies regardless of base set
	for _, w := range customStopwords {
		n.extra[w] = struct{}{}
	}

	slog.Debug("Normalizer created", "stemmer", string(n.kind))
	return n
}

// isStopword checks the active base set plus the custom list.
func (n *Normalizer) isStopword(token string) bool {
	if _, ok := n.extra[token]; ok {
		return true
	}
	return n.useDict && n.stopDict.Contains(token)
}

// Stemmer returns the active stemmer kind.
func (n *Normalizer) Stemmer() StemmerKind {
	return n.kind
}

// Normalize cleans text into a normalized token stream joined by single
// spaces. Empty input yields the empty string. No error can escape: stopword
// or stemmer failures degrade to the raw tokens.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = nonWordRegex.ReplaceAllString(text, " ")
	text = digitRegex.ReplaceAllString(text, " ")

	tokens := tokenize(text)

	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if n.isStopword(token) {
			continue
		}
		kept = append(kept, n.stem(token))
	}

	return strings.Join(kept, " ")
}

// stem applies the configured stemmer to one token; on failure the raw token
// survives.
func (n *Normalizer) stem(token string) string {
	switch n.kind {
	case StemmerSnowball:
		stemmed, err := snowball.Stem(token, "english", true)
		if err != nil {
			return token
		}
		return stemmed
	default:
		return n.sastrawi.Stem(token)
	}
}

// tokenize splits cleaned text into word tokens using the prose tokenizer,
// falling back to whitespace fields if document construction fails.
func tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		slog.Debug("Tokenizer failed, falling back to whitespace split", "error", err)
		return strings.Fields(text)
	}

	proseTokens := doc.Tokens()
	tokens := make([]string, 0, len(proseTokens))
	for _, tok := range proseTokens {
		if t := strings.TrimSpace(tok.Text); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
