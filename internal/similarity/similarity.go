// Package similarity builds a TF-IDF vector space over attraction
// combined-features text and the full pairwise cosine-similarity matrix the
// content-based recommender queries.
//
// The vectorizer tokenizes into lowercased runs of two or more word
// characters, excludes a fixed English stop-word list from the vocabulary,
// applies smoothed inverse document frequency
//
//	idf(t) = ln((1+n)/(1+df(t))) + 1
//
// and L2-normalizes each document vector, so cosine similarity reduces to a
// sparse dot product.
//
// The full matrix costs O(n²) memory and compute. That is the design limit:
// corpora up to low tens of thousands of attractions are fine, and there is
// deliberately no approximate nearest-neighbor fallback. The matrix is built
// once per fit and is immutable afterward.
package similarity

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
)

// tokenRegex matches runs of two or more word characters; single-character
// tokens carry no signal and are dropped, matching the fitted behavior the
// rest of the system depends on.
var tokenRegex = regexp.MustCompile(`[a-z0-9_]{2,}`)

// SparseVector is one document's TF-IDF weights over the vocabulary, stored
// as parallel sorted term-index/value slices.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Hit is one similarity result: a row position and its cosine score.
type Hit struct {
	Row   int
	Score float64
}

// Index is the fitted vector space: vocabulary, per-document weights, the
// pairwise cosine matrix, and the name-to-row lookup. All fields are
// exported for snapshot serialization and must not be mutated after Build.
type Index struct {
	Vocabulary map[string]int // term -> column
	IDF        []float64      // per column
	Vectors    []SparseVector // per row, L2-normalized
	Matrix     [][]float64    // cosine similarity, symmetric, diagonal 1
	NameIndex  map[string]int // attraction name -> row; first occurrence wins
}

// Build fits the vector space over the given texts and computes the full
// cosine matrix. names and texts are parallel: names[i] labels row i.
// Duplicate names keep the first occurrence as canonical.
func Build(names, texts []string) *Index {
	idx := &Index{
		Vocabulary: make(map[string]int),
		NameIndex:  make(map[string]int, len(names)),
	}

	// tokenize every document once, dropping stopwords before counting
	docTokens := make([][]string, len(texts))
	docFreq := make(map[string]int)
	for i, text := range texts {
		tokens := tokenize(text)
		docTokens[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			docFreq[t]++
		}
	}

	// deterministic vocabulary: terms in sorted order
	terms := make([]string, 0, len(docFreq))
	for t := range docFreq {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	for col, t := range terms {
		idx.Vocabulary[t] = col
	}

	// smoothed IDF
	n := float64(len(texts))
	idx.IDF = make([]float64, len(terms))
	for col, t := range terms {
		idx.IDF[col] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	// per-document TF-IDF vectors, L2-normalized
	idx.Vectors = make([]SparseVector, len(texts))
	for i, tokens := range docTokens {
		idx.Vectors[i] = idx.vectorize(tokens)
	}

	// full pairwise cosine matrix
	idx.Matrix = make([][]float64, len(texts))
	for i := range idx.Matrix {
		idx.Matrix[i] = make([]float64, len(texts))
	}
	for i := 0; i < len(texts); i++ {
		idx.Matrix[i][i] = 1.0
		for j := i + 1; j < len(texts); j++ {
			s := dot(idx.Vectors[i], idx.Vectors[j])
			idx.Matrix[i][j] = s
			idx.Matrix[j][i] = s
		}
	}

	// name lookup, first occurrence canonical
	for i, name := range names {
		if _, exists := idx.NameIndex[name]; !exists {
			idx.NameIndex[name] = i
		}
	}

	slog.Debug("Built similarity index", "documents", len(texts), "vocabulary", len(terms))
	return idx
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.Vectors)
}

// Lookup resolves an attraction name to its row, matched exactly against the
// canonical name field.
func (idx *Index) Lookup(name string) (int, bool) {
	row, ok := idx.NameIndex[name]
	return row, ok
}

// SimilarTo returns the topN most similar rows to the given row, excluding
// the row itself, sorted by score descending with ties broken by original
// row order.
func (idx *Index) SimilarTo(row, topN int) []Hit {
	if row < 0 || row >= len(idx.Matrix) || topN <= 0 {
		return nil
	}

	hits := make([]Hit, 0, len(idx.Matrix)-1)
	for j, score := range idx.Matrix[row] {
		if j == row {
			continue
		}
		hits = append(hits, Hit{Row: j, Score: score})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if len(hits) > topN {
		hits = hits[:topN]
	}
	return hits
}

// vectorize turns one document's tokens into an L2-normalized TF-IDF vector.
func (idx *Index) vectorize(tokens []string) SparseVector {
	counts := make(map[int]float64)
	for _, t := range tokens {
		if col, ok := idx.Vocabulary[t]; ok {
			counts[col]++
		}
	}

	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		vec.Indices = append(vec.Indices, col)
	}
	sort.Ints(vec.Indices)

	var norm float64
	for _, col := range vec.Indices {
		w := counts[col] * idx.IDF[col]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// dot computes the inner product of two sorted sparse vectors.
func dot(a, b SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] < b.Indices[j]:
			i++
		case a.Indices[i] > b.Indices[j]:
			j++
		default:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		}
	}
	return sum
}

// tokenize lowercases text and extracts word-character runs, dropping the
// English stop-word list from vocabulary construction.
func tokenize(text string) []string {
	raw := tokenRegex.FindAllString(lower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, stop := englishStopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

func lower(s string) string {
	// ASCII-only fast path is enough here: upstream normalization already
	// lowercased the description, leaving only tags and province names.
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
