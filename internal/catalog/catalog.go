// Package catalog provides dataset exploration over the enriched attraction
// table: unique category and province listings, flexible single-attraction
// lookup, criteria filtering, and free-text relevance search.
//
// Everything here is read-only over the engine's fitted rows; the
// recommendation scoring itself lives in the recommender package.
package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/chriscorrea/bm25md"

	"github.com/aditsuu/wisatarec/internal/dataset"
	"github.com/aditsuu/wisatarec/internal/preprocess"
)

// Categories returns the sorted unique category tags across all rows.
func Categories(rows []preprocess.Row) []string {
	return uniqueSorted(rows, func(r preprocess.Row) []string { return r.Kategori })
}

// Provinces returns the sorted unique province names across all rows.
func Provinces(rows []preprocess.Row) []string {
	return uniqueSorted(rows, func(r preprocess.Row) []string {
		if r.Provinsi == "" {
			return nil
		}
		return []string{r.Provinsi}
	})
}

func uniqueSorted(rows []preprocess.Row, pick func(preprocess.Row) []string) []string {
	set := make(map[string]struct{})
	for _, row := range rows {
		for _, v := range pick(row) {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Details resolves one attraction by name with flexible matching: first an
// exact match on the lower-cased, alphanumeric-only form of the name, then a
// substring match. The first matching row wins.
func Details(rows []preprocess.Row, name string) (dataset.Attraction, bool) {
	needle := squash(name)
	if needle == "" {
		return dataset.Attraction{}, false
	}

	for _, row := range rows {
		if squash(row.Nama) == needle {
			return row.Attraction, true
		}
	}
	for _, row := range rows {
		if strings.Contains(squash(row.Nama), needle) {
			return row.Attraction, true
		}
	}
	return dataset.Attraction{}, false
}

// squash lower-cases and strips everything but letters and digits, making
// name lookup insensitive to spacing and punctuation.
func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FilterOptions are the optional criteria of Filter. Zero values disable
// each criterion; MaxRating uses NaN as its disabled value so 0 stays a
// usable bound.
type FilterOptions struct {
	Category  string
	Province  string
	MinRating float64 // disabled at 0
	MaxRating float64 // disabled at NaN
	Query     string  // substring over name and description
}

// NewFilterOptions returns options with every criterion disabled.
func NewFilterOptions() FilterOptions {
	return FilterOptions{MaxRating: math.NaN()}
}

// Filter keeps rows matching every given criterion. Category and province
// are case-insensitive exact matches; rows with an absent rating never pass
// a rating bound.
func Filter(rows []preprocess.Row, opts FilterOptions) []preprocess.Row {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	kept := make([]preprocess.Row, 0, len(rows))
	for _, row := range rows {
		if opts.Category != "" && !hasTag(row.Kategori, opts.Category) {
			continue
		}
		if opts.Province != "" && !strings.EqualFold(row.Provinsi, opts.Province) {
			continue
		}
		if opts.MinRating > 0 && !(row.Rating >= opts.MinRating) {
			continue
		}
		if !math.IsNaN(opts.MaxRating) && !(row.Rating <= opts.MaxRating) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(row.Nama), query) &&
			!strings.Contains(strings.ToLower(row.Deskripsi), query) {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// SearchHit is one relevance-ranked search result.
type SearchHit struct {
	Row   int // index into the searched rows
	Score float64
}

// Search ranks rows against a free-text query with BM25 field weighting,
// treating each attraction's name as a heading over its description so name
// matches outweigh body matches. Zero-scoring rows are dropped; ties keep
// original row order.
func Search(rows []preprocess.Row, query string, topN int) []SearchHit {
	if strings.TrimSpace(query) == "" || len(rows) == 0 || topN <= 0 {
		return nil
	}

	corpus := bm25md.NewCorpus()
	parser := bm25md.NewMarkdownFieldParser()
	for i, row := range rows {
		text := "# " + row.Nama + "\n\n" + row.Deskripsi
		corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   parser.ParseDocument(text),
			Original: text,
		})
	}

	var hits []SearchHit
	for i := range rows {
		if score := corpus.Score(query, i); score > 0 {
			hits = append(hits, SearchHit{Row: i, Score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	if len(hits) > topN {
		hits = hits[:topN]
	}
	return hits
}
