// Package preprocess enriches raw attraction records into the table the
// recommendation engine indexes.
//
// Enrichment derives one combined-features text field per attraction: the
// normalized description, the category tags, and the lower-cased province
// joined by spaces. Field parsing itself happens at ingestion time in the
// dataset package; this package only composes the derived text. Ids are
// preserved untouched - enrichment never invents or deduplicates them.
package preprocess

import (
	"log/slog"
	"strings"

	"github.com/aditsuu/wisatarec/internal/dataset"
	"github.com/aditsuu/wisatarec/internal/textnorm"
)

// Row is one enriched attraction. CombinedFeatures is never null; it may be
// whitespace-only when every text source is empty.
type Row struct {
	dataset.Attraction

	// CombinedFeatures is the unit of text indexed for similarity.
	CombinedFeatures string
}

// Enrich derives the combined-features field for every attraction, in input
// order.
func Enrich(rows []dataset.Attraction, normalizer *textnorm.Normalizer) []Row {
	enriched := make([]Row, 0, len(rows))
	for _, attr := range rows {
		enriched = append(enriched, Row{
			Attraction:       attr,
			CombinedFeatures: combinedFeatures(attr, normalizer),
		})
	}

	slog.Debug("Enriched attraction table", "rows", len(enriched))
	return enriched
}

// combinedFeatures joins normalized description, category tags, and
// lower-cased province. Tags are joined as scraped; only the description
// passes through the normalizer.
func combinedFeatures(attr dataset.Attraction, normalizer *textnorm.Normalizer) string {
	parts := []string{
		normalizer.Normalize(attr.Deskripsi),
		strings.Join(attr.Kategori, " "),
		strings.ToLower(attr.Provinsi),
	}
	return strings.Join(parts, " ")
}
