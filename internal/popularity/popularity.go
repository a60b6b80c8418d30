// Package popularity computes Bayesian-smoothed popularity scores from
// ratings and review counts.
//
// The score is the classic weighted-rating formula
//
//	WR = (v/(v+m))*R + (m/(v+m))*C
//
// where v is an attraction's review count, R its rating, C the mean rating
// over the whole corpus, and m the 90th-percentile review count. Attractions
// with few reviews shrink toward the corpus mean; high review volume lets an
// attraction's own rating dominate.
//
// C and m are captured once from the full corpus at fit time and reused,
// unmodified, for every query - including queries over filtered subsets - so
// scores stay comparable globally.
package popularity

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ReviewPercentile is the percentile of the review-count distribution used
// for the smoothing prior m.
const ReviewPercentile = 0.90

// Stats holds the two smoothing constants derived from the full corpus.
type Stats struct {
	// C is the mean rating over all rows with a known rating.
	C float64
	// M is the 90th-percentile review count over all rows with a known count.
	M float64
}

// ComputeStats derives the smoothing constants from the full corpus. Absent
// (NaN) ratings and review counts are skipped, matching how the source data
// encodes missing values. With no usable review counts M defaults to 0; with
// no usable ratings C is NaN and every score degrades to NaN.
func ComputeStats(ratings, reviewCounts []float64) Stats {
	var ratingSum float64
	var ratingN int
	for _, r := range ratings {
		if math.IsNaN(r) {
			continue
		}
		ratingSum += r
		ratingN++
	}

	c := math.NaN()
	if ratingN > 0 {
		c = ratingSum / float64(ratingN)
	}

	known := make([]float64, 0, len(reviewCounts))
	for _, v := range reviewCounts {
		if !math.IsNaN(v) {
			known = append(known, v)
		}
	}

	m := 0.0
	if len(known) > 0 {
		sort.Float64s(known)
		m = stat.Quantile(ReviewPercentile, stat.LinInterp, known, nil)
	}

	stats := Stats{C: c, M: m}
	slog.Debug("Computed popularity stats", "C", stats.C, "m", stats.M, "ratedRows", ratingN, "reviewedRows", len(known))
	return stats
}

// WeightedRating scores one attraction. When v+m is zero the score is C,
// avoiding the division by zero. NaN rating or review count yields NaN,
// which sorts below every real score.
func WeightedRating(reviewCount, rating float64, stats Stats) float64 {
	if math.IsNaN(reviewCount) || math.IsNaN(rating) {
		return math.NaN()
	}
	v := reviewCount
	m := stats.M
	if v+m == 0 {
		return stats.C
	}
	return (v/(v+m))*rating + (m/(v+m))*stats.C
}

// ScoreAll scores every row with the given constants, preserving order.
// ratings and reviewCounts must be parallel slices.
func ScoreAll(reviewCounts, ratings []float64, stats Stats) []float64 {
	scores := make([]float64, len(ratings))
	for i := range ratings {
		scores[i] = WeightedRating(reviewCounts[i], ratings[i], stats)
	}
	return scores
}
