package popularity

import (
	"math"
	"testing"
)

func TestComputeStats(t *testing.T) {
	ratings := []float64{4.0, 5.0, 3.0, math.NaN()}
	reviews := []float64{100, 200, 300, math.NaN()}

	stats := ComputeStats(ratings, reviews)

	if math.Abs(stats.C-4.0) > 1e-9 {
		t.Errorf("C = %v, want 4.0 (NaN ratings skipped)", stats.C)
	}
	// 90th percentile of {100, 200, 300} sits between the two largest samples
	if stats.M < 200 || stats.M > 300 {
		t.Errorf("m = %v, want within (200, 300]", stats.M)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, nil)
	if !math.IsNaN(stats.C) {
		t.Errorf("C with no ratings = %v, want NaN", stats.C)
	}
	if stats.M != 0 {
		t.Errorf("m with no review counts = %v, want 0", stats.M)
	}
}

func TestWeightedRatingZeroDenominator(t *testing.T) {
	stats := Stats{C: 4.2, M: 0}
	if got := WeightedRating(0, 5.0, stats); got != stats.C {
		t.Errorf("WeightedRating with v+m=0 = %v, want C=%v", got, stats.C)
	}
}

func TestWeightedRatingPropagatesNaN(t *testing.T) {
	stats := Stats{C: 4.2, M: 100}
	if got := WeightedRating(math.NaN(), 4.5, stats); !math.IsNaN(got) {
		t.Errorf("WeightedRating with NaN reviews = %v, want NaN", got)
	}
	if got := WeightedRating(50, math.NaN(), stats); !math.IsNaN(got) {
		t.Errorf("WeightedRating with NaN rating = %v, want NaN", got)
	}
}

func TestWeightedRatingMonotonicInRating(t *testing.T) {
	stats := Stats{C: 4.0, M: 500}
	prev := math.Inf(-1)
	for _, rating := range []float64{1.0, 2.5, 4.0, 4.8, 5.0} {
		got := WeightedRating(1000, rating, stats)
		if got < prev {
			t.Errorf("score decreased as rating rose: %v after %v", got, prev)
		}
		prev = got
	}
}

func TestWeightedRatingMonotonicInReviewsAboveMean(t *testing.T) {
	stats := Stats{C: 4.0, M: 500}
	// rating above C: more reviews must never lower the score
	prev := math.Inf(-1)
	for _, reviews := range []float64{0, 10, 100, 1000, 100000} {
		got := WeightedRating(reviews, 4.9, stats)
		if got < prev {
			t.Errorf("score decreased as review count rose: %v after %v", got, prev)
		}
		prev = got
	}
}

func TestWeightedRatingShrinksLowVolumeTowardMean(t *testing.T) {
	// A(4.5, 1000 reviews) vs B(5.0, 2 reviews) vs C(3.0, 500 reviews):
	// B's perfect rating is heavily shrunk toward the mean by its tiny volume
	stats := Stats{C: 4.17, M: 520}

	a := WeightedRating(1000, 4.5, stats)
	b := WeightedRating(2, 5.0, stats)
	c := WeightedRating(500, 3.0, stats)

	if !(a > c && c > b) {
		t.Errorf("expected ordering A > C > B, got A=%v B=%v C=%v", a, b, c)
	}
}

func TestScoreAllPreservesOrder(t *testing.T) {
	stats := Stats{C: 4.0, M: 100}
	reviews := []float64{10, 2000, math.NaN()}
	ratings := []float64{3.0, 4.9, 4.0}

	scores := ScoreAll(reviews, ratings, stats)
	if len(scores) != 3 {
		t.Fatalf("ScoreAll returned %d scores, want 3", len(scores))
	}
	if !math.IsNaN(scores[2]) {
		t.Errorf("scores[2] = %v, want NaN", scores[2])
	}
	if scores[1] <= scores[0] {
		t.Errorf("high-volume high-rating row should outscore low one: %v vs %v", scores[1], scores[0])
	}
}
