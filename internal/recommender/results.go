package recommender

import "math"

// Status tags a query outcome. Not-found and no-match are normal, expected
// outcomes of a query, not failures, so they are values rather than errors
// and stay distinguishable from both a populated list and a real error.
type Status int

const (
	// StatusOK means Items carries at least one recommendation.
	StatusOK Status = iota
	// StatusNotFound means the queried attraction name is unknown.
	StatusNotFound
	// StatusNoMatch means filtering left zero rows.
	StatusNoMatch
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Recommendation is one ranked result row. Score fields are populated per
// query mode; DistanceKm is NaN when the row did not come through the
// location path. Stored precision is full; rounding is a presentation
// concern at the caller's boundary.
type Recommendation struct {
	ID           int
	Nama         string
	Provinsi     string
	Rating       float64 // NaN when absent
	JumlahReview float64 // NaN when absent
	Kategori     []string

	Similarity float64 // content-based cosine score, [0, 1]
	Popularity float64 // Bayesian-smoothed weighted rating
	DistanceKm float64 // NaN unless the row has a computed distance
	Combined   float64 // hybrid fused score, [0, 1]
}

// Result is a query outcome: a ranked list, or a typed empty outcome with a
// human-readable message.
type Result struct {
	Status  Status
	Message string
	Items   []Recommendation
}

// ok wraps a populated item list.
func ok(items []Recommendation) Result {
	return Result{Status: StatusOK, Items: items}
}

func notFound(message string) Result {
	return Result{Status: StatusNotFound, Message: message}
}

func noMatch(message string) Result {
	return Result{Status: StatusNoMatch, Message: message}
}

// scoreBetter orders scores descending with NaN below every real value.
func scoreBetter(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
