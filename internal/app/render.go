package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/aditsuu/wisatarec/internal/recommender"

	json "github.com/goccy/go-json"
)

// QueryMode identifies which recommendation path produced a result; it
// selects the score columns shown in output.
type QueryMode int

const (
	// ModeContent shows the cosine similarity column
	ModeContent QueryMode = iota
	// ModePopularity shows the weighted-rating column
	ModePopularity
	// ModeLocation shows the distance column
	ModeLocation
	// ModeHybrid shows the fused score plus its components
	ModeHybrid
)

// roundTo rounds v to the given number of decimals, passing NaN through.
func roundTo(v float64, decimals int) float64 {
	if math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// roundedOrNil converts a rounded value to a pointer, mapping NaN to nil so
// absent numbers serialize as JSON null.
func roundedOrNil(v float64, decimals int) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	r := roundTo(v, decimals)
	return &r
}

type itemJSON struct {
	ID           int      `json:"id"`
	Nama         string   `json:"nama"`
	Provinsi     string   `json:"provinsi,omitempty"`
	Rating       *float64 `json:"rating"`
	JumlahReview *float64 `json:"jumlah_review"`
	Kategori     []string `json:"kategori,omitempty"`
	Similarity   *float64 `json:"similarity,omitempty"`
	Popularity   *float64 `json:"weighted_rating,omitempty"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
	Combined     *float64 `json:"combined_score,omitempty"`
}

type resultJSON struct {
	Status  string     `json:"status"`
	Message string     `json:"message,omitempty"`
	Results []itemJSON `json:"results"`
}

// RenderResultJSON serializes a query result with presentation rounding:
// ratings to 1 decimal, scores to 3, distances to 2. Absent values become
// null rather than NaN, which JSON cannot carry.
func RenderResultJSON(res recommender.Result, mode QueryMode) (string, error) {
	out := resultJSON{
		Status:  res.Status.String(),
		Message: res.Message,
		Results: make([]itemJSON, 0, len(res.Items)),
	}
	for _, it := range res.Items {
		row := itemJSON{
			ID:           it.ID,
			Nama:         it.Nama,
			Provinsi:     it.Provinsi,
			Rating:       roundedOrNil(it.Rating, 1),
			JumlahReview: roundedOrNil(it.JumlahReview, 0),
			Kategori:     it.Kategori,
		}
		switch mode {
		case ModeContent:
			row.Similarity = roundedOrNil(it.Similarity, 3)
		case ModePopularity:
			row.Popularity = roundedOrNil(it.Popularity, 3)
		case ModeLocation:
			row.DistanceKm = roundedOrNil(it.DistanceKm, 2)
		case ModeHybrid:
			row.Combined = roundedOrNil(it.Combined, 3)
			row.Similarity = roundedOrNil(it.Similarity, 3)
			row.Popularity = roundedOrNil(it.Popularity, 3)
			row.DistanceKm = roundedOrNil(it.DistanceKm, 2)
		}
		out.Results = append(out.Results, row)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b) + "\n", nil
}

// RenderResultText formats a query result as a numbered plain-text list with
// the same presentation rounding as the JSON form.
func RenderResultText(res recommender.Result, mode QueryMode) string {
	if res.Status != recommender.StatusOK {
		return res.Message + "\n"
	}

	var b strings.Builder
	for i, it := range res.Items {
		fmt.Fprintf(&b, "%2d. %s", i+1, it.Nama)
		if it.Provinsi != "" {
			fmt.Fprintf(&b, " (%s)", it.Provinsi)
		}
		if !math.IsNaN(it.Rating) {
			fmt.Fprintf(&b, "  rating %.1f", roundTo(it.Rating, 1))
		}
		switch mode {
		case ModeContent:
			fmt.Fprintf(&b, "  similarity %.3f", roundTo(it.Similarity, 3))
		case ModePopularity:
			if !math.IsNaN(it.Popularity) {
				fmt.Fprintf(&b, "  weighted %.3f", roundTo(it.Popularity, 3))
			}
		case ModeLocation:
			if !math.IsNaN(it.DistanceKm) {
				fmt.Fprintf(&b, "  %.2f km", roundTo(it.DistanceKm, 2))
			}
		case ModeHybrid:
			fmt.Fprintf(&b, "  score %.3f", roundTo(it.Combined, 3))
			if !math.IsNaN(it.DistanceKm) {
				fmt.Fprintf(&b, "  %.2f km", roundTo(it.DistanceKm, 2))
			}
		}
		if len(it.Kategori) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(it.Kategori, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
