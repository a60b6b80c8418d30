// Package recommender orchestrates preprocessing, popularity scoring, and the
// similarity index into a hybrid tourist-attraction recommendation engine.
//
// An Engine starts unfitted. Fit ingests a raw dataset and builds all derived
// state; Load restores a previously saved snapshot. Both lead to the same
// ready state, and every query requires it. Fit and Load take exclusive
// access; queries share read access, which is sufficient because fitted state
// is immutable (the O(n²) similarity matrix is built once and reused for the
// engine's lifetime).
package recommender

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/aditsuu/wisatarec/internal/dataset"
	"github.com/aditsuu/wisatarec/internal/geo"
	"github.com/aditsuu/wisatarec/internal/popularity"
	"github.com/aditsuu/wisatarec/internal/preprocess"
	"github.com/aditsuu/wisatarec/internal/similarity"
	"github.com/aditsuu/wisatarec/internal/textnorm"
)

// Query defaults.
const (
	DefaultTopN          = 10
	DefaultMaxDistanceKm = 50.0
)

// Hybrid fusion weights. Content match is weighted highest because a named
// reference attraction is the most deliberate user intent signal when present.
const (
	hybridSimilarityWeight = 0.4
	hybridDistanceWeight   = 0.3
	hybridPopularityWeight = 0.3
)

// ErrNotReady is returned by queries before a successful Fit or Load.
var ErrNotReady = errors.New("model not loaded: fit or load the engine first")

// Config holds engine construction options.
type Config struct {
	// Stemmer selects the text-normalization stemmer used at fit time.
	Stemmer textnorm.StemmerKind
}

// Engine is the recommendation engine. Construct it once with New and share
// it by reference; all state is held explicitly here, never in package
// globals.
type Engine struct {
	cfg Config

	mu        sync.RWMutex
	ready     bool
	rows      []preprocess.Row
	popScores []float64 // parallel to rows
	index     *similarity.Index
	stats     popularity.Stats
}

// New creates an unfitted Engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Ready reports whether the engine has been fitted or loaded.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Rows returns the enriched attraction table, or nil before readiness. The
// returned slice is shared immutable state and must not be mutated.
func (e *Engine) Rows() []preprocess.Row {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return nil
	}
	return e.rows
}

// PopularityScores returns the fit-time popularity score per row, parallel
// to Rows.
func (e *Engine) PopularityScores() []float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return nil
	}
	return e.popScores
}

// Stats returns the smoothing constants captured at fit time.
func (e *Engine) Stats() popularity.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// Fit builds all engine state from a raw dataset: enrichment, popularity
// scoring, and the similarity index. Calling Fit again fully replaces prior
// state.
func (e *Engine) Fit(raw []dataset.Attraction) error {
	if len(raw) == 0 {
		return fmt.Errorf("cannot fit on an empty dataset")
	}

	normalizer := textnorm.New(textnorm.Config{Stemmer: e.cfg.Stemmer})
	rows := preprocess.Enrich(raw, normalizer)

	ratings := make([]float64, len(rows))
	reviews := make([]float64, len(rows))
	names := make([]string, len(rows))
	texts := make([]string, len(rows))
	for i, row := range rows {
		ratings[i] = row.Rating
		reviews[i] = row.JumlahReview
		names[i] = row.Nama
		texts[i] = row.CombinedFeatures
	}

	stats := popularity.ComputeStats(ratings, reviews)
	scores := popularity.ScoreAll(reviews, ratings, stats)
	index := similarity.Build(names, texts)

	e.mu.Lock()
	e.rows = rows
	e.popScores = scores
	e.index = index
	e.stats = stats
	e.ready = true
	e.mu.Unlock()

	slog.Debug("Engine fitted", "attractions", len(rows), "C", stats.C, "m", stats.M)
	return nil
}

// ContentBased recommends the topN attractions most similar to the named
// one, excluding itself. The name is matched exactly against the canonical
// name field; an unknown name is a not-found result, not an error.
func (e *Engine) ContentBased(name string, topN int) (Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return Result{}, ErrNotReady
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	row, found := e.index.Lookup(name)
	if !found {
		return notFound("tempat wisata tidak ditemukan, coba nama lain"), nil
	}

	hits := e.index.SimilarTo(row, topN)
	items := make([]Recommendation, 0, len(hits))
	for _, hit := range hits {
		item := e.baseItem(hit.Row)
		item.Similarity = hit.Score
		items = append(items, item)
	}
	return ok(items), nil
}

// PopularityBased ranks attractions by Bayesian-smoothed popularity,
// optionally filtered by category tag and/or province (case-insensitive
// exact matches). Scores are recomputed with the C and m captured at fit
// time over the full corpus, never from the filtered subset, so they stay
// comparable across queries.
func (e *Engine) PopularityBased(category, province string, topN int) (Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return Result{}, ErrNotReady
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	kept := e.filterRows(category, province)
	if len(kept) == 0 {
		return noMatch("tidak ada tempat wisata yang cocok dengan kriteria tersebut"), nil
	}

	stats := e.statsWithFallback()

	items := make([]Recommendation, 0, len(kept))
	for _, i := range kept {
		item := e.baseItem(i)
		item.Popularity = popularity.WeightedRating(e.rows[i].JumlahReview, e.rows[i].Rating, stats)
		items = append(items, item)
	}

	sort.SliceStable(items, func(a, b int) bool {
		return scoreBetter(items[a].Popularity, items[b].Popularity)
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return ok(items), nil
}

// LocationBased returns the topN attractions within maxDistanceKm of the
// query point, nearest first. Rows without coordinates are dropped.
func (e *Engine) LocationBased(lat, lon, maxDistanceKm float64, topN int) (Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return Result{}, ErrNotReady
	}
	if err := validateCoordinates(lat, lon); err != nil {
		return Result{}, err
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	var items []Recommendation
	for i, row := range e.rows {
		if !row.HasCoordinates() {
			continue
		}
		d := geo.Distance(lat, lon, row.Latitude, row.Longitude)
		if d > maxDistanceKm {
			continue
		}
		item := e.baseItem(i)
		item.DistanceKm = d
		items = append(items, item)
	}

	if len(items) == 0 {
		return noMatch(fmt.Sprintf("tidak ada tempat wisata dalam radius %g km dari lokasi tersebut", maxDistanceKm)), nil
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].DistanceKm < items[b].DistanceKm
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return ok(items), nil
}

// HybridQuery bundles the optional inputs of a hybrid recommendation. Absent
// coordinates are NaN; a zero TopN selects the default. A zero MaxDistanceKm
// is a valid exact-point radius; negative or NaN selects the default.
type HybridQuery struct {
	Name          string
	Lat, Lon      float64
	Category      string
	Province      string
	MaxDistanceKm float64
	TopN          int
}

// NewHybridQuery returns a query with absent coordinates and default limits.
func NewHybridQuery() HybridQuery {
	return HybridQuery{
		Lat:           math.NaN(),
		Lon:           math.NaN(),
		MaxDistanceKm: DefaultMaxDistanceKm,
		TopN:          DefaultTopN,
	}
}

// hybridCandidate is one unioned row plus its per-component raw scores.
// Missing components stay at zero, which is also what they become ahead of
// min-max normalization.
type hybridCandidate struct {
	item        Recommendation
	simScore    float64
	distScore   float64
	popScore    float64
	hasDistance bool
}

// Hybrid fuses content-based, location-based, and popularity-based rankings
// into one list. Each component is gathered at twice the requested size; a
// component that yields a not-found or no-match outcome contributes nothing
// and is only logged. Component scores are independently min-max normalized
// over the unioned candidate set and combined with fixed weights.
func (e *Engine) Hybrid(q HybridQuery) (Result, error) {
	if !e.Ready() {
		return Result{}, ErrNotReady
	}
	if !math.IsNaN(q.Lat) || !math.IsNaN(q.Lon) {
		if err := validateCoordinates(q.Lat, q.Lon); err != nil {
			return Result{}, err
		}
	}
	if q.TopN <= 0 {
		q.TopN = DefaultTopN
	}
	if q.MaxDistanceKm < 0 || math.IsNaN(q.MaxDistanceKm) {
		q.MaxDistanceKm = DefaultMaxDistanceKm
	}

	gather := 2 * q.TopN
	var candidates []hybridCandidate

	// content component, only with a reference name
	if q.Name != "" {
		res, err := e.ContentBased(q.Name, gather)
		if err != nil {
			return Result{}, err
		}
		if res.Status != StatusOK {
			slog.Debug("Hybrid content component contributed nothing", "name", q.Name, "status", res.Status.String())
		}
		for _, item := range res.Items {
			candidates = append(candidates, hybridCandidate{item: item, simScore: item.Similarity})
		}
	}

	// location component, only with a full coordinate pair
	if !math.IsNaN(q.Lat) && !math.IsNaN(q.Lon) {
		res, err := e.LocationBased(q.Lat, q.Lon, q.MaxDistanceKm, gather)
		if err != nil {
			return Result{}, err
		}
		if res.Status != StatusOK {
			slog.Debug("Hybrid location component contributed nothing", "status", res.Status.String())
		}
		// nearness relative to the farthest returned neighbor, not the
		// radius bound
		var maxDist float64
		for _, item := range res.Items {
			if item.DistanceKm > maxDist {
				maxDist = item.DistanceKm
			}
		}
		if maxDist == 0 {
			// every neighbor sits on the query point
			maxDist = 1
		}
		for _, item := range res.Items {
			candidates = append(candidates, hybridCandidate{
				item:        item,
				distScore:   1 - item.DistanceKm/maxDist,
				hasDistance: true,
			})
		}
	}

	// popularity component always contributes, filtered or not
	res, err := e.PopularityBased(q.Category, q.Province, gather)
	if err != nil {
		return Result{}, err
	}
	if res.Status != StatusOK {
		slog.Debug("Hybrid popularity component contributed nothing", "category", q.Category, "province", q.Province, "status", res.Status.String())
	}
	for _, item := range res.Items {
		pop := item.Popularity
		if math.IsNaN(pop) {
			pop = 0
		}
		candidates = append(candidates, hybridCandidate{item: item, popScore: pop})
	}

	if len(candidates) == 0 {
		return noMatch("tidak ada rekomendasi yang sesuai dengan kriteria tersebut"), nil
	}

	// min-max normalize each component over the whole union, duplicates
	// included; rows missing a component sit at zero beforehand
	sims := make([]float64, len(candidates))
	dists := make([]float64, len(candidates))
	pops := make([]float64, len(candidates))
	for i, c := range candidates {
		sims[i] = c.simScore
		dists[i] = c.distScore
		pops[i] = c.popScore
	}
	minMaxNormalize(sims)
	minMaxNormalize(dists)
	minMaxNormalize(pops)

	items := make([]Recommendation, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for i, c := range candidates {
		// de-duplicate by name, first occurrence in union order wins
		if _, dup := seen[c.item.Nama]; dup {
			continue
		}
		seen[c.item.Nama] = struct{}{}

		item := c.item
		item.Combined = hybridSimilarityWeight*sims[i] +
			hybridDistanceWeight*dists[i] +
			hybridPopularityWeight*pops[i]
		if !c.hasDistance {
			item.DistanceKm = math.NaN()
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Combined > items[b].Combined
	})
	if len(items) > q.TopN {
		items = items[:q.TopN]
	}
	return ok(items), nil
}

// baseItem copies the shared identity fields of row i. Callers hold the read
// lock.
func (e *Engine) baseItem(i int) Recommendation {
	row := e.rows[i]
	return Recommendation{
		ID:           row.ID,
		Nama:         row.Nama,
		Provinsi:     row.Provinsi,
		Rating:       row.Rating,
		JumlahReview: row.JumlahReview,
		Kategori:     row.Kategori,
		DistanceKm:   math.NaN(),
	}
}

// filterRows returns the row indices matching the optional category tag and
// province, both case-insensitive exact matches.
func (e *Engine) filterRows(category, province string) []int {
	kept := make([]int, 0, len(e.rows))
	for i, row := range e.rows {
		if category != "" && !containsTag(row.Kategori, category) {
			continue
		}
		if province != "" && !strings.EqualFold(row.Provinsi, province) {
			continue
		}
		kept = append(kept, i)
	}
	return kept
}

// statsWithFallback returns the fit-time smoothing constants. If m is
// unexpectedly absent it is recomputed from the full-corpus table still in
// memory, defaulting to zero when that is impossible.
func (e *Engine) statsWithFallback() popularity.Stats {
	stats := e.stats
	if !math.IsNaN(stats.M) {
		return stats
	}
	reviews := make([]float64, len(e.rows))
	ratings := make([]float64, len(e.rows))
	for i, row := range e.rows {
		reviews[i] = row.JumlahReview
		ratings[i] = row.Rating
	}
	recomputed := popularity.ComputeStats(ratings, reviews)
	stats.M = recomputed.M
	return stats
}

// containsTag reports whether tags contains tag, compared case-insensitively
// as whole tags, never as substrings.
func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// validateCoordinates rejects out-of-range query coordinates before any
// computation. NaN means absent here, not invalid.
func validateCoordinates(lat, lon float64) error {
	if !math.IsNaN(lat) && !geo.ValidLatitude(lat) {
		return fmt.Errorf("latitude must be within [-90, 90], got %g", lat)
	}
	if !math.IsNaN(lon) && !geo.ValidLongitude(lon) {
		return fmt.Errorf("longitude must be within [-180, 180], got %g", lon)
	}
	return nil
}

// minMaxNormalize rescales values to [0, 1] in place. A zero-range slice
// collapses to all zeros.
func minMaxNormalize(values []float64) {
	if len(values) == 0 {
		return
	}
	min := floats.Min(values)
	max := floats.Max(values)
	if max == min {
		for i := range values {
			values[i] = 0
		}
		return
	}
	for i := range values {
		values[i] = (values[i] - min) / (max - min)
	}
}
