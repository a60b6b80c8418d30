package recommender

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aditsuu/wisatarec/internal/dataset"
)

func testData() []dataset.Attraction {
	return []dataset.Attraction{
		{
			ID: 1, Nama: "Pantai Kuta", Provinsi: "Bali",
			Rating: 4.6, JumlahReview: 85000,
			Deskripsi: "Pantai pasir putih dengan ombak untuk selancar dan matahari terbenam yang indah",
			Kategori:  []string{"pantai", "alam"},
			Latitude:  -8.717879, Longitude: 115.168724,
		},
		{
			ID: 2, Nama: "Pantai Sanur", Provinsi: "Bali",
			Rating: 4.5, JumlahReview: 40000,
			Deskripsi: "Pantai pasir putih yang tenang, terkenal dengan matahari terbit",
			Kategori:  []string{"pantai"},
			Latitude:  -8.687222, Longitude: 115.262294,
		},
		{
			ID: 3, Nama: "Candi Borobudur", Provinsi: "Jawa Tengah",
			Rating: 4.7, JumlahReview: 50000,
			Deskripsi: "Candi Buddha terbesar di dunia, warisan sejarah dan budaya",
			Kategori:  []string{"sejarah", "budaya"},
			Latitude:  -7.607874, Longitude: 110.203751,
		},
		{
			ID: 4, Nama: "Pantai Tersembunyi", Provinsi: "Bali",
			Rating: 5.0, JumlahReview: 2,
			Deskripsi: "Pantai kecil tersembunyi dengan pasir putih",
			Kategori:  []string{"pantai"},
			Latitude:  math.NaN(), Longitude: math.NaN(),
		},
		{
			ID: 5, Nama: "Museum Perjuangan", Provinsi: "Jawa Tengah",
			Rating: 3.0, JumlahReview: 500,
			Deskripsi: "Museum dengan koleksi sejarah perjuangan kemerdekaan",
			Kategori:  []string{"sejarah"},
			Latitude:  -7.56, Longitude: 110.82,
		},
		{
			ID: 6, Nama: "Tempat Tanpa Data", Provinsi: "Aceh",
			Rating: math.NaN(), JumlahReview: math.NaN(),
			Deskripsi: "",
			Kategori:  nil,
			Latitude:  math.NaN(), Longitude: math.NaN(),
		},
	}
}

func fittedEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(Config{})
	if err := e.Fit(testData()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return e
}

func TestQueriesRequireReadyState(t *testing.T) {
	e := New(Config{})

	if _, err := e.ContentBased("Pantai Kuta", 5); err != ErrNotReady {
		t.Errorf("ContentBased on unfitted engine: err = %v, want ErrNotReady", err)
	}
	if _, err := e.PopularityBased("", "", 5); err != ErrNotReady {
		t.Errorf("PopularityBased on unfitted engine: err = %v, want ErrNotReady", err)
	}
	if _, err := e.LocationBased(-8.7, 115.2, 50, 5); err != ErrNotReady {
		t.Errorf("LocationBased on unfitted engine: err = %v, want ErrNotReady", err)
	}
	if _, err := e.Hybrid(NewHybridQuery()); err != ErrNotReady {
		t.Errorf("Hybrid on unfitted engine: err = %v, want ErrNotReady", err)
	}
	if err := e.Save(filepath.Join(t.TempDir(), "model.gob")); err != ErrNotReady {
		t.Errorf("Save on unfitted engine: err = %v, want ErrNotReady", err)
	}
}

func TestFitTransitionsToReady(t *testing.T) {
	e := New(Config{})
	if e.Ready() {
		t.Fatal("new engine should not be ready")
	}
	if err := e.Fit(testData()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !e.Ready() {
		t.Error("engine should be ready after Fit")
	}
	if err := e.Fit(testData()); err != nil {
		t.Errorf("second Fit() error = %v, want full state replacement", err)
	}
}

func TestFitEmptyDataset(t *testing.T) {
	e := New(Config{})
	if err := e.Fit(nil); err == nil {
		t.Error("Fit(nil) should fail")
	}
}

func TestContentBasedUnknownName(t *testing.T) {
	e := fittedEngine(t)

	res, err := e.ContentBased("Tempat Khayalan", 5)
	if err != nil {
		t.Fatalf("ContentBased() error = %v, unknown name must not be an error", err)
	}
	if res.Status != StatusNotFound {
		t.Errorf("status = %v, want StatusNotFound", res.Status)
	}
	if len(res.Items) != 0 {
		t.Errorf("not-found result should carry no items, got %d", len(res.Items))
	}
	if res.Message == "" {
		t.Error("not-found result should carry a message")
	}
}

func TestContentBasedRecommendations(t *testing.T) {
	e := fittedEngine(t)

	res, err := e.ContentBased("Pantai Kuta", 3)
	if err != nil {
		t.Fatalf("ContentBased() error = %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", res.Status)
	}
	if len(res.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(res.Items))
	}

	for i, item := range res.Items {
		if item.Nama == "Pantai Kuta" {
			t.Error("query attraction must be excluded from its own recommendations")
		}
		if item.Similarity < 0 || item.Similarity > 1 {
			t.Errorf("similarity out of [0,1]: %v", item.Similarity)
		}
		if i > 0 && item.Similarity > res.Items[i-1].Similarity {
			t.Errorf("items not sorted by similarity descending at %d", i)
		}
	}

	// the other beach shares beach vocabulary; the temple does not
	if res.Items[0].Nama != "Pantai Sanur" && res.Items[0].Nama != "Pantai Tersembunyi" {
		t.Errorf("most similar to Pantai Kuta = %q, expected another beach", res.Items[0].Nama)
	}
}

func TestPopularityShrinksLowVolumeRatings(t *testing.T) {
	e := fittedEngine(t)

	res, err := e.PopularityBased("", "", 10)
	if err != nil {
		t.Fatalf("PopularityBased() error = %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", res.Status)
	}

	pos := make(map[string]int)
	for i, item := range res.Items {
		pos[item.Nama] = i
	}

	// 5.0 with 2 reviews shrinks toward the mean, below the high-volume beaches
	if pos["Pantai Tersembunyi"] < pos["Pantai Kuta"] {
		t.Error("tiny review volume should not outrank a high-volume attraction")
	}
	// NaN-rating row sorts last
	if pos["Tempat Tanpa Data"] != len(res.Items)-1 {
		t.Errorf("row without rating should sort last, got position %d", pos["Tempat Tanpa Data"])
	}
}

func TestPopularityCategoryFilter(t *testing.T) {
	e := fittedEngine(t)

	tests := []struct {
		name     string
		category string
		province string
		want     int
		status   Status
	}{
		{name: "category exact", category: "pantai", want: 3, status: StatusOK},
		{name: "category case-insensitive", category: "PANTAI", want: 3, status: StatusOK},
		{name: "category is not substring-matched", category: "panta", status: StatusNoMatch},
		{name: "province filter", province: "jawa tengah", want: 2, status: StatusOK},
		{name: "both filters", category: "sejarah", province: "Jawa Tengah", want: 2, status: StatusOK},
		{name: "no rows match", category: "kuliner", status: StatusNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.PopularityBased(tt.category, tt.province, 10)
			if err != nil {
				t.Fatalf("PopularityBased() error = %v", err)
			}
			if res.Status != tt.status {
				t.Fatalf("status = %v, want %v", res.Status, tt.status)
			}
			if tt.status == StatusOK && len(res.Items) != tt.want {
				t.Errorf("got %d items, want %d", len(res.Items), tt.want)
			}
			if tt.status == StatusNoMatch && res.Message == "" {
				t.Error("no-match result should carry a message")
			}
		})
	}
}

func TestLocationBasedValidation(t *testing.T) {
	e := fittedEngine(t)

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{name: "latitude too large", lat: 91, lon: 115},
		{name: "latitude too small", lat: -90.5, lon: 115},
		{name: "longitude too large", lat: -8, lon: 181},
		{name: "longitude too small", lat: -8, lon: -180.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.LocationBased(tt.lat, tt.lon, 50, 5); err == nil {
				t.Errorf("LocationBased(%v, %v) should reject out-of-range coordinates", tt.lat, tt.lon)
			}
		})
	}
}

func TestLocationBasedZeroRadiusExactPoint(t *testing.T) {
	e := fittedEngine(t)

	// query point sits exactly on Pantai Kuta; Sanur is ~12 km away
	res, err := e.LocationBased(-8.717879, 115.168724, 0, 10)
	if err != nil {
		t.Fatalf("LocationBased() error = %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", res.Status)
	}
	if len(res.Items) != 1 || res.Items[0].Nama != "Pantai Kuta" {
		t.Fatalf("items = %v, want exactly Pantai Kuta", res.Items)
	}
	if res.Items[0].DistanceKm > 1e-6 {
		t.Errorf("distance at the exact point = %v, want ~0", res.Items[0].DistanceKm)
	}
}

func TestLocationBasedSortsByDistance(t *testing.T) {
	e := fittedEngine(t)

	res, err := e.LocationBased(-8.7, 115.2, 500, 10)
	if err != nil {
		t.Fatalf("LocationBased() error = %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", res.Status)
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].DistanceKm < res.Items[i-1].DistanceKm {
			t.Errorf("items not sorted by distance ascending at %d", i)
		}
	}
	// rows without coordinates never appear
	for _, item := range res.Items {
		if item.Nama == "Pantai Tersembunyi" || item.Nama == "Tempat Tanpa Data" {
			t.Errorf("row without coordinates leaked into location results: %q", item.Nama)
		}
	}
}

func TestLocationBasedNoMatchEchoesRadius(t *testing.T) {
	e := fittedEngine(t)

	// middle of the Indian Ocean
	res, err := e.LocationBased(-30, 80, 25, 5)
	if err != nil {
		t.Fatalf("LocationBased() error = %v", err)
	}
	if res.Status != StatusNoMatch {
		t.Fatalf("status = %v, want StatusNoMatch", res.Status)
	}
	if !strings.Contains(res.Message, "25") {
		t.Errorf("no-match message should echo the radius: %q", res.Message)
	}
}

func TestHybridCategoryOnlyRanksByPopularity(t *testing.T) {
	e := fittedEngine(t)

	q := NewHybridQuery()
	q.Category = "pantai"
	hybrid, err := e.Hybrid(q)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if hybrid.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", hybrid.Status)
	}

	pop, err := e.PopularityBased("pantai", "", DefaultTopN)
	if err != nil {
		t.Fatalf("PopularityBased() error = %v", err)
	}

	if len(hybrid.Items) != len(pop.Items) {
		t.Fatalf("hybrid returned %d items, popularity returned %d", len(hybrid.Items), len(pop.Items))
	}
	for i := range hybrid.Items {
		if hybrid.Items[i].Nama != pop.Items[i].Nama {
			t.Errorf("hybrid order diverges from popularity order at %d: %q vs %q",
				i, hybrid.Items[i].Nama, pop.Items[i].Nama)
		}
		// only the popularity component can contribute
		if hybrid.Items[i].Combined > hybridPopularityWeight+1e-9 {
			t.Errorf("combined score %v exceeds the popularity weight bound", hybrid.Items[i].Combined)
		}
	}
}

func TestHybridUnionsAndDeduplicates(t *testing.T) {
	e := fittedEngine(t)

	q := NewHybridQuery()
	q.Name = "Pantai Kuta"
	q.Lat, q.Lon = -8.7, 115.2
	res, err := e.Hybrid(q)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", res.Status)
	}

	seen := make(map[string]bool)
	for _, item := range res.Items {
		if seen[item.Nama] {
			t.Errorf("duplicate attraction %q in hybrid results", item.Nama)
		}
		seen[item.Nama] = true
		if item.Combined < 0 || item.Combined > 1+1e-9 {
			t.Errorf("combined score out of range: %v", item.Combined)
		}
	}

	// sorted by combined score descending
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Combined > res.Items[i-1].Combined {
			t.Errorf("hybrid items not sorted at %d", i)
		}
	}
}

func TestHybridFailedComponentsAreNotFatal(t *testing.T) {
	e := fittedEngine(t)

	q := NewHybridQuery()
	q.Name = "Tempat Khayalan" // unknown: content contributes nothing
	q.Lat, q.Lon = -30, 80     // open ocean: location contributes nothing
	res, err := e.Hybrid(q)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK via the popularity component", res.Status)
	}
}

func TestHybridValidatesCoordinates(t *testing.T) {
	e := fittedEngine(t)

	q := NewHybridQuery()
	q.Lat, q.Lon = 100, 115
	if _, err := e.Hybrid(q); err == nil {
		t.Error("Hybrid should reject out-of-range coordinates")
	}
}

func TestHybridDistanceScoreRelativeToFarthestNeighbor(t *testing.T) {
	// two equally popular attractions 0.2 km and 0.4 km from the query
	// point: nearness must be scored against the farthest returned
	// neighbor even when every neighbor is under a kilometer away
	e := New(Config{})
	err := e.Fit([]dataset.Attraction{
		{
			ID: 1, Nama: "Pantai Dekat", Provinsi: "Bali",
			Rating: 4.5, JumlahReview: 1000,
			Deskripsi: "Pantai pasir putih dengan ombak tenang",
			Kategori:  []string{"pantai"},
			Latitude:  -8.7018, Longitude: 115.2,
		},
		{
			ID: 2, Nama: "Pantai Jauh", Provinsi: "Bali",
			Rating: 4.5, JumlahReview: 1000,
			Deskripsi: "Pantai berbatu dengan tebing karang",
			Kategori:  []string{"pantai"},
			Latitude:  -8.7036, Longitude: 115.2,
		},
	})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	q := NewHybridQuery()
	q.Lat, q.Lon = -8.7, 115.2
	res, err := e.Hybrid(q)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if res.Status != StatusOK || len(res.Items) != 2 {
		t.Fatalf("unexpected result: status %v, %d items", res.Status, len(res.Items))
	}

	byName := make(map[string]Recommendation, 2)
	for _, item := range res.Items {
		byName[item.Nama] = item
	}

	// equal popularity cancels out, so only the distance component scores:
	// the nearest row normalizes to the full distance weight, the farthest
	// to exactly zero
	near, far := byName["Pantai Dekat"], byName["Pantai Jauh"]
	if math.Abs(near.Combined-hybridDistanceWeight) > 1e-9 {
		t.Errorf("nearest combined score = %v, want %v", near.Combined, hybridDistanceWeight)
	}
	if far.Combined != 0 {
		t.Errorf("farthest combined score = %v, want 0", far.Combined)
	}
}

func TestHybridZeroRadiusExactPoint(t *testing.T) {
	e := fittedEngine(t)

	q := NewHybridQuery()
	q.Lat, q.Lon = -8.717879, 115.168724 // exactly on Pantai Kuta
	q.MaxDistanceKm = 0
	res, err := e.Hybrid(q)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", res.Status)
	}

	// a zero radius must survive as-is, so only the exact-point row can
	// come through the location component and carry a distance
	for _, item := range res.Items {
		if item.Nama == "Pantai Kuta" {
			if math.IsNaN(item.DistanceKm) || item.DistanceKm > 1e-9 {
				t.Errorf("Pantai Kuta distance = %v, want 0 via the location component", item.DistanceKm)
			}
			continue
		}
		if !math.IsNaN(item.DistanceKm) {
			t.Errorf("%s carries distance %v outside a zero radius", item.Nama, item.DistanceKm)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e := fittedEngine(t)
	path := filepath.Join(t.TempDir(), "models", "recommendation.gob")

	if err := e.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := New(Config{})
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Ready() {
		t.Fatal("loaded engine should be ready")
	}

	// fixed query set must produce identical output on both engines
	checkSame := func(name string, a, b Result, err1, err2 error) {
		t.Helper()
		if err1 != nil || err2 != nil {
			t.Fatalf("%s: errors %v, %v", name, err1, err2)
		}
		if a.Status != b.Status || len(a.Items) != len(b.Items) {
			t.Fatalf("%s: outcome diverges: %v/%d vs %v/%d", name, a.Status, len(a.Items), b.Status, len(b.Items))
		}
		for i := range a.Items {
			x, y := a.Items[i], b.Items[i]
			if x.Nama != y.Nama || x.ID != y.ID {
				t.Errorf("%s: item %d identity diverges: %q vs %q", name, i, x.Nama, y.Nama)
			}
			for _, pair := range [][2]float64{
				{x.Similarity, y.Similarity},
				{x.Popularity, y.Popularity},
				{x.Combined, y.Combined},
				{x.DistanceKm, y.DistanceKm},
			} {
				if pair[0] != pair[1] && !(math.IsNaN(pair[0]) && math.IsNaN(pair[1])) {
					t.Errorf("%s: item %d score diverges: %v vs %v", name, i, pair[0], pair[1])
				}
			}
		}
	}

	c1, e1 := e.ContentBased("Pantai Kuta", 5)
	c2, e2 := loaded.ContentBased("Pantai Kuta", 5)
	checkSame("content", c1, c2, e1, e2)

	p1, e3 := e.PopularityBased("pantai", "", 5)
	p2, e4 := loaded.PopularityBased("pantai", "", 5)
	checkSame("popularity", p1, p2, e3, e4)

	l1, e5 := e.LocationBased(-8.7, 115.2, 100, 5)
	l2, e6 := loaded.LocationBased(-8.7, 115.2, 100, 5)
	checkSame("location", l1, l2, e5, e6)

	q := NewHybridQuery()
	q.Name = "Pantai Kuta"
	q.Lat, q.Lon = -8.7, 115.2
	h1, e7 := e.Hybrid(q)
	h2, e8 := loaded.Hybrid(q)
	checkSame("hybrid", h1, h2, e7, e8)

	if e.Stats() != loaded.Stats() {
		t.Errorf("smoothing constants diverge after load: %+v vs %+v", e.Stats(), loaded.Stats())
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	e := New(Config{})
	err := e.Load(filepath.Join(t.TempDir(), "does-not-exist.gob"))
	if err == nil {
		t.Fatal("Load of a missing snapshot should fail")
	}
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
	if e.Ready() {
		t.Error("failed load must not mark the engine ready")
	}
}
