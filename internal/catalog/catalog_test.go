package catalog

import (
	"math"
	"testing"

	"github.com/aditsuu/wisatarec/internal/dataset"
	"github.com/aditsuu/wisatarec/internal/preprocess"
)

func testRows() []preprocess.Row {
	mk := func(id int, nama, provinsi, deskripsi string, rating float64, kategori ...string) preprocess.Row {
		return preprocess.Row{Attraction: dataset.Attraction{
			ID: id, Nama: nama, Provinsi: provinsi, Deskripsi: deskripsi,
			Rating: rating, Kategori: kategori,
			Latitude: math.NaN(), Longitude: math.NaN(),
		}}
	}
	return []preprocess.Row{
		mk(1, "Pantai Kuta", "Bali", "Pantai dengan ombak untuk selancar", 4.6, "pantai", "alam"),
		mk(2, "Pantai Sanur", "Bali", "Pantai tenang untuk matahari terbit", 4.5, "pantai"),
		mk(3, "Candi Borobudur", "Jawa Tengah", "Candi Buddha terbesar di dunia", 4.7, "sejarah", "budaya"),
		mk(4, "Museum Perjuangan", "Jawa Tengah", "Koleksi sejarah kemerdekaan", math.NaN(), "sejarah"),
	}
}

func TestCategories(t *testing.T) {
	got := Categories(testRows())
	want := []string{"alam", "budaya", "pantai", "sejarah"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProvinces(t *testing.T) {
	got := Provinces(testRows())
	want := []string{"Bali", "Jawa Tengah"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Provinces() = %v, want %v", got, want)
	}
}

func TestDetailsFlexibleLookup(t *testing.T) {
	rows := testRows()

	tests := []struct {
		name  string
		query string
		want  string
		found bool
	}{
		{name: "exact", query: "Pantai Kuta", want: "Pantai Kuta", found: true},
		{name: "case and spacing insensitive", query: "pantaikuta", want: "Pantai Kuta", found: true},
		{name: "punctuation ignored", query: "pantai-kuta!", want: "Pantai Kuta", found: true},
		{name: "substring fallback", query: "borobudur", want: "Candi Borobudur", found: true},
		{name: "unknown", query: "taman khayalan", found: false},
		{name: "empty", query: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Details(rows, tt.query)
			if found != tt.found {
				t.Fatalf("Details(%q) found = %v, want %v", tt.query, found, tt.found)
			}
			if found && got.Nama != tt.want {
				t.Errorf("Details(%q) = %q, want %q", tt.query, got.Nama, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	rows := testRows()

	tests := []struct {
		name string
		opts func() FilterOptions
		want []int
	}{
		{
			name: "no criteria keeps everything",
			opts: NewFilterOptions,
			want: []int{1, 2, 3, 4},
		},
		{
			name: "category exact case-insensitive",
			opts: func() FilterOptions {
				o := NewFilterOptions()
				o.Category = "SEJARAH"
				return o
			},
			want: []int{3, 4},
		},
		{
			name: "province",
			opts: func() FilterOptions {
				o := NewFilterOptions()
				o.Province = "bali"
				return o
			},
			want: []int{1, 2},
		},
		{
			name: "min rating excludes absent ratings",
			opts: func() FilterOptions {
				o := NewFilterOptions()
				o.MinRating = 4.6
				return o
			},
			want: []int{1, 3},
		},
		{
			name: "max rating",
			opts: func() FilterOptions {
				o := NewFilterOptions()
				o.MaxRating = 4.5
				return o
			},
			want: []int{2},
		},
		{
			name: "substring query over name and description",
			opts: func() FilterOptions {
				o := NewFilterOptions()
				o.Query = "buddha"
				return o
			},
			want: []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(rows, tt.opts())
			if len(got) != len(tt.want) {
				t.Fatalf("Filter() kept %d rows, want %d (%v)", len(got), len(tt.want), got)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Filter()[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSearchRanksNameMatchesFirst(t *testing.T) {
	rows := testRows()

	hits := Search(rows, "pantai", 10)
	if len(hits) == 0 {
		t.Fatal("Search(pantai) returned no hits")
	}
	// both beach rows mention pantai in the name; the temple never does
	for _, h := range hits {
		if rows[h.Row].Nama == "Candi Borobudur" {
			t.Error("irrelevant row surfaced for query pantai")
		}
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not sorted descending at %d", i)
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if hits := Search(testRows(), "   ", 10); hits != nil {
		t.Errorf("Search with blank query = %v, want nil", hits)
	}
}

func TestSearchTopN(t *testing.T) {
	hits := Search(testRows(), "pantai", 1)
	if len(hits) > 1 {
		t.Errorf("Search with topN=1 returned %d hits", len(hits))
	}
}
