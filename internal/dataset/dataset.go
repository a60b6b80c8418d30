// Package dataset defines the raw attraction record model and loads scraped
// tourist-attraction data from CSV or JSON sources.
//
// Raw records arrive with several fields serialized as strings (category
// lists, coordinate dicts, photo lists) by the upstream scraper. This package
// parses every raw field into its canonical typed form exactly once at
// ingestion time; downstream code only ever sees canonical types. A parse
// failure on a single field degrades that field to empty/missing for that row
// and never aborts the whole batch.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Attraction is one tourist site as scraped, with string-encoded fields
// already parsed into canonical types. Absent rating and review count are
// encoded as NaN, distinct from zero.
type Attraction struct {
	ID           int
	Nama         string
	Provinsi     string
	Alamat       string
	Rating       float64 // NaN when absent
	JumlahReview float64 // NaN when absent
	Deskripsi    string
	Latitude     float64 // NaN when absent; Latitude and Longitude are both present or both NaN
	Longitude    float64
	Kategori     []string
	Foto         []string
	URL          string
}

// HasCoordinates reports whether both latitude and longitude are present.
func (a Attraction) HasCoordinates() bool {
	return !math.IsNaN(a.Latitude) && !math.IsNaN(a.Longitude)
}

// csvColumns is the expected header of the scraped dataset, in order.
var csvColumns = []string{
	"id", "nama", "provinsi", "alamat", "rating", "jumlah_review",
	"deskripsi", "koordinat", "kategori", "foto", "url",
}

// LoadCSV reads the scraped dataset from CSV. The header row is matched by
// name, so column order is not significant; missing optional columns leave
// their fields zero-valued. Row-level field corruption is isolated per row.
func LoadCSV(r io.Reader) ([]Attraction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// map column name to position
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := cols["nama"]; !ok {
		return nil, fmt.Errorf("CSV header is missing required column %q", "nama")
	}

	var rows []Attraction
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record at line %d: %w", line, err)
		}

		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return record[idx]
		}

		row := Attraction{
			ID:           parseID(field("id")),
			Nama:         strings.TrimSpace(field("nama")),
			Provinsi:     strings.TrimSpace(field("provinsi")),
			Alamat:       nullable(field("alamat")),
			Rating:       parseNumber(field("rating")),
			JumlahReview: parseCount(field("jumlah_review")),
			Deskripsi:    nullable(field("deskripsi")),
			Kategori:     ParseList(field("kategori")),
			Foto:         ParseList(field("foto")),
			URL:          nullable(field("url")),
		}
		row.Latitude, row.Longitude = ParseCoordinates(field("koordinat"))
		rows = append(rows, row)
	}

	slog.Debug("Loaded CSV dataset", "rows", len(rows))
	return rows, nil
}

// rawRecord mirrors the JSON export of the scraper, where list and dict
// fields may be either already-structured values or serialized strings.
type rawRecord struct {
	ID           *int            `json:"id"`
	Nama         string          `json:"nama"`
	Provinsi     string          `json:"provinsi"`
	Alamat       *string         `json:"alamat"`
	Rating       *float64        `json:"rating"`
	JumlahReview *float64        `json:"jumlah_review"`
	Deskripsi    *string         `json:"deskripsi"`
	Koordinat    json.RawMessage `json:"koordinat"`
	Kategori     json.RawMessage `json:"kategori"`
	Foto         json.RawMessage `json:"foto"`
	URL          *string         `json:"url"`
}

// LoadJSON reads the scraped dataset from a JSON array of records.
func LoadJSON(r io.Reader) ([]Attraction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON data: %w", err)
	}

	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
	}

	rows := make([]Attraction, 0, len(raw))
	for _, rec := range raw {
		row := Attraction{
			Nama:         strings.TrimSpace(rec.Nama),
			Provinsi:     strings.TrimSpace(rec.Provinsi),
			Rating:       derefOrNaN(rec.Rating),
			JumlahReview: derefOrNaN(rec.JumlahReview),
			Kategori:     parseRawList(rec.Kategori),
			Foto:         parseRawList(rec.Foto),
		}
		if rec.ID != nil {
			row.ID = *rec.ID
		}
		if rec.Alamat != nil {
			row.Alamat = nullable(*rec.Alamat)
		}
		if rec.Deskripsi != nil {
			row.Deskripsi = nullable(*rec.Deskripsi)
		}
		if rec.URL != nil {
			row.URL = nullable(*rec.URL)
		}
		row.Latitude, row.Longitude = parseRawCoordinates(rec.Koordinat)
		rows = append(rows, row)
	}

	slog.Debug("Loaded JSON dataset", "rows", len(rows))
	return rows, nil
}

// nullable maps the scraper's absent-value sentinels to the empty string.
func nullable(s string) string {
	s = strings.TrimSpace(s)
	if s == "N/A" || strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

func parseID(s string) int {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return id
}

// parseNumber parses a nullable numeric cell. Empty or unparseable cells
// yield NaN, keeping "absent" distinct from zero.
func parseNumber(s string) float64 {
	s = nullable(s)
	if s == "" {
		return math.NaN()
	}
	// the scraper emits Indonesian-locale decimals for some ratings
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseCount parses a nullable count cell. In count columns a comma is a
// thousands separator, never a decimal mark, so "1,234" is 1234.
func parseCount(s string) float64 {
	s = nullable(s)
	if s == "" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func derefOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// ParseList parses a serialized list cell: a JSON array or the Python-repr
// form with single quotes. Parse failures yield an empty list.
func ParseList(s string) []string {
	s = nullable(s)
	if s == "" {
		return nil
	}

	var items []string
	if err := json.Unmarshal([]byte(s), &items); err == nil {
		return items
	}
	// retry with Python-style single quotes rewritten
	if err := json.Unmarshal([]byte(singleToDoubleQuotes(s)), &items); err == nil {
		return items
	}
	slog.Debug("Unparseable list cell", "value", s)
	return nil
}

func parseRawList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}
	// the cell may itself be a serialized-list string
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseList(s)
	}
	return nil
}

// coordinatePair is the serialized coordinate dict emitted by the scraper.
type coordinatePair struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ParseCoordinates parses a serialized coordinate dict. Either both values
// are returned or both are NaN; a dict with only one of the pair is treated
// as missing.
func ParseCoordinates(s string) (lat, lon float64) {
	s = nullable(s)
	if s == "" {
		return math.NaN(), math.NaN()
	}

	var pair coordinatePair
	if err := json.Unmarshal([]byte(s), &pair); err != nil {
		if err := json.Unmarshal([]byte(singleToDoubleQuotes(s)), &pair); err != nil {
			slog.Debug("Unparseable coordinate cell", "value", s)
			return math.NaN(), math.NaN()
		}
	}
	if pair.Latitude == nil || pair.Longitude == nil {
		return math.NaN(), math.NaN()
	}
	return *pair.Latitude, *pair.Longitude
}

func parseRawCoordinates(raw json.RawMessage) (lat, lon float64) {
	if len(raw) == 0 {
		return math.NaN(), math.NaN()
	}
	var pair coordinatePair
	if err := json.Unmarshal(raw, &pair); err == nil && pair.Latitude != nil && pair.Longitude != nil {
		return *pair.Latitude, *pair.Longitude
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseCoordinates(s)
	}
	return math.NaN(), math.NaN()
}

// singleToDoubleQuotes rewrites Python-repr quoting into JSON quoting. It is
// a heuristic: apostrophes inside values will defeat it, which then counts as
// a parse failure for that cell.
func singleToDoubleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `"`)
}
