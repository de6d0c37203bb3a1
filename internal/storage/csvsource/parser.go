package csvsource

import (
	"bytes"
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"review_analytics/internal/domain"
)

// date layouts seen across the exports; tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"January 2, 2006",
}

// Fingerprint is the content half of the dataset cache key: same bytes,
// same fingerprint, regardless of where the source lives.
func Fingerprint(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Parse normalizes one source's CSV bytes into canonical Review rows tagged
// with the source's brand. Any malformed row is fatal for the whole source:
// the error carries the brand and 1-based line number, and no partial batch
// is returned.
func Parse(src Source, data []byte) ([]domain.Review, error) {
	rd := csv.NewReader(bytes.NewReader(data))
	rd.FieldsPerRecord = -1 // header decides; validated per row below

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("source %s: read header: %w", src.Brand, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idx := func(name string) (int, bool) {
		i, ok := cols[strings.ToLower(name)]
		return i, ok
	}
	required := map[string]string{
		"customer name": src.Schema.CustomerName,
		"review text":   src.Schema.ReviewText,
		"rating":        src.Schema.Rating,
		"date":          src.Schema.Date,
	}
	for what, col := range required {
		if _, ok := idx(col); !ok {
			return nil, fmt.Errorf("source %s: schema %s: missing %s column %q",
				src.Brand, src.Schema.Name, what, col)
		}
	}
	nameIdx, _ := idx(src.Schema.CustomerName)
	textIdx, _ := idx(src.Schema.ReviewText)
	ratingIdx, _ := idx(src.Schema.Rating)
	dateIdx, _ := idx(src.Schema.Date)
	kwIdx, hasKW := idx(src.Schema.MatchedKeywords)
	linkIdx, hasLink := idx(src.Schema.Link)

	var out []domain.Review
	for line := 2; ; line++ {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source %s: line %d: %w", src.Brand, line, err)
		}
		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		rating, err := parseRating(field(ratingIdx))
		if err != nil {
			return nil, fmt.Errorf("source %s: line %d: %w", src.Brand, line, err)
		}
		date, err := parseDate(field(dateIdx))
		if err != nil {
			return nil, fmt.Errorf("source %s: line %d: %w", src.Brand, line, err)
		}

		r := domain.Review{
			Brand:        src.Brand,
			CustomerName: field(nameIdx),
			ReviewText:   field(textIdx),
			Rating:       rating,
			Date:         date,
		}
		if hasKW {
			r.MatchedKeywords = field(kwIdx)
		}
		if hasLink {
			r.Link = field(linkIdx)
		}
		out = append(out, r)
	}
	return out, nil
}

// parseRating accepts "4" and float-formatted exports like "4.0". Anything
// non-integral or outside 1..5 is a data-integrity error.
func parseRating(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty rating")
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("bad rating %q", s)
	}
	n := int(f)
	if math.Abs(f-float64(n)) > 1e-9 || n < 1 || n > 5 {
		return 0, fmt.Errorf("rating %q out of range 1..5", s)
	}
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}
