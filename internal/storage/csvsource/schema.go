package csvsource

import (
	"fmt"
	"strings"
)

// Schema maps the canonical record fields to one source's column headers.
// Header comparison is case-insensitive after trimming.
type Schema struct {
	Name            string
	CustomerName    string
	ReviewText      string
	Rating          string
	Date            string
	MatchedKeywords string // optional column
	Link            string // optional column
}

// Known source schema variants. The exports differ only in the review-text,
// rating and date headers.
var schemas = map[string]Schema{
	"canonical": {
		Name:            "canonical",
		CustomerName:    "customer_name",
		ReviewText:      "review_text",
		Rating:          "rating",
		Date:            "date",
		MatchedKeywords: "matched_keywords",
		Link:            "link",
	},
	"trustpilot": {
		Name:            "trustpilot",
		CustomerName:    "customer name",
		ReviewText:      "review_text",
		Rating:          "rating_clean",
		Date:            "date of experience",
		MatchedKeywords: "matched_keywords",
		Link:            "link",
	},
	"legacy": {
		Name:            "legacy",
		CustomerName:    "customer name",
		ReviewText:      "review",
		Rating:          "rating",
		Date:            "date",
		MatchedKeywords: "matched_keywords",
		Link:            "link",
	},
}

func SchemaByName(name string) (Schema, error) {
	s, ok := schemas[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Schema{}, fmt.Errorf("unknown source schema %q", name)
	}
	return s, nil
}

// Source describes one tabular input: which brand its rows belong to, which
// schema variant its headers follow, and where the bytes live (a local path
// or an http(s) URL).
type Source struct {
	Brand    string
	Schema   Schema
	Location string
}

// Remote reports whether the source must be fetched over HTTP.
func (s Source) Remote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// ParseSpec parses the REVIEW_SOURCES config value: comma-separated entries
// of the form brand=schema=location (location may itself contain '=' free
// characters like "://").
func ParseSpec(spec string) ([]Source, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, fmt.Errorf("no sources configured")
	}
	var out []Source
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("bad source entry %q: want brand=schema=location", entry)
		}
		sc, err := SchemaByName(parts[1])
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", parts[0], err)
		}
		out = append(out, Source{
			Brand:    strings.TrimSpace(parts[0]),
			Schema:   sc,
			Location: strings.TrimSpace(parts[2]),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}
	return out, nil
}
