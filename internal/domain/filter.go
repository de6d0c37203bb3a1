package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// BrandAll selects every brand (filter inactive).
const BrandAll = "all"

// DateRange is inclusive on both ends. A zero Start or End leaves that side
// unbounded.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (dr DateRange) Contains(t time.Time) bool {
	if !dr.Start.IsZero() && t.Before(dr.Start) {
		return false
	}
	if !dr.End.IsZero() && t.After(dr.End) {
		return false
	}
	return true
}

// FilterSpec is the immutable set of constraints defining a view. It is
// built once per request and passed in; the engine never reads ambient
// state.
//
// An empty Ratings slice deactivates the rating filter (all ratings pass).
// This mirrors the legacy dashboards, where clearing the rating multiselect
// meant "no rating filter", and keeps the rule uniform: every inactive
// dimension is a no-op, never an empty result.
type FilterSpec struct {
	Brand      string     `json:"brand,omitempty"` // empty or "all" matches every brand
	Dates      DateRange  `json:"dates"`
	Ratings    []int      `json:"ratings,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	ShowAll    bool       `json:"show_all"` // bypasses the category filter
}

// Validate rejects unknown categories and out-of-domain ratings.
func (s FilterSpec) Validate() error {
	for _, c := range s.Categories {
		if !c.Known() {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
	}
	for _, r := range s.Ratings {
		if r < 1 || r > 5 {
			return fmt.Errorf("rating %d out of range 1..5", r)
		}
	}
	return nil
}

// BrandActive reports whether the brand dimension constrains the view.
func (s FilterSpec) BrandActive() bool {
	return s.Brand != "" && !strings.EqualFold(s.Brand, BrandAll)
}

// CategoryActive reports whether the category dimension constrains the view.
func (s FilterSpec) CategoryActive() bool {
	return !s.ShowAll && len(s.Categories) > 0
}

// Describe renders the active filters for logs and the data view header.
func (s FilterSpec) Describe() string {
	var parts []string
	if s.BrandActive() {
		parts = append(parts, "brand: "+s.Brand)
	}
	if !s.Dates.Start.IsZero() || !s.Dates.End.IsZero() {
		parts = append(parts, fmt.Sprintf("date: %s to %s",
			fmtDate(s.Dates.Start), fmtDate(s.Dates.End)))
	}
	if len(s.Ratings) > 0 && len(s.Ratings) < 5 {
		rs := append([]int(nil), s.Ratings...)
		sort.Ints(rs)
		ss := make([]string, len(rs))
		for i, r := range rs {
			ss[i] = fmt.Sprintf("%d", r)
		}
		parts = append(parts, "ratings: "+strings.Join(ss, ", "))
	}
	if s.CategoryActive() {
		cs := make([]string, len(s.Categories))
		for i, c := range s.Categories {
			cs[i] = string(c)
		}
		parts = append(parts, "categories: "+strings.Join(cs, ", "))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " | ")
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return t.Format("2006-01-02")
}

// SortField names a presentation-layer sort key over the canonical schema.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByRating   SortField = "rating"
	SortByCustomer SortField = "customer_name"
	SortByBrand    SortField = "brand"
)

type SortKey struct {
	Field      SortField `json:"field"`
	Descending bool      `json:"descending"`
}

func (k SortKey) Validate() error {
	switch k.Field {
	case SortByDate, SortByRating, SortByCustomer, SortByBrand:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSortField, k.Field)
}
