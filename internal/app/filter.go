package app

import (
	"sort"
	"strings"

	"review_analytics/internal/domain"
)

// Apply evaluates the four filter dimensions conjunctively and returns the
// matching subsequence in the dataset's original order. An inactive
// dimension (brand "all", open date range, empty rating set, show_all) is a
// no-op. The input dataset is never mutated.
func Apply(d domain.Dataset, spec domain.FilterSpec) (domain.FilteredView, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var keywords []string
	if spec.CategoryActive() {
		keywords = keywordUnion(spec.Categories)
	}
	ratings := make(map[int]bool, len(spec.Ratings))
	for _, r := range spec.Ratings {
		ratings[r] = true
	}

	out := make(domain.FilteredView, 0, len(d))
	for _, r := range d {
		if spec.BrandActive() && r.Brand != spec.Brand {
			continue
		}
		if !spec.Dates.Contains(r.Date) {
			continue
		}
		if len(ratings) > 0 && !ratings[r.Rating] {
			continue
		}
		if keywords != nil && !containsAny(r.SearchText(), keywords) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// keywordUnion concatenates the selected categories' phrase lists,
// lowercased once so the per-row match is a plain substring check.
func keywordUnion(cats []domain.Category) []string {
	var out []string
	for _, c := range cats {
		kws, err := c.Keywords()
		if err != nil {
			continue // Validate already rejected unknowns
		}
		for _, k := range kws {
			out = append(out, strings.ToLower(k))
		}
	}
	return out
}

// containsAny is a case-insensitive substring test: the phrase must appear
// verbatim inside the text. No tokenization; "fit" inside "benefit" hits.
func containsAny(text string, loweredKeywords []string) bool {
	t := strings.ToLower(text)
	for _, k := range loweredKeywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// SortView returns a stably sorted copy of the view; rows that compare equal
// on the key keep their original relative order.
func SortView(v domain.FilteredView, key domain.SortKey) (domain.FilteredView, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	out := make(domain.FilteredView, len(v))
	copy(out, v)
	less := lessFunc(key.Field)
	sort.SliceStable(out, func(i, j int) bool {
		if key.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func lessFunc(f domain.SortField) func(a, b domain.Review) bool {
	switch f {
	case domain.SortByRating:
		return func(a, b domain.Review) bool { return a.Rating < b.Rating }
	case domain.SortByCustomer:
		return func(a, b domain.Review) bool { return a.CustomerName < b.CustomerName }
	case domain.SortByBrand:
		return func(a, b domain.Review) bool { return a.Brand < b.Brand }
	default:
		return func(a, b domain.Review) bool { return a.Date.Before(b.Date) }
	}
}
