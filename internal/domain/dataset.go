package domain

import "time"

// Dataset is an ordered, load-time-deduplicated sequence of reviews. It is
// never mutated after load; derived views are fresh slices.
type Dataset []Review

// FilteredView is a read-only subsequence of a Dataset. The element order is
// the Dataset's original order unless explicitly re-sorted.
type FilteredView []Review

type dedupeKey struct {
	brand, customer, text string
	rating                int
	date                  int64
}

// Dedupe collapses rows with an identical (brand, customer_name, review_text,
// rating, date) tuple to the first occurrence, preserving order.
func Dedupe(rows []Review) Dataset {
	seen := make(map[dedupeKey]struct{}, len(rows))
	out := make(Dataset, 0, len(rows))
	for _, r := range rows {
		k := dedupeKey{r.Brand, r.CustomerName, r.ReviewText, r.Rating, r.Date.Unix()}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Brands returns the distinct brands present, in first-seen order.
func (d Dataset) Brands() []string {
	seen := make(map[string]struct{}, 4)
	var out []string
	for _, r := range d {
		if _, ok := seen[r.Brand]; ok {
			continue
		}
		seen[r.Brand] = struct{}{}
		out = append(out, r.Brand)
	}
	return out
}

// Span returns the earliest and latest review dates. ok is false for an
// empty dataset.
func (d Dataset) Span() (min, max time.Time, ok bool) {
	if len(d) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = d[0].Date, d[0].Date
	for _, r := range d[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, true
}
