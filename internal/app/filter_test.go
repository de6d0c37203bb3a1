package app_test

import (
	"errors"
	"testing"
	"time"

	"review_analytics/internal/app"
	"review_analytics/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func rev(brand, name, text string, rating int, date string) domain.Review {
	return domain.Review{Brand: brand, CustomerName: name, ReviewText: text, Rating: rating, Date: day(date)}
}

func fixture() domain.Dataset {
	return domain.Dataset{
		rev("Wanderdoll", "Ana", "fantastic quality, thank you", 5, "2024-01-10"),
		rev("Wanderdoll", "Ben", "wrong size, never got a reply", 1, "2024-02-01"),
		rev("Odd Muse", "Cleo", "waiting for my refund", 2, "2024-02-15"),
		rev("Odd Muse", "Dan", "it was fine", 3, "2024-03-05"),
		rev("Wanderdoll", "Eve", "fast delivery, great dress", 4, "2024-03-20"),
	}
}

func mustApply(t *testing.T, d domain.Dataset, spec domain.FilterSpec) domain.FilteredView {
	t.Helper()
	v, err := app.Apply(d, spec)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return v
}

func TestApply_AllInactiveIsIdentity(t *testing.T) {
	d := fixture()
	v := mustApply(t, d, domain.FilterSpec{Brand: "all", ShowAll: true})
	if len(v) != len(d) {
		t.Fatalf("want %d rows, got %d", len(d), len(v))
	}
	for i := range d {
		if v[i] != d[i] {
			t.Fatalf("row %d reordered or changed", i)
		}
	}
}

func TestApply_BrandFilter(t *testing.T) {
	v := mustApply(t, fixture(), domain.FilterSpec{Brand: "Odd Muse"})
	if len(v) != 2 {
		t.Fatalf("rows: %d", len(v))
	}
	for _, r := range v {
		if r.Brand != "Odd Muse" {
			t.Fatalf("leaked brand %s", r.Brand)
		}
	}
}

func TestApply_DateRangeInclusiveAndMonotonic(t *testing.T) {
	d := fixture()
	narrow := mustApply(t, d, domain.FilterSpec{
		Dates: domain.DateRange{Start: day("2024-02-01"), End: day("2024-02-15")},
	})
	wide := mustApply(t, d, domain.FilterSpec{
		Dates: domain.DateRange{Start: day("2024-01-01"), End: day("2024-12-31")},
	})

	// both boundary dates are included
	if len(narrow) != 2 {
		t.Fatalf("narrow rows: %d", len(narrow))
	}

	// narrower range yields a subset of the wider one
	in := func(v domain.FilteredView, r domain.Review) bool {
		for _, x := range v {
			if x == r {
				return true
			}
		}
		return false
	}
	for _, r := range narrow {
		if !in(wide, r) {
			t.Fatalf("row %+v in narrow but not wide", r)
		}
	}
}

func TestApply_EmptyRatingsPassesAll(t *testing.T) {
	d := fixture()
	v := mustApply(t, d, domain.FilterSpec{Ratings: nil})
	if len(v) != len(d) {
		t.Fatalf("empty rating selection must deactivate the filter, got %d rows", len(v))
	}
}

func TestApply_RatingFilter(t *testing.T) {
	v := mustApply(t, fixture(), domain.FilterSpec{Ratings: []int{1, 2}})
	if len(v) != 2 {
		t.Fatalf("rows: %d", len(v))
	}
}

func TestApply_CategorySubstringMatching(t *testing.T) {
	d := fixture()

	// "wrong size" is a product_issue keyword and appears verbatim
	v := mustApply(t, d, domain.FilterSpec{Categories: []domain.Category{domain.CategoryProductIssue}})
	found := false
	for _, r := range v {
		if r.CustomerName == "Ben" {
			found = true
		}
	}
	if !found {
		t.Fatal(`"wrong size, never got a reply" must match product_issue`)
	}

	// "never got a reply" does NOT contain the phrase "no reply" verbatim,
	// so the strict substring rule must not match service_issue
	v = mustApply(t, d, domain.FilterSpec{Categories: []domain.Category{domain.CategoryServiceIssue}})
	for _, r := range v {
		if r.CustomerName == "Ben" {
			t.Fatal(`"never got a reply" must not match service_issue keyword "no reply"`)
		}
	}
}

func TestApply_CategoryMatchIsCaseInsensitive(t *testing.T) {
	d := domain.Dataset{rev("Wanderdoll", "Ana", "WRONG SIZE arrived", 2, "2024-01-01")}
	v := mustApply(t, d, domain.FilterSpec{Categories: []domain.Category{domain.CategoryProductIssue}})
	if len(v) != 1 {
		t.Fatal("match must ignore case")
	}
}

func TestApply_MatchedKeywordsPreferredOverBody(t *testing.T) {
	r := rev("Wanderdoll", "Ana", "text mentions refund", 3, "2024-01-01")
	r.MatchedKeywords = "sizing"
	d := domain.Dataset{r}

	// body says refund, but matched_keywords wins and says sizing
	if v := mustApply(t, d, domain.FilterSpec{Categories: []domain.Category{domain.CategoryExpectation}}); len(v) != 0 {
		t.Fatal("category match must use matched_keywords when present")
	}
	if v := mustApply(t, d, domain.FilterSpec{Categories: []domain.Category{domain.CategoryProductIssue}}); len(v) != 1 {
		t.Fatal("sizing hit in matched_keywords expected")
	}
}

func TestApply_ShowAllBypassesCategories(t *testing.T) {
	d := fixture()
	v := mustApply(t, d, domain.FilterSpec{
		Categories: []domain.Category{domain.CategoryServiceIssue},
		ShowAll:    true,
	})
	if len(v) != len(d) {
		t.Fatalf("show_all must bypass category filter, got %d rows", len(v))
	}
}

func TestApply_UnknownCategoryRejected(t *testing.T) {
	_, err := app.Apply(fixture(), domain.FilterSpec{Categories: []domain.Category{"typo"}})
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("want ErrUnknownCategory, got %v", err)
	}
}

func TestApply_FiltersCompose(t *testing.T) {
	v := mustApply(t, fixture(), domain.FilterSpec{
		Brand:      "Wanderdoll",
		Dates:      domain.DateRange{Start: day("2024-02-01"), End: day("2024-12-31")},
		Ratings:    []int{1, 2},
		Categories: []domain.Category{domain.CategoryProductIssue},
	})
	if len(v) != 1 || v[0].CustomerName != "Ben" {
		t.Fatalf("conjunctive filters: %+v", v)
	}
}

func TestSortView_StableWithTies(t *testing.T) {
	d := domain.Dataset{
		rev("Wanderdoll", "Ana", "a", 3, "2024-01-01"),
		rev("Wanderdoll", "Ben", "b", 3, "2024-01-01"),
		rev("Wanderdoll", "Cleo", "c", 5, "2024-01-01"),
	}
	v := mustApply(t, d, domain.FilterSpec{})

	sorted, err := app.SortView(v, domain.SortKey{Field: domain.SortByRating, Descending: false})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sorted[0].CustomerName != "Ana" || sorted[1].CustomerName != "Ben" {
		t.Fatalf("equal keys must keep original order: %v %v", sorted[0].CustomerName, sorted[1].CustomerName)
	}

	// original view untouched
	if v[2].CustomerName != "Cleo" {
		t.Fatal("SortView must not mutate its input")
	}

	if _, err := app.SortView(v, domain.SortKey{Field: "nope"}); !errors.Is(err, domain.ErrInvalidSortField) {
		t.Fatalf("want ErrInvalidSortField, got %v", err)
	}
}
