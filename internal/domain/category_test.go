package domain_test

import (
	"errors"
	"testing"

	"review_analytics/internal/domain"
)

func TestCategories_FixedOrder(t *testing.T) {
	want := []domain.Category{
		domain.CategoryProductIssue,
		domain.CategoryServiceIssue,
		domain.CategoryExpectation,
		domain.CategoryDeliveryIssue,
		domain.CategoryPositiveExperience,
	}
	got := domain.Categories()
	if len(got) != len(want) {
		t.Fatalf("got %d categories", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestKeywords_UnknownCategory(t *testing.T) {
	_, err := domain.Category("made_up").Keywords()
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("want ErrUnknownCategory, got %v", err)
	}
}

func TestKeywords_ReturnsCopy(t *testing.T) {
	a, err := domain.CategoryExpectation.Keywords()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(a) == 0 {
		t.Fatal("expected keywords")
	}
	a[0] = "mutated"
	b, _ := domain.CategoryExpectation.Keywords()
	if b[0] == "mutated" {
		t.Fatal("dictionary must not be mutable through Keywords()")
	}
}

func TestFilterSpec_Validate(t *testing.T) {
	spec := domain.FilterSpec{Categories: []domain.Category{"nope"}}
	if err := spec.Validate(); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("want ErrUnknownCategory, got %v", err)
	}
	spec = domain.FilterSpec{Ratings: []int{6}}
	if err := spec.Validate(); err == nil {
		t.Fatal("rating 6 must be rejected")
	}
	spec = domain.FilterSpec{Ratings: []int{1, 5}, Categories: []domain.Category{domain.CategoryExpectation}}
	if err := spec.Validate(); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}
