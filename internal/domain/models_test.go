package domain_test

import (
	"reflect"
	"testing"

	"survey-service/internal/domain"
)

func TestLabelsFallsBackToDefault(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"bad json":     "not-json",
		"wrong length": `["a","b","c"]`,
		"blank entry":  `["a","b","  ","d","e"]`,
		"not strings":  `[1,2,3,4,5]`,
	}
	for name, raw := range cases {
		q := domain.Question{RatingLabels: raw}
		if got := q.Labels(); !reflect.DeepEqual(got, domain.DefaultRatingLabels) {
			t.Fatalf("%s: expected default labels, got %v", name, got)
		}
	}
}

func TestLabelsParsesCustomSet(t *testing.T) {
	q := domain.Question{RatingLabels: `["Bad","Poor","OK","Good","Great"]`}
	got := q.Labels()
	want := []string{"Bad", "Poor", "OK", "Good", "Great"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseRatingLabels(t *testing.T) {
	if _, ok := domain.ParseRatingLabels(`["a","b","c","d","e"]`); !ok {
		t.Fatalf("expected valid label set to parse")
	}
	if _, ok := domain.ParseRatingLabels(`["a","b","c","d","e","f"]`); ok {
		t.Fatalf("expected six labels to be rejected")
	}
}

func TestValidRating(t *testing.T) {
	for r := domain.RatingMin; r <= domain.RatingMax; r++ {
		if !domain.ValidRating(r) {
			t.Fatalf("expected %d to be valid", r)
		}
	}
	for _, r := range []int{0, -1, 6, 100} {
		if domain.ValidRating(r) {
			t.Fatalf("expected %d to be invalid", r)
		}
	}
}
