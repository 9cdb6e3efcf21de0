package request

import (
	"net/url"
	"testing"

	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

func equalValues(a, b url.Values) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
	}
	return true
}

func TestBuild_TorontoScenario(t *testing.T) {
	f := filters.SearchFilters{
		Location: "Toronto",
		Radius:   filters.Int(5000),
		Price:    "1,3",
		SortBy:   filters.SortRating,
		ViewType: filters.ViewMap,
	}
	got := Build(f)

	want, _ := url.ParseQuery("location=Toronto&radius=5000&price=1%2C3&sort_by=rating")
	if !equalValues(got, want) {
		t.Fatalf("got %s want %s", got.Encode(), want.Encode())
	}
	for _, k := range []string{"term", "open_now", "limit", "view_type"} {
		if _, ok := got[k]; ok {
			t.Fatalf("%s must not be sent when unset", k)
		}
	}
	if enc := got.Encode(); enc != "location=Toronto&price=1%2C3&radius=5000&sort_by=rating" {
		t.Fatalf("encoded=%q", enc)
	}
}

func TestBuild_KeepsZeroAndFalse(t *testing.T) {
	f := filters.SearchFilters{
		Latitude:  filters.Float(0),
		Longitude: filters.Float(-79.3832),
		OpenNow:   filters.Bool(false),
		Offset:    filters.Int(0),
		Radius:    filters.Int(0),
		OpenAt:    filters.Int64(1700000000),
	}
	got := Build(f)

	checks := map[string]string{
		"latitude":  "0",
		"longitude": "-79.3832",
		"open_now":  "false",
		"offset":    "0",
		"radius":    "0",
		"open_at":   "1700000000",
	}
	for k, v := range checks {
		if got.Get(k) != v {
			t.Fatalf("%s=%q want %q", k, got.Get(k), v)
		}
	}
	if len(got) != len(checks) {
		t.Fatalf("unexpected extra keys: %s", got.Encode())
	}

	f.OpenNow = filters.Bool(true)
	if Build(f).Get("open_now") != "true" {
		t.Fatal("true should encode as \"true\"")
	}
}

func TestBuild_Pure(t *testing.T) {
	f := filters.WithDefaults(filters.SearchFilters{Location: "Toronto", Categories: "italian,pizza"})
	a, b := Build(f), Build(f)
	if !equalValues(a, b) {
		t.Fatalf("builder not deterministic: %s vs %s", a.Encode(), b.Encode())
	}
	if a.Get("categories") != "italian,pizza" {
		t.Fatalf("categories=%q", a.Get("categories"))
	}
}

func TestBody_SameOmissions(t *testing.T) {
	f := filters.SearchFilters{
		Location: "Toronto",
		OpenNow:  filters.Bool(false),
		Limit:    filters.Int(10),
		ViewType: filters.ViewList,
	}
	got := Body(f)
	if len(got) != 3 {
		t.Fatalf("body=%v want 3 keys", got)
	}
	if got["open_now"] != false || got["limit"] != 10 || got["location"] != "Toronto" {
		t.Fatalf("unexpected body: %v", got)
	}
	if _, ok := got["view_type"]; ok {
		t.Fatal("view_type must stay local")
	}
}
