package clientprofile

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/config"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

func init() {
	Register("rules", newRules)
}

// Rules is the local, deterministic translator. Seniority and a long
// relationship push the price up, the purpose picks the ambiance term, and
// cuisine and dietary text become category aliases.
type Rules struct {
	Radius int
}

var _ Translator = (*Rules)(nil)

func newRules(cfg config.Config, _ *slog.Logger, _ JSONPoster) (Translator, error) {
	return &Rules{Radius: cfg.DefaultRadius}, nil
}

var designationLevel = map[Designation]int{
	DesignationCSuite:     3,
	DesignationVP:         3,
	DesignationDirector:   2,
	DesignationTechnical:  2,
	DesignationMixedGroup: 2,
}

var purposeTerm = map[Purpose]string{
	PurposeIntroduction: "quiet restaurant",
	PurposeCheckIn:      "casual restaurant",
	PurposeMilestone:    "upscale restaurant",
	PurposeNegotiation:  "private dining",
	PurposeCelebration:  "fine dining",
}

// dietary keywords that map onto provider category aliases
var dietaryAliases = []struct{ word, alias string }{
	{"vegan", "vegan"},
	{"vegetarian", "vegetarian"},
	{"gluten", "gluten_free"},
	{"halal", "halal"},
	{"kosher", "kosher"},
}

func (r *Rules) Translate(_ context.Context, p Profile) (filters.SearchFilters, error) {
	f := filters.SearchFilters{
		Location:   strings.TrimSpace(p.Location),
		Term:       term(p),
		Price:      priceFor(p),
		Categories: filters.JoinList(categories(p)),
		SortBy:     filters.SortBestMatch,
	}
	if r.Radius > 0 {
		f.Radius = filters.Int(r.Radius)
	}
	return f, nil
}

func priceFor(p Profile) string {
	level, ok := designationLevel[p.ClientDesignation]
	if !ok {
		level = 2
	}
	if p.RelationshipStatus == RelationshipExistingLong {
		level++
	}
	if p.MeetingPurpose == PurposeCelebration || p.MeetingPurpose == PurposeMilestone {
		level++
	}
	level = min(max(level, 2), 4)
	return strconv.Itoa(level-1) + "," + strconv.Itoa(level)
}

func term(p Profile) string {
	if p.MeetingPurpose == PurposeOther {
		if other := strings.TrimSpace(p.OtherPurpose); other != "" {
			return other + " restaurant"
		}
	}
	if t, ok := purposeTerm[p.MeetingPurpose]; ok {
		if p.MeetingDuration == Duration30Min && p.MeetingPurpose == PurposeCheckIn {
			return "cafe"
		}
		return t
	}
	return "restaurant"
}

func categories(p Profile) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(alias string) {
		if alias == "" {
			return
		}
		if _, ok := seen[alias]; ok {
			return
		}
		seen[alias] = struct{}{}
		out = append(out, alias)
	}

	for _, c := range splitFreeText(p.CuisinePreferences) {
		add(alias(c))
	}
	diet := strings.ToLower(p.DietaryRestrictions)
	for _, d := range dietaryAliases {
		if strings.Contains(diet, d.word) {
			add(d.alias)
		}
	}
	return out
}

// cuisine text arrives as "Italian, Japanese and Thai" or "italian/sushi"
func splitFreeText(s string) []string {
	s = strings.NewReplacer(" and ", ",", "/", ",", ";", ",").Replace(s)
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func alias(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
