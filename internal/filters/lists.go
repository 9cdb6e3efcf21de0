package filters

import "strings"

// JoinList joins category or attribute identifiers into the comma form the
// provider expects. Identifiers must not contain commas.
func JoinList(xs []string) string {
	return strings.Join(xs, ",")
}

// SplitList is the inverse of JoinList; empty segments are dropped.
func SplitList(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	for p := range strings.SplitSeq(s, ",") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PriceTiers parses a comma-joined price string, trimming blanks.
func PriceTiers(price string) []PriceTier {
	var out []PriceTier
	for _, p := range SplitList(price) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, PriceTier(p))
		}
	}
	return out
}

// TogglePrice removes tier from price when present (every occurrence),
// otherwise appends it. The remaining tiers keep their order.
func TogglePrice(price string, tier PriceTier) string {
	tiers := PriceTiers(price)
	kept := make([]string, 0, len(tiers)+1)
	found := false
	for _, t := range tiers {
		if t == tier {
			found = true
			continue
		}
		kept = append(kept, string(t))
	}
	if !found {
		kept = append(kept, string(tier))
	}
	return JoinList(kept)
}

// HasPrice reports whether tier is selected in price.
func HasPrice(price string, tier PriceTier) bool {
	for _, t := range PriceTiers(price) {
		if t == tier {
			return true
		}
	}
	return false
}

// SamePrice compares two price strings as tier sets.
func SamePrice(a, b string) bool {
	set := func(s string) map[PriceTier]struct{} {
		m := map[PriceTier]struct{}{}
		for _, t := range PriceTiers(s) {
			m[t] = struct{}{}
		}
		return m
	}
	sa, sb := set(a), set(b)
	if len(sa) != len(sb) {
		return false
	}
	for t := range sa {
		if _, ok := sb[t]; !ok {
			return false
		}
	}
	return true
}
