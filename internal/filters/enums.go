package filters

// Option is a value/label pair used to populate form controls.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type SortBy string

const (
	SortBestMatch   SortBy = "best_match"
	SortRating      SortBy = "rating"
	SortReviewCount SortBy = "review_count"
	SortDistance    SortBy = "distance"
)

var sortOrder = []SortBy{SortBestMatch, SortRating, SortReviewCount, SortDistance}

func (s SortBy) Valid() bool {
	switch s {
	case SortBestMatch, SortRating, SortReviewCount, SortDistance:
		return true
	}
	return false
}

func (s SortBy) Label() string {
	switch s {
	case SortBestMatch:
		return "Best Match"
	case SortRating:
		return "Highest Rated"
	case SortReviewCount:
		return "Most Reviewed"
	case SortDistance:
		return "Distance"
	}
	return string(s)
}

func SortOptions() []Option {
	out := make([]Option, 0, len(sortOrder))
	for _, s := range sortOrder {
		out = append(out, Option{Value: string(s), Label: s.Label()})
	}
	return out
}

type ViewType string

const (
	ViewList ViewType = "list"
	ViewMap  ViewType = "map"
)

func (v ViewType) Valid() bool {
	return v == ViewList || v == ViewMap
}

func (v ViewType) Label() string {
	switch v {
	case ViewList:
		return "List"
	case ViewMap:
		return "Map"
	}
	return string(v)
}

func ViewOptions() []Option {
	return []Option{
		{Value: string(ViewList), Label: ViewList.Label()},
		{Value: string(ViewMap), Label: ViewMap.Label()},
	}
}

type PriceTier string

const (
	PriceInexpensive PriceTier = "1"
	PriceModerate    PriceTier = "2"
	PricePricey      PriceTier = "3"
	PriceUltraHigh   PriceTier = "4"
)

var priceOrder = []PriceTier{PriceInexpensive, PriceModerate, PricePricey, PriceUltraHigh}

func (p PriceTier) Valid() bool {
	switch p {
	case PriceInexpensive, PriceModerate, PricePricey, PriceUltraHigh:
		return true
	}
	return false
}

// Label renders the tier as dollar signs
func (p PriceTier) Label() string {
	switch p {
	case PriceInexpensive:
		return "$"
	case PriceModerate:
		return "$$"
	case PricePricey:
		return "$$$"
	case PriceUltraHigh:
		return "$$$$"
	}
	return string(p)
}

func PriceOptions() []Option {
	out := make([]Option, 0, len(priceOrder))
	for _, p := range priceOrder {
		out = append(out, Option{Value: string(p), Label: p.Label()})
	}
	return out
}
