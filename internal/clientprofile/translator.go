package clientprofile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/config"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

// Translator derives a search filter set from a validated profile.
type Translator interface {
	Translate(ctx context.Context, p Profile) (filters.SearchFilters, error)
}

// JSONPoster is the gateway call the remote translator needs.
type JSONPoster interface {
	PostJSON(ctx context.Context, endpoint string, in, out any) error
}

type Factory func(cfg config.Config, logger *slog.Logger, poster JSONPoster) (Translator, error)

const fallback = "rules"

var reg = map[string]Factory{}

func Register(name string, f Factory) {
	reg[name] = f
}

// Names lists the registered translators.
func Names() []string {
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func New(name string, cfg config.Config, logger *slog.Logger, poster JSONPoster) (Translator, error) {
	if f, ok := reg[name]; ok {
		return f(cfg, logger, poster)
	}
	if f, ok := reg[fallback]; ok {
		logger.Warn("unknown profile translator; falling back to rules", "translator", name)
		return f(cfg, logger, poster)
	}
	return nil, fmt.Errorf("no factory for translator %q and no %s registered", name, fallback)
}
