package clientprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/config"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

func init() {
	Register("remote", newRemote)
}

const profilePath = "/client_profile"

// Remote hands the profile to an external profile service and maps its
// answer back into filters.
type Remote struct {
	endpoint string
	poster   JSONPoster
	logger   *slog.Logger
}

var _ Translator = (*Remote)(nil)

func newRemote(cfg config.Config, logger *slog.Logger, poster JSONPoster) (Translator, error) {
	if cfg.ProfileServiceURL == "" {
		return nil, errors.New("remote translator: PROFILE_SERVICE_URL is not set")
	}
	if poster == nil {
		return nil, errors.New("remote translator: no http client")
	}
	return &Remote{endpoint: cfg.ProfileServiceURL + profilePath, poster: poster, logger: logger}, nil
}

// categories come back either as a list or already comma-joined
type categoryList []string

func (c *categoryList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*c = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	*c = filters.SplitList(s)
	return nil
}

type remoteParams struct {
	Location   string       `json:"location"`
	Term       string       `json:"term"`
	Categories categoryList `json:"categories"`
	Price      string       `json:"price"`
}

func (r *Remote) Translate(ctx context.Context, p Profile) (filters.SearchFilters, error) {
	var out remoteParams
	if err := r.poster.PostJSON(ctx, r.endpoint, p, &out); err != nil {
		return filters.SearchFilters{}, fmt.Errorf("profile service: %w", err)
	}

	cats := make([]string, 0, len(out.Categories))
	for _, c := range out.Categories {
		if c = strings.TrimSpace(c); c != "" {
			cats = append(cats, c)
		}
	}
	f := filters.SearchFilters{
		Location:   strings.TrimSpace(out.Location),
		Term:       strings.TrimSpace(out.Term),
		Categories: filters.JoinList(cats),
		Price:      strings.ReplaceAll(out.Price, " ", ""),
	}
	if f.Location == "" {
		f.Location = strings.TrimSpace(p.Location)
	}
	r.logger.DebugContext(ctx, "profile translated", "categories", len(cats), "price", f.Price)
	return f, nil
}
