package store

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/gateway"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/observability"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
	"github.com/mohammed-shakir/restaurant-recommender/internal/request"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// Outcome describes how one Search call ended.
type Outcome struct {
	Seq      uint64
	Outcome  string
	Stale    bool
	Filters  filters.SearchFilters
	Params   url.Values
	Total    int
	Err      error
	Duration time.Duration
}

type Options struct {
	Logger     *slog.Logger
	Defaults   filters.SearchFilters
	Timeout    time.Duration
	OnComplete func(ctx context.Context, o Outcome)
}

// Store is the only writer of a session's State. The mutex is never held
// across the gateway call, so a newer Search can start while an older one
// is still waiting on the provider.
type Store struct {
	mu    sync.Mutex
	state State

	gw         gateway.Searcher
	logger     *slog.Logger
	defaults   filters.SearchFilters
	timeout    time.Duration
	onComplete func(ctx context.Context, o Outcome)
}

func New(gw gateway.Searcher, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	d := filters.WithDefaults(opts.Defaults)
	return &Store{
		state:      Initial(d),
		gw:         gw,
		logger:     opts.Logger,
		defaults:   d,
		timeout:    opts.Timeout,
		onComplete: opts.OnComplete,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies a through Reduce and returns the resulting snapshot.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state.clone()
}

func (s *Store) SetSearchParams(patch filters.SearchFilters) State {
	return s.Dispatch(SetFilters{Filters: patch})
}

// TogglePrice adds tier to the current price filter, or removes it when
// already present.
func (s *Store) TogglePrice(tier filters.PriceTier) (State, error) {
	if !tier.Valid() {
		return s.Snapshot(), filters.ValidationErrors{{Field: "price", Message: "Price tier must be one of 1, 2, 3, 4"}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, SetPrice{Price: filters.TogglePrice(s.state.SearchParams.Price, tier)})
	return s.state.clone(), nil
}

func (s *Store) Reset() State {
	return s.Dispatch(Reset{Defaults: s.defaults})
}

// Search validates f, marks the session as searching with f as its params,
// and resolves the provider call into Success or Failed. A resolution that
// has been superseded by a later Search or a Reset is dropped.
//
// The returned error is non-nil only for validation failures, in which case
// no provider call was made. Provider failures end up in State.Error.
func (s *Store) Search(ctx context.Context, f filters.SearchFilters) (State, error) {
	return s.search(ctx, f, func(ctx context.Context) (model.SearchResult, error) {
		return s.gw.Search(ctx, request.Build(f))
	})
}

// SearchJSON is Search over the provider's POST JSON transport, used for
// filters derived from a client profile. Gateways without one get a GET.
func (s *Store) SearchJSON(ctx context.Context, f filters.SearchFilters) (State, error) {
	bs, ok := s.gw.(gateway.BodySearcher)
	if !ok {
		return s.Search(ctx, f)
	}
	return s.search(ctx, f, func(ctx context.Context) (model.SearchResult, error) {
		return bs.SearchBody(ctx, request.Body(f))
	})
}

type call func(ctx context.Context) (model.SearchResult, error)

func (s *Store) search(ctx context.Context, f filters.SearchFilters, do call) (State, error) {
	if err := filters.Validate(f); err != nil {
		var verrs filters.ValidationErrors
		if !errors.As(err, &verrs) {
			return s.Snapshot(), err
		}
		st := s.Dispatch(SearchRejected{Errors: verrs})
		observability.IncSearch(OutcomeRejected)
		s.report(ctx, Outcome{Outcome: OutcomeRejected, Filters: f.Clone(), Err: err})
		return st, err
	}

	s.mu.Lock()
	seq := s.state.seq + 1
	s.state = Reduce(s.state, SearchStarted{Seq: seq, Filters: f})
	s.mu.Unlock()

	params := request.Build(f)
	start := time.Now()

	// the store outlives the request that started the search; a caller
	// going away must not turn into a provider failure
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	res, err := do(cctx)
	cancel()
	dur := time.Since(start)

	var terminal Action
	out := Outcome{Seq: seq, Filters: f.Clone(), Params: params, Err: err, Duration: dur}
	if err != nil {
		terminal = SearchFailed{Seq: seq, Message: failureMessage(err)}
		out.Outcome = OutcomeFailed
	} else {
		terminal = SearchSucceeded{Seq: seq, Result: res}
		out.Outcome = OutcomeSuccess
		out.Total = res.Total
	}

	s.mu.Lock()
	out.Stale = !s.state.Accepts(seq)
	s.state = Reduce(s.state, terminal)
	st := s.state.clone()
	s.mu.Unlock()

	observability.IncSearch(out.Outcome)
	if out.Stale {
		observability.IncStaleResult()
		s.logger.DebugContext(ctx, "discarded superseded search result",
			"seq", seq, "latest", st.seq, "outcome", out.Outcome)
	} else if err != nil {
		s.logger.WarnContext(ctx, "search failed", "seq", seq, "err", err, "duration", dur)
	}
	s.report(ctx, out)
	return st, nil
}

// SearchCurrent re-runs the search with the session's current params.
func (s *Store) SearchCurrent(ctx context.Context) (State, error) {
	return s.Search(ctx, s.Snapshot().SearchParams)
}

func (s *Store) report(ctx context.Context, o Outcome) {
	if s.onComplete != nil {
		s.onComplete(ctx, o)
	}
}

func failureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Search timed out"
	}
	return gateway.Message(err)
}
