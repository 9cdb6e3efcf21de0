// Package session keeps one search store per browser session, in memory only.
package session

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/observability"
	mylog "github.com/mohammed-shakir/restaurant-recommender/internal/logger"
	"github.com/mohammed-shakir/restaurant-recommender/internal/store"
)

const (
	Header     = "X-Session-ID"
	CookieName = "rr_session"
)

// Factory builds the store for a newly seen session.
type Factory func(id string) *store.Store

// Registry maps session ids to stores. Entries expire ttl after their last
// use and the least recently used entry is evicted beyond size.
type Registry struct {
	mu       sync.Mutex
	lru      *expirable.LRU[string, *store.Store]
	newStore Factory
	ttl      time.Duration
	active   atomic.Int64
}

func New(size int, ttl time.Duration, f Factory) *Registry {
	if size <= 0 {
		size = 10000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &Registry{newStore: f, ttl: ttl}
	// the eviction callback runs under the LRU's own lock
	r.lru = expirable.NewLRU[string, *store.Store](size, func(string, *store.Store) {
		observability.SetActiveSessions(int(r.active.Add(-1)))
	}, ttl)
	return r
}

// touch must be called with r.mu held.
func (r *Registry) touch(id string) (*store.Store, bool) {
	st, ok := r.lru.Get(id)
	if ok {
		r.lru.Add(id, st)
	}
	return st, ok
}

// Acquire returns the store for id, creating one when id is unknown or not
// a valid session id. The returned id is the one the caller must hand back.
func (r *Registry) Acquire(id string) (string, *store.Store, bool) {
	if !Valid(id) {
		id = NewID()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.touch(id); ok {
		return id, st, false
	}
	// an expired entry may linger until the cleanup tick; drop it so the
	// eviction callback keeps the count in step
	r.lru.Remove(id)
	st := r.newStore(id)
	observability.SetActiveSessions(int(r.active.Add(1)))
	r.lru.Add(id, st)
	return id, st, true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lru.Remove(id)
}

func (r *Registry) Len() int { return r.lru.Len() }

func NewID() string { return uuid.NewString() }

// Valid accepts canonical uuid strings only.
func Valid(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// IDFromRequest reads the session id from the header, then the cookie.
func IDFromRequest(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(Header)); id != "" {
		return id
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

type ctxKey struct{}

func WithStore(ctx context.Context, st *store.Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// StoreFrom returns the session store attached by Middleware.
func StoreFrom(ctx context.Context) (*store.Store, bool) {
	st, ok := ctx.Value(ctxKey{}).(*store.Store)
	return st, ok && st != nil
}

// Middleware resolves the caller's session, minting one when needed, and
// echoes the id back as both header and cookie.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, req *http.Request) {
		id, st, _ := r.Acquire(IDFromRequest(req))
		w.Header().Set(Header, id)
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(r.ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		ctx := mylog.WithSessionID(req.Context(), id)
		ctx = WithStore(ctx, st)
		next.ServeHTTP(w, req.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}
