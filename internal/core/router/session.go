package router

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/restaurant-recommender/internal/clientprofile"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
	mylog "github.com/mohammed-shakir/restaurant-recommender/internal/logger"
	"github.com/mohammed-shakir/restaurant-recommender/internal/present"
	"github.com/mohammed-shakir/restaurant-recommender/internal/session"
	"github.com/mohammed-shakir/restaurant-recommender/internal/store"
)

// session handlers expect session.Registry.Middleware in front of them

func sessionStore(w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	st, ok := session.StoreFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: MsgNoSession})
	}
	return st, ok
}

func GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := sessionStore(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, st.Snapshot())
	}
}

// PatchFilters merges the body into the session's params without searching.
func PatchFilters(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := sessionStore(w, r)
		if !ok {
			return
		}
		var patch filters.SearchFilters
		if _, err := decode(r, &patch); err != nil {
			writeError(w, logger, r, MsgInvalidSearch, err)
			return
		}
		writeJSON(w, http.StatusOK, st.SetSearchParams(patch))
	}
}

func TogglePrice(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := sessionStore(w, r)
		if !ok {
			return
		}
		next, err := st.TogglePrice(filters.PriceTier(r.URL.Query().Get("tier")))
		if err != nil {
			writeError(w, logger, r, MsgInvalidSearch, err)
			return
		}
		writeJSON(w, http.StatusOK, next)
	}
}

// SessionSearch searches with the body, defaults filled in, or re-runs the
// session's current params when the body is empty. Provider failures are
// reported through the returned state, not the status code.
func SessionSearch(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := sessionStore(w, r)
		if !ok {
			return
		}
		var f filters.SearchFilters
		empty, err := decode(r, &f)
		if err != nil {
			writeError(w, logger, r, MsgInvalidSearch, err)
			return
		}
		var next store.State
		if empty {
			next, err = st.SearchCurrent(r.Context())
		} else {
			next, err = st.Search(r.Context(), filters.WithDefaults(f))
		}
		if err != nil {
			writeError(w, logger, r, MsgInvalidSearch, err)
			return
		}
		writeJSON(w, http.StatusOK, next)
	}
}

type sessionClientsResponse struct {
	clientsResponse
	State store.State `json:"state"`
}

// SessionClients translates a profile and searches with the result.
func SessionClients(logger *slog.Logger, tr clientprofile.Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := sessionStore(w, r)
		if !ok {
			return
		}
		p, f, err := translate(r, tr)
		if err != nil {
			writeProfileError(w, logger, r, err)
			return
		}
		next, err := st.SearchJSON(r.Context(), filters.WithDefaults(f))
		if err != nil {
			// translated filters failing validation is a translator bug
			writeProfileError(w, logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionClientsResponse{
			clientsResponse: clientsResponse{Success: true, SearchParams: next.SearchParams, ClientProfile: p},
			State:           next,
		})
	}
}

// EndSession forgets the caller's session and expires its cookie.
func EndSession(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mylog.SessionID(r.Context())
		if id != "" {
			reg.Remove(id)
		}
		w.Header().Del(session.Header)
		w.Header().Del("Set-Cookie")
		http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
		w.WriteHeader(http.StatusNoContent)
	}
}

func ResetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := sessionStore(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, st.Reset())
	}
}

// View renders the session as ?type=list|grid|map. Without a type the
// session's own view_type decides between list and map.
func View(logger *slog.Logger, mapOpts present.MapOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := sessionStore(w, r)
		if !ok {
			return
		}
		snap := st.Snapshot()
		kind := r.URL.Query().Get("type")
		if kind == "" {
			kind = string(snap.SearchParams.View())
		}
		switch kind {
		case "list":
			writeJSON(w, http.StatusOK, present.List(snap))
		case "grid":
			cols, _ := strconv.Atoi(r.URL.Query().Get("cols"))
			writeJSON(w, http.StatusOK, present.Grid(snap, cols))
		case "map":
			writeJSON(w, http.StatusOK, present.Map(snap, mapOpts))
		default:
			logger.DebugContext(r.Context(), "unknown view type", "type", kind)
			writeJSON(w, http.StatusBadRequest, errorBody{
				Message: "Unknown view type",
				Errors:  map[string]string{"type": "must be one of list, grid, map"},
			})
		}
	}
}

func RestaurantDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := sessionStore(w, r)
		if !ok {
			return
		}
		d, found := present.Detail(st.Snapshot(), chi.URLParam(r, "id"))
		if !found {
			writeJSON(w, http.StatusNotFound, errorBody{Message: "Restaurant not found"})
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
