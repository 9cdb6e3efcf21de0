// Package router holds the HTTP handlers of the recommender API.
package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mohammed-shakir/restaurant-recommender/internal/clientprofile"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/gateway"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
	"github.com/mohammed-shakir/restaurant-recommender/internal/request"
)

const maxBody = 1 << 20

const (
	MsgInvalidSearch  = "Invalid search parameters"
	MsgInvalidProfile = "Invalid client profile"
	MsgProfileFailed  = "Failed to process client profile"
	MsgBadJSON        = "Request body must be valid JSON"
	MsgNoSession      = "Session unavailable"
)

type errorBody struct {
	Message string            `json:"message"`
	Success *bool             `json:"success,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status: validation problems are the caller's
// fault, anything from the gateway is an upstream failure.
func writeError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, msg string, err error) {
	var verrs filters.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: msg, Errors: verrs.Fields()})
		return
	}
	var se *syntaxErr
	if errors.As(err, &se) {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: MsgBadJSON})
		return
	}
	logger.WarnContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	writeJSON(w, http.StatusBadGateway, errorBody{Message: gateway.Message(err)})
}

// syntaxErr marks a body that could not be decoded.
type syntaxErr struct{ err error }

func (e *syntaxErr) Error() string { return fmt.Sprintf("decode body: %v", e.err) }
func (e *syntaxErr) Unwrap() error { return e.err }

// decode reads a JSON body into v. empty reports a blank body, which some
// endpoints treat as "use what the session already has".
func decode(r *http.Request, v any) (empty bool, err error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return false, &syntaxErr{err: err}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return true, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, &syntaxErr{err: err}
	}
	return false, nil
}

// Search validates a filter body and forwards it to the provider. No
// defaults are applied; the caller sends the full filter set.
func Search(logger *slog.Logger, gw gateway.Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f filters.SearchFilters
		if _, err := decode(r, &f); err != nil {
			writeError(w, logger, r, MsgInvalidSearch, err)
			return
		}
		if err := filters.Validate(f); err != nil {
			writeError(w, logger, r, MsgInvalidSearch, err)
			return
		}
		res, err := gw.Search(r.Context(), request.Build(f))
		if err != nil {
			writeError(w, logger, r, MsgInvalidSearch, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type clientsResponse struct {
	Success       bool                  `json:"success"`
	SearchParams  filters.SearchFilters `json:"searchParams"`
	ClientProfile clientprofile.Profile `json:"clientProfile"`
}

// Clients validates a client profile and answers with the search filters
// it translates to.
func Clients(logger *slog.Logger, tr clientprofile.Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, f, err := translate(r, tr)
		if err != nil {
			writeProfileError(w, logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, clientsResponse{Success: true, SearchParams: f, ClientProfile: p})
	}
}

func translate(r *http.Request, tr clientprofile.Translator) (clientprofile.Profile, filters.SearchFilters, error) {
	var p clientprofile.Profile
	if _, err := decode(r, &p); err != nil {
		return p, filters.SearchFilters{}, err
	}
	if err := clientprofile.Validate(p); err != nil {
		return p, filters.SearchFilters{}, err
	}
	f, err := tr.Translate(r.Context(), p)
	if err != nil {
		return p, filters.SearchFilters{}, fmt.Errorf("translate profile: %w", err)
	}
	return p, f, nil
}

func writeProfileError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	no := false
	var verrs filters.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: MsgInvalidProfile, Success: &no, Errors: verrs.Fields()})
		return
	}
	var se *syntaxErr
	if errors.As(err, &se) {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: MsgBadJSON, Success: &no})
		return
	}
	logger.ErrorContext(r.Context(), "client profile failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Message: MsgProfileFailed, Success: &no})
}
