package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

// Pinger is a dependency readiness depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness pings every named dependency and answers 503 if any fails.
// With no dependencies the process is always ready.
func Readiness(deps map[string]Pinger, timeout time.Duration) http.HandlerFunc {
	if timeout <= 0 {
		timeout = time.Second
	}
	names := make([]string, 0, len(deps))
	for n := range deps {
		names = append(names, n)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		type resp struct {
			Status string            `json:"status"`
			Failed map[string]string `json:"failed,omitempty"`
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		out := resp{Status: "ready"}
		for _, n := range names {
			if err := deps[n].Ping(ctx); err != nil {
				if out.Failed == nil {
					out.Failed = map[string]string{}
				}
				out.Failed[n] = err.Error()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if out.Failed != nil {
			out.Status = "not_ready"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
