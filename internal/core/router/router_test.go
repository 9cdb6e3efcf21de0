package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/restaurant-recommender/internal/clientprofile"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/gateway"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
	"github.com/mohammed-shakir/restaurant-recommender/internal/present"
	"github.com/mohammed-shakir/restaurant-recommender/internal/session"
	"github.com/mohammed-shakir/restaurant-recommender/internal/store"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeSearcher struct {
	calls  int
	params url.Values
	res    model.SearchResult
	err    error
}

func (f *fakeSearcher) Search(_ context.Context, p url.Values) (model.SearchResult, error) {
	f.calls++
	f.params = p
	return f.res, f.err
}

// jsonSearcher also accepts JSON bodies, like gateway.Client.
type jsonSearcher struct {
	fakeSearcher
	body any
}

func (f *jsonSearcher) SearchBody(_ context.Context, body any) (model.SearchResult, error) {
	f.body = body
	return f.res, f.err
}

// heldSearcher blocks until release is closed, failing if its context ends
// first.
type heldSearcher struct {
	started chan struct{}
	release chan struct{}
	res     model.SearchResult
}

func (h *heldSearcher) Search(ctx context.Context, _ url.Values) (model.SearchResult, error) {
	close(h.started)
	select {
	case <-h.release:
		return h.res, nil
	case <-ctx.Done():
		return model.SearchResult{}, &gateway.TransportError{Op: "search", Err: ctx.Err()}
	}
}

type fakeTranslator struct {
	f   filters.SearchFilters
	err error
}

func (t fakeTranslator) Translate(context.Context, clientprofile.Profile) (filters.SearchFilters, error) {
	return t.f, t.err
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rr
}

func TestSearch_OK(t *testing.T) {
	gw := &fakeSearcher{res: model.SearchResult{Restaurants: []model.Restaurant{{ID: "a"}}, Total: 1}}
	rr := post(Search(quiet(), gw), `{"location":"Toronto","price":"1,2","open_now":false}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if gw.params.Get("location") != "Toronto" || gw.params.Get("open_now") != "false" {
		t.Fatalf("params=%v", gw.params)
	}
	if gw.params.Has("limit") {
		t.Fatal("no defaults should be added to a plain search")
	}
	var res model.SearchResult
	decodeBody(t, rr, &res)
	if res.Total != 1 || res.Restaurants[0].ID != "a" {
		t.Fatalf("result=%+v", res)
	}
}

func TestSearch_Validation(t *testing.T) {
	gw := &fakeSearcher{}
	rr := post(Search(quiet(), gw), `{"radius":50000}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
	var body errorBody
	decodeBody(t, rr, &body)
	if body.Message != MsgInvalidSearch || body.Errors["location"] != filters.MissingLocation || body.Errors["radius"] == "" {
		t.Fatalf("body=%+v", body)
	}
	if gw.calls != 0 {
		t.Fatal("invalid filters must not reach the provider")
	}
}

func TestSearch_BadJSON(t *testing.T) {
	rr := post(Search(quiet(), &fakeSearcher{}), `{"location":`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), MsgBadJSON) {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSearch_GatewayFailure(t *testing.T) {
	gw := &fakeSearcher{err: &gateway.ProviderError{Status: 400, Message: "Invalid location"}}
	rr := post(Search(quiet(), gw), `{"location":"Nowhere"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", rr.Code)
	}
	var body errorBody
	decodeBody(t, rr, &body)
	if body.Message != "Invalid location" {
		t.Fatalf("message=%q", body.Message)
	}
}

const profileJSON = `{"clientDesignation":"C-Suite","meetingPurpose":"Introduction","relationshipStatus":"New",
"location":"Toronto","meetingDuration":"1hour"}`

func TestClients_OK(t *testing.T) {
	tr := fakeTranslator{f: filters.SearchFilters{Location: "Toronto", Term: "quiet restaurant"}}
	rr := post(Clients(quiet(), tr), profileJSON)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var body clientsResponse
	decodeBody(t, rr, &body)
	if !body.Success || body.SearchParams.Term != "quiet restaurant" || body.ClientProfile.Location != "Toronto" {
		t.Fatalf("body=%+v", body)
	}
}

func TestClients_Errors(t *testing.T) {
	rr := post(Clients(quiet(), fakeTranslator{}), `{"location":"T"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
	var body struct {
		Message string            `json:"message"`
		Success *bool             `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	decodeBody(t, rr, &body)
	if body.Success == nil || *body.Success || body.Errors["location"] != clientprofile.MsgLocationLen {
		t.Fatalf("body=%+v", body)
	}

	rr = post(Clients(quiet(), fakeTranslator{err: errors.New("upstream down")}), profileJSON)
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), MsgProfileFailed) {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"success":false`) {
		t.Fatalf("body=%s", rr.Body.String())
	}
}

// sessionRouter mounts the session handlers over a single store, the way
// session.Registry.Middleware would.
func sessionRouter(st *store.Store, tr clientprofile.Translator) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.WithStore(req.Context(), st)))
		})
	})
	r.Get("/", GetSession())
	r.Patch("/filters", PatchFilters(quiet()))
	r.Post("/price", TogglePrice(quiet()))
	r.Post("/search", SessionSearch(quiet()))
	r.Post("/clients", SessionClients(quiet(), tr))
	r.Post("/reset", ResetSession())
	r.Get("/view", View(quiet(), present.MapOptions{}))
	r.Get("/restaurants/{id}", RestaurantDetail())
	return r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rr
}

func TestSession_Flow(t *testing.T) {
	gw := &fakeSearcher{res: model.SearchResult{
		Restaurants: []model.Restaurant{{ID: "alo", Name: "Alo", DisplayPhone: "(416) 260-2222"}},
		Total:       1,
	}}
	st := store.New(gw, store.Options{Logger: quiet(), Defaults: filters.SearchFilters{Location: "Toronto"}})
	h := sessionRouter(st, nil)

	var snap store.State
	decodeBody(t, do(h, http.MethodGet, "/", ""), &snap)
	if snap.HasSearched || snap.SearchParams.Location != "Toronto" {
		t.Fatalf("initial=%+v", snap)
	}

	decodeBody(t, do(h, http.MethodPatch, "/filters", `{"term":"sushi"}`), &snap)
	if snap.SearchParams.Term != "sushi" || snap.SearchParams.Location != "Toronto" {
		t.Fatalf("patched=%+v", snap.SearchParams)
	}

	decodeBody(t, do(h, http.MethodPost, "/price?tier=2", ""), &snap)
	if snap.SearchParams.Price != "2" {
		t.Fatalf("price=%q", snap.SearchParams.Price)
	}
	if rr := do(h, http.MethodPost, "/price?tier=9", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad tier status=%d", rr.Code)
	}

	// empty body re-runs the current params
	decodeBody(t, do(h, http.MethodPost, "/search", ""), &snap)
	if !snap.HasSearched || snap.TotalResults != 1 || gw.params.Get("term") != "sushi" || gw.params.Get("price") != "2" {
		t.Fatalf("searched=%+v params=%v", snap, gw.params)
	}

	var list present.ListView
	decodeBody(t, do(h, http.MethodGet, "/view?type=list", ""), &list)
	if len(list.Cards) != 1 || list.Heading != "Found 1 restaurants" {
		t.Fatalf("list=%+v", list)
	}
	var grid present.GridView
	decodeBody(t, do(h, http.MethodGet, "/view?type=grid&cols=2", ""), &grid)
	if grid.Columns != 2 || len(grid.Rows) != 1 {
		t.Fatalf("grid=%+v", grid)
	}
	if rr := do(h, http.MethodGet, "/view?type=table", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown view status=%d", rr.Code)
	}

	var d present.DetailView
	decodeBody(t, do(h, http.MethodGet, "/restaurants/alo", ""), &d)
	if d.Phone != "(416) 260-2222" {
		t.Fatalf("detail=%+v", d)
	}
	if rr := do(h, http.MethodGet, "/restaurants/nope", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("missing detail status=%d", rr.Code)
	}

	decodeBody(t, do(h, http.MethodPost, "/reset", ""), &snap)
	if snap.HasSearched || snap.SearchParams.Term != "restaurant" {
		t.Fatalf("reset=%+v", snap)
	}
}

func TestSessionSearch_BodyAndValidation(t *testing.T) {
	gw := &fakeSearcher{}
	st := store.New(gw, store.Options{Logger: quiet()})
	h := sessionRouter(st, nil)

	rr := do(h, http.MethodPost, "/search", `{"term":"pizza"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
	if gw.calls != 0 {
		t.Fatal("rejected search reached the provider")
	}
	if snap := st.Snapshot(); snap.FieldErrors["location"] == "" {
		t.Fatalf("field errors not stored: %+v", snap.FieldErrors)
	}

	var snap store.State
	decodeBody(t, do(h, http.MethodPost, "/search", `{"location":"Ottawa"}`), &snap)
	if gw.params.Get("limit") != "20" || gw.params.Get("location") != "Ottawa" {
		t.Fatalf("params=%v", gw.params)
	}
}

func TestSessionSearch_ProviderFailureInState(t *testing.T) {
	gw := &fakeSearcher{err: &gateway.TransportError{Op: "search", Err: errors.New("refused")}}
	st := store.New(gw, store.Options{Logger: quiet()})
	rr := do(sessionRouter(st, nil), http.MethodPost, "/search", `{"location":"Ottawa"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var snap store.State
	decodeBody(t, rr, &snap)
	if snap.Error == nil || *snap.Error != gateway.TransportMessage {
		t.Fatalf("error=%v", snap.Error)
	}
}

func TestSessionClients(t *testing.T) {
	gw := &fakeSearcher{res: model.SearchResult{Total: 3}}
	st := store.New(gw, store.Options{Logger: quiet()})
	tr := fakeTranslator{f: filters.SearchFilters{Location: "Toronto", Term: "quiet restaurant", Price: "2,3"}}

	rr := do(sessionRouter(st, tr), http.MethodPost, "/clients", profileJSON)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var body sessionClientsResponse
	decodeBody(t, rr, &body)
	if !body.Success || body.State.TotalResults != 3 || body.SearchParams.Price != "2,3" {
		t.Fatalf("body=%+v", body)
	}
	if gw.params.Get("term") != "quiet restaurant" {
		t.Fatalf("params=%v", gw.params)
	}
}

func TestSessionClients_PostsBody(t *testing.T) {
	gw := &jsonSearcher{fakeSearcher: fakeSearcher{res: model.SearchResult{Total: 2}}}
	st := store.New(gw, store.Options{Logger: quiet()})
	tr := fakeTranslator{f: filters.SearchFilters{Location: "Toronto", Term: "quiet restaurant"}}

	rr := do(sessionRouter(st, tr), http.MethodPost, "/clients", profileJSON)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if gw.calls != 0 {
		t.Fatalf("query search calls=%d want 0", gw.calls)
	}
	body, ok := gw.body.(map[string]any)
	if !ok || body["term"] != "quiet restaurant" || body["location"] != "Toronto" {
		t.Fatalf("body=%#v", gw.body)
	}
	if snap := st.Snapshot(); snap.TotalResults != 2 {
		t.Fatalf("total=%d", snap.TotalResults)
	}
}

func TestSessionSearch_OutlivesRequest(t *testing.T) {
	gw := &heldSearcher{
		started: make(chan struct{}),
		release: make(chan struct{}),
		res:     model.SearchResult{Restaurants: []model.Restaurant{{ID: "alo"}}, Total: 1},
	}
	st := store.New(gw, store.Options{Logger: quiet(), Timeout: 5 * time.Second})
	h := sessionRouter(st, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"location":"Ottawa"}`)).WithContext(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}()

	<-gw.started
	cancel()
	// the handler must still be waiting on the provider
	select {
	case <-done:
		t.Fatal("search ended with the request")
	case <-time.After(50 * time.Millisecond):
	}
	close(gw.release)
	<-done

	snap := st.Snapshot()
	if snap.Error != nil || snap.IsLoading {
		t.Fatalf("error=%v loading=%v", snap.Error, snap.IsLoading)
	}
	if len(snap.Restaurants) != 1 || snap.Restaurants[0].ID != "alo" {
		t.Fatalf("restaurants=%+v", snap.Restaurants)
	}
}

func TestSession_NoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	GetSession()(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
}
