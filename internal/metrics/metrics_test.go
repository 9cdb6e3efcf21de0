package metrics

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T, p *Provider) string {
	t.Helper()
	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	return rr.Body.String()
}

func TestProvider_BuildInfoAndRuntime(t *testing.T) {
	p := Init(Config{Service: "recommender", Build: BuildInfo{Version: "test", Revision: "r", Branch: "b", BuildDate: "now"}})

	body := scrape(t, p)
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected go_goroutines in payload; got:\n%s", body)
	}
	want := `app_build_info{branch="b",build_date="now",go_version="` + runtime.Version() +
		`",revision="r",service="recommender",version="test"} 1`
	if !strings.Contains(body, want) {
		t.Fatalf("expected %s in payload; got:\n%s", want, body)
	}

	// the first scrape is visible in the second
	if body := scrape(t, p); !strings.Contains(body, `promhttp_metric_handler_requests_total{code="200"} 1`) {
		t.Fatalf("scrape counter missing; got:\n%s", body)
	}
}

func TestProvider_NoRuntime(t *testing.T) {
	p := Init(Config{Service: "searchctl", NoRuntime: true})

	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_gauge", Help: "smoke"})
	p.Register(g)
	g.Set(42)
	if got := testutil.ToFloat64(g); got != 42 {
		t.Fatalf("gauge=%v want 42", got)
	}

	body := scrape(t, p)
	if strings.Contains(body, "go_goroutines") {
		t.Fatal("runtime collectors registered despite NoRuntime")
	}
	if !strings.Contains(body, `version="dev"`) || !strings.Contains(body, "test_gauge 42") {
		t.Fatalf("payload:\n%s", body)
	}
}

func TestBuildInfoFromEnv(t *testing.T) {
	t.Setenv("BUILD_REVISION", "abc123")
	t.Setenv("BUILD_BRANCH", "main")
	t.Setenv("BUILD_DATE", "2026-01-01")
	b := BuildInfoFromEnv("1.2.0")
	if b != (BuildInfo{Version: "1.2.0", Revision: "abc123", Branch: "main", BuildDate: "2026-01-01"}) {
		t.Fatalf("build=%+v", b)
	}
}
