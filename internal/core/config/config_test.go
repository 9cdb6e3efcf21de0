package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "PROVIDER_URL", "SEARCH_TIMEOUT", "CORS_ORIGINS", "CACHE_ENABLED", "MAP_ZOOM"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()

	if cfg.Addr != ":8000" {
		t.Fatalf("addr=%q want :8000", cfg.Addr)
	}
	if cfg.SearchTimeout != 60*time.Second {
		t.Fatalf("search timeout=%v want 60s", cfg.SearchTimeout)
	}
	if cfg.Cache.Enabled {
		t.Fatal("cache should be disabled by default")
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://localhost:3000"}) {
		t.Fatalf("cors origins=%v", cfg.CORSOrigins)
	}
	if cfg.MapZoom != 13 {
		t.Fatalf("zoom=%d want 13", cfg.MapZoom)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PROVIDER_URL", "https://api.example.com/v3/")
	t.Setenv("PROVIDER_SEARCH_PATH", "businesses/search")
	t.Setenv("CACHE_ENABLED", "yes")
	t.Setenv("SEARCH_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("MAP_ZOOM", "99")
	t.Setenv("DEFAULT_RADIUS", "50000")

	cfg := FromEnv()
	if got := cfg.SearchURL(); got != "https://api.example.com/v3/businesses/search" {
		t.Fatalf("search url=%q", got)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("cache should be enabled")
	}
	if cfg.SearchTimeout != 5*time.Second {
		t.Fatalf("timeout=%v", cfg.SearchTimeout)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("cors origins=%v", cfg.CORSOrigins)
	}
	if len(cfg.Events.Brokers) != 2 {
		t.Fatalf("brokers=%v", cfg.Events.Brokers)
	}
	if cfg.MapZoom != 13 {
		t.Fatalf("out of range zoom should fall back; got %d", cfg.MapZoom)
	}
	if cfg.DefaultRadius != 10000 {
		t.Fatalf("out of range radius should fall back; got %d", cfg.DefaultRadius)
	}
}
