package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type CacheCfg struct {
	Enabled   bool
	RedisAddr string
	TTL       time.Duration
	OpTimeout time.Duration
}

type EventsCfg struct {
	Enabled bool
	Brokers []string
	Topic   string
	Queue   int
}

type Config struct {
	Addr               string
	LogLevel           string
	ProviderURL        string
	ProviderSearchPath string
	ProviderAPIKey     string
	ProfileServiceURL  string
	ProfileTranslator  string
	MapsAPIKey         string
	MapZoom            int
	MapClusterRes      int
	DefaultLocation    string
	DefaultRadius      int
	SearchTimeout      time.Duration
	CORSOrigins        []string
	SessionMax         int
	SessionTTL         time.Duration
	MetricsPath        string
	Cache              CacheCfg
	Events             EventsCfg
}

func FromEnv() Config {
	zoom := getint("MAP_ZOOM", 13)
	if zoom < 0 || zoom > 21 {
		zoom = 13
	}
	clusterRes := getint("MAP_CLUSTER_RES", 9)
	if clusterRes < 0 || clusterRes > 15 {
		clusterRes = 9
	}
	radius := getint("DEFAULT_RADIUS", 10000)
	if radius < 0 || radius > 40000 {
		radius = 10000
	}

	return Config{
		Addr:               getenv("ADDR", ":8000"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		ProviderURL:        strings.TrimRight(getenv("PROVIDER_URL", "http://localhost:8080/api"), "/"),
		ProviderSearchPath: getenv("PROVIDER_SEARCH_PATH", "/restaurants"),
		ProviderAPIKey:     os.Getenv("PROVIDER_API_KEY"),
		ProfileServiceURL:  strings.TrimRight(os.Getenv("PROFILE_SERVICE_URL"), "/"),
		ProfileTranslator:  getenv("PROFILE_TRANSLATOR", "rules"),
		MapsAPIKey:         os.Getenv("MAPS_API_KEY"),
		MapZoom:            zoom,
		MapClusterRes:      clusterRes,
		DefaultLocation:    getenv("DEFAULT_LOCATION", "Toronto"),
		DefaultRadius:      radius,
		SearchTimeout:      getduration("SEARCH_TIMEOUT", 60*time.Second),
		CORSOrigins:        splitCSV(getenv("CORS_ORIGINS", "http://localhost:3000")),
		SessionMax:         getint("SESSION_MAX", 10000),
		SessionTTL:         getduration("SESSION_TTL", 30*time.Minute),
		MetricsPath:        getenv("METRICS_PATH", "/metrics"),
		Cache: CacheCfg{
			Enabled:   getbool("CACHE_ENABLED", false),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
			TTL:       getduration("CACHE_TTL", 5*time.Minute),
			OpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		},
		Events: EventsCfg{
			Enabled: getbool("EVENTS_ENABLED", false),
			Brokers: splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getenv("KAFKA_TOPIC", "restaurant-searches"),
			Queue:   getint("EVENTS_QUEUE", 1024),
		},
	}
}

// SearchURL is the provider endpoint plain searches are sent to
func (c Config) SearchURL() string {
	p := c.ProviderSearchPath
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.ProviderURL + p
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
