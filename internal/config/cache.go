package config

import (
	"strings"
	"time"
)

// CacheConfig controls the HTTP response cache middleware.  Caching is a
// read-side optimisation for the public browse endpoints (tour lists,
// schedule availability); write endpoints are never cached.  When Enabled
// is false or no Redis client is available, the middleware is a no-op.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // HTTP methods eligible for caching
	TTL          time.Duration   // lifetime of a cached response
	KeyStrategy  string          // "route_query" or "path_query"
	Prefix       string          // Redis key namespace
	MaxBodyBytes int             // responses larger than this are not cached
}

// LoadCacheConfig builds a CacheConfig from environment variables,
// falling back to conservative defaults.  Method names are upper-cased.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
