package internal

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultCORSMaxAge is how long browsers may cache a preflight answer.
const DefaultCORSMaxAge = 12 * time.Hour

// CORSConfig is the cross-origin policy used by preflight responders and,
// when enabled with WithCORS, by every response.
type CORSConfig struct {
	// AllowOriginFunc decides per origin. When set, AllowOrigins is ignored.
	AllowOriginFunc func(origin string) bool

	// AllowOrigins is a static allow list. "*" allows every origin.
	AllowOrigins []string

	AllowMethods []string

	// AllowHeaders lists allowed request headers. Empty reflects
	// Access-Control-Request-Headers back to the client.
	AllowHeaders []string

	ExposeHeaders []string

	// AllowCredentials echoes the request origin instead of "*".
	AllowCredentials bool

	MaxAge time.Duration
}

// DefaultCORSConfig allows every origin with credentials.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		},
		AllowCredentials: true,
		MaxAge:           DefaultCORSMaxAge,
	}
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowOrigins = origins
	}
}

func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowOriginFunc = fn
	}
}

func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowMethods = methods
	}
}

func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowHeaders = headers
	}
}

func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.ExposeHeaders = headers
	}
}

func WithAllowCredentials(allow bool) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowCredentials = allow
	}
}

func WithMaxAge(d time.Duration) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.MaxAge = d
	}
}

// corsPolicy is a CORSConfig with its header values precomputed.
type corsPolicy struct {
	cfg      CORSConfig
	methods  string
	headers  string
	expose   string
	maxAge   string
	wildcard bool
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		cfg:      cfg,
		methods:  strings.Join(cfg.AllowMethods, ", "),
		headers:  strings.Join(cfg.AllowHeaders, ", "),
		expose:   strings.Join(cfg.ExposeHeaders, ", "),
		wildcard: slices.Contains(cfg.AllowOrigins, "*"),
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}
	return p
}

func (p *corsPolicy) allowed(origin string) bool {
	if p.cfg.AllowOriginFunc != nil {
		return p.cfg.AllowOriginFunc(origin)
	}
	return p.wildcard || slices.Contains(p.cfg.AllowOrigins, origin)
}

// setOrigin writes the origin headers and reports whether the origin is allowed.
func (p *corsPolicy) setOrigin(h http.Header, origin string) bool {
	h.Add("Vary", "Origin")
	if origin == "" || !p.allowed(origin) {
		return false
	}
	if p.cfg.AllowCredentials || !p.wildcard {
		h.Set("Access-Control-Allow-Origin", origin)
	} else {
		h.Set("Access-Control-Allow-Origin", "*")
	}
	if p.cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	return true
}

// preflight answers OPTIONS requests with 204 and never reaches a route handler.
// Only the allow-origin header depends on the request origin.
func (p *corsPolicy) preflight() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		p.setOrigin(h, r.Header.Get("Origin"))
		if p.cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Methods", p.methods)

		allowHeaders := p.headers
		if allowHeaders == "" {
			allowHeaders = r.Header.Get("Access-Control-Request-Headers")
			h.Add("Vary", "Access-Control-Request-Headers")
		}
		if allowHeaders != "" {
			h.Set("Access-Control-Allow-Headers", allowHeaders)
		}
		if p.maxAge != "" {
			h.Set("Access-Control-Max-Age", p.maxAge)
		}
		h.Set("Content-Length", "0")
		w.WriteHeader(http.StatusNoContent)
	})
}

// handler adds the response-side CORS headers before calling next.
func (p *corsPolicy) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.setOrigin(w.Header(), r.Header.Get("Origin")) && p.expose != "" {
			w.Header().Set("Access-Control-Expose-Headers", p.expose)
		}
		next.ServeHTTP(w, r)
	})
}

// middleware is the router-wide variant enabled by WithCORS.
// It answers every preflight request itself.
func (p *corsPolicy) middleware(next http.Handler) http.Handler {
	preflight := p.preflight()
	actual := p.handler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			preflight.ServeHTTP(w, r)
			return
		}
		actual.ServeHTTP(w, r)
	})
}

// isCORSSimple reports whether browsers send method without a preflight.
func isCORSSimple(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
		return true
	}
	return false
}
