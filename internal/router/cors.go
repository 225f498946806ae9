package router

import (
	"net/http"
	"strings"
)

// corsPolicy resolves the Access-Control-Allow-Origin value for a
// request. origins is the parsed allow-list; a "*" entry allows any
// origin unless credentials are enabled, in which case the request
// origin is echoed back instead.
type corsPolicy struct {
	origins          []string
	wildcard         bool
	allowCredentials bool
}

func newCORSPolicy(allowOrigin string, allowCredentials bool) corsPolicy {
	p := corsPolicy{allowCredentials: allowCredentials}
	for _, o := range strings.Split(allowOrigin, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			p.wildcard = true
		}
		p.origins = append(p.origins, o)
	}
	return p
}

// allow returns the header value and whether Vary: Origin applies.
func (p corsPolicy) allow(requestOrigin string) (value string, varyOrigin bool) {
	if len(p.origins) == 0 {
		return "*", false
	}
	if p.wildcard {
		if p.allowCredentials && requestOrigin != "" {
			return requestOrigin, true
		}
		return "*", false
	}
	if requestOrigin == "" {
		return "", true
	}
	for _, o := range p.origins {
		if o == requestOrigin {
			return requestOrigin, true
		}
	}
	return "", true
}

// withCORS adds CORS headers and answers preflight requests.
func withCORS(allowOrigin string, allowCredentials bool, h http.HandlerFunc) http.HandlerFunc {
	policy := newCORSPolicy(allowOrigin, allowCredentials)
	return func(w http.ResponseWriter, r *http.Request) {
		originValue, varyOrigin := policy.allow(r.Header.Get("Origin"))
		if originValue != "" {
			w.Header().Set("Access-Control-Allow-Origin", originValue)
		}
		if varyOrigin {
			w.Header().Set("Vary", "Origin")
		}
		if allowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h(w, r)
	}
}
