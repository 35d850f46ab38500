package middleware

import (
	"net/http"
	"strings"
)

var overrideHeaders = []string{"X-HTTP-Method", "X-HTTP-Method-Override", "X-Method-Override"}

// MethodOverride lets clients that can only send POST tunnel PUT and DELETE
// through a header or the _method query parameter.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if method := overrideMethod(r); method != "" {
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideMethod(r *http.Request) string {
	candidate := r.URL.Query().Get("_method")
	for _, h := range overrideHeaders {
		if v := r.Header.Get(h); v != "" {
			candidate = v
			break
		}
	}

	switch m := strings.ToUpper(strings.TrimSpace(candidate)); m {
	case http.MethodPut, http.MethodDelete, http.MethodPatch:
		return m
	default:
		return ""
	}
}
