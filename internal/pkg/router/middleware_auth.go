package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/shepherd/internal/pkg/jwt"
)

func middlewareAuthentication(verifier jwt.JWT, public publicEndpoints) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public.contains(r.Method, matchedRoutePath(r)) {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}

type publicEndpoints map[string]map[string]struct{}

func (p publicEndpoints) add(method, path string) {
	if p[method] == nil {
		p[method] = make(map[string]struct{})
	}
	p[method][path] = struct{}{}
}

func (p publicEndpoints) contains(method, path string) bool {
	_, ok := p[method][path]
	return ok
}
