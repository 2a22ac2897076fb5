package middleware

import "net/http"

// RequireAdmin gates a route on the role resolved by Auth. It must be
// mounted after Auth in the chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		role, ok := RoleFromContext(r.Context())
		if !ok || role != "admin" {
			http.Error(w, "admin privileges required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
