package auth

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
	headerUsername = "X-User-Name"
)

// Identity extracts the (actorId, role) pair asserted by the upstream
// identity provider and binds it to the request context. Requests without
// a usable identity are rejected before they reach any handler.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(headerUserID))
		if err != nil {
			http.Error(w, "missing or malformed user id", http.StatusUnauthorized)
			return
		}

		role := Role(r.Header.Get(headerUserRole))
		if !role.Valid() {
			http.Error(w, "missing or unknown user role", http.StatusUnauthorized)
			return
		}

		user := User{
			ID:       id,
			Username: r.Header.Get(headerUsername),
			Role:     role,
		}

		next.ServeHTTP(w, r.WithContext(NewUserContext(r.Context(), user)))
	})
}
