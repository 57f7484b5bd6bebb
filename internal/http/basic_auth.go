package http

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// basicAuth rejects the requests not carrying the configured credentials.
func basicAuth(credentials BasicAuth) func(http.Handler) http.Handler {
	expectedUsername := sha256.Sum256([]byte(credentials.Username))
	expectedPassword := sha256.Sum256([]byte(credentials.Password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if ok {
				usernameHash := sha256.Sum256([]byte(username))
				passwordHash := sha256.Sum256([]byte(password))

				usernameMatch := subtle.ConstantTimeCompare(usernameHash[:], expectedUsername[:]) == 1
				passwordMatch := subtle.ConstantTimeCompare(passwordHash[:], expectedPassword[:]) == 1

				if usernameMatch && passwordMatch {
					next.ServeHTTP(w, r)
					return
				}

				slog.WarnContext(r.Context(), "invalid basic auth credentials", slog.String("username", username))
			}

			w.Header().Set("WWW-Authenticate", `Basic realm="montage", charset="UTF-8"`)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		})
	}
}
