package admin

import (
	"net/http"

	"github.com/c3pb/rabbitmq-mqtt/framework/hash/argon2"
	"github.com/c3pb/rabbitmq-mqtt/nova"
	"github.com/c3pb/rabbitmq-mqtt/problem"
)

// BasicAuth returns a nova.Middleware that protects the admin routes
// with HTTP Basic auth, checking the supplied password against an
// argon2 hash, grounded on the teacher's argon2 hasher.
func BasicAuth(username string, passwordHash []byte) nova.Middleware {
	hasher := argon2.NewHasher()

	return func(next nova.Handler) nova.Handler {
		return func(w http.ResponseWriter, r *http.Request) error {
			user, pass, ok := r.BasicAuth()

			if !ok || user != username {
				return unauthorized(w)
			}

			valid, err := hasher.Check([]byte(pass), passwordHash)

			if err != nil || !valid {
				return unauthorized(w)
			}

			return next(w, r)
		}
	}
}

func unauthorized(w http.ResponseWriter) error {
	w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)

	return problem.New(http.StatusUnauthorized, "unauthorized")
}
