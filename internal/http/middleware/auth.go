package middlewarex

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"roomadmin/internal/session"
)

// NotFoundPath is where unauthenticated visitors of protected pages land.
const NotFoundPath = "/404"

// RequireSession lets a request through only when its cookie names a
// session holding a token. Anything else, including a store failure, is
// redirected to the not-found page without a message.
func RequireSession(gate *session.Gate, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil {
				http.Redirect(w, r, NotFoundPath, http.StatusSeeOther)
				return
			}
			sess, ok, err := gate.Resolve(r.Context(), c.Value)
			if err != nil {
				log.Ctx(r.Context()).Error().Err(err).Msg("session lookup failed")
			}
			if !ok {
				http.Redirect(w, r, NotFoundPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}
