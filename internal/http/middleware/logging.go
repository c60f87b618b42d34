package middlewarex

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestLogger attaches logger to every request context and logs one
// line per completed request.
func RequestLogger(logger zerolog.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		hlog.NewHandler(logger),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id := chimw.GetReqID(r.Context()); id != "" {
					l := zerolog.Ctx(r.Context())
					l.UpdateContext(func(c zerolog.Context) zerolog.Context {
						return c.Str("request_id", id)
					})
				}
				next.ServeHTTP(w, r)
			})
		},
		hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("duration", d).
				Msg("request")
		}),
	}
}
