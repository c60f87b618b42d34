package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"roomadmin/internal/backend"
	middlewarex "roomadmin/internal/http/middleware"
	"roomadmin/internal/services/svcerr"
	"roomadmin/internal/session"
	"roomadmin/internal/views"
)

const (
	LoginPath     = "/"
	DashboardPath = "/admin/dashboard"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Env is shared by all page handlers.
type Env struct {
	Views  *views.Renderer
	Gate   *session.Gate
	Cookie CookieConfig
}

// render writes a page, attaching the pending flash of the current session.
func (e *Env) render(w http.ResponseWriter, r *http.Request, status int, page string, data views.Data) {
	if sess, ok := middlewarex.SessionFrom(r.Context()); ok {
		data.Signed = true
		f, found, err := e.Gate.Store().PopFlash(r.Context(), sess.ID)
		if err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("flash lookup failed")
		}
		if found {
			data.Flash = &f
		}
	}
	if err := e.Views.Render(w, status, page, data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// redirect stores msg as a flash for the next page and answers 303.
func (e *Env) redirect(w http.ResponseWriter, r *http.Request, to string, kind session.FlashKind, msg string) {
	if sess, ok := middlewarex.SessionFrom(r.Context()); ok && msg != "" {
		if err := e.Gate.Store().SetFlash(r.Context(), sess.ID, session.Flash{Kind: kind, Message: msg}); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("flash store failed")
		}
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// expired handles a token the backend no longer accepts: the session is
// dropped and the admin goes back to the login page. It reports whether
// the response was written.
func (e *Env) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	if sess, ok := middlewarex.SessionFrom(r.Context()); ok {
		if err := e.Gate.Logout(r.Context(), sess.ID); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("logout after 401 failed")
		}
	}
	e.clearCookie(w)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	return true
}

func (e *Env) setCookie(w http.ResponseWriter, sid string) {
	c := &http.Cookie{
		Name:     e.Cookie.Name,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   e.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if e.Cookie.TTL > 0 {
		c.MaxAge = int(e.Cookie.TTL.Seconds())
	}
	http.SetCookie(w, c)
}

func (e *Env) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     e.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   e.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (e *Env) sessionID(r *http.Request) string {
	c, err := r.Cookie(e.Cookie.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

func token(r *http.Request) string {
	sess, _ := middlewarex.SessionFrom(r.Context())
	return sess.Token
}

// errorBox logs err and returns the view's recoverable error state. Retry
// reloads the same URL.
func errorBox(r *http.Request, err error, fallback string) *views.ErrorBox {
	if err == nil {
		return nil
	}
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("view load failed")
	return &views.ErrorBox{Message: display(err, fallback), RetryURL: r.URL.RequestURI()}
}

// failure returns the flash text for a failed action. Anything but a
// validation error is logged.
func failure(r *http.Request, err error, fallback string) string {
	if !svcerr.IsValidation(err) {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("action failed")
	}
	return display(err, fallback)
}

// display turns err into a message for the admin. Validation messages and
// backend messages are shown as they are; sentinel errors of the services
// become sentences; anything else falls back.
func display(err error, fallback string) string {
	var v *svcerr.ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	if m := backend.Message(err); m != "" {
		return m
	}
	var se *svcerr.ServiceError
	var api *backend.APIError
	if errors.As(err, &se) || errors.As(err, &api) {
		return fallback
	}
	return sentence(err.Error())
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:] + "."
}
