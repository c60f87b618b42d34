package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"roomadmin/internal/services/auth"
	"roomadmin/internal/services/svcerr"
	"roomadmin/internal/views"
)

type loginView struct {
	Username string
	Error    string
	Fields   map[string]string
	Notice   string
}

type signUpView struct {
	Email  string
	Fields map[string]string
}

// LoginPage shows the login form, or sends an admin who is already
// signed in to the dashboard.
func LoginPage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if env.Gate.IsAuthenticated(r.Context(), env.sessionID(r)) {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		body := loginView{}
		if r.URL.Query().Get("registered") != "" {
			body.Notice = "Registration successful. Please sign in."
		}
		env.render(w, r, http.StatusOK, "login", views.Data{Title: "Sign in", Body: body})
	}
}

// Login exchanges the submitted credentials for a console session.
func Login(env *Env, svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		sess, err := svc.Login(r.Context(), username, r.FormValue("password"))
		if err != nil {
			body := loginView{Username: username}
			status := http.StatusUnauthorized

			var v *svcerr.ValidationError
			var le *auth.LoginError
			switch {
			case errors.As(err, &v):
				body.Fields = map[string]string{v.Field: v.Message}
				status = http.StatusUnprocessableEntity
			case errors.As(err, &le):
				body.Error = le.Message
				log.Ctx(r.Context()).Warn().Err(err).Msg("login rejected")
			default:
				body.Error = "Something went wrong. Please try again."
			}
			env.render(w, r, status, "login", views.Data{Title: "Sign in", Body: body})
			return
		}

		env.setCookie(w, sess.ID)
		http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
	}
}

// Logout forgets the session and returns to the login page.
func Logout(env *Env, svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), env.sessionID(r)); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("logout failed")
		}
		env.clearCookie(w)
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	}
}

func SignUpPage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env.render(w, r, http.StatusOK, "signup", views.Data{Title: "Sign up", Body: signUpView{}})
	}
}

// SignUp validates the form; accounts are created elsewhere, so a valid
// form only leads back to the login page.
func SignUp(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := auth.SignUpRequest{
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirmPassword"),
		}
		if fields := auth.ValidateSignUp(req); len(fields) > 0 {
			env.render(w, r, http.StatusUnprocessableEntity, "signup", views.Data{
				Title: "Sign up",
				Body:  signUpView{Email: req.Email, Fields: fields},
			})
			return
		}
		http.Redirect(w, r, LoginPath+"?registered=1", http.StatusSeeOther)
	}
}

func NotFound(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env.render(w, r, http.StatusNotFound, "notfound", views.Data{Title: "Page not found"})
	}
}
