package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"roomadmin/internal/backend"
	"roomadmin/internal/paging"
	"roomadmin/internal/services/verification"
	"roomadmin/internal/session"
	"roomadmin/internal/views"
)

const verificationPath = "/admin/user-verification"

type statusLink struct {
	Label  string
	URL    string
	Active bool
}

type verificationRow struct {
	backend.Verification
	Status string
}

type verificationsView struct {
	Filters     []statusLink
	Requests    table[verificationRow]
	Query       string
	SearchError string
}

type verificationDetailView struct {
	Request verificationRow
	Pending bool
}

func rowOf(v backend.Verification) verificationRow {
	return verificationRow{Verification: v, Status: verification.StatusOf(v).Label()}
}

// Verifications lists identity verification requests filtered by
// ?status=. The filter links carry no page, so switching status starts
// again from the first page. ?userId= jumps to a user's request.
func Verifications(env *Env, svc *verification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if q := strings.TrimSpace(r.URL.Query().Get("userId")); q != "" {
			_, err := svc.ByUser(r.Context(), token(r), q)
			if env.expired(w, r, err) {
				return
			}
			if err == nil {
				http.Redirect(w, r, verificationPath+"/"+url.PathEscape(q), http.StatusSeeOther)
				return
			}
			env.redirect(w, r, verificationPath, session.FlashError, failure(r, err, "Search failed. Please try again."))
			return
		}

		status := verification.ParseStatus(r.URL.Query().Get("status"))
		ctrl := svc.List(r.Context(), token(r), status, paging.ParsePage(r, "page"))
		if env.expired(w, r, ctrl.Err()) {
			return
		}

		body := verificationsView{}
		for _, s := range verification.Statuses {
			body.Filters = append(body.Filters, statusLink{
				Label:  s.Label(),
				URL:    verificationPath + "?" + url.Values{"status": {string(s)}}.Encode(),
				Active: s == status,
			})
		}
		items := ctrl.VisibleItems()
		rows := make([]verificationRow, len(items))
		for i, v := range items {
			rows[i] = rowOf(v)
		}
		body.Requests = table[verificationRow]{
			Items: rows,
			Pager: views.PagerFor(ctrl, r.URL, "page").WithoutCount(),
			Error: errorBox(r, ctrl.Err(), "Could not load verification requests."),
		}
		env.render(w, r, http.StatusOK, "verification", views.Data{
			Title: "User verification",
			Nav:   "verification",
			Body:  body,
		})
	}
}

// VerificationDetail shows one user's documents with approve and reject
// actions while the request is pending.
func VerificationDetail(env *Env, svc *verification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.ByUser(r.Context(), token(r), chi.URLParam(r, "userID"))
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			msg := display(err, "Could not load the verification request.")
			if !errors.Is(err, verification.ErrNotFound) {
				log.Ctx(r.Context()).Error().Err(err).Msg("verification lookup failed")
			}
			env.redirect(w, r, verificationPath, session.FlashError, msg)
			return
		}
		env.render(w, r, http.StatusOK, "verificationdetail", views.Data{
			Title: "Verification request",
			Nav:   "verification",
			Body: verificationDetailView{
				Request: rowOf(v),
				Pending: verification.StatusOf(v) == verification.StatusPending,
			},
		})
	}
}

// ProcessVerification approves (decision=approve) or rejects a request.
func ProcessVerification(env *Env, svc *verification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		back := verificationPath + "/" + url.PathEscape(userID)

		msg, err := svc.Process(r.Context(), token(r), userID, r.FormValue("decision") == "approve")
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			env.redirect(w, r, back, session.FlashError, failure(r, err, "Could not process the verification."))
			return
		}
		env.redirect(w, r, back, session.FlashSuccess, msg)
	}
}
