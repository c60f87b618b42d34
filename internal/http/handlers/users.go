package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"roomadmin/internal/backend"
	"roomadmin/internal/paging"
	"roomadmin/internal/services/users"
	"roomadmin/internal/session"
	"roomadmin/internal/views"
)

const (
	usersPath = "/admin/manage-user"
	bansPath  = "/admin/manage-reportedUser"
)

type usersView struct {
	Users table[users.Row]
	// Query is the submitted user id search; Found holds its result.
	Query       string
	Found       *users.Row
	SearchError string
	Page        int
}

type bansView struct {
	Bans table[backend.Ban]
}

type banHistoryView struct {
	UserID  string
	History table[backend.Ban]
}

// ManageUsers lists users by balance, or shows a single user when
// ?userId= is set.
func ManageUsers(env *Env, svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.Data{Title: "Users", Nav: "users"}
		body := usersView{Query: strings.TrimSpace(r.URL.Query().Get("userId"))}

		if body.Query != "" {
			row, err := svc.Search(r.Context(), token(r), body.Query)
			if env.expired(w, r, err) {
				return
			}
			if err != nil {
				body.SearchError = display(err, "Search failed. Please try again.")
			} else {
				body.Found = &row
			}
			data.Body = body
			env.render(w, r, http.StatusOK, "users", data)
			return
		}

		ctrl := svc.List(r.Context(), token(r), paging.ParsePage(r, "page"))
		if env.expired(w, r, ctrl.Err()) {
			return
		}
		body.Users = newTable(r, ctrl, "page")
		body.Users.Error = errorBox(r, ctrl.Err(), "Could not load users.")
		body.Page = ctrl.Index()
		data.Body = body
		env.render(w, r, http.StatusOK, "users", data)
	}
}

// BanUser submits the ban dialog and returns to the page it came from.
func BanUser(env *Env, svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := usersPath
		if p, err := strconv.Atoi(r.FormValue("page")); err == nil && p > 0 {
			back += "?" + url.Values{"page": {strconv.Itoa(p)}}.Encode()
		}

		err := svc.Ban(r.Context(), token(r), users.BanForm{
			UserID:    chi.URLParam(r, "id"),
			Reason:    r.FormValue("reason"),
			ExpiresAt: r.FormValue("expiresAt"),
		})
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			env.redirect(w, r, back, session.FlashError, failure(r, err, "Could not ban the user."))
			return
		}
		env.redirect(w, r, back, session.FlashSuccess, "User banned")
	}
}

// ManageBans lists the active bans.
func ManageBans(env *Env, svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.Data{Title: "Banned users", Nav: "bans"}
		list, err := svc.ActiveBans(r.Context(), token(r))
		if env.expired(w, r, err) {
			return
		}
		ctrl, _ := paging.NewStatic(users.PageSize, list)
		_ = ctrl.GoTo(r.Context(), paging.ParsePage(r, "page"))

		body := bansView{Bans: newTable(r, ctrl, "page")}
		body.Bans.Error = errorBox(r, err, "Could not load banned users.")
		data.Body = body
		env.render(w, r, http.StatusOK, "bans", data)
	}
}

func Unban(env *Env, svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Unban(r.Context(), token(r), chi.URLParam(r, "id"))
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			env.redirect(w, r, bansPath, session.FlashError, failure(r, err, "Could not unban the user."))
			return
		}
		env.redirect(w, r, bansPath, session.FlashSuccess, "User unbanned")
	}
}

// BanHistory pages through one user's past bans.
func BanHistory(env *Env, svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		data := views.Data{Title: "Ban history", Nav: "bans"}
		body := banHistoryView{UserID: userID}

		ctrl, err := svc.History(r.Context(), token(r), userID, paging.ParsePage(r, "page"))
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			ctrl, _ = paging.NewStatic[backend.Ban](users.HistoryPageSize, nil)
		}
		body.History = newTable(r, ctrl, "page")
		body.History.Error = errorBox(r, err, "Could not load the ban history.")
		data.Body = body
		env.render(w, r, http.StatusOK, "banhistory", data)
	}
}
