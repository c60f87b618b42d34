package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"roomadmin/internal/backend"
	"roomadmin/internal/services/reports"
	"roomadmin/internal/session"
	"roomadmin/internal/views"
)

const (
	roomReportsPath = "/admin/manage-room"
	userReportsPath = "/admin/reportUser-notification"
)

type roomReportsView struct {
	Error    *views.ErrorBox
	Reports  []backend.RoomReport
	Selected *backend.RoomReport
}

type userReportsView struct {
	Error   *views.ErrorBox
	Reports []backend.UserReport
}

// RoomReports lists pending room reports. ?report=<id> opens the detail
// panel of one of them.
func RoomReports(env *Env, svc *reports.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.Data{Title: "Room reports", Nav: "rooms"}
		list, err := svc.PendingRoomReports(r.Context(), token(r))
		if env.expired(w, r, err) {
			return
		}

		body := roomReportsView{Reports: list, Error: errorBox(r, err, "Could not load room reports.")}
		if id := strings.TrimSpace(r.URL.Query().Get("report")); id != "" && err == nil {
			if rep, ok := reports.FindRoomReport(list, id); ok {
				body.Selected = &rep
			}
		}
		data.Body = body
		env.render(w, r, http.StatusOK, "rooms", data)
	}
}

// ProcessRoomReport confirms or dismisses a report. The form field valid
// is "true" to confirm.
func ProcessRoomReport(env *Env, svc *reports.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valid := r.FormValue("valid") == "true"
		msg, err := svc.ProcessRoomReport(r.Context(), token(r), chi.URLParam(r, "id"), valid)
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			env.redirect(w, r, roomReportsPath, session.FlashError, failure(r, err, "Could not process the report."))
			return
		}
		env.redirect(w, r, roomReportsPath, session.FlashSuccess, msg)
	}
}

func UserReports(env *Env, svc *reports.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.PendingUserReports(r.Context(), token(r))
		if env.expired(w, r, err) {
			return
		}
		env.render(w, r, http.StatusOK, "userreports", views.Data{
			Title: "User reports",
			Nav:   "userreports",
			Body:  userReportsView{Reports: list, Error: errorBox(r, err, "Could not load user reports.")},
		})
	}
}
