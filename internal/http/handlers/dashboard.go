package handlers

import (
	"net/http"

	"roomadmin/internal/backend"
	"roomadmin/internal/paging"
	"roomadmin/internal/services/dashboard"
	"roomadmin/internal/views"
)

type dashboardView struct {
	Error       *views.ErrorBox
	Metrics     backend.DashboardMetrics
	Stats       backend.SystemStatistics
	Deposits    int
	Withdrawals table[backend.Transaction]
	Completed   table[backend.Transaction]
	ActiveUsers table[backend.User]
}

// table is one paged list on a page.
type table[T any] struct {
	Items []T
	Pager views.Pager
	Error *views.ErrorBox
}

func newTable[T any](r *http.Request, c *paging.Controller[T], key string) table[T] {
	return table[T]{Items: c.VisibleItems(), Pager: views.PagerFor(c, r.URL, key)}
}

// Dashboard renders the summary figures and the three dashboard tables.
func Dashboard(env *Env, svc *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.Data{Title: "Dashboard", Nav: "dashboard"}

		ov, err := svc.Overview(r.Context(), token(r), dashboard.Query{
			UsersPage:        paging.ParsePage(r, "usersPage"),
			WithdrawalsPage:  paging.ParsePage(r, "withdrawalsPage"),
			TransactionsPage: paging.ParsePage(r, "txPage"),
		})
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			data.Body = dashboardView{Error: errorBox(r, err, "Could not load the dashboard.")}
			env.render(w, r, http.StatusOK, "dashboard", data)
			return
		}
		if env.expired(w, r, ov.ActiveUsers.Err()) {
			return
		}

		body := dashboardView{
			Metrics:     ov.Metrics,
			Stats:       ov.Stats,
			Deposits:    len(ov.Deposits),
			Withdrawals: newTable(r, ov.Withdrawals, "withdrawalsPage"),
			Completed:   newTable(r, ov.Completed, "txPage"),
			ActiveUsers: newTable(r, ov.ActiveUsers, "usersPage"),
		}
		body.ActiveUsers.Error = errorBox(r, ov.ActiveUsers.Err(), "Could not load active users.")
		data.Body = body
		env.render(w, r, http.StatusOK, "dashboard", data)
	}
}
