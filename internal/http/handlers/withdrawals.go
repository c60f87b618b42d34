package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"roomadmin/internal/paging"
	"roomadmin/internal/services/withdrawals"
	"roomadmin/internal/session"
	"roomadmin/internal/views"
)

const withdrawalsPath = "/admin/manage-withdraw"

type withdrawalsView struct {
	Requests table[withdrawals.Row]
}

type transferView struct {
	Error    *views.ErrorBox
	Transfer withdrawals.Transfer
}

func ManageWithdrawals(env *Env, svc *withdrawals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.Data{Title: "Withdrawals", Nav: "withdrawals"}
		ctrl, err := svc.Pending(r.Context(), token(r), paging.ParsePage(r, "page"))
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			ctrl, _ = paging.NewStatic[withdrawals.Row](withdrawals.PageSize, nil)
		}
		body := withdrawalsView{Requests: newTable(r, ctrl, "page")}
		body.Requests.Error = errorBox(r, err, "Could not load withdrawal requests.")
		data.Body = body
		env.render(w, r, http.StatusOK, "withdrawals", data)
	}
}

// WithdrawalQR shows the transfer details and VietQR code of one request.
func WithdrawalQR(env *Env, svc *withdrawals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Transfer(r.Context(), token(r), chi.URLParam(r, "id"))
		if env.expired(w, r, err) {
			return
		}
		if errors.Is(err, withdrawals.ErrRequestNotFound) || errors.Is(err, withdrawals.ErrNoBankInfo) {
			env.redirect(w, r, withdrawalsPath, session.FlashError, display(err, ""))
			return
		}
		env.render(w, r, http.StatusOK, "withdrawqr", views.Data{
			Title: "Transfer",
			Nav:   "withdrawals",
			Body:  transferView{Transfer: t, Error: errorBox(r, err, "Could not load the transfer details.")},
		})
	}
}

func ConfirmWithdrawal(env *Env, svc *withdrawals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Confirm(r.Context(), token(r), chi.URLParam(r, "id"))
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			env.redirect(w, r, withdrawalsPath, session.FlashError, failure(r, err, "Could not confirm the withdrawal."))
			return
		}
		env.redirect(w, r, withdrawalsPath, session.FlashSuccess, "Withdrawal confirmed")
	}
}

// RejectWithdrawal cancels a request with the reason from the form.
func RejectWithdrawal(env *Env, svc *withdrawals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Reject(r.Context(), token(r), chi.URLParam(r, "id"), r.FormValue("reason"))
		if env.expired(w, r, err) {
			return
		}
		if err != nil {
			env.redirect(w, r, withdrawalsPath, session.FlashError, failure(r, err, "Could not reject the withdrawal."))
			return
		}
		env.redirect(w, r, withdrawalsPath, session.FlashSuccess, "Withdrawal rejected")
	}
}
