package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"roomadmin/internal/config"
	"roomadmin/internal/http/handlers"
	middlewarex "roomadmin/internal/http/middleware"
	"roomadmin/internal/services/auth"
	"roomadmin/internal/services/dashboard"
	"roomadmin/internal/services/reports"
	"roomadmin/internal/services/users"
	"roomadmin/internal/services/verification"
	"roomadmin/internal/services/withdrawals"
	"roomadmin/internal/session"
	"roomadmin/internal/views"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config              config.Cfg
	Logger              zerolog.Logger
	Views               *views.Renderer
	Gate                *session.Gate
	AuthService         *auth.Service
	DashboardService    *dashboard.Service
	ReportService       *reports.Service
	UserService         *users.Service
	WithdrawalService   *withdrawals.Service
	VerificationService *verification.Service
}

// NewRouter wires the console's pages
func NewRouter(deps RouterDependencies) http.Handler {
	env := &handlers.Env{
		Views: deps.Views,
		Gate:  deps.Gate,
		Cookie: handlers.CookieConfig{
			Name:   deps.Config.Session.CookieName,
			Secure: deps.Config.Session.CookieSecure,
			TTL:    deps.Config.Session.TTL,
		},
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middlewarex.RequestLogger(deps.Logger)...)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
		})
	})

	// Public pages
	r.Get("/", handlers.LoginPage(env))
	r.Post("/", handlers.Login(env, deps.AuthService))
	r.Get("/sign-up", handlers.SignUpPage(env))
	r.Post("/sign-up", handlers.SignUp(env))
	r.Get(middlewarex.NotFoundPath, handlers.NotFound(env))
	r.Post("/logout", handlers.Logout(env, deps.AuthService))

	// Admin pages (protected by the session gate)
	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarex.RequireSession(deps.Gate, env.Cookie.Name))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, handlers.DashboardPath, http.StatusSeeOther)
		})
		r.Get("/dashboard", handlers.Dashboard(env, deps.DashboardService))

		r.Get("/manage-room", handlers.RoomReports(env, deps.ReportService))
		r.Post("/manage-room/{id}/process", handlers.ProcessRoomReport(env, deps.ReportService))
		r.Get("/reportUser-notification", handlers.UserReports(env, deps.ReportService))

		r.Get("/manage-user", handlers.ManageUsers(env, deps.UserService))
		r.Post("/manage-user/{id}/ban", handlers.BanUser(env, deps.UserService))
		r.Get("/manage-reportedUser", handlers.ManageBans(env, deps.UserService))
		r.Post("/manage-reportedUser/{id}/unban", handlers.Unban(env, deps.UserService))
		r.Get("/manage-reportedUser/{id}/history", handlers.BanHistory(env, deps.UserService))

		r.Get("/manage-withdraw", handlers.ManageWithdrawals(env, deps.WithdrawalService))
		r.Post("/manage-withdraw/{id}/confirm", handlers.ConfirmWithdrawal(env, deps.WithdrawalService))
		r.Post("/manage-withdraw/{id}/reject", handlers.RejectWithdrawal(env, deps.WithdrawalService))
		r.Get("/manage-withdraw/{id}/qr", handlers.WithdrawalQR(env, deps.WithdrawalService))

		r.Get("/user-verification", handlers.Verifications(env, deps.VerificationService))
		r.Get("/user-verification/{userID}", handlers.VerificationDetail(env, deps.VerificationService))
		r.Post("/user-verification/{userID}/process", handlers.ProcessVerification(env, deps.VerificationService))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, middlewarex.NotFoundPath, http.StatusSeeOther)
	})

	return r
}
