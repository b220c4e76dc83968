package routes

import (
	"net/http"
	"time"

	"earnpro/controllers/auth"
	"earnpro/controllers/users"
	"earnpro/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers every public and user-facing route on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register limiter: 60 per IP per 5 minutes.
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Session limiter: 120 reads, 60 writes per user per minute.
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	// Register & Login
	api.Handle("/auth/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/auth/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/auth/logout", loginLimiter.Middleware(http.HandlerFunc(auth.LogoutHandler))).Methods(http.MethodPost)

	// Referral code lookup shown on the signup form
	api.Handle("/referral/{code}", loginLimiter.Middleware(http.HandlerFunc(auth.ResolveReferralHandler))).Methods(http.MethodGet)

	// Change password (write)
	api.Handle("/users/change-password", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPost)

	// User info (read)
	api.Handle("/users/info", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.InfoHandler)))).Methods(http.MethodGet)

	// Earning options and reward claims
	api.Handle("/users/earning-options", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListEarningOptionsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/earn/{action_type}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.EarnHandler)))).Methods(http.MethodPost)

	// App tasks and proof submissions
	api.Handle("/users/tasks", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListTasksHandler)))).Methods(http.MethodGet)
	api.Handle("/users/tasks/{id:[0-9]+}/submit", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.SubmitTaskProofHandler)))).Methods(http.MethodPost)
	api.Handle("/users/submissions", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListSubmissionsHandler)))).Methods(http.MethodGet)

	// Withdrawal request and history
	api.Handle("/users/withdrawal", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.WithdrawalHandler)))).Methods(http.MethodPost)
	api.Handle("/users/withdrawal", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListWithdrawalHandler)))).Methods(http.MethodGet)

	// Wallet journal
	api.Handle("/users/transactions", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListTransactionsHandler)))).Methods(http.MethodGet)
}
