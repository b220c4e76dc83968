package routes

import (
	"net/http"
	"time"

	"earnpro/controllers/admins"
	"earnpro/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(api *mux.Router) {
	// Rate limiter for admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	api.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	// Dashboard stats
	adminRouter.Handle("/dashboard", http.HandlerFunc(admins.Dashboard)).Methods(http.MethodGet)

	// Earning option management
	adminRouter.Handle("/earning-options", http.HandlerFunc(admins.GetEarningOptions)).Methods(http.MethodGet)
	adminRouter.Handle("/earning-options", http.HandlerFunc(admins.CreateEarningOption)).Methods(http.MethodPost)
	adminRouter.Handle("/earning-options/{id:[0-9]+}", http.HandlerFunc(admins.UpdateEarningOption)).Methods(http.MethodPut)
	adminRouter.Handle("/earning-options/{id:[0-9]+}", http.HandlerFunc(admins.DeleteEarningOption)).Methods(http.MethodDelete)

	// App task management
	adminRouter.Handle("/tasks", http.HandlerFunc(admins.GetAppTasks)).Methods(http.MethodGet)
	adminRouter.Handle("/tasks", http.HandlerFunc(admins.CreateAppTask)).Methods(http.MethodPost)
	adminRouter.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.UpdateAppTask)).Methods(http.MethodPut)
	adminRouter.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.DeleteAppTask)).Methods(http.MethodDelete)

	// Proof moderation
	adminRouter.Handle("/proofs", http.HandlerFunc(admins.GetProofs)).Methods(http.MethodGet)
	adminRouter.Handle("/proofs/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveProof)).Methods(http.MethodPut)
	adminRouter.Handle("/proofs/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectProof)).Methods(http.MethodPut)

	// User management
	adminRouter.Handle("/users", http.HandlerFunc(admins.GetUsers)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.GetUserDetail)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.DeleteUser)).Methods(http.MethodDelete)

	// Withdrawal management
	adminRouter.Handle("/withdrawals", http.HandlerFunc(admins.GetWithdrawals)).Methods(http.MethodGet)
	adminRouter.Handle("/withdrawals/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveWithdrawal)).Methods(http.MethodPut)
	adminRouter.Handle("/withdrawals/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectWithdrawal)).Methods(http.MethodPut)

	// Settings management
	adminRouter.Handle("/settings", http.HandlerFunc(admins.GetSettingsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/settings", http.HandlerFunc(admins.UpdateSettingsHandler)).Methods(http.MethodPut)
}
