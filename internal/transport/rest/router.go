package rest

import (
	"database/sql"
	"log/slog"

	"github.com/technoapex/timesheet-pro/internal/auth"
	"github.com/technoapex/timesheet-pro/internal/timesheet"
	"github.com/technoapex/timesheet-pro/internal/transport/middleware"
	"github.com/technoapex/timesheet-pro/internal/user"
	"github.com/go-chi/chi"
)

// RegisterAllRoutes wires the full API surface onto the router.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	allowedOrigins string,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	timesheetHandler *timesheet.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/register", authHandler.Register)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		// PDF download accepts an optional token (header or ?token=) so
		// documents remain fetchable via a plain link.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.OptionalAuthMiddleware)
			pr.Get("/timesheets/{id}/pdf", timesheetHandler.DownloadPDF)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetCurrentUser)

			pr.Route("/timesheets", func(tr chi.Router) {
				tr.Post("/", timesheetHandler.CreateTimesheet)
				tr.Get("/", timesheetHandler.ListTimesheets)
				tr.Get("/{id}", timesheetHandler.GetTimesheet)
				tr.Post("/{id}/submit", timesheetHandler.SubmitTimesheet)

				// Manager routes
				tr.Group(func(mr chi.Router) {
					mr.Use(authHandler.RequireManager)
					mr.Patch("/{id}/approve", timesheetHandler.ApproveTimesheet)
					mr.Patch("/{id}/reject", timesheetHandler.RejectTimesheet)
				})
			})
		})
	})
}
