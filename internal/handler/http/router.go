package http

import (
	"log/slog"
	"os"

	"github.com/aurelhr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(jwtService jwt.Service, authHandler AuthHandler, payrollHandler PayrollHandler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)

			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				r.Post("/employee-id", authHandler.LoginWithEmployeeID)
			})

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)

					r.Post("/roster", payrollHandler.UploadRoster)
					r.Get("/employees", payrollHandler.ListEmployees)

					r.Route("/policy", func(r chi.Router) {
						r.Get("/", payrollHandler.GetPolicy)
						r.Put("/", payrollHandler.SetPolicy)
					})

					r.Route("/batches", func(r chi.Router) {
						r.Get("/current", payrollHandler.CurrentBatch)

						r.Route("/{batchID}", func(r chi.Router) {
							r.Get("/", payrollHandler.BatchStatus)
							r.Post("/generate", payrollHandler.Generate)
							r.Post("/approve", payrollHandler.Approve)
							r.Get("/payslips", payrollHandler.ListPayslips)
							r.Get("/payslips/{empID}/download", payrollHandler.DownloadPayslip)
							r.Post("/payslips/{empID}/regenerate", payrollHandler.RegenerateSlip)
						})
					})
				})

				// Any authenticated user
				r.Get("/me/payslip", payrollHandler.MyPayslip)
				r.Get("/me/payslip/download", payrollHandler.MyPayslipDownload)
			})
		})
	})
	return r
}
