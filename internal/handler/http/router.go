package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	payrollHandler PayrollHandler,
	allowanceHandler CompensationHandler,
	bonusHandler CompensationHandler,
	deductionHandler CompensationHandler,
	gradeHandler GradeHandler,
	taxHandler TaxHandler,
	auditHandler AuditHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Use(middleware.RequireCompany)

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/records", payrollHandler.ListRecords)
				r.Get("/records/{id}", payrollHandler.GetRecord)

				// Mutating the payroll ledger is admin territory
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePayrollAdmin)
					r.Post("/preview", payrollHandler.Preview)
					r.Post("/commit", payrollHandler.Commit)
					r.Post("/employees/{id}/calculate", payrollHandler.CalculateEmployee)
				})
			})

			itemRoutes := func(h CompensationHandler) func(r chi.Router) {
				return func(r chi.Router) {
					r.Get("/", h.List)
					r.Get("/{id}", h.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePayrollAdmin)
						r.Post("/", h.Create)
						r.Put("/{id}", h.Update)
						r.Delete("/{id}", h.Deactivate)
					})
				}
			}
			r.Route("/allowances", itemRoutes(allowanceHandler))
			r.Route("/bonuses", itemRoutes(bonusHandler))
			r.Route("/deductions", itemRoutes(deductionHandler))

			r.Route("/salary-grades", func(r chi.Router) {
				r.Get("/", gradeHandler.List)
				r.Get("/mappings", gradeHandler.ListMappings)
				r.Get("/{id}", gradeHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePayrollAdmin)
					r.Post("/", gradeHandler.Create)
					r.Put("/{id}", gradeHandler.Update)
					r.Post("/mappings", gradeHandler.AssignToRole)
				})
			})

			r.Route("/tax-brackets", func(r chi.Router) {
				r.Get("/", taxHandler.ListBrackets)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePayrollAdmin)
					r.Put("/", taxHandler.ReplaceBrackets)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePayrollAdmin)
				r.Get("/audit-events", auditHandler.ListEvents)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
