package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-portal-go/internal/config"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
	"github.com/cmlabs-hris/hris-portal-go/internal/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	cfg config.AppConfig,
	JWTService jwt.Service,
	authService auth.AuthService,
	sessions *session.Manager,
	rt *router.Router,
	viewHandler ViewHandler,
	authHandler AuthHandler,
	accountHandler AccountHandler,
	departmentHandler DepartmentHandler,
	employeeHandler EmployeeHandler,
	requestHandler RequestHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-portal"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
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
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Sessions(sessions, cfg.Env != "development"))
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.SessionToken(JWTService, authService))

		r.Get("/views/{location}", viewHandler.Navigate)

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RequireLocation(rt, router.Register)).Post("/register", authHandler.Register)
			r.With(middleware.RequireLocation(rt, router.Login)).Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireLocation(rt, router.VerifyEmail))
				r.Post("/verify-email", authHandler.VerifyEmail)
				r.Post("/resend-code", authHandler.ResendCode)
			})
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.RequireLocation(rt, router.Accounts))
			r.Get("/", accountHandler.List)
			r.Post("/", accountHandler.Create)
			r.Put("/{id}", accountHandler.Update)
			r.Delete("/{id}", accountHandler.Delete)
		})

		r.Route("/departments", func(r chi.Router) {
			r.Use(middleware.RequireLocation(rt, router.Departments))
			r.Get("/", departmentHandler.List)
			r.Post("/", departmentHandler.Create)
			r.Put("/{id}", departmentHandler.Update)
			r.Delete("/{id}", departmentHandler.Delete)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(middleware.RequireLocation(rt, router.Employees))
			r.Get("/", employeeHandler.ListEmployees)
			r.Post("/", employeeHandler.CreateEmployee)
			r.Put("/{id}", employeeHandler.UpdateEmployee)
			r.Delete("/{id}", employeeHandler.DeleteEmployee)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Route("/my", func(r chi.Router) {
				r.Use(middleware.RequireLocation(rt, router.MyRequests))
				r.Get("/", requestHandler.ListMine)
				r.Post("/", requestHandler.Submit)
				r.Delete("/{id}", requestHandler.DeleteMine)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireLocation(rt, router.AdminRequests))
				r.Get("/", requestHandler.ListAll)
				r.Post("/{id}/approve", requestHandler.Approve)
				r.Post("/{id}/reject", requestHandler.Reject)
			})
		})
	})

	return r
}
