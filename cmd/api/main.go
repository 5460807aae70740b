package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/hris-portal-go/internal/config"
	"github.com/cmlabs-hris/hris-portal-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-portal-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/password"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
	accountService "github.com/cmlabs-hris/hris-portal-go/internal/service/account"
	serviceAuth "github.com/cmlabs-hris/hris-portal-go/internal/service/auth"
	departmentService "github.com/cmlabs-hris/hris-portal-go/internal/service/department"
	employeeService "github.com/cmlabs-hris/hris-portal-go/internal/service/employee"
	requestService "github.com/cmlabs-hris/hris-portal-go/internal/service/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/service/view"
	"github.com/cmlabs-hris/hris-portal-go/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})))

	ctx := context.Background()

	slot, closeSlot, err := openSlot(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open slot: ", err)
	}
	defer closeSlot()

	hasher := password.NewBcryptHasher(cfg.App.BcryptCost)

	db := store.New(slot, fixtures.PortalDefaults(hasher), store.WithKey(cfg.Slot.Key))
	if err := db.Restore(ctx); err != nil {
		log.Fatal("Failed to restore portal data: ", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	emailService, err := email.NewEmailService(cfg.SMTP, cfg.IsDevelopment())
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	authSvc := serviceAuth.NewAuthService(db, hasher, JWTService, emailService, slot, cfg.Verification.CodeTTL)
	accountSvc := accountService.NewAccountService(db, hasher)
	departmentSvc := departmentService.NewDepartmentService(db)
	employeeSvc := employeeService.NewEmployeeService(db)
	requestSvc := requestService.NewRequestService(db)

	rt := router.New()
	view.Register(rt, view.Services{
		Auth:        authSvc,
		Accounts:    accountSvc,
		Departments: departmentSvc,
		Employees:   employeeSvc,
		Requests:    requestSvc,
	})
	sessions := session.NewManager(slot)

	scheduler := cron.NewScheduler()
	cron.NewPortalJobs(sessions, JWTService, cfg.Housekeeping.SessionIdle).Register(scheduler, cfg.Housekeeping.Interval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	viewHandler := appHTTP.NewViewHandler(rt)
	authHandler := appHTTP.NewAuthHandler(authSvc)
	accountHandler := appHTTP.NewAccountHandler(accountSvc)
	departmentHandler := appHTTP.NewDepartmentHandler(departmentSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	requestHandler := appHTTP.NewRequestHandler(requestSvc)

	mux := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		authSvc,
		sessions,
		rt,
		viewHandler,
		authHandler,
		accountHandler,
		departmentHandler,
		employeeHandler,
		requestHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server running", "addr", "http://localhost"+port, "slot", cfg.Slot.Backend)
	if err := http.ListenAndServe(port, mux); err != nil {
		fmt.Println("Server error:", err)
	}
}

// openSlot connects the configured key-value backend.
func openSlot(ctx context.Context, cfg *config.Config) (kv.Slot, func(), error) {
	switch cfg.Slot.Backend {
	case "memory":
		return kv.NewMemorySlot(), func() {}, nil
	case "local":
		slot, err := kv.NewLocalSlot(cfg.Slot.BasePath)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() {}, nil
	case "postgres":
		pg, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		slot := kv.NewPostgresSlot(pg)
		if err := slot.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return slot, pg.Close, nil
	case "redis":
		client, err := kv.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		return kv.NewRedisSlot(client, "hris:"), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported slot backend: %s", cfg.Slot.Backend)
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
