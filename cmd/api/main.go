package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	"github.com/cmlabs-hris/payroll-engine-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	auditService "github.com/cmlabs-hris/payroll-engine-go/internal/service/audit"
	compensationService "github.com/cmlabs-hris/payroll-engine-go/internal/service/compensation"
	gradeService "github.com/cmlabs-hris/payroll-engine-go/internal/service/grade"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
	taxService "github.com/cmlabs-hris/payroll-engine-go/internal/service/tax"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	gradeRepo := postgresql.NewGradeRepository(db)
	itemRepo := postgresql.NewCompensationItemRepository(db)
	bracketRepo := postgresql.NewTaxBracketRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	auditRepo := postgresql.NewAuditEventRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, gradeRepo, itemRepo, bracketRepo, auditRepo, logger)
	compensationSvc := compensationService.NewCompensationService(itemRepo, logger)
	gradeSvc := gradeService.NewGradeService(gradeRepo)
	taxSvc := taxService.NewTaxService(bracketRepo, auditRepo, logger)
	auditSvc := auditService.NewEventService(auditRepo)

	if cfg.Payroll.SeedDefaultTaxBrackets && cfg.Payroll.SeedCompanyID != "" {
		seedTaxBrackets(bracketRepo, cfg.Payroll.SeedCompanyID, logger)
	}

	scheduler := cron.NewScheduler()
	scheduler.AddJob("compensation-item-expiry-sweep", cfg.Payroll.ItemExpirySweepInterval, func(ctx context.Context) error {
		_, err := compensationSvc.ExpireOverdueItems(ctx, time.Now())
		return err
	})
	scheduler.Start()
	defer scheduler.Stop()

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	allowanceHandler := appHTTP.NewCompensationHandler(compensationSvc, compensation.KindAllowance)
	bonusHandler := appHTTP.NewCompensationHandler(compensationSvc, compensation.KindBonus)
	deductionHandler := appHTTP.NewCompensationHandler(compensationSvc, compensation.KindDeduction)
	gradeHandler := appHTTP.NewGradeHandler(gradeSvc)
	taxHandler := appHTTP.NewTaxHandler(taxSvc)
	auditHandler := appHTTP.NewAuditHandler(auditSvc)

	router := appHTTP.NewRouter(
		jwtService,
		payrollHandler,
		allowanceHandler,
		bonusHandler,
		deductionHandler,
		gradeHandler,
		taxHandler,
		auditHandler,
		cfg.App.Env,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// seedTaxBrackets installs the statutory PAYE table for a company that has
// none yet. Existing brackets are never overwritten.
func seedTaxBrackets(bracketRepo tax.BracketRepository, companyID string, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := bracketRepo.ListByCompany(ctx, companyID)
	if err != nil {
		logger.Error("tax bracket seed check failed", "error", err, "company_id", companyID)
		return
	}
	if len(existing) > 0 {
		return
	}

	if _, err := bracketRepo.ReplaceAll(ctx, companyID, fixtures.DefaultTaxBrackets(companyID)); err != nil {
		logger.Error("tax bracket seeding failed", "error", err, "company_id", companyID)
		return
	}
	logger.Info("seeded default tax brackets", "company_id", companyID)
}
