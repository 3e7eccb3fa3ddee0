package di

import (
	"context"
	"fmt"

	"github.com/Harshini-A12/Stylesense/internal/account"
	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/database"
	stylingdomain "github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/gemini"
	"github.com/Harshini-A12/Stylesense/internal/guard"
	"github.com/Harshini-A12/Stylesense/internal/handler"
	"github.com/Harshini-A12/Stylesense/internal/health"
	"github.com/Harshini-A12/Stylesense/internal/history"
	"github.com/Harshini-A12/Stylesense/internal/logging"
	"github.com/Harshini-A12/Stylesense/internal/metrics"
	"github.com/Harshini-A12/Stylesense/internal/server"
	"github.com/Harshini-A12/Stylesense/internal/session"
	"github.com/Harshini-A12/Stylesense/internal/skintone"
	"github.com/Harshini-A12/Stylesense/internal/upload"
	"github.com/Harshini-A12/Stylesense/internal/usage"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	metricsStore := metrics.NewStore()

	ctx := context.Background()
	db, sqlDB, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	accounts := account.NewService(db, logger)
	if err := accounts.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}

	historyRepo := history.NewRepository(db, logger)
	if err := historyRepo.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate history: %w", err)
	}

	usageRepository := usage.NewRepository(db, logger)
	if err := usageRepository.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate usage: %w", err)
	}
	usageRecorder := usage.NewRecorder(cfg, usageRepository, logger)

	geminiClient, err := gemini.NewClient(cfg, metricsStore, usageRecorder)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	injectionGuard, err := guard.NewGuard(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}

	sessionStore, err := session.NewStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	sessionManager := session.NewManager(sessionStore, cfg, logger)

	catalog, err := stylingdomain.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("styling catalog: %w", err)
	}
	prompts, err := stylingdomain.NewPrompts()
	if err != nil {
		return nil, fmt.Errorf("styling prompts: %w", err)
	}

	detector := skintone.NewDetector(logger, metricsStore)

	saver, err := upload.NewSaver(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("upload saver: %w", err)
	}

	authHandler := handler.NewAuthHandler(cfg, accounts, sessionManager, logger)
	stylingHandler := handler.NewStylingHandler(
		cfg, geminiClient, injectionGuard, sessionStore,
		catalog, prompts, detector, saver, historyRepo, metricsStore, logger,
	)
	usageHandler := handler.NewUsageHandler(cfg, usageRepository, logger)
	metricsHandler := handler.NewMetricsHandler(metricsStore)
	checker := health.NewChecker(cfg, sessionStore, sqlDB)

	router := handler.NewRouter(cfg, logger, sessionStore, saver, checker, authHandler, stylingHandler, usageHandler, metricsHandler)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, sessionStore, usageRecorder, sqlDB), nil
}
