package commands

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/fadhlanhapp/congno-backend/auth"
	"github.com/fadhlanhapp/congno-backend/clients/bankdirectory"
	"github.com/fadhlanhapp/congno-backend/clients/vietqr"
	"github.com/fadhlanhapp/congno-backend/config"
	"github.com/fadhlanhapp/congno-backend/events"
	"github.com/fadhlanhapp/congno-backend/handlers"
	"github.com/fadhlanhapp/congno-backend/jobs"
	"github.com/fadhlanhapp/congno-backend/repository"
	"github.com/fadhlanhapp/congno-backend/routes"
	"github.com/fadhlanhapp/congno-backend/services"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	location, err := cfg.Location()
	if err != nil {
		return err
	}

	// Initialize database
	if err := repository.InitDB(cfg.DatabaseDSN()); err != nil {
		return err
	}
	defer repository.CloseDB()
	db := repository.GetDB()

	profileRepo := repository.NewProfileRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	banks := bankdirectory.NewDirectory(cfg.VietQRBaseURL, newBankCache(cfg))
	invalidator, closeInvalidator := newInvalidator(cfg)
	defer closeInvalidator()

	var qr services.QRGenerator
	if cfg.VietQRClientID != "" && cfg.VietQRAPIKey != "" {
		qr = vietqr.NewClient(cfg.VietQRBaseURL, cfg.VietQRClientID, cfg.VietQRAPIKey)
	} else {
		log.Println("level=warn component=serve msg=\"VIETQR_CLIENT_ID or VIETQR_API_KEY missing; QR generation disabled\"")
	}

	// Initialize services
	ledger := services.NewLedgerService(profileRepo, expenseRepo, debtRepo, banks, invalidator, location)
	payments := services.NewPaymentService(debtRepo, qr, location)
	settlement := services.NewSettlementService(debtRepo, reviewRepo, invalidator)
	profiles := services.NewProfileService(profileRepo, invalidator)
	excel := services.NewExcelService(ledger, location)

	scheduler := jobs.NewScheduler(banks, cfg.BankDirectoryRefreshSchedule)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app := newRelicApp(cfg); app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(router, routes.Handlers{
		Expenses: handlers.NewExpenseHandler(ledger),
		Debts:    handlers.NewDebtHandler(ledger, settlement),
		Payments: handlers.NewPaymentHandler(payments),
		Profiles: handlers.NewProfileHandler(profiles, ledger, banks),
		Exports:  handlers.NewExportHandler(excel),
	}, auth.NewVerifier(cfg.SupabaseJWTSecret))

	server := &http.Server{
		Addr:              ":" + cfg.ListenPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("level=info component=serve msg=\"server starting\" port=%s", cfg.ListenPort())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("level=info component=serve msg=\"shutting down\"")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newBankCache(cfg *config.Config) bankdirectory.Cache {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return bankdirectory.NewMemoryCache()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("level=warn component=serve msg=\"invalid REDIS_URL; using in-memory bank cache\" err=%v", err)
		return bankdirectory.NewMemoryCache()
	}
	return bankdirectory.NewRedisCache(redis.NewClient(opts), "congno")
}

func newInvalidator(cfg *config.Config) (services.DashboardInvalidator, func()) {
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		return events.NoopNotifier{}, func() {}
	}
	producer, err := events.NewProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("level=warn component=serve msg=\"rabbitmq unavailable; dashboard invalidation disabled\" err=%v", err)
		return events.NoopNotifier{}, func() {}
	}
	return events.NewDashboardNotifier(producer, cfg.DashboardExchange), producer.Close
}

func newRelicApp(cfg *config.Config) *newrelic.Application {
	if strings.TrimSpace(cfg.NewRelicLicenseKey) == "" {
		return nil
	}
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("Congno API"),
		newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		log.Printf("level=warn component=serve msg=\"failed to initialize New Relic\" err=%v", err)
		return nil
	}
	return app
}
