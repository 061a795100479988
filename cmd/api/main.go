package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gaslink/gaslink-backend/api/routes"
	"github.com/gaslink/gaslink-backend/internal/admin"
	"github.com/gaslink/gaslink-backend/internal/auth"
	"github.com/gaslink/gaslink-backend/internal/catalog"
	"github.com/gaslink/gaslink-backend/internal/inquiries"
	"github.com/gaslink/gaslink-backend/internal/notifications"
	"github.com/gaslink/gaslink-backend/internal/requests"
	"github.com/gaslink/gaslink-backend/internal/stores"
	"github.com/gaslink/gaslink-backend/internal/users"
	"github.com/gaslink/gaslink-backend/pkg/auth/session"
	"github.com/gaslink/gaslink-backend/pkg/config"
	"github.com/gaslink/gaslink-backend/pkg/db"
	"github.com/gaslink/gaslink-backend/pkg/logger"
	"github.com/gaslink/gaslink-backend/pkg/maps"
	"github.com/gaslink/gaslink-backend/pkg/metrics"
	"github.com/gaslink/gaslink-backend/pkg/migrate"
	"github.com/gaslink/gaslink-backend/pkg/outbox"
	"github.com/gaslink/gaslink-backend/pkg/redis"
	"github.com/gaslink/gaslink-backend/pkg/sms"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	smsClient, err := sms.NewClient(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.Sender)
	if err != nil {
		logg.Error(context.Background(), "failed to create sms client", err)
		os.Exit(1)
	}

	var mapsClient *maps.Client
	if cfg.Maps.APIKey != "" {
		opts := []maps.Option{}
		if cfg.Maps.BaseURL != "" {
			opts = append(opts, maps.WithBaseURL(cfg.Maps.BaseURL))
		}
		mapsClient, err = maps.NewClient(cfg.Maps.APIKey, opts...)
		if err != nil {
			logg.Error(context.Background(), "failed to create maps client", err)
			os.Exit(1)
		}
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	storeRepo := stores.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	requestRepo := requests.NewRepository(gormDB)
	inquiryRepo := inquiries.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	otpService, err := auth.NewOTPService(auth.OTPServiceParams{
		UserRepo:       userRepo,
		CodeStore:      redisClient,
		SMS:            smsClient,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		OTPConfig:      cfg.OTP,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create otp service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo, storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	storesService, err := stores.NewService(storeRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stores service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	requestsService, err := requests.NewService(requests.ServiceParams{
		Repo:    requestRepo,
		Stores:  storeRepo,
		Catalog: catalogRepo,
		Tx:      dbClient,
		Outbox:  outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	inquiriesService, err := inquiries.NewService(inquiries.ServiceParams{
		Repo:   inquiryRepo,
		Tx:     dbClient,
		Outbox: outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inquiries service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		Requests:  requestRepo,
		Stores:    storeRepo,
		Profiles:  userRepo,
		Inquiries: inquiryRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Sessions:      sessionManager,
			HTTPMetrics:   httpMetrics,
			Maps:          mapsClient,
			OTP:           otpService,
			Auth:          authService,
			Users:         usersService,
			Stores:        storesService,
			Catalog:       catalogService,
			Requests:      requestsService,
			Inquiries:     inquiriesService,
			Notifications: notificationsService,
			Admin:         adminService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
