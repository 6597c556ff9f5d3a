package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nurulloasawear/order-app/api/routes"
	"github.com/nurulloasawear/order-app/internal/auth"
	"github.com/nurulloasawear/order-app/internal/campaigns"
	"github.com/nurulloasawear/order-app/internal/credentials"
	"github.com/nurulloasawear/order-app/internal/cron"
	"github.com/nurulloasawear/order-app/internal/dailyorders"
	"github.com/nurulloasawear/order-app/internal/decisions"
	"github.com/nurulloasawear/order-app/internal/platform"
	"github.com/nurulloasawear/order-app/internal/returns"
	"github.com/nurulloasawear/order-app/internal/users"
	"github.com/nurulloasawear/order-app/pkg/auth/session"
	"github.com/nurulloasawear/order-app/pkg/config"
	"github.com/nurulloasawear/order-app/pkg/db"
	"github.com/nurulloasawear/order-app/pkg/logger"
	"github.com/nurulloasawear/order-app/pkg/manifest"
	"github.com/nurulloasawear/order-app/pkg/marketplace"
	"github.com/nurulloasawear/order-app/pkg/metrics"
	"github.com/nurulloasawear/order-app/pkg/migrate"
	"github.com/nurulloasawear/order-app/pkg/redis"
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

	sessionManager, err := session.NewManager(auth.NewSessionRepository(dbClient.DB()), cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(users.NewRepository(dbClient.DB()), sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	keyResolver, err := credentials.NewResolver(users.NewRepository(dbClient.DB()), cfg.Marketplace.APIKey)
	if err != nil {
		logg.Error(context.Background(), "failed to create credential resolver", err)
		os.Exit(1)
	}

	marketClient, err := marketplace.NewClient(context.Background(), cfg.Marketplace, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create marketplace client", err)
		os.Exit(1)
	}

	renderer, err := manifest.NewPDFRenderer(cfg.Manifest.ArtifactsDir, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create manifest renderer", err)
		os.Exit(1)
	}
	artifactStore, err := manifest.NewStore(cfg.Manifest.ArtifactsDir, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create artifact store", err)
		os.Exit(1)
	}

	dailyService, err := dailyorders.NewService(dailyorders.NewRepository(dbClient.DB()), marketClient, keyResolver)
	if err != nil {
		logg.Error(context.Background(), "failed to create daily orders service", err)
		os.Exit(1)
	}

	returnsService, err := returns.NewService(returns.NewRepository(dbClient.DB()), marketClient, keyResolver, renderer, logg, cfg.Returns)
	if err != nil {
		logg.Error(context.Background(), "failed to create returns service", err)
		os.Exit(1)
	}

	decisionsRepo := decisions.NewRepository(dbClient.DB())
	decisionsService, err := decisions.NewService(decisionsRepo, dbClient, renderer, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create decisions service", err)
		os.Exit(1)
	}

	campaignsService, err := campaigns.NewService(marketClient, keyResolver, decisionsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create campaigns service", err)
		os.Exit(1)
	}

	maintenance := platform.NewMaintenanceState()

	serverCtx, stopCron := context.WithCancel(context.Background())
	defer stopCron()
	startArtifactSweep(serverCtx, cfg, logg, redisClient, artifactStore)

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
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
			Sessions:    sessionManager,
			Maintenance: maintenance,
			Artifacts:   artifactStore,
			Auth:        authService,
			Users:       usersService,
			Campaigns:   campaignsService,
			DailyOrders: dailyService,
			Returns:     returnsService,
			Decisions:   decisionsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// startArtifactSweep runs the retention sweep on its own cadence; failures
// are logged and never stop the API.
func startArtifactSweep(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, store *manifest.Store) {
	job, err := cron.NewArtifactSweepJob(store, cfg.Manifest.Retention(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create artifact sweep job", err)
		return
	}
	lock, err := cron.NewRedisLock(redisClient, "cron:artifact-sweep", cfg.Manifest.SweepInterval)
	if err != nil {
		logg.Error(ctx, "failed to create sweep lock", err)
		return
	}
	svc, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Manifest.SweepInterval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create sweep service", err)
		return
	}
	go func() {
		if err := svc.Run(ctx); err != nil && err != context.Canceled {
			logg.Error(ctx, "artifact sweep stopped", err)
		}
	}()
}
