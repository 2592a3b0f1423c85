package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/reelbites/reelbites-backend/api/routes"
	"github.com/reelbites/reelbites-backend/internal/auth"
	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/internal/follows"
	"github.com/reelbites/reelbites-backend/internal/interactions"
	"github.com/reelbites/reelbites-backend/internal/notifications"
	"github.com/reelbites/reelbites-backend/internal/orders"
	"github.com/reelbites/reelbites-backend/internal/partners"
	"github.com/reelbites/reelbites-backend/internal/ratings"
	"github.com/reelbites/reelbites-backend/internal/users"
	"github.com/reelbites/reelbites-backend/pkg/auth/session"
	"github.com/reelbites/reelbites-backend/pkg/config"
	"github.com/reelbites/reelbites-backend/pkg/db"
	"github.com/reelbites/reelbites-backend/pkg/geocode"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	"github.com/reelbites/reelbites-backend/pkg/migrate"
	"github.com/reelbites/reelbites-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
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

	userRepo := users.NewRepository(dbClient.DB())
	partnerRepo := partners.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:    userRepo,
		PartnerRepo: partnerRepo,
		Sessions:    sessionManager,
		JWT:         cfg.JWT,
		Password:    cfg.Password,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	interactionsService, err := interactions.NewService(interactions.ServiceParams{
		LedgerRepo:  interactions.NewRepository(dbClient.DB()),
		CatalogRepo: catalogRepo,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create interactions service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		CatalogRepo: catalogRepo,
		PartnerRepo: partnerRepo,
		Annotator:   interactionsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	followsService, err := follows.NewService(follows.ServiceParams{
		FollowRepo:  follows.NewRepository(dbClient.DB()),
		PartnerRepo: partnerRepo,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create follows service", err)
		os.Exit(1)
	}

	ratingsService, err := ratings.NewService(ratings.ServiceParams{
		RatingRepo:  ratings.NewRepository(dbClient.DB()),
		PartnerRepo: partnerRepo,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ratings service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.ServiceParams{
		NotificationRepo: notifications.NewRepository(dbClient.DB()),
		Logger:           logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	var geocoder geocode.Reverser
	if cfg.Geocode.APIKey != "" {
		client, geoErr := geocode.NewClient(cfg.Geocode.APIKey, geocode.WithBaseURL(cfg.Geocode.BaseURL))
		if geoErr != nil {
			logg.Error(context.Background(), "failed to create geocode client", geoErr)
			os.Exit(1)
		}
		geocoder = client
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		OrderRepo:      orders.NewRepository(dbClient.DB()),
		CatalogRepo:    catalogRepo,
		PartnerRepo:    partnerRepo,
		Notifier:       notificationsService,
		Geocoder:       geocoder,
		Logger:         logg,
		ToleranceCents: cfg.Orders.PriceToleranceCents,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               dbClient,
		Redis:            redisClient,
		Sessions:         sessionManager,
		AuthService:      authService,
		CatalogService:   catalogService,
		Interactions:     interactionsService,
		Follows:          followsService,
		Ratings:          ratingsService,
		Orders:           ordersService,
		Notifications:    notificationsService,
		IdempotencyStore: redisClient,
	})

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
		Addr:    addr,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "error draining api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}
