package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"ceygo/config"
	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/database/repository"
	settingsRepo "ceygo/database/repository/settings"
	"ceygo/handlers"
	"ceygo/middleware"
	"ceygo/routes"
	"ceygo/services/auth"
	"ceygo/services/booking"
	"ceygo/services/dashboard"
	"ceygo/services/driver"
	"ceygo/services/notification"
	"ceygo/services/plan"
	"ceygo/services/settings"
	"ceygo/services/storage"
	"ceygo/services/transfer"
	"ceygo/services/user"
	"ceygo/utils"

	gcs "cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.NewStore(ctx)
	if err != nil {
		logger.Fatal("main: failed to open document store", zap.Error(err))
	}
	defer store.Close()

	clock := utils.SystemClock{}
	repos := repository.NewRepositories(store)

	// auth
	creds, err := auth.NewCredentials(config.AppConfig.AdminEmail, config.AppConfig.AdminPasswordHash, config.AppConfig.AdminPassword, logger)
	if err != nil {
		logger.Fatal("main: invalid admin credentials", zap.Error(err))
	}
	secret, err := auth.ResolveSecret(config.AppConfig.JWTSecret, config.IsProduction(), logger)
	if err != nil {
		logger.Fatal("main: invalid token secret", zap.Error(err))
	}
	var sessions auth.SessionStore = auth.NewMemorySessionStore(clock)
	redisClient := utils.InitSessionCache()
	if redisClient != nil {
		sessions = auth.NewRedisSessionStore(redisClient)
		defer redisClient.Close()
	}
	authService := auth.NewDefaultAuthService(creds, secret, config.AppConfig.SessionTTL, sessions, clock, logger)

	// services
	notificationService := notification.NewDefaultNotificationService(repos.Notifications, newPusher(ctx, logger), logger)
	proofs := newProofStorage(ctx, logger)
	reconciler := driver.NewReconciler(repos, clock, logger)

	userService := user.NewDefaultUserService(repos.Users, reconciler, logger)
	driverService := driver.NewDefaultDriverService(repos, reconciler, clock, logger)
	bookingService := booking.NewDefaultBookingService(repos.Bookings)
	transferService := transfer.NewDefaultTransferService(repos, notificationService, proofs, clock, logger)
	planService := plan.NewDefaultPlanService(repos.Plans, clock, logger)
	settingsService := settings.NewDefaultSettingsService(repos.Settings, clock, logger)
	dashboardService := dashboard.NewDefaultDashboardService(repos, clock, config.BusinessLocation(), config.AppConfig.ActivityFeedSize, logger)

	handlerBundle := &handlers.HandlerBundle{
		AuthService: authService,
		Auth:        handlers.NewAuthHandler(authService),
		Users:       handlers.NewUserHandler(userService),
		Drivers:     handlers.NewDriverHandler(driverService),
		Bookings:    handlers.NewBookingHandler(bookingService),
		Transfers:   handlers.NewTransferHandler(transferService),
		Plans:       handlers.NewPlanHandler(planService),
		Settings:    handlers.NewSettingsHandler(settingsService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
	}

	router := gin.New()
	if err := middleware.TrustProxies(router, config.AppConfig.TrustedProxies); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(ctx, time.Minute, healthChecks(store, redisClient))

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", config.AppConfig.StoreBackend))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}

// newPusher returns an FCM pusher, or a no-op when FCM is disabled or unavailable.
func newPusher(ctx context.Context, logger *zap.Logger) notification.Pusher {
	if !config.AppConfig.FCMEnabled {
		logger.Info("FCM disabled; notifications are stored without push delivery")
		return notification.NoopPusher{}
	}
	app, err := utils.FirebaseInit(ctx)
	if err != nil {
		logger.Warn("Firebase unavailable; push delivery disabled", zap.Error(err))
		return notification.NoopPusher{}
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Warn("FCM client unavailable; push delivery disabled", zap.Error(err))
		return notification.NoopPusher{}
	}
	return notification.NewFCMPusher(client)
}

// newProofStorage selects the backend holding bank-transfer proof images.
func newProofStorage(ctx context.Context, logger *zap.Logger) storage.ProofStorage {
	switch config.AppConfig.ProofStorage {
	case "cloudinary":
		s, err := storage.NewCloudinaryProofStorage(config.AppConfig.CloudinaryCloudName, config.AppConfig.CloudinaryAPIKey, config.AppConfig.CloudinaryAPISecret)
		if err != nil {
			logger.Warn("Cloudinary proof storage unavailable", zap.Error(err))
			return storage.NoProofStorage{}
		}
		return s

	case "firebase":
		var opts []option.ClientOption
		var sa *config.ServiceAccount
		if path := config.AppConfig.FirebaseCredentialsPath; path != "" {
			opts = append(opts, option.WithCredentialsFile(path))
			if loaded, err := utils.LoadServiceAccount(path); err == nil {
				sa = loaded
			} else {
				logger.Warn("Service account unreadable; signing with client credentials", zap.Error(err))
			}
		}
		client, err := gcs.NewClient(ctx, opts...)
		if err != nil {
			logger.Warn("Cloud Storage client unavailable", zap.Error(err))
			return storage.NoProofStorage{}
		}
		return storage.NewFirebaseProofStorage(client, config.AppConfig.FirebaseStorageBucket, sa)

	default:
		logger.Info("No proof storage configured; only absolute proof URLs are served")
		return storage.NoProofStorage{}
	}
}

func healthChecks(store docstore.Store, redisClient *redis.Client) map[string]utils.HealthCheck {
	checks := map[string]utils.HealthCheck{
		"store": func(ctx context.Context) error {
			_, err := store.Get(ctx, database.SettingsCollection, settingsRepo.PaymentSettingsDocument)
			if errors.Is(err, docstore.ErrNotFound) {
				return nil
			}
			return err
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
