package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/RahimovIlhom/instagram-clone/docs"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/handlers/dto"
	httphandlers "github.com/RahimovIlhom/instagram-clone/internal/handlers/http"
	"github.com/RahimovIlhom/instagram-clone/internal/handlers/middleware"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/config"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/i18n"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/logging"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/metrics"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/notification"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/realtime"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/security"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

// @title                       Instagram Clone API
// @version                     1.0
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting instagram backend",
		"env", cfg.Env,
		"db_driver", cfg.Database.Driver,
	)

	ctx := context.Background()

	// Persistência
	store, err := openPersistence(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open persistence", "error", err)
		log.Fatal(err)
	}

	denylist, redisHealth, closeRedis, err := openDenylist(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		log.Fatal(err)
	}

	objectStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize object storage", "error", err)
		log.Fatal(err)
	}

	// i18n
	i18nService, err := i18n.NewEmbeddedService("en")
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	if err := dto.RegisterValidators(); err != nil {
		logger.Error("failed to register validators", "error", err)
		log.Fatal(err)
	}

	// Métricas
	var (
		appMetrics     *metrics.Metrics
		verifyMetrics  ports.VerificationMetrics = ports.NopVerificationMetrics{}
		dispatchMetric notification.DispatchMetrics
		requestMetrics middleware.RequestObserver
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New(cfg.Metrics.Namespace)
		verifyMetrics = appMetrics
		dispatchMetric = appMetrics
		requestMetrics = appMetrics
		metricsHandler = appMetrics.Handler()
	}

	// Notificações
	senders, closeSenders, err := openSenders(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize notification senders", "error", err)
		log.Fatal(err)
	}
	renderer, err := notification.NewTemplateRenderer()
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		log.Fatal(err)
	}
	dispatcher := notification.NewDispatcher(notification.DispatcherConfig{
		Workers:     cfg.Notification.Workers,
		QueueSize:   cfg.Notification.QueueSize,
		SendTimeout: cfg.Notification.SendTimeout,
	}, senders, dispatchMetric, logger.With("component", "notification"))

	hub := realtime.NewHub(nil, logger.With("component", "realtime"))

	// Segurança
	hasher := security.NewBcryptHasher(0)
	policy := security.NewPasswordPolicy()
	tokens := security.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry, denylist)

	// Services
	verificationService := services.NewVerificationService(services.VerificationDeps{
		Users:    store.users,
		Codes:    store.codes,
		UoW:      store.uow,
		Notifier: dispatcher,
		Renderer: renderer,
		Hasher:   hasher,
		Policy:   policy,
		Storage:  objectStorage,
		CodeGen:  security.NewDigitCodeGenerator(),
		Expiry: entities.CodeExpiryPolicy{
			EmailTTL: cfg.Verification.EmailCodeTTL,
			PhoneTTL: cfg.Verification.PhoneCodeTTL,
		},
		Metrics: verifyMetrics,
		Logger:  logger.With("component", "verification"),
	})
	userService := services.NewUserService(store.users, store.uow, logger)
	authService := services.NewAuthService(store.users, store.uow, verificationService, tokens, hasher, policy, logger)

	authorizer := services.NewAuthorizer()
	postService := services.NewPostService(store.posts, objectStorage, authorizer, logger)
	commentService := services.NewCommentService(store.comments, store.posts, authorizer, hub, cfg.Comments.MaxReplyDepth, logger)
	likeService := services.NewLikeService(store.likes, store.posts, store.comments, authorizer, hub, logger)
	saveService := services.NewSaveService(store.collections, store.posts, store.uow, logger)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	health := map[string]httphandlers.HealthCheck{}
	if store.health != nil {
		health["database"] = store.health
	}
	if redisHealth != nil {
		health["redis"] = redisHealth
	}

	router := httphandlers.NewRouter(httphandlers.RouterConfig{
		Env:            cfg.Env,
		BaseURL:        cfg.Server.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Users:          httphandlers.NewUserHandler(userService, authService, verificationService, cfg.Server.MaxUploadBytes),
		Posts:          httphandlers.NewPostHandler(postService, commentService, likeService, saveService, cfg.Server.MaxUploadBytes),
		Realtime:       httphandlers.NewRealtimeHandler(hub),
		Auth:           middleware.NewAuthMiddleware(tokens, userService),
		I18n:           middleware.NewI18nMiddleware(i18nService),
		Metrics:        requestMetrics,
		MetricsHandler: metricsHandler,
		Health:         health,
		Logger:         logger,
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	hub.Close()

	// Entrega o que já está na fila antes de fechar os canais
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.Error("notification queue not drained", "error", err)
	}
	closeSenders()

	if err := closeRedis(); err != nil {
		logger.Error("failed to close redis", "error", err)
	}
	if err := store.close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}

	logger.Info("server exited")
}
