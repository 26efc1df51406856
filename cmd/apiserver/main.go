package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	redisDriver "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"social-go/internal/auth"
	"social-go/internal/config"
	"social-go/internal/handlers/apiserver"
	appKafka "social-go/internal/kafka"
	"social-go/internal/middleware"
	appRedis "social-go/internal/redis"
	"social-go/internal/services"
	"social-go/internal/storage"
	"social-go/internal/ws"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("app", cfg.AppName), zap.String("version", cfg.AppVersion))

	// 2. Initialize the database
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := storage.AutoMigrateTables(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	logger.Info("database ready", zap.String("type", cfg.Database.Type))

	// 3. Initialize the Redis client and token blacklist
	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	tokenBlacklist := appRedis.NewRedisTokenBlacklist(redisClient)
	logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	// 4. Initialize repositories
	userRepo := storage.NewGormUserRepository(db)
	profileRepo := storage.NewGormProfileRepository(db)
	friendshipRepo := storage.NewGormFriendshipRepository(db)

	// 5. Kafka producer for friendship events. Brokers left empty disables it.
	var producer appKafka.MessageProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = appKafka.NewConfluentKafkaProducer(cfg.Kafka)
		if err != nil {
			logger.Fatal("failed to create kafka producer", zap.Error(err))
		}
		defer producer.Close()
		logger.Info("kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		logger.Info("kafka disabled, friendship events will not be published")
	}

	// 6. Initialize services
	passwordPolicy := auth.NewPasswordPolicy(cfg.Password)
	totpProvider := auth.NewTOTPProvider(cfg.TwoFactor)

	userService := services.NewUserService(db, userRepo, passwordPolicy, totpProvider, logger)
	authService := services.NewAuthService(userRepo, totpProvider, cfg.Auth, logger)
	profileService := services.NewProfileService(profileRepo, userRepo, logger)
	friendshipService := services.NewFriendshipService(
		friendshipRepo, userRepo, profileRepo,
		producer, cfg.Kafka.FriendshipEventTopic, logger)

	// 7. Presence hub
	presenceHub := ws.NewHub(profileService, logger)
	go presenceHub.Run()

	// 8. Initialize handlers
	authHandler := apiserver.NewAuthHandler(authService, userService, tokenBlacklist, logger)
	userHandler := apiserver.NewUserHandler(userService, logger)
	profileHandler := apiserver.NewProfileHandler(profileService, cfg.Avatar, logger)
	friendshipHandler := apiserver.NewFriendshipHandler(friendshipService, logger)
	presenceHandler := apiserver.NewPresenceHandler(presenceHub)
	healthHandler := apiserver.NewHealthHandler(db, redisClient, cfg.AppVersion)

	// 9. Routes. Mutating endpoints sit behind the JWT middleware, reads and
	// the health probes are public.
	authMW := middleware.AuthMiddleware(cfg.Auth.JWTSecretKey, tokenBlacklist)
	r := apiserver.NewRouter(
		authHandler, userHandler, profileHandler,
		friendshipHandler, presenceHandler, healthHandler, authMW)

	// 10. CORS
	corsOptions := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.Server.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.Server.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.Server.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.Server.CORS.ExposedHeaders),
		handlers.MaxAge(cfg.Server.CORS.MaxAge),
	}
	if cfg.Server.CORS.AllowCredentials {
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}
	corsHandler := handlers.CORS(corsOptions...)(r)

	// 11. HTTP server with graceful shutdown
	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api server listening", zap.String("addr", serverAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("api server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, stopping api server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("api server forced to shut down", zap.Error(err))
	}

	logger.Info("api server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = lvl
	}
	return zapCfg.Build()
}
