package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	configs "github.com/tajoco/contacts/config"
	"github.com/tajoco/contacts/internal/cache"
	"github.com/tajoco/contacts/internal/constants"
	"github.com/tajoco/contacts/internal/handler"
	"github.com/tajoco/contacts/internal/mail"
	"github.com/tajoco/contacts/internal/middleware"
	"github.com/tajoco/contacts/internal/repository"
	"github.com/tajoco/contacts/internal/router"
	"github.com/tajoco/contacts/internal/service"
	"github.com/tajoco/contacts/pkg/database"
	"github.com/tajoco/contacts/pkg/logger"
	"github.com/tajoco/contacts/pkg/redis"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Mail delivery
	mailSender := mail.NewSMTPSender(config.Mail, logger.GetLogger())
	mailQueue := mail.NewQueue(mailSender, config.Mail.Workers, config.Mail.QueueSize)
	defer mailQueue.Close()

	// Services
	tokenService, err := service.NewTokenService(config.JWT)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize token service", zap.Error(err))
	}
	userCache := cache.NewUserCache(redisClient, config.Cache.UserTTL)
	authService := service.NewAuthService(userRepo, userCache, mailQueue, tokenService, service.NewPasswordHasher(), config.App.BaseURL)
	contactService := service.NewContactService(contactRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	contactHandler := handler.NewContactHandler(contactService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	jwtMiddleware := middleware.NewJWTMiddleware(authService)

	r := router.NewRouter(
		authHandler,
		userHandler,
		contactHandler,
		healthHandler,

		jwtMiddleware,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
