package main

import (
	"log"

	api "vidtube-backend/cmd/api"
	userdomain "vidtube-backend/internal/user/domain"
	userRepo "vidtube-backend/internal/user/repository"
	userUsecase "vidtube-backend/internal/user/usecase"
	"vidtube-backend/pkg/config"
	"vidtube-backend/pkg/database"
	"vidtube-backend/pkg/logger"
	"vidtube-backend/pkg/storage"
	"vidtube-backend/pkg/token"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	zapLogger, err := logger.New(false)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zapLogger.Sync()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&userdomain.User{}); err != nil {
		zapLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Token issuer: secrets are validated here so a misconfigured secret
	// aborts startup instead of failing every refresh.
	issuer, err := token.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	if err != nil {
		zapLogger.Fatal("failed to initialize token issuer", zap.Error(err))
	}

	// Media storage (S3-compatible)
	mediaStorage, err := storage.NewS3Storage(storage.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Endpoint:  cfg.S3Endpoint,
	})
	if err != nil {
		zapLogger.Fatal("failed to initialize media storage", zap.Error(err))
	}

	// Initialize repositories and use cases (dependency injection)
	repo := userRepo.NewUserRepository(db)
	userUsecaseInstance := userUsecase.NewUserUsecase(repo, issuer, mediaStorage, zapLogger)

	// Initialize HTTP handler
	handler := api.NewHandler(userUsecaseInstance, cfg.CookieSecure)

	zapLogger.Info("server starting", zap.String("port", cfg.Port))
	if err := handler.Start(":" + cfg.Port); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}
