package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"speech-coach/internal/auth"
	"speech-coach/internal/config"
	apphttp "speech-coach/internal/http"
	"speech-coach/internal/repository/sqlite"
	"speech-coach/internal/service"
	"speech-coach/internal/speech"
	"speech-coach/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.AccessSecret) == "" {
		logger.Fatalf("access token secret is required")
	}
	if strings.TrimSpace(cfg.Auth.RefreshSecret) == "" {
		logger.Fatalf("refresh token secret is required")
	}

	codec, err := auth.NewCodec(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	if err != nil {
		logger.Fatalf("setup token codec: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	tokenRepo := sqlite.NewRefreshTokenRepository(db)
	articleRepo := sqlite.NewArticleRepository(db)
	historyRepo := sqlite.NewHistoryRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := tokenRepo.Init(ctx); err != nil {
		logger.Fatalf("init refresh token repository: %v", err)
	}
	if err := articleRepo.Init(ctx); err != nil {
		logger.Fatalf("init article repository: %v", err)
	}
	if err := historyRepo.Init(ctx); err != nil {
		logger.Fatalf("init history repository: %v", err)
	}

	userService := service.NewUserService(userRepo, tokenRepo, historyRepo, codec, cfg.FreshnessWindow())
	articleService := service.NewArticleService(articleRepo)
	historyService := service.NewHistoryService(historyRepo, userRepo)
	speechClient := speech.NewClient(cfg.Speech.BaseURL)

	storageSvc := buildStorage(ctx, cfg, logger)

	sweeper := service.NewTokenSweeper(tokenRepo, cfg.FreshnessWindow(), cfg.SweepInterval(), logger)
	sweeper.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		articleService,
		historyService,
		speechClient,
		storageSvc,
		cfg.Storage.Bucket,
		cfg.Storage.KeyPrefix,
		codec,
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	sweeper.Shutdown()

	logger.Info("bye")
}

// buildStorage sets up the S3-backed upload store. Uploads are optional: with
// no bucket configured the upload endpoints report storage as unavailable
// while the rest of the API works.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) storage.Service {
	if cfg.Storage.Bucket == "" {
		logger.Warn("storage bucket not configured, upload endpoints disabled")
		return nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		logger.Fatalf("load aws config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client)
}
