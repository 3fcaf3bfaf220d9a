package main

import (
	"context"
	"fmt"
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

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/auth"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/config"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/genai"
	apphttp "github.com/jfedak1/AI-Cover-Letter-Generator/internal/http"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository/postgrest"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository/sqlite"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/service"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Supabase.URL) == "" {
		logger.Fatalf("supabase url is required")
	}
	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		logger.Fatalf("openai api key is required")
	}
	if strings.HasPrefix(cfg.Auth.JWTAlg, "HS") && strings.TrimSpace(cfg.Supabase.JWTSecret) == "" {
		logger.Fatalf("supabase jwt secret is required for %s", cfg.Auth.JWTAlg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profileRepo, letterRepo, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatalf("setup store: %v", err)
	}
	defer closeStore()

	if err := profileRepo.Init(ctx); err != nil {
		logger.Fatalf("init profile repository: %v", err)
	}
	if err := letterRepo.Init(ctx); err != nil {
		logger.Fatalf("init letter repository: %v", err)
	}

	provider := auth.NewProvider(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.ServiceKey)
	verifier := auth.NewVerifier(cfg.Supabase.URL, cfg.Auth.JWTAlg, cfg.Auth.Issuer, cfg.Supabase.JWTSecret)
	generator := genai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	archive, err := buildArchive(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup archive storage: %v", err)
	}

	profileService := service.NewProfileService(profileRepo)
	letterService := service.NewLetterService(profileRepo, letterRepo, generator, archive, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(provider, verifier, profileService, letterService)
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

	logger.Info("bye")
}

func buildStore(cfg config.Config, logger *logrus.Logger) (repository.ProfileRepository, repository.LetterRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		logger.Infof("using sqlite store at %s", cfg.Store.SQLitePath)
		return sqlite.NewProfileRepository(db), sqlite.NewLetterRepository(db), func() { _ = db.Close() }, nil

	case config.StoreBackendPostgrest:
		if strings.TrimSpace(cfg.Supabase.ServiceKey) == "" {
			return nil, nil, nil, fmt.Errorf("supabase service key is required for the postgrest store")
		}
		client := postgrest.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		logger.Infof("using hosted store at %s", cfg.Supabase.URL)
		return postgrest.NewProfileRepository(client), postgrest.NewLetterRepository(client), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func buildArchive(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Archive.Bucket == "" {
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Archive.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("archiving letters to s3 bucket %s (region %s)", cfg.Archive.Bucket, cfg.Archive.Region)
	return storage.NewS3Service(client, storage.ArchiveOptions{
		Bucket:    cfg.Archive.Bucket,
		KeyPrefix: cfg.Archive.KeyPrefix,
	}), nil
}
