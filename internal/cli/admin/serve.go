package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spartanmed/medchat/internal/api/handlers"
	"github.com/spartanmed/medchat/internal/config"
	"github.com/spartanmed/medchat/internal/database"
	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/jobs"
	"github.com/spartanmed/medchat/internal/knowledge"
	"github.com/spartanmed/medchat/internal/openai"
	"github.com/spartanmed/medchat/internal/repository"
	"github.com/spartanmed/medchat/internal/server"
	"github.com/spartanmed/medchat/internal/service"
	"github.com/spartanmed/medchat/internal/storage"
	"github.com/spartanmed/medchat/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the medchat API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	store, err := knowledge.NewStore(knowledge.DefaultItems())
	if err != nil {
		return fmt.Errorf("failed to load knowledge store: %w", err)
	}
	curriculum := knowledge.NewCurriculum(knowledge.DefaultCurriculum())
	log.Printf("knowledge store loaded (%d items)", store.Len())

	conversationRepo := repository.NewConversationRepository(pool)
	materialRepo := repository.NewMaterialRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	var storageClient service.StorageClientInterface
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		storageClient = &S3StorageAdapter{client: s3Client}
	}

	var generator service.TextGenerator
	if cfg.HasOpenAI() {
		generator = openai.NewClientWithConfig(openai.Config{
			APIKey:    cfg.OpenAIAPIKey,
			ChatModel: cfg.OpenAIModel,
		})
		log.Println("AI generation enabled")
	} else {
		log.Println("no OpenAI key configured, running with canned fallbacks only")
	}

	searcher := service.NewSearcher(store)
	assembler := service.NewAssembler()
	quizSvc := service.NewQuizService(curriculum, generator)
	chatResponder := service.NewChatService(searcher, assembler, quizSvc, generator)
	conversationSvc := service.NewConversationService(conversationRepo, txRunner, chatResponder)

	var retentionWorker *jobs.Worker
	if cfg.HasRetention() {
		retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
		retentionWorker = jobs.NewWorker(jobs.NewRetentionWorker(conversationRepo, retention), time.Hour)
		go retentionWorker.Start(ctx)
		log.Printf("retention worker started (idle cutoff %d days)", cfg.RetentionDays)
	}

	chatHandler := handlers.NewChatHandler(conversationSvc)
	knowledgeHandler := handlers.NewKnowledgeHandler(searcher, store)
	curriculumHandler := handlers.NewCurriculumHandler(curriculum)

	var materialHandler *handlers.MaterialHandler
	if storageClient != nil {
		materialHandler = handlers.NewMaterialHandler(service.NewMaterialService(materialRepo, storageClient))
	} else {
		materialHandler = handlers.NewMaterialHandler(&NoOpMaterialService{})
	}

	routerCfg := server.RouterConfig{
		ChatHandler:       chatHandler,
		KnowledgeHandler:  knowledgeHandler,
		CurriculumHandler: curriculumHandler,
		MaterialHandler:   materialHandler,
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if retentionWorker != nil {
		retentionWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

type S3StorageAdapter struct {
	client *storage.S3Client
}

func (a *S3StorageAdapter) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	return a.client.GenerateUploadURL(ctx, key, contentType)
}

func (a *S3StorageAdapter) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	return a.client.GenerateDownloadURL(ctx, key)
}

func (a *S3StorageAdapter) DeleteObject(ctx context.Context, key string) error {
	return a.client.DeleteObject(ctx, key)
}

func (a *S3StorageAdapter) HeadObject(ctx context.Context, key string) (*service.ObjectMetadata, error) {
	meta, err := a.client.HeadObject(ctx, key)
	if err != nil {
		return nil, err
	}
	return &service.ObjectMetadata{
		ContentLength:  meta.ContentLength,
		ContentType:    meta.ContentType,
		ETag:           meta.ETag,
		ChecksumSHA256: meta.ChecksumSHA256,
	}, nil
}

type NoOpMaterialService struct{}

func (s *NoOpMaterialService) InitUpload(ctx context.Context, input service.InitUploadInput) (*service.InitUploadResult, error) {
	return nil, fmt.Errorf("material service not configured: MEDCHAT_S3_ENDPOINT required")
}

func (s *NoOpMaterialService) CompleteUpload(ctx context.Context, input service.CompleteUploadInput) (*domain.Material, error) {
	return nil, fmt.Errorf("material service not configured: MEDCHAT_S3_ENDPOINT required")
}

func (s *NoOpMaterialService) GetDownloadURL(ctx context.Context, materialID string) (string, error) {
	return "", fmt.Errorf("material service not configured: MEDCHAT_S3_ENDPOINT required")
}

func (s *NoOpMaterialService) ListByPhase(ctx context.Context, phase domain.Phase) ([]*domain.Material, error) {
	return nil, fmt.Errorf("material service not configured: MEDCHAT_S3_ENDPOINT required")
}

func runMigrations(databaseURL string) error {
	// golang-migrate drives the pgx stdlib connection directly.
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
