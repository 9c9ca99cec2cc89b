package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"voicedocs/internal/ai"
	"voicedocs/internal/api"
	"voicedocs/internal/config"
	"voicedocs/internal/docstore"
	"voicedocs/internal/jobs"
	"voicedocs/internal/service"
	"voicedocs/internal/stt"
	"voicedocs/internal/worker"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "voicedocs").Logger()

	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sql.Open("sqlite3", cfg.JobsDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open jobs database")
	}
	defer db.Close()
	if err := jobs.InitSchema(db); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize jobs schema")
	}
	jobRepo := jobs.NewSQLiteRepo(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Document store: Firestore when a project is configured, otherwise
	// in-memory so the service still runs locally.
	var store docstore.Writer
	if cfg.FirestoreProject != "" {
		fw, err := docstore.NewFirestoreWriter(ctx, cfg.FirestoreProject, cfg.FirestoreCredsFile, cfg.UsersCollection, cfg.FilesCollection)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to firestore")
		}
		defer fw.Close()
		store = fw
		log.Info().Str("project", cfg.FirestoreProject).Msg("firestore store initialized")
	} else {
		store = docstore.NewMemoryWriter()
		log.Warn().Msg("FIRESTORE_PROJECT_ID not set, using in-memory store")
	}

	provider := stt.NewAssemblyAIProvider(stt.Config{
		APIKey:       cfg.AssemblyAIKey,
		BaseURL:      cfg.AssemblyAIBaseURL,
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
	}, log)

	polisher := ai.NewPolisher(cfg.OpenAIKey, log)
	if polisher == nil {
		log.Info().Msg("OPENAI_API_KEY not set, transcript polish disabled")
	}

	loc, err := time.LoadLocation(cfg.StoreTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("zone", cfg.StoreTimezone).Msg("invalid store timezone")
	}

	processor := service.NewProcessor(provider, store, jobRepo, polisher, loc, log)
	pool := worker.NewPool(cfg.Workers, cfg.QueueSize, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	server := api.NewServer(cfg, processor, jobRepo, pool, log)
	server.RegisterRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("voicedocs backend running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http listen and serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown http server")
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown worker pool")
	}
}

// corsMiddleware adds CORS headers for the client app
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
