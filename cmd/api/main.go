//	@title			Gallery API
//	@version		1.0
//	@description	Image gallery backend: uploads to object storage, paginated listing with presigned URLs, and metadata in PostgreSQL.
//
//	@host		localhost:3000
//	@BasePath	/

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/gallery/service/internal/config"
	"github.com/gallery/service/internal/db"
	"github.com/gallery/service/internal/gallery"
	"github.com/gallery/service/internal/image"
	appMiddleware "github.com/gallery/service/internal/middleware"
	"github.com/gallery/service/internal/secrets"
	"github.com/gallery/service/internal/storage"
	"github.com/gallery/service/web"

	_ "github.com/gallery/service/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}
	log.Printf("storage ready: backend=%s bucket=%s", cfg.StorageBackend, cfg.StorageBucket)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:3000/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	switch cfg.Mode {
	case config.ModeDB:
		pool := connectDatabase(cfg)
		defer pool.Close()

		// Wire dependencies: repository → service → handler
		imageRepo := image.NewRepository(pool)
		imageSvc := image.NewService(imageRepo, store)
		imageHandler := image.NewHandler(imageSvc)

		r.Post("/upload", imageHandler.Upload)
		r.Get("/images", imageHandler.List)
		r.Delete("/images/{id}", imageHandler.Delete)

	case config.ModeStorage:
		galleryHandler := gallery.NewHandler(store)

		r.Post("/upload", galleryHandler.Upload)
		r.Get("/images", galleryHandler.List)
		r.Delete("/images/{key}", galleryHandler.Delete)
	}

	// Embedded single-page client: assets under /static/, entry document
	// for everything the API does not claim.
	r.Handle("/static/*", web.StaticHandler())
	r.NotFound(web.Index)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (mode=%s env=%s)", cfg.Port, cfg.Mode, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}

// newStorage builds the configured storage backend and verifies the bucket.
func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBackend == config.BackendS3 {
		return storage.NewS3Storage(context.Background(),
			cfg.StorageRegion, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageBucket)
	}
	return storage.NewMinioStorage(cfg.StorageEndpoint,
		cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageBucket, cfg.StorageUseSSL)
}

// connectDatabase fetches credentials from the secrets service, opens the
// pool, and applies migrations. Any failure here is fatal: the db-backed
// gallery cannot serve without its table.
func connectDatabase(cfg *config.Config) *pgxpool.Pool {
	creds, err := secrets.FetchDBCredentials(context.Background(), cfg.StorageRegion, cfg.DBSecretID)
	if err != nil {
		log.Fatalf("database credentials fetch failed: %v", err)
	}

	databaseURL := creds.DatabaseURL(cfg.DBHost, cfg.DBPort, cfg.DBSSLMode)

	pool, err := db.Connect(databaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := db.Migrate(databaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	return pool
}
