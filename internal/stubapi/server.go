// Package stubapi is the in-tree development backend: it speaks the same
// envelope, routes and bearer-token auth as the production back-office API
// so the console can be developed and tested without infrastructure. It is
// not the production backend.
package stubapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/transport/middleware"
	"github.com/ehmtravel/backoffice/internal/transport/swagger"
)

type Server struct {
	router    *chi.Mux
	db        *gorm.DB
	store     *store
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
}

func New(cfg internal.StubConfig, logger *slog.Logger) (*Server, error) {
	path := cfg.DatabasePath
	if path == "" {
		path = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open stub database: %w", err)
	}
	if err := db.AutoMigrate(&stubUser{}, &stubRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate stub database: %w", err)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// development default, the stub never guards real data
		secret = "backoffice-stub-secret"
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	srv := &Server{
		router:    chi.NewRouter(),
		db:        db,
		store:     &store{db: db},
		jwtSecret: []byte(secret),
		tokenTTL:  ttl,
		logger:    logger,
	}
	srv.routes()
	srv.checkContract(contractPath)
	return srv, nil
}

const contractPath = "./api/openapi.yml"

// checkContract validates the served OpenAPI document on startup so a broken
// contract is noticed before a client trips over it. A missing file is fine,
// the stub also runs from directories without the api/ tree.
func (srv *Server) checkContract(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		srv.logger.Warn("failed to load OpenAPI document", "path", path, "error", err)
		return
	}
	if err := doc.Validate(context.Background()); err != nil {
		srv.logger.Warn("OpenAPI document is invalid", "path", path, "error", err)
	}
}

func (srv *Server) routes() {
	srv.router.Use(middleware.CORS)
	srv.router.Use(chiMiddleware.RequestID)
	srv.router.Use(middleware.Recovery(srv.logger))
	srv.router.Use(middleware.Logging(srv.logger))

	srv.router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	srv.router.Handle("/swagger/*", swagger.Handler())

	srv.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", srv.handleHealth)
		r.Get("/ping", srv.handlePing)

		r.Post("/auth/login", srv.handleLogin)

		r.Group(func(pr chi.Router) {
			pr.Use(srv.requireAuth)

			for _, schema := range entity.All() {
				pr.Route(schema.Path, func(er chi.Router) {
					er.Get("/", srv.handleList(schema))
					er.Post("/", srv.handleCreate(schema))
					er.Get("/{id}", srv.handleGet(schema))
					er.Put("/{id}", srv.handleUpdate(schema))
					er.Delete("/{id}", srv.handleDelete(schema))
				})
			}
		})
	})
}

// Handler exposes the router for httptest and embedding.
func (srv *Server) Handler() http.Handler {
	return srv.router
}
