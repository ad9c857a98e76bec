// Package api composes the demo service: database pool, resolver, repository,
// JSON:API handler, and the auth/CORS middleware chain, grounded on the
// teacher's own Server/NewServer shape.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ilkerispir/jsonapi-codec/internal/api/handler"
	"github.com/ilkerispir/jsonapi-codec/internal/api/middleware"
	"github.com/ilkerispir/jsonapi-codec/internal/api/registry"
	"github.com/ilkerispir/jsonapi-codec/internal/api/repository"
)

// Config holds configuration for the API server.
type Config struct {
	DatabaseURL    string
	Port           string
	PatSecret      string
	InternalSecret string
	UIURL          string
}

// Server is the demo service's HTTP server.
type Server struct {
	config Config
	pool   *pgxpool.Pool
	engine *gin.Engine
}

// NewServer connects to the database, builds the resolver and repository,
// and wires the JSON:API handler behind the auth/CORS middleware chain.
func NewServer(config Config) (*Server, error) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := repository.NewGenericRepository(pool)
	registry.RegisterAll(repo)

	resolver := registry.BuildResolver()
	jsonapiHandler := handler.NewJSONAPIHandler(repo, resolver)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", jsonapiHandler)

	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP"}`))
	}
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/actuator/health", healthHandler)
	mux.HandleFunc("/actuator/health/readiness", healthHandler)
	mux.HandleFunc("/actuator/health/liveness", healthHandler)

	authConfig := middleware.AuthConfig{
		PatSecret:      config.PatSecret,
		InternalSecret: config.InternalSecret,
		UIURL:          config.UIURL,
	}

	var finalHandler http.Handler = mux
	finalHandler = middleware.AuthMiddleware(authConfig)(finalHandler)

	// gin-contrib/cors needs a gin.HandlerFunc, so the stdlib handler is
	// mounted inside a thin gin.Engine via gin.WrapH — the same gin/cors
	// pairing the teacher uses in internal/registry/server.go (its
	// cors.New(cors.Config{...}) in front of a gin.Default() router), not a
	// pattern carried from the teacher's own (plain net/http)
	// internal/api/server.go.
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.UIURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))
	engine.Any("/*path", gin.WrapH(finalHandler))

	return &Server{
		config: config,
		pool:   pool,
		engine: engine,
	}, nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	log.Printf("API server starting on %s", addr)
	return s.engine.Run(addr)
}

// Close releases the server's database connection pool.
func (s *Server) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
