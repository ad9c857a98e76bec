// Command jsonapid runs the JSON:API demo service: a small organization /
// workspace / job / team / user domain served over /api/v1, in the
// teacher's own single-binary cmd/terrakubed idiom (trimmed to this one
// service, since the source's executor/registry-mirror services have no
// JSON:API codec relevance).
package main

import (
	"log"

	api "github.com/ilkerispir/jsonapi-codec/internal/api"
	"github.com/ilkerispir/jsonapi-codec/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	log.Println("jsonapid starting...")

	serverConfig := api.Config{
		DatabaseURL:    cfg.DatabaseURL,
		Port:           cfg.Port,
		PatSecret:      cfg.PatSecret,
		InternalSecret: cfg.InternalSecret,
		UIURL:          cfg.UIURL,
	}

	server, err := api.NewServer(serverConfig)
	if err != nil {
		log.Fatalf("failed to start API server: %v", err)
	}
	defer server.Close()

	if err := server.Start(); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
}
