// Package mcp exposes the billing engine as an MCP tool surface over stdio.
// The engine stays pure; this package owns date parsing at the boundary, the
// observation store, and tool schemas.
package mcp

import (
	"context"
	"fmt"
	"time"

	"billcycle-mcp/internal/config"
	"billcycle-mcp/internal/history"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	cfg   *config.AppConfig
	store *history.Store
	now   func() time.Time // injectable for tests
}

// NewServer creates a new MCP server and hydrates the observation store from
// the cache directory.
func NewServer(cfg *config.AppConfig) *Server {
	store := history.NewStore()
	if err := store.LoadAll(cfg.CacheDir); err != nil {
		log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("Failed to hydrate observation caches")
	}

	return &Server{
		cfg:   cfg,
		store: store,
		now:   time.Now,
	}
}

// Start registers all tools and runs the stdio loop until the client
// disconnects.
func (s *Server) Start() error {
	impl := &sdk.Implementation{
		Name:    "billcycle-mcp",
		Version: "0.1.0",
	}
	server := sdk.NewServer(impl, nil)
	s.registerTools(server)

	log.Info().Int("accounts", len(s.store.Accounts())).Msg("MCP server starting stdio loop")
	return server.Run(context.Background(), &sdk.StdioTransport{})
}

// parseDay parses a YYYY-MM-DD date at the tool boundary. Malformed dates are
// caller contract violations and surface as tool errors.
func parseDay(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", field, value)
	}
	return t, nil
}
