// Package stackteams is an MCP server exposing Stack Overflow Teams search tools.
package stackteams

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonchun/stackteams/api"
	"github.com/jonchun/stackteams/config"
	"github.com/jonchun/stackteams/server"
)

type Config struct {
	// API overrides the client used to reach the Teams API. If nil, a real
	// HTTP client is built from the file/environment configuration.
	API api.Getter

	// Logger is the structured logger passed to Core. If nil, a discard logger is used.
	Logger *slog.Logger

	// Name overrides the MCP server implementation name (default: "stackteams").
	Name string

	// Version overrides the MCP server implementation version (default: "0.1.0").
	Version string
}

// New builds a Core from cfg plus the file and environment configuration.
func New(cfg Config) (*server.Core, error) {
	userCfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load user config: %w", err)
	}

	var team string
	if userCfg.Team != nil {
		team = *userCfg.Team
	}

	client := cfg.API
	if client == nil {
		var baseURL, apiKey string
		if userCfg.BaseURL != nil {
			baseURL = *userCfg.BaseURL
		}
		if userCfg.APIKey != nil {
			apiKey = *userCfg.APIKey
		}
		var apiOpts []api.Option
		if userCfg.Timeout != nil {
			apiOpts = append(apiOpts, api.WithTimeout(userCfg.Timeout.Duration()))
		}
		client = api.NewClient(baseURL, apiKey, apiOpts...)
	}

	var coreOpts []server.CoreOption
	if userCfg.PageSize != nil {
		coreOpts = append(coreOpts, server.WithPageSize(*userCfg.PageSize))
	}
	if userCfg.Filter != nil {
		coreOpts = append(coreOpts, server.WithFilter(*userCfg.Filter))
	}

	return server.NewCore(client, team, cfg.Logger, coreOpts...), nil
}

// RunStdio creates a server from cfg and runs it over stdin/stdout.
func RunStdio(ctx context.Context, cfg Config) error {
	core, err := New(cfg)
	if err != nil {
		return err
	}
	return server.RunStdio(ctx, core, cfg.Logger, server.ServerOptions{
		Name:    cfg.Name,
		Version: cfg.Version,
	})
}
