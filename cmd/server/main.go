package main

import (
	"log"
	"log/slog"

	"github.com/datapilot-ai/datapilot/internal/agent"
	"github.com/datapilot-ai/datapilot/internal/config"
	"github.com/datapilot-ai/datapilot/internal/llm"
	"github.com/datapilot-ai/datapilot/internal/server"
	"github.com/datapilot-ai/datapilot/internal/warehouse"
	"github.com/datapilot-ai/datapilot/internal/warehouse/tools"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	llmProvider, err := llm.NewOpenAI(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	// A missing warehouse is not fatal: the agent reports a configuration
	// diagnostic instead of crashing on the first tool call.
	var toolProvider *tools.Provider
	whClient, err := warehouse.NewClient(&cfg.Databricks)
	if err != nil {
		slog.Warn("warehouse unavailable, tool requests will return a configuration diagnostic", "error", err)
	} else {
		toolProvider = tools.NewProvider(whClient, cfg.Databricks.Catalog, cfg.Databricks.Schema)
	}

	ag := agent.New(llmProvider, toolProvider, cfg.Agent)

	srv := server.New(*cfg, ag)
	slog.Info("starting datapilot", "host", cfg.Server.Host, "port", cfg.Server.Port, "pipeline", cfg.Agent.Pipeline)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
