package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server     ServerConfig
	OpenAI     OpenAIConfig
	Databricks DatabricksConfig
	Agent      AgentConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
}

type OpenAIConfig struct {
	Provider    string  `envconfig:"OPENAI_PROVIDER" default:"azure"`
	APIKey      string  `envconfig:"AZURE_OPENAI_API_KEY" required:"true"`
	Endpoint    string  `envconfig:"AZURE_OPENAI_ENDPOINT" required:"true"`
	Deployment  string  `envconfig:"AZURE_OPENAI_DEPLOYMENT" default:"gpt-4o"`
	APIVersion  string  `envconfig:"AZURE_OPENAI_API_VERSION" default:"2023-05-15"`
	Region      string  `envconfig:"AZURE_OPENAI_REGION"`
	Temperature float64 `envconfig:"AZURE_OPENAI_TEMPERATURE" default:"0.2"`
	MaxTokens   int64   `envconfig:"AZURE_OPENAI_MAX_TOKENS" default:"1024"`
	ToolCalling bool    `envconfig:"AZURE_OPENAI_TOOL_CALLING" default:"true"`
}

type DatabricksConfig struct {
	Host        string `envconfig:"DATABRICKS_HOST"`
	AccessToken string `envconfig:"DATABRICKS_TOKEN"`
	HTTPPath    string `envconfig:"DATABRICKS_HTTP_PATH"`
	Catalog     string `envconfig:"DATABRICKS_CATALOG" default:"default"`
	Schema      string `envconfig:"DATABRICKS_SCHEMA" default:"default"`
}

type AgentConfig struct {
	// Pipeline selects the orchestration mode: "chat" runs the tool-calling
	// chat pipeline, "plan" runs the plan/expand/summarize pipeline.
	Pipeline string `envconfig:"AGENT_PIPELINE" default:"chat"`
	Context  string `envconfig:"AGENT_CONTEXT"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
