package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Providers   map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig carries credentials and identifiers for one remote provider.
// Only the fields a given provider needs are populated.
type ProviderConfig struct {
	BaseURL    string `json:"base_url"`
	Model      string `json:"model"`
	APIKey     string `json:"api_key"`
	ActorID    string `json:"actor_id"`
	TemplateID string `json:"template_id"`
}

type BasicConfig struct {
	ServerAddress     string `json:"server_address"`
	ServiceName       string `json:"service_name"`
	DryRun            bool   `json:"dry_run"`
	TempDir           string `json:"temp_dir"`
	PricingPath       string `json:"pricing_path"`
	StrategyProvider  string `json:"strategy_provider"`
	MinWorkers        int    `json:"min_workers"`
	MaxWorkers        int    `json:"max_workers"`
	QueueSize         int    `json:"queue_size"`
	WorkerIdleTimeout int    `json:"worker_idle_timeout"` // minutes
}

// Load reads configuration from the provided path (defaults to config.json).
// A missing file is not an error: the service can run entirely from defaults
// and environment variables. Credentials are never validated here; a missing
// key surfaces as a remote-call failure at the point of use.
func Load(path string) (*Config, error) {
	cfg := &Config{Providers: make(map[string]ProviderConfig)}

	if path == "" {
		path = "config.json"
	}
	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	applyDefaults(cfg)
	mergeWithEnv(cfg)
	return cfg, nil
}

// Provider returns the configuration block for a provider, or a zero value
// when the provider is not configured.
func (c *Config) Provider(name string) ProviderConfig {
	return c.Providers[name]
}

func applyDefaults(cfg *Config) {
	basic := &cfg.BasicConfig
	if basic.ServerAddress == "" {
		basic.ServerAddress = ":8000"
	}
	if basic.ServiceName == "" {
		basic.ServiceName = "Autonomous Sales Engineering Agent"
	}
	if basic.TempDir == "" {
		basic.TempDir = os.TempDir()
	}
	if basic.PricingPath == "" {
		basic.PricingPath = "assets/pricing.md"
	}
	if basic.StrategyProvider == "" {
		basic.StrategyProvider = "openai"
	}
	if basic.MinWorkers <= 0 {
		basic.MinWorkers = 2
	}
	if basic.MaxWorkers < basic.MinWorkers {
		basic.MaxWorkers = basic.MinWorkers * 4
	}
	if basic.QueueSize <= 0 {
		basic.QueueSize = 64
	}
	if basic.WorkerIdleTimeout <= 0 {
		basic.WorkerIdleTimeout = 1
	}

	setProviderDefault(cfg, "groq", func(p *ProviderConfig) {
		if p.BaseURL == "" {
			p.BaseURL = "https://api.groq.com/openai/v1"
		}
		if p.Model == "" {
			p.Model = "distil-whisper-large-v3-en"
		}
	})
	setProviderDefault(cfg, "apify", func(p *ProviderConfig) {
		if p.BaseURL == "" {
			p.BaseURL = "https://api.apify.com"
		}
	})
	setProviderDefault(cfg, "openai", func(p *ProviderConfig) {
		if p.Model == "" {
			p.Model = "gpt-4o-mini"
		}
	})
	setProviderDefault(cfg, "pdfmonkey", func(p *ProviderConfig) {
		if p.BaseURL == "" {
			p.BaseURL = "https://api.pdfmonkey.io"
		}
	})
}

func setProviderDefault(cfg *Config, name string, fill func(*ProviderConfig)) {
	p := cfg.Providers[name]
	fill(&p)
	cfg.Providers[name] = p
}

func mergeWithEnv(cfg *Config) {
	if v := os.Getenv("DRY_RUN"); v != "" {
		cfg.BasicConfig.DryRun = strings.EqualFold(v, "true")
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.BasicConfig.ServerAddress = ":" + port
	}
	setProviderEnv(cfg, "groq", "GROQ_API_KEY", "")
	setProviderEnv(cfg, "apify", "APIFY_API_TOKEN", "APIFY_ACTOR_ID")
	setProviderEnv(cfg, "openai", "OPENAI_API_KEY", "")
	setProviderEnv(cfg, "claude", "ANTHROPIC_API_KEY", "")
	setProviderEnv(cfg, "gemini", "GEMINI_API_KEY", "")
	setProviderEnv(cfg, "pdfmonkey", "PDFMONKEY_API_KEY", "")
	if id := os.Getenv("PDFMONKEY_TEMPLATE_ID"); id != "" {
		p := cfg.Providers["pdfmonkey"]
		p.TemplateID = id
		cfg.Providers["pdfmonkey"] = p
	}
}

func setProviderEnv(cfg *Config, name, keyEnv, actorEnv string) {
	p := cfg.Providers[name]
	changed := false
	if keyEnv != "" {
		if key := os.Getenv(keyEnv); key != "" {
			p.APIKey = key
			changed = true
		}
	}
	if actorEnv != "" {
		if actor := os.Getenv(actorEnv); actor != "" {
			p.ActorID = actor
			changed = true
		}
	}
	if changed {
		cfg.Providers[name] = p
	}
}
