package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Session     SessionConfig             `json:"session"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Assistant   AssistantConfig           `json:"assistant"`
	TTS         TTSConfig                 `json:"tts"`
	Auth        AuthConfig                `json:"auth"`
	Search      SearchConfig              `json:"search"`
}

type BasicConfig struct {
	ServerAddress     string `json:"server_address"`
	Mode              string `json:"mode"`
	LogPath           string `json:"log_path"`
	LogLevel          string `json:"log_level"`
	MinWorkers        int    `json:"min_workers"`
	MaxWorkers        int    `json:"max_workers"`
	QueueSize         int    `json:"queue_size"`
	WorkerIdleTimeout int    `json:"worker_idle_timeout_minutes"`
	AskRatePerMinute  int    `json:"ask_rate_per_minute"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// SessionConfig tunes the in-memory conversation store.
type SessionConfig struct {
	MaxMessages          int `json:"max_messages"`
	IdleTimeoutMinutes   int `json:"idle_timeout_minutes"`
	SweepIntervalMinutes int `json:"sweep_interval_minutes"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

// AssistantConfig names the primary model provider and its single fallback.
type AssistantConfig struct {
	Primary  string `json:"primary"`
	Fallback string `json:"fallback"`
}

type TTSConfig struct {
	ElevenLabsAPIKey string `json:"elevenlabs_api_key"`
	ElevenLabsVoice  string `json:"elevenlabs_voice"`
	OpenAIAPIKey     string `json:"openai_api_key"`
	OpenAIModel      string `json:"openai_model"`
	OpenAIVoice      string `json:"openai_voice"`
}

type AuthConfig struct {
	AdminPassword     string `json:"admin_password"`
	HeadAdminPassword string `json:"head_admin_password"`
	JWTSecret         string `json:"jwt_secret"`
	TokenTTLHours     int    `json:"token_ttl_hours"`
}

type SearchConfig struct {
	GoogleAPIKey   string `json:"google_api_key"`
	GoogleEngineID string `json:"google_engine_id"`
}

// Load reads configuration from the provided path (defaults to config.json)
// and applies environment overrides for secrets.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyEnv()

	if cfg.Auth.AdminPassword == "" {
		return nil, fmt.Errorf("admin password must be configured")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must be configured")
	}

	if sqlite, ok := cfg.Databases["sqlite3"]; ok && sqlite.DSN != "" &&
		sqlite.DSN != ":memory:" && !filepath.IsAbs(sqlite.DSN) {
		sqlite.DSN = filepath.Join(filepath.Dir(absPath), sqlite.DSN)
		cfg.Databases["sqlite3"] = sqlite
	}

	return &cfg, nil
}

// applyEnv lets deployment secrets win over anything committed in config.json.
func (c *Config) applyEnv() {
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		c.Auth.AdminPassword = v
	}
	if v := os.Getenv("HEAD_ADMIN_PASSWORD"); v != "" {
		c.Auth.HeadAdminPassword = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.setProviderKey("groq", v)
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.setProviderKey("openai", v)
		if c.TTS.OpenAIAPIKey == "" {
			c.TTS.OpenAIAPIKey = v
		}
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.setProviderKey("claude", v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.setProviderKey("gemini", v)
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		c.TTS.ElevenLabsAPIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_API_KEY"); v != "" {
		c.Search.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); v != "" {
		c.Search.GoogleEngineID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.BasicConfig.ServerAddress = ":" + v
	}
}

func (c *Config) setProviderKey(name, key string) {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	prov := c.Providers[name]
	prov.APIKey = key
	c.Providers[name] = prov
}
