package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the process configuration assembled from defaults, an optional
// config file, .env, environment variables and command-line flags.
type Config struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Server ServerConfig `mapstructure:"server"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Log    LogConfig    `mapstructure:"log"`
}

type LLMConfig struct {
	Provider      string        `mapstructure:"provider"`
	Model         string        `mapstructure:"model"`
	BaseURL       string        `mapstructure:"base_url"`
	OpenAIAPIKey  string        `mapstructure:"openai_api_key"`
	GeminiAPIKey  string        `mapstructure:"gemini_api_key"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	Temperature   float32       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheSize     int           `mapstructure:"cache_size"`
}

// APIKey returns the key matching the configured provider.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	UploadDir      string `mapstructure:"upload_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type ScanConfig struct {
	Ignore      []string `mapstructure:"ignore"`
	MaxFileSize int64    `mapstructure:"max_file_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderFake   = "fake"
)

// Default values.
var Default = Config{
	LLM: LLMConfig{
		Provider:      ProviderOpenAI,
		Model:         "gpt-4o",
		BaseURL:       "https://api.openai.com/v1",
		MaxConcurrent: 5,
		Temperature:   0.2,
		Timeout:       60 * time.Second,
	},
	Server: ServerConfig{
		Port:           ":8000",
		UploadDir:      "./temp_uploads",
		MaxUploadBytes: 64 << 20,
	},
	Scan: ScanConfig{
		Ignore: []string{"**/.git", "**/__MACOSX"},
	},
	Log: LogConfig{Level: "INFO"},
}

// flagKeys maps config keys to the command-line flag that overrides them.
var flagKeys = map[string]string{
	"llm.provider":            "provider",
	"llm.model":               "model",
	"llm.base_url":            "base-url",
	"llm.max_concurrent":      "concurrency",
	"llm.temperature":         "temperature",
	"llm.cache_size":          "cache-size",
	"server.port":             "port",
	"server.upload_dir":       "upload-dir",
	"scan.max_file_size":      "max-file-size",
	"scan.ignore":             "ignore",
	"log.level":               "log-level",
	"log.json":                "log-json",
	"server.max_upload_bytes": "max-upload-bytes",
}

// Load builds the configuration. flags may be nil; when it carries a
// "config" flag with a value, that file is read as well.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", f.Value.String(), err)
			}
		}
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.max_concurrent", d.LLM.MaxConcurrent)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.cache_size", d.LLM.CacheSize)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.upload_dir", d.Server.UploadDir)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("scan.ignore", d.Scan.Ignore)
	v.SetDefault("scan.max_file_size", d.Scan.MaxFileSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("llm.provider", "LLM_PROVIDER")
	_ = v.BindEnv("llm.model", "LLM_MODEL")
	_ = v.BindEnv("llm.base_url", "LLM_BASE_URL", "OPENAI_BASE_URL")
	_ = v.BindEnv("llm.openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.gemini_api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("llm.max_concurrent", "LLM_MAX_CONCURRENT")
	_ = v.BindEnv("llm.temperature", "LLM_TEMPERATURE")
	_ = v.BindEnv("llm.timeout", "LLM_TIMEOUT")
	_ = v.BindEnv("llm.cache_size", "LLM_CACHE_SIZE")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.upload_dir", "UPLOAD_DIR")
	_ = v.BindEnv("server.max_upload_bytes", "MAX_UPLOAD_BYTES")
	_ = v.BindEnv("scan.ignore", "SCAN_IGNORE")
	_ = v.BindEnv("scan.max_file_size", "SCAN_MAX_FILE_SIZE")
	_ = v.BindEnv("log.level", "FRSCAN_LOG_LEVEL")
	_ = v.BindEnv("log.json", "FRSCAN_LOG_JSON")
}

func (c *Config) normalize() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if port := strings.TrimSpace(c.Server.Port); port != "" && !strings.Contains(port, ":") {
		c.Server.Port = ":" + port
	}
}

// Validate reports configuration values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderFake:
	default:
		return fmt.Errorf("config: unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.MaxConcurrent < 1 {
		return fmt.Errorf("config: llm max_concurrent must be >= 1, got %d", c.LLM.MaxConcurrent)
	}
	if c.LLM.Model == "" && c.LLM.Provider != ProviderFake {
		return fmt.Errorf("config: llm model is required")
	}
	return nil
}
