// Package config loads run settings from a YAML file, an optional .env file
// and the process environment, in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported model providers.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Environment variables read by ApplyEnv.
const (
	EnvGroqAPIKey      = "GROQ_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAWSAccessKeyID  = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey    = "AWS_SECRET_ACCESS_KEY"
	EnvAWSRegion       = "AWS_REGION"
	EnvModel           = "EVENTPOST_MODEL"
	EnvProvider        = "EVENTPOST_PROVIDER"
)

// LLM selects and authenticates the language model.
type LLM struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	// PromptTemplate overrides the post prompt; {{.Combined}} receives the combined text.
	PromptTemplate string `yaml:"prompt_template"`
}

// AWS configures the Rekognition client.
type AWS struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	// CredentialsCSV points at the access key file downloaded from the IAM console.
	CredentialsCSV string `yaml:"credentials_csv"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // tint, text or json
}

// Config holds every tunable of a run.
type Config struct {
	LLM          LLM           `yaml:"llm"`
	AWS          AWS           `yaml:"aws"`
	Log          Log           `yaml:"log"`
	MaxLabels    int           `yaml:"-"`
	MaxToolCalls int           `yaml:"max_tool_calls"`
	CallTimeout  time.Duration `yaml:"call_timeout"`
}

// DefaultGroqModel is used when the groq provider is selected without a model.
// Other providers fall back to their adapter's own default.
const DefaultGroqModel = "gemma2-9b-it"

// ApplyModelDefault fills Model for providers whose adapter has no default.
func (l *LLM) ApplyModelDefault() {
	if l.Model == "" && l.Provider == ProviderGroq {
		l.Model = DefaultGroqModel
	}
}

// Default returns the built-in settings. The model is left empty so the
// selected provider decides it.
func Default() Config {
	return Config{
		LLM: LLM{
			Provider:    ProviderGroq,
			Temperature: 0.7,
		},
		AWS:          AWS{Region: "us-east-1"},
		Log:          Log{Level: "info", Format: "tint"},
		MaxLabels:    vision.DefaultMaxLabels,
		MaxToolCalls: core.DefaultMaxToolCalls,
		CallTimeout:  30 * time.Second,
	}
}

// Load builds a Config from defaults, the YAML file at path (optional),
// the .env files (missing files are ignored) and the environment.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.LLM.ApplyModelDefault()

	if err := cfg.loadCredentialsCSV(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv populates the environment from .env files without overriding
// variables that are already set.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	return nil
}

// ApplyEnv overrides settings from environment variables resolved by lookup.
// The API key is taken from the variable matching the selected provider.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(k string) string {
		v, ok := lookup(k)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	if v := get(EnvProvider); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := get(EnvModel); v != "" {
		c.LLM.Model = v
	}

	if k := apiKeyEnv(c.LLM.Provider); k != "" {
		if v := get(k); v != "" {
			c.LLM.APIKey = v
		}
	}

	if v := get(EnvAWSAccessKeyID); v != "" {
		c.AWS.AccessKeyID = v
	}
	if v := get(EnvAWSSecretKey); v != "" {
		c.AWS.SecretAccessKey = v
	}
	if v := get(EnvAWSRegion); v != "" {
		c.AWS.Region = v
	}
}

func apiKeyEnv(provider string) string {
	switch provider {
	case ProviderGroq:
		return EnvGroqAPIKey
	case ProviderOpenAI:
		return EnvOpenAIAPIKey
	case ProviderAnthropic:
		return EnvAnthropicAPIKey
	case ProviderGemini:
		return EnvGeminiAPIKey
	default:
		return ""
	}
}

// loadCredentialsCSV fills missing AWS keys from the console CSV file.
func (c *Config) loadCredentialsCSV() error {
	if c.AWS.CredentialsCSV == "" || (c.AWS.AccessKeyID != "" && c.AWS.SecretAccessKey != "") {
		return nil
	}

	keys, err := vision.LoadAccessKeysCSV(c.AWS.CredentialsCSV)
	if err != nil {
		return err
	}

	c.AWS.AccessKeyID = keys.AccessKeyID
	c.AWS.SecretAccessKey = keys.SecretAccessKey

	return nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("config: unknown provider %q", c.LLM.Provider)
	}

	if c.MaxLabels <= 0 {
		return fmt.Errorf("config: max_labels must be positive, got %d", c.MaxLabels)
	}

	if c.MaxToolCalls <= 0 {
		return fmt.Errorf("config: max_tool_calls must be positive, got %d", c.MaxToolCalls)
	}

	if c.CallTimeout <= 0 {
		return fmt.Errorf("config: call_timeout must be positive, got %s", c.CallTimeout)
	}

	if c.AWS.Region == "" {
		return errors.New("config: aws region must not be empty")
	}

	return nil
}
