package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreSupabase = "supabase"
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// LLM providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`
	IsLambda      bool   `yaml:"is_lambda"`

	// Storage
	StoreBackend  string `yaml:"store_backend"`
	SupabaseURL   string `yaml:"supabase_url"`
	SupabaseKey   string `yaml:"supabase_key"`
	AWSRegion     string `yaml:"aws_region"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	IndexName     string `yaml:"index_name"`

	// Events; an empty bus name logs events instead of sending them
	EventBusName string `yaml:"event_bus_name"`

	// LLM
	LLMProvider       string        `yaml:"llm_provider"`
	OpenAIAPIKey      string        `yaml:"openai_api_key"`
	OpenAIModel       string        `yaml:"openai_model"`
	OpenAIBaseURL     string        `yaml:"openai_base_url"`
	AnthropicAPIKey   string        `yaml:"anthropic_api_key"`
	AnthropicModel    string        `yaml:"anthropic_model"`
	AnthropicBaseURL  string        `yaml:"anthropic_base_url"`
	LLMMaxRetries     int           `yaml:"llm_max_retries"`
	LLMTimeout        time.Duration `yaml:"llm_timeout"`
	LLMBreakerEnabled bool          `yaml:"llm_breaker_enabled"`

	// Insight extraction
	ExtractionTemperature      float64 `yaml:"extraction_temperature"`
	ExtractionMaxTokens        int     `yaml:"extraction_max_tokens"`
	ExtractionMinInsightLength int     `yaml:"extraction_min_insight_length"`
	ExtractionMinGoalLength    int     `yaml:"extraction_min_goal_length"`
	ExtractionNoveltyThreshold float64 `yaml:"extraction_novelty_threshold"`

	// Coaching behavior
	ChatTemperature         float64       `yaml:"chat_temperature"`
	ChatInsightCap          int           `yaml:"chat_insight_cap"`
	DocumentInsightCap      int           `yaml:"document_insight_cap"`
	SynthesisMaxAge         time.Duration `yaml:"synthesis_max_age"`
	SynthesisMinNewInsights int           `yaml:"synthesis_min_new_insights"`
	EssenceMaxWords         int           `yaml:"essence_max_words"`

	// Authentication
	AuthEnabled bool   `yaml:"auth_enabled"`
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`

	// Logging and features
	LogLevel       string   `yaml:"log_level"`
	EnableTracing  bool     `yaml:"enable_tracing"`
	EnableCORS     bool     `yaml:"enable_cors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// Defaults returns the configuration used when neither a file nor the environment says otherwise.
func Defaults() *Config {
	return &Config{
		ServerAddress: ":8080",
		Environment:   "development",

		StoreBackend:  StoreSupabase,
		AWSRegion:     "us-west-2",
		DynamoDBTable: "sol",
		IndexName:     "GSI1",

		LLMProvider:   ProviderOpenAI,
		LLMMaxRetries: 0,
		LLMTimeout:    60 * time.Second,

		ExtractionTemperature:      0.3,
		ExtractionMaxTokens:        600,
		ExtractionMinInsightLength: 10,
		ExtractionMinGoalLength:    10,
		ExtractionNoveltyThreshold: 0.8,

		ChatTemperature:         0.7,
		ChatInsightCap:          2,
		DocumentInsightCap:      8,
		SynthesisMaxAge:         7 * 24 * time.Hour,
		SynthesisMinNewInsights: 5,
		EssenceMaxWords:         250,

		JWTIssuer: "sol-backend",

		LogLevel:       "info",
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 20,
	}
}

// LoadConfig loads configuration from an optional YAML file (CONFIG_FILE)
// and then from environment variables, which take precedence.
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")

	c.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", c.StoreBackend))
	c.SupabaseURL = getEnv("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseKey = getEnv("SUPABASE_KEY", c.SupabaseKey)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.IndexName = getEnv("INDEX_NAME", c.IndexName)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.LLMProvider = strings.ToLower(getEnv("LLM_PROVIDER", c.LLMProvider))
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIModel = getEnv("OPENAI_MODEL", c.OpenAIModel)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.AnthropicModel = getEnv("ANTHROPIC_MODEL", c.AnthropicModel)
	c.AnthropicBaseURL = getEnv("ANTHROPIC_BASE_URL", c.AnthropicBaseURL)
	c.LLMMaxRetries = getEnvInt("LLM_MAX_RETRIES", c.LLMMaxRetries)
	c.LLMTimeout = getEnvDuration("LLM_TIMEOUT", c.LLMTimeout)
	c.LLMBreakerEnabled = getEnvBool("LLM_BREAKER_ENABLED", c.LLMBreakerEnabled)

	c.ExtractionTemperature = getEnvFloat("EXTRACTION_TEMPERATURE", c.ExtractionTemperature)
	c.ExtractionMaxTokens = getEnvInt("EXTRACTION_MAX_TOKENS", c.ExtractionMaxTokens)
	c.ExtractionMinInsightLength = getEnvInt("EXTRACTION_MIN_INSIGHT_LENGTH", c.ExtractionMinInsightLength)
	c.ExtractionMinGoalLength = getEnvInt("EXTRACTION_MIN_GOAL_LENGTH", c.ExtractionMinGoalLength)
	c.ExtractionNoveltyThreshold = getEnvFloat("EXTRACTION_NOVELTY_THRESHOLD", c.ExtractionNoveltyThreshold)

	c.ChatTemperature = getEnvFloat("CHAT_TEMPERATURE", c.ChatTemperature)
	c.ChatInsightCap = getEnvInt("CHAT_INSIGHT_CAP", c.ChatInsightCap)
	c.DocumentInsightCap = getEnvInt("DOCUMENT_INSIGHT_CAP", c.DocumentInsightCap)
	c.SynthesisMaxAge = getEnvDuration("SYNTHESIS_MAX_AGE", c.SynthesisMaxAge)
	c.SynthesisMinNewInsights = getEnvInt("SYNTHESIS_MIN_NEW_INSIGHTS", c.SynthesisMinNewInsights)
	c.EssenceMaxWords = getEnvInt("ESSENCE_MAX_WORDS", c.EssenceMaxWords)

	c.AuthEnabled = getEnvBool("AUTH_ENABLED", c.AuthEnabled)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	c.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(c.MaxBodyBytes)))
}

// Validate checks the backend and provider choices and their credentials
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase store")
		}
	case StoreDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb store")
		}
	case StoreMemory:
		if c.IsProduction() {
			return fmt.Errorf("the memory store cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.AuthEnabled && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is set")
	}
	if c.ChatInsightCap <= 0 || c.DocumentInsightCap <= 0 {
		return fmt.Errorf("CHAT_INSIGHT_CAP and DOCUMENT_INSIGHT_CAP must be positive")
	}
	if c.ExtractionMaxTokens <= 0 {
		return fmt.Errorf("EXTRACTION_MAX_TOKENS must be positive")
	}
	if c.ExtractionNoveltyThreshold <= 0 || c.ExtractionNoveltyThreshold > 1 {
		return fmt.Errorf("EXTRACTION_NOVELTY_THRESHOLD must be in (0, 1]")
	}
	if c.EssenceMaxWords <= 0 {
		return fmt.Errorf("ESSENCE_MAX_WORDS must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s", "168h").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
