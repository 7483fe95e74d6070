package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	LLM       LLMConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
	Retry     RetryConfig
	Scoring   ScoringConfig
	Portfolio PortfolioConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	TopK       int
}

// LLMConfig selects the text-generation provider. Embeddings always go
// through Gemini.
type LLMConfig struct {
	Provider       string
	Model          string
	EmbeddingModel string
	GeminiAPIKey   string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

type ScoringConfig struct {
	PassingThreshold float64
	FailurePolicy    string
	BatchSize        int
	ParametersFile   string
}

// PortfolioConfig drives the GitHub repository scorer. The token is optional.
type PortfolioConfig struct {
	GitHubToken string
	MaxRepos    int
	NormFactor  float64
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Load reads .env (if present) and the environment, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_scorer"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_chunks"),
			TopK:       getEnvAsInt("QDRANT_TOP_K", 5),
		},
		LLM: LLMConfig{
			Provider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			Model:          getEnv("LLM_MODEL", ""),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 50),
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", "60s"),
		},
		Retry: RetryConfig{
			Attempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			BaseDelay: getEnvAsDuration("RETRY_BASE_DELAY", "4s"),
			MaxDelay:  getEnvAsDuration("RETRY_MAX_DELAY", "10s"),
		},
		Scoring: ScoringConfig{
			PassingThreshold: getEnvAsFloat("PASSING_THRESHOLD", 70),
			FailurePolicy:    getEnv("FAILURE_POLICY", "exclude"),
			BatchSize:        getEnvAsInt("SCORING_BATCH_SIZE", 3),
			ParametersFile:   getEnv("PARAMETERS_FILE", "parameters.json"),
		},
		Portfolio: PortfolioConfig{
			GitHubToken: getEnv("GITHUB_TOKEN", ""),
			MaxRepos:    getEnvAsInt("PORTFOLIO_MAX_REPOS", 20),
			NormFactor:  getEnvAsFloat("PORTFOLIO_NORM_FACTOR", 100),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel(cfg.LLM.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return "gpt-4o-mini"
	}
	return "gemini-2.5-flash"
}

// Validate rejects settings the limiter, retry policy or engine cannot run with.
// Missing API keys are not an error here: they surface per parameter.
func (c *Config) Validate() error {
	var errs []error

	if c.RateLimit.MaxRequests <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive, got %d", c.RateLimit.MaxRequests))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimit.Window))
	}
	if c.Retry.Attempts <= 0 {
		errs = append(errs, fmt.Errorf("RETRY_MAX_ATTEMPTS must be positive, got %d", c.Retry.Attempts))
	}
	if c.Retry.BaseDelay <= 0 || c.Retry.MaxDelay < c.Retry.BaseDelay {
		errs = append(errs, fmt.Errorf("retry delays must satisfy 0 < base (%s) <= max (%s)", c.Retry.BaseDelay, c.Retry.MaxDelay))
	}
	switch strings.ToLower(c.Scoring.FailurePolicy) {
	case "exclude", "zero":
	default:
		errs = append(errs, fmt.Errorf("FAILURE_POLICY must be exclude or zero, got %q", c.Scoring.FailurePolicy))
	}
	if c.Scoring.PassingThreshold < 0 || c.Scoring.PassingThreshold > 100 {
		errs = append(errs, fmt.Errorf("PASSING_THRESHOLD must be within [0, 100], got %v", c.Scoring.PassingThreshold))
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be %s or %s, got %q", ProviderGemini, ProviderOpenAI, c.LLM.Provider))
	}
	if c.Portfolio.MaxRepos <= 0 {
		errs = append(errs, fmt.Errorf("PORTFOLIO_MAX_REPOS must be positive, got %d", c.Portfolio.MaxRepos))
	}
	if c.Portfolio.NormFactor <= 0 {
		errs = append(errs, fmt.Errorf("PORTFOLIO_NORM_FACTOR must be positive, got %v", c.Portfolio.NormFactor))
	}
	if c.Worker.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("WORKER_CONCURRENCY must be positive, got %d", c.Worker.Concurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
