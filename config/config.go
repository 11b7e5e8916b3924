package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Google Cloud
	ProjectID string
	Location  string

	// Server
	Port  string
	Debug bool

	// Gemini models
	GeminiModel    string
	EmbeddingModel string

	// Timeouts and limits
	HTTPTimeoutSeconds    int
	MaxMatchResults       int
	MaxExplainConcurrency int

	// Rate limiting
	RateLimitBypass bool

	// Authentication
	JWTSecret      string
	JWTExpiryHours int
	GoogleClientID string

	// News alert ingestion
	NewsFeeds        []string
	NewsPollSchedule string

	// Catalog maintenance
	CatalogSweepSchedule string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// Google Cloud
		ProjectID: getEnv("PROJECT_ID", ""),
		Location:  getEnv("LOCATION", "us-central1"),

		// Server
		Port:  getEnv("PORT", "8080"),
		Debug: getEnvBool("DEBUG", false),

		// Gemini models
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),

		// Timeouts and limits
		HTTPTimeoutSeconds:    getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
		MaxMatchResults:       getEnvInt("MAX_MATCH_RESULTS", 10),
		MaxExplainConcurrency: getEnvInt("MAX_EXPLAIN_CONCURRENCY", 5),

		// Rate limiting
		RateLimitBypass: getEnvBool("RATE_LIMIT_BYPASS", false),

		// Authentication
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		// News alert ingestion
		NewsFeeds: getEnvList("NEWS_FEEDS", []string{
			"https://www.thestar.com.my/rss/news/nation",
			"https://www.malaymail.com/feed",
			"https://www.bernama.com/en/rss/news.php",
		}),
		NewsPollSchedule: getEnv("NEWS_POLL_SCHEDULE", "@every 15m"),

		// Catalog maintenance
		CatalogSweepSchedule: getEnv("CATALOG_SWEEP_SCHEDULE", "@every 1h"),
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	// ProjectID is required for Firestore and Vertex AI
	if c.ProjectID == "" {
		return &ConfigError{Field: "PROJECT_ID", Message: "PROJECT_ID is required for Firestore and Vertex AI"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
