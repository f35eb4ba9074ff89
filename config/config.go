package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Fonte dos dados (Academia das Apostas Brasil)
	SourceBaseURL  string        `yaml:"source_base_url"`
	SourceTimeout  time.Duration `yaml:"source_timeout"`
	ScrapeRate     float64       `yaml:"scrape_rate"`  // requests per second
	ScrapeBurst    int           `yaml:"scrape_burst"` // rate limiter burst
	CollectTimeout time.Duration `yaml:"collect_timeout"`

	// Banco de dados
	DatabaseURL string `yaml:"database_url"`

	// Servidor
	Port string `yaml:"port"`

	// Armazenamento de palpites
	DataDir        string `yaml:"data_dir"`
	HistoryEntries int    `yaml:"history_entries"`

	// Sessões e conta inicial
	SessionTTL    time.Duration `yaml:"session_ttl"`
	AdminUser     string        `yaml:"admin_user"`
	AdminPassword string        `yaml:"admin_password"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Ambiente
	Environment string `yaml:"environment"`
}

// Load builds the configuration from the environment, optionally merged over
// a YAML file named by CONFIG_FILE. A .env file in the working directory is
// loaded first when present.
func Load() *Config {
	// .env is optional; ignore the error when it does not exist
	_ = godotenv.Load()

	cfg := &Config{
		SourceBaseURL:  getEnv("SOURCE_BASE_URL", "https://www.academiadasapostasbrasil.com"),
		SourceTimeout:  getEnvDuration("SOURCE_TIMEOUT", 30*time.Second),
		ScrapeRate:     getEnvFloat("SCRAPE_RATE", 2.0),
		ScrapeBurst:    getEnvInt("SCRAPE_BURST", 1),
		CollectTimeout: getEnvDuration("COLLECT_TIMEOUT", 5*time.Minute),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/palpites?sslmode=disable"),

		Port: getEnv("PORT", "8080"),

		DataDir:        getEnv("DATA_DIR", "dados"),
		HistoryEntries: getEnvInt("HISTORY_ENTRIES", 10),

		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),
		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
	}

	return cfg
}

// mergeFile overlays values from a YAML file. File values win over env
// defaults so deployments can ship a single config file.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result int
	fmt.Sscanf(value, "%d", &result)
	if result == 0 {
		return defaultValue
	}
	return result
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result float64
	fmt.Sscanf(value, "%g", &result)
	if result == 0 {
		return defaultValue
	}
	return result
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
