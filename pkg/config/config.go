package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Storage     StorageConfig
	ScriptGen   ScriptGenConfig
	TTS         TTSConfig
	MediaSearch MediaSearchConfig
	Render      RenderConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds artifact storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	UseSSL          bool
}

// ScriptGenConfig holds the LLM script service configuration
type ScriptGenConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	ProbeTimeout    time.Duration // first connectivity attempt
	ProbeRetryWait  time.Duration // cold-start grace before the extended retry
	ProbeTimeoutExt time.Duration
	RequestTimeout  time.Duration
}

// TTSConfig holds the narration synthesis service configuration
type TTSConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration // generous: spoken content can be long
	LocalBinary    string        // optional espeak-ng fallback, empty disables
}

// MediaSearchConfig holds the stock media search configuration
type MediaSearchConfig struct {
	APIKey         string
	BaseURL        string
	PerPage        int
	RequestTimeout time.Duration
	CacheTTL       time.Duration
}

// RenderConfig holds compositing and capture configuration
type RenderConfig struct {
	FFmpegBinary     string
	WorkDir          string
	WatermarkPath    string
	MaxConcurrent    int
	MinArtifactBytes int64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "clipforge"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "clipforge-videos"),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		ScriptGen: ScriptGenConfig{
			APIKey:          getEnv("SCRIPTGEN_API_KEY", ""),
			BaseURL:         getEnv("SCRIPTGEN_API_URL", "https://api.groq.com"),
			Model:           getEnv("SCRIPTGEN_MODEL", "llama-3.1-70b-versatile"),
			ProbeTimeout:    getEnvAsDuration("SCRIPTGEN_PROBE_TIMEOUT", "5s"),
			ProbeRetryWait:  getEnvAsDuration("SCRIPTGEN_PROBE_RETRY_WAIT", "3s"),
			ProbeTimeoutExt: getEnvAsDuration("SCRIPTGEN_PROBE_TIMEOUT_EXT", "20s"),
			RequestTimeout:  getEnvAsDuration("SCRIPTGEN_REQUEST_TIMEOUT", "45s"),
		},
		TTS: TTSConfig{
			APIKey:         getEnv("TTS_API_KEY", ""),
			BaseURL:        getEnv("TTS_API_URL", ""),
			RequestTimeout: getEnvAsDuration("TTS_REQUEST_TIMEOUT", "120s"),
			LocalBinary:    getEnv("TTS_LOCAL_BINARY", ""),
		},
		MediaSearch: MediaSearchConfig{
			APIKey:         getEnv("MEDIA_API_KEY", ""),
			BaseURL:        getEnv("MEDIA_API_URL", "https://api.pexels.com"),
			PerPage:        getEnvAsInt("MEDIA_PER_PAGE", 8),
			RequestTimeout: getEnvAsDuration("MEDIA_REQUEST_TIMEOUT", "20s"),
			CacheTTL:       getEnvAsDuration("MEDIA_CACHE_TTL", "6h"),
		},
		Render: RenderConfig{
			FFmpegBinary:     getEnv("FFMPEG_BINARY", "ffmpeg"),
			WorkDir:          getEnv("RENDER_WORK_DIR", os.TempDir()),
			WatermarkPath:    getEnv("RENDER_WATERMARK_PATH", "assets/watermark.png"),
			MaxConcurrent:    getEnvAsInt("RENDER_MAX_CONCURRENT", 2),
			MinArtifactBytes: int64(getEnvAsInt("RENDER_MIN_ARTIFACT_BYTES", 4096)),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ScriptGen.APIKey == "" {
		return fmt.Errorf("SCRIPTGEN_API_KEY is required")
	}
	if c.Render.MaxConcurrent < 1 {
		return fmt.Errorf("RENDER_MAX_CONCURRENT must be at least 1")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
