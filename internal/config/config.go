// backend-go/internal/config/config.go
package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Source    SourceConfig
	Storage   StorageConfig
	Reporting ReportingConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

// SourceConfig selects where service records are loaded from.
type SourceConfig struct {
	Backend           string
	PageSize          int
	LookupConcurrency int
}

// StorageConfig points at the S3-compatible bucket holding snapshots.
type StorageConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	Region      string
	UseSSL      bool
	SnapshotKey string
}

// ReportingConfig tunes the dashboard segment table.
type ReportingConfig struct {
	Segments       map[string]string
	DefaultSegment string
}

const (
	BackendPostgres = "postgres"
	BackendSnapshot = "snapshot"
)

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				LogLevel:       viper.GetString("LOG_LEVEL"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
			},
			Source: SourceConfig{
				Backend:           strings.ToLower(viper.GetString("SOURCE_BACKEND")),
				PageSize:          viper.GetInt("SOURCE_PAGE_SIZE"),
				LookupConcurrency: viper.GetInt("SOURCE_LOOKUP_CONCURRENCY"),
			},
			Storage: StorageConfig{
				Endpoint:    viper.GetString("MINIO_ENDPOINT"),
				AccessKey:   viper.GetString("MINIO_ACCESS_KEY"),
				SecretKey:   viper.GetString("MINIO_SECRET_KEY"),
				Bucket:      viper.GetString("MINIO_BUCKET"),
				Region:      viper.GetString("MINIO_REGION"),
				UseSSL:      viper.GetBool("MINIO_USE_SSL"),
				SnapshotKey: viper.GetString("SNAPSHOT_KEY"),
			},
			Reporting: ReportingConfig{
				Segments:       ParseSegments(viper.GetString("REPORTING_SEGMENTS")),
				DefaultSegment: viper.GetString("REPORTING_DEFAULT_SEGMENT"),
			},
		}
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "allservice")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 60)
	viper.SetDefault("SOURCE_BACKEND", BackendPostgres)
	viper.SetDefault("SOURCE_PAGE_SIZE", 200)
	viper.SetDefault("SOURCE_LOOKUP_CONCURRENCY", 8)
	viper.SetDefault("MINIO_REGION", "us-east-1")
	viper.SetDefault("MINIO_USE_SSL", true)
	viper.SetDefault("SNAPSHOT_KEY", "snapshots/services.json")
	viper.SetDefault("REPORTING_SEGMENTS", "")
	viper.SetDefault("REPORTING_DEFAULT_SEGMENT", "")
}

// ParseSegments reads "companyID=Segment" pairs separated by commas or
// semicolons. Malformed pairs are skipped; nil means no override.
func ParseSegments(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	segments := make(map[string]string)
	for _, pair := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		id, name, ok := strings.Cut(pair, "=")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if !ok || id == "" || name == "" {
			continue
		}
		segments[id] = name
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}
