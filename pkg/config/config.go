package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DevJWTSecret is the signing secret used when JWT_SECRET is unset outside
// production.
const DevJWTSecret = "dev_secret"

var (
	// ErrMissingDatabaseURL is returned by Load when DATABASE_URL is not set.
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")
	// ErrInsecureJWTSecret is returned in production when JWT_SECRET is unset
	// or still the development default.
	ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	Cache         CacheConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	ContentFilter ContentFilterConfig
	Ratings       RatingsConfig
	Invalidation  InvalidationConfig
}

type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs caching of subject listings.
type CacheConfig struct {
	Enabled  bool
	CitraTTL time.Duration
}

// JWTConfig configures verification of tokens issued by the identity provider.
type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ContentFilterConfig extends the built-in denylist.
type ContentFilterConfig struct {
	ExtraTerms []string
}

// RatingsConfig tunes rating submission rules.
type RatingsConfig struct {
	ReviewMinLength int
}

// InvalidationConfig sizes the background cache invalidation queue.
type InvalidationConfig struct {
	Workers int
}

// Load reads configuration and requires DATABASE_URL.
func Load() (*Config, error) {
	return load(true)
}

// LoadWithoutDatabase reads configuration for tools that never open the
// database. Cfg.Database.URL may be empty.
func LoadWithoutDatabase() (*Config, error) {
	return load(false)
}

func load(requireDatabase bool) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v, requireDatabase)
}

func fromViper(v *viper.Viper, requireDatabase bool) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		URL:          strings.TrimSpace(v.GetString("DATABASE_URL")),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}
	if requireDatabase && cfg.Database.URL == "" {
		return nil, ErrMissingDatabaseURL
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("ENABLE_CACHE"),
		CitraTTL: parseDuration(v.GetString("CITRA_CACHE_TTL"), 5*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret: strings.TrimSpace(v.GetString("JWT_SECRET")),
		Issuer: v.GetString("JWT_ISSUER"),
	}
	if cfg.Env == EnvProduction && (cfg.JWT.Secret == "" || cfg.JWT.Secret == DevJWTSecret) {
		return nil, ErrInsecureJWTSecret
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.ContentFilter = ContentFilterConfig{
		ExtraTerms: splitAndTrim(v.GetString("CONTENT_FILTER_EXTRA_TERMS")),
	}

	cfg.Ratings = RatingsConfig{ReviewMinLength: v.GetInt("REVIEW_MIN_LENGTH")}

	cfg.Invalidation = InvalidationConfig{Workers: v.GetInt("INVALIDATION_WORKERS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CITRA_CACHE_TTL", "5m")

	v.SetDefault("JWT_SECRET", DevJWTSecret)
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CONTENT_FILTER_EXTRA_TERMS", "")
	v.SetDefault("REVIEW_MIN_LENGTH", 10)
	v.SetDefault("INVALIDATION_WORKERS", 1)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
