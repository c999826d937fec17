package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Parser     ParserConfig
	Pipeline   PipelineConfig
	Extraction ExtractionConfig
	Cache      CacheConfig
	Storage    StorageConfig
	CORS       CORSConfig
	Auth       AuthConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds optional bearer-token settings. An empty secret disables auth.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// Enabled reports whether API requests must carry a bearer token.
func (a *AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// PipelineConfig holds extraction/repair orchestration settings.
type PipelineConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	RepairConcurrency int           `mapstructure:"repair_concurrency"`
	MaxUploadMB       int64         `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (p *PipelineConfig) MaxUploadBytes() int64 {
	return p.MaxUploadMB << 20
}

// ExtractionConfig holds document preparation settings.
type ExtractionConfig struct {
	MaxImageDimension int `mapstructure:"max_image_dimension"`
}

// CacheConfig holds extraction cache settings.
type CacheConfig struct {
	Provider      string        `mapstructure:"provider"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// ParserProviderConfig holds settings for a single model provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds model provider settings with multi-provider support.
type ParserConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	// Multi-provider fields
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ParserProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		MaxRetries:   p.MaxRetries,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (p *ParserConfig) TertiaryConfig() *ParserProviderConfig {
	if p.Tertiary.Provider != "" {
		return &p.Tertiary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StorageConfig holds the optional S3 upload archive settings.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the LEDGERLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEDGERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Auth defaults (disabled)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "ledgerlens")

	// Pipeline defaults
	v.SetDefault("pipeline.timeout", "150s")
	v.SetDefault("pipeline.repair_concurrency", 4)
	v.SetDefault("pipeline.max_upload_mb", 20)

	// Extraction defaults
	v.SetDefault("extraction.max_image_dimension", 2048)

	// Cache defaults
	v.SetDefault("cache.provider", "none")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "24h")

	// Storage defaults
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "ledgerlens-uploads")
	v.SetDefault("storage.endpoint", "")

	// Parser defaults (legacy flat)
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "gemini-2.0-flash")
	v.SetDefault("parser.max_retries", 0)
	v.SetDefault("parser.timeout_secs", 120)

	// Parser primary/secondary/tertiary defaults
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("parser."+tier+".provider", "")
		v.SetDefault("parser."+tier+".api_key", "")
		v.SetDefault("parser."+tier+".default_model", "")
		v.SetDefault("parser."+tier+".max_retries", 0)
		v.SetDefault("parser."+tier+".timeout_secs", 120)
	}

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "LEDGERLENS_SERVER_PORT",
		"server.read_timeout":            "LEDGERLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "LEDGERLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":             "LEDGERLENS_SERVER_ENVIRONMENT",
		"log.level":                      "LEDGERLENS_LOG_LEVEL",
		"log.format":                     "LEDGERLENS_LOG_FORMAT",
		"cors.allowed_origins":           "LEDGERLENS_CORS_ALLOWED_ORIGINS",
		"auth.jwt_secret":                "LEDGERLENS_AUTH_JWT_SECRET",
		"auth.issuer":                    "LEDGERLENS_AUTH_ISSUER",
		"pipeline.timeout":               "LEDGERLENS_PIPELINE_TIMEOUT",
		"pipeline.repair_concurrency":    "LEDGERLENS_PIPELINE_REPAIR_CONCURRENCY",
		"pipeline.max_upload_mb":         "LEDGERLENS_PIPELINE_MAX_UPLOAD_MB",
		"extraction.max_image_dimension": "LEDGERLENS_EXTRACTION_MAX_IMAGE_DIMENSION",
		"cache.provider":                 "LEDGERLENS_CACHE_PROVIDER",
		"cache.redis_addr":               "LEDGERLENS_CACHE_REDIS_ADDR",
		"cache.redis_password":           "LEDGERLENS_CACHE_REDIS_PASSWORD",
		"cache.redis_db":                 "LEDGERLENS_CACHE_REDIS_DB",
		"cache.ttl":                      "LEDGERLENS_CACHE_TTL",
		"storage.enabled":                "LEDGERLENS_STORAGE_ENABLED",
		"storage.region":                 "LEDGERLENS_STORAGE_REGION",
		"storage.bucket":                 "LEDGERLENS_STORAGE_BUCKET",
		"storage.endpoint":               "LEDGERLENS_STORAGE_ENDPOINT",
		"storage.access_key":             "LEDGERLENS_STORAGE_ACCESS_KEY",
		"storage.secret_key":             "LEDGERLENS_STORAGE_SECRET_KEY",
		"parser.provider":                "LEDGERLENS_PARSER_PROVIDER",
		"parser.api_key":                 "LEDGERLENS_PARSER_API_KEY",
		"parser.default_model":           "LEDGERLENS_PARSER_DEFAULT_MODEL",
		"parser.max_retries":             "LEDGERLENS_PARSER_MAX_RETRIES",
		"parser.timeout_secs":            "LEDGERLENS_PARSER_TIMEOUT_SECS",
	}
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "max_retries", "timeout_secs"} {
			key := "parser." + tier + "." + field
			envBindings[key] = "LEDGERLENS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LEDGERLENS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LEDGERLENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
	}
	cfg.Pipeline = PipelineConfig{
		Timeout:           v.GetDuration("pipeline.timeout"),
		RepairConcurrency: v.GetInt("pipeline.repair_concurrency"),
		MaxUploadMB:       v.GetInt64("pipeline.max_upload_mb"),
	}
	cfg.Extraction = ExtractionConfig{
		MaxImageDimension: v.GetInt("extraction.max_image_dimension"),
	}
	cfg.Cache = CacheConfig{
		Provider:      v.GetString("cache.provider"),
		RedisAddr:     v.GetString("cache.redis_addr"),
		RedisPassword: v.GetString("cache.redis_password"),
		RedisDB:       v.GetInt("cache.redis_db"),
		TTL:           v.GetDuration("cache.ttl"),
	}
	cfg.Storage = StorageConfig{
		Enabled:   v.GetBool("storage.enabled"),
		Region:    v.GetString("storage.region"),
		Bucket:    v.GetString("storage.bucket"),
		Endpoint:  v.GetString("storage.endpoint"),
		AccessKey: v.GetString("storage.access_key"),
		SecretKey: v.GetString("storage.secret_key"),
	}

	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		DefaultModel: v.GetString("parser.default_model"),
		MaxRetries:   v.GetInt("parser.max_retries"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
		Primary:      providerConfig(v, "primary"),
		Secondary:    providerConfig(v, "secondary"),
		Tertiary:     providerConfig(v, "tertiary"),
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, tier string) ParserProviderConfig {
	prefix := "parser." + tier + "."
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + "provider"),
		APIKey:       v.GetString(prefix + "api_key"),
		DefaultModel: v.GetString(prefix + "default_model"),
		MaxRetries:   v.GetInt(prefix + "max_retries"),
		TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
	}
}
