package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PURA_PATA"

type Config struct {
	Environment string `mapstructure:"environment"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
	// DevAuth habilita X-Debug-User-ID cuando no hay verificador. Exige además
	// environment=development.
	DevAuth bool `mapstructure:"dev_auth"`

	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Storage  StorageConfig  `mapstructure:"storage"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig: URL vacía = store en memoria.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Migrate        bool          `mapstructure:"migrate"`
}

// SupabaseConfig: con JWTSecret se verifica local; con URL+Key se consulta GoTrue.
// Sin ninguno queda el modo dev (X-Debug-User-ID), solo con DevAuthAllowed.
type SupabaseConfig struct {
	URL        string        `mapstructure:"url"`
	Key        string        `mapstructure:"key"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	Audience   string        `mapstructure:"audience"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries uint64        `mapstructure:"max_retries"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectionName string        `mapstructure:"connection_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
}

type StorageConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// DevAuthAllowed indica si se puede arrancar sin verificador de identidad.
func (c *Config) DevAuthAllowed() bool {
	return c.DevAuth && c.IsDevelopment()
}

// Load lee .env (si existe), config.yaml opcional y variables de entorno.
// Prioridad: env > config.yaml > defaults.
func Load(configFile, envPath string) (*Config, error) {
	v := configureViper(configFile, envPath)

	v.SetDefault("environment", "production")
	v.SetDefault("dev_auth", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.connect_timeout", "30s")
	v.SetDefault("database.migrate", true)
	v.SetDefault("supabase.audience", "authenticated")
	v.SetDefault("supabase.timeout", "5s")
	v.SetDefault("supabase.max_retries", 2)
	v.SetDefault("supabase.cache_ttl", "1m")
	v.SetDefault("redis.prefix", "pura-pata:")
	v.SetDefault("nats.connection_name", "pura-pata-api")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.CORS.AllowedOrigins = splitOrigins(cfg.CORS.AllowedOrigins)
	return &cfg, nil
}

func configureViper(configFile, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v)
	return v
}

// bindEnv registra cada key con su variable PURA_PATA_* y, donde aplica,
// el nombre sin prefijo que ya usan los despliegues existentes.
func bindEnv(v *viper.Viper) {
	aliases := map[string][]string{
		"environment":               {"ENVIRONMENT"},
		"sentry_dsn":                {"SENTRY_DSN"},
		"dev_auth":                  {"DEV_AUTH"},
		"log.level":                 {"LOG_LEVEL"},
		"log.format":                {"LOG_FORMAT"},
		"server.port":               {"PORT"},
		"database.url":              {"DATABASE_URL"},
		"supabase.url":              {"SUPABASE_URL"},
		"supabase.key":              {"SUPABASE_KEY"},
		"supabase.jwt_secret":       {"SUPABASE_JWT_SECRET"},
		"redis.url":                 {"REDIS_URL"},
		"nats.url":                  {"NATS_URL"},
		"cors.allowed_origins":      {"ALLOWED_ORIGINS"},
		"server.read_timeout":       nil,
		"server.write_timeout":      nil,
		"server.idle_timeout":       nil,
		"server.shutdown_timeout":   nil,
		"database.max_open_conns":   nil,
		"database.connect_timeout":  nil,
		"database.migrate":          nil,
		"supabase.audience":         nil,
		"supabase.timeout":          nil,
		"supabase.max_retries":      nil,
		"supabase.cache_ttl":        nil,
		"redis.prefix":              nil,
		"nats.connection_name":      nil,
		"nats.max_reconnects":       nil,
		"nats.reconnect_wait":       nil,
		"storage.bucket":            nil,
		"storage.region":            nil,
		"storage.endpoint":          nil,
		"storage.access_key_id":     nil,
		"storage.secret_access_key": nil,
		"storage.use_path_style":    nil,
		"storage.public_base_url":   nil,
	}

	for key, extra := range aliases {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(append([]string{key, prefixed}, extra...)...)
	}
}

func loadEnv(envPath string) {
	for _, f := range []string{".env", ".env.local"} {
		_ = godotenv.Overload(filepath.Join(envPath, f)) // los posteriores pisan a los anteriores
	}
}

// splitOrigins acepta tanto lista YAML como "a,b" en una sola variable.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
