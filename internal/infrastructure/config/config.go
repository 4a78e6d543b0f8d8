package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Razorpay      RazorpayConfig      `mapstructure:"razorpay"`
	WhatsApp      WhatsAppConfig      `mapstructure:"whatsapp"`
	Resilience    ResilienceConfig    `mapstructure:"resilience"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Auth          AuthConfig          `mapstructure:"auth"`
	InstanceID    string              `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTExpiry time.Duration `mapstructure:"jwt_expiry"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SSLMode         string        `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	DB                int           `mapstructure:"db"`
	Password          string        `mapstructure:"password"`
	ConnectRetries    int           `mapstructure:"connect_retries"`
	ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
}

// RazorpayConfig holds the payment gateway credentials.
type RazorpayConfig struct {
	KeyID           string        `mapstructure:"key_id"`
	KeySecret       string        `mapstructure:"key_secret"`
	BaseURL         string        `mapstructure:"base_url"`
	DefaultCurrency string        `mapstructure:"default_currency"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// WhatsAppConfig holds the Cloud API credentials used when a salon has none of its own.
type WhatsAppConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIVersion    string        `mapstructure:"api_version"`
	PhoneNumberID string        `mapstructure:"phone_number_id"`
	AccessToken   string        `mapstructure:"access_token"`
	AppSecret     string        `mapstructure:"app_secret"`
	VerifyToken   string        `mapstructure:"verify_token"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ResilienceConfig tunes the caller-side decorators around the provider clients.
type ResilienceConfig struct {
	CircuitBreakerEnabled   bool          `mapstructure:"circuit_breaker_enabled"`
	CircuitBreakerThreshold int           `mapstructure:"circuit_breaker_threshold"`
	CircuitBreakerTimeout   time.Duration `mapstructure:"circuit_breaker_timeout"`
	ReadRetryAttempts       uint          `mapstructure:"read_retry_attempts"`
	ReadRetryDelay          time.Duration `mapstructure:"read_retry_delay"`
}

type WorkerConfig struct {
	BatchSize          int64         `mapstructure:"batch_size"`
	BlockDuration      time.Duration `mapstructure:"block_duration"`
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`
	ConsumerGroup      string        `mapstructure:"consumer_group"`
	LockTTL            time.Duration `mapstructure:"lock_ttl"`
	DispatchTimeout    time.Duration `mapstructure:"dispatch_timeout"`
	IdempotencyTTL     time.Duration `mapstructure:"idempotency_ttl"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

// providerEnv maps keys to the unprefixed variable names used by existing deployments.
var providerEnv = map[string]string{
	"razorpay.key_id":          "RAZORPAY_KEY_ID",
	"razorpay.key_secret":      "RAZORPAY_KEY_SECRET",
	"whatsapp.phone_number_id": "WHATSAPP_PHONE_NUMBER_ID",
	"whatsapp.access_token":    "WHATSAPP_ACCESS_TOKEN",
	"whatsapp.app_secret":      "WHATSAPP_APP_SECRET",
	"whatsapp.verify_token":    "WHATSAPP_VERIFY_TOKEN",
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("SALON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range providerEnv {
		prefixed := "SALON_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/radiant-salon")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("database.port must be positive"))
	}
	if c.Redis.Port <= 0 {
		errs = append(errs, fmt.Errorf("redis.port must be positive"))
	}
	if len(c.Razorpay.DefaultCurrency) != 3 {
		errs = append(errs, fmt.Errorf("razorpay.default_currency must be a 3-letter code, got %q", c.Razorpay.DefaultCurrency))
	}
	if c.Razorpay.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("razorpay.timeout must be positive"))
	}
	if c.WhatsApp.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("whatsapp.timeout must be positive"))
	}
	if c.Worker.LockTTL <= 0 {
		errs = append(errs, fmt.Errorf("worker.lock_ttl must be positive"))
	}
	if c.Worker.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("worker.batch_size must be positive"))
	}

	// Production environment checks
	env := os.Getenv("ENV")
	if env == "production" || env == "prod" {
		if c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("database.password required in production"))
		}
		if c.Auth.JWTSecret == "" {
			errs = append(errs, fmt.Errorf("auth.jwt_secret required in production"))
		}
		if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
			errs = append(errs, fmt.Errorf("razorpay.key_id and razorpay.key_secret required in production"))
		}
		if c.WhatsApp.AppSecret == "" {
			errs = append(errs, fmt.Errorf("whatsapp.app_secret required in production"))
		}
	}

	// JWT secret length validation
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least 32 characters"))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "salon")
	v.SetDefault("database.database", "salon")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.ssl_mode", "disable")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connect_retries", 5)
	v.SetDefault("redis.connect_retry_delay", "1s")

	// Provider defaults
	v.SetDefault("razorpay.base_url", "https://api.razorpay.com/v1")
	v.SetDefault("razorpay.default_currency", "INR")
	v.SetDefault("razorpay.timeout", "10s")
	v.SetDefault("whatsapp.base_url", "https://graph.facebook.com")
	v.SetDefault("whatsapp.api_version", "v18.0")
	v.SetDefault("whatsapp.timeout", "10s")

	// Resilience defaults
	v.SetDefault("resilience.circuit_breaker_enabled", true)
	v.SetDefault("resilience.circuit_breaker_threshold", 10)
	v.SetDefault("resilience.circuit_breaker_timeout", "30s")
	v.SetDefault("resilience.read_retry_attempts", 3)
	v.SetDefault("resilience.read_retry_delay", "200ms")

	// Worker defaults
	v.SetDefault("worker.batch_size", 10)
	v.SetDefault("worker.block_duration", "1s")
	v.SetDefault("worker.outbox_poll_interval", "2s")
	v.SetDefault("worker.consumer_group", "notification-dispatchers")
	v.SetDefault("worker.lock_ttl", "30s")
	v.SetDefault("worker.dispatch_timeout", "15s")
	v.SetDefault("worker.idempotency_ttl", "24h")

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", true)

	// Auth defaults
	v.SetDefault("auth.jwt_expiry", "24h")

	// Instance ID
	v.SetDefault("instance_id", "salon-1")
}

func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func (c *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MessagesURL is the send endpoint for a phone number id.
func (c *WhatsAppConfig) MessagesURL(phoneNumberID string) string {
	return fmt.Sprintf("%s/%s/%s/messages", strings.TrimRight(c.BaseURL, "/"), c.APIVersion, phoneNumberID)
}
