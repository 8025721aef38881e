package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

const defaultJWTSecret = "change-me-domain-market-secret"

type Config struct {
	ServiceName           string        `mapstructure:"SERVICE_NAME"`
	GRPCPort              string        `mapstructure:"GRPC_PORT"`
	HTTPPort              string        `mapstructure:"HTTP_PORT"`
	ListingServiceAddress string        `mapstructure:"LISTING_SERVICE_ADDRESS"`
	MongoURI              string        `mapstructure:"MONGO_URI"`
	MongoDatabase         string        `mapstructure:"MONGO_DATABASE"`
	RedisAddress          string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword         string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB               int           `mapstructure:"REDIS_DB"`
	NATSURL               string        `mapstructure:"NATS_URL"`
	MinIOEndpoint         string        `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey        string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey        string        `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket           string        `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL           bool          `mapstructure:"MINIO_USE_SSL"`
	JWTSecret             string        `mapstructure:"JWT_SECRET"`
	PrometheusMetricsPort string        `mapstructure:"PROMETHEUS_METRICS_PORT"`
	OTELEndpoint          string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SMTPHost              string        `mapstructure:"SMTP_HOST"`
	SMTPPort              int           `mapstructure:"SMTP_PORT"`
	SMTPUsername          string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword          string        `mapstructure:"SMTP_PASSWORD"`
	SMTPSender            string        `mapstructure:"SMTP_SENDER_EMAIL"`
	DNSVerifyURL          string        `mapstructure:"DNS_VERIFY_URL"`
	DNSVerifyRPS          float64       `mapstructure:"DNS_VERIFY_RPS"`
	GatewayOfferRPS       float64       `mapstructure:"GATEWAY_OFFER_RPS"`
	FeedSessionTTL        time.Duration `mapstructure:"FEED_SESSION_TTL"`
	ListingCacheTTL       time.Duration `mapstructure:"LISTING_CACHE_TTL"`
	CatalogSource         string        `mapstructure:"CATALOG_SOURCE"`
	CatalogSeedSize       int           `mapstructure:"CATALOG_SEED_SIZE"`
	CatalogSeed           uint64        `mapstructure:"CATALOG_SEED"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "domain-market")
	v.SetDefault("GRPC_PORT", "50052")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LISTING_SERVICE_ADDRESS", "localhost:50052")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "domain_market")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "listing-logos")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9092")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER_EMAIL", "noreply@domain-market.local")
	v.SetDefault("DNS_VERIFY_URL", "")
	v.SetDefault("DNS_VERIFY_RPS", 5.0)
	v.SetDefault("GATEWAY_OFFER_RPS", 10.0)
	v.SetDefault("FEED_SESSION_TTL", "30m")
	v.SetDefault("LISTING_CACHE_TTL", "1h")
	v.SetDefault("CATALOG_SOURCE", "mongo")
	v.SetDefault("CATALOG_SEED_SIZE", 1000)
	v.SetDefault("CATALOG_SEED", 1)
}

// Load reads an optional .env file, then environment variables over defaults.
func Load(appLogger *logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		appLogger.Debug("No .env file loaded, relying on environment variables", zap.Error(err))
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.CatalogSource = strings.ToLower(strings.TrimSpace(cfg.CatalogSource))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == defaultJWTSecret {
		appLogger.Warn("JWT_SECRET is set to its default insecure value. Set a strong secret in the environment.")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("minio_endpoint", cfg.MinIOEndpoint),
		zap.String("catalog_source", cfg.CatalogSource),
		zap.Bool("otel_enabled", cfg.OTELEndpoint != ""),
		zap.Bool("smtp_enabled", cfg.SMTPHost != ""),
	)
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.GRPCPort == "" {
		errs = append(errs, errors.New("GRPC_PORT is required"))
	}
	switch c.CatalogSource {
	case "mongo":
		if c.MongoURI == "" || c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DATABASE are required when CATALOG_SOURCE=mongo"))
		}
	case "generated":
		if c.CatalogSeedSize <= 0 {
			errs = append(errs, errors.New("CATALOG_SEED_SIZE must be positive when CATALOG_SOURCE=generated"))
		}
	default:
		errs = append(errs, fmt.Errorf("CATALOG_SOURCE %q must be mongo or generated", c.CatalogSource))
	}
	if c.FeedSessionTTL <= 0 {
		errs = append(errs, errors.New("FEED_SESSION_TTL must be positive"))
	}
	if c.DNSVerifyRPS <= 0 {
		errs = append(errs, errors.New("DNS_VERIFY_RPS must be positive"))
	}
	if c.GatewayOfferRPS <= 0 {
		errs = append(errs, errors.New("GATEWAY_OFFER_RPS must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
