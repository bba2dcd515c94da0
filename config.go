package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/database"
	awspkg "github.com/puneetkushwaha/Mom-sKitchen-Backend/pkg/aws"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/sender"
)

// Config holds all configuration for the kitchen API.
type Config struct {
	Port   string
	AppEnv string

	DB       database.Config
	RedisURL string

	JWTSecret string
	JWTTTL    time.Duration

	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int

	AWS                 awspkg.Options
	UseSecrets          bool
	DBSecretName        string
	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string

	// Order events go to Kafka when brokers are set, otherwise to SNS.
	OrderSNSTopicARN string
	KafkaBrokers     []string
	KafkaOrderTopic  string

	// Payment events are consumed from SQS when a queue is set, otherwise
	// from Kafka when a payment topic is set.
	PaymentQueueURL   string
	PaymentQueueName  string
	KafkaPaymentTopic string
	KafkaGroupID      string

	StripeSecretKey     string
	StripeWebhookSecret string

	SMTP   sender.SMTPConfig
	Twilio sender.TwilioConfig

	AdminPhone        string
	KitchenName       string
	FrontendURL       string
	StrictTransitions bool
	NotifyDedupTTL    time.Duration
	NotifyTimeout     time.Duration
}

// ExposeDebugOTP reports whether login codes may be echoed in API responses.
func (c *Config) ExposeDebugOTP() bool {
	return c.AppEnv == "development"
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads configuration from environment variables (and .env when
// present) with optional Secrets Manager override of the DB credentials.
func LoadConfig(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:   getEnv("PORT", "5000"),
		AppEnv: getEnv("APP_ENV", "development"),
		DB: database.Config{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Name:     os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		},
		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 720)) * time.Hour,

		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 50),

		AWS: awspkg.Options{
			Region:   getEnv("AWS_REGION", "ap-south-1"),
			Endpoint: os.Getenv("AWS_ENDPOINT"),
		},
		UseSecrets:          os.Getenv("AWS_USE_SECRETS") == "true",
		DBSecretName:        getEnv("DB_SECRET_NAME", "cloud-kitchen/DB_CREDENTIALS"),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "CloudKitchen"),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/cloud-kitchen/api"),

		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:  getEnv("KAFKA_ORDER_TOPIC", "order-events"),

		PaymentQueueURL:   os.Getenv("PAYMENT_QUEUE_URL"),
		PaymentQueueName:  os.Getenv("PAYMENT_QUEUE_NAME"),
		KafkaPaymentTopic: os.Getenv("KAFKA_PAYMENT_TOPIC"),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "kitchen-api"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		SMTP: sender.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Twilio: sender.TwilioConfig{
			AccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber:   os.Getenv("TWILIO_PHONE_NUMBER"),
			WhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		},

		AdminPhone:        os.Getenv("ADMIN_PHONE"),
		KitchenName:       getEnv("KITCHEN_NAME", "Cloud Kitchen"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		StrictTransitions: os.Getenv("ORDER_STRICT_TRANSITIONS") == "true",
		NotifyDedupTTL:    time.Duration(getEnvInt("NOTIFY_DEDUP_TTL_HOURS", 168)) * time.Hour,
		NotifyTimeout:     getEnvDuration("NOTIFY_TIMEOUT", 5*time.Second),
	}

	// Override DB credentials from Secrets Manager when running on AWS
	if cfg.UseSecrets {
		awsCfg, err := awspkg.LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		creds, err := awspkg.NewSecretsClient(awsCfg).GetSecretMap(ctx, cfg.DBSecretName)
		if err != nil {
			return nil, err
		}
		applyDBSecret(&cfg.DB, creds)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDBSecret(db *database.Config, m map[string]string) {
	for key, dst := range map[string]*string{
		"POSTGRES_USER":     &db.User,
		"POSTGRES_PASSWORD": &db.Password,
		"POSTGRES_DB":       &db.Name,
		"POSTGRES_HOST":     &db.Host,
		"POSTGRES_PORT":     &db.Port,
	} {
		if v := m[key]; v != "" {
			*dst = v
		}
	}
}

func (c *Config) validate() error {
	if c.DB.User == "" || c.DB.Password == "" || c.DB.Name == "" || c.DB.Host == "" {
		return fmt.Errorf("database config incomplete")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
