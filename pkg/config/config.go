package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	// Server
	ServerPort  string `mapstructure:"SERVER_PORT"`
	GinMode     string `mapstructure:"GIN_MODE"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	CORSOrigins []string

	// Database
	DBHost           string `mapstructure:"DB_HOST"`
	DBPort           string `mapstructure:"DB_PORT"`
	DBUser           string `mapstructure:"DB_USER"`
	DBPassword       string `mapstructure:"DB_PASSWORD"`
	DBName           string `mapstructure:"DB_NAME"`
	DBSSLMode        string `mapstructure:"DB_SSLMODE"`
	MigrateOnStartup bool   `mapstructure:"MIGRATE_ON_STARTUP"`

	// Redis
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// JWT
	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	// AWS S3
	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpoint        string `mapstructure:"AWS_ENDPOINT"`
	S3BucketName       string `mapstructure:"S3_BUCKET_NAME"`
	S3UseSSL           string `mapstructure:"S3_USE_SSL"`

	// RabbitMQ
	RabbitMQHost     string `mapstructure:"RABBITMQ_HOST"`
	RabbitMQPort     string `mapstructure:"RABBITMQ_PORT"`
	RabbitMQUser     string `mapstructure:"RABBITMQ_USER"`
	RabbitMQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	// Payments
	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`

	// Firebase
	FirebaseProjectID            string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Limits and caching
	RateLimitPerMinute int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	StatsCacheTTL      time.Duration `mapstructure:"STATS_CACHE_TTL"`
}

var defaults = map[string]interface{}{
	"SERVER_PORT":        "5000",
	"GIN_MODE":           "release",
	"LOG_LEVEL":          "info",
	"CORS_ORIGINS":       "http://localhost:5173,http://localhost:3000",
	"DB_HOST":            "localhost",
	"DB_PORT":            "5432",
	"DB_USER":            "postgres",
	"DB_PASSWORD":        "postgres",
	"DB_NAME":            "stackvault",
	"DB_SSLMODE":         "disable",
	"MIGRATE_ON_STARTUP": true,

	"REDIS_HOST":     "localhost",
	"REDIS_PORT":     "6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"JWT_SECRET": DefaultJWTSecret,
	"JWT_TTL":    "24h",

	"AWS_REGION":            "us-east-1",
	"AWS_ACCESS_KEY_ID":     "",
	"AWS_SECRET_ACCESS_KEY": "",
	"AWS_ENDPOINT":          "",
	"S3_BUCKET_NAME":        "stackvault-media",
	"S3_USE_SSL":            "true",

	"RABBITMQ_HOST":     "localhost",
	"RABBITMQ_PORT":     "5672",
	"RABBITMQ_USER":     "guest",
	"RABBITMQ_PASSWORD": "guest",

	"STRIPE_SECRET_KEY": "",

	"FIREBASE_PROJECT_ID":            "",
	"GOOGLE_APPLICATION_CREDENTIALS": "",

	"RATE_LIMIT_PER_MINUTE": 100,
	"STATS_CACHE_TTL":       "5m",
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	return &cfg, nil
}

// DSN builds the postgres connection string used by gorm and goose.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func (c *Config) RabbitMQURL() string {
	return "amqp://" + c.RabbitMQUser + ":" + c.RabbitMQPassword + "@" + c.RabbitMQHost + ":" + c.RabbitMQPort + "/"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
