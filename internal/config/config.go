package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName    string          `mapstructure:"APP_NAME"`
	AppVersion string          `mapstructure:"APP_VERSION"`
	LogLevel   string          `mapstructure:"LOG_LEVEL"`
	Server     ServerConfig    `mapstructure:"SERVER"`
	Database   DatabaseConfig  `mapstructure:"DATABASE"`
	Redis      RedisConfig     `mapstructure:"REDIS"`
	Auth       AuthConfig      `mapstructure:"AUTH"`
	TwoFactor  TwoFactorConfig `mapstructure:"TWO_FACTOR"`
	Password   PasswordConfig  `mapstructure:"PASSWORD"`
	Avatar     AvatarConfig    `mapstructure:"AVATAR"`
	Kafka      KafkaConfig     `mapstructure:"KAFKA"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Host           string        `mapstructure:"HOST"`
	Port           string        `mapstructure:"PORT"`
	ReadTimeout    time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"WRITE_TIMEOUT"`
	MaxHeaderBytes int           `mapstructure:"MAX_HEADER_BYTES"`
	CORS           CORSConfig    `mapstructure:"CORS"`
}

// CORSConfig holds configuration for CORS.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `mapstructure:"ALLOWED_METHODS"`
	AllowedHeaders   []string `mapstructure:"ALLOWED_HEADERS"`
	ExposedHeaders   []string `mapstructure:"EXPOSED_HEADERS"`
	AllowCredentials bool     `mapstructure:"ALLOW_CREDENTIALS"`
	MaxAge           int      `mapstructure:"MAX_AGE"`
}

// DatabaseConfig holds configuration for the database.
type DatabaseConfig struct {
	Type     string `mapstructure:"TYPE"` // "postgres" or "sqlite"
	Host     string `mapstructure:"HOST"`
	Port     int    `mapstructure:"PORT"`
	User     string `mapstructure:"USER"`
	Password string `mapstructure:"PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"SSL_MODE"`
	Path     string `mapstructure:"PATH"` // sqlite only
}

// RedisConfig holds configuration for Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"ADDR"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
}

// AuthConfig holds configuration for authentication (e.g., JWT).
type AuthConfig struct {
	JWTSecretKey string        `mapstructure:"JWT_SECRET_KEY"`
	JWTExpiry    time.Duration `mapstructure:"JWT_EXPIRY"`
}

// TwoFactorConfig holds configuration for TOTP enrollment.
type TwoFactorConfig struct {
	Issuer string `mapstructure:"ISSUER"`
}

// PasswordConfig holds the password complexity policy knobs.
type PasswordConfig struct {
	MinLength  int     `mapstructure:"MIN_LENGTH"`
	MaxLength  int     `mapstructure:"MAX_LENGTH"`
	MinEntropy float64 `mapstructure:"MIN_ENTROPY"`
}

// AvatarConfig holds the avatar upload constraints enforced at the HTTP
// boundary.
type AvatarConfig struct {
	MaxSizeBytes int64    `mapstructure:"MAX_SIZE_BYTES"`
	AllowedTypes []string `mapstructure:"ALLOWED_TYPES"`
}

// KafkaConfig holds configuration for the friendship event producer.
// Leaving Brokers empty disables event publishing.
type KafkaConfig struct {
	Brokers              []string `mapstructure:"BROKERS"`
	ClientID             string   `mapstructure:"CLIENT_ID"`
	FriendshipEventTopic string   `mapstructure:"FRIENDSHIP_EVENT_TOPIC"`
	Protocol             string   `mapstructure:"PROTOCOL"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	v.SetDefault("APP_NAME", "social-go")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("LOG_LEVEL", "info")

	// Server defaults
	v.SetDefault("SERVER.HOST", "0.0.0.0")
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER.WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER.MAX_HEADER_BYTES", 1<<20) // 1 MB
	v.SetDefault("SERVER.CORS.ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("SERVER.CORS.ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("SERVER.CORS.ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"})
	v.SetDefault("SERVER.CORS.EXPOSED_HEADERS", []string{"Content-Length"})
	v.SetDefault("SERVER.CORS.ALLOW_CREDENTIALS", true)
	v.SetDefault("SERVER.CORS.MAX_AGE", 300)

	// Database defaults (PostgreSQL)
	v.SetDefault("DATABASE.TYPE", "postgres")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "password")
	v.SetDefault("DATABASE.DB_NAME", "social_go_db")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.PATH", "./social.db")

	// Redis defaults
	v.SetDefault("REDIS.ADDR", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)

	// Auth defaults
	v.SetDefault("AUTH.JWT_SECRET_KEY", "a_very_secret_key_that_should_be_changed")
	v.SetDefault("AUTH.JWT_EXPIRY", 15*time.Minute)

	// Two-factor defaults
	v.SetDefault("TWO_FACTOR.ISSUER", "social-go")

	// Password policy defaults
	v.SetDefault("PASSWORD.MIN_LENGTH", 8)
	v.SetDefault("PASSWORD.MAX_LENGTH", 64)
	v.SetDefault("PASSWORD.MIN_ENTROPY", 50.0)

	// Avatar defaults
	v.SetDefault("AVATAR.MAX_SIZE_BYTES", int64(2<<20)) // 2 MB
	v.SetDefault("AVATAR.ALLOWED_TYPES", []string{"image/jpeg", "image/png", "image/gif"})

	// Kafka defaults: no brokers means events are disabled
	v.SetDefault("KAFKA.BROKERS", []string{})
	v.SetDefault("KAFKA.CLIENT_ID", "social-go")
	v.SetDefault("KAFKA.FRIENDSHIP_EVENT_TOPIC", "social-friendship-events")
	v.SetDefault("KAFKA.PROTOCOL", "plaintext")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return
		}
		// Config file not found; defaults plus environment cover everything
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
