package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	CORS         CORSConfig
	SMTP         SMTPConfig
	Notification NotificationConfig
	Admin        AdminConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	S3           S3Config
	Digest       DigestConfig
	Push         PushConfig
	Sentry       SentryConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	Environment    string
	Timezone       string
	TrustedProxies []string
}

type DatabaseConfig struct {
	Driver   string // postgres, sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file path
}

type CORSConfig struct {
	AllowedOrigins []string
}

// SMTPConfig 메일 발송 설정
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
	Secure   bool // implicit TLS (465)
	Timeout  time.Duration
}

type NotificationConfig struct {
	Async bool
}

// AdminConfig 관리자 계정 및 토큰 설정
type AdminConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenExpiry  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Submissions int
	Window      time.Duration
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

type DigestConfig struct {
	Schedule string // cron expression, empty disables
}

type PushConfig struct {
	URLs []string
}

type SentryConfig struct {
	DSN string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			Timezone:       getEnv("APP_TIMEZONE", "Asia/Seoul"),
			TrustedProxies: parseSlice(getEnv("TRUSTED_PROXIES", "")),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "marketing_survey"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "survey.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", "마케팅 컨설팅 설문조사"),
			Secure:   parseBool(getEnv("SMTP_SECURE", "false")),
			Timeout:  parseDuration(getEnv("SMTP_TIMEOUT", "15s"), 15*time.Second),
		},
		Notification: NotificationConfig{
			Async: parseBool(getEnv("NOTIFY_ASYNC", "false")),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", "your-secret-key"),
			TokenExpiry:  parseDuration(getEnv("ADMIN_TOKEN_EXPIRY", "12h"), 12*time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		RateLimit: RateLimitConfig{
			Submissions: parseInt(getEnv("RATE_LIMIT_SUBMISSIONS", "10"), 10),
			Window:      parseDuration(getEnv("RATE_LIMIT_WINDOW", "1h"), time.Hour),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("AWS_S3_PREFIX", "surveys"),
		},
		Digest: DigestConfig{
			Schedule: getEnv("DIGEST_SCHEDULE", ""),
		},
		Push: PushConfig{
			URLs: parseSlice(getEnv("PUSH_URLS", "")),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
	}

	if config.SMTP.From == "" {
		config.SMTP.From = config.SMTP.Username
	}

	if _, err := config.Location(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Location resolves the application timezone used for exports and the digest.
func (c *Config) Location() (*time.Location, error) {
	return LoadLocation(c.Server.Timezone)
}

// LoadLocation falls back to a fixed KST zone when tzdata is unavailable.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if name == "Asia/Seoul" {
		return time.FixedZone("KST", 9*60*60), nil
	}
	return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", name, err)
}

// Enabled reports whether SMTP credentials are configured.
func (c *SMTPConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

func (c *SMTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c *S3Config) Enabled() bool {
	return c.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
