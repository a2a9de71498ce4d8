package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime knob the server reads from the environment.
type Config struct {
	Env  string // "development" or "release"
	Port string

	Database Database
	JWT      JWT
	SMTP     SMTP

	NewsletterInterval time.Duration
	LogFile            string
}

type Database struct {
	Host string
	Port int
	User string
	Pass string
	Name string

	// Small fixed pool: the deployment target is serverless-ish, so we
	// keep at most a handful of concurrent connections and recycle idle
	// ones quickly.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		d.Host, d.User, d.Pass, d.Name, d.Port)
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Load reads .env (if present) and materializes the Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	return &Config{
		Env:  envStr("APP_ENV", "development"),
		Port: envStr("PORT", "8080"),
		Database: Database{
			Host:            envStr("DB_HOST", "localhost"),
			Port:            envInt("DB_PORT", 5432),
			User:            envStr("DB_USER", "postgres"),
			Pass:            envStr("DB_PASS", "password"),
			Name:            envStr("DB_NAME", "jobboard"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: envDur("DB_CONN_MAX_IDLE_TIME", time.Minute),
		},
		JWT: JWT{
			Secret: envStr("JWT_SECRET", "dev-only-secret"),
			TTL:    envDur("JWT_TTL", 24*time.Hour),
		},
		SMTP: SMTP{
			Host: envStr("SMTP_HOST", "localhost"),
			Port: envInt("SMTP_PORT", 587),
			User: envStr("SMTP_USER", ""),
			Pass: envStr("SMTP_PASS", ""),
			From: envStr("SMTP_FROM", "no-reply@nichejobboard.local"),
		},
		NewsletterInterval: envDur("NEWSLETTER_INTERVAL", time.Minute),
		LogFile:            envStr("LOG_FILE", ""),
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, v, def)
		return def
	}
	return d
}
