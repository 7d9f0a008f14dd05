package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT (tokens are issued by the monolith; we only verify)
	JWTSecret string

	// Monolith GraphQL API
	MonolithURL     string
	MonolithAPIKey  string
	MonolithTimeout time.Duration

	// Evidence storage (GCS)
	GCSProjectID   string
	GCSBucket      string
	GCSKeyFile     string
	EvidencePrefix string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "activos_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MonolithURL:     getEnv("MONOLITH_URL", "http://localhost:4000/graphql"),
		MonolithAPIKey:  getEnv("MONOLITH_API_KEY", ""),
		MonolithTimeout: parseDuration(getEnv("MONOLITH_TIMEOUT", "30s")),

		GCSProjectID:   getEnv("GCS_PROJECT_ID", ""),
		GCSBucket:      getEnv("GCS_BUCKET", ""),
		GCSKeyFile:     getEnv("GCS_KEY_FILE", ""),
		EvidencePrefix: getEnv("EVIDENCE_PREFIX", "evidencias/activos-fijos/reportes"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
