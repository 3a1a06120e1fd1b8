package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Session cookie carrying the JWT for browser clients
	CookieName string

	// Inference service (OpenAI-compatible chat completions)
	AIAPIKey      string
	AIAPIURL      string
	AIModel       string
	AIVisionModel string
	AITimeout     time.Duration

	// Server
	Port            string
	CORSOrigins     string
	CORSCredentials bool
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "nutrition_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "nutrition.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "72h"), 72*time.Hour),

		CookieName: getEnv("COOKIE_NAME", "jwt"),

		AIAPIKey:      getEnv("AI_API_KEY", ""),
		AIAPIURL:      getEnv("AI_API_URL", "https://api.z.ai/api/paas/v4/chat/completions"),
		AIModel:       getEnv("AI_MODEL", "glm-4-flash"),
		AIVisionModel: getEnv("AI_VISION_MODEL", "glm-4v-plus"),
		AITimeout:     parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		Port:            getEnv("PORT", "3000"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		CORSCredentials: getEnv("CORS_CREDENTIALS", "true") != "false",
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

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
