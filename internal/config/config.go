package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string
	JWTSecret  string

	UploadDir   string
	MaxUploadMB int64

	Env        string
	CORSOrigin string
}

var GlobalConfig *Config

func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := getEnv("ENV", "development") // development | production

	// Production deployments must set DB credentials explicitly;
	// development falls back to a local postgres.
	var dbHost, dbUser, dbPassword, dbName, dbSSLMode string
	if env == "production" {
		dbHost = getEnv("DB_HOST", "")
		dbUser = getEnv("DB_USER", "")
		dbPassword = getEnv("DB_PASSWORD", "")
		dbName = getEnv("DB_NAME", "")
		dbSSLMode = getEnv("DB_SSLMODE", "require")
	} else {
		dbHost = getEnv("DB_HOST", "localhost")
		dbUser = getEnv("DB_USER", "postgres")
		dbPassword = getEnv("DB_PASSWORD", "password")
		dbName = getEnv("DB_NAME", "tunex")
		dbSSLMode = getEnv("DB_SSLMODE", "disable")
	}

	maxUploadMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "32"), 10, 64)
	if err != nil || maxUploadMB <= 0 {
		maxUploadMB = 32
	}

	GlobalConfig = &Config{
		DBHost:     dbHost,
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     dbUser,
		DBPassword: dbPassword,
		DBName:     dbName,
		DBSSLMode:  dbSSLMode,

		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "default-jwt-secret-change-in-production"),

		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadMB: maxUploadMB,

		Env:        env,
		CORSOrigin: getEnv("CORS_ORIGIN", ""),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
