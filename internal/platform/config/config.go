package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ViewCacheTTL time.Duration

	// AdminEmails is the allow-list that decides the ADMIN role once at
	// user-creation time. Parsed here and passed explicitly into the auth
	// service so role assignment never reads ambient process state.
	AdminEmails []string

	BlobAccountID       string
	BlobAccessKeyID     string
	BlobAccessKeySecret string
	BlobBucket          string
	BlobPublicBaseURL   string
	BlobPresignTTL      time.Duration
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:       getEnv("API_PORT", "8080"),
		JWTKey:        []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:        time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 168)) * time.Hour,
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "user"),
		DBPassword:    getEnv("DB_PASSWORD", "password"),
		DBName:        getEnv("DB_NAME", "vibebench_db"),
		DBSslMode:     getEnv("DB_SSLMODE", "disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ViewCacheTTL: time.Duration(getEnvAsInt("VIEW_CACHE_TTL_SECONDS", 30)) * time.Second,

		AdminEmails: splitAndTrim(getEnv("ADMIN_EMAILS", "")),

		BlobAccountID:       getEnv("BLOB_ACCOUNT_ID", ""),
		BlobAccessKeyID:     getEnv("BLOB_ACCESS_KEY_ID", ""),
		BlobAccessKeySecret: getEnv("BLOB_ACCESS_KEY_SECRET", ""),
		BlobBucket:          getEnv("BLOB_BUCKET_NAME", "vibebench-chatlogs"),
		BlobPublicBaseURL:   getEnv("BLOB_PUBLIC_BASE_URL", ""),
		BlobPresignTTL:      time.Duration(getEnvAsInt("BLOB_PRESIGN_TTL_SECONDS", 300)) * time.Second,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func splitAndTrim(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
