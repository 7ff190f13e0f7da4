package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	MongoURI     string
	DatabaseName string

	JWTSecret string

	UploadPublicKey  string
	UploadPrivateKey string
	UploadEndpoint   string
	UploadTokenTTL   time.Duration

	MaxUploadSize int64

	TrashRetention     time.Duration
	TrashPurgeInterval time.Duration

	AllowedOrigins []string
}

var AppConfig *Config

func LoadConfig() {
	AppConfig = &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "nimbusdrive"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		UploadPublicKey:  getUploadPublicKey(),
		UploadPrivateKey: getUploadPrivateKey(),
		UploadEndpoint:   getEnv("UPLOAD_ENDPOINT", "https://upload.imagekit.io/api/v1/files/upload"),
		UploadTokenTTL:   parseDuration(getEnv("UPLOAD_TOKEN_TTL", "10m")),

		MaxUploadSize: parseInt64(getEnv("MAX_UPLOAD_SIZE", "52428800")), // 50 MiB

		TrashRetention:     parseDuration(getEnv("TRASH_RETENTION", "720h")), // 30 days
		TrashPurgeInterval: parseDuration(getEnv("TRASH_PURGE_INTERVAL", "1h")),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	logConfig()
	validateConfig()
}

func getUploadPublicKey() string {
	possibleKeys := []string{"UPLOAD_PUBLIC_KEY", "IMAGEKIT_PUBLIC_KEY"}
	for _, key := range possibleKeys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getUploadPrivateKey() string {
	possibleKeys := []string{"UPLOAD_PRIVATE_KEY", "IMAGEKIT_PRIVATE_KEY"}
	for _, key := range possibleKeys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func logConfig() {
	log.Println("Configuration loaded:")
	log.Printf("  Port: %s", AppConfig.Port)
	log.Printf("  Environment: %s", AppConfig.Env)
	log.Printf("  Database: %s", AppConfig.DatabaseName)
	log.Printf("  MongoDB URI: %s", maskConnectionString(AppConfig.MongoURI))
	log.Printf("  JWT Secret: %s", maskSecret(AppConfig.JWTSecret))
	log.Printf("  Upload Public Key: %s", maskSecret(AppConfig.UploadPublicKey))
	log.Printf("  Upload Endpoint: %s", AppConfig.UploadEndpoint)
	log.Printf("  Max Upload Size: %d bytes", AppConfig.MaxUploadSize)
	log.Printf("  Trash Retention: %v", AppConfig.TrashRetention)
	log.Printf("  Trash Purge Interval: %v", AppConfig.TrashPurgeInterval)
	log.Printf("  Allowed Origins: %v", AppConfig.AllowedOrigins)
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func maskConnectionString(uri string) string {
	if uri == "" {
		return "[NOT SET]"
	}
	if strings.Contains(uri, "@") {
		parts := strings.Split(uri, "@")
		if len(parts) >= 2 {
			return "[CREDENTIALS_HIDDEN]@" + parts[len(parts)-1]
		}
	}
	return uri
}

func validateConfig() {
	var missingVars []string

	required := map[string]string{
		"MONGO_URI":          AppConfig.MongoURI,
		"JWT_SECRET":         AppConfig.JWTSecret,
		"UPLOAD_PUBLIC_KEY":  AppConfig.UploadPublicKey,
		"UPLOAD_PRIVATE_KEY": AppConfig.UploadPrivateKey,
	}

	for key, value := range required {
		if value == "" {
			missingVars = append(missingVars, key)
		}
	}

	if len(missingVars) > 0 {
		log.Printf("Missing required environment variables: %v", missingVars)
		log.Fatal("Please set all required environment variables")
	}

	log.Println("All required environment variables are set")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt64(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("Failed to parse int64: %s", s)
	}
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Failed to parse duration: %s", s)
	}
	return d
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
