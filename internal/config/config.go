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

	RedisURL string

	SessionMaxAge int // seconds

	CatalogAPIURL     string
	CatalogAPIKey     string
	CatalogTimeout    int // seconds
	CatalogPageSize   int
	CatalogRatePerSec float64
	CatalogRateBurst  int

	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3PublicURL       string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	sessionMaxAge, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE"))
	if err != nil || sessionMaxAge <= 0 {
		sessionMaxAge = 86400
	}

	catalogTimeout, err := strconv.Atoi(os.Getenv("CATALOG_TIMEOUT"))
	if err != nil || catalogTimeout <= 0 {
		catalogTimeout = 10
	}

	catalogPageSize, err := strconv.Atoi(os.Getenv("CATALOG_PAGE_SIZE"))
	if err != nil || catalogPageSize <= 0 {
		catalogPageSize = 50
	}

	catalogRate, err := strconv.ParseFloat(os.Getenv("CATALOG_RATE_PER_SEC"), 64)
	if err != nil || catalogRate <= 0 {
		catalogRate = 5
	}

	catalogBurst, err := strconv.Atoi(os.Getenv("CATALOG_RATE_BURST"))
	if err != nil || catalogBurst <= 0 {
		catalogBurst = 10
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,

		ServerPort: serverPort,

		RedisURL: redisURL,

		SessionMaxAge: sessionMaxAge,

		CatalogAPIURL:     os.Getenv("CATALOG_API_URL"),
		CatalogAPIKey:     os.Getenv("CATALOG_API_KEY"),
		CatalogTimeout:    catalogTimeout,
		CatalogPageSize:   catalogPageSize,
		CatalogRatePerSec: catalogRate,
		CatalogRateBurst:  catalogBurst,

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3BucketName:      os.Getenv("S3_BUCKET_NAME"),
		S3PublicURL:       os.Getenv("S3_PUBLIC_URL"),
	}, nil
}
