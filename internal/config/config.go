package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	ClientOrigins []string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	// MediaBaseURL is the public base for stored image URLs. Defaults to
	// the MinIO endpoint over http when unset.
	MediaBaseURL string
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Config{
		Env:            get("APP_ENV", "dev"),
		Port:           get("PORT", "4000"),
		MongoURI:       get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  get("MONGO_DB", "khoj"),
		JWTSecret:      get("JWT_SECRET", "changeme-secret"),
		ClientOrigins:  strings.Split(get("CLIENT_ORIGIN", "http://localhost:5173"), ","),
		MinioEndpoint:  get("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: get("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: get("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    get("MINIO_USE_SSL", "") == "true",
		MinioBucket:    get("MINIO_BUCKET", "khoj-media"),
	}

	cfg.MediaBaseURL = get("MEDIA_BASE_URL", "")
	if cfg.MediaBaseURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		cfg.MediaBaseURL = scheme + "://" + cfg.MinioEndpoint
	}
	return cfg
}

// IsDev reports whether the process runs outside production; error
// responses include detail only in that case.
func (c Config) IsDev() bool {
	return c.Env != "production" && c.Env != "prod"
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
