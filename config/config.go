package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// R2Config - параметры Cloudflare R2. Если AccountID пуст, файлы пишутся на локальный диск.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != ""
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	CORSOrigins  []string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	UploadDir     string
	MaxUploadSize int64
	R2            R2Config

	// Запросов в секунду на клиента для /auth/*.
	AuthRateLimit float64
	AuthRateBurst int

	SeedOnStart   bool
	AdminEmail    string
	AdminPassword string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	accessTTL, err := durationEnv("ACCESS_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := durationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	if refreshTTL < accessTTL {
		return nil, fmt.Errorf("REFRESH_TOKEN_TTL (%s) must not be shorter than ACCESS_TOKEN_TTL (%s)", refreshTTL, accessTTL)
	}

	maxUpload, err := intEnv("MAX_UPLOAD_SIZE", 10*1024*1024)
	if err != nil {
		return nil, err
	}
	if maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", maxUpload)
	}

	rateLimit, err := floatEnv("AUTH_RATE_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	rateBurst, err := intEnv("AUTH_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}

	seed, err := boolEnv("SEED_ON_START", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:     dbURL,
		JWTSecretKey:    jwtKey,
		ServerPort:      port,
		CORSOrigins:     splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
		UploadDir:       getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:   int64(maxUpload),
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		AuthRateLimit: rateLimit,
		AuthRateBurst: rateBurst,
		SeedOnStart:   seed,
		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", "admin@x5.ru"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.SeedOnStart && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be set when SEED_ON_START is enabled")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return v, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
