package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	Port    string
	APP_URL string
	APP_ENV string

	AppAuthKey string
	AppEncKey  string
	CSRFKey    string
	JWTSecret  string

	EmailHost     string
	EmailPort     int
	EmailUsername string
	EmailPassword string
	EmailFrom     string

	SessionBackend string
	RedisAddr      string
	RedisPassword  string

	MediaRoot   string
	TemplateDir string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func (e ENV) IsProduction() bool {
	return e.APP_ENV == "production"
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:     getenv("DB_HOST", "127.0.0.1"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getenv("DB_PORT", "3306"),

		Port:    getenv("APP_PORT", "8000"),
		APP_URL: getenv("APP_URL", "http://localhost:8000"),
		APP_ENV: getenv("APP_ENV", "development"),

		AppAuthKey: os.Getenv("APP_AUTH_KEY"),
		AppEncKey:  os.Getenv("APP_ENC_KEY"),
		CSRFKey:    os.Getenv("CSRF_KEY"),
		JWTSecret:  os.Getenv("JWT_SECRET"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getenvInt("EMAIL_PORT", 587),
		EmailUsername: os.Getenv("EMAIL_USERNAME"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getenv("EMAIL_FROM", os.Getenv("EMAIL_USERNAME")),

		SessionBackend: getenv("SESSION_BACKEND", "cookie"),
		RedisAddr:      getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),

		MediaRoot:   getenv("MEDIA_ROOT", "media"),
		TemplateDir: getenv("TEMPLATE_DIR", "templates"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getenv("MINIO_BUCKET", "bigcorp-media"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

var LoadENV = LoadEnv()
