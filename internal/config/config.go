package config

import (
	"fmt"
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
	ServerPort string

	// AuthCheckCredentials switches login between the pure mock
	// (any well-formed credentials accepted) and the variant that
	// verifies the password hash against the users table.
	AuthCheckCredentials bool

	// SeedDB wipes and repopulates demo users and tasks on startup.
	SeedDB bool
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "taskapi_user"),
		DBPassword:           getEnv("DB_PASSWORD", "taskapi_pass"),
		DBName:               getEnv("DB_NAME", "taskapi_db"),
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		AuthCheckCredentials: getBoolEnv("AUTH_CHECK_CREDENTIALS", true),
		SeedDB:               getBoolEnv("SEED_DB", false),
	}
}

// DSN returns the keyword/value connection string used by GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// DatabaseURL returns the URL form expected by golang-migrate.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal
	}
	return parsed
}
