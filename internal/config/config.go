package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server ServerConfig
	Neo4j  Neo4jConfig
	JWT    JWTConfig
	Auth   AuthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

type JWTConfig struct {
	Secret string
}

type AuthConfig struct {
	// SaltRounds is the bcrypt cost factor used when hashing passwords.
	SaltRounds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("APP_HOST", "0.0.0.0")
	viper.SetDefault("APP_ENVIRONMENT", "development")
	viper.SetDefault("NEO4J_URI", "neo4j://localhost:7687")
	viper.SetDefault("NEO4J_USERNAME", "neo4j")
	viper.SetDefault("NEO4J_DATABASE", "")
	viper.SetDefault("NEO4J_TIMEOUT", 10)
	viper.SetDefault("SALT_ROUNDS", 10)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("APP_PORT"),
			Host:         viper.GetString("APP_HOST"),
			Environment:  viper.GetString("APP_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Neo4j: Neo4jConfig{
			URI:      viper.GetString("NEO4J_URI"),
			Username: viper.GetString("NEO4J_USERNAME"),
			Password: os.Getenv("NEO4J_PASSWORD"),
			Database: viper.GetString("NEO4J_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("NEO4J_TIMEOUT")) * time.Second,
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		Auth: AuthConfig{
			SaltRounds: viper.GetInt("SALT_ROUNDS"),
		},
	}

	// Basic validation
	if cfg.JWT.Secret == "" {
		log.Println("WARNING: JWT_SECRET is not set; set a secure value in production")
	}

	return cfg, nil
}
