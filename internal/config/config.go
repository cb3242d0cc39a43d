package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/utils"
)

type Config struct {
	Port string `yaml:"port"`

	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresName     string `yaml:"postgres_name"`

	RedisAddr      string        `yaml:"redis_addr"`
	StatusCacheTTL time.Duration `yaml:"status_cache_ttl"`

	ComputeServiceURL     string        `yaml:"compute_service_url"`
	ComputeServiceTimeout time.Duration `yaml:"compute_service_timeout"`
	ScoringServiceURL     string        `yaml:"scoring_service_url"`

	JWTSecretKey string `yaml:"jwt_secret_key"`
}

// Load reads an optional YAML file named by CONFIG_FILE, then lets
// environment variables override every field. Env wins so deployments can
// patch a single value without shipping a new file.
func Load(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:                  "8080",
		PostgresHost:          "localhost",
		PostgresPort:          "5432",
		PostgresUser:          "postgres",
		PostgresName:          "adivirtus",
		StatusCacheTTL:        2 * time.Second,
		ComputeServiceTimeout: 3 * time.Second,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
	cfg.PostgresHost = utils.GetEnv("POSTGRES_HOST", cfg.PostgresHost, log)
	cfg.PostgresPort = utils.GetEnv("POSTGRES_PORT", cfg.PostgresPort, log)
	cfg.PostgresUser = utils.GetEnv("POSTGRES_USER", cfg.PostgresUser, log)
	cfg.PostgresPassword = utils.GetEnv("POSTGRES_PASSWORD", cfg.PostgresPassword, log)
	cfg.PostgresName = utils.GetEnv("POSTGRES_NAME", cfg.PostgresName, log)
	cfg.RedisAddr = utils.GetEnv("REDIS_ADDR", cfg.RedisAddr, log)
	cfg.ComputeServiceURL = utils.GetEnv("COMPUTE_SERVICE_URL", cfg.ComputeServiceURL, log)
	cfg.ScoringServiceURL = utils.GetEnv("SCORING_SERVICE_URL", cfg.ScoringServiceURL, log)
	cfg.JWTSecretKey = utils.GetEnv("JWT_SECRET_KEY", cfg.JWTSecretKey, log)

	if secs := utils.GetEnvAsInt("STATUS_CACHE_TTL_SECONDS", 0, log); secs > 0 {
		cfg.StatusCacheTTL = time.Duration(secs) * time.Second
	}
	if secs := utils.GetEnvAsInt("COMPUTE_SERVICE_TIMEOUT_SECONDS", 0, log); secs > 0 {
		cfg.ComputeServiceTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresName)
}
