package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Supported storage drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT" env-default:"8000"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE" env-default:"development"`
		CookieSecure   bool     `yaml:"cookie_secure" env:"SERVER_COOKIE_SECURE"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"mongo"`

		Mongo struct {
			URI            string        `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
			Database       string        `yaml:"database" env:"MONGO_DATABASE" env-default:"examprep"`
			ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
		} `yaml:"mongo"`

		Postgres struct {
			Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
			Port            string        `yaml:"port" env:"DB_PORT" env-default:"5432"`
			User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
			Password        string        `yaml:"password" env:"DB_PASSWORD"`
			DBName          string        `yaml:"dbname" env:"DB_NAME" env-default:"examprep"`
			SSLMode         string        `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
			MaxConns        int32         `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"20"`
			MinConns        int32         `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"2"`
			ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
		} `yaml:"postgres"`
	} `yaml:"database"`

	JWT struct {
		Secret     string        `yaml:"secret" env:"JWT_SECRET"`
		Expiration time.Duration `yaml:"expiration" env:"JWT_EXPIRATION" env-default:"168h"`
		Issuer     string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"examprep"`
	} `yaml:"jwt"`

	Security struct {
		BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
	} `yaml:"security"`

	Content struct {
		Subjects []string      `yaml:"subjects" env:"CONTENT_SUBJECTS" env-default:"Physics,Math,Chemistry,English"`
		CacheTTL time.Duration `yaml:"cache_ttl" env:"CONTENT_CACHE_TTL" env-default:"5m"`
		SeedFile string        `yaml:"seed_file" env:"CONTENT_SEED_FILE"`
	} `yaml:"content"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from an optional .env file, a YAML file and
// environment variables, in that order of increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg := &Config{}
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if strings.TrimSpace(config.JWT.Secret) == "" {
		return errors.New("JWT secret is required")
	}

	if config.JWT.Expiration <= 0 {
		return errors.New("JWT expiration must be positive")
	}

	if len(config.Server.AllowedOrigins) == 0 {
		return errors.New("at least one allowed origin is required")
	}

	if len(config.Content.Subjects) == 0 {
		return errors.New("at least one content subject is required")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	pg := c.Database.Postgres
	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
