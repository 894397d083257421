package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	LogLevel       string   `mapstructure:"LOG_LEVEL"`
	AuthMode       string   `mapstructure:"AUTH_MODE"`
	StoreDriver    string   `mapstructure:"STORE_DRIVER"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	MigrationsDir  string   `mapstructure:"MIGRATIONS_DIR"`
	JWTIssuer      string   `mapstructure:"JWT_ISSUER"`
	JWTAudience    string   `mapstructure:"JWT_AUDIENCE"`
	JWTJWKSURL     string   `mapstructure:"JWT_JWKS_URL"`
	JWTSigningKey  string   `mapstructure:"JWT_SIGNING_KEY"`
	CORSOrigins    []string `mapstructure:"CORS_ALLOW_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

// settings is the full environment surface. A nil default means the
// value has no sensible fallback and stays empty unless provided.
var settings = []struct {
	name string
	def  any
}{
	{"PORT", "8000"},
	{"ENV", "development"},
	{"LOG_LEVEL", "info"},
	{"AUTH_MODE", ""}, // empty = infer from ENV
	{"STORE_DRIVER", "postgres"},
	{"DATABASE_URL", nil},
	{"DB_MAX_CONNS", 20},
	{"DB_MIN_CONNS", 5},
	{"MIGRATIONS_DIR", "migrations"},
	{"JWT_ISSUER", nil},
	{"JWT_AUDIENCE", nil},
	{"JWT_JWKS_URL", nil},
	{"JWT_SIGNING_KEY", nil},
	{"CORS_ALLOW_ORIGINS", "http://localhost:3000"},
	{"RATE_LIMIT_RPS", 100},
	{"RATE_LIMIT_BURST", 200},
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for _, s := range settings {
		if s.def != nil {
			v.SetDefault(s.name, s.def)
		}
		// Unmarshal only sees keys that are bound or defaulted.
		v.BindEnv(s.name)
	}

	// A .env file is a development convenience, never a requirement.
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// The comma-separated origin list arrives as a single string.
	if len(cfg.CORSOrigins) == 0 {
		if raw := v.GetString("CORS_ALLOW_ORIGINS"); raw != "" {
			cfg.CORSOrigins = strings.Split(raw, ",")
		}
	}

	if cfg.ResolvedAuthMode() == "dev" {
		log.Println("WARNING: dev auth is active; every request gets an admin identity without a token")
		log.Println("WARNING: set AUTH_MODE=jwt with JWT_JWKS_URL or JWT_SIGNING_KEY before exposing this server")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction reports whether ENV selects the hardened production
// profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UseMemoryStore reports whether persistence runs on the in-memory driver
// instead of PostgreSQL.
func (c *Config) UseMemoryStore() bool {
	return c.StoreDriver == "memory"
}

// ResolvedAuthMode is the auth mode after applying the inference rule:
// an explicit AUTH_MODE wins, otherwise development gets "dev" (no
// token needed, admin identity stamped on) and everything else gets
// "jwt" (bearer tokens checked against JWKS or a shared HS256 key).
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "dev"
	}
	return "jwt"
}

// Validate checks that the configuration is safe to run. The postgres store
// needs a DATABASE_URL; jwt auth needs either a JWKS endpoint or a static
// signing key.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is \"postgres\"")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be \"postgres\" or \"memory\", got %q", c.StoreDriver)
	}

	mode := c.ResolvedAuthMode()
	if mode != "dev" && mode != "jwt" {
		return fmt.Errorf("AUTH_MODE must be \"dev\" or \"jwt\", got %q", mode)
	}
	if mode == "jwt" && c.JWTJWKSURL == "" && c.JWTSigningKey == "" {
		return fmt.Errorf(
			"auth mode jwt needs JWT_JWKS_URL or JWT_SIGNING_KEY (ENV=%q); "+
				"set one of them, or AUTH_MODE=dev for local work only", c.Env)
	}

	if c.IsProduction() && mode == "dev" {
		return fmt.Errorf("AUTH_MODE=dev is not allowed when ENV=production")
	}

	return nil
}
