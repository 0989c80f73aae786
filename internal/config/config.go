package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port        string `koanf:"port"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	MongoDBURI    string `koanf:"mongodb_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	CloudinaryCloudName string `koanf:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `koanf:"cloudinary_api_key"`
	CloudinaryAPISecret string `koanf:"cloudinary_api_secret"`

	JWTSecret string        `koanf:"jwt_secret"`
	JWTTTL    time.Duration `koanf:"jwt_ttl"`

	RateLimitPerSecond int `koanf:"rate_limit_per_second"`
	RateLimitBurst     int `koanf:"rate_limit_burst"`

	CORSAllowOrigins []string `koanf:"cors_allow_origins"`
}

func defaults() *Config {
	return &Config{
		Port:               "8080",
		Environment:        "development",
		LogLevel:           "info",
		MongoDatabase:      "eventsapp",
		JWTTTL:             24 * time.Hour,
		RateLimitPerSecond: 20,
		RateLimitBurst:     40,
		CORSAllowOrigins:   []string{"http://localhost:3000"},
	}
}

// LoadConfig layers defaults, an optional YAML file pointed to by
// EVENTSAPP_CONFIG, and EVENTSAPP_-prefixed environment variables, in that
// order of precedence.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("EVENTSAPP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %v", err)
		}
	}

	// EVENTSAPP_MONGODB_URI -> mongodb_uri, etc.
	envProvider := env.Provider("EVENTSAPP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "eventsapp_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load env config: %v", err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("EVENTSAPP_MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("EVENTSAPP_JWT_SECRET is required")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
