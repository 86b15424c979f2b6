package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Advisor modes.
const (
	AdvisorGRPC  = "grpc"
	AdvisorHTTP  = "http"
	AdvisorLocal = "local"
)

// Fallbacks when the advisor fails.
const (
	FallbackLocal = "local"
	FallbackPass  = "pass"
)

type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	RedisUrl        string        `mapstructure:"REDIS_URL"`
	MongoUri        string        `mapstructure:"MONGO_URI"`
	MongoDatabase   string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors     bool          `mapstructure:"LOCAL_CORS"`
	AdvisorMode     string        `mapstructure:"ADVISOR_MODE"`
	AdvisorGrpcAddr string        `mapstructure:"ADVISOR_GRPC_ADDR"`
	AdvisorGrpcPort string        `mapstructure:"ADVISOR_GRPC_PORT"`
	KatagoUrl       string        `mapstructure:"KATAGO_URL"`
	AdvisorTimeout  time.Duration `mapstructure:"ADVISOR_TIMEOUT"`
	AIFallback      string        `mapstructure:"AI_FALLBACK"`
	DefaultRank     string        `mapstructure:"DEFAULT_RANK"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
}

var defaults = map[string]any{
	"SERVER_PORT":       "8080",
	"REDIS_URL":         "localhost:6379",
	"MONGO_URI":         "mongodb://localhost:27017",
	"MONGO_DATABASE":    "goban",
	"LOCAL_CORS":        false,
	"ADVISOR_MODE":      AdvisorGRPC,
	"ADVISOR_GRPC_ADDR": "localhost:8082",
	"ADVISOR_GRPC_PORT": "8082",
	"KATAGO_URL":        "http://localhost:8001",
	"ADVISOR_TIMEOUT":   "10s",
	"AI_FALLBACK":       FallbackLocal,
	"DEFAULT_RANK":      "1k",
	"SESSION_TTL":       "12h",
}

// Setup loads cfgPath into the environment if the file exists, then reads
// the configuration from the environment on top of the defaults.
func Setup(cfgPath string) (*Config, error) {
	if cfgPath != "" {
		if err := godotenv.Load(cfgPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", cfgPath, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.AdvisorMode {
	case AdvisorGRPC, AdvisorHTTP, AdvisorLocal:
	default:
		return fmt.Errorf("unknown ADVISOR_MODE %q", c.AdvisorMode)
	}
	switch c.AIFallback {
	case FallbackLocal, FallbackPass:
	default:
		return fmt.Errorf("unknown AI_FALLBACK %q", c.AIFallback)
	}
	if c.AdvisorTimeout <= 0 {
		return fmt.Errorf("ADVISOR_TIMEOUT must be positive")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}
