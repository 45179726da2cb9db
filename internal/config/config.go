package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	TokenPath string        `mapstructure:"token_path"`
	LogLevel  string        `mapstructure:"log_level"`

	// stub server only
	Mode   string `mapstructure:"mode"`
	Port   int    `mapstructure:"port"`
	Secret string `mapstructure:"secret"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("base_url", "http://localhost:18080")
	v.SetDefault("timeout", "10s")
	v.SetDefault("token_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("mode", "release")
	v.SetDefault("port", 18080)
	v.SetDefault("secret", "clubdeck-dev-secret")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = defaultTokenPath()
	}
	return &cfg, nil
}

// defaultTokenPath mirrors the fixed browser localStorage key: one
// well-known location per user, shared by every clubctl invocation.
func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".clubdeck-session.json")
	}
	return filepath.Join(dir, "clubdeck", "session.json")
}
