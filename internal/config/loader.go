package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "DYNASTY_"
	envConfigFile  = envPrefix + "CONFIG"
	envDotEnvFile  = envPrefix + "ENV_FILE"
	defaultEnvFile = ".env"
)

// nestedPrefixes maps flattened env keys onto the nested koanf paths.
var nestedPrefixes = []string{"primary_a", "primary_b", "classify"} //nolint:gochecknoglobals // static table

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if DYNASTY_CONFIG is set
//  3. .env file (DYNASTY_ENV_FILE, default .env) feeding the environment
//  4. env (prefix DYNASTY_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// godotenv never overrides variables already present in the process.
	envFile := os.Getenv(envDotEnvFile)
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, envFile, err)
	}

	// DYNASTY_QUEUE_SIZE -> queue_size, DYNASTY_PRIMARY_A_NAME -> primary_a.name,
	// DYNASTY_CLASSIFY_UPSET_MARGIN -> classify.upset_margin
	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, p := range nestedPrefixes {
		if strings.HasPrefix(s, p+"_") {
			return p + "." + strings.TrimPrefix(s, p+"_")
		}
	}
	return s
}
