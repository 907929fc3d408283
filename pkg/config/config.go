// Package config loads isurus settings from layered sources: embedded
// defaults, then a user config file, then ISURUS_* environment variables.
// Command-line flags override all of these and are applied by the CLI.
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	isurusErrors "github.com/datagazing/isurus/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvConfigDir overrides the directory searched for config files.
const EnvConfigDir = "ISURUS_CONFIG_DIR"

// Config holds the settings a run starts from. Flags may still override
// any of these.
type Config struct {
	Markdown  bool `koanf:"markdown"`
	Save      bool `koanf:"save"`
	Replace   bool `koanf:"replace"`
	Verbosity int  `koanf:"verbosity"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load builds a Config from defaults, the user config file (if any) and
// the environment.
func Load(logger zerolog.Logger) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, isurusErrors.Wrap(err, isurusErrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file, first match wins
	for _, candidate := range []struct {
		name   string
		parser koanf.Parser
	}{
		{"config.toml", toml.Parser()},
		{"config.yaml", yaml.Parser()},
	} {
		path := filepath.Join(ConfigDir(), candidate.name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), candidate.parser); err != nil {
			return nil, isurusErrors.Wrapf(err, isurusErrors.ErrConfigParse, "failed to parse config file %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
		break
	}

	// 3. Environment variables, ISURUS_MARKDOWN=true and friends
	err := k.Load(env.Provider("ISURUS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "ISURUS_")), "_", ".")
	}), nil)
	if err != nil {
		return nil, isurusErrors.Wrap(err, isurusErrors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Unmarshal, weakly typed so env var strings coerce to bool and int
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, isurusErrors.Wrap(err, isurusErrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

// ConfigDir returns the directory searched for config files, respecting
// the ISURUS_CONFIG_DIR override.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, "isurus")
}
