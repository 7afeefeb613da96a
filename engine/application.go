package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/objscope/engine/core"
)

const DefaultConfigFile = "objscope.toml"

type ApplicationConfig struct {
	Application ApplicationSection `toml:"application"`
	Assets      AssetsSection      `toml:"assets"`
	Loader      LoaderSection      `toml:"loader"`
}

type ApplicationSection struct {
	// The application name used in log output.
	Name     string        `toml:"name"`
	LogLevel core.LogLevel `toml:"log_level"`
}

type AssetsSection struct {
	// Directory indexed and watched for assets. Empty disables indexing.
	Dir string `toml:"dir"`
	// Model loaded when no path is given on the command line.
	Model string `toml:"model"`
	// Reload the model whenever it changes on disk.
	Watch bool `toml:"watch"`
}

type LoaderSection struct {
	StrictIndices bool `toml:"strict_indices"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Application: ApplicationSection{
			Name:     "objscope",
			LogLevel: core.LogLevelInfo,
		},
		Assets: AssetsSection{
			Dir: "assets",
		},
	}
}

// LoadApplicationConfig reads a TOML config on top of the defaults. A
// missing file is not an error when optional is set.
func LoadApplicationConfig(path string, optional bool) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("invalid config %s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	switch c.Application.LogLevel {
	case core.LogLevelDebug, core.LogLevelInfo, core.LogLevelWarn, core.LogLevelError:
	default:
		return fmt.Errorf("invalid log_level %q", c.Application.LogLevel)
	}
	return nil
}

// Marshal renders the config as TOML.
func (c *ApplicationConfig) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
