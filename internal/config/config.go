// Package config persists run settings in a JSON config file and merges
// them with command-line flags for the current session. Flags override
// persisted values; persisted values override defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tuber/internal/model"
)

// Persisted keys. Session-only flags (nosub, pp, no-ui, verbose) are
// deliberately not bound here so --config never writes them.
var persistedKeys = []string{"res", "source", "destination", "threads", "novideo", "format"}

// Config wraps a viper instance bound to one config file.
type Config struct {
	v    *viper.Viper
	path string
}

// New builds a Config for the JSON file at path and seeds the defaults.
func New(path string) *Config {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("TUBER")
	v.AutomaticEnv()

	v.SetDefault("res", string(model.Res1080))
	v.SetDefault("source", "")
	v.SetDefault("destination", "")
	v.SetDefault("threads", 4)
	v.SetDefault("novideo", false)
	v.SetDefault("format", "mp4")

	return &Config{v: v, path: path}
}

// BindFlags wires the persisted flags into the merge order: a flag given on
// the command line beats the file, the file beats the flag default.
func (c *Config) BindFlags(fs *pflag.FlagSet) error {
	for _, key := range persistedKeys {
		f := fs.Lookup(key)
		if f == nil {
			return fmt.Errorf("flag %q not defined", key)
		}
		if err := c.v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the config file if present. A missing file is not an error;
// a malformed one is.
func (c *Config) Load() error {
	if err := c.v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Save writes the merged persisted values back to the config file.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the config file location.
func (c *Config) Path() string {
	return c.path
}

// Settings materializes the merged values. Session-only fields are left at
// their zero value for the caller to fill from flags.
func (c *Config) Settings() model.Settings {
	return model.Settings{
		Res:         model.Resolution(c.v.GetString("res")),
		Source:      c.v.GetString("source"),
		Destination: c.v.GetString("destination"),
		Threads:     c.v.GetInt("threads"),
		NoVideo:     c.v.GetBool("novideo"),
		Format:      c.v.GetString("format"),
	}
}
