package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is looked up in the working directory when no -config flag is
// given.
const DefaultPath = "objscale.toml"

// Config holds the CLI defaults a pipeline can pin in a file. Flags given on
// the command line win over it.
type Config struct {
	Factor   float64 `toml:"factor"`
	Report   string  `toml:"report"`
	LogLevel string  `toml:"log_level"`
	Watch    bool    `toml:"watch"`
}

func Default() Config {
	return Config{
		Factor:   1.0,
		LogLevel: "info",
	}
}

// Load reads path over Default(). A missing file is not an error; a
// malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}
