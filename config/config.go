// Package config loads MatiDB's runtime settings: the database file
// path, the buffer pool capacity, and the server listen address.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Built-in defaults, used when no config file or environment override
// is present.
const (
	DefaultDBPath         = "mati.db"
	DefaultBufferCapacity = 100
	DefaultServerAddr     = "127.0.0.1:5432"
)

// Config holds the settings needed to open a Database and, optionally,
// serve it over TCP.
type Config struct {
	DBPath         string
	BufferCapacity int
	ServerAddr     string
}

// NewDefault returns a Config populated with MatiDB's built-in defaults.
func NewDefault() Config {
	return Config{
		DBPath:         DefaultDBPath,
		BufferCapacity: DefaultBufferCapacity,
		ServerAddr:     DefaultServerAddr,
	}
}

// Load reads configuration from path (if it exists; JSON, YAML, and TOML
// are all auto-detected by extension) and from MATIDB_-prefixed
// environment variables, overlaying both onto the built-in defaults.
// A missing config file is not an error: Load falls back to defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("buffer_capacity", DefaultBufferCapacity)
	v.SetDefault("server_addr", DefaultServerAddr)

	v.SetEnvPrefix("matidb")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// With an explicit file, viper surfaces a plain open error
			// rather than ConfigFileNotFoundError; both mean "fall back
			// to defaults".
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	return Config{
		DBPath:         v.GetString("db_path"),
		BufferCapacity: v.GetInt("buffer_capacity"),
		ServerAddr:     v.GetString("server_addr"),
	}, nil
}
