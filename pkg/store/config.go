package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the on-disk store.
type Config interface {
	BasePath() string
}

// LoadConfig resolves the store base path from a .visado config file, the
// VISADO_* environment, or the default of ~/.visado.db.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.visado.db")
	viper.SetConfigName(".visado") // .yaml is implicit
	viper.SetEnvPrefix("VISADO")
	viper.AutomaticEnv()

	if override := os.Getenv("VISADO_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{Path: path}, nil
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

// StaticConfig pins the store to a fixed directory; used by tests.
type StaticConfig string

func (s StaticConfig) BasePath() string {
	return string(s)
}
