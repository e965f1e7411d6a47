package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the engine configuration, loaded from a YAML file. Every
// field has a default so the binaries run without one.
type Config struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		// Workdir is the database environment directory; the CLI
		// argument overrides it.
		Workdir string `mapstructure:"workdir"`
	} `mapstructure:"storage"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("app_name", "giraffesql")
	v.SetDefault("storage.workdir", "data")
	v.SetDefault("server.addr", ":5432")
	v.SetDefault("log.level", "info")
}

// Load reads the config file at path. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
