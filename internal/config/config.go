// Package config loads git-todos settings from defaults, an optional
// .git-todos config file, GIT_TODOS_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/raywill/git-todos/internal/domain"
	"github.com/raywill/git-todos/internal/gitroot"
	"github.com/spf13/viper"
)

const (
	configName = ".git-todos"
	envPrefix  = "GIT_TODOS"
)

// Keys shared with flag bindings
const (
	KeyUnfinishedFile = "files.unfinished"
	KeyArchivedFile   = "files.archived"
	KeyMarker         = "marker"
	KeyTimeFormat     = "time_format"
	KeyVerbose        = "verbose"
)

// Files names the two backing files under the repository root
type Files struct {
	Unfinished string `mapstructure:"unfinished"`
	Archived   string `mapstructure:"archived"`
}

// Config holds the resolved settings
type Config struct {
	Files      Files  `mapstructure:"files"`
	Marker     string `mapstructure:"marker"`
	TimeFormat string `mapstructure:"time_format"`
	Verbose    bool   `mapstructure:"verbose"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyUnfinishedFile, "TODO.md")
	v.SetDefault(KeyArchivedFile, "ARCHIVE.md")
	v.SetDefault(KeyMarker, gitroot.Marker)
	v.SetDefault(KeyTimeFormat, domain.DefaultLayout)
	v.SetDefault(KeyVerbose, false)
}

// Init wires environment variables and reads the config file.
// With an empty cfgFile, .git-todos.{yaml,toml,json} is looked up in the
// working directory and then $HOME; not finding one is fine.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the current settings
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the store cannot work with
func (c Config) Validate() error {
	for key, name := range map[string]string{
		KeyUnfinishedFile: c.Files.Unfinished,
		KeyArchivedFile:   c.Files.Archived,
		KeyMarker:         c.Marker,
	} {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("config %s: must not be empty", key)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("config %s: %q must be a plain file name", key, name)
		}
	}
	if c.Files.Unfinished == c.Files.Archived {
		return fmt.Errorf("config %s and %s: must differ", KeyUnfinishedFile, KeyArchivedFile)
	}
	if err := domain.ValidateLayout(c.TimeFormat); err != nil {
		return fmt.Errorf("config %s: %w", KeyTimeFormat, err)
	}
	return nil
}
