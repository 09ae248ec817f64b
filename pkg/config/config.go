// Package config loads firemap settings from .firemap.yaml, FIREMAP_*
// environment variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Defaults match a data/file service running locally on the Flask port.
const (
	DefaultPath          = "~/.firemap.db"
	DefaultDataURL       = "http://127.0.0.1:5000/api"
	DefaultFilesURL      = "http://127.0.0.1:5000"
	DefaultStatusDisplay = 3 * time.Second
)

// Settings is the resolved configuration.
type Settings struct {
	Path          string        `mapstructure:"path"`
	DataURL       string        `mapstructure:"data_url"`
	FilesURL      string        `mapstructure:"files_url"`
	AuthURL       string        `mapstructure:"auth_url"`
	DownloadDir   string        `mapstructure:"download_dir"`
	StatusDisplay time.Duration `mapstructure:"status_display"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
	LogFile       string        `mapstructure:"log_file"`
}

// BasePath implements store.Config.
func (s *Settings) BasePath() string {
	return s.Path
}

// Load reads configuration using a fresh viper instance.
func Load() (*Settings, error) {
	return LoadWith(viper.New())
}

// LoadWith reads configuration through v so callers can bind flags first.
func LoadWith(v *viper.Viper) (*Settings, error) {
	v.SetDefault("path", DefaultPath)
	v.SetDefault("data_url", DefaultDataURL)
	v.SetDefault("files_url", DefaultFilesURL)
	v.SetDefault("auth_url", "")
	v.SetDefault("download_dir", ".")
	v.SetDefault("status_display", DefaultStatusDisplay)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")

	v.SetConfigName(".firemap") // .yaml is implicit
	v.SetEnvPrefix("FIREMAP")
	v.AutomaticEnv()

	if override := os.Getenv("FIREMAP_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	s := &Settings{
		Path:          v.GetString("path"),
		DataURL:       v.GetString("data_url"),
		FilesURL:      v.GetString("files_url"),
		AuthURL:       v.GetString("auth_url"),
		DownloadDir:   v.GetString("download_dir"),
		StatusDisplay: v.GetDuration("status_display"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		LogFile:       v.GetString("log_file"),
	}
	if s.AuthURL == "" {
		s.AuthURL = s.FilesURL
	}
	if s.StatusDisplay <= 0 {
		s.StatusDisplay = DefaultStatusDisplay
	}

	var err error
	for _, p := range []*string{&s.Path, &s.DownloadDir, &s.LogFile} {
		if *p == "" {
			continue
		}
		if *p, err = homedir.Expand(*p); err != nil {
			return nil, fmt.Errorf("config: expand %q: %w", *p, err)
		}
	}
	return s, nil
}
