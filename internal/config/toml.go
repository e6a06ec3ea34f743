// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dataset   DatasetConfig   `toml:"dataset"`
	Filters   FiltersConfig   `toml:"filters"`
	Dashboard DashboardConfig `toml:"dashboard"`
}

// DatasetConfig maps where flight data comes from.
type DatasetConfig struct {
	Path *string `toml:"path"`
	URL  *string `toml:"url"`
}

// FiltersConfig maps the default filter criteria.
type FiltersConfig struct {
	Start        *string  `toml:"start"`
	End          *string  `toml:"end"`
	Airlines     []string `toml:"airlines"`
	OriginCities []string `toml:"origin-cities"`
	DestCities   []string `toml:"dest-cities"`
	Statuses     []string `toml:"statuses"`
	Airports     []string `toml:"airports"`
}

// DashboardConfig maps report and dashboard settings.
type DashboardConfig struct {
	Top            *int     `toml:"top"`
	AirportChoices *int     `toml:"airport-choices"`
	DelayThreshold *float64 `toml:"delay-threshold"`
	Period         *string  `toml:"period"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
