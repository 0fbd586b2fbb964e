package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Config represents the duplicate finder configuration
type Config struct {
	// Scan settings
	Directory   string   `mapstructure:"directory"`    // root directory to scan
	MinSize     string   `mapstructure:"min_size"`     // minimum file size to consider ("1M", "500 KB", bytes)
	FollowLinks bool     `mapstructure:"follow_links"` // resolve symlinks to their targets
	Workers     int      `mapstructure:"workers"`      // number of hashing workers
	Exclude     []string `mapstructure:"exclude"`      // directory names to exclude

	// Deletion settings
	Interactive bool `mapstructure:"interactive"` // confirm each group individually

	// Report settings
	ReportFile string `mapstructure:"report_file"` // JSON report output path

	// Resolved at startup from MinSize; not read from the environment.
	MinSizeBytes int64 `mapstructure:"-"`

	// Logging
	Verbose bool `mapstructure:"-"`
	Debug   bool `mapstructure:"-"`
}

// Load loads configuration from environment variables and defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("directory", ".")
	v.SetDefault("min_size", "0")
	v.SetDefault("follow_links", false)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("interactive", false)
	v.SetDefault("report_file", "")
	v.SetDefault("exclude", []string{".git", "node_modules", "vendor", ".svn", ".hg"})

	// Read environment variables
	v.SetEnvPrefix("RMDUP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EffectiveWorkers returns the worker count, falling back to the CPU count
// when the configured value is not positive.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
