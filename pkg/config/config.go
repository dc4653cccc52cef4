package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// File names searched for, in order, in each directory.
var configFileNames = []string{".depdash.yaml", ".depdash.yml", ".depdash.toml"}

const (
	DefaultPort         = 8080
	DefaultReportsDir   = "reports"
	DefaultDashboardDir = "dashboard"
)

// Config represents the configuration for the dependency dashboard
type Config struct {
	// Server settings for `depdash serve`
	Server struct {
		Port         int    `yaml:"port" toml:"port"`
		ReportsDir   string `yaml:"reportsDir" toml:"reportsDir"`     // holds dependencies.json and dependency_report.md
		DashboardDir string `yaml:"dashboardDir" toml:"dashboardDir"` // static front end files
		DataURL      string `yaml:"dataURL" toml:"dataURL"`           // optional remote base URL instead of ReportsDir
	} `yaml:"server" toml:"server"`

	// License policy; empty lists keep the built-in defaults
	License license.Policy `yaml:"license" toml:"license"`

	// Output configuration
	Output struct {
		Format string `yaml:"format" toml:"format"` // text, json, sarif
		File   string `yaml:"file" toml:"file"`     // Output file path (stdout if empty)
	} `yaml:"output" toml:"output"`

	// Ignore packages by name; glob patterns such as "types-*" are allowed
	IgnorePackages []string `yaml:"ignorePackages" toml:"ignorePackages"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	config := &Config{}

	config.Server.Port = DefaultPort
	config.Server.ReportsDir = DefaultReportsDir
	config.Server.DashboardDir = DefaultDashboardDir

	config.License = license.DefaultPolicy()

	// Set default output format
	config.Output.Format = "text"

	return config
}

// LoadConfig loads the configuration from the specified file path.
// If no path is provided, it looks for .depdash.yaml in the current directory.
// Environment overrides are applied last.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = configFileNames[0]
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			// Config file doesn't exist, use the defaults
			return finish(config)
		}
	}

	if err := readInto(configPath, config); err != nil {
		return nil, err
	}
	return finish(config)
}

// FindAndLoadConfig searches for a config file in the project directory and its parents
func FindAndLoadConfig(projectPath string) (*Config, error) {
	config := DefaultConfig()

	// Start from the project directory and work up to the root
	currentDir := projectPath
	for {
		for _, name := range configFileNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err != nil {
				continue
			}
			if err := readInto(configPath, config); err != nil {
				return nil, err
			}
			return finish(config)
		}

		// Move up to the parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached the root directory, no config file found
			break
		}
		currentDir = parentDir
	}

	// No config file found, use the defaults
	return finish(config)
}

// finish applies environment overrides and validates the result.
func finish(config *Config) (*Config, error) {
	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func readInto(configPath string, config *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return xerrors.Errorf("error reading config file %s: %w", configPath, err)
	}

	defaults := config.License
	config.License = license.Policy{}

	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		if err := toml.Unmarshal(data, config); err != nil {
			return xerrors.Errorf("error parsing config file %s: %w", configPath, err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return xerrors.Errorf("error parsing config file %s: %w", configPath, err)
	}

	config.License = mergePolicy(config.License, defaults)
	return nil
}

func mergePolicy(p, defaults license.Policy) license.Policy {
	if len(p.Allowed) == 0 {
		p.Allowed = defaults.Allowed
	}
	if len(p.ReviewRequired) == 0 {
		p.ReviewRequired = defaults.ReviewRequired
	}
	if len(p.Restricted) == 0 {
		p.Restricted = defaults.Restricted
	}
	return p
}

// Validate checks value ranges and glob syntax.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return xerrors.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Output.Format {
	case "", "text", "json", "sarif":
	default:
		return xerrors.Errorf("invalid output format %q (want text, json or sarif)", c.Output.Format)
	}
	for _, pattern := range c.IgnorePackages {
		if !doublestar.ValidatePattern(pattern) {
			return xerrors.Errorf("invalid ignorePackages pattern %q", pattern)
		}
	}
	return nil
}

// ApplyEnv overrides server settings from DEPDASH_* environment variables:
// DEPDASH_PORT, DEPDASH_REPORTS_DIR, DEPDASH_DASHBOARD_DIR, DEPDASH_DATA_URL
// and DEPDASH_IGNORE_PACKAGES (comma separated). A non-numeric port is an
// error.
func ApplyEnv(config *Config) error {
	v := viper.New()
	v.SetEnvPrefix("depdash")
	for _, key := range []string{"port", "reports_dir", "dashboard_dir", "data_url", "ignore_packages"} {
		_ = v.BindEnv(key)
	}

	if v.IsSet("port") {
		raw := strings.TrimSpace(v.GetString("port"))
		port, err := strconv.Atoi(raw)
		if err != nil {
			return xerrors.Errorf("invalid DEPDASH_PORT %q: not a number", raw)
		}
		config.Server.Port = port
	}
	if v.IsSet("reports_dir") {
		config.Server.ReportsDir = v.GetString("reports_dir")
	}
	if v.IsSet("dashboard_dir") {
		config.Server.DashboardDir = v.GetString("dashboard_dir")
	}
	if v.IsSet("data_url") {
		config.Server.DataURL = v.GetString("data_url")
	}
	if v.IsSet("ignore_packages") {
		var patterns []string
		for _, p := range strings.Split(v.GetString("ignore_packages"), ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		config.IgnorePackages = patterns
	}
	return nil
}

// IsPackageIgnored checks if a package should be ignored based on the configuration
func (c *Config) IsPackageIgnored(packageName string) bool {
	for _, pattern := range c.IgnorePackages {
		if ok, _ := doublestar.Match(pattern, packageName); ok {
			return true
		}
	}
	return false
}

// DropIgnored returns the records whose package is not ignored. The input
// slice is not modified.
func (c *Config) DropIgnored(records []model.DependencyRecord) []model.DependencyRecord {
	if len(c.IgnorePackages) == 0 {
		return records
	}
	kept := make([]model.DependencyRecord, 0, len(records))
	for _, r := range records {
		if !c.IsPackageIgnored(r.PackageName) {
			kept = append(kept, r)
		}
	}
	return kept
}
