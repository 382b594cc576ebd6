package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "yms"
	// ConfigFileName is the config file name searched in $HOME and the working directory.
	ConfigFileName = ".yms"
	// EnvPrefix prefixes every environment override, e.g. YMS_MODULES_DIR.
	EnvPrefix = "YMS"
)

// Config holds the runtime settings of the management shell
type Config struct {
	ModulesDir   string         `mapstructure:"modules_dir"`
	MetadataFile string         `mapstructure:"metadata_file"`
	TaskExt      string         `mapstructure:"task_ext"`
	ReportFile   string         `mapstructure:"report_file"`
	HistoryFile  string         `mapstructure:"history_file"`
	LogLevel     string         `mapstructure:"log_level"`
	Format       string         `mapstructure:"format"`
	Scaffold     ScaffoldConfig `mapstructure:"scaffold"`
}

// ScaffoldConfig controls where new modules are created
type ScaffoldConfig struct {
	GroupByCategory bool `mapstructure:"group_by_category"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		ModulesDir:   "roles",
		MetadataFile: "docs.json",
		TaskExt:      "yml",
		ReportFile:   "module_docs.md",
		HistoryFile:  filepath.Join(os.TempDir(), ".yms_history"),
		LogLevel:     "info",
		Format:       "table",
	}
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("modules_dir", d.ModulesDir)
	v.SetDefault("metadata_file", d.MetadataFile)
	v.SetDefault("task_ext", d.TaskExt)
	v.SetDefault("report_file", d.ReportFile)
	v.SetDefault("history_file", d.HistoryFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("format", d.Format)
	v.SetDefault("scaffold.group_by_category", d.Scaffold.GroupByCategory)
}

// Load reads configuration from configFile (or the default search path),
// the environment and any flags already bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(ConfigFileName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// An explicit --config that is missing is an error; a missing default file is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail far from their source
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ModulesDir) == "" {
		return fmt.Errorf("modules_dir must not be empty")
	}
	if c.MetadataFile == "" || strings.ContainsAny(c.MetadataFile, `/\`) {
		return fmt.Errorf("metadata_file must be a plain file name, got %q", c.MetadataFile)
	}
	c.TaskExt = strings.TrimPrefix(c.TaskExt, ".")
	if c.TaskExt == "" {
		return fmt.Errorf("task_ext must not be empty")
	}
	switch c.Format {
	case "table", "json":
	default:
		return fmt.Errorf("invalid format %q: must be one of: table, json", c.Format)
	}
	return nil
}
