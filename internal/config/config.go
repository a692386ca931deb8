package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/apkscope/apkscope-cli/pkg/models"
)

var defaultConfig = models.Config{
	Inspection: models.InspectionConfig{
		Extended:       false,
		SignaturesFile: "",
	},
	Tools: models.ToolsConfig{
		AAPT:    "aapt",
		Keytool: "keytool",
	},
	Cache: models.CacheConfig{
		Enabled: true,
		Path:    "",
	},
}

// Load loads configuration from file and environment
func Load(configPath string) (*models.Config, error) {
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("inspection.extended", defaultConfig.Inspection.Extended)
	viper.SetDefault("inspection.signatures_file", defaultConfig.Inspection.SignaturesFile)
	viper.SetDefault("tools.aapt", defaultConfig.Tools.AAPT)
	viper.SetDefault("tools.keytool", defaultConfig.Tools.Keytool)
	viper.SetDefault("cache.enabled", defaultConfig.Cache.Enabled)
	viper.SetDefault("cache.path", defaultConfig.Cache.Path)

	// Try to load config file
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and the user config dir
		viper.SetConfigName("apkscope")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "apkscope"))
		}
	}

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error, we'll use defaults
	}

	// Bind environment variables
	viper.SetEnvPrefix("APKSCOPE")
	viper.AutomaticEnv()

	// Unmarshal configuration
	var config models.Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// CachePath resolves the report cache location, defaulting to the user
// cache directory when unset.
func CachePath(cfg *models.Config) (string, error) {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return filepath.Join(dir, "apkscope", "reports.db"), nil
}

// SaveTemplate saves a configuration template
func SaveTemplate(path string) error {
	templateContent := `# ApkScope Configuration File

inspection:
  # Extract SDK levels, permissions and application components
  # from the manifest (slower but provides more details)
  extended: false

  # Path to a TOML file overriding the built-in signature patterns
  # Leave empty to use the built-in URL and shell-command patterns
  signatures_file: ""

tools:
  # Path to the aapt binary (resolved on PATH when bare)
  aapt: "aapt"

  # Path to the keytool binary (resolved on PATH when bare)
  keytool: "keytool"

cache:
  # Reuse reports for APKs that were already inspected
  enabled: true

  # Cache database location (empty = user cache directory)
  path: ""
`

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(templateContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}
	return nil
}
