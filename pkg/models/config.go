package models

// Config is the full tool configuration
type Config struct {
	Inspection InspectionConfig `mapstructure:"inspection"`
	Tools      ToolsConfig      `mapstructure:"tools"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

// InspectionConfig controls what the pipeline extracts
type InspectionConfig struct {
	Extended       bool   `mapstructure:"extended"`
	SignaturesFile string `mapstructure:"signatures_file"`
}

// ToolsConfig holds paths to the external executables
type ToolsConfig struct {
	AAPT    string `mapstructure:"aapt"`
	Keytool string `mapstructure:"keytool"`
}

// CacheConfig controls the local report cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
