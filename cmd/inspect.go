package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/apkscope/apkscope-cli/internal/cache"
	"github.com/apkscope/apkscope-cli/internal/config"
	"github.com/apkscope/apkscope-cli/pkg/apk"
	"github.com/apkscope/apkscope-cli/pkg/models"
	"github.com/apkscope/apkscope-cli/pkg/utils"
)

var (
	inspectExtended bool
	inspectFormat   string
	inspectOutput   string
	inspectIconOut  string
	inspectNoCache  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <apk>",
	Short: "Inspect an APK and emit its report",
	Long: `Inspect statically analyses a single APK file and emits the full
report: file digests, app name, manifest, signing certificate, bytecode
string summary and the inventory of remaining entries.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := utils.GetGlobalLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		extended := inspectExtended || cfg.Inspection.Extended

		report, fromCache, err := inspectOne(cfg, args[0], extended)
		if err != nil {
			return err
		}
		if fromCache {
			logger.Debug("report served from cache")
		}

		if inspectIconOut != "" {
			if err := writeIcon(args[0], inspectIconOut); err != nil {
				logger.Warn("icon extraction failed: %v", err)
			}
		}

		return writeReport(report, inspectFormat, inspectOutput)
	},
}

func init() {
	inspectCmd.Flags().BoolVarP(&inspectExtended, "extended", "e", false, "extract SDK levels, permissions and components")
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "json", "output format (json or yaml)")
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "", "write the report to a file instead of stdout")
	inspectCmd.Flags().StringVar(&inspectIconOut, "icon-out", "", "also extract the launcher icon to this path")
	inspectCmd.Flags().BoolVar(&inspectNoCache, "no-cache", false, "bypass the report cache")
	rootCmd.AddCommand(inspectCmd)
}

// inspectOne runs the pipeline for one APK, consulting the report cache
// when it is enabled. Cached reports are keyed by the archive's SHA-256,
// so a changed file never matches a stale report.
func inspectOne(cfg *models.Config, path string, extended bool) (*models.Apk, bool, error) {
	var store *cache.Store
	if cfg.Cache.Enabled && !inspectNoCache {
		if cachePath, err := config.CachePath(cfg); err == nil {
			if s, err := cache.Open(cachePath); err == nil {
				store = s
				defer store.Close()
			}
		}
	}

	if store != nil {
		if sha, err := digestFile(path); err == nil {
			if cached, err := store.Get(sha); err == nil && cached != nil && extendedMatches(cached, extended) {
				return cached, true, nil
			}
		}
	}

	inspector, err := buildInspector(cfg, extended)
	if err != nil {
		return nil, false, err
	}
	report, err := inspector.Open(path)
	if err != nil {
		return nil, false, err
	}

	if store != nil {
		if err := store.Put(report); err != nil {
			utils.GetGlobalLogger().Warn("failed to cache report: %v", err)
		}
	}
	return report, false, nil
}

// extendedMatches rejects cached reports produced at a different
// extraction depth than the one requested.
func extendedMatches(report *models.Apk, extended bool) bool {
	return (report.Manifest.SDK != nil) == extended
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	file, err := models.NewFileFromReader(f, path)
	if err != nil {
		return "", err
	}
	return file.SHA256, nil
}

func writeReport(report *models.Apk, format, output string) error {
	var (
		raw []byte
		err error
	)
	switch format {
	case "json":
		raw, err = json.MarshalIndent(report, "", "  ")
		raw = append(raw, '\n')
	case "yaml":
		// Round-trip through JSON so the YAML keys match the report
		// contract instead of Go field names.
		var tree interface{}
		if raw, err = json.Marshal(report); err == nil {
			if err = json.Unmarshal(raw, &tree); err == nil {
				raw, err = yaml.Marshal(tree)
			}
		}
	default:
		return fmt.Errorf("unknown format %q (expected json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if output == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	return os.WriteFile(output, raw, 0o644)
}

func writeIcon(apkPath, out string) error {
	data, _, err := apk.NewIconExtractor().Extract(apkPath)
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
