package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apkscope/apkscope-cli/internal/config"
	"github.com/apkscope/apkscope-cli/pkg/apk"
	"github.com/apkscope/apkscope-cli/pkg/matcher"
	"github.com/apkscope/apkscope-cli/pkg/models"
	"github.com/apkscope/apkscope-cli/pkg/utils"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "apkscope",
	Short: "ApkScope CLI - static inspection of Android packages",
	Long: `ApkScope CLI inspects APK files without installing or executing them.
It digests every archive entry, decodes the binary manifest, parses the
signing certificate and summarises the bytecode by its embedded strings,
URLs and shell commands.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := utils.LogLevelInfo
		if verbose {
			level = utils.LogLevelDebug
		}
		utils.InitGlobalLogger(&utils.LoggerConfig{
			Level:       level,
			Output:      os.Stderr,
			EnableColor: true,
		})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./apkscope.yaml or ~/.config/apkscope/)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig reads the configuration honouring the --config flag.
func loadConfig() (*models.Config, error) {
	return config.Load(cfgFile)
}

// buildMatchers compiles the signature matcher set, preferring an
// override file from the configuration.
func buildMatchers(cfg *models.Config) (*matcher.Set, error) {
	var (
		mc  *matcher.Config
		err error
	)
	if cfg.Inspection.SignaturesFile != "" {
		mc, err = matcher.LoadConfig(cfg.Inspection.SignaturesFile)
	} else {
		mc, err = matcher.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}
	return matcher.NewSet(mc)
}

// buildInspector wires a pipeline from the configuration.
func buildInspector(cfg *models.Config, extended bool) (*apk.Inspector, error) {
	matchers, err := buildMatchers(cfg)
	if err != nil {
		return nil, err
	}
	return apk.NewInspector(
		matchers,
		apk.NewExecAAPT(cfg.Tools.AAPT),
		apk.NewExecKeytool(cfg.Tools.Keytool),
		utils.GetGlobalLogger(),
		apk.Options{Extended: extended},
	), nil
}
