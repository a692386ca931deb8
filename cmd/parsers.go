package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apkscope/apkscope-cli/pkg/apk"
	"github.com/apkscope/apkscope-cli/pkg/utils"
)

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "Show the manifest decoding chain",
	Long: `Display the manifest sources in the order the pipeline tries them.
The first available source that decodes the manifest wins; the rest are
fallbacks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		chain := apk.NewManifestChain(apk.NewExecAAPT(cfg.Tools.AAPT), utils.GetGlobalLogger())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tSOURCE\tAVAILABLE")
		fmt.Fprintln(w, "-----\t------\t---------")
		for i, src := range chain.Sources() {
			available := "No"
			if src.Available() {
				available = "Yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, src.Name(), available)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(parsersCmd)
}
