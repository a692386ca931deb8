package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/apkscope/apkscope-cli/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration template",
	Long: `Init writes a commented configuration template. Without an argument
it targets ~/.config/apkscope/apkscope.yaml; an existing file is never
overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".config", "apkscope", "apkscope.yaml")
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		if err := config.SaveTemplate(path); err != nil {
			return err
		}
		fmt.Printf("Wrote config template to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
