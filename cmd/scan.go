package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apkscope/apkscope-cli/pkg/utils"
)

var (
	scanExtended  bool
	scanRecursive bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Inspect every APK under a directory",
	Long: `Scan walks a directory, inspects each APK it finds and prints a
summary line per package. Each APK runs through its own pipeline with
its own scratch directory; failures are counted and reported at the
end without stopping the scan.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		extended := scanExtended || cfg.Inspection.Extended

		apks, err := collectApks(args[0], scanRecursive)
		if err != nil {
			return err
		}
		if len(apks) == 0 {
			fmt.Println("No APK files found")
			return nil
		}

		progress := utils.NewInspectProgress()
		progress.TotalFiles = len(apks)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PACKAGE\tNAME\tVERSION\tSHA256\tSTATUS")

		for _, path := range apks {
			progress.SetCurrentFile(path)
			progress.ShowProgress()

			report, fromCache, err := inspectOne(cfg, path, extended)
			if err != nil {
				progress.AddFailed()
				fmt.Fprintf(w, "-\t%s\t-\t-\t%v\n", filepath.Base(path), err)
				continue
			}
			if fromCache {
				progress.AddFromCache()
			} else {
				progress.AddInspected()
			}

			version := report.Manifest.Version.Name
			if version == "" {
				version = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\tok\n",
				report.Manifest.Package, report.Name, version, report.SHA256[:12])
		}

		fmt.Println()
		w.Flush()
		progress.ShowFinalStats()
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVarP(&scanExtended, "extended", "e", false, "extract SDK levels, permissions and components")
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", true, "descend into subdirectories")
	rootCmd.AddCommand(scanCmd)
}

func collectApks(root string, recursive bool) ([]string, error) {
	var apks []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".apk") {
			apks = append(apks, path)
		}
		return nil
	})
	return apks, err
}
