package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apkscope/apkscope-cli/pkg/system"
	"github.com/apkscope/apkscope-cli/pkg/utils"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the host environment",
	Long: `The doctor command checks everything an inspection needs from the
host:

- External tools (aapt or aapt2, keytool)
- Scratch directory access
- Disk space
- Configuration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := utils.GetGlobalLogger()

		fmt.Println("🏥 ApkScope System Doctor")
		fmt.Println(strings.Repeat("=", 50))

		allPassed := true
		var suggestions []string

		fmt.Println("\n🔍 Checking External Tools...")
		deps := system.NewDependencyManager()
		for _, status := range deps.CheckAll() {
			if status.Available {
				fmt.Printf("  ✅ %s: %s", status.Name, status.Path)
				if status.Version != "" {
					fmt.Printf(" (%s)", status.Version)
				}
				fmt.Println()
				continue
			}
			if status.Required {
				allPassed = false
				fmt.Printf("  ❌ %s: not found\n", status.Name)
				suggestions = append(suggestions, deps.GetInstallInstructions(status.Name)...)
			} else {
				fmt.Printf("  ⚠️  %s: not found (optional)\n", status.Name)
			}
		}

		fmt.Println("\n📁 Checking Scratch Directory...")
		resources := system.NewResourceChecker(logger)
		if err := resources.CheckScratchDir(); err != nil {
			allPassed = false
			fmt.Printf("  ❌ %v\n", err)
		} else {
			fmt.Printf("  ✅ temp directory writable (%s)\n", os.TempDir())
		}

		fmt.Println("\n💾 Checking Disk Space...")
		if usage, err := resources.CheckDiskSpace(os.TempDir()); err != nil {
			fmt.Printf("  ⚠️  %v\n", err)
		} else {
			fmt.Printf("  ✅ %s\n", system.FormatDiskUsage(usage))
		}

		fmt.Println("\n⚙️  Checking Configuration...")
		if _, err := loadConfig(); err != nil {
			allPassed = false
			fmt.Printf("  ❌ %v\n", err)
		} else {
			fmt.Println("  ✅ configuration loads cleanly")
		}

		fmt.Println("\n" + strings.Repeat("=", 50))
		if allPassed {
			fmt.Println("✅ All checks passed")
			return nil
		}

		fmt.Println("❌ Some checks failed")
		if len(suggestions) > 0 {
			fmt.Println("\nSuggestions:")
			for _, s := range suggestions {
				fmt.Printf("  %s\n", s)
			}
		}
		return fmt.Errorf("environment is not ready")
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
