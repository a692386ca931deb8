package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apkscope/apkscope-cli/internal/cache"
	"github.com/apkscope/apkscope-cli/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the report cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show report cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := config.CachePath(cfg)
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Printf("Cache: %s (empty)\n", path)
			return nil
		}

		store, err := cache.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		count, err := store.Count()
		if err != nil {
			return err
		}
		fmt.Printf("Cache: %s\n", path)
		fmt.Printf("Reports: %d\n", count)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := config.CachePath(cfg)
		if err != nil {
			return err
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
