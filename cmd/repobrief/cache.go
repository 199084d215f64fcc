package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repobrief/repobrief/internal/cache"
	"github.com/repobrief/repobrief/internal/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the clone cache",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	pathCmd := &cobra.Command{
		Use:   "path <repository>",
		Short: "Print the cache path a repository URL maps to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			fmt.Println(filepath.Join(cfg.CacheDir, cache.Key(args[0])))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached clones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.CacheDir == "" {
				return nil
			}
			if err := os.RemoveAll(cfg.CacheDir); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Cleared cache at %s\n", cfg.CacheDir)
			return nil
		},
	}

	cmd.AddCommand(pathCmd, clearCmd)
	return cmd
}
