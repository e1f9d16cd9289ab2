package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cinder/internal/driver"
	"cinder/internal/project"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove build output and the disk cache",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache", false, "also drop the shared disk cache")
}

func runClean(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) > 0 && args[0] != "" {
		start = args[0]
	}

	root, ok, err := project.FindProjectRoot(start)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no %s found in %q or any parent directory", project.ManifestName, start)
	}
	manifest, err := project.Load(filepath.Join(root, project.ManifestName))
	if err != nil {
		return err
	}

	output := filepath.Join(root, manifest.Build.Output)
	if err := os.Remove(output); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %q: %w", output, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to remove")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", output)
	}

	dropCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return err
	}
	if dropCache {
		cache, err := driver.OpenDiskCache("cinder")
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "dropped disk cache")
	}
	return nil
}
