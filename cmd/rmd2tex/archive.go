// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rmd2tex/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <submission-dir> [zipfile]",
	Short: "Bundle a submission directory into a zip archive",
	Long: `Archive zips the submission directory for manual upload to the
collaboration platform. The default archive name is the directory name
with a .zip suffix, written next to the directory.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := strings.TrimSuffix(args[0], string(filepath.Separator))
		zipPath := dir + ".zip"
		if len(args) == 2 {
			zipPath = args[1]
		}

		if err := archive.ZipDir(dir, zipPath); err != nil {
			return err
		}
		fmt.Printf("archived: %s\n", zipPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
