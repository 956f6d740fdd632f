// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rmd2tex/internal/latex"
)

var tablesCmd = &cobra.Command{
	Use:   "tables <input.tex> [output.tex]",
	Short: "Rewrite longtable environments in a LaTeX file",
	Long: `Tables runs only the table-rewriting stage: every longtable environment
in the input is replaced by a tabledata block with a tagged header row and
tagged data rows. With a single argument the file is rewritten in place.

A file without longtable markup is copied through unchanged.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		out := in
		if len(args) == 2 {
			out = args[1]
		}

		if err := latex.RewriteTables(in, out); err != nil {
			return err
		}
		fmt.Printf("rewrote tables: %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
