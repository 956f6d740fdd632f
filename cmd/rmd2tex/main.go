// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rmd2tex CLI.
// Implements: prd001-render, prd002-conversion, prd003-tables,
//             prd004-assets, prd005-archive, prd006-upload (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rmd2tex/internal/platform"
)

// version is set at build time via ldflags.
var version = "dev"

// credentialsDir holds the platform credential files.
const credentialsDir = ".secrets/"

// loadedCredentials holds platform credentials loaded at startup.
var loadedCredentials map[string]string

// rootCmd is the base command for the rmd2tex CLI.
var rootCmd = &cobra.Command{
	Use:   "rmd2tex",
	Short: "Convert Rmarkdown manuscripts to journal-ready LaTeX",
	Long: `rmd2tex turns an Rmarkdown manuscript into a LaTeX document formatted
for a journal submission template. It knits the source with the R render
engine, converts the result with pandoc, rewrites pandoc's longtable
environments into the template's tabledata environment, and copies the
figures and bibliography the manuscript references.

The submission directory can be bundled into a zip archive or pushed
straight to an Overleaf project's git bridge.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform.LoadCredentials(credentialsDir)
		if err != nil {
			return err
		}
		loadedCredentials = c
		if len(c) > 0 {
			keys := make([]string, 0, len(c))
			for k := range c {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded credentials: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rmd2tex.yaml or ~/.config/rmd2tex/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rmd2tex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rmd2tex"))
		}
	}

	viper.SetEnvPrefix("RMD2TEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string option: flag value if set, then config,
// then the built-in default.
func stringSetting(cmd *cobra.Command, flag, configKey, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(configKey); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
