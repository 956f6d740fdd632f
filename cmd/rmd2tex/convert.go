// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rmd2tex/internal/archive"
	"github.com/pdiddy/rmd2tex/internal/convert"
	"github.com/pdiddy/rmd2tex/internal/journal"
	"github.com/pdiddy/rmd2tex/internal/pandoc"
	"github.com/pdiddy/rmd2tex/internal/render"
	"github.com/pdiddy/rmd2tex/internal/runlog"
	"github.com/pdiddy/rmd2tex/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <manuscript.Rmd>",
	Short: "Convert an Rmarkdown manuscript to journal-ready LaTeX",
	Long: `Convert runs the full pipeline: knit the Rmd with the R render engine,
convert the intermediate markdown to LaTeX with pandoc under the journal
template, rewrite longtable environments into tabledata blocks, and copy
referenced figures and bibliography files into the submission directory.

Each run is recorded in the run history (see the runs command).`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	src := args[0]
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("manuscript %s: %w", src, err)
	}
	m := types.NewManuscript(src)

	engine, err := render.DetectEngine()
	if err != nil {
		return err
	}
	converter, err := pandoc.NewConverter()
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	keepMD, _ := cmd.Flags().GetBool("keep-md")
	standalone, _ := cmd.Flags().GetBool("standalone")

	pandocCfg := types.PandocConfig{Standalone: standalone}
	if name, _ := cmd.Flags().GetString("journal"); name != "" {
		presets, err := journal.LoadPresets(stringSetting(cmd, "journals", "journals_file", "journals.yaml"))
		if err != nil {
			return err
		}
		preset, ok := presets.Find(name)
		if !ok {
			return fmt.Errorf("unknown journal %q: available presets are %v", name, presets.Names())
		}
		pandocCfg = preset.Pandoc
	}

	// Explicit flags override the journal preset.
	if v := stringSetting(cmd, "template", "pandoc.template", ""); v != "" {
		pandocCfg.Template = v
	}
	if v := stringSetting(cmd, "bibliography", "pandoc.bibliography", ""); v != "" {
		pandocCfg.Bibliography = v
	}
	if v := stringSetting(cmd, "csl", "pandoc.csl", ""); v != "" {
		pandocCfg.CSL = v
	}

	opts := types.ConvertOptions{
		OutDir:           stringSetting(cmd, "out", "out_dir", "submission"),
		Force:            force,
		KeepIntermediate: keepMD,
		Pandoc:           pandocCfg,
	}

	result := convert.ConvertManuscript(engine, converter, m, opts, os.Stdout)

	if result.Status != types.ConversionNone {
		recordRun(cmd, m, engine.Name(), result)
	}

	if result.Status == types.ConversionFailed {
		return result.Err
	}

	if doArchive, _ := cmd.Flags().GetBool("archive"); doArchive && result.Status == types.ConversionDone {
		zipPath := filepath.Join(opts.OutDir, m.ID+".zip")
		if err := archive.ZipDir(opts.OutDir, zipPath); err != nil {
			return err
		}
		fmt.Printf("archived: %s\n", zipPath)
	}

	return nil
}

// recordRun appends the run to the history database. A broken run log is a
// warning, not a pipeline failure.
func recordRun(cmd *cobra.Command, m types.Manuscript, engine string, result convert.Result) {
	logDir, _ := cmd.Flags().GetString("log-dir")
	store, err := runlog.NewStore(types.RunLogConfig{Dir: logDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run log unavailable: %v\n", err)
		return
	}
	defer store.Close()

	_, err = store.Record(context.Background(), runlog.Run{
		Manuscript:      m.ID,
		SourcePath:      m.SourcePath,
		TexPath:         result.TexPath,
		Engine:          engine,
		TablesRewritten: result.TablesRewritten,
		AssetsCopied:    result.AssetsCopied,
		Duration:        result.Duration,
		Status:          result.Status,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
}

func init() {
	convertCmd.Flags().String("out", "", "submission output directory (default: submission)")
	convertCmd.Flags().String("journal", "", "journal preset name from the presets file")
	convertCmd.Flags().String("journals", "", "journal presets file (default: journals.yaml)")
	convertCmd.Flags().String("template", "", "journal LaTeX template passed to pandoc")
	convertCmd.Flags().String("bibliography", "", ".bib file passed to pandoc (enables citeproc)")
	convertCmd.Flags().String("csl", "", "citation style file passed to pandoc")
	convertCmd.Flags().Bool("standalone", true, "produce a complete LaTeX document")
	convertCmd.Flags().Bool("force", false, "rebuild even if the output .tex exists")
	convertCmd.Flags().Bool("keep-md", false, "keep the intermediate markdown next to the .tex")
	convertCmd.Flags().Bool("archive", false, "bundle the submission directory into a zip after converting")
	convertCmd.Flags().String("log-dir", "", "run history directory (default: .rmd2tex)")

	rootCmd.AddCommand(convertCmd)
}
