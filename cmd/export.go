package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/fontedit/fontedit/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <document>",
	Short: "Render a document as source code",
	Long: `Render every glyph of a document as byte arrays. Options default to the
export section of the config file.

Examples:
  fontedit export font.fontedit                     # print C source
  fontedit export font.fontedit -o font.h
  fontedit export font.fontedit --format python --invert -o font.py
  fontedit export font.fontedit -o font.h --diff    # show what changes in font.h`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringP("format", "f", "", "c, arduino or python (overrides export.format)")
	exportCmd.Flags().Bool("invert", false, "emit 1 for clear pixels")
	exportCmd.Flags().Bool("msb", true, "leftmost pixel in bit 7")
	exportCmd.Flags().Bool("line-spacing", false, "keep the blank margin rows")
	exportCmd.Flags().Bool("diff", false, "print a line diff against the existing output file")
}

// exportOptions applies the flags that were set on top of the config.
func exportOptions(cmd *cobra.Command) (export.Options, error) {
	opts := cfg.Export.Options()
	flags := cmd.Flags()
	if flags.Changed("format") {
		s, _ := flags.GetString("format")
		format, err := export.ParseFormat(s)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}
	if flags.Changed("invert") {
		opts.InvertBits, _ = flags.GetBool("invert")
	}
	if flags.Changed("msb") {
		opts.MSBFirst, _ = flags.GetBool("msb")
	}
	if flags.Changed("line-spacing") {
		opts.IncludeLineSpacing, _ = flags.GetBool("line-spacing")
	}
	return opts, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	opts, err := exportOptions(cmd)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	diff, _ := cmd.Flags().GetBool("diff")
	if diff && out == "" {
		return errors.New("--diff needs --output")
	}

	session, err := newSession(cfg, nil, false, false)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if err := session.OpenDocument(ctx, args[0]); err != nil {
		return err
	}
	if err := session.SetFormatOptions(opts); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if out == "" {
		src, err := session.SourceCode(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, src)
		return err
	}

	if diff {
		before, err := os.ReadFile(out)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", out, err)
		}
		src, err := session.SourceCode(ctx)
		if err != nil {
			return err
		}
		d := export.DiffSource(string(before), src)
		if !d.Changed() {
			fmt.Fprintf(w, "%s is up to date\n", out)
			return nil
		}
		fmt.Fprint(w, d.Text)
		fmt.Fprintf(w, "%d lines added, %d removed\n", d.Added, d.Removed)
	}

	if err := session.ExportTo(ctx, out); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s (%s)\n", out, opts)
	return nil
}
