package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fontedit/fontedit/internal/config"
	"github.com/fontedit/fontedit/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <font>",
	Short: "Rasterize a font into a new document",
	Long: `Rasterize a TrueType or OpenType font at a fixed size and save it as a
fontedit document.

Examples:
  fontedit import DejaVuSans.ttf                    # writes DejaVuSans.fontedit
  fontedit import font.otf --size 8 -o small.fontedit
  fontedit import builtin:gomono --runes 0x30-0x39  # digits of Go Mono`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("output", "o", "", "document path (default: font name + "+store.Extension+")")
	importCmd.Flags().Float64("size", 0, "point size (overrides import.size)")
	importCmd.Flags().Float64("dpi", 0, "resolution (overrides import.dpi)")
	importCmd.Flags().String("runes", "", "code points to import, e.g. 32-126 (overrides import.runes)")
	importCmd.Flags().Int("threshold", 0, "minimum coverage 0-255 for a set pixel (overrides import.threshold)")
}

func runImport(cmd *cobra.Command, args []string) error {
	font := args[0]
	ic := cfg.Import
	flags := cmd.Flags()
	if flags.Changed("size") {
		ic.Size, _ = flags.GetFloat64("size")
	}
	if flags.Changed("dpi") {
		ic.DPI, _ = flags.GetFloat64("dpi")
	}
	if flags.Changed("runes") {
		ic.Runes, _ = flags.GetString("runes")
	}
	if flags.Changed("threshold") {
		ic.Threshold, _ = flags.GetInt("threshold")
	}
	if err := config.ValidateImport(ic); err != nil {
		return err
	}
	desc, err := ic.Descriptor(font)
	if err != nil {
		return err
	}

	out, _ := flags.GetString("output")
	if out == "" {
		name := filepath.Base(strings.TrimPrefix(font, "builtin:"))
		out = strings.TrimSuffix(name, filepath.Ext(name)) + store.Extension
	}

	session, err := newSession(cfg, nil, false, false)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if err := session.ImportFont(ctx, desc); err != nil {
		return err
	}
	if err := session.SaveDocument(ctx, out); err != nil {
		return err
	}

	info := session.FaceInfo()
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d glyphs of %s into %s\n",
		info.FontName, info.NumberOfGlyphs, info.Size, out)
	return nil
}
