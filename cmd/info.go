package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fontedit/fontedit/internal/ui/markdown"
)

var infoCmd = &cobra.Command{
	Use:   "info <document>",
	Short: "Describe a saved document",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().Bool("raw", false, "print markdown without styling")
	infoCmd.Flags().Int("width", 80, "word wrap width")
}

func runInfo(cmd *cobra.Command, args []string) error {
	session, err := newSession(cfg, nil, false, false)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.OpenDocument(cmd.Context(), args[0]); err != nil {
		return err
	}

	md := markdown.FaceSummary(markdown.Summary{
		Path:     session.Path(),
		Info:     session.FaceInfo(),
		Margins:  session.Margins(),
		Modified: session.ModifiedLabels(),
	})

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		_, err = fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}
	width, _ := cmd.Flags().GetInt("width")
	r, err := markdown.New(width)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
