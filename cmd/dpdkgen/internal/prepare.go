package internal

import (
	"io"

	"github.com/fatih/color"
	"github.com/goplus/dpdkgen/internal/pipeline"
	"github.com/spf13/cobra"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Download, configure, build and install the dependency",
	Args:  cobra.NoArgs,
	RunE:  runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	report, err := s.builder.Prepare(cmd.Context())
	if report != nil {
		printReport(cmd.ErrOrStderr(), report)
	}
	return err
}

func printReport(w io.Writer, r *pipeline.Report) {
	infoColor := color.New(color.FgCyan)
	successColor := color.New(color.FgGreen)
	for _, name := range r.Skipped {
		infoColor.Fprintf(w, "  %-10s up to date\n", name)
	}
	for _, name := range r.Ran {
		successColor.Fprintf(w, "  %-10s done\n", name)
	}
}
