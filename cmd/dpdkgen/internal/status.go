package internal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/goplus/dpdkgen/internal/build"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show checkpoint markers and the last build record",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st, err := s.builder.Status()
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), st)
	return nil
}

func printStatus(w io.Writer, st *build.Status) {
	doneColor := color.New(color.FgGreen)
	pendingColor := color.New(color.FgYellow)
	titleColor := color.New(color.FgCyan, color.Bold)

	titleColor.Fprintln(w, "Stages:")
	for _, stage := range st.Stages {
		if stage.Done {
			doneColor.Fprintf(w, "  %-10s done\n", stage.Name)
		} else {
			pendingColor.Fprintf(w, "  %-10s pending\n", stage.Name)
		}
	}

	rec := st.Record
	if rec == nil {
		fmt.Fprintln(w, "\nNo completed run recorded.")
		return
	}
	titleColor.Fprintln(w, "\nLast run:")
	fmt.Fprintf(w, "  dependency %s %s\n", rec.Dependency, rec.Version)
	fmt.Fprintf(w, "  modules    %s\n", strings.Join(rec.Modules, ", "))
	fmt.Fprintf(w, "  built at   %s\n", rec.BuildTime.Format(time.RFC3339))
}
