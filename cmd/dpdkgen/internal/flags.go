package internal

import (
	"fmt"
	"strings"

	"github.com/goplus/dpdkgen/internal/linkflags"
	"github.com/spf13/cobra"
)

var flagsCFlags bool

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Print link directives for the installed dependency",
	Long: `Flags probes the installed dependency with pkg-config and prints its link
flags as directives, without generating bindings. With --cflags the probed
compiler flags are printed instead.`,
	Args: cobra.NoArgs,
	RunE: runFlags,
}

func init() {
	flagsCmd.Flags().BoolVar(&flagsCFlags, "cflags", false, "print compiler flags instead of link directives")
	rootCmd.AddCommand(flagsCmd)
}

func runFlags(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	ds, err := s.builder.Flags(cmd.Context())
	if err != nil {
		return err
	}
	if flagsCFlags {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(s.builder.Context().CFlags(), " "))
		return err
	}
	f, err := linkflags.FormatByName(s.cfg.Format)
	if err != nil {
		return err
	}
	return f.Link(cmd.OutOrStdout(), ds)
}
