package internal

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Prepare the dependency and generate bindings",
	Long: `Run downloads, configures, builds and installs the dependency, skipping
stages that are already checkpointed, then generates bindings for every
configured module and prints link directives to stdout.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	// a bare "dpdkgen" behaves like "dpdkgen run"
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = runRun
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	if err := s.builder.Run(cmd.Context()); err != nil {
		return err
	}
	successColor := color.New(color.FgGreen, color.Bold)
	successColor.Fprintf(cmd.ErrOrStderr(), "generated %d modules for %s %s\n",
		len(s.cfg.Modules), s.cfg.Dependency.Name, s.cfg.Dependency.Version)
	return nil
}
