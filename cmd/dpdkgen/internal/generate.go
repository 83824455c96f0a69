package internal

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate bindings for an installed dependency",
	Long: `Generate probes the installed dependency with pkg-config, writes bindings
for every configured module and prints link directives. It does not run
any preparation stage.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()
	return s.builder.Generate(cmd.Context())
}
