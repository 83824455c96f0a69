package internal

import (
	"bytes"

	"github.com/fatih/color"
	"github.com/goplus/dpdkgen/internal/descmap"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var mapWrite bool

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Inspect the descriptor map",
}

var mapCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse the descriptor map and resolve every configured module",
	Args:  cobra.NoArgs,
	RunE:  runMapCheck,
}

var mapFmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Print the descriptor map in canonical form",
	Args:  cobra.NoArgs,
	RunE:  runMapFmt,
}

func init() {
	mapFmtCmd.Flags().BoolVarP(&mapWrite, "write", "w", false, "rewrite the map file in place")
	mapCmd.AddCommand(mapCheckCmd, mapFmtCmd)
	rootCmd.AddCommand(mapCmd)
}

func runMapCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	mods, err := s.builder.Modules()
	if err != nil {
		return err
	}
	successColor := color.New(color.FgGreen, color.Bold)
	for _, m := range mods {
		successColor.Fprintf(cmd.OutOrStdout(), "  %-10s %d functions, %d vars, %d types\n",
			m.Name, len(m.Functions), len(m.Vars), len(m.Types))
	}
	return nil
}

func runMapFmt(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	path := s.builder.Context().Path(s.cfg.Generate.Map)
	descs, err := descmap.ParseFile(s.fs, path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := descmap.Write(&buf, descs); err != nil {
		return err
	}
	if !mapWrite {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	return afero.WriteFile(s.fs, path, buf.Bytes(), 0o644)
}
