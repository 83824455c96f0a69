package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/goplus/dpdkgen/internal/build"
	"github.com/goplus/dpdkgen/internal/config"
	"github.com/goplus/dpdkgen/internal/env"
	"github.com/goplus/dpdkgen/internal/toolexec"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	workDir    string
	verbose    bool
	force      bool
	format     string
)

var rootCmd = &cobra.Command{
	Use:   "dpdkgen",
	Short: "dpdkgen builds DPDK and generates bindings for it",
	Long: `dpdkgen downloads, configures, builds and installs a pinned DPDK release,
then generates feature-gated bindings for the libraries selected from a
descriptor map and prints the link directives for the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file (default dpdkgen.yaml in the work dir)")
	pf.StringVarP(&workDir, "dir", "C", ".", "work directory")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&force, "force", "f", false, "ignore checkpoints and rerun every stage")
	pf.StringVar(&format, "format", "", "directive format: cargo or ldflags")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to stderr; stdout is reserved for link directives.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// session holds what every command needs for one invocation.
type session struct {
	fs      afero.Fs
	cfg     *config.Config
	log     *zap.Logger
	builder *build.Builder
}

func newSession(cmd *cobra.Command) (*session, error) {
	log, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	bctx, err := env.New(workDir)
	if err != nil {
		return nil, err
	}
	fs := afero.NewOsFs()
	file := configFile
	if file != "" {
		file = bctx.Path(file)
	}
	cfg, err := config.Load(fs, bctx.WorkDir(), file)
	if err != nil {
		return nil, err
	}
	if force {
		cfg.Force = "true"
	}
	if format != "" {
		cfg.Format = format
	}
	b, err := build.New(build.Options{
		Config:  cfg,
		Context: bctx,
		Runner:  toolexec.New(log),
		Fs:      fs,
		Stdout:  cmd.OutOrStdout(),
		Log:     log,
	})
	if err != nil {
		return nil, err
	}
	return &session{fs: fs, cfg: cfg, log: log, builder: b}, nil
}
