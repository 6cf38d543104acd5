package main

import (
	"fmt"
	"io"
	"time"

	"github.com/danmuck/dbgadgets/internal/config"
	"github.com/danmuck/dbgadgets/internal/logging"
	"github.com/danmuck/dbgadgets/internal/observability"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type app struct {
	out         io.Writer
	errOut      io.Writer
	root        *cobra.Command
	configPath  string
	logLevel    string
	metricsFile string
	cfg         config.Config
}

func newApp(out io.Writer, errOut io.Writer) *app {
	a := &app{out: out, errOut: errOut, cfg: config.Default()}

	root := &cobra.Command{
		Use:           "gadgetctl",
		Short:         "Host utilities for MySQL server administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvPath+" or ./"+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (trace, debug, info, warn, error, off)")
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "write prometheus textfile metrics to this path")

	root.AddCommand(
		a.locateCmd(),
		a.abspathCmd(),
		a.optfileCmd(),
		a.listeningCmd(),
		a.executableCmd(),
		a.spawnCmd(),
		a.stopCmd(),
		a.gadgetCmd(),
		a.configCmd(),
	)
	a.root = root
	return a
}

func newRootCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	return newApp(out, errOut).root
}

// execute runs args and records the outcome. The returned code is the
// process exit status.
func (a *app) execute(args []string) (int, error) {
	a.root.SetArgs(args)
	start := time.Now()
	cmd, err := a.root.ExecuteC()
	code := exitCode(err)

	name := a.root.Name()
	if cmd != nil {
		name = cmd.CommandPath()
	}
	observability.RecordCommand(name, code, time.Since(start))

	path := a.metricsFile
	if path == "" {
		path = a.cfg.MetricsFile
	}
	if path != "" {
		if werr := observability.WriteTextfile(path); werr != nil {
			log.Warn().Err(werr).Str("path", path).Msg("gadgetctl metrics write failed")
		}
	}
	return code, err
}

func (a *app) load() error {
	path, explicit := config.Resolve(a.configPath)
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	if level != "" && !logging.SetLevel(level) {
		return fmt.Errorf("invalid log level %q", level)
	}
	log.Debug().Str("config", path).Bool("explicit", explicit).Msg("gadgetctl config loaded")
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
