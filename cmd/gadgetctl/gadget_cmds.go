package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/dbgadgets/internal/config"
	"github.com/danmuck/dbgadgets/internal/gadgets"
	"github.com/danmuck/dbgadgets/internal/logging"
	"github.com/danmuck/dbgadgets/internal/observability"
	"github.com/spf13/cobra"
)

func (a *app) gadgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gadget",
		Short: "List and run registered gadgets",
	}
	cmd.AddCommand(a.gadgetListCmd(), a.gadgetRunCmd())
	return cmd
}

func (a *app) registry() (*gadgets.Registry, error) {
	return gadgets.BuildRegistry(a.cfg.Gadgets, a.cfg.GadgetEnv())
}

func (a *app) gadgetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List gadgets and their operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			for _, meta := range reg.ListMetadata() {
				name := meta.ID
				if aliases := reg.Aliases(meta.ID); len(aliases) > 0 {
					name += " (" + strings.Join(aliases, ", ") + ")"
				}
				a.printf("%s\t%s\n", name, meta.Description)
				g, _ := reg.Resolve(meta.ID)
				for _, op := range g.Operations() {
					a.printf("  %s\t%s\n", op.Name, op.Description)
				}
			}
			return nil
		},
	}
}

func (a *app) gadgetRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <gadget> <action> [key=value...]",
		Short: "Execute one gadget action",
		Example: "  gadgetctl gadget run mysqld status port=3307\n" +
			"  gadgetctl gadget run gadget.mysqld start datadir=/var/lib/mysql opt.skip-networking=",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[2:])
			if err != nil {
				return err
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			g, ok := reg.Resolve(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", gadgets.ErrUnknownGadget, args[0])
			}

			start := time.Now()
			res, runErr := g.Execute(args[1], params)
			observability.RecordGadgetAction(g.Metadata().ID, args[1], res.ExitCode, time.Since(start), runErr == nil && res.ExitCode == 0)
			a.out.Write(res.Stdout)
			a.errOut.Write(res.Stderr)
			if runErr != nil {
				return runErr
			}
			if res.ExitCode != 0 {
				return exitError{code: res.ExitCode}
			}
			return nil
		},
	}
}

// parseParams turns key=value arguments into a gadget argument map.
func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: want key=value", item)
		}
		params[key] = value
	}
	return params, nil
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the gadgetctl config file",
		// The target file may not exist yet; skip loading it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logLevel != "" && !logging.SetLevel(a.logLevel) {
				return fmt.Errorf("invalid log level %q", a.logLevel)
			}
			return nil
		},
	}
	cmd.AddCommand(a.configInitCmd())
	return cmd
}

func (a *app) configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default config template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := config.Resolve(a.configPath)
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteTemplate(path, force); err != nil {
				return err
			}
			a.printf("%s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
