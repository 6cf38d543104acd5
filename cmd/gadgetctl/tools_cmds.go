package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/dbgadgets/internal/observability"
	"github.com/danmuck/dbgadgets/internal/tools"
	"github.com/spf13/cobra"
)

func (a *app) locateCmd() *cobra.Command {
	var (
		baseDir      string
		searchPath   bool
		defaultPaths []string
		optional     bool
		quote        bool
		noExtension  bool
		executable   bool
	)
	cmd := &cobra.Command{
		Use:   "locate <tool>",
		Short: "Find a tool under the install dirs, PATH and default dirs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.LocateOptions()
			if cmd.Flags().Changed("base-dir") {
				opts.BaseDir = baseDir
			}
			if cmd.Flags().Changed("search-path") {
				opts.SearchPATH = searchPath
			}
			if len(defaultPaths) > 0 {
				opts.DefaultPaths = defaultPaths
			}
			opts.Optional = optional
			opts.Quote = quote
			opts.NoExtension = noExtension
			if executable {
				opts.Check = tools.IsExecutable
			}

			path, err := tools.ToolPath(args[0], opts)
			if err != nil {
				return err
			}
			if path == "" {
				return exitError{code: 1}
			}
			a.printf("%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "installation root to search first")
	cmd.Flags().BoolVar(&searchPath, "search-path", false, "also search the PATH entries")
	cmd.Flags().StringArrayVar(&defaultPaths, "default-path", nil, "default directory to search (repeatable)")
	cmd.Flags().BoolVar(&optional, "optional", false, "exit 1 silently instead of failing when not found")
	cmd.Flags().BoolVar(&quote, "quote", false, "quote the result for the platform shell")
	cmd.Flags().BoolVar(&noExtension, "no-extension", false, "do not append the platform executable suffix")
	cmd.Flags().BoolVar(&executable, "executable", false, "only accept executable candidates")
	return cmd
}

func (a *app) abspathCmd() *cobra.Command {
	var relativeTo string
	cmd := &cobra.Command{
		Use:   "abspath <path>",
		Short: "Resolve a path against an absolute base path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := tools.AbsPath(args[0], relativeTo)
			if err != nil {
				return err
			}
			a.printf("%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&relativeTo, "relative-to", "", "absolute base path (a file resolves to its directory)")
	return cmd
}

func (a *app) optfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optfile",
		Short: "Create and inspect MySQL option files",
	}
	cmd.AddCommand(a.optfileCreateCmd(), a.optfileShowCmd())
	return cmd
}

func (a *app) optfileCreateCmd() *cobra.Command {
	var (
		sets  []string
		flags []string
		name  string
		dir   string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write an option file with owner-only permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := optionContent(sets, flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dir") {
				dir = a.cfg.OptionDir
			}
			path, err := tools.CreateOptionFile(content, tools.OptionFileOptions{Name: name, Dir: dir})
			if err != nil {
				return err
			}
			a.printf("%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "section.key=value option (repeatable)")
	cmd.Flags().StringArrayVar(&flags, "flag", nil, "section.key option without a value (repeatable)")
	cmd.Flags().StringVar(&name, "name", "", "file name; a unique name is generated when empty")
	cmd.Flags().StringVar(&dir, "dir", "", "target directory (default option_dir or home)")
	return cmd
}

func (a *app) optfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Print the sections and options of an option file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := tools.ReadOptionFile(args[0])
			if err != nil {
				return err
			}
			for _, section := range content.Sections() {
				a.printf("[%s]\n", section.Name)
				for _, opt := range section.Options() {
					a.printf("%s = %s\n", opt.Key, opt.Value)
				}
			}
			return nil
		},
	}
}

// optionContent builds option file content from section.key[=value] specs.
func optionContent(sets []string, flags []string) (*tools.OptionFile, error) {
	content := tools.NewOptionFile()
	for _, raw := range sets {
		ref, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: want section.key=value", raw)
		}
		section, key, err := splitOptionRef(ref)
		if err != nil {
			return nil, err
		}
		content.Section(section).Set(key, value)
	}
	for _, raw := range flags {
		section, key, err := splitOptionRef(raw)
		if err != nil {
			return nil, err
		}
		content.Section(section).SetFlag(key)
	}
	return content, nil
}

func splitOptionRef(ref string) (string, string, error) {
	section, key, ok := strings.Cut(strings.TrimSpace(ref), ".")
	section = strings.TrimSpace(section)
	key = strings.TrimSpace(key)
	if !ok || section == "" || key == "" {
		return "", "", fmt.Errorf("invalid option %q: want section.key", ref)
	}
	return section, key, nil
}

func (a *app) listeningCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listening <host> <port>",
		Short: "Report whether a TCP listener accepts connections",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid port %q", args[1])
			}
			listening := tools.IsListening(args[0], port)
			a.printf("%t\n", listening)
			if !listening {
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func (a *app) executableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "executable <path>",
		Short: "Report whether a file is executable by the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := tools.IsExecutable(args[0])
			a.printf("%t\n", ok)
			if !ok {
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func (a *app) spawnCmd() *cobra.Command {
	var (
		dir  string
		wait bool
	)
	cmd := &cobra.Command{
		Use:   "spawn <command>",
		Short: "Start a command line as a child process",
		Long: "Start a command line as a child process. Without --wait the pid is\n" +
			"printed and the child keeps running after gadgetctl exits.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tools.SpawnOptions{Dir: dir}
			if wait {
				opts.Stdout = a.out
				opts.Stderr = a.errOut
				opts.Stdin = cmd.InOrStdin()
			}
			proc, err := tools.Spawn(args[0], opts)
			observability.RecordProcessEvent("spawn", err == nil)
			if err != nil {
				return err
			}
			if !wait {
				a.printf("%d\n", proc.PID())
				return nil
			}
			code, err := proc.Wait()
			if err != nil {
				return err
			}
			if code != 0 {
				return exitError{code: exitStatus(code)}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "working directory for the child")
	cmd.Flags().BoolVar(&wait, "wait", false, "stream output and exit with the child's status")
	return cmd
}

// exitStatus maps a negative signal exit to the shell convention.
func exitStatus(code int) int {
	if code < 0 {
		return 128 - code
	}
	return code
}

func (a *app) stopCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "stop <pid>",
		Short: "Terminate a process by pid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pid %q", args[0])
			}
			event := "terminate"
			if force {
				event = "kill"
			}
			err = tools.StopProcess(pid, force)
			observability.RecordProcessEvent(event, err == nil)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "kill instead of requesting a graceful stop")
	return cmd
}
