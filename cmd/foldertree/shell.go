package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/internal/util"
)

var (
	errNoModule    = &foldertree.MissingSelectionError{Missing: "module"}
	errNoType      = &foldertree.MissingSelectionError{Missing: "type"}
	errNoOperation = &foldertree.MissingSelectionError{Missing: "operation"}
)

// shell reads commands line by line and dispatches them through a cobra
// command tree. Failures are printed and never end the loop.
type shell struct {
	app  *app
	in   io.Reader
	root *cobra.Command
	done bool
}

func newShell(a *app, in io.Reader) *shell {
	sh := &shell{app: a, in: in}
	sh.root = &cobra.Command{
		Use:           "shell",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	sh.root.SetOut(a.out.w)
	sh.root.SetErr(a.out.w)
	sh.root.AddCommand(sh.treeCommands()...)
	sh.root.AddCommand(sh.pluginCommands()...)
	sh.root.AddCommand(
		&cobra.Command{
			Use:   "state",
			Short: "Show selections and the plugin state",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				sh.app.out.State(sh.app.session)
			},
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the shell",
			Args:    cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				sh.done = true
			},
		},
	)
	return sh
}

// Run processes lines until quit or end of input
func (sh *shell) Run() error {
	scanner := bufio.NewScanner(sh.in)
	for !sh.done {
		sh.app.out.Prompt()
		if !scanner.Scan() {
			break
		}
		sh.Exec(scanner.Text())
	}
	return scanner.Err()
}

// Exec runs one command line
func (sh *shell) Exec(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	logger := util.GetLogger("shell")
	logger.Trace().Strs("args", fields).Msg("Executing shell command")
	sh.root.SetArgs(fields)
	if err := sh.root.Execute(); err != nil {
		sh.app.out.Error(err)
	}
	resetFlags(sh.root)
}

// resetFlags restores every flag of cmd and its subcommands to its default.
// pflag keeps parsed values between executions, so a single "--help" would
// otherwise stick to the command for the rest of the session.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if err := f.Value.Set(f.DefValue); err != nil {
			logger := util.GetLogger("shell")
			logger.Warn().Err(err).Str("flag", f.Name).Msg("Failed to reset flag")
		}
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func (sh *shell) treeCommands() []*cobra.Command {
	s := sh.app.session
	out := sh.app.out
	return []*cobra.Command{
		{
			Use:   "tree",
			Short: "Print the folder tree",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				out.Tree(s.Tree().Root())
			},
		},
		{
			Use:   "select <path>",
			Short: "Select the node to copy or move",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if err := s.SelectSourcePath(args[0]); err != nil {
					return err
				}
				out.Infof("source: %s", args[0])
				return nil
			},
		},
		{
			Use:   "dest <path>",
			Short: "Select the folder to copy or move into",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if err := s.SelectDestinationPath(args[0]); err != nil {
					return err
				}
				out.Infof("destination: %s", args[0])
				return nil
			},
		},
		{
			Use:   "copy",
			Short: "Copy the selected node into the selected folder",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				// Outcome is reported through the session observer
				_, _ = s.Copy()
			},
		},
		{
			Use:   "move",
			Short: "Move the selected node into the selected folder",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				_ = s.Move()
			},
		},
		{
			Use:   "size [path]",
			Short: "Print the size of a node, or of the selected node",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if len(args) == 1 {
					n, err := s.Tree().Lookup(args[0])
					if err != nil {
						return err
					}
					out.Size(n, s.Tree().Size(n))
					return nil
				}
				size, err := s.SelectedSize()
				if err != nil {
					return err
				}
				out.Size(s.Source(), size)
				return nil
			},
		},
	}
}

func (sh *shell) pluginCommands() []*cobra.Command {
	s := sh.app.session
	out := sh.app.out
	marker := sh.app.cfg.MarkerCapability
	return []*cobra.Command{
		{
			Use:   "load <path>",
			Short: `Load a module from a shared object or "builtin:<name>"`,
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if _, err := s.LoadModule(args[0]); err != nil {
					return err
				}
				out.Types(s.Types(), marker)
				return nil
			},
		},
		{
			Use:   "types",
			Short: "List candidate types of the loaded module",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if s.Module() == nil {
					return errNoModule
				}
				out.Types(s.Types(), marker)
				return nil
			},
		},
		{
			Use:   "type <name>",
			Short: "Select a candidate type",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if err := s.SelectType(args[0]); err != nil {
					return err
				}
				out.Operations(s.SelectedType(), s.Operations())
				return nil
			},
		},
		{
			Use:   "ops",
			Short: "List operations of the selected type",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if s.SelectedType() == nil {
					return errNoType
				}
				out.Operations(s.SelectedType(), s.Operations())
				return nil
			},
		},
		{
			Use:   "op <name>",
			Short: "Select an operation and reset its arguments",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if err := s.SelectOperation(args[0]); err != nil {
					return err
				}
				out.Args(s.Pending())
				return nil
			},
		},
		{
			Use:   "args",
			Short: "Show the bound arguments",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if s.Pending() == nil {
					return errNoOperation
				}
				out.Args(s.Pending())
				return nil
			},
		},
		{
			Use:   "arg <index> <value>",
			Short: "Bind a value to an argument; the rest of the line is the value",
			// Values such as -1 must not be parsed as flags
			DisableFlagParsing: true,
			Args:               cobra.MinimumNArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				i, err := strconv.Atoi(args[0])
				if err != nil {
					return err
				}
				if err := s.SetArgumentText(i, strings.Join(args[1:], " ")); err != nil {
					return err
				}
				out.Args(s.Pending())
				return nil
			},
		},
		{
			Use:   "invoke",
			Short: "Invoke the selected operation on a new instance",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				_, _ = s.Invoke()
			},
		},
	}
}
