package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/foldertree/config"
	"github.com/brettbedarf/foldertree/filesystem"
	"github.com/brettbedarf/foldertree/internal/util"
	"github.com/brettbedarf/foldertree/modules"
	"github.com/brettbedarf/foldertree/requests"
	"github.com/brettbedarf/foldertree/session"
)

type options struct {
	verbose    int
	configPath string
	treeFile   string
	modulePath string
}

// app is built once flags are parsed and shared by all subcommands
type app struct {
	cfg     *config.Config
	fs      *filesystem.FileSystem
	session *session.Session
	out     *printer
	logOut  io.Writer
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	a := &app{out: newPrinter(out), logOut: errOut}

	cmd := &cobra.Command{
		Use:   "foldertree",
		Short: "In-memory folder tree with copy/move and a plugin runner",
		Long: `foldertree keeps a tree of folders and files in memory, copies and moves
nodes between folders, and runs operations of plugin modules.

Without a subcommand the tree is printed.

Environment variables:
` + config.EnvUsage(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return a.init(cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.out.Tree(a.fs.Root())
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.IntVarP(&opts.verbose, "verbose", "v", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	flags.StringVarP(&opts.treeFile, "nodes", "n", "", "Path to a JSON or YAML tree definition file")
	flags.StringVarP(&opts.modulePath, "module", "m", "", `Module to load at startup, a shared object path or "builtin:<name>"`)

	cmd.AddCommand(newTreeCmd(a), newSizeCmd(a), newShellCmd(a, in))
	return cmd
}

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the folder tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.out.Tree(a.fs.Root())
			return nil
		},
	}
}

func newSizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "size <path>",
		Short: "Print the recursive size of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.fs.Lookup(args[0])
			if err != nil {
				a.out.Error(err)
				return err
			}
			a.out.Size(n, a.fs.Size(n))
			return nil
		},
	}
}

func newShellCmd(a *app, in io.Reader) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Drive the tree and plugin session interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newShell(a, in).Run()
		},
	}
}

// loadConfig layers defaults, the config file, FOLDERTREE_* environment
// variables and explicitly set flags, in increasing precedence
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if opts.configPath != "" {
		override, err := config.LoadConfigOverrideFile(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.Merge(override)
	}

	env, err := config.LoadConfigOverrideEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.Merge(env)

	flagOverride := &config.ConfigOverride{}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		flagOverride.LogLvl = util.Pointer(opts.verbose)
	}
	if flags.Changed("nodes") {
		flagOverride.TreeFile = util.Pointer(opts.treeFile)
	}
	if flags.Changed("module") {
		flagOverride.ModulePath = util.Pointer(opts.modulePath)
	}
	cfg.Merge(flagOverride)
	return cfg, nil
}

func (a *app) init(cfg *config.Config) error {
	util.InitializeLoggerTo(a.logOut, cfg.LogLvl)
	logger := util.GetLogger("main")
	logger.Debug().
		Str("tree", cfg.TreeFile).
		Str("module", cfg.ModulePath).
		Str("marker", cfg.MarkerCapability).
		Msg("foldertree initializing")

	modules.RegisterBuiltins()

	a.cfg = cfg
	a.fs = filesystem.NewFS(cfg)
	if err := seedTree(a.fs, cfg); err != nil {
		return err
	}

	a.session = session.New(cfg, a.fs, modules.NewRegistryFromConfig(cfg))
	a.session.Subscribe(&observer{out: a.out})
	if cfg.ModulePath != "" {
		if _, err := a.session.LoadModule(cfg.ModulePath); err != nil {
			a.out.Error(err)
			return err
		}
	}
	return nil
}

// seedTree fills fs from cfg.TreeFile, or with the demo tree if there is none
// and seeding is enabled. Individual nodes that cannot be added are logged and skipped.
func seedTree(fs *filesystem.FileSystem, cfg *config.Config) error {
	logger := util.GetLogger("main")

	if cfg.TreeFile == "" {
		if !cfg.SeedDemo {
			logger.Warn().Msg("No tree file provided")
			return nil
		}
		return fs.SeedDemo()
	}

	reqs, err := requests.LoadFile(cfg.TreeFile)
	if err != nil {
		logger.Error().Err(err).Str("tree", cfg.TreeFile).Msg("Failed to load tree file")
		return err
	}
	logger.Debug().
		Int("files", len(reqs.Files)).
		Int("directories", len(reqs.Dirs)).
		Msg("Successfully loaded node requests")

	dirAddCnt := 0
	for _, req := range reqs.Dirs {
		if _, err := fs.AddDirNode(req); err != nil {
			logger.Debug().Interface("request", req).Err(err).Msg("Failed to add directory request")
		} else {
			dirAddCnt++
		}
	}
	fileAddCnt := 0
	for _, req := range reqs.Files {
		if _, err := fs.AddFileNode(req); err != nil {
			logger.Debug().Interface("request", req).Err(err).Msg("Failed to add file request")
		} else {
			fileAddCnt++
		}
	}
	logger.Info().Int("directories", dirAddCnt).Int("files", fileAddCnt).Msg("Added new nodes to tree")
	return nil
}
