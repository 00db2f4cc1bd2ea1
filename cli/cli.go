package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/specscan/cli/cmd"
	"github.com/ardnew/specscan/pkg"
)

// CLI is the top-level command-line interface for specscan.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Dump   cmd.Dump   `cmd:"" help:"Write parsed scans as JSON or YAML"`
	List   cmd.List   `cmd:"" help:"List scans, one per row"`
	Show   cmd.Show   `cmd:"" help:"Show one scan's header and data"`
	Follow cmd.Follow `cmd:"" help:"Print scans and points as a file is written"`
	Browse cmd.Browse `cmd:"" help:"Browse scans interactively"`
	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
}

// Run executes the specscan CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version(),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that resolver and parse
	// errors are logged as requested wherever the flags appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is given.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
