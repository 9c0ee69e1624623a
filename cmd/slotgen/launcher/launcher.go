package launcher

import (
	"sort"

	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-slotinit/logger"
	"github.com/unicornultrafoundation/go-slotinit/version"
)

const clientIdentifier = "slotgen"

var (
	// Git SHA1 commit hash of the release (set via linker flags).
	gitCommit = ""
	gitDate   = ""

	// The app that holds all commands and flags.
	app = newApp()
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 2,
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = clientIdentifier
	app.Usage = "storage initializer generator for contract storage declarations"
	app.Version = version.WithCommit(gitCommit, gitDate)
	app.HideVersion = true // we have a command to print the version
	app.Commands = []cli.Command{
		// See slotscmd.go:
		slotsCommand,
		// See keycmd.go:
		keyCommand,
		// See config.go:
		dumpConfigCommand,
		checkConfigCommand,
		// See misccmd.go:
		versionCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		keySchemeFlag,
		keyCacheFlag,
		strictFlag,
		workersFlag,
		metricsFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		logger.SetVerbosity(ctx.GlobalInt(verbosityFlag.Name))
		return nil
	}
	return app
}

// Launch runs the command line interface with the given arguments,
// args[0] being the program name.
func Launch(args []string) error {
	return app.Run(args)
}
