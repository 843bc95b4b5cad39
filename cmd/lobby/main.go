package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Client  ClientCmd        `cmd:"" help:"Connect to a lobby server as an interactive client"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lobby"),
		kong.Description("Multi-table card-game lobby client"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
