package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("habitd"),
		kong.Description("Track daily habit goals from the terminal."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
