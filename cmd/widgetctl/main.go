package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a widget definition, provider stub, and manifest entry."`
	Check    checkCmd    `cmd:"" help:"Validate manifests and report widget codes that collide with each other or the built-ins."`
	List     listCmd     `cmd:"" help:"List built-in and manifest widgets with their provider bindings."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Widget manifest tooling for the Nexus console."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

