package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type cli struct {
	EnvFile []string `name:"env-file" type:"path" help:"Dotenv files to load before reading the environment (defaults to .env)."`

	Serve   serveCmd   `cmd:"" default:"1" help:"Run the admin console."`
	Inspect inspectCmd `cmd:"" help:"Print a member's level progress and activity heatmap."`
}

func main() {
	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var root cli
	ctx := kong.Parse(&root,
		kong.Name("nexus"),
		kong.Description("Nexus admin console."),
		kong.UsageOnError(),
		kong.BindTo(signalCtx, (*context.Context)(nil)),
	)
	err := ctx.Run(&root)
	ctx.FatalIfErrorf(err)
}
