package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/wolfeidau/bundlekit/cmd/bundlekit/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Build commands.BuildCmd `cmd:"" help:"Build bundles"`
		Serve commands.ServeCmd `cmd:"" help:"Run the development server"`
		Show  commands.ShowCmd  `cmd:"" help:"Print the resolved build configuration"`
		Debug bool              `help:"Enable debug mode."`

		Version kong.VersionFlag
	}
)

func main() {
	// Make .env values visible to flag env bindings before parsing.
	_ = godotenv.Load()

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
