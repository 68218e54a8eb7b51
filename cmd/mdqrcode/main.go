package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdqrcode/cmd/mdqrcode/commands"
	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("mdqrcode"),
		kong.Description("Render QR code directives in markdown as inline PNG images."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
