package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/lito/cmd/lito/commands"
	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/version"
)

func main() {
	var cli commands.CLI
	parser, err := kong.New(&cli,
		kong.Name("lito"),
		kong.Description("Beautiful docs sites from a folder of Markdown."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		if ferrors.IsClassified(err) {
			ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
		}
		parser.FatalIfErrorf(err)
	}

	err = kctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
