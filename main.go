package main

import (
	"fmt"
	"log/slog"
	"os"

	"picscramble/config"
	"picscramble/convert"
	"picscramble/inspect"
	"picscramble/parallel"
	"picscramble/scramble"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Workers   int             `help:"Number of files processed at once. 0 uses all CPUs." default:"0"`
	Verbose   bool            `help:"Log debug messages" short:"v"`
	LogFormat string          `help:"Log output format" enum:"text,json" default:"text"`
	Config    kong.ConfigFlag `help:"YAML file with flag defaults"`

	Scramble   scramble.ScrambleCmd   `cmd:"" help:"Shuffle rows and columns of 24-bit bitmaps, writing a key file next to each result"`
	Unscramble scramble.UnscrambleCmd `cmd:"" help:"Restore scrambled bitmaps using their key files"`
	Convert    convert.CLICmd         `cmd:"" help:"Convert images to 24-bit bitmaps"`
	Inspect    inspect.CLICmd         `cmd:"" help:"Check that files are bitmaps this tool accepts"`
}

func setupLogging(cli *CLI) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cli.Verbose {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	switch cli.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("picscramble"),
		kong.Description("Reversibly scramble 24-bit BMP images."),
		kong.UsageOnError(),
		kong.Configuration(config.YAML, "~/.config/picscramble.yaml", ".picscramble.yaml"),
	)

	setupLogging(&cli)

	pool := parallel.Start(cli.Workers)
	slog.Debug("running", "command", kctx.Command(), "workers", pool.Workers)

	if err := kctx.Run(pool.Do, pool.Wait); err != nil {
		slog.Error(fmt.Sprintf("%s failed", kctx.Command()), "error", err)
		os.Exit(1)
	}
}
