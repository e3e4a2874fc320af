package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/noriah/cavadash"
	"github.com/noriah/cavadash/input"
	"github.com/noriah/cavadash/player"

	_ "github.com/noriah/cavadash/input/all"

	"github.com/integrii/flaggy"
	"golang.org/x/term"
)

var version = "unknown"

// options are the flags that are not part of cavadash.Config.
type options struct {
	logFile  string
	logLevel string
}

func main() {
	log.SetFlags(0)

	cfg := cavadash.NewZeroConfig()
	opts := options{logLevel: "info"}

	if doFlags(&cfg, &opts) {
		return
	}

	chk(cfg.Validate(), "invalid config")

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatalln("stdout is not a terminal")
	}

	logs, err := setupLogging(opts.logFile, opts.logLevel)
	chk(err, "failed to set up logging")

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = cavadash.Run(&cfg, ctx)

	cancel()
	logs.Close()

	chk(err, "failed to run cavadash")
}

func doFlags(cfg *cavadash.Config, opts *options) bool {

	parser := flaggy.NewParser(cavadash.AppName)
	parser.Description = cavadash.AppDesc
	parser.AdditionalHelpPrepend = cavadash.AppSite
	parser.Version = version

	listAnalyzersCmd := flaggy.Subcommand{
		Name:        "list-analyzers",
		ShortName:   "la",
		Description: "list all supported spectrum analyzers",
	}

	parser.AttachSubcommand(&listAnalyzersCmd, 1)

	listMixersCmd := flaggy.Subcommand{
		Name:        "list-mixers",
		ShortName:   "lm",
		Description: "list all volume mixers",
	}

	parser.AttachSubcommand(&listMixersCmd, 1)

	parser.String(&cfg.Analyzer, "a", "analyzer", "analyzer name")
	parser.Int(&cfg.Bars, "b", "bars", "starting bar count [5, 200]")
	parser.Int(&cfg.Framerate, "f", "fps", "analyzer frame rate (0 keeps its default)")
	parser.String(&cfg.Controller.Player, "p", "player", "player to control")
	parser.String(&cfg.Controller.Binary, "c", "controller", "media controller binary")
	parser.String(&cfg.Controller.Mixer, "m", "mixer", "volume mixer name")
	parser.Int(&cfg.TrackWidth, "w", "track-width", "widest track label before it scrolls")
	parser.String(&opts.logFile, "l", "log", "write logs to this file")
	parser.String(&opts.logLevel, "ll", "log-level", "log level (trace, debug, info, warn, error)")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listAnalyzersCmd.Used:
		def := input.DefaultAnalyzer()

		fmt.Println("all analyzers. '*' marks default")

		for _, a := range input.Analyzers {
			star := ' '
			if a.Name == def {
				star = '*'
			}

			fmt.Printf("- %s %c\n", a.Name, star)
		}

		return true

	case listMixersCmd.Used:
		for _, m := range player.Mixers {
			fmt.Printf("- %s\n", m.Name)
		}

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
