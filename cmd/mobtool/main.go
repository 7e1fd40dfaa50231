// mobtool is a CLI utility for inspecting and repairing Evil Islands MOB
// world object databases.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/Grabarrz90/ei-maper/internal/config"
	"github.com/Grabarrz90/ei-maper/internal/logger"
	"github.com/Grabarrz90/ei-maper/internal/mobfile"
	"github.com/Grabarrz90/ei-maper/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "tree":
		cmdTree(args)
	case "list", "ls":
		cmdList(args)
	case "script":
		cmdScript(args)
	case "verify":
		cmdVerify(args)
	case "fixids":
		cmdFixIDs(args)
	case "extract", "x":
		cmdExtract(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mobtool - Evil Islands MOB file utility

Usage:
  mobtool <command> [options]

Commands:
  info <file.mob>                Show document summary and BLAKE3 digest
  tree <file.mob>                Print the raw record tree
  list <file.mob>                List objects (--kind, --near, --radius)
  script <file.mob>              Print the decrypted zone script
  verify <file.mob>...           Re-serialize files and compare digests
  fixids <in.mob> [out.mob]      Repair duplicate map IDs
  extract <file.mob> [dir]       Write editor blobs and the AI graph to files
  config [--output path]         Print or save the effective configuration

Common options:
  -c, --config <file>   Config file (default ./mobtool.yaml)
      --debug           Debug logging
  -q, --quiet           Only log errors
      --log-file <file> Also log to a rotating file
      --strict          Reject text that is not valid Windows-1251
  -j, --workers <n>     Files verified in parallel

Examples:
  mobtool info zone1.mob
  mobtool list zone1.mob --kind Unit --near 120,80,0 --radius 30
  mobtool verify -j 8 maps/*.mob
  mobtool fixids zone1.mob zone1_fixed.mob`)
}

// setup parses a subcommand's flags, loads the configuration and starts
// logging. define registers the command's own flags.
func setup(name string, args []string, define func(fs *pflag.FlagSet)) (*config.Config, *pflag.FlagSet) {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	config.AddFlags(fs)
	if define != nil {
		define(fs)
	}
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.FileConfig(), true); err != nil {
		fatal(err)
	}
	return cfg, fs
}

// loadOptions maps the configuration onto document loading options.
func loadOptions(cfg *config.Config) mobfile.Options {
	return mobfile.Options{
		Codec:    codecOptions(cfg),
		AutoFix:  cfg.IDs.AutoFix,
		Fallback: fallbackRange(cfg),
	}
}

func codecOptions(cfg *config.Config) formats.MOBOptions {
	return formats.MOBOptions{
		Strict:               cfg.Codec.Strict,
		SkipUnreadableScript: cfg.Codec.SkipUnreadableScript,
	}
}

func fallbackRange(cfg *config.Config) formats.IDRange {
	return formats.IDRange{Min: cfg.IDs.FallbackMin, Max: cfg.IDs.FallbackMax}
}

func usage(line string) {
	fmt.Fprintln(os.Stderr, "Usage: "+line)
	os.Exit(1)
}

func fatal(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
