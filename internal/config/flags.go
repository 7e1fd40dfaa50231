package config

import "github.com/spf13/pflag"

var (
	flagConfig  string
	flagDebug   bool
	flagQuiet   bool
	flagLogFile string
	flagStrict  bool
	flagWorkers int
)

// AddFlags registers the shared flags on a subcommand's flag set. Values
// land in package state read by Load, so only one set should be parsed per
// process.
func AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&flagConfig, "config", "c", "", "Path to config file")
	fs.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	fs.BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	fs.StringVar(&flagLogFile, "log-file", "", "Also write logs to this file")
	fs.BoolVar(&flagStrict, "strict", false, "Reject text fields that are not valid Windows-1251")
	fs.IntVarP(&flagWorkers, "workers", "j", 0, "Files verified in parallel")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagQuiet {
		cfg.Logging.Level = "error"
	}
	if flagLogFile != "" {
		cfg.Logging.LogFile = flagLogFile
	}
	if flagStrict {
		cfg.Codec.Strict = true
	}
	if flagWorkers > 0 {
		cfg.Verify.Workers = flagWorkers
	}
}
