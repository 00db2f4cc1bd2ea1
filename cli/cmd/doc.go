// Package cmd implements the specscan subcommands.
//
// Each subcommand is a kong command struct with a Run(context.Context) error
// method. Commands read a SPEC data file named on the command line, or
// standard input when the name is "-", and write to the kong context's
// standard output.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
