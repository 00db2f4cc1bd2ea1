// Package cli contains the command line interface for specscan.
//
// # Usage
//
//	specscan [flags] <command> [args]
//
// Commands:
//
//	dump json|yaml [FILE]   write every scan and header block
//	list [FILE]             one table row per scan
//	show NUMBER [FILE]      one scan's metadata and data table
//	follow [FILE]           print scans and points while a file grows
//	browse FILE             interactive scan browser
//	init                    write the configuration file
//
// FILE defaults to "-", standard input. dump, list and browse accept
// --where with an expression over scan fields, for example:
//
//	specscan list --where 'points > 10 && motors["Two Theta"] > 0.5' run.spec
//
// # Configuration
//
// Flags may also be set in a YAML file at $XDG_CONFIG_HOME/specscan/config.yaml
// (see [os.UserConfigDir]). Keys are flag names, optionally nested:
//
//	log:
//	  level: debug
//	  format: json
//
// Command-line flags override the file. "specscan init" writes the current
// flag values as a starting point.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: record encoding (text, json)
//   - --log-time-layout: timestamp layout (a Go layout, a layout name such as
//     RFC3339 or Kitchen, or none)
//   - --log-caller: include caller information
//   - --log-pretty: colorize records written to a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: enable profiling (see profile.Modes)
//   - --pprof-dir: profile output directory (default
//     $XDG_CACHE_HOME/specscan/pprof)
package cli
