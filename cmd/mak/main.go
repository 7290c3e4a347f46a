// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/navwar/mak/pkg/fs"
	"github.com/navwar/mak/pkg/lfs"
	"github.com/navwar/mak/pkg/log"
	"github.com/navwar/mak/pkg/mak"
)

const (
	MakVersion = "0.0.1"
)

// Exit codes that are not named failures
const (
	ExitUnexpected = 1
	ExitUsage      = 2
)

// Global Flags
const (
	flagDryRun  = "dry-run"
	flagVerbose = "verbose"
	flagNoColor = "no-color"
)

// Log Flags
const (
	flagLogFormat = "log-format"
	flagLogPath   = "log-path"
	flagLogPerm   = "log-perm"
)

// Log Defaults
const (
	DefaultLogFormat = "text"
	DefaultLogPath   = "-"
	DefaultLogPerm   = "0600"
)

// Copy Flags
const (
	flagNoGlob         = "no-glob"
	flagNoMakeDir      = "no-makedir"
	flagNoMakeDirs     = "no-makedirs"
	flagForceOverwrite = "force-overwrite"
)

const (
	EnvPrefix = "MAK"
)

func initGlobalFlags(flag *pflag.FlagSet) {
	flag.Bool(flagDryRun, false, "do not write to disk, just simulate")
	flag.BoolP(flagVerbose, "v", false, "describe what is being done; useful with --dry-run")
	flag.Bool(flagNoColor, false, "disable colored output")
}

func initLogFlags(flag *pflag.FlagSet) {
	flag.String(flagLogFormat, DefaultLogFormat, "format of verbose output.  Either text or jsonl.")
	flag.String(flagLogPath, DefaultLogPath, "path to the verbose output.  Defaults to the operating system's stdout device.")
	flag.String(flagLogPerm, DefaultLogPerm, "file permissions for verbose output file as unix file mode.")
}

func initCopyFlags(flag *pflag.FlagSet) {
	flag.Bool(flagNoGlob, false, "do not expand wildcards in the source path")
	flag.Bool(flagNoMakeDir, false, "expect the destination directory to exist")
	flag.Bool(flagNoMakeDirs, false, "do not make intermediate directories in the destination path")
	flag.Bool(flagForceOverwrite, false, "overwrite an existing destination file")
}

func initViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(flags)
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

// parseGlobalFlags parses the global flags found in the arguments of a command that does not parse its own flags.
// Unknown flags and malformed values are ignored.
func parseGlobalFlags(root *cobra.Command, args []string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(root.Name(), pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}
	flags.AddFlagSet(root.PersistentFlags())
	_ = flags.Parse(args)
	return flags
}

func checkLogConfig(v *viper.Viper) error {
	switch logFormat := v.GetString(flagLogFormat); logFormat {
	case "text", "jsonl":
	default:
		return fmt.Errorf("invalid log format %q, expecting text or jsonl", logFormat)
	}
	logPath := v.GetString(flagLogPath)
	if len(logPath) == 0 {
		return fmt.Errorf("log path is missing")
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	return nil
}

func checkCopyConfig(v *viper.Viper, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expecting 2 positional arguments for source and destination, but found %d arguments", len(args))
	}
	if len(args[0]) == 0 {
		return errors.New("source is empty")
	}
	if len(args[1]) == 0 {
		return errors.New("destination is empty")
	}
	if err := checkLogConfig(v); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

// shouldColor returns true if the writer is a terminal and color has not been disabled.
func shouldColor(w io.Writer, noColor bool) bool {
	if noColor || len(os.Getenv("NO_COLOR")) > 0 {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// initLogger returns the logger for verbose output, or nil if verbose output is disabled.
// If the output is a file, then the file is returned so it can be closed.
// If dry run is enabled, then a log file is never created and stdout is used instead.
func initLogger(v *viper.Viper, stdout io.Writer, colorize bool) (fs.Logger, *os.File, error) {
	if !v.GetBool(flagVerbose) {
		return nil, nil, nil
	}

	format := v.GetString(flagLogFormat)
	path := v.GetString(flagLogPath)

	newLogger := func(w io.Writer, colorize bool) fs.Logger {
		if format == "jsonl" {
			return log.NewSimpleLogger(w)
		}
		return log.NewTextLogger(w, colorize)
	}

	if path == os.DevNull {
		return newLogger(io.Discard, false), nil, nil
	}

	if path == "-" {
		return newLogger(stdout, colorize), nil, nil
	}

	if v.GetBool(flagDryRun) {
		logger := newLogger(stdout, colorize)
		fs.Log(logger, "Writing to stdout instead of the log file (--dry-run is set)", map[string]interface{}{
			"log_path": path,
		})
		return logger, nil, nil
	}

	fileMode := os.FileMode(0600)

	if perm := v.GetString(flagLogPerm); len(perm) > 0 {
		fm, err := strconv.ParseUint(perm, 8, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing file permissions for log file from %q", perm)
		}
		fileMode = os.FileMode(fm)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening log file %q: %w", path, err)
	}

	return newLogger(f, false), f, nil
}

func initFileSystem(dryRun bool) fs.FileSystem {
	if dryRun {
		return lfs.NewReadOnlyLocalFileSystem()
	}
	return lfs.NewLocalFileSystem()
}

// printError writes the error and returns the exit code for the error.
// Named failures are written to stdout, everything else to stderr.
func printError(err error, stdout io.Writer, stderr io.Writer, colorize bool) int {
	var namedError *mak.Error
	if errors.As(err, &namedError) {
		_, _ = fmt.Fprintf(stdout, "%s %s\n",
			log.Colorize(fmt.Sprintf("[error %d]", namedError.Code), color.FgRed, colorize),
			namedError.Message)
		return int(namedError.Code)
	}
	var unexpectedError *mak.UnexpectedError
	if errors.As(err, &unexpectedError) {
		_, _ = fmt.Fprintln(stderr, "mak: "+err.Error())
		return ExitUnexpected
	}
	_, _ = fmt.Fprintln(stderr, "mak: "+err.Error())
	_, _ = fmt.Fprintln(stderr, "Try \"mak --help\" for more information.")
	return ExitUsage
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {

	var v *viper.Viper

	colorize := false

	rootCommand := &cobra.Command{
		Use:                   `mak [flags] COMMAND`,
		DisableFlagsInUseLine: true,
		Short: strings.Join([]string{
			"mak is a simple command line program for build scripts that need portable filesystem commands.",
			"Use \"mak COMMAND --help\" for details on a command.",
		}, "\n"),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if cmd.DisableFlagParsing {
				flags = parseGlobalFlags(cmd.Root(), args)
			}
			var err error
			v, err = initViper(flags)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}
			colorize = shouldColor(stdout, v.GetBool(flagNoColor))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("missing command, expecting one of cp, md, or rm")
		},
	}
	rootCommand.CompletionOptions.DisableDefaultCmd = true
	initGlobalFlags(rootCommand.PersistentFlags())
	initLogFlags(rootCommand.PersistentFlags())

	copyCommand := &cobra.Command{
		Use:                   "cp SOURCE DESTINATION [flags]",
		DisableFlagsInUseLine: true,
		Short:                 "copy a file",
		Long:                  "copy the SOURCE file (a glob pattern unless --no-glob is set) into the DESTINATION directory",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			if errConfig := checkCopyConfig(v, args); errConfig != nil {
				return errConfig
			}

			logger, logFile, err := initLogger(v, stdout, colorize)
			if err != nil {
				return &mak.UnexpectedError{Err: fmt.Errorf("error initializing logger: %w", err)}
			}
			if logFile != nil {
				defer func() { _ = logFile.Close() }()
			}

			dryRun := v.GetBool(flagDryRun)

			fileSystem := initFileSystem(dryRun)

			fs.Log(logger, "Configuration", map[string]interface{}{
				"dry_run":         dryRun,
				"force_overwrite": v.GetBool(flagForceOverwrite),
				"no_glob":         v.GetBool(flagNoGlob),
				"no_makedir":      v.GetBool(flagNoMakeDir),
				"no_makedirs":     v.GetBool(flagNoMakeDirs),
				"root":            fileSystem.Root(),
			})

			return mak.Copy(ctx, &mak.CopyInput{
				Source:         args[0],
				Destination:    args[1],
				FileSystem:     fileSystem,
				NoGlob:         v.GetBool(flagNoGlob),
				NoMakeDir:      v.GetBool(flagNoMakeDir),
				NoMakeDirs:     v.GetBool(flagNoMakeDirs),
				ForceOverwrite: v.GetBool(flagForceOverwrite),
				DryRun:         dryRun,
				Logger:         logger,
			})
		},
	}
	initCopyFlags(copyCommand.Flags())

	makeDirCommand := &cobra.Command{
		Use:                   "md",
		DisableFlagsInUseLine: true,
		Short:                 "make a directory (not implemented)",
		DisableFlagParsing:    true,
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, logFile, err := initLogger(v, stdout, colorize)
			if err != nil {
				return &mak.UnexpectedError{Err: fmt.Errorf("error initializing logger: %w", err)}
			}
			if logFile != nil {
				defer func() { _ = logFile.Close() }()
			}
			return mak.MakeDir(cmd.Context(), args, logger)
		},
	}

	removeCommand := &cobra.Command{
		Use:                   "rm",
		DisableFlagsInUseLine: true,
		Short:                 "remove a file or directory (not implemented)",
		DisableFlagParsing:    true,
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, logFile, err := initLogger(v, stdout, colorize)
			if err != nil {
				return &mak.UnexpectedError{Err: fmt.Errorf("error initializing logger: %w", err)}
			}
			if logFile != nil {
				defer func() { _ = logFile.Close() }()
			}
			return mak.Remove(cmd.Context(), args, logger)
		},
	}

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintln(stdout, MakVersion)
			return nil
		},
	}

	rootCommand.AddCommand(copyCommand, makeDirCommand, removeCommand, versionCommand)

	rootCommand.SetArgs(args)
	rootCommand.SetOut(stdout)
	rootCommand.SetErr(stderr)

	if err := rootCommand.ExecuteContext(context.Background()); err != nil {
		return printError(err, stdout, stderr, colorize)
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
