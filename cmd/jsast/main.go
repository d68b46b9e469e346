package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/ludo-technologies/jsast/internal/constants"
	"github.com/ludo-technologies/jsast/internal/version"
	"github.com/ludo-technologies/jsast/service"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	configPath string
	logLevel   string
	noColor    bool
}

var globals globalOptions

// ExitError carries a process exit code out of a command
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "jsast - JavaScript/TypeScript syntax trees",
		Long: `jsast parses JavaScript, JSX, TypeScript and TSX into a normalized
syntax tree with byte spans and line numbers, and reports diagnostics,
comments, walks and node statistics.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(globals.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			if globals.noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globals.configPath, "config", "c", "",
		"Path to config file (default: discovered "+constants.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&globals.logLevel, "log-level", constants.DefaultLogLevel,
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&globals.noColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(walkCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

// newLogger builds the stderr text logger for the given level name
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	if level == "" {
		level = constants.DefaultLogLevel
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			asJSON, _ := cmd.Flags().GetBool("json")
			switch {
			case asJSON:
				return service.WriteJSON(cmd.OutOrStdout(), version.GetInfo())
			case verbose:
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.ToolName, version.GetVersion())
			}
			return nil
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	cmd.Flags().Bool("json", false, "Print version information as JSON")
	return cmd
}
