package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/shellkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// plain disables ANSI colors in CLI output.
var plain bool

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	plain = !isTerminal(stdout)
	if plain {
		errors.DisableColors()
	}

	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if plain {
			fmt.Fprintf(stderr, "Error: %s\n", err)
		} else {
			fmt.Fprintf(stderr, "\033[31mError:\033[0m %s\n", err)
		}
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func rootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "shellkit",
		Short: "Serve and inspect declarative route shells",
		Long: `shellkit renders a route manifest as an application shell.

Routes are declared in a YAML manifest. Static content comes from the
built-in registry, lazy content from a content directory or an S3 bucket.
Configuration is read from shellkit.yaml, SHELLKIT_* environment
variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Config file (default ./shellkit.yaml)")
	flags.StringP("manifest", "m", "", "Route manifest")
	flags.String("redirect-index-to", "", "Redirect / to this path")
	flags.String("content-dir", "", "Directory holding lazy content")
	flags.String("s3-bucket", "", "S3 bucket holding lazy content")
	flags.String("s3-prefix", "", "Key prefix inside the S3 bucket")
	flags.String("s3-region", "", "S3 bucket region")
	flags.String("s3-endpoint", "", "S3 compatible endpoint URL")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")

	cmd.AddCommand(
		serveCmd(&configFile),
		routesCmd(&configFile),
		checkCmd(&configFile),
		renderCmd(&configFile),
		versionCmd(),
	)
	return cmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	mark := "\033[32m✓\033[0m"
	if plain {
		mark = "ok"
	}
	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	mark := "\033[33m⚠\033[0m"
	if plain {
		mark = "warning:"
	}
	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}
