package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"wallgrab/pkg/ui"
)

var (
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	configFile string
	logLevel   string
	noColor    bool

	printer *ui.Printer
)

var rootCmd = &cobra.Command{
	Use:   "wallgrab",
	Short: "Download new wallpapers from a forum listing and announce them in Slack",
	Long: `wallgrab scrapes a wallpaper listing, skips images the catalog already
holds, downloads the rest into a local directory and posts one Slack message
per image.

A run is one pass; schedule it externally (cron, systemd timer).
Running wallgrab without a subcommand is the same as 'wallgrab run'.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		printer = ui.Stdout(noColor)
	},
	RunE: runPipeline,
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.wallgrab.yaml or $HOME/.wallgrab.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	addRunFlags(rootCmd)

	rootCmd.SetVersionTemplate(`wallgrab {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// out returns the printer, creating a plain one for commands run without PersistentPreRun
func out() *ui.Printer {
	if printer == nil {
		printer = ui.Stdout(noColor)
	}
	return printer
}
