package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zhubert/secops/internal/config"
	"github.com/zhubert/secops/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	configFile            string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "secops",
	Short: "Send files to an agent thread for security review",
	Long: `secops wraps a file in a security-review prompt and inserts it into the
composer of an agent thread, creating a thread when none is active.

Files up to 200 KB are sent as-is. Larger files up to 1 MB are truncated
with a notice; anything bigger is rejected.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.secops/config.json)")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command. An interrupt cancels in-flight scans.
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logger.Close()
	return rootCmd.ExecuteContext(ctx)
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("secops %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("secops %s\n", version)
}

// loadConfig loads the config from --config, or the default location.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}
