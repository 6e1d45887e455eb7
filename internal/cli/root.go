package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stacklens/internal/config"
)

var (
	cfgDir string
	quiet  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stacklens",
	Short: "Correlate Java stack traces with the code that produced them",
	Long: `Stacklens parses a Java stack trace, indexes the repository it came
from, and walks the call graph around the throw site to surface the
root cause, the most relevant nearby methods, and any handlers for
the thrown exception.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "", "directory holding .stacklens/config.yml (default is the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

// loadConfig resolves configuration from the configured directory,
// falling back to the working directory.
func loadConfig() (*config.Config, error) {
	dir := cfgDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := config.LoadConfigFromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
