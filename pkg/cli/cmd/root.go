package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rzbill/ultranode/internal/config"
	"github.com/rzbill/ultranode/pkg/cli/format"
	"github.com/rzbill/ultranode/pkg/log"
	"github.com/rzbill/ultranode/pkg/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
	logger    log.Logger = log.NewNopLogger()
)

// errSilentExit means the command already reported why it failed.
var errSilentExit = errors.New("exit status 1")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ultranode",
	Short: "Ultranode - self-hosted AI node tooling",
	Long: `Ultranode prepares and checks a self-hosted multi-service node.

It generates the secrets and configuration files for a node (environment
file, compose override and reverse-proxy routes) and lints the deployment
playbooks that roll it out.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	Version:           version.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		if !errors.Is(err, errSilentExit) {
			fmt.Fprintln(os.Stderr, format.Error("%v", err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ultranode.yaml or $HOME/.ultranode/ultranode.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// initConfig loads the configuration and sets up the logger for every command.
func initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.Log.DisableColors {
		format.EnableColor(false)
	}
	cfg.Log.Output = cmd.ErrOrStderr()

	appConfig = cfg
	logger = log.NewLogger(&cfg.Log)

	logger.Debug("Configuration loaded", log.Str("config", cfgFile), log.Str("log_level", cfg.Log.Level))
	return nil
}
