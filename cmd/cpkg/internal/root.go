package internal

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/fandjelo/cpkg/internal/config"
	"github.com/fandjelo/cpkg/internal/logger"
)

// cfg is the configuration resolved before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cpkg",
	Short: "cpkg packages C/C++ libraries from recipes",
	Long: `cpkg builds C/C++ libraries from recipes for a profile of settings and
options, resolves their dependencies against a local version index and keeps
the resulting packages in a local cache.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		logger.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP(config.KeyVerbose, "v", false, "Enable debug logging")
	flags.String(config.KeyHome, "", "cpkg home folder (default $CPKG_HOME or the XDG data folder)")
	flags.StringP(config.KeyProfile, "p", "default", "Profile name or path")
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(config.New(), cmd.Flags())
	if err != nil {
		return err
	}
	if err := logger.Init(c.Verbose); err != nil {
		return err
	}
	cfg = c
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
