package internal

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/fandjelo/cpkg/internal/profile"
)

var profileForce bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage build profiles",
}

var profileDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Write a profile describing the host",
	Long: `Detect writes a Release profile for the host's operating system,
architecture and compiler to the selected profile (--profile).`,
	Args: cobra.NoArgs,
	RunE: runProfileDetect,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the selected profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

func init() {
	profileDetectCmd.Flags().BoolVarP(&profileForce, "force", "f", false, "Overwrite an existing profile")
	profileCmd.AddCommand(profileDetectCmd, profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileDetect(cmd *cobra.Command, _ []string) error {
	path := cfg.Dirs().Profile(cfg.Profile)
	if _, err := os.Stat(path); err == nil && !profileForce {
		return fmt.Errorf("profile %s already exists, use --force to overwrite it", path)
	}
	prof := profile.Detect()
	if err := prof.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "profile written to %s\n", path)
	return printProfile(cmd, prof)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	prof, err := loadProfile(nil, nil)
	if err != nil {
		return err
	}
	return printProfile(cmd, prof)
}

func printProfile(cmd *cobra.Command, prof *profile.Profile) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(prof); err != nil {
		return err
	}
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
