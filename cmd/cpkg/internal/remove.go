package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fandjelo/cpkg/internal/logger"
	"github.com/fandjelo/cpkg/pkgs/mod/module"
)

var removeCmd = &cobra.Command{
	Use:     "remove <name/version>",
	Aliases: []string{"rm"},
	Short:   "Remove every package of a reference from the local cache",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ref, err := module.ParseRef(args[0])
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := db.Remove(cmd.Context(), ref.Name, ref.Version)
	if err != nil {
		return err
	}
	for _, p := range removed {
		// the package folder lives in <name>-<id>/p next to its sources
		dir := filepath.Dir(p.Dir)
		if err := os.RemoveAll(dir); err != nil {
			logger.L().Warnw("failed to remove package folder", "dir", dir, "error", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s:%s\n", p.Ref(), p.PackageID)
	}
	return nil
}
