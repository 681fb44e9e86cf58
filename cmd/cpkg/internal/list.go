package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the packages in the local cache",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	pkgs, err := db.List(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(pkgs) == 0 {
		fmt.Fprintln(out, "No packages in the cache.")
		return nil
	}
	rows := make([][]string, 0, len(pkgs))
	for _, p := range pkgs {
		rows = append(rows, []string{
			p.Ref(),
			shortID(p.PackageID),
			p.Settings,
			p.Options,
			p.Created().Format("2006-01-02 15:04"),
		})
	}
	return renderTable(out, []string{"Reference", "Package ID", "Settings", "Options", "Created"}, rows)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
