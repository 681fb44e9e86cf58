package internal

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fandjelo/cpkg/internal/modload"
)

var (
	inspectSettings []string
	inspectOptions  []string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [recipe]",
	Short: "Show the resolved options and dependencies of a recipe",
	Long: `Inspect configures a recipe for the profile without building it and prints
its final options and the dependencies it resolves to.

The recipe is the name of a built-in recipe or the path to a *_recipe.gox
file; it defaults to sqlite3pp.`,
	Example: `  cpkg inspect -o shared=True
  cpkg inspect -s os=Windows -o with_tests=True`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringArrayVarP(&inspectSettings, "setting", "s", nil, "Override a profile setting (key=value)")
	inspectCmd.Flags().StringArrayVarP(&inspectOptions, "option", "o", nil, "Override an option (opt=value, pkg:opt=value or *:opt=value)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := openRecipe(args)
	if err != nil {
		return err
	}
	prof, err := loadProfile(inspectSettings, inspectOptions)
	if err != nil {
		return err
	}
	idx, err := loadIndex()
	if err != nil {
		return err
	}

	inst, err := modload.Instantiate(cmd.Context(), r, prof, true)
	if err != nil {
		return err
	}
	g, err := modload.Resolve(inst, idx)
	if err != nil {
		return err
	}
	return printInstance(cmd.OutOrStdout(), inst, g)
}

func printInstance(w io.Writer, inst *modload.Instance, g *modload.Graph) error {
	fmt.Fprintf(w, "recipe:     %s\n", inst.Ref)
	fmt.Fprintf(w, "settings:   %s\n", inst.Settings)
	fmt.Fprintf(w, "package id: %s\n\n", modload.PackageID(inst, g))

	var rows [][]string
	for _, name := range inst.Options.Names() {
		v, _ := inst.Options.Get(name)
		rows = append(rows, []string{name, v})
	}
	if err := renderTable(w, []string{"Option", "Value"}, rows); err != nil {
		return err
	}

	if len(g.Nodes) == 0 {
		fmt.Fprintln(w, "No dependencies.")
		return nil
	}
	rows = rows[:0]
	for _, n := range g.Order() {
		declared := ""
		for _, req := range inst.Requires {
			if req.Name == n.Ref.Name {
				declared = req.Range
				break
			}
		}
		direct := "no"
		if n.Direct {
			direct = "yes"
		}
		rows = append(rows, []string{n.Ref.Name, declared, n.Ref.Version, n.Role.String(), direct})
	}
	return renderTable(w, []string{"Dependency", "Range", "Version", "Role", "Direct"}, rows)
}
