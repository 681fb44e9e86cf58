package internal

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fandjelo/cpkg/internal/build"
	"github.com/fandjelo/cpkg/internal/host"
	irecipe "github.com/fandjelo/cpkg/internal/recipe"
)

var (
	createSettings     []string
	createOptions      []string
	createSource       string
	createBuildMissing bool
	createOutput       string
)

var createCmd = &cobra.Command{
	Use:   "create [recipe]",
	Short: "Build a package from a recipe",
	Long: `Create runs the whole recipe lifecycle for the profile and stores the
package in the local cache. Dependencies must already be in the cache unless
--build-missing is given and their recipe is available.

The recipe's build output is shown only with --verbose.`,
	Example: `  cpkg create --source ./sqlite3pp --build-missing
  cpkg create --source ./sqlite3pp -o with_tests=True --output sqlite3pp.zip`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	flags := createCmd.Flags()
	flags.StringArrayVarP(&createSettings, "setting", "s", nil, "Override a profile setting (key=value)")
	flags.StringArrayVarP(&createOptions, "option", "o", nil, "Override an option (opt=value, pkg:opt=value or *:opt=value)")
	flags.StringVar(&createSource, "source", "", "Source folder (default: the recipe folder)")
	flags.BoolVar(&createBuildMissing, "build-missing", false, "Build dependencies missing from the cache")
	flags.StringVar(&createOutput, "output", "", "Copy the package to a folder, or to a .zip archive")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	r, err := openRecipe(args)
	if err != nil {
		return err
	}
	prof, err := loadProfile(createSettings, createOptions)
	if err != nil {
		return err
	}
	idx, err := loadIndex()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stdout, stderr := io.Discard, io.Discard
	if cfg.Verbose {
		stdout, stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
	}
	dirs := cfg.Dirs()
	builder := build.New(build.Options{
		Dirs:         dirs,
		DB:           db,
		Index:        idx,
		Profile:      prof,
		Host:         host.Detect(),
		Finder:       irecipe.Finder{Dirs: []string{dirs.RecipesDir()}}.Find,
		BuildMissing: createBuildMissing,
		Stdout:       stdout,
		Stderr:       stderr,
	})

	res, err := builder.Create(cmd.Context(), r, createSource)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.Ref(), err)
	}

	out := cmd.OutOrStdout()
	state := "created"
	if res.Cached {
		state = "already in cache"
	}
	fmt.Fprintf(out, "%s:%s %s\n", res.Ref, res.PackageID, state)
	fmt.Fprintf(out, "package folder: %s\n", res.Dir)
	if res.Metadata != "" {
		fmt.Fprintln(out, res.Metadata)
	}

	if createOutput != "" {
		if err := outputResult(res.Dir, createOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// outputResult writes the package folder to dest.
// If dest ends with ".zip", creates a zip archive; otherwise copies the directory.
func outputResult(srcDir, dest string) error {
	if strings.HasSuffix(dest, ".zip") {
		return zipDir(srcDir, dest)
	}
	return os.CopyFS(dest, os.DirFS(srcDir))
}

// zipDir creates a zip archive at dest from the contents of srcDir.
func zipDir(srcDir, dest string) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := zip.NewWriter(f)
	defer func() {
		// writes the central directory
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(writer, file)
		return err
	})
}
