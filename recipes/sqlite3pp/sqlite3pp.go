// Package sqlite3pp is the packaging recipe of sqlite3pp, a C++ wrapper
// around sqlite3.
package sqlite3pp

import (
	"strings"

	"github.com/fandjelo/cpkg/pkgs/buildsys/cmake"
	"github.com/fandjelo/cpkg/recipe"
)

const Version = "0.5.0"

// New returns the sqlite3pp recipe.
func New() *recipe.RecipeF {
	return newRecipe("sqlite3pp", "C++ wrapper around sqlite3")
}

// Database returns the "database" flavour of the recipe. It builds the same
// sources under a different package and library name.
func Database() *recipe.RecipeF {
	return newRecipe("database", "C++ database access library on top of sqlite3")
}

func newRecipe(name, description string) *recipe.RecipeF {
	testsVar := strings.ToUpper(name) + "_WITH_TESTS"

	r := &recipe.RecipeF{}
	r.Name(name)
	r.Version(Version)
	r.PackageType("library")

	r.License("MIT")
	r.Author("Filipp Andjelo <filipp.andjelo@gmail.com>")
	r.URL("https://github.com/fandjelo/sqlite3pp")
	r.Description(description)
	r.Topics("sqlite3")

	r.Options(map[string][]string{
		"shared":     recipe.Bool,
		"fPIC":       recipe.Bool,
		"with_tests": recipe.Bool,
	})
	r.DefaultOptions(map[string]string{
		"shared":     "True",
		"fPIC":       "True",
		"with_tests": "True",
	})
	r.Settings("os", "compiler", "build_type", "arch")
	r.ExportsSources("CMakeLists.txt", "src/*")

	r.OnConfigOptions(func(ctx *recipe.Context) {
		if ctx.Settings.OS == "Windows" {
			ctx.Options.RmSafe("fPIC")
		}
	})
	r.OnConfigure(func(ctx *recipe.Context) {
		if ctx.Options.Bool("shared") {
			ctx.Options.RmSafe("fPIC")
		}
	})
	r.OnRequire(func(ctx *recipe.Context, reqs *recipe.Requirements) {
		reqs.Requires("sqlite3/[>=3.8]")
		if ctx.Options.Bool("with_tests") {
			reqs.TestRequires("gtest/[>=1.12]")
		}
	})
	r.OnLayout(recipe.CMakeLayout)
	r.OnBuild(func(ctx *recipe.Context, out *recipe.BuildResult) {
		withTests := ctx.Options.Bool("with_tests")

		c := cmake.New(ctx)
		c.Variables(map[string]any{testsVar: withTests})
		if err := c.Configure(); err != nil {
			out.AddErr(err)
			return
		}
		if err := c.Build(); err != nil {
			out.AddErr(err)
			return
		}
		if withTests && ctx.CanRun() {
			out.AddErr(c.Test())
		}
	})
	r.OnPackage(func(ctx *recipe.Context, out *recipe.BuildResult) {
		out.AddErr(cmake.New(ctx).Install())
	})
	r.OnPackageInfo(func(ctx *recipe.Context, info *recipe.CppInfo) {
		info.Libs = []string{name}
	})
	return r
}
