package buildsys

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fandjelo/cpkg/recipe"
)

// BuildSystem captures shared capabilities of build helpers (CMake, etc).
// It keeps the common lifecycle and dependency/env setup; implementations add their own extras.
type BuildSystem interface {
	// Use injects a built dependency into the environment.
	Use(dep *recipe.Dependency)

	// Basic paths.
	Source(dir string)
	InstallDir(dir string)

	// Environment helper.
	Env(key, val string)

	// Lifecycle.
	Configure(args ...string) error
	Build(args ...string) error
	Test(args ...string) error
	Install(args ...string) error

	// Where artifacts land.
	OutputDir() string
}

// UseDependency points the search paths of ctx at the package folder of dep:
// pkg-config and CMake paths everywhere, INCLUDE/LIB with MSVC and
// CPPFLAGS/LDFLAGS elsewhere. Only folders that exist are added.
func UseDependency(ctx *recipe.Context, dep *recipe.Dependency) {
	pkgDir := dep.Dir

	includeDir := filepath.Join(pkgDir, "include")
	libDir := filepath.Join(pkgDir, "lib")
	pkgconfigDir := filepath.Join(pkgDir, "lib", "pkgconfig")

	// PKG_CONFIG_PATH - pkg-config path (all platforms)
	if exists(pkgconfigDir) {
		prependEnv(ctx, "PKG_CONFIG_PATH", pkgconfigDir)
	}

	// CMAKE paths (all platforms)
	if exists(pkgDir) {
		prependEnv(ctx, "CMAKE_PREFIX_PATH", pkgDir)
	}
	if exists(includeDir) {
		prependEnv(ctx, "CMAKE_INCLUDE_PATH", includeDir)
	}
	if exists(libDir) {
		prependEnv(ctx, "CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		// Windows MSVC environment variables
		if exists(includeDir) {
			prependEnv(ctx, "INCLUDE", includeDir)
		}
		if exists(libDir) {
			prependEnv(ctx, "LIB", libDir)
		}
		return
	}
	if exists(includeDir) {
		appendFlag(ctx, "CPPFLAGS", "-I"+includeDir)
	}
	if exists(libDir) {
		appendFlag(ctx, "LDFLAGS", "-L"+libDir)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// prependEnv prepends a value to an environment variable using the appropriate separator.
func prependEnv(ctx *recipe.Context, key, value string) {
	current := ctx.Getenv(key)
	if current == "" {
		ctx.SetEnv(key, value)
		return
	}
	ctx.SetEnv(key, value+string(os.PathListSeparator)+current)
}

// appendFlag appends a flag to an environment variable (space-separated).
func appendFlag(ctx *recipe.Context, key, flag string) {
	current := ctx.Getenv(key)
	if current == "" {
		ctx.SetEnv(key, flag)
		return
	}
	ctx.SetEnv(key, strings.TrimSpace(current+" "+flag))
}
