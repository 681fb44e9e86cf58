package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fandjelo/cpkg/recipe"
)

// ToolchainFile is the name of the generated toolchain in the generators folder.
const ToolchainFile = "cpkg_toolchain.cmake"

// WriteToolchain generates the toolchain file translating the recipe
// instance's settings, options and dependencies to CMake variables, and
// returns its path.
func WriteToolchain(ctx *recipe.Context) (string, error) {
	dir := ctx.GeneratorsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ToolchainFile)
	if err := os.WriteFile(path, []byte(Toolchain(ctx)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Toolchain renders the toolchain file content.
func Toolchain(ctx *recipe.Context) string {
	var b strings.Builder
	b.WriteString("# Generated by cpkg, do not edit.\n")
	b.WriteString("cmake_policy(SET CMP0091 NEW)\n")

	if bt := ctx.Settings.BuildType; bt != "" && ctx.Settings.Compiler != "msvc" {
		fmt.Fprintf(&b, "set(CMAKE_BUILD_TYPE %q CACHE STRING \"\" FORCE)\n", bt)
	}
	if v, ok := ctx.Options.Get("shared"); ok {
		fmt.Fprintf(&b, "set(BUILD_SHARED_LIBS %s CACHE BOOL \"\" FORCE)\n", onOff(v))
	}
	if v, ok := ctx.Options.Get("fPIC"); ok {
		fmt.Fprintf(&b, "set(CMAKE_POSITION_INDEPENDENT_CODE %s CACHE BOOL \"\" FORCE)\n", onOff(v))
	}

	names := make([]string, 0, len(ctx.Deps))
	for name := range ctx.Deps {
		names = append(names, name)
	}
	sort.Strings(names)
	var prefixes []string
	for _, name := range names {
		if dep := ctx.Deps[name]; dep != nil && dep.Dir != "" {
			prefixes = append(prefixes, fmt.Sprintf("%q", filepath.ToSlash(dep.Dir)))
		}
	}
	if len(prefixes) > 0 {
		fmt.Fprintf(&b, "list(PREPEND CMAKE_PREFIX_PATH %s)\n", strings.Join(prefixes, " "))
	}
	return b.String()
}

func onOff(v string) string {
	switch strings.ToLower(v) {
	case "true", "1", "on", "yes":
		return "ON"
	}
	return "OFF"
}
