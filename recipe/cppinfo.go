package recipe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CppInfo describes how consumers use a built C/C++ package.
type CppInfo struct {
	Libs        []string `json:"libs,omitempty"`
	SystemLibs  []string `json:"system_libs,omitempty"`
	IncludeDirs []string `json:"include_dirs,omitempty"`
	LibDirs     []string `json:"lib_dirs,omitempty"`
	BinDirs     []string `json:"bin_dirs,omitempty"`
	Defines     []string `json:"defines,omitempty"`
}

// NewCppInfo returns a CppInfo with the conventional include, lib and bin
// folders.
func NewCppInfo() *CppInfo {
	return &CppInfo{
		IncludeDirs: []string{"include"},
		LibDirs:     []string{"lib"},
		BinDirs:     []string{"bin"},
	}
}

// PkgConfig renders a pkg-config document for the package installed at
// prefix.
func (c *CppInfo) PkgConfig(name, version, description, prefix string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "prefix=%s\n", filepath.ToSlash(prefix))
	for i, dir := range c.LibDirs {
		fmt.Fprintf(&b, "libdir%s=${prefix}/%s\n", suffix(i), filepath.ToSlash(dir))
	}
	for i, dir := range c.IncludeDirs {
		fmt.Fprintf(&b, "includedir%s=${prefix}/%s\n", suffix(i), filepath.ToSlash(dir))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Version: %s\n", version)

	var libs []string
	for i := range c.LibDirs {
		libs = append(libs, "-L${libdir"+suffix(i)+"}")
	}
	for _, lib := range c.Libs {
		libs = append(libs, "-l"+lib)
	}
	for _, lib := range c.SystemLibs {
		libs = append(libs, "-l"+lib)
	}
	if len(libs) > 0 {
		fmt.Fprintf(&b, "Libs: %s\n", strings.Join(libs, " "))
	}

	var cflags []string
	for i := range c.IncludeDirs {
		cflags = append(cflags, "-I${includedir"+suffix(i)+"}")
	}
	for _, def := range c.Defines {
		cflags = append(cflags, "-D"+def)
	}
	if len(cflags) > 0 {
		fmt.Fprintf(&b, "Cflags: %s\n", strings.Join(cflags, " "))
	}
	return b.String()
}

func suffix(i int) string {
	if i == 0 {
		return ""
	}
	return fmt.Sprint(i + 1)
}
