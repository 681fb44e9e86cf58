package recipe

import "path"

// Layout is the folder convention of a recipe instance, relative to the
// source tree.
type Layout struct {
	Source     string
	Build      string
	Generators string
}

// multiConfig reports whether the toolchain builds several configurations
// from one build tree.
func multiConfig(s Settings) bool {
	return s.Compiler == "msvc"
}

// CMakeLayout sets up the CMake folder convention. Single-config generators
// get build/<BuildType>, multi-config ones share build/.
func CMakeLayout(ctx *Context) {
	l := &Layout{Source: "."}
	build := "build"
	if !multiConfig(ctx.Settings) && ctx.Settings.BuildType != "" {
		build = path.Join(build, ctx.Settings.BuildType)
	}
	l.Build = build
	l.Generators = path.Join(build, "generators")
	ctx.Layout = l
}
