package autotools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fandjelo/cpkg/pkgs/buildsys"
	"github.com/fandjelo/cpkg/recipe"
)

// AutoTools wraps common Autotools build steps with chainable configuration.
// Builds are out of tree: configure runs in the build folder of the layout.
type AutoTools struct {
	ctx        *recipe.Context
	SourceDir  string
	buildDir   string
	installDir string
	jobs       int
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// New creates an Autotools helper for the recipe context.
func New(ctx *recipe.Context) *AutoTools {
	if ctx == nil {
		ctx = recipe.NewContext(nil, nil, recipe.Settings{})
	}
	return &AutoTools{
		ctx:        ctx,
		SourceDir:  ctx.SourceDir,
		buildDir:   ctx.BuildDir(),
		installDir: ctx.PackageDir,
	}
}

func (a *AutoTools) Source(dir string) {
	a.SourceDir = dir
}

func (a *AutoTools) InstallDir(dir string) {
	a.installDir = dir
}

// Jobs sets the make parallelism; 0 leaves it to make.
func (a *AutoTools) Jobs(n int) *AutoTools {
	a.jobs = n
	return a
}

func (a *AutoTools) Env(key, value string) {
	a.ctx.SetEnv(key, value)
}

// Use configures the build environment to use the specified dependency.
func (a *AutoTools) Use(dep *recipe.Dependency) {
	if dep == nil || dep.Dir == "" {
		panic("autotools: dependency has no package folder")
	}
	buildsys.UseDependency(a.ctx, dep)
}

// Configure runs the configure script of the source folder with the install
// prefix. The shared and fPIC options, when present, select
// --enable-shared/--disable-static and --with-pic.
func (a *AutoTools) Configure(args ...string) error {
	if err := os.MkdirAll(a.buildDir, 0755); err != nil {
		return err
	}
	var configArgs []string
	if a.installDir != "" {
		configArgs = append(configArgs, "--prefix="+a.installDir)
	}
	opts := a.ctx.Options
	if opts.Has("shared") {
		if opts.Bool("shared") {
			configArgs = append(configArgs, "--enable-shared", "--disable-static")
		} else {
			configArgs = append(configArgs, "--disable-shared", "--enable-static")
		}
	}
	if opts.Has("fPIC") && opts.Bool("fPIC") {
		configArgs = append(configArgs, "--with-pic")
	}
	configArgs = append(configArgs, args...)

	exe := filepath.Join(a.SourceDir, "configure")
	if err := a.ctx.RunIn(a.buildDir, exe, configArgs...); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	return nil
}

// Build runs make in the build folder.
func (a *AutoTools) Build(args ...string) error {
	return a.make("build", args)
}

// Test runs make check.
func (a *AutoTools) Test(args ...string) error {
	return a.make("test", append([]string{"check"}, args...))
}

// Install runs make install.
func (a *AutoTools) Install(args ...string) error {
	return a.make("install", append([]string{"install"}, args...))
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (a *AutoTools) OutputDir() string {
	if a.installDir != "" {
		return a.installDir
	}
	return a.buildDir
}

func (a *AutoTools) make(step string, args []string) error {
	var cmdArgs []string
	if a.jobs > 0 {
		cmdArgs = append(cmdArgs, fmt.Sprintf("-j%d", a.jobs))
	}
	cmdArgs = append(cmdArgs, args...)
	if err := a.ctx.RunIn(a.buildDir, "make", cmdArgs...); err != nil {
		return fmt.Errorf("make %s: %w", step, err)
	}
	return nil
}
