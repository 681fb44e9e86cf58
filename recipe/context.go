package recipe

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fandjelo/cpkg/pkgs/mod/module"
)

// Command is an external command run on behalf of a recipe.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs a command to completion.
type Runner func(ctx context.Context, cmd *Command) error

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, c *Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

// Dependency is a built dependency visible to the recipe being built.
type Dependency struct {
	Ref     module.Version
	Role    Role
	Dir     string
	CppInfo *CppInfo
}

// Context carries the state of one recipe instance through its lifecycle
// hooks.
type Context struct {
	Options  *Options
	Settings Settings
	Layout   *Layout

	// SourceDir is the absolute path of the exported sources.
	SourceDir string
	// PackageDir is the absolute path the package is installed into.
	PackageDir string

	// Deps maps dependency names to their built packages.
	Deps map[string]*Dependency

	Stdout io.Writer
	Stderr io.Writer

	ctx    context.Context
	runner Runner
	canRun func() bool
	env    map[string]string
}

// NewContext creates a hook context bound to ctx.
func NewContext(ctx context.Context, opts *Options, settings Settings) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts == nil {
		opts = NewOptions(nil, nil)
	}
	return &Context{
		Options:  opts,
		Settings: settings,
		Deps:     map[string]*Dependency{},
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		ctx:      ctx,
		runner:   ExecRunner,
		env:      map[string]string{},
	}
}

// Context returns the context.Context the hooks run under.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// SetRunner replaces the command runner.
func (c *Context) SetRunner(r Runner) {
	c.runner = r
}

// SetCanRun replaces the predicate telling whether built binaries can run.
func (c *Context) SetCanRun(f func() bool) {
	c.canRun = f
}

// CanRun reports whether binaries produced by this build can be executed in
// the current environment. It is false when cross-building to a target the
// host cannot run.
func (c *Context) CanRun() bool {
	if c.canRun == nil {
		return true
	}
	return c.canRun()
}

// BuildDir returns the absolute build folder from the layout.
func (c *Context) BuildDir() string {
	if c.Layout == nil || c.Layout.Build == "" {
		return filepath.Join(c.SourceDir, "build")
	}
	return filepath.Join(c.SourceDir, filepath.FromSlash(c.Layout.Build))
}

// GeneratorsDir returns the absolute generators folder from the layout.
func (c *Context) GeneratorsDir() string {
	if c.Layout == nil || c.Layout.Generators == "" {
		return filepath.Join(c.BuildDir(), "generators")
	}
	return filepath.Join(c.SourceDir, filepath.FromSlash(c.Layout.Generators))
}

// SetEnv sets an environment variable for commands run by this context.
func (c *Context) SetEnv(key, value string) {
	if c.env == nil {
		c.env = map[string]string{}
	}
	c.env[key] = value
}

// Getenv returns the value of an environment variable as commands run by
// this context see it.
func (c *Context) Getenv(key string) string {
	if v, ok := c.env[key]; ok {
		return v
	}
	return os.Getenv(key)
}

// Env returns the process environment merged with the context's overrides.
func (c *Context) Env() []string {
	return mergeEnv(os.Environ(), c.env)
}

// Run runs a command in the source folder.
func (c *Context) Run(name string, args ...string) error {
	return c.RunIn(c.SourceDir, name, args...)
}

// RunIn runs a command in dir.
func (c *Context) RunIn(dir, name string, args ...string) error {
	runner := c.runner
	if runner == nil {
		runner = ExecRunner
	}
	return runner(c.Context(), &Command{
		Name:   name,
		Args:   args,
		Dir:    dir,
		Env:    c.Env(),
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	})
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
