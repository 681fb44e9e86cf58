package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fandjelo/cpkg/pkgs/buildsys"
	"github.com/fandjelo/cpkg/recipe"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake wraps common CMake build steps with chainable configuration.
type CMake struct {
	ctx        *recipe.Context
	SourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	multi      bool
	Defines    map[string]defineValue
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New creates a CMake helper for the recipe context. Folders and build type
// come from the context's layout and settings; a toolchain written by
// WriteToolchain is picked up automatically.
func New(ctx *recipe.Context) *CMake {
	if ctx == nil {
		ctx = recipe.NewContext(nil, nil, recipe.Settings{})
	}
	c := &CMake{
		ctx:        ctx,
		SourceDir:  ctx.SourceDir,
		buildDir:   ctx.BuildDir(),
		installDir: ctx.PackageDir,
		buildType:  ctx.Settings.BuildType,
		multi:      ctx.Settings.Compiler == "msvc",
		Defines:    map[string]defineValue{},
	}
	toolchain := filepath.Join(ctx.GeneratorsDir(), ToolchainFile)
	if _, err := os.Stat(toolchain); err == nil {
		c.toolchain = toolchain
	}
	return c
}

func (c *CMake) Source(dir string) {
	c.SourceDir = dir
}

func (c *CMake) InstallDir(dir string) {
	c.installDir = dir
}

func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

func (c *CMake) Toolchain(path string) *CMake {
	c.toolchain = path
	return c
}

func (c *CMake) Define(key, value string) *CMake {
	if c.Defines == nil {
		c.Defines = map[string]defineValue{}
	}
	c.Defines[key] = defineValue{value: value, typeName: "STRING"}
	return c
}

func (c *CMake) DefineBool(key string, value bool) *CMake {
	if c.Defines == nil {
		c.Defines = map[string]defineValue{}
	}
	if value {
		c.Defines[key] = defineValue{value: "ON", typeName: "BOOL"}
		return c
	}
	c.Defines[key] = defineValue{value: "OFF", typeName: "BOOL"}
	return c
}

// Variables defines cache variables from Go values. Booleans become BOOL
// entries, everything else a STRING.
func (c *CMake) Variables(vars map[string]any) *CMake {
	for k, v := range vars {
		switch v := v.(type) {
		case bool:
			c.DefineBool(k, v)
		case string:
			c.Define(k, v)
		default:
			c.Define(k, fmt.Sprint(v))
		}
	}
	return c
}

func (c *CMake) Env(key, value string) {
	c.ctx.SetEnv(key, value)
}

// Use configures the build environment to use the specified dependency.
func (c *CMake) Use(dep *recipe.Dependency) {
	if dep == nil || dep.Dir == "" {
		panic("cmake: dependency has no package folder")
	}
	buildsys.UseDependency(c.ctx, dep)
}

func (c *CMake) Configure(args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0755); err != nil {
		return err
	}
	cmakeArgs := []string{"-S", c.SourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" && !c.multi {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)

	if err := c.ctx.RunIn(c.SourceDir, "cmake", cmakeArgs...); err != nil {
		return fmt.Errorf("cmake configure: %w", err)
	}
	return nil
}

func (c *CMake) Build(args ...string) error {
	cmdArgs := []string{"--build", c.buildDir}
	cmdArgs = append(cmdArgs, c.configArgs()...)
	cmdArgs = append(cmdArgs, args...)
	if err := c.ctx.RunIn(c.SourceDir, "cmake", cmdArgs...); err != nil {
		return fmt.Errorf("cmake build: %w", err)
	}
	return nil
}

// Test runs the registered tests with ctest.
func (c *CMake) Test(args ...string) error {
	cmdArgs := []string{"--test-dir", c.buildDir, "--output-on-failure"}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "-C", c.buildType)
	}
	cmdArgs = append(cmdArgs, args...)
	if err := c.ctx.RunIn(c.buildDir, "ctest", cmdArgs...); err != nil {
		return fmt.Errorf("ctest: %w", err)
	}
	return nil
}

func (c *CMake) Install(args ...string) error {
	cmdArgs := []string{"--install", c.buildDir}
	cmdArgs = append(cmdArgs, c.configArgs()...)
	if c.installDir != "" {
		cmdArgs = append(cmdArgs, "--prefix", c.installDir)
	}
	cmdArgs = append(cmdArgs, args...)
	if err := c.ctx.RunIn(c.SourceDir, "cmake", cmdArgs...); err != nil {
		return fmt.Errorf("cmake install: %w", err)
	}
	return nil
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) configArgs() []string {
	if c.buildType == "" {
		return nil
	}
	return []string{"--config", c.buildType}
}

func (c *CMake) definesArgs() []string {
	if len(c.Defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.Defines))
	for k := range c.Defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		def := c.Defines[k]
		if def.typeName != "" {
			args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
			continue
		}
		args = append(args, "-D"+k+"="+def.value)
	}
	return args
}
