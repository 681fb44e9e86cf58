// Package build runs the build part of the recipe lifecycle and stores the
// resulting packages in the local cache.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/fandjelo/cpkg/internal/cache"
	"github.com/fandjelo/cpkg/internal/env"
	"github.com/fandjelo/cpkg/internal/host"
	"github.com/fandjelo/cpkg/internal/logger"
	"github.com/fandjelo/cpkg/internal/modload"
	"github.com/fandjelo/cpkg/internal/profile"
	irecipe "github.com/fandjelo/cpkg/internal/recipe"
	"github.com/fandjelo/cpkg/pkgs/buildsys/cmake"
	"github.com/fandjelo/cpkg/pkgs/mod/module"
	"github.com/fandjelo/cpkg/pkgs/mod/versions"
	"github.com/fandjelo/cpkg/recipe"
)

const (
	lockTimeout       = 30 * time.Minute
	lockRetryInterval = 200 * time.Millisecond
)

// Options configures a Builder.
type Options struct {
	Dirs    env.Dirs
	DB      *cache.DB
	Index   versions.Index
	Profile *profile.Profile
	Host    host.Info

	// Finder locates the recipes of dependencies. Dependencies without a
	// recipe must already be in the cache.
	Finder func(name string) (*irecipe.Recipe, error)
	// Runner runs the commands issued by recipes; recipe.ExecRunner when nil.
	Runner recipe.Runner
	// BuildMissing builds dependencies that have a recipe but no package.
	BuildMissing bool

	Stdout io.Writer
	Stderr io.Writer
}

// Result is a package available to consumers.
type Result struct {
	Ref       module.Version
	PackageID string
	Dir       string
	CppInfo   *recipe.CppInfo
	Metadata  string
	// Cached is set when the package was already in the cache.
	Cached bool
}

// Builder builds recipe instances and their dependencies.
type Builder struct {
	opts     Options
	done     map[string]*Result
	visiting map[string]bool
}

// New creates a Builder.
func New(opts Options) *Builder {
	if opts.Profile == nil {
		opts.Profile = &profile.Profile{}
	}
	if opts.Host == (host.Info{}) {
		opts.Host = host.Detect()
	}
	if opts.Runner == nil {
		opts.Runner = recipe.ExecRunner
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Builder{
		opts:     opts,
		done:     map[string]*Result{},
		visiting: map[string]bool{},
	}
}

// Create instantiates r as the root package, makes its dependencies
// available and builds it from sourceDir, which defaults to the folder the
// recipe was loaded from.
func (b *Builder) Create(ctx context.Context, r *irecipe.Recipe, sourceDir string) (*Result, error) {
	inst, err := modload.Instantiate(ctx, r, b.opts.Profile, true)
	if err != nil {
		return nil, err
	}
	g, err := modload.Resolve(inst, b.opts.Index)
	if err != nil {
		return nil, err
	}
	b.visiting[inst.Ref.Name] = true
	defer delete(b.visiting, inst.Ref.Name)

	deps, err := b.ensureDeps(ctx, inst.Ref, g)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, inst, g, deps, sourceDir)
}

func (b *Builder) ensureDeps(ctx context.Context, from module.Version, g *modload.Graph) (map[string]*recipe.Dependency, error) {
	deps := map[string]*recipe.Dependency{}
	for _, n := range g.Order() {
		res, err := b.ensure(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", from, err)
		}
		deps[n.Ref.Name] = &recipe.Dependency{
			Ref:     n.Ref,
			Role:    n.Role,
			Dir:     res.Dir,
			CppInfo: res.CppInfo,
		}
	}
	return deps, nil
}

// ensure returns the package of a resolved dependency, building it when
// allowed.
func (b *Builder) ensure(ctx context.Context, n *modload.Node) (*Result, error) {
	key := n.Ref.String()
	if res, ok := b.done[key]; ok {
		return res, nil
	}
	if b.visiting[n.Ref.Name] {
		return nil, fmt.Errorf("dependency cycle through %s", n.Ref)
	}

	r, err := b.find(n.Ref)
	if err != nil {
		return nil, err
	}
	var res *Result
	if r == nil {
		res, err = b.latest(ctx, n.Ref)
	} else {
		res, err = b.buildDep(ctx, r)
	}
	if err != nil {
		return nil, err
	}
	b.done[key] = res
	return res, nil
}

// find returns the recipe of ref, or nil when there is none for that
// version.
func (b *Builder) find(ref module.Version) (*irecipe.Recipe, error) {
	if b.opts.Finder == nil {
		return nil, nil
	}
	r, err := b.opts.Finder(ref.Name)
	if err != nil {
		if errors.Is(err, irecipe.ErrRecipeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if r.Version != ref.Version {
		logger.L().Debugw("recipe version differs from the resolved one",
			"recipe", r.Ref(), "resolved", ref.String())
		return nil, nil
	}
	return r, nil
}

func (b *Builder) latest(ctx context.Context, ref module.Version) (*Result, error) {
	settings := b.opts.Profile.Settings
	pkg, err := b.opts.DB.Latest(ctx, ref.Name, ref.Version, settings)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s has no recipe and no package for %s", ErrMissingPackage, ref, settings)
	}
	if err != nil {
		return nil, err
	}
	return resultOf(pkg)
}

func (b *Builder) buildDep(ctx context.Context, r *irecipe.Recipe) (*Result, error) {
	inst, err := modload.Instantiate(ctx, r, b.opts.Profile, false)
	if err != nil {
		return nil, err
	}
	g, err := modload.Resolve(inst, b.opts.Index)
	if err != nil {
		return nil, err
	}
	id := modload.PackageID(inst, g)
	if res, err := b.lookup(ctx, inst.Ref, id); err != nil || res != nil {
		return res, err
	}
	if !b.opts.BuildMissing {
		return nil, fmt.Errorf("%w: %s:%s is not built (use --build-missing)", ErrMissingPackage, inst.Ref, id)
	}

	b.visiting[inst.Ref.Name] = true
	defer delete(b.visiting, inst.Ref.Name)

	deps, err := b.ensureDeps(ctx, inst.Ref, g)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, inst, g, deps, "")
}

// lookup returns the cached package, or nil when it is not in the cache.
func (b *Builder) lookup(ctx context.Context, ref module.Version, id string) (*Result, error) {
	pkg, err := b.opts.DB.Get(ctx, ref.Name, ref.Version, id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(pkg.Dir); err != nil {
		logger.L().Warnw("cached package folder is gone, rebuilding", "recipe", ref.String(), "package_id", id, "dir", pkg.Dir)
		return nil, nil
	}
	return resultOf(pkg)
}

func resultOf(pkg *cache.Package) (*Result, error) {
	info, err := pkg.Info()
	if err != nil {
		return nil, err
	}
	return &Result{
		Ref:       module.Version{Name: pkg.Name, Version: pkg.Version},
		PackageID: pkg.PackageID,
		Dir:       pkg.Dir,
		CppInfo:   info,
		Metadata:  pkg.Metadata,
		Cached:    true,
	}, nil
}

// Build runs layout, build, package and package_info for an instantiated
// recipe whose dependencies are available, and records the package. It
// returns the cached package instead when one with the same package ID
// exists.
func (b *Builder) Build(ctx context.Context, inst *modload.Instance, g *modload.Graph, deps map[string]*recipe.Dependency, sourceDir string) (*Result, error) {
	ref := inst.Ref
	id := modload.PackageID(inst, g)
	log := logger.L().With("recipe", ref.String(), "package_id", id)

	name, err := module.EscapePath(ref.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid package name %q: %w", ref.Name, err)
	}
	root := filepath.Join(b.opts.Dirs.PackagesDir(), name+"-"+id[:16])
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	unlock, err := lock(ctx, filepath.Join(root, ".lock"))
	if err != nil {
		return nil, err
	}
	defer unlock()

	// another process may have built it while we waited for the lock
	if res, err := b.lookup(ctx, ref, id); err != nil || res != nil {
		if res != nil {
			log.Infow("package found in cache", "dir", res.Dir)
		}
		return res, err
	}

	if sourceDir == "" {
		sourceDir = inst.Recipe.Dir
	}
	if sourceDir == "" {
		return nil, &StageError{Ref: ref.String(), Stage: StageExport, Err: errors.New("no source folder")}
	}
	srcDir := filepath.Join(root, "s")
	pkgDir := filepath.Join(root, "p")
	for _, dir := range []string{srcDir, pkgDir} {
		if err := os.RemoveAll(dir); err != nil {
			return nil, err
		}
	}
	log.Infow("exporting sources", "stage", StageExport, "from", sourceDir)
	if err := exportSources(sourceDir, srcDir, inst.Recipe.ExportsSources); err != nil {
		return nil, &StageError{Ref: ref.String(), Stage: StageExport, Err: err}
	}

	hookCtx := b.prepare(inst, deps, srcDir, pkgDir)
	r := inst.Recipe

	if _, err := runStage(log, ref, StageLayout, r.OnLayout != nil, func(*recipe.BuildResult) {
		r.OnLayout(hookCtx)
	}); err != nil {
		return nil, err
	}
	if _, err := runStage(log, ref, StageGenerate, true, func(out *recipe.BuildResult) {
		_, err := cmake.WriteToolchain(hookCtx)
		out.AddErr(err)
	}); err != nil {
		return nil, err
	}
	built, err := runStage(log, ref, StageBuild, r.OnBuild != nil, func(out *recipe.BuildResult) {
		r.OnBuild(hookCtx, out)
	})
	if err != nil {
		return nil, err
	}
	packaged, err := runStage(log, ref, StagePackage, r.OnPackage != nil, func(out *recipe.BuildResult) {
		r.OnPackage(hookCtx, out)
	})
	if err != nil {
		return nil, err
	}

	info := recipe.NewCppInfo()
	var pc string
	if _, err := runStage(log, ref, StagePackageInfo, true, func(out *recipe.BuildResult) {
		if r.OnPackageInfo != nil {
			r.OnPackageInfo(hookCtx, info)
		}
		pc = info.PkgConfig(ref.Name, ref.Version, r.Description, pkgDir)
		out.AddErr(writePkgConfig(pkgDir, ref.Name, pc))
	}); err != nil {
		return nil, err
	}

	metadata := firstNonEmpty(packaged.Metadata(), built.Metadata(), pc)
	pkg := &cache.Package{
		Name:      ref.Name,
		Version:   ref.Version,
		PackageID: id,
		Settings:  inst.Settings.String(),
		Options:   inst.Options.String(),
		Requires:  strings.Join(g.RuntimeRefs(), ","),
		Dir:       pkgDir,
		Metadata:  metadata,
	}
	if err := pkg.SetInfo(info); err != nil {
		return nil, err
	}
	if err := b.opts.DB.Put(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to record %s:%s: %w", ref, id, err)
	}
	log.Infow("package created", "dir", pkgDir)

	return &Result{
		Ref:       ref,
		PackageID: id,
		Dir:       pkgDir,
		CppInfo:   info,
		Metadata:  metadata,
	}, nil
}

// prepare binds the hook context of inst to the build folders.
func (b *Builder) prepare(inst *modload.Instance, deps map[string]*recipe.Dependency, srcDir, pkgDir string) *recipe.Context {
	c := inst.Context
	c.SourceDir = srcDir
	c.PackageDir = pkgDir
	if deps != nil {
		c.Deps = deps
	}
	c.Stdout = b.opts.Stdout
	c.Stderr = b.opts.Stderr
	c.SetRunner(b.opts.Runner)

	settings, conf := inst.Settings, b.opts.Profile.Conf
	hostInfo := b.opts.Host
	c.SetCanRun(func() bool {
		return hostInfo.CanRun(settings, conf.CanRun)
	})
	if conf.Jobs > 0 {
		c.SetEnv("CMAKE_BUILD_PARALLEL_LEVEL", strconv.Itoa(conf.Jobs))
	}

	inst.Recipe.SetStdout(b.opts.Stdout)
	inst.Recipe.SetStderr(b.opts.Stderr)
	return c
}

// runStage runs one lifecycle hook and turns the errors it reports, or a
// panic, into a StageError.
func runStage(log *zap.SugaredLogger, ref module.Version, stage string, present bool, fn func(out *recipe.BuildResult)) (out *recipe.BuildResult, err error) {
	out = &recipe.BuildResult{}
	if !present {
		log.Debugw("no hook", "stage", stage)
		return out, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Ref: ref.String(), Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	log.Infow("running", "stage", stage)
	fn(out)
	if e := out.Err(); e != nil {
		return out, &StageError{Ref: ref.String(), Stage: stage, Err: e}
	}
	return out, nil
}

// writePkgConfig writes the generated pkg-config file unless the install
// step provided one.
func writePkgConfig(pkgDir, name, content string) error {
	dir := filepath.Join(pkgDir, "lib", "pkgconfig")
	path := filepath.Join(dir, name+".pc")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func lock(ctx context.Context, path string) (unlock func(), err error) {
	fileLock := flock.New(path)

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire lock %s: timeout after %v", path, lockTimeout)
	}
	return func() {
		if err := fileLock.Unlock(); err != nil {
			logger.L().Warnf("failed to unlock %s: %v", path, err)
		}
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
