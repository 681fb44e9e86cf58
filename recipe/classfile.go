package recipe

import (
	"errors"
	"slices"

	"github.com/qiniu/x/gsh"
)

const GopPackage = true

// -----------------------------------------------------------------------------

// RecipeF represents the packaging recipe of a C/C++ library.
type RecipeF struct {
	gsh.App

	fOnConfigOptions func(ctx *Context)
	fOnConfigure     func(ctx *Context)
	fOnRequire       func(ctx *Context, reqs *Requirements)
	fOnLayout        func(ctx *Context)
	fOnBuild         func(ctx *Context, out *BuildResult)
	fOnPackage       func(ctx *Context, out *BuildResult)
	fOnPackageInfo   func(ctx *Context, info *CppInfo)

	name           string
	version        string
	packageType    string
	license        string
	author         string
	url            string
	description    string
	topics         []string
	options        map[string][]string
	defaultOptions map[string]string
	settings       []string
	exportsSources []string
}

func (p *RecipeF) app() *gsh.App {
	return &p.App
}

// Name sets the package name.
func (p *RecipeF) Name(name string) {
	p.name = name
}

// Version sets the package version.
func (p *RecipeF) Version(ver string) {
	p.version = ver
}

// PackageType sets the kind of package, e.g. "library" or "application".
func (p *RecipeF) PackageType(typ string) {
	p.packageType = typ
}

func (p *RecipeF) License(license string) {
	p.license = license
}

func (p *RecipeF) Author(author string) {
	p.author = author
}

func (p *RecipeF) URL(url string) {
	p.url = url
}

func (p *RecipeF) Description(desc string) {
	p.description = desc
}

func (p *RecipeF) Topics(topics ...string) {
	p.topics = append(p.topics, topics...)
}

// Options declares the recipe options and their possible values.
func (p *RecipeF) Options(decl map[string][]string) {
	p.options = decl
}

// DefaultOptions sets the default value of declared options.
func (p *RecipeF) DefaultOptions(defs map[string]string) {
	p.defaultOptions = defs
}

// Settings declares which settings take part in the package identity, e.g.
// "os", "compiler", "build_type", "arch".
func (p *RecipeF) Settings(names ...string) {
	p.settings = slices.Clone(names)
}

// ExportsSources declares the source files, as glob patterns relative to the
// recipe folder, that are copied along with the recipe.
func (p *RecipeF) ExportsSources(patterns ...string) {
	p.exportsSources = append(p.exportsSources, patterns...)
}

// -----------------------------------------------------------------------------

// OnConfigOptions event runs right after the options are created from their
// defaults. Use it to remove options that make no sense for the settings.
func (p *RecipeF) OnConfigOptions(f func(ctx *Context)) {
	p.fOnConfigOptions = f
}

// OnConfigure event runs after user option values are applied.
func (p *RecipeF) OnConfigure(f func(ctx *Context)) {
	p.fOnConfigure = f
}

// OnRequire event is used to declare the dependencies of the package.
func (p *RecipeF) OnRequire(f func(ctx *Context, reqs *Requirements)) {
	p.fOnRequire = f
}

// OnLayout event declares the folder layout of the build.
func (p *RecipeF) OnLayout(f func(ctx *Context)) {
	p.fOnLayout = f
}

// OnBuild event is used to compile the package.
func (p *RecipeF) OnBuild(f func(ctx *Context, out *BuildResult)) {
	p.fOnBuild = f
}

// OnPackage event installs the built artifacts into ctx.PackageDir.
func (p *RecipeF) OnPackage(f func(ctx *Context, out *BuildResult)) {
	p.fOnPackage = f
}

// OnPackageInfo event describes how consumers use the package.
func (p *RecipeF) OnPackageInfo(f func(ctx *Context, info *CppInfo)) {
	p.fOnPackageInfo = f
}

// -----------------------------------------------------------------------------

// BuildResult represents the result of a build or package step.
type BuildResult struct {
	errs     []error
	metadata string // for C/C++ it's the pkg-config document.
}

// AddErr records an error.
func (b *BuildResult) AddErr(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Errs returns all recorded errors.
func (b *BuildResult) Errs() []error {
	return b.errs
}

// Err joins the recorded errors, or returns nil.
func (b *BuildResult) Err() error {
	return errors.Join(b.errs...)
}

// Metadata returns the build output metadata.
func (b *BuildResult) Metadata() string {
	return b.metadata
}

// SetMetadata sets the build output metadata.
func (b *BuildResult) SetMetadata(metadata string) {
	b.metadata = metadata
}

// -----------------------------------------------------------------------------

// Gopt_RecipeF_Main is main entry of this classfile.
func Gopt_RecipeF_Main(this interface {
	app() *gsh.App
	MainEntry()
}) {
	this.MainEntry()
	gsh.InitApp(this.app())
}
