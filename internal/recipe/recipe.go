// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recipe loads packaging recipes, either native ones written against
// the recipe classfile or *_recipe.gox scripts run by the XGo interpreter.
package recipe

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fandjelo/cpkg/recipe"
	"github.com/goplus/ixgo"
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/xgo/ast"
	"github.com/goplus/xgo/parser"
	"github.com/goplus/xgo/token"

	xgo "github.com/fandjelo/cpkg/internal/ixgo"
)

// ErrInvalidRecipe is returned for a recipe without a name or version.
var ErrInvalidRecipe = errors.New("invalid recipe")

// Recipe is a loaded recipe: its metadata and lifecycle hooks.
type Recipe struct {
	structElem reflect.Value

	// Dir is the folder the recipe was loaded from. Exported sources are
	// resolved against it.
	Dir string

	// NOTE: these signatures MUST match the fields of RecipeF in
	// recipe/classfile.go
	Name           string
	Version        string
	PackageType    string
	License        string
	Author         string
	URL            string
	Description    string
	Topics         []string
	Options        map[string][]string
	DefaultOptions map[string]string
	Settings       []string
	ExportsSources []string

	OnConfigOptions func(ctx *recipe.Context)
	OnConfigure     func(ctx *recipe.Context)
	OnRequire       func(ctx *recipe.Context, reqs *recipe.Requirements)
	OnLayout        func(ctx *recipe.Context)
	OnBuild         func(ctx *recipe.Context, out *recipe.BuildResult)
	OnPackage       func(ctx *recipe.Context, out *recipe.BuildResult)
	OnPackageInfo   func(ctx *recipe.Context, info *recipe.CppInfo)
}

// FromClass wraps a recipe written natively in Go.
func FromClass(r *recipe.RecipeF) (*Recipe, error) {
	return fromClass(reflect.ValueOf(r).Elem())
}

func fromClass(class reflect.Value) (*Recipe, error) {
	r := &Recipe{
		structElem:     class,
		Name:           valueOf(class, "name").(string),
		Version:        valueOf(class, "version").(string),
		PackageType:    valueOf(class, "packageType").(string),
		License:        valueOf(class, "license").(string),
		Author:         valueOf(class, "author").(string),
		URL:            valueOf(class, "url").(string),
		Description:    valueOf(class, "description").(string),
		Topics:         valueOf(class, "topics").([]string),
		Options:        valueOf(class, "options").(map[string][]string),
		DefaultOptions: valueOf(class, "defaultOptions").(map[string]string),
		Settings:       valueOf(class, "settings").([]string),
		ExportsSources: valueOf(class, "exportsSources").([]string),

		OnConfigOptions: valueOf(class, "fOnConfigOptions").(func(*recipe.Context)),
		OnConfigure:     valueOf(class, "fOnConfigure").(func(*recipe.Context)),
		OnRequire:       valueOf(class, "fOnRequire").(func(*recipe.Context, *recipe.Requirements)),
		OnLayout:        valueOf(class, "fOnLayout").(func(*recipe.Context)),
		OnBuild:         valueOf(class, "fOnBuild").(func(*recipe.Context, *recipe.BuildResult)),
		OnPackage:       valueOf(class, "fOnPackage").(func(*recipe.Context, *recipe.BuildResult)),
		OnPackageInfo:   valueOf(class, "fOnPackageInfo").(func(*recipe.Context, *recipe.CppInfo)),
	}
	if r.Name == "" || r.Version == "" {
		return nil, fmt.Errorf("%w: name and version are required", ErrInvalidRecipe)
	}
	return r, nil
}

// Ref returns the "name/version" reference of the recipe.
func (r *Recipe) Ref() string {
	return r.Name + "/" + r.Version
}

// NewOptions creates the option set of a fresh recipe instance.
func (r *Recipe) NewOptions() *recipe.Options {
	return recipe.NewOptions(r.Options, r.DefaultOptions)
}

// HasSetting reports whether the named setting is declared by the recipe.
func (r *Recipe) HasSetting(name string) bool {
	for _, s := range r.Settings {
		if s == name {
			return true
		}
	}
	return false
}

// loadFS is the internal implementation for loading a recipe script from a
// filesystem. It builds and interprets the script, then extracts the struct
// fields.
func loadFS(fsys fs.ReadFileFS, path string) (*Recipe, error) {
	if !strings.HasSuffix(path, xgo.RecipeExt) {
		return nil, fmt.Errorf("failed to load recipe: file name is not valid: %s", path)
	}
	ctx := ixgo.NewContext(0)

	content, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source, err := xgobuild.BuildFile(ctx, path, content)
	if err != nil {
		return nil, err
	}
	pkgs, err := ctx.LoadFile("main.go", source)
	if err != nil {
		return nil, err
	}
	interp, err := ctx.NewInterp(pkgs)
	if err != nil {
		return nil, err
	}
	if err = interp.RunInit(); err != nil {
		return nil, err
	}
	structName, _, ok := strings.Cut(filepath.Base(path), "_")
	if !ok {
		return nil, fmt.Errorf("failed to load recipe: file name is not valid: %s", path)
	}
	typ, ok := interp.GetType(structName)
	if !ok {
		return nil, fmt.Errorf("failed to load recipe: struct name not found: %s", structName)
	}
	val := reflect.New(typ)
	class := val.Elem()

	val.Interface().(interface{ Main() }).Main()

	return fromClass(class)
}

// LoadFS loads a recipe script from a filesystem. The path is relative to
// the filesystem root.
func LoadFS(fsys fs.ReadFileFS, path string) (*Recipe, error) {
	return loadFS(fsys, path)
}

// Load loads a recipe script from the local filesystem. The folder holding
// the script becomes the recipe's Dir.
func Load(path string) (*Recipe, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	r, err := loadFS(os.DirFS(dir).(fs.ReadFileFS), filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	r.Dir = dir
	return r, nil
}

// SetStdout sets the stdout writer of the recipe's gsh.App.
func (r *Recipe) SetStdout(w io.Writer) {
	if r.structElem.IsValid() {
		setValue(r.structElem, "fout", w)
	}
}

// SetStderr sets the stderr writer of the recipe's gsh.App.
func (r *Recipe) SetStderr(w io.Writer) {
	if r.structElem.IsValid() {
		setValue(r.structElem, "ferr", w)
	}
}

// Meta is the identity of a recipe read without running it.
type Meta struct {
	Name    string
	Version string
}

// MetaOf extracts the name and version of a recipe script by parsing its
// AST.
func MetaOf(path string) (Meta, error) {
	fset := token.NewFileSet()
	astFile, err := parser.ParseEntry(fset, path, nil, parser.Config{
		ClassKind: xgobuild.ClassKind,
	})
	if err != nil {
		return Meta{}, err
	}
	return metaFrom(astFile)
}

func metaFrom(f *ast.File) (meta Meta, err error) {
	ast.Inspect(f, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		c, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if fn, ok := c.Fun.(*ast.Ident); ok {
			switch fn.Name {
			case "name":
				meta.Name, err = parseCallArg(c, fn.Name)
				return false
			case "version":
				meta.Version, err = parseCallArg(c, fn.Name)
				return false
			}
		}
		return true
	})
	if err == nil && (meta.Name == "" || meta.Version == "") {
		err = fmt.Errorf("%w: name and version are required", ErrInvalidRecipe)
	}
	return
}

// parseCallArg extracts the first string argument from a call expression.
func parseCallArg(c *ast.CallExpr, fnName string) (string, error) {
	if len(c.Args) == 0 {
		return "", fmt.Errorf("failed to parse %s from AST: no argument", fnName)
	}
	var arg string
	if lit, ok := c.Args[0].(*ast.BasicLit); ok {
		arg = strings.Trim(strings.Trim(lit.Value, `"`), "`")
	}
	if arg == "" {
		return "", fmt.Errorf("failed to parse %s from AST: no argument", fnName)
	}
	return arg, nil
}
