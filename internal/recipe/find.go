package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	xgo "github.com/fandjelo/cpkg/internal/ixgo"
	"github.com/fandjelo/cpkg/recipes"
)

// ErrRecipeNotFound is returned when no recipe is known for a package.
var ErrRecipeNotFound = errors.New("recipe not found")

// Builtin returns a built-in recipe by name.
func Builtin(name string) (*Recipe, error) {
	r, ok := recipes.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	return FromClass(r)
}

// Open returns the recipe named by arg: a path to a *_recipe.gox file or the
// name of a built-in recipe.
func Open(arg string) (*Recipe, error) {
	if strings.HasSuffix(arg, xgo.RecipeExt) {
		return Load(arg)
	}
	return Builtin(arg)
}

// Finder locates the recipes of dependencies. Each folder is searched for
// <name>/<name>_recipe.gox and <name>_recipe.gox before the built-in
// recipes.
type Finder struct {
	Dirs []string
}

// Find returns the recipe of the named package.
func (f Finder) Find(name string) (*Recipe, error) {
	file := name + xgo.RecipeExt
	for _, dir := range f.Dirs {
		for _, path := range []string{
			filepath.Join(dir, name, file),
			filepath.Join(dir, file),
		} {
			if _, err := os.Stat(path); err == nil {
				return Load(path)
			}
		}
	}
	return Builtin(name)
}
