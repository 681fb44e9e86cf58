// Package recipes is the registry of recipes shipped with cpkg.
package recipes

import (
	"sort"

	"github.com/fandjelo/cpkg/recipe"
	"github.com/fandjelo/cpkg/recipes/sqlite3pp"
)

// Default is the recipe built when none is named.
const Default = "sqlite3pp"

var builtin = map[string]func() *recipe.RecipeF{
	"sqlite3pp": sqlite3pp.New,
	"database":  sqlite3pp.Database,
}

// Lookup returns a fresh instance of the named built-in recipe.
func Lookup(name string) (*recipe.RecipeF, bool) {
	f, ok := builtin[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns the built-in recipe names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
