// Package env locates the cpkg home folder and its layout:
//
//	<home>/
//	  config.toml     tool configuration
//	  cache.sqlite3   package database
//	  profiles/       TOML profiles
//	  index/          version index files
//	  recipes/        *_recipe.gox recipes
//	  p/              package and build folders
package env

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// HomeEnv overrides the home folder.
const HomeEnv = "CPKG_HOME"

// Home returns the cpkg home folder: $CPKG_HOME, or cpkg under the XDG data
// folder.
func Home() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, "cpkg")
}

// Dirs is the layout of a cpkg home folder.
type Dirs struct {
	Home string
}

// At returns the layout rooted at home. An empty home means Home().
func At(home string) Dirs {
	if home == "" {
		home = Home()
	}
	return Dirs{Home: home}
}

func (d Dirs) ConfigFile() string  { return filepath.Join(d.Home, "config.toml") }
func (d Dirs) CacheDB() string     { return filepath.Join(d.Home, "cache.sqlite3") }
func (d Dirs) ProfilesDir() string { return filepath.Join(d.Home, "profiles") }
func (d Dirs) IndexDir() string    { return filepath.Join(d.Home, "index") }
func (d Dirs) RecipesDir() string  { return filepath.Join(d.Home, "recipes") }
func (d Dirs) PackagesDir() string { return filepath.Join(d.Home, "p") }

// Profile returns the path of a named profile. Names containing a path
// separator are used as paths.
func (d Dirs) Profile(name string) string {
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		return name
	}
	return filepath.Join(d.ProfilesDir(), name+".toml")
}

// Init creates the folders of the layout.
func (d Dirs) Init() error {
	for _, dir := range []string{d.Home, d.ProfilesDir(), d.IndexDir(), d.RecipesDir(), d.PackagesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
