package internal

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/fandjelo/cpkg/internal/cache"
	"github.com/fandjelo/cpkg/internal/index"
	"github.com/fandjelo/cpkg/internal/logger"
	"github.com/fandjelo/cpkg/internal/profile"
	irecipe "github.com/fandjelo/cpkg/internal/recipe"
	"github.com/fandjelo/cpkg/pkgs/mod/versions"
	"github.com/fandjelo/cpkg/recipes"
)

// openRecipe returns the recipe named on the command line, or the default
// one when no argument was given.
func openRecipe(args []string) (*irecipe.Recipe, error) {
	name := recipes.Default
	if len(args) > 0 {
		name = args[0]
	}
	return irecipe.Open(name)
}

// loadProfile reads the configured profile and applies the command line
// settings and options on top of it. The default profile falls back to the
// detected host when it was never saved.
func loadProfile(settings, options []string) (*profile.Profile, error) {
	path := cfg.Dirs().Profile(cfg.Profile)
	prof, err := profile.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && cfg.Profile == "default":
		logger.L().Debugw("no default profile, using the detected host", "path", path)
		prof = profile.Detect()
	case err != nil:
		return nil, fmt.Errorf("failed to load profile %s: %w", cfg.Profile, err)
	}
	if err := prof.Settings.Apply(settings...); err != nil {
		return nil, err
	}
	if err := prof.ApplyOptions(options...); err != nil {
		return nil, err
	}
	return prof, nil
}

func loadIndex() (versions.Index, error) {
	dir := cfg.Index
	if dir == "" {
		dir = cfg.Dirs().IndexDir()
	}
	return index.Load(dir)
}

func openDB() (*cache.DB, error) {
	dirs := cfg.Dirs()
	if err := dirs.Init(); err != nil {
		return nil, err
	}
	return cache.Open(dirs.CacheDB())
}
