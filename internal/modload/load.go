// Package modload instantiates recipes for a profile and resolves their
// dependency graph against a version index.
package modload

import (
	"context"
	"errors"
	"fmt"

	"github.com/fandjelo/cpkg/internal/logger"
	"github.com/fandjelo/cpkg/internal/profile"
	irecipe "github.com/fandjelo/cpkg/internal/recipe"
	"github.com/fandjelo/cpkg/pkgs/mod/module"
	"github.com/fandjelo/cpkg/recipe"
)

// Instance is a recipe configured for one profile: its final options and
// its declared requirements.
type Instance struct {
	Recipe   *irecipe.Recipe
	Ref      module.Version
	Settings recipe.Settings
	Options  *recipe.Options
	Requires []recipe.Requirement

	// Context is the hook context the remaining lifecycle runs with.
	Context *recipe.Context
}

// Instantiate runs the configuration part of the lifecycle: options are
// seeded from their defaults, config_options runs, the profile's option
// overrides are applied, then configure and requirements run.
//
// Root marks the package being built, which also receives the profile's
// unqualified option overrides. Overrides of options removed by
// config_options are ignored. Overrides of options the recipe never
// declared are an error unless they come from a "*:" key.
func Instantiate(ctx context.Context, r *irecipe.Recipe, prof *profile.Profile, root bool) (*Instance, error) {
	if prof == nil {
		prof = &profile.Profile{}
	}
	log := logger.L().With("recipe", r.Ref())

	settings := prof.Settings.Restrict(r.Settings)
	opts := r.NewOptions()
	hookCtx := recipe.NewContext(ctx, opts, settings)

	if r.OnConfigOptions != nil {
		r.OnConfigOptions(hookCtx)
	}
	for _, o := range prof.Overrides(r.Name, root) {
		switch {
		case !opts.Declared(o.Name):
			if o.Wildcard {
				continue
			}
			return nil, fmt.Errorf("%s: %w: %s", r.Ref(), recipe.ErrUnknownOption, o.Name)
		case !opts.Has(o.Name):
			log.Debugw("ignoring override of removed option", "option", o.Name, "value", o.Value)
			continue
		}
		if err := opts.Set(o.Name, o.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", r.Ref(), err)
		}
	}
	if r.OnConfigure != nil {
		r.OnConfigure(hookCtx)
	}

	var reqs recipe.Requirements
	if r.OnRequire != nil {
		r.OnRequire(hookCtx, &reqs)
	}
	if errs := reqs.Errs(); len(errs) > 0 {
		return nil, fmt.Errorf("%s: requirements: %w", r.Ref(), errors.Join(errs...))
	}
	log.Debugw("instantiated", "options", opts.String(), "settings", settings.String())

	return &Instance{
		Recipe:   r,
		Ref:      module.Version{Name: r.Name, Version: r.Version},
		Settings: settings,
		Options:  opts,
		Requires: reqs.List(),
		Context:  hookCtx,
	}, nil
}
