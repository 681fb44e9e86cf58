// Copyright 2024 The llar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ixgo registers the recipe classfile and the packages recipes may
// import with the XGo interpreter.
package ixgo

import (
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/mod/modfile"

	_ "github.com/fandjelo/cpkg/internal/ixgo/pkg/github.com/fandjelo/cpkg/pkgs/buildsys/autotools"
	_ "github.com/fandjelo/cpkg/internal/ixgo/pkg/github.com/fandjelo/cpkg/pkgs/buildsys/cmake"
	_ "github.com/fandjelo/cpkg/internal/ixgo/pkg/github.com/fandjelo/cpkg/pkgs/mod/module"
	_ "github.com/fandjelo/cpkg/internal/ixgo/pkg/github.com/fandjelo/cpkg/recipe"
	_ "github.com/fandjelo/cpkg/internal/ixgo/pkg/github.com/qiniu/x/gsh"
)

// RecipeExt is the file suffix of recipe classfiles.
const RecipeExt = "_recipe.gox"

func init() {
	xgobuild.RegisterProject(&modfile.Project{
		Ext:   RecipeExt,
		Class: "RecipeF",
		PkgPaths: []string{
			"github.com/fandjelo/cpkg/recipe",
		},
		Import: []*modfile.Import{
			{
				Name: "cmake",
				Path: "github.com/fandjelo/cpkg/pkgs/buildsys/cmake",
			},
			{
				Name: "autotools",
				Path: "github.com/fandjelo/cpkg/pkgs/buildsys/autotools",
			},
		},
	})
}
