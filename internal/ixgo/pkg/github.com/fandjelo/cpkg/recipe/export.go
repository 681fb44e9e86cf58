// export by github.com/goplus/ixgo/cmd/qexp

package recipe

import (
	q "github.com/fandjelo/cpkg/recipe"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "recipe",
		Path: "github.com/fandjelo/cpkg/recipe",
		Deps: map[string]string{
			"context": "context",
			"errors":  "errors",
			"fmt":     "fmt",
			"github.com/fandjelo/cpkg/pkgs/mod/module": "module",
			"github.com/qiniu/x/gsh":                   "gsh",
			"io":                                       "io",
			"os":                                       "os",
			"os/exec":                                  "exec",
			"path":                                     "path",
			"path/filepath":                            "filepath",
			"slices":                                   "slices",
			"sort":                                     "sort",
			"strings":                                  "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"BuildResult":  reflect.TypeOf((*q.BuildResult)(nil)).Elem(),
			"Command":      reflect.TypeOf((*q.Command)(nil)).Elem(),
			"Context":      reflect.TypeOf((*q.Context)(nil)).Elem(),
			"CppInfo":      reflect.TypeOf((*q.CppInfo)(nil)).Elem(),
			"Dependency":   reflect.TypeOf((*q.Dependency)(nil)).Elem(),
			"Layout":       reflect.TypeOf((*q.Layout)(nil)).Elem(),
			"Options":      reflect.TypeOf((*q.Options)(nil)).Elem(),
			"RecipeF":      reflect.TypeOf((*q.RecipeF)(nil)).Elem(),
			"Requirement":  reflect.TypeOf((*q.Requirement)(nil)).Elem(),
			"Requirements": reflect.TypeOf((*q.Requirements)(nil)).Elem(),
			"Role":         reflect.TypeOf((*q.Role)(nil)).Elem(),
			"Runner":       reflect.TypeOf((*q.Runner)(nil)).Elem(),
			"Settings":     reflect.TypeOf((*q.Settings)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars: map[string]reflect.Value{
			"Bool":                  reflect.ValueOf(&q.Bool),
			"ErrInvalidOptionValue": reflect.ValueOf(&q.ErrInvalidOptionValue),
			"ErrUnknownOption":      reflect.ValueOf(&q.ErrUnknownOption),
		},
		Funcs: map[string]reflect.Value{
			"CMakeLayout":       reflect.ValueOf(q.CMakeLayout),
			"ExecRunner":        reflect.ValueOf(q.ExecRunner),
			"FormatBool":        reflect.ValueOf(q.FormatBool),
			"Gopt_RecipeF_Main": reflect.ValueOf(q.Gopt_RecipeF_Main),
			"NewContext":        reflect.ValueOf(q.NewContext),
			"NewCppInfo":        reflect.ValueOf(q.NewCppInfo),
			"NewOptions":        reflect.ValueOf(q.NewOptions),
			"ParseRequirement":  reflect.ValueOf(q.ParseRequirement),
		},
		TypedConsts: map[string]ixgo.TypedConst{
			"Runtime": {Typ: reflect.TypeOf(q.Runtime), Value: constant.MakeInt64(int64(q.Runtime))},
			"Test":    {Typ: reflect.TypeOf(q.Test), Value: constant.MakeInt64(int64(q.Test))},
			"Tool":    {Typ: reflect.TypeOf(q.Tool), Value: constant.MakeInt64(int64(q.Tool))},
		},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"GopPackage": {Typ: "untyped bool", Value: constant.MakeBool(bool(q.GopPackage))},
		},
	})
}
