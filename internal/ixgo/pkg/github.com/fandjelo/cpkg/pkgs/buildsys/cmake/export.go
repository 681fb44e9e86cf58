// export by github.com/goplus/ixgo/cmd/qexp

package cmake

import (
	q "github.com/fandjelo/cpkg/pkgs/buildsys/cmake"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "cmake",
		Path: "github.com/fandjelo/cpkg/pkgs/buildsys/cmake",
		Deps: map[string]string{
			"fmt":                                    "fmt",
			"github.com/fandjelo/cpkg/pkgs/buildsys": "buildsys",
			"github.com/fandjelo/cpkg/recipe":        "recipe",
			"os":                                     "os",
			"path/filepath":                          "filepath",
			"sort":                                   "sort",
			"strings":                                "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"CMake": reflect.TypeOf((*q.CMake)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"New":            reflect.ValueOf(q.New),
			"Toolchain":      reflect.ValueOf(q.Toolchain),
			"WriteToolchain": reflect.ValueOf(q.WriteToolchain),
		},
		TypedConsts: map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"ToolchainFile": {Typ: "untyped string", Value: constant.MakeString(string(q.ToolchainFile))},
		},
	})
}
