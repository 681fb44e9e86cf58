package recipe

import (
	"reflect"
	"testing"

	"github.com/goplus/ixgo"
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/xgo/parser"
	"github.com/goplus/xgo/parser/fsx"
	"github.com/goplus/xgo/token"
)

type hooks struct {
	Name    *string
	version string
	onBuild func() int
}

type holder struct {
	hooks
	Jobs int
}

func TestValueOf(t *testing.T) {
	name := "zlib"
	h := holder{hooks: hooks{Name: &name, version: "1.3.1", onBuild: func() int { return 7 }}, Jobs: 4}
	elem := reflect.ValueOf(&h).Elem()

	if got := valueOf(elem, "Name").(string); got != name {
		t.Errorf("valueOf(Name) = %v, want %v", got, name)
	}
	if got := valueOf(elem, "version").(string); got != "1.3.1" {
		t.Errorf("valueOf(version) = %v, want 1.3.1", got)
	}
	if got := valueOf(elem, "onBuild").(func() int); got() != 7 {
		t.Errorf("valueOf(onBuild)() = %v, want 7", got())
	}
	if got := valueOf(elem, "Jobs").(int); got != 4 {
		t.Errorf("valueOf(Jobs) = %v, want 4", got)
	}
}

func TestSetValue(t *testing.T) {
	h := holder{hooks: hooks{version: "1.0"}}
	elem := reflect.ValueOf(&h).Elem()

	setValue(elem, "version", "2.0")
	if h.version != "2.0" {
		t.Errorf("version = %v, want 2.0", h.version)
	}
	setValue(elem, "Jobs", 8)
	if h.Jobs != 8 {
		t.Errorf("Jobs = %v, want 8", h.Jobs)
	}

	setValue(elem, "version", nil)
	if h.version != "" {
		t.Errorf("version = %q, want empty", h.version)
	}
	setValue(elem, "onBuild", nil)
	if h.onBuild != nil {
		t.Error("onBuild should be reset to nil")
	}
}

func TestUnexportValueOf(t *testing.T) {
	h := holder{hooks: hooks{version: "3.45.1"}}
	field := reflect.ValueOf(&h).Elem().FieldByName("version")

	val := unexportValueOf(field)
	if !val.CanInterface() || !val.CanSet() {
		t.Fatal("unexportValueOf should return an interfaceable, settable value")
	}
	if got := val.Interface().(string); got != "3.45.1" {
		t.Errorf("got %v, want 3.45.1", got)
	}
}

func TestClassfile(t *testing.T) {
	t.Run("ixgo", func(t *testing.T) {
		ctx := ixgo.NewContext(0)
		xgoContext := xgobuild.NewContext(ctx)
		if _, err := xgoContext.ParseFile("testdata/recipe/hello_recipe.gox", nil); err != nil {
			t.Error(err)
		}
	})

	t.Run("xgo", func(t *testing.T) {
		fs := token.NewFileSet()
		_, err := parser.ParseFSEntry(fs, fsx.Local, "testdata/recipe/hello_recipe.gox", nil, parser.Config{
			ClassKind: xgobuild.ClassKind,
		})
		if err != nil {
			t.Error(err)
		}
	})
}
