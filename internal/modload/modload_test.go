package modload

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fandjelo/cpkg/internal/profile"
	irecipe "github.com/fandjelo/cpkg/internal/recipe"
	"github.com/fandjelo/cpkg/pkgs/mod/module"
	"github.com/fandjelo/cpkg/pkgs/mod/versions"
	"github.com/fandjelo/cpkg/recipe"
)

func testIndex() versions.Index {
	return versions.Index{
		"sqlite3": {Name: "sqlite3", Releases: map[string][]versions.Dependency{
			"3.7.17": nil,
			"3.45.1": {{Name: "zlib", Range: "[>=1.2]"}},
		}},
		"zlib": {Name: "zlib", Releases: map[string][]versions.Dependency{
			"1.2.13": nil,
			"1.3.1":  nil,
		}},
		"gtest": {Name: "gtest", Releases: map[string][]versions.Dependency{
			"1.11.0": nil,
			"1.14.0": {{Name: "zlib", Range: "[~1.2]"}},
		}},
	}
}

func loadRecipe(t *testing.T, name string) *irecipe.Recipe {
	t.Helper()
	r, err := irecipe.Builtin(name)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newRecipe(t *testing.T, name string, require func(reqs *recipe.Requirements)) *irecipe.Recipe {
	t.Helper()
	rf := &recipe.RecipeF{}
	rf.Name(name)
	rf.Version("1.0")
	rf.Options(map[string][]string{"shared": recipe.Bool})
	rf.OnRequire(func(_ *recipe.Context, reqs *recipe.Requirements) {
		require(reqs)
	})
	r, err := irecipe.FromClass(rf)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func linuxProfile(t *testing.T, opts ...string) *profile.Profile {
	t.Helper()
	p := &profile.Profile{Settings: recipe.Settings{OS: "Linux", Compiler: "gcc", BuildType: "Release", Arch: "x86_64"}}
	if err := p.ApplyOptions(opts...); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInstantiate(t *testing.T) {
	tests := []struct {
		name     string
		settings recipe.Settings
		opts     []string
		want     map[string]string
		requires []recipe.Requirement
	}{
		{
			name:     "defaults",
			settings: recipe.Settings{OS: "Linux", Compiler: "gcc", BuildType: "Release", Arch: "x86_64"},
			want:     map[string]string{"shared": "True", "with_tests": "True"},
			requires: []recipe.Requirement{
				{Name: "sqlite3", Range: "[>=3.8]", Role: recipe.Runtime},
				{Name: "gtest", Range: "[>=1.12]", Role: recipe.Test},
			},
		},
		{
			name:     "static linux keeps fPIC",
			settings: recipe.Settings{OS: "Linux", Compiler: "gcc", BuildType: "Debug", Arch: "armv8"},
			opts:     []string{"shared=False", "with_tests=False"},
			want:     map[string]string{"shared": "False", "fPIC": "True", "with_tests": "False"},
			requires: []recipe.Requirement{
				{Name: "sqlite3", Range: "[>=3.8]", Role: recipe.Runtime},
			},
		},
		{
			name:     "windows static without tests",
			settings: recipe.Settings{OS: "Windows", Compiler: "msvc", BuildType: "Release", Arch: "x86_64"},
			opts:     []string{"shared=False", "with_tests=False", "fPIC=True"},
			want:     map[string]string{"shared": "False", "with_tests": "False"},
			requires: []recipe.Requirement{
				{Name: "sqlite3", Range: "[>=3.8]", Role: recipe.Runtime},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := &profile.Profile{Settings: tt.settings}
			if err := prof.ApplyOptions(tt.opts...); err != nil {
				t.Fatal(err)
			}
			inst, err := Instantiate(context.Background(), loadRecipe(t, "sqlite3pp"), prof, true)
			if err != nil {
				t.Fatalf("Instantiate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, inst.Options.Values()); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.requires, inst.Requires); diff != "" {
				t.Errorf("requires mismatch (-want +got):\n%s", diff)
			}
			if inst.Settings != tt.settings {
				t.Errorf("settings = %+v, want %+v", inst.Settings, tt.settings)
			}
			if inst.Ref.String() != "sqlite3pp/0.5.0" {
				t.Errorf("ref = %s", inst.Ref)
			}
		})
	}
}

func TestInstantiateOverrides(t *testing.T) {
	r := loadRecipe(t, "sqlite3pp")

	_, err := Instantiate(context.Background(), r, linuxProfile(t, "cppstd=17"), true)
	if !errors.Is(err, recipe.ErrUnknownOption) {
		t.Errorf("unknown option: error = %v, want %v", err, recipe.ErrUnknownOption)
	}

	_, err = Instantiate(context.Background(), r, linuxProfile(t, "shared=maybe"), true)
	if !errors.Is(err, recipe.ErrInvalidOptionValue) {
		t.Errorf("invalid value: error = %v, want %v", err, recipe.ErrInvalidOptionValue)
	}

	// wildcard keys only touch packages declaring the option
	inst, err := Instantiate(context.Background(), r, linuxProfile(t, "*:cppstd=17", "*:with_tests=False"), false)
	if err != nil {
		t.Fatal(err)
	}
	if inst.Options.Bool("with_tests") {
		t.Error("wildcard override should apply to declared options")
	}

	// unqualified keys only reach the root
	inst, err = Instantiate(context.Background(), r, linuxProfile(t, "with_tests=False"), false)
	if err != nil {
		t.Fatal(err)
	}
	if !inst.Options.Bool("with_tests") {
		t.Error("unqualified override should not reach a dependency")
	}

	// shared is set after config_options, so configure sees the override
	inst, err = Instantiate(context.Background(), r, linuxProfile(t, "sqlite3pp:shared=False"), false)
	if err != nil {
		t.Fatal(err)
	}
	if !inst.Options.Has("fPIC") {
		t.Error("fPIC should survive a static build on Linux")
	}
}

func TestInstantiateRequirementErrors(t *testing.T) {
	r := newRecipe(t, "broken", func(reqs *recipe.Requirements) {
		reqs.Requires("zlib")
	})
	if _, err := Instantiate(context.Background(), r, nil, true); err == nil {
		t.Error("a malformed reference should fail instantiation")
	}
}

func TestResolve(t *testing.T) {
	inst, err := Instantiate(context.Background(), loadRecipe(t, "sqlite3pp"), linuxProfile(t), true)
	if err != nil {
		t.Fatal(err)
	}
	inst.Requires = []recipe.Requirement{
		{Name: "sqlite3", Range: "[>=3.8]", Role: recipe.Runtime},
		{Name: "gtest", Range: "[>=1.12]", Role: recipe.Test},
	}
	_, err = Resolve(inst, testIndex())
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("Resolve() error = %v, want %v", err, ErrVersionConflict)
	}

	inst.Requires[1].Range = "[>=1.11 <1.12]"
	g, err := Resolve(inst, testIndex())
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, n := range g.Nodes {
		got[n.Ref.String()] = n.Role.String()
	}
	want := map[string]string{
		"sqlite3/3.45.1": "runtime",
		"gtest/1.11.0":   "test",
		"zlib/1.3.1":     "runtime",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
	if len(g.Direct()) != 2 {
		t.Errorf("Direct() = %d nodes, want 2", len(g.Direct()))
	}
	var order []string
	for _, n := range g.Order() {
		order = append(order, n.Ref.Name)
	}
	if diff := cmp.Diff([]string{"zlib", "sqlite3", "gtest"}, order); diff != "" {
		t.Errorf("Order() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"sqlite3/3.45.1", "zlib/1.3.1"}, g.RuntimeRefs()); diff != "" {
		t.Errorf("RuntimeRefs() mismatch (-want +got):\n%s", diff)
	}
	if n, ok := g.Node("zlib"); !ok || n.Direct {
		t.Errorf("zlib should be a transitive node, got %+v", n)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		reqs func(reqs *recipe.Requirements)
		want error
	}{
		{"no matching version", func(reqs *recipe.Requirements) { reqs.Requires("sqlite3/[>=4]") }, versions.ErrNoMatchingVersion},
		{"not in index", func(reqs *recipe.Requirements) { reqs.Requires("boost/[>=1.80]") }, versions.ErrNoMatchingVersion},
		{"unknown pin of indexed package", func(reqs *recipe.Requirements) { reqs.Requires("zlib/1.2.11") }, versions.ErrNoMatchingVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := Instantiate(context.Background(), newRecipe(t, "app", tt.reqs), nil, true)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := Resolve(inst, testIndex()); !errors.Is(err, tt.want) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}

	inst, err := Instantiate(context.Background(), newRecipe(t, "zlib", func(reqs *recipe.Requirements) {
		reqs.Requires("sqlite3/[>=3.8]")
	}), nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(inst, testIndex()); err == nil {
		t.Error("a package reaching itself should fail")
	}
}

func TestResolvePinOutsideIndex(t *testing.T) {
	inst, err := Instantiate(context.Background(), newRecipe(t, "app", func(reqs *recipe.Requirements) {
		reqs.Requires("fmt/10.2.1")
		reqs.TestRequires("zlib/[>=1.2]")
		reqs.Requires("gtest/[<1.12]")
	}), nil, true)
	if err != nil {
		t.Fatal(err)
	}
	g, err := Resolve(inst, testIndex())
	if err != nil {
		t.Fatal(err)
	}
	n, ok := g.Node("fmt")
	if !ok || n.Ref != (module.Version{Name: "fmt", Version: "10.2.1"}) {
		t.Errorf("fmt node = %+v", n)
	}
	if n, _ := g.Node("zlib"); n.Role != recipe.Test {
		t.Errorf("zlib role = %v, want test", n.Role)
	}
}

func TestPackageID(t *testing.T) {
	r := loadRecipe(t, "sqlite3pp")
	idOf := func(p *profile.Profile, g *Graph) string {
		inst, err := Instantiate(context.Background(), r, p, true)
		if err != nil {
			t.Fatal(err)
		}
		return PackageID(inst, g)
	}
	g := &Graph{Nodes: []*Node{{Ref: module.Version{Name: "sqlite3", Version: "3.45.1"}}}}
	base := idOf(linuxProfile(t), g)

	if len(base) != 40 {
		t.Errorf("PackageID length = %d, want 40", len(base))
	}
	if got := idOf(linuxProfile(t), g); got != base {
		t.Error("PackageID should be deterministic")
	}
	if got := idOf(linuxProfile(t, "shared=False"), g); got == base {
		t.Error("options should change the package ID")
	}
	other := linuxProfile(t)
	other.Settings.BuildType = "Debug"
	if got := idOf(other, g); got == base {
		t.Error("settings should change the package ID")
	}
	bumped := &Graph{Nodes: []*Node{{Ref: module.Version{Name: "sqlite3", Version: "3.46.1"}}}}
	if got := idOf(linuxProfile(t), bumped); got == base {
		t.Error("runtime dependencies should change the package ID")
	}
	withTest := &Graph{Nodes: []*Node{
		{Ref: module.Version{Name: "sqlite3", Version: "3.45.1"}},
		{Ref: module.Version{Name: "gtest", Version: "1.14.0"}, Role: recipe.Test},
	}}
	if got := idOf(linuxProfile(t), withTest); got != base {
		t.Error("test dependencies should not change the package ID")
	}
}
