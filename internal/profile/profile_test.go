package profile

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fandjelo/cpkg/recipe"
)

const linuxProfile = `
[settings]
os = "Linux"
compiler = "gcc"
compiler_version = "13"
build_type = "Release"
arch = "x86_64"

[options]
shared = false
"sqlite3:shared" = true
"*:fPIC" = true
"sqlite3pp:fPIC" = false

[conf]
can_run = false
jobs = 8
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(linuxProfile))
	require.NoError(t, err)

	assert.Equal(t, recipe.Settings{
		OS:              "Linux",
		Compiler:        "gcc",
		CompilerVersion: "13",
		BuildType:       "Release",
		Arch:            "x86_64",
	}, p.Settings)
	require.NotNil(t, p.Conf.CanRun)
	assert.False(t, *p.Conf.CanRun)
	assert.Equal(t, 8, p.Conf.Jobs)

	_, err = Parse([]byte("[settings\nos="))
	assert.Error(t, err)
}

func TestOptionsFor(t *testing.T) {
	p, err := Parse([]byte(linuxProfile))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"shared": "False", "fPIC": "False"}, p.OptionsFor("sqlite3pp", true))
	assert.Equal(t, map[string]string{"shared": "True", "fPIC": "True"}, p.OptionsFor("sqlite3", false))
	assert.Equal(t, map[string]string{"fPIC": "True"}, p.OptionsFor("gtest", false))
}

func TestOverrides(t *testing.T) {
	p := &Profile{}
	require.NoError(t, p.ApplyOptions("*:shared=True", "with_tests=False", "sqlite3pp:with_tests=True", "*:fPIC=False", "sqlite3pp:fPIC=True"))

	assert.Equal(t, []Override{
		{Name: "fPIC", Value: "True"},
		{Name: "shared", Value: "True", Wildcard: true},
		{Name: "with_tests", Value: "True"},
	}, p.Overrides("sqlite3pp", true))
	assert.Equal(t, []Override{
		{Name: "fPIC", Value: "False", Wildcard: true},
		{Name: "shared", Value: "True", Wildcard: true},
	}, p.Overrides("gtest", false))
}

func TestApplyOptions(t *testing.T) {
	p := &Profile{}
	require.NoError(t, p.ApplyOptions("with_tests=False", "sqlite3:shared=True"))
	assert.Equal(t, map[string]string{"with_tests": "False"}, p.OptionsFor("sqlite3pp", true))
	assert.Equal(t, map[string]string{"shared": "True"}, p.OptionsFor("sqlite3", false))

	assert.Error(t, p.ApplyOptions("shared"))
	assert.Error(t, p.ApplyOptions("=True"))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles", "default.toml")
	canRun := true
	p := &Profile{
		Settings: recipe.Settings{OS: "Windows", Compiler: "msvc", BuildType: "Debug", Arch: "x86_64"},
		Conf:     Conf{CanRun: &canRun},
	}
	p.SetOption("shared", true)
	require.NoError(t, p.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.Settings, got.Settings)
	assert.Equal(t, map[string]string{"shared": "True"}, got.OptionsFor("any", true))
	require.NotNil(t, got.Conf.CanRun)
	assert.True(t, *got.Conf.CanRun)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	p := Detect()
	assert.NotEmpty(t, p.Settings.OS)
	assert.NotEmpty(t, p.Settings.Arch)
	assert.NotEmpty(t, p.Settings.Compiler)
	assert.Equal(t, "Release", p.Settings.BuildType)
}

func TestDetectCompiler(t *testing.T) {
	found := func(names ...string) func(string) (string, error) {
		return func(name string) (string, error) {
			for _, n := range names {
				if n == name {
					return "/usr/bin/" + n, nil
				}
			}
			return "", errors.New("not found")
		}
	}
	assert.Equal(t, "msvc", detectCompiler("windows", found()))
	assert.Equal(t, "apple-clang", detectCompiler("darwin", found("clang")))
	assert.Equal(t, "gcc", detectCompiler("linux", found("gcc", "clang")))
	assert.Equal(t, "clang", detectCompiler("linux", found("clang")))
	assert.Equal(t, "gcc", detectCompiler("linux", found()))
}
