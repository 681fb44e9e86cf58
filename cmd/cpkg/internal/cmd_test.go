package internal

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fandjelo/cpkg/internal/build"
	"github.com/fandjelo/cpkg/internal/cache"
	"github.com/fandjelo/cpkg/internal/env"
)

var linux = []string{"-s", "os=Linux", "-s", "arch=x86_64", "-s", "compiler=gcc", "-s", "build_type=Release"}

// execute runs the root command with args against a fresh home folder
// unless one is given, and returns what it printed.
func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	inspectSettings, inspectOptions = nil, nil
	createSettings, createOptions = nil, nil
	createSource, createOutput, createBuildMissing = "", "", false
	profileForce = false
	require.NoError(t, rootCmd.PersistentFlags().Set("profile", "default"))
	require.NoError(t, rootCmd.PersistentFlags().Set("verbose", "false"))

	if home == "" {
		home = t.TempDir()
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--home", home}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	out, err := execute(t, "", append([]string{"inspect"}, linux...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite3pp/0.5.0")
	assert.Contains(t, out, "with_tests")
	assert.Contains(t, out, "3.46.1")
	assert.Contains(t, out, "gtest")
	assert.Contains(t, out, "1.15.2")
	assert.NotContains(t, out, "fPIC", "shared builds drop fPIC")
}

func TestInspectStaticWithoutTests(t *testing.T) {
	args := append([]string{"inspect", "-o", "shared=False", "-o", "with_tests=False"}, linux...)
	out, err := execute(t, "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "fPIC")
	assert.Contains(t, out, "sqlite3")
	assert.NotContains(t, out, "gtest")
}

func TestInspectWindowsHasNoFPIC(t *testing.T) {
	out, err := execute(t, "", "inspect", "database", "-o", "shared=False",
		"-s", "os=Windows", "-s", "compiler=msvc", "-s", "arch=x86_64")
	require.NoError(t, err)
	assert.Contains(t, out, "database/0.5.0")
	assert.NotContains(t, out, "fPIC")
}

func TestInspectErrors(t *testing.T) {
	_, err := execute(t, "", append([]string{"inspect", "-o", "lto=True"}, linux...)...)
	assert.Error(t, err)

	_, err = execute(t, "", "inspect", "nosuchrecipe")
	assert.Error(t, err)

	_, err = execute(t, "", "inspect", "-s", "color=blue")
	assert.Error(t, err)

	_, err = execute(t, "", "inspect", "-p", "missing")
	assert.Error(t, err)
}

func TestProfileDetectAndShow(t *testing.T) {
	home := t.TempDir()
	out, err := execute(t, home, "profile", "detect")
	require.NoError(t, err)
	assert.Contains(t, out, "build_type")
	assert.Contains(t, out, "Release")
	assert.FileExists(t, env.At(home).Profile("default"))

	_, err = execute(t, home, "profile", "detect")
	assert.Error(t, err, "an existing profile is kept without --force")

	_, err = execute(t, home, "profile", "detect", "--force")
	require.NoError(t, err)

	out, err = execute(t, home, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[settings]")
}

func TestListAndRemove(t *testing.T) {
	home := t.TempDir()
	dirs := env.At(home)

	out, err := execute(t, home, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No packages")

	pkgDir := filepath.Join(dirs.PackagesDir(), "sqlite3-0123456789abcdef", "p")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	db, err := cache.Open(dirs.CacheDB())
	require.NoError(t, err)
	require.NoError(t, db.Put(context.Background(), &cache.Package{
		Name:      "sqlite3",
		Version:   "3.46.1",
		PackageID: "0123456789abcdef0123",
		Settings:  "arch=x86_64,os=Linux",
		Options:   "shared=False",
		Dir:       pkgDir,
	}))
	require.NoError(t, db.Close())

	out, err = execute(t, home, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite3/3.46.1")
	assert.Contains(t, out, "0123456789ab")

	out, err = execute(t, home, "remove", "sqlite3/3.46.1")
	require.NoError(t, err)
	assert.Contains(t, out, "removed sqlite3/3.46.1")
	assert.NoDirExists(t, filepath.Dir(pkgDir))

	_, err = execute(t, home, "remove", "sqlite3/3.46.1")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	_, err = execute(t, home, "remove", "sqlite3")
	assert.Error(t, err)
}

func TestCreateMissingDependency(t *testing.T) {
	_, err := execute(t, "", append([]string{"create", "--source", t.TempDir()}, linux...)...)
	assert.ErrorIs(t, err, build.ErrMissingPackage)
}

func TestOutputResult(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "include"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "lib", "pkgconfig"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "include", "sqlite3pp.h"), []byte("#pragma once\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "lib", "pkgconfig", "sqlite3pp.pc"), []byte("Name: sqlite3pp\n"), 0o644))

	t.Run("dir", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out")
		require.NoError(t, outputResult(src, dest))
		assert.FileExists(t, filepath.Join(dest, "include", "sqlite3pp.h"))
		assert.FileExists(t, filepath.Join(dest, "lib", "pkgconfig", "sqlite3pp.pc"))
	})

	t.Run("zip", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.zip")
		require.NoError(t, outputResult(src, dest))

		zr, err := zip.OpenReader(dest)
		require.NoError(t, err)
		defer zr.Close()
		var names []string
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		sort.Strings(names)
		assert.Equal(t, []string{"include/sqlite3pp.h", "lib/pkgconfig/sqlite3pp.pc"}, names)
	})
}

func TestZipDirReportsWriteErrors(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "sqlite3pp.pc"), []byte("Name: sqlite3pp\n"), 0o644))

	// small entries stay buffered until the archive is closed
	err := zipDir(src, "/dev/full")
	assert.Error(t, err)
}
