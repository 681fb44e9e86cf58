package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CPKG_HOME", home)

	c, err := Load(New(), nil)
	require.NoError(t, err)
	assert.Equal(t, home, c.Home)
	assert.Equal(t, "default", c.Profile)
	assert.False(t, c.Verbose)
	assert.Equal(t, filepath.Join(home, "cache.sqlite3"), c.Dirs().CacheDB())
}

func TestLoadFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CPKG_HOME", home)
	t.Setenv("CPKG_VERBOSE", "true")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"),
		[]byte("profile = \"linux-debug\"\nindex = \"/srv/index\"\n"), 0o644))

	c, err := Load(New(), nil)
	require.NoError(t, err)
	assert.Equal(t, "linux-debug", c.Profile)
	assert.Equal(t, "/srv/index", c.Index)
	assert.True(t, c.Verbose)
}

func TestLoadFlagsWin(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CPKG_HOME", "")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"),
		[]byte("profile = \"from-file\"\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyHome, "", "")
	flags.String(KeyProfile, "", "")
	flags.Bool(KeyVerbose, false, "")
	require.NoError(t, flags.Parse([]string{"--home", home, "--profile", "ci"}))

	c, err := Load(New(), flags)
	require.NoError(t, err)
	assert.Equal(t, home, c.Home)
	assert.Equal(t, "ci", c.Profile)
}

func TestLoadBadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CPKG_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte("profile = ["), 0o644))

	_, err := Load(New(), nil)
	assert.Error(t, err)
}
