// Package profile reads and writes build profiles. A profile fixes the
// settings of a build and may override recipe options:
//
//	[settings]
//	os = "Linux"
//	compiler = "gcc"
//	build_type = "Release"
//	arch = "x86_64"
//
//	[options]
//	shared = false                  # the recipe being built
//	"sqlite3:shared" = true         # a named dependency
//	"*:fPIC" = true                 # every package
//
//	[conf]
//	can_run = false
package profile

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/fandjelo/cpkg/internal/host"
	"github.com/fandjelo/cpkg/recipe"
)

// Conf holds tool behaviour knobs.
type Conf struct {
	// CanRun forces whether built binaries are considered runnable.
	CanRun *bool `toml:"can_run,omitempty"`
	// Jobs is the build parallelism; 0 lets the build tool decide.
	Jobs int `toml:"jobs,omitempty"`
}

// Profile is a set of settings, option overrides and conf values.
type Profile struct {
	Settings recipe.Settings `toml:"settings"`
	Options  map[string]any  `toml:"options,omitempty"`
	Conf     Conf            `toml:"conf"`
}

// Parse decodes a TOML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

// Load reads a TOML profile from disk.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes the profile as TOML.
func (p *Profile) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Detect returns a profile describing the host with a Release build type.
func Detect() *Profile {
	h := host.Detect()
	return &Profile{
		Settings: recipe.Settings{
			OS:        h.OS,
			Arch:      h.Arch,
			Compiler:  detectCompiler(runtime.GOOS, exec.LookPath),
			BuildType: "Release",
		},
	}
}

func detectCompiler(goos string, lookPath func(string) (string, error)) string {
	switch goos {
	case "windows":
		return "msvc"
	case "darwin":
		return "apple-clang"
	}
	if _, err := lookPath("gcc"); err == nil {
		return "gcc"
	}
	if _, err := lookPath("clang"); err == nil {
		return "clang"
	}
	return "gcc"
}

// SetOption records an option override. key is "opt" for the recipe being
// built, "pkg:opt" for a named package or "*:opt" for all packages.
func (p *Profile) SetOption(key string, value any) {
	if p.Options == nil {
		p.Options = map[string]any{}
	}
	p.Options[key] = value
}

// ApplyOptions parses "key=value" option overrides.
func (p *Profile) ApplyOptions(pairs ...string) error {
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return fmt.Errorf("invalid option %q: expected key=value", pair)
		}
		p.SetOption(strings.TrimSpace(k), strings.TrimSpace(v))
	}
	return nil
}

// Override is one option override that applies to a package.
type Override struct {
	Name  string
	Value string
	// Wildcard is set when the value comes from a "*:" key.
	Wildcard bool
}

// Overrides returns the option overrides that apply to the package name,
// sorted by option name. Root marks the package being built, which also
// receives unqualified keys. Package-specific keys win over "*:" ones.
func (p *Profile) Overrides(name string, root bool) []Override {
	byName := map[string]Override{}
	rank := map[string]int{}
	set := func(o Override, r int) {
		if cur, ok := rank[o.Name]; ok && cur > r {
			return
		}
		byName[o.Name], rank[o.Name] = o, r
	}
	for k, v := range p.Options {
		pkg, opt, qualified := strings.Cut(k, ":")
		switch {
		case !qualified:
			if root {
				set(Override{Name: k, Value: formatValue(v)}, 1)
			}
		case pkg == "*":
			set(Override{Name: opt, Value: formatValue(v), Wildcard: true}, 0)
		case pkg == name:
			set(Override{Name: opt, Value: formatValue(v)}, 2)
		}
	}
	out := make([]Override, 0, len(byName))
	for _, o := range byName {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// OptionsFor returns the overrides that apply to the package name as a map.
func (p *Profile) OptionsFor(name string, root bool) map[string]string {
	out := map[string]string{}
	for _, o := range p.Overrides(name, root) {
		out[o.Name] = o.Value
	}
	return out
}

func formatValue(v any) string {
	switch v := v.(type) {
	case bool:
		return recipe.FormatBool(v)
	case string:
		return v
	}
	return fmt.Sprint(v)
}
