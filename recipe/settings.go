package recipe

import (
	"fmt"
	"strings"
)

// Settings describes the build environment of a recipe instance. It is
// supplied by the profile and never changed by the recipe.
type Settings struct {
	OS              string `toml:"os"`
	Compiler        string `toml:"compiler"`
	CompilerVersion string `toml:"compiler_version,omitempty"`
	BuildType       string `toml:"build_type"`
	Arch            string `toml:"arch"`
}

// Get returns a setting by its recipe name, e.g. "os" or "build_type".
func (s Settings) Get(name string) (string, bool) {
	switch name {
	case "os":
		return s.OS, true
	case "compiler":
		return s.Compiler, true
	case "compiler.version", "compiler_version":
		return s.CompilerVersion, true
	case "build_type":
		return s.BuildType, true
	case "arch":
		return s.Arch, true
	}
	return "", false
}

// Set assigns a setting by its recipe name.
func (s *Settings) Set(name, value string) error {
	switch name {
	case "os":
		s.OS = value
	case "compiler":
		s.Compiler = value
	case "compiler.version", "compiler_version":
		s.CompilerVersion = value
	case "build_type":
		s.BuildType = value
	case "arch":
		s.Arch = value
	default:
		return fmt.Errorf("unknown setting: %s", name)
	}
	return nil
}

// Apply parses "key=value" pairs and assigns them.
func (s *Settings) Apply(pairs ...string) error {
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid setting %q: expected key=value", pair)
		}
		if err := s.Set(strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
			return err
		}
	}
	return nil
}

// Restrict returns a copy holding only the named settings. Settings a recipe
// does not declare do not take part in its package identity.
func (s Settings) Restrict(names []string) Settings {
	var out Settings
	for _, name := range names {
		if v, ok := s.Get(name); ok {
			_ = out.Set(name, v)
			if name == "compiler" {
				out.CompilerVersion = s.CompilerVersion
			}
		}
	}
	return out
}

// String returns the canonical form "arch=..,build_type=..,compiler=..,os=..".
func (s Settings) String() string {
	parts := []string{
		"arch=" + s.Arch,
		"build_type=" + s.BuildType,
		"compiler=" + s.Compiler,
	}
	if s.CompilerVersion != "" {
		parts = append(parts, "compiler.version="+s.CompilerVersion)
	}
	parts = append(parts, "os="+s.OS)
	return strings.Join(parts, ",")
}
