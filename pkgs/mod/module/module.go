// Package module defines the module.Version type along with support code.
package module

import (
	"fmt"
	"path/filepath"
	"strings"
)

// A Version is a resolved package reference: a package name and one
// concrete version.
type Version struct {
	Name    string // Package name, e.g. "sqlite3"
	Version string // Version string, e.g. "3.45.1"
}

// String returns the reference form "name/version".
func (v Version) String() string {
	return v.Name + "/" + v.Version
}

// ParseRef parses a "name/version" reference.
func ParseRef(ref string) (Version, error) {
	name, ver, ok := strings.Cut(ref, "/")
	if !ok || name == "" || ver == "" || strings.Contains(ver, "/") {
		return Version{}, fmt.Errorf("invalid reference %q: expected name/version", ref)
	}
	return Version{Name: name, Version: ver}, nil
}

// EscapePath returns the given package reference as a relative file system
// path. It fails if the reference cannot be used as a local path.
func EscapePath(ref string) (escaped string, err error) {
	return filepath.Localize(ref)
}
