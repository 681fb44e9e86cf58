// Package versions reads version index files. An index file lists the
// released versions of one package and the dependencies of each release:
//
//	{
//	  "name": "sqlite3",
//	  "releases": {
//	    "3.45.1": [{"name": "zlib", "range": "[>=1.2.11]"}],
//	    "3.44.2": []
//	  }
//	}
package versions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/fandjelo/cpkg/pkgs/mod/vrange"
)

// ErrNoMatchingVersion is returned when no release satisfies a range.
var ErrNoMatchingVersion = errors.New("no matching version")

type Dependency struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

type Versions struct {
	Name     string                  `json:"name"`
	Releases map[string][]Dependency `json:"releases"`
}

// Parse decodes an index file. When data is nil the file is read from disk.
func Parse(file string, data []byte) (*Versions, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var v Versions

	if err := json.NewDecoder(reader).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if v.Name == "" {
		return nil, fmt.Errorf("failed to parse %s: missing name", file)
	}

	return &v, nil
}

// List returns the released versions in ascending order.
func (v *Versions) List() []string {
	out := make([]string, 0, len(v.Releases))
	for ver := range v.Releases {
		out = append(out, ver)
	}
	sort.Slice(out, func(i, j int) bool {
		return vrange.Compare(out[i], out[j]) < 0
	})
	return out
}

// Resolve returns the highest release satisfying rng.
func (v *Versions) Resolve(rng string) (string, error) {
	r, err := vrange.Parse(rng)
	if err != nil {
		return "", err
	}
	best, ok := r.Best(v.List())
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNoMatchingVersion, v.Name, rng)
	}
	return best, nil
}

// Index is a set of index files keyed by package name.
type Index map[string]*Versions

// LoadFS reads every "*.json" file at the root of fsys.
func LoadFS(fsys fs.FS) (Index, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	idx := Index{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		v, err := Parse(path.Base(e.Name()), data)
		if err != nil {
			return nil, err
		}
		idx[v.Name] = v
	}
	return idx, nil
}

// Merge adds the entries of other, replacing packages with the same name.
func (idx Index) Merge(other Index) {
	for name, v := range other {
		idx[name] = v
	}
}

// Resolve returns the highest version of name satisfying rng.
func (idx Index) Resolve(name, rng string) (string, error) {
	v, ok := idx[name]
	if !ok {
		return "", fmt.Errorf("%w: %s is not in the index", ErrNoMatchingVersion, name)
	}
	return v.Resolve(rng)
}

// Deps returns the dependencies of one release.
func (idx Index) Deps(name, version string) []Dependency {
	v, ok := idx[name]
	if !ok {
		return nil
	}
	return v.Releases[version]
}
