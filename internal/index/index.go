// Package index provides the version index packages are resolved against:
// the index shipped with cpkg, overlaid with the files of the user's index
// folder.
package index

import (
	"embed"
	"errors"
	"io/fs"
	"os"

	"github.com/fandjelo/cpkg/pkgs/mod/versions"
)

//go:embed data/*.json
var data embed.FS

// Default returns the index shipped with cpkg.
func Default() (versions.Index, error) {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		return nil, err
	}
	return versions.LoadFS(sub)
}

// Load returns the default index overlaid with the *.json files in dir. A
// missing dir is not an error.
func Load(dir string) (versions.Index, error) {
	idx, err := Default()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return idx, nil
	}
	local, err := versions.LoadFS(os.DirFS(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}
		return nil, err
	}
	idx.Merge(local)
	return idx, nil
}
