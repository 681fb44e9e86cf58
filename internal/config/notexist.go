package config

import (
	"errors"
	"io/fs"
)

// viper reports a missing explicit config file as a plain fs error.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
