package build

import (
	"errors"
	"fmt"
)

// ErrMissingPackage is returned when a dependency has no package in the
// cache and cannot be built.
var ErrMissingPackage = errors.New("missing package")

// StageError reports the lifecycle stage a build failed in.
type StageError struct {
	Ref   string
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Ref, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Lifecycle stages run by the builder.
const (
	StageExport      = "export"
	StageLayout      = "layout"
	StageGenerate    = "generate"
	StageBuild       = "build"
	StagePackage     = "package"
	StagePackageInfo = "package_info"
)
