// Package host detects the machine cpkg runs on and decides whether binaries
// built for a given set of settings can run on it.
package host

import (
	"runtime"

	"github.com/fandjelo/cpkg/recipe"
)

// Info is the host platform in recipe setting names.
type Info struct {
	OS   string
	Arch string
}

// Detect returns the host platform. The machine architecture reported by the
// kernel takes precedence over the one cpkg was compiled for, so an amd64
// binary running under emulation on arm64 still detects armv8.
func Detect() Info {
	arch := machineArch()
	if arch == "" {
		arch = ArchOf(runtime.GOARCH)
	}
	return Info{OS: OSOf(runtime.GOOS), Arch: arch}
}

// OSOf maps a GOOS value to the recipe "os" setting.
func OSOf(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Macos"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "android":
		return "Android"
	case "ios":
		return "iOS"
	}
	return goos
}

// ArchOf maps a GOARCH value or a uname machine name to the recipe "arch"
// setting.
func ArchOf(arch string) string {
	switch arch {
	case "amd64", "x86_64":
		return "x86_64"
	case "386", "i386", "i686":
		return "x86"
	case "arm64", "aarch64", "arm64e":
		return "armv8"
	case "arm", "armv7l":
		return "armv7"
	case "ppc64le":
		return "ppc64le"
	case "s390x":
		return "s390x"
	case "riscv64":
		return "riscv64"
	}
	return arch
}

// compatible lists the target architectures each host architecture runs
// natively.
var compatible = map[string][]string{
	"x86_64": {"x86_64", "x86"},
	"armv8":  {"armv8"},
	"armv7":  {"armv7"},
}

// CrossBuilding reports whether the settings target a platform different
// from the host.
func (h Info) CrossBuilding(s recipe.Settings) bool {
	if s.OS != "" && s.OS != h.OS {
		return true
	}
	if s.Arch == "" || s.Arch == h.Arch {
		return false
	}
	for _, a := range compatible[h.Arch] {
		if a == s.Arch {
			// 32-bit x86 binaries run on x86_64 Linux and Windows hosts only.
			return h.OS == "Macos"
		}
	}
	return true
}

// CanRun reports whether binaries built for s can be executed on the host.
// A non-nil override forces the answer.
func (h Info) CanRun(s recipe.Settings, override *bool) bool {
	if override != nil {
		return *override
	}
	return !h.CrossBuilding(s)
}
