//go:build unix

package host

import (
	"golang.org/x/sys/unix"
)

func machineArch() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return ArchOf(unix.ByteSliceToString(uts.Machine[:]))
}
