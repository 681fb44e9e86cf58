//go:build !unix

package host

func machineArch() string {
	return ""
}
