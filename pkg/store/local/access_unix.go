//go:build unix

package local

import "golang.org/x/sys/unix"

// checkAccess verifies read, write and search permission on dir.
func checkAccess(dir string) error {
	return unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK)
}
