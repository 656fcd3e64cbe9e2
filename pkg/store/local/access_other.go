//go:build !unix

package local

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// checkAccess verifies dir can be listed and written by creating and
// removing a probe file.
func checkAccess(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	_, err = f.Readdirnames(1)
	_ = f.Close()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	probe := filepath.Join(dir, ".health-"+uuid.NewString())
	pf, err := os.OpenFile(probe, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	_ = pf.Close()
	return os.Remove(probe)
}
