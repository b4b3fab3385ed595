//go:build windows

package logging

import "os"

// POSIX permission tightening does not apply here.
func tightenLogDir(string, os.FileInfo, bool) error {
	return nil
}
