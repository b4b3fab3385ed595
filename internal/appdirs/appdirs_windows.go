//go:build windows

package appdirs

import "errors"

// The panel runtime is unix-only for now, so the on-disk layout has no
// Windows mapping. Accessors fail loudly instead of guessing at
// %LOCALAPPDATA% semantics.
var errUnsupported = errors.New("appdirs: windows is not supported")

func RuntimeDir() (string, error) { return "", errUnsupported }

func RuntimeDirPath() (string, error) { return "", errUnsupported }

func DataDir() (string, error) { return "", errUnsupported }

func DataDirPath() (string, error) { return "", errUnsupported }
