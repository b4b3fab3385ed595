//go:build !profiler
// +build !profiler

// Package profiling exposes a cross-package trigger that delays profile
// capture until the panel does real work. Builds without the profiler
// tag compile the no-op versions below.
package profiling

import (
	"context"
	"time"
)

// Trigger does nothing unless the binary is built with the profiler tag.
func Trigger(string) {}

// Wait never blocks unless the binary is built with the profiler tag.
func Wait(context.Context, time.Duration) bool { return true }
