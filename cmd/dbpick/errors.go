// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	exitUsage     = 2
	exitCancelled = 130
)

// exitError carries a process exit code alongside the error. main
// exits with ExitCode for any error that has one.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// ExitCode returns the process exit code for this error.
func (e *exitError) ExitCode() int { return e.code }

// usageError reports bad flags, config or environment.
func usageError(format string, args ...any) *exitError {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

// errCancelled is returned when the user quits the picker without
// accepting. Nothing is printed.
var errCancelled = &exitError{code: exitCancelled, err: errors.New("selection cancelled")}
