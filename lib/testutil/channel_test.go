// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"
)

// recorder captures Fatalf calls instead of stopping the test.
type recorder struct {
	failed  bool
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}
}

func TestRequireReceiveClosed(t *testing.T) {
	ch := make(chan int)
	close(ch)

	var r recorder
	func() {
		defer func() { recover() }()
		RequireReceive(&r, ch, time.Second, "waiting for %s", "reload")
	}()
	if !r.failed {
		t.Fatal("RequireReceive on a closed channel did not fail")
	}
	if want := "channel closed without sending a value: waiting for reload"; r.message != want {
		t.Errorf("message = %q, want %q", r.message, want)
	}
}

func TestRequireClosed(t *testing.T) {
	ch := make(chan string, 2)
	ch <- "pending"
	close(ch)
	RequireClosed(t, ch, time.Second, "events")

	var r recorder
	RequireClosed(&r, make(chan string), time.Millisecond)
	if !r.failed {
		t.Error("RequireClosed on an open channel did not fail")
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "catalog.yaml", "- name: DB1\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "- name: DB1\n" {
		t.Errorf("content = %q", data)
	}
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		args []any
		want string
	}{
		{nil, "(no message)"},
		{[]any{"plain"}, "plain"},
		{[]any{42}, "42"},
		{[]any{"%s=%d", "count", 3}, "count=3"},
	}
	for _, test := range tests {
		if got := formatMessage(test.args); got != test.want {
			t.Errorf("formatMessage(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
