// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/dbpick/lib/testutil"
)

func receive(t *testing.T, watcher *Watcher) Event {
	t.Helper()
	return testutil.RequireReceive(t, watcher.Events(), 5*time.Second, "waiting for catalog event")
}

func TestWatchReloadsOnWrite(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "catalog.json")
	if err := os.WriteFile(path, []byte(`[{"name":"DB1"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	watcher, err := Watch(path, WatchOptions{Debounce: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer watcher.Close()

	// Writes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(directory, "other.json"), []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`[{"name":"DB1"},{"name":"DB2"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	if event := receive(t, watcher); event.Kind != EventRequest {
		t.Fatalf("first event = %v, want request", event.Kind)
	}
	event := receive(t, watcher)
	if event.Kind != EventLoaded {
		t.Fatalf("second event = %v (%v), want loaded", event.Kind, event.Err)
	}
	if len(event.Resources) != 2 || event.Resources[1].Name != "DB2" {
		t.Errorf("resources = %+v", event.Resources)
	}
}

func TestWatchReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}

	watcher, err := Watch(path, WatchOptions{Debounce: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer watcher.Close()

	if err := os.WriteFile(path, []byte(`[{"name":`), 0644); err != nil {
		t.Fatal(err)
	}

	if event := receive(t, watcher); event.Kind != EventRequest {
		t.Fatalf("first event = %v, want request", event.Kind)
	}
	event := receive(t, watcher)
	if event.Kind != EventError || event.Err == nil {
		t.Errorf("second event = %v (%v), want error", event.Kind, event.Err)
	}
}

func TestWatchRejectsUnknownExtension(t *testing.T) {
	if _, err := Watch(filepath.Join(t.TempDir(), "catalog.toml"), WatchOptions{}); err == nil {
		t.Error("expected error for .toml catalog")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	watcher, err := Watch(path, WatchOptions{})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	watcher.Close()
	watcher.Close()

	testutil.RequireClosed(t, watcher.Events(), 5*time.Second, "events channel after Close")
}

func TestInotifyMatchesFile(t *testing.T) {
	buffer := inotifyEvent("other.json")
	buffer = append(buffer, inotifyEvent("catalog.json")...)
	if !inotifyMatchesFile(buffer, "catalog.json") {
		t.Error("expected match for catalog.json")
	}
	if inotifyMatchesFile(buffer, "catalog.yaml") {
		t.Error("unexpected match for catalog.yaml")
	}
	if inotifyMatchesFile(buffer[:10], "other.json") {
		t.Error("truncated buffer should not match")
	}
}

// inotifyEvent encodes a single inotify_event record with name padded
// to a multiple of 16 bytes, as the kernel does.
func inotifyEvent(name string) []byte {
	nameLength := (len(name)/16 + 1) * 16
	record := make([]byte, unix.SizeofInotifyEvent+nameLength)
	binary.NativeEndian.PutUint32(record[4:8], unix.IN_CLOSE_WRITE)
	binary.NativeEndian.PutUint32(record[12:16], uint32(nameLength))
	copy(record[unix.SizeofInotifyEvent:], name)
	return record
}
