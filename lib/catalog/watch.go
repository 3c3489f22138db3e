// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/binary"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/dbpick/lib/resource"
)

// EventKind identifies a watcher event.
type EventKind int

const (
	// EventRequest reports that the catalog changed on disk and is
	// about to be re-read.
	EventRequest EventKind = iota

	// EventLoaded carries the re-read resources.
	EventLoaded

	// EventError reports that the re-read failed. The previous
	// resources remain current.
	EventError
)

// String returns the event kind for logs.
func (kind EventKind) String() string {
	switch kind {
	case EventRequest:
		return "request"
	case EventLoaded:
		return "loaded"
	default:
		return "error"
	}
}

// Event is one watcher notification.
type Event struct {
	Kind      EventKind
	Resources []resource.Resource
	Err       error
}

// DefaultDebounce is how long the watcher waits after a change before
// re-reading, so that bursts of writes produce one reload.
const DefaultDebounce = 50 * time.Millisecond

// WatchOptions configures [Watch].
type WatchOptions struct {
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// Logger receives watcher diagnostics. Nil discards.
	Logger *slog.Logger
}

// Watcher delivers catalog change events. Create with [Watch]; read
// from [Watcher.Events]; stop with [Watcher.Close].
type Watcher struct {
	events    chan Event
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Watch starts an inotify watcher on the catalog at path. It does not
// read the file; callers load the initial contents with [ReadFile].
//
// The parent directory is watched for IN_CLOSE_WRITE and IN_MOVED_TO
// on the catalog's file name. Watching the directory rather than the
// file catches atomic renames, which replace the inode.
func Watch(path string, options WatchOptions) (*Watcher, error) {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatFromPath(absolutePath); err != nil {
		return nil, err
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	debounce := options.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, err
	}

	directory := filepath.Dir(absolutePath)
	if _, err := unix.InotifyAddWatch(fd, directory, unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, err
	}

	watcher := &Watcher{
		events: make(chan Event, 4),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	loop := watchLoop{
		fd:       fd,
		path:     absolutePath,
		filename: filepath.Base(absolutePath),
		debounce: debounce,
		logger:   logger.With("catalog", absolutePath),
		watcher:  watcher,
	}
	go loop.run()

	return watcher, nil
}

// Events returns the channel events are delivered on. It is closed
// after [Watcher.Close] or when the watcher fails.
func (watcher *Watcher) Events() <-chan Event {
	return watcher.events
}

// Close stops the watcher and waits for its goroutine to exit. Safe to
// call more than once.
func (watcher *Watcher) Close() {
	watcher.closeOnce.Do(func() {
		close(watcher.stop)
	})
	<-watcher.done
}

type watchLoop struct {
	fd       int
	path     string
	filename string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *Watcher
}

// run polls the inotify fd with a 100ms timeout so the stop channel is
// checked regularly. After a matching event it waits for the debounce
// period, drains queued events and re-reads the catalog.
func (loop watchLoop) run() {
	defer close(loop.watcher.done)
	defer close(loop.watcher.events)
	defer unix.Close(loop.fd)

	buffer := make([]byte, 4096)

	for {
		select {
		case <-loop.watcher.stop:
			return
		default:
		}

		pollDescriptors := []unix.PollFd{{Fd: int32(loop.fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollDescriptors, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			loop.logger.Warn("catalog watcher stopped", "error", err)
			return
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(loop.fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			loop.logger.Warn("catalog watcher stopped", "error", err)
			return
		}

		if !inotifyMatchesFile(buffer[:bytesRead], loop.filename) {
			continue
		}

		if !loop.send(Event{Kind: EventRequest}) {
			return
		}

		select {
		case <-loop.watcher.stop:
			return
		case <-time.After(loop.debounce):
		}
		drainInotifyEvents(loop.fd, buffer)

		resources, err := ReadFile(loop.path)
		if err != nil {
			loop.logger.Warn("catalog reload failed", "error", err)
			if !loop.send(Event{Kind: EventError, Err: err}) {
				return
			}
			continue
		}
		loop.logger.Debug("catalog reloaded", "resources", len(resources))
		if !loop.send(Event{Kind: EventLoaded, Resources: resources}) {
			return
		}
	}
}

// send delivers an event unless the watcher is stopping. Reports
// whether the loop should continue.
func (loop watchLoop) send(event Event) bool {
	select {
	case loop.watcher.events <- event:
		return true
	case <-loop.watcher.stop:
		return false
	}
}

// inotifyMatchesFile checks whether any inotify event in the buffer
// names the target file. Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded to alignment
//	};
func inotifyMatchesFile(buffer []byte, targetFilename string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		if nameLength > 0 {
			name := nullTerminated(buffer[offset+unix.SizeofInotifyEvent : offset+eventSize])
			if name == targetFilename {
				return true
			}
		}
		offset += eventSize
	}
	return false
}

func nullTerminated(data []byte) string {
	for index, b := range data {
		if b == 0 {
			return string(data[:index])
		}
	}
	return string(data)
}

// drainInotifyEvents discards pending events so that a burst of writes
// results in a single re-read.
func drainInotifyEvents(fd int, buffer []byte) {
	for {
		if _, err := unix.Read(fd, buffer); err != nil {
			return
		}
	}
}
