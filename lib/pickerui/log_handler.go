// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pickerui

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logNoticeMsg delivers a log record to the model for display in the
// status bar.
type logNoticeMsg struct {
	summary string
	level   slog.Level
}

// logNoticeFadeMsg clears a notice. Carries the notice sequence number
// so that an older fade does not clear a newer notice.
type logNoticeFadeMsg struct {
	sequence int
}

// logNoticeFadeDelay is how long a notice stays in the status bar.
const logNoticeFadeDelay = 5 * time.Second

// LogHandler is a slog.Handler that shows records in the picker's
// status bar. Records below the configured level are dropped, as are
// records that arrive before [LogHandler.SetProgram].
//
// Handlers derived with WithAttrs and WithGroup share the program
// pointer, so one SetProgram call reaches all of them.
type LogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
	group   string
}

// NewLogHandler creates a handler delivering records at or above
// level.
func NewLogHandler(level slog.Level) *LogHandler {
	return &LogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the program that receives notices. Safe to call from
// any goroutine.
func (handler *LogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

// Enabled implements slog.Handler.
func (handler *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle implements slog.Handler. The notice reads
// "message (key=value, ...)".
func (handler *LogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	program.Send(logNoticeMsg{summary: handler.summarize(record), level: record.Level})
	return nil
}

func (handler *LogHandler) summarize(record slog.Record) string {
	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, attr.Key+"="+attr.Value.String())
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, handler.qualify(attr.Key)+"="+attr.Value.String())
		return true
	})

	if len(parts) == 0 {
		return record.Message
	}
	var builder strings.Builder
	builder.WriteString(record.Message)
	builder.WriteString(" (")
	builder.WriteString(strings.Join(parts, ", "))
	builder.WriteString(")")
	return builder.String()
}

func (handler *LogHandler) qualify(attrKey string) string {
	if handler.group == "" {
		return attrKey
	}
	return handler.group + "." + attrKey
}

// WithAttrs implements slog.Handler.
func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	for _, attr := range attrs {
		attr.Key = handler.qualify(attr.Key)
		derived.attrs = append(derived.attrs, attr)
	}
	return &derived
}

// WithGroup implements slog.Handler. Group names prefix attribute keys
// with dots.
func (handler *LogHandler) WithGroup(name string) slog.Handler {
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	if handler.group == "" {
		derived.group = name
	} else {
		derived.group = handler.group + "." + name
	}
	return &derived
}
