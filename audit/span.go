// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Span represents a catalog resource being loaded.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Kind     ResourceKind
	Path     string
	Locale   string
	Domain   string
	Size     int64
	Messages int
	Error    error
}

// ResourceKind describes the format of a loaded catalog resource.
type ResourceKind string

// Constants for resource kinds.
const (
	KindTS   ResourceKind = "ts"
	KindPO   ResourceKind = "po"
	KindYAML ResourceKind = "yaml"
)

// Begin starts timing the span and opens a runtime/trace task for it.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "load."+string(span.Kind))
	trace.Log(ctx, "path", span.Path)

	return ctx
}

// End stops timing the span. Calling End more than once has no effect.
func (span *Span) End() {
	// only end once
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		span.task = nil
	}
}

// Duration returns the time between Begin and End.
func (span *Span) Duration() time.Duration {
	return span.duration
}

func (span Span) Log() {
	event := log.Debug()
	if span.Error != nil {
		event = log.Error()
	}

	event.Str("sys", "load")
	event.Str("kind", string(span.Kind))
	event.Str("path", span.Path)
	event.Str("locale", span.Locale)
	event.Str("domain", span.Domain)
	event.Int("messages", span.Messages)
	event.Str("len", humanizeSize(span.Size))
	event.Dur("dur", span.duration)

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int64) string {
	if x < bytesInKB {
		return strconv.FormatInt(x, 10)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
