// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// RequestSpan represents an HTTP request served by the lookup service.
type RequestSpan struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	RequestID  string
	Method     string
	URL        string
	Locale     string
	StatusCode int
	Size       int64
	Error      error
}

// ServerTimingName is the metric name reported in the Server-Timing header.
func (span *RequestSpan) ServerTimingName() string {
	return "app"
}

// Begin starts timing the span. When ctx carries a Server-Timing collector,
// the span is also reported as a metric.
func (span *RequestSpan) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "http.request")
	if servertimingContext := servertiming.FromContext(ctx); servertimingContext != nil {
		span.metric = servertimingContext.NewMetric(span.ServerTimingName())
		span.metric.Desc = span.Method + " " + span.URL
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops timing the span. Calling End more than once has no effect.
func (span *RequestSpan) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		if span.metric != nil {
			span.metric.Duration = span.duration
		}

		span.task = nil
	}
}

func (span RequestSpan) Log() {
	event := log.Debug()
	if span.Error != nil || span.StatusCode >= 500 {
		event = log.Error()
	}

	event.Str("sys", "http")
	event.Str("request_id", span.RequestID)
	event.Str("method", span.Method)
	event.Str("url", span.URL)
	event.Str("locale", span.Locale)
	event.Int("status_code", span.StatusCode)
	event.Str("len", humanizeSize(span.Size))
	event.Dur("dur", span.duration)

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}
