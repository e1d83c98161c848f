// Copyright (c) 2026 Khaled Abbas
//
// This source code is licensed under the Business Source License 1.1.
//
// Change Date: 4 years after the first public release of this version.
// Change License: MIT
//
// On the Change Date, this version of the code automatically converts
// to the MIT License. Prior to that date, use is subject to the
// Additional Use Grant. See the LICENSE file for details.

package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "go.opentelemetry.io/otel/eisenhower/server"

var (
	mu     sync.RWMutex
	logger = otelslog.NewLogger(instrumentationName)
)

// UseWriter replaces the OTel bridge with a plain text logger, used when
// telemetry export is switched off.
func UseWriter(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Log(content string, level slog.Level) {
	Logger().Log(context.Background(), level, content)
}

// Error logs err under msg with any extra attributes. The error text stays
// server-side.
func Error(ctx context.Context, msg string, err error, attrs ...any) {
	Logger().ErrorContext(ctx, msg, append([]any{slog.Any("error", err)}, attrs...)...)
}

func Info(ctx context.Context, msg string, attrs ...any) {
	Logger().InfoContext(ctx, msg, attrs...)
}

func InitializeInt64Counter(name, description, unit string) (metric.Int64Counter, error) {
	counter, err := otel.Meter(instrumentationName).Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit(unit))
	if err != nil {
		Log("Failed to create metric: "+err.Error(), slog.LevelError)
		return nil, err
	}
	return counter, nil
}

// StartSpan opens a span named name. The returned func ends it, recording
// *errp when non-nil.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(errp *error)) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
	}
}
