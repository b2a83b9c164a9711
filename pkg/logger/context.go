package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type logContextKey struct{}

// Field names shared by the request log line and the polling sessions.
const (
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldSuccess   = "success"

	FieldResource   = "resource"
	FieldSessionID  = "session_id"
	FieldNodeID     = "node_id"
	FieldStatus     = "status"
	FieldInterval   = "interval"
	FieldVisible    = "visible"
	FieldFetchCount = "fetch_count"
	FieldView       = "view"
)

// LogContext collects fields over the life of one request so they can be
// written on a single line when it finishes.
type LogContext struct {
	mu     sync.Mutex
	fields []zap.Field
}

func NewLogContext() *LogContext {
	return &LogContext{fields: make([]zap.Field, 0, 8)}
}

func (lc *LogContext) AddFields(fields ...zap.Field) {
	if lc == nil {
		return
	}
	lc.mu.Lock()
	lc.fields = append(lc.fields, fields...)
	lc.mu.Unlock()
}

// Fields returns a copy of the collected fields.
func (lc *LogContext) Fields() []zap.Field {
	if lc == nil {
		return nil
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return append([]zap.Field(nil), lc.fields...)
}

func WithLogContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey{}, lc)
}

func GetLogContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey{}).(*LogContext)
	return lc
}

// AddToContext appends fields to the request's log line. It is a no-op
// outside a request.
func AddToContext(ctx context.Context, fields ...zap.Field) {
	GetLogContext(ctx).AddFields(fields...)
}
