package logger

import (
	"context"
	"time"

	ctxutil "github.com/tajoco/contacts/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder accumulates fields for a single log entry, pulling the
// request-scoped fields out of the context before the user-supplied ones.
type ContextLogBuilder struct {
	ctx       context.Context
	level     zapcore.Level
	fields    []zap.Field
	message   string
	shouldLog bool
}

func newContextBuilder(ctx context.Context, level zapcore.Level, message string) *ContextLogBuilder {
	clb := &ContextLogBuilder{
		ctx:       ctx,
		level:     level,
		message:   message,
		fields:    make([]zap.Field, 0, 12),
		shouldLog: GetLogger().Core().Enabled(level),
	}
	if clb.shouldLog {
		clb.extractContextFields()
	}
	return clb
}

// extractContextFields pulls the common tracking fields out of the context
func (clb *ContextLogBuilder) extractContextFields() {
	if clb.ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(clb.ctx); requestID != "" {
		clb.fields = append(clb.fields, zap.String("request_id", requestID))
	}

	if clientIP := ctxutil.GetClientIP(clb.ctx); clientIP != "" {
		clb.fields = append(clb.fields, zap.String("client_ip", clientIP))
	}

	if userID, ok := ctxutil.GetUserID(clb.ctx); ok {
		clb.fields = append(clb.fields, zap.Uint("user_id", userID))
	}

	if module := ctxutil.GetModule(clb.ctx); module != "" {
		clb.fields = append(clb.fields, zap.String("module", module))
	}

	if function := ctxutil.GetFunction(clb.ctx); function != "" {
		clb.fields = append(clb.fields, zap.String("function", function))
	}
}

// Field methods
func (clb *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int64(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Uint(key string, value uint) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Uint(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Bool(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Duration("duration", value))
	}
	return clb
}

func (clb *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if clb.shouldLog && err != nil {
		clb.fields = append(clb.fields, zap.Error(err))
	}
	return clb
}

func (clb *ContextLogBuilder) Any(key string, value interface{}) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Any(key, value))
	}
	return clb
}

// Log writes the accumulated entry
func (clb *ContextLogBuilder) Log() {
	if !clb.shouldLog {
		return
	}

	l := GetLogger().WithOptions(zap.AddCallerSkip(1))
	switch clb.level {
	case zapcore.DebugLevel:
		l.Debug(clb.message, clb.fields...)
	case zapcore.InfoLevel:
		l.Info(clb.message, clb.fields...)
	case zapcore.WarnLevel:
		l.Warn(clb.message, clb.fields...)
	case zapcore.ErrorLevel:
		l.Error(clb.message, clb.fields...)
	}
}

// Entry points
func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newContextBuilder(ctx, zapcore.DebugLevel, message)
}

func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newContextBuilder(ctx, zapcore.InfoLevel, message)
}

func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newContextBuilder(ctx, zapcore.WarnLevel, message)
}

func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newContextBuilder(ctx, zapcore.ErrorLevel, message)
}
