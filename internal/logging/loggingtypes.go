package logging

import (
	"context"
)

const correlationIdKey = "correlationId"

type correlationIdCtxKey struct{}

// GetLogType creates a slice which can be used as keyVal argument of the Logger methods.
// It takes up to 3 arguments: subType, contextId1 and correlationId.
// Empty trailing values are left out, so GetLogType("rpc") yields only the subType pair.
func GetLogType(logType ...string) []any {
	keys := []string{"subType", "contextId1", correlationIdKey}

	var temp []any
	for i, value := range logType {
		if i >= len(keys) {
			break
		}
		if len(value) == 0 {
			continue
		}
		temp = append(temp, keys[i], value)
	}
	return temp
}

func GetLogTypeInitialization() []any {
	return GetLogType("initialization")
}

// GetLogTypeRpc tags a log entry with the called procedure and the correlation id
// stored in ctx, if any.
func GetLogTypeRpc(ctx context.Context, procedure string) []any {
	return GetLogType("rpc", procedure, CorrelationId(ctx))
}

// WithCorrelationId returns a copy of ctx carrying id.
func WithCorrelationId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIdCtxKey{}, id)
}

// CorrelationId returns the id stored by WithCorrelationId or "".
func CorrelationId(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIdCtxKey{}).(string)
	return id
}
