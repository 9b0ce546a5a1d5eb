package rpc

import (
	"blog-content-service/internal/logging"
	"blog-content-service/internal/metrics"
	"blog-content-service/internal/middlewares"
	"connectrpc.com/connect"
	"context"
	"errors"
	"github.com/samborkent/uuidv7"
	"time"
)

const CorrelationIdHeader = "X-Correlation-Id"

// mutating lists the procedures that require an admin token.
var mutating = map[string]struct{}{
	BlogServiceCreateProcedure: {},
	BlogServiceUpdateProcedure: {},
	BlogServiceDeleteProcedure: {},
}

// NewLoggingInterceptor stores a correlation id in the context of every call and logs its outcome.
// The id is taken from the X-Correlation-Id request header or generated, and is echoed back to the caller.
func NewLoggingInterceptor(l logging.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}

			id := req.Header().Get(CorrelationIdHeader)
			if len(id) == 0 {
				id = uuidv7.New().String()
			}
			ctx = logging.WithCorrelationId(ctx, id)
			keyVal := logging.GetLogTypeRpc(ctx, req.Spec().Procedure)

			start := time.Now()
			res, err := next(ctx, req)
			if err != nil {
				l.LogWarnf(keyVal, "%s failed after %v: %v", req.Spec().Procedure, time.Since(start), err)

				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					connectErr.Meta().Set(CorrelationIdHeader, id)
				}
				return nil, err
			}

			l.LogDebugf(keyVal, "%s handled in %v", req.Spec().Procedure, time.Since(start))
			res.Header().Set(CorrelationIdHeader, id)
			return res, nil
		}
	}
}

// NewMetricsInterceptor counts calls by procedure and code and observes their duration.
func NewMetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}

			start := time.Now()
			res, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			metrics.RecordRpc(req.Spec().Procedure, code, time.Since(start).Seconds())

			return res, err
		}
	}
}

// NewAuthInterceptor requires a bearer token granting authRoles on Create, Update and Delete.
// Query stays public.
func NewAuthInterceptor(l logging.Logger, authRoles ...string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if _, ok := mutating[req.Spec().Procedure]; !ok || req.Spec().IsClient {
				return next(ctx, req)
			}

			_, err := middlewares.Authorize(req.Header().Get("Authorization"), authRoles...)
			switch {
			case errors.Is(err, middlewares.ErrMissingRole):
				l.LogWarnf(logging.GetLogTypeRpc(ctx, req.Spec().Procedure), "rejected call: %v", err)
				return nil, connect.NewError(connect.CodePermissionDenied, errors.New("permission denied"))
			case err != nil:
				l.LogWarnf(logging.GetLogTypeRpc(ctx, req.Spec().Procedure), "rejected call: %v", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("a valid bearer token is required"))
			}

			return next(ctx, req)
		}
	}
}

// NewClientAuthInterceptor attaches token as bearer token to every outgoing call.
func NewClientAuthInterceptor(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// HandlerOptions returns the interceptor chain of the served BlogService:
// correlation id and logging outermost, then metrics, then admin authorization.
func HandlerOptions(l logging.Logger) []connect.HandlerOption {
	return []connect.HandlerOption{
		connect.WithInterceptors(
			NewLoggingInterceptor(l),
			NewMetricsInterceptor(),
			NewAuthInterceptor(l, middlewares.RoleAdmin),
		),
	}
}
