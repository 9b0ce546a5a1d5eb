package rpc

import (
	"blog-content-service/internal/database"
	"blog-content-service/internal/logging"
	"blog-content-service/internal/metrics"
	"connectrpc.com/connect"
	"context"
	"errors"
	"fmt"
)

// connectError maps a failure of the content store to its connect code.
// Storage failures reach the client only as a correlation id; the full error is logged.
func (s *Service) connectError(ctx context.Context, procedure string, err error) error {
	var storageErr *database.StorageError

	switch {
	case errors.As(err, &storageErr):
		metrics.RecordStorageError(storageErr.Op)
		s.LogErrorf(logging.GetLogTypeRpc(ctx, procedure), "%v", err)
		return internalError(ctx)
	case errors.Is(err, database.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, database.ErrInvalidRequest),
		errors.Is(err, ErrUnsetPayload),
		errors.Is(err, ErrAmbiguousPayload):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		s.LogErrorf(logging.GetLogTypeRpc(ctx, procedure), "unexpected error: %v", err)
		return internalError(ctx)
	}
}

func internalError(ctx context.Context) *connect.Error {
	return connect.NewError(
		connect.CodeInternal,
		fmt.Errorf("internal server error (correlation id %q)", logging.CorrelationId(ctx)),
	)
}
