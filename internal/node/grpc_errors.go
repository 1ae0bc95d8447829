package node

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"quorumfs/internal/errs"
)

// grpcError maps a tagged *errs.Error onto a gRPC status so its Kind
// survives the wire in a way every rpcapi caller can recover with
// status.FromError, per spec.md §7's error table. A nil err maps to
// nil.
func grpcError(err error) error {
	if err == nil {
		return nil
	}

	var tagged *errs.Error
	if !errors.As(err, &tagged) {
		return status.Error(codes.Unknown, err.Error())
	}

	switch tagged.Kind {
	case errs.KindUnknownFile:
		return status.Error(codes.NotFound, tagged.Error())
	case errs.KindNotCoordinator:
		return status.Error(codes.FailedPrecondition, tagged.Error())
	case errs.KindQuorumUnavailable:
		return status.Error(codes.Unavailable, tagged.Error())
	case errs.KindTransport:
		return status.Error(codes.Unavailable, tagged.Error())
	case errs.KindConfig:
		return status.Error(codes.FailedPrecondition, tagged.Error())
	case errs.KindClientUsage:
		return status.Error(codes.InvalidArgument, tagged.Error())
	default:
		return status.Error(codes.Unknown, tagged.Error())
	}
}
