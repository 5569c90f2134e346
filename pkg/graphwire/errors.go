package graphwire

import (
	"errors"
	"fmt"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/graphstore"
)

var (
	// ErrTransport is returned by Stream.Do when the underlying connection
	// fails (write error, closed connection, context cancellation) rather
	// than the operation itself failing logically.
	ErrTransport = errors.New("graphwire: transport error")
	// ErrDecode is returned when a response does not carry the variant the
	// caller expected, or fails to unmarshal at all.
	ErrDecode = errors.New("graphwire: decode error")
)

// errorCode maps a pkg/graphstore or pkg/gmodel sentinel to its wire code
// name. gmodel's own value-domain sentinels (ErrEmptyType,
// ErrWeightOutOfRange) are matched directly since they reach this package's
// dispatch before ever passing through a graphstore call. Unknown errors
// map to "internal" so a bug in a new error path never crashes the encoder.
func errorCode(err error) string {
	switch {
	case errors.Is(err, graphstore.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, graphstore.ErrVertexNotFound):
		return "vertex_not_found"
	case errors.Is(err, graphstore.ErrMetadataNotFound):
		return "metadata_not_found"
	case errors.Is(err, graphstore.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, graphstore.ErrOutOfRange),
		errors.Is(err, gmodel.ErrEmptyType),
		errors.Is(err, gmodel.ErrWeightOutOfRange):
		return "out_of_range"
	case errors.Is(err, graphstore.ErrNotImplemented):
		return "not_implemented"
	default:
		return "internal"
	}
}

// ErrorFromEnvelope maps a wire ErrorEnvelope back to a pkg/graphstore
// sentinel, so a client can errors.Is against the same sentinels the
// embedded store would have returned.
func ErrorFromEnvelope(env *ErrorEnvelope) error {
	switch env.Code {
	case "account_not_found":
		return fmt.Errorf("%s: %w", env.Message, graphstore.ErrAccountNotFound)
	case "vertex_not_found":
		return fmt.Errorf("%s: %w", env.Message, graphstore.ErrVertexNotFound)
	case "metadata_not_found":
		return fmt.Errorf("%s: %w", env.Message, graphstore.ErrMetadataNotFound)
	case "unauthorized":
		return fmt.Errorf("%s: %w", env.Message, graphstore.ErrUnauthorized)
	case "out_of_range":
		return fmt.Errorf("%s: %w", env.Message, graphstore.ErrOutOfRange)
	case "not_implemented":
		return fmt.Errorf("%s: %w", env.Message, graphstore.ErrNotImplemented)
	default:
		return errors.New("graphwire: " + env.Message)
	}
}

func newErrorResponse(err error) *TransactionResponse {
	return &TransactionResponse{Error: &ErrorEnvelope{Code: errorCode(err), Message: err.Error()}}
}
