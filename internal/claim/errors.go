package claim

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
)

// JSON-RPC error codes providers use for rate limiting
const (
	RPC_CODE_LIMIT_EXCEEDED    = -32005
	RPC_CODE_TOO_MANY_REQUESTS = -32029
)

var rateLimitMarkers = []string{"rate limit", "too many requests", "429", "exceeded"}

// IsRateLimitError reports whether err signals rate limiting.
// A call deadline is a plain failure even though its message says "exceeded".
func IsRateLimitError(err error) bool {
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, domain.ErrRateLimited) || adapter.IsStatus(err, http.StatusTooManyRequests) {
		return true
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case RPC_CODE_LIMIT_EXCEEDED, RPC_CODE_TOO_MANY_REQUESTS:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
