package nakama

import (
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	apperrors "blackjack/internal/errors"
)

// toRuntimeError converts an application error into a Nakama error carrying
// the matching gRPC status code. Errors without a code are reported as
// internal and logged.
func toRuntimeError(logger runtime.Logger, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code == apperrors.CodeUnknown {
		logger.Error("unexpected error: %v", err)
		return runtime.NewError("internal error", int(apperrors.CodeUnknown.GRPCCode()))
	}
	return runtime.NewError(appErr.Message, int(appErr.Code.GRPCCode()))
}
