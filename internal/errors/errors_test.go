package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestCodeGRPCCode(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeNotFound, codes.NotFound},
		{CodeInvalidBet, codes.InvalidArgument},
		{CodeInvalidMove, codes.InvalidArgument},
		{CodeInvalidArgument, codes.InvalidArgument},
		{CodeInvalidState, codes.FailedPrecondition},
		{CodeUnauthenticated, codes.Unauthenticated},
		{CodeUnknown, codes.Internal},
		{Code("SOMETHING_ELSE"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.GRPCCode(); got != tt.want {
				t.Fatalf("GRPCCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeInvalidBet, "bet exceeds balance")

	if !stderrors.Is(err, New(CodeInvalidBet, "")) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestCodeOfWalksChain(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := fmt.Errorf("act: %w", Wrap(CodeInvalidState, "match finished", cause))

	if got := CodeOf(wrapped); got != CodeInvalidState {
		t.Fatalf("CodeOf() = %s, want %s", got, CodeInvalidState)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
	if got := CodeOf(cause); got != CodeUnknown {
		t.Fatalf("CodeOf(plain) = %s, want %s", got, CodeUnknown)
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeNotFound, "player not found", map[string]string{"player_id": "p1"})
	if err.Metadata["player_id"] != "p1" {
		t.Fatalf("metadata = %v, want player_id=p1", err.Metadata)
	}
	if err.Error() != "player not found" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
