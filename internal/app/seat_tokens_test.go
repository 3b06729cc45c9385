package app

import (
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"

	apperrors "blackjack/internal/errors"
)

func TestSeatTokensRoundTrip(t *testing.T) {
	tokens := NewSeatTokens("test-secret", time.Hour)
	token, err := tokens.Issue("player-1", "chain-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if err := tokens.Verify(token, "player-1", "chain-1"); err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	parsed, _ := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "player-1" || claims["chn"] != "chain-1" || claims["iss"] != seatTokenIssuer {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestSeatTokensRejections(t *testing.T) {
	tokens := NewSeatTokens("test-secret", time.Hour)
	valid, _ := tokens.Issue("player-1", "chain-1")

	expiredIssuer := NewSeatTokens("test-secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredIssuer.Issue("player-1", "chain-1")

	foreign, _ := NewSeatTokens("other-secret", time.Hour).Issue("player-1", "chain-1")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "player-1", "iss": seatTokenIssuer})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "player-1", "iss": seatTokenIssuer})
	unchained, _ := bare.SignedString([]byte("test-secret"))

	tests := []struct {
		name     string
		token    string
		playerID string
		chainID  string
	}{
		{name: "missing", token: "", playerID: "player-1", chainID: "chain-1"},
		{name: "garbage", token: "not-a-token", playerID: "player-1", chainID: "chain-1"},
		{name: "other player", token: valid, playerID: "player-2", chainID: "chain-1"},
		{name: "other chain", token: valid, playerID: "player-1", chainID: "chain-2"},
		{name: "expired", token: expired, playerID: "player-1", chainID: "chain-1"},
		{name: "wrong secret", token: foreign, playerID: "player-1", chainID: "chain-1"},
		{name: "unsigned", token: unsigned, playerID: "player-1", chainID: "chain-1"},
		{name: "no chain claim", token: unchained, playerID: "player-1", chainID: "chain-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tokens.Verify(tt.token, tt.playerID, tt.chainID)
			if got := apperrors.CodeOf(err); got != apperrors.CodeUnauthenticated {
				t.Fatalf("code = %s (%v), want UNAUTHENTICATED", got, err)
			}
		})
	}
}

func TestSeatTokensDisabledWithoutSecret(t *testing.T) {
	tokens := NewSeatTokens("", time.Hour)
	if tokens.Enabled() {
		t.Fatal("tokens should be disabled without a secret")
	}
	token, err := tokens.Issue("player-1", "chain-1")
	if err != nil || token != "" {
		t.Fatalf("Issue = %q, %v; want empty", token, err)
	}
	if err := tokens.Verify("", "player-1", "chain-1"); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
}
