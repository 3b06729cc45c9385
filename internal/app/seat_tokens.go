package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"

	apperrors "blackjack/internal/errors"
)

const seatTokenIssuer = "blackjack"

var errSeatToken = apperrors.New(apperrors.CodeUnauthenticated, "seat token is missing or invalid")

// SeatTokens issues and checks HS256 tokens that prove ownership of a seat.
// A token names the player and the rematch chain of the match they joined,
// so it stays valid for every rematch of that match and nowhere else.
type SeatTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSeatTokens returns nil when secret is empty; a nil *SeatTokens issues
// nothing and accepts every request.
func NewSeatTokens(secret string, ttl time.Duration) *SeatTokens {
	if secret == "" {
		return nil
	}
	return &SeatTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Enabled reports whether seat ownership is enforced.
func (s *SeatTokens) Enabled() bool {
	return s != nil
}

// Issue signs a token for playerID seated in the match chain chainID.
func (s *SeatTokens) Issue(playerID, chainID string) (string, error) {
	if s == nil {
		return "", nil
	}
	if playerID == "" || chainID == "" {
		return "", fmt.Errorf("player id and chain id are required")
	}
	now := s.now()
	claims := jwt.MapClaims{
		"iss": seatTokenIssuer,
		"sub": playerID,
		"chn": chainID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks that token was issued by this server for playerID in the
// match chain chainID and has not expired.
func (s *SeatTokens) Verify(token, playerID, chainID string) error {
	if s == nil {
		return nil
	}
	if token == "" {
		return errSeatToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "seat token is missing or invalid", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !claims.VerifyIssuer(seatTokenIssuer, true) {
		return errSeatToken
	}
	if sub, _ := claims["sub"].(string); sub != playerID {
		return apperrors.WithMetadata(apperrors.CodeUnauthenticated, "seat token belongs to another player", map[string]string{
			"playerId": playerID,
		})
	}
	if chain, _ := claims["chn"].(string); chain != chainID {
		return apperrors.WithMetadata(apperrors.CodeUnauthenticated, "seat token belongs to another match", map[string]string{
			"playerId": playerID,
		})
	}
	return nil
}
