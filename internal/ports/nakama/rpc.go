package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"blackjack/internal/app"
	"blackjack/internal/domain"
	apperrors "blackjack/internal/errors"
)

type rpcFunc = func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

// rpcHandlers binds the blackjack RPCs to one service instance.
type rpcHandlers struct {
	svc    *app.Service
	tokens *app.SeatTokens
	pub    *publisher
}

type matchIDRequest struct {
	ID string `json:"id"`
}

type addPlayerRequest struct {
	MatchID string `json:"matchId"`
}

type placeBetRequest struct {
	MatchID   string `json:"matchId"`
	PlayerID  string `json:"playerId"`
	Amount    int64  `json:"amount"`
	SeatToken string `json:"seatToken"`
}

type actRequest struct {
	MatchID   string `json:"matchId"`
	PlayerID  string `json:"playerId"`
	Move      string `json:"move"`
	SeatToken string `json:"seatToken"`
}

type standRequest struct {
	MatchID   string `json:"matchId"`
	PlayerID  string `json:"playerId"`
	SeatToken string `json:"seatToken"`
}

type rematchRequest struct {
	MatchID string `json:"matchId"`
}

type listMatchesResponse struct {
	Matches []matchDTO `json:"matches"`
}

type getMatchResponse struct {
	Match *matchDTO `json:"match"`
}

type deleteMatchResponse struct {
	Deleted bool   `json:"deleted"`
	Result  string `json:"result"`
}

// routes returns every RPC keyed by id.
func (h *rpcHandlers) routes() map[string]rpcFunc {
	return map[string]rpcFunc{
		RpcListMatches: h.listMatches,
		RpcGetMatch:    h.getMatch,
		RpcCreateMatch: h.createMatch,
		RpcDeleteMatch: h.deleteMatch,
		RpcAddPlayer:   h.addPlayer,
		RpcPlaceBet:    h.placeBet,
		RpcAct:         h.act,
		RpcStand:       h.stand,
		RpcRematch:     h.rematch,
	}
}

func (h *rpcHandlers) listMatches(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	matches := h.svc.ListMatches(ctx)
	resp := listMatchesResponse{Matches: make([]matchDTO, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, h.matchDTO(m))
	}
	return encodeResponse(logger, resp)
}

func (h *rpcHandlers) getMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req matchIDRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", toRuntimeError(logger, err)
	}
	if err := requireField("id", req.ID); err != nil {
		return "", toRuntimeError(logger, err)
	}

	resp := getMatchResponse{}
	if m, ok := h.svc.GetMatch(ctx, req.ID); ok {
		dto := h.matchDTO(m)
		resp.Match = &dto
	}
	return encodeResponse(logger, resp)
}

func (h *rpcHandlers) createMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	m, events := h.svc.CreateMatch(ctx)
	h.pub.Publish(ctx, logger, &m, events)
	logger.Info("RpcCreateMatch [User:%s]: Created match %s", callerID(ctx), m.ID)
	return encodeResponse(logger, h.matchDTO(m))
}

func (h *rpcHandlers) deleteMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req matchIDRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", toRuntimeError(logger, err)
	}
	if err := requireField("id", req.ID); err != nil {
		return "", toRuntimeError(logger, err)
	}

	deleted, events := h.svc.DeleteMatch(ctx, req.ID)
	h.pub.Publish(ctx, logger, nil, events)

	resp := deleteMatchResponse{Deleted: deleted, Result: "not found"}
	if deleted {
		resp.Result = "deleted"
		logger.Info("RpcDeleteMatch [User:%s]: Deleted match %s", callerID(ctx), req.ID)
	}
	return encodeResponse(logger, resp)
}

func (h *rpcHandlers) addPlayer(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req addPlayerRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", toRuntimeError(logger, err)
	}
	if err := requireField("matchId", req.MatchID); err != nil {
		return "", toRuntimeError(logger, err)
	}

	player, events, err := h.svc.AddPlayer(ctx, req.MatchID, callerID(ctx))
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	h.publishLatest(ctx, logger, req.MatchID, events)

	dto := playerToDTO(player)
	if h.tokens.Enabled() {
		m, ok := h.svc.GetMatch(ctx, req.MatchID)
		if !ok {
			return "", toRuntimeError(logger, domain.ErrMatchNotFound)
		}
		token, err := h.tokens.Issue(player.ID, m.ChainID)
		if err != nil {
			return "", toRuntimeError(logger, fmt.Errorf("issue seat token: %w", err))
		}
		dto.SeatToken = token
	}
	return encodeResponse(logger, dto)
}

func (h *rpcHandlers) placeBet(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req placeBetRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", toRuntimeError(logger, err)
	}
	if err := h.checkSeat(ctx, req.MatchID, req.PlayerID, req.SeatToken); err != nil {
		return "", toRuntimeError(logger, err)
	}

	player, events, err := h.svc.PlaceBet(ctx, req.MatchID, req.PlayerID, req.Amount)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	h.publishLatest(ctx, logger, req.MatchID, events)
	return encodeResponse(logger, playerToDTO(player))
}

func (h *rpcHandlers) act(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req actRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", toRuntimeError(logger, err)
	}
	if err := h.checkSeat(ctx, req.MatchID, req.PlayerID, req.SeatToken); err != nil {
		return "", toRuntimeError(logger, err)
	}
	move, err := domain.ParseMove(req.Move)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}

	m, events, err := h.svc.Act(ctx, req.MatchID, req.PlayerID, move)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	h.pub.Publish(ctx, logger, &m, events)
	return encodeResponse(logger, h.matchDTO(m))
}

func (h *rpcHandlers) stand(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req standRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", toRuntimeError(logger, err)
	}
	if err := h.checkSeat(ctx, req.MatchID, req.PlayerID, req.SeatToken); err != nil {
		return "", toRuntimeError(logger, err)
	}

	m, events, err := h.svc.Stand(ctx, req.MatchID, req.PlayerID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	h.pub.Publish(ctx, logger, &m, events)
	return encodeResponse(logger, h.matchDTO(m))
}

func (h *rpcHandlers) rematch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req rematchRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", toRuntimeError(logger, err)
	}
	if err := requireField("matchId", req.MatchID); err != nil {
		return "", toRuntimeError(logger, err)
	}

	m, events, err := h.svc.Rematch(ctx, req.MatchID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	h.pub.Publish(ctx, logger, &m, events)
	logger.Info("RpcRematch [User:%s]: Match %s continues as %s (round %d)", callerID(ctx), req.MatchID, m.ID, m.Round)
	return encodeResponse(logger, h.matchDTO(m))
}

// checkSeat validates the ids of a seat-scoped request and, when seat tokens
// are enabled, that the caller holds the seat.
func (h *rpcHandlers) checkSeat(ctx context.Context, matchID, playerID, token string) error {
	if err := requireField("matchId", matchID); err != nil {
		return err
	}
	if err := requireField("playerId", playerID); err != nil {
		return err
	}
	if !h.tokens.Enabled() {
		return nil
	}
	m, ok := h.svc.GetMatch(ctx, matchID)
	if !ok {
		return domain.ErrMatchNotFound
	}
	return h.tokens.Verify(token, playerID, m.ChainID)
}

// publishLatest publishes events for operations that return a player rather than a match.
func (h *rpcHandlers) publishLatest(ctx context.Context, logger runtime.Logger, matchID string, events []app.Event) {
	var snapshot *domain.Match
	if m, ok := h.svc.GetMatch(ctx, matchID); ok {
		snapshot = &m
	}
	h.pub.Publish(ctx, logger, snapshot, events)
}

func (h *rpcHandlers) matchDTO(m domain.Match) matchDTO {
	return matchToDTO(m, h.pub.feeds.Lookup(m.ID))
}

func decodePayload(payload string, v interface{}) error {
	if strings.TrimSpace(payload) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "payload is required")
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "payload is not valid JSON for this RPC", err)
	}
	return nil
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, name+" is required", map[string]string{"field": name})
	}
	return nil
}

func encodeResponse(logger runtime.Logger, v interface{}) (string, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return "", toRuntimeError(logger, fmt.Errorf("marshal response: %w", err))
	}
	return string(bytes), nil
}

// callerID returns the authenticated Nakama user, or "" for server-to-server calls.
func callerID(ctx context.Context) string {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return userID
}
