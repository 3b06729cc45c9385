package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const feedTickRate = 1

// FeedState holds the runtime state of one spectator feed.
type FeedState struct {
	MatchID   string                      `json:"match_id"` // Blackjack match being streamed
	Status    string                      `json:"status"`   // Last status seen, mirrored in the label
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // Map UserId -> Presence
	Snapshot  []byte                      `json:"-"` // Last match JSON, replayed to late joiners
}

// NewFeedMatch is the factory function registered with Nakama.
func NewFeedMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &feedHandler{}, nil
}

// feedHandler is a read-only authoritative match: clients join to watch, the
// server pushes table updates through MatchSignal.
type feedHandler struct{}

func (fh *feedHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	matchID, _ := params[feedParamMatchID].(string)
	if matchID == "" {
		logger.Error("MatchInit: feed created without %s param", feedParamMatchID)
		return nil, 0, ""
	}

	state := &FeedState{
		MatchID:   matchID,
		Status:    "IN_PROGRESS",
		Presences: make(map[string]runtime.Presence),
	}

	label, err := feedLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	logger.Debug("MatchInit: feed for match %s ready.", matchID)
	return state, feedTickRate, label
}

func (fh *feedHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	if _, ok := state.(*FeedState); !ok {
		return state, false, "state not found"
	}
	return state, true, ""
}

func (fh *feedHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	feed, ok := state.(*FeedState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		feed.Presences[p.GetUserId()] = p
	}

	// Late joiners get the current table straight away.
	if len(feed.Snapshot) > 0 {
		if err := dispatcher.BroadcastMessage(OpMatchSnapshot, feed.Snapshot, presences, nil, true); err != nil {
			logger.Error("MatchJoin: Failed to send snapshot: %v", err)
		}
	}
	return feed
}

func (fh *feedHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	feed, ok := state.(*FeedState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	for _, p := range presences {
		delete(feed.Presences, p.GetUserId())
	}
	return feed
}

func (fh *feedHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	feed, ok := state.(*FeedState)
	if !ok {
		return state
	}
	feed.Tick = tick

	// Table actions go through RPCs; the socket is receive-only.
	for _, msg := range messages {
		logger.Warn("MatchLoop: Ignoring opcode %d from %s on read-only feed.", msg.GetOpCode(), msg.GetUserId())
	}
	return feed
}

func (fh *feedHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: feed terminating, grace %d seconds", graceSeconds)
	return state
}

// MatchSignal receives table updates from RPC handlers. A close signal ends the feed.
func (fh *feedHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	feed, ok := state.(*FeedState)
	if !ok {
		return state, "state not found"
	}

	var sig feedSignal
	if err := json.Unmarshal([]byte(data), &sig); err != nil {
		logger.Warn("MatchSignal: Bad signal payload: %v", err)
		return feed, "bad signal"
	}

	switch sig.Kind {
	case signalClose:
		logger.Info("MatchSignal: match %s deleted, closing feed.", feed.MatchID)
		return nil, "closed"
	case signalSnapshot:
		if sig.Match == nil {
			return feed, "snapshot without match"
		}
		fh.broadcastSnapshot(feed, sig, dispatcher, logger)
		return feed, "ok"
	default:
		logger.Warn("MatchSignal: Unknown signal kind %q", sig.Kind)
		return feed, "unknown signal"
	}
}

func (fh *feedHandler) broadcastSnapshot(feed *FeedState, sig feedSignal, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	bytes, err := json.Marshal(sig.Match)
	if err != nil {
		logger.Error("broadcastSnapshot: Failed to marshal match: %v", err)
		return
	}
	feed.Snapshot = bytes
	if err := dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, nil, nil, true); err != nil {
		logger.Error("broadcastSnapshot: Failed to broadcast: %v", err)
	}

	if sig.Settlement != nil {
		settled, err := json.Marshal(sig.Settlement)
		if err != nil {
			logger.Error("broadcastSnapshot: Failed to marshal settlement: %v", err)
		} else if err := dispatcher.BroadcastMessage(OpMatchSettled, settled, nil, nil, true); err != nil {
			logger.Error("broadcastSnapshot: Failed to broadcast settlement: %v", err)
		}
	}

	if sig.Match.Status != feed.Status {
		feed.Status = sig.Match.Status
		fh.updateLabel(feed, dispatcher, logger)
	}
}

func (fh *feedHandler) updateLabel(feed *FeedState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := feedLabel(feed)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

// feedLabel renders the searchable label, e.g. +label.matchId:<id>.
func feedLabel(feed *FeedState) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":    labelGame,
		"matchId": feed.MatchID,
		"status":  feed.Status,
	})
	if err != nil {
		return "", err
	}
	bytes, err := protojson.Marshal(label)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
