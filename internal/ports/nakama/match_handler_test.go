package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type broadcast struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcasts []broadcast
	labels     []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcasts = append(md.broadcasts, broadcast{opCode: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

// fakePresence overrides only the user id; other Presence methods are unused.
type fakePresence struct {
	runtime.Presence
	userID string
}

func (p fakePresence) GetUserId() string { return p.userID }

type fakeMatchData struct {
	runtime.MatchData
	userID string
	opCode int64
}

func (d fakeMatchData) GetUserId() string { return d.userID }
func (d fakeMatchData) GetOpCode() int64  { return d.opCode }

func initFeed(t *testing.T, matchID string) (*feedHandler, *FeedState, string) {
	t.Helper()
	fh := &feedHandler{}
	state, tickRate, label := fh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{feedParamMatchID: matchID})
	if tickRate != feedTickRate {
		t.Fatalf("tick rate = %d, want %d", tickRate, feedTickRate)
	}
	feed, ok := state.(*FeedState)
	if !ok {
		t.Fatalf("state type = %T, want *FeedState", state)
	}
	return fh, feed, label
}

func decodeLabel(t *testing.T, label string) map[string]interface{} {
	t.Helper()
	var s structpb.Struct
	if err := protojson.Unmarshal([]byte(label), &s); err != nil {
		t.Fatalf("label %q is not a protojson struct: %v", label, err)
	}
	return s.AsMap()
}

func snapshotSignal(t *testing.T, status string, settled bool) string {
	t.Helper()
	sig := feedSignal{
		Kind: signalSnapshot,
		Match: &matchDTO{
			ID:         "m1",
			Players:    []playerDTO{{ID: "p1", Hand: []int{10, 9}, Balance: 50, CurrentBet: 50, Active: status != "FINISHED"}},
			DealerHand: []int{},
			Status:     status,
			Round:      1,
		},
	}
	if settled {
		sig.Settlement = &settlementDTO{MatchID: "m1", DealerTotal: 18, Outcomes: []outcomeDTO{{PlayerID: "p1", Total: 19, Bet: 50, Result: "WIN", Payout: 100, Net: 50}}}
	}
	data, err := json.Marshal(sig)
	if err != nil {
		t.Fatalf("marshal signal: %v", err)
	}
	return string(data)
}

func TestFeedMatchInitLabel(t *testing.T) {
	_, feed, label := initFeed(t, "m1")
	if feed.MatchID != "m1" || feed.Status != "IN_PROGRESS" {
		t.Fatalf("unexpected state: %+v", feed)
	}
	got := decodeLabel(t, label)
	if got["game"] != "blackjack" || got["matchId"] != "m1" || got["status"] != "IN_PROGRESS" {
		t.Fatalf("label = %v", got)
	}
}

func TestFeedMatchInitRequiresMatchID(t *testing.T) {
	fh := &feedHandler{}
	state, _, _ := fh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{})
	if state != nil {
		t.Fatalf("state = %v, want nil so the match is not created", state)
	}
}

func TestFeedSignalBroadcastsSnapshot(t *testing.T) {
	fh, feed, _ := initFeed(t, "m1")
	dispatcher := &mockDispatcher{}

	state, result := fh.MatchSignal(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, feed, snapshotSignal(t, "IN_PROGRESS", false))
	if state == nil || result != "ok" {
		t.Fatalf("MatchSignal = %v, %q", state, result)
	}
	if len(dispatcher.broadcasts) != 1 || dispatcher.broadcasts[0].opCode != OpMatchSnapshot {
		t.Fatalf("broadcasts = %+v", dispatcher.broadcasts)
	}
	var got matchDTO
	if err := json.Unmarshal(dispatcher.broadcasts[0].data, &got); err != nil {
		t.Fatalf("snapshot payload: %v", err)
	}
	if got.ID != "m1" || len(got.Players) != 1 || got.Players[0].Balance != 50 {
		t.Fatalf("snapshot = %+v", got)
	}
	if len(dispatcher.labels) != 0 {
		t.Fatalf("label updated without a status change")
	}
}

func TestFeedSignalBroadcastsSettlementAndRelabels(t *testing.T) {
	fh, feed, _ := initFeed(t, "m1")
	dispatcher := &mockDispatcher{}

	fh.MatchSignal(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, feed, snapshotSignal(t, "FINISHED", true))

	if len(dispatcher.broadcasts) != 2 {
		t.Fatalf("broadcasts = %d, want 2", len(dispatcher.broadcasts))
	}
	if dispatcher.broadcasts[1].opCode != OpMatchSettled {
		t.Fatalf("second opcode = %d, want %d", dispatcher.broadcasts[1].opCode, OpMatchSettled)
	}
	var settled settlementDTO
	if err := json.Unmarshal(dispatcher.broadcasts[1].data, &settled); err != nil {
		t.Fatalf("settlement payload: %v", err)
	}
	if settled.DealerTotal != 18 || len(settled.Outcomes) != 1 || settled.Outcomes[0].Result != "WIN" {
		t.Fatalf("settlement = %+v", settled)
	}
	if len(dispatcher.labels) != 1 || decodeLabel(t, dispatcher.labels[0])["status"] != "FINISHED" {
		t.Fatalf("labels = %v", dispatcher.labels)
	}
}

func TestFeedJoinReplaysLastSnapshot(t *testing.T) {
	fh, feed, _ := initFeed(t, "m1")
	dispatcher := &mockDispatcher{}

	// Nothing to replay before the first signal.
	fh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, feed, []runtime.Presence{fakePresence{userID: "early"}})
	if len(dispatcher.broadcasts) != 0 {
		t.Fatalf("broadcasts = %d, want 0", len(dispatcher.broadcasts))
	}

	fh.MatchSignal(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, feed, snapshotSignal(t, "IN_PROGRESS", false))
	late := fakePresence{userID: "late"}
	fh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, feed, []runtime.Presence{late})

	if len(dispatcher.broadcasts) != 2 {
		t.Fatalf("broadcasts = %d, want 2", len(dispatcher.broadcasts))
	}
	replay := dispatcher.broadcasts[1]
	if replay.opCode != OpMatchSnapshot || len(replay.presences) != 1 || replay.presences[0].GetUserId() != "late" {
		t.Fatalf("replay = %+v", replay)
	}
	if len(feed.Presences) != 2 {
		t.Fatalf("presences = %d, want 2", len(feed.Presences))
	}

	fh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 4, feed, []runtime.Presence{late})
	if _, ok := feed.Presences["late"]; ok || len(feed.Presences) != 1 {
		t.Fatalf("presence not removed: %v", feed.Presences)
	}
}

func TestFeedCloseSignalEndsMatch(t *testing.T) {
	fh, feed, _ := initFeed(t, "m1")
	data, _ := json.Marshal(feedSignal{Kind: signalClose})

	state, result := fh.MatchSignal(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 1, feed, string(data))
	if state != nil || result != "closed" {
		t.Fatalf("MatchSignal = %v, %q; want nil state", state, result)
	}
}

func TestFeedRejectsBadSignals(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "not json", data: "{", want: "bad signal"},
		{name: "unknown kind", data: `{"kind":"shuffle"}`, want: "unknown signal"},
		{name: "snapshot without match", data: `{"kind":"snapshot"}`, want: "snapshot without match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh, feed, _ := initFeed(t, "m1")
			dispatcher := &mockDispatcher{}
			state, result := fh.MatchSignal(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, feed, tt.data)
			if state == nil || result != tt.want {
				t.Fatalf("MatchSignal = %v, %q; want %q", state, result, tt.want)
			}
			if len(dispatcher.broadcasts) != 0 {
				t.Fatalf("bad signal broadcast %d messages", len(dispatcher.broadcasts))
			}
		})
	}
}

func TestFeedLoopIgnoresClientMessages(t *testing.T) {
	fh, feed, _ := initFeed(t, "m1")
	dispatcher := &mockDispatcher{}
	state := fh.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 9, feed, []runtime.MatchData{
		fakeMatchData{userID: "u1", opCode: 42},
	})
	if state != feed || feed.Tick != 9 || len(dispatcher.broadcasts) != 0 {
		t.Fatalf("loop changed feed: %+v", feed)
	}
}
