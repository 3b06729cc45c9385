package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MatchRuntime is the slice of runtime.NakamaModule used to drive feed matches.
type MatchRuntime interface {
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
	MatchSignal(ctx context.Context, id string, data string) (string, error)
}

const (
	signalSnapshot = "snapshot"
	signalClose    = "close"
)

// feedSignal is the payload sent from RPC handlers to a running feed match.
type feedSignal struct {
	Kind       string         `json:"kind"`
	Match      *matchDTO      `json:"match,omitempty"`
	Settlement *settlementDTO `json:"settlement,omitempty"`
}

// feedDirectory maps blackjack match ids to the Nakama feed match streaming them.
type feedDirectory struct {
	rt MatchRuntime

	mu      sync.RWMutex
	byMatch map[string]string
}

func newFeedDirectory(rt MatchRuntime) *feedDirectory {
	return &feedDirectory{rt: rt, byMatch: make(map[string]string)}
}

// Lookup returns the feed match id for matchID, or "" when none is running.
// A nil directory has no feeds.
func (f *feedDirectory) Lookup(matchID string) string {
	if f == nil {
		return ""
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.byMatch[matchID]
}

// Open starts a feed match for matchID.
func (f *feedDirectory) Open(ctx context.Context, matchID string) (string, error) {
	feedID, err := f.rt.MatchCreate(ctx, MatchNameFeed, map[string]interface{}{feedParamMatchID: matchID})
	if err != nil {
		return "", fmt.Errorf("create feed for match %s: %w", matchID, err)
	}
	f.mu.Lock()
	f.byMatch[matchID] = feedID
	f.mu.Unlock()
	return feedID, nil
}

// Publish pushes a snapshot, and the settlement when there is one, to the feed of the match.
func (f *feedDirectory) Publish(ctx context.Context, snapshot matchDTO, settlement *settlementDTO) error {
	feedID := f.Lookup(snapshot.ID)
	if feedID == "" {
		return nil
	}
	return f.signal(ctx, feedID, feedSignal{Kind: signalSnapshot, Match: &snapshot, Settlement: settlement})
}

// Close ends the feed of matchID and forgets it.
func (f *feedDirectory) Close(ctx context.Context, matchID string) error {
	f.mu.Lock()
	feedID, ok := f.byMatch[matchID]
	delete(f.byMatch, matchID)
	f.mu.Unlock()
	if !ok {
		return nil
	}
	return f.signal(ctx, feedID, feedSignal{Kind: signalClose})
}

// Reset forgets every feed without signalling them.
func (f *feedDirectory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byMatch = make(map[string]string)
}

func (f *feedDirectory) signal(ctx context.Context, feedID string, sig feedSignal) error {
	data, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal feed signal: %w", err)
	}
	if _, err := f.rt.MatchSignal(ctx, feedID, string(data)); err != nil {
		return fmt.Errorf("signal feed %s: %w", feedID, err)
	}
	return nil
}
