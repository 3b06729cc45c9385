package random

import (
	"fmt"
	"sync"
)

// Scripted deals a fixed sequence of cards, then panics when exhausted.
// Used by tests and replays that need a known deal.
type Scripted struct {
	mu    sync.Mutex
	cards []int
	next  int
}

// NewScripted returns a deck that deals cards in the given order.
func NewScripted(cards ...int) *Scripted {
	return &Scripted{cards: append([]int(nil), cards...)}
}

// DrawCard returns the next scripted card.
func (s *Scripted) DrawCard() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.cards) {
		panic(fmt.Sprintf("scripted deck exhausted after %d cards", len(s.cards)))
	}
	card := s.cards[s.next]
	s.next++
	return card
}

// Remaining reports how many scripted cards have not been dealt.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards) - s.next
}
