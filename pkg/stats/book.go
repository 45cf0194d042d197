package stats

import (
	"context"
	"sync"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/blackjack"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/rps"
)

var _ Store = (*Book)(nil)

type pairKey struct {
	a, b domain.UserID
}

// Book is an in-memory Store. It is safe for concurrent use.
type Book struct {
	mu        sync.RWMutex
	blackjack map[domain.UserID]*BlackjackStats
	pairs     map[pairKey]*PairRecord
	choices   map[domain.UserID]map[rps.Choice]int
}

// NewBook creates an empty statistics book.
func NewBook() *Book {
	return &Book{
		blackjack: make(map[domain.UserID]*BlackjackStats),
		pairs:     make(map[pairKey]*PairRecord),
		choices:   make(map[domain.UserID]map[rps.Choice]int),
	}
}

// RecordBlackjack implements blackjack.Recorder.
func (b *Book) RecordBlackjack(ctx context.Context, r blackjack.Result) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.blackjack[r.User]
	if !ok {
		s = &BlackjackStats{}
		b.blackjack[r.User] = s
	}
	s.Apply(r)
	return nil
}

// Blackjack returns a copy of the blackjack stats of user.
func (b *Book) Blackjack(ctx context.Context, user domain.UserID) (BlackjackStats, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if s, ok := b.blackjack[user]; ok {
		return *s, nil
	}
	return BlackjackStats{}, nil
}

// RecordWin implements rps.Recorder.
func (b *Book) RecordWin(ctx context.Context, winner, loser domain.UserID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pairLocked(winner, loser).AddWin(winner)
	return nil
}

// RecordDraw implements rps.Recorder.
func (b *Book) RecordDraw(ctx context.Context, a, c domain.UserID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pairLocked(a, c).Draws++
	return nil
}

// RecordChoice implements rps.Recorder.
func (b *Book) RecordChoice(ctx context.Context, user domain.UserID, c rps.Choice) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts, ok := b.choices[user]
	if !ok {
		counts = make(map[rps.Choice]int)
		b.choices[user] = counts
	}
	counts[c]++
	return nil
}

func (b *Book) pairLocked(x, y domain.UserID) *PairRecord {
	rec := NewPairRecord(x, y)
	key := pairKey{rec.First, rec.Second}
	if existing, ok := b.pairs[key]; ok {
		return existing
	}
	b.pairs[key] = &rec
	return &rec
}

// Pair returns the head-to-head record of two users, in canonical order.
func (b *Book) Pair(ctx context.Context, x, y domain.UserID) (PairRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec := NewPairRecord(x, y)
	if existing, ok := b.pairs[pairKey{rec.First, rec.Second}]; ok {
		return *existing, nil
	}
	return rec, nil
}

// RPS sums every pair record of user together with their choice counts.
func (b *Book) RPS(ctx context.Context, user domain.UserID) (RPSStats, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var s RPSStats
	for _, rec := range b.pairs {
		wins, losses, draws := rec.For(user)
		s.Wins += wins
		s.Losses += losses
		s.Draws += draws
	}
	counts := b.choices[user]
	s.Rock = counts[rps.Rock]
	s.Paper = counts[rps.Paper]
	s.Scissors = counts[rps.Scissors]
	return s, nil
}
