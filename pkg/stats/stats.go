package stats

import (
	"context"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/blackjack"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/rps"
)

// Store records settled games and answers statistics queries.
type Store interface {
	blackjack.Recorder
	rps.Recorder

	Blackjack(ctx context.Context, user domain.UserID) (BlackjackStats, error)
	RPS(ctx context.Context, user domain.UserID) (RPSStats, error)
	Pair(ctx context.Context, x, y domain.UserID) (PairRecord, error)
}

// Streak tracks a current run and the longest run ever seen.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

func (s *Streak) extend() {
	s.Current++
	s.Longest = max(s.Longest, s.Current)
}

func (s *Streak) reset() {
	s.Current = 0
}

// BlackjackStats aggregates every settled blackjack hand of one user.
type BlackjackStats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Pushes int `json:"pushes"`

	WinStreak       Streak `json:"win_streak"`
	LossStreak      Streak `json:"loss_streak"`
	PushStreak      Streak `json:"push_streak"`
	BlackjackStreak Streak `json:"blackjack_streak"`

	BlackjackCount int   `json:"blackjack_count"`
	TimesBusted    int   `json:"times_busted"`
	TimesStood     int   `json:"times_stood"`
	StandScoreSum  int64 `json:"stand_score_sum"`
	BustScoreSum   int64 `json:"bust_score_sum"`
	DealerScoreSum int64 `json:"dealer_score_sum"`

	Wagered int64 `json:"wagered"`
	Won     int64 `json:"won"`
	Lost    int64 `json:"lost"`
}

// Played is the number of settled hands.
func (s BlackjackStats) Played() int {
	return s.Wins + s.Losses + s.Pushes
}

// AvgStand is the mean final score of hands the user stood on.
func (s BlackjackStats) AvgStand() float64 {
	return ratio(s.StandScoreSum, int64(s.TimesStood))
}

// AvgDealer is the mean final dealer score over settled hands.
func (s BlackjackStats) AvgDealer() float64 {
	return ratio(s.DealerScoreSum, int64(s.Played()))
}

// WinChance is wins over settled hands.
func (s BlackjackStats) WinChance() float64 {
	return ratio(int64(s.Wins), int64(s.Played()))
}

// NetGain is currency won minus currency lost.
func (s BlackjackStats) NetGain() int64 {
	return s.Won - s.Lost
}

func ratio(n, d int64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// RPSStats aggregates every decided rock paper scissors game of one user.
type RPSStats struct {
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	Draws    int `json:"draws"`
	Rock     int `json:"rock"`
	Paper    int `json:"paper"`
	Scissors int `json:"scissors"`
}

// TotalPlayed is the number of decided games.
func (s RPSStats) TotalPlayed() int {
	return s.Wins + s.Losses + s.Draws
}

// WinRate is wins over games played, zero before the first game.
func (s RPSStats) WinRate() float64 {
	return ratio(int64(s.Wins), int64(s.TotalPlayed()))
}

// PairRecord is the head-to-head record of two users in canonical order.
type PairRecord struct {
	First      domain.UserID `json:"first"`
	Second     domain.UserID `json:"second"`
	FirstWins  int           `json:"first_wins"`
	SecondWins int           `json:"second_wins"`
	Draws      int           `json:"draws"`
}

// Apply folds one settled hand into s.
func (s *BlackjackStats) Apply(r blackjack.Result) {
	s.DealerScoreSum += int64(r.DealerScore)
	s.Wagered += r.Wager
	if r.Stood {
		s.TimesStood++
		s.StandScoreSum += int64(r.Score)
	}
	if r.Busted {
		s.TimesBusted++
		s.BustScoreSum += int64(r.Score)
	}
	if r.Score == blackjack.BlackjackScore {
		s.BlackjackCount++
		s.BlackjackStreak.extend()
	} else {
		s.BlackjackStreak.reset()
	}

	switch r.Outcome {
	case blackjack.Win:
		s.Wins++
		s.Won += r.Wager
		s.WinStreak.extend()
		s.LossStreak.reset()
		s.PushStreak.reset()
	case blackjack.Loss:
		s.Losses++
		s.Lost += r.Wager
		s.LossStreak.extend()
		s.WinStreak.reset()
		s.PushStreak.reset()
	case blackjack.Push:
		s.Pushes++
		s.PushStreak.extend()
		s.WinStreak.reset()
		s.LossStreak.reset()
	}
}

// NewPairRecord returns the empty record of x and y in canonical order.
func NewPairRecord(x, y domain.UserID) PairRecord {
	first, second := rps.CanonicalPair(x, y)
	return PairRecord{First: first, Second: second}
}

// AddWin credits a win to winner, who must be one of the pair.
func (p *PairRecord) AddWin(winner domain.UserID) {
	if p.First == winner {
		p.FirstWins++
	} else {
		p.SecondWins++
	}
}

// For returns the record from user's point of view.
func (p PairRecord) For(user domain.UserID) (wins, losses, draws int) {
	switch user {
	case p.First:
		return p.FirstWins, p.SecondWins, p.Draws
	case p.Second:
		return p.SecondWins, p.FirstWins, p.Draws
	default:
		return 0, 0, 0
	}
}
