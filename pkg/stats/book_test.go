package stats_test

import (
	"testing"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/blackjack"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/stats"
	"github.com/stretchr/testify/assert"
)

func TestBook_Contract(t *testing.T) {
	stats.RunStoreContract(t, func(t *testing.T) stats.Store {
		return stats.NewBook()
	})
}

func TestBlackjackStats_ApplyResetsOtherStreaks(t *testing.T) {
	var s stats.BlackjackStats
	s.Apply(blackjack.Result{Outcome: blackjack.Loss, Score: 18})
	s.Apply(blackjack.Result{Outcome: blackjack.Loss, Score: 18})
	s.Apply(blackjack.Result{Outcome: blackjack.Push, Score: 18})

	assert.Equal(t, stats.Streak{Current: 0, Longest: 2}, s.LossStreak)
	assert.Equal(t, stats.Streak{Current: 1, Longest: 1}, s.PushStreak)
	assert.Zero(t, s.WinStreak.Longest)
}

func TestPairRecord_For(t *testing.T) {
	rec := stats.NewPairRecord("zoe", "adam")
	rec.AddWin("zoe")
	rec.AddWin("zoe")
	rec.AddWin("adam")

	wins, losses, draws := rec.For("zoe")
	assert.Equal(t, []int{2, 1, 0}, []int{wins, losses, draws})
	wins, losses, _ = rec.For("adam")
	assert.Equal(t, []int{1, 2}, []int{wins, losses})
	wins, _, _ = rec.For("carl")
	assert.Zero(t, wins)
}

func TestBlackjackStats_Averages(t *testing.T) {
	var s stats.BlackjackStats
	assert.Zero(t, s.AvgStand())
	assert.Zero(t, s.WinChance())

	s.Apply(blackjack.Result{Outcome: blackjack.Win, Score: 20, Stood: true, DealerScore: 18, Wager: 10})
	s.Apply(blackjack.Result{Outcome: blackjack.Loss, Score: 23, Busted: true, DealerScore: 20, Wager: 30})

	assert.Equal(t, 20.0, s.AvgStand())
	assert.Equal(t, 19.0, s.AvgDealer())
	assert.Equal(t, 0.5, s.WinChance())
	assert.Equal(t, int64(-20), s.NetGain())
}
