package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/rps"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/stats"
)

// Game names accepted by ShowStats.
const (
	GameBlackjack = "blackjack"
	GameRPS       = "rps"
)

type statField struct {
	name, value string
}

func renderFields(fields []statField) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: **`%s`**", f.name, f.value)
	}
	return b.String()
}

// BlackjackStatsView renders the blackjack statistics of user.
func BlackjackStatsView(user domain.UserID, s stats.BlackjackStats) domain.View {
	streak := "None"
	switch {
	case s.WinStreak.Current > 0:
		streak = fmt.Sprintf("%d WINS", s.WinStreak.Current)
	case s.LossStreak.Current > 0:
		streak = fmt.Sprintf("%d LOSSES", s.LossStreak.Current)
	case s.PushStreak.Current > 0:
		streak = fmt.Sprintf("%d PUSHES", s.PushStreak.Current)
	}
	cur := domain.CurrencyCitrine
	return domain.View{
		Title:   "Blackjack Stats",
		Content: user.Mention(),
		Tone:    domain.ToneAccent,
		Body: renderFields([]statField{
			{"Games Played", fmt.Sprint(s.Played())},
			{"Blackjacks", fmt.Sprint(s.BlackjackCount)},
			{"Streak", streak},
			{"Times Busted", fmt.Sprint(s.TimesBusted)},
			{"avg. Stand", fmt.Sprintf("%.2f", s.AvgStand())},
			{"avg. Dealer", fmt.Sprintf("%.2f", s.AvgDealer())},
			{"Wins", fmt.Sprint(s.Wins)},
			{"Losses", fmt.Sprint(s.Losses)},
			{"Pushes", fmt.Sprint(s.Pushes)},
			{"max. Win Streak", fmt.Sprint(s.WinStreak.Longest)},
			{"max. Loss Streak", fmt.Sprint(s.LossStreak.Longest)},
			{"max. Push Streak", fmt.Sprint(s.PushStreak.Longest)},
			{"Wagered", fmt.Sprintf("%d %s", s.Wagered, cur)},
			{"Won", fmt.Sprintf("%d %s", s.Won, cur)},
			{"Lost", fmt.Sprintf("%d %s", s.Lost, cur)},
			{"Win Chance", fmt.Sprintf("%.2f%%", s.WinChance()*100)},
			{"Net Gain", fmt.Sprintf("%d %s", s.NetGain(), cur)},
		}),
	}
}

// RPSStatsView renders the rock paper scissors statistics of user.
func RPSStatsView(user domain.UserID, s stats.RPSStats) domain.View {
	return domain.View{
		Title:   "Rock Paper Scissors Stats",
		Content: user.Mention(),
		Tone:    domain.ToneAccent,
		Body: renderFields([]statField{
			{"🏆 Wins", fmt.Sprint(s.Wins)},
			{"Losses", fmt.Sprint(s.Losses)},
			{"Draws", fmt.Sprint(s.Draws)},
			{rps.Rock.Emoji() + " Rock", fmt.Sprint(s.Rock)},
			{rps.Paper.Emoji() + " Paper", fmt.Sprint(s.Paper)},
			{rps.Scissors.Emoji() + " Scissors", fmt.Sprint(s.Scissors)},
			{"Total Played", fmt.Sprint(s.TotalPlayed())},
			{"Win Rate", fmt.Sprintf("%.2f%%", s.WinRate()*100)},
		}),
	}
}

// ShowStats sends the statistics of user for game, or for every game when
// game is empty.
func (a *App) ShowStats(ctx context.Context, tr ports.Transport, user domain.UserID, game string) error {
	var views []domain.View
	if game == "" || game == GameBlackjack {
		s, err := a.Stats.Blackjack(ctx, user)
		if err != nil {
			return fmt.Errorf("read blackjack stats: %w", err)
		}
		views = append(views, BlackjackStatsView(user, s))
	}
	if game == "" || game == GameRPS {
		s, err := a.Stats.RPS(ctx, user)
		if err != nil {
			return fmt.Errorf("read rps stats: %w", err)
		}
		views = append(views, RPSStatsView(user, s))
	}
	if len(views) == 0 {
		return fmt.Errorf("unknown game %q", game)
	}
	for _, v := range views {
		if _, err := tr.Send(ctx, v); err != nil {
			return fmt.Errorf("send stats: %w", err)
		}
	}
	return nil
}
