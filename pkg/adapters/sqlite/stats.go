package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/blackjack"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/rps"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/stats"
	"k8s.io/utils/clock"
)

// Stats persists game statistics in SQLite.
type Stats struct {
	sqlDB *sql.DB
	clock clock.PassiveClock
}

var _ stats.Store = (*Stats)(nil)

// OpenStats opens the statistics tables of the database at path.
// It may share the file with a Ledger.
func OpenStats(ctx context.Context, path string) (*Stats, error) {
	sqlDB, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Stats{sqlDB: sqlDB, clock: clock.RealClock{}}, nil
}

// Close closes the SQLite handle.
func (s *Stats) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

const blackjackColumns = `wins, losses, pushes,
	win_streak, win_streak_longest, loss_streak, loss_streak_longest,
	push_streak, push_streak_longest, blackjack_streak, blackjack_streak_longest,
	blackjack_count, times_busted, times_stood,
	stand_score_sum, bust_score_sum, dealer_score_sum,
	wagered, won, lost`

func blackjackFields(s *stats.BlackjackStats) []any {
	return []any{
		&s.Wins, &s.Losses, &s.Pushes,
		&s.WinStreak.Current, &s.WinStreak.Longest, &s.LossStreak.Current, &s.LossStreak.Longest,
		&s.PushStreak.Current, &s.PushStreak.Longest, &s.BlackjackStreak.Current, &s.BlackjackStreak.Longest,
		&s.BlackjackCount, &s.TimesBusted, &s.TimesStood,
		&s.StandScoreSum, &s.BustScoreSum, &s.DealerScoreSum,
		&s.Wagered, &s.Won, &s.Lost,
	}
}

func readBlackjack(ctx context.Context, q querier, user domain.UserID) (stats.BlackjackStats, error) {
	var s stats.BlackjackStats
	err := q.QueryRowContext(ctx,
		`SELECT `+blackjackColumns+` FROM blackjack_stats WHERE user_id = ?`, string(user),
	).Scan(blackjackFields(&s)...)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.BlackjackStats{}, nil
	}
	if err != nil {
		return stats.BlackjackStats{}, fmt.Errorf("read blackjack stats: %w", err)
	}
	return s, nil
}

// RecordBlackjack implements blackjack.Recorder.
func (s *Stats) RecordBlackjack(ctx context.Context, r blackjack.Result) error {
	return inTx(ctx, s.sqlDB, func(tx *sql.Tx) error {
		current, err := readBlackjack(ctx, tx, r.User)
		if err != nil {
			return err
		}
		current.Apply(r)

		args := append([]any{string(r.User)}, values(blackjackFields(&current))...)
		args = append(args, toMillis(s.clock.Now()))
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO blackjack_stats (user_id, `+blackjackColumns+`, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...,
		); err != nil {
			return fmt.Errorf("write blackjack stats: %w", err)
		}
		return nil
	})
}

// values dereferences scan targets into insert arguments.
func values(ptrs []any) []any {
	out := make([]any, len(ptrs))
	for i, p := range ptrs {
		switch v := p.(type) {
		case *int:
			out[i] = *v
		case *int64:
			out[i] = *v
		}
	}
	return out
}

// Blackjack returns the blackjack stats of user.
func (s *Stats) Blackjack(ctx context.Context, user domain.UserID) (stats.BlackjackStats, error) {
	return readBlackjack(ctx, s.sqlDB, user)
}

// RecordWin implements rps.Recorder.
func (s *Stats) RecordWin(ctx context.Context, winner, loser domain.UserID) error {
	rec := stats.NewPairRecord(winner, loser)
	column := "second_wins"
	if rec.First == winner {
		column = "first_wins"
	}
	return s.bumpPair(ctx, rec, column)
}

// RecordDraw implements rps.Recorder.
func (s *Stats) RecordDraw(ctx context.Context, a, b domain.UserID) error {
	return s.bumpPair(ctx, stats.NewPairRecord(a, b), "draws")
}

func (s *Stats) bumpPair(ctx context.Context, rec stats.PairRecord, column string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO rps_pairs (first_id, second_id, `+column+`, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT (first_id, second_id) DO UPDATE SET `+column+` = `+column+` + 1, updated_at = excluded.updated_at`,
		string(rec.First), string(rec.Second), toMillis(s.clock.Now()),
	)
	if err != nil {
		return fmt.Errorf("record rps result: %w", err)
	}
	return nil
}

// RecordChoice implements rps.Recorder.
func (s *Stats) RecordChoice(ctx context.Context, user domain.UserID, c rps.Choice) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO rps_choices (user_id, choice, count) VALUES (?, ?, 1)
		 ON CONFLICT (user_id, choice) DO UPDATE SET count = count + 1`,
		string(user), int(c),
	)
	if err != nil {
		return fmt.Errorf("record rps choice: %w", err)
	}
	return nil
}

// Pair returns the head-to-head record of two users, in canonical order.
func (s *Stats) Pair(ctx context.Context, x, y domain.UserID) (stats.PairRecord, error) {
	rec := stats.NewPairRecord(x, y)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT first_wins, second_wins, draws FROM rps_pairs WHERE first_id = ? AND second_id = ?`,
		string(rec.First), string(rec.Second),
	).Scan(&rec.FirstWins, &rec.SecondWins, &rec.Draws)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return stats.PairRecord{}, fmt.Errorf("read rps pair: %w", err)
	}
	return rec, nil
}

// RPS sums every pair record of user together with their choice counts.
func (s *Stats) RPS(ctx context.Context, user domain.UserID) (stats.RPSStats, error) {
	var out stats.RPSStats
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT
		   COALESCE(SUM(CASE WHEN first_id = ?1 THEN first_wins ELSE second_wins END), 0),
		   COALESCE(SUM(CASE WHEN first_id = ?1 THEN second_wins ELSE first_wins END), 0),
		   COALESCE(SUM(draws), 0)
		 FROM rps_pairs WHERE first_id = ?1 OR second_id = ?1`,
		string(user),
	).Scan(&out.Wins, &out.Losses, &out.Draws)
	if err != nil {
		return stats.RPSStats{}, fmt.Errorf("read rps record: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT choice, count FROM rps_choices WHERE user_id = ?`, string(user))
	if err != nil {
		return stats.RPSStats{}, fmt.Errorf("read rps choices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var choice, count int
		if err := rows.Scan(&choice, &count); err != nil {
			return stats.RPSStats{}, fmt.Errorf("scan rps choice: %w", err)
		}
		switch rps.Choice(choice) {
		case rps.Rock:
			out.Rock = count
		case rps.Paper:
			out.Paper = count
		case rps.Scissors:
			out.Scissors = count
		}
	}
	if err := rows.Err(); err != nil {
		return stats.RPSStats{}, fmt.Errorf("read rps choices: %w", err)
	}
	return out, nil
}
