// internal/database/stats.go
package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// RecordWin increments the win count for the named player.
func RecordWin(ctx context.Context, name string) error {
	if DB == nil {
		return nil
	}
	q := `INSERT INTO player_stats (name, wins) VALUES ($1, 1)
	      ON CONFLICT (name) DO UPDATE SET wins = player_stats.wins + 1`
	_, err := DB.Exec(ctx, q, name)
	return err
}

// GetWins returns the win count for the named player, zero if unknown or
// when no database is configured.
func GetWins(ctx context.Context, name string) (int, error) {
	if DB == nil {
		return 0, nil
	}
	var wins int
	q := `SELECT wins FROM player_stats WHERE name = $1`
	err := DB.QueryRow(ctx, q, name).Scan(&wins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return wins, nil
}
