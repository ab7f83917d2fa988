package persist

import (
	"context"
	"time"
)

// ScoreRow is one completed match's result for an account (spec.md §6's
// "optional ... score store").
type ScoreRow struct {
	AccountName string
	Score       int32
	LevelReached int
	Victory     bool
	PlayedAt    time.Time
}

type ScoreRepo struct {
	db *DB
}

func NewScoreRepo(db *DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

func (r *ScoreRepo) Record(ctx context.Context, row ScoreRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO scores (account_name, score, level_reached, victory, played_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		row.AccountName, row.Score, row.LevelReached, row.Victory, row.PlayedAt,
	)
	return err
}

// TopScores returns the top-N all-time scores, highest first.
func (r *ScoreRepo) TopScores(ctx context.Context, limit int) ([]ScoreRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT account_name, score, level_reached, victory, played_at
		 FROM scores ORDER BY score DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var row ScoreRow
		if err := rows.Scan(&row.AccountName, &row.Score, &row.LevelReached, &row.Victory, &row.PlayedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
