package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pura-pata/internal/domain/dogs"
	"pura-pata/internal/domain/history"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) ListByDog(ctx context.Context, dogID string, filter history.ListFilter) ([]dogs.HistoryEntry, error) {
	filter = filter.Normalize()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dog_id, old_status, new_status, changed_at
		FROM dog_status_history
		WHERE dog_id = $1
		ORDER BY changed_at DESC, seq DESC
		LIMIT $2 OFFSET $3
	`, dogID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.HistoryEntry, 0)
	for rows.Next() {
		var (
			e        dogs.HistoryEntry
			old      sql.NullString
			newState string
		)
		if err := rows.Scan(&e.ID, &e.DogID, &old, &newState, &e.ChangedAt); err != nil {
			return nil, err
		}

		if e.NewStatus, err = dogs.ParseStatus(newState); err != nil {
			return nil, fmt.Errorf("history %s: %w", e.ID, err)
		}
		if old.Valid {
			st, err := dogs.ParseStatus(old.String)
			if err != nil {
				return nil, fmt.Errorf("history %s: %w", e.ID, err)
			}
			e.OldStatus = &st
		}

		out = append(out, e)
	}
	return out, rows.Err()
}
