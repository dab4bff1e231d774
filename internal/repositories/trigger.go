package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/shared"
)

// TriggerRepository implements [models.Repository] for [models.TriggerRecord] persistence.
type TriggerRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.TriggerRecord] = (*TriggerRepository)(nil)

// NewTriggerRepository creates a new [TriggerRepository] with the given database connection
func NewTriggerRepository(db *sql.DB) *TriggerRepository {
	return &TriggerRepository{db: db}
}

// Create inserts a trigger record with generated ID and sequence
func (r *TriggerRepository) Create(ctx context.Context, record *models.TriggerRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(ctx, r.db, "trigger_records")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO trigger_records (id, sequence, api_url, succeeded, message, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query, id, sequence, record.APIURL, record.Succeeded, record.Message, record.TriggeredAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert trigger record: %w", err)
	}

	record.ID = id
	record.Sequence = sequence
	return nil
}

// List returns up to limit trigger records, newest first. A non-positive limit returns all of them.
func (r *TriggerRepository) List(ctx context.Context, limit int) ([]*models.TriggerRecord, error) {
	query := `
		SELECT id, sequence, api_url, succeeded, message, triggered_at
		FROM trigger_records
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, queryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query trigger records: %w", err)
	}
	defer rows.Close()

	records := []*models.TriggerRecord{}
	for rows.Next() {
		var rec models.TriggerRecord
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.APIURL, &rec.Succeeded, &rec.Message, &rec.TriggeredAt); err != nil {
			return nil, fmt.Errorf("failed to scan trigger record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trigger records: %w", err)
	}

	return records, nil
}
