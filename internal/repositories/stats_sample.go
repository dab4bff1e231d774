package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/shared"
)

// StatsSampleRepository implements [models.Repository] for [models.StatsSample] persistence.
type StatsSampleRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.StatsSample] = (*StatsSampleRepository)(nil)

// NewStatsSampleRepository creates a new [StatsSampleRepository] with the given database connection
func NewStatsSampleRepository(db *sql.DB) *StatsSampleRepository {
	return &StatsSampleRepository{db: db}
}

// Create inserts a sample with generated ID and sequence
func (r *StatsSampleRepository) Create(ctx context.Context, sample *models.StatsSample) error {
	if err := sample.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(ctx, r.db, "stats_samples")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO stats_samples (id, sequence, waiting, active, completed, failed, sampled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	s := sample.Stats
	_, err = r.db.ExecContext(ctx, query, id, sequence, s.Waiting, s.Active, s.Completed, s.Failed, sample.SampledAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert stats sample: %w", err)
	}

	sample.ID = id
	sample.Sequence = sequence
	return nil
}

// List returns up to limit samples, newest first. A non-positive limit returns all of them.
func (r *StatsSampleRepository) List(ctx context.Context, limit int) ([]*models.StatsSample, error) {
	query := `
		SELECT id, sequence, waiting, active, completed, failed, sampled_at
		FROM stats_samples
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, queryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query stats samples: %w", err)
	}
	defer rows.Close()

	samples := []*models.StatsSample{}
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats samples: %w", err)
	}

	return samples, nil
}

// Latest returns the most recent sample or [shared.ErrNotFound].
func (r *StatsSampleRepository) Latest(ctx context.Context) (*models.StatsSample, error) {
	query := `
		SELECT id, sequence, waiting, active, completed, failed, sampled_at
		FROM stats_samples
		ORDER BY sequence DESC
		LIMIT 1
	`

	sample, err := scanSample(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no stats samples recorded", shared.ErrNotFound)
	}
	return sample, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(row scanner) (*models.StatsSample, error) {
	var (
		sample    models.StatsSample
		sampledAt time.Time
	)

	err := row.Scan(
		&sample.ID,
		&sample.Sequence,
		&sample.Stats.Waiting,
		&sample.Stats.Active,
		&sample.Stats.Completed,
		&sample.Stats.Failed,
		&sampledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan stats sample: %w", err)
	}

	sample.SampledAt = sampledAt
	return &sample, nil
}
