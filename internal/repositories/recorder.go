package repositories

import (
	"context"
	"database/sql"

	"github.com/desertthunder/importdash/internal/models"
)

// Recorder stores poller output in the audit tables. It satisfies tasks.Recorder.
type Recorder struct {
	Samples  *StatsSampleRepository
	Triggers *TriggerRepository
}

// NewRecorder creates a [Recorder] backed by db.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{
		Samples:  NewStatsSampleRepository(db),
		Triggers: NewTriggerRepository(db),
	}
}

func (r *Recorder) RecordSample(ctx context.Context, sample *models.StatsSample) error {
	return r.Samples.Create(ctx, sample)
}

func (r *Recorder) RecordTrigger(ctx context.Context, record *models.TriggerRecord) error {
	return r.Triggers.Create(ctx, record)
}
