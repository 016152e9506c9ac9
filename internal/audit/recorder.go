package audit

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/lemawe69/milky-shaky-backend/internal/models"
)

// DefaultTrailLimit caps how many entries the audit trail read path
// returns.
const DefaultTrailLimit = 200

// Recorder appends immutable audit rows for administrative mutations.
// There is intentionally no update or delete method.
type Recorder struct {
	DB *gorm.DB
}

func NewRecorder(gdb *gorm.DB) *Recorder {
	return &Recorder{DB: gdb}
}

// Record serializes the before/after payload and appends one entry. The
// payload must be complete enough to reconstruct the mutation for review.
func (r *Recorder) Record(actorID *uint, tableName string, recordID uint, action string, changes interface{}) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to serialize audit payload: %w", err)
	}

	entry := models.Audit{
		ActorID:   actorID,
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		Changes:   string(payload),
	}

	if err := r.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListRecent returns entries newest first, capped at DefaultTrailLimit.
func (r *Recorder) ListRecent(limit int) ([]models.Audit, error) {
	if limit <= 0 || limit > DefaultTrailLimit {
		limit = DefaultTrailLimit
	}

	var entries []models.Audit
	err := r.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
