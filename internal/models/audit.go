package models

import "time"

const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// Audit is append-only. No handler updates or deletes rows of this table;
// it is the tamper evidence for administrative changes.
type Audit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   *uint     `gorm:"index" json:"actor_id"`
	TableName string    `gorm:"not null" json:"table_name"`
	RecordID  uint      `gorm:"not null" json:"record_id"`
	Action    string    `gorm:"type:VARCHAR(10);not null" json:"action"`
	Changes   string    `gorm:"type:text" json:"changes"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
