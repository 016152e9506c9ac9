package handlers

import (
	"gorm.io/gorm"

	"github.com/lemawe69/milky-shaky-backend/internal/audit"
	"github.com/lemawe69/milky-shaky-backend/internal/notifier"
)

// Handler carries the collaborators every endpoint needs. The DB handle
// and notifier are constructed once at process start and passed in here
// instead of being imported as ambient state.
type Handler struct {
	DB       *gorm.DB
	Notifier notifier.Notifier
	Audit    *audit.Recorder
}

func New(gdb *gorm.DB, n notifier.Notifier) *Handler {
	return &Handler{
		DB:       gdb,
		Notifier: n,
		Audit:    audit.NewRecorder(gdb),
	}
}
