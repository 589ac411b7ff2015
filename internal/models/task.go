package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the two task states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}

type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Description string    `json:"description"`
	Status      string    `json:"status" gorm:"size:20;not null;default:'pending';index;index:idx_tasks_user_status_created,priority:2"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index;index:idx_tasks_user_status_created,priority:3"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index;index:idx_tasks_user_status_created,priority:1"`
}
