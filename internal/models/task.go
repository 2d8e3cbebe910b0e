package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a user-owned work item. Position is a dense 1-based rank within
// the owner's task set. It carries no uniqueness constraint; the write paths
// keep it dense by always assigning max+1 on insert and rewriting it from
// the submitted order on reorder.
type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerID     uint64         `gorm:"not null;index" json:"owner_id"`
	Position    int            `gorm:"not null" json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner       User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Steps       []Step       `gorm:"foreignKey:TaskID" json:"steps,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}
