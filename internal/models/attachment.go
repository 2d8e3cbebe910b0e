package models

import (
	"time"

	"gorm.io/gorm"
)

// Attachment is an uploaded file record linked to a Task. Position is a
// dense 1-based rank within the task's attachments, assigned at upload time
// as "current max + offset in the batch". Title is the original client
// filename; the stored blob uses a generated name and is only reachable
// through URL.
type Attachment struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	TaskID    uint64         `gorm:"not null;index" json:"task_id"`
	URL       string         `gorm:"type:varchar(500);not null" json:"url"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Position  int            `gorm:"not null" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}
