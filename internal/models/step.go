package models

import "gorm.io/gorm"

// Step is a boolean-completion sub-item of a Task. Its lifecycle is bound
// to the parent task; deleting the task removes its steps.
type Step struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	TaskID      uint64         `gorm:"not null;index" json:"task_id"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Done        bool           `gorm:"not null;default:false" json:"done"`
	Position    int            `gorm:"not null" json:"position"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}
