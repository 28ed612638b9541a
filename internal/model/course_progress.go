package model

import (
	"time"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// StatusForProgress 由完成百分比唯一确定状态
func StatusForProgress(progress int) ProgressStatus {
	switch {
	case progress <= 0:
		return StatusNotStarted
	case progress >= 100:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// swagger:model CourseProgress
type CourseProgress struct {
	BaseModel
	UserID         uint           `gorm:"not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID       uint           `gorm:"not null;uniqueIndex:idx_user_course" json:"courseId"`
	Progress       int            `gorm:"default:0" json:"progress"`
	Status         ProgressStatus `gorm:"size:20;default:'not_started'" json:"status"`
	Dismissed      bool           `gorm:"default:false" json:"dismissed"`
	LastAccessedAt time.Time      `json:"lastAccessedAt"`
	CompletedAt    *time.Time     `json:"completedAt"`
}

func (CourseProgress) TableName() string {
	return "user_course_progress"
}
