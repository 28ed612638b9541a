package model

// TrainingHistory 培训历史，课程首次完成时追加一条，只增不改
// swagger:model TrainingHistory
type TrainingHistory struct {
	BaseModel
	UserID          uint   `gorm:"not null;index" json:"userId"`
	CourseID        uint   `gorm:"not null;index" json:"courseId"`
	DurationMinutes int    `gorm:"default:0" json:"durationMinutes"`
	Score           int    `gorm:"default:0" json:"score"`
	Certificate     bool   `gorm:"default:false" json:"certificate"`
	CertificateID   string `gorm:"size:36" json:"certificateId"`
}

func (TrainingHistory) TableName() string {
	return "training_history"
}
