package repository

import (
	"time"

	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// HistoryEntry 历史记录与课程标题/分类的联查结果
type HistoryEntry struct {
	ID              uint      `json:"id"`
	CourseID        uint      `json:"courseId"`
	CourseTitle     string    `json:"courseTitle"`
	CourseCategory  string    `json:"courseCategory"`
	DurationMinutes int       `json:"durationMinutes"`
	Score           int       `json:"score"`
	Certificate     bool      `json:"certificate"`
	CertificateID   string    `json:"certificateId"`
	CompletedAt     time.Time `json:"completedAt"`
}

func (r *HistoryRepository) Create(entry *model.TrainingHistory) error {
	return r.DB.Create(entry).Error
}

func (r *HistoryRepository) ListByUser(userID uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.DB.Model(&model.TrainingHistory{}).
		Select(`training_history.id,
			training_history.course_id,
			courses.title AS course_title,
			courses.category AS course_category,
			training_history.duration_minutes,
			training_history.score,
			training_history.certificate,
			training_history.certificate_id,
			training_history.created_at AS completed_at`).
		Joins("JOIN courses ON courses.id = training_history.course_id").
		Where("training_history.user_id = ?", userID).
		Order("training_history.created_at DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
