package repository

import (
	"errors"

	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindByUserAndCourse 不存在时返回 (nil, nil)
func (r *ProgressRepository) FindByUserAndCourse(userID, courseID uint) (*model.CourseProgress, error) {
	var record model.CourseProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MapByUser 返回 courseID -> 进度记录 的映射，供推荐引擎一次性取用
func (r *ProgressRepository) MapByUser(userID uint) (map[uint]*model.CourseProgress, error) {
	var records []model.CourseProgress
	err := r.DB.Where("user_id = ?", userID).Find(&records).Error
	if err != nil {
		return nil, err
	}

	byCourse := make(map[uint]*model.CourseProgress, len(records))
	for i := range records {
		byCourse[records[i].CourseID] = &records[i]
	}
	return byCourse, nil
}

func (r *ProgressRepository) Save(record *model.CourseProgress) error {
	return r.DB.Save(record).Error
}
