package service

import (
	"errors"
	"math"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/monitoring"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 课程完成时每个学习成果对已有技能的熟练度加成
const outcomeProficiencyGain = 10

// ProgressService 负责进度记录的创建与更新。完成转换派生的副作用
// （历史追加、统计累加、技能合并）与进度写入在同一事务中提交。
type ProgressService struct {
	UserRepo     *repository.UserRepository
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	HistoryRepo  *repository.HistoryRepository
	DB           *gorm.DB
}

func NewProgressService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	historyRepo *repository.HistoryRepository,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		HistoryRepo:  historyRepo,
		DB:           db,
	}
}

// UpdateProgress 写入 (user, course) 的完成百分比并派生状态，已忽略的课程会被重新激活。
// 首次达到100%时追加一条培训历史、累加完成统计并合并课程学习成果到用户技能。
// 统计只增不减：进度回退不会回收 inProgress/completed 计数。
func (s *ProgressService) UpdateProgress(userID, courseID uint, progress int) (*model.CourseProgress, error) {
	if progress < 0 || progress > 100 {
		return nil, util.ErrInvalidProgress
	}

	var record *model.CourseProgress

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := lockForUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}

		var course model.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCourseNotFound
			}
			return err
		}

		var existing model.CourseProgress
		err := lockForUpdate(tx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
		hadRecord := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		prev := 0
		if hadRecord {
			prev = existing.Progress
			record = &existing
		} else {
			record = &model.CourseProgress{
				UserID:   userID,
				CourseID: courseID,
			}
		}

		now := time.Now()
		record.Progress = progress
		record.Status = model.StatusForProgress(progress)
		// 进度更新重置忽略标记，课程重新进入推荐
		record.Dismissed = false
		record.LastAccessedAt = now
		if progress == 100 {
			record.CompletedAt = &now
		} else {
			record.CompletedAt = nil
		}

		if err := tx.Save(record).Error; err != nil {
			return err
		}

		firstCompletion := progress == 100 && (!hadRecord || prev < 100)
		startedNow := progress > 0 && progress < 100 && (!hadRecord || prev == 0)

		switch {
		case firstCompletion:
			entry := &model.TrainingHistory{
				UserID:          userID,
				CourseID:        courseID,
				DurationMinutes: course.DurationMinutes,
				Score:           100, // 评分逻辑未实现前固定满分
				Certificate:     true,
				CertificateID:   model.GenerateUUID(),
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}

			user.Stats.CompletedCourses++
			user.Stats.LearningHours += int(math.Round(float64(course.DurationMinutes) / 60))
			applyLearningOutcomes(&user, &course)

			if err := tx.Save(&user).Error; err != nil {
				return err
			}
			monitoring.CourseCompletions.Inc()

		case startedNow:
			user.Stats.InProgressCourses++
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Dismiss 将课程标记为对该用户永久不再推荐。没有进度记录时先以0%创建一条。
func (s *ProgressService) Dismiss(userID, courseID uint) (*model.CourseProgress, error) {
	var record *model.CourseProgress

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.User{}, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}
		if err := tx.First(&model.Course{}, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCourseNotFound
			}
			return err
		}

		var existing model.CourseProgress
		err := lockForUpdate(tx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record = &model.CourseProgress{
				UserID:   userID,
				CourseID: courseID,
				Status:   model.StatusNotStarted,
			}
		} else {
			record = &existing
		}

		record.Dismissed = true
		record.LastAccessedAt = time.Now()

		return tx.Save(record).Error
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// lockForUpdate 事务内读加行锁，防止并发更新同一 (user, course) 时
// 重复追加历史或丢失统计累加。SQLite 不支持 FOR UPDATE，保持原样。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// applyLearningOutcomes 将课程学习成果合并进用户技能映射。
// 只提升用户已在跟踪的技能，上限 MaxProficiency；成果中用户未跟踪的技能不会新增。
func applyLearningOutcomes(user *model.User, course *model.Course) {
	skills := user.Skills.Data()
	if len(skills) == 0 {
		return
	}

	changed := false
	for _, outcome := range course.LearningOutcomes {
		level, ok := skills[outcome]
		if !ok {
			continue
		}
		next := level + outcomeProficiencyGain
		if next > model.MaxProficiency {
			next = model.MaxProficiency
		}
		if next != level {
			skills[outcome] = next
			changed = true
		}
	}

	if changed {
		user.Skills = datatypes.NewJSONType(skills)
	}
}
