package service

import (
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, progressRepo *repository.ProgressRepository) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
	}
}

type CreateCourseRequest struct {
	Title             string   `json:"title" binding:"required"`
	Category          string   `json:"category"`
	DurationMinutes   int      `json:"durationMinutes" binding:"gte=0"`
	RecommendedRoles  []string `json:"recommendedRoles"`
	RecommendedSkills []string `json:"recommendedSkills"`
	LearningOutcomes  []string `json:"learningOutcomes"`
}

func (s *CourseService) CreateCourse(req CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:             req.Title,
		Category:          req.Category,
		DurationMinutes:   req.DurationMinutes,
		RecommendedRoles:  datatypes.NewJSONSlice(req.RecommendedRoles),
		RecommendedSkills: datatypes.NewJSONSlice(req.RecommendedSkills),
		LearningOutcomes:  datatypes.NewJSONSlice(req.LearningOutcomes),
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

// CourseWithProgress 课程详情附带调用者进度
type CourseWithProgress struct {
	model.Course
	Progress  int                  `json:"progress"`
	Status    model.ProgressStatus `json:"status"`
	Dismissed bool                 `json:"dismissed"`
}

func (s *CourseService) ListCourses(userID uint, category string, page, limit int) ([]CourseWithProgress, int64, error) {
	courses, total, err := s.CourseRepo.List(category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	progressByCourse, err := s.ProgressRepo.MapByUser(userID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]CourseWithProgress, len(courses))
	for i, course := range courses {
		result[i] = CourseWithProgress{
			Course: course,
			Status: model.StatusNotStarted,
		}
		if record := progressByCourse[course.ID]; record != nil {
			result[i].Progress = record.Progress
			result[i].Status = record.Status
			result[i].Dismissed = record.Dismissed
		}
	}
	return result, total, nil
}

func (s *CourseService) GetCourse(userID, courseID uint) (*CourseWithProgress, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	result := &CourseWithProgress{
		Course: *course,
		Status: model.StatusNotStarted,
	}

	record, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		result.Progress = record.Progress
		result.Status = record.Status
		result.Dismissed = record.Dismissed
	}
	return result, nil
}
