package service

import (
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserService 处理技能档案、学习统计和培训历史查询
type UserService struct {
	UserRepo    *repository.UserRepository
	HistoryRepo *repository.HistoryRepository
}

func NewUserService(userRepo *repository.UserRepository, historyRepo *repository.HistoryRepository) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		HistoryRepo: historyRepo,
	}
}

func (s *UserService) GetSkills(userID uint) (map[string]int, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user.SkillMap(), nil
}

// UpdateSkills 用户自述技能。与课程完成的成果合并不同，这里允许新增技能键。
func (s *UserService) UpdateSkills(userID uint, declared map[string]int) (map[string]int, error) {
	for _, level := range declared {
		if level < 0 || level > model.MaxProficiency {
			return nil, util.ErrInvalidSkill
		}
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	skills := user.SkillMap()
	for name, level := range declared {
		skills[name] = level
	}
	user.Skills = datatypes.NewJSONType(skills)

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return skills, nil
}

func (s *UserService) GetStats(userID uint) (*model.Stats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return &user.Stats, nil
}

func (s *UserService) GetHistory(userID uint) ([]repository.HistoryEntry, error) {
	return s.HistoryRepo.ListByUser(userID)
}
