package service

import (
	"errors"
	"sort"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

const (
	// 技能差口径：推荐技能在用户映射中且熟练度低于该值时课程入选
	SkillGapThreshold = 70
	// 排序口径：熟练度低于该值的推荐技能计为一个优先级缺口
	SkillPriorityThreshold = 50

	SortByRelevance = "relevance"
	SortByNewest    = "newest"

	DefaultRecommendationLimit = 20
)

// RecommendedCourse 推荐结果，附带调用者自己的进度
type RecommendedCourse struct {
	model.Course
	Progress int                  `json:"progress"`
	Status   model.ProgressStatus `json:"status"`
}

type RecommendationService struct {
	UserRepo     *repository.UserRepository
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
}

func NewRecommendationService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
) *RecommendationService {
	return &RecommendationService{
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
	}
}

type scoredCourse struct {
	course     model.Course
	roleMatch  bool
	gapCount   int
	inProgress bool
	progress   int
	status     model.ProgressStatus
}

// Recommend 返回用户尚未完成且未忽略的课程，按角色匹配和技能差打分排序。
// 候选条件：角色匹配，或至少一个推荐技能在用户技能映射中且熟练度低于阈值。
func (s *RecommendationService) Recommend(userID uint, sortBy string, limit int) ([]RecommendedCourse, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	courses, err := s.CourseRepo.ListAll()
	if err != nil {
		return nil, err
	}

	progressByCourse, err := s.ProgressRepo.MapByUser(userID)
	if err != nil {
		return nil, err
	}

	skills := user.SkillMap()

	candidates := make([]scoredCourse, 0, len(courses))
	for _, course := range courses {
		record := progressByCourse[course.ID]
		if record != nil && (record.Dismissed || record.Progress >= 100) {
			continue
		}

		roleMatch := course.MatchesRole(user.Role)
		skillMatch := false
		gapCount := 0
		for _, skill := range course.RecommendedSkills {
			level, tracked := skills[skill]
			if !tracked {
				continue
			}
			if level < SkillGapThreshold {
				skillMatch = true
			}
			if level < SkillPriorityThreshold {
				gapCount++
			}
		}

		if !roleMatch && !skillMatch {
			continue
		}

		sc := scoredCourse{
			course:    course,
			roleMatch: roleMatch,
			gapCount:  gapCount,
			status:    model.StatusNotStarted,
		}
		if record != nil {
			sc.progress = record.Progress
			sc.status = record.Status
			sc.inProgress = record.Progress > 0 && record.Progress < 100
		}
		candidates = append(candidates, sc)
	}

	// ListAll 已按创建时间倒序返回，newest 模式直接保序；
	// relevance 模式用稳定排序，创建时间作为最终并列项
	if sortBy != SortByNewest {
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.roleMatch != b.roleMatch {
				return a.roleMatch
			}
			if a.gapCount != b.gapCount {
				return a.gapCount > b.gapCount
			}
			if a.inProgress != b.inProgress {
				return b.inProgress
			}
			return false
		})
	}

	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]RecommendedCourse, len(candidates))
	for i, sc := range candidates {
		result[i] = RecommendedCourse{
			Course:   sc.course,
			Progress: sc.progress,
			Status:   sc.status,
		}
	}
	return result, nil
}
