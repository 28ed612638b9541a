package service

import (
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestUpdateProgressValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 60})

	_, err := svc.UpdateProgress(user.ID, course.ID, -1)
	assert.ErrorIs(t, err, util.ErrInvalidProgress)

	_, err = svc.UpdateProgress(user.ID, course.ID, 101)
	assert.ErrorIs(t, err, util.ErrInvalidProgress)
}

func TestUpdateProgressUnknownUserOrCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 60})

	_, err := svc.UpdateProgress(user.ID+999, course.ID, 50)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = svc.UpdateProgress(user.ID, course.ID+999, 50)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestUpdateProgressCreatesRecord(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 60})

	record, err := svc.UpdateProgress(user.ID, course.ID, 40)
	require.NoError(t, err)

	assert.Equal(t, 40, record.Progress)
	assert.Equal(t, model.StatusInProgress, record.Status)
	assert.Nil(t, record.CompletedAt)
	assert.False(t, record.LastAccessedAt.IsZero())

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.Stats.InProgressCourses)
	assert.Equal(t, 0, updated.Stats.CompletedCourses)

	var historyCount int64
	db.Model(&model.TrainingHistory{}).Count(&historyCount)
	assert.EqualValues(t, 0, historyCount)
}

func TestUpdateProgressStatusDerivation(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 60})

	record, err := svc.UpdateProgress(user.ID, course.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotStarted, record.Status)

	record, err = svc.UpdateProgress(user.ID, course.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, record.Status)

	record, err = svc.UpdateProgress(user.ID, course.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)
}

func TestFirstCompletionAppendsHistoryAndStats(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{Title: "Kubernetes Basics", Category: "infra", DurationMinutes: 120})

	record, err := svc.UpdateProgress(user.ID, course.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)

	var entries []model.TrainingHistory
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, user.ID, entries[0].UserID)
	assert.Equal(t, course.ID, entries[0].CourseID)
	assert.Equal(t, 120, entries[0].DurationMinutes)
	assert.Equal(t, 100, entries[0].Score)
	assert.True(t, entries[0].Certificate)
	assert.NotEmpty(t, entries[0].CertificateID)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.Stats.CompletedCourses)
	assert.Equal(t, 2, updated.Stats.LearningHours)
	// 直接完成未经过进行中状态，不计入 inProgress
	assert.Equal(t, 0, updated.Stats.InProgressCourses)
}

func TestRepeatedCompletionDoesNotDuplicateHistory(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 60})

	_, err := svc.UpdateProgress(user.ID, course.ID, 100)
	require.NoError(t, err)
	_, err = svc.UpdateProgress(user.ID, course.ID, 100)
	require.NoError(t, err)

	var historyCount int64
	db.Model(&model.TrainingHistory{}).Count(&historyCount)
	assert.EqualValues(t, 1, historyCount)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.Stats.CompletedCourses)
}

func TestProgressRegressionKeepsStats(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 60})

	_, err := svc.UpdateProgress(user.ID, course.ID, 100)
	require.NoError(t, err)

	record, err := svc.UpdateProgress(user.ID, course.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, record.Status)
	assert.Nil(t, record.CompletedAt)

	// 统计只增不减
	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.Stats.CompletedCourses)
	assert.Equal(t, 0, updated.Stats.InProgressCourses)
}

func TestLearningHoursRounding(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 50})

	_, err := svc.UpdateProgress(user.ID, course.ID, 100)
	require.NoError(t, err)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.Stats.LearningHours)
}

func TestCompletionMergesLearningOutcomes(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", map[string]int{
		"go":            55,
		"sql":           95,
		"communication": 40,
	})
	course := createCourse(t, db, model.Course{
		DurationMinutes:  60,
		LearningOutcomes: datatypes.NewJSONSlice([]string{"go", "sql", "python"}),
	})

	_, err := svc.UpdateProgress(user.ID, course.ID, 100)
	require.NoError(t, err)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	skills := updated.SkillMap()

	assert.Equal(t, 65, skills["go"])
	// 上限100，不会超过
	assert.Equal(t, 100, skills["sql"])
	// 成果未覆盖的技能保持不变
	assert.Equal(t, 40, skills["communication"])
	// 用户未跟踪的技能不会新增
	_, tracked := skills["python"]
	assert.False(t, tracked)
}

func TestDismissCreatesRecordWhenAbsent(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 60})

	record, err := svc.Dismiss(user.ID, course.ID)
	require.NoError(t, err)

	assert.True(t, record.Dismissed)
	assert.Equal(t, 0, record.Progress)
	assert.Equal(t, model.StatusNotStarted, record.Status)
	assert.False(t, record.LastAccessedAt.IsZero())
}

func TestProgressUpdateClearsDismissal(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	rec := newRecommendationService(db)

	user := createUser(t, db, "engineer", map[string]int{"go": 40})
	course := createCourse(t, db, model.Course{
		Title:             "Go Concurrency",
		DurationMinutes:   60,
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"engineer"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"go"}),
	})

	_, err := svc.Dismiss(user.ID, course.ID)
	require.NoError(t, err)

	result, err := rec.Recommend(user.ID, SortByRelevance, 10)
	require.NoError(t, err)
	assert.Empty(t, result)

	record, err := svc.UpdateProgress(user.ID, course.ID, 50)
	require.NoError(t, err)
	assert.False(t, record.Dismissed)

	// 忽略标记清除后课程重新出现在推荐里
	result, err = rec.Recommend(user.ID, SortByRelevance, 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, course.ID, result[0].ID)
}

func TestDismissUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)

	_, err := svc.Dismiss(user.ID, 999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestDismissPreservesExistingProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)
	course := createCourse(t, db, model.Course{DurationMinutes: 60})

	_, err := svc.UpdateProgress(user.ID, course.ID, 30)
	require.NoError(t, err)

	record, err := svc.Dismiss(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, record.Dismissed)
	assert.Equal(t, 30, record.Progress)
}
