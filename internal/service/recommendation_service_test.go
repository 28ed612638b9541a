package service

import (
	"testing"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRecommendUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db)

	_, err := svc.Recommend(999, SortByRelevance, 10)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestRecommendRoleAndSkillGapFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db)

	user := createUser(t, db, "manager", map[string]int{
		"leadership":    75,
		"communication": 40,
	})

	courseA := createCourse(t, db, model.Course{
		Title:             "People Management",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"manager"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"communication"}),
	})
	// 角色不匹配且推荐技能不在用户技能映射中，应被排除
	createCourse(t, db, model.Course{
		Title:             "Data Analysis 101",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"analyst"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"data_analysis"}),
	})

	result, err := svc.Recommend(user.ID, SortByRelevance, 10)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, courseA.ID, result[0].ID)
}

func TestRecommendSkillGapThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db)

	// 角色不匹配任何课程，只能靠技能差入选
	user := createUser(t, db, "designer", map[string]int{
		"sql":    85,
		"python": 60,
	})

	// sql 85 >= 70，不构成技能差
	createCourse(t, db, model.Course{
		Title:             "Advanced SQL",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"analyst"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"sql"}),
	})
	matched := createCourse(t, db, model.Course{
		Title:             "Python Foundations",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"analyst"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"python"}),
	})

	result, err := svc.Recommend(user.ID, SortByRelevance, 10)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, matched.ID, result[0].ID)
}

func TestRecommendEmptySkillMapRoleOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db)

	user := createUser(t, db, "engineer", nil)

	matched := createCourse(t, db, model.Course{
		Title:             "Go Concurrency",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"engineer"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"go"}),
	})
	createCourse(t, db, model.Course{
		Title:             "Financial Modeling",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"analyst"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"excel"}),
	})

	result, err := svc.Recommend(user.ID, SortByRelevance, 10)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, matched.ID, result[0].ID)
}

func TestRecommendExcludesDismissedAndCompleted(t *testing.T) {
	db := newTestDB(t)
	recSvc := newRecommendationService(db)
	progSvc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)

	dismissed := createCourse(t, db, model.Course{
		Title:            "Dismissed Course",
		RecommendedRoles: datatypes.NewJSONSlice([]string{"engineer"}),
	})
	completed := createCourse(t, db, model.Course{
		Title:            "Completed Course",
		RecommendedRoles: datatypes.NewJSONSlice([]string{"engineer"}),
	})
	fresh := createCourse(t, db, model.Course{
		Title:            "Fresh Course",
		RecommendedRoles: datatypes.NewJSONSlice([]string{"engineer"}),
	})

	_, err := progSvc.Dismiss(user.ID, dismissed.ID)
	require.NoError(t, err)
	_, err = progSvc.UpdateProgress(user.ID, completed.ID, 100)
	require.NoError(t, err)

	result, err := recSvc.Recommend(user.ID, SortByRelevance, 10)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, fresh.ID, result[0].ID)
}

func TestRecommendRelevanceOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db)

	user := createUser(t, db, "engineer", map[string]int{
		"go":     30,
		"sql":    30,
		"docker": 60,
	})

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 角色匹配 + 两个优先级缺口(<50)
	twoGaps := createCourse(t, db, model.Course{
		Title:             "Backend Fundamentals",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"engineer"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"go", "sql"}),
		BaseModel:         model.BaseModel{CreatedAt: base},
	})
	// 角色匹配 + 一个优先级缺口
	oneGap := createCourse(t, db, model.Course{
		Title:             "Go Basics",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"engineer"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"go"}),
		BaseModel:         model.BaseModel{CreatedAt: base.Add(time.Hour)},
	})
	// 仅技能差匹配（docker 60 < 70 但 >= 50，没有优先级缺口）
	skillOnly := createCourse(t, db, model.Course{
		Title:             "Docker Deep Dive",
		RecommendedRoles:  datatypes.NewJSONSlice([]string{"sre"}),
		RecommendedSkills: datatypes.NewJSONSlice([]string{"docker"}),
		BaseModel:         model.BaseModel{CreatedAt: base.Add(2 * time.Hour)},
	})

	result, err := svc.Recommend(user.ID, SortByRelevance, 10)
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, twoGaps.ID, result[0].ID)
	assert.Equal(t, oneGap.ID, result[1].ID)
	assert.Equal(t, skillOnly.ID, result[2].ID)
}

func TestRecommendInProgressRanksBelowFresh(t *testing.T) {
	db := newTestDB(t)
	recSvc := newRecommendationService(db)
	progSvc := newProgressService(db)

	user := createUser(t, db, "engineer", nil)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	started := createCourse(t, db, model.Course{
		Title:            "Started Course",
		RecommendedRoles: datatypes.NewJSONSlice([]string{"engineer"}),
		BaseModel:        model.BaseModel{CreatedAt: base.Add(time.Hour)},
	})
	fresh := createCourse(t, db, model.Course{
		Title:            "Fresh Course",
		RecommendedRoles: datatypes.NewJSONSlice([]string{"engineer"}),
		BaseModel:        model.BaseModel{CreatedAt: base},
	})

	_, err := progSvc.UpdateProgress(user.ID, started.ID, 50)
	require.NoError(t, err)

	result, err := recSvc.Recommend(user.ID, SortByRelevance, 10)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, fresh.ID, result[0].ID)
	assert.Equal(t, started.ID, result[1].ID)
	assert.Equal(t, 50, result[1].Progress)
	assert.Equal(t, model.StatusInProgress, result[1].Status)
}

func TestRecommendNewestOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db)

	user := createUser(t, db, "engineer", nil)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older := createCourse(t, db, model.Course{
		Title:            "Older Course",
		RecommendedRoles: datatypes.NewJSONSlice([]string{"engineer"}),
		BaseModel:        model.BaseModel{CreatedAt: base},
	})
	newer := createCourse(t, db, model.Course{
		Title:            "Newer Course",
		RecommendedRoles: datatypes.NewJSONSlice([]string{"engineer"}),
		BaseModel:        model.BaseModel{CreatedAt: base.Add(time.Hour)},
	})

	result, err := svc.Recommend(user.ID, SortByNewest, 10)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, newer.ID, result[0].ID)
	assert.Equal(t, older.ID, result[1].ID)
}

func TestRecommendLimit(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db)

	user := createUser(t, db, "engineer", nil)

	for i := 0; i < 5; i++ {
		createCourse(t, db, model.Course{
			RecommendedRoles: datatypes.NewJSONSlice([]string{"engineer"}),
		})
	}

	result, err := svc.Recommend(user.ID, SortByRelevance, 3)
	require.NoError(t, err)
	assert.Len(t, result, 3)
}
