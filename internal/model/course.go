package model

import (
	"gorm.io/datatypes"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title             string                      `gorm:"size:255;not null" json:"title"`
	Category          string                      `gorm:"size:100;index" json:"category"`
	DurationMinutes   int                         `gorm:"default:0" json:"durationMinutes"`
	RecommendedRoles  datatypes.JSONSlice[string] `gorm:"type:json" json:"recommendedRoles"`
	RecommendedSkills datatypes.JSONSlice[string] `gorm:"type:json" json:"recommendedSkills"`
	LearningOutcomes  datatypes.JSONSlice[string] `gorm:"type:json" json:"learningOutcomes"`
}

func (Course) TableName() string {
	return "courses"
}

// MatchesRole 判断课程推荐角色集合是否包含给定角色。
// 空集合不匹配任何角色。
func (c *Course) MatchesRole(role string) bool {
	for _, r := range c.RecommendedRoles {
		if r == role {
			return true
		}
	}
	return false
}
