package model

import (
	"time"

	"gorm.io/datatypes"
)

// 最大技能熟练度，技能合并时不会超过该值
const MaxProficiency = 100

// Stats 用户学习统计，作为独立列存储，统一在一个事务中读改写
type Stats struct {
	CompletedCourses  int `gorm:"default:0" json:"completedCourses"`
	InProgressCourses int `gorm:"default:0" json:"inProgressCourses"`
	LearningHours     int `gorm:"default:0" json:"learningHours"`
}

// swagger:model User
type User struct {
	BaseModel
	Name      string                             `gorm:"size:100;not null" json:"name"`
	Email     string                             `gorm:"size:100;unique;not null" json:"email"`
	Password  string                             `gorm:"size:100;not null" json:"-"`
	Role      string                             `gorm:"size:50;default:'member'" json:"role"`
	Skills    datatypes.JSONType[map[string]int] `gorm:"type:json" json:"skills"`
	Stats     Stats                              `gorm:"embedded;embeddedPrefix:stat_" json:"stats"`
	// 登录路径显式写入，不依赖数据库默认值
	LastLogin time.Time                          `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// SkillMap 返回技能映射的副本，永不为 nil
func (u *User) SkillMap() map[string]int {
	skills := u.Skills.Data()
	out := make(map[string]int, len(skills))
	for name, level := range skills {
		out[name] = level
	}
	return out
}
