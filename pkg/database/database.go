package database

import (
	"fmt"
	"log"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedCatalog(db)

	return db, nil
}

// Migrate 建表，测试数据库复用同一迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseProgress{},
		&model.TrainingHistory{},
	)
}

// seedCatalog 课程表为空时插入默认课程目录
func seedCatalog(db *gorm.DB) {
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count > 0 {
		return
	}

	defaultCourses := []model.Course{
		{
			Title:             "Leading Distributed Teams",
			Category:          "management",
			DurationMinutes:   180,
			RecommendedRoles:  datatypes.NewJSONSlice([]string{"manager", "team_lead"}),
			RecommendedSkills: datatypes.NewJSONSlice([]string{"leadership", "communication"}),
			LearningOutcomes:  datatypes.NewJSONSlice([]string{"leadership", "communication"}),
		},
		{
			Title:             "SQL for Analysts",
			Category:          "data",
			DurationMinutes:   240,
			RecommendedRoles:  datatypes.NewJSONSlice([]string{"analyst"}),
			RecommendedSkills: datatypes.NewJSONSlice([]string{"sql", "data_analysis"}),
			LearningOutcomes:  datatypes.NewJSONSlice([]string{"sql", "data_analysis"}),
		},
		{
			Title:             "Effective Technical Writing",
			Category:          "communication",
			DurationMinutes:   90,
			RecommendedRoles:  datatypes.NewJSONSlice([]string{"engineer", "manager", "analyst"}),
			RecommendedSkills: datatypes.NewJSONSlice([]string{"communication", "writing"}),
			LearningOutcomes:  datatypes.NewJSONSlice([]string{"writing"}),
		},
	}

	for i := range defaultCourses {
		db.Create(&defaultCourses[i])
	}
}
