package database

import (
	"fmt"
	"log"
	"ritual_tracker_backend/internal/config"
	"ritual_tracker_backend/internal/model"

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

	err = db.AutoMigrate(
		&model.User{},
		&model.Ritual{},
		&model.PracticeSession{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认的仪式目录（为空时播种，内容固定不可由接口修改）
	var count int64
	db.Model(&model.Ritual{}).Count(&count)
	if count == 0 {
		defaultRituals := []model.Ritual{
			{
				Name: "Meditation", Description: "Inner peace through mindfulness",
				Color: "#8B5CF6", Icon: "🧘", DurationMinutes: 10,
				HowToPractice: []string{"Find a quiet, comfortable place", "Close your eyes and take deep breaths", "Focus on your breathing pattern"},
				Benefits:      []string{"Reduces stress", "Improves focus", "Emotional balance"},
			},
			{
				Name: "Yoga", Description: "Harmonize body and mind",
				Color: "#EC4899", Icon: "🤸", DurationMinutes: 15,
				HowToPractice: []string{"Warm up with gentle stretches", "Practice basic asanas", "End with relaxation pose"},
				Benefits:      []string{"Improved flexibility", "Stronger muscles", "Mental clarity"},
			},
			{
				Name: "Reading", Description: "Expand your mind and soul",
				Color: "#F97316", Icon: "📚", DurationMinutes: 20,
				HowToPractice: []string{"Choose a book of interest", "Read without distractions", "Reflect on what you learned"},
				Benefits:      []string{"Increased knowledge", "Reduced stress", "Better vocabulary"},
			},
			{
				Name: "Journaling", Description: "Express and reflect deeply",
				Color: "#06B6D4", Icon: "✍️", DurationMinutes: 10,
				HowToPractice: []string{"Sit in a quiet place", "Write without censoring yourself", "Review periodically"},
				Benefits:      []string{"Emotional clarity", "Stress relief", "Self-awareness"},
			},
			{
				Name: "Exercise", Description: "Energize your body",
				Color: "#10B981", Icon: "🏃", DurationMinutes: 20,
				HowToPractice: []string{"Warm up for 2-3 minutes", "Choose your preferred activity", "Cool down and stretch"},
				Benefits:      []string{"Stronger body", "More energy", "Better mood"},
			},
			{
				Name: "Gratitude", Description: "Appreciate life's blessings",
				Color: "#F59E0B", Icon: "🙏", DurationMinutes: 5,
				HowToPractice: []string{"List three things you are grateful for", "Be specific about each one", "Feel the appreciation"},
				Benefits:      []string{"More positivity", "Better relationships", "Improved sleep"},
			},
			{
				Name: "Breathing", Description: "Control your vital energy",
				Color: "#06B6D4", Icon: "💨", DurationMinutes: 5,
				HowToPractice: []string{"Sit comfortably upright", "Inhale slowly through the nose", "Exhale longer than you inhale"},
				Benefits:      []string{"Calms the mind", "Lowers stress", "Better focus"},
			},
			{
				Name: "Nature Walk", Description: "Connect with the earth",
				Color: "#22C55E", Icon: "🌿", DurationMinutes: 20,
				HowToPractice: []string{"Choose a green route", "Walk at an easy pace", "Notice sounds and smells"},
				Benefits:      []string{"Fresh perspective", "Light exercise", "Reduced anxiety"},
			},
			{
				Name: "Affirmations", Description: "Build positive self-belief",
				Color: "#EC4899", Icon: "✨", DurationMinutes: 5,
				HowToPractice: []string{"Choose a short positive phrase", "Repeat it aloud with intention", "Visualize it as already true"},
				Benefits:      []string{"Stronger self-belief", "Positive mindset", "Motivation"},
			},
			{
				Name: "Mindfulness", Description: "Nourish with awareness",
				Color: "#F97316", Icon: "🥗", DurationMinutes: 15,
				HowToPractice: []string{"Pause before acting", "Observe thoughts without judgment", "Return attention to the present"},
				Benefits:      []string{"Present-moment awareness", "Less rumination", "Calmer reactions"},
			},
		}
		for _, r := range defaultRituals {
			db.Create(&r)
		}
	}

	return db, nil
}
