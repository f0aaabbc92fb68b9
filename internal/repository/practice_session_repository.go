package repository

import (
	"ritual_tracker_backend/internal/model"

	"gorm.io/gorm"
)

// PracticeSessionRepository 练习记录仓库。表只追加：没有更新或删除方法，
// 记录写入后不可变（删除学生账号时的级联清理由数据库外键处理）。
type PracticeSessionRepository struct {
	DB *gorm.DB
}

func NewPracticeSessionRepository(db *gorm.DB) *PracticeSessionRepository {
	return &PracticeSessionRepository{DB: db}
}

// Create 追加一条练习记录
func (r *PracticeSessionRepository) Create(session *model.PracticeSession) error {
	return r.DB.Create(session).Error
}

// FindByStudent 获取学生的全部练习记录
func (r *PracticeSessionRepository) FindByStudent(studentID uint) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	err := r.DB.Where("student_id = ?", studentID).Find(&sessions).Error
	return sessions, err
}

// FindByStudentAndRitual 获取学生在某个仪式下的全部练习记录
func (r *PracticeSessionRepository) FindByStudentAndRitual(studentID, ritualID uint) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	err := r.DB.Where("student_id = ? AND ritual_id = ?", studentID, ritualID).Find(&sessions).Error
	return sessions, err
}

// FindRecent 按创建时间倒序取最近 limit 条记录
func (r *PracticeSessionRepository) FindRecent(studentID, ritualID uint, limit int) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	err := r.DB.Where("student_id = ? AND ritual_id = ?", studentID, ritualID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
