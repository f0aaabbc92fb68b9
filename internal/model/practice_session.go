package model

import (
	"time"
)

// PracticeSession 一次已完成的练习记录，只追加、写入后不可变。
//
// 历史数据存在两种时长格式：旧记录写 duration_minutes（整分钟）加
// duration_seconds（不足一分钟的余数）；新记录只写 duration_seconds
// （总秒数），duration_minutes 为 NULL。读取方统一经
// service.NormalizeDuration 归一为总秒数后再聚合。
// swagger:model PracticeSession
type PracticeSession struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID       uint      `gorm:"index:idx_student_ritual;type:bigint unsigned;not null" json:"studentId"`
	RitualID        uint      `gorm:"index:idx_student_ritual;type:bigint unsigned;not null" json:"ritualId"`
	RitualName      string    `gorm:"size:100;not null" json:"ritualName"` // 记录时目录名称的冗余副本
	DurationMinutes *int      `gorm:"default:null" json:"durationMinutes,omitempty"`
	DurationSeconds *int      `gorm:"default:null" json:"durationSeconds,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
}

func (PracticeSession) TableName() string {
	return "practice_sessions"
}
