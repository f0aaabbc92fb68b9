package service

import (
	"context"
	"ritual_tracker_backend/internal/model"
	"sort"
	"time"
)

// SessionStore 聚合与保存所依赖的记录存取接口，由
// repository.PracticeSessionRepository 实现
type SessionStore interface {
	Create(session *model.PracticeSession) error
	FindByStudent(studentID uint) ([]model.PracticeSession, error)
	FindByStudentAndRitual(studentID, ritualID uint) ([]model.PracticeSession, error)
	FindRecent(studentID, ritualID uint, limit int) ([]model.PracticeSession, error)
}

// RitualCatalog 仪式目录读取接口，由 repository.RitualRepository 实现
type RitualCatalog interface {
	FindAll(ctx context.Context) ([]model.Ritual, error)
	FindByID(id uint) (*model.Ritual, error)
}

// AggregateStats 某个范围（学生，或学生+仪式）下的派生统计，
// 每次从原始记录现算，从不落库
type AggregateStats struct {
	TotalSeconds int `json:"totalSeconds"`
	TotalMinutes int `json:"totalMinutes"`
	SessionCount int `json:"sessionCount"`
	StreakDays   int `json:"streakDays"`
}

// Dashboard 学生总览：目录中每个仪式各一份统计
type Dashboard struct {
	Rituals []DashboardEntry `json:"rituals"`
}

type DashboardEntry struct {
	Ritual model.Ritual   `json:"ritual"`
	Stats  AggregateStats `json:"stats"`
}

// RitualRollup 管理端单个学生按仪式汇总的一行。分钟为进位后的整分钟，
// 秒为不足一分钟的余数
type RitualRollup struct {
	RitualID      uint   `json:"ritualId"`
	RitualName    string `json:"ritualName"`
	Color         string `json:"color"`
	TotalSessions int    `json:"totalSessions"`
	TotalMinutes  int    `json:"totalMinutes"`
	ExtraSeconds  int    `json:"extraSeconds"`
}

type StatsService struct {
	Sessions            SessionStore
	Rituals             RitualCatalog
	RecentSessionsLimit int
}

func NewStatsService(sessions SessionStore, rituals RitualCatalog, recentLimit int) *StatsService {
	return &StatsService{
		Sessions:            sessions,
		Rituals:             rituals,
		RecentSessionsLimit: recentLimit,
	}
}

// NormalizeDuration 把一条记录归一为总秒数，是两种历史格式的唯一
// 处理点。duration_minutes 非空说明是旧格式：分钟数加不足一分钟的
// 余数秒；为空则 duration_seconds 即总秒数；两者都缺的脏记录按 0 算，
// 保证聚合总量仍可用。
func NormalizeDuration(s *model.PracticeSession) int {
	if s.DurationMinutes != nil {
		total := *s.DurationMinutes * 60
		if s.DurationSeconds != nil {
			total += *s.DurationSeconds
		}
		return total
	}
	if s.DurationSeconds != nil {
		return *s.DurationSeconds
	}
	return 0
}

// ComputeStats 对给定记录集计算派生统计。范围过滤由调用方负责，
// 这里对传入的记录集一视同仁。
func ComputeStats(sessions []model.PracticeSession, now time.Time) AggregateStats {
	stats := AggregateStats{SessionCount: len(sessions)}

	dates := make([]time.Time, 0, len(sessions))
	for i := range sessions {
		stats.TotalSeconds += NormalizeDuration(&sessions[i])
		dates = append(dates, sessions[i].CreatedAt)
	}
	stats.TotalMinutes = stats.TotalSeconds / 60
	stats.StreakDays = CalculateStreak(dates, now)

	return stats
}

// GetRitualStats 学生在单个仪式下的统计
func (s *StatsService) GetRitualStats(studentID, ritualID uint) (AggregateStats, error) {
	sessions, err := s.Sessions.FindByStudentAndRitual(studentID, ritualID)
	if err != nil {
		return AggregateStats{}, err
	}
	return ComputeStats(sessions, time.Now()), nil
}

// GetRecentSessions 最近 N 条记录，仅用于展示；截断不影响统计总量
func (s *StatsService) GetRecentSessions(studentID, ritualID uint, limit int) ([]model.PracticeSession, error) {
	if limit <= 0 || limit > s.RecentSessionsLimit {
		limit = s.RecentSessionsLimit
	}
	return s.Sessions.FindRecent(studentID, ritualID, limit)
}

// GetDashboard 学生总览：一次取回全部记录，按仪式分组后
// 对目录中每个仪式各算一份统计（没有记录的仪式给零值）
func (s *StatsService) GetDashboard(ctx context.Context, studentID uint) (*Dashboard, error) {
	catalog, err := s.Rituals.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.Sessions.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	byRitual := make(map[uint][]model.PracticeSession)
	for _, session := range sessions {
		byRitual[session.RitualID] = append(byRitual[session.RitualID], session)
	}

	now := time.Now()
	dashboard := &Dashboard{Rituals: make([]DashboardEntry, 0, len(catalog))}
	for _, ritual := range catalog {
		dashboard.Rituals = append(dashboard.Rituals, DashboardEntry{
			Ritual: ritual,
			Stats:  ComputeStats(byRitual[ritual.ID], now),
		})
	}

	return dashboard, nil
}

// GetStudentRollup 管理端视图：学生全部记录按仪式汇总，
// 分钟进位、秒数保留余数
func (s *StatsService) GetStudentRollup(ctx context.Context, studentID uint) ([]RitualRollup, error) {
	sessions, err := s.Sessions.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	colors := make(map[uint]string)
	if catalog, err := s.Rituals.FindAll(ctx); err == nil {
		for _, ritual := range catalog {
			colors[ritual.ID] = ritual.Color
		}
	}

	rollups := make(map[uint]*RitualRollup)
	for i := range sessions {
		session := &sessions[i]
		r, ok := rollups[session.RitualID]
		if !ok {
			r = &RitualRollup{
				RitualID:   session.RitualID,
				RitualName: session.RitualName,
				Color:      colors[session.RitualID],
			}
			rollups[session.RitualID] = r
		}
		r.TotalSessions++
		r.ExtraSeconds += NormalizeDuration(session)
	}

	result := make([]RitualRollup, 0, len(rollups))
	for _, r := range rollups {
		r.TotalMinutes = r.ExtraSeconds / 60
		r.ExtraSeconds = r.ExtraSeconds % 60
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RitualID < result[j].RitualID })

	return result, nil
}
