package service

import (
	"ritual_tracker_backend/internal/model"
	"ritual_tracker_backend/internal/util"
	"ritual_tracker_backend/pkg/monitoring"
	"time"
)

// PracticeService 把一次完成的计时转成一条持久的练习记录。
// 每次 Save 至多写入一条记录；写库失败时计时器保持原状，
// 已累计的练习时间不丢失，调用方可以重试。
type PracticeService struct {
	Sessions SessionStore
	Rituals  RitualCatalog
	Timers   *TimerService
	Stats    *StatsService
}

func NewPracticeService(sessions SessionStore, rituals RitualCatalog, timers *TimerService, stats *StatsService) *PracticeService {
	return &PracticeService{
		Sessions: sessions,
		Rituals:  rituals,
		Timers:   timers,
		Stats:    stats,
	}
}

// Save 保存当前计时器累计的练习时间。
//
// 先取快照校验 elapsed > 0（保存成功后计时器被重置，重复保存因
// elapsed 为 0 被拒，不会产生重复记录）；插入成功后才重置计时器并
// 重新计算统计，返回的统计必然包含刚写入的记录。
func (s *PracticeService) Save(studentID, ritualID uint) (*model.PracticeSession, AggregateStats, error) {
	snap, err := s.Timers.Snapshot(studentID, ritualID)
	if err != nil {
		return nil, AggregateStats{}, err
	}

	if snap.ElapsedSeconds <= 0 {
		return nil, AggregateStats{}, util.ErrZeroDuration
	}

	ritual, err := s.Rituals.FindByID(ritualID)
	if err != nil {
		return nil, AggregateStats{}, util.ErrRitualNotFound
	}

	elapsed := snap.ElapsedSeconds
	record := &model.PracticeSession{
		StudentID:       studentID,
		RitualID:        ritual.ID,
		RitualName:      ritual.Name,
		DurationSeconds: &elapsed,
		CreatedAt:       time.Now(),
	}

	if err := s.Sessions.Create(record); err != nil {
		// 计时器保持原状，允许重试
		return nil, AggregateStats{}, err
	}

	monitoring.SessionsSaved.WithLabelValues(ritual.Name).Inc()
	s.Timers.Reset(studentID, ritualID)

	stats, err := s.Stats.GetRitualStats(studentID, ritualID)
	if err != nil {
		// 记录已写入，只是统计刷新失败；上报为"统计暂不可用"，
		// 不能当成保存失败（重试会因计时器已重置变成零时长）
		return record, AggregateStats{}, util.ErrStatsUnavailable
	}

	return record, stats, nil
}
