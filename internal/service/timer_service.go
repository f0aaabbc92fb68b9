package service

import (
	"ritual_tracker_backend/internal/util"
	"ritual_tracker_backend/pkg/monitoring"
	"sync"
)

type timerKey struct {
	studentID uint
	ritualID  uint
}

// TimerService 持有所有活动计时器，每个（学生，仪式）组合至多一个。
// 计时器纯内存，服务重启即丢弃，未保存的练习时间不落库。
type TimerService struct {
	mu      sync.Mutex
	timers  map[timerKey]*PracticeTimer
	Rituals RitualCatalog
}

func NewTimerService(rituals RitualCatalog) *TimerService {
	return &TimerService{
		timers:  make(map[timerKey]*PracticeTimer),
		Rituals: rituals,
	}
}

// Start 创建（或复用 Idle 的）计时器并启动。countdown 为真时以仪式
// 建议时长为倒计时目标，否则为开放的正计时
func (s *TimerService) Start(studentID, ritualID uint, countdown bool) (TimerSnapshot, error) {
	ritual, err := s.Rituals.FindByID(ritualID)
	if err != nil {
		return TimerSnapshot{}, util.ErrRitualNotFound
	}

	key := timerKey{studentID: studentID, ritualID: ritualID}

	target := 0
	if countdown {
		target = ritual.DurationMinutes * 60
	}

	s.mu.Lock()
	timer, ok := s.timers[key]
	if !ok {
		timer = NewPracticeTimer(target, countdown)
		s.timers[key] = timer
		monitoring.TimersActive.Set(float64(len(s.timers)))
	}
	s.mu.Unlock()

	// 复用保存/重置后留下的 Idle 实例时按本次请求的模式重新配置
	if ok {
		timer.configure(target, countdown)
	}

	if err := timer.Start(); err != nil {
		return timer.Snapshot(), err
	}
	return timer.Snapshot(), nil
}

func (s *TimerService) Pause(studentID, ritualID uint) (TimerSnapshot, error) {
	return s.command(studentID, ritualID, (*PracticeTimer).Pause)
}

func (s *TimerService) Resume(studentID, ritualID uint) (TimerSnapshot, error) {
	return s.command(studentID, ritualID, (*PracticeTimer).Resume)
}

func (s *TimerService) Stop(studentID, ritualID uint) (TimerSnapshot, error) {
	return s.command(studentID, ritualID, (*PracticeTimer).Stop)
}

// Reset 计时归零并回到 Idle；计时器实例保留，便于立即重新开始
func (s *TimerService) Reset(studentID, ritualID uint) (TimerSnapshot, error) {
	timer, err := s.find(studentID, ritualID)
	if err != nil {
		return TimerSnapshot{}, err
	}
	timer.Reset()
	return timer.Snapshot(), nil
}

// Discard 丢弃计时器（练习界面关闭时调用），立即停止 tick 源
func (s *TimerService) Discard(studentID, ritualID uint) {
	key := timerKey{studentID: studentID, ritualID: ritualID}

	s.mu.Lock()
	timer, ok := s.timers[key]
	if ok {
		delete(s.timers, key)
		monitoring.TimersActive.Set(float64(len(s.timers)))
	}
	s.mu.Unlock()

	if ok {
		timer.Reset()
	}
}

func (s *TimerService) Snapshot(studentID, ritualID uint) (TimerSnapshot, error) {
	timer, err := s.find(studentID, ritualID)
	if err != nil {
		return TimerSnapshot{}, err
	}
	return timer.Snapshot(), nil
}

func (s *TimerService) command(studentID, ritualID uint, cmd func(*PracticeTimer) error) (TimerSnapshot, error) {
	timer, err := s.find(studentID, ritualID)
	if err != nil {
		return TimerSnapshot{}, err
	}
	if err := cmd(timer); err != nil {
		return timer.Snapshot(), err
	}
	return timer.Snapshot(), nil
}

func (s *TimerService) find(studentID, ritualID uint) (*PracticeTimer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[timerKey{studentID: studentID, ritualID: ritualID}]
	if !ok {
		return nil, util.ErrTimerNotFound
	}
	return timer, nil
}
