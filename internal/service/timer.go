package service

import (
	"ritual_tracker_backend/internal/util"
	"sync"
	"time"
)

type TimerStatus string

const (
	TimerIdle      TimerStatus = "idle"
	TimerRunning   TimerStatus = "running"
	TimerPaused    TimerStatus = "paused"
	TimerCompleted TimerStatus = "completed" // 仅倒计时模式：剩余归零
	TimerStopped   TimerStatus = "stopped"   // 用户提前结束
)

// TimerSnapshot 供展示层读取的只读快照
type TimerSnapshot struct {
	Status           TimerStatus `json:"status"`
	ElapsedSeconds   int         `json:"elapsedSeconds"`
	RemainingSeconds int         `json:"remainingSeconds"`
	TargetSeconds    int         `json:"targetSeconds"`
	Countdown        bool        `json:"countdown"`
}

// PracticeTimer 单次练习的计时器状态机。
//
// 运行期间由一个每秒触发的 goroutine 驱动；pause/stop/reset 递增
// generation 使在途的 tick 作废，保证暂停后不再累加。elapsed 只在
// reset 时归零，其余情况单调不减。倒计时模式下剩余归零是终态，
// elapsed 固定为目标时长。
type PracticeTimer struct {
	mu         sync.Mutex
	status     TimerStatus
	elapsed    int
	target     int // 倒计时目标秒数，0 表示正计时模式
	countdown  bool
	generation int
	interval   time.Duration
}

func NewPracticeTimer(targetSeconds int, countdown bool) *PracticeTimer {
	return &PracticeTimer{
		status:    TimerIdle,
		target:    targetSeconds,
		countdown: countdown,
		interval:  time.Second,
	}
}

// configure 重设计时模式与目标。仅 Idle 状态生效：运行中或已停止的
// 计时器保持原模式，直到被重置
func (t *PracticeTimer) configure(targetSeconds int, countdown bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != TimerIdle {
		return
	}
	t.target = targetSeconds
	t.countdown = countdown
}

// Start Idle -> Running，启动 tick 源
func (t *PracticeTimer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != TimerIdle {
		return util.ErrTimerAlreadyActive
	}

	t.status = TimerRunning
	t.generation++
	go t.run(t.generation)
	return nil
}

// Pause Running -> Paused，暂停期间不累计时间
func (t *PracticeTimer) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != TimerRunning {
		return util.ErrTimerNotRunning
	}

	t.status = TimerPaused
	t.generation++
	return nil
}

// Resume Paused -> Running，启动新的 tick 源
func (t *PracticeTimer) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != TimerPaused {
		return util.ErrTimerNotPaused
	}

	t.status = TimerRunning
	t.generation++
	go t.run(t.generation)
	return nil
}

// Stop Running|Paused -> Stopped，已累计的时间保留
func (t *PracticeTimer) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != TimerRunning && t.status != TimerPaused {
		return util.ErrTimerNotRunning
	}

	t.status = TimerStopped
	t.generation++
	return nil
}

// Reset 任意状态 -> Idle，时间归零
func (t *PracticeTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = TimerIdle
	t.elapsed = 0
	t.generation++
}

func (t *PracticeTimer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *PracticeTimer) snapshotLocked() TimerSnapshot {
	snap := TimerSnapshot{
		Status:         t.status,
		ElapsedSeconds: t.elapsed,
		TargetSeconds:  t.target,
		Countdown:      t.countdown,
	}
	if t.countdown {
		remaining := t.target - t.elapsed
		if remaining < 0 {
			remaining = 0
		}
		snap.RemainingSeconds = remaining
	}
	return snap
}

func (t *PracticeTimer) run(generation int) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for range ticker.C {
		if !t.tick(generation) {
			return
		}
	}
}

// tick 累加一秒。generation 不匹配说明该 tick 源已被 pause/stop/reset
// 作废，直接丢弃并退出
func (t *PracticeTimer) tick(generation int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if generation != t.generation || t.status != TimerRunning {
		return false
	}

	t.elapsed++

	if t.countdown && t.elapsed >= t.target {
		t.elapsed = t.target
		t.status = TimerCompleted
		t.generation++
		return false
	}

	return true
}
