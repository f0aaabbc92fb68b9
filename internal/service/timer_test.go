package service

import (
	"ritual_tracker_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTimer 把 tick 间隔调大，测试里手动驱动 tick，
// 真正的 ticker goroutine 在测试结束前不会触发
func newTestTimer(targetSeconds int, countdown bool) *PracticeTimer {
	timer := NewPracticeTimer(targetSeconds, countdown)
	timer.interval = time.Hour
	return timer
}

func (t *PracticeTimer) currentGeneration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

func advance(t *PracticeTimer, seconds int) {
	gen := t.currentGeneration()
	for i := 0; i < seconds; i++ {
		t.tick(gen)
	}
}

func TestTimerPauseResumeAccrual(t *testing.T) {
	timer := newTestTimer(0, false)
	require.NoError(t, timer.Start())

	advance(timer, 3)
	require.NoError(t, timer.Pause())
	assert.Equal(t, TimerPaused, timer.Snapshot().Status)

	require.NoError(t, timer.Resume())
	advance(timer, 2)

	// 暂停贡献0秒：不管中间多少次暂停/恢复，累计就是运行的秒数
	snap := timer.Snapshot()
	assert.Equal(t, 5, snap.ElapsedSeconds)
	assert.Equal(t, TimerRunning, snap.Status)
}

func TestTimerStaleTickDiscarded(t *testing.T) {
	timer := newTestTimer(0, false)
	require.NoError(t, timer.Start())

	staleGen := timer.currentGeneration()
	advance(timer, 2)
	require.NoError(t, timer.Pause())

	// 暂停前已在途的 tick 送达时状态已变，必须丢弃
	assert.False(t, timer.tick(staleGen))
	assert.Equal(t, 2, timer.Snapshot().ElapsedSeconds)
}

func TestTimerCountdownCompletion(t *testing.T) {
	timer := newTestTimer(3, true)
	require.NoError(t, timer.Start())

	gen := timer.currentGeneration()
	assert.True(t, timer.tick(gen))
	assert.True(t, timer.tick(gen))
	// 第三秒触发终态
	assert.False(t, timer.tick(gen))

	snap := timer.Snapshot()
	assert.Equal(t, TimerCompleted, snap.Status)
	assert.Equal(t, 3, snap.ElapsedSeconds)
	assert.Equal(t, 0, snap.RemainingSeconds)

	// 终态后的 tick 一律丢弃
	assert.False(t, timer.tick(gen))
	assert.Equal(t, 3, timer.Snapshot().ElapsedSeconds)
}

func TestTimerRemainingFloor(t *testing.T) {
	timer := newTestTimer(10, true)
	require.NoError(t, timer.Start())
	advance(timer, 4)

	snap := timer.Snapshot()
	assert.Equal(t, 6, snap.RemainingSeconds)
	assert.Equal(t, TimerRunning, snap.Status)
}

func TestTimerStopKeepsElapsed(t *testing.T) {
	timer := newTestTimer(0, false)
	require.NoError(t, timer.Start())
	advance(timer, 7)
	require.NoError(t, timer.Stop())

	snap := timer.Snapshot()
	assert.Equal(t, TimerStopped, snap.Status)
	assert.Equal(t, 7, snap.ElapsedSeconds)
}

func TestTimerResetReturnsToIdle(t *testing.T) {
	timer := newTestTimer(10, true)
	require.NoError(t, timer.Start())
	advance(timer, 4)
	require.NoError(t, timer.Stop())

	timer.Reset()

	snap := timer.Snapshot()
	assert.Equal(t, TimerIdle, snap.Status)
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.Equal(t, 10, snap.RemainingSeconds)
}

func TestTimerInvalidTransitions(t *testing.T) {
	timer := newTestTimer(0, false)

	assert.ErrorIs(t, timer.Pause(), util.ErrTimerNotRunning)
	assert.ErrorIs(t, timer.Resume(), util.ErrTimerNotPaused)
	assert.ErrorIs(t, timer.Stop(), util.ErrTimerNotRunning)

	require.NoError(t, timer.Start())
	assert.ErrorIs(t, timer.Start(), util.ErrTimerAlreadyActive)
}

func TestTimerServiceOneTimerPerScope(t *testing.T) {
	svc := NewTimerService(testCatalog())

	_, err := svc.Start(1, 1, false)
	require.NoError(t, err)

	// 同一（学生，仪式）组合重复启动被拒
	_, err = svc.Start(1, 1, false)
	assert.ErrorIs(t, err, util.ErrTimerAlreadyActive)

	// 其他仪式/学生互不影响
	_, err = svc.Start(1, 2, false)
	assert.NoError(t, err)
	_, err = svc.Start(2, 1, true)
	assert.NoError(t, err)
}

func TestTimerServiceUnknownRitual(t *testing.T) {
	svc := NewTimerService(testCatalog())

	_, err := svc.Start(1, 99, true)
	assert.ErrorIs(t, err, util.ErrRitualNotFound)
}

func TestTimerServiceCountdownTarget(t *testing.T) {
	svc := NewTimerService(testCatalog())

	snap, err := svc.Start(1, 1, true)
	require.NoError(t, err)
	// 倒计时目标取自目录的建议时长
	assert.Equal(t, 600, snap.TargetSeconds)
	assert.True(t, snap.Countdown)
}

func TestTimerServiceModeSwitchAfterReset(t *testing.T) {
	svc := NewTimerService(testCatalog())

	_, err := svc.Start(1, 1, false)
	require.NoError(t, err)
	_, err = svc.Stop(1, 1)
	require.NoError(t, err)
	_, err = svc.Reset(1, 1)
	require.NoError(t, err)

	// 重置后复用的实例按本次请求的模式配置，不继承上一轮的正计时
	snap, err := svc.Start(1, 1, true)
	require.NoError(t, err)
	assert.True(t, snap.Countdown)
	assert.Equal(t, 600, snap.TargetSeconds)

	// 反向同理：倒计时重置后可开成正计时
	_, err = svc.Stop(1, 1)
	require.NoError(t, err)
	_, err = svc.Reset(1, 1)
	require.NoError(t, err)

	snap, err = svc.Start(1, 1, false)
	require.NoError(t, err)
	assert.False(t, snap.Countdown)
	assert.Equal(t, 0, snap.TargetSeconds)
}

func TestTimerServiceDiscard(t *testing.T) {
	svc := NewTimerService(testCatalog())

	_, err := svc.Start(1, 1, false)
	require.NoError(t, err)

	svc.Discard(1, 1)

	_, err = svc.Snapshot(1, 1)
	assert.ErrorIs(t, err, util.ErrTimerNotFound)
}
