package service

import (
	"errors"
	"ritual_tracker_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPracticeFixture(store *fakeSessionStore) (*PracticeService, *TimerService) {
	catalog := testCatalog()
	timers := NewTimerService(catalog)
	stats := NewStatsService(store, catalog, 10)
	practice := NewPracticeService(store, catalog, timers, stats)
	return practice, timers
}

// installTestTimer 预先放入手动驱动的计时器，Start 会复用它
func installTestTimer(timers *TimerService, studentID, ritualID uint) *PracticeTimer {
	timer := newTestTimer(0, false)
	timers.mu.Lock()
	timers.timers[timerKey{studentID: studentID, ritualID: ritualID}] = timer
	timers.mu.Unlock()
	return timer
}

// startAndAccrue 启动计时、手动累计 seconds 秒后停止
func startAndAccrue(t *testing.T, timers *TimerService, studentID, ritualID uint, seconds int) {
	t.Helper()
	timer := installTestTimer(timers, studentID, ritualID)
	_, err := timers.Start(studentID, ritualID, false)
	require.NoError(t, err)

	advance(timer, seconds)
	_, err = timers.Stop(studentID, ritualID)
	require.NoError(t, err)
}

func TestSaveEndToEnd(t *testing.T) {
	store := &fakeSessionStore{}
	practice, timers := newPracticeFixture(store)

	startAndAccrue(t, timers, 1, 1, 125)

	record, stats, err := practice.Save(1, 1)
	require.NoError(t, err)

	require.NotNil(t, record.DurationSeconds)
	assert.Equal(t, 125, *record.DurationSeconds)
	assert.Nil(t, record.DurationMinutes)
	assert.Equal(t, "Meditation", record.RitualName)
	assert.Equal(t, uint(1), record.StudentID)

	// 返回的统计已包含刚写入的记录
	assert.GreaterOrEqual(t, stats.TotalSeconds, 125)
	assert.GreaterOrEqual(t, stats.SessionCount, 1)

	// 保存成功后计时器被重置
	snap, err := timers.Snapshot(1, 1)
	require.NoError(t, err)
	assert.Equal(t, TimerIdle, snap.Status)
	assert.Equal(t, 0, snap.ElapsedSeconds)
}

func TestSaveTwiceNoDuplicate(t *testing.T) {
	store := &fakeSessionStore{}
	practice, timers := newPracticeFixture(store)

	startAndAccrue(t, timers, 1, 1, 60)

	_, _, err := practice.Save(1, 1)
	require.NoError(t, err)
	require.Len(t, store.sessions, 1)

	// 重置后累计为0，重复保存被拒，不产生第二条记录
	_, _, err = practice.Save(1, 1)
	assert.ErrorIs(t, err, util.ErrZeroDuration)
	assert.Len(t, store.sessions, 1)
}

func TestSaveZeroElapsedRejectedLocally(t *testing.T) {
	store := &fakeSessionStore{createErr: errors.New("store must not be reached")}
	practice, timers := newPracticeFixture(store)

	installTestTimer(timers, 1, 1)
	_, err := timers.Start(1, 1, false)
	require.NoError(t, err)

	// 没有累计时间：本地拒绝，不触发写库
	_, _, err = practice.Save(1, 1)
	assert.ErrorIs(t, err, util.ErrZeroDuration)
	assert.Empty(t, store.sessions)
}

func TestSaveStoreFailureKeepsTimer(t *testing.T) {
	store := &fakeSessionStore{createErr: errors.New("network down")}
	practice, timers := newPracticeFixture(store)

	startAndAccrue(t, timers, 1, 1, 90)

	_, _, err := practice.Save(1, 1)
	require.Error(t, err)
	assert.Empty(t, store.sessions)

	// 写入失败时计时器保持原状，练习时间不丢，可重试
	snap, err := timers.Snapshot(1, 1)
	require.NoError(t, err)
	assert.Equal(t, TimerStopped, snap.Status)
	assert.Equal(t, 90, snap.ElapsedSeconds)

	// 故障恢复后重试成功
	store.createErr = nil
	record, _, err := practice.Save(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 90, *record.DurationSeconds)
	assert.Len(t, store.sessions, 1)
}

func TestSaveThenStartCountdown(t *testing.T) {
	store := &fakeSessionStore{}
	practice, timers := newPracticeFixture(store)

	startAndAccrue(t, timers, 1, 1, 60)
	_, _, err := practice.Save(1, 1)
	require.NoError(t, err)

	// 保存重置后换倒计时模式开始：目标取目录建议时长，不残留正计时
	snap, err := timers.Start(1, 1, true)
	require.NoError(t, err)
	assert.True(t, snap.Countdown)
	assert.Equal(t, 600, snap.TargetSeconds)
	assert.Equal(t, 0, snap.ElapsedSeconds)
}

func TestSaveStatsRefreshFailure(t *testing.T) {
	store := &fakeSessionStore{findErr: errors.New("read replica down")}
	practice, timers := newPracticeFixture(store)

	startAndAccrue(t, timers, 1, 1, 60)

	// 写入成功、统计刷新失败：记录照常返回，错误标为统计暂不可用
	record, _, err := practice.Save(1, 1)
	assert.ErrorIs(t, err, util.ErrStatsUnavailable)
	require.NotNil(t, record)
	assert.Equal(t, 60, *record.DurationSeconds)
	assert.Len(t, store.sessions, 1)

	// 记录已落库，计时器照常重置，不会诱发重复保存
	snap, err := timers.Snapshot(1, 1)
	require.NoError(t, err)
	assert.Equal(t, TimerIdle, snap.Status)
	assert.Equal(t, 0, snap.ElapsedSeconds)
}

func TestSaveWithoutTimer(t *testing.T) {
	store := &fakeSessionStore{}
	practice, _ := newPracticeFixture(store)

	_, _, err := practice.Save(1, 1)
	assert.ErrorIs(t, err, util.ErrTimerNotFound)
}
