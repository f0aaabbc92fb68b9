package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(now time.Time, daysAgo int) time.Time {
	return now.AddDate(0, 0, -daysAgo)
}

func TestCalculateStreakConsecutive(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	// 今天两次 + 昨天 + 3天前：今天和昨天连续，断档后不再累计
	dates := []time.Time{day(now, 0), day(now, 0), day(now, 1), day(now, 3)}
	assert.Equal(t, 2, CalculateStreak(dates, now))
}

func TestCalculateStreakGapAfterToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	// 今天 + 前天：差2天，今天之后立即断
	dates := []time.Time{day(now, 0), day(now, 2)}
	assert.Equal(t, 1, CalculateStreak(dates, now))
}

func TestCalculateStreakLapsed(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	// 最近一次在前天：既不是今天也不是昨天，连续已断
	dates := []time.Time{day(now, 2)}
	assert.Equal(t, 0, CalculateStreak(dates, now))
}

func TestCalculateStreakStartsYesterday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	dates := []time.Time{day(now, 1), day(now, 2), day(now, 3)}
	assert.Equal(t, 3, CalculateStreak(dates, now))
}

func TestCalculateStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, CalculateStreak(nil, time.Now()))
}

func TestCalculateStreakCrossMidnight(t *testing.T) {
	// 昨天23点和今天1点：日历日差1天，连续
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	dates := []time.Time{
		time.Date(2026, 3, 9, 23, 0, 0, 0, time.Local),
		time.Date(2026, 3, 10, 1, 0, 0, 0, time.Local),
	}
	assert.Equal(t, 2, CalculateStreak(dates, now))
}

func TestCalculateStreakLongUnboundedRun(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	var dates []time.Time
	for i := 0; i < 400; i++ {
		dates = append(dates, day(now, i))
	}
	assert.Equal(t, 400, CalculateStreak(dates, now))
}
