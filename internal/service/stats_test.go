package service

import (
	"context"
	"errors"
	"ritual_tracker_backend/internal/model"
	"ritual_tracker_backend/internal/util"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// fakeSessionStore 内存版 SessionStore，可注入写入/读取失败
type fakeSessionStore struct {
	sessions  []model.PracticeSession
	createErr error
	findErr   error
}

func (f *fakeSessionStore) Create(s *model.PracticeSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = uint(len(f.sessions) + 1)
	f.sessions = append(f.sessions, *s)
	return nil
}

func (f *fakeSessionStore) FindByStudent(studentID uint) ([]model.PracticeSession, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []model.PracticeSession
	for _, s := range f.sessions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) FindByStudentAndRitual(studentID, ritualID uint) ([]model.PracticeSession, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []model.PracticeSession
	for _, s := range f.sessions {
		if s.StudentID == studentID && s.RitualID == ritualID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) FindRecent(studentID, ritualID uint, limit int) ([]model.PracticeSession, error) {
	out, err := f.FindByStudentAndRitual(studentID, ritualID)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCatalog struct {
	rituals []model.Ritual
}

func (f *fakeCatalog) FindAll(ctx context.Context) ([]model.Ritual, error) {
	return f.rituals, nil
}

func (f *fakeCatalog) FindByID(id uint) (*model.Ritual, error) {
	for i := range f.rituals {
		if f.rituals[i].ID == id {
			return &f.rituals[i], nil
		}
	}
	return nil, util.ErrRitualNotFound
}

func testCatalog() *fakeCatalog {
	meditation := model.Ritual{Name: "Meditation", Color: "#8B5CF6", DurationMinutes: 10}
	meditation.ID = 1
	yoga := model.Ritual{Name: "Yoga", Color: "#EC4899", DurationMinutes: 15}
	yoga.ID = 2
	return &fakeCatalog{rituals: []model.Ritual{meditation, yoga}}
}

func TestNormalizeDurationBothSchemas(t *testing.T) {
	// 旧格式：5分钟，无余秒
	legacy := &model.PracticeSession{DurationMinutes: intPtr(5)}
	// 新格式：总秒数300
	current := &model.PracticeSession{DurationSeconds: intPtr(300)}

	assert.Equal(t, 300, NormalizeDuration(legacy))
	assert.Equal(t, 300, NormalizeDuration(current))
}

func TestNormalizeDurationLegacyRemainder(t *testing.T) {
	// 旧格式：2分钟 + 30秒余数
	legacy := &model.PracticeSession{DurationMinutes: intPtr(2), DurationSeconds: intPtr(30)}
	assert.Equal(t, 150, NormalizeDuration(legacy))
}

func TestNormalizeDurationMalformed(t *testing.T) {
	// 两个字段都缺的脏记录按0算，不报错
	assert.Equal(t, 0, NormalizeDuration(&model.PracticeSession{}))
}

func TestComputeStatsMixedSchemas(t *testing.T) {
	now := time.Now()
	sessions := []model.PracticeSession{
		{DurationMinutes: intPtr(5), CreatedAt: now},
		{DurationSeconds: intPtr(300), CreatedAt: now},
	}

	stats := ComputeStats(sessions, now)
	assert.Equal(t, 600, stats.TotalSeconds)
	assert.Equal(t, 10, stats.TotalMinutes)
	assert.Equal(t, 2, stats.SessionCount)
	assert.Equal(t, 1, stats.StreakDays)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	assert.Equal(t, AggregateStats{}, stats)
}

func TestGetRecentSessionsTruncationKeepsTotals(t *testing.T) {
	store := &fakeSessionStore{}
	now := time.Now()
	for i := 0; i < 20; i++ {
		sec := 60
		store.sessions = append(store.sessions, model.PracticeSession{
			StudentID: 1, RitualID: 1,
			DurationSeconds: &sec,
			CreatedAt:       now.Add(-time.Duration(i) * time.Hour),
		})
	}

	svc := NewStatsService(store, testCatalog(), 10)

	recent, err := svc.GetRecentSessions(1, 1, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 10)
	// 最近优先
	assert.True(t, recent[0].CreatedAt.After(recent[9].CreatedAt))

	// 截断不影响统计总量
	stats, err := svc.GetRitualStats(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.SessionCount)
	assert.Equal(t, 20*60, stats.TotalSeconds)
}

func TestGetDashboardZeroValueEntries(t *testing.T) {
	store := &fakeSessionStore{}
	sec := 120
	store.sessions = append(store.sessions, model.PracticeSession{
		StudentID: 1, RitualID: 1, RitualName: "Meditation",
		DurationSeconds: &sec, CreatedAt: time.Now(),
	})

	svc := NewStatsService(store, testCatalog(), 10)

	dashboard, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, dashboard.Rituals, 2)

	assert.Equal(t, 120, dashboard.Rituals[0].Stats.TotalSeconds)
	assert.Equal(t, 1, dashboard.Rituals[0].Stats.SessionCount)
	// 没练过的仪式给零值而不是缺项
	assert.Equal(t, AggregateStats{}, dashboard.Rituals[1].Stats)
}

func TestGetStudentRollupCarriesSeconds(t *testing.T) {
	store := &fakeSessionStore{}
	now := time.Now()
	store.sessions = []model.PracticeSession{
		{StudentID: 1, RitualID: 1, RitualName: "Meditation", DurationSeconds: intPtr(90), CreatedAt: now},
		{StudentID: 1, RitualID: 1, RitualName: "Meditation", DurationMinutes: intPtr(1), DurationSeconds: intPtr(45), CreatedAt: now},
	}

	svc := NewStatsService(store, testCatalog(), 10)

	rollups, err := svc.GetStudentRollup(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rollups, 1)

	// 90s + 105s = 195s = 3分15秒
	assert.Equal(t, "Meditation", rollups[0].RitualName)
	assert.Equal(t, "#8B5CF6", rollups[0].Color)
	assert.Equal(t, 2, rollups[0].TotalSessions)
	assert.Equal(t, 3, rollups[0].TotalMinutes)
	assert.Equal(t, 15, rollups[0].ExtraSeconds)
}

func TestGetRitualStatsStoreFailure(t *testing.T) {
	store := &fakeSessionStore{findErr: errors.New("connection lost")}
	svc := NewStatsService(store, testCatalog(), 10)

	_, err := svc.GetRitualStats(1, 1)
	assert.Error(t, err)
}
