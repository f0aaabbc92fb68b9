package service

import (
	"sort"
	"time"
)

// CalculateStreak 计算连续练习天数。
//
// 规则：同一天多次练习只算一天；最近的练习日必须是今天或昨天，否则
// 连续已断、返回 0；从最近练习日起向前逐日回溯，日期差恰好为 1 个
// 日历日则累加，出现任何断档立即停止。按日历日（本地时区的年月日）
// 比较，跨午夜的两次练习按两天计。
func CalculateStreak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	// 去重为本地日历日集合
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		local := d.Local()
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
		if _, ok := seen[day]; !ok {
			seen[day] = struct{}{}
			days = append(days, day)
		}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	nowLocal := now.Local()
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, nowLocal.Location())
	yesterday := today.AddDate(0, 0, -1)

	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 0; i < len(days)-1; i++ {
		// 用 AddDate 比较而非除以 24h，避免夏令时导致的日差偏移
		if days[i+1].Equal(days[i].AddDate(0, 0, -1)) {
			streak++
		} else {
			break
		}
	}

	return streak
}
