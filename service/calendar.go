package service

import (
	"strings"
	"time"

	"financas/models"
	"financas/repository"
)

// lastDayOfMonth 某年某月的最后一天
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped 在 start 基础上前进 n 个月，日取 min(原日, 当月最后一天)
// 例如 1 月 31 日前进 1 个月得到 2 月 28 日（闰年 29 日），而不是 3 月 3 日
func AddMonthsClamped(start time.Time, n int) time.Time {
	y, m, d := start.In(time.UTC).Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := lastDayOfMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// MonthWindow 返回 month 所在自然月的 [月初, 下月初) UTC 区间
func MonthWindow(month time.Time) repository.DateRange {
	y, m, _ := month.In(time.UTC).Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return repository.DateRange{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseMonth 解析 YYYY-MM；空串返回 now 所在月
func ParseMonth(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		y, m, _ := now.In(time.UTC).Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.ParseInLocation(models.MonthLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, BadRequest(MsgInvalidMonth)
	}
	return t, nil
}

// ParseDate 解析 YYYY-MM-DD 或 RFC 3339，统一为 UTC 自然日
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(models.DateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, BadRequest("Invalid date format, expected YYYY-MM-DD")
	}
	return models.Day(t), nil
}
