package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 金额以数字形式输出到 JSON（而非字符串）
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// MonthLayout 月份格式
const MonthLayout = "2006-01"

// Day 按 UTC 截断到自然日
func Day(t time.Time) time.Time {
	y, m, d := t.In(time.UTC).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
