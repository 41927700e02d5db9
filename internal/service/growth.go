package service

import (
	"Brandscope/internal/model"
	"Brandscope/internal/pkg/util"
	"time"
)

// BuildDailyViews 由台账的累计值推导逐日增量曲线
// 台账记录的是截至当日的累计播放量，相邻两天做差即当日增量；
// 累计值回落（帖子被删、上游回填修正）时增量压到 0，不输出负值
func BuildDailyViews(rows []*model.DailySnapshot) []model.DailyViewPoint {
	if len(rows) == 0 {
		return []model.DailyViewPoint{}
	}

	// 只有一天的数据无法做差，补一个前一日的零点占位让曲线可画
	if len(rows) == 1 {
		prev := rows[0].SnapshotDate.AddDate(0, 0, -1)
		return []model.DailyViewPoint{
			{Label: util.FormatChartDate(prev), Date: prev, Views: 0},
			{Label: util.FormatChartDate(rows[0].SnapshotDate), Date: rows[0].SnapshotDate, Views: 0},
		}
	}

	points := make([]model.DailyViewPoint, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		delta := rows[i].TotalViews - rows[i-1].TotalViews
		if delta < 0 {
			delta = 0
		}
		points = append(points, model.DailyViewPoint{
			Label: util.FormatChartDate(rows[i].SnapshotDate),
			Date:  rows[i].SnapshotDate,
			Views: delta,
		})
	}
	return points
}

// SnapshotDay 台账行的自然日归一化，按 UTC 截断到零点
func SnapshotDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
