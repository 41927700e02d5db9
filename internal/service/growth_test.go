package service

import (
	"Brandscope/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ledgerRow(day int, totalViews int64) *model.DailySnapshot {
	return &model.DailySnapshot{
		SnapshotDate: time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
		TotalViews:   totalViews,
	}
}

func TestBuildDailyViews_Empty(t *testing.T) {
	assert.Empty(t, BuildDailyViews(nil))
}

func TestBuildDailyViews_Deltas(t *testing.T) {
	points := BuildDailyViews([]*model.DailySnapshot{
		ledgerRow(1, 1000),
		ledgerRow(2, 1500),
		ledgerRow(3, 1800),
	})

	assert.Len(t, points, 2)
	assert.Equal(t, int64(500), points[0].Views)
	assert.Equal(t, int64(300), points[1].Views)
	assert.Equal(t, "Aug 2", points[0].Label)
	assert.Equal(t, "Aug 3", points[1].Label)
}

func TestBuildDailyViews_NegativeDeltaClampedToZero(t *testing.T) {
	// 帖子被删导致累计值回落时不输出负增量
	points := BuildDailyViews([]*model.DailySnapshot{
		ledgerRow(1, 2000),
		ledgerRow(2, 1500),
		ledgerRow(3, 1700),
	})

	assert.Len(t, points, 2)
	assert.Equal(t, int64(0), points[0].Views)
	assert.Equal(t, int64(200), points[1].Views)
}

func TestBuildDailyViews_SinglePointPlaceholder(t *testing.T) {
	points := BuildDailyViews([]*model.DailySnapshot{ledgerRow(15, 5000)})

	assert.Len(t, points, 2)
	assert.Equal(t, "Aug 14", points[0].Label)
	assert.Equal(t, "Aug 15", points[1].Label)
	assert.Equal(t, int64(0), points[0].Views)
	assert.Equal(t, int64(0), points[1].Views)
}

func TestSnapshotDay(t *testing.T) {
	d := SnapshotDay(time.Date(2026, 8, 31, 17, 45, 3, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), d)
}
