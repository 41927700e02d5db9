package repository

import (
	"Brandscope/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailySnapshotRepo interface {
	UpsertSnapshot(ctx context.Context, row *model.DailySnapshot) error
	ListSince(ctx context.Context, handle string, platform string, sinceDays int) ([]*model.DailySnapshot, error)
}

type dailySnapshotRepoImpl struct {
	db *gorm.DB
}

func NewDailySnapshotRepo(db *gorm.DB) DailySnapshotRepo {
	return &dailySnapshotRepoImpl{db: db}
}

// UpsertSnapshot 每频道每自然日至多一行，当天重复同步时覆盖旧值
func (s *dailySnapshotRepoImpl) UpsertSnapshot(ctx context.Context, row *model.DailySnapshot) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "channel_handle"}, {Name: "platform"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_views", "followers", "video_count", "updated_at",
		}),
	}).Create(row).Error
}

func (s *dailySnapshotRepoImpl) ListSince(ctx context.Context, handle string, platform string, sinceDays int) ([]*model.DailySnapshot, error) {
	rows := make([]*model.DailySnapshot, 0)
	result := s.db.WithContext(ctx).
		Where("channel_handle = ? AND platform = ?", handle, platform).
		Where("snapshot_date >= ?", time.Now().AddDate(0, 0, -sinceDays)).
		Order("snapshot_date ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}
