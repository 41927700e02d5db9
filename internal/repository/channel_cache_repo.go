package repository

import (
	"Brandscope/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChannelCacheRepo interface {
	GetByKey(ctx context.Context, compositeKey string) (*model.ChannelCache, error)
	Upsert(ctx context.Context, row *model.ChannelCache) error
}

type channelCacheRepoImpl struct {
	db *gorm.DB
}

func NewChannelCacheRepo(db *gorm.DB) ChannelCacheRepo {
	return &channelCacheRepoImpl{db: db}
}

func (s *channelCacheRepoImpl) GetByKey(ctx context.Context, compositeKey string) (*model.ChannelCache, error) {
	var row model.ChannelCache
	err := s.db.WithContext(ctx).
		Where("composite_key = ?", compositeKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Upsert 写穿缓存行，最后写入者胜出；不丢历史帖子由编排器的合并逻辑保证
func (s *channelCacheRepoImpl) Upsert(ctx context.Context, row *model.ChannelCache) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "composite_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"native_channel_id", "followers", "video_count", "snapshot_json", "last_synced_at",
		}),
	}).Create(row).Error
}
