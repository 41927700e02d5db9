package repository

import (
	"Brandscope/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BrandChannelRepo interface {
	AddChannel(ctx context.Context, channel *model.BrandChannel) error
	RemoveChannel(ctx context.Context, brandID uint64, handle string, platform string) error
	SetActive(ctx context.Context, brandID uint64, handle string, platform string, active bool) error
	UpdateNativeChannelID(ctx context.Context, handle string, platform string, nativeID string) error
	UpsertInstagramToken(ctx context.Context, channel *model.BrandChannel) error
	UpdateInstagramToken(ctx context.Context, handle string, token string, expiresAt time.Time) error
	GetChannel(ctx context.Context, handle string, platform string) (*model.BrandChannel, error)
	ListByBrand(ctx context.Context, brandID uint64) ([]*model.BrandChannel, error)
	ListActive(ctx context.Context) ([]*model.BrandChannel, error)
}

type brandChannelRepoImpl struct {
	db *gorm.DB
}

func NewBrandChannelRepo(db *gorm.DB) BrandChannelRepo {
	return &brandChannelRepoImpl{db: db}
}

func (s *brandChannelRepoImpl) AddChannel(ctx context.Context, channel *model.BrandChannel) error {
	return s.db.WithContext(ctx).Create(channel).Error
}

func (s *brandChannelRepoImpl) RemoveChannel(ctx context.Context, brandID uint64, handle string, platform string) error {
	return s.db.WithContext(ctx).
		Where("brand_id = ? AND channel_handle = ? AND platform = ?", brandID, handle, platform).
		Delete(&model.BrandChannel{}).Error
}

func (s *brandChannelRepoImpl) SetActive(ctx context.Context, brandID uint64, handle string, platform string, active bool) error {
	return s.db.WithContext(ctx).Model(&model.BrandChannel{}).
		Where("brand_id = ? AND channel_handle = ? AND platform = ?", brandID, handle, platform).
		Update("active", active).Error
}

// UpdateNativeChannelID 回填解析成功的原生频道 ID，后续同步跳过句柄解析
func (s *brandChannelRepoImpl) UpdateNativeChannelID(ctx context.Context, handle string, platform string, nativeID string) error {
	return s.db.WithContext(ctx).Model(&model.BrandChannel{}).
		Where("channel_handle = ? AND platform = ?", handle, platform).
		Update("native_channel_id", nativeID).Error
}

// UpsertInstagramToken OAuth 回调落库，重复授权时只刷新 token
func (s *brandChannelRepoImpl) UpsertInstagramToken(ctx context.Context, channel *model.BrandChannel) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "brand_id"}, {Name: "channel_handle"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"instagram_user_id", "instagram_access_token", "access_token_expires_at", "updated_at",
		}),
	}).Create(channel).Error
}

func (s *brandChannelRepoImpl) UpdateInstagramToken(ctx context.Context, handle string, token string, expiresAt time.Time) error {
	return s.db.WithContext(ctx).Model(&model.BrandChannel{}).
		Where("channel_handle = ? AND platform = 'instagram'", handle).
		Updates(map[string]interface{}{
			"instagram_access_token":  token,
			"access_token_expires_at": expiresAt,
		}).Error
}

func (s *brandChannelRepoImpl) GetChannel(ctx context.Context, handle string, platform string) (*model.BrandChannel, error) {
	var channel model.BrandChannel
	err := s.db.WithContext(ctx).
		Where("channel_handle = ? AND platform = ?", handle, platform).
		First(&channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &channel, nil
}

func (s *brandChannelRepoImpl) ListByBrand(ctx context.Context, brandID uint64) ([]*model.BrandChannel, error) {
	channels := make([]*model.BrandChannel, 0)
	result := s.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("created_at ASC").
		Find(&channels)
	if result.Error != nil {
		return nil, result.Error
	}
	return channels, nil
}

// ListActive 全部品牌下仍启用的频道身份，供每日扫描遍历
func (s *brandChannelRepoImpl) ListActive(ctx context.Context) ([]*model.BrandChannel, error) {
	channels := make([]*model.BrandChannel, 0)
	result := s.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&channels)
	if result.Error != nil {
		return nil, result.Error
	}
	return channels, nil
}
