package model

import "time"

// BrandChannel 品牌与频道身份的关联，同一 (brand, handle, platform) 只允许一条
type BrandChannel struct {
	ID            uint64 `gorm:"primaryKey"`
	BrandID       uint64 `gorm:"not null;uniqueIndex:idx_brand_channel,priority:1"`
	ChannelHandle string `gorm:"type:varchar(120);not null;uniqueIndex:idx_brand_channel,priority:2"`
	Platform      string `gorm:"type:varchar(16);not null;default:'youtube';uniqueIndex:idx_brand_channel,priority:3"`
	// NativeChannelID 上游原生频道 ID，已知时可跳过句柄解析
	NativeChannelID string `gorm:"type:varchar(120)"`
	// Active 停用后不参与汇总与每日扫描，但仍可手动重新同步
	Active bool `gorm:"not null;default:true"`

	InstagramUserID      string     `gorm:"type:varchar(64)"`
	InstagramAccessToken string     `gorm:"type:varchar(512)"`
	AccessTokenExpiresAt *time.Time `gorm:"type:datetime"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BrandChannel) TableName() string {
	return "brand_channels"
}
