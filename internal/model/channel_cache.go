package model

import "time"

// ChannelCache 单个频道最近一次成功同步的完整快照
// 行按身份（复合键）而不是品牌归属键控，品牌删除后缓存行保留无害
type ChannelCache struct {
	ID              uint64    `gorm:"primaryKey"`
	CompositeKey    string    `gorm:"type:varchar(140);not null;uniqueIndex"`
	NativeChannelID string    `gorm:"type:varchar(120)"`
	Followers       int64     `gorm:"not null;default:0"`
	VideoCount      int       `gorm:"not null;default:0"`
	SnapshotJSON    string    `gorm:"type:json"`
	LastSyncedAt    time.Time `gorm:"not null"`
	CreatedAt       time.Time
}

func (ChannelCache) TableName() string {
	return "channel_cache"
}
