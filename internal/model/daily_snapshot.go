package model

import "time"

// DailySnapshot 每频道每自然日一行的累计指标，用于推导增长曲线
type DailySnapshot struct {
	ID            uint64    `gorm:"primaryKey"`
	ChannelHandle string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_channel_date,priority:1"`
	Platform      string    `gorm:"type:varchar(16);not null;default:'youtube';uniqueIndex:idx_channel_date,priority:2"`
	SnapshotDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_channel_date,priority:3"`
	TotalViews    int64     `gorm:"not null;default:0"`
	Followers     int64     `gorm:"not null;default:0"`
	VideoCount    int       `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (DailySnapshot) TableName() string {
	return "daily_snapshots"
}
