package model

import "time"

// ChannelProfile 平台原生的频道画像，由各适配器归一化产生
type ChannelProfile struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Subscribers int64  `json:"subscribers"`
	ViewCount   int64  `json:"viewCount"`
	VideoCount  int    `json:"videoCount"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Platform    string `json:"platform"`
}

// PlatformSummary 仪表盘直接消费的频道摘要
type PlatformSummary struct {
	Handle       string `json:"handle"`
	DisplayName  string `json:"displayName"`
	Followers    int64  `json:"followers"`
	AvgViews     string `json:"avgViews"`
	Status       string `json:"status"`
	LastPost     string `json:"last"`
	ChannelID    string `json:"channelId,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	PlatformType string `json:"platformType"`
}

// Post 单条视频/帖子，id 在一个快照内唯一
type Post struct {
	ID          string     `json:"id"`
	Caption     string     `json:"cap"`
	Views       int64      `json:"views"`
	Likes       int64      `json:"likes"`
	Comments    int64      `json:"cmts"`
	Shares      int64      `json:"shares"`
	Platform    string     `json:"plat"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// DailyViewPoint 增长曲线上的一个点
type DailyViewPoint struct {
	Label string    `json:"d"`
	Date  time.Time `json:"raw"`
	Views int64     `json:"views"`
}

// Snapshot 一个频道在某一时刻的完整缓存快照
// posts 按发布时间倒序，dailyViews 由台账推导、随缓存一起返回
type Snapshot struct {
	Channel         ChannelProfile   `json:"channel"`
	Platform        PlatformSummary  `json:"platform"`
	Posts           []Post           `json:"posts"`
	TotalViews      int64            `json:"totalViews"`
	DailyViews      []DailyViewPoint `json:"dailyViews"`
	LastFullFetchAt *time.Time       `json:"last_full_fetch_at,omitempty"`
}
