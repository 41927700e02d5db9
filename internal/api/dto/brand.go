package dto

// CreateBrandDTO 创建品牌请求
type CreateBrandDTO struct {
	Name  string `json:"name" binding:"required,min=1,max=60"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// UpdateBrandDTO 更新品牌请求
type UpdateBrandDTO struct {
	Name  string `json:"name" binding:"omitempty,min=1,max=60"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// BrandDTO 品牌基础信息
type BrandDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	ChannelCount int    `json:"channel_count"`
}

// BrandChannelDTO 品牌下的单个频道身份
type BrandChannelDTO struct {
	Handle          string `json:"handle"`
	Platform        string `json:"platform"`
	NativeChannelID string `json:"channel_id,omitempty"`
	Active          bool   `json:"active"`
	InstagramLinked bool   `json:"instagram_linked"`
}

// BrandOverviewDTO 品牌聚合视图，跨平台去重后的总量
type BrandOverviewDTO struct {
	BrandID        uint64               `json:"brand_id"`
	Name           string               `json:"name"`
	Color          string               `json:"color"`
	TotalViews     int64                `json:"total_views"`
	TotalFollowers int64                `json:"total_followers"`
	TotalPosts     int                  `json:"total_posts"`
	Channels       []*BrandChannelStats `json:"channels"`
	StaleChannels  []string             `json:"stale_channels,omitempty"`
}

// BrandChannelStats 聚合视图中单频道的贡献
type BrandChannelStats struct {
	Handle      string `json:"handle"`
	Platform    string `json:"platform"`
	DisplayName string `json:"display_name"`
	Followers   int64  `json:"followers"`
	TotalViews  int64  `json:"total_views"`
	PostCount   int    `json:"post_count"`
	LastSynced  string `json:"last_synced"`
}
