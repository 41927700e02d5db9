package dto

// AddChannelDTO 向品牌添加频道请求
type AddChannelDTO struct {
	Handle   string `json:"handle" binding:"required,min=1,max=100"`
	Platform string `json:"platform" binding:"omitempty,oneof=youtube tiktok instagram"`
	// ChannelID 已知的原生频道 ID，可省去首次同步时的句柄解析
	ChannelID string `json:"channel_id" binding:"omitempty,max=120"`
}

// SetChannelActiveDTO 启停频道请求
type SetChannelActiveDTO struct {
	Active *bool `json:"active" binding:"required"`
}
