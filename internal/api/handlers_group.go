package api

import "Brandscope/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	BrandHandler          *handler.BrandHandler
	ChannelHandler        *handler.ChannelHandler
	CronHandler           *handler.CronHandler
	InstagramOAuthHandler *handler.InstagramOAuthHandler
}
