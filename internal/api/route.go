package api

import (
	"Brandscope/internal/api/config"
	"Brandscope/internal/api/middleware"
	"Brandscope/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		brandGroup := apiGroup.Group("/brands")
		{
			brandGroup.GET("", group.BrandHandler.ListBrands)
			brandGroup.POST("", group.BrandHandler.CreateBrand)
			brandGroup.PUT("/:brand_id", group.BrandHandler.UpdateBrand)
			brandGroup.DELETE("/:brand_id", group.BrandHandler.DeleteBrand)
			brandGroup.GET("/:brand_id/overview", group.BrandHandler.GetOverview)

			brandGroup.GET("/:brand_id/channels", group.BrandHandler.ListChannels)
			brandGroup.POST("/:brand_id/channels", group.BrandHandler.AddChannel)
			brandGroup.DELETE("/:brand_id/channels/:handle", group.BrandHandler.RemoveChannel)
			brandGroup.PUT("/:brand_id/channels/:handle/active", group.BrandHandler.SetChannelActive)
		}

		channelGroup := apiGroup.Group("/channels")
		{
			channelGroup.GET("/:handle", group.ChannelHandler.GetSnapshot)
		}

		oauthGroup := apiGroup.Group("/oauth/instagram")
		{
			oauthGroup.GET("/url", group.InstagramOAuthHandler.GetAuthURL)
			oauthGroup.GET("/callback", group.InstagramOAuthHandler.Callback)
		}

		cronGroup := apiGroup.Group("/cron")
		cronGroup.Use(middleware.CronSecretMiddleware(config.Cfg.Server.CronSecret))
		{
			cronGroup.POST("/daily-sync", group.CronHandler.TriggerSweep)
		}
	}

	return r
}
