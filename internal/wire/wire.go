package wire

import (
	"Brandscope/internal/api"
	"Brandscope/internal/api/config"
	"Brandscope/internal/api/handler"
	"Brandscope/internal/job"
	"Brandscope/internal/pkg/consts"
	"Brandscope/internal/pkg/cron"
	"Brandscope/internal/pkg/upstream"
	"Brandscope/internal/repository"
	"Brandscope/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	brandRepo := repository.NewBrandRepo(db)
	channelRepo := repository.NewBrandChannelRepo(db)
	cacheRepo := repository.NewChannelCacheRepo(db)
	ledgerRepo := repository.NewDailySnapshotRepo(db)

	upstreamClient := upstream.NewClient(cfg.Upstream)
	adapters := map[string]upstream.Adapter{
		consts.PlatformYoutube: upstream.NewYouTubeAdapter(upstreamClient, cfg.Upstream.YoutubeMaxPages),
		consts.PlatformTiktok:  upstream.NewTikTokAdapter(upstreamClient, cfg.Upstream.TiktokMaxPages),
	}
	instagram := upstream.NewInstagramAdapter(cfg.Instagram)

	syncService := service.NewSyncService(cacheRepo, ledgerRepo, channelRepo, adapters, instagram, cfg.Sync)
	brandService := service.NewBrandService(brandRepo, channelRepo, cacheRepo)
	authService := service.NewInstagramAuthService(brandRepo, channelRepo, instagram, cfg.Instagram, cfg.Server.StateSecret)

	handlers := &api.HandlersGroup{
		BrandHandler:          handler.NewBrandHandler(brandService),
		ChannelHandler:        handler.NewChannelHandler(syncService),
		CronHandler:           handler.NewCronHandler(syncService),
		InstagramOAuthHandler: handler.NewInstagramOAuthHandler(authService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewDailySyncJob(syncService))

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
