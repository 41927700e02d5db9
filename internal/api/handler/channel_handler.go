package handler

import (
	"Brandscope/internal/pkg/response"
	"Brandscope/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	syncSvc service.SyncService
}

func NewChannelHandler(syncSvc service.SyncService) *ChannelHandler {
	return &ChannelHandler{
		syncSvc: syncSvc,
	}
}

// GetSnapshot 获取频道快照，缓存新鲜时直接命中，否则触发同步
// refresh=true 跳过缓存，full=true 额外强制全量历史拉取
func (h *ChannelHandler) GetSnapshot(c *gin.Context) {
	handle := c.Param("handle")
	if handle == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	platform := c.DefaultQuery("platform", "youtube")
	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	full, _ := strconv.ParseBool(c.DefaultQuery("full", "false"))

	snapshot, err := h.syncSvc.Sync(c.Request.Context(), handle, platform, refresh, full)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snapshot)
}
