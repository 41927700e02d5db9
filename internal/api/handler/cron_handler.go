package handler

import (
	"Brandscope/internal/pkg/response"
	"Brandscope/internal/service"

	"github.com/gin-gonic/gin"
)

type CronHandler struct {
	syncSvc service.SyncService
}

func NewCronHandler(syncSvc service.SyncService) *CronHandler {
	return &CronHandler{
		syncSvc: syncSvc,
	}
}

// TriggerSweep 外部调度器触发每日扫描，与进程内 cron 共用分布式锁
func (h *CronHandler) TriggerSweep(c *gin.Context) {
	report, err := h.syncSvc.SweepLedger(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, report)
}
