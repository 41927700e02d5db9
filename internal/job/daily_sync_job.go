package job

import (
	"Brandscope/internal/pkg/logger"
	"Brandscope/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/google/uuid"
)

// DailySyncJob 每日全量扫描，保证台账每频道每天至少一行
type DailySyncJob struct {
	syncService service.SyncService
}

func NewDailySyncJob(syncService service.SyncService) *DailySyncJob {
	return &DailySyncJob{
		syncService: syncService,
	}
}

func (s *DailySyncJob) Run() {
	traceID := "job-sweep-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	report, err := s.syncService.SweepLedger(ctx)
	if err != nil {
		if errors.Is(err, service.ErrSweepInProgress) {
			log.WarnContext(ctx, "sweep skipped, another run holds the lock")
			return
		}
		log.ErrorContext(ctx, "daily sweep failed", "err", err)
		return
	}

	log.InfoContext(ctx, "DailySyncJob finished",
		"total", report.Total, "synced", report.Synced, "failed", report.Failed)
}
