package service

import (
	"Brandscope/internal/api/config"
	"Brandscope/internal/api/dto"
	"Brandscope/internal/model"
	"Brandscope/internal/pkg/consts"
	"Brandscope/internal/pkg/minio"
	"Brandscope/internal/pkg/redis"
	"Brandscope/internal/pkg/upstream"
	"Brandscope/internal/pkg/util"
	"Brandscope/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	// growthWindowDays 增长曲线回看窗口
	growthWindowDays = 90
	// tokenRefreshMargin Instagram token 距过期不足该时长时提前续期
	tokenRefreshMargin = 24 * time.Hour
	// sweepLockTTL 每日扫描锁的保底过期时间
	sweepLockTTL = 30 * time.Minute
)

type SyncService interface {
	// Sync 同步单个频道并返回最新快照
	// force 跳过缓存新鲜度短路；forceFull 额外强制全量历史拉取
	Sync(ctx context.Context, handle string, platform string, force bool, forceFull bool) (*model.Snapshot, error)
	// SweepLedger 顺序扫全部启用频道补写当日台账，轻量拉取不动快照缓存
	SweepLedger(ctx context.Context) (*dto.SweepReportDTO, error)
}

type syncServiceImpl struct {
	cacheRepo   repository.ChannelCacheRepo
	ledgerRepo  repository.DailySnapshotRepo
	channelRepo repository.BrandChannelRepo
	adapters    map[string]upstream.Adapter
	instagram   upstream.InstagramAPI
	coordinator *RequestCoordinator
	cfg         config.SyncConfig
}

func NewSyncService(
	cacheRepo repository.ChannelCacheRepo,
	ledgerRepo repository.DailySnapshotRepo,
	channelRepo repository.BrandChannelRepo,
	adapters map[string]upstream.Adapter,
	instagram upstream.InstagramAPI,
	cfg config.SyncConfig,
) SyncService {
	return &syncServiceImpl{
		cacheRepo:   cacheRepo,
		ledgerRepo:  ledgerRepo,
		channelRepo: channelRepo,
		adapters:    adapters,
		instagram:   instagram,
		coordinator: NewRequestCoordinator(),
		cfg:         cfg,
	}
}

func (s *syncServiceImpl) Sync(ctx context.Context, handle string, platform string, force bool, forceFull bool) (*model.Snapshot, error) {
	handle = util.NormalizeHandle(handle)
	if handle == "" {
		return nil, ErrParamInvalid
	}
	if platform == "" {
		platform = consts.PlatformYoutube
	}
	if !consts.IsValidPlatform(platform) {
		return nil, ErrPlatformInvalid
	}

	key := util.CompositeKey(handle, platform)
	// 各标志组合分开合并：非强制方可接受缓存短路，强制方不行；
	// 全量请求也不能搭快速拉取的航班
	flightKey := key + ":" + strconv.FormatBool(force) + ":" + strconv.FormatBool(forceFull)
	return s.coordinator.Do(flightKey, func() (*model.Snapshot, error) {
		return s.doSync(ctx, key, handle, platform, force, forceFull)
	})
}

func (s *syncServiceImpl) doSync(ctx context.Context, key string, handle string, platform string, force bool, forceFull bool) (*model.Snapshot, error) {
	row := s.loadCacheRow(ctx, key, handle, platform)

	var cached *model.Snapshot
	if row != nil && row.SnapshotJSON != "" {
		var snap model.Snapshot
		if err := json.Unmarshal([]byte(row.SnapshotJSON), &snap); err != nil {
			log.Warn("cached snapshot is corrupt, will refetch", "key", key, "err", err)
		} else {
			cached = &snap
		}
	}

	// 裸句柄行里的快照若记着别的平台，按未命中处理
	if cached != nil && row.CompositeKey != key &&
		cached.Channel.Platform != "" && cached.Channel.Platform != platform {
		log.Warn("legacy cache row belongs to another platform, treated as miss",
			"key", key, "rowPlatform", cached.Channel.Platform)
		cached = nil
		row = nil
	}

	ttl := time.Duration(s.cfg.CacheTTLHours) * time.Hour
	if !force && !forceFull && row != nil && cached != nil && time.Since(row.LastSyncedAt) < ttl {
		return cached, nil
	}

	needsFull := s.needsFullFetch(cached, forceFull)

	channel, err := s.channelRepo.GetChannel(ctx, handle, platform)
	if err != nil {
		return nil, err
	}

	profile, posts, fetchErr := s.fetch(ctx, handle, platform, channel, cached, needsFull)
	if fetchErr != nil {
		return nil, mapUpstreamError(fetchErr)
	}

	now := time.Now()
	var prevPosts []model.Post
	if cached != nil {
		prevPosts = cached.Posts
	}
	merged := MergePosts(prevPosts, posts, needsFull)
	SortPostsByPublishedDesc(merged)

	sumViews := SumPostViews(merged)
	totalViews := profile.ViewCount
	if sumViews > totalViews {
		totalViews = sumViews
	}
	if profile.ViewCount > 0 && sumViews > 0 && profile.ViewCount != sumViews {
		log.Info("profile and post view totals disagree",
			"key", key, "profileViews", profile.ViewCount, "postViews", sumViews)
	}

	thumbnail := profile.Thumbnail
	if mirrored, mErr := minio.MirrorAvatar(ctx, key, profile.Thumbnail); mErr != nil {
		log.Warn("avatar mirror failed", "key", key, "err", mErr)
	} else if mirrored != "" {
		thumbnail = mirrored
	}

	videoCount := profile.VideoCount
	if videoCount == 0 {
		videoCount = len(merged)
	}

	// 台账与缓存都尽力而为：持久化失败不吞掉已经拉到手的数据
	ledgerRow := &model.DailySnapshot{
		ChannelHandle: handle,
		Platform:      platform,
		SnapshotDate:  SnapshotDay(now),
		TotalViews:    totalViews,
		Followers:     profile.Subscribers,
		VideoCount:    videoCount,
	}
	if err = s.ledgerRepo.UpsertSnapshot(ctx, ledgerRow); err != nil {
		log.Error("daily snapshot upsert failed", "key", key, "err", err)
	}

	dailyViews := []model.DailyViewPoint{}
	if ledgerRows, lErr := s.ledgerRepo.ListSince(ctx, handle, platform, growthWindowDays); lErr != nil {
		log.Error("daily snapshot query failed", "key", key, "err", lErr)
	} else {
		dailyViews = BuildDailyViews(ledgerRows)
	}

	lastFull := now
	if !needsFull && cached != nil && cached.LastFullFetchAt != nil {
		lastFull = *cached.LastFullFetchAt
	}

	snapshot := &model.Snapshot{
		Channel:         *profile,
		Platform:        buildPlatformSummary(profile, merged, sumViews, thumbnail, now),
		Posts:           merged,
		TotalViews:      totalViews,
		DailyViews:      dailyViews,
		LastFullFetchAt: &lastFull,
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		log.Error("snapshot marshal failed", "key", key, "err", err)
		return snapshot, nil
	}
	cacheRow := &model.ChannelCache{
		CompositeKey:    key,
		NativeChannelID: profile.ID,
		Followers:       profile.Subscribers,
		VideoCount:      videoCount,
		SnapshotJSON:    string(raw),
		LastSyncedAt:    now,
	}
	if err = s.cacheRepo.Upsert(ctx, cacheRow); err != nil {
		log.Error("cache upsert failed", "key", key, "err", err)
	}

	// 解析出原生 ID 后回填关联表，后续同步省掉句柄解析
	if profile.ID != "" && channel != nil && channel.NativeChannelID == "" {
		if err = s.channelRepo.UpdateNativeChannelID(ctx, handle, platform, profile.ID); err != nil {
			log.Warn("native channel id backfill failed", "key", key, "err", err)
		}
	}

	return snapshot, nil
}

// loadCacheRow 优先按复合键取缓存行；youtube 频道还会尝试历史上
// 未带平台后缀的裸句柄行，迁移期平滑过渡
// 缓存库读失败按未命中处理，降级为直连上游拉取
func (s *syncServiceImpl) loadCacheRow(ctx context.Context, key string, handle string, platform string) *model.ChannelCache {
	row, err := s.cacheRepo.GetByKey(ctx, key)
	if err != nil {
		log.Warn("cache read failed, degrading to direct fetch", "key", key, "err", err)
		return nil
	}
	if row != nil || platform != consts.PlatformYoutube {
		return row
	}
	row, err = s.cacheRepo.GetByKey(ctx, handle)
	if err != nil {
		log.Warn("cache read failed, degrading to direct fetch", "key", handle, "err", err)
		return nil
	}
	return row
}

func (s *syncServiceImpl) needsFullFetch(cached *model.Snapshot, forceFull bool) bool {
	if forceFull || cached == nil {
		return true
	}
	if len(cached.Posts) == 0 || cached.LastFullFetchAt == nil {
		return true
	}
	interval := time.Duration(s.cfg.FullFetchIntervalHours) * time.Hour
	return time.Since(*cached.LastFullFetchAt) > interval
}

func (s *syncServiceImpl) fetch(
	ctx context.Context,
	handle string,
	platform string,
	channel *model.BrandChannel,
	cached *model.Snapshot,
	fullFetch bool,
) (*model.ChannelProfile, []model.Post, error) {
	if platform == consts.PlatformInstagram {
		return s.fetchInstagram(ctx, handle, channel)
	}

	adapter, ok := s.adapters[platform]
	if !ok {
		return nil, nil, ErrPlatformInvalid
	}

	knownID := ""
	if channel != nil {
		knownID = channel.NativeChannelID
	}
	if knownID == "" && cached != nil {
		knownID = cached.Channel.ID
	}

	profile, err := adapter.FetchProfile(ctx, handle, knownID)
	if err != nil {
		return nil, nil, err
	}
	posts, err := adapter.FetchPosts(ctx, handle, upstream.FetchOptions{
		FullFetch: fullFetch,
		ChannelID: profile.ID,
	})
	if err != nil {
		return nil, nil, err
	}
	return profile, posts, nil
}

// fetchInstagram 走 Graph API，token 绑定在品牌频道关联上
// Instagram 的媒体列表本身就是全量翻页，不区分全量/快速
func (s *syncServiceImpl) fetchInstagram(ctx context.Context, handle string, channel *model.BrandChannel) (*model.ChannelProfile, []model.Post, error) {
	if channel == nil || channel.InstagramAccessToken == "" {
		return nil, nil, ErrInstagramNotLinked
	}

	token := channel.InstagramAccessToken
	if channel.AccessTokenExpiresAt != nil && time.Until(*channel.AccessTokenExpiresAt) < tokenRefreshMargin {
		if newToken, expiresIn, err := s.instagram.RefreshToken(ctx, token); err != nil {
			log.Warn("instagram token refresh failed", "handle", handle, "err", err)
		} else {
			token = newToken
			expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second)
			if err = s.channelRepo.UpdateInstagramToken(ctx, handle, newToken, expiresAt); err != nil {
				log.Warn("instagram token persist failed", "handle", handle, "err", err)
			}
		}
	}

	profile, err := s.instagram.FetchProfile(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	userID := channel.InstagramUserID
	if userID == "" {
		userID = profile.ID
	}
	posts, err := s.instagram.FetchPosts(ctx, userID, token)
	if err != nil {
		return nil, nil, err
	}
	return profile, posts, nil
}

func (s *syncServiceImpl) SweepLedger(ctx context.Context) (*dto.SweepReportDTO, error) {
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.DailySweepLock, lockValue, sweepLockTTL, 1)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrSweepInProgress
	}
	defer redis.UnLock(ctx, consts.DailySweepLock, lockValue)

	channels, err := s.channelRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	channels = dedupeChannels(channels)

	start := time.Now()
	report := &dto.SweepReportDTO{Total: len(channels)}
	delay := time.Duration(s.cfg.SweepDelayMs) * time.Millisecond

	log.Info("daily sweep started", "channels", len(channels))
	for i, ch := range channels {
		// 串行且带间隔，规避上游限流
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		key := util.CompositeKey(ch.ChannelHandle, ch.Platform)
		if err = s.sweepChannel(ctx, ch); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, &dto.SweepFailureDTO{
				Key:    key,
				Reason: err.Error(),
			})
			log.Error("sweep channel failed", "key", key, "err", err)
			continue
		}
		report.Synced++
	}

	report.DurationMs = time.Since(start).Milliseconds()
	log.Info("daily sweep finished",
		"total", report.Total, "synced", report.Synced,
		"failed", report.Failed, "durationMs", report.DurationMs)
	return report, nil
}

// dedupeChannels 跨品牌去重，同一 (句柄, 平台) 只扫一次
func dedupeChannels(channels []*model.BrandChannel) []*model.BrandChannel {
	seen := make(map[string]struct{}, len(channels))
	out := make([]*model.BrandChannel, 0, len(channels))
	for _, ch := range channels {
		key := util.CompositeKey(ch.ChannelHandle, ch.Platform)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ch)
	}
	return out
}

// sweepChannel 台账专用的轻量拉取：只要当日总量，不走完整同步管线
// youtube 档案自带生涯播放量；tiktok 与 instagram 得翻完帖子求和
func (s *syncServiceImpl) sweepChannel(ctx context.Context, ch *model.BrandChannel) error {
	row := &model.DailySnapshot{
		ChannelHandle: ch.ChannelHandle,
		Platform:      ch.Platform,
		SnapshotDate:  SnapshotDay(time.Now()),
	}

	switch ch.Platform {
	case consts.PlatformInstagram:
		profile, posts, err := s.fetchInstagram(ctx, ch.ChannelHandle, ch)
		if err != nil {
			return mapUpstreamError(err)
		}
		row.TotalViews = SumPostViews(DedupePosts(posts))
		row.Followers = profile.Subscribers
		row.VideoCount = len(posts)
	case consts.PlatformTiktok:
		adapter, ok := s.adapters[ch.Platform]
		if !ok {
			return ErrPlatformInvalid
		}
		profile, err := adapter.FetchProfile(ctx, ch.ChannelHandle, ch.NativeChannelID)
		if err != nil {
			return mapUpstreamError(err)
		}
		posts, err := adapter.FetchPosts(ctx, ch.ChannelHandle, upstream.FetchOptions{
			FullFetch: true,
			ChannelID: profile.ID,
		})
		if err != nil {
			return mapUpstreamError(err)
		}
		row.TotalViews = SumPostViews(DedupePosts(posts))
		row.Followers = profile.Subscribers
		row.VideoCount = len(posts)
	default:
		adapter, ok := s.adapters[ch.Platform]
		if !ok {
			return ErrPlatformInvalid
		}
		profile, err := adapter.FetchProfile(ctx, ch.ChannelHandle, ch.NativeChannelID)
		if err != nil {
			return mapUpstreamError(err)
		}
		row.TotalViews = profile.ViewCount
		row.Followers = profile.Subscribers
		row.VideoCount = profile.VideoCount
	}

	return s.ledgerRepo.UpsertSnapshot(ctx, row)
}

// mapUpstreamError 适配器错误换成对外错误码
func mapUpstreamError(err error) error {
	switch {
	case errors.Is(err, upstream.ErrChannelNotFound):
		return ErrIdentityNotFound
	case errors.Is(err, upstream.ErrUnauthorized):
		return ErrUpstreamUnauthorized
	case errors.Is(err, upstream.ErrQuotaExceeded):
		return ErrOutOfCredits
	case errors.Is(err, ErrInstagramNotLinked):
		return ErrInstagramNotLinked
	}
	return ErrUpstreamFailed
}

func buildPlatformSummary(profile *model.ChannelProfile, posts []model.Post, sumViews int64, thumbnail string, now time.Time) model.PlatformSummary {
	avgViews := int64(0)
	if len(posts) > 0 {
		avgViews = sumViews / int64(len(posts))
	}
	lastPost := "No posts"
	if len(posts) > 0 && posts[0].PublishedAt != nil {
		lastPost = util.FormatTimeAgo(*posts[0].PublishedAt, now)
	}
	return model.PlatformSummary{
		Handle:       profile.Handle,
		DisplayName:  profile.Title,
		Followers:    profile.Subscribers,
		AvgViews:     util.FormatCount(avgViews),
		Status:       "active",
		LastPost:     lastPost,
		ChannelID:    profile.ID,
		Thumbnail:    thumbnail,
		PlatformType: profile.Platform,
	}
}
