package service

import (
	"Brandscope/internal/api/dto"
	"Brandscope/internal/model"
	"Brandscope/internal/pkg/consts"
	"Brandscope/internal/pkg/redis"
	"Brandscope/internal/pkg/util"
	"Brandscope/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const overviewCacheTTL = 5 * time.Minute

type BrandService interface {
	CreateBrand(ctx context.Context, req *dto.CreateBrandDTO) (*model.Brand, error)
	UpdateBrand(ctx context.Context, brandID uint64, req *dto.UpdateBrandDTO) error
	DeleteBrand(ctx context.Context, brandID uint64) error
	ListBrands(ctx context.Context) ([]*dto.BrandDTO, error)
	ListChannels(ctx context.Context, brandID uint64) ([]*dto.BrandChannelDTO, error)
	AddChannel(ctx context.Context, brandID uint64, req *dto.AddChannelDTO) error
	RemoveChannel(ctx context.Context, brandID uint64, handle string, platform string) error
	SetChannelActive(ctx context.Context, brandID uint64, handle string, platform string, active bool) error
	// GetOverview 品牌跨平台聚合视图，帖子按 id 去重后汇总
	GetOverview(ctx context.Context, brandID uint64) (*dto.BrandOverviewDTO, error)
}

type brandServiceImpl struct {
	brandRepo   repository.BrandRepo
	channelRepo repository.BrandChannelRepo
	cacheRepo   repository.ChannelCacheRepo
}

func NewBrandService(
	brandRepo repository.BrandRepo,
	channelRepo repository.BrandChannelRepo,
	cacheRepo repository.ChannelCacheRepo,
) BrandService {
	return &brandServiceImpl{
		brandRepo:   brandRepo,
		channelRepo: channelRepo,
		cacheRepo:   cacheRepo,
	}
}

func (s *brandServiceImpl) CreateBrand(ctx context.Context, req *dto.CreateBrandDTO) (*model.Brand, error) {
	color := req.Color
	if color == "" {
		color = consts.DefaultBrandColor
	}
	brand := &model.Brand{Name: req.Name, Color: color}
	if err := s.brandRepo.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}
	_ = redis.DeleteKey(ctx, consts.BrandListKey)
	return brand, nil
}

func (s *brandServiceImpl) UpdateBrand(ctx context.Context, brandID uint64, req *dto.UpdateBrandDTO) error {
	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	if req.Name != "" {
		brand.Name = req.Name
	}
	if req.Color != "" {
		brand.Color = req.Color
	}
	if err = s.brandRepo.UpdateBrand(ctx, brand); err != nil {
		return err
	}
	s.invalidateBrand(ctx, brandID)
	return nil
}

func (s *brandServiceImpl) DeleteBrand(ctx context.Context, brandID uint64) error {
	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	if err = s.brandRepo.DeleteBrand(ctx, brandID); err != nil {
		return err
	}
	s.invalidateBrand(ctx, brandID)
	return nil
}

func (s *brandServiceImpl) ListBrands(ctx context.Context) ([]*dto.BrandDTO, error) {
	brands, err := s.brandRepo.ListBrands(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.BrandDTO, 0, len(brands))
	for _, b := range brands {
		channels, err := s.channelRepo.ListByBrand(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &dto.BrandDTO{
			ID:           b.ID,
			Name:         b.Name,
			Color:        b.Color,
			ChannelCount: len(channels),
		})
	}
	return out, nil
}

func (s *brandServiceImpl) ListChannels(ctx context.Context, brandID uint64) ([]*dto.BrandChannelDTO, error) {
	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}

	channels, err := s.channelRepo.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BrandChannelDTO, 0, len(channels))
	for _, ch := range channels {
		out = append(out, &dto.BrandChannelDTO{
			Handle:          ch.ChannelHandle,
			Platform:        ch.Platform,
			NativeChannelID: ch.NativeChannelID,
			Active:          ch.Active,
			InstagramLinked: ch.InstagramAccessToken != "",
		})
	}
	return out, nil
}

func (s *brandServiceImpl) AddChannel(ctx context.Context, brandID uint64, req *dto.AddChannelDTO) error {
	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}

	handle := util.NormalizeHandle(req.Handle)
	if handle == "" {
		return ErrParamInvalid
	}
	platform := req.Platform
	if platform == "" {
		platform = consts.PlatformYoutube
	}
	if !consts.IsValidPlatform(platform) {
		return ErrPlatformInvalid
	}

	channels, err := s.channelRepo.ListByBrand(ctx, brandID)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		if ch.ChannelHandle == handle && ch.Platform == platform {
			return ErrChannelExist
		}
	}

	err = s.channelRepo.AddChannel(ctx, &model.BrandChannel{
		BrandID:         brandID,
		ChannelHandle:   handle,
		Platform:        platform,
		NativeChannelID: req.ChannelID,
		Active:          true,
	})
	if err != nil {
		return err
	}
	s.invalidateBrand(ctx, brandID)
	return nil
}

func (s *brandServiceImpl) RemoveChannel(ctx context.Context, brandID uint64, handle string, platform string) error {
	handle = util.NormalizeHandle(handle)
	if err := s.channelRepo.RemoveChannel(ctx, brandID, handle, platform); err != nil {
		return err
	}
	s.invalidateBrand(ctx, brandID)
	return nil
}

func (s *brandServiceImpl) SetChannelActive(ctx context.Context, brandID uint64, handle string, platform string, active bool) error {
	handle = util.NormalizeHandle(handle)
	if err := s.channelRepo.SetActive(ctx, brandID, handle, platform, active); err != nil {
		return err
	}
	s.invalidateBrand(ctx, brandID)
	return nil
}

func (s *brandServiceImpl) GetOverview(ctx context.Context, brandID uint64) (*dto.BrandOverviewDTO, error) {
	key := consts.BrandOverviewKey + strconv.FormatUint(brandID, 10)
	if val, err := redis.GetValue(ctx, key); err == nil && val != "" {
		var res dto.BrandOverviewDTO
		_ = json.Unmarshal([]byte(val), &res)
		return &res, nil
	}

	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}

	channels, err := s.channelRepo.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	snapshots := make(map[string]*model.Snapshot, len(channels))
	lastSynced := make(map[string]string, len(channels))
	stale := make([]string, 0)
	for _, ch := range channels {
		if !ch.Active {
			continue
		}
		k := util.CompositeKey(ch.ChannelHandle, ch.Platform)
		row, err := s.cacheRepo.GetByKey(ctx, k)
		if err != nil {
			return nil, err
		}
		if row == nil || row.SnapshotJSON == "" {
			stale = append(stale, k)
			continue
		}
		var snap model.Snapshot
		if err = json.Unmarshal([]byte(row.SnapshotJSON), &snap); err != nil {
			log.Warn("cached snapshot is corrupt, excluded from overview", "key", k, "err", err)
			stale = append(stale, k)
			continue
		}
		snapshots[k] = &snap
		lastSynced[k] = util.FormatTimeAgo(row.LastSyncedAt, time.Now())
	}

	overview := RollupSnapshots(brand, snapshots)
	overview.StaleChannels = stale
	for _, ch := range overview.Channels {
		ch.LastSynced = lastSynced[util.CompositeKey(ch.Handle, ch.Platform)]
	}

	if raw, err := json.Marshal(overview); err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(raw), overviewCacheTTL)
	}
	return overview, nil
}

// RollupSnapshots 跨频道聚合，同一帖子 id 只计一次、取播放量更高的那份
// 独立成纯函数以便直接验证去重语义
func RollupSnapshots(brand *model.Brand, snapshots map[string]*model.Snapshot) *dto.BrandOverviewDTO {
	overview := &dto.BrandOverviewDTO{
		BrandID:  brand.ID,
		Name:     brand.Name,
		Color:    brand.Color,
		Channels: make([]*dto.BrandChannelStats, 0, len(snapshots)),
	}

	// 按复合键排序遍历，频道列表顺序不随 map 迭代抖动
	keys := make([]string, 0, len(snapshots))
	for key := range snapshots {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seen := make(map[string]int64)
	for _, key := range keys {
		snap := snapshots[key]
		handle, platform := util.ParseCompositeKey(key)
		overview.TotalFollowers += snap.Platform.Followers
		overview.Channels = append(overview.Channels, &dto.BrandChannelStats{
			Handle:      handle,
			Platform:    platform,
			DisplayName: snap.Platform.DisplayName,
			Followers:   snap.Platform.Followers,
			TotalViews:  snap.TotalViews,
			PostCount:   len(snap.Posts),
		})
		for _, p := range snap.Posts {
			if prev, ok := seen[p.ID]; !ok || p.Views > prev {
				seen[p.ID] = p.Views
			}
		}
	}

	for _, views := range seen {
		overview.TotalViews += views
	}
	overview.TotalPosts = len(seen)
	return overview
}

func (s *brandServiceImpl) invalidateBrand(ctx context.Context, brandID uint64) {
	_ = redis.DeleteKey(ctx, consts.BrandOverviewKey+strconv.FormatUint(brandID, 10))
	_ = redis.DeleteKey(ctx, consts.BrandListKey)
}
