package service

import (
	"Brandscope/internal/api/config"
	"Brandscope/internal/model"
	"Brandscope/internal/pkg/upstream"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCacheRepo struct {
	mu     sync.Mutex
	rows   map[string]*model.ChannelCache
	getErr error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{rows: make(map[string]*model.ChannelCache)}
}

func (s *fakeCacheRepo) GetByKey(_ context.Context, key string) (*model.ChannelCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	row, ok := s.rows[key]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (s *fakeCacheRepo) Upsert(_ context.Context, row *model.ChannelCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *row
	s.rows[row.CompositeKey] = &cp
	return nil
}

type fakeLedgerRepo struct {
	mu   sync.Mutex
	rows map[string]*model.DailySnapshot
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{rows: make(map[string]*model.DailySnapshot)}
}

func (s *fakeLedgerRepo) ledgerKey(handle, platform string, date time.Time) string {
	return handle + "|" + platform + "|" + date.Format("2006-01-02")
}

func (s *fakeLedgerRepo) UpsertSnapshot(_ context.Context, row *model.DailySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *row
	s.rows[s.ledgerKey(row.ChannelHandle, row.Platform, row.SnapshotDate)] = &cp
	return nil
}

func (s *fakeLedgerRepo) ListSince(_ context.Context, handle, platform string, _ int) ([]*model.DailySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.DailySnapshot, 0)
	for _, row := range s.rows {
		if row.ChannelHandle == handle && row.Platform == platform {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeChannelRepo struct {
	mu       sync.Mutex
	channels map[string]*model.BrandChannel
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{channels: make(map[string]*model.BrandChannel)}
}

func (s *fakeChannelRepo) chanKey(handle, platform string) string {
	return handle + "|" + platform
}

func (s *fakeChannelRepo) AddChannel(_ context.Context, ch *model.BrandChannel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[s.chanKey(ch.ChannelHandle, ch.Platform)] = ch
	return nil
}

func (s *fakeChannelRepo) RemoveChannel(_ context.Context, _ uint64, handle, platform string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, s.chanKey(handle, platform))
	return nil
}

func (s *fakeChannelRepo) SetActive(_ context.Context, _ uint64, handle, platform string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.channels[s.chanKey(handle, platform)]; ok {
		ch.Active = active
	}
	return nil
}

func (s *fakeChannelRepo) UpdateNativeChannelID(_ context.Context, handle, platform, nativeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.channels[s.chanKey(handle, platform)]; ok {
		ch.NativeChannelID = nativeID
	}
	return nil
}

func (s *fakeChannelRepo) UpsertInstagramToken(_ context.Context, ch *model.BrandChannel) error {
	return s.AddChannel(context.Background(), ch)
}

func (s *fakeChannelRepo) UpdateInstagramToken(_ context.Context, handle, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.channels[s.chanKey(handle, "instagram")]; ok {
		ch.InstagramAccessToken = token
		ch.AccessTokenExpiresAt = &expiresAt
	}
	return nil
}

func (s *fakeChannelRepo) GetChannel(_ context.Context, handle, platform string) (*model.BrandChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels[s.chanKey(handle, platform)], nil
}

func (s *fakeChannelRepo) ListByBrand(_ context.Context, brandID uint64) ([]*model.BrandChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.BrandChannel, 0)
	for _, ch := range s.channels {
		if ch.BrandID == brandID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (s *fakeChannelRepo) ListActive(_ context.Context) ([]*model.BrandChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.BrandChannel, 0)
	for _, ch := range s.channels {
		if ch.Active {
			out = append(out, ch)
		}
	}
	return out, nil
}

type fakeAdapter struct {
	profile      *model.ChannelProfile
	posts        []model.Post
	err          error
	profileCalls int32
	postCalls    int32
	lastOpts     upstream.FetchOptions
	// block 非 nil 时 FetchProfile 会阻塞到该通道关闭
	block chan struct{}
}

func (s *fakeAdapter) FetchProfile(_ context.Context, _ string, _ string) (*model.ChannelProfile, error) {
	atomic.AddInt32(&s.profileCalls, 1)
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.profile
	return &cp, nil
}

func (s *fakeAdapter) FetchPosts(_ context.Context, _ string, opts upstream.FetchOptions) ([]model.Post, error) {
	atomic.AddInt32(&s.postCalls, 1)
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return append([]model.Post{}, s.posts...), nil
}

type syncFixture struct {
	cacheRepo   *fakeCacheRepo
	ledgerRepo  *fakeLedgerRepo
	channelRepo *fakeChannelRepo
	adapter     *fakeAdapter
	svc         SyncService
}

func newSyncFixture(adapter *fakeAdapter) *syncFixture {
	f := &syncFixture{
		cacheRepo:   newFakeCacheRepo(),
		ledgerRepo:  newFakeLedgerRepo(),
		channelRepo: newFakeChannelRepo(),
		adapter:     adapter,
	}
	f.svc = NewSyncService(
		f.cacheRepo, f.ledgerRepo, f.channelRepo,
		map[string]upstream.Adapter{"youtube": adapter, "tiktok": adapter},
		nil,
		config.SyncConfig{CacheTTLHours: 12, FullFetchIntervalHours: 168, SweepDelayMs: 0},
	)
	return f
}

func testProfile() *model.ChannelProfile {
	return &model.ChannelProfile{
		ID:          "UC123",
		Handle:      "mrbeast",
		Title:       "MrBeast",
		Subscribers: 300_000_000,
		ViewCount:   60_000_000_000,
		VideoCount:  2,
		Platform:    "youtube",
	}
}

func seedCache(t *testing.T, f *syncFixture, key string, snap *model.Snapshot, syncedAt time.Time) {
	t.Helper()
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, f.cacheRepo.Upsert(context.Background(), &model.ChannelCache{
		CompositeKey: key,
		SnapshotJSON: string(raw),
		LastSyncedAt: syncedAt,
	}))
}

func TestSync_FreshCacheShortCircuits(t *testing.T) {
	adapter := &fakeAdapter{profile: testProfile()}
	f := newSyncFixture(adapter)

	lastFull := time.Now().Add(-time.Hour)
	seedCache(t, f, "mrbeast::youtube", &model.Snapshot{
		Channel:         *testProfile(),
		Posts:           []model.Post{{ID: "v1", Views: 100}},
		TotalViews:      100,
		LastFullFetchAt: &lastFull,
	}, time.Now().Add(-time.Minute))

	snap, err := f.svc.Sync(context.Background(), "MrBeast", "youtube", false, false)
	require.NoError(t, err)
	assert.Equal(t, int64(100), snap.TotalViews)
	assert.Zero(t, atomic.LoadInt32(&adapter.profileCalls))
}

func TestSync_ExpiredCacheTriggersQuickFetch(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v2", Views: 500}},
	}
	f := newSyncFixture(adapter)

	lastFull := time.Now().Add(-time.Hour)
	seedCache(t, f, "mrbeast::youtube", &model.Snapshot{
		Channel:         *testProfile(),
		Posts:           []model.Post{{ID: "v1", Views: 100}},
		LastFullFetchAt: &lastFull,
	}, time.Now().Add(-24*time.Hour))

	snap, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
	require.NoError(t, err)

	assert.False(t, adapter.lastOpts.FullFetch)
	// 快速拉取与旧集合做并集
	assert.Len(t, snap.Posts, 2)
}

func TestSync_ForceRefreshBypassesFreshCache(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 200}},
	}
	f := newSyncFixture(adapter)

	lastFull := time.Now().Add(-time.Hour)
	seedCache(t, f, "mrbeast::youtube", &model.Snapshot{
		Channel:         *testProfile(),
		Posts:           []model.Post{{ID: "v1", Views: 100}},
		LastFullFetchAt: &lastFull,
	}, time.Now())

	snap, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", true, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&adapter.profileCalls))
	assert.Equal(t, int64(200), snap.Posts[0].Views)
}

func TestSync_NoCacheDoesFullFetch(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 100}, {ID: "v2", Views: 200}},
	}
	f := newSyncFixture(adapter)

	snap, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
	require.NoError(t, err)

	assert.True(t, adapter.lastOpts.FullFetch)
	require.NotNil(t, snap.LastFullFetchAt)
	// 档案总播放量高于帖子求和时取档案值
	assert.Equal(t, int64(60_000_000_000), snap.TotalViews)

	row, err := f.cacheRepo.GetByKey(context.Background(), "mrbeast::youtube")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "UC123", row.NativeChannelID)
}

func TestSync_TotalViewsTakesPostSumWhenHigher(t *testing.T) {
	profile := testProfile()
	profile.ViewCount = 50
	adapter := &fakeAdapter{
		profile: profile,
		posts:   []model.Post{{ID: "v1", Views: 400}, {ID: "v2", Views: 300}},
	}
	f := newSyncFixture(adapter)

	snap, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
	require.NoError(t, err)
	assert.Equal(t, int64(700), snap.TotalViews)
}

func TestSync_LedgerUpsertIsIdempotentPerDay(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 100}},
	}
	f := newSyncFixture(adapter)

	_, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", true, false)
	require.NoError(t, err)
	_, err = f.svc.Sync(context.Background(), "mrbeast", "youtube", true, false)
	require.NoError(t, err)

	rows, err := f.ledgerRepo.ListSince(context.Background(), "mrbeast", "youtube", 90)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSync_ConcurrentRequestsShareOneFlight(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 100}},
		block:   make(chan struct{}),
	}
	f := newSyncFixture(adapter)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*model.Snapshot, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
		}(i)
	}

	// 等全部请求挂到同一航班上再放行
	time.Sleep(50 * time.Millisecond)
	close(adapter.block)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&adapter.profileCalls))
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
}

func TestSync_UpstreamFailureSurfacesErrorDespiteStaleCache(t *testing.T) {
	adapter := &fakeAdapter{err: upstream.ErrUpstream}
	f := newSyncFixture(adapter)

	seedCache(t, f, "mrbeast::youtube", &model.Snapshot{
		Channel:    *testProfile(),
		Posts:      []model.Post{{ID: "v1", Views: 100}},
		TotalViews: 100,
	}, time.Now().Add(-48*time.Hour))

	// 有过期旧快照也不许吞错：强制刷新失败必须让调用方看见
	snap, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", true, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamFailed)
	assert.Nil(t, snap)

	rows, err := f.ledgerRepo.ListSince(context.Background(), "mrbeast", "youtube", 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSync_CacheReadFailureDegradesToDirectFetch(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 100}},
	}
	f := newSyncFixture(adapter)
	f.cacheRepo.getErr = errors.New("mysql is down")

	snap, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
	require.NoError(t, err)
	require.NotNil(t, snap)
	// 缓存库挂掉按未命中处理，直接走上游
	assert.Equal(t, int32(1), atomic.LoadInt32(&adapter.profileCalls))
}

func TestSync_UpstreamFailureWithoutCacheMapsError(t *testing.T) {
	adapter := &fakeAdapter{err: upstream.ErrQuotaExceeded}
	f := newSyncFixture(adapter)

	_, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
	assert.ErrorIs(t, err, ErrOutOfCredits)

	adapter.err = upstream.ErrChannelNotFound
	_, err = f.svc.Sync(context.Background(), "nobody", "youtube", false, false)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestSync_LegacyBareHandleRowStillServes(t *testing.T) {
	adapter := &fakeAdapter{profile: testProfile()}
	f := newSyncFixture(adapter)

	// 历史缓存行没有平台后缀，只对 youtube 生效
	seedCache(t, f, "mrbeast", &model.Snapshot{
		Channel:    *testProfile(),
		Posts:      []model.Post{{ID: "v1", Views: 100}},
		TotalViews: 100,
	}, time.Now())

	snap, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
	require.NoError(t, err)
	assert.Equal(t, int64(100), snap.TotalViews)
	assert.Zero(t, atomic.LoadInt32(&adapter.profileCalls))
}

func TestSync_LegacyRowOtherPlatformTreatedAsMiss(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 100}},
	}
	f := newSyncFixture(adapter)

	// 裸句柄行里记的却是 tiktok 快照，不能当 youtube 缓存用
	legacy := testProfile()
	legacy.Platform = "tiktok"
	seedCache(t, f, "mrbeast", &model.Snapshot{
		Channel:    *legacy,
		Posts:      []model.Post{{ID: "tt-1", Views: 999}},
		TotalViews: 999,
	}, time.Now())

	snap, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&adapter.profileCalls))
	require.Len(t, snap.Posts, 1)
	assert.Equal(t, "v1", snap.Posts[0].ID)
}

func TestSync_FullFetchDoesNotJoinQuickFlight(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 100}},
		block:   make(chan struct{}),
	}
	f := newSyncFixture(adapter)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = f.svc.Sync(context.Background(), "mrbeast", "youtube", true, false)
	}()
	go func() {
		defer wg.Done()
		_, _ = f.svc.Sync(context.Background(), "mrbeast", "youtube", false, true)
	}()

	// 强制快速与强制全量各走各的航班
	time.Sleep(50 * time.Millisecond)
	close(adapter.block)
	wg.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&adapter.profileCalls))
}

func TestSweepChannel_YouTubeLedgerOnly(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 100}},
	}
	f := newSyncFixture(adapter)
	impl := f.svc.(*syncServiceImpl)

	err := impl.sweepChannel(context.Background(), &model.BrandChannel{
		ChannelHandle: "mrbeast",
		Platform:      "youtube",
	})
	require.NoError(t, err)

	// 只拉档案总量，不翻帖子也不动快照缓存
	assert.Equal(t, int32(1), atomic.LoadInt32(&adapter.profileCalls))
	assert.Zero(t, atomic.LoadInt32(&adapter.postCalls))
	assert.Empty(t, f.cacheRepo.rows)

	rows, err := f.ledgerRepo.ListSince(context.Background(), "mrbeast", "youtube", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(60_000_000_000), rows[0].TotalViews)
	assert.Equal(t, int64(300_000_000), rows[0].Followers)
}

func TestSweepChannel_TikTokSumsPostPlays(t *testing.T) {
	profile := testProfile()
	profile.Platform = "tiktok"
	profile.ViewCount = 0
	adapter := &fakeAdapter{
		profile: profile,
		posts:   []model.Post{{ID: "a1", Views: 100}, {ID: "a2", Views: 200}},
	}
	f := newSyncFixture(adapter)
	impl := f.svc.(*syncServiceImpl)

	err := impl.sweepChannel(context.Background(), &model.BrandChannel{
		ChannelHandle: "charli",
		Platform:      "tiktok",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&adapter.postCalls))
	assert.True(t, adapter.lastOpts.FullFetch)

	rows, err := f.ledgerRepo.ListSince(context.Background(), "charli", "tiktok", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(300), rows[0].TotalViews)
	assert.Equal(t, 2, rows[0].VideoCount)
}

func TestSweepChannel_InstagramWithoutTokenFails(t *testing.T) {
	f := newSyncFixture(&fakeAdapter{profile: testProfile()})
	impl := f.svc.(*syncServiceImpl)

	err := impl.sweepChannel(context.Background(), &model.BrandChannel{
		ChannelHandle: "someaccount",
		Platform:      "instagram",
	})
	assert.ErrorIs(t, err, ErrInstagramNotLinked)
}

func TestDedupeChannels(t *testing.T) {
	// 两个品牌挂同一个频道时每日只扫一次
	channels := []*model.BrandChannel{
		{BrandID: 1, ChannelHandle: "mrbeast", Platform: "youtube"},
		{BrandID: 2, ChannelHandle: "mrbeast", Platform: "youtube"},
		{BrandID: 1, ChannelHandle: "mrbeast", Platform: "tiktok"},
	}

	out := dedupeChannels(channels)
	require.Len(t, out, 2)
	assert.Equal(t, "youtube", out[0].Platform)
	assert.Equal(t, "tiktok", out[1].Platform)
}

func TestSync_InvalidPlatformRejected(t *testing.T) {
	f := newSyncFixture(&fakeAdapter{profile: testProfile()})

	_, err := f.svc.Sync(context.Background(), "mrbeast", "twitch", false, false)
	assert.ErrorIs(t, err, ErrPlatformInvalid)
}

func TestSync_InstagramWithoutTokenRejected(t *testing.T) {
	f := newSyncFixture(&fakeAdapter{profile: testProfile()})

	_, err := f.svc.Sync(context.Background(), "someaccount", "instagram", false, false)
	assert.ErrorIs(t, err, ErrInstagramNotLinked)
}

func TestSync_BackfillsNativeChannelID(t *testing.T) {
	adapter := &fakeAdapter{
		profile: testProfile(),
		posts:   []model.Post{{ID: "v1", Views: 100}},
	}
	f := newSyncFixture(adapter)
	require.NoError(t, f.channelRepo.AddChannel(context.Background(), &model.BrandChannel{
		BrandID:       1,
		ChannelHandle: "mrbeast",
		Platform:      "youtube",
		Active:        true,
	}))

	_, err := f.svc.Sync(context.Background(), "mrbeast", "youtube", false, false)
	require.NoError(t, err)

	ch, err := f.channelRepo.GetChannel(context.Background(), "mrbeast", "youtube")
	require.NoError(t, err)
	assert.Equal(t, "UC123", ch.NativeChannelID)
}
