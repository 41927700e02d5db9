package upstream

import (
	"Brandscope/internal/model"
	"Brandscope/internal/pkg/consts"
	"Brandscope/internal/pkg/util"
	"context"
	log "log/slog"
	"regexp"
	"strings"
	"time"
)

// YouTubeAdapter 通过聚合 API 拉取 YouTube 频道与视频
type YouTubeAdapter struct {
	client   *Client
	maxPages int
}

func NewYouTubeAdapter(client *Client, maxPages int) *YouTubeAdapter {
	return &YouTubeAdapter{client: client, maxPages: maxPages}
}

type ytAvatarSource struct {
	URL string `json:"url"`
}

type ytChannelResponse struct {
	ChannelID   string `json:"channelId"`
	ChannelID2  string `json:"channel_id"`
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Name        string `json:"name"`
	Channel     string `json:"channel"`
	Subscribers int64  `json:"subscriberCount"`
	ViewCount   int64  `json:"viewCount"`
	VideoCount  int    `json:"videoCount"`
	Avatar      struct {
		Image struct {
			Sources []ytAvatarSource `json:"sources"`
		} `json:"image"`
	} `json:"avatar"`
}

// nativeID 频道原生 ID 的候选链：channelId > channel_id > id
func (r *ytChannelResponse) nativeID() string {
	return firstString(r.ChannelID, r.ChannelID2, r.ID)
}

type ytVideo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Thumbnail     string `json:"thumbnail"`
	ViewCountInt  int64  `json:"viewCountInt"`
	PublishedTime string `json:"publishedTime"`
}

type ytVideosResponse struct {
	Videos []ytVideo `json:"videos"`
	Items  []ytVideo `json:"items"`
	// 翻页令牌的候选链：continuationToken > continuation_token
	ContinuationToken  string `json:"continuationToken"`
	ContinuationToken2 string `json:"continuation_token"`
}

func (r *ytVideosResponse) videos() []ytVideo {
	if len(r.Videos) > 0 {
		return r.Videos
	}
	return r.Items
}

func (r *ytVideosResponse) nextToken() string {
	return firstString(r.ContinuationToken, r.ContinuationToken2)
}

var handleInURLRegex = regexp.MustCompile(`@([a-zA-Z0-9_.@-]+)`)

// extractHandleFromChannelURL 从频道主页 URL 中抽出规范句柄
func extractHandleFromChannelURL(channelURL string) string {
	m := handleInURLRegex.FindStringSubmatch(channelURL)
	if m == nil {
		return ""
	}
	return strings.TrimSuffix(m[1], ".")
}

// FetchProfile 解析句柄并拉取频道画像
// 上游对空格和 @ 前缀敏感，按固定顺序尝试变体，命中即停：
//  1. 已知原生 ID（最可靠，省去解析）
//  2. 去掉内部空白的句柄（上游对含空格句柄直接 404）
//  3. 原始清洗句柄（与 2 不同时才尝试）
//  4. 由无空格句柄构造的频道主页 URL（最贵、放最后）
//
// 全部失败时返回最后一个错误
func (s *YouTubeAdapter) FetchProfile(ctx context.Context, handle string, knownChannelID string) (*model.ChannelProfile, error) {
	clean := util.NormalizeHandle(handle)
	noSpaces := strings.Join(strings.Fields(clean), "")

	var variants []map[string]string
	if knownChannelID != "" {
		variants = append(variants, map[string]string{"channelId": knownChannelID})
	}
	if noSpaces != "" {
		variants = append(variants, map[string]string{"handle": noSpaces})
	}
	if clean != noSpaces && clean != "" {
		variants = append(variants, map[string]string{"handle": clean})
	}
	if noSpaces != "" {
		variants = append(variants, map[string]string{"url": "https://www.youtube.com/@" + noSpaces})
	}

	lastErr := ErrChannelNotFound
	for _, params := range variants {
		var data ytChannelResponse
		err := s.client.get(ctx, "/v1/youtube/channel", params, &data)
		if err != nil {
			lastErr = err
			continue
		}
		id := data.nativeID()
		if id == "" {
			continue
		}

		canonical := firstString(extractHandleFromChannelURL(data.Channel), data.Handle, clean)
		sources := data.Avatar.Image.Sources
		thumbnail := ""
		if len(sources) > 0 {
			// 取分辨率最高的一张
			thumbnail = sources[len(sources)-1].URL
		}
		return &model.ChannelProfile{
			ID:          id,
			Handle:      util.NormalizeHandle(canonical),
			Title:       firstString(data.Name, canonical),
			Subscribers: data.Subscribers,
			ViewCount:   data.ViewCount,
			VideoCount:  data.VideoCount,
			Thumbnail:   thumbnail,
			Platform:    consts.PlatformYoutube,
		}, nil
	}
	return nil, lastErr
}

// FetchPosts 拉取频道视频列表
// 全量模式跟随翻页令牌直至页数上限，快速模式只取一页
// 列表过短时尝试 Shorts 端点兜底，长视频端点会漏报以短视频为主的频道
func (s *YouTubeAdapter) FetchPosts(ctx context.Context, handle string, opts FetchOptions) ([]model.Post, error) {
	params := map[string]string{"sort": "latest"}
	if handle != "" {
		params["handle"] = util.NormalizeHandle(handle)
	} else if opts.ChannelID != "" {
		params["channelId"] = opts.ChannelID
	}

	posts, err := s.fetchVideoPages(ctx, "/v1/youtube/channel-videos", params, opts.FullFetch)
	if err != nil {
		return nil, err
	}

	// 句柄查询空结果而原生 ID 已知时换 ID 再试一次
	if len(posts) == 0 && opts.ChannelID != "" && handle != "" {
		posts, err = s.fetchVideoPages(ctx, "/v1/youtube/channel-videos",
			map[string]string{"channelId": opts.ChannelID, "sort": "latest"}, opts.FullFetch)
		if err != nil {
			return nil, err
		}
	}

	if len(posts) < shortFormFallbackThreshold {
		posts = s.mergeShorts(ctx, params, posts)
	}
	return posts, nil
}

// shortFormFallbackThreshold 视频数低于该值时怀疑长视频端点漏报
const shortFormFallbackThreshold = 5

func (s *YouTubeAdapter) fetchVideoPages(ctx context.Context, path string, base map[string]string, fullFetch bool) ([]model.Post, error) {
	var posts []model.Post
	token := ""
	pages := 1
	if fullFetch {
		pages = s.maxPages
	}

	for page := 0; page < pages; page++ {
		params := make(map[string]string, len(base)+1)
		for k, v := range base {
			params[k] = v
		}
		if token != "" {
			params["continuationToken"] = token
		}

		var data ytVideosResponse
		if err := s.client.get(ctx, path, params, &data); err != nil {
			return nil, err
		}
		chunk := data.videos()
		for _, v := range chunk {
			posts = append(posts, ytVideoToPost(v))
		}

		token = data.nextToken()
		if len(chunk) == 0 || token == "" {
			break
		}
	}
	return posts, nil
}

// mergeShorts Shorts 端点兜底，失败不致命，原列表照常返回
func (s *YouTubeAdapter) mergeShorts(ctx context.Context, base map[string]string, posts []model.Post) []model.Post {
	var data ytVideosResponse
	if err := s.client.get(ctx, "/v1/youtube/channel/shorts", base, &data); err != nil {
		log.WarnContext(ctx, "youtube shorts fallback failed", "err", err)
		return posts
	}

	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		seen[p.ID] = struct{}{}
	}
	for _, v := range data.videos() {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		posts = append(posts, ytVideoToPost(v))
	}
	return posts
}

func ytVideoToPost(v ytVideo) model.Post {
	return model.Post{
		ID:          v.ID,
		Caption:     firstString(v.Title, "(Untitled)"),
		Views:       v.ViewCountInt,
		Platform:    "yt",
		Thumbnail:   v.Thumbnail,
		PublishedAt: parseUpstreamTime(v.PublishedTime),
	}
}

// parseUpstreamTime 上游发布时间为 RFC3339 字符串，解析失败按缺失处理
func parseUpstreamTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}
