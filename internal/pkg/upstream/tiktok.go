package upstream

import (
	"Brandscope/internal/model"
	"Brandscope/internal/pkg/consts"
	"Brandscope/internal/pkg/util"
	"context"
	"time"
)

// TikTokAdapter 通过聚合 API 拉取 TikTok 账号与视频
type TikTokAdapter struct {
	client   *Client
	maxPages int
}

func NewTikTokAdapter(client *Client, maxPages int) *TikTokAdapter {
	return &TikTokAdapter{client: client, maxPages: maxPages}
}

type ttProfileResponse struct {
	User struct {
		ID           string `json:"id"`
		UniqueID     string `json:"uniqueId"`
		Nickname     string `json:"nickname"`
		AvatarMedium string `json:"avatarMedium"`
		AvatarLarger string `json:"avatarLarger"`
		AvatarThumb  string `json:"avatarThumb"`
	} `json:"user"`
	Stats struct {
		FollowerCount int64 `json:"followerCount"`
		HeartCount    int64 `json:"heartCount"`
		VideoCount    int   `json:"videoCount"`
	} `json:"stats"`
}

type ttStats struct {
	PlayCount    int64 `json:"play_count"`
	DiggCount    int64 `json:"digg_count"`
	CommentCount int64 `json:"comment_count"`
	ShareCount   int64 `json:"share_count"`
}

type ttVideo struct {
	AwemeID string      `json:"aweme_id"`
	ID      looseString `json:"id"`
	Desc    string      `json:"desc"`
	// 统计字段的候选链：statistics > stats > 顶层 play_count
	Statistics    ttStats `json:"statistics"`
	Stats         ttStats `json:"stats"`
	PlayCount     int64   `json:"play_count"`
	CreateTimeUTC string  `json:"create_time_utc"`
	CreateTime    int64   `json:"create_time"`
	Video         struct {
		DynamicCover struct {
			URLList []string `json:"url_list"`
		} `json:"dynamic_cover"`
		Cover struct {
			URLList []string `json:"url_list"`
		} `json:"cover"`
	} `json:"video"`
}

type ttVideosResponse struct {
	AwemeList []ttVideo   `json:"aweme_list"`
	Videos    []ttVideo   `json:"videos"`
	HasMore   looseBool   `json:"has_more"`
	MaxCursor looseString `json:"max_cursor"`
	Cursor    looseString `json:"cursor"`
}

func (r *ttVideosResponse) videos() []ttVideo {
	if len(r.AwemeList) > 0 {
		return r.AwemeList
	}
	return r.Videos
}

// nextCursor 游标候选链：max_cursor > cursor
func (r *ttVideosResponse) nextCursor() string {
	return firstString(r.MaxCursor.String(), r.Cursor.String())
}

// FetchProfile 拉取账号画像，TikTok 句柄查询无歧义，单次即可
func (s *TikTokAdapter) FetchProfile(ctx context.Context, handle string, _ string) (*model.ChannelProfile, error) {
	clean := util.NormalizeHandle(handle)

	var data ttProfileResponse
	if err := s.client.get(ctx, "/v1/tiktok/profile", map[string]string{"handle": clean}, &data); err != nil {
		return nil, err
	}
	if data.User.ID == "" {
		return nil, ErrChannelNotFound
	}

	return &model.ChannelProfile{
		ID:          data.User.ID,
		Handle:      util.NormalizeHandle(firstString(data.User.UniqueID, clean)),
		Title:       firstString(data.User.Nickname, clean),
		Subscribers: data.Stats.FollowerCount,
		// TikTok 画像不含生涯播放总量，totalViews 由帖子求和兜底
		ViewCount:  0,
		VideoCount: data.Stats.VideoCount,
		Thumbnail:  firstString(data.User.AvatarMedium, data.User.AvatarLarger, data.User.AvatarThumb),
		Platform:   consts.PlatformTiktok,
	}, nil
}

// FetchPosts 拉取视频列表，全量模式按 max_cursor 翻页直至页数上限
func (s *TikTokAdapter) FetchPosts(ctx context.Context, handle string, opts FetchOptions) ([]model.Post, error) {
	clean := util.NormalizeHandle(handle)
	pages := 1
	if opts.FullFetch {
		pages = s.maxPages
	}

	var posts []model.Post
	cursor := ""
	for page := 0; page < pages; page++ {
		params := map[string]string{"handle": clean, "sort_by": "latest"}
		if cursor != "" {
			params["max_cursor"] = cursor
		}

		var data ttVideosResponse
		if err := s.client.get(ctx, "/v3/tiktok/profile/videos", params, &data); err != nil {
			return nil, err
		}
		chunk := data.videos()
		for _, v := range chunk {
			posts = append(posts, ttVideoToPost(v))
		}

		next := data.nextCursor()
		if !bool(data.HasMore) || len(chunk) == 0 || next == "" || next == cursor {
			break
		}
		cursor = next
	}
	return posts, nil
}

func ttVideoToPost(v ttVideo) model.Post {
	thumbnail := ""
	if len(v.Video.DynamicCover.URLList) > 0 {
		thumbnail = v.Video.DynamicCover.URLList[0]
	} else if len(v.Video.Cover.URLList) > 0 {
		thumbnail = v.Video.Cover.URLList[0]
	}

	var publishedAt *time.Time
	if t := parseUpstreamTime(v.CreateTimeUTC); t != nil {
		publishedAt = t
	} else if v.CreateTime > 0 {
		t := time.Unix(v.CreateTime, 0).UTC()
		publishedAt = &t
	}

	return model.Post{
		ID:          firstString(v.AwemeID, v.ID.String()),
		Caption:     firstString(v.Desc, "(Untitled)"),
		Views:       firstInt64(v.Statistics.PlayCount, v.Stats.PlayCount, v.PlayCount),
		Likes:       firstInt64(v.Statistics.DiggCount, v.Stats.DiggCount),
		Comments:    firstInt64(v.Statistics.CommentCount, v.Stats.CommentCount),
		Shares:      firstInt64(v.Statistics.ShareCount, v.Stats.ShareCount),
		Platform:    "tt",
		Thumbnail:   thumbnail,
		PublishedAt: publishedAt,
	}
}
