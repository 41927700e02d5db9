package upstream

import (
	"Brandscope/internal/api/config"
	"Brandscope/internal/model"
	"Brandscope/internal/pkg/consts"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	defaultGraphBaseURL = "https://graph.instagram.com/v25.0"
	defaultOAuthBaseURL = "https://api.instagram.com"
)

// InstagramAPI Instagram 适配器出口，账号由 token 预先绑定，无句柄解析歧义
type InstagramAPI interface {
	FetchProfile(ctx context.Context, token string) (*model.ChannelProfile, error)
	// FetchPosts 全量翻页媒体列表并逐条查询视频播放量
	// 单条 insights 失败降级为 views=0，不中断整体拉取
	FetchPosts(ctx context.Context, userID string, token string) ([]model.Post, error)
	RefreshToken(ctx context.Context, token string) (string, int64, error)
	ExchangeCode(ctx context.Context, code string) (string, string, error)
	ExchangeLongLived(ctx context.Context, shortToken string) (string, int64, error)
}

// InstagramAdapter Graph API 客户端实现
type InstagramAdapter struct {
	graph *resty.Client
	oauth *resty.Client
	cfg   config.InstagramConfig
}

func NewInstagramAdapter(cfg config.InstagramConfig) *InstagramAdapter {
	graphBase := cfg.GraphBaseURL
	if graphBase == "" {
		graphBase = defaultGraphBaseURL
	}
	oauthBase := cfg.OAuthBaseURL
	if oauthBase == "" {
		oauthBase = defaultOAuthBaseURL
	}

	return &InstagramAdapter{
		graph: resty.New().SetBaseURL(graphBase).SetTimeout(20 * time.Second),
		oauth: resty.New().SetBaseURL(oauthBase).SetTimeout(20 * time.Second),
		cfg:   cfg,
	}
}

type igError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type igErrorEnvelope struct {
	Error *igError `json:"error"`
}

// classifyIGError Graph API 业务错误码归类：190 凭证失效，4/17/32/613 限流
func classifyIGError(e *igError) error {
	switch e.Code {
	case 190, 102:
		return errors.Wrap(ErrUnauthorized, e.Message)
	case 4, 17, 32, 613:
		return errors.Wrap(ErrQuotaExceeded, e.Message)
	default:
		return errors.Wrap(ErrUpstream, e.Message)
	}
}

func (s *InstagramAdapter) graphGet(ctx context.Context, path string, params map[string]string, out interface{}, envelope *igErrorEnvelope) error {
	resp, err := s.graph.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		SetError(envelope).
		Get(path)
	if err != nil {
		return errors.Wrap(ErrUpstream, err.Error())
	}
	if resp.IsError() {
		if envelope != nil && envelope.Error != nil {
			return classifyIGError(envelope.Error)
		}
		return classifyStatus(resp.StatusCode(), resp.String())
	}
	return nil
}

type igProfileResponse struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	FollowersCount    int64  `json:"followers_count"`
	MediaCount        int    `json:"media_count"`
}

func (s *InstagramAdapter) FetchProfile(ctx context.Context, token string) (*model.ChannelProfile, error) {
	var data igProfileResponse
	var envelope igErrorEnvelope
	err := s.graphGet(ctx, "/me", map[string]string{
		"fields":       "id,username,name,profile_picture_url,followers_count,media_count",
		"access_token": token,
	}, &data, &envelope)
	if err != nil {
		return nil, err
	}
	if data.ID == "" {
		return nil, ErrChannelNotFound
	}

	return &model.ChannelProfile{
		ID:          data.ID,
		Handle:      strings.ToLower(data.Username),
		Title:       firstString(data.Name, data.Username),
		Subscribers: data.FollowersCount,
		VideoCount:  data.MediaCount,
		Thumbnail:   data.ProfilePictureURL,
		Platform:    consts.PlatformInstagram,
	}, nil
}

type igMedia struct {
	ID           string `json:"id"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Timestamp    string `json:"timestamp"`
	Caption      string `json:"caption"`
}

type igMediaResponse struct {
	Data   []igMedia `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

func (s *InstagramAdapter) FetchPosts(ctx context.Context, userID string, token string) ([]model.Post, error) {
	media, err := s.fetchAllMedia(ctx, userID, token)
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(media))
	for _, m := range media {
		posts = append(posts, s.mediaToPost(ctx, m, token))
	}
	return posts, nil
}

// fetchAllMedia Graph API 无增量模式，每次都全量翻页
func (s *InstagramAdapter) fetchAllMedia(ctx context.Context, userID string, token string) ([]igMedia, error) {
	var all []igMedia

	var data igMediaResponse
	var envelope igErrorEnvelope
	err := s.graphGet(ctx, "/"+userID+"/media", map[string]string{
		"fields":       "id,media_type,media_url,thumbnail_url,timestamp,caption",
		"limit":        "50",
		"access_token": token,
	}, &data, &envelope)
	if err != nil {
		return nil, err
	}
	all = append(all, data.Data...)

	// paging.next 是带齐全部参数的绝对 URL
	next := data.Paging.Next
	for next != "" {
		var page igMediaResponse
		var pageEnvelope igErrorEnvelope
		resp, err := s.graph.R().SetContext(ctx).SetResult(&page).SetError(&pageEnvelope).Get(next)
		if err != nil {
			return nil, errors.Wrap(ErrUpstream, err.Error())
		}
		if resp.IsError() {
			if pageEnvelope.Error != nil {
				return nil, classifyIGError(pageEnvelope.Error)
			}
			return nil, classifyStatus(resp.StatusCode(), resp.String())
		}
		all = append(all, page.Data...)
		next = page.Paging.Next
	}
	return all, nil
}

type igInsightValue struct {
	Value looseString `json:"value"`
}

type igInsightsResponse struct {
	Data []struct {
		Name       string           `json:"name"`
		Values     []igInsightValue `json:"values"`
		TotalValue igInsightValue   `json:"total_value"`
	} `json:"data"`
}

// insightMetrics 按名字取出指标值，values[0].value 与 total_value.value 二选一
func (r *igInsightsResponse) metric(name string) int64 {
	for _, d := range r.Data {
		if d.Name != name {
			continue
		}
		raw := d.TotalValue.Value.String()
		if len(d.Values) > 0 && d.Values[0].Value.String() != "" {
			raw = d.Values[0].Value.String()
		}
		n, _ := strconv.ParseInt(raw, 10, 64)
		return n
	}
	return 0
}

func isVideoMedia(mediaType string) bool {
	t := strings.ToUpper(mediaType)
	return t == "VIDEO" || t == "REELS"
}

func (s *InstagramAdapter) mediaToPost(ctx context.Context, m igMedia, token string) model.Post {
	metrics := "likes,comments"
	if isVideoMedia(m.MediaType) {
		// 普通媒体列表不含视频播放量，必须逐条查询 insights
		metrics = "views,likes,comments"
	}

	var insights igInsightsResponse
	var envelope igErrorEnvelope
	err := s.graphGet(ctx, "/"+m.ID+"/insights", map[string]string{
		"metric":       metrics,
		"access_token": token,
	}, &insights, &envelope)
	if err != nil {
		log.WarnContext(ctx, "instagram insights degraded", "media_id", m.ID, "err", err)
	}

	caption := m.Caption
	// 按 rune 截断，IG 文案里全是 emoji，切字节会产生坏串
	if r := []rune(caption); len(r) > 100 {
		caption = string(r[:100])
	}
	return model.Post{
		ID:          m.ID,
		Caption:     firstString(caption, "(Untitled)"),
		Views:       insights.metric("views"),
		Likes:       insights.metric("likes"),
		Comments:    insights.metric("comments"),
		Platform:    "ig",
		Thumbnail:   firstString(m.ThumbnailURL, m.MediaURL),
		PublishedAt: parseUpstreamTime(m.Timestamp),
	}
}

type igTokenResponse struct {
	AccessToken  string      `json:"access_token"`
	UserID       looseString `json:"user_id"`
	ExpiresIn    int64       `json:"expires_in"`
	Error        *igError    `json:"error"`
	ErrorMessage string      `json:"error_message"`
}

// ExchangeCode 授权码换短期 token，返回 (token, 原生用户 ID)
func (s *InstagramAdapter) ExchangeCode(ctx context.Context, code string) (string, string, error) {
	var data igTokenResponse
	resp, err := s.oauth.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     s.cfg.AppID,
			"client_secret": s.cfg.AppSecret,
			"grant_type":    "authorization_code",
			"redirect_uri":  s.cfg.CallbackURL,
			"code":          code,
		}).
		SetResult(&data).
		Post("/oauth/access_token")
	if err != nil {
		return "", "", errors.Wrap(ErrUpstream, err.Error())
	}
	if data.Error != nil {
		return "", "", classifyIGError(data.Error)
	}
	if resp.IsError() || data.AccessToken == "" {
		return "", "", errors.Wrap(ErrUpstream, firstString(data.ErrorMessage, "token exchange failed"))
	}
	return data.AccessToken, data.UserID.String(), nil
}

// ExchangeLongLived 短期 token 换 60 天长期 token，返回 (token, 有效秒数)
func (s *InstagramAdapter) ExchangeLongLived(ctx context.Context, shortToken string) (string, int64, error) {
	var data igTokenResponse
	var envelope igErrorEnvelope
	err := s.graphGet(ctx, "/access_token", map[string]string{
		"grant_type":    "ig_exchange_token",
		"client_secret": s.cfg.AppSecret,
		"access_token":  shortToken,
	}, &data, &envelope)
	if err != nil {
		return "", 0, err
	}
	if data.AccessToken == "" {
		// 换长期失败时继续用短期 token
		return shortToken, 0, nil
	}
	expiresIn := data.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 5184000
	}
	return data.AccessToken, expiresIn, nil
}

// RefreshToken 续期长期 token
func (s *InstagramAdapter) RefreshToken(ctx context.Context, token string) (string, int64, error) {
	var data igTokenResponse
	var envelope igErrorEnvelope
	err := s.graphGet(ctx, "/refresh_access_token", map[string]string{
		"grant_type":   "ig_refresh_token",
		"access_token": token,
	}, &data, &envelope)
	if err != nil {
		return "", 0, err
	}
	if data.AccessToken == "" {
		return "", 0, errors.Wrap(ErrUnauthorized, "refresh returned no token")
	}
	expiresIn := data.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 5184000
	}
	return data.AccessToken, expiresIn, nil
}
