package service

import (
	"Brandscope/internal/api/config"
	"Brandscope/internal/model"
	"Brandscope/internal/pkg/consts"
	"Brandscope/internal/pkg/security"
	"Brandscope/internal/pkg/upstream"
	"Brandscope/internal/pkg/util"
	"Brandscope/internal/repository"
	"context"
	log "log/slog"
	"net/url"
	"time"
)

type InstagramAuthService interface {
	// AuthURL 生成带签名 state 的授权跳转地址
	AuthURL(ctx context.Context, brandID uint64) (string, error)
	// HandleCallback 授权回调：换长效 token、取账号身份并落库
	// 返回授权成功的账号句柄
	HandleCallback(ctx context.Context, code string, state string) (string, error)
}

type instagramAuthServiceImpl struct {
	brandRepo   repository.BrandRepo
	channelRepo repository.BrandChannelRepo
	instagram   upstream.InstagramAPI
	cfg         config.InstagramConfig
	stateSecret string
}

func NewInstagramAuthService(
	brandRepo repository.BrandRepo,
	channelRepo repository.BrandChannelRepo,
	instagram upstream.InstagramAPI,
	cfg config.InstagramConfig,
	stateSecret string,
) InstagramAuthService {
	return &instagramAuthServiceImpl{
		brandRepo:   brandRepo,
		channelRepo: channelRepo,
		instagram:   instagram,
		cfg:         cfg,
		stateSecret: stateSecret,
	}
}

func (s *instagramAuthServiceImpl) AuthURL(ctx context.Context, brandID uint64) (string, error) {
	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		return "", err
	}
	if brand == nil {
		return "", ErrBrandNotFound
	}

	state, err := security.SignOAuthState(s.stateSecret, brandID)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("client_id", s.cfg.AppID)
	query.Set("redirect_uri", s.cfg.CallbackURL)
	query.Set("response_type", "code")
	query.Set("scope", "instagram_business_basic,instagram_business_manage_insights")
	query.Set("state", state)
	return s.cfg.OAuthBaseURL + "/oauth/authorize?" + query.Encode(), nil
}

func (s *instagramAuthServiceImpl) HandleCallback(ctx context.Context, code string, state string) (string, error) {
	brandID, err := security.ParseOAuthState(s.stateSecret, state)
	if err != nil {
		return "", ErrOAuthStateInvalid
	}

	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		return "", err
	}
	if brand == nil {
		return "", ErrBrandNotFound
	}

	shortToken, userID, err := s.instagram.ExchangeCode(ctx, code)
	if err != nil {
		return "", mapUpstreamError(err)
	}
	longToken, expiresIn, err := s.instagram.ExchangeLongLived(ctx, shortToken)
	if err != nil {
		// 长效换取失败时退回短效 token，至少当场可用
		log.Warn("long-lived token exchange failed, keeping short-lived token",
			"brandID", brandID, "err", err)
		longToken = shortToken
		expiresIn = 3600
	}

	profile, err := s.instagram.FetchProfile(ctx, longToken)
	if err != nil {
		return "", mapUpstreamError(err)
	}
	handle := util.NormalizeHandle(profile.Handle)
	if handle == "" {
		return "", ErrIdentityNotFound
	}
	if userID == "" {
		userID = profile.ID
	}

	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second)
	err = s.channelRepo.UpsertInstagramToken(ctx, &model.BrandChannel{
		BrandID:              brandID,
		ChannelHandle:        handle,
		Platform:             consts.PlatformInstagram,
		NativeChannelID:      userID,
		Active:               true,
		InstagramUserID:      userID,
		InstagramAccessToken: longToken,
		AccessTokenExpiresAt: &expiresAt,
	})
	if err != nil {
		return "", err
	}

	log.Info("instagram account linked", "brandID", brandID, "handle", handle)
	return handle, nil
}
