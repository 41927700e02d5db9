package handler

import (
	"Brandscope/internal/api/config"
	"Brandscope/internal/pkg/response"
	"Brandscope/internal/service"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InstagramOAuthHandler struct {
	authSvc service.InstagramAuthService
}

func NewInstagramOAuthHandler(authSvc service.InstagramAuthService) *InstagramOAuthHandler {
	return &InstagramOAuthHandler{
		authSvc: authSvc,
	}
}

// GetAuthURL 生成授权跳转地址
func (h *InstagramOAuthHandler) GetAuthURL(c *gin.Context) {
	brandID, err := strconv.ParseUint(c.Query("brand_id"), 10, 64)
	if err != nil || brandID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	authURL, err := h.authSvc.AuthURL(c.Request.Context(), brandID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"url": authURL})
}

// Callback 授权回调，完成后 302 跳回仪表盘
// 浏览器直接访问该地址，成功失败都以查询参数形式带回前端
func (h *InstagramOAuthHandler) Callback(c *gin.Context) {
	appURL := config.Cfg.Server.AppURL

	if errMsg := c.Query("error_description"); errMsg != "" {
		c.Redirect(http.StatusFound, appURL+"?ig_error="+url.QueryEscape(errMsg))
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.Redirect(http.StatusFound, appURL+"?ig_error="+url.QueryEscape(service.ErrParamInvalid.Error()))
		return
	}

	handle, err := h.authSvc.HandleCallback(c.Request.Context(), code, state)
	if err != nil {
		c.Redirect(http.StatusFound, appURL+"?ig_error="+url.QueryEscape(err.Error()))
		return
	}
	c.Redirect(http.StatusFound, appURL+"?ig_linked="+url.QueryEscape(handle))
}
