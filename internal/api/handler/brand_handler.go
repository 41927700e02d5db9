package handler

import (
	"Brandscope/internal/api/dto"
	"Brandscope/internal/pkg/response"
	"Brandscope/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BrandHandler struct {
	brandSvc service.BrandService
}

func NewBrandHandler(brandSvc service.BrandService) *BrandHandler {
	return &BrandHandler{
		brandSvc: brandSvc,
	}
}

func parseBrandID(c *gin.Context) (uint64, error) {
	brandID, err := strconv.ParseUint(c.Param("brand_id"), 10, 64)
	if err != nil || brandID == 0 {
		return 0, service.ErrParamInvalid
	}
	return brandID, nil
}

// CreateBrand 创建品牌
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var req dto.CreateBrandDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	brand, err := h.brandSvc.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, brand)
}

// UpdateBrand 更新品牌名称或配色
func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	brandID, err := parseBrandID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateBrandDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err = h.brandSvc.UpdateBrand(c.Request.Context(), brandID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteBrand 删除品牌及其频道关联
func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	brandID, err := parseBrandID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = h.brandSvc.DeleteBrand(c.Request.Context(), brandID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListBrands 品牌列表
func (h *BrandHandler) ListBrands(c *gin.Context) {
	brands, err := h.brandSvc.ListBrands(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, brands)
}

// GetOverview 品牌跨平台聚合视图
func (h *BrandHandler) GetOverview(c *gin.Context) {
	brandID, err := parseBrandID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	overview, err := h.brandSvc.GetOverview(c.Request.Context(), brandID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, overview)
}

// ListChannels 品牌下的频道列表
func (h *BrandHandler) ListChannels(c *gin.Context) {
	brandID, err := parseBrandID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	channels, err := h.brandSvc.ListChannels(c.Request.Context(), brandID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, channels)
}

// AddChannel 向品牌添加频道
func (h *BrandHandler) AddChannel(c *gin.Context) {
	brandID, err := parseBrandID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.AddChannelDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err = h.brandSvc.AddChannel(c.Request.Context(), brandID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveChannel 从品牌移除频道
func (h *BrandHandler) RemoveChannel(c *gin.Context) {
	brandID, err := parseBrandID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	handle := c.Param("handle")
	platform := c.DefaultQuery("platform", "youtube")
	if err = h.brandSvc.RemoveChannel(c.Request.Context(), brandID, handle, platform); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetChannelActive 启停频道
func (h *BrandHandler) SetChannelActive(c *gin.Context) {
	brandID, err := parseBrandID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SetChannelActiveDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	handle := c.Param("handle")
	platform := c.DefaultQuery("platform", "youtube")
	if err = h.brandSvc.SetChannelActive(c.Request.Context(), brandID, handle, platform, *req.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
