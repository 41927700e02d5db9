package repository

import (
	"Brandscope/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type BrandRepo interface {
	CreateBrand(ctx context.Context, brand *model.Brand) error
	UpdateBrand(ctx context.Context, brand *model.Brand) error
	DeleteBrand(ctx context.Context, brandID uint64) error
	GetBrandByID(ctx context.Context, brandID uint64) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]*model.Brand, error)
}

type brandRepoImpl struct {
	db *gorm.DB
}

func NewBrandRepo(db *gorm.DB) BrandRepo {
	return &brandRepoImpl{db: db}
}

func (s *brandRepoImpl) CreateBrand(ctx context.Context, brand *model.Brand) error {
	return s.db.WithContext(ctx).Create(brand).Error
}

func (s *brandRepoImpl) UpdateBrand(ctx context.Context, brand *model.Brand) error {
	return s.db.WithContext(ctx).Model(&model.Brand{}).
		Where("id = ?", brand.ID).
		Updates(map[string]interface{}{"name": brand.Name, "color": brand.Color}).Error
}

// DeleteBrand 删除品牌并级联清除频道关联，缓存行按身份键控、保留无害
func (s *brandRepoImpl) DeleteBrand(ctx context.Context, brandID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("brand_id = ?", brandID).Delete(&model.BrandChannel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Brand{}, brandID).Error
	})
}

func (s *brandRepoImpl) GetBrandByID(ctx context.Context, brandID uint64) (*model.Brand, error) {
	var brand model.Brand
	err := s.db.WithContext(ctx).First(&brand, brandID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

func (s *brandRepoImpl) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	brands := make([]*model.Brand, 0)
	result := s.db.WithContext(ctx).Order("created_at ASC").Find(&brands)
	if result.Error != nil {
		return nil, result.Error
	}
	return brands, nil
}
