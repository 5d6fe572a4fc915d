package repository

import (
	"fmt"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest ProductSort = "newest"
	ProductSortName   ProductSort = "name"
	ProductSortBrand  ProductSort = "brand"
)

type ProductFilter struct {
	Category  *model.ProductCategory
	IDIn      []uint
	Search    string // 제품명/브랜드 부분 일치
	SortBy    ProductSort
	Limit     int
	Offset    int
	WithStats bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindRelated(productID uint, category model.ProductCategory, limit int) ([]model.Product, error)
	ListIDs() ([]uint, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"brand":    product.Brand,
		"name":     product.Name,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"brand": product.Brand,
			"name":  product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Stats").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	query := r.db.Model(&model.Product{})
	if filter.WithStats {
		query = query.Preload("Stats")
	}

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	if len(filter.IDIn) > 0 {
		query = query.Where("id IN ?", filter.IDIn)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("name LIKE ? OR brand LIKE ?", like, like)
	}

	switch filter.SortBy {
	case ProductSortName:
		query = query.Order("name ASC")
	case ProductSortBrand:
		query = query.Order("brand ASC, name ASC")
	case ProductSortNewest:
		fallthrough
	default:
		query = query.Order("created_at DESC, id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"category": filter.Category,
			"search":   filter.Search,
		})
		return nil, err
	}
	return products, nil
}

// FindRelated 같은 카테고리에서 평점 높은 순으로 연관 제품 조회 (본인 제외)
func (r *productRepository) FindRelated(productID uint, category model.ProductCategory, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Model(&model.Product{}).
		Preload("Stats").
		Joins("LEFT JOIN product_stats ON product_stats.product_id = products.id").
		Where("products.category = ? AND products.id <> ?", category, productID).
		Order("COALESCE(product_stats.avg_rating, 0) DESC, products.id ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find related products", err, map[string]interface{}{
			"product_id": productID,
			"category":   category,
		})
		return nil, err
	}
	return products, nil
}

// ListIDs 전체 제품 ID 목록 (통계 전체 재계산용)
func (r *productRepository) ListIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Product{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *productRepository) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&model.Product{}, id).Error
}
