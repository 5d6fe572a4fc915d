package service

import (
	"errors"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidCategory   = errors.New("invalid product category")
	ErrProductNameNeeded = errors.New("product brand and name are required")
)

const relatedProductLimit = 4

type CreateProductInput struct {
	Brand       string
	Name        string
	Category    model.ProductCategory
	Subcategory string
	Description string
	Origin      string
	ImageURL    string
}

// ProductDetail 제품 상세 응답
// 평점 분포는 1~5점 모두 포함 (없는 별점은 0건).
type ProductDetail struct {
	Product         model.Product   `json:"product"`
	RatingBreakdown map[int]int64   `json:"rating_breakdown"`
	Related         []model.Product `json:"related_products"`
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uint) (*ProductDetail, error)
	CreateProduct(submittedBy *uint, input CreateProductInput) (*model.Product, error)
	UpdateProduct(id uint, input CreateProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

func NewProductService(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	if filter.Category != nil && !model.ValidCategory(*filter.Category) {
		return nil, ErrInvalidCategory
	}
	filter.WithStats = true
	return s.productRepo.FindWithFilter(filter)
}

// GetProduct 제품 상세 조회
// 통계, 별점 분포, 같은 카테고리 연관 제품을 함께 내린다.
func (s *productService) GetProduct(id uint) (*ProductDetail, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	breakdown, err := s.reviewRepo.CountByRating(id)
	if err != nil {
		return nil, err
	}

	related, err := s.productRepo.FindRelated(id, product.Category, relatedProductLimit)
	if err != nil {
		// 연관 제품은 부가 정보 — 실패해도 상세 응답은 내린다
		logger.Warn("Failed to load related products", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		related = []model.Product{}
	}

	return &ProductDetail{
		Product:         *product,
		RatingBreakdown: breakdown,
		Related:         related,
	}, nil
}

// CreateProduct 제품 등록
// 커뮤니티 사용자가 등록하면 submittedBy에 사용자 ID가 남는다 (시드/관리자는 nil).
func (s *productService) CreateProduct(submittedBy *uint, input CreateProductInput) (*model.Product, error) {
	if input.Brand == "" || input.Name == "" {
		return nil, ErrProductNameNeeded
	}
	if !model.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	product := &model.Product{
		Brand:       input.Brand,
		Name:        input.Name,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Description: input.Description,
		Origin:      input.Origin,
		ImageURL:    input.ImageURL,
		SubmittedBy: submittedBy,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"brand":      product.Brand,
		"name":       product.Name,
		"category":   product.Category,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input CreateProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.Category != "" && !model.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	if input.Brand != "" {
		product.Brand = input.Brand
	}
	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Subcategory != "" {
		product.Subcategory = input.Subcategory
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Origin != "" {
		product.Origin = input.Origin
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}
