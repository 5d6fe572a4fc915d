package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
	"github.com/glowsouk/glowsouk-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// GetProducts 제품 목록/검색
// @Summary 제품 목록 조회 (카테고리 필터, 이름/브랜드 검색)
// @Tags Products
// @Produce json
// @Param category query string false "카테고리"
// @Param search query string false "검색어 (제품명/브랜드)"
// @Param sort query string false "정렬 기준 (newest|name|brand)" default(newest)
// @Param page query int false "페이지" default(1)
// @Param page_size query int false "페이지 크기" default(20)
// @Success 200 {object} object
// @Router /products [get]
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	var category *model.ProductCategory
	if categoryStr := c.Query("category"); categoryStr != "" {
		cat := model.ProductCategory(categoryStr)
		category = &cat
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	products, err := ctrl.productService.ListProducts(repository.ProductFilter{
		Category: category,
		Search:   c.Query("search"),
		SortBy:   repository.ProductSort(c.DefaultQuery("sort", "newest")),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			apperrors.BadRequest(c, apperrors.ProductInvalidCategory, "잘못된 카테고리입니다")
			return
		}
		apperrors.InternalError(c, "제품 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      products,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProduct 제품 상세 조회
// @Summary 제품 상세 (통계, 평점 분포, 연관 제품 포함)
// @Tags Products
// @Produce json
// @Param id path int true "제품 ID"
// @Success 200 {object} service.ProductDetail
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 제품 ID입니다")
		return
	}

	detail, err := ctrl.productService.GetProduct(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "제품을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "제품 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetCategories 카테고리 목록
// @Summary 제품 카테고리 목록
// @Tags Products
// @Produce json
// @Success 200 {object} object
// @Router /products/categories [get]
func (ctrl *ProductController) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": model.AllCategories})
}

// CreateProduct 제품 등록 (커뮤니티 제출)
// @Summary 제품 등록
// @Tags Products
// @Accept json
// @Produce json
// @Param product body object true "제품 정보"
// @Success 201 {object} model.Product
// @Router /products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var input struct {
		Brand       string `json:"brand" binding:"required"`
		Name        string `json:"name" binding:"required"`
		Category    string `json:"category" binding:"required"`
		Subcategory string `json:"subcategory"`
		Description string `json:"description"`
		Origin      string `json:"country_of_origin"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	product, err := ctrl.productService.CreateProduct(&userID, service.CreateProductInput{
		Brand:       input.Brand,
		Name:        input.Name,
		Category:    model.ProductCategory(input.Category),
		Subcategory: input.Subcategory,
		Description: input.Description,
		Origin:      input.Origin,
		ImageURL:    input.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory):
			apperrors.BadRequest(c, apperrors.ProductInvalidCategory, "잘못된 카테고리입니다")
		case errors.Is(err, service.ErrProductNameNeeded):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "브랜드와 제품명은 필수입니다")
		default:
			apperrors.InternalError(c, "제품 등록에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct 제품 수정 (관리자)
// @Summary 제품 정보 수정
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "제품 ID"
// @Param product body object true "수정할 정보"
// @Success 200 {object} model.Product
// @Router /admin/products/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 제품 ID입니다")
		return
	}

	var input struct {
		Brand       string `json:"brand"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Subcategory string `json:"subcategory"`
		Description string `json:"description"`
		Origin      string `json:"country_of_origin"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	product, err := ctrl.productService.UpdateProduct(uint(productID), service.CreateProductInput{
		Brand:       input.Brand,
		Name:        input.Name,
		Category:    model.ProductCategory(input.Category),
		Subcategory: input.Subcategory,
		Description: input.Description,
		Origin:      input.Origin,
		ImageURL:    input.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "제품을 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidCategory):
			apperrors.BadRequest(c, apperrors.ProductInvalidCategory, "잘못된 카테고리입니다")
		default:
			apperrors.InternalError(c, "제품 수정에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct 제품 삭제 (관리자)
// @Summary 제품 삭제
// @Tags Products
// @Param id path int true "제품 ID"
// @Success 204
// @Router /admin/products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 제품 ID입니다")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(productID)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "제품을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "제품 삭제에 실패했습니다")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
