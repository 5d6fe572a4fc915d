package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategorySkincare  ProductCategory = "skincare"
	CategoryMakeup    ProductCategory = "makeup"
	CategoryHaircare  ProductCategory = "haircare"
	CategoryFragrance ProductCategory = "fragrance"
	CategoryBodycare  ProductCategory = "bodycare"
)

// AllCategories 카테고리 목록 (고정 집합)
var AllCategories = []ProductCategory{
	CategorySkincare,
	CategoryMakeup,
	CategoryHaircare,
	CategoryFragrance,
	CategoryBodycare,
}

// ValidCategory 카테고리 값 검증
func ValidCategory(c ProductCategory) bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Brand       string          `gorm:"not null;index" json:"brand"`                    // 브랜드명
	Name        string          `gorm:"not null" json:"name"`                           // 제품명
	Category    ProductCategory `gorm:"type:varchar(20);not null;index" json:"category"` // 카테고리
	Subcategory string          `json:"subcategory,omitempty"`                          // 세부 카테고리 (예: serum, lipstick)
	Description string          `gorm:"type:text" json:"description,omitempty"`         // 제품 설명
	Origin      string          `json:"country_of_origin,omitempty"`                    // 원산지
	ImageURL    string          `json:"image_url,omitempty"`                            // 제품 이미지 URL
	SubmittedBy *uint           `gorm:"index" json:"submitted_by,omitempty"`            // 등록한 사용자 ID (커뮤니티 등록)
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Reviews []Review      `gorm:"foreignKey:ProductID" json:"-"`                              // 리뷰 목록
	Stats   *ProductStats `gorm:"foreignKey:ProductID" json:"product_stats,omitempty"` // 집계 통계 (파생 데이터)
}

func (Product) TableName() string {
	return "products"
}
