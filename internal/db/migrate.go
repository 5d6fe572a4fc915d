package db

import (
	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.ProductStats{},
		&model.Review{},
		&model.ReviewVote{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedProducts()
}

// seedProducts 제품 더미 데이터 생성 (비어 있을 때만)
func seedProducts() error {
	var count int64
	if err := DB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding product catalog...")

	products := []model.Product{
		{Brand: "글로우랩", Name: "수분 진정 세럼", Category: model.CategorySkincare, Subcategory: "serum", Origin: "대한민국"},
		{Brand: "글로우랩", Name: "시카 수면팩", Category: model.CategorySkincare, Subcategory: "sleeping mask", Origin: "대한민국"},
		{Brand: "루미에르", Name: "벨벳 립 틴트 04", Category: model.CategoryMakeup, Subcategory: "lip tint", Origin: "대한민국"},
		{Brand: "루미에르", Name: "글로우 쿠션 21N", Category: model.CategoryMakeup, Subcategory: "cushion", Origin: "대한민국"},
		{Brand: "모이스트리", Name: "단백질 트리트먼트", Category: model.CategoryHaircare, Subcategory: "treatment", Origin: "대한민국"},
		{Brand: "블랑드뮤즈", Name: "화이트 티 오 드 퍼퓸", Category: model.CategoryFragrance, Subcategory: "eau de parfum", Origin: "프랑스"},
		{Brand: "허브가든", Name: "시어버터 바디로션", Category: model.CategoryBodycare, Subcategory: "body lotion", Origin: "대한민국"},
	}

	for i := range products {
		if err := DB.Create(&products[i]).Error; err != nil {
			logger.Error("Failed to create seed product", err, map[string]interface{}{
				"name": products[i].Name,
			})
			return err
		}
	}

	logger.Info("Product catalog seeded successfully", map[string]interface{}{
		"total_products": len(products),
	})
	return nil
}
