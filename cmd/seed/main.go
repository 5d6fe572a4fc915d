package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/glowsouk/glowsouk-backend/config"
	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// 제품 카탈로그 XLSX 일괄 등록 도구
// 컬럼 순서: 브랜드 | 제품명 | 카테고리 | 세부 카테고리 | 설명 | 원산지 | 이미지 URL
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := db.GetDB().CreateInBatches(products, batchSize).Error; err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool) // 브랜드+제품명 중복 제거
	skippedCount := 0
	invalidCategoryCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 3 {
			skippedCount++
			continue
		}

		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		brand := cell(0)
		name := cell(1)
		category := model.ProductCategory(strings.ToLower(cell(2)))
		subcategory := cell(3)
		description := cell(4)
		origin := cell(5)
		imageURL := cell(6)

		if brand == "" || name == "" {
			skippedCount++
			continue
		}

		if !model.ValidCategory(category) {
			invalidCategoryCount++
			skippedCount++
			continue
		}

		key := fmt.Sprintf("%s|%s", brand, name)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		products = append(products, model.Product{
			Brand:       brand,
			Name:        name,
			Category:    category,
			Subcategory: subcategory,
			Description: description,
			Origin:      origin,
			ImageURL:    imageURL,
		})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid category: %d\n", invalidCategoryCount)

	return products, nil
}
