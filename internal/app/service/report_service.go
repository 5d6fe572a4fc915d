package service

import (
	"fmt"
	"time"

	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ReportService 관리자용 제품 리뷰 현황 XLSX 리포트
type ReportService interface {
	ExportProductReport() ([]byte, string, error)
}

type reportService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

func NewReportService(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository) ReportService {
	return &reportService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

// ExportProductReport 전체 제품의 리뷰 현황을 XLSX로 내보내기
// 최근 30일 집계를 함께 실어 기간 추세를 볼 수 있게 한다.
func (s *reportService) ExportProductReport() ([]byte, string, error) {
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{WithStats: true})
	if err != nil {
		return nil, "", err
	}

	monthAgo := time.Now().AddDate(0, 0, -30)
	aggs, err := s.reviewRepo.AggregateSince(monthAgo)
	if err != nil {
		return nil, "", err
	}
	recentByProduct := make(map[uint]repository.ProductRatingAggregate, len(aggs))
	for _, agg := range aggs {
		recentByProduct[agg.ProductID] = agg
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	headers := []string{"ID", "브랜드", "제품명", "카테고리", "리뷰 수", "평균 평점", "최근 30일 리뷰 수", "최근 30일 평균 평점", "등록일"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, product := range products {
		row := rowIdx + 2

		var reviewCount int
		var avgRating float64
		if product.Stats != nil {
			reviewCount = product.Stats.ReviewCount
			avgRating = product.Stats.AvgRating
		}

		var recentCount int64
		var recentAvg float64
		if agg, ok := recentByProduct[product.ID]; ok {
			recentCount = agg.ReviewCount
			recentAvg = float64(agg.RatingSum) / float64(agg.ReviewCount)
		}

		values := []interface{}{
			product.ID,
			product.Brand,
			product.Name,
			string(product.Category),
			reviewCount,
			fmt.Sprintf("%.2f", avgRating),
			recentCount,
			fmt.Sprintf("%.2f", recentAvg),
			product.CreatedAt.Format("2006-01-02"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to write product report buffer", err, nil)
		return nil, "", err
	}

	filename := fmt.Sprintf("product-report-%s.xlsx", time.Now().Format("20060102"))
	logger.Info("Product report generated", map[string]interface{}{
		"products": len(products),
		"filename": filename,
	})
	return buf.Bytes(), filename, nil
}
