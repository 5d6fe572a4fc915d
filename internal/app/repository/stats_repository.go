package repository

import (
	"errors"
	"time"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RankSort string

const (
	RankSortAvgRating   RankSort = "avg_rating"
	RankSortReviewCount RankSort = "review_count"
)

type StatsRepository interface {
	Get(productID uint) (*model.ProductStats, error)
	Upsert(stats *model.ProductStats) error
	Scan(productID uint) (count int, sum int64, err error)
	ListTop(category *model.ProductCategory, sortBy RankSort, limit int) ([]model.ProductStats, error)
	ApplyInTx(productID uint, fn func(stats *model.ProductStats) error) error
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Get 제품 통계 조회. 아직 집계된 적 없으면 (nil, nil).
func (r *statsRepository) Get(productID uint) (*model.ProductStats, error) {
	var stats model.ProductStats
	err := r.db.Where("product_id = ?", productID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Upsert 통계 저장 (product_id 기준 갱신)
func (r *statsRepository) Upsert(stats *model.ProductStats) error {
	stats.UpdatedAt = time.Now()
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"avg_rating", "review_count", "updated_at"}),
	}).Create(stats).Error
	if err != nil {
		logger.Error("Failed to upsert product stats", err, map[string]interface{}{
			"product_id": stats.ProductID,
		})
	}
	return err
}

// Scan 리뷰 원본 전체 스캔 — 재계산의 기준값
// 평균은 합계/건수로 호출자가 계산한다 (부동소수 누적 오차 없는 정확한 값).
func (r *statsRepository) Scan(productID uint) (int, int64, error) {
	type row struct {
		Count int64
		Sum   *int64
	}
	var result row
	err := r.db.Model(&model.Review{}).
		Select("COUNT(*) AS count, SUM(rating) AS sum").
		Where("product_id = ?", productID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	var sum int64
	if result.Sum != nil {
		sum = *result.Sum
	}
	return int(result.Count), sum, nil
}

// ListTop 전체 기간 랭킹: 영속 통계를 정렬 키 기준으로 조회
// 동점은 product_id 오름차순 — 호출 시점과 무관하게 안정적인 순서.
func (r *statsRepository) ListTop(category *model.ProductCategory, sortBy RankSort, limit int) ([]model.ProductStats, error) {
	query := r.db.Model(&model.ProductStats{}).
		Joins("JOIN products ON products.id = product_stats.product_id AND products.deleted_at IS NULL").
		Where("product_stats.review_count > 0")

	if category != nil {
		query = query.Where("products.category = ?", *category)
	}

	switch sortBy {
	case RankSortReviewCount:
		query = query.Order("product_stats.review_count DESC, product_stats.product_id ASC")
	case RankSortAvgRating:
		fallthrough
	default:
		query = query.Order("product_stats.avg_rating DESC, product_stats.product_id ASC")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}

	var stats []model.ProductStats
	if err := query.Find(&stats).Error; err != nil {
		logger.Error("Failed to list top product stats", err, map[string]interface{}{
			"sort_by": sortBy,
		})
		return nil, err
	}
	return stats, nil
}

// ApplyInTx 한 제품의 통계 읽기-수정-쓰기를 단일 트랜잭션으로 수행
// 행이 없으면 0값 통계로 시작한다 (첫 리뷰에서 지연 생성).
func (r *statsRepository) ApplyInTx(productID uint, fn func(stats *model.ProductStats) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var stats model.ProductStats
		err := tx.Where("product_id = ?", productID).First(&stats).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stats = model.ProductStats{ProductID: productID}
		} else if err != nil {
			return err
		}

		if err := fn(&stats); err != nil {
			return err
		}

		stats.UpdatedAt = time.Now()
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"avg_rating", "review_count", "updated_at"}),
		}).Create(&stats).Error
	})
}
