package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
)

var ErrStatsUnderflow = errors.New("stats review count underflow")

// driftTolerance 증분 평균과 재계산 평균의 허용 오차
// 표시 정밀도(소수 둘째 자리)보다 훨씬 좁게 잡아 드리프트를 조기에 잡는다.
const driftTolerance = 1e-9

// StatsService 제품별 리뷰 통계 집계기
// 리뷰 1건의 추가/삭제를 전체 재스캔 없이 증분 반영하고,
// 증분 경로가 어긋났을 때 원본 리뷰 재스캔으로 복구하는 경로를 함께 제공한다.
type StatsService interface {
	ApplyAdd(productID uint, rating int) error
	ApplyRemove(productID uint, rating int) error
	Recompute(productID uint) (*model.ProductStats, error)
	RecomputeAll() error
}

type statsService struct {
	statsRepo   repository.StatsRepository
	productRepo repository.ProductRepository

	// 같은 제품의 증분 갱신은 (count, average) 읽기-수정-쓰기라 직렬화 필수.
	// 다른 제품끼리는 완전히 독립적으로 병렬 진행된다.
	locks *keyedMutex
}

func NewStatsService(statsRepo repository.StatsRepository, productRepo repository.ProductRepository) StatsService {
	return &statsService{
		statsRepo:   statsRepo,
		productRepo: productRepo,
		locks:       newKeyedMutex(),
	}
}

func (s *statsService) productKey(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}

// ApplyAdd 리뷰 1건 추가 반영
// count += 1; average = (average*old_count + rating) / count
// 첫 리뷰면 통계 행이 지연 생성된다.
func (s *statsService) ApplyAdd(productID uint, rating int) error {
	unlock := s.locks.Lock(s.productKey(productID))
	defer unlock()

	err := s.statsRepo.ApplyInTx(productID, func(stats *model.ProductStats) error {
		oldCount := stats.ReviewCount
		stats.ReviewCount = oldCount + 1
		stats.AvgRating = (stats.AvgRating*float64(oldCount) + float64(rating)) / float64(stats.ReviewCount)
		return nil
	})
	if err != nil {
		logger.Error("Failed to apply review addition to stats", err, map[string]interface{}{
			"product_id": productID,
			"rating":     rating,
		})
		return err
	}
	return nil
}

// ApplyRemove 리뷰 1건 삭제 반영
// count -= 1; average = count > 0 ? (average*old_count - rating) / count : 0
func (s *statsService) ApplyRemove(productID uint, rating int) error {
	unlock := s.locks.Lock(s.productKey(productID))
	defer unlock()

	err := s.statsRepo.ApplyInTx(productID, func(stats *model.ProductStats) error {
		oldCount := stats.ReviewCount
		if oldCount == 0 {
			// 통계가 이미 어긋난 상태 — 재계산으로만 복구 가능
			return ErrStatsUnderflow
		}
		stats.ReviewCount = oldCount - 1
		if stats.ReviewCount > 0 {
			stats.AvgRating = (stats.AvgRating*float64(oldCount) - float64(rating)) / float64(stats.ReviewCount)
		} else {
			stats.AvgRating = 0
		}
		return nil
	})
	if errors.Is(err, ErrStatsUnderflow) {
		logger.Warn("Stats underflow on review removal, recomputing from scratch", map[string]interface{}{
			"product_id": productID,
		})
		_, rerr := s.Recompute(productID)
		return rerr
	}
	if err != nil {
		logger.Error("Failed to apply review removal to stats", err, map[string]interface{}{
			"product_id": productID,
			"rating":     rating,
		})
		return err
	}
	return nil
}

// Recompute 리뷰 원본 전체 스캔으로 통계 재산출
// 증분 경로의 부동소수 누적 오차와 부분 실패(리뷰는 남고 통계 갱신만 실패)를
// 복구하는 기준 경로. 몇 번을 다시 실행해도 결과가 같다 (멱등).
func (s *statsService) Recompute(productID uint) (*model.ProductStats, error) {
	count, sum, err := s.statsRepo.Scan(productID)
	if err != nil {
		return nil, err
	}

	var exact float64
	if count > 0 {
		exact = float64(sum) / float64(count)
	}

	existing, err := s.statsRepo.Get(productID)
	if err != nil {
		return nil, err
	}

	// 드리프트 감지: 로그만 남기고 재계산 값으로 덮어쓴다. 사용자에게는 노출하지 않음.
	if existing != nil {
		drift := math.Abs(existing.AvgRating - exact)
		if existing.ReviewCount != count || drift > driftTolerance {
			logger.Warn("Stats drift detected, repairing with recomputed values", map[string]interface{}{
				"product_id":     productID,
				"stored_count":   existing.ReviewCount,
				"actual_count":   count,
				"stored_avg":     existing.AvgRating,
				"recomputed_avg": exact,
				"avg_drift":      drift,
			})
		}
	}

	stats := &model.ProductStats{
		ProductID:   productID,
		AvgRating:   exact,
		ReviewCount: count,
	}
	if err := s.statsRepo.Upsert(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecomputeAll 전체 제품 통계 재계산 (야간 드리프트 복구 경로)
func (s *statsService) RecomputeAll() error {
	ids, err := s.productRepo.ListIDs()
	if err != nil {
		return err
	}

	var failed int
	for _, id := range ids {
		if _, err := s.Recompute(id); err != nil {
			failed++
			logger.Error("Failed to recompute stats for product", err, map[string]interface{}{
				"product_id": id,
			})
		}
	}

	logger.Info("Stats recomputation completed", map[string]interface{}{
		"total_products": len(ids),
		"failed":         failed,
	})
	if failed > 0 {
		return fmt.Errorf("stats recomputation failed for %d of %d products", failed, len(ids))
	}
	return nil
}
