package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/glowsouk/glowsouk-backend/config"
	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"github.com/glowsouk/glowsouk-backend/pkg/redis"
)

var (
	ErrInvalidRankingPeriod = errors.New("invalid ranking period")
	ErrInvalidRankingSort   = errors.New("invalid ranking sort")
)

type RankingPeriod string

const (
	RankingPeriodAll   RankingPeriod = "all"
	RankingPeriodWeek  RankingPeriod = "week"  // 최근 7일
	RankingPeriodMonth RankingPeriod = "month" // 최근 30일
)

func (p RankingPeriod) windowDays() int {
	switch p {
	case RankingPeriodWeek:
		return 7
	case RankingPeriodMonth:
		return 30
	default:
		return 0
	}
}

// RankingQuery 리더보드 조회 조건
type RankingQuery struct {
	Period   RankingPeriod
	Category *model.ProductCategory
	SortBy   repository.RankSort
	Limit    int
}

// RankedProduct 리더보드 한 칸
// 기간 랭킹에서는 통계가 해당 기간 내 리뷰만 반영한 값이다.
type RankedProduct struct {
	Rank        int           `json:"rank"`
	Product     model.Product `json:"product"`
	AvgRating   float64       `json:"avg_rating"`
	ReviewCount int           `json:"review_count"`
}

// RankingService 기간별 제품 리더보드
// 전체 기간은 영속 통계를 그대로 정렬하고, 기간 랭킹은 조회 시점에
// 리뷰 원본을 스캔한다 — 기간 경계를 넘나드는 리뷰를 항상 정확히 반영하기 위함.
type RankingService interface {
	GetRanking(ctx context.Context, query RankingQuery) ([]RankedProduct, error)
}

type rankingService struct {
	statsRepo   repository.StatsRepository
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	cfg         *config.RankingConfig
}

func NewRankingService(
	statsRepo repository.StatsRepository,
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	cfg *config.RankingConfig,
) RankingService {
	return &rankingService{
		statsRepo:   statsRepo,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		cfg:         cfg,
	}
}

func (s *rankingService) GetRanking(ctx context.Context, query RankingQuery) ([]RankedProduct, error) {
	switch query.Period {
	case RankingPeriodAll, RankingPeriodWeek, RankingPeriodMonth:
	default:
		return nil, ErrInvalidRankingPeriod
	}
	switch query.SortBy {
	case repository.RankSortAvgRating, repository.RankSortReviewCount:
	default:
		return nil, ErrInvalidRankingSort
	}
	if query.Limit <= 0 {
		query.Limit = s.cfg.DefaultLimit
	}

	// 짧은 TTL 캐시 — Redis 미가동 시 조용히 원본 조회로 내려간다
	cacheKey := s.cacheKey(query)
	var cached []RankedProduct
	if hit, err := redis.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	var (
		result []RankedProduct
		err    error
	)
	if query.Period == RankingPeriodAll {
		result, err = s.rankAllTime(query)
	} else {
		result, err = s.rankWindow(query)
	}
	if err != nil {
		return nil, err
	}

	if err := redis.SetJSON(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
		logger.Warn("Failed to cache ranking result", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	return result, nil
}

func (s *rankingService) cacheKey(query RankingQuery) string {
	category := "all"
	if query.Category != nil {
		category = string(*query.Category)
	}
	return fmt.Sprintf("ranking:%s:%s:%s:%d", query.Period, category, query.SortBy, query.Limit)
}

// rankAllTime 전체 기간 랭킹: 영속 통계 테이블을 정렬 키 기준으로 바로 읽는다
func (s *rankingService) rankAllTime(query RankingQuery) ([]RankedProduct, error) {
	statsList, err := s.statsRepo.ListTop(query.Category, query.SortBy, query.Limit)
	if err != nil {
		return nil, err
	}
	if len(statsList) == 0 {
		return []RankedProduct{}, nil
	}

	ids := make([]uint, 0, len(statsList))
	for _, st := range statsList {
		ids = append(ids, st.ProductID)
	}
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{IDIn: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	result := make([]RankedProduct, 0, len(statsList))
	for _, st := range statsList {
		product, ok := byID[st.ProductID]
		if !ok {
			continue
		}
		result = append(result, RankedProduct{
			Rank:        len(result) + 1,
			Product:     product,
			AvgRating:   st.AvgRating,
			ReviewCount: st.ReviewCount,
		})
	}
	return result, nil
}

// rankWindow 기간 랭킹: 기간 내 리뷰를 제품별로 집계해 메모리에서 정렬
// 기간 내 리뷰가 없는 제품은 목록에 아예 등장하지 않는다.
func (s *rankingService) rankWindow(query RankingQuery) ([]RankedProduct, error) {
	since := time.Now().AddDate(0, 0, -query.Period.windowDays())
	aggs, err := s.reviewRepo.AggregateSince(since)
	if err != nil {
		return nil, err
	}
	if len(aggs) == 0 {
		return []RankedProduct{}, nil
	}

	ids := make([]uint, 0, len(aggs))
	for _, agg := range aggs {
		ids = append(ids, agg.ProductID)
	}
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		IDIn:     ids,
		Category: query.Category,
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// 삭제되었거나 카테고리가 다른 제품은 제품 조회에서 빠지며 여기서도 걸러진다
	entries := make([]RankedProduct, 0, len(aggs))
	for _, agg := range aggs {
		product, ok := byID[agg.ProductID]
		if !ok {
			continue
		}
		entries = append(entries, RankedProduct{
			Product:     product,
			AvgRating:   float64(agg.RatingSum) / float64(agg.ReviewCount),
			ReviewCount: int(agg.ReviewCount),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		var ki, kj float64
		if query.SortBy == repository.RankSortReviewCount {
			ki, kj = float64(entries[i].ReviewCount), float64(entries[j].ReviewCount)
		} else {
			ki, kj = entries[i].AvgRating, entries[j].AvgRating
		}
		if ki != kj {
			return ki > kj
		}
		return entries[i].Product.ID < entries[j].Product.ID
	})

	if len(entries) > query.Limit {
		entries = entries[:query.Limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
