package repository

import (
	"errors"
	"time"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewSort string

const (
	ReviewSortNewest      ReviewSort = "newest"
	ReviewSortHighest     ReviewSort = "highest"
	ReviewSortMostHelpful ReviewSort = "most_helpful"
)

// ReviewListOptions 리뷰 피드 조회 옵션
// Rating이 있으면 해당 평점만 (정렬 전에 적용), Limit 0이면 전체 반환.
type ReviewListOptions struct {
	Sort   ReviewSort
	Rating *int
	Limit  int
	Offset int
}

// ProductRatingAggregate 기간 내 제품별 평점 합계/건수
type ProductRatingAggregate struct {
	ProductID   uint  `json:"product_id"`
	RatingSum   int64 `json:"rating_sum"`
	ReviewCount int64 `json:"review_count"`
}

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	Delete(id uint) error
	FindByProduct(productID uint, opts ReviewListOptions) ([]model.Review, int64, error)
	FindByUser(userID uint, offset, limit int) ([]model.Review, int64, error)
	CountByRating(productID uint) (map[int]int64, error)
	AggregateSince(since time.Time) ([]ProductRatingAggregate, error)
	ToggleVote(reviewID, userID uint) (bool, int, error)
	VotedReviewIDs(userID uint, reviewIDs []uint) ([]uint, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create 리뷰 생성
// (user_id, product_id) 유니크 제약 위반은 DB 에러 그대로 반환 — 서비스에서 중복으로 번역.
func (r *reviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("User").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete 리뷰 삭제 (운영 삭제)
// 하드 삭제: 유니크 제약이 풀려야 하고 통계 재계산이 살아있는 행만 봐야 한다.
// 투표 레저도 같은 트랜잭션에서 정리한다.
func (r *reviewRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Review{}, id).Error
	})
}

// FindByProduct 제품별 리뷰 피드 조회
// 평점 필터는 정렬보다 먼저 적용되고, 동점은 최신순 → ID 역순으로 결정적으로 정렬된다.
func (r *reviewRepository) FindByProduct(productID uint, opts ReviewListOptions) ([]model.Review, int64, error) {
	query := r.db.Model(&model.Review{}).Where("product_id = ?", productID)

	if opts.Rating != nil {
		query = query.Where("rating = ?", *opts.Rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch opts.Sort {
	case ReviewSortHighest:
		query = query.Order("rating DESC, created_at DESC, id DESC")
	case ReviewSortMostHelpful:
		query = query.Order("helpful_count DESC, created_at DESC, id DESC")
	case ReviewSortNewest:
		fallthrough
	default:
		query = query.Order("created_at DESC, id DESC")
	}

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var reviews []model.Review
	if err := query.Preload("User").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) FindByUser(userID uint, offset, limit int) ([]model.Review, int64, error) {
	query := r.db.Model(&model.Review{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Product").Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var reviews []model.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// CountByRating 별점별 리뷰 수 (평점 분포 표시용)
func (r *reviewRepository) CountByRating(productID uint) (map[int]int64, error) {
	type row struct {
		Rating int
		Count  int64
	}
	var rows []row
	err := r.db.Model(&model.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, 5)
	for star := 1; star <= 5; star++ {
		counts[star] = 0
	}
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}

// AggregateSince 기준 시각 이후 작성된 리뷰를 제품별로 합계/건수 집계
// 기간 랭킹의 원본 스캔 경로: 영속 통계는 전체 기간을 반영하므로 여기서는 쓰지 않는다.
func (r *reviewRepository) AggregateSince(since time.Time) ([]ProductRatingAggregate, error) {
	var aggs []ProductRatingAggregate
	err := r.db.Model(&model.Review{}).
		Select("product_id, SUM(rating) AS rating_sum, COUNT(*) AS review_count").
		Where("created_at >= ?", since).
		Group("product_id").
		Scan(&aggs).Error
	if err != nil {
		logger.Error("Failed to aggregate reviews for window", err, map[string]interface{}{
			"since": since,
		})
		return nil, err
	}
	return aggs, nil
}

// ToggleVote 도움됨 투표 토글
// 존재 확인 → 생성/삭제 → 카운터 갱신을 한 트랜잭션으로 묶는다. 같은 쌍의 동시 토글은
// 생성 쪽은 유니크 제약이 걸러내고(트랜잭션 전체 롤백), 삭제 쪽은 실제로 지워진
// 행이 있을 때만 카운터를 내린다. 카운터 감소는 0 밑으로 내려가지 않는다.
func (r *reviewRepository) ToggleVote(reviewID, userID uint) (bool, int, error) {
	var voted bool
	var newCount int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var vote model.ReviewVote
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&vote).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = model.ReviewVote{ReviewID: reviewID, UserID: userID}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Review{}).
				Where("id = ?", reviewID).
				UpdateColumn("helpful_count", gorm.Expr("helpful_count + ?", 1)).Error; err != nil {
				return err
			}
			voted = true
		case err != nil:
			return err
		default:
			res := tx.Delete(&model.ReviewVote{}, vote.ID)
			if res.Error != nil {
				return res.Error
			}
			// 조회와 삭제 사이에 다른 트랜잭션이 먼저 지운 경우: 카운터는 이미 반영됐으므로 건드리지 않는다
			if res.RowsAffected > 0 {
				if err := tx.Model(&model.Review{}).
					Where("id = ?", reviewID).
					UpdateColumn("helpful_count", gorm.Expr("CASE WHEN helpful_count > 0 THEN helpful_count - 1 ELSE 0 END")).Error; err != nil {
					return err
				}
			}
			voted = false
		}

		var review model.Review
		if err := tx.Select("helpful_count").First(&review, reviewID).Error; err != nil {
			return err
		}
		newCount = review.HelpfulCount
		return nil
	})

	return voted, newCount, err
}

// VotedReviewIDs 주어진 리뷰들 중 사용자가 도움됨을 누른 리뷰 ID 목록
func (r *reviewRepository) VotedReviewIDs(userID uint, reviewIDs []uint) ([]uint, error) {
	if len(reviewIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.Model(&model.ReviewVote{}).
		Where("user_id = ? AND review_id IN ?", userID, reviewIDs).
		Pluck("review_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
