package service

import (
	"errors"
	"fmt"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound       = errors.New("review not found")
	ErrReviewAlreadyExists  = errors.New("review already exists for this product")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrNotReviewAuthor      = errors.New("not the author of this review")
	ErrCannotVoteOwnReview  = errors.New("cannot vote on own review")
	ErrReviewProductMissing = errors.New("product not found for review")
)

// ReviewBroadcaster 새 리뷰 실시간 전파 (웹소켓 허브가 구현)
type ReviewBroadcaster interface {
	BroadcastNewReview(productID uint, review *model.Review)
}

type CreateReviewInput struct {
	ProductID  uint
	Rating     int
	ReviewText string
	ImageURLs  []string
}

// ReviewFeed 리뷰 피드 응답
// VotedReviewIDs는 로그인 사용자가 도움됨을 누른 리뷰 목록 (비로그인 시 nil).
type ReviewFeed struct {
	Reviews        []model.Review
	Total          int64
	VotedReviewIDs []uint
}

type ReviewService interface {
	CreateReview(userID uint, input CreateReviewInput) (*model.Review, error)
	DeleteReview(reviewID, userID uint, role model.UserRole) error
	GetProductReviews(productID uint, opts repository.ReviewListOptions, viewerID *uint) (*ReviewFeed, error)
	GetUserReviews(userID uint, offset, limit int) ([]model.Review, int64, error)
	ToggleHelpfulVote(reviewID, userID uint) (voted bool, helpfulCount int, err error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	statsSvc    StatsService
	broadcaster ReviewBroadcaster
	voteLocks   *keyedMutex
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	statsSvc StatsService,
	broadcaster ReviewBroadcaster,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		statsSvc:    statsSvc,
		broadcaster: broadcaster,
		voteLocks:   newKeyedMutex(),
	}
}

// CreateReview 리뷰 작성
// 제품당 사용자 1건 제한은 DB 유니크 제약이 최종 심판 — 동시 중복 제출도 한 건만 남는다.
// 리뷰 저장 성공 후 통계 반영이 실패하면 리뷰는 유지하고 야간 재계산이 복구한다.
func (s *reviewService) CreateReview(userID uint, input CreateReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewProductMissing
		}
		return nil, err
	}

	review := &model.Review{
		ProductID:  input.ProductID,
		UserID:     userID,
		Rating:     input.Rating,
		ReviewText: input.ReviewText,
		ImageURLs:  pq.StringArray(input.ImageURLs),
	}

	if err := s.reviewRepo.Create(review); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrReviewAlreadyExists
		}
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": input.ProductID,
		})
		return nil, err
	}

	if err := s.statsSvc.ApplyAdd(input.ProductID, input.Rating); err != nil {
		// 리뷰는 이미 저장됨 — 통계는 재계산 경로가 따라잡는다
		logger.Error("Review saved but stats update failed", err, map[string]interface{}{
			"review_id":  review.ID,
			"product_id": input.ProductID,
		})
	}

	created, err := s.reviewRepo.FindByID(review.ID)
	if err != nil {
		return review, nil
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastNewReview(input.ProductID, created)
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  created.ID,
		"product_id": input.ProductID,
		"user_id":    userID,
		"rating":     input.Rating,
	})
	return created, nil
}

// DeleteReview 리뷰 삭제 (작성자 본인 또는 관리자)
func (s *reviewService) DeleteReview(reviewID, userID uint, role model.UserRole) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.UserID != userID && role != model.RoleAdmin {
		return ErrNotReviewAuthor
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	if err := s.statsSvc.ApplyRemove(review.ProductID, review.Rating); err != nil {
		logger.Error("Review deleted but stats update failed", err, map[string]interface{}{
			"review_id":  reviewID,
			"product_id": review.ProductID,
		})
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":  reviewID,
		"product_id": review.ProductID,
		"deleted_by": userID,
	})
	return nil
}

// GetProductReviews 제품 리뷰 피드
// 로그인 사용자면 본인이 투표한 리뷰 ID를 함께 내려 프론트가 상태를 그리게 한다.
func (s *reviewService) GetProductReviews(productID uint, opts repository.ReviewListOptions, viewerID *uint) (*ReviewFeed, error) {
	if opts.Rating != nil && (*opts.Rating < 1 || *opts.Rating > 5) {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewProductMissing
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.FindByProduct(productID, opts)
	if err != nil {
		return nil, err
	}

	feed := &ReviewFeed{Reviews: reviews, Total: total}
	if viewerID != nil && len(reviews) > 0 {
		ids := make([]uint, 0, len(reviews))
		for _, rv := range reviews {
			ids = append(ids, rv.ID)
		}
		voted, err := s.reviewRepo.VotedReviewIDs(*viewerID, ids)
		if err != nil {
			logger.Warn("Failed to load viewer vote state", map[string]interface{}{
				"user_id": *viewerID,
				"error":   err.Error(),
			})
		} else {
			feed.VotedReviewIDs = voted
		}
	}
	return feed, nil
}

func (s *reviewService) GetUserReviews(userID uint, offset, limit int) ([]model.Review, int64, error) {
	return s.reviewRepo.FindByUser(userID, offset, limit)
}

// ToggleHelpfulVote 도움됨 투표 토글
// 이미 투표했으면 취소, 아니면 추가. 본인 리뷰에는 투표 불가.
// 같은 (사용자, 리뷰) 쌍의 토글은 키 락으로 직렬화한다 — 조회-삭제 교차로
// 카운터가 두 번 내려가는 일을 막는다.
func (s *reviewService) ToggleHelpfulVote(reviewID, userID uint) (bool, int, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrReviewNotFound
		}
		return false, 0, err
	}

	if review.UserID == userID {
		return false, 0, ErrCannotVoteOwnReview
	}

	unlock := s.voteLocks.Lock(fmt.Sprintf("vote:%d:%d", userID, reviewID))
	defer unlock()

	voted, count, err := s.reviewRepo.ToggleVote(reviewID, userID)
	if err != nil {
		// 동시 토글이 유니크 제약에 걸린 경우: 상태가 방금 바뀐 것이므로 재시도 한 번
		if apperrors.IsDuplicateKey(err) {
			voted, count, err = s.reviewRepo.ToggleVote(reviewID, userID)
		}
		if err != nil {
			logger.Error("Failed to toggle helpful vote", err, map[string]interface{}{
				"review_id": reviewID,
				"user_id":   userID,
			})
			return false, 0, err
		}
	}
	return voted, count, nil
}
