package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
	"github.com/glowsouk/glowsouk-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// CreateReview 리뷰 작성
// @Summary 리뷰 작성 (제품당 1건)
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "제품 ID"
// @Param review body object true "리뷰 정보"
// @Success 201 {object} model.Review
// @Router /products/{id}/reviews [post]
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 제품 ID입니다")
		return
	}

	var input struct {
		Rating     int      `json:"rating" binding:"required,min=1,max=5"`
		ReviewText string   `json:"review_text"`
		ImageURLs  []string `json:"image_urls"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, service.CreateReviewInput{
		ProductID:  uint(productID),
		Rating:     input.Rating,
		ReviewText: input.ReviewText,
		ImageURLs:  input.ImageURLs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewProductMissing):
			apperrors.NotFound(c, apperrors.ProductNotFound, "제품을 찾을 수 없습니다")
		case errors.Is(err, service.ErrReviewAlreadyExists):
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "이미 이 제품에 리뷰를 작성하셨습니다")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "평점은 1~5 사이의 값이어야 합니다")
		default:
			apperrors.InternalError(c, "리뷰 작성에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetProductReviews 제품 리뷰 피드 조회
// @Summary 제품 리뷰 목록 (정렬/평점 필터)
// @Tags Reviews
// @Produce json
// @Param id path int true "제품 ID"
// @Param sort query string false "정렬 기준 (newest|highest|most_helpful)" default(newest)
// @Param rating query int false "평점 필터 (1-5)"
// @Param page query int false "페이지" default(1)
// @Param page_size query int false "페이지 크기" default(20)
// @Success 200 {object} object
// @Router /products/{id}/reviews [get]
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 제품 ID입니다")
		return
	}

	sort := repository.ReviewSort(c.DefaultQuery("sort", "newest"))
	switch sort {
	case repository.ReviewSortNewest, repository.ReviewSortHighest, repository.ReviewSortMostHelpful:
	default:
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 정렬 기준입니다")
		return
	}

	var rating *int
	if ratingStr := c.Query("rating"); ratingStr != "" {
		r, err := strconv.Atoi(ratingStr)
		if err != nil || r < 1 || r > 5 {
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "평점 필터는 1~5 사이의 값이어야 합니다")
			return
		}
		rating = &r
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	// 비로그인 조회도 허용 — 로그인 상태면 투표 여부를 함께 내린다
	var viewerID *uint
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	feed, err := ctrl.reviewService.GetProductReviews(uint(productID), repository.ReviewListOptions{
		Sort:   sort,
		Rating: rating,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}, viewerID)
	if err != nil {
		if errors.Is(err, service.ErrReviewProductMissing) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "제품을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "리뷰 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":             feed.Reviews,
		"total":            feed.Total,
		"voted_review_ids": feed.VotedReviewIDs,
		"page":             page,
		"page_size":        pageSize,
	})
}

// GetMyReviews 내 리뷰 목록 조회
// @Summary 내가 작성한 리뷰 목록
// @Tags Reviews
// @Produce json
// @Param page query int false "페이지" default(1)
// @Param page_size query int false "페이지 크기" default(20)
// @Success 200 {object} object
// @Router /users/me/reviews [get]
func (ctrl *ReviewController) GetMyReviews(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, total, err := ctrl.reviewService.GetUserReviews(userID, (page-1)*pageSize, pageSize)
	if err != nil {
		apperrors.InternalError(c, "리뷰 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      reviews,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// DeleteReview 리뷰 삭제
// @Summary 리뷰 삭제 (작성자 또는 관리자)
// @Tags Reviews
// @Param id path int true "리뷰 ID"
// @Success 204
// @Router /reviews/{id} [delete]
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	role, _ := middleware.GetUserRole(c)

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 리뷰 ID입니다")
		return
	}

	if err := ctrl.reviewService.DeleteReview(uint(reviewID), userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotReviewAuthor):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인이 작성한 리뷰만 삭제할 수 있습니다")
		default:
			apperrors.InternalError(c, "리뷰 삭제에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// ToggleHelpfulVote 리뷰 도움됨 토글
// @Summary 리뷰 도움됨/도움됨 취소
// @Tags Reviews
// @Param id path int true "리뷰 ID"
// @Success 200 {object} object
// @Router /reviews/{id}/helpful [post]
func (ctrl *ReviewController) ToggleHelpfulVote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 리뷰 ID입니다")
		return
	}

	voted, count, err := ctrl.reviewService.ToggleHelpfulVote(uint(reviewID), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
		case errors.Is(err, service.ErrCannotVoteOwnReview):
			apperrors.BadRequest(c, apperrors.VoteOwnReview, "본인 리뷰에는 도움됨을 누를 수 없습니다")
		default:
			apperrors.InternalError(c, "도움됨 처리에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"voted":         voted,
		"helpful_count": count,
	})
}
