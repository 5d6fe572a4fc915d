package controller

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
)

type RankingController struct {
	rankingService service.RankingService
}

func NewRankingController(rankingService service.RankingService) *RankingController {
	return &RankingController{
		rankingService: rankingService,
	}
}

// rankingEntryResponse 리더보드 응답 DTO
// 평균 평점은 표시용으로만 소수 둘째 자리까지 반올림한다 (내부 순위 계산은 원본 값).
type rankingEntryResponse struct {
	Rank        int           `json:"rank"`
	Product     model.Product `json:"product"`
	AvgRating   float64       `json:"avg_rating"`
	ReviewCount int           `json:"review_count"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetRanking 제품 리더보드 조회
// @Summary 기간별 제품 랭킹
// @Tags Ranking
// @Produce json
// @Param period query string false "기간 (all|week|month)" default(all)
// @Param category query string false "카테고리 필터"
// @Param sort_by query string false "정렬 기준 (avg_rating|review_count)" default(avg_rating)
// @Param limit query int false "노출 개수" default(20)
// @Success 200 {object} object
// @Router /ranking [get]
func (ctrl *RankingController) GetRanking(c *gin.Context) {
	period := service.RankingPeriod(c.DefaultQuery("period", "all"))
	sortBy := repository.RankSort(c.DefaultQuery("sort_by", "avg_rating"))

	var category *model.ProductCategory
	if categoryStr := c.Query("category"); categoryStr != "" {
		cat := model.ProductCategory(categoryStr)
		if !model.ValidCategory(cat) {
			apperrors.BadRequest(c, apperrors.ProductInvalidCategory, "잘못된 카테고리입니다")
			return
		}
		category = &cat
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit < 0 || limit > 100 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "노출 개수는 1~100 사이여야 합니다")
		return
	}

	ranking, err := ctrl.rankingService.GetRanking(c.Request.Context(), service.RankingQuery{
		Period:   period,
		Category: category,
		SortBy:   sortBy,
		Limit:    limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRankingPeriod):
			apperrors.BadRequest(c, apperrors.RankingInvalidPeriod, "기간은 all, week, month 중 하나여야 합니다")
		case errors.Is(err, service.ErrInvalidRankingSort):
			apperrors.BadRequest(c, apperrors.RankingInvalidSort, "정렬 기준은 avg_rating, review_count 중 하나여야 합니다")
		default:
			apperrors.InternalError(c, "랭킹 조회에 실패했습니다")
		}
		return
	}

	entries := make([]rankingEntryResponse, 0, len(ranking))
	for _, entry := range ranking {
		entries = append(entries, rankingEntryResponse{
			Rank:        entry.Rank,
			Product:     entry.Product,
			AvgRating:   round2(entry.AvgRating),
			ReviewCount: entry.ReviewCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"period":  period,
		"sort_by": sortBy,
		"data":    entries,
	})
}
