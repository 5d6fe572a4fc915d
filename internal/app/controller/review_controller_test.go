package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	"github.com/glowsouk/glowsouk-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reviewControllerFixture struct {
	db         *gorm.DB
	controller *ReviewController
	service    service.ReviewService
	user       *model.User
	product    *model.Product
}

func setupReviewControllerTest(t *testing.T) *reviewControllerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	statsRepo := repository.NewStatsRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	statsSvc := service.NewStatsService(statsRepo, productRepo)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo, statsSvc, nil)

	user := &model.User{
		Email:        "reviewer@example.com",
		PasswordHash: "hashed-password",
		Username:     "reviewer",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Brand:    "글로우랩",
		Name:     "수분 진정 세럼",
		Category: model.CategorySkincare,
	}
	require.NoError(t, testDB.Create(product).Error)

	return &reviewControllerFixture{
		db:         testDB,
		controller: NewReviewController(reviewSvc),
		service:    reviewSvc,
		user:       user,
		product:    product,
	}
}

// newAuthedRouter 인증 미들웨어 대신 사용자 정보를 직접 주입
func newAuthedRouter(user *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", user.ID)
			c.Set("user_role", user.Role)
			c.Next()
		})
	}
	return router
}

func TestReviewController_CreateReview(t *testing.T) {
	f := setupReviewControllerTest(t)

	router := newAuthedRouter(f.user)
	router.POST("/products/:id/reviews", f.controller.CreateReview)

	body, _ := json.Marshal(map[string]interface{}{
		"rating":      5,
		"review_text": "순하고 촉촉해요",
	})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/products/%d/reviews", f.product.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var created model.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 5, created.Rating)
	assert.Equal(t, f.product.ID, created.ProductID)
}

func TestReviewController_CreateReview_Duplicate(t *testing.T) {
	f := setupReviewControllerTest(t)

	router := newAuthedRouter(f.user)
	router.POST("/products/:id/reviews", f.controller.CreateReview)

	body, _ := json.Marshal(map[string]interface{}{"rating": 4})
	url := fmt.Sprintf("/products/%d/reviews", f.product.ID)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// 같은 제품에 두 번째 작성 — 409
	body, _ = json.Marshal(map[string]interface{}{"rating": 5})
	req = httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var errResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "REVIEW_ALREADY_EXISTS", errResp["error"])
}

func TestReviewController_CreateReview_InvalidInput(t *testing.T) {
	f := setupReviewControllerTest(t)

	router := newAuthedRouter(f.user)
	router.POST("/products/:id/reviews", f.controller.CreateReview)

	tests := []struct {
		name     string
		url      string
		body     map[string]interface{}
		wantCode int
	}{
		{
			name:     "Rating out of range",
			url:      fmt.Sprintf("/products/%d/reviews", f.product.ID),
			body:     map[string]interface{}{"rating": 6},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Missing rating",
			url:      fmt.Sprintf("/products/%d/reviews", f.product.ID),
			body:     map[string]interface{}{"review_text": "no rating"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Unknown product",
			url:      "/products/9999/reviews",
			body:     map[string]interface{}{"rating": 3},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "Invalid product ID",
			url:      "/products/abc/reviews",
			body:     map[string]interface{}{"rating": 3},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, tt.url, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestReviewController_GetProductReviews(t *testing.T) {
	f := setupReviewControllerTest(t)

	second := &model.User{
		Email:        "second@example.com",
		PasswordHash: "hashed-password",
		Username:     "second",
		Role:         model.RoleUser,
	}
	require.NoError(t, f.db.Create(second).Error)

	_, err := f.service.CreateReview(f.user.ID, service.CreateReviewInput{ProductID: f.product.ID, Rating: 5})
	require.NoError(t, err)
	_, err = f.service.CreateReview(second.ID, service.CreateReviewInput{ProductID: f.product.ID, Rating: 2})
	require.NoError(t, err)

	// 비로그인 라우터
	router := newAuthedRouter(nil)
	router.GET("/products/:id/reviews", f.controller.GetProductReviews)

	t.Run("Default newest feed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d/reviews", f.product.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(2), resp["total"])
		assert.Len(t, resp["data"], 2)
	})

	t.Run("Rating filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d/reviews?rating=5", f.product.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(1), resp["total"])
	})

	t.Run("Invalid sort rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d/reviews?sort=oldest", f.product.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid rating filter rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d/reviews?rating=7", f.product.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReviewController_ToggleHelpfulVote(t *testing.T) {
	f := setupReviewControllerTest(t)

	voter := &model.User{
		Email:        "voter@example.com",
		PasswordHash: "hashed-password",
		Username:     "voter",
		Role:         model.RoleUser,
	}
	require.NoError(t, f.db.Create(voter).Error)

	review, err := f.service.CreateReview(f.user.ID, service.CreateReviewInput{ProductID: f.product.ID, Rating: 5})
	require.NoError(t, err)

	router := newAuthedRouter(voter)
	router.POST("/reviews/:id/helpful", f.controller.ToggleHelpfulVote)

	url := fmt.Sprintf("/reviews/%d/helpful", review.ID)

	// 첫 토글: 투표
	req := httptest.NewRequest(http.MethodPost, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["voted"])
	assert.Equal(t, float64(1), resp["helpful_count"])

	// 두 번째 토글: 취소
	req = httptest.NewRequest(http.MethodPost, url, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["voted"])
	assert.Equal(t, float64(0), resp["helpful_count"])

	// 본인 리뷰에 투표 시도 — 400
	authorRouter := newAuthedRouter(f.user)
	authorRouter.POST("/reviews/:id/helpful", f.controller.ToggleHelpfulVote)
	req = httptest.NewRequest(http.MethodPost, url, nil)
	w = httptest.NewRecorder()
	authorRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "VOTE_OWN_REVIEW", errResp["error"])
}

func TestReviewController_DeleteReview(t *testing.T) {
	f := setupReviewControllerTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hashed-password",
		Username:     "other",
		Role:         model.RoleUser,
	}
	require.NoError(t, f.db.Create(other).Error)

	review, err := f.service.CreateReview(f.user.ID, service.CreateReviewInput{ProductID: f.product.ID, Rating: 5})
	require.NoError(t, err)

	url := fmt.Sprintf("/reviews/%d", review.ID)

	// 타인은 403
	otherRouter := newAuthedRouter(other)
	otherRouter.DELETE("/reviews/:id", f.controller.DeleteReview)
	req := httptest.NewRequest(http.MethodDelete, url, nil)
	w := httptest.NewRecorder()
	otherRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 작성자는 204
	authorRouter := newAuthedRouter(f.user)
	authorRouter.DELETE("/reviews/:id", f.controller.DeleteReview)
	req = httptest.NewRequest(http.MethodDelete, url, nil)
	w = httptest.NewRecorder()
	authorRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// 이미 삭제됨 — 404
	req = httptest.NewRequest(http.MethodDelete, url, nil)
	w = httptest.NewRecorder()
	authorRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
