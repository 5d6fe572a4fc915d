package repository

import (
	"testing"
	"time"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/db"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewTest(t *testing.T) (*gorm.DB, ReviewRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewReviewRepository(testDB)
	return testDB, repo
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hashed",
		Username:     email,
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name string) *model.Product {
	product := &model.Product{
		Brand:    "글로우랩",
		Name:     name,
		Category: model.CategorySkincare,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestReviewRepository_Create(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestUser(t, testDB, "reviewer@test.com")
	product := createTestProduct(t, testDB, "수분 세럼")

	review := &model.Review{
		ProductID:  product.ID,
		UserID:     user.ID,
		Rating:     5,
		ReviewText: "촉촉하고 흡수가 빨라요",
		ImageURLs:  pq.StringArray{"https://cdn.test/r1.jpg"},
	}

	err := repo.Create(review)
	assert.NoError(t, err)
	assert.NotZero(t, review.ID)
}

func TestReviewRepository_Create_DuplicatePerProduct(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestUser(t, testDB, "reviewer@test.com")
	product := createTestProduct(t, testDB, "수분 세럼")

	first := &model.Review{ProductID: product.ID, UserID: user.ID, Rating: 4}
	require.NoError(t, repo.Create(first))

	// 같은 사용자가 같은 제품에 두 번째 리뷰 — 유니크 제약 위반
	second := &model.Review{ProductID: product.ID, UserID: user.ID, Rating: 5}
	err := repo.Create(second)
	assert.Error(t, err)

	// 다른 제품에는 작성 가능
	other := createTestProduct(t, testDB, "시카 수면팩")
	third := &model.Review{ProductID: other.ID, UserID: user.ID, Rating: 3}
	assert.NoError(t, repo.Create(third))
}

func TestReviewRepository_Delete_AllowsRewrite(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestUser(t, testDB, "reviewer@test.com")
	voter := createTestUser(t, testDB, "voter@test.com")
	product := createTestProduct(t, testDB, "수분 세럼")

	review := &model.Review{ProductID: product.ID, UserID: user.ID, Rating: 4}
	require.NoError(t, repo.Create(review))

	_, _, err := repo.ToggleVote(review.ID, voter.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(review.ID))

	// 투표 레저도 같이 삭제됨
	var voteCount int64
	testDB.Model(&model.ReviewVote{}).Where("review_id = ?", review.ID).Count(&voteCount)
	assert.Zero(t, voteCount)

	// 삭제 후 재작성 가능 (하드 삭제로 유니크 제약이 풀림)
	rewrite := &model.Review{ProductID: product.ID, UserID: user.ID, Rating: 2}
	assert.NoError(t, repo.Create(rewrite))
}

func TestReviewRepository_FindByProduct_Sorting(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, testDB, "수분 세럼")
	now := time.Now()

	// 작성 시각과 평점, 도움됨 수를 달리한 리뷰 3건
	seed := []struct {
		email   string
		rating  int
		helpful int
		age     time.Duration
	}{
		{"a@test.com", 3, 5, 3 * time.Hour},
		{"b@test.com", 5, 1, 2 * time.Hour},
		{"c@test.com", 4, 5, 1 * time.Hour},
	}
	ids := make(map[string]uint)
	for _, s := range seed {
		user := createTestUser(t, testDB, s.email)
		review := &model.Review{
			ProductID:    product.ID,
			UserID:       user.ID,
			Rating:       s.rating,
			HelpfulCount: s.helpful,
			CreatedAt:    now.Add(-s.age),
		}
		require.NoError(t, repo.Create(review))
		ids[s.email] = review.ID
	}

	t.Run("Newest first", func(t *testing.T) {
		reviews, total, err := repo.FindByProduct(product.ID, ReviewListOptions{Sort: ReviewSortNewest})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, reviews, 3)
		assert.Equal(t, ids["c@test.com"], reviews[0].ID)
		assert.Equal(t, ids["b@test.com"], reviews[1].ID)
		assert.Equal(t, ids["a@test.com"], reviews[2].ID)
	})

	t.Run("Highest rating first", func(t *testing.T) {
		reviews, _, err := repo.FindByProduct(product.ID, ReviewListOptions{Sort: ReviewSortHighest})
		require.NoError(t, err)
		require.Len(t, reviews, 3)
		assert.Equal(t, 5, reviews[0].Rating)
		assert.Equal(t, 4, reviews[1].Rating)
		assert.Equal(t, 3, reviews[2].Rating)
	})

	t.Run("Most helpful with recency tie-break", func(t *testing.T) {
		reviews, _, err := repo.FindByProduct(product.ID, ReviewListOptions{Sort: ReviewSortMostHelpful})
		require.NoError(t, err)
		require.Len(t, reviews, 3)
		// 도움됨 5 동점은 더 최근 리뷰가 먼저
		assert.Equal(t, ids["c@test.com"], reviews[0].ID)
		assert.Equal(t, ids["a@test.com"], reviews[1].ID)
		assert.Equal(t, ids["b@test.com"], reviews[2].ID)
	})
}

func TestReviewRepository_FindByProduct_RatingFilter(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, testDB, "수분 세럼")
	for i, rating := range []int{5, 3, 5, 1} {
		user := createTestUser(t, testDB, string(rune('a'+i))+"@test.com")
		require.NoError(t, repo.Create(&model.Review{
			ProductID: product.ID,
			UserID:    user.ID,
			Rating:    rating,
		}))
	}

	rating := 5
	reviews, total, err := repo.FindByProduct(product.ID, ReviewListOptions{
		Sort:   ReviewSortNewest,
		Rating: &rating,
	})
	require.NoError(t, err)
	// 필터는 정렬/페이지네이션 전에 적용 — 총계도 필터 기준
	assert.Equal(t, int64(2), total)
	require.Len(t, reviews, 2)
	for _, review := range reviews {
		assert.Equal(t, 5, review.Rating)
	}
}

func TestReviewRepository_CountByRating(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, testDB, "수분 세럼")
	for i, rating := range []int{5, 5, 4, 1} {
		user := createTestUser(t, testDB, string(rune('a'+i))+"@test.com")
		require.NoError(t, repo.Create(&model.Review{
			ProductID: product.ID,
			UserID:    user.ID,
			Rating:    rating,
		}))
	}

	counts, err := repo.CountByRating(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[5])
	assert.Equal(t, int64(1), counts[4])
	assert.Equal(t, int64(0), counts[3])
	assert.Equal(t, int64(0), counts[2])
	assert.Equal(t, int64(1), counts[1])
}

func TestReviewRepository_AggregateSince(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, testDB, "수분 세럼")
	other := createTestProduct(t, testDB, "시카 수면팩")
	now := time.Now()

	// 기간 내 2건, 기간 밖 1건
	inWindow := []struct {
		email  string
		rating int
	}{
		{"a@test.com", 5},
		{"b@test.com", 4},
	}
	for _, s := range inWindow {
		user := createTestUser(t, testDB, s.email)
		require.NoError(t, repo.Create(&model.Review{
			ProductID: product.ID,
			UserID:    user.ID,
			Rating:    s.rating,
			CreatedAt: now.Add(-2 * 24 * time.Hour),
		}))
	}
	oldUser := createTestUser(t, testDB, "old@test.com")
	require.NoError(t, repo.Create(&model.Review{
		ProductID: product.ID,
		UserID:    oldUser.ID,
		Rating:    1,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
	}))

	aggs, err := repo.AggregateSince(now.Add(-7 * 24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, product.ID, aggs[0].ProductID)
	assert.Equal(t, int64(9), aggs[0].RatingSum)
	assert.Equal(t, int64(2), aggs[0].ReviewCount)

	// 기간 내 리뷰가 없는 제품은 집계에 등장하지 않음
	for _, agg := range aggs {
		assert.NotEqual(t, other.ID, agg.ProductID)
	}
}

func TestReviewRepository_ToggleVote(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	author := createTestUser(t, testDB, "author@test.com")
	voter := createTestUser(t, testDB, "voter@test.com")
	product := createTestProduct(t, testDB, "수분 세럼")

	review := &model.Review{ProductID: product.ID, UserID: author.ID, Rating: 5}
	require.NoError(t, repo.Create(review))

	// 첫 토글: 투표 추가
	voted, count, err := repo.ToggleVote(review.ID, voter.ID)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, 1, count)

	// 두 번째 토글: 투표 취소 — 원상 복구
	voted, count, err = repo.ToggleVote(review.ID, voter.ID)
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, 0, count)

	var ledgerCount int64
	testDB.Model(&model.ReviewVote{}).Where("review_id = ?", review.ID).Count(&ledgerCount)
	assert.Zero(t, ledgerCount)
}

func TestReviewRepository_ToggleVote_CounterFloor(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	author := createTestUser(t, testDB, "author@test.com")
	voter := createTestUser(t, testDB, "voter@test.com")
	product := createTestProduct(t, testDB, "수분 세럼")

	review := &model.Review{ProductID: product.ID, UserID: author.ID, Rating: 5}
	require.NoError(t, repo.Create(review))

	// 카운터가 어긋나 레저에는 투표가 있는데 카운터가 0인 상황
	_, _, err := repo.ToggleVote(review.ID, voter.ID)
	require.NoError(t, err)
	require.NoError(t, testDB.Model(&model.Review{}).
		Where("id = ?", review.ID).
		UpdateColumn("helpful_count", 0).Error)

	// 취소해도 카운터는 0 밑으로 내려가지 않는다
	voted, count, err := repo.ToggleVote(review.ID, voter.ID)
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, 0, count)
}

func TestReviewRepository_VotedReviewIDs(t *testing.T) {
	testDB, repo := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	author := createTestUser(t, testDB, "author@test.com")
	voter := createTestUser(t, testDB, "voter@test.com")
	product := createTestProduct(t, testDB, "수분 세럼")
	other := createTestProduct(t, testDB, "시카 수면팩")

	first := &model.Review{ProductID: product.ID, UserID: author.ID, Rating: 5}
	second := &model.Review{ProductID: other.ID, UserID: author.ID, Rating: 4}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	_, _, err := repo.ToggleVote(first.ID, voter.ID)
	require.NoError(t, err)

	ids, err := repo.VotedReviewIDs(voter.ID, []uint{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID}, ids)

	// 빈 입력은 조회 없이 nil 반환
	ids, err = repo.VotedReviewIDs(voter.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, ids)
}
