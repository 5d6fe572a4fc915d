package service

import (
	"testing"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*gorm.DB, ProductService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	svc := NewProductService(productRepo, reviewRepo)
	return testDB, svc
}

func TestProductService_CreateProduct(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user := seedUser(t, testDB, "submitter@test.com")

	product, err := svc.CreateProduct(&user.ID, CreateProductInput{
		Brand:    "글로우랩",
		Name:     "수분 진정 세럼",
		Category: model.CategorySkincare,
		Origin:   "대한민국",
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	require.NotNil(t, product.SubmittedBy)
	assert.Equal(t, user.ID, *product.SubmittedBy)

	tests := []struct {
		name    string
		input   CreateProductInput
		wantErr error
	}{
		{
			name:    "Missing brand",
			input:   CreateProductInput{Name: "세럼", Category: model.CategorySkincare},
			wantErr: ErrProductNameNeeded,
		},
		{
			name:    "Missing name",
			input:   CreateProductInput{Brand: "글로우랩", Category: model.CategorySkincare},
			wantErr: ErrProductNameNeeded,
		},
		{
			name:    "Invalid category",
			input:   CreateProductInput{Brand: "글로우랩", Name: "세럼", Category: "electronics"},
			wantErr: ErrInvalidCategory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(nil, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProductService_ListProducts(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.CreateProduct(nil, CreateProductInput{Brand: "글로우랩", Name: "수분 세럼", Category: model.CategorySkincare})
	require.NoError(t, err)
	_, err = svc.CreateProduct(nil, CreateProductInput{Brand: "루미에르", Name: "벨벳 립 틴트", Category: model.CategoryMakeup})
	require.NoError(t, err)

	t.Run("Category filter", func(t *testing.T) {
		category := model.CategoryMakeup
		products, err := svc.ListProducts(repository.ProductFilter{Category: &category})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "벨벳 립 틴트", products[0].Name)
	})

	t.Run("Search by name or brand", func(t *testing.T) {
		products, err := svc.ListProducts(repository.ProductFilter{Search: "세럼"})
		require.NoError(t, err)
		require.Len(t, products, 1)

		products, err = svc.ListProducts(repository.ProductFilter{Search: "루미에르"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "루미에르", products[0].Brand)
	})

	t.Run("Invalid category rejected", func(t *testing.T) {
		bad := model.ProductCategory("toys")
		_, err := svc.ListProducts(repository.ProductFilter{Category: &bad})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestProductService_GetProduct(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	serum := seedProduct(t, testDB, "수분 세럼")
	related := seedProduct(t, testDB, "시카 수면팩")
	tint := &model.Product{Brand: "루미에르", Name: "벨벳 립 틴트", Category: model.CategoryMakeup}
	require.NoError(t, testDB.Create(tint).Error)

	a := seedUser(t, testDB, "a@test.com")
	b := seedUser(t, testDB, "b@test.com")
	seedReview(t, testDB, serum.ID, a.ID, 5)
	seedReview(t, testDB, serum.ID, b.ID, 3)

	detail, err := svc.GetProduct(serum.ID)
	require.NoError(t, err)
	assert.Equal(t, serum.ID, detail.Product.ID)

	// 평점 분포는 1~5점 모두 포함
	assert.Equal(t, int64(1), detail.RatingBreakdown[5])
	assert.Equal(t, int64(1), detail.RatingBreakdown[3])
	assert.Equal(t, int64(0), detail.RatingBreakdown[1])
	assert.Len(t, detail.RatingBreakdown, 5)

	// 연관 제품은 같은 카테고리만, 본인 제외
	require.Len(t, detail.Related, 1)
	assert.Equal(t, related.ID, detail.Related[0].ID)

	_, err = svc.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	product := seedProduct(t, testDB, "수분 세럼")

	updated, err := svc.UpdateProduct(product.ID, CreateProductInput{Name: "수분 진정 세럼 2.0"})
	require.NoError(t, err)
	assert.Equal(t, "수분 진정 세럼 2.0", updated.Name)
	assert.Equal(t, product.Brand, updated.Brand) // 빈 필드는 유지

	_, err = svc.UpdateProduct(product.ID, CreateProductInput{Category: "gadgets"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	require.NoError(t, svc.DeleteProduct(product.ID))
	_, err = svc.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = svc.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
