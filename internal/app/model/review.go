package model

import (
	"time"

	"github.com/lib/pq"
)

// Review 제품 리뷰 모델
// (user_id, product_id) 쌍에 대해 유일 — 한 사용자는 제품당 하나의 리뷰만 작성 가능.
// 소프트 삭제를 쓰지 않음: 운영 삭제 시 유니크 제약이 풀려 재작성이 가능해야 하고,
// 통계 재계산이 살아있는 행만 보게 된다.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ProductID uint    `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"product_id"` // 제품 ID
	Product   Product `gorm:"foreignKey:ProductID" json:"-"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"user_id"` // 작성자 ID
	User      User    `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Rating     int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"` // 평점 (1-5)
	ReviewText string         `gorm:"type:text" json:"review_text,omitempty"`                   // 리뷰 내용 (선택)
	ImageURLs  pq.StringArray `gorm:"type:text[]" json:"image_urls,omitempty"`                  // 리뷰 이미지 URL 배열

	// 통계 (비정규화 카운터, ReviewVote 레저가 동기화 유지)
	HelpfulCount int `gorm:"not null;default:0" json:"helpful_count"` // 도움됨 수

	Votes []ReviewVote `gorm:"foreignKey:ReviewID" json:"-"` // 도움됨 투표 목록
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewVote 리뷰 도움됨 투표 모델
// (user_id, review_id) 쌍에 대해 유일. 토글로만 생성/삭제되고 수정되지 않는다.
type ReviewVote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ReviewID uint `gorm:"not null;uniqueIndex:idx_review_user_vote" json:"review_id"` // 리뷰 ID
	UserID   uint `gorm:"not null;uniqueIndex:idx_review_user_vote" json:"user_id"`   // 투표한 사용자 ID

	Review Review `gorm:"foreignKey:ReviewID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

func (ReviewVote) TableName() string {
	return "review_votes"
}
