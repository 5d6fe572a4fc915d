package model

import "time"

// ProductStats 제품별 리뷰 집계 통계
// 리뷰 스트림에서 파생된 투영(projection)이며 원본 데이터가 아님.
// 증분 유지되다가 어긋나면 전체 리뷰 재스캔으로 언제든 복구 가능해야 한다.
type ProductStats struct {
	ProductID   uint      `gorm:"primarykey" json:"product_id"`           // 제품 ID
	AvgRating   float64   `gorm:"not null;default:0" json:"avg_rating"`   // 평균 평점 (내부 전체 정밀도, 표시 시에만 반올림)
	ReviewCount int       `gorm:"not null;default:0" json:"review_count"` // 리뷰 수
	UpdatedAt   time.Time `json:"updated_at"`                             // 마지막 집계 시각
}

func (ProductStats) TableName() string {
	return "product_stats"
}
