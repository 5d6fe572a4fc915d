package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser  UserRole = "user"  // 일반 사용자 권한
	RoleAdmin UserRole = "admin" // 관리자 권한
)

type SkinType string // 피부 타입

const (
	SkinOily        SkinType = "oily"        // 지성
	SkinDry         SkinType = "dry"         // 건성
	SkinCombination SkinType = "combination" // 복합성
	SkinNormal      SkinType = "normal"      // 중성
	SkinSensitive   SkinType = "sensitive"   // 민감성
)

// ValidSkinType 피부 타입 값 검증
func ValidSkinType(s SkinType) bool {
	switch s {
	case SkinOily, SkinDry, SkinCombination, SkinNormal, SkinSensitive:
		return true
	}
	return false
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // 사용자 ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // 이메일
	PasswordHash string         `gorm:"not null" json:"-"`                           // 비밀번호 해시
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`        // 닉네임 (자동 생성, 수정 가능)
	SkinType     SkinType       `gorm:"type:varchar(20)" json:"skin_type,omitempty"` // 피부 타입 (리뷰 신뢰도 참고용)
	Nationality  string         `json:"nationality,omitempty"`                       // 국적 (ISO 국가명)
	AvatarURL    string         `json:"avatar_url,omitempty"`                        // 프로필 이미지 URL
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // 권한
	CreatedAt    time.Time      `json:"created_at"`                                  // 생성 시각
	UpdatedAt    time.Time      `json:"updated_at"`                                  // 수정 시각
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // 삭제 시각(소프트 삭제)

	Reviews []Review `gorm:"foreignKey:UserID" json:"-"` // 작성한 리뷰 목록
}

func (User) TableName() string {
	return "users"
}
