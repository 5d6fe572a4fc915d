package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// IsDuplicateKey DB 유니크 제약 위반 여부
// PostgreSQL(23505)과 SQLite(테스트 DB) 메시지를 모두 인식한다.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보는 숨기되, 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Unique constraint violation (23505)
	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(errStr)
	}

	// 3. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "참조하는 데이터를 찾을 수 없습니다",
		}
	}

	// 4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{
				Code:    ReviewInvalidRating,
				Message: "평점은 1~5 사이의 값이어야 합니다",
			}
		}
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "입력값이 유효하지 않습니다",
		}
	}

	// 5. 네트워크/연결 에러 — 일시적 저장소 장애로 분류, 재시도는 호출자 몫
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalStoreError,
			Message: "저장소 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	// 6. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요",
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// 이메일 중복
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "이미 사용 중인 이메일입니다",
		}
	}

	// 닉네임 중복
	if strings.Contains(errLower, "username") || strings.Contains(errLower, "idx_users_username") {
		return ErrorInfo{
			Code:    AuthUsernameExists,
			Message: "이미 사용 중인 닉네임입니다",
		}
	}

	// 리뷰 중복 (제품당 1개)
	if strings.Contains(errLower, "idx_reviews_user_product") ||
		(strings.Contains(errLower, "reviews") && strings.Contains(errLower, "user_id")) {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "이미 이 제품에 리뷰를 작성하셨습니다",
		}
	}

	// 도움됨 투표 중복
	if strings.Contains(errLower, "idx_review_user_vote") || strings.Contains(errLower, "review_votes") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "이미 도움됨을 누른 리뷰입니다",
		}
	}

	// 기본 중복 메시지
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") || strings.Contains(contextLower, "제품") {
		return "제품을 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "review") || strings.Contains(contextLower, "리뷰") {
		return "리뷰를 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "사용자") {
		return "사용자를 찾을 수 없습니다"
	}

	return "요청한 데이터를 찾을 수 없습니다"
}
