package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"     // 닉네임 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // 접근 권한 없음
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // 관리자만 가능
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // 작성자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재

	// ==================== 제품 (PRODUCT_) ====================
	ProductNotFound        = "PRODUCT_NOT_FOUND"         // 제품 없음
	ProductInvalidCategory = "PRODUCT_INVALID_CATEGORY"  // 잘못된 카테고리

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"       // 리뷰 없음
	ReviewInvalidRating = "REVIEW_INVALID_RATING"  // 잘못된 평점
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"  // 이미 리뷰 작성함

	// ==================== 도움됨 투표 (VOTE_) ====================
	VoteOwnReview = "VOTE_OWN_REVIEW" // 본인 리뷰에는 투표 불가

	// ==================== 랭킹 (RANKING_) ====================
	RankingInvalidPeriod = "RANKING_INVALID_PERIOD" // 잘못된 기간
	RankingInvalidSort   = "RANKING_INVALID_SORT"   // 잘못된 정렬 기준

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalStoreError    = "INTERNAL_STORE_ERROR"    // 저장소 일시 장애
)
