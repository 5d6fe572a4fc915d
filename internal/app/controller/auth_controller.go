package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
	"github.com/glowsouk/glowsouk-backend/internal/middleware"
	"github.com/glowsouk/glowsouk-backend/pkg/redis"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register 회원가입
// @Summary 회원가입
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body object true "가입 정보"
// @Success 201 {object} object
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var input struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		SkinType    string `json:"skin_type"`
		Nationality string `json:"nationality"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "이메일 형식과 비밀번호(8자 이상)를 확인해주세요")
		return
	}

	user, tokens, err := ctrl.authService.Register(service.RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		SkinType:    model.SkinType(input.SkinType),
		Nationality: input.Nationality,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "이미 사용 중인 이메일입니다")
		case errors.Is(err, service.ErrInvalidSkinType):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 피부 타입입니다")
		default:
			apperrors.InternalError(c, "회원가입에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login 로그인
// @Summary 로그인
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body object true "로그인 정보"
// @Success 200 {object} object
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	user, tokens, err := ctrl.authService.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "이메일 또는 비밀번호가 올바르지 않습니다")
			return
		}
		apperrors.InternalError(c, "로그인에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh 토큰 갱신
// @Summary 리프레시 토큰으로 토큰 쌍 재발급
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body object true "리프레시 토큰"
// @Success 200 {object} util.TokenPair
// @Router /auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "리프레시 토큰이 필요합니다")
		return
	}

	tokens, err := ctrl.authService.RefreshTokens(input.RefreshToken)
	if err != nil {
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "유효하지 않은 리프레시 토큰입니다")
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout 로그아웃
// @Summary 로그아웃 (현재 토큰 폐기)
// @Tags Auth
// @Success 200 {object} object
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	// 남은 유효 기간만큼 블랙리스트에 올린다 (Redis 미가동 시 no-op)
	if err := redis.BlacklistToken(c.Request.Context(), parts[1], 24*time.Hour); err != nil {
		apperrors.InternalError(c, "로그아웃 처리에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "로그아웃되었습니다"})
}

// GetProfile 내 프로필 조회
// @Summary 내 프로필
// @Tags Auth
// @Produce json
// @Success 200 {object} model.User
// @Router /users/me [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	user, err := ctrl.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "프로필 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile 내 프로필 수정
// @Summary 프로필 수정 (닉네임, 피부 타입, 국적, 프로필 이미지)
// @Tags Auth
// @Accept json
// @Produce json
// @Param profile body object true "수정할 정보"
// @Success 200 {object} model.User
// @Router /users/me [put]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var input struct {
		Username    string `json:"username"`
		SkinType    string `json:"skin_type"`
		Nationality string `json:"nationality"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, service.UpdateProfileInput{
		Username:    input.Username,
		SkinType:    model.SkinType(input.SkinType),
		Nationality: input.Nationality,
		AvatarURL:   input.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "이미 사용 중인 닉네임입니다")
		case errors.Is(err, service.ErrInvalidSkinType):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 피부 타입입니다")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
		default:
			apperrors.InternalError(c, "프로필 수정에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
