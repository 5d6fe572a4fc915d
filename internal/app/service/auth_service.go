package service

import (
	"errors"

	"github.com/glowsouk/glowsouk-backend/config"
	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"github.com/glowsouk/glowsouk-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSkinType    = errors.New("invalid skin type")
)

type RegisterInput struct {
	Email       string
	Password    string
	SkinType    model.SkinType
	Nationality string
}

type UpdateProfileInput struct {
	Username    string
	SkinType    model.SkinType
	Nationality string
	AvatarURL   string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	RefreshTokens(refreshToken string) (*util.TokenPair, error)
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}
}

// Register 회원가입
// 닉네임은 자동 생성 — 충돌하면 몇 번 다시 뽑는다. 이후 프로필에서 변경 가능.
func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	if input.SkinType != "" && !model.ValidSkinType(input.SkinType) {
		return nil, nil, ErrInvalidSkinType
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	username := util.GenerateUsername()
	for i := 0; i < 5; i++ {
		exists, err := s.userRepo.ExistsByUsername(username)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			break
		}
		username = util.GenerateUsername()
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hash,
		Username:     username,
		SkinType:     input.SkinType,
		Nationality:  input.Nationality,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

// Login 로그인
// 이메일 미존재와 비밀번호 불일치를 구분하지 않는다.
func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

// RefreshTokens 리프레시 토큰으로 새 토큰 쌍 발급
func (s *authService) RefreshTokens(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.SkinType != "" && !model.ValidSkinType(input.SkinType) {
		return nil, ErrInvalidSkinType
	}

	if input.Username != "" && input.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(input.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameExists
		}
		user.Username = input.Username
	}
	if input.SkinType != "" {
		user.SkinType = input.SkinType
	}
	if input.Nationality != "" {
		user.Nationality = input.Nationality
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.userRepo.Update(user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	return util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
}
