package util

import (
	"golang.org/x/crypto/bcrypt"
)

// 가입/로그인 경로에서만 쓰이므로 기본값(10)보다 높게 잡는다
const passwordHashCost = 12

// HashPassword 비밀번호를 bcrypt 해시로 변환
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 저장된 해시와 평문 비밀번호 대조
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
