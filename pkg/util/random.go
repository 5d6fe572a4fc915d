package util

import (
	"fmt"
	"math/rand"
)

// 닉네임 자동 생성용 단어 목록
var (
	usernameAdjectives = []string{"glowing", "dewy", "velvet", "radiant", "soft", "fresh", "rosy", "silky"}
	usernameNouns      = []string{"petal", "cloud", "pearl", "bloom", "mist", "glow", "blossom", "dew"}
)

// GenerateUsername 무작위 닉네임 생성 (예: dewy-petal-4821)
func GenerateUsername() string {
	adj := usernameAdjectives[rand.Intn(len(usernameAdjectives))]
	noun := usernameNouns[rand.Intn(len(usernameNouns))]
	return fmt.Sprintf("%s-%s-%04d", adj, noun, rand.Intn(10000))
}
