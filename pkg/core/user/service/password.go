package service

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "dofe-blog/pkg/common/errors"
)

const (
	MinPasswordLength = 8
	SpecialCharacters = "!@#$%^&*()-+?_=,<>/"

	bcryptMaxInput = 72
)

// ValidatePassword 密码规则按固定顺序检查，返回第一条不满足的规则
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &apperrors.PolicyViolation{Rule: apperrors.RuleMinLength}
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return &apperrors.PolicyViolation{Rule: apperrors.RuleDigit}
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return &apperrors.PolicyViolation{Rule: apperrors.RuleUpper}
	}
	if !strings.ContainsAny(password, SpecialCharacters) {
		return &apperrors.PolicyViolation{Rule: apperrors.RuleSpecial}
	}
	return nil
}

// Hasher turns raw passwords into stored hashes and checks login attempts.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify relies on bcrypt's constant-time comparison.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// bcrypt 只接受 72 字节以内的输入，更长的密码先做 SHA-256 压缩
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
