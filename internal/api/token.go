// Package api はJWT Bearerトークン認証付きの管理HTTP APIを提供する。
package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// ErrInvalidToken はトークン検証失敗のエラー
var ErrInvalidToken = errors.New("invalid token")

// Claims は管理APIトークンのペイロードを表す
type Claims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager はHS256署名のBearerトークンを発行・検証する。
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager は新しいTokenManagerを生成する。
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl}
}

// Issue は管理者アカウントのトークンを発行する。
func (t *TokenManager) Issue(admin *model.Admin) (string, error) {
	now := time.Now()
	claims := &Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証しClaimsを返す。
// 署名不正・期限切れ・方式不一致はすべてErrInvalidToken。
func (t *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
