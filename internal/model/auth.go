package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest はトークン発行APIのリクエストボディ
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse はトークン発行成功時のレスポンス
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Expires     time.Time `json:"expires"`
}

// JWTCustomClaims はJWTに含めるカスタムクレーム（ペイロード）
type JWTCustomClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}
