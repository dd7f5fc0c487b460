package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xela07ax/gigmarket-gateway/internal/domain"
)

// TokenVerifier проверяет bearer-токен, выданный auth-сервисом.
// Секрет общий с бэкендом (HMAC): шлюз токены не выпускает, только читает.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify разбирает токен в identity вызывающего.
func (v *TokenVerifier) Verify(tokenStr string) (*domain.AuthPayload, error) {
	tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
	tokenStr = strings.TrimSpace(tokenStr)

	payload := &domain.AuthPayload{}
	token, err := jwt.ParseWithClaims(tokenStr, payload, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return payload, nil
}
