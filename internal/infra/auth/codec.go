package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xela07ax/gigmarket-gateway/internal/domain"
)

// ErrInvalidCredential возвращается на любую проблему с артефактом сессии:
// подпись, просрочка, мусор вместо токена. Причину наружу не раскрываем.
var ErrInvalidCredential = errors.New("invalid session credential")

// Codec выпускает и проверяет сессионный артефакт (JWT в cookie).
// Проверка принимает несколько секретов — это позволяет ротировать ключ
// подписи, не разлогинивая пользователей со старыми cookie.
type Codec struct {
	secrets []string
	ttl     time.Duration
}

func NewCodec(secrets []string, ttl time.Duration) (*Codec, error) {
	if len(secrets) == 0 || secrets[0] == "" {
		return nil, errors.New("at least one signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Codec{secrets: secrets, ttl: ttl}, nil
}

// Encode оборачивает bearer-токен auth-сервиса в подписанный артефакт.
// Подписываем всегда первым (актуальным) секретом, HS512.
func (c *Codec) Encode(bearerToken string) (string, error) {
	now := time.Now()
	claims := &domain.SessionClaims{
		Token: bearerToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(c.secrets[0]))
	if err != nil {
		return "", fmt.Errorf("failed to sign session artifact: %w", err)
	}
	return signed, nil
}

// Decode проверяет артефакт каждым из принятых секретов по очереди.
// Любой исход кроме валидной подписи и живого срока — ErrInvalidCredential.
func (c *Codec) Decode(artifact string) (*domain.SessionClaims, error) {
	for _, secret := range c.secrets {
		claims := &domain.SessionClaims{}
		token, err := jwt.ParseWithClaims(artifact, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err == nil && token.Valid {
			return claims, nil
		}
	}
	return nil, ErrInvalidCredential
}
