package domain

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims — клеймы сессионного артефакта, который шлюз сам выпускает
// для браузера. Внутри лежит bearer-токен, выданный auth-сервисом: так время
// жизни браузерной сессии не привязано к формату токена бэкенда.
type SessionClaims struct {
	Token string `json:"token"`
	jwt.RegisteredClaims
}

// AuthPayload — identity вызывающего, распакованная из bearer-токена.
// Живёт только в контексте одного запроса, никуда не сохраняется.
type AuthPayload struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// AuthResponse — конверт ответа auth-сервиса, который шлюз отдаёт клиенту
// без изменений. User и Token присутствуют не во всех операциях.
type AuthResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token,omitempty"`
	User    json.RawMessage `json:"user,omitempty"`
}

// SearchResponse — конверт поисковых pass-through операций (гиги).
type SearchResponse struct {
	Message string          `json:"message"`
	Total   int64           `json:"total,omitempty"`
	Gigs    json.RawMessage `json:"gigs,omitempty"`
	Gig     json.RawMessage `json:"gig,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type ResendEmailRequest struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
}
