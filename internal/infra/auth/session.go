package auth

import (
	"net/http"
	"time"
)

// Session управляет cookie, в которой браузер держит сессионный артефакт.
// Cookie недоступна из JS (HttpOnly); Secure включается вне development,
// потому что локальный фронтенд ходит по http.
type Session struct {
	name   string
	maxAge time.Duration
	secure bool
	codec  *Codec
}

func NewSession(name string, maxAge time.Duration, secure bool, codec *Codec) *Session {
	return &Session{name: name, maxAge: maxAge, secure: secure, codec: codec}
}

// Write выпускает артефакт для bearer-токена и ставит cookie.
func (s *Session) Write(w http.ResponseWriter, bearerToken string) error {
	artifact, err := s.codec.Encode(bearerToken)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    artifact,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear уничтожает сессию на стороне браузера (logout).
func (s *Session) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read достает артефакт из запроса и распаковывает bearer-токен.
// Отсутствие cookie и невалидный артефакт различаются только для вызывающего
// кода middleware (наружу оба случая выглядят одинаково).
func (s *Session) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.name)
	if err != nil {
		return "", http.ErrNoCookie
	}

	claims, err := s.codec.Decode(cookie.Value)
	if err != nil {
		return "", err
	}
	return claims.Token, nil
}
