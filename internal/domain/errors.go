package domain

import "net/http"

// Error — доменная ошибка шлюза. Несёт готовый HTTP-контракт (статус + message),
// поэтому рендер-слой не должен ничего угадывать. ComingFrom указывает место
// обнаружения и попадает только в логи, наружу не отдаётся.
type Error struct {
	Message    string
	ComingFrom string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

// NewNotAuthorized — сессия отсутствует или артефакт не прошёл проверку.
// Текст намеренно один и тот же для обоих случаев, чтобы не раскрывать причину.
func NewNotAuthorized(message, comingFrom string) *Error {
	return &Error{Message: message, ComingFrom: comingFrom, StatusCode: http.StatusUnauthorized}
}

// NewBadRequest — некорректное состояние запроса (например, защищённый роут без identity).
func NewBadRequest(message, comingFrom string) *Error {
	return &Error{Message: message, ComingFrom: comingFrom, StatusCode: http.StatusBadRequest}
}

// NewNotFound — запрос не совпал ни с одним зарегистрированным роутом.
func NewNotFound(message, comingFrom string) *Error {
	return &Error{Message: message, ComingFrom: comingFrom, StatusCode: http.StatusNotFound}
}

// NewUpstream — бэкенд auth-сервиса вернул ошибку: статус и message
// транслируются вызывающему как есть (включая 400 от валидации на бэкенде).
func NewUpstream(statusCode int, message, comingFrom string) *Error {
	return &Error{Message: message, ComingFrom: comingFrom, StatusCode: statusCode}
}
