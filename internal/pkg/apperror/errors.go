package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeStateConflict ErrorCode = "STATE_CONFLICT"
	ErrCodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeStorageError  ErrorCode = "STORAGE_ERROR"
	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeStateConflict:
		return http.StatusConflict
	case ErrCodeQuotaExceeded:
		return http.StatusPaymentRequired
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или пустую строку для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

func IsStateConflict(err error) bool {
	return CodeOf(err) == ErrCodeStateConflict
}

func IsQuotaExceeded(err error) bool {
	return CodeOf(err) == ErrCodeQuotaExceeded
}

var (
	ErrGigNotFound          = New(ErrCodeNotFound, "заказ не найден")
	ErrProposalNotFound     = New(ErrCodeNotFound, "предложение не найдено")
	ErrCompletionNotFound   = New(ErrCodeNotFound, "запрос на завершение не найден")
	ErrConversationNotFound = New(ErrCodeNotFound, "беседа не найдена")
	ErrProfileNotFound      = New(ErrCodeNotFound, "профиль пользователя не найден")
	ErrPlanNotFound         = New(ErrCodeNotFound, "тариф пользователя не найден")
	ErrNotificationNotFound = New(ErrCodeNotFound, "уведомление не найдено")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden            = New(ErrCodeForbidden, "недостаточно прав")

	ErrGigNotInProgress         = New(ErrCodeStateConflict, "заказ не находится в работе")
	ErrCompletionAlreadyPending = New(ErrCodeStateConflict, "запрос на завершение для этого заказа уже ожидает проверки")
	ErrCompletionNotPending     = New(ErrCodeStateConflict, "запрос на завершение уже рассмотрен")
	ErrProposalNotPending       = New(ErrCodeStateConflict, "предложение уже рассмотрено")
	ErrProposalExpired          = New(ErrCodeStateConflict, "срок действия предложения истёк")
	ErrGigNotOpenForProposals   = New(ErrCodeStateConflict, "заказ не принимает предложения")

	ErrContactLimitReached     = New(ErrCodeQuotaExceeded, "лимит просмотров контактов исчерпан, обновите тариф")
	ErrProposalLimitReached    = New(ErrCodeQuotaExceeded, "лимит откликов исчерпан, обновите тариф")
	ErrGigResponseLimitReached = New(ErrCodeQuotaExceeded, "лимит ответов на заказы исчерпан, обновите тариф")
)
