package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

func TestHTTPStatus(t *testing.T) {
	tests := map[apperror.ErrorCode]int{
		apperror.ErrCodeNotFound:      http.StatusNotFound,
		apperror.ErrCodeForbidden:     http.StatusForbidden,
		apperror.ErrCodeValidation:    http.StatusBadRequest,
		apperror.ErrCodeStateConflict: http.StatusConflict,
		apperror.ErrCodeQuotaExceeded: http.StatusPaymentRequired,
		apperror.ErrCodeRateLimited:   http.StatusTooManyRequests,
		apperror.ErrCodeDatabaseError: http.StatusInternalServerError,
	}
	for code, status := range tests {
		assert.Equal(t, status, apperror.New(code, "x").HTTPStatus, code)
	}
}

func TestWrapAndCodeOf(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("proposal: %w", apperror.Wrap(cause, apperror.ErrCodeDatabaseError, "не удалось сохранить"))

	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by: connection reset")

	assert.True(t, apperror.IsQuotaExceeded(apperror.ErrProposalLimitReached))
	assert.True(t, apperror.IsStateConflict(apperror.ErrCompletionNotPending))
	assert.True(t, apperror.IsNotFound(apperror.ErrGigNotFound))
	assert.Empty(t, apperror.CodeOf(cause))
}
