package errreport

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestReport_WritesLogEntry(t *testing.T) {
	var buf bytes.Buffer
	out := logger.Log.Out
	logger.Log.SetOutput(&buf)
	defer logger.Log.SetOutput(out)

	Report(context.Background(), errors.New("boom"), "не удалось завершить заказ", logrus.Fields{"gig_id": "g-1"})

	assert.Contains(t, buf.String(), "не удалось завершить заказ")
	assert.Contains(t, buf.String(), "g-1")
	assert.Contains(t, buf.String(), "boom")
}

func TestReport_NilErrorIsIgnored(t *testing.T) {
	var buf bytes.Buffer
	out := logger.Log.Out
	logger.Log.SetOutput(&buf)
	defer logger.Log.SetOutput(out)

	Report(context.Background(), nil, "ничего", nil)
	assert.Empty(t, buf.String())
}

func TestInit_EmptyDSN(t *testing.T) {
	assert.NoError(t, Init("", "test"))
}
