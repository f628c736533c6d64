package xerrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundfClassifiesAndFormats(t *testing.T) {
	err := NotFoundf("Liquidity Account not found with name: %s", "Checking")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Liquidity Account not found with name: Checking", err.Error())
}

func TestInvalidInputfClassifies(t *testing.T) {
	err := InvalidInputf("amount must be non-negative")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestWrappedSentinelSurvives(t *testing.T) {
	err := fmt.Errorf("posting failed: %w", NotFoundf("Cash Movement Not Found"))
	assert.ErrorIs(t, err, ErrNotFound)
}
