package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingInputError(t *testing.T) {
	err := fmt.Errorf("clean transactions: %w", &MissingInputError{Path: "data/raw/transactions.xlsx"})

	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.False(t, errors.Is(err, ErrPersistence))
	assert.Contains(t, err.Error(), "data/raw/transactions.xlsx")

	var missing *MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "data/raw/transactions.xlsx", missing.Path)
}

func TestNewPersistenceError(t *testing.T) {
	assert.NoError(t, NewPersistenceError("insert", "dim_date", nil))

	cause := errors.New("UNIQUE constraint failed")
	err := NewPersistenceError("insert", "fact_transactions", cause)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "warehouse write failed: insert fact_transactions: UNIQUE constraint failed", err.Error())

	// Already-wrapped errors are not wrapped twice.
	again := NewPersistenceError("commit", "", err)
	assert.Same(t, err, again)
}

func TestUserError(t *testing.T) {
	cause := errors.New("boom")
	err := NewUserError("load failed", cause)
	assert.Equal(t, "load failed: boom", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}
