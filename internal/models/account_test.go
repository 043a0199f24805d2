package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to AccountStatus
		allowed  bool
	}{
		{StatusOpen, StatusFrozen, true},
		{StatusOpen, StatusBlocked, true},
		{StatusOpen, StatusClosed, true},
		{StatusFrozen, StatusClosed, true},
		{StatusBlocked, StatusClosed, true},
		{StatusFrozen, StatusBlocked, false},
		{StatusBlocked, StatusFrozen, false},
		{StatusFrozen, StatusOpen, false},
		{StatusBlocked, StatusOpen, false},
		{StatusClosed, StatusOpen, false},
		{StatusClosed, StatusFrozen, false},
		{StatusClosed, StatusBlocked, false},
		{StatusClosed, StatusClosed, false},
		{StatusOpen, StatusOpen, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTransitionTo_Close(t *testing.T) {
	now := time.Now().UTC()
	a := Account{Status: StatusFrozen}

	err := a.TransitionTo(StatusClosed, now)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, a.Status)
	require.NotNil(t, a.ClosedAt)
	assert.Equal(t, now, *a.ClosedAt)
	assert.Equal(t, now, a.UpdatedAt)
}

func TestTransitionTo_ClosedAtOnlyOnClose(t *testing.T) {
	a := Account{Status: StatusOpen}

	require.NoError(t, a.TransitionTo(StatusFrozen, time.Now().UTC()))
	assert.Nil(t, a.ClosedAt)
}

func TestTransitionTo_Invalid(t *testing.T) {
	a := Account{Status: StatusClosed}

	err := a.TransitionTo(StatusFrozen, time.Now().UTC())
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusClosed, a.Status, "state must be unchanged on rejection")
}
