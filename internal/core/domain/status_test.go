package domain_test

import (
	"errors"
	"testing"

	"sipinjam/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	allowed := map[domain.Status][]domain.Status{
		domain.StatusMenunggu:  {domain.StatusDisetujui, domain.StatusDitolak},
		domain.StatusDisetujui: {domain.StatusDipinjam},
		domain.StatusDipinjam:  {domain.StatusDikembalikan},
	}

	all := []domain.Status{
		domain.StatusMenunggu,
		domain.StatusDisetujui,
		domain.StatusDipinjam,
		domain.StatusDitolak,
		domain.StatusDikembalikan,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, domain.StatusMenunggu.IsTerminal())
	assert.False(t, domain.StatusDisetujui.IsTerminal())
	assert.False(t, domain.StatusDipinjam.IsTerminal())
	assert.True(t, domain.StatusDitolak.IsTerminal())
	assert.True(t, domain.StatusDikembalikan.IsTerminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, domain.StatusMenunggu.Valid())
	assert.True(t, domain.StatusDikembalikan.Valid())
	assert.False(t, domain.Status("terlambat").Valid(), "derived states are never stored")
	assert.False(t, domain.Status("").Valid())
}

func TestTransitionErrorMatching(t *testing.T) {
	err := &domain.InvalidTransitionError{
		From: domain.StatusDitolak,
		To:   domain.StatusDipinjam,
	}

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NotErrorIs(t, err, domain.ErrReconciliationMismatch)
	assert.Contains(t, err.Error(), "ditolak")
	assert.Contains(t, err.Error(), "dipinjam")

	var target *domain.InvalidTransitionError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, domain.StatusDitolak, target.From)
}

func TestReconciliationErrorMatching(t *testing.T) {
	err := &domain.ReconciliationMismatchError{Expected: 3, Got: 2}

	assert.ErrorIs(t, err, domain.ErrReconciliationMismatch)
	assert.NotErrorIs(t, err, domain.ErrInvalidTransition)

	var target *domain.ReconciliationMismatchError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 3, target.Expected)
	assert.Equal(t, 2, target.Got)
}
