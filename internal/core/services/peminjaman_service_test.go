package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/core/domain"
	"sipinjam/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReservesStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	peminjam := env.createUser(t, "budi", domain.RolePeminjam)
	alat := env.createAlat(t, "ALT-001", 5)

	loan, err := env.loans.Submit(ctx,
		submitInput(alat.ID, 2, date(2026, time.March, 1), date(2026, time.March, 5)),
		peminjam.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusMenunggu, loan.Status)
	assert.Equal(t, 2, loan.Jumlah)
	assert.True(t, strings.HasPrefix(loan.Kode, "PJM-"), "kode %q", loan.Kode)

	// Units are held the moment the request exists
	assert.Equal(t, 3, env.reloadAlat(t, alat.ID).StokTersedia)
	assert.Equal(t, 5, env.reloadAlat(t, alat.ID).StokTotal)
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	peminjam := env.createUser(t, "budi", domain.RolePeminjam)
	alat := env.createAlat(t, "ALT-001", 5)

	pinjam := date(2026, time.March, 1)
	rencana := date(2026, time.March, 5)

	t.Run("quantity must be positive", func(t *testing.T) {
		_, err := env.loans.Submit(ctx, submitInput(alat.ID, 0, pinjam, rencana), peminjam.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

		_, err = env.loans.Submit(ctx, submitInput(alat.ID, -1, pinjam, rencana), peminjam.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("return date before loan date", func(t *testing.T) {
		_, err := env.loans.Submit(ctx, submitInput(alat.ID, 1, rencana, pinjam), peminjam.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("same-day loan is allowed", func(t *testing.T) {
		loan, err := env.loans.Submit(ctx, submitInput(alat.ID, 1, pinjam, pinjam), peminjam.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMenunggu, loan.Status)
	})

	t.Run("unknown alat", func(t *testing.T) {
		_, err := env.loans.Submit(ctx, submitInput(9999, 1, pinjam, rencana), peminjam.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("alat under maintenance", func(t *testing.T) {
		rusak := env.createAlat(t, "ALT-002", 3)
		require.NoError(t, env.alat.UpdateStatus(ctx, rusak.ID, models.AlatStatusMaintenance))

		_, err := env.loans.Submit(ctx, submitInput(rusak.ID, 1, pinjam, rencana), peminjam.ID)
		assert.ErrorIs(t, err, domain.ErrToolUnderMaintenance)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		before := env.reloadAlat(t, alat.ID).StokTersedia
		_, err := env.loans.Submit(ctx, submitInput(alat.ID, before+1, pinjam, rencana), peminjam.ID)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		// A failed submission holds nothing
		assert.Equal(t, before, env.reloadAlat(t, alat.ID).StokTersedia)
	})
}

func TestApproveThenLend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	peminjam := env.createUser(t, "budi", domain.RolePeminjam)
	petugas := env.createUser(t, "sari", domain.RolePetugas)
	alat := env.createAlat(t, "ALT-001", 5)

	loan, err := env.loans.Submit(ctx,
		submitInput(alat.ID, 2, date(2026, time.March, 1), date(2026, time.March, 5)),
		peminjam.ID)
	require.NoError(t, err)

	approved, err := env.loans.Approve(ctx, loan.ID, petugas.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisetujui, approved.Status)
	require.NotNil(t, approved.ValidatorID)
	assert.Equal(t, petugas.ID, *approved.ValidatorID)
	assert.NotNil(t, approved.ValidatedAt)

	// Approval never touches stock, the hold is from submission
	assert.Equal(t, 3, env.reloadAlat(t, alat.ID).StokTersedia)

	lent, err := env.loans.Lend(ctx, loan.ID, petugas.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDipinjam, lent.Status)
	assert.Equal(t, 3, env.reloadAlat(t, alat.ID).StokTersedia)
}

func TestRejectReleasesStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	peminjam := env.createUser(t, "budi", domain.RolePeminjam)
	petugas := env.createUser(t, "sari", domain.RolePetugas)
	alat := env.createAlat(t, "ALT-001", 5)

	loan, err := env.loans.Submit(ctx,
		submitInput(alat.ID, 2, date(2026, time.March, 1), date(2026, time.March, 5)),
		peminjam.ID)
	require.NoError(t, err)
	require.Equal(t, 3, env.reloadAlat(t, alat.ID).StokTersedia)

	t.Run("reason is required", func(t *testing.T) {
		_, err := env.loans.Reject(ctx, loan.ID, petugas.ID, "   ")
		assert.ErrorIs(t, err, domain.ErrMissingReason)
		assert.Equal(t, domain.StatusMenunggu, env.reloadLoan(t, loan.ID).Status)
	})

	rejected, err := env.loans.Reject(ctx, loan.ID, petugas.ID, "Stok dialihkan untuk praktikum")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDitolak, rejected.Status)
	assert.Equal(t, "Stok dialihkan untuk praktikum", rejected.CatatanValidasi)

	// The held units come back in the same transaction
	assert.Equal(t, 5, env.reloadAlat(t, alat.ID).StokTersedia)
	assert.Equal(t, 5, env.reloadAlat(t, alat.ID).StokTotal)
}

func TestInvalidTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	peminjam := env.createUser(t, "budi", domain.RolePeminjam)
	petugas := env.createUser(t, "sari", domain.RolePetugas)
	alat := env.createAlat(t, "ALT-001", 5)

	loan, err := env.loans.Submit(ctx,
		submitInput(alat.ID, 1, date(2026, time.March, 1), date(2026, time.March, 5)),
		peminjam.ID)
	require.NoError(t, err)

	t.Run("lend before approval", func(t *testing.T) {
		_, err := env.loans.Lend(ctx, loan.ID, petugas.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		var te *domain.InvalidTransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, domain.StatusMenunggu, te.From)
		assert.Equal(t, domain.StatusDipinjam, te.To)
	})

	_, err = env.loans.Approve(ctx, loan.ID, petugas.ID)
	require.NoError(t, err)

	t.Run("approve twice", func(t *testing.T) {
		_, err := env.loans.Approve(ctx, loan.ID, petugas.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("reject after approval", func(t *testing.T) {
		_, err := env.loans.Reject(ctx, loan.ID, petugas.ID, "terlambat")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	// The failed attempts changed nothing
	assert.Equal(t, domain.StatusDisetujui, env.reloadLoan(t, loan.ID).Status)
	assert.Equal(t, 4, env.reloadAlat(t, alat.ID).StokTersedia)
}

func TestTransitionOnMissingLoan(t *testing.T) {
	env := newTestEnv(t)
	petugas := env.createUser(t, "sari", domain.RolePetugas)

	_, err := env.loans.Approve(context.Background(), 9999, petugas.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Two peminjam race for the last unit. Exactly one submission may win;
// the loser gets ErrInsufficientStock and the ledger never goes negative.
func TestConcurrentSubmitLastUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	budi := env.createUser(t, "budi", domain.RolePeminjam)
	tono := env.createUser(t, "tono", domain.RolePeminjam)
	alat := env.createAlat(t, "ALT-001", 1)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, uid := range []uint{budi.ID, tono.ID} {
		wg.Add(1)
		go func(i int, uid uint) {
			defer wg.Done()
			_, errs[i] = env.loans.Submit(ctx,
				submitInput(alat.ID, 1, date(2026, time.March, 1), date(2026, time.March, 5)),
				uid)
		}(i, uid)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, 0, env.reloadAlat(t, alat.ID).StokTersedia)
}

func TestListFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	peminjam := env.createUser(t, "budi", domain.RolePeminjam)
	petugas := env.createUser(t, "sari", domain.RolePetugas)
	alat := env.createAlat(t, "ALT-001", 10)

	first, err := env.loans.Submit(ctx,
		submitInput(alat.ID, 1, date(2026, time.March, 1), date(2026, time.March, 5)),
		peminjam.ID)
	require.NoError(t, err)
	_, err = env.loans.Submit(ctx,
		submitInput(alat.ID, 1, date(2026, time.March, 1), date(2026, time.March, 5)),
		peminjam.ID)
	require.NoError(t, err)

	_, err = env.loans.Approve(ctx, first.ID, petugas.ID)
	require.NoError(t, err)

	params := testPageParams()

	pending, total, err := env.loans.List(ctx, params, domain.StatusMenunggu)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.StatusMenunggu, pending[0].Status)

	_, _, err = env.loans.List(ctx, params, domain.Status("hilang"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	mine, total, err := env.loans.ListMine(ctx, peminjam.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, mine, 2)
}

func TestPeminjamanViewMarksOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	peminjam := env.createUser(t, "budi", domain.RolePeminjam)
	petugas := env.createUser(t, "sari", domain.RolePetugas)
	alat := env.createAlat(t, "ALT-001", 5)

	loan, err := env.loans.Submit(ctx,
		submitInput(alat.ID, 1, date(2026, time.March, 1), date(2026, time.March, 5)),
		peminjam.ID)
	require.NoError(t, err)
	_, err = env.loans.Approve(ctx, loan.ID, petugas.ID)
	require.NoError(t, err)
	lent, err := env.loans.Lend(ctx, loan.ID, petugas.ID)
	require.NoError(t, err)

	view := services.NewPeminjamanView(*lent, date(2026, time.March, 8))
	assert.True(t, view.Terlambat)
	assert.Equal(t, 3, view.HariTerlambat)

	onTime := services.NewPeminjamanView(*lent, date(2026, time.March, 5))
	assert.False(t, onTime.Terlambat)
	assert.Equal(t, 0, onTime.HariTerlambat)
}
