package services_test

import (
	"testing"
	"time"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/core/domain"
	"sipinjam/internal/core/services"

	"github.com/stretchr/testify/assert"
)

func TestFine(t *testing.T) {
	assert.Equal(t, int64(0), services.Fine(0, 5000))
	assert.Equal(t, int64(0), services.Fine(-3, 5000))
	assert.Equal(t, int64(5000), services.Fine(1, 5000))
	assert.Equal(t, int64(15000), services.Fine(3, 5000))
	assert.Equal(t, int64(30000), services.Fine(3, 10000))
}

func TestDaysLate(t *testing.T) {
	planned := date(2026, time.March, 10)

	assert.Equal(t, 0, services.DaysLate(planned, planned), "return on the planned date is on time")
	assert.Equal(t, 0, services.DaysLate(planned, date(2026, time.March, 8)), "early return is not negative")
	assert.Equal(t, 1, services.DaysLate(planned, date(2026, time.March, 11)))
	assert.Equal(t, 2, services.DaysLate(planned, date(2026, time.March, 12)))

	// Time of day never counts, only whole calendar days
	lateEvening := time.Date(2026, time.March, 10, 23, 45, 0, 0, time.UTC)
	assert.Equal(t, 0, services.DaysLate(planned, lateEvening))
	earlyMorning := time.Date(2026, time.March, 11, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, 1, services.DaysLate(planned, earlyMorning))
}

func TestIsOverdue(t *testing.T) {
	rencana := date(2026, time.March, 10)
	loan := &models.Peminjaman{
		Status:                domain.StatusDipinjam,
		TanggalKembaliRencana: rencana,
	}

	assert.False(t, services.IsOverdue(loan, date(2026, time.March, 9)))
	assert.False(t, services.IsOverdue(loan, rencana), "not overdue on the due date itself")
	assert.True(t, services.IsOverdue(loan, date(2026, time.March, 11)))

	// Only active loans can be overdue, whatever the dates say
	for _, status := range []domain.Status{
		domain.StatusMenunggu,
		domain.StatusDisetujui,
		domain.StatusDikembalikan,
		domain.StatusDitolak,
	} {
		loan.Status = status
		assert.False(t, services.IsOverdue(loan, date(2026, time.March, 20)), "status %s", status)
	}
}
