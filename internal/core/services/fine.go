package services

import (
	"time"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/core/domain"
)

// Fine computes the late fee for a return: daysLate * dailyRate.
// Zero for on-time or early returns. Supplemental fines for damage or loss
// are a manual staff adjustment layered on top, never computed here.
func Fine(daysLate int, dailyRate int64) int64 {
	if daysLate <= 0 {
		return 0
	}
	return int64(daysLate) * dailyRate
}

// DaysLate returns the number of whole days actual falls after planned,
// never negative. A return dated exactly on the planned date is 0 days late.
func DaysLate(planned, actual time.Time) int {
	p := startOfDay(planned)
	a := startOfDay(actual)
	if !a.After(p) {
		return 0
	}
	return int(a.Sub(p).Hours() / 24)
}

// IsOverdue reports whether a loan is out past its planned return date.
// Overdue is a derived display state: it is never stored, so it can never
// go stale against the date it depends on.
func IsOverdue(p *models.Peminjaman, today time.Time) bool {
	if p.Status != domain.StatusDipinjam {
		return false
	}
	return startOfDay(today).After(startOfDay(p.TanggalKembaliRencana))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
