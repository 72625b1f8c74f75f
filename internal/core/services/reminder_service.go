package services

import (
	"context"
	"log"
	"time"

	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/config"

	"github.com/robfig/cron/v3"
)

// ReminderService scans for overdue loans every morning and logs a
// reminder per loan with the fine accruing so far. Overdue is never
// written back to the loan row; it stays a derived state.
type ReminderService struct {
	cron           *cron.Cron
	peminjamanRepo *repositories.PeminjamanRepository
	dailyRate      int64
}

// NewReminderService creates a new reminder service
func NewReminderService(peminjamanRepo *repositories.PeminjamanRepository, cfg *config.Config) *ReminderService {
	return &ReminderService{
		peminjamanRepo: peminjamanRepo,
		dailyRate:      cfg.Engine.FineDailyRate,
	}
}

// Start schedules the daily overdue scan (08:00)
func (s *ReminderService) Start() {
	s.cron = cron.New()
	s.cron.AddFunc("0 8 * * *", s.CheckOverdue)
	s.cron.Start()
	log.Println("🚀 ReminderService started (daily overdue scan at 08:00)")
}

// Stop stops the cron scheduler
func (s *ReminderService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Println("🛑 ReminderService stopped")
}

// CheckOverdue logs every dipinjam loan past its planned return date
func (s *ReminderService) CheckOverdue() {
	today := time.Now()
	loans, err := s.peminjamanRepo.ListOverdue(context.Background(), today)
	if err != nil {
		log.Printf("❌ Overdue scan failed: %v", err)
		return
	}

	for _, loan := range loans {
		daysLate := DaysLate(loan.TanggalKembaliRencana, today)
		log.Printf("⚠️ Peminjaman %s terlambat %d hari (peminjam: %s, alat: %s, perkiraan denda: %d)",
			loan.Kode, daysLate, loan.Peminjam.Nama, loan.Alat.Nama, Fine(daysLate, s.dailyRate))
	}

	if len(loans) == 0 {
		log.Println("✅ Overdue scan: no overdue loans")
	}
}
