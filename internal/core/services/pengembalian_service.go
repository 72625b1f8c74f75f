package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/config"
	"sipinjam/internal/core/domain"

	"gorm.io/gorm"
)

// PengembalianService is the return reconciler: it closes a dipinjam loan
// in one transaction spanning the status change, the ledger adjustment,
// and the return record. Either all of it commits or none of it does.
type PengembalianService struct {
	db               *gorm.DB
	peminjamanRepo   *repositories.PeminjamanRepository
	pengembalianRepo *repositories.PengembalianRepository
	ledger           *LedgerService
	audit            *AuditService
	dailyRate        int64
}

// NewPengembalianService creates a new pengembalian service
func NewPengembalianService(
	db *gorm.DB,
	peminjamanRepo *repositories.PeminjamanRepository,
	pengembalianRepo *repositories.PengembalianRepository,
	ledger *LedgerService,
	audit *AuditService,
	cfg *config.Config,
) *PengembalianService {
	return &PengembalianService{
		db:               db,
		peminjamanRepo:   peminjamanRepo,
		pengembalianRepo: pengembalianRepo,
		ledger:           ledger,
		audit:            audit,
		dailyRate:        cfg.Engine.FineDailyRate,
	}
}

// FinalizeInput represents a return submission
type FinalizeInput struct {
	TanggalKembali time.Time `json:"tanggal_kembali"`
	JumlahBaik     int       `json:"jumlah_baik"`
	JumlahRusak    int       `json:"jumlah_rusak"`
	JumlahHilang   int       `json:"jumlah_hilang"`
	Catatan        string    `json:"catatan,omitempty"`
}

// FinalizeReturn closes a dipinjam loan. The unit split must sum exactly
// to the loan quantity; every client pre-validates this, but the engine is
// the authority and re-checks regardless. Days late are computed against
// the given return date, not today, since reconciliation can be backdated.
func (s *PengembalianService) FinalizeReturn(ctx context.Context, loanID uint, input *FinalizeInput, actorID uint) (*models.Pengembalian, error) {
	if input.JumlahBaik < 0 || input.JumlahRusak < 0 || input.JumlahHilang < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	tanggalKembali := input.TanggalKembali
	if tanggalKembali.IsZero() {
		tanggalKembali = time.Now()
	}

	var created *models.Pengembalian
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.peminjamanRepo.WithTx(tx)

		loan, err := repo.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if loan.Status != domain.StatusDipinjam {
			return &domain.InvalidTransitionError{From: loan.Status, To: domain.StatusDikembalikan}
		}

		sum := input.JumlahBaik + input.JumlahRusak + input.JumlahHilang
		if sum != loan.Jumlah {
			return &domain.ReconciliationMismatchError{Expected: loan.Jumlah, Got: sum}
		}

		rows, err := repo.UpdateStatusCAS(ctx, loanID, domain.StatusDipinjam, domain.StatusDikembalikan, nil)
		if err != nil {
			return err
		}
		if rows == 0 {
			return &domain.InvalidTransitionError{From: loan.Status, To: domain.StatusDikembalikan}
		}

		ledger := s.ledger.WithTx(tx)
		if input.JumlahBaik > 0 {
			if err := ledger.RestoreGood(ctx, loan.AlatID, input.JumlahBaik); err != nil {
				return err
			}
		}
		if input.JumlahHilang > 0 {
			if err := ledger.Retire(ctx, loan.AlatID, input.JumlahHilang); err != nil {
				return err
			}
		}
		if err := ledger.ReturnDamaged(ctx, loan.AlatID, input.JumlahRusak); err != nil {
			return err
		}

		hariTerlambat := DaysLate(loan.TanggalKembaliRencana, tanggalKembali)
		p := &models.Pengembalian{
			PeminjamanID:   loan.ID,
			TanggalKembali: tanggalKembali,
			JumlahBaik:     input.JumlahBaik,
			JumlahRusak:    input.JumlahRusak,
			JumlahHilang:   input.JumlahHilang,
			Kondisi:        kondisiLabel(input.JumlahBaik, input.JumlahRusak, input.JumlahHilang),
			Catatan:        input.Catatan,
			HariTerlambat:  hariTerlambat,
			Denda:          Fine(hariTerlambat, s.dailyRate),
		}
		if err := s.pengembalianRepo.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}

		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, models.ActionReturn, "pengembalian", created.ID,
		fmt.Sprintf("Pengembalian peminjaman #%d: baik %d, rusak %d, hilang %d, denda %d",
			loanID, created.JumlahBaik, created.JumlahRusak, created.JumlahHilang, created.Denda))

	return created, nil
}

// AddSupplementalFine adds a staff-discretion fine (damage or loss
// severity) on top of the computed denda. The unit split and the loan
// status are untouched; this is the only mutation a finalized return
// accepts.
func (s *PengembalianService) AddSupplementalFine(ctx context.Context, returnID uint, amount int64, actorID uint) (*models.Pengembalian, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	rows, err := s.pengembalianRepo.AddDendaTambahan(ctx, returnID, amount)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrNotFound
	}

	p, err := s.pengembalianRepo.GetByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, models.ActionFineAdjust, "pengembalian", p.ID,
		fmt.Sprintf("Denda tambahan %d untuk pengembalian #%d (total %d)", amount, p.ID, p.TotalDenda()))

	return p, nil
}

// GetByPeminjaman returns the return record finalizing a loan
func (s *PengembalianService) GetByPeminjaman(ctx context.Context, loanID uint) (*models.Pengembalian, error) {
	p, err := s.pengembalianRepo.GetByPeminjamanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// kondisiLabel derives the aggregate display condition from the unit split
func kondisiLabel(baik, rusak, hilang int) string {
	if rusak == 0 && hilang == 0 {
		return "Baik"
	}

	var parts []string
	if baik > 0 {
		parts = append(parts, fmt.Sprintf("Baik %d", baik))
	}
	if rusak > 0 {
		parts = append(parts, fmt.Sprintf("Rusak %d", rusak))
	}
	if hilang > 0 {
		parts = append(parts, fmt.Sprintf("Hilang %d", hilang))
	}
	return strings.Join(parts, ", ")
}
