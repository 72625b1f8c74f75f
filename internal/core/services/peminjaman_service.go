package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/core/domain"
	"sipinjam/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PeminjamanService is the loan state machine. Every transition re-checks
// the current status inside the transaction that writes the new one, so
// concurrent staff actions on the same loan resolve to one winner.
type PeminjamanService struct {
	db             *gorm.DB
	peminjamanRepo *repositories.PeminjamanRepository
	alatRepo       *repositories.AlatRepository
	ledger         *LedgerService
	audit          *AuditService
}

// NewPeminjamanService creates a new peminjaman service
func NewPeminjamanService(
	db *gorm.DB,
	peminjamanRepo *repositories.PeminjamanRepository,
	alatRepo *repositories.AlatRepository,
	ledger *LedgerService,
	audit *AuditService,
) *PeminjamanService {
	return &PeminjamanService{
		db:             db,
		peminjamanRepo: peminjamanRepo,
		alatRepo:       alatRepo,
		ledger:         ledger,
		audit:          audit,
	}
}

// SubmitInput represents a borrow request submission
type SubmitInput struct {
	AlatID                uint      `json:"alat_id" validate:"required"`
	Jumlah                int       `json:"jumlah" validate:"required,gt=0"`
	TanggalPinjam         time.Time `json:"tanggal_pinjam" validate:"required"`
	TanggalKembaliRencana time.Time `json:"tanggal_kembali_rencana" validate:"required"`
	Keperluan             string    `json:"keperluan,omitempty"`
}

// Submit creates a loan in menunggu and reserves the requested units
// immediately, so pending requests cannot overbook the same stock between
// submission and approval.
func (s *PeminjamanService) Submit(ctx context.Context, input *SubmitInput, peminjamID uint) (*models.Peminjaman, error) {
	if input.Jumlah <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.TanggalKembaliRencana.Before(input.TanggalPinjam) {
		return nil, domain.ErrInvalidDateRange
	}

	var created *models.Peminjaman
	err := s.db.Transaction(func(tx *gorm.DB) error {
		alat, err := s.alatRepo.WithTx(tx).GetByID(ctx, input.AlatID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if alat.Status == models.AlatStatusMaintenance {
			return domain.ErrToolUnderMaintenance
		}

		if err := s.ledger.WithTx(tx).Reserve(ctx, alat.ID, input.Jumlah); err != nil {
			return err
		}

		p := &models.Peminjaman{
			Kode:                  generateKode(),
			PeminjamID:            peminjamID,
			AlatID:                alat.ID,
			Jumlah:                input.Jumlah,
			TanggalPinjam:         input.TanggalPinjam,
			TanggalKembaliRencana: input.TanggalKembaliRencana,
			Keperluan:             input.Keperluan,
			Status:                domain.StatusMenunggu,
		}
		if err := s.peminjamanRepo.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}

		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(peminjamID, models.ActionCreate, "peminjaman", created.ID,
		fmt.Sprintf("Pengajuan peminjaman %s: %d unit alat #%d", created.Kode, created.Jumlah, created.AlatID))

	return created, nil
}

// Approve moves a loan from menunggu to disetujui. Stock was already
// reserved at submission, so approval touches no stock.
func (s *PeminjamanService) Approve(ctx context.Context, loanID, validatorID uint) (*models.Peminjaman, error) {
	now := time.Now()
	p, err := s.applyTransition(ctx, loanID, domain.StatusMenunggu, domain.StatusDisetujui,
		map[string]interface{}{
			"validator_id": validatorID,
			"validated_at": now,
		}, nil)
	if err != nil {
		return nil, err
	}

	s.audit.Record(validatorID, models.ActionApprove, "peminjaman", p.ID,
		fmt.Sprintf("Menyetujui peminjaman %s", p.Kode))
	return p, nil
}

// Reject moves a loan from menunggu to ditolak and releases the reserved
// units back to stok_tersedia. A reason is required and stored as the
// validation note.
func (s *PeminjamanService) Reject(ctx context.Context, loanID, validatorID uint, reason string) (*models.Peminjaman, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrMissingReason
	}

	now := time.Now()
	p, err := s.applyTransition(ctx, loanID, domain.StatusMenunggu, domain.StatusDitolak,
		map[string]interface{}{
			"validator_id":     validatorID,
			"validated_at":     now,
			"catatan_validasi": reason,
		},
		func(tx *gorm.DB, p *models.Peminjaman) error {
			return s.ledger.WithTx(tx).Release(ctx, p.AlatID, p.Jumlah)
		})
	if err != nil {
		return nil, err
	}

	s.audit.Record(validatorID, models.ActionReject, "peminjaman", p.ID,
		fmt.Sprintf("Menolak peminjaman %s: %s", p.Kode, reason))
	return p, nil
}

// Lend moves a loan from disetujui to dipinjam, recording the physical
// handover. The units stay reserved; nothing changes on the ledger.
func (s *PeminjamanService) Lend(ctx context.Context, loanID, validatorID uint) (*models.Peminjaman, error) {
	p, err := s.applyTransition(ctx, loanID, domain.StatusDisetujui, domain.StatusDipinjam, nil, nil)
	if err != nil {
		return nil, err
	}

	s.audit.Record(validatorID, models.ActionLend, "peminjaman", p.ID,
		fmt.Sprintf("Menyerahkan alat untuk peminjaman %s", p.Kode))
	return p, nil
}

// applyTransition runs one CAS-guarded status transition plus any extra
// work in the same transaction. The loser of a concurrent transition race
// gets an InvalidTransitionError, never a silent overwrite.
func (s *PeminjamanService) applyTransition(
	ctx context.Context,
	loanID uint,
	from, to domain.Status,
	extra map[string]interface{},
	inTx func(tx *gorm.DB, p *models.Peminjaman) error,
) (*models.Peminjaman, error) {
	var out *models.Peminjaman
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.peminjamanRepo.WithTx(tx)

		p, err := repo.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if p.Status != from {
			return &domain.InvalidTransitionError{From: p.Status, To: to}
		}

		rows, err := repo.UpdateStatusCAS(ctx, loanID, from, to, extra)
		if err != nil {
			return err
		}
		if rows == 0 {
			return &domain.InvalidTransitionError{From: p.Status, To: to}
		}

		if inTx != nil {
			if err := inTx(tx, p); err != nil {
				return err
			}
		}

		out, err = repo.GetByID(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a loan with its relations
func (s *PeminjamanService) GetByID(ctx context.Context, loanID uint) (*models.Peminjaman, error) {
	p, err := s.peminjamanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns loans filtered by optional status
func (s *PeminjamanService) List(ctx context.Context, params *pagination.Params, status domain.Status) ([]PeminjamanView, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, domain.ErrInvalidInput
	}

	list, total, err := s.peminjamanRepo.List(ctx, params, status)
	if err != nil {
		return nil, 0, err
	}
	return toViews(list), total, nil
}

// ListMine returns the caller's own loans
func (s *PeminjamanService) ListMine(ctx context.Context, peminjamID uint, params *pagination.Params) ([]PeminjamanView, int64, error) {
	list, total, err := s.peminjamanRepo.ListByPeminjam(ctx, peminjamID, params)
	if err != nil {
		return nil, 0, err
	}
	return toViews(list), total, nil
}

// PeminjamanView decorates a loan with its derived overdue state
type PeminjamanView struct {
	models.Peminjaman
	Terlambat     bool `json:"terlambat"`
	HariTerlambat int  `json:"hari_terlambat"`
}

// NewPeminjamanView computes the derived overdue fields as of today
func NewPeminjamanView(p models.Peminjaman, today time.Time) PeminjamanView {
	view := PeminjamanView{Peminjaman: p}
	if IsOverdue(&p, today) {
		view.Terlambat = true
		view.HariTerlambat = DaysLate(p.TanggalKembaliRencana, today)
	}
	return view
}

func toViews(list []models.Peminjaman) []PeminjamanView {
	today := time.Now()
	views := make([]PeminjamanView, len(list))
	for i, p := range list {
		views[i] = NewPeminjamanView(p, today)
	}
	return views
}

// generateKode builds a unique human code for a loan. The uuid-derived
// suffix keeps concurrent submissions from colliding, unlike a count+1
// sequence.
func generateKode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PJM-%s-%s", time.Now().Format("20060102"), suffix)
}
