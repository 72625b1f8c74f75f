package services

import (
	"context"
	"log"

	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/config"
	"sipinjam/internal/core/domain"

	"gorm.io/gorm"
)

// LedgerService is the inventory ledger: the only writer of stok_total and
// stok_tersedia. All mutations are conditional updates, so the check and
// the write are one atomic statement per the row they touch.
type LedgerService struct {
	alatRepo       *repositories.AlatRepository
	damagedRestock bool
}

// NewLedgerService creates a new ledger service
func NewLedgerService(alatRepo *repositories.AlatRepository, cfg *config.Config) *LedgerService {
	return &LedgerService{
		alatRepo:       alatRepo,
		damagedRestock: cfg.Engine.DamagedRestock,
	}
}

// WithTx returns a ledger bound to the given transaction
func (s *LedgerService) WithTx(tx *gorm.DB) *LedgerService {
	return &LedgerService{
		alatRepo:       s.alatRepo.WithTx(tx),
		damagedRestock: s.damagedRestock,
	}
}

// Reserve takes qty units out of stok_tersedia. Fails with
// ErrInsufficientStock when fewer than qty units are available; the check
// and decrement are one statement, so two concurrent reservations cannot
// both claim the same units.
func (s *LedgerService) Reserve(ctx context.Context, alatID uint, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	rows, err := s.alatRepo.ReserveStok(ctx, alatID, qty)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// Release puts qty previously-reserved units back into stok_tersedia
// (abandoned reservation, e.g. a rejected loan). Available exceeding total
// means an upstream logic bug: it is surfaced as ErrLedgerCorrupt, never
// clamped.
func (s *LedgerService) Release(ctx context.Context, alatID uint, qty int) error {
	if qty == 0 {
		return nil
	}
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}

	rows, err := s.alatRepo.ReleaseStok(ctx, alatID, qty)
	if err != nil {
		return err
	}
	if rows == 0 {
		log.Printf("❌ Ledger invariant violated: release of %d units on alat %d would push available over total", qty, alatID)
		return domain.ErrLedgerCorrupt
	}
	return nil
}

// RestoreGood returns qty units that came back in good condition to
// stok_tersedia. Same guard as Release.
func (s *LedgerService) RestoreGood(ctx context.Context, alatID uint, qty int) error {
	return s.Release(ctx, alatID, qty)
}

// Retire permanently removes qty lost units from stok_total. The units were
// already reserved out of stok_tersedia, so only the total shrinks.
func (s *LedgerService) Retire(ctx context.Context, alatID uint, qty int) error {
	if qty == 0 {
		return nil
	}
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}

	rows, err := s.alatRepo.RetireStok(ctx, alatID, qty)
	if err != nil {
		return err
	}
	if rows == 0 {
		log.Printf("❌ Ledger invariant violated: retiring %d units on alat %d would push total under available", qty, alatID)
		return domain.ErrLedgerCorrupt
	}
	return nil
}

// ReturnDamaged handles qty units that came back rusak. Under the default
// policy they stay counted in stok_total but out of stok_tersedia until a
// maintenance workflow clears them; with DAMAGED_RESTOCK they go straight
// back into circulation.
func (s *LedgerService) ReturnDamaged(ctx context.Context, alatID uint, qty int) error {
	if qty == 0 {
		return nil
	}
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}

	if s.damagedRestock {
		return s.Release(ctx, alatID, qty)
	}
	return nil
}
